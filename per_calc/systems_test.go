package per_calc

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func _gas_boiler() *SystemSpec {
	return &SystemSpec{
		id:             1,
		name:           "gas_boiler",
		service:        ServiceHeating,
		system_type:    "boiler_condensing",
		eta_gen:        0.9,
		f_dist:         0.05,
		f_stor:         0.0,
		carrier_shares: map[Carrier]float64{CarrierGas: 1.0},
	}
}

func TestGrossDemandLossChain(t *testing.T) {
	// 100 MJ nets, 10 % de pertes de distribution et 5 % de stockage
	// => 100 * 1.1 * 1.05 = 115.5 MJ bruts
	s := &SystemSpec{
		id:             2,
		service:        ServiceDHW,
		eta_gen:        0.9,
		f_dist:         0.10,
		f_stor:         0.05,
		carrier_shares: map[Carrier]float64{CarrierGas: 1.0},
	}
	g := ComputeGrossDemand(_const_vec(100.0), s)
	if g.Status() != StatusServed {
		t.Fatalf("expected served status, got %s", g.Status())
	}
	for m := 0; m < NMonths; m++ {
		if !approxEqual(g.q_gross_m.AtVec(m), 115.5, tolerance) {
			t.Errorf("month %d: expected gross 115.5, got %g", m+1, g.q_gross_m.AtVec(m))
		}
	}
}

func TestGrossDemandIdentityWithoutLosses(t *testing.T) {
	s := _gas_boiler()
	s.f_dist = 0.0
	s.f_stor = 0.0
	q_net_m := _const_vec(321.5)
	g := ComputeGrossDemand(q_net_m, s)
	for m := 0; m < NMonths; m++ {
		if g.q_gross_m.AtVec(m) != q_net_m.AtVec(m) {
			t.Errorf("month %d: expected gross = net, got %g", m+1, g.q_gross_m.AtVec(m))
		}
	}
}

func TestGrossDemandNeverBelowNet(t *testing.T) {
	s := _gas_boiler()
	q_net_m := _const_vec(250.0)
	g := ComputeGrossDemand(q_net_m, s)
	for m := 0; m < NMonths; m++ {
		if g.q_gross_m.AtVec(m) < q_net_m.AtVec(m) {
			t.Fatalf("month %d: gross %g below net %g", m+1, g.q_gross_m.AtVec(m), q_net_m.AtVec(m))
		}
	}
}

func TestUnservedDemandStream(t *testing.T) {
	// flux sans système: statut unserved, pas un zéro numérique
	g := ComputeGrossDemand(_const_vec(100.0), nil)
	if g.Status() != StatusUnserved {
		t.Fatalf("expected unserved status, got %s", g.Status())
	}
	if g.Gross() != nil {
		t.Error("expected no gross series for an unserved stream")
	}

	f := ComputeFinalEnergy(g, nil)
	if f.Status() != StatusUnserved {
		t.Fatalf("expected unserved final energy, got %s", f.Status())
	}
	if len(f.ByCarrier()) != 0 {
		t.Error("expected no carrier series for an unserved stream")
	}
}

func TestFinalEnergyEfficiencyChain(t *testing.T) {
	s := _gas_boiler()
	g := ComputeGrossDemand(_const_vec(100.0), s)
	f := ComputeFinalEnergy(g, s)

	// brut = 105 MJ, rendement 0.9 => 116.67 MJ de gaz
	want := 100.0 * 1.05 / 0.9
	q_m, ok := f.ByCarrier()[CarrierGas]
	if !ok {
		t.Fatal("expected a gas series")
	}
	if !approxEqual(q_m.AtVec(0), want, 1e-9) {
		t.Errorf("expected final energy %g, got %g", want, q_m.AtVec(0))
	}
}

func TestFinalEnergyCoolingCOP(t *testing.T) {
	s := &SystemSpec{
		id:             3,
		service:        ServiceCooling,
		system_type:    "split_ac",
		eta_gen:        3.0, // EER
		carrier_shares: map[Carrier]float64{CarrierElectricity: 1.0},
	}
	g := ComputeGrossDemand(_const_vec(300.0), s)
	f := ComputeFinalEnergy(g, s)

	q_m := f.ByCarrier()[CarrierElectricity]
	if !approxEqual(q_m.AtVec(0), 100.0, tolerance) {
		t.Errorf("expected 100 MJ of electricity at EER 3, got %g", q_m.AtVec(0))
	}
}

func TestFinalEnergyHybridSplit(t *testing.T) {
	// pompe à chaleur hybride: 60 % électricité, 40 % gaz d'appoint
	s := &SystemSpec{
		id:      4,
		service: ServiceHeating,
		eta_gen: 1.0,
		carrier_shares: map[Carrier]float64{
			CarrierElectricity: 0.6,
			CarrierGas:         0.4,
		},
	}
	g := ComputeGrossDemand(_const_vec(100.0), s)
	f := ComputeFinalEnergy(g, s)

	if q_m := f.ByCarrier()[CarrierElectricity]; !approxEqual(q_m.AtVec(0), 60.0, tolerance) {
		t.Errorf("expected 60 MJ electricity, got %g", q_m.AtVec(0))
	}
	if q_m := f.ByCarrier()[CarrierGas]; !approxEqual(q_m.AtVec(0), 40.0, tolerance) {
		t.Errorf("expected 40 MJ gas, got %g", q_m.AtVec(0))
	}
}

func TestMergeFinalByCarrier(t *testing.T) {
	// deux systèmes partagent le vecteur gaz: la déclaration se fait
	// par vecteur, tous systèmes confondus
	s1 := _gas_boiler()
	s2 := &SystemSpec{
		id:             5,
		service:        ServiceDHW,
		eta_gen:        1.0,
		carrier_shares: map[Carrier]float64{CarrierGas: 1.0},
	}
	f1 := ComputeFinalEnergy(ComputeGrossDemand(_const_vec(90.0), s1), s1)  // 90*1.05/0.9 = 105
	f2 := ComputeFinalEnergy(ComputeGrossDemand(_const_vec(45.0), s2), s2)  // 45
	unserved := ComputeFinalEnergy(ComputeGrossDemand(_const_vec(10.0), nil), nil)

	merged := MergeFinalByCarrier(f1, f2, unserved)
	q_m, ok := merged[CarrierGas]
	if !ok {
		t.Fatal("expected a merged gas series")
	}
	if !approxEqual(q_m.AtVec(0), 150.0, 1e-9) {
		t.Errorf("expected merged gas 150, got %g", q_m.AtVec(0))
	}
	if len(merged) != 1 {
		t.Errorf("expected a single carrier, got %d", len(merged))
	}
}

func TestAuxiliaryOperatingHours(t *testing.T) {
	w := UccleClimate()
	s := _gas_boiler()
	s.aux = []AuxiliaryComponent{
		{name: "pump", p_rated: 50.0, control: ControlContinuous},
	}

	a := ComputeAuxiliary(s, w, nil)
	// janvier: 50 W * 24 h * 31 d => Wh => MJ
	want := 50.0 * 24.0 * 31.0 * 3_600.0 / 1e6
	if !approxEqual(a.Electricity().AtVec(0), want, 1e-9) {
		t.Errorf("expected january auxiliary energy %g, got %g", want, a.Electricity().AtVec(0))
	}
}

func TestAuxiliaryScheduled(t *testing.T) {
	w := UccleClimate()
	s := _gas_boiler()
	s.aux = []AuxiliaryComponent{
		{name: "fan", p_rated: 30.0, control: ControlScheduled, hours_per_day: 8.0},
	}

	a := ComputeAuxiliary(s, w, nil)
	want := 30.0 * 8.0 * 31.0 * 3_600.0 / 1e6
	if !approxEqual(a.Electricity().AtVec(0), want, 1e-9) {
		t.Errorf("expected january auxiliary energy %g, got %g", want, a.Electricity().AtVec(0))
	}
}

func TestAuxiliaryDemandLinked(t *testing.T) {
	w := UccleClimate()
	s := _gas_boiler()
	s.aux = []AuxiliaryComponent{
		{name: "pump", p_rated: 50.0, control: ControlDemandLinked},
	}

	// charge de janvier maximale, juillet nulle
	q_net_m := mat.NewVecDense(NMonths, nil)
	q_net_m.SetVec(0, 800.0)
	q_net_m.SetVec(6, 0.0)
	q_net_m.SetVec(3, 400.0)
	hours := NewHoursModel(q_net_m)

	a := ComputeAuxiliary(s, w, hours)
	jan := 50.0 * 24.0 * 31.0 * 3_600.0 / 1e6
	if !approxEqual(a.Electricity().AtVec(0), jan, 1e-9) {
		t.Errorf("expected full-load january %g, got %g", jan, a.Electricity().AtVec(0))
	}
	if a.Electricity().AtVec(6) != 0 {
		t.Errorf("expected zero july auxiliary energy, got %g", a.Electricity().AtVec(6))
	}
	apr := 50.0 * 24.0 * 30.0 * 3_600.0 / 1e6 * 0.5
	if !approxEqual(a.Electricity().AtVec(3), apr, 1e-9) {
		t.Errorf("expected half-load april %g, got %g", apr, a.Electricity().AtVec(3))
	}
}

func TestNewSystemSpecValidation(t *testing.T) {
	base := func() SystemJson {
		return SystemJson{
			Id:         1,
			Name:       "boiler",
			Service:    "heating",
			Efficiency: 0.9,
			Carriers:   []CarrierShareJson{{Carrier: "gas", Share: 1.0}},
		}
	}

	d := base()
	if _, err := NewSystemSpec(&d); err != nil {
		t.Fatalf("valid system rejected: %v", err)
	}

	d = base()
	d.Efficiency = 0.0
	if _, err := NewSystemSpec(&d); err == nil {
		t.Error("expected an error for a missing efficiency")
	}

	d = base()
	d.DistributionLoss = -0.1
	if _, err := NewSystemSpec(&d); err == nil {
		t.Error("expected an error for a negative loss fraction")
	}

	d = base()
	d.Carriers = []CarrierShareJson{{Carrier: "gas", Share: 0.7}}
	if _, err := NewSystemSpec(&d); err == nil {
		t.Error("expected an error for carrier shares not summing to 1")
	}

	d = base()
	d.Carriers = []CarrierShareJson{{Carrier: "plutonium", Share: 1.0}}
	if _, err := NewSystemSpec(&d); err == nil {
		t.Error("expected an error for an unknown carrier")
	}

	d = base()
	d.Service = "laundry"
	if _, err := NewSystemSpec(&d); err == nil {
		t.Error("expected an error for an unknown service")
	}
}

func TestAuxiliaryAlwaysFinite(t *testing.T) {
	w := UccleClimate()
	a := ComputeAuxiliary(nil, w, nil)
	for m := 0; m < NMonths; m++ {
		if v := a.Electricity().AtVec(m); v != 0 || math.IsNaN(v) {
			t.Fatalf("month %d: expected zero auxiliary energy without a system, got %g", m+1, v)
		}
	}
}
