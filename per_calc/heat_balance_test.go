package per_calc

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// Séries de flux fabriquées: déperditions constantes q_loss (portées
// par la transmission), gains constants q_gain (portés par les gains
// internes), coefficient de transfert h.
func _craft_flows(q_gain, q_loss, h float64) *GainsLosses {
	zero := mat.NewVecDense(NMonths, nil)
	return &GainsLosses{
		q_trans_heat_m: _const_vec(q_loss),
		q_inf_heat_m:   zero,
		q_vent_heat_m:  zero,
		q_trans_cool_m: _const_vec(q_loss),
		q_inf_cool_m:   zero,
		q_vent_cool_m:  zero,
		q_sol_m:        zero,
		q_int_m:        _const_vec(q_gain),
		h_trans:        h,
		h_inf:          0,
		h_vent_heat:    0,
		h_vent_cool_m:  mat.NewVecDense(NMonths, nil),
	}
}

func TestUtilisationFactorLimitAtOne(t *testing.T) {
	a := 2.0
	want := a / (a + 1.0)
	if got := _utilisation_factor(a, 1.0); !approxEqual(got, want, tolerance) {
		t.Errorf("expected limit %g at gamma=1, got %g", want, got)
	}
}

func TestUtilisationFactorContinuityAroundOne(t *testing.T) {
	// la forme fermée converge vers a/(a+1) de part et d'autre de gamma=1
	a := 1.8
	limit := a / (a + 1.0)
	for _, r := range []float64{1.0 - 1e-6, 1.0 + 1e-6} {
		got := _utilisation_factor(a, r)
		if !approxEqual(got, limit, 1e-4) {
			t.Errorf("gamma=%g: expected ~%g, got %g", r, limit, got)
		}
	}
}

func TestUtilisationFactorBoundaries(t *testing.T) {
	a := 2.5
	if got := _utilisation_factor(a, 0.0); got != 1.0 {
		t.Errorf("gamma=0: expected 1, got %g", got)
	}
	if got := _utilisation_factor(a, math.Inf(1)); got != 0.0 {
		t.Errorf("gamma=inf: expected 0, got %g", got)
	}
	// asymptote 1/gamma pour les grands rapports
	if got := _utilisation_factor(a, 1e6); !approxEqual(got, 1e-6, 1e-9) {
		t.Errorf("large gamma: expected ~1e-6, got %g", got)
	}
	// repli quand gamma^a déborde en flottant
	if got := _utilisation_factor(400.0, 50.0); !approxEqual(got, 1.0/50.0, 1e-9) {
		t.Errorf("overflowing gamma^a: expected 1/50, got %g", got)
	}
}

func TestBalanceRatioBranches(t *testing.T) {
	if got := _balance_ratio(0.0, 0.0); got != 0.0 {
		t.Errorf("0/0: expected 0, got %g", got)
	}
	if got := _balance_ratio(5.0, 0.0); !math.IsInf(got, 1) {
		t.Errorf("gains without losses: expected +inf, got %g", got)
	}
	if got := _balance_ratio(2.0, 4.0); got != 0.5 {
		t.Errorf("expected 0.5, got %g", got)
	}
}

func TestRegimeRatioSymmetry(t *testing.T) {
	gamma := _regime_ratio(RegimeHeating, 30.0, 60.0)
	lambda := _regime_ratio(RegimeCooling, 30.0, 60.0)
	if gamma != 0.5 || lambda != 2.0 {
		t.Errorf("expected gamma=0.5 lambda=2, got %g and %g", gamma, lambda)
	}
}

func TestNumericParam(t *testing.T) {
	c := DefaultConstants()
	// tau = 10_800_000 / 200 = 54_000 s => a = 1 + 1 = 2
	if got := _numeric_param(c, 10_800_000.0, 200.0); !approxEqual(got, 2.0, tolerance) {
		t.Errorf("expected a=2, got %g", got)
	}
	if got := _numeric_param(c, 10_800_000.0, 0.0); !math.IsInf(got, 1) {
		t.Errorf("zero transfer coefficient: expected a=+inf, got %g", got)
	}
}

// Mois uniformément froids, aucun gain: le besoin net de chauffage vaut
// les déperditions chaque mois et le risque de surchauffe est absent.
func TestColdMonthsWithoutGains(t *testing.T) {
	z := _test_zone()
	c := DefaultConstants()
	gl := _craft_flows(0.0, 500.0, 80.0)

	b := _balance_from_flows(z, gl, c)

	for m := 0; m < NMonths; m++ {
		hb := &b.months[m]
		if !approxEqual(hb.q_heat_net, 500.0, tolerance) {
			t.Errorf("month %d: expected net heating 500, got %g", m+1, hb.q_heat_net)
		}
		if hb.q_cool_net != 0 {
			t.Errorf("month %d: expected zero net cooling, got %g", m+1, hb.q_cool_net)
		}
	}
	if b.OverheatingRisk() {
		t.Error("expected no overheating risk for a loss-dominated zone")
	}
	if b.i_overh != 0 {
		t.Errorf("expected zero overheating degree, got %g", b.i_overh)
	}
}

// Secteur sans déperdition avec gains positifs: besoin de chauffage nul
// chaque mois, risque de surchauffe déclaré.
func TestLosslessZoneWithGains(t *testing.T) {
	z := _test_zone()
	c := DefaultConstants()
	gl := _craft_flows(400.0, 0.0, 0.0)

	b := _balance_from_flows(z, gl, c)

	for m := 0; m < NMonths; m++ {
		if b.months[m].q_heat_net != 0 {
			t.Errorf("month %d: expected zero net heating, got %g", m+1, b.months[m].q_heat_net)
		}
	}
	if !b.OverheatingRisk() {
		t.Error("expected overheating risk for a lossless zone with gains")
	}
	if b.p_cool != 1.0 {
		t.Errorf("expected p_cool=1, got %g", b.p_cool)
	}
	// tout le gain devient besoin net de refroidissement
	for m := 0; m < NMonths; m++ {
		if !approxEqual(b.months[m].q_cool_net, 400.0, tolerance) {
			t.Errorf("month %d: expected net cooling 400, got %g", m+1, b.months[m].q_cool_net)
		}
	}
}

// Le facteur de prise en compte coupe le chauffage quand gamma >= 2.5.
func TestAllowanceFactorCutsGainDominatedMonths(t *testing.T) {
	z := _test_zone()
	c := DefaultConstants()
	gl := _craft_flows(300.0, 100.0, 80.0) // gamma = 3

	b := _balance_from_flows(z, gl, c)
	for m := 0; m < NMonths; m++ {
		if b.months[m].q_heat_net != 0 {
			t.Errorf("month %d: expected heating cut by allowance factor, got %g", m+1, b.months[m].q_heat_net)
		}
	}
}

func TestComputeMonthlyBalanceIdempotent(t *testing.T) {
	z := _test_zone()
	w := UccleClimate()
	c := DefaultConstants()

	b1, err := ComputeMonthlyBalance(z, w, c)
	if err != nil {
		t.Fatal(err)
	}
	b2, err := ComputeMonthlyBalance(z, w, c)
	if err != nil {
		t.Fatal(err)
	}

	for m := 0; m < NMonths; m++ {
		if b1.months[m] != b2.months[m] {
			t.Fatalf("month %d: identical inputs produced different balances", m+1)
		}
	}
	if b1.i_overh != b2.i_overh || b1.p_cool != b2.p_cool {
		t.Fatal("identical inputs produced different overheating summaries")
	}
}

func TestComputeMonthlyBalanceUccle(t *testing.T) {
	z := _test_zone()
	w := UccleClimate()
	c := DefaultConstants()

	b, err := ComputeMonthlyBalance(z, w, c)
	if err != nil {
		t.Fatal(err)
	}

	for m := 0; m < NMonths; m++ {
		hb := &b.months[m]
		if hb.q_heat_net < 0 || hb.q_cool_net < 0 {
			t.Fatalf("month %d: negative net demand", m+1)
		}
		if hb.eta_heat < 0 || hb.eta_heat > 1 {
			t.Fatalf("month %d: utilisation factor %g outside [0, 1]", m+1, hb.eta_heat)
		}
	}

	// en janvier le chauffage domine largement à Uccle
	jan := &b.months[0]
	if jan.q_heat_net <= 0 {
		t.Errorf("expected positive january heating demand, got %g", jan.q_heat_net)
	}
	if jan.gamma_heat >= 1 {
		t.Errorf("expected loss-dominated january, gamma=%g", jan.gamma_heat)
	}
}

func TestComputeMonthlyBalanceRejectsInvalidZone(t *testing.T) {
	z := _test_zone()
	z.a_f = -1.0
	_, err := ComputeMonthlyBalance(z, UccleClimate(), DefaultConstants())
	if err == nil {
		t.Fatal("expected an InvalidInput error for a negative floor area")
	}
	if _, ok := err.(*InvalidInputError); !ok {
		t.Fatalf("expected *InvalidInputError, got %T", err)
	}
}
