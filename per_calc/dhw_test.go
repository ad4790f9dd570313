package per_calc

import (
	"testing"
)

func TestDHWExplicitDailyVolume(t *testing.T) {
	z := _test_zone()
	z.v_dhw_day = 100.0  // L/d
	z.theta_supply = 60.0
	w := _flat_climate(t, 10.0, 0.0, 10.0)
	c := DefaultConstants()

	d, err := ComputeDHW(z, w, c)
	if err != nil {
		t.Fatal(err)
	}

	// janvier: 100 L/d * 4187 J/(kg K) * 50 K * 31 d = 649.0 MJ
	want := 100.0 * 4_187.0 * 50.0 * 31.0 / 1e6
	if !approxEqual(d.NetMonth(0), want, 1e-6) {
		t.Errorf("expected january DHW need %g, got %g", want, d.NetMonth(0))
	}
}

func TestDHWFollowsColdWaterTemperature(t *testing.T) {
	z := _test_zone()
	z.v_dhw_day = 100.0
	w := UccleClimate()

	d, err := ComputeDHW(z, w, DefaultConstants())
	if err != nil {
		t.Fatal(err)
	}

	// l'eau froide est plus chaude en août qu'en février: le besoin
	// journalier d'août est plus faible
	feb_daily := d.NetMonth(1) / 28.0
	aug_daily := d.NetMonth(7) / 31.0
	if aug_daily >= feb_daily {
		t.Errorf("expected lower daily DHW need in august (%g) than february (%g)", aug_daily, feb_daily)
	}
}

func TestDHWReferenceDraws(t *testing.T) {
	z := _test_zone()
	z.v = 192.0 // au pivot: puisages de base 64 + 16 MJ/Ms
	w := UccleClimate()

	d, err := ComputeDHW(z, w, DefaultConstants())
	if err != nil {
		t.Fatal(err)
	}

	want := (64.0 + 16.0) * w.t_m.AtVec(0)
	if !approxEqual(d.NetMonth(0), want, 1e-6) {
		t.Errorf("expected january DHW need %g, got %g", want, d.NetMonth(0))
	}
}

func TestDHWReferenceDrawsFloor(t *testing.T) {
	// sous le pivot, les puisages de référence ne descendent pas sous
	// leur valeur de base
	z := _test_zone()
	z.v = 100.0
	w := UccleClimate()

	d, err := ComputeDHW(z, w, DefaultConstants())
	if err != nil {
		t.Fatal(err)
	}

	want := (64.0 + 16.0) * w.t_m.AtVec(0)
	if !approxEqual(d.NetMonth(0), want, 1e-6) {
		t.Errorf("expected floored january DHW need %g, got %g", want, d.NetMonth(0))
	}
}

func TestDHWLargeVolumeScalesDraws(t *testing.T) {
	z := _test_zone()
	z.v = 392.0 // pivot + 200 m3
	w := UccleClimate()

	d, err := ComputeDHW(z, w, DefaultConstants())
	if err != nil {
		t.Fatal(err)
	}

	p_bath := 64.0 + 0.220*200.0
	p_sink := 16.0 + 0.055*200.0
	want := (p_bath + p_sink) * w.t_m.AtVec(0)
	if !approxEqual(d.NetMonth(0), want, 1e-6) {
		t.Errorf("expected january DHW need %g, got %g", want, d.NetMonth(0))
	}
}

func TestDHWNeverNegative(t *testing.T) {
	// eau froide plus chaude que la distribution: besoin nul, pas négatif
	z := _test_zone()
	z.v_dhw_day = 100.0
	z.theta_supply = 60.0
	w := _flat_climate(t, 10.0, 0.0, 70.0)

	d, err := ComputeDHW(z, w, DefaultConstants())
	if err != nil {
		t.Fatal(err)
	}
	for m := 0; m < NMonths; m++ {
		if d.NetMonth(m) != 0 {
			t.Errorf("month %d: expected zero DHW need, got %g", m+1, d.NetMonth(m))
		}
	}
}
