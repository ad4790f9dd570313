package per_calc

// **** Bilan thermique mensuel et facteur d'utilisation ****
// Méthode quasi statique mensuelle (NBN EN ISO 13790 / Annexe XXI):
// rapport de bilan gamma, facteur d'utilisation dynamique, besoins nets
// de chauffage et de refroidissement, indicateur de surchauffe.

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Régime du bilan: la formule du facteur d'utilisation est la même, les
// rôles des gains et des déperditions sont inversés.
type Regime int

// Régime du bilan.
const (
	RegimeHeating Regime = iota // rapport = gains / déperditions
	RegimeCooling               // rapport = déperditions / gains
)

func (r Regime) String() string {
	return [...]string{"heating", "cooling"}[r]
}

// Résultat du bilan thermique d'un mois.
type HeatBalanceResult struct {
	month int // mois calendaire, 1..12

	q_gain      float64 // gains totaux, MJ
	q_loss_heat float64 // déperditions totales en régime de chauffage, MJ
	q_loss_cool float64 // déperditions totales en régime de surchauffe / refroidissement, MJ

	gamma_heat   float64 // rapport de bilan en chauffage (gains / déperditions), -
	eta_heat     float64 // facteur d'utilisation des gains, -
	f_allow_heat float64 // facteur de prise en compte du chauffage {0, 1}, -
	q_heat_net   float64 // besoin net de chauffage, MJ

	lambda_cool  float64 // rapport de bilan en refroidissement (déperditions / gains), -
	eta_cool     float64 // facteur d'utilisation des déperditions, -
	f_allow_cool float64 // facteur de prise en compte du refroidissement {0, 1}, -
	q_cool_net   float64 // besoin net de refroidissement, MJ

	q_excess_norm float64 // excès de gains normalisé du mois (surchauffe), Kh
}

// Mois calendaire (1..12).
func (r *HeatBalanceResult) Month() int { return r.month }

// Gains totaux du mois, MJ.
func (r *HeatBalanceResult) TotalGains() float64 { return r.q_gain }

// Déperditions totales du mois en régime de chauffage, MJ.
func (r *HeatBalanceResult) TotalLosses() float64 { return r.q_loss_heat }

// Rapport de bilan en régime de chauffage, -.
func (r *HeatBalanceResult) BalanceRatio() float64 { return r.gamma_heat }

// Facteur d'utilisation des gains en régime de chauffage, -.
func (r *HeatBalanceResult) UtilisationFactor() float64 { return r.eta_heat }

// Besoin net de chauffage du mois, MJ.
func (r *HeatBalanceResult) NetHeating() float64 { return r.q_heat_net }

// Besoin net de refroidissement du mois, MJ.
func (r *HeatBalanceResult) NetCooling() float64 { return r.q_cool_net }

/*
Bilan thermique annuel d'un secteur énergétique: 12 bilans mensuels et
l'indicateur de surchauffe annuel.
*/
type ZoneBalance struct {
	zone   *Zone
	months [NMonths]HeatBalanceResult

	i_overh    float64 // degré de surchauffe annuel, Kh
	p_cool     float64 // probabilité conventionnelle de refroidissement actif, -
	f_cool     float64 // fraction conventionnelle du temps au-dessus de 25 °C, -
	overh_risk bool    // indicateur de risque de surchauffe
}

// Bilans mensuels dans l'ordre calendaire.
func (b *ZoneBalance) Months() []HeatBalanceResult { return b.months[:] }

// Degré de surchauffe annuel, Kh.
func (b *ZoneBalance) OverheatingDegree() float64 { return b.i_overh }

// Indicateur de risque de surchauffe.
func (b *ZoneBalance) OverheatingRisk() bool { return b.overh_risk }

// Besoin net de chauffage mensuel, MJ, [M].
func (b *ZoneBalance) NetHeating() *mat.VecDense {
	q := mat.NewVecDense(NMonths, nil)
	for m := 0; m < NMonths; m++ {
		q.SetVec(m, b.months[m].q_heat_net)
	}
	return q
}

// Besoin net de refroidissement mensuel, MJ, [M].
func (b *ZoneBalance) NetCooling() *mat.VecDense {
	q := mat.NewVecDense(NMonths, nil)
	for m := 0; m < NMonths; m++ {
		q.SetVec(m, b.months[m].q_cool_net)
	}
	return q
}

/*
Calcule le bilan thermique mensuel du secteur sur les 12 mois.

	Args:
		z: secteur énergétique
		w: série climatique (12 mois)
		c: constantes de la méthode

	Returns:
		bilan annuel du secteur (12 bilans mensuels + surchauffe)

Fonction pure: mêmes entrées => mêmes sorties. Les cas dégénérés
(gamma = 1, déperditions nulles, gains nuls) sont des branches
analytiques, jamais des fautes numériques.
*/
func ComputeMonthlyBalance(z *Zone, w *Climate, c *MethodConstants) (*ZoneBalance, error) {
	if err := z.validate(); err != nil {
		return nil, err
	}

	gl := NewGainsLosses(z, w, c)
	return _balance_from_flows(z, gl, c), nil
}

func _balance_from_flows(z *Zone, gl *GainsLosses, c *MethodConstants) *ZoneBalance {
	c_sec := c.effective_capacitance(z.cap_class, z.a_f)

	b := &ZoneBalance{zone: z}

	// ---- Surchauffe (évaluée d'abord: p_cool pilote le refroidissement) ----

	for m := 0; m < NMonths; m++ {
		q_gain := gl.q_gain(m)
		q_loss := gl.q_loss_cool(m)
		h_tot := gl.h_trans + gl.h_inf + gl.h_vent_cool_m.AtVec(m)

		// la surchauffe s'évalue sur le rapport gains / déperditions,
		// comme le régime de chauffage
		gamma_overh := _regime_ratio(RegimeHeating, q_gain, q_loss)
		a := _numeric_param(c, c_sec, h_tot)
		eta_overh := _utilisation_factor(a, gamma_overh)

		// Excès de gains normalisé, Kh. MJ/(W/K) * 1000/3.6 => Kh.
		var q_excess float64
		switch {
		case h_tot > 0:
			q_excess = (1.0 - eta_overh) * q_gain / h_tot * 1_000.0 / 3.6
		case q_gain > 0:
			// secteur sans déperdition: tout gain est inévacuable
			q_excess = c.IOverhMax
		}
		b.months[m].q_excess_norm = q_excess
		b.i_overh += q_excess
	}

	b.p_cool = math.Max(0.0, math.Min((b.i_overh-c.IOverhThresh)/(c.IOverhMax-c.IOverhThresh), 1.0))
	b.f_cool = math.Max(0.0, math.Min(c.FCoolCoef*b.i_overh/c.IOverhMax, 1.0))
	b.overh_risk = b.i_overh > c.IOverhThresh

	// ---- Chauffage et refroidissement ----

	// constante de temps en régime de chauffage (coefficients constants)
	a_heat := _numeric_param(c, c_sec, gl.h_trans+gl.h_inf+gl.h_vent_heat)

	for m := 0; m < NMonths; m++ {
		r := &b.months[m]
		r.month = m + 1
		r.q_gain = gl.q_gain(m)
		r.q_loss_heat = gl.q_loss_heat(m)
		r.q_loss_cool = gl.q_loss_cool(m)

		// régime de chauffage: les gains sont le terme utile
		r.gamma_heat = _regime_ratio(RegimeHeating, r.q_gain, r.q_loss_heat)
		r.eta_heat = _utilisation_factor(a_heat, r.gamma_heat)
		r.f_allow_heat = _allowance_factor(r.gamma_heat, c.GammaLim)
		r.q_heat_net = math.Max(0.0, r.q_loss_heat-r.eta_heat*r.q_gain) * r.f_allow_heat

		// régime de refroidissement: les déperditions sont le terme utile
		h_tot_cool := gl.h_trans + gl.h_inf + gl.h_vent_cool_m.AtVec(m)
		a_cool := _numeric_param(c, c_sec, h_tot_cool)
		r.lambda_cool = _regime_ratio(RegimeCooling, r.q_gain, r.q_loss_cool)
		r.eta_cool = _utilisation_factor(a_cool, r.lambda_cool)
		r.f_allow_cool = _allowance_factor(r.lambda_cool, c.GammaLim)
		r.q_cool_net = math.Max(0.0, r.q_gain-r.eta_cool*r.q_loss_cool) * r.f_allow_cool * b.p_cool
	}

	return b
}

/*
Rapport de bilan du régime, -.

En chauffage les gains sont le terme utile (rapport = gains /
déperditions); en refroidissement les rôles s'inversent. Une seule
fonction porte les deux régimes pour qu'ils ne puissent pas diverger.
*/
func _regime_ratio(regime Regime, q_gain float64, q_loss float64) float64 {
	switch regime {
	case RegimeHeating:
		return _balance_ratio(q_gain, q_loss)
	case RegimeCooling:
		return _balance_ratio(q_loss, q_gain)
	default:
		panic(regime)
	}
}

/*
Rapport de bilan, -.

	Args:
		q_benef: terme utile du régime, MJ (gains en chauffage, déperditions en refroidissement)
		q_opposing: terme à couvrir, MJ

	Returns:
		rapport de bilan; +Inf quand le terme à couvrir est nul et le
		terme utile positif; 0 quand le terme utile est nul

Branches explicites: jamais de division par zéro.
*/
func _balance_ratio(q_benef float64, q_opposing float64) float64 {
	switch {
	case q_benef == 0:
		return 0.0
	case q_opposing == 0:
		return math.Inf(1)
	default:
		return q_benef / q_opposing
	}
}

/*
Paramètre numérique adimensionnel a, -.

	tau = C / H_tot  (constante de temps du secteur, s)
	a = a_0 + tau / tau_0

H_tot nul (secteur sans déperdition, tau -> infini) rend a infini; les
branches du facteur d'utilisation restent définies dans ce cas.
*/
func _numeric_param(c *MethodConstants, c_sec float64, h_tot float64) float64 {
	if h_tot <= 0 {
		return math.Inf(1)
	}
	tau := c_sec / h_tot
	return c.A0 + tau/c.Tau0
}

/*
Facteur d'utilisation, -.

	eta = (1 - r^a) / (1 - r^(a+1))    si r != 1
	eta = a / (a + 1)                  si r = 1 (limite, évite 0/0)

	Args:
		a: paramètre numérique adimensionnel, -
		r: rapport de bilan du régime, -

	Returns:
		fraction du terme utile réellement valorisée, dans [0, 1]

Branches limites: r = 0 => 1 (tout le terme utile sert), r -> infini
=> 0, et repli sur l'asymptote 1/r quand r^a déborde en flottant.
*/
func _utilisation_factor(a float64, r float64) float64 {
	switch {
	case r == 0:
		return 1.0
	case math.IsInf(r, 1):
		return 0.0
	case r == 1:
		if math.IsInf(a, 1) {
			return 1.0
		}
		return a / (a + 1.0)
	default:
		ra := math.Pow(r, a)
		ra1 := math.Pow(r, a+1.0)
		if math.IsInf(ra, 1) || math.IsInf(ra1, 1) {
			// asymptote (1-r^a)/(1-r^(a+1)) -> 1/r pour r grand
			return 1.0 / r
		}
		if ra == 0 && ra1 == 0 {
			// a infini avec r < 1: tout le terme utile est valorisé
			return 1.0
		}
		return (1.0 - ra) / (1.0 - ra1)
	}
}

/*
Facteur de prise en compte, {0, 1}.

Le besoin n'est comptabilisé que si le rapport de bilan du régime reste
sous la limite gamma_lim (2.5 dans le texte en vigueur).
*/
func _allowance_factor(r float64, gamma_lim float64) float64 {
	if r < gamma_lim {
		return 1.0
	}
	return 0.0
}
