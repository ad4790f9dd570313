package per_calc

// **** Besoins nets en eau chaude sanitaire ****

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

/*
Besoins nets mensuels en eau chaude sanitaire d'un secteur.

Indépendant du bilan thermique; toujours non négatif.
*/
type DHWDemand struct {
	q_net_m *mat.VecDense // besoin net du mois m, MJ, [M]
}

// Besoin net mensuel, MJ, [M].
func (d *DHWDemand) Net() *mat.VecDense { return d.q_net_m }

// Besoin net du mois m (0..11), MJ.
func (d *DHWDemand) NetMonth(m int) float64 { return d.q_net_m.AtVec(m) }

/*
Calcule les besoins nets mensuels en eau chaude sanitaire.

	Args:
		z: secteur énergétique
		w: série climatique (température de l'eau froide mensuelle)
		c: constantes de la méthode

	Returns:
		besoins nets, MJ, [M]

Deux voies de calcul:
  - volume journalier déclaré: Q_m = V_jour * c_eau * (theta_dist - theta_ef_m) * d_m
    (la différence de température est écrêtée à zéro);
  - sinon, puisages de référence de l'Annexe XXI (bains/douches + éviers)
    en fonction de V_EPR:
    Q_bain_m = r_bain * max(64, 64 + 0.220*(V - 192)) * t_m
    Q_évier_m = r_évier * max(16, 16 + 0.055*(V - 192)) * t_m
*/
func ComputeDHW(z *Zone, w *Climate, c *MethodConstants) (*DHWDemand, error) {
	if err := z.validate(); err != nil {
		return nil, err
	}

	q_m := mat.NewVecDense(NMonths, nil)

	if z.v_dhw_day > 0 {
		// volume journalier explicite, L/d (1 L d'eau = 1 kg)
		for m := 0; m < NMonths; m++ {
			d_theta := math.Max(0.0, z.theta_supply-w.t_cw_m.AtVec(m))
			q_d := z.v_dhw_day * c.CWater * d_theta / 1e6 // MJ/d
			q_m.SetVec(m, q_d*w.d_m.AtVec(m))
		}
		return &DHWDemand{q_net_m: q_m}, nil
	}

	// puisages de référence en fonction de V_EPR
	v_epr := z.v
	p_bath := math.Max(c.DHWBathBase, c.DHWBathBase+c.DHWBathSlope*(v_epr-c.VolumePivot)) // MJ/Ms
	p_sink := math.Max(c.DHWSinkBase, c.DHWSinkBase+c.DHWSinkSlope*(v_epr-c.VolumePivot)) // MJ/Ms

	// f_bain = 1/N_bain et la somme sur les N_bain points de puisage
	// redonne le puisage de référence entier; idem pour les éviers.
	for m := 0; m < NMonths; m++ {
		q_bath := z.r_water_bath * p_bath * w.t_m.AtVec(m)
		q_sink := z.r_water_sink * p_sink * w.t_m.AtVec(m)
		q_m.SetVec(m, q_bath+q_sink)
	}
	return &DHWDemand{q_net_m: q_m}, nil
}
