package per_calc

// **** Gains et déperditions mensuels ****
// Cinq séries mensuelles par secteur énergétique: gains solaires, gains
// internes, déperditions par transmission, par in/exfiltration et par
// ventilation. Toutes les séries sont en MJ et ne sont jamais négatives.

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Nature d'un flux thermique mensuel.
type FlowKind int

// Nature d'un flux thermique mensuel.
const (
	FlowSolarGain FlowKind = iota
	FlowInternalGain
	FlowTransmissionLoss
	FlowInfiltrationLoss
	FlowVentilationLoss
)

const n_flow_kinds = 5

func (k FlowKind) String() string {
	return [...]string{"solar_gain", "internal_gain", "transmission_loss", "infiltration_loss", "ventilation_loss"}[k]
}

/*
Séries mensuelles de gains et de déperditions d'un secteur énergétique.

Les déperditions sont calculées pour deux consignes: le régime de
chauffage (theta_set_heat) et le régime de surchauffe / refroidissement
(theta_set_cool contre T_e + 1 K), comme dans la méthode. Les gains
solaires et internes sont communs aux deux régimes.

Immuable après construction; NewGainsLosses est une fonction pure des
entrées (même secteur + même climat => mêmes séries).
*/
type GainsLosses struct {
	// régime de chauffage, MJ, [M]
	q_trans_heat_m *mat.VecDense
	q_inf_heat_m   *mat.VecDense
	q_vent_heat_m  *mat.VecDense

	// régime de surchauffe / refroidissement, MJ, [M]
	q_trans_cool_m *mat.VecDense
	q_inf_cool_m   *mat.VecDense
	q_vent_cool_m  *mat.VecDense

	// gains, MJ, [M]
	q_sol_m *mat.VecDense
	q_int_m *mat.VecDense

	// coefficients de transfert associés, W/K
	h_trans       float64
	h_inf         float64
	h_vent_heat   float64
	h_vent_cool_m *mat.VecDense // monthly (ventilation intensive estivale), [M]
}

/*
Calcule les cinq séries mensuelles du secteur.

	Args:
		z: secteur énergétique
		w: série climatique
		c: constantes de la méthode

	Returns:
		séries de gains et de déperditions, MJ, [M]
*/
func NewGainsLosses(z *Zone, w *Climate, c *MethodConstants) *GainsLosses {
	h_trans := z.envelope.h_trans()
	h_i := h_inf(c.RhoCAir, z.n_inf, z.v)
	h_v_heat := h_vent(c.RhoCAir, z.n_vent, z.eta_rec, z.v)
	h_v_cool_m := h_vent_cool_m(c, z, w)

	return &GainsLosses{
		q_trans_heat_m: _losses_const_h(h_trans, c.ThetaSetHeat, 0.0, w),
		q_inf_heat_m:   _losses_const_h(h_i, c.ThetaSetHeat, 0.0, w),
		q_vent_heat_m:  _losses_const_h(h_v_heat, c.ThetaSetHeat, 0.0, w),

		q_trans_cool_m: _losses_const_h(h_trans, c.ThetaSetCool, c.DeltaThetaECool, w),
		q_inf_cool_m:   _losses_const_h(h_i, c.ThetaSetCool, c.DeltaThetaECool, w),
		q_vent_cool_m:  _losses_monthly_h(h_v_cool_m, c.ThetaSetCool, c.DeltaThetaECool, w),

		q_sol_m: _solar_gains(&z.envelope, w),
		q_int_m: _internal_gains(z, w, c),

		h_trans:       h_trans,
		h_inf:         h_i,
		h_vent_heat:   h_v_heat,
		h_vent_cool_m: h_v_cool_m,
	}
}

/*
Déperditions mensuelles pour un coefficient de transfert constant, MJ, [M].

	Q_m = H * max(0, theta_set - (T_e_m + delta_e)) * t_m

La déperdition est écrêtée à zéro quand la température extérieure
dépasse la consigne (pas de "déperdition" négative).
*/
func _losses_const_h(h float64, theta_set float64, delta_e float64, w *Climate) *mat.VecDense {
	q_m := mat.NewVecDense(NMonths, nil)
	for m := 0; m < NMonths; m++ {
		d_theta := math.Max(0.0, theta_set-(w.t_e_m.AtVec(m)+delta_e))
		q_m.SetVec(m, h*d_theta*w.t_m.AtVec(m))
	}
	return q_m
}

// Variante pour un coefficient de transfert mensuel, MJ, [M].
func _losses_monthly_h(h_m *mat.VecDense, theta_set float64, delta_e float64, w *Climate) *mat.VecDense {
	q_m := mat.NewVecDense(NMonths, nil)
	for m := 0; m < NMonths; m++ {
		d_theta := math.Max(0.0, theta_set-(w.t_e_m.AtVec(m)+delta_e))
		q_m.SetVec(m, h_m.AtVec(m)*d_theta*w.t_m.AtVec(m))
	}
	return q_m
}

/*
Gains solaires mensuels, MJ, [M].

	Q_sol_m = somme sur les baies de A * g * r_ombrage * I_s_m(orientation)

Un secteur sans baie vitrée a des gains solaires nuls pour les 12 mois,
quel que soit le climat.
*/
func _solar_gains(e *Envelope, w *Climate) *mat.VecDense {
	q_m := mat.NewVecDense(NMonths, nil)
	for _, g := range e.glazed {
		i_s_m := w.i_s_m[g.orientation]
		for m := 0; m < NMonths; m++ {
			q_m.SetVec(m, q_m.AtVec(m)+g.a*g.g*g.r_shade*i_s_m.AtVec(m))
		}
	}
	return q_m
}

/*
Gains internes mensuels, MJ, [M].

Quand un taux explicite est déclaré (W/m2), les gains valent
taux * A_f * t_m. Sinon la formule forfaitaire de l'Annexe XXI en
fonction de V_EPR s'applique:

	Q_int_m = (1.41 * V + 78) * t_m     si V_EPR <= 192 m3
	Q_int_m = (0.67 * V + 220) * t_m    sinon

(puissance en W, durée du mois en Ms => MJ)
*/
func _internal_gains(z *Zone, w *Climate, c *MethodConstants) *mat.VecDense {
	var p_int float64 // puissance de gains internes, W
	if z.q_int_rate > 0 {
		p_int = z.q_int_rate * z.a_f
	} else {
		v_epr := z.v
		if v_epr <= c.VolumePivot {
			p_int = c.IntGainC1*v_epr + c.IntGainC2
		} else {
			p_int = c.IntGainC3*v_epr + c.IntGainC4
		}
	}

	q_m := mat.NewVecDense(NMonths, nil)
	for m := 0; m < NMonths; m++ {
		q_m.SetVec(m, p_int*w.t_m.AtVec(m))
	}
	return q_m
}

// Série mensuelle du flux k (déperditions en régime de chauffage), MJ, [M].
func (gl *GainsLosses) flow_m(k FlowKind) *mat.VecDense {
	switch k {
	case FlowSolarGain:
		return gl.q_sol_m
	case FlowInternalGain:
		return gl.q_int_m
	case FlowTransmissionLoss:
		return gl.q_trans_heat_m
	case FlowInfiltrationLoss:
		return gl.q_inf_heat_m
	case FlowVentilationLoss:
		return gl.q_vent_heat_m
	default:
		panic(k)
	}
}

// Déperditions totales du mois m en régime de chauffage, MJ.
func (gl *GainsLosses) q_loss_heat(m int) float64 {
	return gl.q_trans_heat_m.AtVec(m) + gl.q_inf_heat_m.AtVec(m) + gl.q_vent_heat_m.AtVec(m)
}

// Déperditions totales du mois m en régime de surchauffe / refroidissement, MJ.
func (gl *GainsLosses) q_loss_cool(m int) float64 {
	return gl.q_trans_cool_m.AtVec(m) + gl.q_inf_cool_m.AtVec(m) + gl.q_vent_cool_m.AtVec(m)
}

// Gains totaux du mois m, MJ.
func (gl *GainsLosses) q_gain(m int) float64 {
	return gl.q_sol_m.AtVec(m) + gl.q_int_m.AtVec(m)
}
