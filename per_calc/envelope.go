package per_calc

// **** Enveloppe du secteur énergétique ****
// Parois de déperdition et coefficients de transfert thermique

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Orientation d'une paroi vitrée.
type Orientation int

// Orientation d'une paroi vitrée.
const (
	OrientationS Orientation = iota // sud
	OrientationSW
	OrientationW
	OrientationNW
	OrientationN
	OrientationNE
	OrientationE
	OrientationSE
	OrientationH // horizontal
)

const n_orientations = 9

func (o Orientation) String() string {
	return [...]string{"s", "sw", "w", "nw", "n", "ne", "e", "se", "h"}[o]
}

func OrientationFromString(s string) (Orientation, error) {
	o, ok := map[string]Orientation{
		"s":  OrientationS,
		"sw": OrientationSW,
		"w":  OrientationW,
		"nw": OrientationNW,
		"n":  OrientationN,
		"ne": OrientationNE,
		"e":  OrientationE,
		"se": OrientationSE,
		"h":  OrientationH,
	}[s]
	if !ok {
		return 0, fmt.Errorf("unknown orientation `%s`", s)
	}
	return o, nil
}

//---------------------------------------------------------------------------------------------------//

// Type de système de ventilation (Annexe V).
type VentilationSystem int

// Type de système de ventilation (Annexe V).
const (
	VentilationSystemA VentilationSystem = iota // ventilation naturelle
	VentilationSystemB                          // simple flux par insufflation
	VentilationSystemC                          // simple flux par extraction
	VentilationSystemD                          // double flux (récupération de chaleur possible)
)

func (v VentilationSystem) String() string {
	return [...]string{"a", "b", "c", "d"}[v]
}

func VentilationSystemFromString(s string) (VentilationSystem, error) {
	v, ok := map[string]VentilationSystem{
		"a": VentilationSystemA,
		"b": VentilationSystemB,
		"c": VentilationSystemC,
		"d": VentilationSystemD,
	}[s]
	if !ok {
		return 0, fmt.Errorf("unknown ventilation system `%s`", s)
	}
	return v, nil
}

//---------------------------------------------------------------------------------------------------//

// Paroi opaque de déperdition.
type OpaqueElement struct {
	name string
	u    float64 // coefficient de transmission thermique U, W/(m2 K)
	a    float64 // aire de déperdition, m2
	b    float64 // facteur de réduction de température (1 = vers l'extérieur), -
}

// Paroi vitrée.
type GlazedElement struct {
	name        string
	u           float64 // coefficient de transmission thermique U_w, W/(m2 K)
	a           float64 // aire de la baie, m2
	g           float64 // facteur solaire du vitrage g, -
	r_shade     float64 // facteur de réduction pour ombrage fixe, -
	orientation Orientation
}

// Enveloppe d'un secteur énergétique.
type Envelope struct {
	opaque []OpaqueElement
	glazed []GlazedElement
}

/*
Coefficient de transfert thermique par transmission H_trans, W/K.

	H_trans = somme sur les parois de b * U * A

Les parois vitrées comptent avec b = 1 (toujours vers l'extérieur).
*/
func (e *Envelope) h_trans() float64 {
	var h float64
	for _, el := range e.opaque {
		h += el.b * el.u * el.a
	}
	for _, el := range e.glazed {
		h += el.u * el.a
	}
	return h
}

func (e *Envelope) n_elements() int {
	return len(e.opaque) + len(e.glazed)
}

/*
Coefficient de transfert thermique par ventilation hygiénique H_vent, W/K.

	Args:
		rho_c_air: capacité thermique volumique de l'air, Wh/(m3 K)
		n_vent: taux de renouvellement d'air hygiénique, 1/h
		eta_rec: rendement de récupération de chaleur (système D), -
		v: volume du secteur, m3
*/
func h_vent(rho_c_air, n_vent, eta_rec, v float64) float64 {
	return rho_c_air * n_vent * (1.0 - eta_rec) * v
}

/*
Coefficient de transfert thermique par in/exfiltration H_inf, W/K.

	Args:
		rho_c_air: capacité thermique volumique de l'air, Wh/(m3 K)
		n_inf: taux de renouvellement d'air par in/exfiltration, 1/h
		v: volume du secteur, m3
*/
func h_inf(rho_c_air, n_inf, v float64) float64 {
	return rho_c_air * n_inf * v
}

/*
Coefficient de ventilation mensuel en régime de surchauffe / refroidissement, W/K, [M].

La ventilation intensive (free cooling) n'est comptée que pour les mois
dont la température extérieure moyenne dépasse le seuil theta_free_cool.
*/
func h_vent_cool_m(c *MethodConstants, z *Zone, w *Climate) *mat.VecDense {
	h := mat.NewVecDense(NMonths, nil)
	h_base := h_vent(c.RhoCAir, z.n_vent, z.eta_rec, z.v)
	for m := 0; m < NMonths; m++ {
		h_m := h_base
		if w.t_e_m.AtVec(m) >= c.ThetaFreeCool {
			h_m += h_vent(c.RhoCAir, z.n_free, 0.0, z.v)
		}
		h.SetVec(m, h_m)
	}
	return h
}
