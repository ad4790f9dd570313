package per_calc

// **** Secteurs énergétiques (zones thermiques) ****

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Entrée invalide: le calcul du secteur concerné est abandonné
// immédiatement, sans résultat partiel.
type InvalidInputError struct {
	Zone   string
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Zone == "" {
		return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid input: zone `%s`: %s: %s", e.Zone, e.Field, e.Reason)
}

//---------------------------------------------------------------------------------------------------//

// Classe d'inertie thermique.
type CapacitanceClass int

// Classe d'inertie thermique.
const (
	CapacitanceClassLight CapacitanceClass = iota
	CapacitanceClassMedium
	CapacitanceClassHeavy
)

func (c CapacitanceClass) String() string {
	return [...]string{"light", "medium", "heavy"}[c]
}

func CapacitanceClassFromString(s string) (CapacitanceClass, error) {
	c, ok := map[string]CapacitanceClass{
		"light":  CapacitanceClassLight,
		"medium": CapacitanceClassMedium,
		"heavy":  CapacitanceClassHeavy,
	}[s]
	if !ok {
		return 0, fmt.Errorf("unknown capacitance class `%s`", s)
	}
	return c, nil
}

//---------------------------------------------------------------------------------------------------//

// Secteur énergétique.
type Zone struct {
	id        int
	name      string
	a_f       float64          // surface de plancher chauffée, m2
	v         float64          // volume du secteur V_sec_i, m3
	cap_class CapacitanceClass // classe d'inertie (-> C_sec_i)

	envelope Envelope

	vent_system VentilationSystem
	n_inf       float64 // taux d'in/exfiltration, 1/h
	n_vent      float64 // taux de ventilation hygiénique, 1/h
	eta_rec     float64 // rendement de récupération de chaleur, -
	n_free      float64 // taux de ventilation intensive estivale, 1/h

	q_int_rate float64 // taux de gains internes explicite, W/m2 (0 = formule forfaitaire)

	// Eau chaude sanitaire
	v_dhw_day    float64 // volume journalier d'eau chaude, L/d (0 = puisages de référence)
	theta_supply float64 // température de distribution de l'ECS, °C
	n_bath       int     // nombre de bains/douches
	n_sink       int     // nombre d'éviers de cuisine
	r_water_bath float64 // facteur de réduction bains/douches, -
	r_water_sink float64 // facteur de réduction éviers, -

	// Références vers les systèmes installés (0 = aucun système)
	heating_system_id int
	cooling_system_id int
	dhw_system_id     int
}

/*
Ensemble des secteurs énergétiques du volume protégé.

Un secteur dont la description est invalide occupe sa position avec
zs[i] = nil et errs[i] non nil: les secteurs voisins restent calculables
(isolation des erreurs par secteur).
*/
type Zones struct {
	n_z       int
	zs        []*Zone // nil quand la description du secteur i est invalide
	errs      []error // erreur de construction du secteur i, nil sinon
	id_z_is   []int
	name_z_is []string
	a_f_z_is  *mat.VecDense // surface de plancher du secteur i, m2 (0 si invalide), [I]
	v_z_is    *mat.VecDense // volume du secteur i, m3 (0 si invalide), [I]
}

func NewZones(ds []ZoneJson) (*Zones, error) {
	n_z := len(ds)
	if n_z == 0 {
		return nil, &InvalidInputError{Field: "energy_sectors", Reason: "at least one energy sector is required"}
	}

	zs := make([]*Zone, n_z)
	errs := make([]error, n_z)
	id_z_is := make([]int, n_z)
	name_z_is := make([]string, n_z)
	a_f_z_is := make([]float64, n_z)
	v_z_is := make([]float64, n_z)

	for i := range ds {
		id_z_is[i] = ds[i].Id
		name_z_is[i] = ds[i].Name

		z, err := _get_zone(&ds[i])
		if err != nil {
			errs[i] = err
			continue
		}
		zs[i] = z
		a_f_z_is[i] = z.a_f
		v_z_is[i] = z.v
	}

	return &Zones{
		n_z:       n_z,
		zs:        zs,
		errs:      errs,
		id_z_is:   id_z_is,
		name_z_is: name_z_is,
		a_f_z_is:  mat.NewVecDense(n_z, a_f_z_is),
		v_z_is:    mat.NewVecDense(n_z, v_z_is),
	}, nil
}

func _get_zone(d *ZoneJson) (*Zone, error) {
	cap_class, err := CapacitanceClassFromString(d.CapacitanceClass)
	if err != nil {
		return nil, &InvalidInputError{Zone: d.Name, Field: "capacitance_class", Reason: err.Error()}
	}

	vent_system, err := VentilationSystemFromString(d.Ventilation.System)
	if err != nil {
		return nil, &InvalidInputError{Zone: d.Name, Field: "ventilation.system", Reason: err.Error()}
	}

	opaque := make([]OpaqueElement, len(d.Opaque))
	for j, o := range d.Opaque {
		b := o.B
		if b == 0 {
			// paroi vers l'extérieur par défaut
			b = 1.0
		}
		opaque[j] = OpaqueElement{name: o.Name, u: o.UValue, a: o.Area, b: b}
	}

	glazed := make([]GlazedElement, len(d.Glazed))
	for j, g := range d.Glazed {
		orientation, err := OrientationFromString(g.Orientation)
		if err != nil {
			return nil, &InvalidInputError{Zone: d.Name, Field: "glazed.orientation", Reason: err.Error()}
		}
		r_shade := g.ShadingFactor
		if r_shade == 0 {
			// pas d'ombrage déclaré
			r_shade = 1.0
		}
		glazed[j] = GlazedElement{
			name:        g.Name,
			u:           g.UValue,
			a:           g.Area,
			g:           g.GValue,
			r_shade:     r_shade,
			orientation: orientation,
		}
	}

	n_bath := d.DHW.NBath
	if n_bath == 0 {
		n_bath = 1
	}
	n_sink := d.DHW.NSink
	if n_sink == 0 {
		n_sink = 1
	}
	r_water_bath := d.DHW.RWaterBath
	if r_water_bath == 0 {
		r_water_bath = 1.0
	}
	r_water_sink := d.DHW.RWaterSink
	if r_water_sink == 0 {
		r_water_sink = 1.0
	}
	theta_supply := d.DHW.ThetaSupply
	if theta_supply == 0 {
		theta_supply = 60.0
	}

	z := &Zone{
		id:                d.Id,
		name:              d.Name,
		a_f:               d.FloorArea,
		v:                 d.Volume,
		cap_class:         cap_class,
		envelope:          Envelope{opaque: opaque, glazed: glazed},
		vent_system:       vent_system,
		n_inf:             d.Infiltration.AirChangeRate,
		n_vent:            d.Ventilation.AirChangeRate,
		eta_rec:           d.Ventilation.HeatRecovery,
		n_free:            d.Ventilation.FreeCooling,
		q_int_rate:        d.InternalGainRate,
		v_dhw_day:         d.DHW.DailyVolume,
		theta_supply:      theta_supply,
		n_bath:            n_bath,
		n_sink:            n_sink,
		r_water_bath:      r_water_bath,
		r_water_sink:      r_water_sink,
		heating_system_id: d.HeatingSystemId,
		cooling_system_id: d.CoolingSystemId,
		dhw_system_id:     d.DHWSystemId,
	}

	if err := z.validate(); err != nil {
		return nil, err
	}
	return z, nil
}

// Contrôle des invariants d'entrée du secteur.
func (z *Zone) validate() error {
	if z.a_f <= 0 {
		return &InvalidInputError{Zone: z.name, Field: "floor_area", Reason: fmt.Sprintf("must be positive, got %g", z.a_f)}
	}
	if z.v <= 0 {
		return &InvalidInputError{Zone: z.name, Field: "volume", Reason: fmt.Sprintf("must be positive, got %g", z.v)}
	}
	if z.envelope.n_elements() == 0 {
		return &InvalidInputError{Zone: z.name, Field: "envelope", Reason: "at least one envelope element is required"}
	}
	for _, el := range z.envelope.opaque {
		if el.u < 0 || el.a < 0 || el.b < 0 {
			return &InvalidInputError{Zone: z.name, Field: "opaque", Reason: fmt.Sprintf("element `%s`: negative U, area or b", el.name)}
		}
	}
	for _, el := range z.envelope.glazed {
		if el.u < 0 || el.a < 0 || el.g < 0 || el.g > 1 || el.r_shade < 0 || el.r_shade > 1 {
			return &InvalidInputError{Zone: z.name, Field: "glazed", Reason: fmt.Sprintf("element `%s`: U/area negative or g/shading outside [0, 1]", el.name)}
		}
	}
	if z.n_inf < 0 || z.n_vent < 0 || z.n_free < 0 {
		return &InvalidInputError{Zone: z.name, Field: "ventilation", Reason: "air change rates must be non-negative"}
	}
	if z.eta_rec < 0 || z.eta_rec > 1 {
		return &InvalidInputError{Zone: z.name, Field: "ventilation.heat_recovery", Reason: fmt.Sprintf("must lie in [0, 1], got %g", z.eta_rec)}
	}
	if z.eta_rec > 0 && z.vent_system != VentilationSystemD {
		return &InvalidInputError{Zone: z.name, Field: "ventilation.heat_recovery", Reason: "heat recovery requires a system D ventilation"}
	}
	if z.q_int_rate < 0 {
		return &InvalidInputError{Zone: z.name, Field: "internal_gain_rate", Reason: "must be non-negative"}
	}
	if z.v_dhw_day < 0 {
		return &InvalidInputError{Zone: z.name, Field: "dhw.daily_volume", Reason: "must be non-negative"}
	}
	if z.n_bath < 1 || z.n_sink < 1 {
		return &InvalidInputError{Zone: z.name, Field: "dhw", Reason: "bath and sink counts must be at least 1"}
	}
	return nil
}
