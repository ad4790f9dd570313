package per_calc

// **** Systèmes installés ****
// Passage des besoins nets aux besoins bruts (pertes de distribution et
// de stockage), à la consommation finale par vecteur énergétique
// (rendement de production) et aux auxiliaires électriques.

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Service rendu par un système.
type Service int

// Service rendu par un système.
const (
	ServiceHeating Service = iota
	ServiceCooling
	ServiceDHW
)

func (s Service) String() string {
	return [...]string{"heating", "cooling", "dhw"}[s]
}

func ServiceFromString(s string) (Service, error) {
	v, ok := map[string]Service{
		"heating": ServiceHeating,
		"cooling": ServiceCooling,
		"dhw":     ServiceDHW,
	}[s]
	if !ok {
		return 0, fmt.Errorf("unknown service `%s`", s)
	}
	return v, nil
}

//---------------------------------------------------------------------------------------------------//

// Vecteur énergétique.
type Carrier int

// Vecteur énergétique.
const (
	CarrierElectricity Carrier = iota
	CarrierGas
	CarrierOil
	CarrierBiomass
	CarrierDistrictHeat
)

const n_carriers = 5

func (c Carrier) String() string {
	return [...]string{"electricity", "gas", "oil", "biomass", "district_heat"}[c]
}

func CarrierFromString(s string) (Carrier, error) {
	v, ok := map[string]Carrier{
		"electricity":   CarrierElectricity,
		"gas":           CarrierGas,
		"oil":           CarrierOil,
		"biomass":       CarrierBiomass,
		"district_heat": CarrierDistrictHeat,
	}[s]
	if !ok {
		return 0, fmt.Errorf("unknown carrier `%s`", s)
	}
	return v, nil
}

//---------------------------------------------------------------------------------------------------//

// Stratégie de régulation d'un auxiliaire.
type ControlStrategy int

// Stratégie de régulation d'un auxiliaire.
const (
	ControlContinuous   ControlStrategy = iota // fonctionnement permanent
	ControlDemandLinked                        // asservi à la charge du mois
	ControlScheduled                           // horaire fixe, h/d
)

func (c ControlStrategy) String() string {
	return [...]string{"continuous", "demand_linked", "scheduled"}[c]
}

func ControlStrategyFromString(s string) (ControlStrategy, error) {
	v, ok := map[string]ControlStrategy{
		"continuous":    ControlContinuous,
		"demand_linked": ControlDemandLinked,
		"scheduled":     ControlScheduled,
	}[s]
	if !ok {
		return 0, fmt.Errorf("unknown control strategy `%s`", s)
	}
	return v, nil
}

// Auxiliaire (circulateur, ventilateur, régulation).
type AuxiliaryComponent struct {
	name          string
	p_rated       float64 // puissance nominale, W
	control       ControlStrategy
	hours_per_day float64 // horaire fixe, h/d (stratégie scheduled)
}

/*
Système installé (production de chaleur, de froid ou d'ECS).

Consommé, pas possédé: décrit une instance de système et ses
caractéristiques réglementaires; le moteur ne le modifie jamais.
*/
type SystemSpec struct {
	id          int
	name        string
	service     Service
	system_type string

	eta_gen float64 // rendement de production (ou COP/EER pour le froid), -
	f_dist  float64 // fraction de pertes de distribution, -
	f_stor  float64 // fraction de pertes de stockage, -

	carrier_shares map[Carrier]float64 // répartition par vecteur, somme = 1
	aux            []AuxiliaryComponent
}

func NewSystemSpec(d *SystemJson) (*SystemSpec, error) {
	service, err := ServiceFromString(d.Service)
	if err != nil {
		return nil, &InvalidInputError{Field: fmt.Sprintf("systems[%d].service", d.Id), Reason: err.Error()}
	}

	if d.Efficiency <= 0 {
		return nil, &InvalidInputError{
			Field:  fmt.Sprintf("systems[%d].efficiency", d.Id),
			Reason: fmt.Sprintf("a %s system requires a positive efficiency, got %g", service, d.Efficiency),
		}
	}
	if d.DistributionLoss < 0 || d.StorageLoss < 0 {
		return nil, &InvalidInputError{
			Field:  fmt.Sprintf("systems[%d]", d.Id),
			Reason: "loss fractions must be non-negative",
		}
	}

	shares := map[Carrier]float64{}
	if len(d.Carriers) == 0 {
		return nil, &InvalidInputError{
			Field:  fmt.Sprintf("systems[%d].carriers", d.Id),
			Reason: "at least one energy carrier is required",
		}
	}
	var total float64
	for _, cs := range d.Carriers {
		carrier, err := CarrierFromString(cs.Carrier)
		if err != nil {
			return nil, &InvalidInputError{Field: fmt.Sprintf("systems[%d].carriers", d.Id), Reason: err.Error()}
		}
		if cs.Share <= 0 || cs.Share > 1 {
			return nil, &InvalidInputError{
				Field:  fmt.Sprintf("systems[%d].carriers", d.Id),
				Reason: fmt.Sprintf("share for %s must lie in (0, 1], got %g", carrier, cs.Share),
			}
		}
		shares[carrier] += cs.Share
		total += cs.Share
	}
	if math.Abs(total-1.0) > 1e-9 {
		return nil, &InvalidInputError{
			Field:  fmt.Sprintf("systems[%d].carriers", d.Id),
			Reason: fmt.Sprintf("carrier shares must sum to 1, got %g", total),
		}
	}

	aux := make([]AuxiliaryComponent, len(d.Auxiliaries))
	for j, a := range d.Auxiliaries {
		control, err := ControlStrategyFromString(a.Control)
		if err != nil {
			return nil, &InvalidInputError{Field: fmt.Sprintf("systems[%d].auxiliaries", d.Id), Reason: err.Error()}
		}
		if a.RatedPower < 0 {
			return nil, &InvalidInputError{
				Field:  fmt.Sprintf("systems[%d].auxiliaries", d.Id),
				Reason: fmt.Sprintf("`%s`: rated power must be non-negative", a.Name),
			}
		}
		if control == ControlScheduled && (a.HoursPerDay < 0 || a.HoursPerDay > 24) {
			return nil, &InvalidInputError{
				Field:  fmt.Sprintf("systems[%d].auxiliaries", d.Id),
				Reason: fmt.Sprintf("`%s`: hours per day must lie in [0, 24]", a.Name),
			}
		}
		aux[j] = AuxiliaryComponent{
			name:          a.Name,
			p_rated:       a.RatedPower,
			control:       control,
			hours_per_day: a.HoursPerDay,
		}
	}

	return &SystemSpec{
		id:             d.Id,
		name:           d.Name,
		service:        service,
		system_type:    d.SystemType,
		eta_gen:        d.Efficiency,
		f_dist:         d.DistributionLoss,
		f_stor:         d.StorageLoss,
		carrier_shares: shares,
		aux:            aux,
	}, nil
}

// Répertoire des systèmes déclarés, indexé par id.
type Systems struct {
	by_id map[int]*SystemSpec
}

func NewSystems(ds []SystemJson) (*Systems, error) {
	by_id := make(map[int]*SystemSpec, len(ds))
	for i := range ds {
		s, err := NewSystemSpec(&ds[i])
		if err != nil {
			return nil, err
		}
		if _, dup := by_id[s.id]; dup {
			return nil, &InvalidInputError{
				Field:  "systems",
				Reason: fmt.Sprintf("duplicate system id %d", s.id),
			}
		}
		by_id[s.id] = s
	}
	return &Systems{by_id: by_id}, nil
}

// Système référencé par id (0 = aucun système).
func (ss *Systems) lookup(id int) (*SystemSpec, error) {
	if id == 0 {
		return nil, nil
	}
	s, ok := ss.by_id[id]
	if !ok {
		return nil, &InvalidInputError{Field: "systems", Reason: fmt.Sprintf("unknown system id %d", id)}
	}
	return s, nil
}

//---------------------------------------------------------------------------------------------------//

// Statut d'un flux de besoin vis-à-vis des systèmes installés.
type DemandStatus int

// Statut d'un flux de besoin vis-à-vis des systèmes installés.
const (
	StatusServed   DemandStatus = iota // un système couvre le besoin
	StatusUnserved                     // aucun système: besoin non desservi, distinct d'une consommation nulle
)

func (s DemandStatus) String() string {
	return [...]string{"served", "unserved"}[s]
}

// Besoin brut mensuel d'un flux (net + pertes de distribution et de stockage).
type GrossDemand struct {
	status    DemandStatus
	q_gross_m *mat.VecDense // MJ, [M] (nil quand le flux est non desservi)
}

// Statut du flux.
func (g *GrossDemand) Status() DemandStatus { return g.status }

// Besoin brut mensuel, MJ, [M]; nil quand le flux est non desservi.
func (g *GrossDemand) Gross() *mat.VecDense { return g.q_gross_m }

/*
Calcule le besoin brut mensuel d'un flux.

	Q_brut_m = Q_net_m * (1 + f_dist) * (1 + f_stock)

	Args:
		q_net_m: besoin net mensuel, MJ, [M]
		s: système desservant le flux (nil = aucun)

	Returns:
		besoin brut; statut unserved quand aucun système n'est déclaré

Garantie: brut >= net pour chaque mois; l'égalité vaut quand les deux
fractions de pertes sont nulles.
*/
func ComputeGrossDemand(q_net_m *mat.VecDense, s *SystemSpec) *GrossDemand {
	if s == nil {
		return &GrossDemand{status: StatusUnserved}
	}
	q_gross_m := mat.NewVecDense(NMonths, nil)
	f := (1.0 + s.f_dist) * (1.0 + s.f_stor)
	q_gross_m.ScaleVec(f, q_net_m)
	return &GrossDemand{status: StatusServed, q_gross_m: q_gross_m}
}

// Consommation finale mensuelle d'un flux, par vecteur énergétique.
type FinalEnergy struct {
	status       DemandStatus
	by_carrier_m map[Carrier]*mat.VecDense // MJ, [M]
}

// Statut du flux.
func (f *FinalEnergy) Status() DemandStatus { return f.status }

// Consommation finale mensuelle par vecteur, MJ, [M].
func (f *FinalEnergy) ByCarrier() map[Carrier]*mat.VecDense { return f.by_carrier_m }

// Consommation finale annuelle du vecteur, MJ.
func (f *FinalEnergy) Annual(carrier Carrier) float64 {
	q_m, ok := f.by_carrier_m[carrier]
	if !ok {
		return 0.0
	}
	return floats.Sum(q_m.RawVector().Data)
}

/*
Calcule la consommation finale mensuelle d'un flux.

	Q_final_vecteur_m = part_vecteur * Q_brut_m / eta_gen

Pour un système de refroidissement, eta_gen porte l'EER/COP: la
division couvre les deux cas. Un système mixte (par ex. pompe à chaleur
hybride + appoint gaz) répartit le besoin brut selon les parts
configurées avant d'appliquer le rendement.

	Args:
		g: besoin brut du flux
		s: système desservant le flux (nil = aucun)

	Returns:
		consommation finale par vecteur; statut unserved sans système
*/
func ComputeFinalEnergy(g *GrossDemand, s *SystemSpec) *FinalEnergy {
	if s == nil || g == nil || g.status == StatusUnserved {
		return &FinalEnergy{status: StatusUnserved}
	}
	by_carrier := make(map[Carrier]*mat.VecDense, len(s.carrier_shares))
	for carrier, share := range s.carrier_shares {
		q_m := mat.NewVecDense(NMonths, nil)
		q_m.ScaleVec(share/s.eta_gen, g.q_gross_m)
		by_carrier[carrier] = q_m
	}
	return &FinalEnergy{status: StatusServed, by_carrier_m: by_carrier}
}

/*
Agrège des consommations finales par vecteur énergétique.

Plusieurs systèmes peuvent partager un même vecteur: la déclaration au
certificat se fait par vecteur, pas par système. Les flux non desservis
sont ignorés (ils restent déclarés via leur statut).
*/
func MergeFinalByCarrier(fs ...*FinalEnergy) map[Carrier]*mat.VecDense {
	out := map[Carrier]*mat.VecDense{}
	for _, f := range fs {
		if f == nil || f.status == StatusUnserved {
			continue
		}
		for carrier, q_m := range f.by_carrier_m {
			acc, ok := out[carrier]
			if !ok {
				acc = mat.NewVecDense(NMonths, nil)
				out[carrier] = acc
			}
			acc.AddVec(acc, q_m)
		}
	}
	return out
}

//---------------------------------------------------------------------------------------------------//

// Modèle d'heures de fonctionnement pour les auxiliaires asservis à la charge.
type HoursModel struct {
	load_factor_m *mat.VecDense // facteur de charge du mois, [0, 1], [M] (nil = charge pleine)
}

/*
Construit le modèle d'heures à partir d'une série de besoins mensuels.

Le facteur de charge d'un mois est le besoin du mois rapporté au besoin
du mois le plus chargé (0 quand la série entière est nulle).
*/
func NewHoursModel(q_m *mat.VecDense) *HoursModel {
	q_max := mat.Max(q_m)
	load := mat.NewVecDense(NMonths, nil)
	if q_max > 0 {
		load.ScaleVec(1.0/q_max, q_m)
	}
	return &HoursModel{load_factor_m: load}
}

// Consommation électrique mensuelle des auxiliaires d'un système.
type AuxiliaryEnergy struct {
	e_aux_m *mat.VecDense // MJ (électricité), [M]
}

// Consommation mensuelle, MJ d'électricité, [M].
func (a *AuxiliaryEnergy) Electricity() *mat.VecDense { return a.e_aux_m }

// Consommation annuelle, MJ d'électricité.
func (a *AuxiliaryEnergy) Annual() float64 {
	return floats.Sum(a.e_aux_m.RawVector().Data)
}

/*
Calcule la consommation électrique mensuelle des auxiliaires.

	E_aux_m = somme sur les auxiliaires de P_nom * h_m

	Args:
		s: système (nil = aucun auxiliaire)
		w: série climatique (durées des mois)
		hours: facteurs de charge mensuels pour la stratégie demand_linked

	Returns:
		consommation mensuelle, MJ d'électricité, déclarée en
		électricité quel que soit le vecteur du système parent

Heures de fonctionnement: continuous = tout le mois, scheduled =
horaire fixe h/d, demand_linked = tout le mois pondéré par le facteur
de charge.
*/
func ComputeAuxiliary(s *SystemSpec, w *Climate, hours *HoursModel) *AuxiliaryEnergy {
	e_aux_m := mat.NewVecDense(NMonths, nil)
	if s == nil {
		return &AuxiliaryEnergy{e_aux_m: e_aux_m}
	}

	for _, a := range s.aux {
		for m := 0; m < NMonths; m++ {
			var h_m float64 // heures de fonctionnement du mois, h
			switch a.control {
			case ControlContinuous:
				h_m = 24.0 * w.d_m.AtVec(m)
			case ControlScheduled:
				h_m = a.hours_per_day * w.d_m.AtVec(m)
			case ControlDemandLinked:
				h_m = 24.0 * w.d_m.AtVec(m)
				if hours != nil && hours.load_factor_m != nil {
					h_m *= hours.load_factor_m.AtVec(m)
				}
			default:
				panic(a.control)
			}
			// W * h => Wh => MJ
			e_aux_m.SetVec(m, e_aux_m.AtVec(m)+a.p_rated*h_m*3_600.0/1e6)
		}
	}
	return &AuxiliaryEnergy{e_aux_m: e_aux_m}
}
