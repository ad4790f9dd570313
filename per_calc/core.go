package per_calc

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"gonum.org/v1/gonum/mat"
)

type InputJson struct {
	Building BuildingJson `json:"building"`
	Sectors  []ZoneJson   `json:"energy_sectors"`
	Systems  []SystemJson `json:"systems"`
}

type BuildingJson struct {
	Name string `json:"name"`
}

type ZoneJson struct {
	Id               int              `json:"id"`
	Name             string           `json:"name"`
	FloorArea        float64          `json:"floor_area"`
	Volume           float64          `json:"volume"`
	CapacitanceClass string           `json:"capacitance_class"`
	InternalGainRate float64          `json:"internal_gain_rate"`
	Infiltration     InfiltrationJson `json:"infiltration"`
	Ventilation      VentilationJson  `json:"ventilation"`
	Opaque           []OpaqueJson     `json:"opaque_elements"`
	Glazed           []GlazedJson     `json:"glazed_elements"`
	DHW              DHWJson          `json:"dhw"`

	HeatingSystemId int `json:"heating_system_id"`
	CoolingSystemId int `json:"cooling_system_id"`
	DHWSystemId     int `json:"dhw_system_id"`
}

type InfiltrationJson struct {
	AirChangeRate float64 `json:"air_change_rate"`
}

type VentilationJson struct {
	System        string  `json:"system"`
	AirChangeRate float64 `json:"air_change_rate"`
	HeatRecovery  float64 `json:"heat_recovery"`
	FreeCooling   float64 `json:"free_cooling"`
}

type OpaqueJson struct {
	Name   string  `json:"name"`
	UValue float64 `json:"u_value"`
	Area   float64 `json:"area"`
	B      float64 `json:"b"`
}

type GlazedJson struct {
	Name          string  `json:"name"`
	UValue        float64 `json:"u_value"`
	Area          float64 `json:"area"`
	GValue        float64 `json:"g_value"`
	ShadingFactor float64 `json:"shading_factor"`
	Orientation   string  `json:"orientation"`
}

type DHWJson struct {
	DailyVolume float64 `json:"daily_volume"`
	ThetaSupply float64 `json:"theta_supply"`
	NBath       int     `json:"n_bath"`
	NSink       int     `json:"n_sink"`
	RWaterBath  float64 `json:"r_water_bath"`
	RWaterSink  float64 `json:"r_water_sink"`
}

type SystemJson struct {
	Id               int                `json:"id"`
	Name             string             `json:"name"`
	Service          string             `json:"service"`
	SystemType       string             `json:"system_type"`
	Efficiency       float64            `json:"efficiency"`
	DistributionLoss float64            `json:"distribution_loss"`
	StorageLoss      float64            `json:"storage_loss"`
	Carriers         []CarrierShareJson `json:"carriers"`
	Auxiliaries      []AuxiliaryJson    `json:"auxiliaries"`
}

type CarrierShareJson struct {
	Carrier string  `json:"carrier"`
	Share   float64 `json:"share"`
}

type AuxiliaryJson struct {
	Name        string  `json:"name"`
	RatedPower  float64 `json:"rated_power"`
	Control     string  `json:"control"`
	HoursPerDay float64 `json:"hours_per_day"`
}

//---------------------------------------------------------------------------------------------------//

// Résultat d'un flux de besoin (chauffage, refroidissement ou ECS).
type StreamResult struct {
	service Service
	system  *SystemSpec // nil = aucun système déclaré
	net_m   *mat.VecDense
	gross   *GrossDemand
	final   *FinalEnergy
	aux     *AuxiliaryEnergy
}

// Statut du flux.
func (s *StreamResult) Status() DemandStatus {
	if s.system == nil {
		return StatusUnserved
	}
	return StatusServed
}

// Résultat complet d'un secteur énergétique. Un secteur en erreur porte
// err et aucun résultat partiel.
type ZoneResult struct {
	name string
	err  error

	zone    *Zone
	gl      *GainsLosses
	balance *ZoneBalance
	dhw     *DHWDemand

	streams          map[Service]*StreamResult
	final_by_carrier map[Carrier]*mat.VecDense
}

// Nom du secteur.
func (r *ZoneResult) Name() string { return r.name }

// Erreur du secteur (nil = calcul abouti).
func (r *ZoneResult) Err() error { return r.err }

// Bilan thermique annuel du secteur.
func (r *ZoneResult) Balance() *ZoneBalance { return r.balance }

// Besoins nets en ECS.
func (r *ZoneResult) DHW() *DHWDemand { return r.dhw }

// Résultat du flux demandé.
func (r *ZoneResult) Stream(s Service) *StreamResult { return r.streams[s] }

// Consommation finale mensuelle du secteur par vecteur, MJ, [M].
func (r *ZoneResult) FinalByCarrier() map[Carrier]*mat.VecDense { return r.final_by_carrier }

/*
Exécution du calcul PER.

	Args:
		input_path: chemin (ou URL http) du fichier JSON de description du bâtiment
		output_dir: dossier de sortie des résultats
		constants_path: fichier YAML de surcharge des constantes ("" = valeurs en vigueur)
		climate_path: fichier CSV climat ("" = climat de référence d'Uccle)
		is_climate_saved: faut-il sauver la série climatique utilisée
		recording: faut-il écrire les fichiers de résultats
*/
func Run(
	input_path string,
	output_dir string,
	constants_path string,
	climate_path string,
	is_climate_saved bool,
	recording bool,
) error {
	log.SetFlags(log.Lmicroseconds)

	// ---- Préparation ----

	if recording {
		if _, err := os.Stat(output_dir); os.IsNotExist(err) {
			os.Mkdir(output_dir, 0755)
		}
		if _, err := os.Stat(output_dir); os.IsNotExist(err) {
			return fmt.Errorf("`%s` is not a directory", output_dir)
		}
	}

	// Lecture du fichier JSON de description du bâtiment
	log.Printf("Lecture du fichier de description `%s`", input_path)
	rd, err := _load_input(input_path)
	if err != nil {
		return err
	}

	// Constantes de la méthode
	c, err := LoadConstants(constants_path)
	if err != nil {
		return err
	}

	// Série climatique
	var w *Climate
	if climate_path != "" {
		log.Printf("Lecture du fichier climat `%s`", climate_path)
		w, err = LoadClimateCSV(climate_path)
		if err != nil {
			return err
		}
	} else {
		log.Printf("Climat de référence: Uccle")
		w = UccleClimate()
	}

	// ---- Calcul ----

	results, err := calc(rd, w, c)
	if err != nil {
		return err
	}
	for _, r := range results {
		if r.err != nil {
			log.Printf("secteur `%s`: %v", r.name, r.err)
		}
	}

	// ---- Sauvegarde des résultats ----

	if is_climate_saved && recording {
		climate_out := filepath.Join(output_dir, "climate_for_method.csv")
		log.Printf("Save climate data to `%s`", climate_out)
		if err := os.WriteFile(climate_out, []byte(w.get_climate_csv()), 0644); err != nil {
			return err
		}
	}

	if recording {
		rec := NewRecorder(results, w)

		monthly_path := filepath.Join(output_dir, "result_monthly.csv")
		log.Printf("Save monthly balance results to `%s`", monthly_path)
		f_m, err := os.Create(monthly_path)
		if err != nil {
			return fmt.Errorf("failed to create `%s`: %w", monthly_path, err)
		}
		defer f_m.Close()
		rec.export_monthly(f_m)

		energy_path := filepath.Join(output_dir, "result_energy.csv")
		log.Printf("Save energy results to `%s`", energy_path)
		f_e, err := os.Create(energy_path)
		if err != nil {
			return fmt.Errorf("failed to create `%s`: %w", energy_path, err)
		}
		defer f_e.Close()
		rec.export_energy(f_e)
	}

	return nil
}

func _load_input(input_path string) (*InputJson, error) {
	var body []byte
	if len(input_path) >= 4 && input_path[0:4] == "http" {
		resp, err := http.Get(input_path)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		body, err = os.ReadFile(input_path)
		if err != nil {
			return nil, err
		}
	}

	var rd InputJson
	if err := json.Unmarshal(body, &rd); err != nil {
		return nil, fmt.Errorf("input `%s`: %w", input_path, err)
	}
	return &rd, nil
}

/*
Programme principal du calcul.

	Args:
		rd: description du bâtiment (secteurs + systèmes)
		w: série climatique
		c: constantes de la méthode

	Returns:
		un résultat par secteur, dans l'ordre de la description

Les secteurs sont indépendants: chacun est calculé sur sa propre
goroutine et une erreur dans un secteur n'interrompt pas les autres
(le résultat du secteur fautif porte l'erreur). Une erreur dans la
déclaration des systèmes est globale et interrompt le calcul.
*/
func calc(rd *InputJson, w *Climate, c *MethodConstants) ([]*ZoneResult, error) {
	log.Printf("Calcul de %d secteur(s) énergétique(s)", len(rd.Sectors))

	zones, err := NewZones(rd.Sectors)
	if err != nil {
		return nil, err
	}

	systems, err := NewSystems(rd.Systems)
	if err != nil {
		return nil, err
	}

	results := make([]*ZoneResult, zones.n_z)
	var wg sync.WaitGroup
	for i := 0; i < zones.n_z; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = _calc_zone(zones.name_z_is[i], zones.zs[i], zones.errs[i], w, c, systems)
		}(i)
	}
	wg.Wait()

	return results, nil
}

// Calcul complet d'un secteur: flux mensuels -> bilan -> besoins nets ->
// besoins bruts -> consommation finale -> auxiliaires.
func _calc_zone(name string, z *Zone, zone_err error, w *Climate, c *MethodConstants, systems *Systems) *ZoneResult {
	r := &ZoneResult{name: name}

	if zone_err != nil {
		r.err = zone_err
		return r
	}
	r.zone = z

	gl := NewGainsLosses(z, w, c)
	r.gl = gl
	r.balance = _balance_from_flows(z, gl, c)

	dhw, err := ComputeDHW(z, w, c)
	if err != nil {
		r.err = err
		return r
	}
	r.dhw = dhw

	type stream_def struct {
		service   Service
		system_id int
		net_m     *mat.VecDense
	}
	defs := []stream_def{
		{ServiceHeating, z.heating_system_id, r.balance.NetHeating()},
		{ServiceCooling, z.cooling_system_id, r.balance.NetCooling()},
		{ServiceDHW, z.dhw_system_id, dhw.Net()},
	}

	r.streams = make(map[Service]*StreamResult, len(defs))
	finals := make([]*FinalEnergy, 0, len(defs))
	for _, def := range defs {
		s, err := systems.lookup(def.system_id)
		if err != nil {
			r.err = &InvalidInputError{Zone: z.name, Field: def.service.String() + "_system_id", Reason: err.Error()}
			return r
		}
		if s != nil && s.service != def.service {
			r.err = &InvalidInputError{
				Zone:   z.name,
				Field:  def.service.String() + "_system_id",
				Reason: fmt.Sprintf("system %d serves %s, not %s", s.id, s.service, def.service),
			}
			return r
		}

		gross := ComputeGrossDemand(def.net_m, s)
		final := ComputeFinalEnergy(gross, s)
		aux := ComputeAuxiliary(s, w, NewHoursModel(def.net_m))

		sr := &StreamResult{
			service: def.service,
			system:  s,
			net_m:   def.net_m,
			gross:   gross,
			final:   final,
			aux:     aux,
		}
		r.streams[def.service] = sr
		finals = append(finals, final)
	}

	r.final_by_carrier = MergeFinalByCarrier(finals...)
	return r
}
