package per_calc

// **** Constantes de la méthode PER ****
// AGW 15/05/2014, Annexe XXI - Méthode PER (bâtiments résidentiels)

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

/*
Constantes réglementaires de la méthode.

Tous les coefficients codés en dur dans l'Annexe XXI sont regroupés ici
avec des champs nommés, de façon à pouvoir suivre une révision de la
méthode sans toucher au moteur de calcul. Les valeurs par défaut sont
celles du texte en vigueur; un fichier YAML permet de les surcharger.
*/
type MethodConstants struct {
	// Facteur d'utilisation (méthode dynamique, NBN EN ISO 13790)
	A0   float64 `yaml:"a_0"`   // paramètre numérique adimensionnel a_0, -
	Tau0 float64 `yaml:"tau_0"` // constante de temps de référence tau_0, s

	// Températures de consigne
	ThetaSetHeat    float64 `yaml:"theta_set_heat"`     // consigne intérieure en régime de chauffage, °C
	ThetaSetCool    float64 `yaml:"theta_set_cool"`     // consigne intérieure en régime de refroidissement / surchauffe, °C
	DeltaThetaECool float64 `yaml:"delta_theta_e_cool"` // correction de la température extérieure en régime de refroidissement, K
	ThetaFreeCool   float64 `yaml:"theta_free_cool"`    // température extérieure au-delà de laquelle la ventilation intensive est comptée, °C

	// Facteur de prise en compte (rapport de bilan limite)
	GammaLim float64 `yaml:"gamma_lim"` // au-delà, f_allow = 0, -

	// Gains internes forfaitaires en fonction de V_EPR
	// Q_int = (c1*V + c2) * t_m   si V_EPR <= V_pivot
	// Q_int = (c3*V + c4) * t_m   sinon
	IntGainC1   float64 `yaml:"int_gain_c1"`  // W/m3
	IntGainC2   float64 `yaml:"int_gain_c2"`  // W
	IntGainC3   float64 `yaml:"int_gain_c3"`  // W/m3
	IntGainC4   float64 `yaml:"int_gain_c4"`  // W
	VolumePivot float64 `yaml:"volume_pivot"` // V_EPR pivot, m3

	// Eau chaude sanitaire (puisages de référence)
	DHWBathBase  float64 `yaml:"dhw_bath_base"`  // MJ/Ms
	DHWBathSlope float64 `yaml:"dhw_bath_slope"` // MJ/(Ms m3)
	DHWSinkBase  float64 `yaml:"dhw_sink_base"`  // MJ/Ms
	DHWSinkSlope float64 `yaml:"dhw_sink_slope"` // MJ/(Ms m3)

	// Indicateur de surchauffe
	IOverhThresh float64 `yaml:"i_overh_thresh"` // seuil de l'indicateur de surchauffe, Kh
	IOverhMax    float64 `yaml:"i_overh_max"`    // valeur maximale conventionnelle, Kh
	FCoolCoef    float64 `yaml:"f_cool_coef"`    // coefficient de la fraction de temps au-dessus de 25 °C, -

	// Propriétés physiques
	RhoCAir float64 `yaml:"rho_c_air"` // capacité thermique volumique de l'air, Wh/(m3 K)
	CWater  float64 `yaml:"c_water"`   // capacité thermique massique de l'eau, J/(kg K)

	// Capacité thermique effective par classe d'inertie, J/(K m2)
	CapacitanceLight  float64 `yaml:"capacitance_light"`
	CapacitanceMedium float64 `yaml:"capacitance_medium"`
	CapacitanceHeavy  float64 `yaml:"capacitance_heavy"`
}

// Valeurs par défaut de l'Annexe XXI.
func DefaultConstants() *MethodConstants {
	return &MethodConstants{
		A0:   1.0,
		Tau0: 54_000.0,

		ThetaSetHeat:    18.0,
		ThetaSetCool:    23.0,
		DeltaThetaECool: 1.0,
		ThetaFreeCool:   12.0,

		GammaLim: 2.5,

		IntGainC1:   1.41,
		IntGainC2:   78.0,
		IntGainC3:   0.67,
		IntGainC4:   220.0,
		VolumePivot: 192.0,

		DHWBathBase:  64.0,
		DHWBathSlope: 0.220,
		DHWSinkBase:  16.0,
		DHWSinkSlope: 0.055,

		IOverhThresh: 1_000.0,
		IOverhMax:    6_500.0,
		FCoolCoef:    0.05,

		RhoCAir: 0.34,
		CWater:  4_187.0,

		CapacitanceLight:  110_000.0,
		CapacitanceMedium: 165_000.0,
		CapacitanceHeavy:  260_000.0,
	}
}

/*
Charge les constantes de la méthode.

	Args:
		path: chemin vers un fichier YAML de surcharge ("" = valeurs par défaut)

	Returns:
		constantes de la méthode

Les champs absents du fichier YAML gardent leur valeur par défaut.
*/
func LoadConstants(path string) (*MethodConstants, error) {
	c := DefaultConstants()
	if path == "" {
		return c, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("constants file `%s`: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("constants file `%s`: %w", path, err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *MethodConstants) validate() error {
	if c.Tau0 <= 0 {
		return fmt.Errorf("tau_0 must be positive, got %g", c.Tau0)
	}
	if c.GammaLim <= 0 {
		return fmt.Errorf("gamma_lim must be positive, got %g", c.GammaLim)
	}
	if c.IOverhMax <= c.IOverhThresh {
		return fmt.Errorf("i_overh_max (%g) must exceed i_overh_thresh (%g)", c.IOverhMax, c.IOverhThresh)
	}
	if c.RhoCAir <= 0 || c.CWater <= 0 {
		return fmt.Errorf("physical properties must be positive")
	}
	return nil
}

// Capacité thermique effective du secteur énergétique, J/K.
func (c *MethodConstants) effective_capacitance(class CapacitanceClass, a_f float64) float64 {
	switch class {
	case CapacitanceClassLight:
		return c.CapacitanceLight * a_f
	case CapacitanceClassMedium:
		return c.CapacitanceMedium * a_f
	case CapacitanceClassHeavy:
		return c.CapacitanceHeavy * a_f
	default:
		panic(class)
	}
}
