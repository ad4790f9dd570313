package per_calc

// **** Données climatiques mensuelles ****
// Climat de référence: Uccle (Annexe XXI, tableau 1)

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/mat"
)

// Nombre de mois du calcul.
const NMonths = 12

// Nombre de jours par mois (année non bissextile, convention de la méthode).
var days_in_month = [NMonths]float64{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// Ligne du fichier climat CSV. Une ligne par mois calendaire.
type ClimateRecord struct {
	Month  int     `csv:"month"`        // mois calendaire, 1..12
	T_e    float64 `csv:"t_e"`          // température extérieure moyenne mensuelle, °C
	I_s_s  float64 `csv:"i_s_s"`        // ensoleillement mensuel, plan vertical sud, MJ/m2
	I_s_sw float64 `csv:"i_s_sw"`       // sud-ouest, MJ/m2
	I_s_w  float64 `csv:"i_s_w"`        // ouest, MJ/m2
	I_s_nw float64 `csv:"i_s_nw"`       // nord-ouest, MJ/m2
	I_s_n  float64 `csv:"i_s_n"`        // nord, MJ/m2
	I_s_ne float64 `csv:"i_s_ne"`       // nord-est, MJ/m2
	I_s_e  float64 `csv:"i_s_e"`        // est, MJ/m2
	I_s_se float64 `csv:"i_s_se"`       // sud-est, MJ/m2
	I_s_h  float64 `csv:"i_s_h"`        // plan horizontal, MJ/m2
	T_cw   float64 `csv:"t_cold_water"` // température de l'eau froide sanitaire, °C
}

/*
Série climatique mensuelle résolue.

Tous les vecteurs ont exactement NMonths composantes, dans l'ordre des
mois calendaires. Immuable après construction.
*/
type Climate struct {
	t_e_m  *mat.VecDense                 // température extérieure moyenne du mois m, °C, [M]
	i_s_m  [n_orientations]*mat.VecDense // ensoleillement du mois m par orientation, MJ/m2, [M]
	t_cw_m *mat.VecDense                 // température de l'eau froide du mois m, °C, [M]
	t_m    *mat.VecDense                 // durée du mois m, Ms, [M]
	d_m    *mat.VecDense                 // nombre de jours du mois m, d, [M]
}

/*
Construit la série climatique à partir des enregistrements mensuels.

	Args:
		records: 12 enregistrements, mois 1 à 12 dans l'ordre

	Returns:
		série climatique, ou une erreur si la série n'est pas conforme
*/
func NewClimate(records []ClimateRecord) (*Climate, error) {
	if len(records) != NMonths {
		return nil, &InvalidInputError{
			Field:  "climate",
			Reason: fmt.Sprintf("expected exactly %d monthly records, got %d", NMonths, len(records)),
		}
	}

	t_e_m := make([]float64, NMonths)
	t_cw_m := make([]float64, NMonths)
	t_m := make([]float64, NMonths)
	d_m := make([]float64, NMonths)
	i_s := [n_orientations][]float64{}
	for o := range i_s {
		i_s[o] = make([]float64, NMonths)
	}

	for m, r := range records {
		if r.Month != m+1 {
			return nil, &InvalidInputError{
				Field:  "climate",
				Reason: fmt.Sprintf("record %d carries month %d, expected calendar order 1..12", m, r.Month),
			}
		}
		t_e_m[m] = r.T_e
		t_cw_m[m] = r.T_cw
		d_m[m] = days_in_month[m]
		// durée du mois en Ms (convention de l'Annexe XXI)
		t_m[m] = days_in_month[m] * 86_400.0 / 1e6

		i_s[OrientationS][m] = r.I_s_s
		i_s[OrientationSW][m] = r.I_s_sw
		i_s[OrientationW][m] = r.I_s_w
		i_s[OrientationNW][m] = r.I_s_nw
		i_s[OrientationN][m] = r.I_s_n
		i_s[OrientationNE][m] = r.I_s_ne
		i_s[OrientationE][m] = r.I_s_e
		i_s[OrientationSE][m] = r.I_s_se
		i_s[OrientationH][m] = r.I_s_h

		for o := range i_s {
			if i_s[o][m] < 0 {
				return nil, &InvalidInputError{
					Field:  "climate",
					Reason: fmt.Sprintf("negative irradiation for month %d", r.Month),
				}
			}
		}
	}

	w := &Climate{
		t_e_m:  mat.NewVecDense(NMonths, t_e_m),
		t_cw_m: mat.NewVecDense(NMonths, t_cw_m),
		t_m:    mat.NewVecDense(NMonths, t_m),
		d_m:    mat.NewVecDense(NMonths, d_m),
	}
	for o := range i_s {
		w.i_s_m[o] = mat.NewVecDense(NMonths, i_s[o])
	}
	return w, nil
}

/*
Charge un fichier climat CSV.

	Args:
		path: chemin du fichier CSV (colonnes de ClimateRecord)

	Returns:
		série climatique résolue
*/
func LoadClimateCSV(path string) (*Climate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("climate file `%s`: %w", path, err)
	}
	defer f.Close()

	var records []*ClimateRecord
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, fmt.Errorf("climate file `%s`: %w", path, err)
	}

	rs := make([]ClimateRecord, len(records))
	for i, r := range records {
		rs[i] = *r
	}
	return NewClimate(rs)
}

// Rend le contenu de la série climatique au format CSV (en-tête compris).
func (w *Climate) get_climate_csv() string {
	records := make([]*ClimateRecord, NMonths)
	for m := 0; m < NMonths; m++ {
		records[m] = &ClimateRecord{
			Month:  m + 1,
			T_e:    w.t_e_m.AtVec(m),
			I_s_s:  w.i_s_m[OrientationS].AtVec(m),
			I_s_sw: w.i_s_m[OrientationSW].AtVec(m),
			I_s_w:  w.i_s_m[OrientationW].AtVec(m),
			I_s_nw: w.i_s_m[OrientationNW].AtVec(m),
			I_s_n:  w.i_s_m[OrientationN].AtVec(m),
			I_s_ne: w.i_s_m[OrientationNE].AtVec(m),
			I_s_e:  w.i_s_m[OrientationE].AtVec(m),
			I_s_se: w.i_s_m[OrientationSE].AtVec(m),
			I_s_h:  w.i_s_m[OrientationH].AtVec(m),
			T_cw:   w.t_cw_m.AtVec(m),
		}
	}
	out, err := gocsv.MarshalString(&records)
	if err != nil {
		panic(err)
	}
	return out
}

// Climat de référence d'Uccle (moyennes mensuelles).
func UccleClimate() *Climate {
	records := []ClimateRecord{
		{Month: 1, T_e: 3.2, I_s_s: 110.2, I_s_sw: 81.9, I_s_w: 51.8, I_s_nw: 35.6, I_s_n: 31.0, I_s_ne: 35.6, I_s_e: 51.8, I_s_se: 81.9, I_s_h: 73.4, T_cw: 7.6},
		{Month: 2, T_e: 3.9, I_s_s: 155.5, I_s_sw: 121.0, I_s_w: 82.1, I_s_nw: 56.2, I_s_n: 48.6, I_s_ne: 56.2, I_s_e: 82.1, I_s_se: 121.0, I_s_h: 125.3, T_cw: 7.2},
		{Month: 3, T_e: 6.7, I_s_s: 220.0, I_s_sw: 188.6, I_s_w: 149.0, I_s_nw: 102.2, I_s_n: 87.5, I_s_ne: 102.2, I_s_e: 149.0, I_s_se: 188.6, I_s_h: 238.0, T_cw: 8.0},
		{Month: 4, T_e: 9.8, I_s_s: 253.4, I_s_sw: 238.7, I_s_w: 212.0, I_s_nw: 155.9, I_s_n: 128.2, I_s_ne: 155.9, I_s_e: 212.0, I_s_se: 238.7, I_s_h: 372.6, T_cw: 9.5},
		{Month: 5, T_e: 13.7, I_s_s: 264.1, I_s_sw: 264.4, I_s_w: 252.7, I_s_nw: 201.6, I_s_n: 171.1, I_s_ne: 201.6, I_s_e: 252.7, I_s_se: 264.4, I_s_h: 480.2, T_cw: 11.8},
		{Month: 6, T_e: 16.5, I_s_s: 250.6, I_s_sw: 259.9, I_s_w: 258.1, I_s_nw: 214.9, I_s_n: 188.3, I_s_ne: 214.9, I_s_e: 258.1, I_s_se: 259.9, I_s_h: 497.5, T_cw: 14.0},
		{Month: 7, T_e: 18.4, I_s_s: 258.8, I_s_sw: 263.9, I_s_w: 255.6, I_s_nw: 207.7, I_s_n: 178.9, I_s_ne: 207.7, I_s_e: 255.6, I_s_se: 263.9, I_s_h: 489.2, T_cw: 15.6},
		{Month: 8, T_e: 18.0, I_s_s: 273.5, I_s_sw: 258.0, I_s_w: 229.0, I_s_nw: 166.0, I_s_n: 139.3, I_s_ne: 166.0, I_s_e: 229.0, I_s_se: 258.0, I_s_h: 428.0, T_cw: 16.2},
		{Month: 9, T_e: 14.9, I_s_s: 255.2, I_s_sw: 219.6, I_s_w: 171.0, I_s_nw: 114.5, I_s_n: 96.5, I_s_ne: 114.5, I_s_e: 171.0, I_s_se: 219.6, I_s_h: 296.3, T_cw: 15.1},
		{Month: 10, T_e: 11.1, I_s_s: 196.2, I_s_sw: 153.1, I_s_w: 105.1, I_s_nw: 69.5, I_s_n: 59.8, I_s_ne: 69.5, I_s_e: 105.1, I_s_se: 153.1, I_s_h: 177.1, T_cw: 13.0},
		{Month: 11, T_e: 6.8, I_s_s: 120.6, I_s_sw: 90.7, I_s_w: 58.7, I_s_nw: 40.3, I_s_n: 35.0, I_s_ne: 40.3, I_s_e: 58.7, I_s_se: 90.7, I_s_h: 87.8, T_cw: 10.5},
		{Month: 12, T_e: 3.9, I_s_s: 88.6, I_s_sw: 64.8, I_s_w: 40.3, I_s_nw: 27.4, I_s_n: 24.2, I_s_ne: 27.4, I_s_e: 40.3, I_s_se: 64.8, I_s_h: 55.1, T_cw: 8.6},
	}
	w, err := NewClimate(records)
	if err != nil {
		panic(err)
	}
	return w
}
