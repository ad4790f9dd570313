package per_calc

// **** Mise en forme des résultats ****

import (
	"fmt"
	"io"
	"strings"
)

// Accumule les résultats par secteur et les exporte au format CSV.
type Recorder struct {
	results []*ZoneResult
	w       *Climate
}

func NewRecorder(results []*ZoneResult, w *Climate) *Recorder {
	return &Recorder{results: results, w: w}
}

func (r *Recorder) get_header_monthly() []string {
	cols := []string{"zone", "month", "t_e"}
	for k := FlowKind(0); k < n_flow_kinds; k++ {
		cols = append(cols, "q_"+k.String())
	}
	return append(cols,
		"gamma_heat", "eta_util_heat", "q_heat_net",
		"lambda_cool", "eta_util_cool", "q_cool_net",
		"q_dhw_net", "q_excess_overh",
	)
}

func (r *Recorder) get_header_energy() []string {
	return []string{
		"zone", "service", "system", "status", "carrier", "month",
		"q_net", "q_gross", "q_final", "e_aux",
	}
}

// Résultats mensuels du bilan par secteur (flux en MJ, excès en Kh).
// Les secteurs en erreur produisent une ligne `error` unique.
func (r *Recorder) export_monthly(f io.Writer) {
	var sb strings.Builder
	sb.WriteString(strings.Join(r.get_header_monthly(), ","))
	sb.WriteString("\n")

	for _, zr := range r.results {
		if zr.err != nil {
			// ligne à la largeur de l'en-tête pour les lecteurs CSV stricts
			msg := strings.ReplaceAll(fmt.Sprintf("error: %v", zr.err), ",", ";")
			sb.WriteString(zr.name)
			sb.WriteString(",")
			sb.WriteString(msg)
			sb.WriteString(strings.Repeat(",", len(r.get_header_monthly())-2))
			sb.WriteString("\n")
			continue
		}
		for m := 0; m < NMonths; m++ {
			hb := &zr.balance.months[m]
			sb.WriteString(fmt.Sprintf("%s,%d,%g", zr.name, m+1, r.w.t_e_m.AtVec(m)))
			for k := FlowKind(0); k < n_flow_kinds; k++ {
				sb.WriteString(fmt.Sprintf(",%g", zr.gl.flow_m(k).AtVec(m)))
			}
			sb.WriteString(fmt.Sprintf(",%g,%g,%g", hb.gamma_heat, hb.eta_heat, hb.q_heat_net))
			sb.WriteString(fmt.Sprintf(",%g,%g,%g", hb.lambda_cool, hb.eta_cool, hb.q_cool_net))
			sb.WriteString(fmt.Sprintf(",%g,%g", zr.dhw.NetMonth(m), hb.q_excess_norm))
			sb.WriteString("\n")
		}
	}

	f.Write([]byte(sb.String()))
}

// Besoins bruts, consommation finale par vecteur et auxiliaires, par
// secteur et par flux. Un flux sans système produit une ligne de statut
// `unserved` sans valeur numérique (distinct d'une consommation nulle).
func (r *Recorder) export_energy(f io.Writer) {
	var sb strings.Builder
	sb.WriteString(strings.Join(r.get_header_energy(), ","))
	sb.WriteString("\n")

	for _, zr := range r.results {
		if zr.err != nil {
			continue
		}
		for _, service := range []Service{ServiceHeating, ServiceCooling, ServiceDHW} {
			sr := zr.streams[service]
			if sr == nil {
				continue
			}
			if sr.Status() == StatusUnserved {
				sb.WriteString(fmt.Sprintf("%s,%s,,unserved,,,,,,\n", zr.name, service))
				continue
			}
			// ordre des vecteurs fixe pour une sortie déterministe
			for carrier := Carrier(0); carrier < n_carriers; carrier++ {
				q_final_m, ok := sr.final.by_carrier_m[carrier]
				if !ok {
					continue
				}
				for m := 0; m < NMonths; m++ {
					sb.WriteString(fmt.Sprintf("%s,%s,%s,served,%s,%d,%g,%g,%g,%g\n",
						zr.name, service, sr.system.name, carrier, m+1,
						sr.net_m.AtVec(m),
						sr.gross.q_gross_m.AtVec(m),
						q_final_m.AtVec(m),
						sr.aux.e_aux_m.AtVec(m)))
				}
			}
		}
	}

	f.Write([]byte(sb.String()))
}
