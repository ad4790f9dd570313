package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/roruizf/residential-bld-energy-simulator/per_calc"
)

func main() {
	var input_path string
	flag.StringVar(&input_path, "i", "", "fichier JSON de description du bâtiment (chemin ou URL)")

	var output_dir string
	flag.StringVar(&output_dir, "o", "", "dossier de sortie des résultats")

	var constants_path string
	flag.StringVar(&constants_path, "constants", "", "fichier YAML de surcharge des constantes de la méthode")

	var climate_path string
	flag.StringVar(&climate_path, "climate", "", "fichier CSV climat (par défaut: climat de référence d'Uccle)")

	var is_climate_saved bool
	flag.BoolVar(&is_climate_saved, "climate_saved", false, "sauver la série climatique utilisée dans le dossier de sortie")

	var pprof_enable bool
	flag.BoolVar(&pprof_enable, "pprof", false, "profiler l'exécution et sauver cpu.prof")

	flag.Parse()

	if input_path == "" {
		log.Fatal("l'option -i est obligatoire")
	}

	if pprof_enable {
		f, err := os.Create("cpu.prof")
		if err != nil {
			panic(err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				panic(err)
			}
		}()
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer pprof.StopCPUProfile()
	}

	start := time.Now()

	err := per_calc.Run(
		input_path,
		output_dir,
		constants_path,
		climate_path,
		is_climate_saved,
		output_dir != "",
	)
	if err != nil {
		log.Fatal(err)
	}

	elapsedTime := time.Since(start)
	log.Printf("elapsed_time: %v [sec]", elapsedTime)
}
