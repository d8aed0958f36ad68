// Command train runs the genetic policy search headless and writes the
// training history, the best parameter set, and optionally a saved
// parameter record.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"path/filepath"
	"time"

	"verdant/config"
	"verdant/optimize"
	"verdant/store"
	"verdant/telemetry"
)

// formatDuration formats a duration as compact h/m/s.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Config YAML file (empty = defaults)")
	outputDir := flag.String("output", "", "Output directory for training CSV and best params")
	storePath := flag.String("store", "", "SQLite path to save the best params (overrides config)")
	saveName := flag.String("name", "trained", "Name to save the best params under")
	generations := flag.Int("generations", 0, "Generation count override (0 = config value)")
	seed := flag.Int64("seed", 0, "Search seed override (0 = config value)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	gaCfg := cfg.OptimizeConfig()
	if *generations > 0 {
		gaCfg.Generations = *generations
	}
	if *seed != 0 {
		gaCfg.Seed = *seed
	}
	if *outputDir == "" {
		*outputDir = cfg.Output.Dir
	}
	if *storePath == "" {
		*storePath = cfg.Output.StorePath
	}

	om, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		log.Fatalf("failed to create output: %v", err)
	}
	defer om.Close()

	evaluator := &optimize.EpisodeEvaluator{
		Garden: cfg.TerrainConfig(),
		Sim:    cfg.SimConfig(),
	}
	opt, err := optimize.New(gaCfg, evaluator)
	if err != nil {
		log.Fatalf("bad training config: %v", err)
	}

	startTime := time.Now()
	opt.Progress = func(gen, total int, best, mean float64) {
		elapsed := time.Since(startTime)
		avgPerGen := elapsed / time.Duration(gen)
		remaining := time.Duration(total-gen) * avgPerGen
		fmt.Printf("Gen %d/%d: best=%.1f mean=%.1f | elapsed: %s, ETA: %s\n",
			gen, total, best, mean, formatDuration(elapsed), formatDuration(remaining))
	}

	fmt.Printf("Starting search: population=%d, generations=%d, episodes/individual=%d, seed=%d\n",
		gaCfg.PopulationSize, gaCfg.Generations, gaCfg.EpisodesPerIndividual, gaCfg.Seed)

	results, err := opt.Run()
	if err != nil {
		log.Fatalf("training failed: %v", err)
	}

	for gen := range results.FitnessHistory {
		pop := results.FinalPopulation
		if gen < len(results.FitnessHistory)-1 {
			// Only the final population is retained; history rows for
			// earlier generations carry the best fitness alone.
			rec := telemetry.GenerationRecord{Generation: gen + 1, BestFitness: results.FitnessHistory[gen]}
			if err := om.WriteGeneration(rec); err != nil {
				log.Printf("telemetry: %v", err)
			}
			continue
		}
		if err := om.WriteGeneration(telemetry.NewGenerationRecord(gen+1, pop)); err != nil {
			log.Printf("telemetry: %v", err)
		}
	}

	fmt.Printf("\nSearch complete in %s\n", formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.1f\n", results.Best.Fitness)
	slog.Info("training finished", "best", results.Best.Fitness, "generations", len(results.FitnessHistory))

	// Persist the winning parameters.
	best := results.Best.Params
	fmt.Println("\nBest parameters:")
	fmt.Printf("  dryness_weight: %.4f\n", best.DrynessWeight)
	fmt.Printf("  flood_weight: %.4f\n", best.FloodWeight)
	fmt.Printf("  water_weight: %.4f\n", best.WaterWeight)
	fmt.Printf("  prediction_horizon: %d\n", best.PredictionHorizon)
	fmt.Printf("  dry_risk_scale: %.4f\n", best.DryRiskScale)
	fmt.Printf("  flood_risk_scale: %.4f\n", best.FloodRiskScale)
	fmt.Printf("  min_ticks_between_toggles: %d\n", best.MinTicksBetweenToggles)
	fmt.Printf("  max_duty_cycle: %.4f\n", best.MaxDutyCycle)

	if om.Dir() != "" {
		bestCfg, _ := config.Load(*configPath)
		bestCfg.Policy.Smart = best
		outPath := filepath.Join(om.Dir(), "best_config.yaml")
		if err := bestCfg.WriteYAML(outPath); err != nil {
			log.Printf("failed to write best config: %v", err)
		} else {
			fmt.Printf("\nBest config saved to: %s\n", outPath)
		}
	}

	if *storePath != "" {
		db, err := store.Open(*storePath)
		if err != nil {
			log.Fatalf("failed to open store: %v", err)
		}
		defer db.Close()
		if _, err := db.Save(*saveName, best, results.Best.Fitness); err != nil {
			log.Fatalf("failed to save params: %v", err)
		}
		fmt.Printf("Saved params %q to %s\n", *saveName, *storePath)
	}
}
