// Command simulate runs one scored episode headless with a chosen
// policy and prints the results.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"

	"verdant/config"
	"verdant/hose"
	"verdant/policy"
	"verdant/sim"
	"verdant/store"
	"verdant/telemetry"
	"verdant/terrain"
)

func main() {
	configPath := flag.String("config", "", "Config YAML file (empty = defaults)")
	policyName := flag.String("policy", "smart", "Policy: always-on, always-off, threshold, smart")
	paramsName := flag.String("params", "", "Named parameter set to load from the store")
	storePath := flag.String("store", "", "SQLite store path (required with -params)")
	seed := flag.Int64("seed", 0, "Garden/weather seed override (0 = config value)")
	outputDir := flag.String("output", "", "Output directory for episode CSV")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	if *seed == 0 {
		*seed = cfg.Garden.Seed
	}

	smartParams := cfg.Policy.Smart
	if *paramsName != "" {
		if *storePath == "" {
			*storePath = cfg.Output.StorePath
		}
		if *storePath == "" {
			log.Fatal("-params requires -store (or output.store_path in config)")
		}
		db, err := store.Open(*storePath)
		if err != nil {
			log.Fatalf("failed to open store: %v", err)
		}
		smartParams, err = db.Load(*paramsName)
		db.Close()
		if err != nil {
			log.Fatalf("failed to load params %q: %v", *paramsName, err)
		}
	}

	var decider sim.Policy
	switch *policyName {
	case "always-on":
		decider = policy.AlwaysOn{}
	case "always-off":
		decider = policy.AlwaysOff{}
	case "threshold":
		decider = policy.NewThreshold(cfg.Policy.Threshold.OnBelow, cfg.Policy.Threshold.OffAbove)
	case "smart":
		decider = policy.NewDefaultSmart(smartParams)
	default:
		log.Fatalf("unknown policy %q", *policyName)
	}

	g, err := terrain.Generate(cfg.TerrainConfig().WithSeed(*seed))
	if err != nil {
		log.Fatalf("failed to generate garden: %v", err)
	}
	planned := hose.Plan(g, cfg.Garden.CoverageRadius)

	runner := sim.NewRunner(planned, cfg.SimConfig(), cfg.WeatherModel(*seed), decider)
	results := runner.Run()

	slog.Info("episode finished", "policy", *policyName, "seed", *seed, "results", results)
	fmt.Printf("Policy %s, seed %d\n", *policyName, *seed)
	fmt.Printf("  score: %.0f\n", results.FinalScore)
	fmt.Printf("  water used: %.2f over %d ticks (%d on, %d toggles)\n",
		results.TotalWaterUsed, results.Ticks, results.IrrigationOnTicks, results.ToggleCount)
	fmt.Printf("  plant-ticks: %d healthy / %d dry / %d flooded of %d\n",
		results.HealthyPlantTicks, results.DryPlantTicks, results.FloodedPlantTicks, results.TotalPlantTicks)

	if *outputDir != "" {
		om, err := telemetry.NewOutputManager(*outputDir)
		if err != nil {
			log.Fatalf("failed to create output: %v", err)
		}
		defer om.Close()
		if err := om.WriteEpisode(telemetry.NewEpisodeRecord(*seed, *policyName, results)); err != nil {
			log.Printf("telemetry: %v", err)
		}
	}
}
