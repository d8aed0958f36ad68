package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"verdant/optimize"
	"verdant/sim"
)

// GenerationRecord is one row of the training history CSV.
type GenerationRecord struct {
	Generation  int     `csv:"generation"`
	BestFitness float64 `csv:"best_fitness"`
	MeanFitness float64 `csv:"mean_fitness"`
	StdFitness  float64 `csv:"std_fitness"`

	// Genes of the generation's best individual.
	DrynessWeight          float64 `csv:"dryness_weight"`
	FloodWeight            float64 `csv:"flood_weight"`
	WaterWeight            float64 `csv:"water_weight"`
	PredictionHorizon      int     `csv:"prediction_horizon"`
	DryRiskScale           float64 `csv:"dry_risk_scale"`
	FloodRiskScale         float64 `csv:"flood_risk_scale"`
	MinTicksBetweenToggles int     `csv:"min_ticks_between_toggles"`
	MaxDutyCycle           float64 `csv:"max_duty_cycle"`
}

// NewGenerationRecord summarizes an evaluated, fitness-sorted
// population.
func NewGenerationRecord(generation int, pop []optimize.Chromosome) GenerationRecord {
	xs := make([]float64, len(pop))
	for i, c := range pop {
		xs[i] = c.Fitness
	}
	rec := GenerationRecord{
		Generation:  generation,
		MeanFitness: stat.Mean(xs, nil),
	}
	if len(xs) > 1 {
		rec.StdFitness = stat.StdDev(xs, nil)
	}
	if len(pop) > 0 {
		best := pop[0]
		rec.BestFitness = best.Fitness
		p := best.Params
		rec.DrynessWeight = p.DrynessWeight
		rec.FloodWeight = p.FloodWeight
		rec.WaterWeight = p.WaterWeight
		rec.PredictionHorizon = p.PredictionHorizon
		rec.DryRiskScale = p.DryRiskScale
		rec.FloodRiskScale = p.FloodRiskScale
		rec.MinTicksBetweenToggles = p.MinTicksBetweenToggles
		rec.MaxDutyCycle = p.MaxDutyCycle
	}
	return rec
}

// LogValue implements slog.LogValuer for structured logging.
func (r GenerationRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", r.Generation),
		slog.Float64("best", r.BestFitness),
		slog.Float64("mean", r.MeanFitness),
		slog.Float64("std", r.StdFitness),
	)
}

// EpisodeRecord is one row of the episode results CSV.
type EpisodeRecord struct {
	Seed              int64   `csv:"seed"`
	Policy            string  `csv:"policy"`
	Ticks             int     `csv:"ticks"`
	TotalWaterUsed    float64 `csv:"total_water_used"`
	DryPlantTicks     int     `csv:"dry_plant_ticks"`
	FloodedPlantTicks int     `csv:"flooded_plant_ticks"`
	HealthyPlantTicks int     `csv:"healthy_plant_ticks"`
	TotalPlantTicks   int     `csv:"total_plant_ticks"`
	PeakDryPlants     int     `csv:"peak_dry_plants"`
	PeakFloodedPlants int     `csv:"peak_flooded_plants"`
	ToggleCount       int     `csv:"toggle_count"`
	IrrigationOnTicks int     `csv:"irrigation_on_ticks"`
	FinalScore        float64 `csv:"final_score"`
}

// NewEpisodeRecord flattens episode results into a CSV row.
func NewEpisodeRecord(seed int64, policyName string, r sim.Results) EpisodeRecord {
	return EpisodeRecord{
		Seed:              seed,
		Policy:            policyName,
		Ticks:             r.Ticks,
		TotalWaterUsed:    r.TotalWaterUsed,
		DryPlantTicks:     r.DryPlantTicks,
		FloodedPlantTicks: r.FloodedPlantTicks,
		HealthyPlantTicks: r.HealthyPlantTicks,
		TotalPlantTicks:   r.TotalPlantTicks,
		PeakDryPlants:     r.PeakDryPlants,
		PeakFloodedPlants: r.PeakFloodedPlants,
		ToggleCount:       r.ToggleCount,
		IrrigationOnTicks: r.IrrigationOnTicks,
		FinalScore:        r.FinalScore,
	}
}
