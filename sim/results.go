package sim

import (
	"log/slog"
	"math"
)

// Results is the flat record a finished episode exposes to callers.
type Results struct {
	Ticks             int     `json:"ticks"`
	TotalWaterUsed    float64 `json:"total_water_used"`
	DryPlantTicks     int     `json:"dry_plant_ticks"`
	FloodedPlantTicks int     `json:"flooded_plant_ticks"`
	HealthyPlantTicks int     `json:"healthy_plant_ticks"`
	TotalPlantTicks   int     `json:"total_plant_ticks"`
	PeakDryPlants     int     `json:"peak_dry_plants"`
	PeakFloodedPlants int     `json:"peak_flooded_plants"`
	ToggleCount       int     `json:"toggle_count"`
	IrrigationOnTicks int     `json:"irrigation_on_ticks"`
	FinalScore        float64 `json:"final_score"` // 0-100
}

// LogValue implements slog.LogValuer for structured logging.
func (r Results) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("ticks", r.Ticks),
		slog.Float64("water_used", r.TotalWaterUsed),
		slog.Int("dry_plant_ticks", r.DryPlantTicks),
		slog.Int("flooded_plant_ticks", r.FloodedPlantTicks),
		slog.Int("healthy_plant_ticks", r.HealthyPlantTicks),
		slog.Int("toggles", r.ToggleCount),
		slog.Int("on_ticks", r.IrrigationOnTicks),
		slog.Float64("score", r.FinalScore),
	)
}

// compileResults folds the running accumulators into a scored record.
// It is idempotent and valid at any point during an episode. A garden
// with zero plant-ticks scores 0: there is nothing to keep healthy.
func compileResults(st *State, cfg Config) Results {
	r := Results{
		Ticks:             st.Tick,
		TotalWaterUsed:    st.WaterUsedTotal,
		DryPlantTicks:     st.DryPlantTicks,
		FloodedPlantTicks: st.FloodedPlantTicks,
		HealthyPlantTicks: st.HealthyPlantTicks,
		TotalPlantTicks:   st.TotalPlantTicks,
		PeakDryPlants:     st.PeakDryPlants,
		PeakFloodedPlants: st.PeakFloodedPlants,
		ToggleCount:       st.ToggleCount,
		IrrigationOnTicks: st.IrrigationOnTicks,
	}
	if r.TotalPlantTicks == 0 {
		return r
	}

	total := float64(r.TotalPlantTicks)
	healthRatio := float64(r.HealthyPlantTicks) / total
	dryRatio := float64(r.DryPlantTicks) / total
	floodRatio := float64(r.FloodedPlantTicks) / total

	waterPerPlantTick := r.TotalWaterUsed / total
	waterEff := 1 - math.Min(1, waterPerPlantTick/cfg.ReferenceUsageRate)

	w := cfg.Score
	raw := w.Health*healthRatio + w.Water*waterEff - w.Dry*dryRatio - w.Flood*floodRatio
	norm := raw / (w.Health + w.Water)
	if norm < 0 {
		norm = 0
	}
	if norm > 1 {
		norm = 1
	}
	r.FinalScore = math.Round(norm * 100)
	return r
}
