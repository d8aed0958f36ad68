package policy

import "math"

// ControllerParams is the tunable genome of the composite policy: a
// flat, serializable record of eight bounded values. Instances are
// copied, never shared, between optimizer individuals.
type ControllerParams struct {
	DrynessWeight          float64 `json:"dryness_weight" yaml:"dryness_weight"`
	FloodWeight            float64 `json:"flood_weight" yaml:"flood_weight"`
	WaterWeight            float64 `json:"water_weight" yaml:"water_weight"`
	PredictionHorizon      int     `json:"prediction_horizon" yaml:"prediction_horizon"`
	DryRiskScale           float64 `json:"dry_risk_scale" yaml:"dry_risk_scale"`
	FloodRiskScale         float64 `json:"flood_risk_scale" yaml:"flood_risk_scale"`
	MinTicksBetweenToggles int     `json:"min_ticks_between_toggles" yaml:"min_ticks_between_toggles"`
	MaxDutyCycle           float64 `json:"max_duty_cycle" yaml:"max_duty_cycle"`
}

// Valid ranges for each parameter. The optimizer samples and clamps
// within these; anything outside is a configuration mistake.
const (
	MinWeight, MaxWeight         = 0.0, 2.0
	MinWaterWeight, MaxWaterWeight = 0.0, 1.0
	MinHorizon, MaxHorizon       = 4, 48
	MinRiskScale, MaxRiskScale   = 0.5, 2.0
	MinToggleGap, MaxToggleGap   = 1, 30
	MinDutyCycle, MaxDutyCycle   = 0.05, 0.9
)

// DefaultControllerParams returns a hand-tuned baseline genome.
func DefaultControllerParams() ControllerParams {
	return ControllerParams{
		DrynessWeight:          1.0,
		FloodWeight:            0.8,
		WaterWeight:            0.15,
		PredictionHorizon:      12,
		DryRiskScale:           1.0,
		FloodRiskScale:         1.0,
		MinTicksBetweenToggles: 5,
		MaxDutyCycle:           0.5,
	}
}

// Clamp returns a copy with every field forced into its valid range.
// NaN or infinite inputs fall back to the default for that field rather
// than being clamped to a bound.
func (p ControllerParams) Clamp() ControllerParams {
	def := DefaultControllerParams()
	p.DrynessWeight = clampF(p.DrynessWeight, MinWeight, MaxWeight, def.DrynessWeight)
	p.FloodWeight = clampF(p.FloodWeight, MinWeight, MaxWeight, def.FloodWeight)
	p.WaterWeight = clampF(p.WaterWeight, MinWaterWeight, MaxWaterWeight, def.WaterWeight)
	p.PredictionHorizon = clampI(p.PredictionHorizon, MinHorizon, MaxHorizon)
	p.DryRiskScale = clampF(p.DryRiskScale, MinRiskScale, MaxRiskScale, def.DryRiskScale)
	p.FloodRiskScale = clampF(p.FloodRiskScale, MinRiskScale, MaxRiskScale, def.FloodRiskScale)
	p.MinTicksBetweenToggles = clampI(p.MinTicksBetweenToggles, MinToggleGap, MaxToggleGap)
	p.MaxDutyCycle = clampF(p.MaxDutyCycle, MinDutyCycle, MaxDutyCycle, def.MaxDutyCycle)
	return p
}

func clampF(v, lo, hi, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampI(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
