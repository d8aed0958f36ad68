package optimize

import (
	"math"

	"verdant/policy"
)

// GeneSpec describes one optimizable gene: its bounds, default, and the
// absolute scale of a mutation perturbation. Integer genes are rounded
// after interpolation and mutation.
type GeneSpec struct {
	Name     string
	Min      float64
	Max      float64
	Default  float64
	Int      bool
	MutScale float64
}

// Genes returns the genome layout matching policy.ControllerParams.
// Order is load-bearing: vectorOf and paramsOf index by position.
func Genes() []GeneSpec {
	return []GeneSpec{
		{Name: "dryness_weight", Min: policy.MinWeight, Max: policy.MaxWeight, Default: 1.0, MutScale: (policy.MaxWeight - policy.MinWeight) * 0.5},
		{Name: "flood_weight", Min: policy.MinWeight, Max: policy.MaxWeight, Default: 0.8, MutScale: (policy.MaxWeight - policy.MinWeight) * 0.5},
		{Name: "water_weight", Min: policy.MinWaterWeight, Max: policy.MaxWaterWeight, Default: 0.15, MutScale: (policy.MaxWaterWeight - policy.MinWaterWeight) * 0.5},
		{Name: "prediction_horizon", Min: policy.MinHorizon, Max: policy.MaxHorizon, Default: 12, Int: true, MutScale: 2},
		{Name: "dry_risk_scale", Min: policy.MinRiskScale, Max: policy.MaxRiskScale, Default: 1.0, MutScale: (policy.MaxRiskScale - policy.MinRiskScale) * 0.5},
		{Name: "flood_risk_scale", Min: policy.MinRiskScale, Max: policy.MaxRiskScale, Default: 1.0, MutScale: (policy.MaxRiskScale - policy.MinRiskScale) * 0.5},
		{Name: "min_ticks_between_toggles", Min: policy.MinToggleGap, Max: policy.MaxToggleGap, Default: 5, Int: true, MutScale: 2},
		{Name: "max_duty_cycle", Min: policy.MinDutyCycle, Max: policy.MaxDutyCycle, Default: 0.5, MutScale: (policy.MaxDutyCycle - policy.MinDutyCycle) * 0.25},
	}
}

// vectorOf flattens params into gene order.
func vectorOf(p policy.ControllerParams) []float64 {
	return []float64{
		p.DrynessWeight,
		p.FloodWeight,
		p.WaterWeight,
		float64(p.PredictionHorizon),
		p.DryRiskScale,
		p.FloodRiskScale,
		float64(p.MinTicksBetweenToggles),
		p.MaxDutyCycle,
	}
}

// paramsOf rebuilds params from a gene vector, rounding integer genes
// and clamping everything back into range. NaN genes fall back to the
// field's default via the policy-side clamp.
func paramsOf(v []float64) policy.ControllerParams {
	def := policy.DefaultControllerParams()
	p := policy.ControllerParams{
		DrynessWeight:          v[0],
		FloodWeight:            v[1],
		WaterWeight:            v[2],
		PredictionHorizon:      roundInt(v[3], def.PredictionHorizon),
		DryRiskScale:           v[4],
		FloodRiskScale:         v[5],
		MinTicksBetweenToggles: roundInt(v[6], def.MinTicksBetweenToggles),
		MaxDutyCycle:           v[7],
	}
	return p.Clamp()
}

func roundInt(v float64, fallback int) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return int(math.Round(v))
}
