package policy

import "verdant/sim"

// OutcomePredictor estimates the too-dry plant fraction a short horizon
// ahead under a hypothetical irrigation flag. It is a closed-form
// heuristic, not a simulation rollout; the composite policy invokes it
// once per branch to compare costs.
type OutcomePredictor struct {
	Damping    float64 // dryness multiplier when irrigating
	EvapGain   float64 // per-tick dryness growth from evaporation drivers
	RainRelief float64 // dryness reduction per unit current rain
	WetRelief  float64 // dryness reduction per unit wet fraction
}

// NewOutcomePredictor returns a predictor with the standard constants.
func NewOutcomePredictor() *OutcomePredictor {
	return &OutcomePredictor{
		Damping:    0.3,
		EvapGain:   0.004,
		RainRelief: 0.5,
		WetRelief:  0.3,
	}
}

// PredictDryFraction returns the expected dry fraction (0..1) after
// horizon ticks. The current dry percentage arrives on the metrics'
// 0-100 scale and is converted here.
func (p *OutcomePredictor) PredictDryFraction(m sim.Metrics, st *sim.State, horizon int, irrigateOn bool) float64 {
	dry := clamp01(m.PercentTooDry / 100)
	wet := clamp01(m.PercentTooWet / 100)
	w := st.Weather

	if irrigateOn {
		dry *= p.Damping
	} else {
		tempN := clamp01(w.Temperature / 40)
		dry += p.EvapGain * float64(horizon) * tempN * w.Sun * (1 - w.Humidity)
	}
	dry -= p.RainRelief * w.Rain
	dry -= p.WetRelief * wet
	return clamp01(dry)
}
