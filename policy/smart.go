package policy

import "verdant/sim"

// Safety thresholds the composite policy applies after cost comparison.
const (
	floodHardOff       = 0.7 // flood risk forcing irrigation off
	floodHystOff       = 0.6 // flood risk breaking hysteresis while on
	extremeDryRisk     = 0.9 // dryness risk overriding caps and hysteresis
	extremeDryForecast = 0.9 // predicted dry fraction doing the same
)

// Smart is the composite policy: risk evaluation, two-branch outcome
// prediction, weighted cost comparison, then safety overrides and
// toggle hysteresis. It is stateless; everything it remembers between
// ticks lives in the caller-owned sim.State.
type Smart struct {
	params    ControllerParams
	risk      *RiskEvaluator
	predictor *OutcomePredictor
}

// NewSmart builds the composite policy from its collaborators. Params
// are clamped defensively so a malformed genome cannot leak in.
func NewSmart(params ControllerParams, risk *RiskEvaluator, predictor *OutcomePredictor) *Smart {
	return &Smart{
		params:    params.Clamp(),
		risk:      risk,
		predictor: predictor,
	}
}

// NewDefaultSmart builds the composite policy with default collaborators.
func NewDefaultSmart(params ControllerParams) *Smart {
	return NewSmart(params, NewDefaultRiskEvaluator(), NewOutcomePredictor())
}

// Params returns the policy's parameter set.
func (s *Smart) Params() ControllerParams { return s.params }

// Decide runs one tick of the composite pipeline.
func (s *Smart) Decide(m sim.Metrics, st *sim.State) bool {
	p := s.params
	risks := s.risk.Evaluate(m, st)
	dryOff := s.predictor.PredictDryFraction(m, st, p.PredictionHorizon, false)
	dryOn := s.predictor.PredictDryFraction(m, st, p.PredictionHorizon, true)
	effDry := clamp01(risks.Dry * p.DryRiskScale)

	// Hysteresis short-circuits everything: within the minimum dwell
	// time the current state holds unless conditions are extreme.
	if st.LastToggleTick >= 0 && st.TicksSinceToggle() < p.MinTicksBetweenToggles {
		if st.IrrigationOn {
			return risks.Flood <= floodHystOff
		}
		return effDry > extremeDryRisk || dryOff > extremeDryForecast
	}

	floodCost := p.FloodWeight * (risks.Flood * p.FloodRiskScale)
	costOff := p.DrynessWeight*dryOff + floodCost
	costOn := p.DrynessWeight*dryOn + floodCost + p.WaterWeight
	want := costOn < costOff

	if risks.Flood > floodHardOff {
		want = false
	}
	if st.DutyCycle() > p.MaxDutyCycle && effDry < extremeDryRisk && dryOff < extremeDryForecast {
		want = false
	}
	return want
}
