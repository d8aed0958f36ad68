// Package policy implements the irrigation decision strategies: the
// trivial always-on/off controllers, a threshold controller, and the
// composite controller combining fuzzy risk evaluation, a short-horizon
// outcome predictor and a learned weight vector. All of them satisfy
// sim.Policy and keep no state of their own between ticks.
package policy

import "verdant/sim"

// AlwaysOn irrigates every tick.
type AlwaysOn struct{}

func (AlwaysOn) Decide(sim.Metrics, *sim.State) bool { return true }

// AlwaysOff never irrigates.
type AlwaysOff struct{}

func (AlwaysOff) Decide(sim.Metrics, *sim.State) bool { return false }

// Threshold switches on below one average-moisture cutoff and off above
// another, holding its previous decision inside the band.
type Threshold struct {
	OnBelow  float64
	OffAbove float64
}

// NewThreshold returns a threshold controller with the given band.
func NewThreshold(onBelow, offAbove float64) Threshold {
	return Threshold{OnBelow: onBelow, OffAbove: offAbove}
}

func (t Threshold) Decide(m sim.Metrics, st *sim.State) bool {
	if m.AvgMoisture < t.OnBelow {
		return true
	}
	if m.AvgMoisture > t.OffAbove {
		return false
	}
	return st.IrrigationOn
}
