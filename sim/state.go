package sim

import "verdant/weather"

// State is the running bookkeeping of one episode. Exactly one Runner
// owns a State; concurrent evaluations must each construct their own.
type State struct {
	Tick          int
	Running       bool
	EpisodeLength int

	IrrigationOn       bool
	LastIrrigationTick int // tick irrigation last turned on
	LastToggleTick     int // tick the on/off state last changed
	lastOnTick         int  // most recent tick irrigation was on, -1 if never
	decided            bool // a first policy decision has been recorded
	ToggleCount        int
	IrrigationOnTicks  int

	Weather  weather.State
	Forecast []float64 // projected rain intensities for upcoming ticks

	WaterUsedTick  float64
	WaterUsedTotal float64

	DryPlantTicks     int
	FloodedPlantTicks int
	HealthyPlantTicks int
	TotalPlantTicks   int
	PeakDryPlants     int
	PeakFloodedPlants int
}

// NewState initializes episode state for the given length.
func NewState(episodeLength int) *State {
	return &State{
		Running:            true,
		EpisodeLength:      episodeLength,
		LastIrrigationTick: -1,
		LastToggleTick:     -1,
		lastOnTick:         -1,
	}
}

// TicksSinceIrrigation returns how many ticks have passed since
// irrigation was last on, zero while it is on.
func (s *State) TicksSinceIrrigation() int {
	if s.IrrigationOn {
		return 0
	}
	if s.lastOnTick < 0 {
		return s.Tick
	}
	return s.Tick - s.lastOnTick
}

// TicksSinceToggle returns how many ticks have passed since the
// irrigation state last changed.
func (s *State) TicksSinceToggle() int {
	if s.LastToggleTick < 0 {
		return s.Tick
	}
	return s.Tick - s.LastToggleTick
}

// DutyCycle returns the fraction of elapsed ticks irrigation was on.
func (s *State) DutyCycle() float64 {
	if s.Tick == 0 {
		return 0
	}
	return float64(s.IrrigationOnTicks) / float64(s.Tick)
}
