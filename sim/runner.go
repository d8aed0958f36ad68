package sim

import (
	"verdant/garden"
	"verdant/weather"
)

// Policy decides, each tick, whether to irrigate. Implementations must
// be stateless and reentrant; all tick-to-tick memory lives in State.
type Policy interface {
	Decide(m Metrics, st *State) bool
}

// Runner owns one grid and one episode state and advances them a tick
// at a time. It is UI-agnostic: observers poll Metrics and State
// between steps. A Runner must not be shared across concurrent
// evaluations.
type Runner struct {
	grid    *garden.Grid
	state   *State
	cfg     Config
	model   weather.Model
	stepper *Stepper
	policy  Policy
}

// NewRunner builds a runner over a planned grid. The grid is held as
// the current snapshot and replaced on every step.
func NewRunner(g *garden.Grid, cfg Config, model weather.Model, p Policy) *Runner {
	return &Runner{
		grid:    g,
		state:   NewState(cfg.EpisodeLength),
		cfg:     cfg,
		model:   model,
		stepper: NewStepper(g, cfg),
		policy:  p,
	}
}

// Grid returns the current grid snapshot.
func (r *Runner) Grid() *garden.Grid { return r.grid }

// State returns the episode state for read-only observation.
func (r *Runner) State() *State { return r.state }

// Done reports whether the episode has completed.
func (r *Runner) Done() bool { return !r.state.Running }

// Metrics computes the current tick's metrics.
func (r *Runner) Metrics() Metrics {
	return ComputeMetrics(r.grid, r.state, r.cfg, r.model.TicksPerDay)
}

// Step advances exactly one tick. Calls after the episode has ended are
// no-ops.
func (r *Runner) Step() {
	st := r.state
	if !st.Running {
		return
	}
	if st.Tick >= st.EpisodeLength {
		st.Running = false
		return
	}

	m := ComputeMetrics(r.grid, st, r.cfg, r.model.TicksPerDay)

	on := r.policy.Decide(m, st)
	if on != st.IrrigationOn {
		// The very first decision establishes the state; only later
		// changes count as toggles.
		if st.decided {
			st.ToggleCount++
			st.LastToggleTick = st.Tick
		}
		if on {
			st.LastIrrigationTick = st.Tick
		}
	}
	st.decided = true
	st.IrrigationOn = on
	if on {
		st.IrrigationOnTicks++
		st.lastOnTick = st.Tick
	}

	st.Weather = r.model.Evolve(st.Weather, st.Tick)

	r.grid = r.stepper.Step(r.grid, st.Weather, on)

	st.WaterUsedTick = 0
	if on {
		st.WaterUsedTick = float64(r.stepper.CoveredSoilCount()) * r.cfg.IrrigationRate
	}
	st.WaterUsedTotal += st.WaterUsedTick

	r.accumulatePlantStatus()

	st.Forecast = r.model.Forecast(st.Weather, st.Tick, r.cfg.ForecastLength)

	st.Tick++
	if st.Tick >= st.EpisodeLength {
		st.Running = false
	}
}

// Run steps the episode to completion and returns the compiled results.
func (r *Runner) Run() Results {
	for r.state.Running {
		r.Step()
	}
	return r.CompileResults()
}

// CompileResults scores the episode so far. Idempotent; callable at any
// time, including on a fully uncoverable garden.
func (r *Runner) CompileResults() Results {
	return compileResults(r.state, r.cfg)
}

func (r *Runner) accumulatePlantStatus() {
	st := r.state
	dry, flooded := 0, 0
	for _, t := range r.grid.PlantedTiles() {
		st.TotalPlantTicks++
		switch {
		case t.Moisture < r.cfg.DryThreshold:
			dry++
			st.DryPlantTicks++
		case t.Moisture > r.cfg.FloodThreshold:
			flooded++
			st.FloodedPlantTicks++
		default:
			st.HealthyPlantTicks++
		}
	}
	if dry > st.PeakDryPlants {
		st.PeakDryPlants = dry
	}
	if flooded > st.PeakFloodedPlants {
		st.PeakFloodedPlants = flooded
	}
}
