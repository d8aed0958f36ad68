// Package sim is the deterministic tick engine: the moisture state
// transition, per-tick metrics, episode state and the runner that ties
// them to a decision policy.
package sim

import (
	"verdant/garden"
	"verdant/weather"
)

// Stepper applies the per-tick moisture transition. It never mutates
// its input grid; every Step returns a freshly cloned grid. Hose
// coverage is fixed for a grid's lifetime, so it is resolved once at
// construction.
type Stepper struct {
	cfg     Config
	covered map[garden.Pos]struct{}
}

// NewStepper builds a stepper for the given planned grid.
func NewStepper(g *garden.Grid, cfg Config) *Stepper {
	return &Stepper{
		cfg:     cfg,
		covered: g.CoveredSoil(cfg.CoverageRadius),
	}
}

// CoveredSoilCount returns how many soil tiles irrigation reaches.
func (s *Stepper) CoveredSoilCount() int {
	return len(s.covered)
}

// Step advances the grid one tick through the four moisture phases:
// sourcing (irrigation and rain), evaporation, lateral diffusion, and
// clamping. Non-soil tiles pass through untouched.
func (s *Stepper) Step(g *garden.Grid, w weather.State, irrigationOn bool) *garden.Grid {
	next := g.Clone()

	// Phase 1: sourcing. Irrigation and rain are additive.
	for y := 0; y < next.H; y++ {
		for x := 0; x < next.W; x++ {
			t := next.At(x, y)
			if t.Type != garden.Soil {
				continue
			}
			if irrigationOn {
				if _, ok := s.covered[t.Pos()]; ok {
					t.Moisture += s.cfg.IrrigationRate
				}
			}
			if w.Rain > 0 {
				t.Moisture += s.cfg.RainFactor * w.Rain
			}
		}
	}

	// Phase 2: evaporation. The climate factor can push evaporation
	// toward zero under cool humid nights but never below it.
	climate := 1 + 0.5*w.Sun + 0.02*(w.Temperature-20) - 0.5*w.Humidity
	loss := s.cfg.EvaporationRate * climate
	if loss < 0 {
		loss = 0
	}
	for y := 0; y < next.H; y++ {
		for x := 0; x < next.W; x++ {
			t := next.At(x, y)
			if t.Type == garden.Soil {
				t.Moisture -= loss
			}
		}
	}

	// Phase 3: lateral diffusion. Each soil/soil pair is visited once
	// (right and down neighbors only) and all deltas come from the
	// pre-diffusion snapshot, so exchange is symmetric and
	// conservative. Paths and pillars act as barriers.
	snap := make([]float64, next.W*next.H)
	for y := 0; y < next.H; y++ {
		for x := 0; x < next.W; x++ {
			snap[y*next.W+x] = next.At(x, y).Moisture
		}
	}
	for y := 0; y < next.H; y++ {
		for x := 0; x < next.W; x++ {
			a := next.At(x, y)
			if a.Type != garden.Soil {
				continue
			}
			for _, b := range [2]*garden.Tile{next.At(x+1, y), next.At(x, y+1)} {
				if b == nil || b.Type != garden.Soil {
					continue
				}
				delta := s.cfg.DiffusionRate * (snap[a.Y*next.W+a.X] - snap[b.Y*next.W+b.X])
				a.Moisture -= delta
				b.Moisture += delta
			}
		}
	}

	// Phase 4: clamping.
	for y := 0; y < next.H; y++ {
		for x := 0; x < next.W; x++ {
			t := next.At(x, y)
			if t.Type != garden.Soil {
				continue
			}
			if t.Moisture < 0 {
				t.Moisture = 0
			}
			if t.Moisture > s.cfg.MaxMoisture {
				t.Moisture = s.cfg.MaxMoisture
			}
		}
	}

	return next
}
