package sim

import (
	"math"
	"testing"

	"verdant/garden"
	"verdant/weather"
)

// calmWeather has no rain and no net evaporation drivers beyond the base
// rate (sun 0, 20C, humidity such that the climate factor is well known).
func calmWeather() weather.State {
	return weather.State{Temperature: 20, Humidity: 0.4, Sun: 0, Rain: 0}
}

func TestStepDoesNotMutateInput(t *testing.T) {
	g := garden.NewGrid(3, 3)
	g.At(1, 1).Type = garden.WaterSource
	g.At(0, 0).Moisture = 0.5

	cfg := DefaultConfig()
	st := NewStepper(g, cfg)
	_ = st.Step(g, calmWeather(), true)

	if g.At(0, 0).Moisture != 0.5 {
		t.Errorf("input grid moisture changed to %v", g.At(0, 0).Moisture)
	}
}

func TestStepSourcingIsAdditiveAndCoverageBound(t *testing.T) {
	// Source at the center, radius 1: only the four orthogonal soil
	// neighbors are irrigated.
	g := garden.NewGrid(5, 5)
	g.At(2, 2).Type = garden.WaterSource

	cfg := DefaultConfig()
	cfg.CoverageRadius = 1
	cfg.EvaporationRate = 0
	cfg.DiffusionRate = 0
	st := NewStepper(g, cfg)

	w := calmWeather()
	w.Rain = 0.5
	next := st.Step(g, w, true)

	rain := cfg.RainFactor * 0.5
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			tile := next.At(x, y)
			if tile.Type != garden.Soil {
				continue
			}
			want := rain
			if (garden.Pos{X: x, Y: y}).Manhattan(garden.Pos{X: 2, Y: 2}) <= 1 {
				want += cfg.IrrigationRate
			}
			if math.Abs(tile.Moisture-want) > 1e-12 {
				t.Errorf("tile (%d,%d) moisture = %v, want %v", x, y, tile.Moisture, want)
			}
		}
	}
}

func TestStepIrrigationOffAddsNothing(t *testing.T) {
	g := garden.NewGrid(3, 3)
	g.At(1, 1).Type = garden.WaterSource

	cfg := DefaultConfig()
	cfg.EvaporationRate = 0
	cfg.DiffusionRate = 0
	st := NewStepper(g, cfg)

	next := st.Step(g, calmWeather(), false)
	for _, tile := range next.TilesOfType(garden.Soil) {
		if tile.Moisture != 0 {
			t.Errorf("tile (%d,%d) gained moisture %v with irrigation off", tile.X, tile.Y, tile.Moisture)
		}
	}
}

func TestStepEvaporationClimateFactor(t *testing.T) {
	tests := []struct {
		name string
		w    weather.State
		want float64 // expected loss as a multiple of EvaporationRate
	}{
		{"baseline", weather.State{Temperature: 20, Humidity: 0, Sun: 0}, 1.0},
		{"full sun", weather.State{Temperature: 30, Humidity: 0, Sun: 1}, 1.7},
		{"humid night", weather.State{Temperature: 20, Humidity: 0.7, Sun: 0}, 0.65},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := garden.NewGrid(1, 1)
			g.At(0, 0).Moisture = 1.0

			cfg := DefaultConfig()
			cfg.DiffusionRate = 0
			st := NewStepper(g, cfg)

			next := st.Step(g, tc.w, false)
			want := 1.0 - cfg.EvaporationRate*tc.want
			if math.Abs(next.At(0, 0).Moisture-want) > 1e-9 {
				t.Errorf("moisture = %v, want %v", next.At(0, 0).Moisture, want)
			}
		})
	}
}

func TestStepEvaporationNeverNegativeLoss(t *testing.T) {
	// Extreme cold and humidity would drive the climate factor below
	// zero; the loss is floored so moisture cannot condense out of air.
	g := garden.NewGrid(1, 1)
	g.At(0, 0).Moisture = 0.5

	cfg := DefaultConfig()
	cfg.DiffusionRate = 0
	st := NewStepper(g, cfg)

	w := weather.State{Temperature: -30, Humidity: 1.0, Sun: 0}
	next := st.Step(g, w, false)
	if next.At(0, 0).Moisture < 0.5 {
		t.Errorf("moisture fell to %v under negative climate factor", next.At(0, 0).Moisture)
	}
	if next.At(0, 0).Moisture > 0.5 {
		t.Errorf("moisture rose to %v without any source", next.At(0, 0).Moisture)
	}
}

func TestStepDiffusionConservesMoisture(t *testing.T) {
	g := garden.NewGrid(4, 4)
	g.At(0, 0).Moisture = 1.6
	g.At(3, 3).Moisture = 0.4
	g.At(1, 2).Moisture = 0.9

	cfg := DefaultConfig()
	cfg.EvaporationRate = 0
	st := NewStepper(g, cfg)

	total := func(gr *garden.Grid) float64 {
		sum := 0.0
		for _, tile := range gr.TilesOfType(garden.Soil) {
			sum += tile.Moisture
		}
		return sum
	}

	before := total(g)
	next := st.Step(g, calmWeather(), false)
	if math.Abs(total(next)-before) > 1e-9 {
		t.Errorf("diffusion changed total moisture %v -> %v", before, total(next))
	}
}

func TestStepDiffusionSymmetric(t *testing.T) {
	// Two adjacent soil tiles exchange exactly rate * difference.
	g := garden.NewGrid(2, 1)
	g.At(0, 0).Moisture = 1.0
	g.At(1, 0).Moisture = 0.0

	cfg := DefaultConfig()
	cfg.EvaporationRate = 0
	cfg.DiffusionRate = 0.1
	st := NewStepper(g, cfg)

	next := st.Step(g, calmWeather(), false)
	if math.Abs(next.At(0, 0).Moisture-0.9) > 1e-12 || math.Abs(next.At(1, 0).Moisture-0.1) > 1e-12 {
		t.Errorf("moisture after exchange = %v, %v; want 0.9, 0.1",
			next.At(0, 0).Moisture, next.At(1, 0).Moisture)
	}
}

func TestStepDiffusionBlockedByBarriers(t *testing.T) {
	tests := []struct {
		name    string
		barrier garden.TileType
	}{
		{"path", garden.Path},
		{"pillar", garden.Pillar},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := garden.NewGrid(3, 1)
			g.At(0, 0).Moisture = 1.0
			g.At(1, 0).Type = tc.barrier

			cfg := DefaultConfig()
			cfg.EvaporationRate = 0
			st := NewStepper(g, cfg)

			next := st.Step(g, calmWeather(), false)
			if next.At(0, 0).Moisture != 1.0 {
				t.Errorf("moisture leaked across %s: %v", tc.name, next.At(0, 0).Moisture)
			}
			if next.At(2, 0).Moisture != 0 {
				t.Errorf("moisture arrived across %s: %v", tc.name, next.At(2, 0).Moisture)
			}
		})
	}
}

func TestStepClampsToBounds(t *testing.T) {
	g := garden.NewGrid(2, 1)
	g.At(0, 0).Type = garden.WaterSource
	g.At(1, 0).Moisture = 1.99

	cfg := DefaultConfig()
	cfg.IrrigationRate = 0.5
	cfg.EvaporationRate = 0
	cfg.DiffusionRate = 0
	st := NewStepper(g, cfg)

	next := st.Step(g, calmWeather(), true)
	if next.At(1, 0).Moisture != cfg.MaxMoisture {
		t.Errorf("moisture = %v, want clamped to %v", next.At(1, 0).Moisture, cfg.MaxMoisture)
	}

	// And the lower bound: dry soil evaporating stays at zero.
	dry := garden.NewGrid(1, 1)
	dst := NewStepper(dry, DefaultConfig())
	w := weather.State{Temperature: 30, Humidity: 0, Sun: 1}
	if got := dst.Step(dry, w, false).At(0, 0).Moisture; got != 0 {
		t.Errorf("dry soil moisture = %v, want 0", got)
	}
}

func TestStepNonSoilUntouched(t *testing.T) {
	g := garden.NewGrid(3, 1)
	g.At(0, 0).Type = garden.Path
	g.At(0, 0).Moisture = 0.7
	g.At(2, 0).Type = garden.WaterSource

	cfg := DefaultConfig()
	st := NewStepper(g, cfg)

	w := calmWeather()
	w.Rain = 1.0
	next := st.Step(g, w, true)
	if next.At(0, 0).Moisture != 0.7 {
		t.Errorf("path tile moisture changed to %v", next.At(0, 0).Moisture)
	}
}
