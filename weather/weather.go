// Package weather evolves the garden's weather one tick at a time.
// Evolution is a pure function of (seed, previous state, tick index):
// replaying the same tick from the same state always yields the same
// result, which is what makes whole episodes reproducible and lets the
// forecast be a pure lookahead.
package weather

import (
	"math"
	"math/rand"
)

// State is one tick's weather. Values are never mutated after creation.
type State struct {
	Temperature float64 // degrees C
	Humidity    float64 // 0..1
	Sun         float64 // 0..1, 0 at night
	Rain        float64 // 0..1, 0 when dry
}

// Model holds the constants driving weather evolution.
type Model struct {
	Seed        int64
	TicksPerDay int

	RainChance    float64 // per-tick probability of a rain event starting
	RainIntensity float64 // intensity at event onset
	RainDecay     float64 // linear intensity decay per tick
}

// DefaultModel returns the standard weather constants for the given seed.
func DefaultModel(seed int64) Model {
	return Model{
		Seed:          seed,
		TicksPerDay:   240,
		RainChance:    0.01,
		RainIntensity: 0.5,
		RainDecay:     0.05,
	}
}

// tickPrime decorrelates per-tick rand sources derived from one seed.
const tickPrime = 1_000_003

// Evolve produces the weather for the given tick from the previous
// tick's state.
func (m Model) Evolve(prev State, tick int) State {
	tpd := m.TicksPerDay
	if tpd <= 0 {
		tpd = 240
	}

	sun := math.Max(0, math.Sin(2*math.Pi*float64(tick%tpd)/float64(tpd)))

	rng := rand.New(rand.NewSource(m.Seed + int64(tick)*tickPrime))
	rain := math.Max(0, prev.Rain-m.RainDecay)
	if rng.Float64() < m.RainChance {
		rain = m.RainIntensity
	}

	return State{
		Temperature: 20 + 10*sun,
		Humidity:    0.4 + 0.3*(1-sun),
		Sun:         sun,
		Rain:        rain,
	}
}

// Forecast projects rain intensity for the next n ticks by replaying
// evolution forward from the current state. Nothing is mutated; this is
// a pure lookahead.
func (m Model) Forecast(current State, tick, n int) []float64 {
	out := make([]float64, n)
	s := current
	for i := 0; i < n; i++ {
		s = m.Evolve(s, tick+1+i)
		out[i] = s.Rain
	}
	return out
}
