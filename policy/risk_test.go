package policy

import (
	"math"
	"testing"

	"verdant/sim"
	"verdant/weather"
)

func TestMembershipFunctions(t *testing.T) {
	tests := []struct {
		name string
		fn   Membership
		x    float64
		want float64
	}{
		{"tri below support", Tri(0.2, 0.5, 0.8), 0.1, 0},
		{"tri rising edge", Tri(0.2, 0.5, 0.8), 0.35, 0.5},
		{"tri peak", Tri(0.2, 0.5, 0.8), 0.5, 1},
		{"tri falling edge", Tri(0.2, 0.5, 0.8), 0.65, 0.5},
		{"tri above support", Tri(0.2, 0.5, 0.8), 0.9, 0},
		{"rampup below", RampUp(0.3, 0.7), 0.2, 0},
		{"rampup mid", RampUp(0.3, 0.7), 0.5, 0.5},
		{"rampup above", RampUp(0.3, 0.7), 0.8, 1},
		{"rampdown below", RampDown(0.3, 0.7), 0.2, 1},
		{"rampdown mid", RampDown(0.3, 0.7), 0.5, 0.5},
		{"rampdown above", RampDown(0.3, 0.7), 0.8, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.fn(tc.x); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("fn(%v) = %v, want %v", tc.x, got, tc.want)
			}
		})
	}
}

func TestRuleCombination(t *testing.T) {
	features := make([]float64, NumFeatures)
	features[FeatSun] = 0.9
	features[FeatRainNow] = 0.1
	hi := func(x float64) float64 { return x }

	all := Rule{Terms: []Term{{FeatSun, hi}, {FeatRainNow, hi}}}
	if got := all.activate(features); got != 0.1 {
		t.Errorf("conjunctive activation = %v, want min 0.1", got)
	}

	any := Rule{Any: true, Terms: []Term{{FeatSun, hi}, {FeatRainNow, hi}}}
	if got := any.activate(features); got != 0.9 {
		t.Errorf("disjunctive activation = %v, want max 0.9", got)
	}

	empty := Rule{}
	if got := empty.activate(features); got != 0 {
		t.Errorf("empty rule activation = %v, want 0", got)
	}
}

func TestNewRiskEvaluatorRejectsBadRules(t *testing.T) {
	tests := []struct {
		name  string
		rules []Rule
	}{
		{"feature out of range", []Rule{{Terms: []Term{{NumFeatures, RampUp(0, 1)}}}}},
		{"negative feature", []Rule{{Terms: []Term{{-1, RampUp(0, 1)}}}}},
		{"nil membership", []Rule{{Terms: []Term{{FeatSun, nil}}}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewRiskEvaluator(6, tc.rules, nil); err == nil {
				t.Error("expected a validation error")
			}
			// Bad flood rules are rejected the same way.
			if _, err := NewRiskEvaluator(6, nil, tc.rules); err == nil {
				t.Error("expected a validation error for flood rules")
			}
		})
	}
}

func TestFeatureVectorScaling(t *testing.T) {
	e := NewDefaultRiskEvaluator()

	st := sim.NewState(1000)
	st.Weather = weather.State{Temperature: 30, Humidity: 0.5, Sun: 0.8, Rain: 0.4}
	st.Forecast = []float64{0, 0, 0.8, 0.2, 0, 0}

	m := sim.Metrics{PercentTooDry: 30, PercentTooWet: 45}

	f := e.featureVector(m, st)
	checks := []struct {
		name string
		idx  int
		want float64
	}{
		{"temperature normalized by 40", FeatTemperature, 0.75},
		{"humidity passthrough", FeatHumidity, 0.5},
		{"sun passthrough", FeatSun, 0.8},
		{"rain passthrough", FeatRainNow, 0.4},
		{"rain soon is window max", FeatRainSoon, 0.8},
		{"dry percent scaled to fraction", FeatDryFrac, 0.30},
		{"wet percent scaled to fraction", FeatWetFrac, 0.45},
	}
	for _, c := range checks {
		if math.Abs(f[c.idx]-c.want) > 1e-12 {
			t.Errorf("%s: feature[%d] = %v, want %v", c.name, c.idx, f[c.idx], c.want)
		}
	}
}

func TestRainSoonIgnoresDistantForecast(t *testing.T) {
	e, err := NewRiskEvaluator(4, DefaultDryRules(), DefaultFloodRules())
	if err != nil {
		t.Fatal(err)
	}

	st := sim.NewState(1000)
	st.Forecast = []float64{0, 0, 0, 0, 0.9, 0.9}

	f := e.featureVector(sim.Metrics{}, st)
	if f[FeatRainSoon] != 0 {
		t.Errorf("rain beyond the soon window leaked in: %v", f[FeatRainSoon])
	}
}

func TestEvaluateDefaultRules(t *testing.T) {
	e := NewDefaultRiskEvaluator()

	tests := []struct {
		name      string
		weather   weather.State
		metrics   sim.Metrics
		wantDry   func(float64) bool
		wantFlood func(float64) bool
	}{
		{
			name:      "hot dry afternoon",
			weather:   weather.State{Temperature: 36, Humidity: 0.1, Sun: 1.0},
			metrics:   sim.Metrics{PercentTooDry: 70},
			wantDry:   func(r float64) bool { return r == 1 },
			wantFlood: func(r float64) bool { return r == 0 },
		},
		{
			name:      "heavy rain on wet beds",
			weather:   weather.State{Temperature: 20, Humidity: 0.8, Rain: 0.9},
			metrics:   sim.Metrics{PercentTooWet: 60},
			wantDry:   func(r float64) bool { return r < 0.2 },
			wantFlood: func(r float64) bool { return r == 1 },
		},
		{
			name:      "calm and healthy",
			weather:   weather.State{Temperature: 20, Humidity: 0.6},
			metrics:   sim.Metrics{},
			wantDry:   func(r float64) bool { return r == 0 },
			wantFlood: func(r float64) bool { return r == 0 },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := sim.NewState(1000)
			st.Weather = tc.weather
			r := e.Evaluate(tc.metrics, st)
			if !tc.wantDry(r.Dry) {
				t.Errorf("dry risk = %v", r.Dry)
			}
			if !tc.wantFlood(r.Flood) {
				t.Errorf("flood risk = %v", r.Flood)
			}
		})
	}
}
