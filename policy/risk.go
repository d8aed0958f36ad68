package policy

import (
	"fmt"
	"math"

	"verdant/sim"
)

// Feature indices into the normalized feature vector the risk rules
// read. All features are 0..1 fractions; in particular the dry/wet
// percentages from sim.Metrics are divided by 100 before they get here.
const (
	FeatTemperature = iota // temperature / 40
	FeatHumidity
	FeatSun
	FeatRainNow
	FeatRainSoon // max forecast rain within the soon window
	FeatDryFrac
	FeatWetFrac
	NumFeatures
)

// Membership is a [0,1]-valued fuzzy membership function.
type Membership func(x float64) float64

// Tri is a triangular membership peaking at b over support (a, c).
func Tri(a, b, c float64) Membership {
	return func(x float64) float64 {
		switch {
		case x <= a || x >= c:
			if x == b {
				return 1
			}
			return 0
		case x < b:
			return (x - a) / (b - a)
		case x > b:
			return (c - x) / (c - b)
		}
		return 1
	}
}

// RampUp is an open-ended triangle: 0 below a, 1 above b.
func RampUp(a, b float64) Membership {
	return func(x float64) float64 {
		if x <= a {
			return 0
		}
		if x >= b {
			return 1
		}
		return (x - a) / (b - a)
	}
}

// RampDown is the mirror of RampUp: 1 below a, 0 above b.
func RampDown(a, b float64) Membership {
	return func(x float64) float64 {
		if x <= a {
			return 1
		}
		if x >= b {
			return 0
		}
		return (b - x) / (b - a)
	}
}

// Term binds a membership function to one feature.
type Term struct {
	Feature int
	Fn      Membership
}

// Rule combines its terms conjunctively (min) by default, or
// disjunctively (max) when Any is set. A risk's activation is the
// maximum over its rules: the most pessimistic rule wins.
type Rule struct {
	Any   bool
	Terms []Term
}

func (r Rule) activate(features []float64) float64 {
	if len(r.Terms) == 0 {
		return 0
	}
	out := r.Terms[0].Fn(features[r.Terms[0].Feature])
	for _, t := range r.Terms[1:] {
		a := t.Fn(features[t.Feature])
		if r.Any {
			out = math.Max(out, a)
		} else {
			out = math.Min(out, a)
		}
	}
	return out
}

// Risks are the evaluator's two outputs, both in [0,1].
type Risks struct {
	Dry   float64
	Flood float64
}

// RiskEvaluator maps weather, metrics and the rain forecast into
// dryness and flood risk via fuzzy rules.
type RiskEvaluator struct {
	soonTicks  int
	dryRules   []Rule
	floodRules []Rule
}

// NewRiskEvaluator validates the rule sets and builds an evaluator.
// A rule referencing a feature outside the fixed vector is a fatal
// configuration error, reported immediately.
func NewRiskEvaluator(soonTicks int, dryRules, floodRules []Rule) (*RiskEvaluator, error) {
	if soonTicks <= 0 {
		soonTicks = 6
	}
	for _, set := range [2][]Rule{dryRules, floodRules} {
		for _, r := range set {
			for _, t := range r.Terms {
				if t.Feature < 0 || t.Feature >= NumFeatures {
					return nil, fmt.Errorf("risk rule references feature %d, vector has %d", t.Feature, NumFeatures)
				}
				if t.Fn == nil {
					return nil, fmt.Errorf("risk rule term for feature %d has no membership function", t.Feature)
				}
			}
		}
	}
	return &RiskEvaluator{soonTicks: soonTicks, dryRules: dryRules, floodRules: floodRules}, nil
}

// DefaultDryRules returns the standard dryness rule set.
func DefaultDryRules() []Rule {
	return []Rule{
		// Hot, sunny and dry air.
		{Terms: []Term{
			{FeatTemperature, RampUp(0.5, 0.8)},
			{FeatSun, RampUp(0.5, 0.9)},
			{FeatHumidity, RampDown(0.3, 0.6)},
		}},
		// A large share of plants is already dry.
		{Terms: []Term{{FeatDryFrac, RampUp(0.2, 0.6)}}},
		// Some plants dry and no rain on the way.
		{Terms: []Term{
			{FeatDryFrac, Tri(0.05, 0.25, 0.5)},
			{FeatRainSoon, RampDown(0.05, 0.3)},
		}},
	}
}

// DefaultFloodRules returns the standard flood rule set.
func DefaultFloodRules() []Rule {
	return []Rule{
		{Terms: []Term{{FeatRainNow, RampUp(0.3, 0.8)}}},
		// Rain incoming onto already wet beds.
		{Terms: []Term{
			{FeatRainSoon, RampUp(0.3, 0.7)},
			{FeatWetFrac, RampUp(0.05, 0.3)},
		}},
		{Terms: []Term{{FeatWetFrac, RampUp(0.2, 0.5)}}},
	}
}

// NewDefaultRiskEvaluator builds an evaluator with the standard rules.
// The defaults are statically valid, so construction cannot fail.
func NewDefaultRiskEvaluator() *RiskEvaluator {
	e, err := NewRiskEvaluator(6, DefaultDryRules(), DefaultFloodRules())
	if err != nil {
		panic(fmt.Sprintf("policy: default risk rules invalid: %v", err))
	}
	return e
}

// Evaluate computes dryness and flood risk for the current tick.
func (e *RiskEvaluator) Evaluate(m sim.Metrics, st *sim.State) Risks {
	f := e.featureVector(m, st)
	return Risks{
		Dry:   maxActivation(e.dryRules, f),
		Flood: maxActivation(e.floodRules, f),
	}
}

// featureVector normalizes raw inputs to 0..1 fractions. The /100 on
// the metric percentages is the scale boundary the rest of the policy
// relies on.
func (e *RiskEvaluator) featureVector(m sim.Metrics, st *sim.State) []float64 {
	f := make([]float64, NumFeatures)
	f[FeatTemperature] = clamp01(st.Weather.Temperature / 40)
	f[FeatHumidity] = clamp01(st.Weather.Humidity)
	f[FeatSun] = clamp01(st.Weather.Sun)
	f[FeatRainNow] = clamp01(st.Weather.Rain)
	f[FeatRainSoon] = e.rainSoon(st.Forecast)
	f[FeatDryFrac] = clamp01(m.PercentTooDry / 100)
	f[FeatWetFrac] = clamp01(m.PercentTooWet / 100)
	return f
}

func (e *RiskEvaluator) rainSoon(forecast []float64) float64 {
	n := e.soonTicks
	if n > len(forecast) {
		n = len(forecast)
	}
	out := 0.0
	for _, r := range forecast[:n] {
		out = math.Max(out, r)
	}
	return clamp01(out)
}

func maxActivation(rules []Rule, features []float64) float64 {
	out := 0.0
	for _, r := range rules {
		out = math.Max(out, r.activate(features))
	}
	return out
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
