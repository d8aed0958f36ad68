package optimize

import (
	"fmt"

	"verdant/hose"
	"verdant/policy"
	"verdant/sim"
	"verdant/terrain"
	"verdant/weather"
)

// EpisodeEvaluator measures a candidate by running full episodes: a
// fresh garden per seed, the hose network planned over it, and the
// composite policy driving the episode. Each evaluation builds its own
// grid and state, so evaluations are safe to run concurrently.
type EpisodeEvaluator struct {
	Garden terrain.Config
	Sim    sim.Config
}

// Evaluate runs one episode per seed and returns the mean final score.
func (e *EpisodeEvaluator) Evaluate(params policy.ControllerParams, seeds []int64) (float64, error) {
	if len(seeds) == 0 {
		return 0, fmt.Errorf("no episode seeds")
	}
	total := 0.0
	for _, seed := range seeds {
		g, err := terrain.Generate(e.Garden.WithSeed(seed))
		if err != nil {
			return 0, fmt.Errorf("seed %d: %w", seed, err)
		}
		planned := hose.Plan(g, e.Sim.CoverageRadius)
		runner := sim.NewRunner(planned, e.Sim, weather.DefaultModel(seed), policy.NewDefaultSmart(params))
		total += runner.Run().FinalScore
	}
	return total / float64(len(seeds)), nil
}
