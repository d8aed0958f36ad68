package optimize

import (
	"testing"

	"verdant/policy"
	"verdant/sim"
	"verdant/terrain"
)

func TestEpisodeEvaluatorDeterministic(t *testing.T) {
	e := &EpisodeEvaluator{
		Garden: terrain.DefaultConfig(),
		Sim:    sim.DefaultConfig(),
	}
	params := policy.DefaultControllerParams()
	seeds := []int64{101, 102}

	a, err := e.Evaluate(params, seeds)
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Evaluate(params, seeds)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("same seeds scored %v then %v", a, b)
	}
	if a < 0 || a > 100 {
		t.Errorf("score %v outside [0,100]", a)
	}
}

func TestEpisodeEvaluatorNoSeeds(t *testing.T) {
	e := &EpisodeEvaluator{
		Garden: terrain.DefaultConfig(),
		Sim:    sim.DefaultConfig(),
	}
	if _, err := e.Evaluate(policy.DefaultControllerParams(), nil); err == nil {
		t.Error("expected an error with no episode seeds")
	}
}

func TestEpisodeEvaluatorBadTerrain(t *testing.T) {
	cfg := terrain.DefaultConfig()
	cfg.Width = 0
	e := &EpisodeEvaluator{Garden: cfg, Sim: sim.DefaultConfig()}

	if _, err := e.Evaluate(policy.DefaultControllerParams(), []int64{1}); err == nil {
		t.Error("expected the terrain error to propagate")
	}
}
