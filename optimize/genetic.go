// Package optimize searches the composite policy's parameter space
// with a generational genetic algorithm: uniform initialization within
// gene bounds, elitist selection, interpolating crossover and Gaussian
// mutation, with fitness measured by running full episodes.
package optimize

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat"

	"verdant/policy"
)

// unevaluated marks a chromosome whose fitness has not been measured.
// Real scores are in [0,100].
const unevaluated = -1.0

// Chromosome pairs a candidate parameter set with its measured fitness.
type Chromosome struct {
	Params  policy.ControllerParams
	Fitness float64
}

// Evaluated reports whether the chromosome carries a real fitness.
func (c Chromosome) Evaluated() bool { return c.Fitness > unevaluated }

// Evaluator measures a candidate. Each element of seeds drives one
// episode; the returned fitness is the mean score. Errors must
// propagate: a failed evaluation never silently becomes a fitness.
type Evaluator interface {
	Evaluate(params policy.ControllerParams, seeds []int64) (float64, error)
}

// Config holds the search settings.
type Config struct {
	PopulationSize        int
	Generations           int
	ElitismRate           float64
	MutationRate          float64 // per-gene mutation probability
	MutationSigma         float64 // Gaussian sigma, in gene MutScale units
	EpisodesPerIndividual int
	Seed                  int64
}

// DefaultConfig returns sensible search settings.
func DefaultConfig() Config {
	return Config{
		PopulationSize:        20,
		Generations:           10,
		ElitismRate:           0.25,
		MutationRate:          0.2,
		MutationSigma:         0.3,
		EpisodesPerIndividual: 1,
		Seed:                  1,
	}
}

// TrainingResults is what a finished run exposes: the best chromosome
// ever observed, the per-generation best-fitness history, and the final
// population.
type TrainingResults struct {
	Best            Chromosome
	FitnessHistory  []float64
	FinalPopulation []Chromosome
}

// ProgressFunc observes per-generation progress. It is a reporting
// hook only; returning does not influence the search.
type ProgressFunc func(generation, total int, best, mean float64)

// Optimizer runs the genetic search.
type Optimizer struct {
	cfg      Config
	eval     Evaluator
	genes    []GeneSpec
	Progress ProgressFunc
}

// New builds an optimizer over the standard genome.
func New(cfg Config, eval Evaluator) (*Optimizer, error) {
	if cfg.PopulationSize < 2 {
		return nil, fmt.Errorf("population size %d, need at least 2", cfg.PopulationSize)
	}
	if cfg.Generations < 1 {
		return nil, fmt.Errorf("generation count %d, need at least 1", cfg.Generations)
	}
	if cfg.ElitismRate <= 0 || cfg.ElitismRate > 1 {
		return nil, fmt.Errorf("elitism rate %v outside (0,1]", cfg.ElitismRate)
	}
	if cfg.EpisodesPerIndividual < 1 {
		cfg.EpisodesPerIndividual = 1
	}
	if eval == nil {
		return nil, fmt.Errorf("nil evaluator")
	}
	return &Optimizer{cfg: cfg, eval: eval, genes: Genes()}, nil
}

// Run executes the configured number of generations and returns the
// training results. With a fixed seed and a deterministic evaluator two
// runs produce identical results.
func (o *Optimizer) Run() (*TrainingResults, error) {
	rng := rand.New(rand.NewSource(o.cfg.Seed))

	pop := make([]Chromosome, o.cfg.PopulationSize)
	for i := range pop {
		pop[i] = Chromosome{Params: o.randomParams(rng), Fitness: unevaluated}
	}

	best := Chromosome{Fitness: unevaluated}
	history := make([]float64, 0, o.cfg.Generations)

	for gen := 0; gen < o.cfg.Generations; gen++ {
		if err := o.evaluatePopulation(pop); err != nil {
			return nil, fmt.Errorf("generation %d: %w", gen, err)
		}

		// Stable sort keeps insertion order among equal fitness, so
		// elitism is reproducible under a fixed seed.
		sort.SliceStable(pop, func(i, j int) bool {
			return pop[i].Fitness > pop[j].Fitness
		})

		if pop[0].Fitness > best.Fitness {
			best = pop[0]
		}
		history = append(history, pop[0].Fitness)

		if o.Progress != nil {
			o.Progress(gen+1, o.cfg.Generations, pop[0].Fitness, meanFitness(pop))
		}

		if gen < o.cfg.Generations-1 {
			pop = o.nextGeneration(pop, rng)
		}
	}

	return &TrainingResults{
		Best:            best,
		FitnessHistory:  history,
		FinalPopulation: pop,
	}, nil
}

// evaluatePopulation measures every unevaluated chromosome. Episode
// seeds are derived from the individual's slot before goroutines are
// launched, so parallelism never changes which seed feeds which
// episode. Already-evaluated individuals (carried elites) are skipped.
func (o *Optimizer) evaluatePopulation(pop []Chromosome) error {
	var wg sync.WaitGroup
	errs := make([]error, len(pop))

	for i := range pop {
		if pop[i].Evaluated() {
			continue
		}
		seeds := make([]int64, o.cfg.EpisodesPerIndividual)
		for e := range seeds {
			seeds[e] = o.cfg.Seed + int64(i)*1009 + int64(e)
		}

		wg.Add(1)
		go func(idx int, seeds []int64) {
			defer wg.Done()
			fitness, err := o.eval.Evaluate(pop[idx].Params, seeds)
			if err != nil {
				errs[idx] = fmt.Errorf("individual %d: %w", idx, err)
				return
			}
			pop[idx].Fitness = fitness
		}(i, seeds)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// nextGeneration carries the elites forward verbatim (fitness included)
// and refills the rest with mutated crossover offspring of random elite
// pairs.
func (o *Optimizer) nextGeneration(sorted []Chromosome, rng *rand.Rand) []Chromosome {
	eliteCount := int(math.Ceil(float64(o.cfg.PopulationSize) * o.cfg.ElitismRate))
	if eliteCount < 1 {
		eliteCount = 1
	}
	if eliteCount > len(sorted) {
		eliteCount = len(sorted)
	}

	next := make([]Chromosome, 0, o.cfg.PopulationSize)
	next = append(next, sorted[:eliteCount]...)

	for len(next) < o.cfg.PopulationSize {
		p1 := sorted[rng.Intn(eliteCount)]
		p2 := sorted[rng.Intn(eliteCount)]
		child := o.crossover(p1.Params, p2.Params, rng)
		child = o.mutate(child, rng)
		next = append(next, Chromosome{Params: child, Fitness: unevaluated})
	}
	return next
}

// crossover interpolates every gene with one shared random weight.
func (o *Optimizer) crossover(a, b policy.ControllerParams, rng *rand.Rand) policy.ControllerParams {
	alpha := rng.Float64()
	va, vb := vectorOf(a), vectorOf(b)
	child := make([]float64, len(va))
	for i := range child {
		child[i] = alpha*va[i] + (1-alpha)*vb[i]
	}
	return paramsOf(child)
}

// mutate perturbs each gene independently with probability
// MutationRate, using a Box-Muller Gaussian scaled by the gene's
// mutation scale.
func (o *Optimizer) mutate(p policy.ControllerParams, rng *rand.Rand) policy.ControllerParams {
	v := vectorOf(p)
	for i, spec := range o.genes {
		if rng.Float64() >= o.cfg.MutationRate {
			continue
		}
		v[i] += boxMuller(rng) * o.cfg.MutationSigma * spec.MutScale
	}
	return paramsOf(v)
}

func (o *Optimizer) randomParams(rng *rand.Rand) policy.ControllerParams {
	v := make([]float64, len(o.genes))
	for i, spec := range o.genes {
		v[i] = spec.Min + rng.Float64()*(spec.Max-spec.Min)
	}
	return paramsOf(v)
}

// boxMuller draws a standard Gaussian from two uniform draws.
func boxMuller(rng *rand.Rand) float64 {
	u1 := rng.Float64()
	for u1 == 0 {
		u1 = rng.Float64()
	}
	u2 := rng.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

func meanFitness(pop []Chromosome) float64 {
	xs := make([]float64, len(pop))
	for i, c := range pop {
		xs[i] = c.Fitness
	}
	return stat.Mean(xs, nil)
}
