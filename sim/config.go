package sim

// Config holds the moisture-model and scoring constants for one episode.
type Config struct {
	EpisodeLength int

	IrrigationRate  float64 // moisture added per tick to covered soil when on
	EvaporationRate float64 // base moisture lost per tick
	DiffusionRate   float64 // fraction of neighbor difference exchanged per tick
	RainFactor      float64 // rain intensity to moisture conversion
	MaxMoisture     float64 // hard moisture cap
	CoverageRadius  int     // Manhattan reach of a hose tile

	DryThreshold   float64 // moisture below this counts as too dry
	FloodThreshold float64 // moisture above this counts as flooded

	ForecastLength int // rain forecast horizon in ticks

	ReferenceUsageRate float64 // water per plant-tick considered full usage
	Score              ScoreWeights
}

// ScoreWeights combines episode accumulators into the final score.
// Health carries the most weight and dryness is penalized harder than
// flooding.
type ScoreWeights struct {
	Health float64
	Water  float64
	Dry    float64
	Flood  float64
}

// DefaultConfig returns the standard simulation constants.
func DefaultConfig() Config {
	return Config{
		EpisodeLength:      1000,
		IrrigationRate:     0.03,
		EvaporationRate:    0.01,
		DiffusionRate:      0.1,
		RainFactor:         0.04,
		MaxMoisture:        2.0,
		CoverageRadius:     2,
		DryThreshold:       0.25,
		FloodThreshold:     1.0,
		ForecastLength:     24,
		ReferenceUsageRate: 0.05,
		Score: ScoreWeights{
			Health: 0.60,
			Water:  0.20,
			Dry:    0.30,
			Flood:  0.15,
		},
	}
}
