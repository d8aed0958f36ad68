// Package config provides configuration loading and access for the
// garden simulation and the policy trainer. Defaults are embedded; a
// user file overrides only the fields it sets.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"verdant/optimize"
	"verdant/policy"
	"verdant/sim"
	"verdant/terrain"
	"verdant/weather"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation and training parameters.
type Config struct {
	Garden     GardenConfig     `yaml:"garden"`
	Simulation SimulationConfig `yaml:"simulation"`
	Weather    WeatherConfig    `yaml:"weather"`
	Score      ScoreConfig      `yaml:"score"`
	Policy     PolicyConfig     `yaml:"policy"`
	Training   TrainingConfig   `yaml:"training"`
	Output     OutputConfig     `yaml:"output"`
}

// GardenConfig describes the generated garden.
type GardenConfig struct {
	Width          int     `yaml:"width"`
	Height         int     `yaml:"height"`
	Seed           int64   `yaml:"seed"`
	PillarDensity  float64 `yaml:"pillar_density"`
	PlantDensity   float64 `yaml:"plant_density"`
	WaterSources   int     `yaml:"water_sources"`
	CoverageRadius int     `yaml:"coverage_radius"`
}

// SimulationConfig holds the moisture model constants.
type SimulationConfig struct {
	EpisodeLength      int     `yaml:"episode_length"`
	IrrigationRate     float64 `yaml:"irrigation_rate"`
	EvaporationRate    float64 `yaml:"evaporation_rate"`
	DiffusionRate      float64 `yaml:"diffusion_rate"`
	RainFactor         float64 `yaml:"rain_factor"`
	MaxMoisture        float64 `yaml:"max_moisture"`
	DryThreshold       float64 `yaml:"dry_threshold"`
	FloodThreshold     float64 `yaml:"flood_threshold"`
	ForecastLength     int     `yaml:"forecast_length"`
	ReferenceUsageRate float64 `yaml:"reference_usage_rate"`
}

// WeatherConfig holds the weather evolution constants.
type WeatherConfig struct {
	TicksPerDay   int     `yaml:"ticks_per_day"`
	RainChance    float64 `yaml:"rain_chance"`
	RainIntensity float64 `yaml:"rain_intensity"`
	RainDecay     float64 `yaml:"rain_decay"`
}

// ScoreConfig weights the episode score components.
type ScoreConfig struct {
	Health float64 `yaml:"health"`
	Water  float64 `yaml:"water"`
	Dry    float64 `yaml:"dry"`
	Flood  float64 `yaml:"flood"`
}

// PolicyConfig holds the non-trained policy settings.
type PolicyConfig struct {
	Threshold ThresholdConfig         `yaml:"threshold"`
	Smart     policy.ControllerParams `yaml:"smart"`
}

// ThresholdConfig is the dumb controller's moisture band.
type ThresholdConfig struct {
	OnBelow  float64 `yaml:"on_below"`
	OffAbove float64 `yaml:"off_above"`
}

// TrainingConfig holds the genetic search settings.
type TrainingConfig struct {
	PopulationSize        int     `yaml:"population_size"`
	Generations           int     `yaml:"generations"`
	ElitismRate           float64 `yaml:"elitism_rate"`
	MutationRate          float64 `yaml:"mutation_rate"`
	MutationSigma         float64 `yaml:"mutation_sigma"`
	EpisodesPerIndividual int     `yaml:"episodes_per_individual"`
	Seed                  int64   `yaml:"seed"`
}

// OutputConfig holds telemetry and persistence destinations.
type OutputConfig struct {
	Dir       string `yaml:"dir"`
	StorePath string `yaml:"store_path"`
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded
// defaults if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into the same struct - only fields present in the
		// file are overwritten.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	return cfg, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// TerrainConfig maps the garden section onto the generator's config.
func (c *Config) TerrainConfig() terrain.Config {
	return terrain.Config{
		Width:         c.Garden.Width,
		Height:        c.Garden.Height,
		Seed:          c.Garden.Seed,
		PillarDensity: c.Garden.PillarDensity,
		PlantDensity:  c.Garden.PlantDensity,
		WaterSources:  c.Garden.WaterSources,
	}
}

// SimConfig maps the simulation and score sections onto sim.Config.
func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		EpisodeLength:      c.Simulation.EpisodeLength,
		IrrigationRate:     c.Simulation.IrrigationRate,
		EvaporationRate:    c.Simulation.EvaporationRate,
		DiffusionRate:      c.Simulation.DiffusionRate,
		RainFactor:         c.Simulation.RainFactor,
		MaxMoisture:        c.Simulation.MaxMoisture,
		CoverageRadius:     c.Garden.CoverageRadius,
		DryThreshold:       c.Simulation.DryThreshold,
		FloodThreshold:     c.Simulation.FloodThreshold,
		ForecastLength:     c.Simulation.ForecastLength,
		ReferenceUsageRate: c.Simulation.ReferenceUsageRate,
		Score: sim.ScoreWeights{
			Health: c.Score.Health,
			Water:  c.Score.Water,
			Dry:    c.Score.Dry,
			Flood:  c.Score.Flood,
		},
	}
}

// WeatherModel maps the weather section onto a model for the seed.
func (c *Config) WeatherModel(seed int64) weather.Model {
	return weather.Model{
		Seed:          seed,
		TicksPerDay:   c.Weather.TicksPerDay,
		RainChance:    c.Weather.RainChance,
		RainIntensity: c.Weather.RainIntensity,
		RainDecay:     c.Weather.RainDecay,
	}
}

// OptimizeConfig maps the training section onto the GA config.
func (c *Config) OptimizeConfig() optimize.Config {
	return optimize.Config{
		PopulationSize:        c.Training.PopulationSize,
		Generations:           c.Training.Generations,
		ElitismRate:           c.Training.ElitismRate,
		MutationRate:          c.Training.MutationRate,
		MutationSigma:         c.Training.MutationSigma,
		EpisodesPerIndividual: c.Training.EpisodesPerIndividual,
		Seed:                  c.Training.Seed,
	}
}
