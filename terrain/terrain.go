// Package terrain procedurally generates gardens: noise-clustered
// pillars, a carved walking path with water sources on it, and plants
// scattered over the remaining soil. Output obeys the grid contract the
// simulation consumes: typed tiles, plant flags set, moisture zeroed.
package terrain

import (
	"fmt"
	"math/rand"

	"github.com/ojrac/opensimplex-go"

	"verdant/garden"
)

// Config describes the garden to generate.
type Config struct {
	Width  int
	Height int
	Seed   int64

	PillarDensity float64 // approximate pillar tile fraction
	PlantDensity  float64 // plant probability per remaining soil tile
	WaterSources  int     // sources placed along the carved path
}

// DefaultConfig returns a small garden layout.
func DefaultConfig() Config {
	return Config{
		Width:         20,
		Height:        20,
		Seed:          1,
		PillarDensity: 0.1,
		PlantDensity:  0.15,
		WaterSources:  2,
	}
}

// WithSeed returns a copy of the config using the given seed.
func (c Config) WithSeed(seed int64) Config {
	c.Seed = seed
	return c
}

// noiseScale controls pillar cluster size relative to the grid.
const noiseScale = 0.18

// Generate builds a garden deterministically from the config seed.
func Generate(cfg Config) (*garden.Grid, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("terrain: invalid dimensions %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.PillarDensity < 0 || cfg.PillarDensity >= 1 {
		return nil, fmt.Errorf("terrain: pillar density %v outside [0,1)", cfg.PillarDensity)
	}

	g := garden.NewGrid(cfg.Width, cfg.Height)
	rng := rand.New(rand.NewSource(cfg.Seed))
	noise := opensimplex.NewNormalized(cfg.Seed)

	// Pillar clusters where the noise field peaks.
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			n := noise.Eval2(float64(x)*noiseScale, float64(y)*noiseScale)
			if n > 1-cfg.PillarDensity {
				g.At(x, y).Type = garden.Pillar
			}
		}
	}

	// Carve a walking path left to right with a jittered row, clearing
	// any pillars in the way so the garden stays connected.
	pathTiles := carvePath(g, rng)

	// Water sources spaced along the path.
	sources := cfg.WaterSources
	if sources < 1 {
		sources = 1
	}
	if sources > len(pathTiles) {
		sources = len(pathTiles)
	}
	for i := 0; i < sources; i++ {
		idx := (i*2 + 1) * len(pathTiles) / (sources * 2)
		p := pathTiles[idx]
		g.AtPos(p).Type = garden.WaterSource
	}

	// Plants on remaining soil.
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			t := g.At(x, y)
			if t.Type == garden.Soil && rng.Float64() < cfg.PlantDensity {
				t.HasPlant = true
			}
		}
	}

	return g, nil
}

func carvePath(g *garden.Grid, rng *rand.Rand) []garden.Pos {
	var tiles []garden.Pos
	y := g.H / 2
	for x := 0; x < g.W; x++ {
		switch rng.Intn(3) {
		case 0:
			if y > 0 {
				y--
			}
		case 1:
			if y < g.H-1 {
				y++
			}
		}
		t := g.At(x, y)
		t.Type = garden.Path
		tiles = append(tiles, t.Pos())
	}
	return tiles
}
