package terrain

import (
	"reflect"
	"testing"

	"verdant/garden"
)

func TestGenerateDeterministic(t *testing.T) {
	cfg := DefaultConfig().WithSeed(12345)

	a, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different gardens")
	}

	c, err := Generate(cfg.WithSeed(54321))
	if err != nil {
		t.Fatal(err)
	}
	if reflect.DeepEqual(a, c) {
		t.Error("different seeds produced identical gardens")
	}
}

func TestGenerateLayout(t *testing.T) {
	cfg := DefaultConfig().WithSeed(7)
	g, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}

	if g.W != cfg.Width || g.H != cfg.Height {
		t.Errorf("grid is %dx%d, want %dx%d", g.W, g.H, cfg.Width, cfg.Height)
	}
	if got := len(g.TilesOfType(garden.WaterSource)); got != cfg.WaterSources {
		t.Errorf("water sources = %d, want %d", got, cfg.WaterSources)
	}
	if len(g.PlantedTiles()) == 0 {
		t.Error("no plants generated at default density")
	}

	for _, tile := range g.PlantedTiles() {
		if tile.Type != garden.Soil {
			t.Errorf("plant on %s tile at (%d,%d)", tile.Type, tile.X, tile.Y)
		}
		if tile.Moisture != 0 {
			t.Errorf("initial moisture %v at (%d,%d), want 0", tile.Moisture, tile.X, tile.Y)
		}
	}

	// The carved walk spans the full width, so every column holds a
	// path, source or cleared tile.
	for x := 0; x < g.W; x++ {
		found := false
		for y := 0; y < g.H; y++ {
			if tt := g.At(x, y).Type; tt == garden.Path || tt == garden.WaterSource {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("column %d has no walkway tile", x)
		}
	}
}

func TestGenerateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative height", func(c *Config) { c.Height = -3 }},
		{"pillar density one", func(c *Config) { c.PillarDensity = 1 }},
		{"negative pillar density", func(c *Config) { c.PillarDensity = -0.1 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if _, err := Generate(cfg); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestGenerateNoPillarsAtZeroDensity(t *testing.T) {
	cfg := DefaultConfig().WithSeed(3)
	cfg.PillarDensity = 0

	g, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(g.TilesOfType(garden.Pillar)); got != 0 {
		t.Errorf("pillars = %d at zero density", got)
	}
}
