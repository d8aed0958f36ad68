package sim

import "verdant/garden"

// Metrics is the per-tick derived summary of the garden. Percentages
// use a 0-100 scale; consumers that need fractions must divide by 100
// at their boundary.
type Metrics struct {
	AvgMoisture float64
	MinMoisture float64
	MaxMoisture float64

	PercentTooDry float64 // 0-100
	PercentTooWet float64 // 0-100

	TicksSinceIrrigation int
	TimeOfDay            float64 // 0..1 fraction of the current day
	EpisodeProgress      float64 // 0..1 fraction of the episode elapsed

	WaterUsedTick  float64
	WaterUsedTotal float64
}

// ComputeMetrics derives metrics from the grid and running state.
// Gardens with no planted tiles yield zero-valued moisture stats rather
// than dividing by zero.
func ComputeMetrics(g *garden.Grid, st *State, cfg Config, ticksPerDay int) Metrics {
	m := Metrics{
		TicksSinceIrrigation: st.TicksSinceIrrigation(),
		WaterUsedTick:        st.WaterUsedTick,
		WaterUsedTotal:       st.WaterUsedTotal,
	}
	if ticksPerDay > 0 {
		m.TimeOfDay = float64(st.Tick%ticksPerDay) / float64(ticksPerDay)
	}
	if st.EpisodeLength > 0 {
		m.EpisodeProgress = float64(st.Tick) / float64(st.EpisodeLength)
	}

	plants := g.PlantedTiles()
	if len(plants) == 0 {
		return m
	}

	sum := 0.0
	m.MinMoisture = plants[0].Moisture
	m.MaxMoisture = plants[0].Moisture
	dry, wet := 0, 0
	for _, t := range plants {
		sum += t.Moisture
		if t.Moisture < m.MinMoisture {
			m.MinMoisture = t.Moisture
		}
		if t.Moisture > m.MaxMoisture {
			m.MaxMoisture = t.Moisture
		}
		if t.Moisture < cfg.DryThreshold {
			dry++
		} else if t.Moisture > cfg.FloodThreshold {
			wet++
		}
	}
	n := float64(len(plants))
	m.AvgMoisture = sum / n
	m.PercentTooDry = 100 * float64(dry) / n
	m.PercentTooWet = 100 * float64(wet) / n
	return m
}
