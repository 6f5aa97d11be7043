package testkit

import (
	"math"
	"math/rand"
)

// WeeklyGeneratorConfig configures the synthetic weekly yield series
type WeeklyGeneratorConfig struct {
	Weeks       int     `json:"weeks"`
	BaseYield   float64 `json:"base_yield"`   // yield (%) in week 1
	WeeklyTrend float64 `json:"weekly_trend"` // yield points gained per week
	TestsMin    int     `json:"tests_min"`
	TestsMax    int     `json:"tests_max"`
	TestsEffect float64 `json:"tests_effect"` // yield points per weekly test
	Noise       float64 `json:"noise"`        // std dev of the yield residual
	Seed        int64   `json:"seed"`
}

// DefaultWeeklyConfig returns a season of weekly observations
func DefaultWeeklyConfig() WeeklyGeneratorConfig {
	return WeeklyGeneratorConfig{
		Weeks:       26,
		BaseYield:   62,
		WeeklyTrend: 0.6,
		TestsMin:    2,
		TestsMax:    12,
		TestsEffect: 0.8,
		Noise:       2.5,
		Seed:        42,
	}
}

// WeeklyObservation is one generated row
type WeeklyObservation struct {
	Week  int
	Yield float64
	Tests int
}

// WeeklyGenerator produces deterministic Week/Yield/Tests rows
type WeeklyGenerator struct {
	config WeeklyGeneratorConfig
	rng    *rand.Rand
}

// NewWeeklyGenerator creates a generator seeded from config
func NewWeeklyGenerator(config WeeklyGeneratorConfig) *WeeklyGenerator {
	return &WeeklyGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate returns one observation per week, yield clamped to [0, 100]
func (g *WeeklyGenerator) Generate() []WeeklyObservation {
	span := g.config.TestsMax - g.config.TestsMin + 1
	if span < 1 {
		span = 1
	}

	out := make([]WeeklyObservation, 0, g.config.Weeks)
	for week := 1; week <= g.config.Weeks; week++ {
		tests := g.config.TestsMin + g.rng.Intn(span)
		yield := g.config.BaseYield +
			g.config.WeeklyTrend*float64(week-1) +
			g.config.TestsEffect*float64(tests-g.config.TestsMin) +
			g.rng.NormFloat64()*g.config.Noise
		yield = math.Max(0, math.Min(100, yield))

		out = append(out, WeeklyObservation{
			Week:  week,
			Yield: math.Round(yield*10) / 10,
			Tests: tests,
		})
	}
	return out
}
