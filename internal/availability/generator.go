package availability

import (
	"math/rand/v2"
	"sync"
	"time"
)

// DefaultAvailableProbability is the chance that a generated slot is bookable.
const DefaultAvailableProbability = 0.7

// Generator produces demo schedules. The random source is injectable so that
// seeded generators return identical schedules for identical inputs.
type Generator struct {
	mu          sync.Mutex
	rng         *rand.Rand
	template    Template
	probability float64
}

// NewGenerator builds a generator over src. A nil src is seeded from the clock.
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		now := uint64(time.Now().UnixNano())
		src = rand.NewPCG(now, now>>17|1)
	}
	return &Generator{
		rng:         rand.New(src),
		template:    DefaultTemplate(),
		probability: DefaultAvailableProbability,
	}
}

// NewSeededGenerator returns a deterministic generator.
func NewSeededGenerator(seed int64) *Generator {
	return NewGenerator(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// Template returns the slot layout used for every day.
func (g *Generator) Template() Template {
	return g.template
}

// Generate returns one schedule per business day in [start, start+days).
// Weekend days are skipped, so a window of only weekend days yields an empty slice.
func (g *Generator) Generate(start time.Time, days int) []DaySchedule {
	out := make([]DaySchedule, 0, days)
	if days <= 0 {
		return out
	}

	times := g.template.Times()
	first := DateOnly(start)

	g.mu.Lock()
	defer g.mu.Unlock()

	for i := 0; i < days; i++ {
		day := first.AddDate(0, 0, i)
		if !IsBusinessDay(day) {
			continue
		}
		slots := make([]TimeSlot, len(times))
		for j, hhmm := range times {
			slots[j] = TimeSlot{Time: hhmm, Available: g.rng.Float64() < g.probability}
		}
		out = append(out, DaySchedule{Date: day, Slots: slots})
	}
	return out
}
