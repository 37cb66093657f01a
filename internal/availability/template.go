package availability

import (
	"fmt"
	"time"
)

// Block is a contiguous run of slots starting at Start, spaced by Step.
type Block struct {
	Start time.Duration
	Count int
	Step  time.Duration
}

// Template is the fixed daily slot layout.
type Template struct {
	Blocks []Block
}

// DefaultTemplate is six morning slots from 09:00 and eight afternoon slots from 14:00, every 30 minutes.
func DefaultTemplate() Template {
	return Template{Blocks: []Block{
		{Start: 9 * time.Hour, Count: 6, Step: 30 * time.Minute},
		{Start: 14 * time.Hour, Count: 8, Step: 30 * time.Minute},
	}}
}

// Times lists the HH:MM start of every slot, in ascending order.
func (t Template) Times() []string {
	var out []string
	for _, b := range t.Blocks {
		for i := 0; i < b.Count; i++ {
			out = append(out, formatClock(b.Start+time.Duration(i)*b.Step))
		}
	}
	return out
}

// Size is the number of slots per day.
func (t Template) Size() int {
	n := 0
	for _, b := range t.Blocks {
		n += b.Count
	}
	return n
}

func formatClock(offset time.Duration) string {
	minutes := int(offset / time.Minute)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
