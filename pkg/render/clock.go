package render

import (
	"math"
	"time"
)

// FrameSamples is the capacity of the FrameClock ring buffer.
const FrameSamples = 30

// DefaultDisplayRefresh is how often FPS and focal displays are refreshed.
const DefaultDisplayRefresh = 333 * time.Millisecond

// FrameClock records the durations of recent frames in a fixed ring.
//
// Unwritten slots hold zero and count toward the mean, so the first
// FrameSamples readings overstate the frame rate.
type FrameClock struct {
	samples [FrameSamples]time.Duration
	cursor  int
	wraps   int
	last    time.Time
}

// NewFrameClock creates a clock whose first tick is measured from start.
func NewFrameClock(start time.Time) *FrameClock {
	return &FrameClock{last: start}
}

// Record stores d at the cursor and advances it, wrapping to zero.
func (c *FrameClock) Record(d time.Duration) {
	c.samples[c.cursor] = d
	c.cursor++
	if c.cursor >= FrameSamples {
		c.cursor = 0
		c.wraps++
	}
}

// Tick records the time elapsed since the previous tick and returns it.
func (c *FrameClock) Tick(now time.Time) time.Duration {
	var elapsed time.Duration
	if !c.last.IsZero() {
		elapsed = now.Sub(c.last)
	}
	c.last = now
	c.Record(elapsed)
	return elapsed
}

// FPS returns round(1000 / mean frame milliseconds) over all slots.
// An all-zero buffer reports 0.
func (c *FrameClock) FPS() int {
	var sum time.Duration
	for _, d := range c.samples {
		sum += d
	}
	if sum <= 0 {
		return 0
	}
	meanMs := float64(sum) / float64(time.Millisecond) / FrameSamples
	return int(math.Round(1000 / meanMs))
}

// Samples returns a copy of the ring in slot order.
func (c *FrameClock) Samples() [FrameSamples]time.Duration {
	return c.samples
}

// Cursor returns the next slot to be written.
func (c *FrameClock) Cursor() int { return c.cursor }

// Wraps returns how many times the cursor has wrapped to zero.
func (c *FrameClock) Wraps() int { return c.wraps }

// Throttle gates a callback to at most once per Interval. The first call
// always passes.
type Throttle struct {
	Interval time.Duration
	last     time.Time
}

// Ready reports whether the gated action may run at now, and if so starts
// a new interval.
func (t *Throttle) Ready(now time.Time) bool {
	if !t.last.IsZero() && now.Sub(t.last) < t.Interval {
		return false
	}
	t.last = now
	return true
}
