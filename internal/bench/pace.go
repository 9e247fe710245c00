package bench

import (
	"math"
	"time"
)

// pacer limits a worker to a target bandwidth by budgeting one fixed
// interval per transfer. deadlines advance by the interval itself
// rather than from the current time, so a slow transfer delays only
// its own pacing and the schedule catches up instead of drifting
type pacer struct {
	interval time.Duration
	next     time.Time
}

// newPacer computes the per-operation interval for the given bandwidth
// in bytes per second, rounded to the nanosecond
func newPacer(bandwidth, transferSize int64) *pacer {
	interval := time.Duration(math.Round(float64(transferSize) * 1e9 / float64(bandwidth)))
	return &pacer{interval: interval}
}

// arm sets the first deadline relative to now. must be called once
// before the operation loop starts
func (p *pacer) arm(now time.Time) {
	p.next = now.Add(p.interval)
}

// wait sleeps until the current deadline if it is still in the future,
// then advances the deadline by one interval
func (p *pacer) wait() {
	if d := time.Until(p.next); d > 0 {
		time.Sleep(d)
	}
	p.next = p.next.Add(p.interval)
}
