// Package clock produces the step pulses that drive a patch.
//
// A beat is divided into four steps, so at 120 BPM a step lasts 125ms.
package clock

import (
	"context"
	"sync"
	"time"
)

// Tempo limits.
const (
	MinBPM     = 30
	MaxBPM     = 250
	DefaultBPM = 120

	// StepsPerBeat is the number of pulses per beat.
	StepsPerBeat = 4
)

// ClampBPM limits bpm to MinBPM..MaxBPM.
func ClampBPM(bpm int) int {
	return min(max(bpm, MinBPM), MaxBPM)
}

// Period returns the step length at bpm, after clamping.
func Period(bpm int) time.Duration {
	return time.Duration(float64(time.Minute) / float64(ClampBPM(bpm)) / StepsPerBeat)
}

// Clock emits a pulse every step. The tempo may change while it runs.
type Clock struct {
	mu      sync.Mutex
	bpm     int
	changed chan struct{}
}

// New returns a clock at bpm.
func New(bpm int) *Clock {
	return &Clock{bpm: ClampBPM(bpm), changed: make(chan struct{}, 1)}
}

// BPM returns the current tempo.
func (c *Clock) BPM() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bpm
}

// SetBPM changes the tempo and returns the clamped value. A running clock
// picks the new period up on its next pulse.
func (c *Clock) SetBPM(bpm int) int {
	c.mu.Lock()
	c.bpm = ClampBPM(bpm)
	bpm = c.bpm
	c.mu.Unlock()

	select {
	case c.changed <- struct{}{}:
	default:
	}
	return bpm
}

// Period returns the current step length.
func (c *Clock) Period() time.Duration { return Period(c.BPM()) }

// Run calls fn once per step until ctx is done. fn runs on the caller's
// goroutine; a slow fn delays later pulses rather than overlapping them.
func (c *Clock) Run(ctx context.Context, fn func()) error {
	ticker := time.NewTicker(c.Period())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-c.changed:
			ticker.Reset(c.Period())
		case <-ticker.C:
			fn()
		}
	}
}
