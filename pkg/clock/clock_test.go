package clock

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestClampAndPeriod(t *testing.T) {
	tests := []struct {
		bpm    int
		want   int
		period time.Duration
	}{
		{120, 120, 125 * time.Millisecond},
		{60, 60, 250 * time.Millisecond},
		{10, MinBPM, 500 * time.Millisecond},
		{1000, MaxBPM, 60 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := ClampBPM(tt.bpm); got != tt.want {
			t.Errorf("ClampBPM(%d) = %d, want %d", tt.bpm, got, tt.want)
		}
		if got := Period(tt.bpm); got != tt.period {
			t.Errorf("Period(%d) = %v, want %v", tt.bpm, got, tt.period)
		}
	}
}

func TestSetBPM(t *testing.T) {
	c := New(0)
	if c.BPM() != MinBPM {
		t.Errorf("New(0).BPM() = %d", c.BPM())
	}
	if got := c.SetBPM(300); got != MaxBPM || c.BPM() != MaxBPM {
		t.Errorf("SetBPM(300) = %d", got)
	}
	// A second change before Run drains the first must not block.
	c.SetBPM(100)
	if c.Period() != 150*time.Millisecond {
		t.Errorf("Period() = %v", c.Period())
	}
}

func TestRunPulsesUntilCancelled(t *testing.T) {
	c := New(MaxBPM)
	ctx, cancel := context.WithCancel(context.Background())
	var pulses atomic.Int32

	done := make(chan error, 1)
	go func() {
		done <- c.Run(ctx, func() {
			if pulses.Add(1) == 3 {
				cancel()
			}
		})
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return")
	}
	if pulses.Load() < 3 {
		t.Errorf("pulses = %d, want at least 3", pulses.Load())
	}
}
