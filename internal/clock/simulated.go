package clock

import (
	"time"
)

// Simulated is a deterministic Clock for tests and the simulator.
// Now advances only when Sleep or Advance is called, so a full control
// loop run takes no wall time.
type Simulated struct {
	now uint32
}

// NewSimulated creates a Simulated clock starting at the given
// millisecond timestamp.
func NewSimulated(start uint32) *Simulated {
	return &Simulated{now: start}
}

func (s *Simulated) Now() uint32 {
	return s.now
}

// Sleep advances simulated time by d, rounded down to whole
// milliseconds, with a minimum of 1 ms so that busy-poll loops built
// on Sleep always make progress.
func (s *Simulated) Sleep(d time.Duration) {
	ms := uint32(d / time.Millisecond)
	if ms == 0 {
		ms = 1
	}
	s.now += ms
}

// Advance moves simulated time forward by ms milliseconds.
func (s *Simulated) Advance(ms uint32) {
	s.now += ms
}
