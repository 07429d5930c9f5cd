// Quadrature encoder step tracker.

package encoder

import (
	"sync"
)

// PhasePin reads the B channel of one encoder at the instant its A
// channel rises. True means the line is high.
type PhasePin interface {
	Read() bool
}

// Tracker converts encoder edge events into signed step counts for
// both wheels. The edge callbacks are the only writers of the
// counters; Snapshot is the only reader. A single mutex serializes
// all of them, which is the software rendering of the firmware's
// disable-interrupts-while-reading critical section: a snapshot can
// never observe one counter mid-update relative to the other.
type Tracker struct {
	mu         sync.Mutex
	left       int32
	right      int32
	leftPhase  PhasePin
	rightPhase PhasePin
}

// NewTracker creates a Tracker reading direction from the two B
// channels.
func NewTracker(leftPhase, rightPhase PhasePin) *Tracker {
	return &Tracker{leftPhase: leftPhase, rightPhase: rightPhase}
}

// LeftRise handles a rising edge on the left encoder's A channel.
// B low means forward on this wheel's mounting, so the counter
// increments; B high decrements.
func (t *Tracker) LeftRise() {
	t.mu.Lock()
	if t.leftPhase.Read() {
		t.left--
	} else {
		t.left++
	}
	t.mu.Unlock()
}

// RightRise handles a rising edge on the right encoder's A channel.
// The right motor is mounted mirrored, so the direction convention
// is inverted relative to the left wheel.
func (t *Tracker) RightRise() {
	t.mu.Lock()
	if t.rightPhase.Read() {
		t.right++
	} else {
		t.right--
	}
	t.mu.Unlock()
}

// Snapshot returns a consistent pair of step counts.
func (t *Tracker) Snapshot() (left, right int32) {
	t.mu.Lock()
	left, right = t.left, t.right
	t.mu.Unlock()
	return left, right
}
