package encoder

import (
	"sync"
	"testing"
)

// scriptedPhase returns a fixed sequence of B-channel levels, one per
// edge.
type scriptedPhase struct {
	levels []bool
	i      int
}

func (s *scriptedPhase) Read() bool {
	l := s.levels[s.i]
	s.i++
	return l
}

type constPhase bool

func (c constPhase) Read() bool { return bool(c) }

func TestLeftStepDirection(t *testing.T) {
	phase := &scriptedPhase{levels: []bool{false, false, true}}
	tr := NewTracker(phase, constPhase(false))

	// Three A rising edges with B = low, low, high.
	tr.LeftRise()
	tr.LeftRise()
	tr.LeftRise()

	left, right := tr.Snapshot()
	if left != 1 {
		t.Errorf("left count = %d, want 1 (+1,+1,-1)", left)
	}
	if right != 0 {
		t.Errorf("right count = %d, want 0", right)
	}
}

func TestRightDirectionMirrored(t *testing.T) {
	// Same phase level must move the two counters in opposite
	// directions, because the right motor is mounted mirrored.
	tr := NewTracker(constPhase(false), constPhase(false))
	tr.LeftRise()
	tr.RightRise()

	left, right := tr.Snapshot()
	if left != 1 || right != -1 {
		t.Errorf("counts = (%d,%d), want (1,-1)", left, right)
	}
}

func TestCountMatchesSignedEdgeTotal(t *testing.T) {
	levels := []bool{false, true, false, false, true, true, false}
	phase := &scriptedPhase{levels: levels}
	tr := NewTracker(phase, constPhase(false))

	want := int32(0)
	for _, high := range levels {
		if high {
			want--
		} else {
			want++
		}
	}
	for range levels {
		tr.LeftRise()
	}

	if left, _ := tr.Snapshot(); left != want {
		t.Errorf("left count = %d, want %d", left, want)
	}
}

func TestSnapshotUnderConcurrentEdges(t *testing.T) {
	tr := NewTracker(constPhase(false), constPhase(true))

	const edges = 1000
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < edges; i++ {
			tr.LeftRise()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < edges; i++ {
			tr.RightRise()
		}
	}()

	// Snapshots taken while edges fire must always return values in
	// range; the final values are exact.
	for i := 0; i < 100; i++ {
		left, right := tr.Snapshot()
		if left < 0 || left > edges {
			t.Fatalf("torn left snapshot: %d", left)
		}
		if right < 0 || right > edges {
			t.Fatalf("torn right snapshot: %d", right)
		}
	}

	wg.Wait()
	left, right := tr.Snapshot()
	if left != edges || right != edges {
		t.Errorf("final counts = (%d,%d), want (%d,%d)", left, right, edges, edges)
	}
}
