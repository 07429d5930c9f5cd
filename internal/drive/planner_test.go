package drive

import (
	"math/rand"
	"testing"
)

func testLimits() Limits {
	return Limits{SpeedMin: 128, SpeedMax: 255, SegmentMin: 500, SegmentMax: 3000}
}

func TestBoundaryExactness(t *testing.T) {
	p := NewPlanner(rand.New(rand.NewSource(1)), testLimits(), 1000)
	seg := p.Segment()

	l, r := p.Speeds(seg.Start)
	if l != seg.StartLeft || r != seg.StartRight {
		t.Errorf("Speeds(start) = (%d,%d), want (%d,%d)", l, r, seg.StartLeft, seg.StartRight)
	}

	l, r = p.Speeds(seg.End)
	if l != seg.EndLeft || r != seg.EndRight {
		t.Errorf("Speeds(end) = (%d,%d), want (%d,%d)", l, r, seg.EndLeft, seg.EndRight)
	}
}

func TestSpeedsAlwaysInRange(t *testing.T) {
	lim := testLimits()
	p := NewPlanner(rand.New(rand.NewSource(7)), lim, 0)

	for now := uint32(0); now < 60000; now += 13 {
		p.Update(now)
		l, r := p.Speeds(now)
		if l < lim.SpeedMin || l > lim.SpeedMax || r < lim.SpeedMin || r > lim.SpeedMax {
			t.Fatalf("Speeds(%d) = (%d,%d) outside [%d,%d]", now, l, r, lim.SpeedMin, lim.SpeedMax)
		}
	}
}

func TestSegmentDurationAndSpeedBounds(t *testing.T) {
	lim := testLimits()
	p := NewPlanner(rand.New(rand.NewSource(3)), lim, 0)

	now := uint32(0)
	for i := 0; i < 200; i++ {
		seg := p.Segment()
		dur := int(seg.End - seg.Start)
		// The first segment's duration is drawn from "now", which
		// equals its start; later ones roll Start to the old End, so
		// duration stays in the draw range as long as Update runs
		// promptly.
		if dur < lim.SegmentMin || dur >= lim.SegmentMax {
			t.Fatalf("segment %d duration %dms outside [%d,%d)", i, dur, lim.SegmentMin, lim.SegmentMax)
		}
		if seg.EndLeft < lim.SpeedMin || seg.EndLeft > lim.SpeedMax ||
			seg.EndRight < lim.SpeedMin || seg.EndRight > lim.SpeedMax {
			t.Fatalf("segment %d goal speeds (%d,%d) out of range", i, seg.EndLeft, seg.EndRight)
		}
		now = seg.End
		p.Update(now)
	}
}

func TestSegmentContinuity(t *testing.T) {
	p := NewPlanner(rand.New(rand.NewSource(9)), testLimits(), 0)

	for i := 0; i < 100; i++ {
		prev := p.Segment()
		p.Update(prev.End)
		next := p.Segment()
		if next.StartLeft != prev.EndLeft || next.StartRight != prev.EndRight {
			t.Fatalf("segment %d start speeds (%d,%d) != previous end speeds (%d,%d)",
				i+1, next.StartLeft, next.StartRight, prev.EndLeft, prev.EndRight)
		}
		if next.Start != prev.End {
			t.Fatalf("segment %d start time %d != previous end time %d", i+1, next.Start, prev.End)
		}
	}
}

func TestExpiredSegmentHoldsEndSpeedsUntilUpdate(t *testing.T) {
	p := NewPlanner(rand.New(rand.NewSource(2)), testLimits(), 0)
	seg := p.Segment()

	// Past the end with no Update call: no extrapolation, the end
	// speeds hold.
	l, r := p.Speeds(seg.End + 400)
	if l != seg.EndLeft || r != seg.EndRight {
		t.Errorf("Speeds(end+400) = (%d,%d), want end speeds (%d,%d)", l, r, seg.EndLeft, seg.EndRight)
	}
}

func TestNoRolloverBeforeEnd(t *testing.T) {
	p := NewPlanner(rand.New(rand.NewSource(4)), testLimits(), 0)
	seg := p.Segment()

	p.Update(seg.End - 1)
	if p.Segment() != seg {
		t.Error("Update before end_time must not change the segment")
	}

	p.Update(seg.End)
	if p.Segment() == seg {
		t.Error("Update at end_time must start a new segment")
	}
}

func TestFixedSeedIsDeterministic(t *testing.T) {
	a := NewPlanner(rand.New(rand.NewSource(42)), testLimits(), 0)
	b := NewPlanner(rand.New(rand.NewSource(42)), testLimits(), 0)

	for now := uint32(0); now < 30000; now += 50 {
		a.Update(now)
		b.Update(now)
		if a.Segment() != b.Segment() {
			t.Fatalf("planners diverged at t=%d: %+v vs %+v", now, a.Segment(), b.Segment())
		}
	}
}
