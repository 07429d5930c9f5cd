// Randomized open-loop motion planner.

package drive

import (
	"math/rand"
)

// Segment is one piecewise-linear drive stage: the duty values ramp
// linearly from the start speeds at Start to the end speeds at End.
// Times are clock milliseconds.
type Segment struct {
	Start      uint32
	End        uint32
	StartLeft  int
	StartRight int
	EndLeft    int
	EndRight   int
}

// Limits bounds the random draws: duty endpoints in
// [SpeedMin, SpeedMax] and segment durations in
// [SegmentMin, SegmentMax) milliseconds.
type Limits struct {
	SpeedMin   int
	SpeedMax   int
	SegmentMin int
	SegmentMax int
}

// Planner walks the two wheel speeds through a random sequence of
// linear ramps. No feedback is involved: the point is varied,
// uncorrelated trajectories for training data, not accurate speed
// tracking.
//
// The random source is injected so a fixed seed reproduces the exact
// segment sequence.
type Planner struct {
	rng *rand.Rand
	lim Limits
	seg Segment
}

// NewPlanner creates a Planner whose first segment ramps from the
// minimum duty on both wheels toward a random goal.
func NewPlanner(rng *rand.Rand, lim Limits, now uint32) *Planner {
	p := &Planner{rng: rng, lim: lim}
	p.seg = Segment{
		Start:      now,
		StartLeft:  lim.SpeedMin,
		StartRight: lim.SpeedMin,
	}
	p.draw(now)
	return p
}

// draw picks a new goal time and goal speeds for the current segment.
func (p *Planner) draw(now uint32) {
	p.seg.End = now + uint32(p.lim.SegmentMin+p.rng.Intn(p.lim.SegmentMax-p.lim.SegmentMin))
	p.seg.EndLeft = p.randSpeed()
	p.seg.EndRight = p.randSpeed()
}

func (p *Planner) randSpeed() int {
	return p.lim.SpeedMin + p.rng.Intn(p.lim.SpeedMax-p.lim.SpeedMin+1)
}

// Update rolls over to a new segment once the current one has
// elapsed. The old end values become the new start values, so the
// duty curve is continuous across the boundary.
func (p *Planner) Update(now uint32) {
	if now < p.seg.End {
		return
	}
	p.seg.StartLeft = p.seg.EndLeft
	p.seg.StartRight = p.seg.EndRight
	p.seg.Start = p.seg.End
	p.draw(now)
}

// Speeds interpolates the duty values for time now. Progress is
// clamped to [0,1], so before Start the start speeds hold and past
// End the end speeds hold until the next Update. The final clamp to
// the duty bounds enforces the invariant even if a segment was
// constructed with out-of-range endpoints.
func (p *Planner) Speeds(now uint32) (left, right int) {
	var s float64
	switch {
	case now <= p.seg.Start:
		s = 0
	case now >= p.seg.End:
		s = 1
	default:
		s = float64(now-p.seg.Start) / float64(p.seg.End-p.seg.Start)
	}

	left = int(s*float64(p.seg.EndLeft) + (1-s)*float64(p.seg.StartLeft))
	right = int(s*float64(p.seg.EndRight) + (1-s)*float64(p.seg.StartRight))

	return p.clamp(left), p.clamp(right)
}

func (p *Planner) clamp(v int) int {
	if v < p.lim.SpeedMin {
		return p.lim.SpeedMin
	}
	if v > p.lim.SpeedMax {
		return p.lim.SpeedMax
	}
	return v
}

// Segment returns a copy of the current drive segment.
func (p *Planner) Segment() Segment {
	return p.seg
}
