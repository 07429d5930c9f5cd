package compass

import (
	"math"

	"github.com/relabs-tech/controlbot/internal/clock"
)

type mockSampler struct {
	clk clock.Clock
}

// NewMockSampler returns a Sampler that sweeps the horizontal field
// through a slow full rotation, with a steady vertical component.
// Deterministic given a simulated clock, so the simulator produces
// reproducible logs.
func NewMockSampler(clk clock.Clock) Sampler {
	return &mockSampler{clk: clk}
}

func (m *mockSampler) Sample() (Field, error) {
	// One full rotation every 20 seconds.
	angle := 2 * math.Pi * float64(m.clk.Now()%20000) / 20000

	return Field{
		X: int(1000 * math.Cos(angle)),
		Y: int(1000 * math.Sin(angle)),
		Z: -400,
	}, nil
}
