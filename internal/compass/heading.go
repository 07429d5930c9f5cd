package compass

import (
	"fmt"
	"math"
	"time"

	"github.com/relabs-tech/controlbot/internal/clock"
)

// Field is one calibrated magnetometer reading, in sensor counts.
type Field struct {
	X int
	Y int
	Z int
}

// Sampler is anything that can produce Field readings: the real
// QMC5883L, a mock, maybe a replay source from a recorded log.
type Sampler interface {
	Sample() (Field, error)
}

// Reading is one estimated heading plus the vertical field component.
// Z is not part of the heading; it is logged so post-processing can
// detect the robot being picked up.
type Reading struct {
	Heading float64 // radians, in (-pi, pi]
	Z       int16
}

// Estimator produces headings by averaging several magnetometer
// readings spaced far enough apart that the sensor has refreshed
// between them.
type Estimator struct {
	sampler Sampler
	clk     clock.Clock
	samples int
	gap     time.Duration
}

// NewEstimator creates an Estimator taking the given number of
// readings per heading, separated by gap.
func NewEstimator(sampler Sampler, clk clock.Clock, samples int, gap time.Duration) *Estimator {
	return &Estimator{
		sampler: sampler,
		clk:     clk,
		samples: samples,
		gap:     gap,
	}
}

// Read takes the configured number of samples and returns the heading
// of the averaged horizontal field. The X and Y components are
// averaged before the arctangent; averaging the angles themselves
// would bias readings that straddle the +/-pi boundary.
//
// If mid is non-nil it is invoked once, just before the middle
// sample. The control loop uses this to snapshot the encoders partway
// through the sampling window instead of at either end of it. Z is
// taken from the middle sample.
func (e *Estimator) Read(mid func()) (Reading, error) {
	middle := e.samples / 2
	var sumX, sumY float64
	var z int16

	for i := 0; i < e.samples; i++ {
		if i > 0 {
			e.clk.Sleep(e.gap)
		}
		if i == middle && mid != nil {
			mid()
		}

		f, err := e.sampler.Sample()
		if err != nil {
			return Reading{}, fmt.Errorf("compass sample %d/%d: %w", i+1, e.samples, err)
		}
		sumX += float64(f.X)
		sumY += float64(f.Y)
		if i == middle {
			z = int16(f.Z)
		}
	}

	n := float64(e.samples)
	return Reading{
		Heading: math.Atan2(sumY/n, sumX/n),
		Z:       z,
	}, nil
}

// Delta wraps the difference current-previous into (-pi, pi]. Raw
// differences of two headings are always within (-2pi, 2pi), so a
// single 2pi correction is enough. A turn of more than half a circle
// between readings is indistinguishable from its shorter complement
// and is reported as such.
func Delta(previous, current float64) float64 {
	d := current - previous
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}
