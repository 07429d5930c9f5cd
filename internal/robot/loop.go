// The fixed-cadence control loop.

package robot

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/relabs-tech/controlbot/internal/clock"
	"github.com/relabs-tech/controlbot/internal/compass"
	"github.com/relabs-tech/controlbot/internal/drive"
	"github.com/relabs-tech/controlbot/internal/encoder"
	"github.com/relabs-tech/controlbot/internal/telemetry"
)

// StatusPanel shows the latest tick on whatever display the robot
// carries. Implementations must tolerate being called at tick rate
// divided by PanelDivisor.
type StatusPanel interface {
	Show(rec telemetry.Record, leftDuty, rightDuty int) error
}

// Loop owns the per-tick schedule: gate on the clock, sample the
// compass with the encoder snapshot taken mid-window, persist one
// record, advance the motion plan, push duty values to the motors.
// All collaborators are injected, so tests and the simulator run the
// identical loop against fakes.
type Loop struct {
	Clock     clock.Clock
	Tracker   *encoder.Tracker
	Estimator *compass.Estimator
	Planner   *drive.Planner
	Recorder  *telemetry.Recorder
	Motors    drive.Motors

	Panel        StatusPanel // optional
	PanelDivisor int

	Interval time.Duration // tick cadence
	MaxTicks int           // stop after this many ticks; 0 = run forever
}

// Run executes the loop until ctx is cancelled or MaxTicks ticks have
// completed. On the robot neither happens and the loop runs until
// power-off.
//
// Telemetry write failures are logged and the loop keeps driving;
// losing data points is better than freezing the motors mid-run.
func (l *Loop) Run(ctx context.Context) error {
	interval := uint32(l.Interval / time.Millisecond)
	if interval == 0 {
		return fmt.Errorf("tick interval %v is below 1ms", l.Interval)
	}

	// Seed the previous-tick state so the first record's deltas are
	// measured from here rather than from zero.
	prevLeft, prevRight := l.Tracker.Snapshot()
	seed, err := l.Estimator.Read(nil)
	if err != nil {
		return fmt.Errorf("initial heading: %w", err)
	}
	prevHeading := seed.Heading

	last := l.Clock.Now()
	ticks := 0

	for {
		// Gate on the next tick boundary. The poll runs through the
		// injected clock so simulated runs take no wall time.
		for now := l.Clock.Now(); now < last+interval; now = l.Clock.Now() {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			l.Clock.Sleep(time.Millisecond)
		}
		now := l.Clock.Now()
		last = now

		// Heading sampling spans most of the tick; the encoder
		// snapshot lands in the middle of the sample window.
		var left, right int32
		reading, err := l.Estimator.Read(func() {
			left, right = l.Tracker.Snapshot()
		})
		if err != nil {
			log.Printf("tick %d: compass read failed: %v", now, err)
		} else {
			rec := telemetry.Record{
				Millis:       now,
				Heading:      reading.Heading,
				Z:            reading.Z,
				LeftPos:      left,
				RightPos:     right,
				HeadingDelta: compass.Delta(prevHeading, reading.Heading),
				LeftDelta:    left - prevLeft,
				RightDelta:   right - prevRight,
			}
			if err := l.Recorder.RecordTick(rec); err != nil {
				log.Printf("tick %d: %v", now, err)
			}

			prevHeading = reading.Heading
			prevLeft, prevRight = left, right

			if l.Panel != nil && l.PanelDivisor > 0 && ticks%l.PanelDivisor == 0 {
				dutyL, dutyR := l.Planner.Speeds(now)
				if err := l.Panel.Show(rec, dutyL, dutyR); err != nil {
					log.Printf("tick %d: status panel: %v", now, err)
				}
			}
		}

		// Advance the drive plan and push the new duty values.
		l.Planner.Update(now)
		dutyL, dutyR := l.Planner.Speeds(now)
		if err := l.Motors.SetDuty(dutyL, dutyR); err != nil {
			log.Printf("tick %d: motor output: %v", now, err)
		}

		ticks++
		if l.MaxTicks > 0 && ticks >= l.MaxTicks {
			return nil
		}
	}
}
