package robot

import (
	"bytes"
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/relabs-tech/controlbot/internal/clock"
	"github.com/relabs-tech/controlbot/internal/compass"
	"github.com/relabs-tech/controlbot/internal/config"
	"github.com/relabs-tech/controlbot/internal/drive"
	"github.com/relabs-tech/controlbot/internal/encoder"
	"github.com/relabs-tech/controlbot/internal/telemetry"
)

type lowPhase struct{}

func (lowPhase) Read() bool { return false }

// edgeSampler is a compass Sampler that fires one left encoder edge
// per sample, standing in for a wheel that turns while the compass
// is being read.
type edgeSampler struct {
	tracker *encoder.Tracker
}

func (s *edgeSampler) Sample() (compass.Field, error) {
	s.tracker.LeftRise()
	return compass.Field{X: 500, Y: 0, Z: -400}, nil
}

type bufSink struct {
	bytes.Buffer
}

func (s *bufSink) Flush() error { return nil }
func (s *bufSink) Close() error { return nil }

func newTestLoop(t *testing.T, sink telemetry.Sink, maxTicks int) (*Loop, *clock.Simulated, *encoder.Tracker, *drive.MockMotors) {
	t.Helper()

	clk := clock.NewSimulated(0)
	tracker := encoder.NewTracker(lowPhase{}, lowPhase{})
	est := compass.NewEstimator(&edgeSampler{tracker: tracker}, clk, 5, 6*time.Millisecond)
	rec, err := telemetry.NewRecorder(sink, config.ModeBinary)
	if err != nil {
		t.Fatal(err)
	}
	motors := &drive.MockMotors{}
	planner := drive.NewPlanner(rand.New(rand.NewSource(1)),
		drive.Limits{SpeedMin: 128, SpeedMax: 255, SegmentMin: 500, SegmentMax: 3000},
		clk.Now())

	return &Loop{
		Clock:     clk,
		Tracker:   tracker,
		Estimator: est,
		Planner:   planner,
		Recorder:  rec,
		Motors:    motors,
		Interval:  50 * time.Millisecond,
		MaxTicks:  maxTicks,
	}, clk, tracker, motors
}

func TestLoopProducesOneRecordPerTick(t *testing.T) {
	sink := &bufSink{}
	loop, _, _, motors := newTestLoop(t, sink, 10)

	if err := loop.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	records, err := telemetry.ParseBinary(bytes.NewReader(sink.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 10 {
		t.Fatalf("got %d records, want 10", len(records))
	}

	// Strict chronological order at the tick cadence.
	for i := 1; i < len(records); i++ {
		gap := records[i].Millis - records[i-1].Millis
		if gap < 50 {
			t.Errorf("records %d-%d only %dms apart, want >= 50", i-1, i, gap)
		}
	}

	// Motor output happened every tick, always inside the duty bounds.
	if len(motors.History) != 10 {
		t.Fatalf("motors driven %d times, want 10", len(motors.History))
	}
	for i, d := range motors.History {
		if d[0] < 128 || d[0] > 255 || d[1] < 128 || d[1] > 255 {
			t.Errorf("tick %d duty (%d,%d) outside [128,255]", i, d[0], d[1])
		}
	}
}

func TestLoopSnapshotsEncodersMidSampling(t *testing.T) {
	sink := &bufSink{}
	loop, _, _, _ := newTestLoop(t, sink, 3)

	if err := loop.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	records, err := telemetry.ParseBinary(bytes.NewReader(sink.Bytes()))
	if err != nil {
		t.Fatal(err)
	}

	// The sampler fires one edge per compass sample. The seed read
	// fires 5 edges after its (empty) snapshot, and each tick's
	// snapshot lands after 2 of that tick's 5 samples: positions run
	// 7, 12, 17. A snapshot taken before or after the window would
	// land on a multiple of 5.
	want := []int32{7, 12, 17}
	for i, rec := range records {
		if rec.LeftPos != want[i] {
			t.Errorf("tick %d left position = %d, want %d", i, rec.LeftPos, want[i])
		}
	}

	// Steady field: heading deltas stay zero while positions move.
	for i, rec := range records {
		if rec.HeadingDelta != 0 {
			t.Errorf("tick %d heading delta = %v, want 0", i, rec.HeadingDelta)
		}
	}
}

func TestLoopHonorsCancellation(t *testing.T) {
	sink := &bufSink{}
	loop, _, _, _ := newTestLoop(t, sink, 0) // no tick limit

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("cancelled run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop on cancellation")
	}
}

func TestLoopKeepsDrivingWhenSinkFails(t *testing.T) {
	sink := &failingSink{}
	loop, _, _, motors := newTestLoop(t, sink, 5)

	if err := loop.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(motors.History) != 5 {
		t.Errorf("motors driven %d times with a dead sink, want 5", len(motors.History))
	}
}

type failingSink struct{}

func (failingSink) Write(p []byte) (int, error) { return 0, errWriteFailed }
func (failingSink) Flush() error                { return nil }
func (failingSink) Close() error                { return nil }

var errWriteFailed = errTest("write failed")

type errTest string

func (e errTest) Error() string { return string(e) }
