package app

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/relabs-tech/controlbot/internal/clock"
	"github.com/relabs-tech/controlbot/internal/compass"
	"github.com/relabs-tech/controlbot/internal/config"
	"github.com/relabs-tech/controlbot/internal/drive"
	"github.com/relabs-tech/controlbot/internal/encoder"
	"github.com/relabs-tech/controlbot/internal/robot"
	"github.com/relabs-tech/controlbot/internal/telemetry"
)

// Default length of a simulated run: one minute of robot time at the
// 50ms cadence.
const defaultSimTicks = 1200

type level bool

func (l level) Read() bool { return bool(l) }

// simSampler feeds the encoder with synthetic edges before each
// compass sample, scaled by the duty the planner last commanded.
// Crude open-loop kinematics, but it makes the simulated log move
// the way a real run does. The right phase level is inverted so the
// mirrored direction convention still counts forward as positive.
type simSampler struct {
	tracker *encoder.Tracker
	motors  *drive.MockMotors
	inner   compass.Sampler
}

func (s *simSampler) Sample() (compass.Field, error) {
	for i := 0; i < s.motors.Left/64; i++ {
		s.tracker.LeftRise()
	}
	for i := 0; i < s.motors.Right/64; i++ {
		s.tracker.RightRise()
	}
	return s.inner.Sample()
}

// RunSimulate runs the real control loop against simulated hardware
// and writes an ordinary telemetry file. Used to produce synthetic
// training data and to sanity-check the ML pipeline before a field
// run. A fixed RANDOM_SEED makes the output reproducible.
func RunSimulate() error {
	cfg := config.Get()

	ticks := cfg.MaxTicks
	if ticks == 0 {
		ticks = defaultSimTicks
	}

	sink, err := telemetry.NewFileSink(cfg.TelemetryPath)
	if err != nil {
		return err
	}
	recorder, err := telemetry.NewRecorder(sink, cfg.TelemetryMode)
	if err != nil {
		return err
	}
	defer recorder.Close()

	clk := clock.NewSimulated(0)
	tracker := encoder.NewTracker(level(false), level(true))
	motors := &drive.MockMotors{}

	sampler := &simSampler{
		tracker: tracker,
		motors:  motors,
		inner:   compass.NewMockSampler(clk),
	}
	est := compass.NewEstimator(sampler, clk, cfg.CompassSamples,
		time.Duration(cfg.CompassSampleGap)*time.Millisecond)

	seed := cfg.RandomSeed
	if seed == 0 {
		seed = 1
	}
	planner := drive.NewPlanner(rand.New(rand.NewSource(seed)), drive.Limits{
		SpeedMin:   cfg.SpeedMin,
		SpeedMax:   cfg.SpeedMax,
		SegmentMin: cfg.SegmentMin,
		SegmentMax: cfg.SegmentMax,
	}, clk.Now())

	loop := &robot.Loop{
		Clock:     clk,
		Tracker:   tracker,
		Estimator: est,
		Planner:   planner,
		Recorder:  recorder,
		Motors:    motors,
		Interval:  time.Duration(cfg.TickInterval) * time.Millisecond,
		MaxTicks:  ticks,
	}

	log.Printf("simulating %d ticks (seed %d) into %s", ticks, seed, cfg.TelemetryPath)
	if err := loop.Run(context.Background()); err != nil {
		return err
	}
	log.Printf("simulation done: %.1fs of robot time", float64(clk.Now())/1000)
	return nil
}
