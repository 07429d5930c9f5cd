package app

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/controlbot/internal/clock"
	"github.com/relabs-tech/controlbot/internal/compass"
	"github.com/relabs-tech/controlbot/internal/config"
	"github.com/relabs-tech/controlbot/internal/display"
	"github.com/relabs-tech/controlbot/internal/drive"
	"github.com/relabs-tech/controlbot/internal/encoder"
	"github.com/relabs-tech/controlbot/internal/robot"
	"github.com/relabs-tech/controlbot/internal/telemetry"
)

// RunRobot wires the real hardware to the control loop and runs it
// until power-off. Any error during bring-up is returned so main can
// fail-stop: a robot that cannot log telemetry must not drive.
func RunRobot() error {
	log.Println("starting controlbot firmware")

	cfg := config.Get()

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("periph host init: %w", err)
	}

	// Telemetry first: if the sink is dead there is no point
	// touching the motors.
	sink, err := openSink(cfg)
	if err != nil {
		return err
	}
	recorder, err := telemetry.NewRecorder(sink, cfg.TelemetryMode)
	if err != nil {
		return err
	}
	defer recorder.Close()
	log.Printf("telemetry: %s mode via %s sink", cfg.TelemetryMode, cfg.TelemetrySink)

	bus, err := i2creg.Open(cfg.CompassI2CBus)
	if err != nil {
		return fmt.Errorf("open I2C bus %q: %w", cfg.CompassI2CBus, err)
	}
	defer bus.Close()

	sensor, err := compass.NewQMC5883L(bus, cfg.CompassI2CAddr, compass.Calibration{
		OffsetX: cfg.CalOffsetX, OffsetY: cfg.CalOffsetY, OffsetZ: cfg.CalOffsetZ,
		ScaleX: cfg.CalScaleX, ScaleY: cfg.CalScaleY, ScaleZ: cfg.CalScaleZ,
	})
	if err != nil {
		return err
	}
	log.Printf("compass: QMC5883L at 0x%02X on bus %q", cfg.CompassI2CAddr, cfg.CompassI2CBus)

	tracker, err := encoder.Attach(encoder.Pins{
		LeftA:  cfg.EncoderLeftA,
		LeftB:  cfg.EncoderLeftB,
		RightA: cfg.EncoderRightA,
		RightB: cfg.EncoderRightB,
	})
	if err != nil {
		return err
	}
	log.Printf("encoders: left %s/%s right %s/%s",
		cfg.EncoderLeftA, cfg.EncoderLeftB, cfg.EncoderRightA, cfg.EncoderRightB)

	motors, err := drive.NewPWMMotors(cfg.MotorLeftPin, cfg.MotorRightPin, cfg.PWMFrequency)
	if err != nil {
		return err
	}

	clk := clock.Wall()
	est := compass.NewEstimator(sensor, clk, cfg.CompassSamples,
		time.Duration(cfg.CompassSampleGap)*time.Millisecond)

	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	planner := drive.NewPlanner(rand.New(rand.NewSource(seed)), drive.Limits{
		SpeedMin:   cfg.SpeedMin,
		SpeedMax:   cfg.SpeedMax,
		SegmentMin: cfg.SegmentMin,
		SegmentMax: cfg.SegmentMax,
	}, clk.Now())
	log.Printf("planner: seed %d, speeds [%d,%d], segments [%d,%d)ms",
		seed, cfg.SpeedMin, cfg.SpeedMax, cfg.SegmentMin, cfg.SegmentMax)

	// The display is a nicety: a missing panel must not ground the
	// robot.
	var panel robot.StatusPanel
	if cfg.DisplayEnabled {
		p, err := display.New(bus)
		if err != nil {
			log.Printf("WARNING: status display unavailable: %v", err)
		} else {
			panel = p
		}
	}

	loop := &robot.Loop{
		Clock:        clk,
		Tracker:      tracker,
		Estimator:    est,
		Planner:      planner,
		Recorder:     recorder,
		Motors:       motors,
		Panel:        panel,
		PanelDivisor: cfg.DisplayDivisor,
		Interval:     time.Duration(cfg.TickInterval) * time.Millisecond,
		MaxTicks:     cfg.MaxTicks,
	}

	log.Printf("entering control loop at %dms cadence", cfg.TickInterval)
	return loop.Run(context.Background())
}

func openSink(cfg *config.Config) (telemetry.Sink, error) {
	switch cfg.TelemetrySink {
	case config.SinkFile:
		return telemetry.NewFileSink(cfg.TelemetryPath)
	case config.SinkSerial:
		return telemetry.NewSerialSink(cfg.SerialPort, cfg.SerialBaud)
	default:
		return nil, fmt.Errorf("unknown telemetry sink %q", cfg.TelemetrySink)
	}
}
