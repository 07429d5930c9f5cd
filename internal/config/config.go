package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Telemetry output modes.
const (
	ModeBinary = "binary"
	ModeCSV    = "csv"
)

// Telemetry sink types.
const (
	SinkFile   = "file"
	SinkSerial = "serial"
)

// Config holds every tunable of the robot firmware. Defaults mirror
// the values the robot shipped with; an optional robot.cfg on the
// card can override them so the two observed wiring variants can run
// the same binary.
type Config struct {
	// Control loop
	TickInterval int // milliseconds between telemetry ticks
	MaxTicks     int // stop after this many ticks; 0 = run forever

	// Compass
	CompassSamples   int // readings averaged per heading
	CompassSampleGap int // milliseconds between readings
	CompassI2CBus    string
	CompassI2CAddr   uint16
	CalOffsetX       float64
	CalOffsetY       float64
	CalOffsetZ       float64
	CalScaleX        float64
	CalScaleY        float64
	CalScaleZ        float64

	// Encoders (periph pin names)
	EncoderLeftA  string
	EncoderLeftB  string
	EncoderRightA string
	EncoderRightB string

	// Drive
	MotorLeftPin  string
	MotorRightPin string
	PWMFrequency  int // Hz
	SpeedMin      int
	SpeedMax      int
	SegmentMin    int   // milliseconds, inclusive
	SegmentMax    int   // milliseconds, exclusive
	RandomSeed    int64 // 0 = seed from the clock

	// Telemetry
	TelemetryMode string // binary | csv
	TelemetrySink string // file | serial
	TelemetryPath string
	SerialPort    string
	SerialBaud    int

	// Display
	DisplayEnabled bool
	DisplayDivisor int // update the panel every N ticks
}

// Default returns the compiled-in configuration. The calibration
// constants come from the magnetometer calibration run for this
// specific robot; they are meaningless on other hardware.
func Default() *Config {
	return &Config{
		TickInterval: 50,

		CompassSamples:   5,
		CompassSampleGap: 6,
		CompassI2CBus:    "1",
		CompassI2CAddr:   0x0D,
		CalOffsetX:       -125.0,
		CalOffsetY:       -223.0,
		CalOffsetZ:       -661.0,
		CalScaleX:        1.01,
		CalScaleY:        0.93,
		CalScaleZ:        1.06,

		EncoderLeftA:  "GPIO17",
		EncoderLeftB:  "GPIO27",
		EncoderRightA: "GPIO22",
		EncoderRightB: "GPIO23",

		MotorLeftPin:  "GPIO12",
		MotorRightPin: "GPIO13",
		PWMFrequency:  200,
		SpeedMin:      128,
		SpeedMax:      255,
		SegmentMin:    500,
		SegmentMax:    3000,

		TelemetryMode: ModeBinary,
		TelemetrySink: SinkFile,
		TelemetryPath: "tele.bin",
		SerialPort:    "/dev/serial0",
		SerialBaud:    115200,

		DisplayDivisor: 10,
	}
}

var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load starts from Default and applies KEY=VALUE overrides from the
// given file. A missing file is not an error: the defaults are the
// canonical configuration and the file only exists to retarget pins
// or switch telemetry modes without reflashing.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	file, err := os.Open(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.validate()
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) setValue(key, value string) error {
	atoi := func(name string) (int, error) {
		v, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s %q: %w", name, value, err)
		}
		return v, nil
	}
	atof := func(name string) (float64, error) {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s %q: %w", name, value, err)
		}
		return v, nil
	}

	var err error
	switch key {
	case "TICK_INTERVAL":
		c.TickInterval, err = atoi(key)
	case "MAX_TICKS":
		c.MaxTicks, err = atoi(key)

	case "COMPASS_SAMPLES":
		c.CompassSamples, err = atoi(key)
	case "COMPASS_SAMPLE_GAP":
		c.CompassSampleGap, err = atoi(key)
	case "COMPASS_I2C_BUS":
		c.CompassI2CBus = value
	case "COMPASS_I2C_ADDR":
		addr, perr := strconv.ParseUint(value, 0, 16)
		if perr != nil {
			return fmt.Errorf("invalid COMPASS_I2C_ADDR %q: %w", value, perr)
		}
		c.CompassI2CAddr = uint16(addr)
	case "CAL_OFFSET_X":
		c.CalOffsetX, err = atof(key)
	case "CAL_OFFSET_Y":
		c.CalOffsetY, err = atof(key)
	case "CAL_OFFSET_Z":
		c.CalOffsetZ, err = atof(key)
	case "CAL_SCALE_X":
		c.CalScaleX, err = atof(key)
	case "CAL_SCALE_Y":
		c.CalScaleY, err = atof(key)
	case "CAL_SCALE_Z":
		c.CalScaleZ, err = atof(key)

	case "ENCODER_LEFT_A":
		c.EncoderLeftA = value
	case "ENCODER_LEFT_B":
		c.EncoderLeftB = value
	case "ENCODER_RIGHT_A":
		c.EncoderRightA = value
	case "ENCODER_RIGHT_B":
		c.EncoderRightB = value

	case "MOTOR_LEFT_PIN":
		c.MotorLeftPin = value
	case "MOTOR_RIGHT_PIN":
		c.MotorRightPin = value
	case "PWM_FREQUENCY":
		c.PWMFrequency, err = atoi(key)
	case "SPEED_MIN":
		c.SpeedMin, err = atoi(key)
	case "SPEED_MAX":
		c.SpeedMax, err = atoi(key)
	case "SEGMENT_MIN":
		c.SegmentMin, err = atoi(key)
	case "SEGMENT_MAX":
		c.SegmentMax, err = atoi(key)
	case "RANDOM_SEED":
		seed, perr := strconv.ParseInt(value, 10, 64)
		if perr != nil {
			return fmt.Errorf("invalid RANDOM_SEED %q: %w", value, perr)
		}
		c.RandomSeed = seed

	case "TELEMETRY_MODE":
		c.TelemetryMode = value
		// Keep the default file name in step with the mode unless
		// the file also sets TELEMETRY_PATH.
		if c.TelemetryPath == "tele.bin" && value == ModeCSV {
			c.TelemetryPath = "tele.csv"
		}
	case "TELEMETRY_SINK":
		c.TelemetrySink = value
	case "TELEMETRY_PATH":
		c.TelemetryPath = value
	case "SERIAL_PORT":
		c.SerialPort = value
	case "SERIAL_BAUD":
		c.SerialBaud, err = atoi(key)

	case "DISPLAY_ENABLED":
		b, perr := strconv.ParseBool(value)
		if perr != nil {
			return fmt.Errorf("invalid DISPLAY_ENABLED %q: %w", value, perr)
		}
		c.DisplayEnabled = b
	case "DISPLAY_DIVISOR":
		c.DisplayDivisor, err = atoi(key)

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return err
}

func (c *Config) validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("TICK_INTERVAL must be positive, got %d", c.TickInterval)
	}
	if c.CompassSamples <= 0 {
		return fmt.Errorf("COMPASS_SAMPLES must be positive, got %d", c.CompassSamples)
	}
	if c.CompassSampleGap < 0 {
		return fmt.Errorf("COMPASS_SAMPLE_GAP must not be negative, got %d", c.CompassSampleGap)
	}
	if c.SpeedMin < 0 || c.SpeedMin > c.SpeedMax || c.SpeedMax > 255 {
		return fmt.Errorf("speed bounds must satisfy 0 <= SPEED_MIN <= SPEED_MAX <= 255, got [%d,%d]", c.SpeedMin, c.SpeedMax)
	}
	if c.SegmentMin <= 0 || c.SegmentMin >= c.SegmentMax {
		return fmt.Errorf("segment bounds must satisfy 0 < SEGMENT_MIN < SEGMENT_MAX, got [%d,%d)", c.SegmentMin, c.SegmentMax)
	}
	if c.TelemetryMode != ModeBinary && c.TelemetryMode != ModeCSV {
		return fmt.Errorf("TELEMETRY_MODE must be %q or %q, got %q", ModeBinary, ModeCSV, c.TelemetryMode)
	}
	if c.TelemetrySink != SinkFile && c.TelemetrySink != SinkSerial {
		return fmt.Errorf("TELEMETRY_SINK must be %q or %q, got %q", SinkFile, SinkSerial, c.TelemetrySink)
	}
	if c.TelemetrySink == SinkFile && c.TelemetryPath == "" {
		return fmt.Errorf("TELEMETRY_PATH is required for the file sink")
	}
	if c.TelemetrySink == SinkSerial && c.SerialPort == "" {
		return fmt.Errorf("SERIAL_PORT is required for the serial sink")
	}
	if c.DisplayEnabled && c.DisplayDivisor <= 0 {
		return fmt.Errorf("DISPLAY_DIVISOR must be positive, got %d", c.DisplayDivisor)
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once so repeated calls are harmless.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
