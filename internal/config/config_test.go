package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCfg(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "robot.cfg")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultsAreValid(t *testing.T) {
	if err := Default().validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.cfg"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TickInterval != 50 || cfg.TelemetryMode != ModeBinary {
		t.Errorf("missing file did not yield defaults: %+v", cfg)
	}
}

func TestOverrides(t *testing.T) {
	path := writeCfg(t, `
# test overrides
TELEMETRY_MODE = csv
TICK_INTERVAL = 100
RANDOM_SEED = 42
ENCODER_LEFT_A = GPIO5
DISPLAY_ENABLED = true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TelemetryMode != ModeCSV {
		t.Errorf("TelemetryMode = %q", cfg.TelemetryMode)
	}
	if cfg.TelemetryPath != "tele.csv" {
		t.Errorf("TelemetryPath = %q, want tele.csv to follow the mode", cfg.TelemetryPath)
	}
	if cfg.TickInterval != 100 || cfg.RandomSeed != 42 {
		t.Errorf("numeric overrides not applied: %+v", cfg)
	}
	if cfg.EncoderLeftA != "GPIO5" {
		t.Errorf("EncoderLeftA = %q", cfg.EncoderLeftA)
	}
	if !cfg.DisplayEnabled {
		t.Error("DisplayEnabled not applied")
	}
	// Untouched keys keep their defaults.
	if cfg.CompassSamples != 5 {
		t.Errorf("CompassSamples = %d, want default 5", cfg.CompassSamples)
	}
}

func TestExplicitPathWinsOverModeDefault(t *testing.T) {
	path := writeCfg(t, "TELEMETRY_PATH = run7.bin\nTELEMETRY_MODE = csv\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TelemetryPath != "run7.bin" {
		t.Errorf("TelemetryPath = %q, want run7.bin", cfg.TelemetryPath)
	}
}

func TestRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"unknown key":      "WIFI_SSID = nope\n",
		"malformed line":   "TICK_INTERVAL\n",
		"non-numeric":      "TICK_INTERVAL = fast\n",
		"bad mode":         "TELEMETRY_MODE = xml\n",
		"bad sink":         "TELEMETRY_SINK = carrier-pigeon\n",
		"speed over 255":   "SPEED_MAX = 300\n",
		"inverted speeds":  "SPEED_MIN = 200\nSPEED_MAX = 150\n",
		"inverted segment": "SEGMENT_MIN = 3000\nSEGMENT_MAX = 500\n",
		"zero interval":    "TICK_INTERVAL = 0\n",
	}
	for name, content := range cases {
		if _, err := Load(writeCfg(t, content)); err == nil {
			t.Errorf("%s: Load accepted %q", name, content)
		}
	}
}
