// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/relabs-tech/controlbot/internal/telemetry"
)

// Panel renders the latest telemetry tick on an SSD1306 OLED. Handy
// during test runs: the robot has no other way to tell you what it
// thinks its heading is.
type Panel struct {
	dev *ssd1306.Dev
}

// New initializes the display. The driver owns the I2C address; the
// SSD1306 only ever answers on its default one.
func New(bus i2c.Bus) (*Panel, error) {
	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return nil, fmt.Errorf("ssd1306 init: %w", err)
	}
	return &Panel{dev: dev}, nil
}

// Show draws one telemetry record plus the current duty values.
func (p *Panel) Show(rec telemetry.Record, leftDuty, rightDuty int) error {
	img := image1bit.NewVerticalLSB(p.dev.Bounds())

	lines := []string{
		fmt.Sprintf("HDG %+6.2f rad", rec.Heading),
		fmt.Sprintf("POS %6d %6d", rec.LeftPos, rec.RightPos),
		fmt.Sprintf("DUTY %3d / %3d", leftDuty, rightDuty),
		fmt.Sprintf("Z %6d  T %6.1fs", rec.Z, float64(rec.Millis)/1000),
	}

	drawer := font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{C: image1bit.On},
		Face: basicfont.Face7x13,
	}
	for i, line := range lines {
		drawer.Dot = fixed.P(0, 13*(i+1))
		drawer.DrawString(line)
	}

	if err := p.dev.Draw(p.dev.Bounds(), img, image.Point{}); err != nil {
		return fmt.Errorf("ssd1306 draw: %w", err)
	}
	return nil
}
