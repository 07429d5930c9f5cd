// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package compass

import (
	"encoding/binary"
	"fmt"

	"periph.io/x/conn/v3/i2c"
)

// QMC5883L register map (the subset we use).
const (
	regData     = 0x00 // X LSB; six data bytes follow
	regStatus   = 0x06
	regControl1 = 0x09
	regSetReset = 0x0B

	statusDRDY = 0x01

	// Control 1: OSR=512, range +/-8G, ODR=200Hz, continuous mode.
	// 200Hz matters: the heading estimator spaces its reads by 6ms
	// and relies on each one being a fresh conversion.
	ctrlContinuous200Hz = 0x1D

	setResetRecommended = 0x01
)

// Calibration holds per-axis hard-iron offsets and soft-iron scales,
// applied to the raw counts before they leave this package.
type Calibration struct {
	OffsetX, OffsetY, OffsetZ float64
	ScaleX, ScaleY, ScaleZ    float64
}

// QMC5883L is a minimal driver for the QMC5883L 3-axis magnetometer
// in continuous measurement mode.
type QMC5883L struct {
	dev i2c.Dev
	cal Calibration
}

// NewQMC5883L configures the sensor for continuous 200Hz operation.
func NewQMC5883L(bus i2c.Bus, addr uint16, cal Calibration) (*QMC5883L, error) {
	q := &QMC5883L{
		dev: i2c.Dev{Bus: bus, Addr: addr},
		cal: cal,
	}
	if err := q.dev.Tx([]byte{regSetReset, setResetRecommended}, nil); err != nil {
		return nil, fmt.Errorf("qmc5883l set/reset period: %w", err)
	}
	if err := q.dev.Tx([]byte{regControl1, ctrlContinuous200Hz}, nil); err != nil {
		return nil, fmt.Errorf("qmc5883l control setup: %w", err)
	}
	return q, nil
}

// Sample reads the latest conversion and applies the calibration.
// The sensor free-runs at 200Hz, so the data registers always hold a
// recent reading; we do not block on DRDY.
func (q *QMC5883L) Sample() (Field, error) {
	var buf [6]byte
	if err := q.dev.Tx([]byte{regData}, buf[:]); err != nil {
		return Field{}, fmt.Errorf("qmc5883l read: %w", err)
	}

	x := int16(binary.LittleEndian.Uint16(buf[0:2]))
	y := int16(binary.LittleEndian.Uint16(buf[2:4]))
	z := int16(binary.LittleEndian.Uint16(buf[4:6]))

	return Field{
		X: int((float64(x) - q.cal.OffsetX) * q.cal.ScaleX),
		Y: int((float64(y) - q.cal.OffsetY) * q.cal.ScaleY),
		Z: int((float64(z) - q.cal.OffsetZ) * q.cal.ScaleZ),
	}, nil
}
