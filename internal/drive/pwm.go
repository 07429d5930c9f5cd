package drive

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
)

// Motors drives the two forward PWM channels. Duty values are in
// [128,255]; the low bound keeps the motors out of their near-stall
// region. Forward-only: the backward channels stay unwired.
type Motors interface {
	SetDuty(left, right int) error
}

type pwmMotors struct {
	left  gpio.PinOut
	right gpio.PinOut
	freq  physic.Frequency
}

// NewPWMMotors opens the two motor pins for PWM output at the given
// frequency.
func NewPWMMotors(leftPin, rightPin string, freqHz int) (Motors, error) {
	left := gpioreg.ByName(leftPin)
	if left == nil {
		return nil, fmt.Errorf("left motor pin %q not found", leftPin)
	}
	right := gpioreg.ByName(rightPin)
	if right == nil {
		return nil, fmt.Errorf("right motor pin %q not found", rightPin)
	}
	return &pwmMotors{
		left:  left,
		right: right,
		freq:  physic.Frequency(freqHz) * physic.Hertz,
	}, nil
}

func (m *pwmMotors) SetDuty(left, right int) error {
	if err := m.left.PWM(dutyOf(left), m.freq); err != nil {
		return fmt.Errorf("left motor pwm: %w", err)
	}
	if err := m.right.PWM(dutyOf(right), m.freq); err != nil {
		return fmt.Errorf("right motor pwm: %w", err)
	}
	return nil
}

// dutyOf maps an 8-bit duty value onto periph's duty range.
func dutyOf(v int) gpio.Duty {
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return gpio.Duty(int64(v) * int64(gpio.DutyMax) / 255)
}
