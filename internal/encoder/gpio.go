package encoder

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// gpioPhase adapts a periph input pin to the PhasePin interface.
type gpioPhase struct {
	pin gpio.PinIn
}

func (p gpioPhase) Read() bool {
	return p.pin.Read() == gpio.High
}

// Pins names the four encoder lines by their periph pin names.
type Pins struct {
	LeftA  string
	LeftB  string
	RightA string
	RightB string
}

// Attach configures the four encoder pins and starts one goroutine
// per wheel pumping rising edges on the A channels into a new
// Tracker. The goroutines run for the life of the process, like the
// interrupt handlers they stand in for.
func Attach(pins Pins) (*Tracker, error) {
	leftA, err := edgePin(pins.LeftA)
	if err != nil {
		return nil, fmt.Errorf("left encoder: %w", err)
	}
	rightA, err := edgePin(pins.RightA)
	if err != nil {
		return nil, fmt.Errorf("right encoder: %w", err)
	}
	leftB, err := levelPin(pins.LeftB)
	if err != nil {
		return nil, fmt.Errorf("left encoder: %w", err)
	}
	rightB, err := levelPin(pins.RightB)
	if err != nil {
		return nil, fmt.Errorf("right encoder: %w", err)
	}

	t := NewTracker(gpioPhase{leftB}, gpioPhase{rightB})

	go pump(leftA, t.LeftRise)
	go pump(rightA, t.RightRise)

	return t, nil
}

// pump blocks on edge detection and invokes the tracker callback for
// each rising edge. The callback must stay trivial: it runs between
// edges and anything slow here drops counts.
func pump(pin gpio.PinIn, rise func()) {
	for {
		if pin.WaitForEdge(-1) {
			rise()
		}
	}
}

func edgePin(name string) (gpio.PinIn, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("pin %q not found", name)
	}
	if err := pin.In(gpio.PullDown, gpio.RisingEdge); err != nil {
		return nil, fmt.Errorf("pin %q edge setup: %w", name, err)
	}
	return pin, nil
}

func levelPin(name string) (gpio.PinIn, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("pin %q not found", name)
	}
	if err := pin.In(gpio.PullDown, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("pin %q setup: %w", name, err)
	}
	return pin, nil
}
