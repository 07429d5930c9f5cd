package clock

import (
	"time"
)

// Clock is the robot's time source: monotonic milliseconds since
// startup, matching the Arduino-style millis() the telemetry format
// records. Sleep goes through the clock so tests and the simulator
// can run the control loop without real delays.
type Clock interface {
	Now() uint32
	Sleep(d time.Duration)
}

type wall struct {
	start time.Time
}

// Wall returns a Clock backed by the real monotonic clock, with zero
// at the moment of the call.
func Wall() Clock {
	return &wall{start: time.Now()}
}

func (w *wall) Now() uint32 {
	return uint32(time.Since(w.start) / time.Millisecond)
}

func (w *wall) Sleep(d time.Duration) {
	time.Sleep(d)
}
