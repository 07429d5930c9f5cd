package telemetry

import (
	"fmt"
	"io"

	serial "github.com/jacobsa/go-serial/serial"
)

type serialSink struct {
	port io.ReadWriteCloser
}

// NewSerialSink streams telemetry out a UART instead of onto the
// card. Used on the bench: a laptop on the other end of the cable
// captures the stream while the robot runs without its SD card.
func NewSerialSink(portName string, baud int) (Sink, error) {
	opts := serial.OpenOptions{
		PortName:        portName,
		BaudRate:        uint(baud),
		DataBits:        8,
		StopBits:        1,
		ParityMode:      serial.PARITY_NONE,
		MinimumReadSize: 1,
	}

	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portName, err)
	}
	return &serialSink{port: port}, nil
}

func (s *serialSink) Write(p []byte) (int, error) {
	return s.port.Write(p)
}

// Flush is a no-op: the UART has no write-back buffer on our side,
// every Write goes straight out the wire.
func (s *serialSink) Flush() error {
	return nil
}

func (s *serialSink) Close() error {
	return s.port.Close()
}
