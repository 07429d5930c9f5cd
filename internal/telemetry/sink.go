package telemetry

import (
	"fmt"
	"io"
	"os"
)

// Sink is the durable byte stream telemetry lands in. Flush must not
// return until the bytes written so far are as durable as the medium
// allows; on power loss only the unflushed tail may go missing.
type Sink interface {
	io.Writer
	Flush() error
	Close() error
}

type fileSink struct {
	f *os.File
}

// NewFileSink opens (and truncates) the telemetry file. Each run
// overwrites the previous one; old logs are expected to have been
// copied off the card already.
func NewFileSink(path string) (Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open telemetry file %q: %w", path, err)
	}
	return &fileSink{f: f}, nil
}

func (s *fileSink) Write(p []byte) (int, error) {
	return s.f.Write(p)
}

func (s *fileSink) Flush() error {
	return s.f.Sync()
}

func (s *fileSink) Close() error {
	return s.f.Close()
}
