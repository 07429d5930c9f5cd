package telemetry

import (
	"fmt"
	"io"

	"github.com/relabs-tech/controlbot/internal/config"
)

// Recorder serializes one Record per tick to a Sink and flushes after
// every write. Flushing this often costs throughput, but it bounds
// data loss on power failure to the in-flight record, and regular
// flushes keep the write latency even across ticks.
type Recorder struct {
	sink   Sink
	encode func(io.Writer, Record) error
}

// NewRecorder creates a Recorder using the codec named by mode
// (config.ModeBinary or config.ModeCSV).
func NewRecorder(sink Sink, mode string) (*Recorder, error) {
	var encode func(io.Writer, Record) error
	switch mode {
	case config.ModeBinary:
		encode = writeBinary
	case config.ModeCSV:
		encode = writeCSV
	default:
		return nil, fmt.Errorf("unknown telemetry mode %q", mode)
	}
	return &Recorder{sink: sink, encode: encode}, nil
}

// RecordTick writes and flushes one record. Errors are returned so
// the loop can report them; the earlier firmware dropped them on the
// floor, which made dead cards look like clean runs.
func (r *Recorder) RecordTick(rec Record) error {
	if err := r.encode(r.sink, rec); err != nil {
		return fmt.Errorf("telemetry write: %w", err)
	}
	if err := r.sink.Flush(); err != nil {
		return fmt.Errorf("telemetry flush: %w", err)
	}
	return nil
}

// Close closes the underlying sink.
func (r *Recorder) Close() error {
	return r.sink.Close()
}
