package telemetry

// Record is one control-loop tick's worth of measurements. The
// binary codec persists the absolute values (timestamp, positions,
// heading, vertical field); the CSV codec persists the per-tick
// deltas. The loop fills in both so either codec can serve.
type Record struct {
	Millis  uint32  `json:"millis"`  // clock milliseconds at the start of the tick
	Heading float64 `json:"heading"` // radians, in (-pi, pi]
	Z       int16   `json:"z"`       // vertical field component, for lift detection

	LeftPos  int32 `json:"left_pos"` // absolute step counts
	RightPos int32 `json:"right_pos"`

	HeadingDelta float64 `json:"heading_delta"` // wrapped change since the previous tick
	LeftDelta    int32   `json:"left_delta"`    // step deltas since the previous tick
	RightDelta   int32   `json:"right_delta"`
}
