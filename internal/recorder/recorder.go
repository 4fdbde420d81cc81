package recorder

import "time"

// CheckEvent holds the outcome of one monitor cycle.
type CheckEvent struct {
	Time     time.Time
	Pair     string
	Rate     float64
	Baseline float64
	Mode     string
	Alerted  bool
	Note     string // failure detail when the cycle degraded
}

// Recorder persists check history for later inspection.
type Recorder interface {
	RecordCheck(evt *CheckEvent) error
	Close() error
}
