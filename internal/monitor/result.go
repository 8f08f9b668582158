package monitor

import (
	"time"

	"github.com/pingwatch/pingwatch/internal/config"
)

// Outcome represents how a single probe ended
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeTimeout
	OutcomeError
)

// String returns a human-readable outcome label
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeTimeout:
		return "timeout"
	default:
		return "error"
	}
}

// ProbeResult is the raw result of one echo probe against one target.
// Latency is meaningful only when Outcome is OutcomeSuccess. A result
// is immutable once produced.
type ProbeResult struct {
	Target    config.Target
	Latency   time.Duration
	Timestamp time.Time
	Outcome   Outcome
	Reason    string // failure detail, set for OutcomeError
}

// Severity is the three-band classification of a probe result
type Severity int

const (
	SeverityExcellent Severity = iota
	SeverityGood
	SeverityBad
)

// String returns a human-readable severity label
func (s Severity) String() string {
	switch s {
	case SeverityExcellent:
		return "excellent"
	case SeverityGood:
		return "good"
	default:
		return "bad"
	}
}

// ClassifiedResult is a ProbeResult annotated with its severity band
// and whether it qualifies as a deviation worth logging.
type ClassifiedResult struct {
	ProbeResult
	Severity    Severity
	IsDeviation bool
}

// Statistics is a point-in-time summary of one target's recent samples.
// Average, Best and Worst cover successful latency samples only;
// failures count toward Deviations but never skew the numbers.
type Statistics struct {
	Target     config.Target
	Average    float64 // milliseconds
	Best       time.Duration
	Worst      time.Duration
	Samples    int
	Deviations int
}
