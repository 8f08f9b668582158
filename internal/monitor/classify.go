package monitor

import (
	"time"

	"github.com/pingwatch/pingwatch/internal/config"
)

// Thresholds holds the latency bands used for severity classification
// and the independent deviation threshold used for logging. The band
// boundary and the deviation threshold default to the same value but
// are configured separately.
type Thresholds struct {
	ExcellentBelow time.Duration
	GoodUpTo       time.Duration
	Deviation      time.Duration
}

// DefaultThresholds returns the standard bands: below 40ms excellent,
// 40-60ms inclusive good, above 60ms bad, deviations at 60ms and up.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ExcellentBelow: 40 * time.Millisecond,
		GoodUpTo:       60 * time.Millisecond,
		Deviation:      60 * time.Millisecond,
	}
}

// ThresholdsFromConfig builds Thresholds from the millisecond values
// in the configuration file.
func ThresholdsFromConfig(cfg *config.Config) Thresholds {
	return Thresholds{
		ExcellentBelow: time.Duration(cfg.ExcellentBelowMs) * time.Millisecond,
		GoodUpTo:       time.Duration(cfg.GoodUpToMs) * time.Millisecond,
		Deviation:      time.Duration(cfg.DeviationThresholdMs) * time.Millisecond,
	}
}

// Classify maps a probe result into its severity band and deviation
// flag. It is a pure function: no state, no side effects.
//
// Any failure is SeverityBad. Successful probes band by latency:
// strictly below ExcellentBelow is excellent, up to and including
// GoodUpTo is good, everything above is bad. A result is a deviation
// when it failed or its latency reached the deviation threshold.
func Classify(result ProbeResult, thresholds Thresholds) ClassifiedResult {
	classified := ClassifiedResult{ProbeResult: result}

	if result.Outcome != OutcomeSuccess {
		classified.Severity = SeverityBad
		classified.IsDeviation = true
		return classified
	}

	switch {
	case result.Latency < thresholds.ExcellentBelow:
		classified.Severity = SeverityExcellent
	case result.Latency <= thresholds.GoodUpTo:
		classified.Severity = SeverityGood
	default:
		classified.Severity = SeverityBad
	}

	classified.IsDeviation = result.Latency >= thresholds.Deviation

	return classified
}
