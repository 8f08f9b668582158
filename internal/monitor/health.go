package monitor

import (
	"sync"
	"time"
)

// HealthState is the traffic-light indicator derived from the primary
// target's recent severity window.
type HealthState int

const (
	HealthUnknown HealthState = iota
	HealthGreen
	HealthRed
)

// String returns a human-readable state label
func (h HealthState) String() string {
	switch h {
	case HealthGreen:
		return "green"
	case HealthRed:
		return "red"
	default:
		return "unknown"
	}
}

// band collapses severities into the three classes the hysteresis
// rules reason about: green (excellent), yellow (good), bad
// (bad or any failure).
type band int

const (
	bandGreen band = iota
	bandYellow
	bandBad
)

func bandOf(result ClassifiedResult) band {
	if result.Outcome != OutcomeSuccess {
		return bandBad
	}
	switch result.Severity {
	case SeverityExcellent:
		return bandGreen
	case SeverityGood:
		return bandYellow
	default:
		return bandBad
	}
}

// HealthWindowSize returns the lookback window for the health
// indicator: ten seconds worth of rounds, capped at ten samples.
func HealthWindowSize(interval time.Duration) int {
	seconds := interval.Seconds()
	if seconds <= 0 {
		return 10
	}
	n := int(10.0 / seconds)
	if n > 10 {
		n = 10
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Aggregator derives a HealthState for the primary target from its
// stream of classified results, with hysteresis.
//
// The very first result decides the state on its own so the indicator
// reacts instantly at startup. Once a full window of samples exists,
// the state flips to red only when no sample in the window is green,
// flips to green only when no sample is bad, and otherwise holds:
// yellow samples never flip the state by themselves, and a window
// containing both green and bad samples freezes the indicator.
//
// Observe is called by the scheduler goroutine only (one round at a
// time decides); State may be read concurrently.
type Aggregator struct {
	mu     sync.RWMutex
	window *ring[band]
	state  HealthState
	seeded bool
}

// NewAggregator creates an aggregator with the given window size
func NewAggregator(windowSize int) *Aggregator {
	if windowSize < 1 {
		windowSize = 1
	}
	return &Aggregator{
		window: newRing[band](windowSize),
		state:  HealthUnknown,
	}
}

// Observe folds one classified result into the window and returns the
// resulting state and whether it changed. State transitions happen
// only here, at round boundaries.
func (a *Aggregator) Observe(result ClassifiedResult) (HealthState, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	sample := bandOf(result)
	a.window.push(sample)

	// Bootstrap: the first result alone decides
	if !a.seeded {
		a.seeded = true
		if sample == bandBad {
			a.state = HealthRed
		} else {
			a.state = HealthGreen
		}
		return a.state, true
	}

	// Hold until a full window has been seen
	if a.window.len() < a.window.cap() {
		return a.state, false
	}

	hasGreen := false
	hasBad := false
	for _, b := range a.window.values() {
		switch b {
		case bandGreen:
			hasGreen = true
		case bandBad:
			hasBad = true
		}
	}

	candidate := a.state
	switch {
	case !hasGreen:
		candidate = HealthRed
	case !hasBad:
		candidate = HealthGreen
	}
	// Mixed windows (both green and bad present) retain the previous
	// state rather than oscillate.

	if candidate == a.state {
		return a.state, false
	}

	a.state = candidate
	return a.state, true
}

// State returns the currently held health state
func (a *Aggregator) State() HealthState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}
