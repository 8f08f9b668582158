package monitor

import (
	"testing"
	"time"
)

func resultWithSeverity(severity Severity) ClassifiedResult {
	return ClassifiedResult{
		ProbeResult: ProbeResult{Outcome: OutcomeSuccess},
		Severity:    severity,
	}
}

func failedResult() ClassifiedResult {
	return ClassifiedResult{
		ProbeResult: ProbeResult{Outcome: OutcomeTimeout},
		Severity:    SeverityBad,
	}
}

func TestHealthWindowSize(t *testing.T) {
	tests := []struct {
		interval time.Duration
		want     int
	}{
		{1 * time.Second, 10},
		{2 * time.Second, 5},
		{500 * time.Millisecond, 10}, // capped
		{30 * time.Second, 1},        // floored
	}

	for _, tt := range tests {
		if got := HealthWindowSize(tt.interval); got != tt.want {
			t.Errorf("HealthWindowSize(%v) = %d, want %d", tt.interval, got, tt.want)
		}
	}
}

func TestBootstrapFirstResultDecides(t *testing.T) {
	a := NewAggregator(10)
	if a.State() != HealthUnknown {
		t.Fatalf("fresh aggregator state = %v, want unknown", a.State())
	}

	state, changed := a.Observe(failedResult())
	if state != HealthRed || !changed {
		t.Errorf("first failed result: state = %v changed = %v, want red/true", state, changed)
	}

	b := NewAggregator(10)
	state, changed = b.Observe(resultWithSeverity(SeverityGood))
	if state != HealthGreen || !changed {
		t.Errorf("first good result: state = %v changed = %v, want green/true", state, changed)
	}
}

func TestStateHoldsUntilFullWindow(t *testing.T) {
	a := NewAggregator(10)
	a.Observe(resultWithSeverity(SeverityExcellent)) // bootstrap -> green

	// Eight bad results follow, but the window is not full yet
	for i := 0; i < 8; i++ {
		state, changed := a.Observe(failedResult())
		if changed {
			t.Fatalf("state changed to %v with only %d samples", state, i+2)
		}
	}
	if a.State() != HealthGreen {
		t.Errorf("state = %v before a full window, want green", a.State())
	}
}

func TestAllBadWindowForcesRed(t *testing.T) {
	a := NewAggregator(10)
	a.Observe(resultWithSeverity(SeverityExcellent)) // bootstrap -> green

	var state HealthState
	for i := 0; i < 10; i++ {
		state, _ = a.Observe(failedResult())
	}
	if state != HealthRed {
		t.Errorf("state = %v after 10 consecutive failures, want red", state)
	}
}

func TestAllGreenWindowForcesGreen(t *testing.T) {
	a := NewAggregator(10)
	a.Observe(failedResult()) // bootstrap -> red

	var state HealthState
	for i := 0; i < 10; i++ {
		state, _ = a.Observe(resultWithSeverity(SeverityExcellent))
	}
	if state != HealthGreen {
		t.Errorf("state = %v after 10 excellent results, want green", state)
	}
}

func TestYellowNeverFlipsToGreenAlone(t *testing.T) {
	// An all-yellow window contains no green samples, so the "no
	// green anywhere" rule wins and the indicator goes red.
	a := NewAggregator(10)
	a.Observe(resultWithSeverity(SeverityExcellent)) // bootstrap -> green

	var state HealthState
	for i := 0; i < 10; i++ {
		state, _ = a.Observe(resultWithSeverity(SeverityGood))
	}
	if state != HealthRed {
		t.Errorf("state = %v after an all-yellow window, want red", state)
	}
}

func TestYellowAndGreenWindowIsGreen(t *testing.T) {
	a := NewAggregator(10)
	a.Observe(failedResult()) // bootstrap -> red

	var state HealthState
	for i := 0; i < 10; i++ {
		severity := SeverityGood
		if i%2 == 0 {
			severity = SeverityExcellent
		}
		state, _ = a.Observe(resultWithSeverity(severity))
	}
	if state != HealthGreen {
		t.Errorf("state = %v for a yellow+green window, want green", state)
	}
}

func TestMixedWindowRetainsPreviousState(t *testing.T) {
	// A window holding both green and bad samples freezes the
	// indicator at whatever it was before the window formed.
	a := NewAggregator(10)
	a.Observe(resultWithSeverity(SeverityExcellent)) // bootstrap -> green

	for i := 0; i < 20; i++ {
		var state HealthState
		var changed bool
		if i%2 == 0 {
			state, changed = a.Observe(failedResult())
		} else {
			state, changed = a.Observe(resultWithSeverity(SeverityExcellent))
		}
		if changed {
			t.Fatalf("mixed window flipped state to %v at sample %d", state, i)
		}
	}
	if a.State() != HealthGreen {
		t.Errorf("state = %v after mixed windows, want green (retained)", a.State())
	}

	// Same mixture starting from red stays red
	b := NewAggregator(10)
	b.Observe(failedResult()) // bootstrap -> red
	for i := 0; i < 20; i++ {
		if i%2 == 0 {
			b.Observe(resultWithSeverity(SeverityExcellent))
		} else {
			b.Observe(failedResult())
		}
	}
	if b.State() != HealthRed {
		t.Errorf("state = %v after mixed windows, want red (retained)", b.State())
	}
}

func TestChangeEventOnlyOnTransition(t *testing.T) {
	a := NewAggregator(5)
	a.Observe(resultWithSeverity(SeverityExcellent)) // bootstrap -> green

	transitions := 0
	for i := 0; i < 15; i++ {
		if _, changed := a.Observe(failedResult()); changed {
			transitions++
		}
	}
	if transitions != 1 {
		t.Errorf("got %d transitions for a sustained failure run, want exactly 1", transitions)
	}
}
