package monitor

import (
	"sync"
	"time"

	"github.com/pingwatch/pingwatch/internal/config"
)

// Tracker maintains bounded rolling statistics per target: average,
// best and worst latency over the retained window plus a deviation
// counter that grows until reset. Safe for concurrent use; the
// scheduler writes once per round while presentation code reads at
// any time.
type Tracker struct {
	mu         sync.Mutex
	capacity   int
	targets    map[string]config.Target
	latencies  map[string]*ring[time.Duration]
	deviations map[string]int
}

// NewTracker creates a tracker retaining up to capacity latency
// samples per target.
func NewTracker(capacity int) *Tracker {
	return &Tracker{
		capacity:   capacity,
		targets:    make(map[string]config.Target),
		latencies:  make(map[string]*ring[time.Duration]),
		deviations: make(map[string]int),
	}
}

// Record folds one classified result into the target's statistics.
// Only successful probes contribute a latency sample; failures are
// counted solely through the deviation counter when they qualify.
func (t *Tracker) Record(result ClassifiedResult) {
	t.mu.Lock()
	defer t.mu.Unlock()

	name := result.Target.Name
	t.targets[name] = result.Target

	history, ok := t.latencies[name]
	if !ok {
		history = newRing[time.Duration](t.capacity)
		t.latencies[name] = history
	}

	if result.Outcome == OutcomeSuccess {
		history.push(result.Latency)
	}

	if result.IsDeviation {
		t.deviations[name]++
	}
}

// Stats returns the current statistics snapshot for a target. A
// target with no samples yet reports zeros.
func (t *Tracker) Stats(name string) Statistics {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.statsLocked(name)
}

func (t *Tracker) statsLocked(name string) Statistics {
	stats := Statistics{
		Target:     t.targets[name],
		Deviations: t.deviations[name],
	}

	history, ok := t.latencies[name]
	if !ok || history.len() == 0 {
		return stats
	}

	samples := history.values()
	stats.Samples = len(samples)
	stats.Best = samples[0]
	stats.Worst = samples[0]

	var total time.Duration
	for _, sample := range samples {
		total += sample
		if sample < stats.Best {
			stats.Best = sample
		}
		if sample > stats.Worst {
			stats.Worst = sample
		}
	}

	stats.Average = float64(total.Microseconds()) / float64(len(samples)) / 1000.0

	return stats
}

// Reset clears history and counters for one target without touching
// any other target.
func (t *Tracker) Reset(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if history, ok := t.latencies[name]; ok {
		history.clear()
	}
	t.deviations[name] = 0
}

// ResetAll clears history and counters for every tracked target
func (t *Tracker) ResetAll() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, history := range t.latencies {
		history.clear()
	}
	for name := range t.deviations {
		t.deviations[name] = 0
	}
}
