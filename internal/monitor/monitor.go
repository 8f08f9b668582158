package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pingwatch/pingwatch/internal/config"
)

// cleanupInterval is the cadence of deviation log retention sweeps,
// independent of the probe cadence.
const cleanupInterval = time.Hour

// Prober sends one echo to one address and reports the round-trip
// time. Implementations must honor the context deadline and normalize
// all failure modes into an error return; they never panic past this
// boundary (the scheduler still guards against it).
type Prober interface {
	Probe(ctx context.Context, address string) (time.Duration, error)
}

// DeviationSink receives adverse results for persistence and is swept
// periodically to enforce retention.
type DeviationSink interface {
	LogDeviation(result ClassifiedResult) error
	Cleanup() error
}

// Event is delivered to presentation consumers once per classified
// result, bundling the statistics snapshot taken right after the
// result was recorded.
type Event struct {
	Result ClassifiedResult
	Stats  Statistics
}

// HealthEvent is delivered when the primary target's health indicator
// changes state.
type HealthEvent struct {
	State HealthState
}

// Monitor orchestrates probe rounds for all targets: it dispatches one
// concurrent probe per target at a fixed cadence, collects the full
// round, classifies every result before any fan-out, and distributes
// results to the statistics tracker, the deviation sink, the health
// aggregator and any presentation consumers.
type Monitor struct {
	Config *config.Config

	prober     Prober
	thresholds Thresholds
	timeout    time.Duration
	interval   time.Duration
	primary    string

	stats        *Tracker
	health       *Aggregator
	devlog       DeviationSink
	cleanupEvery time.Duration

	events   chan Event
	healthCh chan HealthEvent
	errs     chan error
	done     chan struct{}
}

// NewMonitor creates a monitor for the configured targets
func NewMonitor(cfg *config.Config, prober Prober, devlog DeviationSink) (*Monitor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	interval := cfg.Interval()
	timeout := cfg.Timeout()

	return &Monitor{
		Config:     cfg,
		prober:     prober,
		thresholds: ThresholdsFromConfig(cfg),
		timeout:    timeout,
		interval:   interval,
		primary:    cfg.Primary().Name,
		stats:        NewTracker(cfg.HistoryCapacity()),
		health:       NewAggregator(HealthWindowSize(interval)),
		devlog:       devlog,
		cleanupEvery: cleanupInterval,
		events:     make(chan Event, len(cfg.Targets)*4),
		healthCh:   make(chan HealthEvent, 4),
		errs:       make(chan error, 8),
		done:       make(chan struct{}),
	}, nil
}

// Start runs the scheduler loop until the context is cancelled. An
// in-flight round is allowed to finish, bounded by the per-probe
// timeout, before Start returns.
func (m *Monitor) Start(ctx context.Context) {
	m.warmUp()

	var cleanup sync.WaitGroup
	cleanup.Add(1)
	go func() {
		defer cleanup.Done()
		m.runCleanup(ctx)
	}()

	// The cleanup goroutine reports sweep errors through m.errs, so it
	// must have exited before the channels close.
	defer func() {
		cleanup.Wait()
		close(m.events)
		close(m.healthCh)
		close(m.errs)
		close(m.done)
	}()

	// The ticker starts before the initial round so the cadence is
	// measured from dispatch start: a long first round eats into the
	// first interval instead of extending it. Rounds run inline in
	// this loop, so a round outlasting the interval defers the next
	// dispatch instead of stacking.
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.runRound(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.runRound(ctx)
		}
	}
}

// warmUp fires one discarded probe per target before the first real
// round, so connection and resolver setup cost is not counted as a
// deviation.
func (m *Monitor) warmUp() {
	var wg sync.WaitGroup
	for _, target := range m.Config.Targets {
		wg.Add(1)
		go func(t config.Target) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
			defer cancel()
			_, _ = m.prober.Probe(ctx, t.Address)
		}(target)
	}
	wg.Wait()
}

// runRound executes one full round: dispatch all probes concurrently,
// collect until every probe returned or timed out, classify the whole
// round, then fan out.
func (m *Monitor) runRound(ctx context.Context) {
	targets := m.Config.Targets
	results := make([]ProbeResult, len(targets))

	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, t config.Target) {
			defer wg.Done()
			results[i] = m.probeOne(t)
		}(i, target)
	}
	wg.Wait()

	classified := make([]ClassifiedResult, len(results))
	for i, result := range results {
		classified[i] = Classify(result, m.thresholds)
	}

	for _, result := range classified {
		m.fanOut(result)
	}
}

// probeOne runs a single bounded probe. Failures of any kind,
// including a panicking prober, degrade to a failed result for this
// target only so the rest of the round is unaffected.
func (m *Monitor) probeOne(target config.Target) (result ProbeResult) {
	result = ProbeResult{
		Target:    target,
		Timestamp: time.Now(),
	}

	defer func() {
		if r := recover(); r != nil {
			result.Outcome = OutcomeError
			result.Reason = fmt.Sprintf("probe panic: %v", r)
			result.Latency = 0
		}
	}()

	// The timeout derives from the background context so shutdown
	// does not hard-kill a probe mid-flight; the round stays bounded
	// by the per-probe timeout regardless.
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	latency, err := m.prober.Probe(ctx, target.Address)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) || isTimeout(err) {
			result.Outcome = OutcomeTimeout
		} else {
			result.Outcome = OutcomeError
			result.Reason = err.Error()
		}
		return result
	}

	result.Outcome = OutcomeSuccess
	result.Latency = latency
	return result
}

// isTimeout reports whether an error is a network timeout
func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	if errors.As(err, &te) {
		return te.Timeout()
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// fanOut distributes one classified result sequentially to its sinks:
// statistics, the deviation log when the result qualifies, the health
// aggregator when the target is primary, and the consumer event
// stream. Consumer sends never block the probe cadence.
func (m *Monitor) fanOut(result ClassifiedResult) {
	m.stats.Record(result)

	if result.IsDeviation {
		if err := m.devlog.LogDeviation(result); err != nil {
			m.reportError(fmt.Errorf("deviation log write failed: %w", err))
		}
	}

	if result.Target.Name == m.primary {
		if state, changed := m.health.Observe(result); changed {
			select {
			case m.healthCh <- HealthEvent{State: state}:
			default:
			}
		}
	}

	event := Event{
		Result: result,
		Stats:  m.stats.Stats(result.Target.Name),
	}
	select {
	case m.events <- event:
	default:
		// No consumer is draining; statistics and the deviation log
		// already have the result, so dropping the event is safe.
	}
}

// runCleanup sweeps the deviation log on its own schedule, decoupled
// from the probe cadence.
func (m *Monitor) runCleanup(ctx context.Context) {
	ticker := time.NewTicker(m.cleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.devlog.Cleanup(); err != nil {
				m.reportError(fmt.Errorf("deviation log cleanup failed: %w", err))
			}
		}
	}
}

// reportError surfaces an operator-visible error without ever
// blocking or aborting monitoring.
func (m *Monitor) reportError(err error) {
	select {
	case m.errs <- err:
	default:
	}
}

// Events returns the channel carrying per-result consumer events
func (m *Monitor) Events() <-chan Event {
	return m.events
}

// Health returns the channel carrying health state transitions
func (m *Monitor) Health() <-chan HealthEvent {
	return m.healthCh
}

// Errors returns the channel carrying operator-visible errors
func (m *Monitor) Errors() <-chan error {
	return m.errs
}

// Done returns a channel that's closed when monitoring stops
func (m *Monitor) Done() <-chan struct{} {
	return m.done
}

// CurrentHealth returns the health indicator as of the last completed
// round.
func (m *Monitor) CurrentHealth() HealthState {
	return m.health.State()
}

// Stats returns the current statistics snapshot for one target
func (m *Monitor) Stats(name string) Statistics {
	return m.stats.Stats(name)
}

// ResetStats clears statistics for one target
func (m *Monitor) ResetStats(name string) {
	m.stats.Reset(name)
}

// ResetAllStats clears statistics for every target
func (m *Monitor) ResetAllStats() {
	m.stats.ResetAll()
}
