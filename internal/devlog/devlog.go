// Package devlog persists adverse probe results to a flat append-only
// text file and enforces a retention horizon on it.
package devlog

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pingwatch/pingwatch/internal/monitor"
)

// TimeLayout is the timestamp prefix format of every log line
const TimeLayout = "2006-01-02 15:04:05"

// DefaultRetention is how long entries are kept before cleanup
// removes them.
const DefaultRetention = 24 * time.Hour

// Logger appends deviation entries to a text file, one line per
// deviation:
//
//	2026-08-28 14:03:07 - google (8.8.8.8): 87ms
//	2026-08-28 14:05:31 - google (8.8.8.8): TIMEOUT
//
// The file is the sole persisted state; it has no index and is swept
// linearly during cleanup. Safe for concurrent use.
type Logger struct {
	mu        sync.Mutex
	path      string
	retention time.Duration
}

// New creates a logger writing to path with the default 24h retention
func New(path string) *Logger {
	return NewWithRetention(path, DefaultRetention)
}

// NewWithRetention creates a logger with an explicit retention horizon
func NewWithRetention(path string, retention time.Duration) *Logger {
	return &Logger{path: path, retention: retention}
}

// Path returns the log file path
func (l *Logger) Path() string {
	return l.path
}

// LogDeviation appends one entry for an adverse result. Failures are
// recorded as TIMEOUT; successful-but-slow probes record the latency.
func (l *Logger) LogDeviation(result monitor.ClassifiedResult) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	line := fmt.Sprintf("%s - %s (%s): %s\n",
		result.Timestamp.Format(TimeLayout),
		result.Target.Name,
		result.Target.Address,
		describeOutcome(result),
	)

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open deviation log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("append deviation: %w", err)
	}

	return nil
}

func describeOutcome(result monitor.ClassifiedResult) string {
	if result.Outcome != monitor.OutcomeSuccess {
		return "TIMEOUT"
	}
	return fmt.Sprintf("%dms", result.Latency.Milliseconds())
}

// Cleanup rewrites the file keeping only entries within the retention
// horizon. Lines whose timestamp cannot be parsed are conservatively
// kept. A missing or empty file is a no-op. The rewrite goes through
// a temp file and an atomic rename so an interrupted sweep never
// corrupts the log.
func (l *Logger) Cleanup() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read deviation log: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	cutoff := time.Now().Add(-l.retention)

	var kept strings.Builder
	for _, line := range strings.SplitAfter(string(data), "\n") {
		if line == "" {
			continue
		}
		when, ok := parseLineTime(line)
		if ok && !when.After(cutoff) {
			continue
		}
		kept.WriteString(line)
	}

	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(kept.String()), 0644); err != nil {
		return fmt.Errorf("write cleaned log: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace deviation log: %w", err)
	}

	return nil
}

// parseLineTime extracts the timestamp prefix of a log line
func parseLineTime(line string) (time.Time, bool) {
	idx := strings.Index(line, " - ")
	if idx < 0 {
		return time.Time{}, false
	}
	when, err := time.ParseInLocation(TimeLayout, line[:idx], time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return when, true
}

// RecentCount returns how many entries for the named target fall
// within the given window. A missing file counts as zero.
func (l *Logger) RecentCount(target string, window time.Duration) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("open deviation log: %w", err)
	}
	defer f.Close()

	cutoff := time.Now().Add(-window)
	marker := " - " + target + " ("

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, marker) {
			continue
		}
		when, ok := parseLineTime(line)
		if ok && when.After(cutoff) {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("scan deviation log: %w", err)
	}

	return count, nil
}

// Tail returns up to n of the most recent log lines, oldest first. A
// missing file yields no lines.
func (l *Logger) Tail(n int) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read deviation log: %w", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil, nil
	}
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}
