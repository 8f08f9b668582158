package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/pingwatch/pingwatch/internal/monitor"
	"github.com/pingwatch/pingwatch/internal/notify"
)

// Model represents the TUI application state
type Model struct {
	targets       []TargetState
	health        monitor.HealthState
	width         int
	height        int
	lastUpdate    time.Time
	lastError     string
	quitting      bool
	monitor       *monitor.Monitor
	monitorCancel func()
	notifier      *notify.Notifier
	selectedIndex int
	lineLimit     int

	logview  viewport.Model
	logReady bool

	// Form state
	form     *huh.Form
	showForm bool
	formData *FormData
	formNote string
}

// FormData holds the data for the add target form
type FormData struct {
	Name    string
	Address string
}

// TargetState tracks the current state of a monitored target
type TargetState struct {
	Name      string
	Address   string
	Stats     monitor.Statistics
	Last      monitor.ClassifiedResult
	HasResult bool
	Lines     []LogLine
}

// LogLine is one formatted result line with its severity for coloring
type LogLine struct {
	Text     string
	Severity monitor.Severity
	Failed   bool
}

// NewModel creates a new TUI model. Target cards render immediately
// from the config; results fill in as rounds complete.
func NewModel(m *monitor.Monitor, n *notify.Notifier, cancel func()) Model {
	targets := make([]TargetState, 0, len(m.Config.Targets))
	for _, t := range m.Config.Targets {
		targets = append(targets, TargetState{
			Name:    t.Name,
			Address: t.Address,
		})
	}

	return Model{
		targets:       targets,
		health:        monitor.HealthUnknown,
		monitor:       m,
		monitorCancel: cancel,
		notifier:      n,
		lastUpdate:    time.Now(),
		lineLimit:     m.Config.HistoryCapacity(),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForEvent(m.monitor),
		waitForHealth(m.monitor),
		waitForError(m.monitor),
		tea.EnterAltScreen,
		doTick(),
	)
}

// eventMsg wraps a monitor event for Bubble Tea
type eventMsg monitor.Event

// healthMsg wraps a health transition for Bubble Tea
type healthMsg monitor.HealthEvent

// errMsg wraps an operator-visible error for Bubble Tea
type errMsg struct{ err error }

// waitForEvent listens for per-result monitor events
func waitForEvent(mon *monitor.Monitor) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-mon.Events()
		if !ok {
			return nil
		}
		return eventMsg(event)
	}
}

// waitForHealth listens for health indicator transitions
func waitForHealth(mon *monitor.Monitor) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-mon.Health()
		if !ok {
			return nil
		}
		return healthMsg(event)
	}
}

// waitForError listens for operator-visible errors
func waitForError(mon *monitor.Monitor) tea.Cmd {
	return func() tea.Msg {
		err, ok := <-mon.Errors()
		if !ok {
			return nil
		}
		return errMsg{err: err}
	}
}

// tickMsg is sent on every tick
type tickMsg time.Time

// doTick returns a command that waits for the next tick
func doTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
