package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/pingwatch/pingwatch/internal/config"
	"github.com/pingwatch/pingwatch/internal/monitor"
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Window size applies everywhere, including while the form is
	// open; the message still falls through so the form can lay
	// itself out.
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLogview()
	}

	// Handle form updates if form is active
	if m.showForm {
		if msg, ok := msg.(tea.KeyMsg); ok {
			if msg.String() == "esc" {
				m.showForm = false
				m.form = nil
				return m, nil
			}
		}

		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}

		if m.form.State == huh.StateCompleted {
			m.addTarget()
			m.showForm = false
			m.form = nil
			return m, cmd
		}

		if m.form.State == huh.StateAborted {
			m.showForm = false
			m.form = nil
			return m, cmd
		}

		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			if m.monitorCancel != nil {
				m.monitorCancel()
			}
			return m, tea.Quit
		case "a":
			m.showForm = true
			m.initAddTargetForm()
			return m, m.form.Init()
		case "r":
			if name := m.getSelectedName(); name != "" {
				m.monitor.ResetStats(name)
				m.resetTargetState(name)
			}
		case "R":
			m.monitor.ResetAllStats()
			for i := range m.targets {
				m.resetTargetState(m.targets[i].Name)
			}
		case "left", "h", "up", "k", "shift+tab":
			m.moveSelection(-1)
		case "right", "l", "down", "j", "tab":
			m.moveSelection(1)
		}

	case eventMsg:
		m.applyEvent(monitor.Event(msg))
		return m, waitForEvent(m.monitor)

	case healthMsg:
		m.health = msg.State
		if m.notifier != nil {
			m.notifier.NotifyHealthChange(m.monitor.Config.Primary(), msg.State)
		}
		return m, waitForHealth(m.monitor)

	case errMsg:
		m.lastError = msg.err.Error()
		return m, waitForError(m.monitor)

	case tickMsg:
		m.lastUpdate = time.Time(msg)
		return m, doTick()
	}

	return m, nil
}

// initAddTargetForm initializes the form for adding a new target
func (m *Model) initAddTargetForm() {
	m.formData = &FormData{}
	m.formNote = ""
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Target Name").
				Value(&m.formData.Name),
			huh.NewInput().
				Title("Address (IP or hostname)").
				Value(&m.formData.Address),
		).Title("Add Target (Esc to cancel)"),
	).WithTheme(huh.ThemeCatppuccin()).WithWidth(60).WithShowHelp(true)
}

// addTarget persists a new target to the config. The running
// monitor's target list is fixed for the process lifetime, so the
// addition takes effect on the next launch.
func (m *Model) addTarget() {
	if m.formData.Name == "" || m.formData.Address == "" {
		m.formNote = "Name and address are both required"
		return
	}

	target := config.Target{
		Name:    m.formData.Name,
		Address: m.formData.Address,
	}

	if err := m.monitor.Config.AddTarget(target); err != nil {
		m.formNote = err.Error()
		return
	}

	if err := config.SaveConfig(m.monitor.Config); err != nil {
		m.formNote = fmt.Sprintf("Failed to save config: %v", err)
		return
	}

	m.formNote = fmt.Sprintf("Added '%s' - monitored from the next launch", target.Name)
}

// applyEvent folds one monitor event into the display state
func (m *Model) applyEvent(event monitor.Event) {
	name := event.Result.Target.Name

	idx := -1
	for i := range m.targets {
		if m.targets[i].Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		m.targets = append(m.targets, TargetState{
			Name:    name,
			Address: event.Result.Target.Address,
		})
		idx = len(m.targets) - 1
	}

	state := &m.targets[idx]
	state.Stats = event.Stats
	state.Last = event.Result
	state.HasResult = true

	line := formatResultLine(event.Result)
	state.Lines = append(state.Lines, line)
	if m.lineLimit > 0 && len(state.Lines) > m.lineLimit {
		state.Lines = state.Lines[len(state.Lines)-m.lineLimit:]
	}

	if idx == m.selectedIndex {
		m.refreshLogview()
	}
}

// formatResultLine renders one result the way the rolling log shows it
func formatResultLine(result monitor.ClassifiedResult) LogLine {
	timestamp := result.Timestamp.Format("15:04:05")

	switch result.Outcome {
	case monitor.OutcomeSuccess:
		return LogLine{
			Text:     fmt.Sprintf("[%s] %s: %dms", timestamp, result.Target.Name, result.Latency.Milliseconds()),
			Severity: result.Severity,
		}
	case monitor.OutcomeTimeout:
		return LogLine{
			Text:     fmt.Sprintf("[%s] %s: Request timeout", timestamp, result.Target.Name),
			Severity: monitor.SeverityBad,
			Failed:   true,
		}
	default:
		return LogLine{
			Text:     fmt.Sprintf("[%s] %s: Error - %s", timestamp, result.Target.Name, result.Reason),
			Severity: monitor.SeverityBad,
			Failed:   true,
		}
	}
}

// resetTargetState clears the display state for one target
func (m *Model) resetTargetState(name string) {
	for i := range m.targets {
		if m.targets[i].Name == name {
			m.targets[i].Stats = m.monitor.Stats(name)
			m.targets[i].Lines = nil
			if i == m.selectedIndex {
				m.refreshLogview()
			}
			return
		}
	}
}

// moveSelection moves the selected index with wrap-around
func (m *Model) moveSelection(delta int) {
	if len(m.targets) == 0 {
		return
	}
	m.selectedIndex = (m.selectedIndex + delta) % len(m.targets)
	if m.selectedIndex < 0 {
		m.selectedIndex += len(m.targets)
	}
	m.refreshLogview()
}

// getSelectedName returns the currently selected target name
func (m *Model) getSelectedName() string {
	if len(m.targets) == 0 {
		return ""
	}
	if m.selectedIndex >= len(m.targets) {
		m.selectedIndex = len(m.targets) - 1
	}
	return m.targets[m.selectedIndex].Name
}
