package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/pingwatch/pingwatch/internal/monitor"
)

var (
	colorAccent    = lipgloss.Color("#04D9FF") // Neon Cyan
	colorExcellent = lipgloss.Color("#00FF94") // Neon Green
	colorGood      = lipgloss.Color("#FFD700") // Gold
	colorBad       = lipgloss.Color("#FF0055") // Neon Red
	colorMuted     = lipgloss.Color("#565f89") // Muted Blue
	colorCard      = lipgloss.Color("#16161e") // Very Dark Blue
	colorText      = lipgloss.Color("#c0caf5") // Light Blue/White

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	excellentStyle = lipgloss.NewStyle().
			Foreground(colorExcellent)

	goodStyle = lipgloss.NewStyle().
			Foreground(colorGood)

	badStyle = lipgloss.NewStyle().
			Foreground(colorBad)

	healthGreenStyle = lipgloss.NewStyle().
				Foreground(colorExcellent).
				Bold(true)

	healthRedStyle = lipgloss.NewStyle().
			Foreground(colorBad).
			Bold(true)

	healthUnknownStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Bold(true)

	baseCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Background(colorCard).
			Padding(0, 1).
			MarginRight(1)

	targetNameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText)

	metadataStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorBad)

	logPaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
)

const logviewHeight = 12

// View renders the TUI: health header, target cards, rolling log
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	// Render form if active
	if m.showForm {
		return lipgloss.Place(
			m.width,
			m.height,
			lipgloss.Center,
			lipgloss.Center,
			lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorAccent).
				Padding(1, 2).
				Render(m.form.View()),
		)
	}

	width := m.width
	if width < 40 {
		width = 80
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderCards(width))
	b.WriteString("\n")
	b.WriteString(m.renderLog(width))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader shows the title and the traffic-light indicator for
// the primary target.
func (m Model) renderHeader() string {
	primary := m.monitor.Config.Primary()

	var glyph string
	switch m.health {
	case monitor.HealthGreen:
		glyph = healthGreenStyle.Render("● online")
	case monitor.HealthRed:
		glyph = healthRedStyle.Render("● degraded")
	default:
		glyph = healthUnknownStyle.Render("● waiting")
	}

	title := titleStyle.Render("Pingwatch")
	primaryInfo := metadataStyle.Render(fmt.Sprintf("primary: %s (%s)", primary.Name, primary.Address))

	return fmt.Sprintf("%s  %s  %s", title, glyph, primaryInfo)
}

// renderCards lays out one statistics card per target
func (m Model) renderCards(width int) string {
	if len(m.targets) == 0 {
		return metadataStyle.Render("No targets configured.")
	}

	cardWidth := (width-2)/len(m.targets) - 3
	if cardWidth < 22 {
		cardWidth = 22
	}

	cards := make([]string, 0, len(m.targets))
	for i, target := range m.targets {
		cards = append(cards, m.renderCard(target, i == m.selectedIndex, cardWidth))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// renderCard renders one target's statistics card
func (m Model) renderCard(target TargetState, selected bool, width int) string {
	style := baseCardStyle.Width(width)
	if selected {
		style = style.BorderForeground(colorAccent)
	} else {
		style = style.BorderForeground(colorMuted)
	}

	var b strings.Builder

	b.WriteString(targetNameStyle.Render(target.Name))
	b.WriteString("\n")
	b.WriteString(metadataStyle.Render(target.Address))
	b.WriteString("\n")

	if target.HasResult {
		b.WriteString(renderLastResult(target.Last))
	} else {
		b.WriteString(metadataStyle.Render("waiting..."))
	}
	b.WriteString("\n")

	stats := target.Stats
	if stats.Samples > 0 {
		b.WriteString(fmt.Sprintf("avg %.1fms  best %dms  worst %dms",
			stats.Average, stats.Best.Milliseconds(), stats.Worst.Milliseconds()))
	} else {
		b.WriteString(metadataStyle.Render("no samples yet"))
	}
	b.WriteString("\n")
	b.WriteString(metadataStyle.Render(fmt.Sprintf("deviations: %d", stats.Deviations)))

	return style.Render(b.String())
}

// renderLastResult colors the most recent result by its severity
func renderLastResult(result monitor.ClassifiedResult) string {
	switch result.Outcome {
	case monitor.OutcomeSuccess:
		text := fmt.Sprintf("%dms", result.Latency.Milliseconds())
		return severityStyle(result.Severity).Render(text)
	case monitor.OutcomeTimeout:
		return badStyle.Render("timeout")
	default:
		return badStyle.Render("error")
	}
}

func severityStyle(severity monitor.Severity) lipgloss.Style {
	switch severity {
	case monitor.SeverityExcellent:
		return excellentStyle
	case monitor.SeverityGood:
		return goodStyle
	default:
		return badStyle
	}
}

// renderLog shows the rolling result log for the selected target
func (m Model) renderLog(width int) string {
	name := m.getSelectedName()
	header := metadataStyle.Render(fmt.Sprintf("─ log: %s ", name))

	if !m.logReady {
		return header + "\n" + metadataStyle.Render("waiting for results...")
	}

	return header + "\n" + logPaneStyle.Width(width-4).Render(m.logview.View())
}

// renderFooter shows key help and the most recent operator error
func (m Model) renderFooter() string {
	help := metadataStyle.Render("←/→ select · r reset · R reset all · a add target · q quit")
	if m.formNote != "" {
		help += "\n" + metadataStyle.Render(m.formNote)
	}
	if m.lastError != "" {
		help += "\n" + errorStyle.Render("! "+m.lastError)
	}
	return help
}

// refreshLogview rebuilds the viewport content from the selected
// target's lines and pins the view to the newest entry.
func (m *Model) refreshLogview() {
	if !m.logReady {
		if m.width == 0 {
			return
		}
		m.logview = newLogview(m.width)
		m.logReady = true
	}

	if len(m.targets) == 0 {
		m.logview.SetContent("")
		return
	}

	target := m.targets[m.selectedIndex]
	lines := make([]string, 0, len(target.Lines))
	for _, line := range target.Lines {
		if line.Failed {
			lines = append(lines, badStyle.Render(line.Text))
		} else {
			lines = append(lines, severityStyle(line.Severity).Render(line.Text))
		}
	}

	m.logview.SetContent(strings.Join(lines, "\n"))
	m.logview.GotoBottom()
}

// resizeLogview adapts the viewport to the window size
func (m *Model) resizeLogview() {
	if m.width == 0 {
		return
	}
	if !m.logReady {
		m.logview = newLogview(m.width)
		m.logReady = true
		m.refreshLogview()
		return
	}
	m.logview.Width = m.width - 6
	m.logview.Height = logviewHeight
	m.refreshLogview()
}

func newLogview(width int) viewport.Model {
	return viewport.New(width-6, logviewHeight)
}
