package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/camview/internal/logtail"
)

const activityLines = 500

type activityMsg struct {
	entries []logtail.Entry
	err     error
}

// loadActivity reads the tail of the activity log.
func (m Model) loadActivity() tea.Cmd {
	path := m.logPath
	return func() tea.Msg {
		if path == "" {
			return activityMsg{}
		}
		entries, err := logtail.ReadEntries(path, activityLines)
		return activityMsg{entries: entries, err: err}
	}
}

func (m *Model) handleActivity(msg activityMsg) {
	if msg.err != nil {
		m.setStatus(statusError, "read activity log: "+msg.err.Error())
		return
	}
	m.entries = msg.entries
	m.activity.SetContent(m.formatActivity())
	m.activity.GotoBottom()
}

func (m Model) handleActivityKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.screen = screenMenu
		m.cursor = 7
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadActivity()
	}
	var cmd tea.Cmd
	m.activity, cmd = m.activity.Update(msg)
	return m, cmd
}

// formatActivity renders entries as "15:04:05 LEVEL message key=value".
func (m Model) formatActivity() string {
	if len(m.entries) == 0 {
		return m.theme.Styles().FaintText.Render("No activity recorded yet")
	}
	styles := m.theme.Styles()
	lines := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		var b strings.Builder
		if !e.Time.IsZero() {
			b.WriteString(styles.FaintText.Render(e.Time.Local().Format("15:04:05")))
			b.WriteString(" ")
		}
		if e.Level != "" {
			b.WriteString(m.levelStyle(e.Level).Render(padRight(strings.ToUpper(e.Level), 5)))
			b.WriteString(" ")
		}
		b.WriteString(styles.Text.Render(e.Message))
		for _, k := range e.FieldKeys() {
			b.WriteString(styles.MutedText.Render(" " + k + "=" + e.Fields[k]))
		}
		if e.Error != "" {
			b.WriteString(styles.DangerText.Render(" error=" + e.Error))
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

func (m Model) levelStyle(level string) lipgloss.Style {
	styles := m.theme.Styles()
	switch strings.ToLower(level) {
	case "error", "fatal", "panic":
		return styles.DangerText
	case "warn", "warning":
		return styles.WarningText
	case "debug", "trace":
		return styles.FaintText
	default:
		return styles.InfoText
	}
}

func (m Model) renderActivity() string {
	styles := m.theme.Styles()
	title := m.renderTitle("Activity Log")
	if m.logPath != "" {
		title += styles.FaintText.Render("  " + truncateMiddle(m.logPath, 50))
	}
	return title + "\n" + styles.Panel.Render(m.activity.View())
}
