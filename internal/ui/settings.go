package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.screen = screenMenu
		m.cursor = 6
		return m, nil
	case key.Matches(msg, m.keys.ChangeKey):
		return m.openForm(formSetKey, screenSettings)
	case key.Matches(msg, m.keys.ChangeURL):
		return m.openForm(formSetURL, screenSettings)
	case key.Matches(msg, m.keys.Register):
		return m.openForm(formRegister, screenSettings)
	case key.Matches(msg, m.keys.Validate):
		m.busy = true
		m.clearStatus()
		return m, tea.Batch(m.spinner.Tick, m.runValidate())
	}
	return m, nil
}

func (m Model) renderSettings() string {
	styles := m.theme.Styles()
	settings := m.settings()

	label := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Muted)).Width(14)
	row := func(name, value string) string {
		return label.Render(name) + styles.Text.Render(value) + "\n"
	}

	updated := "never"
	if !settings.LastUpdated.IsZero() {
		updated = settings.LastUpdated.Local().Format("2006-01-02 15:04:05")
	}

	body := m.renderTitle("Settings") + "\n\n" +
		row("API key", settings.APIKey) +
		row("Key state", settings.KeyState) +
		row("API URL", settings.APIURL) +
		row("Saved", updated) +
		row("Config file", truncateMiddle(m.configPath, 60)) +
		row("Theme", m.theme.Name) +
		row("Timeout", m.prefs.Timeout().String())
	return styles.Panel.Render(body)
}
