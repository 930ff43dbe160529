package ui

import (
	"net/url"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/camview/internal/service"
)

// renderHeader renders the status bar: logo, key state, endpoint, activity.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	snap := m.snapshot()

	parts := []string{
		bg.Render("camview", styles.Logo),
		styles.StatusStyle(snap.KeyState.String()).Render("KEY " + strings.ToUpper(snap.KeyState.String())),
	}

	if host := endpointHost(m.settings().APIURL); host != "" {
		parts = append(parts, bg.Render(host, styles.MutedText))
	}

	switch {
	case m.busy:
		label := operationLabel(snap.CurrentOperation)
		parts = append(parts, bg.Render(m.spinner.View()+" "+label, styles.InfoText))
	case snap.IsOffline():
		parts = append(parts, styles.StatusStyle("error").Render(classifyError(snap.LastError)))
	case !snap.LastUpdated.IsZero():
		parts = append(parts, bg.Render("last "+snap.LastOperation+" "+snap.LastUpdated.Format("15:04:05"), styles.FaintText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(bg.Join(parts, "  "))
}

func (m Model) settings() service.Settings {
	if m.svc == nil {
		return service.Settings{}
	}
	settings, _ := m.svc.Settings().Data.(service.Settings)
	return settings
}

// endpointHost shortens the API URL to its host for the header.
func endpointHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return truncateMiddle(raw, 40)
	}
	return u.Host
}

func operationLabel(op string) string {
	if op == "" {
		return "Working..."
	}
	return strings.ReplaceAll(op, "-", " ") + "..."
}

// classifyError returns a short description of the last failure.
func classifyError(err error) string {
	if err == nil {
		return "ERROR"
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "cannot connect"):
		return "OFFLINE"
	case strings.Contains(msg, "HTTP 401"), strings.Contains(msg, "HTTP 403"):
		return "UNAUTHORIZED"
	case strings.Contains(msg, "deadline exceeded"), strings.Contains(msg, "Timeout"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the key hints for the current screen.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.screen {
	case screenForm:
		commands = []cmd{{"enter", "Next/Submit"}, {"tab", "Field"}, {"esc", "Cancel"}}
	case screenResult:
		commands = []cmd{{"j/k", "Scroll"}, {"esc", "Back"}}
	case screenLocations:
		commands = []cmd{{"j/k", "Navigate"}, {"enter", "Use in search"}, {"f", m.category}, {"esc", "Back"}}
	case screenSettings:
		commands = []cmd{{"k", "Key"}, {"u", "URL"}, {"r", "Register"}, {"v", "Validate"}, {"esc", "Back"}}
	case screenActivity:
		commands = []cmd{{"j/k", "Scroll"}, {"r", "Reload"}, {"esc", "Back"}}
	default:
		commands = []cmd{{"1-8", "Choose"}, {"j/k", "Navigate"}, {"enter", "Select"}, {"q", "Quit"}}
	}
	if m.screen != screenForm {
		commands = append(commands, cmd{"?", "Help"})
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(bg.Join(segments, "  "))
}

// renderStatusLine shows the last message, colored by outcome.
func (m Model) renderStatusLine() string {
	styles := m.theme.Styles()
	if m.status == "" {
		return styles.FaintText.Render(" ")
	}
	style := styles.InfoText
	switch m.statusKind {
	case statusSuccess:
		style = styles.SuccessText
	case statusError:
		style = styles.DangerText
	}
	return style.Render(truncate(m.status, maxInt(10, m.width-2)))
}
