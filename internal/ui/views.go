package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderTitle renders a screen title line.
func (m Model) renderTitle(title string) string {
	return m.theme.Styles().Title.Render(title)
}

// renderMenu renders a numbered menu with the cursor row highlighted.
func (m Model) renderMenu(title, intro string, items []menuItem) string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(m.renderTitle(title))
	b.WriteString("\n")
	if intro != "" {
		b.WriteString(styles.MutedText.Render(intro))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, item := range items {
		line := padRight(item.key+". "+item.label, 36)
		if i == m.cursor {
			b.WriteString(styles.Selected.Render(" " + line))
		} else {
			b.WriteString(styles.AccentText.Render(" "+item.key+".") + styles.Text.Render(" "+item.label))
		}
		b.WriteString("\n")
	}
	return styles.Panel.Render(strings.TrimRight(b.String(), "\n"))
}

// renderForm renders the active form with the focused field outlined.
func (m Model) renderForm() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(m.renderTitle(m.form.title))
	b.WriteString("\n\n")
	for i, in := range m.form.inputs {
		label := styles.MutedText.Render(m.form.labels[i])
		if i == m.form.focus {
			label = styles.AccentText.Bold(true).Render(m.form.labels[i])
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}
	if m.busy {
		b.WriteString(styles.InfoText.Render(m.spinner.View() + " " + operationTitles[m.pendingOp()]))
	}
	return styles.FocusPanel.Render(strings.TrimRight(b.String(), "\n"))
}

// pendingOp maps the open form to the operation it starts.
func (m Model) pendingOp() operation {
	switch m.form.kind {
	case formSearch:
		return opSearch
	case formCamera:
		return opCamera
	case formImageURL:
		return opImageURL
	case formDownload:
		return opDownload
	case formRegister:
		return opRegister
	case formSetKey:
		return opSetKey
	default:
		return opSetURL
	}
}

// renderResult renders the scrollable response text.
func (m Model) renderResult() string {
	styles := m.theme.Styles()
	return m.renderTitle(m.resultTitle) + "\n" + styles.Panel.Render(m.result.View())
}

// wrapText soft-wraps text to width for a viewport.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}
