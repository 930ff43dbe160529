package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/camview/internal/geo"
)

func (m Model) visibleLocations() []geo.Location {
	if m.svc == nil {
		return geo.ByCategory(m.category)
	}
	locs, _ := m.svc.Locations(m.category).Data.([]geo.Location)
	return locs
}

// handleLocationsKey moves through the list, cycles the category filter and
// hands the selected location to the search form.
func (m Model) handleLocationsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	locs := m.visibleLocations()

	switch {
	case key.Matches(msg, m.keys.Back):
		m.screen = screenMenu
		m.cursor = 4
		return m, nil
	case key.Matches(msg, m.keys.CycleCategory):
		m.category = geo.NextCategory(m.category)
		m.cursor = 0
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(locs)-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Select):
		if len(locs) == 0 {
			return m, nil
		}
		loc := locs[m.cursor]
		next, cmd := m.openForm(formSearch, screenLocations)
		model := next.(Model)
		model.form.prefillLocation(loc)
		model.setStatus(statusInfo, fmt.Sprintf("Using %s. Press enter to search.", loc.Name))
		return model, cmd
	}
	return m, nil
}

func (m Model) renderLocations() string {
	styles := m.theme.Styles()
	locs := m.visibleLocations()

	var b strings.Builder
	b.WriteString(m.renderTitle("Popular Locations"))
	b.WriteString(styles.MutedText.Render("  category: "))
	b.WriteString(styles.AccentText.Render(m.category))
	b.WriteString("\n\n")

	if len(locs) == 0 {
		b.WriteString(styles.FaintText.Render("No locations in this category"))
		return styles.Panel.Render(b.String())
	}

	for i, loc := range locs {
		line := fmt.Sprintf("%s  %s  (%.4f, %.4f)  %d mi",
			padRight(truncate(loc.Name, 32), 32),
			padRight(loc.Category, 13),
			loc.Lat, loc.Lng, loc.RadiusMiles)
		if i == m.cursor {
			b.WriteString(styles.Selected.Render(line))
			b.WriteString("\n")
			b.WriteString(styles.MutedText.Render("  " + loc.Description))
		} else {
			b.WriteString(styles.Text.Render(line))
		}
		b.WriteString("\n")
	}
	return styles.Panel.Render(strings.TrimRight(b.String(), "\n"))
}
