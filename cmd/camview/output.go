package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/five82/camview/internal/camera"
	"github.com/five82/camview/internal/geo"
	"github.com/five82/camview/internal/service"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#719cd6"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#738091")).Width(14)
	faintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#738091"))
)

// printer writes service results in the selected format.
type printer struct {
	w      io.Writer
	format string
}

func newPrinter(w io.Writer, format string) (printer, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "":
		format = formatText
	case formatText, formatJSON, formatYAML:
	default:
		return printer{}, fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
	return printer{w: w, format: format}, nil
}

// print writes res. A failed result is returned as an error; structured
// formats write the body first and return errReported.
func (p printer) print(title string, res service.Result) error {
	switch p.format {
	case formatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	case formatYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
	default:
		if !res.Success {
			return res.Err()
		}
		_, err := fmt.Fprintln(p.w, renderText(title, res.Data))
		return err
	}
	if !res.Success {
		return errReported
	}
	return nil
}

func renderText(title string, data any) string {
	body := textBody(data)
	if title == "" {
		return body
	}
	return titleStyle.Render(title) + "\n\n" + body
}

func textBody(data any) string {
	switch v := data.(type) {
	case nil:
		return faintStyle.Render("(none)")
	case string:
		return v
	case bool:
		if v {
			return "API key is valid"
		}
		return "API key is invalid or the server rejected it"
	case *camera.ToolResult:
		if !v.HasContent() {
			return faintStyle.Render("(empty response)")
		}
		parts := make([]string, 0, len(v.Content))
		for _, c := range v.Content {
			parts = append(parts, c.Text)
		}
		return strings.Join(parts, "\n\n")
	case service.ImageInfo:
		if v.URL == "" {
			return v.Text
		}
		return labelStyle.Render("Image URL") + v.URL + "\n\n" + v.Text
	case service.Settings:
		updated := "never"
		if !v.LastUpdated.IsZero() {
			updated = v.LastUpdated.Local().Format("2006-01-02 15:04:05")
		}
		return labelStyle.Render("API key") + v.APIKey + "\n" +
			labelStyle.Render("Key state") + v.KeyState + "\n" +
			labelStyle.Render("API URL") + v.APIURL + "\n" +
			labelStyle.Render("Saved") + updated
	case []geo.Location:
		if len(v) == 0 {
			return faintStyle.Render("No locations in this category")
		}
		lines := make([]string, 0, len(v))
		for _, loc := range v {
			lines = append(lines, fmt.Sprintf("%-28s %-13s %9.4f %10.4f %4d mi",
				loc.Name, loc.Category, loc.Lat, loc.Lng, loc.RadiusMiles))
		}
		return strings.Join(lines, "\n")
	default:
		return fmt.Sprint(v)
	}
}
