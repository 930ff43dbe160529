package ui

import (
	"strings"

	"github.com/five82/camview/internal/camera"
	"github.com/five82/camview/internal/service"
)

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// truncateMiddle keeps both ends of a long value, which suits paths and URLs.
func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || value == "" {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	keep := limit - 1
	endLen := keep * 2 / 3
	startLen := keep - endLen
	return string(runes[:startLen]) + "…" + string(runes[len(runes)-endLen:])
}

// padRight pads a string with spaces to the given width.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(r))
}

// maxInt returns the larger of two integers.
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// resultText renders a service payload as display text.
func resultText(data any) string {
	switch v := data.(type) {
	case nil:
		return ""
	case *camera.ToolResult:
		if !v.HasContent() {
			return "(empty response)"
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
		return "Image URL: " + v.URL + "\n\n" + v.Text
	case string:
		return v
	default:
		return ""
	}
}
