// Package util provides terminal text helpers shared by the dashboard views.
package util

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Ellipsis marks truncated text.
const Ellipsis = "…"

// TruncateANSI truncates s to maxWidth terminal columns, ending with an
// ellipsis when it was cut. ANSI styling and wide characters are handled,
// so it is safe on rendered lipgloss output.
func TruncateANSI(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	if maxWidth == 1 {
		return Ellipsis
	}
	return ansi.Truncate(s, maxWidth, Ellipsis)
}

// ClampLines applies TruncateANSI to every line of s.
func ClampLines(s string, maxWidth int) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = TruncateANSI(line, maxWidth)
	}
	return strings.Join(lines, "\n")
}
