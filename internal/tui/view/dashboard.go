package view

import (
	"fmt"
	"strings"

	"github.com/chemviz/chemviz/internal/session"
	"github.com/chemviz/chemviz/internal/tui/styles"
)

// AppTitle is the heading shown at the top of the dashboard.
const AppTitle = "Chemical Equipment Parameter Visualizer"

// RenderHeader renders the title line with the service address.
func RenderHeader(baseURL string, width int) string {
	title := AppTitle
	if baseURL != "" {
		title += styles.Muted.Render("  " + baseURL)
	}
	s := styles.Header
	if width > 0 {
		s = s.Width(width)
	}
	return s.Render(title)
}

// RenderFileLine describes the current selection.
func RenderFileLine(snap session.Snapshot, pattern string) string {
	if !snap.HasFile() {
		hint := "No file selected"
		if pattern != "" {
			hint += " (" + pattern + ")"
		}
		return styles.Muted.Render(hint)
	}
	return "File: " + styles.Text.Bold(true).Render(snap.File.Name) +
		styles.Muted.Render(" "+FormatSize(snap.File.Size))
}

// RenderErrorBanner renders msg, or "" when there is no error.
func RenderErrorBanner(msg string) string {
	if msg == "" {
		return ""
	}
	return styles.ErrorBanner.Render(msg)
}

// RenderStatus renders the phase indicator and an optional notice. spin is
// the spinner frame shown while a request is in flight.
func RenderStatus(phase session.Phase, spin, notice string) string {
	label := phase.String()
	if phase.Busy() {
		label = spin + " " + label + "…"
	}
	out := styles.StatusBar.Foreground(styles.PhaseColor(phase.String())).Render(label)
	if notice != "" {
		out += " " + notice
	}
	return out
}

// FormatSize renders a byte count for humans.
func FormatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("(%d B)", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("(%.1f %cB)", float64(n)/float64(div), "KMGTPE"[exp])
}

// JoinSections joins the non-empty sections with a blank line.
func JoinSections(sections ...string) string {
	kept := sections[:0:0]
	for _, s := range sections {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, "\n\n")
}
