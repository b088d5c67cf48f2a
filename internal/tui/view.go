package tui

import (
	"strings"

	"github.com/chemviz/chemviz/internal/tui/keymap"
	"github.com/chemviz/chemviz/internal/tui/view"
	"github.com/chemviz/chemviz/internal/util"
)

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(view.RenderHeader(m.opts.BaseURL, m.width))
	b.WriteString("\n")
	b.WriteString(util.TruncateANSI(view.RenderFileLine(m.snap, m.opts.FilePattern), m.width))
	b.WriteString("\n")
	if m.mode == keymap.ModeInput {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	if banner := view.RenderErrorBanner(m.snap.Error); banner != "" {
		b.WriteString(util.TruncateANSI(banner, m.width))
		b.WriteString("\n")
	}
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	// Chrome lines must not wrap or the viewport height is off.
	b.WriteString(util.TruncateANSI(view.RenderStatus(m.snap.Phase, m.spinner.View(), m.notice), m.width))
	b.WriteString("\n")
	b.WriteString(view.RenderHelpBar(m.keymap.Help(m.mode)))
	return b.String()
}
