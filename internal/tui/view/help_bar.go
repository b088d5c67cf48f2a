package view

import (
	"strings"

	"github.com/chemviz/chemviz/internal/tui/keymap"
	"github.com/chemviz/chemviz/internal/tui/styles"
)

// RenderHelpBar renders "key description" pairs separated by two spaces.
func RenderHelpBar(entries []keymap.HelpEntry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, styles.HelpKey.Render(e.Keys)+" "+e.Description)
	}
	return styles.HelpBar.Render(strings.Join(parts, "  "))
}
