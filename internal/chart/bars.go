package chart

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	barGlyph     = "█"
	minBarSpace  = 4
	ellipsis     = "…"
	maxLabelFrac = 3 // labels take at most 1/maxLabelFrac of the width
)

var (
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#60A5FA"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9FAFB"))
	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
)

// RenderBars draws s as horizontal bars that fit in width terminal cells,
// one line per label, longest bar for the largest count. Zero counts get an
// empty bar; any positive count gets at least one cell.
func RenderBars(s *Series, width int) string {
	if s.Len() == 0 {
		return ""
	}

	labelW := 0
	for _, l := range s.Labels {
		if w := runewidth.StringWidth(l); w > labelW {
			labelW = w
		}
	}
	if limit := width / maxLabelFrac; labelW > limit {
		labelW = max(limit, 1)
	}

	countW := len(strconv.FormatInt(s.Max(), 10))
	barSpace := max(width-labelW-countW-2, minBarSpace)
	peak := s.Max()

	var b strings.Builder
	for i, label := range s.Labels {
		v := s.Values[i]

		cell := runewidth.Truncate(label, labelW, ellipsis)
		cell = runewidth.FillRight(cell, labelW)

		n := 0
		if peak > 0 && v > 0 {
			n = int((v*int64(barSpace) + peak/2) / peak)
			n = max(n, 1)
		}
		bar := strings.Repeat(barGlyph, n) + strings.Repeat(" ", barSpace-n)

		b.WriteString(labelStyle.Render(cell))
		b.WriteString(" ")
		b.WriteString(barStyle.Render(bar))
		b.WriteString(" ")
		b.WriteString(countStyle.Render(strconv.FormatInt(v, 10)))
		if i < len(s.Labels)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
