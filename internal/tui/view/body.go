package view

import (
	"fmt"
	"strings"

	"github.com/chemviz/chemviz/internal/analysis"
	"github.com/chemviz/chemviz/internal/chart"
	"github.com/chemviz/chemviz/internal/session"
	"github.com/chemviz/chemviz/internal/tui/styles"
)

// BodyOptions controls the scrollable part of the dashboard.
type BodyOptions struct {
	ChartWidth int
	Cursor     int // selected history entry
}

// RenderBody renders the chart, the latest result and, when shown, the
// history list.
func RenderBody(snap session.Snapshot, opts BodyOptions) string {
	var history string
	if snap.ShowHistory {
		history = RenderHistory(snap.History, opts.Cursor)
	}
	return JoinSections(
		RenderChart(snap.Chart, opts.ChartWidth),
		RenderSummary(snap.Result),
		history,
	)
}

// RenderChart renders the distribution chart, or "" without a series.
func RenderChart(s *chart.Series, width int) string {
	if s == nil {
		return ""
	}
	title := styles.SectionTitle.Render(chart.Title)
	if s.Len() == 0 {
		return title + "\n" + styles.Muted.Render("No equipment types reported")
	}
	total := styles.Muted.Render(fmt.Sprintf("%d items across %d types", s.Total(), s.Len()))
	return title + "\n" + chart.RenderBars(s, width) + "\n" + total
}

// RenderSummary renders the summary card and the full result as indented
// JSON in response key order, or "" without a result.
func RenderSummary(r *analysis.Result) string {
	if r == nil {
		return ""
	}

	var rows []string
	if n, ok := r.TotalEquipment(); ok {
		rows = append(rows, summaryRow("Total equipment", fmt.Sprintf("%d", n)))
	}
	for _, f := range []struct {
		label string
		get   func() (float64, bool)
	}{
		{"Avg flowrate", r.AvgFlowrate},
		{"Avg pressure", r.AvgPressure},
		{"Avg temperature", r.AvgTemperature},
	} {
		if v, ok := f.get(); ok {
			rows = append(rows, summaryRow(f.label, fmt.Sprintf("%.2f", v)))
		}
	}

	var b strings.Builder
	b.WriteString(styles.SectionTitle.Render("Summary"))
	if len(rows) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.ContentBox.Render(strings.Join(rows, "\n")))
	}
	b.WriteString("\n")
	b.WriteString(r.Indent("", "  "))
	return b.String()
}

func summaryRow(label, value string) string {
	return styles.SummaryLabel.Render(label) + styles.SummaryValue.Render(value)
}

// RenderHistory renders the upload history with the entry at cursor
// highlighted.
func RenderHistory(entries []analysis.HistoryEntry, cursor int) string {
	title := styles.SectionTitle.Render(fmt.Sprintf("Upload History (%d)", len(entries)))
	if len(entries) == 0 {
		return title + "\n" + styles.Muted.Render("No uploads yet")
	}

	items := make([]string, len(entries))
	for i, e := range entries {
		items[i] = renderHistoryEntry(e, i == cursor)
	}
	return title + "\n" + strings.Join(items, "\n")
}

func renderHistoryEntry(e analysis.HistoryEntry, active bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ID: %s\nUploaded at: %s", e.ID.String(), e.UploadedAt.Local())
	if e.Summary != nil {
		b.WriteString("\n")
		b.WriteString(e.Summary.Indent("", "  "))
	}
	if active {
		b.WriteString("\n")
		b.WriteString(styles.HelpKey.Render("r") + " Download PDF")
		return styles.HistoryItemActive.Render(b.String())
	}
	return styles.HistoryItem.Render(b.String())
}
