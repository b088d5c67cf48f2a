package msg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chemviz/chemviz/internal/analysis"
	"github.com/chemviz/chemviz/internal/chart"
	"github.com/chemviz/chemviz/internal/session"
)

// Workflow is the controller surface driven by the TUI.
type Workflow interface {
	SelectPath(path string) (session.SelectedFile, error)
	HandleUpload(ctx context.Context) error
	FetchHistory(ctx context.Context) error
	DownloadPDF(ctx context.Context, id analysis.EntryID) error
	LatestReport(ctx context.Context) error
}

// SelectFile returns a command that selects the file at path.
func SelectFile(w Workflow, path string) tea.Cmd {
	return func() tea.Msg {
		_, err := w.SelectPath(path)
		return OpDoneMsg{Op: OpSelect, Err: err}
	}
}

// Upload returns a command that uploads the selected file and refreshes
// the history.
func Upload(ctx context.Context, w Workflow) tea.Cmd {
	return func() tea.Msg {
		return OpDoneMsg{Op: OpUpload, Err: w.HandleUpload(ctx)}
	}
}

// FetchHistory returns a command that refreshes the upload history.
func FetchHistory(ctx context.Context, w Workflow) tea.Cmd {
	return func() tea.Msg {
		return OpDoneMsg{Op: OpHistory, Err: w.FetchHistory(ctx)}
	}
}

// OpenReport returns a command that launches the report of id.
func OpenReport(ctx context.Context, w Workflow, id analysis.EntryID) tea.Cmd {
	return func() tea.Msg {
		return OpDoneMsg{Op: OpReport, Err: w.DownloadPDF(ctx, id)}
	}
}

// LatestReport returns a command that launches the newest upload's report.
func LatestReport(ctx context.Context, w Workflow) tea.Cmd {
	return func() tea.Msg {
		return OpDoneMsg{Op: OpReport, Err: w.LatestReport(ctx)}
	}
}

// ExportChart returns a command that writes s as a PNG into dir.
func ExportChart(s *chart.Series, dir string, now time.Time) tea.Cmd {
	return func() tea.Msg {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return ChartExportedMsg{Err: fmt.Errorf("failed to create %s: %w", dir, err)}
		}
		path := filepath.Join(dir, ChartFileName(now))

		f, err := os.Create(path)
		if err != nil {
			return ChartExportedMsg{Err: err}
		}
		if err := chart.RenderPNG(s, f, chart.PNGOptions{}); err != nil {
			f.Close()
			_ = os.Remove(path)
			return ChartExportedMsg{Err: err}
		}
		if err := f.Close(); err != nil {
			return ChartExportedMsg{Err: err}
		}
		return ChartExportedMsg{Path: path}
	}
}

// ChartFileName names an exported chart after its export time.
func ChartFileName(t time.Time) string {
	return "equipment_chart_" + t.Format("20060102_150405") + ".png"
}
