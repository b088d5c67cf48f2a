package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/chemviz/chemviz/internal/chart"
	"github.com/chemviz/chemviz/internal/session"
	"github.com/chemviz/chemviz/internal/tui/view"
	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a CSV without the dashboard",
	Long: `Upload a CSV file, then print the analysis summary, the equipment type
distribution chart and the refreshed upload history.

Examples:
  chemviz upload plant.csv
  chemviz upload plant.csv --chart-png distribution.png`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

var uploadChartPNG string

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().StringVar(&uploadChartPNG, "chart-png", "", "Also write the distribution chart as a PNG to this path")
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := newServices(cfg, "")
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	if _, err := svc.ctrl.SelectPath(args[0]); err != nil {
		return err
	}
	if err := svc.ctrl.HandleUpload(cmd.Context()); err != nil {
		if msg := svc.store.Snapshot().Error; msg != "" {
			return fmt.Errorf("%s: %w", msg, err)
		}
		return err
	}

	out := cmd.OutOrStdout()
	snap := svc.store.Snapshot()
	writeResult(out, snap, min(cfg.TUI.ChartWidth, terminalWidth(out)))

	if uploadChartPNG != "" {
		if err := writeChartPNG(snap.Chart, uploadChartPNG); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nChart saved to %s\n", uploadChartPNG)
	}
	return nil
}

// writeResult prints the sections the dashboard shows after an upload.
func writeResult(w io.Writer, snap session.Snapshot, chartWidth int) {
	fmt.Fprintf(w, "Uploaded %s %s\n\n", snap.File.Name, view.FormatSize(snap.File.Size))
	fmt.Fprintln(w, view.JoinSections(
		view.RenderChart(snap.Chart, chartWidth),
		view.RenderSummary(snap.Result),
		view.RenderHistory(snap.History, -1),
	))
}

func writeChartPNG(s *chart.Series, path string) error {
	if s == nil || s.Len() == 0 {
		return fmt.Errorf("no type distribution to chart")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := chart.RenderPNG(s, f, chart.PNGOptions{}); err != nil {
		f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return f.Close()
}
