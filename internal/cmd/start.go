package cmd

import (
	"fmt"

	"github.com/chemviz/chemviz/internal/tui"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start [file]",
	Short: "Launch the dashboard",
	Long: `Launch the terminal dashboard. When a CSV file is given it is selected
on startup and can be uploaded with a single key press.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := newServices(cfg, "")
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	svc.store.SetShowHistory(cfg.TUI.HistoryExpanded)

	initial := ""
	if len(args) > 0 {
		initial = args[0]
	}

	svc.logger.Info("dashboard started", "base_url", cfg.Server.BaseURL, "report_mode", cfg.Report.Mode)
	app := tui.New(cmd.Context(), svc.ctrl, svc.store, svc.bus, tui.Options{
		BaseURL:     cfg.Server.BaseURL,
		FilePattern: cfg.Upload.FilePattern,
		ChartWidth:  cfg.TUI.ChartWidth,
		ExportDir:   cfg.Report.ResolveDownloadDir(),
		InitialPath: initial,
	})
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	svc.logger.Info("dashboard stopped")
	return nil
}
