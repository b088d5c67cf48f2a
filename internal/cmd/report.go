package cmd

import (
	"fmt"

	"github.com/chemviz/chemviz/internal/analysis"
	"github.com/chemviz/chemviz/internal/config"
	"github.com/chemviz/chemviz/internal/errors"
	"github.com/chemviz/chemviz/internal/event"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report <id|latest>",
	Short: "Open the PDF report of an upload",
	Long: `Open the PDF report of a past upload. In download mode (the default) the
report is fetched with the configured credential, saved to the download
directory and opened; with --browser the report URL is handed to the system
browser instead.

Examples:
  chemviz report 7
  chemviz report latest --browser
  chemviz report 7 --no-open`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

var (
	reportBrowser bool
	reportNoOpen  bool
)

// latestReportArg selects the newest upload.
const latestReportArg = "latest"

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().BoolVar(&reportBrowser, "browser", false, "Open the report URL in the browser instead of downloading it")
	reportCmd.Flags().BoolVar(&reportNoOpen, "no-open", false, "Save the report (or print its URL) without opening it")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	mode := ""
	if reportBrowser {
		mode = config.ReportModeBrowser
	}
	svc, err := newServices(cfg, mode)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	latest := args[0] == latestReportArg
	if latest {
		if err := svc.ctrl.FetchHistory(ctx); err != nil {
			return fmt.Errorf("failed to fetch history: %w", err)
		}
	}

	if reportNoOpen {
		id := analysis.NewEntryID(args[0])
		if latest {
			if id, err = svc.ctrl.LatestEntryID(); err != nil {
				return latestError(err)
			}
		}
		if svc.launcher.Mode() == config.ReportModeBrowser {
			fmt.Fprintln(out, svc.client.ReportURL(id))
			return nil
		}
		path, err := svc.launcher.Save(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Report %s saved to %s\n", id, path)
		return nil
	}

	sub := svc.bus.Subscribe(event.TypeReportLaunched, func(e event.Event) {
		if launched, ok := e.(event.ReportLaunchedEvent); ok {
			target := launched.Path
			if target == "" {
				target = launched.URL
			}
			fmt.Fprintf(out, "Report %s opened: %s\n", launched.ReportID, target)
		}
	})
	defer svc.bus.Unsubscribe(sub)

	if latest {
		return latestError(svc.ctrl.LatestReport(ctx))
	}
	return svc.ctrl.DownloadPDF(ctx, analysis.NewEntryID(args[0]))
}

func latestError(err error) error {
	if errors.Is(err, errors.ErrNotFound) {
		return fmt.Errorf("no uploads to report on yet")
	}
	return err
}
