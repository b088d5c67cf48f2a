package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/chemviz/chemviz/internal/tui/view"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past uploads",
	Long:  `Fetch the upload history from the analysis service, newest first.`,
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var historyJSON bool

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Print the entries as JSON")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := newServices(cfg, "")
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	if err := svc.ctrl.FetchHistory(cmd.Context()); err != nil {
		return fmt.Errorf("failed to fetch history: %w", err)
	}

	out := cmd.OutOrStdout()
	entries := svc.store.Snapshot().History
	if historyJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	fmt.Fprintln(out, view.RenderHistory(entries, -1))
	return nil
}
