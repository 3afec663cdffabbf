package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/diagdash/internal/history"
	"github.com/zjrosen/diagdash/internal/presentation"
	"github.com/zjrosen/diagdash/internal/ui/styles"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history [system]",
	Short: "Show recent diagnostic runs",
	Long: `List recent runs from the history database, newest first.
With a system argument, only runs for that system are shown.

Examples:
  diagdash history
  diagdash history sensor_monitoring --limit 5
  diagdash history --json | jq '.[].run_id'`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.History.Enabled {
			return fmt.Errorf("history is disabled in config")
		}
		db, err := history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		system := ""
		if len(args) == 1 {
			system = args[0]
		}
		runs, err := db.Runs().Recent(system, historyLimit)
		if err != nil {
			return err
		}

		if historyJSON {
			dtos := make([]presentation.SummaryDTO, len(runs))
			for i, run := range runs {
				dtos[i] = presentation.FromDomainSummary(run)
			}
			encoder := presentation.NewFormatter(os.Stdout)
			return encoder.FormatSummaries(dtos)
		}

		if len(runs) == 0 {
			fmt.Println("no runs recorded")
			return nil
		}

		theme := styles.NewTheme(cfg.Theme)
		for _, run := range runs {
			status := theme.Pass.Render("ok")
			if run.Failed() {
				status = theme.Fail.Render("failed")
			}
			fmt.Printf("%s  %-24s %s  %d passed %d failed %d warnings %d errors  %s\n",
				run.Timestamp.Format(time.DateTime),
				run.SystemName,
				status,
				run.PassCount(), run.FailCount(), run.WarningCount(), run.ErrorCount(),
				run.RunID,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs to show")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output runs as JSON")
	rootCmd.AddCommand(historyCmd)
}
