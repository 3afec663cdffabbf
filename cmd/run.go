package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/diagdash/internal/diag"
	"github.com/zjrosen/diagdash/internal/history"
	"github.com/zjrosen/diagdash/internal/log"
	"github.com/zjrosen/diagdash/internal/presentation"
	"github.com/zjrosen/diagdash/internal/ui/styles"
)

var (
	runJSON      bool
	runNoHistory bool
)

var runCmd = &cobra.Command{
	Use:   "run <system>",
	Short: "Run diagnostics for a system without the TUI",
	Long: `Run every registered test for a system against the configured data
file and print the results. Exits non-zero when any test fails or errors.

Examples:
  # Run with human-readable output
  diagdash run sensor_monitoring --data readings.csv

  # Machine-readable output
  diagdash run sensor_monitoring -d readings.csv --json

  # Skip saving the run to history
  diagdash run sensor_monitoring -d readings.csv --no-history`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runHeadless,
}

func init() {
	runCmd.Flags().BoolVar(&runJSON, "json", false, "output the summary as JSON")
	runCmd.Flags().BoolVar(&runNoHistory, "no-history", false, "do not save this run to history")
	rootCmd.AddCommand(runCmd)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cleanup, err := initLogging()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.DataPath == "" {
		return fmt.Errorf("no data file given: pass --data or set data_path in config")
	}

	reg, err := buildRegistry()
	if err != nil {
		return err
	}
	run, shutdownTracing, err := newRunner(reg)
	if err != nil {
		return err
	}
	defer shutdownTracing()

	ds, err := loadData()
	if err != nil {
		return err
	}

	summary, err := run.Run(context.Background(), args[0], ds)
	if err != nil {
		return err
	}

	if cfg.History.Enabled && !runNoHistory {
		if err := saveRun(summary); err != nil {
			log.ErrorErr(log.CatDB, "Failed to save run", err, "run_id", summary.RunID)
			fmt.Fprintf(os.Stderr, "warning: failed to save run history: %v\n", err)
		}
	}

	if runJSON {
		formatter := presentation.NewFormatter(os.Stdout)
		if err := formatter.FormatSummary(presentation.FromDomainSummary(summary)); err != nil {
			return err
		}
	} else {
		printSummary(summary)
	}

	if summary.Failed() {
		return fmt.Errorf("%d of %d tests did not pass", summary.FailCount()+summary.ErrorCount(), len(summary.Results))
	}
	return nil
}

func saveRun(summary diag.Summary) error {
	db, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return db.Runs().Save(summary)
}

func printSummary(summary diag.Summary) {
	theme := styles.NewTheme(cfg.Theme)

	fmt.Printf("%s  run %s  %s\n\n", summary.SystemName, summary.RunID, summary.Shape)
	for _, res := range summary.Results {
		fmt.Printf("%s %-30s %s\n", theme.StatusLabel(res.Status), res.TestName, res.Message)
	}
	fmt.Printf("\n%d tests: %d passed, %d failed, %d warnings, %d errors (%s)\n",
		len(summary.Results),
		summary.PassCount(), summary.FailCount(), summary.WarningCount(), summary.ErrorCount(),
		summary.Duration.Round(time.Millisecond))
}
