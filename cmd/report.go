package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/diagdash/internal/ui/markdown"
)

var (
	reportRaw   bool
	reportWidth int
)

var reportCmd = &cobra.Command{
	Use:   "report <system> <name>",
	Short: "Render a report for a system",
	Long: `Generate a registered report against the configured data file and
print it, styled for the terminal.

Examples:
  diagdash report sensor_monitoring sensor_health_report -d readings.csv
  diagdash report generic_example summary_report -d readings.csv --raw`,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
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

		md, err := run.RenderReport(args[0], args[1], ds)
		if err != nil {
			return err
		}

		if reportRaw {
			fmt.Println(md)
			return nil
		}

		renderer, err := markdown.New(reportWidth, cfg.UI)
		if err != nil {
			return err
		}
		styled, err := renderer.Render(md)
		if err != nil {
			return err
		}
		fmt.Print(styled)
		return nil
	},
}

func init() {
	reportCmd.Flags().BoolVar(&reportRaw, "raw", false, "print unstyled markdown")
	reportCmd.Flags().IntVar(&reportWidth, "width", 100, "word wrap width")
	rootCmd.AddCommand(reportCmd)
}
