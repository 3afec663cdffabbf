package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var plotWidth int

var plotCmd = &cobra.Command{
	Use:   "plot <system> <name>",
	Short: "Render a plot for a system",
	Long: `Render a registered plot against the configured data file as a
terminal chart.

Examples:
  diagdash plot sensor_monitoring temperature_timeseries -d readings.csv
  diagdash plot generic_example null_counts -d readings.csv --width 60`,
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

		fig, err := run.RenderPlot(args[0], args[1], ds)
		if err != nil {
			return err
		}
		fmt.Println(fig.Render(resolvePlotWidth(plotWidth, cfg.UI.PlotWidth)))
		return nil
	},
}

// resolvePlotWidth prefers the --width flag, then ui.plot_width from
// config, then a default that fits most terminals.
func resolvePlotWidth(flagWidth, cfgWidth int) int {
	if flagWidth > 0 {
		return flagWidth
	}
	if cfgWidth > 0 {
		return cfgWidth
	}
	return 80
}

func init() {
	plotCmd.Flags().IntVar(&plotWidth, "width", 0, "chart width in columns (0 = ui.plot_width from config)")
	rootCmd.AddCommand(plotCmd)
}
