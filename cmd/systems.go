package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/diagdash/internal/presentation"
)

var systemsCmd = &cobra.Command{
	Use:   "systems",
	Short: "List registered diagnostic systems",
	Long: `List every registered system with its tests, plots, and reports as JSON.

Examples:
  diagdash systems
  diagdash systems | jq '.[].name'
  diagdash systems | jq '.[] | {name, tests: [.tests[].name]}'`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := buildRegistry()
		if err != nil {
			return err
		}
		dtos, err := presentation.FromDomainSystems(reg)
		if err != nil {
			return err
		}
		return presentation.NewFormatter(os.Stdout).FormatSystems(dtos)
	},
}

func init() {
	rootCmd.AddCommand(systemsCmd)
}
