package cli

import (
	"github.com/spf13/cobra"
)

var (
	itemsFile  string
	jsonOutput bool
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Show the three most urgent work items",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		items, err := loadItems(services, itemsFile)
		if err != nil {
			return err
		}
		report, err := services.Insights.RankPriorities(cmd.Context(), items)
		if err != nil {
			return MapError(err)
		}
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), report)
		}
		renderRanking(cmd.OutOrStdout(), report)
		return nil
	},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Lay out today's focus blocks",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		items, err := loadItems(services, itemsFile)
		if err != nil {
			return err
		}
		report, err := services.Insights.BuildDailyPlan(items)
		if err != nil {
			return MapError(err)
		}
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), report)
		}
		renderDailyPlan(cmd.OutOrStdout(), report)
		return nil
	},
}

var suggestDescription string

var suggestCmd = &cobra.Command{
	Use:   "suggest <title>",
	Short: "Suggest a priority and estimate for a new item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		suggestion, err := services.Insights.Suggest(args[0], suggestDescription)
		if err != nil {
			return MapError(err)
		}
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), suggestion)
		}
		renderSuggestion(cmd.OutOrStdout(), suggestion)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{rankCmd, planCmd} {
		c.Flags().StringVarP(&itemsFile, "file", "f", "", "YAML or JSON file of work items")
		c.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of a table")
	}
	suggestCmd.Flags().StringVarP(&suggestDescription, "description", "d", "", "Longer description of the item")
	suggestCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON")

	RootCmd.AddCommand(rankCmd, planCmd, suggestCmd)
}
