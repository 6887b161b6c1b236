package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/user/netcfg-audit/pkg/engine"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the audit rule catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		rulesDir, _ := cmd.Flags().GetString("rules-dir")
		if rulesDir == "" {
			rulesDir = cfg.RulePacksDir
		}

		var filter engine.Category
		if category != "" {
			c, err := engine.ParseCategory(category)
			if err != nil {
				return err
			}
			filter = c
		}

		rules, err := loadRules(rulesDir)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCATEGORY\tPOLARITY\tTITLE")
		for _, r := range rules {
			if filter != "" && r.Category != filter {
				continue
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Category, r.Polarity, r.Title)
		}
		return tw.Flush()
	},
}

func init() {
	rulesCmd.Flags().StringP("category", "c", "", "Only list rules in this category")
	rulesCmd.Flags().String("rules-dir", "", "Directory of YAML rule packs to include")
	rootCmd.AddCommand(rulesCmd)
}
