package cmd

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/netcfg-audit/pkg/advisor"
	"github.com/user/netcfg-audit/pkg/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard for the executive-summary advisor",
	RunE: func(cmd *cobra.Command, args []string) error {
		scanner := bufio.NewScanner(cmd.InOrStdin())
		out := cmd.OutOrStdout()
		prompt := func(label string) string {
			fmt.Fprint(out, label)
			scanner.Scan()
			return strings.TrimSpace(scanner.Text())
		}

		fmt.Fprintln(out, "netcfg-audit advisor setup")
		fmt.Fprintln(out, "--------------------------")

		// 1. API key
		fmt.Fprintln(out, "Step 1: Enter your Gemini API key")
		key := prompt("> ")
		if key == "" {
			return fmt.Errorf("API key cannot be empty")
		}

		// 2. Model
		fmt.Fprintln(out, "\nStep 2: Validating key and fetching available models...")
		g, err := advisor.NewGemini(cmd.Context(), key, "")
		if err != nil {
			return err
		}
		defer g.Close()

		var model string
		models, err := g.ListModels(cmd.Context())
		if err != nil || len(models) == 0 {
			log.WithError(err).Warn("could not fetch models")
			model = prompt(fmt.Sprintf("Enter model name (blank for %s) > ", advisor.DefaultModel))
			if model == "" {
				model = advisor.DefaultModel
			}
		} else {
			for i, m := range models {
				fmt.Fprintf(out, "%d. %s\n", i+1, m)
			}
			idx, err := strconv.Atoi(prompt("Select Model (number) > "))
			if err != nil || idx < 1 || idx > len(models) {
				fmt.Fprintln(out, "Invalid selection. Using first available model.")
				idx = 1
			}
			model = models[idx-1]
		}

		// 3. Save
		err = config.Update(configPath, map[string]any{
			"advisor.provider":        "gemini",
			"advisor.model":           model,
			"advisor.api_keys.gemini": key,
		})
		if err != nil {
			return err
		}
		cfg.Advisor.Provider = "gemini"
		cfg.Advisor.Model = model
		cfg.SetAPIKey("gemini", key)

		fmt.Fprintln(out, "--------------------------")
		fmt.Fprintf(out, "Setup complete. Model: %s\n", model)
		fmt.Fprintln(out, "Run 'netcfg-audit audit <paths> --ai-summary' to include an executive summary.")
		return nil
	},
}

func init() {
	configCmd.AddCommand(setupCmd)
}
