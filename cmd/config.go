package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/user/netcfg-audit/pkg/advisor"
	"github.com/user/netcfg-audit/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration (output, advisor provider, model, keys)",
}

// apiKey returns the stored key for provider, falling back to the
// conventional <PROVIDER>_API_KEY environment variable.
func apiKey(provider string) string {
	if k := cfg.GetAPIKey(provider); k != "" {
		return k
	}
	return os.Getenv(strings.ToUpper(provider) + "_API_KEY")
}

var setKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Store the API key for an advisor provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, _ := cmd.Flags().GetString("provider")
		key, _ := cmd.Flags().GetString("key")
		if key == "" {
			return fmt.Errorf("--key is required")
		}

		provider = strings.ToLower(provider)
		if err := config.Update(configPath, map[string]any{"advisor.api_keys." + provider: key}); err != nil {
			return err
		}
		cfg.SetAPIKey(provider, key)
		fmt.Fprintf(cmd.OutOrStdout(), "API key saved for provider: %s\n", provider)
		return nil
	},
}

var setModelCmd = &cobra.Command{
	Use:   "set-model",
	Short: "Set the advisor provider and model",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, _ := cmd.Flags().GetString("provider")
		model, _ := cmd.Flags().GetString("model")

		changes := map[string]any{}
		if provider != "" {
			cfg.Advisor.Provider = strings.ToLower(provider)
			changes["advisor.provider"] = cfg.Advisor.Provider
		}
		if model != "" {
			cfg.Advisor.Model = model
			changes["advisor.model"] = model
		}
		if len(changes) == 0 {
			return fmt.Errorf("--provider or --model is required")
		}

		if err := config.Update(configPath, changes); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Advisor updated: Provider=%s, Model=%s\n", cfg.Advisor.Provider, cfg.Advisor.Model)
		return nil
	},
}

var listModelsCmd = &cobra.Command{
	Use:   "list-models",
	Short: "List models available to the configured advisor",
	RunE: func(cmd *cobra.Command, args []string) error {
		key := apiKey(cfg.Advisor.Provider)
		g, err := advisor.NewGemini(cmd.Context(), key, "")
		if err != nil {
			return err
		}
		defer g.Close()

		log.WithField("provider", cfg.Advisor.Provider).Debug("fetching models")
		models, err := g.ListModels(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch models: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Available Models (%s):\n", cfg.Advisor.Provider)
		for _, m := range models {
			mark := " "
			if m == cfg.Advisor.Model {
				mark = "*"
			}
			fmt.Fprintf(out, "%s %s\n", mark, m)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with API keys masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		shown := *cfg
		shown.Advisor.APIKeys = make(map[string]string, len(cfg.Advisor.APIKeys))
		for p, k := range cfg.Advisor.APIKeys {
			shown.Advisor.APIKeys[p] = mask(k)
		}
		data, err := yaml.Marshal(&shown)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func mask(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

func init() {
	setKeyCmd.Flags().StringP("provider", "p", "gemini", "Provider")
	setKeyCmd.Flags().StringP("key", "k", "", "API Key")

	setModelCmd.Flags().StringP("provider", "p", "", "Provider")
	setModelCmd.Flags().StringP("model", "m", "", "Model name")

	configCmd.AddCommand(setKeyCmd)
	configCmd.AddCommand(setModelCmd)
	configCmd.AddCommand(listModelsCmd)
	configCmd.AddCommand(showCmd)
	rootCmd.AddCommand(configCmd)
}
