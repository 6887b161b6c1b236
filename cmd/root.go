package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/user/netcfg-audit/pkg/config"
	"github.com/user/netcfg-audit/pkg/logging"
)

var rootCmd = &cobra.Command{
	Use:   "netcfg-audit",
	Short: "Network device configuration security audit",
	Long: `netcfg-audit checks network device configurations against a catalog of
security best-practice rules and produces risk-scored reports (CSV, PDF,
DOCX, Markdown) suitable for management review.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if logFormat != "" {
			c.Log.Format = logFormat
		}
		cfg = c
		log = logging.New(logging.Options{
			Level:  c.Log.Level,
			Format: c.Log.Format,
			File:   c.Log.File,
			Debug:  DebugMode,
		})
		log.WithField("config", configPath).Debug("configuration loaded")
		return nil
	},
}

var (
	DebugMode  bool
	configPath string
	logFormat  string

	cfg = config.Default()
	log = logging.Discard()
)

// Execute adds all child commands to the root command and sets flags appropriately.
// Interrupts cancel an audit in flight.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cobra.CheckErr(rootCmd.ExecuteContext(ctx))
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&DebugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.netcfg-audit/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json")
}
