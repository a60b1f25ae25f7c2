package commands

import (
	"context"
	"fmt"
	"log/slog"
	"healthplanet-notify/internal/components/telemetry"
	"healthplanet-notify/internal/config"
	"healthplanet-notify/pkg/serviceutil"

	"github.com/spf13/cobra"
)

var (
	configPath  string
	verbose     bool
	dumpHttpDir string

	// cfg and otelProviders are set up by the root command's PersistentPreRunE.
	cfg           config.Config
	otelProviders telemetry.Otel
)

var rootCmd = &cobra.Command{
	Use:   "healthplanet-notify",
	Short: "healthplanet-notify posts recent Health Planet body composition measurements to a chat webhook.",
	Long: `healthplanet-notify logs into Health Planet, fetches the body composition measurements of the
last few days and posts a summary to a Slack compatible webhook.

Configuration is read from the file given by --config (and its .local variant) when present and
from the environment (HEALTHPLANET_CLIENT_ID, HEALTHPLANET_CLIENT_SECRET, HEALTHPLANET_USER_ID,
HEALTHPLANET_USER_PASSWORD, SLACK_POST_URL, SLACK_CHANNEL), environment variables take precedence.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(verbose)
		if verbose {
			slog.DebugContext(cmd.Context(), "verbose logging enabled")
		}

		var err error
		cfg, err = config.LoadFromEnv(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		otelProviders, err = telemetry.SetupOtel(cmd.Context(), cmd.Root().Name(), cfg.Telemetry)
		if err != nil {
			return fmt.Errorf("setup telemetry: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return otelProviders.Shutdown(context.Background())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.json5", "The configuration file to read.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging.")
	rootCmd.PersistentFlags().StringVar(&dumpHttpDir, "dump-http", "", "Write every request/response exchanged with Health Planet to this directory.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		serviceutil.Fatal("healthplanet-notify failed", err)
	}
}
