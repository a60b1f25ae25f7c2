package commands

import (
	"context"
	"healthplanet-notify/internal/components/telemetry"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs the pipeline once: login, fetch, format and post.",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(cfg, nil, telemetry.SlogAPI{})
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RunTimeout())
		defer cancel()
		return p.Run(ctx)
	},
}
