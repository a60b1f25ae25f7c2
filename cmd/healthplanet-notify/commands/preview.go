package commands

import (
	"context"
	"fmt"
	"os"
	"healthplanet-notify/internal/components/telemetry"
	"healthplanet-notify/internal/scrapers/healthplanet"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(previewCmd)
}

func renderMeasurements(measurements []healthplanet.Measurement) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Date", "Tag", "Value", "Model"})
	for _, m := range measurements {
		t.AppendRow(table.Row{m.Date, fmt.Sprintf("%s (%s)", m.Tag.Label(), m.Tag), m.Keydata, m.Model})
	}
	t.SetStyle(table.StyleLight)
	return t.Render()
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Fetches and formats measurements, printing them instead of posting.",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(cfg, nil, telemetry.SlogAPI{})
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RunTimeout())
		defer cancel()

		measurements, rendered, err := p.Collect(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintln(os.Stdout, renderMeasurements(measurements))
		fmt.Fprintln(os.Stdout)
		fmt.Fprintln(os.Stdout, rendered.String())
		return nil
	},
}
