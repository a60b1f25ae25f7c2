package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
	"healthplanet-notify/internal/components/chrono"
	"healthplanet-notify/internal/components/telemetry"
	"healthplanet-notify/internal/metrics"

	"github.com/spf13/cobra"
)

var (
	metricsAddr  string
	runOnStartup bool
)

func init() {
	serveCmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9100", "The address to serve prometheus metrics on, empty to disable.")
	serveCmd.Flags().BoolVar(&runOnStartup, "run", false, "Trigger a run immediately on startup.")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [--metrics-addr :9100] [--run]",
	Short: "Runs the pipeline on the configured cron schedule until interrupted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		tel := telemetry.SlogAPI{}
		m := metrics.New()

		p, err := newPipeline(cfg, m, tel)
		if err != nil {
			return err
		}
		telemetry.InstrumentPerfStats(ctx, tel)

		// shared by the schedule and --run so the two never overlap
		trigger := chrono.Exclusive(func() {
			runCtx, cancel := context.WithTimeout(ctx, cfg.RunTimeout())
			defer cancel()
			err := p.Run(runCtx)
			if err != nil {
				slog.ErrorContext(ctx, "run failed", "err", err)
			}
		}, tel)

		cron := chrono.NewStandardCron(tel)
		err = cron.Cron(cfg.Schedule, trigger)
		if err != nil {
			cron.Stop()
			return err
		}
		slog.InfoContext(ctx, "scheduled", "schedule", cfg.Schedule, "location", chrono.Tokyo().String())

		var server *http.Server
		if metricsAddr != "" {
			mux := http.NewServeMux()
			mux.Handle("/metrics", m.Handler())
			server = &http.Server{Addr: metricsAddr, Handler: mux}
			go func() {
				slog.InfoContext(ctx, "serving metrics", "addr", metricsAddr)
				err := server.ListenAndServe()
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					slog.ErrorContext(ctx, "metrics server failed", "err", err)
				}
			}()
		}

		if runOnStartup {
			go trigger()
		}

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*30)
		defer cancel()
		if server != nil {
			_ = server.Shutdown(shutdownCtx)
		}
		select {
		case <-cron.Stop().Done():
		case <-shutdownCtx.Done():
		}
		return nil
	},
}
