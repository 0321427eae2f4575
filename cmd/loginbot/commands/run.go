package commands

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"loginbot/internal/components/chrono"
	"loginbot/internal/components/telemetry"
	"loginbot/internal/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("loginbot is running"))
}

func newHealthMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", healthHandler)
	return mux
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Processes a batch of accounts on every cron activation until interrupted.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := serviceutil.SignalContext()

		a, err := setupApp(ctx)
		if err != nil {
			serviceutil.Fatal("failed to setup", err)
		}
		defer a.Close()

		telemetry.InstrumentPerfStats(ctx, time.Minute)

		cron := chrono.NewStandardCron(ctx, a.time.Location(), a.tel)
		err = cron.Cron(a.cfg.Cron, func(ctx context.Context, scheduled time.Time) {
			report := a.dispatcher.Run(ctx, scheduled)
			slog.Info(
				"batch run finished",
				"state", report.State.String(),
				"start", report.Start,
				"end", report.End,
				"total", report.Total,
			)
		})
		if err != nil {
			serviceutil.Fatal("failed to schedule batches", err)
		}
		cron.Start()
		slog.Info("scheduled batches", "cron", a.cfg.Cron, "timezone", a.time.Location().String())

		go serviceutil.StartHttpServer(ctx, a.cfg.HealthPort, newHealthMux())

		<-ctx.Done()
		slog.Info("shutting down")
	},
}
