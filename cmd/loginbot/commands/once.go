package commands

import (
	"fmt"
	"log/slog"
	"time"

	"loginbot/internal/serviceutil"

	"github.com/spf13/cobra"
)

var onceAt string

func init() {
	onceCmd.Flags().StringVar(&onceAt, "at", "", "Pretend the trigger fired at this RFC3339 time instead of now.")
	rootCmd.AddCommand(onceCmd)
}

var onceCmd = &cobra.Command{
	Use:   "once [--at <time>]",
	Short: "Runs a single trigger, exactly like one cron activation.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := serviceutil.SignalContext()

		a, err := setupApp(ctx)
		if err != nil {
			serviceutil.Fatal("failed to setup", err)
		}
		defer a.Close()

		now := a.time.Now()
		if onceAt != "" {
			now, err = time.Parse(time.RFC3339, onceAt)
			if err != nil {
				serviceutil.Fatal("invalid --at", err)
			}
		}

		report := a.dispatcher.Run(ctx, now)
		slog.Info("run finished", "state", report.State.String())
		if report.Err != nil {
			slog.Warn("run error", "err", report.Err)
		}
		if len(report.Results) > 0 {
			fmt.Printf("batch %d: accounts %d~%d/%d\n", report.BatchIndex+1, report.Start+1, report.End, report.Total)
			printResults(report.Results)
		}
	},
}
