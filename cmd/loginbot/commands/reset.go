package commands

import (
	"log/slog"

	"loginbot/internal/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(resetCmd)
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Resets the batch cursor as if a new day had started.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := serviceutil.SignalContext()

		a, err := setupApp(ctx)
		if err != nil {
			serviceutil.Fatal("failed to setup", err)
		}
		defer a.Close()

		a.dispatcher.Reset(ctx)
		slog.Info("cursor reset")
	},
}
