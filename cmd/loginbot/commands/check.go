package commands

import (
	"fmt"
	"os"

	"loginbot/internal/notify"
	"loginbot/internal/panel"
	"loginbot/internal/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var checkIndex int

func init() {
	checkCmd.Flags().IntVar(&checkIndex, "index", 0, "The position of the account in the account list.")
	rootCmd.AddCommand(checkCmd)
}

func printResults(results []panel.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Account", "Type", "Outcome", "Message"})
	for _, res := range results {
		t.AppendRow(table.Row{
			notify.Mask(res.Username),
			res.Type,
			res.Outcome.String(),
			res.Message,
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

var checkCmd = &cobra.Command{
	Use:   "check [--index <n>]",
	Short: "Logs into a single account without touching the cursor or sending notifications.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := serviceutil.SignalContext()

		a, err := setupApp(ctx)
		if err != nil {
			serviceutil.Fatal("failed to setup", err)
		}
		defer a.Close()

		payload, err := a.source.Load()
		if err != nil {
			serviceutil.Fatal("failed to load accounts", err)
		}
		if checkIndex < 0 || checkIndex >= len(payload.Accounts) {
			serviceutil.Fatal("invalid --index", fmt.Errorf("%d is not within [0, %d)", checkIndex, len(payload.Accounts)))
		}

		res := a.engine.Login(ctx, payload.Accounts[checkIndex])
		printResults([]panel.Result{res})
	},
}
