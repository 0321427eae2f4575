package commands

import (
	"fmt"
	"os"

	"loginbot/internal/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Prints the batch cursor and the slice the next trigger would process.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := serviceutil.SignalContext()

		a, err := setupApp(ctx)
		if err != nil {
			serviceutil.Fatal("failed to setup", err)
		}
		defer a.Close()

		now := a.time.Now()
		cur, plan, done, err := a.dispatcher.Status(ctx, now)
		if err != nil {
			serviceutil.Fatal("failed to load accounts", err)
		}

		lastFinished := cur.LastFinishedDate
		if lastFinished == "" {
			lastFinished = "-"
		}
		next := fmt.Sprintf("batch %d: accounts %d~%d/%d", plan.BatchIndex+1, plan.Start+1, plan.End, plan.Total)
		if done {
			next = "none, today's pass is complete"
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Field", "Value"})
		t.AppendRows([]table.Row{
			{"Now", now.Format("2006-01-02 15:04:05 MST")},
			{"Batch size", a.cfg.BatchSize},
			{"Batch index", cur.BatchIndex},
			{"Last finished", lastFinished},
			{"Next slice", next},
		})
		if plan.Rewound {
			t.AppendRow(table.Row{"Note", "stored index is past the end of the list, the next run starts over"})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
