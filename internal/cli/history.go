package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"nasin/internal/sched"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent scheduling events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.historyPath == "" {
			return fmt.Errorf("history is disabled in the config")
		}
		events, err := sched.ReadHistory(a.historyPath, historyLimit)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		for _, ev := range events {
			fmt.Fprintf(w, "%s  %-9s  %s  p=%-3d age=%-3d %s\n",
				ev.Time.Local().Format(time.DateTime),
				ev.Kind,
				ev.TaskID.Short(),
				ev.Priority,
				ev.Age,
				ev.Name,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "lines", "n", 20, "number of events to show, 0 for all")
}
