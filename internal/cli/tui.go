package cli

import (
	"github.com/spf13/cobra"

	"nasin/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive task list (default)",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	// the terminal belongs to the TUI, so logs are dropped
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	return tui.Run(cmd.Context(), a.sched, tui.WithDefaultPriority(a.cfg.DefaultPriority))
}
