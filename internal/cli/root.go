package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	configPath string
	dataDir    string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "nasin",
	Short: "A task list whose priorities age over time",
	Long: "Nasin keeps a personal task list ordered by priority. Every step services the\n" +
		"most urgent task and boosts the one that has waited longest, so nothing starves.",
	SilenceUsage: true,
	RunE:         runTUI,
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default <user config dir>/nasin/config.yml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory holding tasks.json")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(stepCmd)
	rootCmd.AddCommand(finishCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(tuiCmd)
}
