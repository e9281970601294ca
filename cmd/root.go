package cmd

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "masterreview",
	Short: "DepEd K-12 curriculum viewer with AI review modules",
	Long: "MasterReview browses the DepEd K-12 curriculum and generates review modules " +
		"for each week's competency, keeping saved lessons available offline.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isTerminal(os.Stdout) || !isTerminal(os.Stdin) {
			return cmd.Help()
		}
		return runApp(cmd)
	},
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides MASTERREVIEW_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/masterreview/config.yaml)")

	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(lessonCmd)
	rootCmd.AddCommand(defineCmd)
	rootCmd.AddCommand(savedCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
