package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "prepdeck",
	Short: "Timed exam practice in the terminal",
	Long: "PrepDeck runs timed multiple-choice practice and full exam simulations,\n" +
		"keeps your results, and tells you which module to study next.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PREPDECK_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to a prepdeck.yaml config file")
	rootCmd.PersistentFlags().String("user", "", "User ID (defaults to $USER)")

	addPlayFlags(rootCmd)

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(bankCmd)
	rootCmd.AddCommand(assignCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(adviceCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}
