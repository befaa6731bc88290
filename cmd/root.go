package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/update"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "newsbot",
	Short: "Terminal dashboard for your AI news digest",
	Long: "newsbot is the terminal client for an agent-generated AI news digest: fetch it on demand, " +
		"browse saved digests, and manage the recurring Slack delivery schedule.",
	RunE: runDashboard,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("newsbot %s (commit: %s, built: %s)\n", version, commit, date)

		if res := update.Check(context.Background(), version); res != nil {
			fmt.Printf("Update available: v%s — %s\n", res.LatestVersion, res.URL)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
