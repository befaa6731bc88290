package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	flagHistoryJSON  bool
	flagHistoryClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved digests",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newServices()
		if err != nil {
			return err
		}
		defer s.close()

		if flagHistoryClear {
			if err := s.app.ClearHistory(); err != nil {
				return fmt.Errorf("clearing history: %w", err)
			}
			fmt.Println("History cleared.")
			return nil
		}

		entries := s.app.History()

		if flagHistoryJSON {
			out, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}

		if len(entries) == 0 {
			fmt.Println("No digests saved yet. Run 'newsbot fetch' to get one.")
			return nil
		}
		for i, e := range entries {
			slack := "-"
			if e.Data.SlackPosted {
				slack = "✓"
			}
			fmt.Printf("%2d. %s  %3d stories  slack %s  saved %s\n",
				i+1, e.Date, e.Data.TotalStories, slack, formatAge(time.UnixMilli(e.Timestamp)))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().BoolVar(&flagHistoryJSON, "json", false, "print history as JSON")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "delete all saved digests")
}
