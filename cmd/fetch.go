package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/app"
	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/digest"
	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/export"
)

var flagFetchJSON bool

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch a fresh digest and print it",
	Long: `Invoke the digest agent once, record the result in local history and print it.

Suitable for shell pipelines and cron jobs; the interactive dashboard is not started.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newServices()
		if err != nil {
			return err
		}
		defer s.close()

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.TimeoutDuration())
		defer cancel()

		d, hist, err := s.app.FetchDigest(ctx)
		saveFailed := errors.Is(err, app.ErrHistoryWrite)
		if err != nil && !saveFailed {
			return err
		}
		if saveFailed {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}

		if flagFetchJSON {
			out, err := json.MarshalIndent(d, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}

		entry := digest.HistoryEntry{Date: d.DigestDate, Data: d}
		if !saveFailed && len(hist) > 0 {
			entry = hist[0]
		}
		fmt.Print(export.PlainText(entry))
		return nil
	},
}

func init() {
	fetchCmd.Flags().BoolVar(&flagFetchJSON, "json", false, "print the digest as JSON")
}
