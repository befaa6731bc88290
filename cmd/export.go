package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/browser"
	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/export"
)

var (
	flagExportOut  string
	flagExportOpen bool
	flagExportID   int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render a saved digest to an HTML page",
	Long: `Render a saved digest as a standalone HTML page.

Defaults to the newest digest; pick an older one with --id using the numbers
printed by 'newsbot history'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newServices()
		if err != nil {
			return err
		}
		defer s.close()

		entries := s.app.History()
		if len(entries) == 0 {
			return fmt.Errorf("no digests saved yet — run 'newsbot fetch' first")
		}

		idx := 0
		if flagExportID > 0 {
			idx = flagExportID - 1
		}
		if idx >= len(entries) {
			return fmt.Errorf("history has %d entries, no entry %d", len(entries), flagExportID)
		}
		entry := entries[idx]

		out := flagExportOut
		if out == "" {
			out = export.DefaultFilename(entry)
		}
		if err := export.WriteFile(entry, out); err != nil {
			return err
		}
		fmt.Printf("Exported %s (%d stories) to %s\n", entry.Date, entry.Data.TotalStories, out)

		if flagExportOpen {
			if err := browser.Open(out); err != nil {
				return fmt.Errorf("opening %s: %w", out, err)
			}
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&flagExportOut, "out", "", "output file (default newsbot-digest-<date>.html)")
	exportCmd.Flags().BoolVar(&flagExportOpen, "open", false, "open the page in your browser")
	exportCmd.Flags().IntVar(&flagExportID, "id", 0, "history entry number from 'newsbot history' (default newest)")
}
