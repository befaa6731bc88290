package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/digest"
)

func renderHistoryList(entries []digest.HistoryEntry, cursor int, expanded map[string]bool, width, height int) string {
	if len(entries) == 0 {
		return lipglossCenter("No digests saved yet", width, height)
	}

	var lines []string
	starts := make([]int, len(entries))
	for i, e := range entries {
		starts[i] = len(lines)
		lines = append(lines, renderHistoryItem(e, i == cursor, expanded[e.ID], width)...)
		if i < len(entries)-1 {
			lines = append(lines, "")
		}
	}

	// Keep the cursor's block on screen; with expanded entries the item
	// height varies, so fall back to pinning the block at the top.
	start := 0
	if cursor >= 0 && cursor < len(starts) && starts[cursor]+2 >= height {
		start = starts[cursor]
	}
	if start < len(lines) {
		lines = lines[start:]
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func renderHistoryItem(e digest.HistoryEntry, selected, expanded bool, width int) []string {
	innerW := width - 4
	if innerW < 20 {
		innerW = 20
	}

	title := fmt.Sprintf("%s · %d stories", digestDateLabel(e.Date), e.Data.TotalStories)
	var head string
	if selected {
		head = entrySelectedStyle.Render("> " + truncateStr(title, innerW))
	} else {
		head = storyHeadlineStyle.Render("  " + truncateStr(title, innerW))
	}

	meta := "  " + entryTimeStyle.Render("saved "+relativeTime(time.UnixMilli(e.Timestamp)))
	if e.Data.SlackPosted {
		meta += " " + entryTimeStyle.Render("·") + " " + okGlyphStyle.Render("✓") + " " + entryTimeStyle.Render("slack")
	}

	lines := []string{head, meta}
	if !expanded {
		return lines
	}

	for _, cat := range e.Data.Categories {
		lines = append(lines, "    "+categoryHeaderStyle.Render(cat.CategoryName))
		for _, s := range cat.Stories {
			lines = append(lines, storySummaryStyle.Render("      • "+truncateStr(s.Headline, innerW-8)))
			if s.Source != "" {
				lines = append(lines, storySourceStyle.Render("        "+s.Source))
			}
		}
	}
	if len(e.Data.Categories) == 0 {
		lines = append(lines, emptyStyle.Render("    (empty digest)"))
	}
	return lines
}
