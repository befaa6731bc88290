package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/digest"
	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/schedule"
)

func renderSchedulePanel(sched *digest.Schedule, logs []digest.ExecutionLog, now time.Time, width int) string {
	innerW := width - 4
	if innerW < 20 {
		innerW = 20
	}

	var lines []string
	if sched == nil {
		lines = append(lines, emptyStyle.Render("Schedule not loaded — press r to reload"))
		lines = append(lines, "")
	} else {
		badge := badgePausedStyle.Render("PAUSED")
		if sched.IsActive {
			badge = badgeActiveStyle.Render("ACTIVE")
		}
		when := schedule.CronToHuman(sched.CronExpression)
		next := schedule.FormatNextRun(sched.NextRunTime, now)
		lines = append(lines, badge+"  "+storyHeadlineStyle.Render(when)+entryTimeStyle.Render("  ·  next run: "+next))
		lines = append(lines, renderExecutions(logs, innerW))
	}

	return panelStyle.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func renderExecutions(logs []digest.ExecutionLog, width int) string {
	if len(logs) == 0 {
		return emptyStyle.Render("No executions yet")
	}

	ok := 0
	var glyphs []string
	for _, l := range logs {
		if l.Success {
			ok++
			glyphs = append(glyphs, okGlyphStyle.Render("✓"))
		} else {
			glyphs = append(glyphs, failGlyphStyle.Render("✗"))
		}
	}

	label := fmt.Sprintf("  %d/%d ok", ok, len(logs))
	if t, err := schedule.ParseISO(logs[0].ExecutedAt); err == nil {
		label += " · last " + relativeTime(t)
	}
	return entryTimeStyle.Render("Recent: ") + strings.Join(glyphs, " ") + entryTimeStyle.Render(label)
}

func renderDigestBody(d *digest.DigestData, filter categoryFilter, width, height, scroll int) string {
	innerW := width - 4
	if innerW < 20 {
		innerW = 20
	}

	if d == nil {
		return lipglossCenter("No digest yet — press f to fetch today's AI news", width, height)
	}

	var lines []string
	meta := digestDateLabel(d.DigestDate) +
		fmt.Sprintf("  ·  %d stories  ·  %d min read", d.TotalStories, readTime(d.TotalStories))
	if d.SlackPosted {
		meta += "  ·  " + okGlyphStyle.Render("✓") + " Slack"
	}
	lines = append(lines, entryTimeStyle.Render(meta), "")

	cats := filter.apply(d.Categories)
	if len(cats) == 0 {
		if len(d.Categories) == 0 {
			lines = append(lines, emptyStyle.Render("The agent returned no categories."))
		} else {
			lines = append(lines, emptyStyle.Render("All categories hidden — press 1-4 to show them."))
		}
	}
	for _, cat := range cats {
		lines = append(lines, categoryHeaderStyle.Render(strings.ToUpper(cat.CategoryName)))
		if len(cat.Stories) == 0 {
			lines = append(lines, emptyStyle.Render("  no stories"))
		}
		for _, s := range cat.Stories {
			lines = append(lines, storyHeadlineStyle.Render("  "+truncateStr(s.Headline, innerW-2)))
			if s.Summary != "" {
				for _, l := range strings.Split(wrapText(s.Summary, innerW-4), "\n") {
					lines = append(lines, storySummaryStyle.Render("    "+l))
				}
			}
			if s.Source != "" {
				lines = append(lines, storySourceStyle.Render("    "+s.Source))
			}
			lines = append(lines, "")
		}
		lines = append(lines, "")
	}

	// Apply scroll offset, then fit to height
	if scroll >= len(lines) {
		scroll = len(lines) - 1
	}
	if scroll > 0 {
		lines = lines[scroll:]
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func digestDateLabel(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		if date == "" {
			return "Today"
		}
		return date
	}
	return t.Format("Monday, Jan 2")
}

func lipglossCenter(s string, width, height int) string {
	pad := (width - len(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", pad) + emptyStyle.Render(s)
}
