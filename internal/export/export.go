// Package export renders saved digests as standalone HTML pages.
package export

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/digest"
)

// Renderer turns a history entry into a self-contained HTML document.
type Renderer struct {
	template *template.Template
}

// New creates a renderer with the built-in page template.
func New() (*Renderer, error) {
	tmpl, err := template.New("digest").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse digest template: %w", err)
	}
	return &Renderer{template: tmpl}, nil
}

type pageData struct {
	Title        string
	Date         string
	GeneratedAt  string
	Categories   []categoryData
	TotalStories int
	SlackPosted  bool
}

type categoryData struct {
	Name    string
	Stories []storyData
}

type storyData struct {
	Headline string
	Summary  string
	Source   string
}

// Render produces the HTML page for one saved digest.
func (r *Renderer) Render(entry digest.HistoryEntry) (string, error) {
	data := pageData{
		Title:        "AI News Digest",
		Date:         humanDate(entry.Date),
		GeneratedAt:  time.UnixMilli(entry.Timestamp).Format("Jan 2, 2006 3:04 PM"),
		Categories:   make([]categoryData, len(entry.Data.Categories)),
		TotalStories: entry.Data.TotalStories,
		SlackPosted:  entry.Data.SlackPosted,
	}
	for i, cat := range entry.Data.Categories {
		cd := categoryData{
			Name:    cat.CategoryName,
			Stories: make([]storyData, len(cat.Stories)),
		}
		for j, s := range cat.Stories {
			cd.Stories[j] = storyData{Headline: s.Headline, Summary: s.Summary, Source: s.Source}
		}
		data.Categories[i] = cd
	}

	var buf bytes.Buffer
	if err := r.template.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render digest page: %w", err)
	}
	return buf.String(), nil
}

// WriteFile renders the entry and writes it to path.
func WriteFile(entry digest.HistoryEntry, path string) error {
	r, err := New()
	if err != nil {
		return err
	}
	page, err := r.Render(entry)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// DefaultFilename suggests an output name based on the digest date.
func DefaultFilename(entry digest.HistoryEntry) string {
	if entry.Date == "" {
		return "newsbot-digest.html"
	}
	return fmt.Sprintf("newsbot-digest-%s.html", entry.Date)
}

// PlainText renders the entry for terminal output.
func PlainText(entry digest.HistoryEntry) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "AI News Digest — %s\n", humanDate(entry.Date))
	fmt.Fprintf(&buf, "%d stories", entry.Data.TotalStories)
	if entry.Data.SlackPosted {
		buf.WriteString(" · posted to Slack")
	}
	buf.WriteString("\n")

	for _, cat := range entry.Data.Categories {
		fmt.Fprintf(&buf, "\n%s\n", cat.CategoryName)
		for i, s := range cat.Stories {
			fmt.Fprintf(&buf, "  %d. %s\n", i+1, s.Headline)
			if s.Summary != "" {
				fmt.Fprintf(&buf, "     %s\n", s.Summary)
			}
			if s.Source != "" {
				fmt.Fprintf(&buf, "     — %s\n", s.Source)
			}
		}
		if len(cat.Stories) == 0 {
			buf.WriteString("  (no stories)\n")
		}
	}
	if len(entry.Data.Categories) == 0 {
		buf.WriteString("\nNo stories in this digest.\n")
	}
	return buf.String()
}

func humanDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("Monday, January 2, 2006")
}

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>{{.Title}} — {{.Date}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 680px; margin: 0 auto; padding: 20px; background: #f5f5f7; color: #1d1d1f; }
        .container { background: white; border-radius: 8px; padding: 24px; }
        h1 { color: #5b4cdb; margin-bottom: 4px; }
        .date { color: #666; margin-bottom: 24px; }
        .category { margin-bottom: 28px; }
        .category h2 { font-size: 16px; text-transform: uppercase; letter-spacing: 0.05em; color: #5b4cdb; border-bottom: 2px solid #eceafc; padding-bottom: 6px; }
        .story { border-bottom: 1px solid #eee; padding: 12px 0; }
        .story:last-child { border-bottom: none; }
        .headline { font-weight: 600; margin-bottom: 6px; }
        .summary { color: #444; line-height: 1.5; margin-bottom: 6px; }
        .source { color: #888; font-size: 13px; }
        .empty { color: #888; font-style: italic; padding: 12px 0; }
        .footer { margin-top: 24px; padding-top: 14px; border-top: 1px solid #eee; color: #999; font-size: 12px; text-align: center; }
    </style>
</head>
<body>
    <div class="container">
        <h1>{{.Title}}</h1>
        <div class="date">{{.Date}}</div>

        {{range .Categories}}
        <div class="category">
            <h2>{{.Name}}</h2>
            {{range .Stories}}
            <div class="story">
                <div class="headline">{{.Headline}}</div>
                <div class="summary">{{.Summary}}</div>
                <div class="source">{{.Source}}</div>
            </div>
            {{else}}
            <div class="empty">No stories in this category.</div>
            {{end}}
        </div>
        {{else}}
        <div class="empty">No stories in this digest.</div>
        {{end}}

        <div class="footer">
            {{.TotalStories}} stories{{if .SlackPosted}} · posted to Slack{{end}} · generated {{.GeneratedAt}} by newsbot
        </div>
    </div>
</body>
</html>`
