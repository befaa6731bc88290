// Package digest defines the news digest domain model shared by the
// store, the gateways and the dashboard.
package digest

// Story is one news item inside a category. Produced by the agent,
// never mutated locally.
type Story struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Source   string `json:"source"`
}

// Category groups stories under a free-form label. The agent has been
// observed to use Breaking, Research, Trends and Startups, but the set
// is not closed.
type Category struct {
	CategoryName string  `json:"category_name"`
	Stories      []Story `json:"stories"`
}

// DigestData is one generation result. TotalStories is reported by the
// agent and trusted as-is rather than recomputed from Categories.
type DigestData struct {
	DigestDate   string     `json:"digest_date"`
	Categories   []Category `json:"categories"`
	TotalStories int        `json:"total_stories"`
	SlackPosted  bool       `json:"slack_posted"`
}

// HistoryEntry wraps a stored digest. Entries are immutable after
// creation and only ever removed by truncation of the history list.
type HistoryEntry struct {
	ID        string     `json:"id"`
	Date      string     `json:"date"`
	Data      DigestData `json:"data"`
	Timestamp int64      `json:"timestamp"`
}

// CategoryPrefs mirrors the per-category delivery toggles in Settings.
type CategoryPrefs struct {
	Breaking bool `json:"breaking"`
	Research bool `json:"research"`
	Trends   bool `json:"trends"`
	Startups bool `json:"startups"`
}

// Settings is the single user-preferences record. It is overwritten
// wholesale on save; field-level defaulting happens only on load.
type Settings struct {
	SlackChannel string        `json:"slackChannel"`
	DeliveryTime string        `json:"deliveryTime"`
	Timezone     string        `json:"timezone"`
	Categories   CategoryPrefs `json:"categories"`
}

// DefaultSettings returns the documented default record.
func DefaultSettings() Settings {
	return Settings{
		SlackChannel: "",
		DeliveryTime: "10:00",
		Timezone:     "America/New_York",
		Categories: CategoryPrefs{
			Breaking: true,
			Research: true,
			Trends:   true,
			Startups: true,
		},
	}
}

// Schedule is the externally managed recurring trigger, read-only to
// this client. NextRunTime is empty when the scheduler reports none.
type Schedule struct {
	IsActive       bool   `json:"is_active"`
	CronExpression string `json:"cron_expression"`
	NextRunTime    string `json:"next_run_time"`
}

// ExecutionLog records the outcome of one past scheduled run.
type ExecutionLog struct {
	ID         string `json:"id"`
	Success    bool   `json:"success"`
	ExecutedAt string `json:"executed_at"`
}
