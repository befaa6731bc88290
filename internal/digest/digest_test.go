package digest

import (
	"errors"
	"testing"
)

func TestParseResultValid(t *testing.T) {
	raw := []byte(`{
		"digest_date": "2024-03-05",
		"categories": [
			{"category_name": "Breaking", "stories": [
				{"headline": "Model beats benchmark", "summary": "A new model tops the leaderboard.", "source": "TechWire"}
			]},
			{"category_name": "Research", "stories": []}
		],
		"total_stories": 1,
		"slack_posted": true
	}`)

	d, err := ParseResult(raw)
	if err != nil {
		t.Fatalf("ParseResult: %v", err)
	}
	if d.DigestDate != "2024-03-05" {
		t.Errorf("digest_date = %q", d.DigestDate)
	}
	if len(d.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(d.Categories))
	}
	if d.Categories[0].CategoryName != "Breaking" {
		t.Errorf("first category = %q", d.Categories[0].CategoryName)
	}
	if d.Categories[0].Stories[0].Source != "TechWire" {
		t.Errorf("story source = %q", d.Categories[0].Stories[0].Source)
	}
	if d.TotalStories != 1 || !d.SlackPosted {
		t.Errorf("total_stories=%d slack_posted=%v", d.TotalStories, d.SlackPosted)
	}
}

func TestParseResultEmptyCategories(t *testing.T) {
	raw := []byte(`{"digest_date":"2024-01-01","categories":[],"total_stories":0,"slack_posted":false}`)
	d, err := ParseResult(raw)
	if err != nil {
		t.Fatalf("ParseResult: %v", err)
	}
	if len(d.Categories) != 0 {
		t.Errorf("expected no categories, got %d", len(d.Categories))
	}
	if d.TotalStories != 0 {
		t.Errorf("total_stories = %d", d.TotalStories)
	}
}

func TestParseResultBadShape(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty object", `{}`},
		{"categories null", `{"categories": null}`},
		{"categories string", `{"categories": "Breaking"}`},
		{"categories number", `{"categories": 4}`},
		{"categories object", `{"categories": {"name": "Breaking"}}`},
		{"result not an object", `"all good"`},
		{"stories mistyped", `{"categories": [{"category_name": "Breaking", "stories": "none"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResult([]byte(tt.raw))
			if !errors.Is(err, ErrInvalidShape) {
				t.Errorf("expected shape error, got %v", err)
			}
		})
	}
}

func TestParseResultWhitespaceBeforeArray(t *testing.T) {
	raw := []byte("{\"categories\": \n\t [] }")
	if _, err := ParseResult(raw); err != nil {
		t.Errorf("leading whitespace should not matter: %v", err)
	}
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"Breaking", Breaking, true},
		{"breaking", Breaking, true},
		{"RESEARCH", Research, true},
		{"  trends  ", Trends, true},
		{"startups", Startups, true},
		{"Quantum", "Quantum", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeCategory(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("NormalizeCategory(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestFilterCategories(t *testing.T) {
	cats := []Category{
		{CategoryName: "Breaking"},
		{CategoryName: "Research"},
		{CategoryName: "Quantum"},
		{CategoryName: "Trends"},
	}

	selected := map[string]bool{}
	for _, name := range KnownCategories() {
		selected[name] = true
	}

	got := FilterCategories(cats, selected)
	if len(got) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(got))
	}
	// Order preserved, unknown label excluded.
	if got[0].CategoryName != "Breaking" || got[1].CategoryName != "Research" || got[2].CategoryName != "Trends" {
		t.Errorf("unexpected order: %v", got)
	}

	selected["Breaking"] = false
	got = FilterCategories(cats, selected)
	if len(got) != 2 {
		t.Errorf("expected 2 after toggling Breaking off, got %d", len(got))
	}

	if got := FilterCategories(cats, map[string]bool{}); len(got) != 0 {
		t.Errorf("empty set should filter everything, got %d", len(got))
	}
}

func TestCountStories(t *testing.T) {
	d := DigestData{
		Categories: []Category{
			{Stories: make([]Story, 3)},
			{Stories: make([]Story, 0)},
			{Stories: make([]Story, 2)},
		},
		TotalStories: 99,
	}
	if got := CountStories(d); got != 5 {
		t.Errorf("CountStories = %d, want 5", got)
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.SlackChannel != "" {
		t.Errorf("slackChannel default = %q", s.SlackChannel)
	}
	if s.DeliveryTime != "10:00" {
		t.Errorf("deliveryTime default = %q", s.DeliveryTime)
	}
	if s.Timezone != "America/New_York" {
		t.Errorf("timezone default = %q", s.Timezone)
	}
	if !s.Categories.Breaking || !s.Categories.Research || !s.Categories.Trends || !s.Categories.Startups {
		t.Errorf("all categories should default on: %+v", s.Categories)
	}
}
