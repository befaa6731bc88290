package tui

import (
	"testing"

	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/digest"
)

func TestNewCategoryFilterSeedsFromPrefs(t *testing.T) {
	f := newCategoryFilter(digest.CategoryPrefs{Breaking: true, Research: false, Trends: true, Startups: false})

	if !f.active[digest.Breaking] || !f.active[digest.Trends] {
		t.Error("expected Breaking and Trends active")
	}
	if f.active[digest.Research] || f.active[digest.Startups] {
		t.Error("expected Research and Startups inactive")
	}
	if f.allOn() {
		t.Error("allOn should be false with two categories off")
	}
}

func TestCategoryFilterToggle(t *testing.T) {
	f := newCategoryFilter(digest.DefaultSettings().Categories)

	if !f.allOn() {
		t.Fatal("defaults should start all on")
	}

	f.toggle(0)
	if f.active[digest.Breaking] {
		t.Error("toggle(0) should turn Breaking off")
	}
	f.toggle(0)
	if !f.active[digest.Breaking] {
		t.Error("second toggle should turn Breaking back on")
	}

	// Out-of-range toggles are ignored
	f.toggle(-1)
	f.toggle(99)
	if !f.allOn() {
		t.Error("out-of-range toggle changed state")
	}
}

func TestCategoryFilterApply(t *testing.T) {
	f := newCategoryFilter(digest.DefaultSettings().Categories)
	f.toggle(1) // Research off

	cats := []digest.Category{
		{CategoryName: "Breaking"},
		{CategoryName: "research"}, // case variant of a known label
		{CategoryName: "Trends"},
		{CategoryName: "Quantum"}, // unknown label stays hidden
	}

	got := f.apply(cats)
	if len(got) != 2 {
		t.Fatalf("apply returned %d categories, want 2", len(got))
	}
	if got[0].CategoryName != "Breaking" || got[1].CategoryName != "Trends" {
		t.Errorf("apply kept %q, %q; want Breaking, Trends", got[0].CategoryName, got[1].CategoryName)
	}
}

func TestCategoryFilterCaseInsensitive(t *testing.T) {
	f := newCategoryFilter(digest.DefaultSettings().Categories)

	cats := []digest.Category{{CategoryName: "BREAKING"}}
	got := f.apply(cats)
	if len(got) != 1 {
		t.Fatal("case variant of an active known label should pass the filter")
	}
	if got[0].CategoryName != "BREAKING" {
		t.Errorf("filter should preserve the original label, got %q", got[0].CategoryName)
	}
}
