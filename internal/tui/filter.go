package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/digest"
)

// categoryFilter tracks which of the known categories are visible.
// Unlike a free filter it is seeded: labels outside the known set never
// join it, so unknown agent labels stay hidden until the set learns them.
type categoryFilter struct {
	names  []string
	active map[string]bool
}

func newCategoryFilter(prefs digest.CategoryPrefs) categoryFilter {
	f := categoryFilter{
		names:  digest.KnownCategories(),
		active: make(map[string]bool),
	}
	f.active[digest.Breaking] = prefs.Breaking
	f.active[digest.Research] = prefs.Research
	f.active[digest.Trends] = prefs.Trends
	f.active[digest.Startups] = prefs.Startups
	return f
}

// toggle flips the nth known category (0-based).
func (f *categoryFilter) toggle(n int) {
	if n < 0 || n >= len(f.names) {
		return
	}
	name := f.names[n]
	f.active[name] = !f.active[name]
}

// selectionFor maps the digest's own labels onto the active set, so
// exact-name filtering works for case variants of known categories.
func (f *categoryFilter) selectionFor(cats []digest.Category) map[string]bool {
	sel := make(map[string]bool, len(cats))
	for _, c := range cats {
		canon, ok := digest.NormalizeCategory(c.CategoryName)
		if ok && f.active[canon] {
			sel[c.CategoryName] = true
		}
	}
	return sel
}

func (f *categoryFilter) apply(cats []digest.Category) []digest.Category {
	return digest.FilterCategories(cats, f.selectionFor(cats))
}

func (f *categoryFilter) allOn() bool {
	for _, n := range f.names {
		if !f.active[n] {
			return false
		}
	}
	return true
}

func (f *categoryFilter) render(width int) string {
	sep := tabSeparatorStyle.Render(" · ")
	var parts []string
	for i, n := range f.names {
		style := tabInactiveStyle
		if f.active[n] {
			style = tabActiveStyle
		}
		parts = append(parts, style.Render(fmt.Sprintf("%d %s", i+1, n)))
	}

	// Build row with · separators, stopping when we'd exceed width
	var row string
	for i, part := range parts {
		candidate := row
		if i > 0 {
			candidate += sep
		}
		candidate += part
		if lipgloss.Width(candidate) > width && row != "" {
			break
		}
		row = candidate
	}

	barStyle := lipgloss.NewStyle().
		Background(colorSurface).
		Width(width).
		PaddingLeft(1)
	return barStyle.Render(row)
}
