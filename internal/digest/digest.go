package digest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Canonical labels the agent uses today. Free-form labels outside this
// list still render; they just start outside the default filter.
const (
	Breaking = "Breaking"
	Research = "Research"
	Trends   = "Trends"
	Startups = "Startups"
)

// KnownCategories returns the four canonical labels in display order.
func KnownCategories() []string {
	return []string{Breaking, Research, Trends, Startups}
}

// NormalizeCategory maps a label to its canonical spelling,
// case-insensitively. Unknown labels come back unchanged with ok=false.
func NormalizeCategory(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	for _, c := range KnownCategories() {
		if strings.EqualFold(c, trimmed) {
			return c, true
		}
	}
	return name, false
}

// ErrInvalidShape reports an agent payload that decoded as JSON but
// lacks an array-typed categories field.
var ErrInvalidShape = errors.New("digest payload missing categories array")

// ParseResult validates and decodes an agent invocation result. The
// payload must be a JSON object whose categories field is an array;
// anything else is a shape failure, distinct from gateway failures so
// the caller can report it separately.
func ParseResult(raw []byte) (DigestData, error) {
	var probe struct {
		Categories json.RawMessage `json:"categories"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return DigestData{}, fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}
	if !isJSONArray(probe.Categories) {
		return DigestData{}, ErrInvalidShape
	}
	var d DigestData
	if err := json.Unmarshal(raw, &d); err != nil {
		return DigestData{}, fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}
	return d, nil
}

func isJSONArray(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b == '['
	}
	return false
}

// FilterCategories keeps the categories whose name is in the selected
// set, preserving order. A name absent from the set is excluded, which
// is what keeps never-seen labels out of a default view.
func FilterCategories(cats []Category, selected map[string]bool) []Category {
	out := make([]Category, 0, len(cats))
	for _, c := range cats {
		if selected[c.CategoryName] {
			out = append(out, c)
		}
	}
	return out
}

// CountStories sums the stories across categories. Display helper
// only: TotalStories stays whatever the agent reported.
func CountStories(d DigestData) int {
	n := 0
	for _, c := range d.Categories {
		n += len(c.Stories)
	}
	return n
}
