package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/digest"
	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/schedule"
)

const (
	fieldChannel = iota
	fieldTime
	fieldZone
	fieldBreaking
	fieldResearch
	fieldTrends
	fieldStartups
	fieldCount
)

// settingsForm is the editable draft; nothing persists until save.
type settingsForm struct {
	inputs []textinput.Model
	prefs  digest.CategoryPrefs
	cursor int
}

func newSettingsForm(s digest.Settings) settingsForm {
	channel := textinput.New()
	channel.Placeholder = "#ai-news"
	channel.CharLimit = 80
	channel.SetValue(s.SlackChannel)

	deliver := textinput.New()
	deliver.Placeholder = "10:00"
	deliver.CharLimit = 5
	deliver.SetValue(s.DeliveryTime)

	zone := textinput.New()
	zone.Placeholder = "America/New_York"
	zone.CharLimit = 60
	zone.SetValue(s.Timezone)

	return settingsForm{
		inputs: []textinput.Model{channel, deliver, zone},
		prefs:  s.Categories,
	}
}

func (f *settingsForm) next() { f.cursor = (f.cursor + 1) % fieldCount }

func (f *settingsForm) prev() { f.cursor = (f.cursor + fieldCount - 1) % fieldCount }

// focusCurrent moves textinput focus to the cursor's field, if it is one.
func (f *settingsForm) focusCurrent() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	if f.cursor < len(f.inputs) {
		f.inputs[f.cursor].Focus()
		return textinput.Blink
	}
	return nil
}

func (f *settingsForm) toggleCurrent() {
	switch f.cursor {
	case fieldBreaking:
		f.prefs.Breaking = !f.prefs.Breaking
	case fieldResearch:
		f.prefs.Research = !f.prefs.Research
	case fieldTrends:
		f.prefs.Trends = !f.prefs.Trends
	case fieldStartups:
		f.prefs.Startups = !f.prefs.Startups
	}
}

func (f *settingsForm) onToggle() bool { return f.cursor >= fieldBreaking }

// settings assembles the draft into a record for wholesale save.
func (f *settingsForm) settings() digest.Settings {
	return digest.Settings{
		SlackChannel: strings.TrimSpace(f.inputs[fieldChannel].Value()),
		DeliveryTime: strings.TrimSpace(f.inputs[fieldTime].Value()),
		Timezone:     strings.TrimSpace(f.inputs[fieldZone].Value()),
		Categories:   f.prefs,
	}
}

func (f *settingsForm) updateFocused(msg tea.Msg) tea.Cmd {
	if f.cursor >= len(f.inputs) {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.cursor], cmd = f.inputs[f.cursor].Update(msg)
	return cmd
}

func renderSettingsForm(f settingsForm, width, height int, now time.Time) string {
	label := func(idx int, text string) string {
		if f.cursor == idx {
			return formFocusStyle.Render("> " + text)
		}
		return formLabelStyle.Render("  " + text)
	}
	check := func(idx int, text string, on bool) string {
		glyph := failGlyphStyle.Render("✗")
		if on {
			glyph = okGlyphStyle.Render("✓")
		}
		return label(idx, text) + " " + glyph
	}

	var b strings.Builder
	b.WriteString(categoryHeaderStyle.Render("Delivery Settings") + "\n\n")
	b.WriteString(label(fieldChannel, "Slack channel ") + f.inputs[fieldChannel].View() + "\n")
	b.WriteString(label(fieldTime, "Delivery time ") + f.inputs[fieldTime].View() + "\n")
	b.WriteString(label(fieldZone, "Timezone      ") + f.inputs[fieldZone].View() + "\n\n")
	b.WriteString(formLabelStyle.Render("  Categories") + "\n")
	b.WriteString(check(fieldBreaking, "Breaking ", f.prefs.Breaking) + "\n")
	b.WriteString(check(fieldResearch, "Research ", f.prefs.Research) + "\n")
	b.WriteString(check(fieldTrends, "Trends   ", f.prefs.Trends) + "\n")
	b.WriteString(check(fieldStartups, "Startups ", f.prefs.Startups) + "\n\n")
	b.WriteString(entryTimeStyle.Render(deliveryPreview(f.settings(), now)))

	card := helpCardStyle.Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

// deliveryPreview computes the next local delivery from the draft's
// time and zone, the same expression the scheduler would run.
func deliveryPreview(s digest.Settings, now time.Time) string {
	expr, err := schedule.CronForDailyTime(s.DeliveryTime)
	if err != nil {
		return "Delivery preview unavailable (time must be HH:MM)"
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil || s.Timezone == "" {
		return "Delivery preview unavailable (unknown timezone)"
	}
	next, err := schedule.Next(expr, now.In(loc))
	if err != nil {
		return "Delivery preview unavailable"
	}
	return "Next delivery: " + next.Format("Mon Jan 2, 3:04 PM") + " (" + s.Timezone + ")"
}
