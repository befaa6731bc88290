// Package tui renders the newsbot dashboard: the current digest by
// category, the remote delivery schedule, saved history, and settings.
// All gateway work happens in tea.Cmd closures; Update stays pure.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/app"
	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/config"
	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/digest"
	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/update"
)

type mode int

const (
	modeDashboard mode = iota
	modeHistory
	modeSettings
	modeHelp
)

type App struct {
	cfg *config.Config
	svc *app.App

	digest   *digest.DigestData
	history  []digest.HistoryEntry
	schedule *digest.Schedule
	logs     []digest.ExecutionLog

	mode     mode
	filter   categoryFilter
	form     settingsForm
	cursor   int
	expanded map[string]bool
	scroll   int

	width  int
	height int

	// Sub-components
	spinner spinner.Model

	// State
	busy          bool
	status        string
	err           error
	currentDate   string
	version       string
	updateVersion string
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Cfg     *config.Config
	Service *app.App
	Version string
}

func NewApp(opts RunOpts) *App {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	a := &App{
		cfg:         opts.Cfg,
		svc:         opts.Service,
		spinner:     sp,
		expanded:    make(map[string]bool),
		currentDate: time.Now().Format("Monday, Jan 2"),
		version:     opts.Version,
	}

	settings := opts.Service.Settings()
	a.filter = newCategoryFilter(settings.Categories)

	// Start from the newest saved digest so the dashboard is useful
	// before the first fetch.
	a.history = opts.Service.History()
	if len(a.history) > 0 {
		d := a.history[0].Data
		a.digest = &d
	}

	return a
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}
	if a.cfg.ScheduleConfigured() {
		cmds = append(cmds, a.loadScheduleCmd(""))
	}
	if a.version != "" && a.version != "dev" {
		cmds = append(cmds, a.checkUpdateCmd())
	}
	return tea.Batch(cmds...)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchDigestCmd captures the service into the closure to avoid races.
func (a *App) fetchDigestCmd() tea.Cmd {
	svc := a.svc
	timeout := a.cfg.TimeoutDuration()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		d, hist, err := svc.FetchDigest(ctx)
		if err != nil && !errors.Is(err, app.ErrHistoryWrite) {
			return digestErrMsg{err: err}
		}
		return digestMsg{digest: d, history: hist, warn: err}
	}
}

func (a *App) loadScheduleCmd(note string) tea.Cmd {
	svc := a.svc
	timeout := a.cfg.TimeoutDuration()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		sched, logs, err := svc.ScheduleState(ctx)
		if err != nil {
			return scheduleErrMsg{err: err}
		}
		return scheduleMsg{schedule: sched, logs: logs, note: note}
	}
}

func (a *App) toggleScheduleCmd(current digest.Schedule) tea.Cmd {
	svc := a.svc
	timeout := a.cfg.TimeoutDuration()
	note := "Schedule resumed"
	if current.IsActive {
		note = "Schedule paused"
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		sched, logs, err := svc.ToggleSchedule(ctx, current)
		if err != nil {
			return scheduleErrMsg{err: err}
		}
		return scheduleMsg{schedule: sched, logs: logs, note: note}
	}
}

func (a *App) saveSettingsCmd(s digest.Settings) tea.Cmd {
	svc := a.svc
	return func() tea.Msg {
		return settingsSavedMsg{err: svc.SaveSettings(s)}
	}
}

func (a *App) checkUpdateCmd() tea.Cmd {
	v := a.version
	return func() tea.Msg {
		res := update.Check(context.Background(), v)
		if res == nil {
			return nil
		}
		return updateMsg{version: res.LatestVersion, url: res.URL}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		// Clear sticky error and transient notes on any keypress
		a.err = nil
		a.status = ""
		return a.handleKey(msg)

	case digestMsg:
		a.busy = false
		d := msg.digest
		a.digest = &d
		a.history = msg.history
		a.scroll = 0
		if msg.warn != nil {
			a.err = msg.warn
		} else {
			a.status = fmt.Sprintf("Fetched %d stories", d.TotalStories)
		}
		return a, nil

	case digestErrMsg:
		a.busy = false
		a.err = msg.err
		return a, nil

	case scheduleMsg:
		a.busy = false
		s := msg.schedule
		a.schedule = &s
		a.logs = msg.logs
		if msg.note != "" {
			a.status = msg.note
		}
		return a, nil

	case scheduleErrMsg:
		a.busy = false
		a.err = msg.err
		return a, nil

	case settingsSavedMsg:
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.filter = newCategoryFilter(a.form.settings().Categories)
		a.mode = modeDashboard
		a.status = "Settings saved"
		return a, nil

	case updateMsg:
		a.updateVersion = msg.version
		return a, nil

	case tickMsg:
		// Relative times re-render; nothing else changes.
		return a, tickCmd()

	case spinner.TickMsg:
		if a.busy {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	}

	switch a.mode {
	case modeHistory:
		return a.handleHistoryKey(msg)
	case modeSettings:
		return a.handleSettingsKey(msg)
	case modeHelp:
		if msg.String() == "?" || msg.String() == "esc" || msg.String() == "q" {
			a.mode = modeDashboard
		}
		return a, nil
	}

	// Dashboard mode
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "f":
		if a.busy {
			return a, nil
		}
		if !a.cfg.AgentConfigured() {
			a.status = "No agent configured — set agent.id in config"
			return a, nil
		}
		a.busy = true
		return a, tea.Batch(a.fetchDigestCmd(), a.spinner.Tick)
	case "s":
		if a.busy {
			return a, nil
		}
		if a.schedule == nil {
			a.status = "Schedule not loaded — press r to reload"
			return a, nil
		}
		a.busy = true
		return a, tea.Batch(a.toggleScheduleCmd(*a.schedule), a.spinner.Tick)
	case "r":
		if a.busy {
			return a, nil
		}
		if !a.cfg.ScheduleConfigured() {
			a.status = "No schedule configured — set schedule.id in config"
			return a, nil
		}
		a.busy = true
		return a, tea.Batch(a.loadScheduleCmd("Schedule refreshed"), a.spinner.Tick)
	case "1", "2", "3", "4":
		a.filter.toggle(int(msg.String()[0] - '1'))
		return a, nil
	case "j", "down":
		a.scroll++
		return a, nil
	case "k", "up":
		if a.scroll > 0 {
			a.scroll--
		}
		return a, nil
	case "h":
		a.mode = modeHistory
		a.cursor = 0
		return a, nil
	case "o":
		a.mode = modeSettings
		a.form = newSettingsForm(a.svc.Settings())
		return a, a.form.focusCurrent()
	case "?":
		a.mode = modeHelp
		return a, nil
	}

	return a, nil
}

func (a *App) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "esc", "h":
		a.mode = modeDashboard
		return a, nil
	case "j", "down":
		if a.cursor < len(a.history)-1 {
			a.cursor++
		}
		return a, nil
	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil
	case "enter", " ":
		if a.cursor < len(a.history) {
			id := a.history[a.cursor].ID
			a.expanded[id] = !a.expanded[id]
		}
		return a, nil
	}
	return a, nil
}

func (a *App) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeDashboard
		return a, nil
	case "tab", "down":
		a.form.next()
		return a, a.form.focusCurrent()
	case "shift+tab", "up":
		a.form.prev()
		return a, a.form.focusCurrent()
	case "enter":
		return a, a.saveSettingsCmd(a.form.settings())
	case " ":
		if a.form.onToggle() {
			a.form.toggleCurrent()
			return a, nil
		}
	}

	return a, a.form.updateFocused(msg)
}

func (a *App) statusLeft() string {
	if a.err != nil {
		return errStyle.Render("✗ " + a.err.Error())
	}

	left := fmt.Sprintf(" %d saved", len(a.history))
	if a.digest != nil {
		left = fmt.Sprintf(" %d stories · %d saved", a.digest.TotalStories, len(a.history))
	}
	if !a.filter.allOn() {
		left += " · filtered"
	}
	if a.status != "" {
		left += " · " + a.status
	}
	if a.updateVersion != "" {
		left += " · " + okGlyphStyle.Render("v"+a.updateVersion+" available")
	}
	if a.busy {
		left = a.spinner.View() + left
	}
	return left
}

func (a *App) withBottomBar(content string, hints string) string {
	bar := renderStatusBar(a.statusLeft(), hints, a.width)
	lines := strings.Split(content, "\n")
	for len(lines) < a.height-1 {
		lines = append(lines, "")
	}
	if len(lines) >= a.height {
		lines = lines[:a.height-1]
	}
	lines = append(lines, bar)
	return strings.Join(lines, "\n")
}

func (a *App) renderHeader() string {
	headerLeft := headerStyle.Render("newsbot")
	headerRight := greetingStyle.Render(greeting(time.Now().Hour())) +
		headerDateStyle.Render(" · "+a.currentDate+" ")
	headerGap := a.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight)
	if headerGap < 0 {
		headerGap = 0
	}
	return headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  newsbot")
	}

	switch a.mode {
	case modeHelp:
		return a.withBottomBar(a.renderHelp(), "? close  q quit")

	case modeSettings:
		content := renderSettingsForm(a.form, a.width, a.height-1, time.Now())
		return a.withBottomBar(content, "tab next  space toggle  enter save  esc cancel")

	case modeHistory:
		contentHeight := a.height - 4 // header + borders + bar
		if contentHeight < 3 {
			contentHeight = 3
		}
		pane := panelActiveStyle.Width(a.width - 2).Height(contentHeight).
			Render(renderHistoryList(a.history, a.cursor, a.expanded, a.width-2, contentHeight))
		content := lipgloss.JoinVertical(lipgloss.Left, a.renderHeader(), pane)
		return a.withBottomBar(content, "j/k move  enter expand  esc back  q quit")
	}

	// Dashboard
	header := a.renderHeader()
	filterBar := a.filter.render(a.width)
	schedPanel := renderSchedulePanel(a.schedule, a.logs, time.Now(), a.width)

	contentHeight := a.height - 1 - 1 - lipgloss.Height(schedPanel) - 2 - 1
	if contentHeight < 3 {
		contentHeight = 3
	}

	body := renderDigestBody(a.digest, a.filter, a.width, contentHeight, a.scroll)
	digestPane := panelStyle.Width(a.width - 2).Height(contentHeight).Render(body)

	content := lipgloss.JoinVertical(lipgloss.Left, header, filterBar, schedPanel, digestPane)
	return a.withBottomBar(content, "f fetch  s pause/resume  r reload  h history  o settings  ? help  q quit")
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("newsbot")
	dim := helpDimStyle

	help := title + dim.Render(" — Keyboard Shortcuts") + "\n\n" +
		dim.Render("Dashboard") + "\n" +
		"  f             Fetch a fresh digest\n" +
		"  s             Pause or resume the delivery schedule\n" +
		"  r             Reload schedule state\n" +
		"  1-4           Toggle category visibility\n" +
		"  j/k, ↑/↓     Scroll the digest\n\n" +
		dim.Render("Screens") + "\n" +
		"  h             Digest history\n" +
		"  o             Delivery settings\n" +
		"  ?             Toggle this help\n\n" +
		dim.Render("History") + "\n" +
		"  j/k, ↑/↓     Move between saved digests\n" +
		"  enter         Expand or collapse an entry\n\n" +
		dim.Render("Settings") + "\n" +
		"  tab           Next field\n" +
		"  space         Toggle a category\n" +
		"  enter         Save\n\n" +
		dim.Render("General") + "\n" +
		"  esc           Back to dashboard\n" +
		"  q, ctrl+c    Quit"

	card := helpCardStyle.Render(help)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

// Run starts the TUI application.
func Run(opts RunOpts) error {
	model := NewApp(opts)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
