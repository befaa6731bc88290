package tui

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/app"
	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/config"
	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/digest"
	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/store"
)

type stubAgent struct{}

func (stubAgent) Invoke(ctx context.Context, instruction, agentID string) (json.RawMessage, error) {
	return json.RawMessage(`{"categories":[]}`), nil
}

type stubScheduler struct{}

func (stubScheduler) Get(ctx context.Context, id string) (digest.Schedule, error) {
	return digest.Schedule{IsActive: true, CronExpression: "0 10 * * *"}, nil
}
func (stubScheduler) Pause(ctx context.Context, id string) error  { return nil }
func (stubScheduler) Resume(ctx context.Context, id string) error { return nil }
func (stubScheduler) Logs(ctx context.Context, id string, limit int) ([]digest.ExecutionLog, error) {
	return nil, nil
}

var (
	_ app.AgentInvoker    = stubAgent{}
	_ app.ScheduleService = stubScheduler{}
)

func testModel(t *testing.T) (*App, *store.Store) {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "newsbot.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	cfg := &config.Config{
		Agent:    config.AgentConfig{ID: "agent-1", Instruction: "fetch the news"},
		Schedule: config.ScheduleConfig{ID: "sched-1"},
	}
	svc := app.New(cfg, st, stubAgent{}, stubScheduler{}, nil)

	return NewApp(RunOpts{Cfg: cfg, Service: svc}), st
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func press(t *testing.T, a *App, s string) (*App, tea.Cmd) {
	t.Helper()
	m, cmd := a.Update(key(s))
	next, ok := m.(*App)
	if !ok {
		t.Fatalf("Update returned %T, want *App", m)
	}
	return next, cmd
}

func TestNewAppSeedsFromHistory(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "newsbot.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	if _, err := st.SaveToHistory(digest.DigestData{DigestDate: "2026-02-14", TotalStories: 7}); err != nil {
		t.Fatalf("seeding history: %v", err)
	}

	cfg := &config.Config{}
	svc := app.New(cfg, st, stubAgent{}, stubScheduler{}, nil)
	a := NewApp(RunOpts{Cfg: cfg, Service: svc})

	if a.digest == nil {
		t.Fatal("expected newest saved digest to seed the dashboard")
	}
	if a.digest.TotalStories != 7 {
		t.Errorf("seeded digest has %d stories, want 7", a.digest.TotalStories)
	}
}

func TestModeSwitching(t *testing.T) {
	a, _ := testModel(t)

	a, _ = press(t, a, "h")
	if a.mode != modeHistory {
		t.Fatalf("after h, mode = %v, want history", a.mode)
	}
	a, _ = press(t, a, "esc")
	if a.mode != modeDashboard {
		t.Fatalf("after esc, mode = %v, want dashboard", a.mode)
	}

	a, _ = press(t, a, "?")
	if a.mode != modeHelp {
		t.Fatalf("after ?, mode = %v, want help", a.mode)
	}
	a, _ = press(t, a, "q")
	if a.mode != modeDashboard {
		t.Fatalf("q should close help, mode = %v", a.mode)
	}

	a, _ = press(t, a, "o")
	if a.mode != modeSettings {
		t.Fatalf("after o, mode = %v, want settings", a.mode)
	}
	a, _ = press(t, a, "esc")
	if a.mode != modeDashboard {
		t.Fatalf("esc should leave settings, mode = %v", a.mode)
	}
}

func TestFetchKeyRespectsBusy(t *testing.T) {
	a, _ := testModel(t)

	var cmd tea.Cmd
	a, cmd = press(t, a, "f")
	if cmd == nil {
		t.Fatal("f should start a fetch")
	}
	if !a.busy {
		t.Fatal("fetch should mark the model busy")
	}

	_, cmd = press(t, a, "f")
	if cmd != nil {
		t.Error("second f while busy should be ignored")
	}
}

func TestFetchKeyUnconfigured(t *testing.T) {
	a, _ := testModel(t)
	a.cfg.Agent.ID = ""

	var cmd tea.Cmd
	a, cmd = press(t, a, "f")
	if cmd != nil {
		t.Error("fetch without an agent id should not launch a command")
	}
	if a.busy {
		t.Error("model should not be busy")
	}
	if a.status == "" {
		t.Error("expected a status hint about configuration")
	}
}

func TestToggleKeyNeedsSchedule(t *testing.T) {
	a, _ := testModel(t)

	var cmd tea.Cmd
	a, cmd = press(t, a, "s")
	if cmd != nil {
		t.Error("toggle without loaded schedule should not launch a command")
	}
	if a.status == "" {
		t.Error("expected a status hint to reload first")
	}

	sched := digest.Schedule{IsActive: true}
	a.schedule = &sched
	a, cmd = press(t, a, "s")
	if cmd == nil {
		t.Error("toggle with a loaded schedule should launch a command")
	}
	if !a.busy {
		t.Error("toggle should mark the model busy")
	}
}

func TestDigestMsgUpdatesModel(t *testing.T) {
	a, _ := testModel(t)
	a.busy = true
	a.scroll = 5

	d := digest.DigestData{DigestDate: "2026-02-14", TotalStories: 3}
	hist := []digest.HistoryEntry{{ID: "e1", Data: d}}
	m, _ := a.Update(digestMsg{digest: d, history: hist})
	a = m.(*App)

	if a.busy {
		t.Error("digestMsg should clear busy")
	}
	if a.scroll != 0 {
		t.Error("a fresh digest should reset scroll")
	}
	if a.digest == nil || a.digest.TotalStories != 3 {
		t.Error("digest not set from message")
	}
	if len(a.history) != 1 {
		t.Errorf("history length %d, want 1", len(a.history))
	}
	if a.status == "" {
		t.Error("expected a fetched status note")
	}
}

func TestScheduleMsgNote(t *testing.T) {
	a, _ := testModel(t)
	a.busy = true

	m, _ := a.Update(scheduleMsg{schedule: digest.Schedule{IsActive: false}, note: "Schedule paused"})
	a = m.(*App)

	if a.busy {
		t.Error("scheduleMsg should clear busy")
	}
	if a.schedule == nil || a.schedule.IsActive {
		t.Error("schedule not updated from message")
	}
	if a.status != "Schedule paused" {
		t.Errorf("status = %q, want note", a.status)
	}
}

func TestCategoryKeysToggleFilter(t *testing.T) {
	a, _ := testModel(t)

	a, _ = press(t, a, "1")
	if a.filter.active[digest.Breaking] {
		t.Error("1 should hide Breaking")
	}
	a, _ = press(t, a, "1")
	if !a.filter.active[digest.Breaking] {
		t.Error("1 again should show Breaking")
	}
}

func TestHistoryExpandCollapse(t *testing.T) {
	a, st := testModel(t)
	if _, err := st.SaveToHistory(digest.DigestData{TotalStories: 1}); err != nil {
		t.Fatalf("seeding history: %v", err)
	}
	a.history = a.svc.History()

	a, _ = press(t, a, "h")
	id := a.history[0].ID

	a, _ = press(t, a, "enter")
	if !a.expanded[id] {
		t.Error("enter should expand the selected entry")
	}
	a, _ = press(t, a, "enter")
	if a.expanded[id] {
		t.Error("enter again should collapse it")
	}
}

func TestSettingsSaveFlow(t *testing.T) {
	a, _ := testModel(t)

	a, _ = press(t, a, "o")
	a.form.cursor = fieldBreaking
	a.form.toggleCurrent()

	_, cmd := press(t, a, "enter")
	if cmd == nil {
		t.Fatal("enter should trigger a save")
	}

	m, _ := a.Update(cmd())
	a = m.(*App)

	if a.mode != modeDashboard {
		t.Errorf("after save, mode = %v, want dashboard", a.mode)
	}
	if a.filter.active[digest.Breaking] {
		t.Error("filter should reseed from the saved prefs")
	}
	if a.svc.Settings().Categories.Breaking {
		t.Error("store should hold Breaking=false after save")
	}
	if !a.svc.Settings().Categories.Research {
		t.Error("untouched prefs should survive the save")
	}
}

func TestErrorClearsOnKeypress(t *testing.T) {
	a, _ := testModel(t)

	m, _ := a.Update(digestErrMsg{err: context.DeadlineExceeded})
	a = m.(*App)
	if a.err == nil {
		t.Fatal("error should be sticky until a key arrives")
	}

	a, _ = press(t, a, "j")
	if a.err != nil {
		t.Error("any keypress should clear the error")
	}
}
