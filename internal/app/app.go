// Package app orchestrates dashboard actions against the gateways and
// the local store, independent of any rendering. The TUI and the CLI
// subcommands are both thin shells over it.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/config"
	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/digest"
	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/store"
)

// logLimit is how many execution logs accompany a schedule view.
const logLimit = 10

// ErrHistoryWrite marks a fetch whose digest arrived intact but could
// not be recorded locally. The digest accompanying it is still good.
var ErrHistoryWrite = errors.New("digest fetched but not saved to history")

// AgentInvoker is the slice of the agent gateway the app needs.
type AgentInvoker interface {
	Invoke(ctx context.Context, instruction, agentID string) (json.RawMessage, error)
}

// ScheduleService is the slice of the schedule gateway the app needs.
type ScheduleService interface {
	Get(ctx context.Context, id string) (digest.Schedule, error)
	Pause(ctx context.Context, id string) error
	Resume(ctx context.Context, id string) error
	Logs(ctx context.Context, id string, limit int) ([]digest.ExecutionLog, error)
}

type App struct {
	cfg   *config.Config
	store *store.Store
	agent AgentInvoker
	sched ScheduleService
	log   *zap.Logger
	now   func() time.Time
}

func New(cfg *config.Config, st *store.Store, agent AgentInvoker, sched ScheduleService, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	return &App{cfg: cfg, store: st, agent: agent, sched: sched, log: log, now: time.Now}
}

// FetchDigest invokes the agent, validates the payload shape and
// records exactly one history entry for a success. The returned
// history is the post-save list. When only the local write fails the
// digest still comes back, wrapped with ErrHistoryWrite so callers can
// show it and surface the warning without blocking.
func (a *App) FetchDigest(ctx context.Context) (digest.DigestData, []digest.HistoryEntry, error) {
	if !a.cfg.AgentConfigured() {
		return digest.DigestData{}, nil, fmt.Errorf("agent id not configured (set agent.id in %s)", config.DefaultConfigPath())
	}

	start := a.now()
	raw, err := a.agent.Invoke(ctx, a.cfg.Agent.Instruction, a.cfg.Agent.ID)
	if err != nil {
		a.log.Warn("digest fetch failed", zap.Error(err))
		return digest.DigestData{}, nil, err
	}

	d, err := digest.ParseResult(raw)
	if err != nil {
		a.log.Warn("digest payload rejected", zap.Error(err))
		return digest.DigestData{}, nil, err
	}

	history, err := a.store.SaveToHistory(d)
	if err != nil {
		a.log.Error("history write failed", zap.Error(err))
		return d, a.store.History(), fmt.Errorf("%w: %v", ErrHistoryWrite, err)
	}

	a.log.Info("digest fetched",
		zap.Int("total_stories", d.TotalStories),
		zap.Int("categories", len(d.Categories)),
		zap.Duration("took", a.now().Sub(start)))
	return d, history, nil
}

// ScheduleState fetches the schedule together with its recent
// executions.
func (a *App) ScheduleState(ctx context.Context) (digest.Schedule, []digest.ExecutionLog, error) {
	if !a.cfg.ScheduleConfigured() {
		return digest.Schedule{}, nil, fmt.Errorf("schedule id not configured (set schedule.id in %s)", config.DefaultConfigPath())
	}
	sched, err := a.sched.Get(ctx, a.cfg.Schedule.ID)
	if err != nil {
		return digest.Schedule{}, nil, err
	}
	logs, err := a.sched.Logs(ctx, a.cfg.Schedule.ID, logLimit)
	if err != nil {
		return digest.Schedule{}, nil, err
	}
	return sched, logs, nil
}

// ToggleSchedule pauses an active schedule or resumes a paused one,
// then re-fetches the schedule and its executions. On failure the
// caller's current state stays valid and nothing is retried.
func (a *App) ToggleSchedule(ctx context.Context, current digest.Schedule) (digest.Schedule, []digest.ExecutionLog, error) {
	if !a.cfg.ScheduleConfigured() {
		return digest.Schedule{}, nil, fmt.Errorf("schedule id not configured (set schedule.id in %s)", config.DefaultConfigPath())
	}

	op, name := a.sched.Resume, "resume"
	if current.IsActive {
		op, name = a.sched.Pause, "pause"
	}
	if err := op(ctx, a.cfg.Schedule.ID); err != nil {
		a.log.Warn("schedule toggle failed", zap.String("op", name), zap.Error(err))
		return digest.Schedule{}, nil, err
	}

	a.log.Info("schedule toggled", zap.String("op", name))
	return a.ScheduleState(ctx)
}

func (a *App) History() []digest.HistoryEntry { return a.store.History() }

func (a *App) ClearHistory() error { return a.store.ClearHistory() }

func (a *App) Settings() digest.Settings { return a.store.Settings() }

func (a *App) SaveSettings(s digest.Settings) error {
	if err := a.store.SaveSettings(s); err != nil {
		a.log.Error("settings write failed", zap.Error(err))
		return err
	}
	a.log.Info("settings saved", zap.String("delivery_time", s.DeliveryTime), zap.String("timezone", s.Timezone))
	return nil
}

func (a *App) Stats() (store.Stats, error) { return a.store.Stats() }
