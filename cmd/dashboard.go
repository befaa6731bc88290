package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/app"
	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/config"
	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/gateway"
	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/store"
	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/internal/tui"
)

// services bundles everything a command needs: config, the local
// store, the file logger and the wired-up orchestrator.
type services struct {
	cfg   *config.Config
	store *store.Store
	log   *zap.Logger
	app   *app.App
}

func newServices() (*services, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening log: %w", err)
	}

	st, err := store.Open(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	agent := gateway.NewAgentClient(cfg.Gateway.AgentURL, cfg.APIKey(), cfg.TimeoutDuration())
	sched := gateway.NewScheduleClient(cfg.Gateway.ScheduleURL, cfg.APIKey(), cfg.TimeoutDuration())

	return &services{
		cfg:   cfg,
		store: st,
		log:   log,
		app:   app.New(cfg, st, agent, sched, log),
	}, nil
}

func (s *services) close() {
	_ = s.store.Close()
	_ = s.log.Sync()
}

// newLogger writes JSON lines to the XDG state dir; stdout belongs to
// the dashboard.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	path := config.LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	c := zap.NewProductionConfig()
	c.OutputPaths = []string{path}
	c.ErrorOutputPaths = []string{path}
	if cfg.LogLevel != "" {
		lvl, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("log level %q: %w", cfg.LogLevel, err)
		}
		c.Level = zap.NewAtomicLevelAt(lvl)
	}
	return c.Build()
}

func runDashboard(cmd *cobra.Command, args []string) error {
	s, err := newServices()
	if err != nil {
		return err
	}
	defer s.close()

	return tui.Run(tui.RunOpts{Cfg: s.cfg, Service: s.app, Version: version})
}
