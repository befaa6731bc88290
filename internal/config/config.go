package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

type GatewayConfig struct {
	AgentURL    string `yaml:"agent_url"`
	ScheduleURL string `yaml:"schedule_url"`
	APIKey      string `yaml:"api_key,omitempty"`
	Timeout     string `yaml:"timeout"`
}

type AgentConfig struct {
	ID          string `yaml:"id"`
	Instruction string `yaml:"instruction"`
}

type ScheduleConfig struct {
	ID string `yaml:"id"`
}

type Config struct {
	Gateway  GatewayConfig  `yaml:"gateway"`
	Agent    AgentConfig    `yaml:"agent"`
	Schedule ScheduleConfig `yaml:"schedule"`
	DataDir  string         `yaml:"data_dir,omitempty"`
	LogLevel string         `yaml:"log_level,omitempty"`
}

// APIKey returns the resolved gateway key (config or env var).
func (c *Config) APIKey() string {
	if c.Gateway.APIKey != "" {
		return c.Gateway.APIKey
	}
	return os.Getenv("NEWSBOT_API_KEY")
}

func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Gateway.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// AgentConfigured reports whether fetches can run at all.
func (c *Config) AgentConfigured() bool {
	return c.Agent.ID != ""
}

// ScheduleConfigured reports whether schedule operations can run.
func (c *Config) ScheduleConfigured() bool {
	return c.Schedule.ID != ""
}

func (c *Config) DBPath() string {
	if c.DataDir != "" {
		return filepath.Join(c.DataDir, "newsbot.db")
	}
	return filepath.Join(xdg.DataHome, "newsbot", "newsbot.db")
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "newsbot", "config.yaml")
}

func LogPath() string {
	return filepath.Join(xdg.StateHome, "newsbot", "newsbot.log")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return cfg, nil
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Decoding over the defaults keeps them for any key the user's
	// file leaves out.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	if err := checkURL("gateway.agent_url", cfg.Gateway.AgentURL); err != nil {
		return err
	}
	if err := checkURL("gateway.schedule_url", cfg.Gateway.ScheduleURL); err != nil {
		return err
	}
	if cfg.Gateway.Timeout != "" {
		if d, err := time.ParseDuration(cfg.Gateway.Timeout); err != nil || d <= 0 {
			return fmt.Errorf("gateway.timeout %q is not a positive duration", cfg.Gateway.Timeout)
		}
	}
	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q (valid: debug, info, warn, error)", cfg.LogLevel)
	}
	return nil
}

func checkURL(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s is required", field)
	}
	u, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s: invalid url: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s: url scheme must be http or https, got %q", field, u.Scheme)
	}
	return nil
}
