package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/wardrobe-project/wardrobe/pkg/backup"
)

const envPrefix = "wardrobe"

// DefaultLockDir is the lock directory name used when nothing overrides
// it. Relative names land under the system temp directory.
const DefaultLockDir = "wardrobe.lock.d"

// Settings carries the resolved runtime configuration. Sources in
// ascending precedence: built-in defaults, the config file's settings
// block, WARDROBE_* environment variables, command-line flags (applied
// by the CLI on top of Resolve's result).
type Settings struct {
	Config        string `yaml:"-"              envconfig:"WARDROBE_CONFIG"`
	LockDir       string `yaml:"lock_dir"       envconfig:"WARDROBE_LOCK_DIR"`
	Journal       string `yaml:"journal"        envconfig:"WARDROBE_JOURNAL"`
	Tool          string `yaml:"tool"           envconfig:"WARDROBE_TOOL"`
	LogLevel      string `yaml:"log_level"      envconfig:"WARDROBE_LOG_LEVEL"`
	LogFormat     string `yaml:"log_format"     envconfig:"WARDROBE_LOG_FORMAT"`
	WebhookURL    string `yaml:"webhook_url"    envconfig:"WARDROBE_WEBHOOK_URL"`
	WebhookSecret string `yaml:"webhook_secret" envconfig:"WARDROBE_WEBHOOK_SECRET"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() (Settings, error) {
	cfgPath, err := DefaultPath()
	if err != nil {
		return Settings{}, err
	}
	journal, err := defaultJournalPath()
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		Config:    cfgPath,
		LockDir:   DefaultLockDir,
		Journal:   journal,
		Tool:      backup.DefaultTool,
		LogLevel:  "info",
		LogFormat: "console",
	}, nil
}

// DefaultPath returns the default config file location,
// ~/.config/wardrobe/config.yaml on most systems.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "wardrobe", "config.yaml"), nil
}

// Path picks the config file path: the flag when set, else
// WARDROBE_CONFIG, else the default location.
func Path(flagValue string) (string, error) {
	if flagValue != "" {
		return expandHome(flagValue)
	}
	if env := os.Getenv("WARDROBE_CONFIG"); env != "" {
		return expandHome(env)
	}
	return DefaultPath()
}

// Resolve layers the file's settings block (f may be nil) and the
// environment over the defaults.
func Resolve(f *File) (Settings, error) {
	s, err := DefaultSettings()
	if err != nil {
		return Settings{}, err
	}
	if f != nil {
		s.overlay(f.Settings)
	}
	if err := envconfig.Process(envPrefix, &s); err != nil {
		return Settings{}, fmt.Errorf("parsing environment variables: %w", err)
	}

	if s.Journal, err = expandHome(s.Journal); err != nil {
		return Settings{}, err
	}
	if s.LockDir, err = expandHome(s.LockDir); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s *Settings) overlay(o Settings) {
	if o.LockDir != "" {
		s.LockDir = o.LockDir
	}
	if o.Journal != "" {
		s.Journal = o.Journal
	}
	if o.Tool != "" {
		s.Tool = o.Tool
	}
	if o.LogLevel != "" {
		s.LogLevel = o.LogLevel
	}
	if o.LogFormat != "" {
		s.LogFormat = o.LogFormat
	}
	if o.WebhookURL != "" {
		s.WebhookURL = o.WebhookURL
	}
	if o.WebhookSecret != "" {
		s.WebhookSecret = o.WebhookSecret
	}
}

func defaultJournalPath() (string, error) {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "wardrobe", "journal.jsonl"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home dir: %w", err)
	}
	return filepath.Join(home, ".local", "state", "wardrobe", "journal.jsonl"), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home dir: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
