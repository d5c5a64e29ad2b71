package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// NotificationSettings holds the global and per-category reminder
// toggles. A category absent from Categories is treated as enabled.
type NotificationSettings struct {
	Enabled    bool            `mapstructure:"enabled" yaml:"enabled"`
	Categories map[string]bool `mapstructure:"categories" yaml:"categories"`
}

// TelegramSettings holds the delivery channel configuration. The bot
// token is not stored here; it lives in the system keyring.
type TelegramSettings struct {
	Enabled bool  `mapstructure:"enabled" yaml:"enabled"`
	ChatID  int64 `mapstructure:"chat_id" yaml:"chat_id"`
}

// DisplaySettings holds presentation preferences consumed by UI layers.
type DisplaySettings struct {
	Theme    string `mapstructure:"theme" yaml:"theme"`
	Language string `mapstructure:"language" yaml:"language"`
}

// Settings is the top-level application configuration. It is loaded
// once and passed explicitly to the components that read or write it;
// there is no ambient global settings state.
type Settings struct {
	DatabasePath  string               `mapstructure:"database_path" yaml:"database_path"`
	Notifications NotificationSettings `mapstructure:"notifications" yaml:"notifications"`
	Telegram      TelegramSettings     `mapstructure:"telegram" yaml:"telegram"`
	Display       DisplaySettings      `mapstructure:"display" yaml:"display"`

	// SummaryCron is the cron spec for the daily summary job.
	SummaryCron string `mapstructure:"summary_cron" yaml:"summary_cron"`

	path string
}

// DefaultSettingsPath returns the default path for the configuration
// file, located at ~/.config/daybook/config.yaml.
func DefaultSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "daybook", "config.yaml")
}

func defaultSettings(path string) *Settings {
	return &Settings{
		DatabasePath: filepath.Join(filepath.Dir(path), "daybook.db"),
		Notifications: NotificationSettings{
			Enabled:    true,
			Categories: map[string]bool{},
		},
		Display: DisplaySettings{
			Theme:    "default",
			Language: "en",
		},
		SummaryCron: "0 21 * * *",
		path:        path,
	}
}

// LoadSettings reads configuration from the given YAML file path using
// Viper. If the file does not exist, it returns defaults.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("database_path", filepath.Join(filepath.Dir(path), "daybook.db"))
	v.SetDefault("notifications.enabled", true)
	v.SetDefault("display.theme", "default")
	v.SetDefault("display.language", "en")
	v.SetDefault("summary_cron", "0 21 * * *")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultSettings(path), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultSettings(path), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultSettings(path)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Notifications.Categories == nil {
		cfg.Notifications.Categories = map[string]bool{}
	}
	cfg.path = path
	return cfg, nil
}

// Save persists the settings back to the file they were loaded from.
func (s *Settings) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("database_path", s.DatabasePath)
	v.Set("notifications.enabled", s.Notifications.Enabled)
	v.Set("notifications.categories", s.Notifications.Categories)
	v.Set("telegram.enabled", s.Telegram.Enabled)
	v.Set("telegram.chat_id", s.Telegram.ChatID)
	v.Set("display.theme", s.Display.Theme)
	v.Set("display.language", s.Display.Language)
	v.Set("summary_cron", s.SummaryCron)

	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("writing config %s: %w", s.path, err)
	}
	return nil
}

// NotificationsEnabledFor reports whether reminders should be scheduled
// for todos in the given category.
func (s *Settings) NotificationsEnabledFor(category string) bool {
	if !s.Notifications.Enabled {
		return false
	}
	enabled, ok := s.Notifications.Categories[category]
	if !ok {
		return true
	}
	return enabled
}

// SetNotificationsEnabled flips the global reminder toggle.
func (s *Settings) SetNotificationsEnabled(enabled bool) {
	s.Notifications.Enabled = enabled
}

// SetCategoryEnabled flips the reminder toggle for a single category.
func (s *Settings) SetCategoryEnabled(category string, enabled bool) {
	if s.Notifications.Categories == nil {
		s.Notifications.Categories = map[string]bool{}
	}
	s.Notifications.Categories[category] = enabled
}
