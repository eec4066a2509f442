package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

const (
	SourceHTTP      = "http"
	SourceFile      = "file"
	SourceComposite = "composite"

	defaultRefreshCron = "0 */2 * * *"
)

// Config represents application configuration
type Config struct {
	School SchoolConfig `mapstructure:"school"`
	Locale string       `mapstructure:"locale" validate:"omitempty,oneof=da en"`
	Source SourceConfig `mapstructure:"source"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Widget WidgetConfig `mapstructure:"widget"`
	Daemon DaemonConfig `mapstructure:"daemon"`
}

// SchoolConfig identifies the active school
type SchoolConfig struct {
	ID    string `mapstructure:"id" validate:"required"`
	Token string `mapstructure:"token"` // static token, used when auth.token_command is empty
}

// SourceConfig represents the scraper source configuration
type SourceConfig struct {
	Type    string `mapstructure:"type" validate:"oneof=http file composite"`
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
	File    string `mapstructure:"file"`
	Timeout string `mapstructure:"timeout"`
	Retries int    `mapstructure:"retries" validate:"gte=0,lte=10"`
}

// AuthConfig represents portal token configuration
type AuthConfig struct {
	TokenCommand    string `mapstructure:"token_command"`
	RefreshInterval string `mapstructure:"refresh_interval"`
}

// WidgetConfig represents the widget snapshot store
type WidgetConfig struct {
	BundleID string `mapstructure:"bundle_id" validate:"required"`
	Store    string `mapstructure:"store" validate:"oneof=file sqlite memory"`
	Dir      string `mapstructure:"dir"` // overrides the app group container
}

// DaemonConfig represents daemon mode configuration
type DaemonConfig struct {
	RefreshCron string `mapstructure:"refresh_cron"`
	LogFile     string `mapstructure:"log_file"`
	LogLevel    string `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
	SystemTray  bool   `mapstructure:"system_tray"` // Show system tray icon (Windows only)
}

// Load loads configuration from file, .env and SKEMA_* environment variables
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.skema-widget")
		v.AddConfigPath("/etc/skema-widget")
	}

	setDefaults(v)

	v.SetEnvPrefix("SKEMA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.ExpandEnvVars()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults also registers every key so AutomaticEnv can override it
func setDefaults(v *viper.Viper) {
	v.SetDefault("school.id", "")
	v.SetDefault("school.token", "")
	v.SetDefault("locale", "da")
	v.SetDefault("source.type", SourceHTTP)
	v.SetDefault("source.base_url", "")
	v.SetDefault("source.file", "")
	v.SetDefault("source.timeout", "30s")
	v.SetDefault("source.retries", 3)
	v.SetDefault("auth.token_command", "")
	v.SetDefault("auth.refresh_interval", "1h")
	v.SetDefault("widget.bundle_id", "")
	v.SetDefault("widget.store", "file")
	v.SetDefault("widget.dir", "")
	v.SetDefault("daemon.refresh_cron", defaultRefreshCron)
	v.SetDefault("daemon.log_file", "")
	v.SetDefault("daemon.log_level", "info")
	v.SetDefault("daemon.system_tray", false)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	switch c.Source.Type {
	case SourceHTTP:
		if c.Source.BaseURL == "" {
			return fmt.Errorf("source.base_url is required for http type")
		}
	case SourceFile:
		if c.Source.File == "" {
			return fmt.Errorf("source.file is required for file type")
		}
	case SourceComposite:
		if c.Source.BaseURL == "" || c.Source.File == "" {
			return fmt.Errorf("source.base_url and source.file are required for composite type")
		}
	}

	if c.Source.Type != SourceFile && c.Auth.TokenCommand == "" && c.School.Token == "" {
		return fmt.Errorf("auth.token_command or school.token is required for %s type", c.Source.Type)
	}

	if _, err := cron.ParseStandard(c.Daemon.GetRefreshCron()); err != nil {
		return fmt.Errorf("daemon.refresh_cron is invalid: %w", err)
	}

	return nil
}

// GetTimeout returns the scraper request timeout
func (c *SourceConfig) GetTimeout() time.Duration {
	if c.Timeout == "" {
		return 30 * time.Second
	}
	duration, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return duration
}

// GetRefreshInterval returns token refresh interval duration
func (c *AuthConfig) GetRefreshInterval() time.Duration {
	if c.RefreshInterval == "" {
		return 1 * time.Hour
	}
	duration, err := time.ParseDuration(c.RefreshInterval)
	if err != nil {
		return 1 * time.Hour
	}
	return duration
}

// GetRefreshCron returns the daemon schedule, every two hours by default
func (c *DaemonConfig) GetRefreshCron() string {
	if strings.TrimSpace(c.RefreshCron) == "" {
		return defaultRefreshCron
	}
	return c.RefreshCron
}

// ExpandEnvVars expands environment variables in config strings
func (c *Config) ExpandEnvVars() {
	c.School.ID = os.ExpandEnv(c.School.ID)
	c.School.Token = os.ExpandEnv(c.School.Token)
	c.Source.BaseURL = os.ExpandEnv(c.Source.BaseURL)
	c.Widget.Dir = os.ExpandEnv(c.Widget.Dir)
}
