package config

import (
	"fmt"
	"time"

	"github.com/gridfall/desktop-organizer/internal/domain"
	"github.com/spf13/viper"
)

// Config represents the entire application configuration
type Config struct {
	Desktop     DesktopConfig     `mapstructure:"desktop"`
	Organizer   OrganizerConfig   `mapstructure:"organizer"`
	Regions     []domain.Region   `mapstructure:"regions"`
	RuleService RuleServiceConfig `mapstructure:"rule_service"`
	HTTP        HTTPConfig        `mapstructure:"http"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Database    DatabaseConfig    `mapstructure:"database"`
}

// DesktopConfig describes the watched desktop surface.
type DesktopConfig struct {
	WatchDir     string `mapstructure:"watch_dir"`
	ScreenWidth  int    `mapstructure:"screen_width"`
	ScreenHeight int    `mapstructure:"screen_height"`
}

// OrganizerConfig contains pipeline tuning.
type OrganizerConfig struct {
	DebounceWindow  string `mapstructure:"debounce_window"`
	PollInterval    string `mapstructure:"poll_interval"`
	BackoffBase     string `mapstructure:"backoff_base"`
	MaxRetries      int    `mapstructure:"max_retries"`
	AutoOrganize    bool   `mapstructure:"auto_organize"`
	ShutdownTimeout string `mapstructure:"shutdown_timeout"`
}

// RuleServiceConfig points at the external rule-generation endpoint.
type RuleServiceConfig struct {
	URL            string `mapstructure:"url"`
	Timeout        string `mapstructure:"timeout"`
	MinInterval    string `mapstructure:"min_interval"`
	CorrectionSize int    `mapstructure:"correction_size"`
}

// HTTPConfig contains HTTP server configuration
type HTTPConfig struct {
	BindAddr     string `mapstructure:"bind_addr"`
	ReadTimeout  string `mapstructure:"read_timeout"`
	WriteTimeout string `mapstructure:"write_timeout"`
	IdleTimeout  string `mapstructure:"idle_timeout"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// Load loads configuration from the specified file path
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Set defaults
	v.SetDefault("desktop.screen_width", 1920)
	v.SetDefault("desktop.screen_height", 1080)
	v.SetDefault("organizer.debounce_window", "2s")
	v.SetDefault("organizer.poll_interval", "500ms")
	v.SetDefault("organizer.backoff_base", "1s")
	v.SetDefault("organizer.max_retries", 3)
	v.SetDefault("organizer.auto_organize", false)
	v.SetDefault("organizer.shutdown_timeout", "30s")
	v.SetDefault("rule_service.timeout", "60s")
	v.SetDefault("rule_service.min_interval", "5m")
	v.SetDefault("rule_service.correction_size", 50)
	v.SetDefault("http.bind_addr", "127.0.0.1:8745")
	v.SetDefault("http.read_timeout", "30s")
	v.SetDefault("http.write_timeout", "30s")
	v.SetDefault("http.idle_timeout", "60s")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("database.path", "organizer.db")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Desktop.WatchDir == "" {
		return fmt.Errorf("desktop.watch_dir is required")
	}
	if c.Desktop.ScreenWidth <= 0 || c.Desktop.ScreenHeight <= 0 {
		return fmt.Errorf("desktop screen dimensions must be positive")
	}

	if _, err := time.ParseDuration(c.Organizer.DebounceWindow); err != nil {
		return fmt.Errorf("invalid organizer.debounce_window: %w", err)
	}
	if _, err := time.ParseDuration(c.Organizer.PollInterval); err != nil {
		return fmt.Errorf("invalid organizer.poll_interval: %w", err)
	}
	if _, err := time.ParseDuration(c.Organizer.BackoffBase); err != nil {
		return fmt.Errorf("invalid organizer.backoff_base: %w", err)
	}
	if c.Organizer.MaxRetries < 0 {
		return fmt.Errorf("organizer.max_retries must not be negative")
	}

	for i, r := range c.Regions {
		if r.ID == "" {
			return fmt.Errorf("regions[%d]: id is required", i)
		}
		if r.Width <= 0 || r.Height <= 0 {
			return fmt.Errorf("regions[%d] (%s): extent must be positive", i, r.ID)
		}
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	// Validate logging config
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// Valid levels
	default:
		return fmt.Errorf("invalid logging.level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "text":
		// Valid formats
	default:
		return fmt.Errorf("invalid logging.format: %s", c.Logging.Format)
	}

	return nil
}

// GetDebounceWindow returns the debounce window as time.Duration
func (c *OrganizerConfig) GetDebounceWindow() time.Duration {
	d, _ := time.ParseDuration(c.DebounceWindow)
	if d == 0 {
		return 2 * time.Second
	}
	return d
}

// GetPollInterval returns the worker poll interval as time.Duration
func (c *OrganizerConfig) GetPollInterval() time.Duration {
	d, _ := time.ParseDuration(c.PollInterval)
	if d == 0 {
		return 500 * time.Millisecond
	}
	return d
}

// GetBackoffBase returns the retry backoff base as time.Duration
func (c *OrganizerConfig) GetBackoffBase() time.Duration {
	d, _ := time.ParseDuration(c.BackoffBase)
	if d == 0 {
		return time.Second
	}
	return d
}

// GetShutdownTimeout returns the shutdown timeout as time.Duration
func (c *OrganizerConfig) GetShutdownTimeout() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	if d == 0 {
		return 30 * time.Second
	}
	return d
}

// GetTimeout returns the rule-service request timeout as time.Duration
func (c *RuleServiceConfig) GetTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	if d == 0 {
		return 60 * time.Second
	}
	return d
}

// GetMinInterval returns the minimum spacing between rule-service calls
func (c *RuleServiceConfig) GetMinInterval() time.Duration {
	d, _ := time.ParseDuration(c.MinInterval)
	if d == 0 {
		return 5 * time.Minute
	}
	return d
}

// GetReadTimeout returns the read timeout as time.Duration
func (c *HTTPConfig) GetReadTimeout() time.Duration {
	d, _ := time.ParseDuration(c.ReadTimeout)
	if d == 0 {
		return 30 * time.Second
	}
	return d
}

// GetWriteTimeout returns the write timeout as time.Duration
func (c *HTTPConfig) GetWriteTimeout() time.Duration {
	d, _ := time.ParseDuration(c.WriteTimeout)
	if d == 0 {
		return 30 * time.Second
	}
	return d
}

// GetIdleTimeout returns the idle timeout as time.Duration
func (c *HTTPConfig) GetIdleTimeout() time.Duration {
	d, _ := time.ParseDuration(c.IdleTimeout)
	if d == 0 {
		return 60 * time.Second
	}
	return d
}
