package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Source types
const (
	SourceSQLite = "sqlite"
	SourceHRAPI  = "hrapi"
)

// Config represents application configuration
type Config struct {
	Source   SourceConfig   `mapstructure:"source"`
	Database DatabaseConfig `mapstructure:"database"`
	HRAPI    HRAPIConfig    `mapstructure:"hrapi"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Log      LogConfig      `mapstructure:"log"`
}

// SourceConfig selects where employees and attendance come from
type SourceConfig struct {
	Type string `mapstructure:"type"` // "sqlite" or "hrapi"
}

// DatabaseConfig represents the local SQLite store
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// HRAPIConfig represents the remote HR backend
type HRAPIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Token   string `mapstructure:"token"`
	Timeout string `mapstructure:"timeout"`
	Retries int    `mapstructure:"retries"`
}

// CalendarConfig represents holiday and "today" settings
type CalendarConfig struct {
	Timezone    string `mapstructure:"timezone"` // IANA name, empty = Local
	HolidayFile string `mapstructure:"holiday_file"`
	IsDayOffURL string `mapstructure:"isdayoff_url"`
	Country     string `mapstructure:"country"`
	CacheTTL    string `mapstructure:"cache_ttl"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source.type", SourceSQLite)
	v.SetDefault("database.path", "muster.db")
	v.SetDefault("hrapi.base_url", "")
	v.SetDefault("hrapi.token", "")
	v.SetDefault("hrapi.timeout", "30s")
	v.SetDefault("hrapi.retries", 3)
	v.SetDefault("calendar.timezone", "")
	v.SetDefault("calendar.holiday_file", "")
	v.SetDefault("calendar.isdayoff_url", "https://isdayoff.ru")
	v.SetDefault("calendar.country", "ru")
	v.SetDefault("calendar.cache_ttl", "24h")
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
}

// Load loads configuration from file, .env and MUSTER_* environment variables.
// Without an explicit path a missing config file is not an error.
func Load(configPath string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.attendance-muster")
		v.AddConfigPath("/etc/attendance-muster")
	}

	// hrapi.token -> MUSTER_HRAPI_TOKEN
	v.SetEnvPrefix("muster")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
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

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Source.Type {
	case SourceSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for sqlite source")
		}
	case SourceHRAPI:
		if c.HRAPI.BaseURL == "" {
			return fmt.Errorf("hrapi.base_url is required for hrapi source")
		}
		if c.HRAPI.Retries < 0 {
			return fmt.Errorf("hrapi.retries must not be negative")
		}
	default:
		return fmt.Errorf("source.type must be '%s' or '%s', got '%s'", SourceSQLite, SourceHRAPI, c.Source.Type)
	}

	if _, err := c.Calendar.Location(); err != nil {
		return fmt.Errorf("calendar.timezone: %w", err)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got '%s'", c.Log.Level)
	}

	return nil
}

// Location returns the configured zone; empty means time.Local
func (c *CalendarConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// GetCacheTTL returns cache TTL duration
func (c *CalendarConfig) GetCacheTTL() time.Duration {
	if c.CacheTTL == "" {
		return 24 * time.Hour
	}
	duration, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 24 * time.Hour
	}
	return duration
}

// GetTimeout returns the HTTP timeout of the HR backend client
func (c *HRAPIConfig) GetTimeout() time.Duration {
	if c.Timeout == "" {
		return 30 * time.Second
	}
	duration, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return duration
}

// ExpandEnvVars expands environment variables in config strings
func (c *Config) ExpandEnvVars() {
	c.HRAPI.BaseURL = os.ExpandEnv(c.HRAPI.BaseURL)
	c.HRAPI.Token = os.ExpandEnv(c.HRAPI.Token)
	c.Database.Path = os.ExpandEnv(c.Database.Path)
}
