package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/lululau/monthgrid/internal/calendar"
	"github.com/lululau/monthgrid/internal/holidays"
)

// EnvPrefix prefixes environment overrides, e.g. MONTHGRID_CALENDAR_FIRST_DAY_OF_WEEK.
const EnvPrefix = "MONTHGRID"

// Config represents application configuration
type Config struct {
	Calendar CalendarConfig `mapstructure:"calendar"`
	Display  DisplayConfig  `mapstructure:"display"`
	Holidays HolidaysConfig `mapstructure:"holidays"`
	Log      LogConfig      `mapstructure:"log"`
}

// CalendarConfig controls grid layout.
type CalendarConfig struct {
	FirstDayOfWeek int `mapstructure:"first_day_of_week"` // 0 = Sunday
}

// DisplayConfig controls rendering.
type DisplayConfig struct {
	NoColor bool `mapstructure:"no_color"`
}

// HolidaysConfig points at the optional holiday overlay.
type HolidaysConfig struct {
	File   string `mapstructure:"file"`    // explicit file, bypasses the cache
	URL    string `mapstructure:"url"`     // source for "holidays fetch"
	MaxAge string `mapstructure:"max_age"` // cache freshness, Go duration
}

// LogConfig controls the zap logger.
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// New returns a viper instance with defaults, search paths and environment
// binding set up. Flags can be bound to it before calling Load.
func New(configPath string) *viper.Viper {
	v := viper.New()

	v.SetDefault("calendar.first_day_of_week", 0)
	v.SetDefault("display.no_color", false)
	v.SetDefault("holidays.file", "")
	v.SetDefault("holidays.url", "")
	v.SetDefault("holidays.max_age", holidays.DefaultMaxAge.String())
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "warn")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "monthgrid"))
		}
		v.AddConfigPath("$HOME/.monthgrid")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file (if any) from v and validates the result. A
// missing file is fine when no explicit path was given.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := calendar.ValidateFirstDayOfWeek(c.Calendar.FirstDayOfWeek); err != nil {
		return fmt.Errorf("calendar.first_day_of_week: %w", err)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Holidays.MaxAge != "" {
		if _, err := time.ParseDuration(c.Holidays.MaxAge); err != nil {
			return fmt.Errorf("holidays.max_age: %w", err)
		}
	}
	return nil
}

// GetMaxAge returns the holiday cache freshness window.
func (c *HolidaysConfig) GetMaxAge() time.Duration {
	if c.MaxAge == "" {
		return holidays.DefaultMaxAge
	}
	d, err := time.ParseDuration(c.MaxAge)
	if err != nil || d <= 0 {
		return holidays.DefaultMaxAge
	}
	return d
}
