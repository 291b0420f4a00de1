package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/username/attendance-planner/pkg/dateutil"
)

// Config represents application configuration
type Config struct {
	Policy  PolicyConfig  `mapstructure:"policy"`
	Rolling RollingConfig `mapstructure:"rolling"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// PolicyConfig represents the weekly attendance policy
type PolicyConfig struct {
	RequiredDaysPerWeek int    `mapstructure:"required_days_per_week"`
	WeekStart           string `mapstructure:"week_start"`
}

// RollingConfig represents the rolling attendance policy
type RollingConfig struct {
	RequiredDays int `mapstructure:"required_days"`
	WindowWeeks  int `mapstructure:"window_weeks"`
	BestWeeks    int `mapstructure:"best_weeks"`
}

// StorageConfig represents data file configuration
type StorageConfig struct {
	DataFile string `mapstructure:"data_file"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	LogFile  string `mapstructure:"log_file"`
	LogLevel string `mapstructure:"log_level"`
}

// Load loads configuration from file. Every key has a default, so a
// missing config file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("policy.required_days_per_week", 3)
	v.SetDefault("policy.week_start", "monday")
	v.SetDefault("rolling.required_days", 24)
	v.SetDefault("rolling.window_weeks", 12)
	v.SetDefault("rolling.best_weeks", 8)
	v.SetDefault("storage.data_file", "attendance_data.json")
	v.SetDefault("logging.log_file", "")
	v.SetDefault("logging.log_level", "info")

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.attendance-planner")
	}

	// Read environment variables
	v.AutomaticEnv()

	// Read config file if present
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

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Policy.RequiredDaysPerWeek <= 0 {
		return fmt.Errorf("policy.required_days_per_week must be positive")
	}
	if _, err := dateutil.ParseWeekday(c.Policy.WeekStart); err != nil {
		return fmt.Errorf("policy.week_start: %w", err)
	}

	if c.Rolling.RequiredDays <= 0 {
		return fmt.Errorf("rolling.required_days must be positive")
	}
	if c.Rolling.WindowWeeks <= 0 {
		return fmt.Errorf("rolling.window_weeks must be positive")
	}
	if c.Rolling.BestWeeks <= 0 {
		return fmt.Errorf("rolling.best_weeks must be positive")
	}
	if c.Rolling.BestWeeks > c.Rolling.WindowWeeks {
		return fmt.Errorf("rolling.best_weeks must not exceed rolling.window_weeks")
	}

	if c.Storage.DataFile == "" {
		return fmt.Errorf("storage.data_file is required")
	}

	return nil
}

// GetWeekStart returns the configured week start weekday
func (c *PolicyConfig) GetWeekStart() time.Weekday {
	wd, err := dateutil.ParseWeekday(c.WeekStart)
	if err != nil {
		return time.Monday
	}
	return wd
}
