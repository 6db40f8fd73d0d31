package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration.
type Config struct {
	Logging   Logging   `yaml:"logging"`
	Trading   Trading   `yaml:"trading"`
	Brokerage Brokerage `yaml:"brokerage"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Trading holds simulator account parameters.
type Trading struct {
	InitialCash float64 `yaml:"initial_cash"`
	PaperMode   bool    `yaml:"paper_mode"`
}

// Brokerage selects and parameterises the brokerage model. Zero values mean
// "no restriction" for every rule.
type Brokerage struct {
	// Model is a registered model name: "default", "rules" or "alpaca".
	Model    string `yaml:"model"`
	Timezone string `yaml:"timezone"`

	RegularSession     Window   `yaml:"regular_session"`
	ExtendedSession    Window   `yaml:"extended_session"`
	ExtendedHours      bool     `yaml:"extended_hours"`
	ExtendedLimitOnly  bool     `yaml:"extended_limit_only"`
	AroundTheClock     []string `yaml:"around_the_clock"`
	BlackoutWindows    []Window `yaml:"blackout_windows"`
	MaintenanceWindows []Window `yaml:"maintenance_windows"`

	MaxOrderSize  float64  `yaml:"max_order_size"`
	SecurityTypes []string `yaml:"security_types"`
	OrderTypes    []string `yaml:"order_types"`

	RateLimit RateLimit      `yaml:"rate_limit"`
	Fees      map[string]Fee `yaml:"fees"`
}

// Window is a daily time-of-day interval, e.g. start "09:30", end "16:00".
type Window struct {
	Start    string   `yaml:"start"`
	End      string   `yaml:"end"`
	Weekdays []string `yaml:"weekdays"`
}

// IsZero reports whether the window is unset.
func (w Window) IsZero() bool {
	return w.Start == "" && w.End == ""
}

// RateLimit caps submissions per rolling window. MaxOrders == 0 disables it.
type RateLimit struct {
	MaxOrders int           `yaml:"max_orders"`
	Window    time.Duration `yaml:"window"`
}

// Fee is a commission schedule for one security type.
type Fee struct {
	PerUnit float64 `yaml:"per_unit"`
	Percent float64 `yaml:"percent"`
	Minimum float64 `yaml:"minimum"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path, parses it into a
// Config struct, and then applies environment variable overrides. A .env file
// next to the config file, if present, is loaded into the environment first;
// variables already set in the environment take precedence over it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	if v := os.Getenv("BROKERAGE_MODEL"); v != "" {
		cfg.Brokerage.Model = v
	}
	if v := os.Getenv("BROKERAGE_TIMEZONE"); v != "" {
		cfg.Brokerage.Timezone = v
	}
	if v := os.Getenv("BROKERAGE_EXTENDED_HOURS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("BROKERAGE_EXTENDED_HOURS: %w", err)
		}
		cfg.Brokerage.ExtendedHours = b
	}

	if v := os.Getenv("TRADING_INITIAL_CASH"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("TRADING_INITIAL_CASH: %w", err)
		}
		cfg.Trading.InitialCash = f
	}

	return nil
}
