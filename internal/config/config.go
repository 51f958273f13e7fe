package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/civil"
	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"

	"github.com/finsight-dev/finsight/internal/aggregate"
	"github.com/finsight-dev/finsight/internal/recurring"
)

// FileName is the config file written by init and read by default.
const FileName = "finsight.yaml"

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid config")

// Config represents the top-level finsight.yaml configuration.
type Config struct {
	Reference  ReferenceConfig  `yaml:"reference"`
	Nudges     NudgesConfig     `yaml:"nudges"`
	Source     SourceConfig     `yaml:"source"`
	Categorize CategorizeConfig `yaml:"categorize"`
	Log        LogConfig        `yaml:"log"`
}

// ReferenceConfig sets the as-of date for named periods. Dates are YYYY-MM-DD.
type ReferenceConfig struct {
	Date         string `yaml:"date,omitempty" env:"FINSIGHT_REFERENCE_DATE"`
	FallbackDate string `yaml:"fallback_date,omitempty" env:"FINSIGHT_REFERENCE_FALLBACK_DATE"`
}

// NudgesConfig tunes recurring-payment detection.
type NudgesConfig struct {
	LookbackDays int `yaml:"lookback_days" env:"FINSIGHT_NUDGES_LOOKBACK_DAYS"`
	MinGapDays   int `yaml:"min_gap_days" env:"FINSIGHT_NUDGES_MIN_GAP_DAYS"`
	MaxGapDays   int `yaml:"max_gap_days" env:"FINSIGHT_NUDGES_MAX_GAP_DAYS"`
	HorizonDays  int `yaml:"horizon_days" env:"FINSIGHT_NUDGES_HORIZON_DAYS"`
}

// SourceConfig locates the raw payloads. A BaseURL selects the HTTP data
// server; otherwise payloads are read from DataDir.
type SourceConfig struct {
	BaseURL   string        `yaml:"base_url,omitempty" env:"FINSIGHT_BASE_URL"`
	DataDir   string        `yaml:"data_dir" env:"FINSIGHT_DATA_DIR"`
	SessionID string        `yaml:"session_id" env:"FINSIGHT_SESSION_ID"`
	Timeout   time.Duration `yaml:"timeout" env:"FINSIGHT_TIMEOUT"`
}

// CategorizeConfig points at an optional keyword rule file.
type CategorizeConfig struct {
	RulesFile string `yaml:"rules_file,omitempty" env:"FINSIGHT_RULES_FILE"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `yaml:"level" env:"FINSIGHT_LOG_LEVEL"`
	Format string `yaml:"format" env:"FINSIGHT_LOG_FORMAT"`
}

// Load reads a finsight.yaml file from disk and applies FINSIGHT_*
// environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays set FINSIGHT_* variables onto cfg.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}
	return nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	opts := recurring.DefaultOptions()
	return &Config{
		Nudges: NudgesConfig{
			LookbackDays: opts.LookbackDays,
			MinGapDays:   opts.MinGapDays,
			MaxGapDays:   opts.MaxGapDays,
			HorizonDays:  opts.HorizonDays,
		},
		Source: SourceConfig{
			DataDir:   "data",
			SessionID: "default",
			Timeout:   30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks dates and day counts.
func (c *Config) Validate() error {
	if _, err := c.ReferenceDates(); err != nil {
		return err
	}
	n := c.Nudges
	switch {
	case n.LookbackDays <= 0:
		return fmt.Errorf("%w: nudges.lookback_days must be positive", ErrInvalid)
	case n.MinGapDays <= 0 || n.MaxGapDays <= 0:
		return fmt.Errorf("%w: nudges gap days must be positive", ErrInvalid)
	case n.MinGapDays > n.MaxGapDays:
		return fmt.Errorf("%w: nudges.min_gap_days %d exceeds max_gap_days %d", ErrInvalid, n.MinGapDays, n.MaxGapDays)
	case n.HorizonDays <= 0:
		return fmt.Errorf("%w: nudges.horizon_days must be positive", ErrInvalid)
	}
	if c.Source.Timeout < 0 {
		return fmt.Errorf("%w: source.timeout must not be negative", ErrInvalid)
	}
	return nil
}

// ReferenceDates parses the reference section. Empty dates stay unset.
func (c *Config) ReferenceDates() (aggregate.Reference, error) {
	var ref aggregate.Reference
	var err error
	if ref.Date, err = optionalDate("reference.date", c.Reference.Date); err != nil {
		return aggregate.Reference{}, err
	}
	if ref.Fallback, err = optionalDate("reference.fallback_date", c.Reference.FallbackDate); err != nil {
		return aggregate.Reference{}, err
	}
	return ref, nil
}

// RecurrenceOptions returns the detector options from the nudges section.
func (c *Config) RecurrenceOptions() recurring.Options {
	return recurring.Options{
		LookbackDays: c.Nudges.LookbackDays,
		MinGapDays:   c.Nudges.MinGapDays,
		MaxGapDays:   c.Nudges.MaxGapDays,
		HorizonDays:  c.Nudges.HorizonDays,
	}
}

func optionalDate(field, s string) (civil.Date, error) {
	if s == "" {
		return civil.Date{}, nil
	}
	d, err := civil.ParseDate(s)
	if err != nil {
		return civil.Date{}, fmt.Errorf("%w: %s %q: %v", ErrInvalid, field, s, err)
	}
	return d, nil
}
