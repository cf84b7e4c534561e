// Package config loads and validates the daemon configuration. Values come
// from a YAML file merged with flag/env overrides applied by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"luastrack/pkg/stops"
	"luastrack/pkg/types"
)

// Validation errors surfaced to the operator with stop-specific context.
var (
	ErrUnknownStop        = errors.New("unknown stop code")
	ErrUnknownDestination = errors.New("unknown or non-terminus destination code")
	ErrInvalidDirection   = errors.New("direction must be Inbound or Outbound")
)

// Config is the full daemon configuration.
type Config struct {
	Stop        string `yaml:"stop" validate:"required"`
	Direction   string `yaml:"direction" validate:"required"`
	Destination string `yaml:"destination,omitempty"`
	// WalkTime in minutes; nil disables the wait-time entity.
	WalkTime *int `yaml:"walk_time,omitempty" validate:"omitempty,min=0"`

	ForecastInterval time.Duration `yaml:"forecast_interval" validate:"min=0"`
	ForecastTimeout  time.Duration `yaml:"forecast_timeout" validate:"min=0"`
	StatusInterval   time.Duration `yaml:"status_interval" validate:"min=0"`
	StatusTimeout    time.Duration `yaml:"status_timeout" validate:"min=0"`

	// DryRun prints the entity board to stdout on every refresh instead of
	// running silently.
	DryRun bool `yaml:"dry_run"`
}

// Defaults returns a Config with the polling cadence the service is tuned
// for: frequent forecast refreshes, a slower status cycle.
func Defaults() Config {
	return Config{
		Direction:        types.DirectionInbound,
		ForecastInterval: 30 * time.Second,
		ForecastTimeout:  30 * time.Second,
		StatusInterval:   120 * time.Second,
		StatusTimeout:    10 * time.Second,
	}
}

// UnmarshalYAML decodes durations from the usual "30s"/"2m" notation, which
// the yaml package does not handle for time.Duration on its own.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type rawConfig struct {
		Stop             string `yaml:"stop"`
		Direction        string `yaml:"direction"`
		Destination      string `yaml:"destination"`
		WalkTime         *int   `yaml:"walk_time"`
		ForecastInterval string `yaml:"forecast_interval"`
		ForecastTimeout  string `yaml:"forecast_timeout"`
		StatusInterval   string `yaml:"status_interval"`
		StatusTimeout    string `yaml:"status_timeout"`
		DryRun           *bool  `yaml:"dry_run"`
	}

	var raw rawConfig
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.Stop != "" {
		c.Stop = raw.Stop
	}
	if raw.Direction != "" {
		c.Direction = raw.Direction
	}
	if raw.Destination != "" {
		c.Destination = raw.Destination
	}
	if raw.WalkTime != nil {
		c.WalkTime = raw.WalkTime
	}
	if raw.DryRun != nil {
		c.DryRun = *raw.DryRun
	}

	durations := []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"forecast_interval", raw.ForecastInterval, &c.ForecastInterval},
		{"forecast_timeout", raw.ForecastTimeout, &c.ForecastTimeout},
		{"status_interval", raw.StatusInterval, &c.StatusInterval},
		{"status_timeout", raw.StatusTimeout, &c.StatusTimeout},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", d.key, err)
		}
		*d.dst = parsed
	}
	return nil
}

// Load reads a YAML config file over the defaults. A missing path is not an
// error; flags and env vars can carry the whole configuration.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Normalize canonicalizes user-entered codes: stop and destination are
// upper-cased and trimmed. Call after merging every configuration source;
// Validate reads values as given and never rewrites them.
func (c *Config) Normalize() {
	c.Stop = strings.ToUpper(strings.TrimSpace(c.Stop))
	c.Destination = strings.ToUpper(strings.TrimSpace(c.Destination))
	c.Direction = strings.TrimSpace(c.Direction)
}

// Validate checks structural constraints and the stop/direction/destination
// selection, and returns the display title for the configured journey. It
// has no side effects; codes are matched as given (see Normalize).
func (c *Config) Validate() (string, error) {
	if err := validator.New().Struct(c); err != nil {
		return "", fmt.Errorf("invalid configuration: %w", err)
	}

	stop, ok := stops.Lookup(c.Stop)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStop, c.Stop)
	}
	if !types.ValidDirection(c.Direction) {
		return "", fmt.Errorf("%w: got %q", ErrInvalidDirection, c.Direction)
	}
	if c.Destination != "" {
		dest, ok := stops.Lookup(c.Destination)
		if !ok || !stops.IsDestination(c.Destination) {
			return "", fmt.Errorf("%w: %q", ErrUnknownDestination, c.Destination)
		}
		return fmt.Sprintf("%s from %s to %s", c.Direction, stop.Name, dest.Name), nil
	}
	return fmt.Sprintf("%s from %s", c.Direction, stop.Name), nil
}

// StopEntry resolves the configured origin stop. Call after Validate.
func (c *Config) StopEntry() stops.Stop {
	s, _ := stops.Lookup(c.Stop)
	return s
}

// DestinationEntry resolves the configured destination, or nil when no
// destination filter is set. Call after Validate.
func (c *Config) DestinationEntry() *stops.Stop {
	if c.Destination == "" {
		return nil
	}
	s, ok := stops.Lookup(c.Destination)
	if !ok {
		return nil
	}
	return &s
}
