package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"luastrack/pkg/types"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.ForecastInterval != 30*time.Second {
		t.Errorf("ForecastInterval = %v, want 30s", cfg.ForecastInterval)
	}
	if cfg.StatusInterval != 120*time.Second {
		t.Errorf("StatusInterval = %v, want 120s", cfg.StatusInterval)
	}
	if cfg.StatusTimeout != 10*time.Second {
		t.Errorf("StatusTimeout = %v, want 10s", cfg.StatusTimeout)
	}
	if cfg.WalkTime != nil {
		t.Error("WalkTime should default to unset")
	}
}

func TestLoadMissingPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg.ForecastInterval != 30*time.Second {
		t.Errorf("ForecastInterval = %v, want default", cfg.ForecastInterval)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `stop: ran
direction: Inbound
destination: bro
walk_time: 7
forecast_interval: 15s
dry_run: true
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Stop != "RAN" || cfg.Destination != "BRO" {
		t.Errorf("stop/destination = %q/%q", cfg.Stop, cfg.Destination)
	}
	if cfg.WalkTime == nil || *cfg.WalkTime != 7 {
		t.Errorf("WalkTime = %v, want 7", cfg.WalkTime)
	}
	if cfg.ForecastInterval != 15*time.Second {
		t.Errorf("ForecastInterval = %v, want 15s", cfg.ForecastInterval)
	}
	// Unset keys keep their defaults.
	if cfg.StatusInterval != 120*time.Second {
		t.Errorf("StatusInterval = %v, want default 120s", cfg.StatusInterval)
	}
	if !cfg.DryRun {
		t.Error("DryRun should be true")
	}
}

func TestValidateTitles(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "without destination",
			cfg:  Config{Stop: "RAN", Direction: types.DirectionInbound},
			want: "Inbound from Ranelagh",
		},
		{
			name: "with destination",
			cfg:  Config{Stop: "STS", Direction: types.DirectionOutbound, Destination: "BRI"},
			want: "Outbound from St. Stephen's Green to Brides Glen",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.Validate()
			if err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if got != tt.want {
				t.Errorf("title = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"unknown stop", Config{Stop: "XXX", Direction: types.DirectionInbound}, ErrUnknownStop},
		{"bad direction", Config{Stop: "RAN", Direction: "Sideways"}, ErrInvalidDirection},
		{"lowercase direction rejected", Config{Stop: "RAN", Direction: "inbound"}, ErrInvalidDirection},
		{"unknown destination", Config{Stop: "RAN", Direction: types.DirectionInbound, Destination: "ZZZ"}, ErrUnknownDestination},
		{"non-terminus destination", Config{Stop: "RAN", Direction: types.DirectionInbound, Destination: "DAW"}, ErrUnknownDestination},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cfg.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	cfg := Config{Stop: " ran ", Direction: types.DirectionInbound, Destination: "bro"}
	cfg.Normalize()
	if cfg.Stop != "RAN" || cfg.Destination != "BRO" {
		t.Fatalf("normalized codes = %q/%q, want RAN/BRO", cfg.Stop, cfg.Destination)
	}

	title, err := cfg.Validate()
	if err != nil {
		t.Fatalf("Validate after Normalize: %v", err)
	}
	if title != "Inbound from Ranelagh to Broombridge" {
		t.Errorf("title = %q", title)
	}
}

func TestValidateHasNoSideEffects(t *testing.T) {
	cfg := Config{Stop: "ran", Direction: types.DirectionInbound}
	if _, err := cfg.Validate(); !errors.Is(err, ErrUnknownStop) {
		t.Errorf("Validate error = %v, want ErrUnknownStop for an unnormalized code", err)
	}
	if cfg.Stop != "ran" {
		t.Errorf("Validate rewrote Stop to %q", cfg.Stop)
	}
}

func TestValidateRequiresStop(t *testing.T) {
	cfg := Config{Direction: types.DirectionInbound}
	if _, err := cfg.Validate(); err == nil {
		t.Error("Validate should reject an empty stop")
	}
}

func TestDestinationEntry(t *testing.T) {
	cfg := Config{Stop: "RAN", Direction: types.DirectionInbound, Destination: "BRO"}
	if _, err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	dest := cfg.DestinationEntry()
	if dest == nil || dest.Name != "Broombridge" {
		t.Errorf("DestinationEntry = %v, want Broombridge", dest)
	}

	noDest := Config{Stop: "RAN", Direction: types.DirectionInbound}
	if noDest.DestinationEntry() != nil {
		t.Error("DestinationEntry should be nil without a destination")
	}
}
