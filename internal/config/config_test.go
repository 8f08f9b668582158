package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func setTempHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func validConfig() *Config {
	cfg := &Config{
		Targets: []Target{
			{Name: "cloudflare", Address: "1.1.1.1"},
			{Name: "google", Address: "8.8.8.8"},
		},
	}
	cfg.applyDefaults()
	return cfg
}

func TestInitAndLoadConfig(t *testing.T) {
	setTempHome(t)

	if err := InitConfig(false); err != nil {
		t.Fatalf("InitConfig: %v", err)
	}

	// A second init without --force must refuse
	if err := InitConfig(false); err == nil {
		t.Error("expected error when config already exists")
	}
	if err := InitConfig(true); err != nil {
		t.Errorf("InitConfig with force: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.PingInterval != DefaultPingInterval {
		t.Errorf("ping_interval = %s, want %s", cfg.PingInterval, DefaultPingInterval)
	}
	if len(cfg.Targets) != 2 {
		t.Fatalf("default targets = %d, want 2", len(cfg.Targets))
	}
	if cfg.Primary().Name != "cloudflare" {
		t.Errorf("primary = %s, want cloudflare", cfg.Primary().Name)
	}
	if !cfg.Notifications {
		t.Error("notifications should default to enabled")
	}
}

func TestLoadConfigFillsDefaults(t *testing.T) {
	setTempHome(t)

	if err := InitConfig(false); err != nil {
		t.Fatalf("InitConfig: %v", err)
	}

	// Strip the config down to just a target list
	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath: %v", err)
	}
	minimal := "targets:\n  - name: a\n    address: 10.0.0.1\n"
	if err := os.WriteFile(path, []byte(minimal), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.ProbeTimeout != DefaultProbeTimeout {
		t.Errorf("probe_timeout = %s, want default %s", cfg.ProbeTimeout, DefaultProbeTimeout)
	}
	if cfg.PreservedMinutes != DefaultPreservedMinutes {
		t.Errorf("preserved_minutes = %d, want default %d", cfg.PreservedMinutes, DefaultPreservedMinutes)
	}
	if cfg.DeviationThresholdMs != DefaultDeviationThresholdMs {
		t.Errorf("deviation_threshold_ms = %d, want default %d", cfg.DeviationThresholdMs, DefaultDeviationThresholdMs)
	}
	if cfg.DeviationsFile == "" || cfg.LockFile == "" {
		t.Error("data file paths should be defaulted")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	setTempHome(t)

	if err := InitConfig(false); err != nil {
		t.Fatalf("InitConfig: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if err := cfg.AddTarget(Target{Name: "router", Address: "192.168.1.1"}); err != nil {
		t.Fatalf("AddTarget: %v", err)
	}
	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	reloaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig after save: %v", err)
	}
	if len(reloaded.Targets) != 3 || reloaded.Targets[2].Name != "router" {
		t.Errorf("saved target missing: %+v", reloaded.Targets)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"no targets", func(c *Config) { c.Targets = nil }, "no targets"},
		{"unnamed target", func(c *Config) { c.Targets[0].Name = "" }, "has no name"},
		{"unaddressed target", func(c *Config) { c.Targets[0].Address = "" }, "has no address"},
		{"duplicate names", func(c *Config) { c.Targets[1].Name = c.Targets[0].Name }, "duplicate"},
		{"bad interval", func(c *Config) { c.PingInterval = "often" }, "ping_interval"},
		{"negative interval", func(c *Config) { c.PingInterval = "-1s" }, "positive"},
		{"bad timeout", func(c *Config) { c.ProbeTimeout = "soon" }, "probe_timeout"},
		{"inverted bands", func(c *Config) { c.ExcellentBelowMs = 80; c.GoodUpToMs = 60 }, "must be >="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate: %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate: %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestDurationAccessors(t *testing.T) {
	cfg := validConfig()
	cfg.PingInterval = "2s"
	cfg.ProbeTimeout = "500ms"

	if cfg.Interval() != 2*time.Second {
		t.Errorf("Interval = %v, want 2s", cfg.Interval())
	}
	if cfg.Timeout() != 500*time.Millisecond {
		t.Errorf("Timeout = %v, want 500ms", cfg.Timeout())
	}

	// Unparseable values fall back to the defaults
	cfg.PingInterval = "garbage"
	if cfg.Interval() != time.Second {
		t.Errorf("Interval fallback = %v, want 1s", cfg.Interval())
	}
}

func TestHistoryCapacity(t *testing.T) {
	tests := []struct {
		interval string
		minutes  int
		want     int
	}{
		{"1s", 10, 600},
		{"2s", 10, 300},
		{"1s", 1, 60},
		{"500ms", 10, 600}, // sub-second cadence clamps to one second
	}

	for _, tt := range tests {
		cfg := validConfig()
		cfg.PingInterval = tt.interval
		cfg.PreservedMinutes = tt.minutes
		if got := cfg.HistoryCapacity(); got != tt.want {
			t.Errorf("HistoryCapacity(%s, %dmin) = %d, want %d", tt.interval, tt.minutes, got, tt.want)
		}
	}
}

func TestAddRemoveTarget(t *testing.T) {
	cfg := validConfig()

	if err := cfg.AddTarget(Target{Name: "cloudflare", Address: "1.0.0.1"}); err == nil {
		t.Error("expected error adding a duplicate target name")
	}

	if err := cfg.AddTarget(Target{Name: "router", Address: "192.168.1.1"}); err != nil {
		t.Fatalf("AddTarget: %v", err)
	}
	if len(cfg.Targets) != 3 {
		t.Fatalf("targets = %d, want 3", len(cfg.Targets))
	}

	if err := cfg.RemoveTarget("google"); err != nil {
		t.Fatalf("RemoveTarget: %v", err)
	}
	if len(cfg.Targets) != 2 {
		t.Errorf("targets = %d after removal, want 2", len(cfg.Targets))
	}

	if err := cfg.RemoveTarget("nonexistent"); err == nil {
		t.Error("expected error removing an unknown target")
	}

	// Removing the first target promotes the next one to primary
	if err := cfg.RemoveTarget("cloudflare"); err != nil {
		t.Fatalf("RemoveTarget: %v", err)
	}
	if cfg.Primary().Name != "router" {
		t.Errorf("primary = %s, want router", cfg.Primary().Name)
	}
}
