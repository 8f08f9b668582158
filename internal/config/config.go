package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPingInterval     = "1s"
	DefaultProbeTimeout     = "5s"
	DefaultPreservedMinutes = 10

	DefaultExcellentBelowMs     = 40
	DefaultGoodUpToMs           = 60
	DefaultDeviationThresholdMs = 60
)

// Config represents the pingwatch configuration
type Config struct {
	PingInterval     string `yaml:"ping_interval"`
	ProbeTimeout     string `yaml:"probe_timeout"`
	PreservedMinutes int    `yaml:"preserved_minutes"`

	// Latency bands for severity classification, in milliseconds.
	// The deviation threshold is configured independently of the bands.
	ExcellentBelowMs     int `yaml:"excellent_below_ms"`
	GoodUpToMs           int `yaml:"good_up_to_ms"`
	DeviationThresholdMs int `yaml:"deviation_threshold_ms"`

	DeviationsFile string `yaml:"deviations_file,omitempty"`
	LockFile       string `yaml:"lock_file,omitempty"`

	Notifications bool `yaml:"notifications"`

	Targets []Target `yaml:"targets"`
}

// Target represents a host to probe. Identity is the name; the address
// may be an IP or a hostname. The target list is immutable for the
// lifetime of a monitoring run.
type Target struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
}

// GetConfigPath returns the path to the global config file
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "pingwatch", "config.yml"), nil
}

// InitConfig creates the config directory and file with default content
func InitConfig(force bool) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", configPath)
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	defaultConfig := getDefaultConfig()
	if err := os.WriteFile(configPath, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadConfig reads and parses the config file
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// SaveConfig writes the config back to the file
func SaveConfig(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyDefaults fills in zero-valued fields with the package defaults
func (c *Config) applyDefaults() {
	if c.PingInterval == "" {
		c.PingInterval = DefaultPingInterval
	}
	if c.ProbeTimeout == "" {
		c.ProbeTimeout = DefaultProbeTimeout
	}
	if c.PreservedMinutes <= 0 {
		c.PreservedMinutes = DefaultPreservedMinutes
	}
	if c.ExcellentBelowMs <= 0 {
		c.ExcellentBelowMs = DefaultExcellentBelowMs
	}
	if c.GoodUpToMs <= 0 {
		c.GoodUpToMs = DefaultGoodUpToMs
	}
	if c.DeviationThresholdMs <= 0 {
		c.DeviationThresholdMs = DefaultDeviationThresholdMs
	}
	if c.DeviationsFile == "" {
		c.DeviationsFile = defaultDataPath("deviations.txt")
	}
	if c.LockFile == "" {
		c.LockFile = defaultDataPath("pingwatch.lock")
	}
}

// defaultDataPath places a data file next to the config file, falling
// back to the working directory when the home directory is unknown.
func defaultDataPath(name string) string {
	configPath, err := GetConfigPath()
	if err != nil {
		return name
	}
	return filepath.Join(filepath.Dir(configPath), name)
}

// Validate checks the configuration for conditions that are fatal at
// startup: an empty target list, unnamed or unaddressed targets,
// duplicate target names, or unparseable durations.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return fmt.Errorf("no targets configured (run 'pingwatch target:add' to add one)")
	}

	seen := make(map[string]bool)
	for _, t := range c.Targets {
		if t.Name == "" {
			return fmt.Errorf("target with address '%s' has no name", t.Address)
		}
		if t.Address == "" {
			return fmt.Errorf("target '%s' has no address", t.Name)
		}
		if seen[t.Name] {
			return fmt.Errorf("duplicate target name '%s'", t.Name)
		}
		seen[t.Name] = true
	}

	interval, err := time.ParseDuration(c.PingInterval)
	if err != nil {
		return fmt.Errorf("invalid ping_interval: %w", err)
	}
	if interval <= 0 {
		return fmt.Errorf("ping_interval must be positive")
	}

	timeout, err := time.ParseDuration(c.ProbeTimeout)
	if err != nil {
		return fmt.Errorf("invalid probe_timeout: %w", err)
	}
	if timeout <= 0 {
		return fmt.Errorf("probe_timeout must be positive")
	}

	if c.GoodUpToMs < c.ExcellentBelowMs {
		return fmt.Errorf("good_up_to_ms (%d) must be >= excellent_below_ms (%d)", c.GoodUpToMs, c.ExcellentBelowMs)
	}

	return nil
}

// Interval returns the parsed probe cadence
func (c *Config) Interval() time.Duration {
	d, err := time.ParseDuration(c.PingInterval)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultPingInterval)
	}
	return d
}

// Timeout returns the parsed per-probe timeout
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.ProbeTimeout)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultProbeTimeout)
	}
	return d
}

// HistoryCapacity returns the number of rounds retained per target:
// preserved minutes worth of samples at the configured cadence.
func (c *Config) HistoryCapacity() int {
	seconds := int(c.Interval().Seconds())
	if seconds < 1 {
		seconds = 1
	}
	capacity := c.PreservedMinutes * 60 / seconds
	if capacity < 1 {
		capacity = 1
	}
	return capacity
}

// Primary returns the target whose severity window drives the health
// indicator: by convention the first configured target.
func (c *Config) Primary() Target {
	if len(c.Targets) == 0 {
		return Target{}
	}
	return c.Targets[0]
}

// AddTarget adds a new target to the config
func (c *Config) AddTarget(target Target) error {
	for _, t := range c.Targets {
		if t.Name == target.Name {
			return fmt.Errorf("target with name '%s' already exists", target.Name)
		}
	}

	c.Targets = append(c.Targets, target)
	return nil
}

// RemoveTarget removes a target by name from the config
func (c *Config) RemoveTarget(name string) error {
	for i, t := range c.Targets {
		if t.Name == name {
			c.Targets = append(c.Targets[:i], c.Targets[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("target '%s' not found", name)
}

// getDefaultConfig returns the default configuration as YAML
func getDefaultConfig() string {
	return fmt.Sprintf(`# Pingwatch Configuration
# Probe cadence and per-probe timeout
ping_interval: %s
probe_timeout: %s

# Minutes of history preserved per target
preserved_minutes: %d

# Latency bands (milliseconds): below excellent is green,
# up to good is yellow, anything above is red.
excellent_below_ms: %d
good_up_to_ms: %d

# Results at or above this latency (or any failure) are logged
# as deviations. Configured separately from the bands.
deviation_threshold_ms: %d

# Desktop notifications on health changes
notifications: true

# The first target drives the health indicator
targets:
  - name: cloudflare
    address: 1.1.1.1
  - name: google
    address: 8.8.8.8
`, DefaultPingInterval, DefaultProbeTimeout, DefaultPreservedMinutes,
		DefaultExcellentBelowMs, DefaultGoodUpToMs, DefaultDeviationThresholdMs)
}
