package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/codeberry/pulldash/internal/constants"
	"github.com/codeberry/pulldash/internal/duration"
)

// Config represents the application configuration
type Config struct {
	Repos            []string `yaml:"repos,omitempty"`
	DefaultFormat    string   `yaml:"default_format,omitempty"`
	DefaultTimeRange string   `yaml:"default_time_range,omitempty"`
	RefreshInterval  string   `yaml:"refresh_interval,omitempty"`

	// Top-level config sections
	Sync *SyncOverrides `yaml:"sync,omitempty"`
}

// SyncOverrides allows customizing the sync scheduler's cadence and the
// business-hours window used for accelerated refresh
type SyncOverrides struct {
	Timezone           *string `yaml:"timezone,omitempty"`
	BusinessHoursStart *int    `yaml:"business_hours_start,omitempty"`
	BusinessHoursEnd   *int    `yaml:"business_hours_end,omitempty"`
	Cadence            *string `yaml:"cadence,omitempty"`
}

// SyncSettings is the complete, resolved set of scheduler settings
type SyncSettings struct {
	Location           *time.Location
	BusinessHoursStart int
	BusinessHoursEnd   int
	Cadence            time.Duration
}

// DefaultSyncSettings returns the default scheduler settings
func DefaultSyncSettings() SyncSettings {
	return SyncSettings{
		Location:           time.UTC,
		BusinessHoursStart: constants.BusinessHoursStart,
		BusinessHoursEnd:   constants.BusinessHoursEnd,
		Cadence:            constants.DefaultCadence,
	}
}

// GetSyncSettings returns scheduler settings with user overrides merged
// with defaults
func (c *Config) GetSyncSettings() (SyncSettings, error) {
	settings := DefaultSyncSettings()

	if c.Sync == nil {
		return settings, nil
	}

	s := c.Sync
	if s.Timezone != nil {
		loc, err := time.LoadLocation(*s.Timezone)
		if err != nil {
			return settings, fmt.Errorf("invalid timezone %q: %w", *s.Timezone, err)
		}
		settings.Location = loc
	}
	if s.BusinessHoursStart != nil {
		settings.BusinessHoursStart = *s.BusinessHoursStart
	}
	if s.BusinessHoursEnd != nil {
		settings.BusinessHoursEnd = *s.BusinessHoursEnd
	}
	if settings.BusinessHoursStart < 0 || settings.BusinessHoursEnd > 24 ||
		settings.BusinessHoursStart >= settings.BusinessHoursEnd {
		return settings, fmt.Errorf("invalid business hours window %d-%d",
			settings.BusinessHoursStart, settings.BusinessHoursEnd)
	}
	if s.Cadence != nil {
		d, err := duration.Parse(*s.Cadence)
		if err != nil {
			return settings, fmt.Errorf("invalid sync cadence: %w", err)
		}
		settings.Cadence = d
	}

	return settings, nil
}

// GetRefreshInterval returns the parsed refresh interval, falling back to
// the default when unset
func (c *Config) GetRefreshInterval() (time.Duration, error) {
	if c.RefreshInterval == "" {
		return constants.SyncTickInterval, nil
	}
	d, err := duration.Parse(c.RefreshInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid refresh_interval: %w", err)
	}
	return d, nil
}

// DefaultConfigDir returns the default config directory
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".pulldash"
	}
	return filepath.Join(configDir, "pulldash")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the current directory
func LocalConfigPath() string {
	return ".pulldash.yaml"
}

// ConfigFileExists returns true if the config file exists on disk
func ConfigFileExists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// Load loads the configuration from disk.
// It first loads the global config from XDG config directory, then merges
// any local .pulldash.yaml config on top (local values take precedence).
func Load() (*Config, error) {
	// Start with defaults
	cfg := &Config{
		DefaultFormat:    "table",
		DefaultTimeRange: "month",
	}

	// Load global config if it exists
	globalPath := ConfigPath()
	if _, err := os.Stat(globalPath); err == nil {
		data, err := os.ReadFile(globalPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read global config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse global config file: %w", err)
		}
	}

	// Load local config if it exists and merge on top
	localPath := LocalConfigPath()
	if _, err := os.Stat(localPath); err == nil {
		data, err := os.ReadFile(localPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read local config file: %w", err)
		}

		var localCfg Config
		if err := yaml.Unmarshal(data, &localCfg); err != nil {
			return nil, fmt.Errorf("failed to parse local config file: %w", err)
		}

		cfg = mergeConfig(cfg, &localCfg)
	}

	// Set defaults if still empty
	if cfg.DefaultFormat == "" {
		cfg.DefaultFormat = "table"
	}
	if cfg.DefaultTimeRange == "" {
		cfg.DefaultTimeRange = "month"
	}

	return cfg, nil
}

// mergeConfig merges local config on top of global config.
// Local values take precedence; unset local values preserve global values.
func mergeConfig(global, local *Config) *Config {
	result := &Config{}

	// Merge simple fields (local wins if set)
	if local.DefaultFormat != "" {
		result.DefaultFormat = local.DefaultFormat
	} else {
		result.DefaultFormat = global.DefaultFormat
	}

	if local.DefaultTimeRange != "" {
		result.DefaultTimeRange = local.DefaultTimeRange
	} else {
		result.DefaultTimeRange = global.DefaultTimeRange
	}

	if local.RefreshInterval != "" {
		result.RefreshInterval = local.RefreshInterval
	} else {
		result.RefreshInterval = global.RefreshInterval
	}

	// Merge arrays (local replaces if non-empty)
	if len(local.Repos) > 0 {
		result.Repos = local.Repos
	} else {
		result.Repos = global.Repos
	}

	// Merge Sync
	result.Sync = mergeSyncOverrides(global.Sync, local.Sync)

	return result
}

// mergeSyncOverrides merges local sync overrides on top of global ones
func mergeSyncOverrides(global, local *SyncOverrides) *SyncOverrides {
	if global == nil && local == nil {
		return nil
	}
	if global == nil {
		return local
	}
	if local == nil {
		return global
	}

	result := &SyncOverrides{}
	result.Timezone = mergeStringPtr(global.Timezone, local.Timezone)
	result.BusinessHoursStart = mergeIntPtr(global.BusinessHoursStart, local.BusinessHoursStart)
	result.BusinessHoursEnd = mergeIntPtr(global.BusinessHoursEnd, local.BusinessHoursEnd)
	result.Cadence = mergeStringPtr(global.Cadence, local.Cadence)
	return result
}

func mergeIntPtr(global, local *int) *int {
	if local != nil {
		return local
	}
	return global
}

func mergeStringPtr(global, local *string) *string {
	if local != nil {
		return local
	}
	return global
}

// Save writes the configuration to the global config file
func (c *Config) Save() error {
	dir := DefaultConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
