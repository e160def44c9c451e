// Package config loads and validates the YAML configuration file.
package config

import "time"

// Config is the root of the YAML configuration.
type Config struct {
	Gateway     GatewayConfig     `yaml:"gateway"`
	Knowledge   KnowledgeConfig   `yaml:"knowledge"`
	Composer    ComposerConfig    `yaml:"composer"`
	Sessions    SessionsConfig    `yaml:"sessions"`
	Maintenance MaintenanceConfig `yaml:"maintenance"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
}

// GatewayConfig configures the HTTP surface.
type GatewayConfig struct {
	Bind            string        `yaml:"bind"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxMessageChars int           `yaml:"max_message_chars"`
	Auth            AuthConfig    `yaml:"auth"`
}

// AuthConfig holds admin-API credentials. Both mechanisms are optional; the
// admin group is not mounted when neither is configured.
type AuthConfig struct {
	BearerToken string `yaml:"bearer_token"`
	BasicUser   string `yaml:"basic_user"`
	BasicPass   string `yaml:"basic_pass"`
}

// IsConfigured reports whether at least one auth mechanism is set.
func (a AuthConfig) IsConfigured() bool {
	return a.BearerToken != "" || (a.BasicUser != "" && a.BasicPass != "")
}

// KnowledgeConfig configures store seeding.
type KnowledgeConfig struct {
	// SeedFile is an optional YAML file of entries merged into the store
	// at start via bulk import.
	SeedFile string `yaml:"seed_file"`

	// DisableBuiltinSeed skips the in-code seed set.
	DisableBuiltinSeed bool `yaml:"disable_builtin_seed"`
}

// ComposerConfig configures response composition.
type ComposerConfig struct {
	MaxResponseChars int `yaml:"max_response_chars"`
}

// SessionsConfig configures the session store.
type SessionsConfig struct {
	Max        int              `yaml:"max"`
	IdleTTL    time.Duration    `yaml:"idle_ttl"`
	Transcript TranscriptConfig `yaml:"transcript"`
}

// TranscriptConfig enables durable transcripts when Path is set.
type TranscriptConfig struct {
	Path string `yaml:"path"`
}

// MaintenanceConfig holds cron expressions for the background jobs.
type MaintenanceConfig struct {
	PruneSchedule string `yaml:"prune_schedule"`
	StatsSchedule string `yaml:"stats_schedule"`
}

// TelemetryConfig enables OTLP trace export.
type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
}

// Defaults fills zero values with sensible defaults.
func (c *Config) Defaults() {
	if c.Gateway.Bind == "" {
		c.Gateway.Bind = "127.0.0.1:8420"
	}
	if c.Gateway.ReadTimeout == 0 {
		c.Gateway.ReadTimeout = 30 * time.Second
	}
	if c.Gateway.WriteTimeout == 0 {
		c.Gateway.WriteTimeout = 30 * time.Second
	}
	if c.Gateway.ShutdownTimeout == 0 {
		c.Gateway.ShutdownTimeout = 10 * time.Second
	}
	if c.Gateway.MaxMessageChars == 0 {
		c.Gateway.MaxMessageChars = 4000
	}
	if c.Composer.MaxResponseChars == 0 {
		c.Composer.MaxResponseChars = 1500
	}
	if c.Sessions.IdleTTL == 0 {
		c.Sessions.IdleTTL = 30 * time.Minute
	}
	if c.Maintenance.PruneSchedule == "" {
		c.Maintenance.PruneSchedule = "*/10 * * * *"
	}
	if c.Maintenance.StatsSchedule == "" {
		c.Maintenance.StatsSchedule = "0 * * * *"
	}
}
