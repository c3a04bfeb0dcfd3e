// File: internal/config/config.go
package config

import (
	"fmt"
	"math"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger      LoggerConfig      `mapstructure:"logger" yaml:"logger"`
	Probe       ProbeConfig       `mapstructure:"probe" yaml:"probe"`
	Scoring     ScoringConfig     `mapstructure:"scoring" yaml:"scoring"`
	ThreatIntel ThreatIntelConfig `mapstructure:"threatintel" yaml:"threatintel"`
	// Scan gets its marching orders from CLI flags and the scan section.
	Scan ScanConfig `mapstructure:"scan" yaml:"scan"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// ProbeConfig tunes the endpoint liveness prober.
type ProbeConfig struct {
	// Timeout bounds every single probe request.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	// Concurrency caps simultaneous probes within one identity.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
	// RateLimit caps outbound probes per second across the process, to
	// avoid hammering remote hosts during large batches. Zero disables
	// the limiter.
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit"`
	UserAgent string  `mapstructure:"user_agent" yaml:"user_agent"`
}

// AuditWeights are the blend weights of the four security-audit dimensions.
// They must sum to 1.0.
type AuditWeights struct {
	Schema     float64 `mapstructure:"schema" yaml:"schema"`
	Endpoint   float64 `mapstructure:"endpoint" yaml:"endpoint"`
	Content    float64 `mapstructure:"content" yaml:"content"`
	Reputation float64 `mapstructure:"reputation" yaml:"reputation"`
}

// Sum returns the total of the four weights.
func (w AuditWeights) Sum() float64 {
	return w.Schema + w.Endpoint + w.Content + w.Reputation
}

// ReputationWeights are the blend weights of the four reputation dimensions.
// They must sum to 1.0.
type ReputationWeights struct {
	Metadata float64 `mapstructure:"metadata" yaml:"metadata"`
	Health   float64 `mapstructure:"health" yaml:"health"`
	Age      float64 `mapstructure:"age" yaml:"age"`
	Activity float64 `mapstructure:"activity" yaml:"activity"`
}

// Sum returns the total of the four weights.
func (w ReputationWeights) Sum() float64 {
	return w.Metadata + w.Health + w.Age + w.Activity
}

// ScoringConfig lifts every scoring policy constant into one tunable place
// so the policy can change without touching check logic.
type ScoringConfig struct {
	Audit      AuditWeights      `mapstructure:"audit_weights" yaml:"audit_weights"`
	Reputation ReputationWeights `mapstructure:"reputation_weights" yaml:"reputation_weights"`
	// AgeSaturationDays is the registration age at which the age
	// sub-score saturates at 100.
	AgeSaturationDays float64 `mapstructure:"age_saturation_days" yaml:"age_saturation_days"`
	// ActivityLogScale multiplies log10(txCount); 33 makes three orders
	// of magnitude of activity approach saturation.
	ActivityLogScale float64 `mapstructure:"activity_log_scale" yaml:"activity_log_scale"`
}

// ThreatIntelConfig extends the built-in deny-lists without a redeploy.
// Entries here are merged with the compiled-in defaults.
type ThreatIntelConfig struct {
	SuspiciousDomains    []string `mapstructure:"suspicious_domains" yaml:"suspicious_domains"`
	BlacklistedAddresses []string `mapstructure:"blacklisted_addresses" yaml:"blacklisted_addresses"`
	// PhishingPatterns are additional regular expressions matched against
	// the lowercased metadata document.
	PhishingPatterns []string `mapstructure:"phishing_patterns" yaml:"phishing_patterns"`
}

// ScanConfig holds settings for a batch scan job. Input, Output and Format
// are populated from CLI flags.
type ScanConfig struct {
	// Concurrency caps simultaneous identity audits in a batch.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
	// Top is the size of the score-descending ranking in scan output.
	Top int `mapstructure:"top" yaml:"top"`

	Input  string `mapstructure:"-" yaml:"-"`
	Output string `mapstructure:"-" yaml:"-"`
	Format string `mapstructure:"-" yaml:"-"`
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "agentlens")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Probe --
	v.SetDefault("probe.timeout", 8*time.Second)
	v.SetDefault("probe.concurrency", 5)
	v.SetDefault("probe.rate_limit", 10.0)
	v.SetDefault("probe.user_agent", "agentlens/"+"1.0")

	// -- Scoring --
	v.SetDefault("scoring.audit_weights.schema", 0.25)
	v.SetDefault("scoring.audit_weights.endpoint", 0.30)
	v.SetDefault("scoring.audit_weights.content", 0.30)
	v.SetDefault("scoring.audit_weights.reputation", 0.15)
	v.SetDefault("scoring.reputation_weights.metadata", 0.25)
	v.SetDefault("scoring.reputation_weights.health", 0.30)
	v.SetDefault("scoring.reputation_weights.age", 0.20)
	v.SetDefault("scoring.reputation_weights.activity", 0.25)
	v.SetDefault("scoring.age_saturation_days", 90.0)
	v.SetDefault("scoring.activity_log_scale", 33.0)

	// -- Scan --
	v.SetDefault("scan.concurrency", 5)
	v.SetDefault("scan.top", 10)
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper creates a configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// weightTolerance absorbs float decoding noise when checking weight sums.
const weightTolerance = 1e-9

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.Probe.Timeout <= 0 {
		return fmt.Errorf("probe.timeout must be a positive duration")
	}
	if c.Probe.Concurrency <= 0 {
		return fmt.Errorf("probe.concurrency must be a positive integer")
	}
	if c.Probe.RateLimit < 0 {
		return fmt.Errorf("probe.rate_limit must not be negative")
	}
	if c.Scan.Concurrency <= 0 {
		return fmt.Errorf("scan.concurrency must be a positive integer")
	}
	if c.Scan.Top < 0 {
		return fmt.Errorf("scan.top must not be negative")
	}
	if math.Abs(c.Scoring.Audit.Sum()-1.0) > weightTolerance {
		return fmt.Errorf("scoring.audit_weights must sum to 1.0, got %v", c.Scoring.Audit.Sum())
	}
	if math.Abs(c.Scoring.Reputation.Sum()-1.0) > weightTolerance {
		return fmt.Errorf("scoring.reputation_weights must sum to 1.0, got %v", c.Scoring.Reputation.Sum())
	}
	if c.Scoring.AgeSaturationDays <= 0 {
		return fmt.Errorf("scoring.age_saturation_days must be positive")
	}
	if c.Scoring.ActivityLogScale <= 0 {
		return fmt.Errorf("scoring.activity_log_scale must be positive")
	}
	return nil
}
