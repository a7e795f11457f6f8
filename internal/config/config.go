// Package config loads and validates runtime client configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/JakeFAU/quantum-runtime-client/internal/archive"
	"github.com/JakeFAU/quantum-runtime-client/internal/session"
	"github.com/JakeFAU/quantum-runtime-client/internal/telemetry"
)

// Config captures all client configuration knobs loaded via Viper.
type Config struct {
	API     APIConfig        `mapstructure:"api"`
	HTTP    HTTPConfig       `mapstructure:"http"`
	Logging LoggingConfig    `mapstructure:"logging"`
	Time    TimeConfig       `mapstructure:"time"`
	Archive archive.Config   `mapstructure:"archive"`
	Metrics MetricsConfig    `mapstructure:"metrics"`
	Tracing telemetry.Config `mapstructure:"tracing"`
}

// APIConfig locates the runtime service.
type APIConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	URLPrefix string `mapstructure:"url_prefix"`
}

// HTTPConfig configures HTTP client retry behavior.
type HTTPConfig struct {
	TimeoutSeconds   int    `mapstructure:"timeout_seconds"`
	MaxRetries       int    `mapstructure:"max_retries"`
	BackoffInitialMs int    `mapstructure:"backoff_initial_ms"`
	BackoffMaxMs     int    `mapstructure:"backoff_max_ms"`
	UserAgent        string `mapstructure:"user_agent"`

	// RequestsPerSecond limits outgoing requests per host; 0 disables it.
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// TimeConfig names the zone used as "local" when rendering timestamps.
// An empty location means the host's zone.
type TimeConfig struct {
	Location string `mapstructure:"location"`
}

// MetricsConfig controls the Prometheus textfile written after each command.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RUNTIME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "https://runtime-us-east.quantum-computing.ibm.com")
	v.SetDefault("api.url_prefix", "")
	v.SetDefault("http.timeout_seconds", 30)
	v.SetDefault("http.max_retries", 3)
	v.SetDefault("http.backoff_initial_ms", 250)
	v.SetDefault("http.backoff_max_ms", 5000)
	v.SetDefault("http.user_agent", "runtimectl/0.1")
	v.SetDefault("logging.development", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("time.location", "")
	v.SetDefault("archive.provider", archive.ProviderNone)
	v.SetDefault("archive.prefix", "jobs")
	v.SetDefault("archive.local.base_dir", "")
	v.SetDefault("archive.gcs.bucket", "")
	v.SetDefault("http.requests_per_second", 0)
	v.SetDefault("http.burst", 1)
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "runtimectl")
	v.SetDefault("tracing.project_id", "")
	v.SetDefault("tracing.sample_ratio", 1.0)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("api.base_url must be an http(s) URL")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.HTTP.MaxRetries < 0 {
		return fmt.Errorf("http.max_retries must be >= 0")
	}
	if c.HTTP.BackoffInitialMs < 0 || c.HTTP.BackoffMaxMs < 0 {
		return fmt.Errorf("http backoff values must be >= 0")
	}
	if c.HTTP.RequestsPerSecond < 0 {
		return fmt.Errorf("http.requests_per_second must be >= 0")
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing.sample_ratio must be between 0 and 1")
	}
	switch c.Archive.Provider {
	case "", archive.ProviderNone, archive.ProviderMemory:
	case archive.ProviderLocal:
		if strings.TrimSpace(c.Archive.Local.BaseDir) == "" {
			return fmt.Errorf("archive.local.base_dir must be set when archive.provider is local")
		}
	case archive.ProviderGCS:
		if strings.TrimSpace(c.Archive.GCS.Bucket) == "" {
			return fmt.Errorf("archive.gcs.bucket must be set when archive.provider is gcs")
		}
	default:
		return fmt.Errorf("archive.provider %q is not one of none, memory, local, gcs", c.Archive.Provider)
	}
	if _, err := c.TimeLocation(); err != nil {
		return err
	}
	return nil
}

// TimeLocation resolves time.location. Empty means time.Local.
func (c Config) TimeLocation() (*time.Location, error) {
	if c.Time.Location == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Time.Location)
	if err != nil {
		return nil, fmt.Errorf("time.location: %w", err)
	}
	return loc, nil
}

// SessionConfig converts the api and http sections into a session.Config.
func (c Config) SessionConfig() session.Config {
	return session.Config{
		BaseURL:        c.API.BaseURL,
		Timeout:        time.Duration(c.HTTP.TimeoutSeconds) * time.Second,
		MaxRetries:     c.HTTP.MaxRetries,
		BackoffInitial: time.Duration(c.HTTP.BackoffInitialMs) * time.Millisecond,
		BackoffMax:     time.Duration(c.HTTP.BackoffMaxMs) * time.Millisecond,
		UserAgent:      c.HTTP.UserAgent,

		RequestsPerSecond: c.HTTP.RequestsPerSecond,
		Burst:             c.HTTP.Burst,
	}
}
