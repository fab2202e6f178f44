package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ScreenHome    = "home"
	ScreenMembers = "members"
)

// ScreenConfig holds overrides for a single screen
type ScreenConfig struct {
	FetchTimeout     time.Duration `yaml:"fetch_timeout,omitempty"`
	EnableAnalytics  *bool         `yaml:"enable_analytics,omitempty"`
	RenderEmptyLists *bool         `yaml:"render_empty_lists,omitempty"`
}

// AnalyticsConfig controls the analytics event bus and its sinks
type AnalyticsConfig struct {
	Enabled     bool   `yaml:"enabled"`
	LogEvents   bool   `yaml:"log_events,omitempty"`
	MetricsAddr string `yaml:"metrics_addr,omitempty"` // e.g. "localhost:9090"; empty disables the /metrics endpoint
}

// AppConfig holds the global application configuration
type AppConfig struct {
	APIBaseURL         string                  `yaml:"api_base_url"`
	UserAgent          string                  `yaml:"user_agent,omitempty"`
	MaxRetries         int                     `yaml:"max_retries,omitempty"`
	InitialRetryDelay  time.Duration           `yaml:"initial_retry_delay,omitempty"`
	MaxRetryDelay      time.Duration           `yaml:"max_retry_delay,omitempty"`
	FetchTimeout       time.Duration           `yaml:"fetch_timeout,omitempty"`  // Per-fetch deadline
	ScreenTimeout      time.Duration           `yaml:"screen_timeout,omitempty"` // Headless screen runs (CLI non-interactive, MCP)
	LogLevel           string                  `yaml:"log_level,omitempty"`
	LogFormat          string                  `yaml:"log_format,omitempty"` // "text" or "json"
	HTTPClientSettings HTTPClientConfig        `yaml:"http_client_settings,omitempty"`
	Analytics          AnalyticsConfig         `yaml:"analytics,omitempty"`
	Screens            map[string]ScreenConfig `yaml:"screens,omitempty"`
}

// HTTPClientConfig holds settings for the shared HTTP client
type HTTPClientConfig struct {
	Timeout               time.Duration `yaml:"timeout,omitempty"`                 // Overall request timeout
	MaxIdleConns          int           `yaml:"max_idle_conns,omitempty"`          // Max total idle connections
	MaxIdleConnsPerHost   int           `yaml:"max_idle_conns_per_host,omitempty"` // Max idle connections per host
	IdleConnTimeout       time.Duration `yaml:"idle_conn_timeout,omitempty"`       // Timeout for idle connections
	TLSHandshakeTimeout   time.Duration `yaml:"tls_handshake_timeout,omitempty"`   // Timeout for TLS handshake
	ExpectContinueTimeout time.Duration `yaml:"expect_continue_timeout,omitempty"` // Timeout for 100-continue
	ForceAttemptHTTP2     *bool         `yaml:"force_attempt_http2,omitempty"`     // nil=default, true=force, false=disable
	DialerTimeout         time.Duration `yaml:"dialer_timeout,omitempty"`          // Connection dial timeout
	DialerKeepAlive       time.Duration `yaml:"dialer_keep_alive,omitempty"`       // TCP keep-alive interval
}

// Load reads and parses a YAML config file. An empty path yields the zero
// config, which Validate fills with defaults.
func Load(path string) (*AppConfig, error) {
	var cfg AppConfig
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Screen returns the overrides for name, or the zero ScreenConfig
func (c *AppConfig) Screen(name string) ScreenConfig {
	if c.Screens == nil {
		return ScreenConfig{}
	}
	return c.Screens[name]
}

// GetEffectiveFetchTimeout determines the per-fetch deadline for a screen
func GetEffectiveFetchTimeout(screenCfg ScreenConfig, appCfg AppConfig) time.Duration {
	if screenCfg.FetchTimeout > 0 {
		return screenCfg.FetchTimeout
	}
	return appCfg.FetchTimeout
}

// GetEffectiveEnableAnalytics determines whether a screen emits analytics events
func GetEffectiveEnableAnalytics(screenCfg ScreenConfig, appCfg AppConfig) bool {
	if screenCfg.EnableAnalytics != nil {
		return *screenCfg.EnableAnalytics
	}
	return appCfg.Analytics.Enabled
}

// GetEffectiveRenderEmptyLists determines whether empty lists reach the presenter.
// Defaults to false: an empty successful list renders nothing.
func GetEffectiveRenderEmptyLists(screenCfg ScreenConfig) bool {
	if screenCfg.RenderEmptyLists != nil {
		return *screenCfg.RenderEmptyLists
	}
	return false
}
