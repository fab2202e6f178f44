package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"ong-client/pkg/utils"
)

const (
	DefaultAPIBaseURL = "https://ongapi.alkemy.org/api"
	DefaultUserAgent  = "ong-client/1.0"
)

// Validate checks AppConfig fields and applies sensible defaults.
// Returns collected warnings and any fatal error.
// Modifies receiver in place to apply defaults.
func (c *AppConfig) Validate() (warnings []string, err error) {
	// APIBaseURL
	if c.APIBaseURL == "" {
		warnings = append(warnings, fmt.Sprintf("api_base_url is empty, defaulting to '%s'", DefaultAPIBaseURL))
		c.APIBaseURL = DefaultAPIBaseURL
	}
	parsed, parseErr := url.Parse(c.APIBaseURL)
	if parseErr != nil {
		return warnings, fmt.Errorf("%w: api_base_url '%s' is not a valid URL: %v", utils.ErrConfigValidation, c.APIBaseURL, parseErr)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return warnings, fmt.Errorf("%w: api_base_url '%s' must use http or https", utils.ErrConfigValidation, c.APIBaseURL)
	}
	if parsed.Host == "" {
		return warnings, fmt.Errorf("%w: api_base_url '%s' has no host", utils.ErrConfigValidation, c.APIBaseURL)
	}
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")

	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}

	// MaxRetries
	if c.MaxRetries < 0 {
		warnings = append(warnings, "max_retries cannot be negative, setting to 0")
		c.MaxRetries = 0
	}
	if c.MaxRetries == 0 && c.InitialRetryDelay == 0 {
		c.MaxRetries = 3
	}

	// Retry delays (only if retries enabled)
	if c.MaxRetries > 0 {
		if c.InitialRetryDelay <= 0 {
			c.InitialRetryDelay = 1 * time.Second
		}
		if c.MaxRetryDelay <= 0 {
			c.MaxRetryDelay = 10 * time.Second
		}
	}

	if c.InitialRetryDelay > c.MaxRetryDelay && c.MaxRetryDelay > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"initial_retry_delay (%v) > max_retry_delay (%v), using max_retry_delay for initial",
			c.InitialRetryDelay, c.MaxRetryDelay))
		c.InitialRetryDelay = c.MaxRetryDelay
	}

	// FetchTimeout
	if c.FetchTimeout < 0 {
		warnings = append(warnings, "fetch_timeout cannot be negative, disabling timeout")
		c.FetchTimeout = 0
	}
	if c.FetchTimeout == 0 {
		c.FetchTimeout = 60 * time.Second
	}

	// ScreenTimeout
	if c.ScreenTimeout < 0 {
		warnings = append(warnings, "screen_timeout cannot be negative, defaulting to 2m")
		c.ScreenTimeout = 0
	}
	if c.ScreenTimeout == 0 {
		c.ScreenTimeout = 2 * time.Minute
	}

	// Logging
	switch strings.ToLower(c.LogLevel) {
	case "":
		c.LogLevel = "info"
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic":
		c.LogLevel = strings.ToLower(c.LogLevel)
	default:
		warnings = append(warnings, fmt.Sprintf("log_level '%s' is not recognised, defaulting to 'info'", c.LogLevel))
		c.LogLevel = "info"
	}
	switch strings.ToLower(c.LogFormat) {
	case "":
		c.LogFormat = "text"
	case "text", "json":
		c.LogFormat = strings.ToLower(c.LogFormat)
	default:
		warnings = append(warnings, fmt.Sprintf("log_format '%s' is not recognised, defaulting to 'text'", c.LogFormat))
		c.LogFormat = "text"
	}

	// Analytics
	if c.Analytics.MetricsAddr != "" && !c.Analytics.Enabled {
		warnings = append(warnings, "analytics.metrics_addr is set but analytics is disabled; the endpoint will only report zero counters")
	}

	// Screens
	for name, sc := range c.Screens {
		if name != ScreenHome && name != ScreenMembers {
			warnings = append(warnings, fmt.Sprintf("screens: unknown screen '%s' is ignored", name))
			continue
		}
		if sc.FetchTimeout < 0 {
			warnings = append(warnings, fmt.Sprintf("screens.%s.fetch_timeout cannot be negative, using global fetch_timeout", name))
			sc.FetchTimeout = 0
			c.Screens[name] = sc
		}
	}

	c.validateHTTPClientSettings()

	return warnings, nil
}

// validateHTTPClientSettings applies defaults to HTTP client settings.
func (c *AppConfig) validateHTTPClientSettings() {
	h := &c.HTTPClientSettings
	if h.Timeout <= 0 {
		h.Timeout = 30 * time.Second
	}
	if h.MaxIdleConns <= 0 {
		h.MaxIdleConns = 100
	}
	if h.MaxIdleConnsPerHost <= 0 {
		h.MaxIdleConnsPerHost = 4
	}
	if h.IdleConnTimeout <= 0 {
		h.IdleConnTimeout = 90 * time.Second
	}
	if h.TLSHandshakeTimeout <= 0 {
		h.TLSHandshakeTimeout = 10 * time.Second
	}
	if h.ExpectContinueTimeout <= 0 {
		h.ExpectContinueTimeout = 1 * time.Second
	}
	if h.DialerTimeout <= 0 {
		h.DialerTimeout = 15 * time.Second
	}
	if h.DialerKeepAlive <= 0 {
		h.DialerKeepAlive = 30 * time.Second
	}
}
