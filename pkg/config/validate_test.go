package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ong-client/pkg/utils"
)

func containsWarning(warnings []string, substr string) bool {
	for _, w := range warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}

func TestAppConfig_Validate_Defaults(t *testing.T) {
	cfg := AppConfig{} // Zero value
	warnings, err := cfg.Validate()

	require.NoError(t, err)

	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 1*time.Second, cfg.InitialRetryDelay)
	assert.Equal(t, 10*time.Second, cfg.MaxRetryDelay)
	assert.Equal(t, 60*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 2*time.Minute, cfg.ScreenTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)

	assert.Equal(t, 30*time.Second, cfg.HTTPClientSettings.Timeout)
	assert.Equal(t, 100, cfg.HTTPClientSettings.MaxIdleConns)
	assert.Equal(t, 4, cfg.HTTPClientSettings.MaxIdleConnsPerHost)
	assert.Equal(t, 90*time.Second, cfg.HTTPClientSettings.IdleConnTimeout)
	assert.Equal(t, 10*time.Second, cfg.HTTPClientSettings.TLSHandshakeTimeout)
	assert.Equal(t, 1*time.Second, cfg.HTTPClientSettings.ExpectContinueTimeout)
	assert.Equal(t, 15*time.Second, cfg.HTTPClientSettings.DialerTimeout)
	assert.Equal(t, 30*time.Second, cfg.HTTPClientSettings.DialerKeepAlive)

	assert.True(t, containsWarning(warnings, "api_base_url is empty"))
}

func TestAppConfig_Validate_ValidConfig(t *testing.T) {
	cfg := AppConfig{
		APIBaseURL:        "http://localhost:8000/api/",
		UserAgent:         "test-agent",
		MaxRetries:        5,
		InitialRetryDelay: 2 * time.Second,
		MaxRetryDelay:     20 * time.Second,
		FetchTimeout:      5 * time.Second,
		ScreenTimeout:     30 * time.Second,
		LogLevel:          "DEBUG",
		LogFormat:         "json",
	}
	warnings, err := cfg.Validate()

	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "http://localhost:8000/api", cfg.APIBaseURL)
	assert.Equal(t, "test-agent", cfg.UserAgent)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestAppConfig_Validate_InvalidBaseURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"no scheme", "ongapi.alkemy.org/api"},
		{"ftp scheme", "ftp://ongapi.alkemy.org"},
		{"no host", "https://"},
		{"unparseable", "http://[::1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := AppConfig{APIBaseURL: tt.url}
			_, err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, utils.ErrConfigValidation)
		})
	}
}

func TestAppConfig_Validate_RetryDelays(t *testing.T) {
	cfg := AppConfig{
		APIBaseURL:        DefaultAPIBaseURL,
		MaxRetries:        2,
		InitialRetryDelay: 30 * time.Second,
		MaxRetryDelay:     5 * time.Second,
	}
	warnings, err := cfg.Validate()

	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.InitialRetryDelay)
	assert.True(t, containsWarning(warnings, "initial_retry_delay"))
}

func TestAppConfig_Validate_NegativeValues(t *testing.T) {
	cfg := AppConfig{
		APIBaseURL:    DefaultAPIBaseURL,
		MaxRetries:    -1,
		FetchTimeout:  -time.Second,
		ScreenTimeout: -time.Second,
	}
	warnings, err := cfg.Validate()

	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 60*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 2*time.Minute, cfg.ScreenTimeout)
	assert.True(t, containsWarning(warnings, "max_retries cannot be negative"))
	assert.True(t, containsWarning(warnings, "fetch_timeout cannot be negative"))
	assert.True(t, containsWarning(warnings, "screen_timeout cannot be negative"))
}

func TestAppConfig_Validate_UnknownLogSettings(t *testing.T) {
	cfg := AppConfig{APIBaseURL: DefaultAPIBaseURL, LogLevel: "loud", LogFormat: "xml"}
	warnings, err := cfg.Validate()

	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.True(t, containsWarning(warnings, "log_level 'loud'"))
	assert.True(t, containsWarning(warnings, "log_format 'xml'"))
}

func TestAppConfig_Validate_Screens(t *testing.T) {
	cfg := AppConfig{
		APIBaseURL: DefaultAPIBaseURL,
		Screens: map[string]ScreenConfig{
			ScreenHome:  {FetchTimeout: -time.Second},
			"dashboard": {},
		},
	}
	warnings, err := cfg.Validate()

	require.NoError(t, err)
	assert.Zero(t, cfg.Screens[ScreenHome].FetchTimeout)
	assert.True(t, containsWarning(warnings, "screens.home.fetch_timeout"))
	assert.True(t, containsWarning(warnings, "unknown screen 'dashboard'"))
}
