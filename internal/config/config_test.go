package config

import (
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewConfigWithDefaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, "country-economics", cfg.EconomicsTable)
	assert.Equal(t, "us-east-1", cfg.AWSRegion)
	assert.Empty(t, cfg.MaritimeBaseURL)
	assert.Empty(t, cfg.FixtureBucket)
	assert.False(t, cfg.IsLocal())
}

func TestWithSourceURLs(t *testing.T) {
	cfg := New(WithSourceURLs("http://maritime", "http://weather", ""))

	assert.Equal(t, "http://maritime", cfg.MaritimeBaseURL)
	assert.Equal(t, "http://weather", cfg.WeatherBaseURL)
	assert.Empty(t, cfg.InfrastructureBaseURL)
}

func TestWithAWS(t *testing.T) {
	cfg := New(WithAWS("", "http://localhost:4566"))
	assert.Equal(t, "us-east-1", cfg.AWSRegion)
	assert.Equal(t, "http://localhost:4566", cfg.AWSEndpoint)

	cfg = New(WithAWS("eu-west-1", ""))
	assert.Equal(t, "eu-west-1", cfg.AWSRegion)
	assert.Empty(t, cfg.AWSEndpoint)
}

func TestWithMaxRetries(t *testing.T) {
	assert.Equal(t, 5, New(WithMaxRetries(5)).MaxRetries)
	assert.Equal(t, 3, New(WithMaxRetries(-1)).MaxRetries)
}

func TestWithEnvironment(t *testing.T) {
	cfg := New(WithEnvironment("development"))

	assert.Equal(t, "development", cfg.Environment)
}

func TestWithLogLevel(t *testing.T) {
	cfg := New(WithLogLevel("debug"))

	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
}

func TestWithHTTPTimeout(t *testing.T) {
	cfg := New(WithHTTPTimeout(30 * time.Second))

	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
}

func TestInitializeLogging(t *testing.T) {
	cfg := New(WithEnvironment("local"), WithLogLevel("debug"))
	cfg.InitializeLogging()

	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	assert.True(t, cfg.IsLocal())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("MARITIME_API_URL", "http://ais.local")
	t.Setenv("FIXTURE_BUCKET", "groundscout-fixtures")
	t.Setenv("AWS_ENDPOINT_URL", "http://localhost:8000")

	cfg := LoadFromEnv()

	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, zerolog.WarnLevel, cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "http://ais.local", cfg.MaritimeBaseURL)
	assert.Equal(t, "groundscout-fixtures", cfg.FixtureBucket)
	assert.Equal(t, "http://localhost:8000", cfg.AWSEndpoint)
}

func TestGetEnvOrDefault(t *testing.T) {
	err := os.Setenv("TEST_ENV_VAR", "value")
	if err != nil {
		return
	}
	defer func() {
		err := os.Unsetenv("TEST_ENV_VAR")
		if err != nil {
			return
		}
	}()

	assert.Equal(t, "value", getEnvOrDefault("TEST_ENV_VAR", "default"))
	assert.Equal(t, "default", getEnvOrDefault("NON_EXISTENT_ENV_VAR", "default"))
}

func TestGetDurationEnvOrDefault(t *testing.T) {
	err := os.Setenv("TEST_DURATION_ENV_VAR", "2s")
	if err != nil {
		return
	}
	defer func() {
		err := os.Unsetenv("TEST_DURATION_ENV_VAR")
		if err != nil {
			return
		}
	}()

	assert.Equal(t, 2*time.Second, getDurationEnvOrDefault("TEST_DURATION_ENV_VAR", 1*time.Second))
	assert.Equal(t, 1*time.Second, getDurationEnvOrDefault("NON_EXISTENT_DURATION_ENV_VAR", 1*time.Second))
}
