package config

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Environment string
	LogLevel    zerolog.Level
	HTTPTimeout time.Duration
	MaxRetries  int

	// Live data sources; an empty URL disables that source
	MaritimeBaseURL       string
	WeatherBaseURL        string
	InfrastructureBaseURL string

	EconomicsTable string
	FixtureBucket  string
	AWSRegion      string
	// AWSEndpoint points DynamoDB and S3 at a local emulator when set
	AWSEndpoint string
}

type Option func(*Config)

// WithEnvironment allows setting the environment
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithLogLevel allows setting the log level
func WithLogLevel(level string) Option {
	return func(c *Config) {
		parsedLevel, err := zerolog.ParseLevel(level)
		if err != nil {
			parsedLevel = zerolog.InfoLevel
		}
		c.LogLevel = parsedLevel
	}
}

// WithHTTPTimeout allows setting the HTTP timeout
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.HTTPTimeout = timeout
	}
}

func WithMaxRetries(n int) Option {
	return func(c *Config) {
		if n >= 0 {
			c.MaxRetries = n
		}
	}
}

// WithSourceURLs sets the live maritime, weather and infrastructure endpoints
func WithSourceURLs(maritime, weather, infrastructure string) Option {
	return func(c *Config) {
		c.MaritimeBaseURL = maritime
		c.WeatherBaseURL = weather
		c.InfrastructureBaseURL = infrastructure
	}
}

func WithEconomicsTable(table string) Option {
	return func(c *Config) {
		c.EconomicsTable = table
	}
}

func WithFixtureBucket(bucket string) Option {
	return func(c *Config) {
		c.FixtureBucket = bucket
	}
}

func WithAWS(region, endpoint string) Option {
	return func(c *Config) {
		if region != "" {
			c.AWSRegion = region
		}
		c.AWSEndpoint = endpoint
	}
}

// New creates a new configuration with default values
func New(opts ...Option) *Config {
	cfg := &Config{
		Environment:    "production",
		LogLevel:       zerolog.InfoLevel,
		HTTPTimeout:    10 * time.Second,
		MaxRetries:     3,
		EconomicsTable: "country-economics",
		AWSRegion:      "us-east-1",
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// IsLocal reports whether the process runs outside AWS
func (c *Config) IsLocal() bool {
	return c.Environment == "local" || c.Environment == "development"
}

// InitializeLogging sets up logging based on the configuration
func (c *Config) InitializeLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(c.LogLevel)

	// Setup console logger for development environments
	if c.IsLocal() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	return New(
		WithEnvironment(getEnvOrDefault("ENV", "production")),
		WithLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
		WithHTTPTimeout(getDurationEnvOrDefault("HTTP_TIMEOUT", 10*time.Second)),
		WithMaxRetries(getEnvInt("HTTP_MAX_RETRIES", 3)),
		WithSourceURLs(
			os.Getenv("MARITIME_API_URL"),
			os.Getenv("WEATHER_API_URL"),
			os.Getenv("INFRASTRUCTURE_API_URL"),
		),
		WithEconomicsTable(getEnvOrDefault("ECONOMICS_TABLE", "country-economics")),
		WithFixtureBucket(os.Getenv("FIXTURE_BUCKET")),
		WithAWS(os.Getenv("AWS_REGION"), os.Getenv("AWS_ENDPOINT_URL")),
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
