package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// CacheConfig holds all cache-related configuration
type CacheConfig struct {
	// Opportunity analysis LRU
	AnalysisLRUSize       int
	AnalysisLRUTTLMinutes int

	// Station and competitor fixtures fetched from S3
	FixtureTTLMinutes int

	// DynamoDB batch writes
	BatchSize       int
	MaxBatchRetries int

	EnableLRUCache   bool
	EnableS3Fixtures bool
}

const (
	defaultAnalysisLRUSize       = 1000
	defaultAnalysisLRUTTLMinutes = 15
	defaultFixtureTTLMinutes     = 60
	defaultBatchSize             = 25
	defaultMaxBatchRetries       = 3
)

// GetCacheConfig returns the cache configuration from environment variables or defaults
func GetCacheConfig() *CacheConfig {
	config := &CacheConfig{
		AnalysisLRUSize:       getEnvInt("CACHE_ANALYSIS_LRU_SIZE", defaultAnalysisLRUSize),
		AnalysisLRUTTLMinutes: getEnvInt("CACHE_ANALYSIS_LRU_TTL_MINUTES", defaultAnalysisLRUTTLMinutes),
		FixtureTTLMinutes:     getEnvInt("CACHE_FIXTURE_TTL_MINUTES", defaultFixtureTTLMinutes),
		BatchSize:             getEnvInt("CACHE_BATCH_SIZE", defaultBatchSize),
		MaxBatchRetries:       getEnvInt("CACHE_MAX_BATCH_RETRIES", defaultMaxBatchRetries),
		EnableLRUCache:        getEnvBool("CACHE_ENABLE_LRU", true),
		EnableS3Fixtures:      getEnvBool("CACHE_ENABLE_S3_FIXTURES", true),
	}

	log.Debug().
		Int("AnalysisLRUSize", config.AnalysisLRUSize).
		Int("AnalysisLRUTTLMinutes", config.AnalysisLRUTTLMinutes).
		Int("FixtureTTLMinutes", config.FixtureTTLMinutes).
		Int("BatchSize", config.BatchSize).
		Int("MaxBatchRetries", config.MaxBatchRetries).
		Bool("EnableLRUCache", config.EnableLRUCache).
		Bool("EnableS3Fixtures", config.EnableS3Fixtures).
		Msg("Cache configuration loaded")

	return config
}

func (c *CacheConfig) GetAnalysisLRUTTL() time.Duration {
	return time.Duration(c.AnalysisLRUTTLMinutes) * time.Minute
}

func (c *CacheConfig) GetFixtureTTL() time.Duration {
	return time.Duration(c.FixtureTTLMinutes) * time.Minute
}

// Helper functions to get environment variables with defaults
func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Msg("Invalid integer value in environment variable, using default")
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
		log.Warn().Str("key", key).Msg("Invalid float value in environment variable, using default")
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val, exists := os.LookupEnv(key); exists {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
