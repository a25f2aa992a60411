package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultMinConfidenceScore    = 0.3
	DefaultMaxDataAge            = 7 * 24 * time.Hour
	DefaultFallbackDataRetention = 30 * 24 * time.Hour
	DefaultSyntheticDataVariance = 0.2
	DefaultFetchTimeout          = 5 * time.Second
	DefaultSweepInterval         = 24 * time.Hour

	EmergencyMaxDataAge         = 30 * 24 * time.Hour
	EmergencyMinConfidenceScore = 0.1
)

// Duration reads either a Go duration string ("168h") or a number of
// milliseconds from JSON
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var ms float64
	if err := json.Unmarshal(b, &ms); err != nil {
		return fmt.Errorf("invalid duration %s: %w", string(b), err)
	}
	*d = Duration(time.Duration(ms * float64(time.Millisecond)))
	return nil
}

// FallbackConfig controls the fallback data service
type FallbackConfig struct {
	UseHistoricalData     bool     `json:"useHistoricalData"`
	UseSyntheticData      bool     `json:"useSyntheticData"`
	UseStatisticalModels  bool     `json:"useStatisticalModels"`
	MinConfidenceScore    float64  `json:"minConfidenceScore"`
	MaxDataAge            Duration `json:"maxDataAge"`
	FallbackDataRetention Duration `json:"fallbackDataRetention"`
	EmergencyMode         bool     `json:"emergencyMode"`
	OfflineMode           bool     `json:"offlineMode"`
	SyntheticDataVariance float64  `json:"syntheticDataVariance"`
	GeographicRealism     bool     `json:"geographicRealism"`
	TemporalConsistency   bool     `json:"temporalConsistency"`
	FetchTimeout          Duration `json:"fetchTimeout"`
	SweepInterval         Duration `json:"sweepInterval"`
}

func DefaultFallbackConfig() FallbackConfig {
	return FallbackConfig{
		UseHistoricalData:     true,
		UseSyntheticData:      true,
		UseStatisticalModels:  true,
		MinConfidenceScore:    DefaultMinConfidenceScore,
		MaxDataAge:            Duration(DefaultMaxDataAge),
		FallbackDataRetention: Duration(DefaultFallbackDataRetention),
		SyntheticDataVariance: DefaultSyntheticDataVariance,
		GeographicRealism:     true,
		TemporalConsistency:   true,
		FetchTimeout:          Duration(DefaultFetchTimeout),
		SweepInterval:         Duration(DefaultSweepInterval),
	}
}

// ParseFallbackConfig overlays a JSON document on the defaults. Unknown keys
// are ignored.
func ParseFallbackConfig(data []byte) (FallbackConfig, error) {
	cfg := DefaultFallbackConfig()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return FallbackConfig{}, fmt.Errorf("parsing fallback config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return FallbackConfig{}, err
	}
	return cfg, nil
}

func (c FallbackConfig) Validate() error {
	if math.IsNaN(c.MinConfidenceScore) || c.MinConfidenceScore < 0 || c.MinConfidenceScore > 1 {
		return fmt.Errorf("minConfidenceScore must be within [0,1], got %v", c.MinConfidenceScore)
	}
	if math.IsNaN(c.SyntheticDataVariance) || c.SyntheticDataVariance < 0 || c.SyntheticDataVariance > 1 {
		return fmt.Errorf("syntheticDataVariance must be within [0,1], got %v", c.SyntheticDataVariance)
	}
	if c.MaxDataAge <= 0 {
		return fmt.Errorf("maxDataAge must be positive")
	}
	if c.FallbackDataRetention <= 0 {
		return fmt.Errorf("fallbackDataRetention must be positive")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetchTimeout must be positive")
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("sweepInterval must be positive")
	}
	return nil
}

// Thresholds returns the freshness and quality limits in force, widened when
// emergency mode is on
func (c FallbackConfig) Thresholds() (maxAge time.Duration, minConfidence float64) {
	maxAge = time.Duration(c.MaxDataAge)
	minConfidence = c.MinConfidenceScore
	if c.EmergencyMode {
		maxAge = max(maxAge, EmergencyMaxDataAge)
		minConfidence = min(minConfidence, EmergencyMinConfidenceScore)
	}
	return maxAge, minConfidence
}

// GetFallbackConfig reads FALLBACK_CONFIG (JSON) and then individual
// FALLBACK_* overrides
func GetFallbackConfig() (FallbackConfig, error) {
	cfg, err := ParseFallbackConfig([]byte(os.Getenv("FALLBACK_CONFIG")))
	if err != nil {
		return FallbackConfig{}, err
	}

	cfg.OfflineMode = getEnvBool("FALLBACK_OFFLINE_MODE", cfg.OfflineMode)
	cfg.EmergencyMode = getEnvBool("FALLBACK_EMERGENCY_MODE", cfg.EmergencyMode)
	cfg.MinConfidenceScore = getEnvFloat("FALLBACK_MIN_CONFIDENCE", cfg.MinConfidenceScore)
	cfg.SyntheticDataVariance = getEnvFloat("FALLBACK_SYNTHETIC_VARIANCE", cfg.SyntheticDataVariance)
	cfg.MaxDataAge = Duration(getDurationEnvOrDefault("FALLBACK_MAX_DATA_AGE", time.Duration(cfg.MaxDataAge)))
	cfg.FetchTimeout = Duration(getDurationEnvOrDefault("FALLBACK_FETCH_TIMEOUT", time.Duration(cfg.FetchTimeout)))

	if err := cfg.Validate(); err != nil {
		return FallbackConfig{}, err
	}

	log.Debug().
		Bool("UseHistoricalData", cfg.UseHistoricalData).
		Bool("UseSyntheticData", cfg.UseSyntheticData).
		Bool("UseStatisticalModels", cfg.UseStatisticalModels).
		Float64("MinConfidenceScore", cfg.MinConfidenceScore).
		Dur("MaxDataAge", time.Duration(cfg.MaxDataAge)).
		Dur("FallbackDataRetention", time.Duration(cfg.FallbackDataRetention)).
		Bool("EmergencyMode", cfg.EmergencyMode).
		Bool("OfflineMode", cfg.OfflineMode).
		Float64("SyntheticDataVariance", cfg.SyntheticDataVariance).
		Dur("FetchTimeout", time.Duration(cfg.FetchTimeout)).
		Msg("Fallback configuration loaded")

	return cfg, nil
}
