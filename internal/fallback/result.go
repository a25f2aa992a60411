package fallback

import (
	"time"

	"github.com/bbernstein/groundscout/backend-go/internal/models"
)

// Metadata describes where a value came from and how far to trust it
type Metadata struct {
	Source     models.DataSource `json:"source"`
	Confidence float64           `json:"confidence"`
	DataAge    time.Duration     `json:"dataAge"`
	Quality    float64           `json:"quality"`
	Warnings   []string          `json:"warnings,omitempty"`
}

// ScoreResult reports the metadata alongside a 0-100 domain score
func (m Metadata) ScoreResult(score float64) models.ScoreResult {
	return models.ScoreResult{
		Score:      score,
		Confidence: m.Confidence,
		Warnings:   m.Warnings,
		Source:     m.Source,
	}
}

// FallbackResult wraps a domain value with its provenance. FallbackReason
// lists the steps that were skipped, in order.
type FallbackResult[T any] struct {
	Data           T        `json:"data"`
	Metadata       Metadata `json:"metadata"`
	FallbackReason string   `json:"fallbackReason,omitempty"`
}
