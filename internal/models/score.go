package models

import (
	"fmt"
	"math"

	"github.com/bbernstein/groundscout/backend-go/internal/geo"
)

// ScoreResult is the per-domain score envelope reported with enriched
// records, built from the fallback layer's result metadata
type ScoreResult struct {
	Score      float64    `json:"score"`
	Confidence float64    `json:"confidence"`
	Warnings   []string   `json:"warnings"`
	Source     DataSource `json:"source"`
}

func (r ScoreResult) Validate() error {
	if math.IsNaN(r.Confidence) || r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("confidence out of range: %v", r.Confidence)
	}
	switch r.Source {
	case SourceHistorical, SourceStatistical, SourceHybrid, SourceLive:
	case SourceSynthetic:
		if len(r.Warnings) == 0 {
			return fmt.Errorf("synthetic score requires at least one warning")
		}
	default:
		return fmt.Errorf("invalid score source: %q", r.Source)
	}
	return nil
}

// LocationRequest is the validated input of an opportunity analysis
type LocationRequest struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	RadiusKm  *float64 `json:"radiusKm,omitempty"`
}

func (r LocationRequest) Location() geo.Location {
	return geo.Location{Latitude: r.Latitude, Longitude: r.Longitude}
}

func (r LocationRequest) Validate() error {
	if err := r.Location().Validate(); err != nil {
		return err
	}
	if r.RadiusKm != nil && (math.IsNaN(*r.RadiusKm) || math.IsInf(*r.RadiusKm, 0) || *r.RadiusKm <= 0) {
		return fmt.Errorf("invalid radius: %v", *r.RadiusKm)
	}
	return nil
}

type PriorityTier string

const (
	PriorityCritical PriorityTier = "critical"
	PriorityHigh     PriorityTier = "high"
	PriorityMedium   PriorityTier = "medium"
	PriorityLow      PriorityTier = "low"
)

type Scores struct {
	Satellite int `json:"satellite"`
	Maritime  int `json:"maritime"`
	Economic  int `json:"economic"`
	Overall   int `json:"overall"`
}

type DataPoint struct {
	Type       string  `json:"type"`
	Name       string  `json:"name"`
	DistanceKm float64 `json:"distanceKm"`
	Value      float64 `json:"value"`
}

type Revenue struct {
	Monthly   float64            `json:"monthly"`
	Annual    float64            `json:"annual"`
	Breakdown map[string]float64 `json:"breakdown"`
}

// OpportunityAnalysis is the flat output handed to the presentation layer
type OpportunityAnalysis struct {
	ID                string       `json:"id"`
	Location          geo.Location `json:"location"`
	Scores            Scores       `json:"scores"`
	Confidence        float64      `json:"confidence"`
	PriorityTier      PriorityTier `json:"priorityTier"`
	Recommendation    string       `json:"recommendation"`
	CompetitiveImpact float64      `json:"competitiveImpact"`
	AdjustedOverall   int          `json:"adjustedOverall"` // overall scaled by competitive impact
	DataPoints        []DataPoint  `json:"dataPoints"`
	Insights          []string     `json:"insights"`
	Revenue           Revenue      `json:"revenue"`
}
