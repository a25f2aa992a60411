package models

import (
	"fmt"
	"math"
	"time"
)

type DataSource string

const (
	SourceLive        DataSource = "live"
	SourceHistorical  DataSource = "historical"
	SourceStatistical DataSource = "statistical"
	SourceSynthetic   DataSource = "synthetic"
	SourceHybrid      DataSource = "hybrid"
)

type Domain string

const (
	DomainMaritime       Domain = "maritime"
	DomainEconomic       Domain = "economic"
	DomainWeather        Domain = "weather"
	DomainInfrastructure Domain = "infrastructure"
)

// Domains lists every fallback domain in merge order
var Domains = []Domain{DomainMaritime, DomainEconomic, DomainWeather, DomainInfrastructure}

// MaritimeData.VesselDensity is vessels per day within 100 km
type MaritimeData struct {
	VesselDensity          float64 `json:"vesselDensity"`
	NearestPort            string  `json:"nearestPort,omitempty"`
	PortDistanceKm         float64 `json:"portDistanceKm"`
	ShippingLaneDistanceKm float64 `json:"shippingLaneDistanceKm"`
	TrafficScore           float64 `json:"trafficScore"`
}

type EconomicData struct {
	Country       string  `json:"country"`
	GDPPerCapita  float64 `json:"gdpPerCapita"`
	InfraIndex    float64 `json:"infraIndex"`
	DigitalIndex  float64 `json:"digitalIndex"`
	GrowthRatePct float64 `json:"growthRatePct"`
}

// WeatherData values other than ClearSkyDays are fractions in [0,1]
type WeatherData struct {
	Reliability   float64 `json:"reliability"`
	RainFadeRisk  float64 `json:"rainFadeRisk"`
	ClearSkyDays  int     `json:"clearSkyDays"`
	SevereDaysPct float64 `json:"severeDaysPct"`
}

type InfrastructureData struct {
	Score             float64 `json:"score"`
	FiberConnectivity float64 `json:"fiberConnectivity"`
	PowerReliability  float64 `json:"powerReliability"`
	NearestHubKm      float64 `json:"nearestHubKm"`
}

type DataQuality struct {
	OverallConfidence float64                `json:"overallConfidence"`
	Sources           map[Domain]DataSource  `json:"sources"`
	Domains           map[Domain]ScoreResult `json:"domains,omitempty"`
	Warnings          []string               `json:"warnings,omitempty"`
	GeneratedAt       time.Time              `json:"generatedAt"`
}

// EnrichedStationRecord is a StationRecord plus derived environmental and
// economic features. Composite scores are in [0,1].
type EnrichedStationRecord struct {
	StationRecord

	MaritimeDensity     float64 `json:"maritimeDensity"`
	GDPPerCapita        float64 `json:"gdpPerCapita"`
	InfrastructureScore float64 `json:"infrastructureScore"`
	WeatherReliability  float64 `json:"weatherReliability"`
	SatelliteVisibility float64 `json:"satelliteVisibility"`

	MarketOpportunity    float64 `json:"marketOpportunity"`
	TechnicalFeasibility float64 `json:"technicalFeasibility"`
	RiskScore            float64 `json:"riskScore"`
	InvestmentScore      float64 `json:"investmentScore"`

	Quality       DataQuality `json:"quality"`
	OriginalError string      `json:"originalError,omitempty"`
}

// Validate checks that every derived value is finite and in range
func (r *EnrichedStationRecord) Validate() error {
	unit := map[string]float64{
		"weatherReliability":   r.WeatherReliability,
		"satelliteVisibility":  r.SatelliteVisibility,
		"marketOpportunity":    r.MarketOpportunity,
		"technicalFeasibility": r.TechnicalFeasibility,
		"riskScore":            r.RiskScore,
		"investmentScore":      r.InvestmentScore,
		"overallConfidence":    r.Quality.OverallConfidence,
	}
	for name, v := range unit {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%s out of range: %v", name, v)
		}
	}
	if math.IsNaN(r.InfrastructureScore) || r.InfrastructureScore < 0 || r.InfrastructureScore > 100 {
		return fmt.Errorf("infrastructureScore out of range: %v", r.InfrastructureScore)
	}
	if math.IsNaN(r.MaritimeDensity) || r.MaritimeDensity < 0 {
		return fmt.Errorf("maritimeDensity out of range: %v", r.MaritimeDensity)
	}
	if math.IsNaN(r.GDPPerCapita) || r.GDPPerCapita < 0 {
		return fmt.Errorf("gdpPerCapita out of range: %v", r.GDPPerCapita)
	}
	for d, score := range r.Quality.Domains {
		if err := score.Validate(); err != nil {
			return fmt.Errorf("%s score: %w", d, err)
		}
	}
	return nil
}
