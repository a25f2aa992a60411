package fallback

import (
	"github.com/bbernstein/groundscout/backend-go/internal/models"
	"github.com/bbernstein/groundscout/backend-go/internal/stats"
)

// GDP per capita treated as the top of the scale
const gdpCeiling = 80000.0

// CalculateDerivedMetrics fills the four composite scores from the record's
// base fields. It reads no composite, so applying it twice changes nothing.
func CalculateDerivedMetrics(record models.EnrichedStationRecord) models.EnrichedStationRecord {
	maritime := stats.Clamp01(record.MaritimeDensity / maritimeDensityCeiling)
	gdp := stats.Clamp01(record.GDPPerCapita / gdpCeiling)
	infra := stats.Clamp01(record.InfrastructureScore / 100)
	weather := stats.Clamp01(record.WeatherReliability)
	visibility := stats.Clamp01(record.SatelliteVisibility)
	confidence := stats.Clamp01(record.Quality.OverallConfidence)
	utilization := stats.Clamp01(record.Utilization.CurrentPct / 100)

	record.MarketOpportunity = stats.Clamp01(0.35*maritime + 0.35*gdp + 0.15*infra + 0.15*utilization)
	record.TechnicalFeasibility = stats.Clamp01(0.4*infra + 0.35*weather + 0.25*visibility)
	record.RiskScore = stats.Clamp01(0.4*(1-weather) + 0.3*(1-infra) + 0.3*(1-confidence))
	record.InvestmentScore = stats.Clamp01(
		0.4*record.MarketOpportunity + 0.35*record.TechnicalFeasibility + 0.25*(1-record.RiskScore),
	)
	return record
}
