package models

import "github.com/bbernstein/groundscout/backend-go/internal/geo"

// TerrainMetrics are raw terrain measurements around a candidate site
type TerrainMetrics struct {
	ElevationM        float64 `json:"elevationM"`
	SlopeDeg          float64 `json:"slopeDeg"`
	AspectDeg         float64 `json:"aspectDeg"`
	Ruggedness        float64 `json:"ruggedness"`        // terrain ruggedness index, m
	ElevationStdDevM  float64 `json:"elevationStdDevM"`  // within 1 km
	AspectEntropyBits float64 `json:"aspectEntropyBits"` // over 8 aspect bins
}

// ViewshedAnalysis summarises line-of-sight from the antenna position
type ViewshedAnalysis struct {
	VisibleAreaKm2     float64 `json:"visibleAreaKm2"`
	CoveragePct        float64 `json:"coveragePct"`
	AvgHorizonAngleDeg float64 `json:"avgHorizonAngleDeg"`
	ObstructionRatio   float64 `json:"obstructionRatio"`
	MaxRangeKm         float64 `json:"maxRangeKm"`
}

type InfrastructureType string

const (
	InfraRoad    InfrastructureType = "road"
	InfraPower   InfrastructureType = "power"
	InfraFiber   InfrastructureType = "fiber"
	InfraAirport InfrastructureType = "airport"
)

type InfrastructurePoint struct {
	Type     InfrastructureType `json:"type"`
	Name     string             `json:"name,omitempty"`
	Location geo.Location       `json:"location"`
}

func (p InfrastructurePoint) GetLocation() geo.Location {
	return p.Location
}

type PopulationCenter struct {
	Name       string       `json:"name"`
	Location   geo.Location `json:"location"`
	Population float64      `json:"population"`
}

func (p PopulationCenter) GetLocation() geo.Location {
	return p.Location
}

// TerrainMLFeatures holds normalized [0,1] features plus raw distances in km
type TerrainMLFeatures struct {
	TerrainComplexity     float64 `json:"terrain_complexity"`
	ViewshedQuality       float64 `json:"viewshed_quality"`
	AccessibilityIndex    float64 `json:"accessibility_index"`
	ConstructionCostIndex float64 `json:"construction_cost_index"`
	WeatherImpactScore    float64 `json:"weather_impact_score"`
	ConnectivityScore     float64 `json:"connectivity_score"`
	CentralityMeasure     float64 `json:"centrality_measure"`
	RedundancyPotential   float64 `json:"redundancy_potential"`

	NearestRoadKm    float64 `json:"nearest_road_km"`
	NearestPowerKm   float64 `json:"nearest_power_km"`
	NearestFiberKm   float64 `json:"nearest_fiber_km"`
	NearestAirportKm float64 `json:"nearest_airport_km"`
	NearestCityKm    float64 `json:"nearest_city_km"`
}

type RiskFactor struct {
	Name       string  `json:"name"`
	Score      float64 `json:"score"`
	Mitigation string  `json:"mitigation,omitempty"`
}

type RiskCategory struct {
	Name    string       `json:"name"`
	Weight  float64      `json:"weight"`
	Score   float64      `json:"score"`
	Factors []RiskFactor `json:"factors"`
}

type MonteCarloResult struct {
	Trials      int             `json:"trials"`
	Mean        float64         `json:"mean"`
	StdDev      float64         `json:"stdDev"`
	Percentiles map[int]float64 `json:"percentiles"`
	VaR95       float64         `json:"var95"`
}

type RiskAssessmentResult struct {
	AssessmentID     string           `json:"assessmentId"`
	OverallRiskScore float64          `json:"overallRiskScore"`
	RiskLevel        string           `json:"riskLevel"`
	Categories       []RiskCategory   `json:"categories"`
	MonteCarlo       MonteCarloResult `json:"monteCarlo"`
}
