package terrain

import (
	"fmt"
	"math"

	"github.com/bbernstein/groundscout/backend-go/internal/geo"
	"github.com/bbernstein/groundscout/backend-go/internal/models"
	"github.com/bbernstein/groundscout/backend-go/internal/stats"
)

// Normalization ceilings; raw values are clamped to these before weighting
const (
	ruggednessCeilingM    = 500.0
	slopeCeilingDeg       = 45.0
	elevationStdCeilingM  = 500.0
	aspectEntropyCeiling  = 3.0 // log2 of 8 aspect bins
	horizonCeilingDeg     = 10.0
	viewshedRangeCeilKm   = 100.0
	accessSlopeCeilingDeg = 30.0
	accessElevCeilingM    = 5000.0
	roadReachKm           = 50.0
	highAltitudeM         = 3000.0
	fiberReachKm          = 100.0
	powerReachKm          = 50.0
	localRadiusKm         = 50.0
	centralityRadiusKm    = 500.0
	populationCeiling     = 10e6
	airportReachKm        = 300.0
)

// UnreachableKm is reported as the distance when no point of a type exists
const UnreachableKm = 1000.0

// Input is everything ExtractFeatures needs for one candidate site
type Input struct {
	Location       geo.Location                 `json:"location"`
	Metrics        models.TerrainMetrics        `json:"metrics"`
	Viewshed       models.ViewshedAnalysis      `json:"viewshed"`
	Infrastructure []models.InfrastructurePoint `json:"infrastructure"`
	Population     []models.PopulationCenter    `json:"population"`
}

// ExtractFeatures turns raw terrain, viewshed and proximity data into
// normalized [0,1] features plus raw distances
func ExtractFeatures(in Input) (models.TerrainMLFeatures, error) {
	if err := in.Location.Validate(); err != nil {
		return models.TerrainMLFeatures{}, err
	}
	if err := validateMetrics(in.Metrics); err != nil {
		return models.TerrainMLFeatures{}, err
	}
	if err := validateViewshed(in.Viewshed); err != nil {
		return models.TerrainMLFeatures{}, err
	}

	dist, err := nearestByType(in.Location, in.Infrastructure)
	if err != nil {
		return models.TerrainMLFeatures{}, err
	}
	cityKm, central, err := centrality(in.Location, in.Population)
	if err != nil {
		return models.TerrainMLFeatures{}, err
	}

	accessibility := AccessibilityIndex(in.Metrics, dist[models.InfraRoad])
	weather, err := WeatherImpact(in.Location.Latitude, in.Metrics.ElevationM)
	if err != nil {
		return models.TerrainMLFeatures{}, err
	}

	local, err := geo.WithinRadius(in.Location, in.Infrastructure, localRadiusKm)
	if err != nil {
		return models.TerrainMLFeatures{}, err
	}

	return models.TerrainMLFeatures{
		TerrainComplexity:     Complexity(in.Metrics),
		ViewshedQuality:       ViewshedQuality(in.Viewshed),
		AccessibilityIndex:    accessibility,
		ConstructionCostIndex: ConstructionCost(in.Metrics, accessibility),
		WeatherImpactScore:    weather,
		ConnectivityScore:     connectivity(dist, len(local)),
		CentralityMeasure:     central,
		RedundancyPotential:   redundancy(local, dist[models.InfraFiber]),

		NearestRoadKm:    dist[models.InfraRoad],
		NearestPowerKm:   dist[models.InfraPower],
		NearestFiberKm:   dist[models.InfraFiber],
		NearestAirportKm: dist[models.InfraAirport],
		NearestCityKm:    cityKm,
	}, nil
}

func validateMetrics(m models.TerrainMetrics) error {
	fields := map[string]float64{
		"elevationM":        m.ElevationM,
		"slopeDeg":          m.SlopeDeg,
		"aspectDeg":         m.AspectDeg,
		"ruggedness":        m.Ruggedness,
		"elevationStdDevM":  m.ElevationStdDevM,
		"aspectEntropyBits": m.AspectEntropyBits,
	}
	for name, v := range fields {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("invalid terrain metric %s: %v", name, v)
		}
	}
	if m.SlopeDeg < 0 || m.SlopeDeg > 90 {
		return fmt.Errorf("invalid terrain metric slopeDeg: %v", m.SlopeDeg)
	}
	if m.Ruggedness < 0 || m.ElevationStdDevM < 0 || m.AspectEntropyBits < 0 {
		return fmt.Errorf("terrain dispersion metrics must be non-negative")
	}
	return nil
}

func validateViewshed(v models.ViewshedAnalysis) error {
	for name, x := range map[string]float64{
		"coveragePct":        v.CoveragePct,
		"avgHorizonAngleDeg": v.AvgHorizonAngleDeg,
		"obstructionRatio":   v.ObstructionRatio,
		"maxRangeKm":         v.MaxRangeKm,
	} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("invalid viewshed value %s: %v", name, x)
		}
	}
	return nil
}

func ratio(v, ceiling float64) float64 {
	return stats.Clamp01(v / ceiling)
}

// Complexity blends ruggedness .35, slope .30, elevation variance .20 and
// aspect entropy .15
func Complexity(m models.TerrainMetrics) float64 {
	return stats.Clamp01(0.35*ratio(m.Ruggedness, ruggednessCeilingM) +
		0.30*ratio(m.SlopeDeg, slopeCeilingDeg) +
		0.20*ratio(m.ElevationStdDevM, elevationStdCeilingM) +
		0.15*ratio(m.AspectEntropyBits, aspectEntropyCeiling))
}

// ViewshedQuality blends coverage .4, low horizon .3, clear line of sight .2
// and range .1
func ViewshedQuality(v models.ViewshedAnalysis) float64 {
	coverage := ratio(v.CoveragePct, 100)
	horizon := 1 - ratio(v.AvgHorizonAngleDeg, horizonCeilingDeg)
	lineOfSight := 1 - stats.Clamp01(v.ObstructionRatio)
	reach := ratio(v.MaxRangeKm, viewshedRangeCeilKm)
	return stats.Clamp01(0.4*coverage + 0.3*horizon + 0.2*lineOfSight + 0.1*reach)
}

// AccessibilityIndex is high for flat, low, road-served and smooth sites
func AccessibilityIndex(m models.TerrainMetrics, nearestRoadKm float64) float64 {
	slope := 1 - ratio(m.SlopeDeg, accessSlopeCeilingDeg)
	elevation := 1 - ratio(math.Max(m.ElevationM, 0), accessElevCeilingM)
	road := 1 - ratio(nearestRoadKm, roadReachKm)
	rugged := 1 - ratio(m.Ruggedness, ruggednessCeilingM)
	return stats.Clamp01(0.3*slope + 0.2*elevation + 0.3*road + 0.2*rugged)
}

// ConstructionCost grows with the square of slope, with altitude above
// 3000 m, with ruggedness and with inaccessibility
func ConstructionCost(m models.TerrainMetrics, accessibility float64) float64 {
	s := ratio(m.SlopeDeg, slopeCeilingDeg)
	altitude := 0.0
	if m.ElevationM > highAltitudeM {
		altitude = ratio(m.ElevationM-highAltitudeM, highAltitudeM)
	}
	rugged := ratio(m.Ruggedness, ruggednessCeilingM)
	return stats.Clamp01(0.4*s*s + 0.2*altitude + 0.2*rugged + 0.2*(1-stats.Clamp01(accessibility)))
}

// WeatherImpact is the expected weather degradation at a site: annual
// unreliability for the latitude plus a mountain exposure term
func WeatherImpact(lat, elevationM float64) (float64, error) {
	reliability, err := stats.AnnualWeatherReliability(lat)
	if err != nil {
		return 0, err
	}
	exposure := 0.1 * ratio(math.Max(elevationM, 0), accessElevCeilingM)
	return stats.Clamp01(1 - reliability + exposure), nil
}

var infrastructureTypes = []models.InfrastructureType{
	models.InfraRoad,
	models.InfraPower,
	models.InfraFiber,
	models.InfraAirport,
}

func nearestByType(loc geo.Location, points []models.InfrastructurePoint) (map[models.InfrastructureType]float64, error) {
	out := make(map[models.InfrastructureType]float64, len(infrastructureTypes))
	for _, t := range infrastructureTypes {
		out[t] = UnreachableKm
	}
	for _, p := range points {
		d, err := geo.Distance(loc, p.Location)
		if err != nil {
			return nil, err
		}
		if cur, ok := out[p.Type]; ok && d < cur {
			out[p.Type] = d
		}
	}
	return out, nil
}

func connectivity(dist map[models.InfrastructureType]float64, localCount int) float64 {
	fiber := 1 - ratio(dist[models.InfraFiber], fiberReachKm)
	power := 1 - ratio(dist[models.InfraPower], powerReachKm)
	density := ratio(float64(localCount), 10)
	return stats.Clamp01(0.5*fiber + 0.3*power + 0.2*density)
}

// redundancy rewards several kinds of infrastructure nearby and fiber close
// enough for a diverse second path
func redundancy(local []geo.Ranked[models.InfrastructurePoint], nearestFiberKm float64) float64 {
	kinds := make(map[models.InfrastructureType]struct{})
	fiberPaths := 0
	for _, r := range local {
		kinds[r.Item.Type] = struct{}{}
		if r.Item.Type == models.InfraFiber {
			fiberPaths++
		}
	}
	diversity := float64(len(kinds)) / float64(len(infrastructureTypes))
	paths := ratio(float64(fiberPaths), 3)
	if nearestFiberKm >= UnreachableKm {
		paths = 0
	}
	return stats.Clamp01(0.5*diversity + 0.5*paths)
}

func centrality(loc geo.Location, centers []models.PopulationCenter) (nearestKm, score float64, err error) {
	ranked, err := geo.WithinRadius(loc, centers, centralityRadiusKm)
	if err != nil {
		return 0, 0, err
	}
	if len(ranked) == 0 {
		return UnreachableKm, 0, nil
	}

	reach := 0.0
	for _, r := range ranked {
		reach += r.Item.Population * (1 - r.DistanceKm/centralityRadiusKm)
	}
	nearestKm = ranked[0].DistanceKm
	score = 0.6*ratio(reach, populationCeiling) + 0.4*(1-ratio(nearestKm, centralityRadiusKm))
	return nearestKm, stats.Clamp01(score), nil
}

// Vector lists the eight normalized features in a stable order
func Vector(f models.TerrainMLFeatures) []NamedValue {
	return []NamedValue{
		{Name: "terrain_complexity", Value: f.TerrainComplexity},
		{Name: "viewshed_quality", Value: f.ViewshedQuality},
		{Name: "accessibility_index", Value: f.AccessibilityIndex},
		{Name: "construction_cost_index", Value: f.ConstructionCostIndex},
		{Name: "weather_impact_score", Value: f.WeatherImpactScore},
		{Name: "connectivity_score", Value: f.ConnectivityScore},
		{Name: "centrality_measure", Value: f.CentralityMeasure},
		{Name: "redundancy_potential", Value: f.RedundancyPotential},
	}
}

type NamedValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}
