package scoring

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bbernstein/groundscout/backend-go/internal/geo"
	"github.com/bbernstein/groundscout/backend-go/internal/metrics"
	"github.com/bbernstein/groundscout/backend-go/internal/models"
	"github.com/bbernstein/groundscout/backend-go/internal/stats"
)

// BaseMonthlyRevenueUSD is the revenue of a perfect-scoring site with no competition
const BaseMonthlyRevenueUSD = 150000.0

const maxCompetitorDataPoints = 3

// CompetitorSource lists the competitor fixtures used for competitive impact
type CompetitorSource interface {
	ListCompetitors(ctx context.Context) ([]models.CompetitorStation, error)
}

// ResultCache stores finished analyses. Cached values are shared and must
// not be modified by callers.
type ResultCache interface {
	Get(key string) (*models.OpportunityAnalysis, bool)
	Add(key string, analysis *models.OpportunityAnalysis)
}

type Analyzer struct {
	scorer      *Scorer
	competitors CompetitorSource
	cache       ResultCache
	newID       func() string
}

type AnalyzerOption func(*Analyzer)

func WithCompetitors(src CompetitorSource) AnalyzerOption {
	return func(a *Analyzer) {
		a.competitors = src
	}
}

func WithResultCache(c ResultCache) AnalyzerOption {
	return func(a *Analyzer) {
		a.cache = c
	}
}

func WithIDGenerator(fn func() string) AnalyzerOption {
	return func(a *Analyzer) {
		a.newID = fn
	}
}

func NewAnalyzer(scorer *Scorer, opts ...AnalyzerOption) *Analyzer {
	if scorer == nil {
		scorer = NewScorer()
	}
	a := &Analyzer{
		scorer: scorer,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// cacheKey uses the shortest exact representation of each value, so only
// identical requests share an analysis
func cacheKey(loc geo.Location, radiusKm float64) string {
	return fmt.Sprintf("%v:%v:%v", loc.Latitude, loc.Longitude, radiusKm)
}

// Analyze scores a location and assembles the full opportunity analysis
func (a *Analyzer) Analyze(ctx context.Context, req models.LocationRequest) (*models.OpportunityAnalysis, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	loc := req.Location()
	radiusKm := DefaultCompetitorRadiusKm
	if req.RadiusKm != nil {
		radiusKm = *req.RadiusKm
	}

	key := cacheKey(loc, radiusKm)
	if a.cache != nil {
		if cached, ok := a.cache.Get(key); ok {
			metrics.AnalysisCacheRequests.WithLabelValues("hit").Inc()
			log.Debug().Str("key", key).Msg("Analysis cache hit")
			return cached, nil
		}
		metrics.AnalysisCacheRequests.WithLabelValues("miss").Inc()
	}

	scores, err := a.scorer.Score(loc)
	if err != nil {
		return nil, err
	}

	var insights []string
	var competitors []models.CompetitorStation
	if a.competitors != nil {
		competitors, err = a.competitors.ListCompetitors(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Competitor data unavailable, scoring without competition")
			insights = append(insights, "Competitor data unavailable; competitive impact assumes no nearby rivals")
			competitors = nil
		}
	}

	assessment, err := AssessCompetition(loc, competitors, radiusKm)
	if err != nil {
		return nil, err
	}

	tier := PriorityTierFor(scores.Overall)
	analysis := &models.OpportunityAnalysis{
		ID:                a.newID(),
		Location:          loc,
		Scores:            scores.Scores(),
		Confidence:        scores.Confidence,
		PriorityTier:      tier,
		Recommendation:    Recommendation(tier, scores.Confidence),
		CompetitiveImpact: assessment.Score,
		AdjustedOverall:   AdjustForCompetition(scores.Overall, assessment.Score),
		DataPoints:        a.dataPoints(loc, assessment),
		Insights:          append(insights, a.insights(loc, scores, assessment)...),
		Revenue:           EstimateRevenue(scores, assessment.Score),
	}

	metrics.AnalysesTotal.WithLabelValues(string(tier)).Inc()
	log.Info().
		Float64("lat", loc.Latitude).
		Float64("lon", loc.Longitude).
		Int("overall", scores.Overall).
		Float64("confidence", scores.Confidence).
		Float64("competitiveImpact", assessment.Score).
		Msg("Opportunity analysed")

	if a.cache != nil {
		a.cache.Add(key, analysis)
	}
	return analysis, nil
}

// EstimateRevenue scales the base monthly revenue by the overall score and by
// competitive pressure, then splits it across the three composites
func EstimateRevenue(scores OpportunityScores, competitiveImpact float64) models.Revenue {
	demand := float64(scores.Overall) / 100
	competition := 0.5 + 0.5*stats.Clamp(competitiveImpact, 0, 100)/100
	monthly := math.Round(BaseMonthlyRevenueUSD * demand * competition)

	weights := map[string]float64{
		"satellite": float64(scores.Satellite) * overallSatelliteWeight,
		"maritime":  float64(scores.Maritime) * overallMaritimeWeight,
		"economic":  float64(scores.EconomicFinal) * overallEconomicWeight,
	}
	total := 0.0
	for _, w := range weights {
		total += w
	}

	breakdown := make(map[string]float64, len(weights))
	for k, w := range weights {
		if total > 0 {
			breakdown[k] = math.Round(monthly * w / total)
		} else {
			breakdown[k] = 0
		}
	}

	return models.Revenue{
		Monthly:   monthly,
		Annual:    monthly * 12,
		Breakdown: breakdown,
	}
}

func (a *Analyzer) dataPoints(loc geo.Location, assessment CompetitiveAssessment) []models.DataPoint {
	var points []models.DataPoint

	if hubs, err := geo.NearestN(loc, a.scorer.economicHubs, 1); err == nil && len(hubs) > 0 {
		h := hubs[0]
		points = append(points, models.DataPoint{
			Type:       "economic_hub",
			Name:       h.Item.Name,
			DistanceKm: h.DistanceKm,
			Value:      h.Item.Contribution(h.DistanceKm),
		})
	}

	if hubs, err := geo.NearestN(loc, a.scorer.telecomHubs, 1); err == nil && len(hubs) > 0 {
		h := hubs[0]
		points = append(points, models.DataPoint{
			Type:       "telecom_hub",
			Name:       h.Item.Name,
			DistanceKm: h.DistanceKm,
			Value:      h.Item.Contribution(h.DistanceKm),
		})
	}

	if ports, err := geo.NearestN(loc, stats.MajorPorts, 1); err == nil && len(ports) > 0 {
		p := ports[0]
		points = append(points, models.DataPoint{
			Type:       "port",
			Name:       p.Item.Name,
			DistanceKm: p.DistanceKm,
			Value:      p.Item.ThroughputTEU,
		})
	}

	for i, c := range assessment.Nearby {
		if i == maxCompetitorDataPoints {
			break
		}
		points = append(points, models.DataPoint{
			Type:       "competitor",
			Name:       c.Item.Name,
			DistanceKm: c.DistanceKm,
			Value:      c.Item.MarketPosition.MarketSharePct,
		})
	}

	return points
}

func (a *Analyzer) insights(loc geo.Location, scores OpportunityScores, assessment CompetitiveAssessment) []string {
	var out []string

	switch {
	case scores.Orbital >= 75:
		out = append(out, "Low latitude gives wide geostationary arc visibility")
	case scores.Orbital <= 30:
		out = append(out, "High latitude limits geostationary visibility but suits polar-orbit passes")
	}

	if hub, d, ok := a.scorer.NearestMajorHub(loc); ok {
		out = append(out, fmt.Sprintf("Within %.0f km of the %s interconnection hub", d, hub.Name))
	} else if scores.Infrastructure <= infrastructureFloor(loc.Latitude) {
		out = append(out, "No telecom hub within 300 km; fiber backhaul will need investment")
	}

	if scores.Economic >= 80 {
		out = append(out, "Strong regional economy supports enterprise demand")
	}

	if len(assessment.Nearby) == 0 {
		out = append(out, fmt.Sprintf("No competing ground stations within %.0f km", assessment.RadiusKm))
	} else {
		out = append(out, fmt.Sprintf("%d competing ground stations within %.0f km", len(assessment.Nearby), assessment.RadiusKm))
		if assessment.CriticalCount > 0 {
			out = append(out, fmt.Sprintf("%d critical-threat competitors nearby", assessment.CriticalCount))
		}
		if assessment.CloudPresent {
			out = append(out, "Cloud-integrated ground station service operates nearby")
		}
		if assessment.LEOPresent {
			out = append(out, "LEO constellation gateway operates nearby")
		}
	}

	if scores.Confidence < 0.5 {
		out = append(out, "Sparse reference data at this latitude; treat scores as indicative")
	}

	return out
}
