package scoring

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbernstein/groundscout/backend-go/internal/geo"
	"github.com/bbernstein/groundscout/backend-go/internal/models"
)

var singapore = geo.Location{Latitude: 1.3521, Longitude: 103.8198}

func TestOrbitalScore(t *testing.T) {
	tests := []struct {
		lat      float64
		expected float64
	}{
		{0, 85},
		{23.5, 70},
		{-23.5, 70},
		{41.75, 55},
		{60, 40},
		{-60, 40},
		{70, 25},
		{85, 20},
		{-90, 20},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.expected, OrbitalScore(tt.lat), 1e-9, "lat %v", tt.lat)
	}
}

func TestScore_Singapore(t *testing.T) {
	s := NewScorer()

	got, err := s.Score(singapore)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, got.Infrastructure, 90.0)
	assert.InDelta(t, 98, got.Infrastructure, 1e-9)
	assert.InDelta(t, 95, got.Economic, 1e-9)
	assert.Equal(t, 0.95, got.Confidence)
	assert.Equal(t, 92, got.Satellite)
	assert.Equal(t, 97, got.Maritime)
	assert.Equal(t, 96, got.EconomicFinal)
	assert.Equal(t, 95, got.Overall)
	assert.Equal(t, models.PriorityCritical, PriorityTierFor(got.Overall))
}

func TestScore_NearPole(t *testing.T) {
	s := NewScorer()

	got, err := s.Score(geo.Location{Latitude: 85, Longitude: 0})
	require.NoError(t, err)

	assert.Equal(t, 20.0, got.Orbital)
	assert.Equal(t, 0.3, got.Confidence)
	assert.Equal(t, 25.0, got.Infrastructure)
	assert.Equal(t, 40.0, got.Economic)
	assert.Equal(t, 23, got.Satellite)
	assert.Equal(t, 30, got.Overall)
	assert.InDelta(t, 36, got.EconomicFinal, 1)
	assert.Equal(t, models.PriorityLow, PriorityTierFor(got.Overall))
}

func TestScore_InvalidLocation(t *testing.T) {
	_, err := NewScorer().Score(geo.Location{Latitude: 91, Longitude: 0})
	require.Error(t, err)

	var coordErr *geo.InvalidCoordinateError
	assert.True(t, errors.As(err, &coordErr))
	assert.Equal(t, "latitude", coordErr.Field)
}

func TestScore_CompositesWithinRange(t *testing.T) {
	s := NewScorer()
	for lat := -90.0; lat <= 90; lat += 15 {
		for lon := -180.0; lon <= 180; lon += 30 {
			got, err := s.Score(geo.Location{Latitude: lat, Longitude: lon})
			require.NoError(t, err)
			for _, v := range []int{got.Satellite, got.Maritime, got.EconomicFinal, got.Overall} {
				assert.GreaterOrEqual(t, v, 0)
				assert.LessOrEqual(t, v, 100)
			}
			assert.GreaterOrEqual(t, got.Confidence, 0.0)
			assert.LessOrEqual(t, got.Confidence, 1.0)
		}
	}
}

func TestInfrastructureScore_Floors(t *testing.T) {
	s := NewScorer()
	tests := []struct {
		name     string
		loc      geo.Location
		expected float64
	}{
		{"mid pacific", geo.Location{Latitude: 0, Longitude: -150}, 40},
		{"north pacific", geo.Location{Latitude: 50, Longitude: -150}, 30},
		{"arctic", geo.Location{Latitude: 65, Longitude: -150}, 25},
		{"antarctic", geo.Location{Latitude: -75, Longitude: 0}, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, s.InfrastructureScore(tt.loc))
		})
	}
}

func TestConfidence(t *testing.T) {
	s := NewScorer()
	tests := []struct {
		name     string
		loc      geo.Location
		expected float64
	}{
		{"london", geo.Location{Latitude: 51.5, Longitude: -0.12}, 0.95},
		{"near new york", geo.Location{Latitude: 40.0, Longitude: -75.0}, 0.95},
		{"svalbard", geo.Location{Latitude: 78.2, Longitude: 15.6}, 0.3},
		{"gulf of guinea", geo.Location{Latitude: 0, Longitude: 0}, 0.6},
		{"exactly 70 degrees", geo.Location{Latitude: 70, Longitude: 30}, 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, s.Confidence(tt.loc))
		})
	}
}

func TestPriorityTierFor(t *testing.T) {
	tests := []struct {
		overall  int
		expected models.PriorityTier
	}{
		{100, models.PriorityCritical},
		{80, models.PriorityCritical},
		{79, models.PriorityHigh},
		{65, models.PriorityHigh},
		{64, models.PriorityMedium},
		{50, models.PriorityMedium},
		{49, models.PriorityLow},
		{0, models.PriorityLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, PriorityTierFor(tt.overall), "overall %d", tt.overall)
	}
}

func TestRecommendation_LowConfidenceCaveat(t *testing.T) {
	assert.NotContains(t, Recommendation(models.PriorityHigh, 0.6), "low confidence")
	assert.Contains(t, Recommendation(models.PriorityHigh, 0.3), "low confidence")
}

func competitor(id string, op models.Operator, threat models.ThreatLevel, lat, lon float64) models.CompetitorStation {
	return models.CompetitorStation{
		ID:             id,
		Name:           id,
		Operator:       op,
		Location:       geo.Location{Latitude: lat, Longitude: lon},
		MarketPosition: models.MarketPosition{ThreatLevel: threat, MarketSharePct: 12},
	}
}

func TestCompetitiveImpact(t *testing.T) {
	tests := []struct {
		name        string
		competitors []models.CompetitorStation
		radiusKm    float64
		expected    float64
	}{
		{
			name:     "no competitors",
			expected: 100,
		},
		{
			name:        "critical traditional operator",
			competitors: []models.CompetitorStation{competitor("ksat", models.OperatorKSAT, models.ThreatCritical, 1.4, 103.9)},
			expected:    85,
		},
		{
			name:        "critical cloud operator",
			competitors: []models.CompetitorStation{competitor("aws", models.OperatorAWS, models.ThreatCritical, 1.4, 103.9)},
			expected:    75,
		},
		{
			name: "high LEO operator and medium traditional",
			competitors: []models.CompetitorStation{
				competitor("starlink", models.OperatorSpaceX, models.ThreatHigh, 2.0, 103.0),
				competitor("ses", models.OperatorSES, models.ThreatMedium, 1.0, 104.0),
			},
			expected: 100 - 8 - 3 - 12,
		},
		{
			name: "cloud penalty applied once",
			competitors: []models.CompetitorStation{
				competitor("aws-1", models.OperatorAWS, models.ThreatLow, 1.4, 103.9),
				competitor("aws-2", models.OperatorAzure, models.ThreatLow, 1.5, 103.7),
			},
			expected: 100 - 3 - 3 - 10,
		},
		{
			name:        "outside radius ignored",
			competitors: []models.CompetitorStation{competitor("far", models.OperatorAWS, models.ThreatCritical, 51.5, -0.12)},
			expected:    100,
		},
		{
			name:        "custom radius excludes",
			competitors: []models.CompetitorStation{competitor("ksat", models.OperatorKSAT, models.ThreatCritical, 3.0, 101.7)},
			radiusKm:    100,
			expected:    100,
		},
		{
			name: "clamped at zero",
			competitors: func() []models.CompetitorStation {
				var cs []models.CompetitorStation
				for i := 0; i < 8; i++ {
					cs = append(cs, competitor("c", models.OperatorAWS, models.ThreatCritical, 1.3, 103.8))
				}
				return cs
			}(),
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CompetitiveImpact(singapore, tt.competitors, tt.radiusKm)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAssessCompetition_DefaultRadius(t *testing.T) {
	a, err := AssessCompetition(singapore, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultCompetitorRadiusKm, a.RadiusKm)
	assert.Empty(t, a.Nearby)
}

func TestCompetitiveImpact_InvalidCompetitor(t *testing.T) {
	bad := competitor("bad", models.OperatorKSAT, models.ThreatHigh, 120, 0)
	_, err := CompetitiveImpact(singapore, []models.CompetitorStation{bad}, 0)
	assert.Error(t, err)
}

func TestAdjustForCompetition(t *testing.T) {
	assert.Equal(t, 80, AdjustForCompetition(80, 100))
	assert.Equal(t, 40, AdjustForCompetition(80, 50))
	assert.Equal(t, 0, AdjustForCompetition(80, -10))
}

func TestEstimateRevenue(t *testing.T) {
	scores := OpportunityScores{Satellite: 100, Maritime: 100, EconomicFinal: 100, Overall: 100}

	full := EstimateRevenue(scores, 100)
	assert.Equal(t, BaseMonthlyRevenueUSD, full.Monthly)
	assert.Equal(t, BaseMonthlyRevenueUSD*12, full.Annual)
	assert.Equal(t, 60000.0, full.Breakdown["satellite"])
	assert.Equal(t, 45000.0, full.Breakdown["maritime"])
	assert.Equal(t, 45000.0, full.Breakdown["economic"])

	contested := EstimateRevenue(scores, 0)
	assert.Equal(t, BaseMonthlyRevenueUSD/2, contested.Monthly)

	empty := EstimateRevenue(OpportunityScores{}, 100)
	assert.Equal(t, 0.0, empty.Monthly)
	assert.Equal(t, 0.0, empty.Breakdown["satellite"])
}

type fakeCompetitors struct {
	competitors []models.CompetitorStation
	err         error
	calls       int
}

func (f *fakeCompetitors) ListCompetitors(ctx context.Context) ([]models.CompetitorStation, error) {
	f.calls++
	return f.competitors, f.err
}

type mapCache map[string]*models.OpportunityAnalysis

func (m mapCache) Get(key string) (*models.OpportunityAnalysis, bool) {
	a, ok := m[key]
	return a, ok
}

func (m mapCache) Add(key string, a *models.OpportunityAnalysis) {
	m[key] = a
}

func TestAnalyzer_Analyze(t *testing.T) {
	src := &fakeCompetitors{competitors: []models.CompetitorStation{
		competitor("aws-sg", models.OperatorAWS, models.ThreatCritical, 1.4, 103.9),
	}}
	analyzer := NewAnalyzer(NewScorer(),
		WithCompetitors(src),
		WithIDGenerator(func() string { return "analysis-1" }),
	)

	got, err := analyzer.Analyze(context.Background(), models.LocationRequest{
		Latitude:  singapore.Latitude,
		Longitude: singapore.Longitude,
	})
	require.NoError(t, err)

	assert.Equal(t, "analysis-1", got.ID)
	assert.Equal(t, singapore, got.Location)
	assert.Equal(t, models.Scores{Satellite: 92, Maritime: 97, Economic: 96, Overall: 95}, got.Scores)
	assert.Equal(t, 0.95, got.Confidence)
	assert.Equal(t, models.PriorityCritical, got.PriorityTier)
	assert.NotEmpty(t, got.Recommendation)
	assert.Equal(t, 75.0, got.CompetitiveImpact)
	assert.Equal(t, 71, got.AdjustedOverall)
	assert.Greater(t, got.Revenue.Monthly, 0.0)
	assert.Equal(t, got.Revenue.Monthly*12, got.Revenue.Annual)

	var types []string
	for _, dp := range got.DataPoints {
		types = append(types, dp.Type)
	}
	assert.Contains(t, types, "economic_hub")
	assert.Contains(t, types, "telecom_hub")
	assert.Contains(t, types, "port")
	assert.Contains(t, types, "competitor")
	assert.Contains(t, got.Insights, "Cloud-integrated ground station service operates nearby")
}

func TestAnalyzer_CachesResults(t *testing.T) {
	src := &fakeCompetitors{}
	cache := mapCache{}
	analyzer := NewAnalyzer(nil, WithCompetitors(src), WithResultCache(cache))
	req := models.LocationRequest{Latitude: 35.6762, Longitude: 139.6503}

	first, err := analyzer.Analyze(context.Background(), req)
	require.NoError(t, err)
	second, err := analyzer.Analyze(context.Background(), req)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, src.calls)
	assert.Len(t, cache, 1)

	radius := 250.0
	req.RadiusKm = &radius
	third, err := analyzer.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Len(t, cache, 2)
}

func TestAnalyzer_CacheKeyPrecision(t *testing.T) {
	cache := mapCache{}
	analyzer := NewAnalyzer(nil, WithResultCache(cache))

	base := 1000.0
	nearBase := 1000.4
	requests := []models.LocationRequest{
		{Latitude: 35.6762, Longitude: 139.6503, RadiusKm: &base},
		{Latitude: 35.6762, Longitude: 139.6503, RadiusKm: &nearBase},
		{Latitude: 35.67621, Longitude: 139.6503, RadiusKm: &base},
	}

	seen := map[*models.OpportunityAnalysis]bool{}
	for _, req := range requests {
		got, err := analyzer.Analyze(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, req.Latitude, got.Location.Latitude, "analysis reports the caller's own location")
		seen[got] = true
	}
	assert.Len(t, seen, 3)
	assert.Len(t, cache, 3)

	again, err := analyzer.Analyze(context.Background(), requests[2])
	require.NoError(t, err)
	assert.True(t, seen[again], "an identical request is served from the cache")
}

func TestAnalyzer_CompetitorSourceFailure(t *testing.T) {
	src := &fakeCompetitors{err: errors.New("fixture store offline")}
	analyzer := NewAnalyzer(nil, WithCompetitors(src))

	got, err := analyzer.Analyze(context.Background(), models.LocationRequest{Latitude: 10, Longitude: 10})
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.CompetitiveImpact)
	assert.Contains(t, got.Insights[0], "Competitor data unavailable")
}

func TestAnalyzer_InvalidRequest(t *testing.T) {
	analyzer := NewAnalyzer(nil)
	negative := -5.0

	tests := []struct {
		name string
		req  models.LocationRequest
	}{
		{"latitude out of range", models.LocationRequest{Latitude: -91}},
		{"longitude out of range", models.LocationRequest{Longitude: 181}},
		{"negative radius", models.LocationRequest{RadiusKm: &negative}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := analyzer.Analyze(context.Background(), tt.req)
			assert.Error(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestAnalyzer_PolarInsights(t *testing.T) {
	got, err := NewAnalyzer(nil).Analyze(context.Background(), models.LocationRequest{Latitude: 85, Longitude: 0})
	require.NoError(t, err)

	assert.Equal(t, 0.3, got.Confidence)
	assert.Contains(t, got.Recommendation, "low confidence")
	assert.Contains(t, got.Insights, "High latitude limits geostationary visibility but suits polar-orbit passes")
	assert.Contains(t, got.Insights, "No competing ground stations within 1000 km")
}
