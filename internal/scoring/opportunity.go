package scoring

import (
	"math"

	"github.com/bbernstein/groundscout/backend-go/internal/geo"
	"github.com/bbernstein/groundscout/backend-go/internal/models"
	"github.com/bbernstein/groundscout/backend-go/internal/stats"
)

// Composite weights. These are fixed for parity with the dashboard's
// published scores and are not configuration.
const (
	satelliteOrbitalWeight = 0.4
	satelliteInfraWeight   = 0.6

	maritimeInfraWeight    = 0.5
	maritimeEconomicWeight = 0.5

	economicBaseWeight  = 0.7
	economicInfraWeight = 0.3

	overallSatelliteWeight = 0.40
	overallMaritimeWeight  = 0.30
	overallEconomicWeight  = 0.30
)

const (
	economicFloor = 40.0

	defaultConfidence  = 0.6
	polarConfidence    = 0.3
	hubConfidence      = 0.95
	polarConfidenceLat = 70.0
)

// OpportunityScores holds the raw sub-scores and the rounded composites
type OpportunityScores struct {
	Orbital        float64 `json:"orbital"`
	Economic       float64 `json:"economicBase"`
	Infrastructure float64 `json:"infrastructure"`

	Satellite     int     `json:"satellite"`
	Maritime      int     `json:"maritime"`
	EconomicFinal int     `json:"economic"`
	Overall       int     `json:"overall"`
	Confidence    float64 `json:"confidence"`
}

// Scores returns the four composites in the output contract shape
func (s OpportunityScores) Scores() models.Scores {
	return models.Scores{
		Satellite: s.Satellite,
		Maritime:  s.Maritime,
		Economic:  s.EconomicFinal,
		Overall:   s.Overall,
	}
}

type Scorer struct {
	economicHubs []stats.Hub
	telecomHubs  []stats.Hub
	majorHubs    []stats.Hub
}

type ScorerOption func(*Scorer)

// WithEconomicHubs replaces the embedded economic hub list; an empty list keeps the default
func WithEconomicHubs(hubs []stats.Hub) ScorerOption {
	return func(s *Scorer) {
		if len(hubs) > 0 {
			s.economicHubs = hubs
		}
	}
}

// WithTelecomHubs replaces the embedded telecom hub list; an empty list keeps the default
func WithTelecomHubs(hubs []stats.Hub) ScorerOption {
	return func(s *Scorer) {
		if len(hubs) > 0 {
			s.telecomHubs = hubs
		}
	}
}

func NewScorer(opts ...ScorerOption) *Scorer {
	s := &Scorer{
		economicHubs: stats.EconomicHubs,
		telecomHubs:  stats.TelecomHubs,
		majorHubs:    stats.MajorHubs,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes every sub-score and composite for a location
func (s *Scorer) Score(loc geo.Location) (OpportunityScores, error) {
	if err := loc.Validate(); err != nil {
		return OpportunityScores{}, err
	}

	orbital := clampScore(OrbitalScore(loc.Latitude))
	economic := clampScore(s.EconomicScore(loc))
	infra := clampScore(s.InfrastructureScore(loc))

	satellite := orbital*satelliteOrbitalWeight + infra*satelliteInfraWeight
	maritime := infra*maritimeInfraWeight + economic*maritimeEconomicWeight
	economicFinal := economic*economicBaseWeight + infra*economicInfraWeight
	overall := satellite*overallSatelliteWeight + maritime*overallMaritimeWeight + economicFinal*overallEconomicWeight

	return OpportunityScores{
		Orbital:        orbital,
		Economic:       economic,
		Infrastructure: infra,
		Satellite:      roundScore(satellite),
		Maritime:       roundScore(maritime),
		EconomicFinal:  roundScore(economicFinal),
		Overall:        roundScore(overall),
		Confidence:     s.Confidence(loc),
	}, nil
}

// OrbitalScore approximates satellite visibility from latitude alone:
// 85 at the equator falling to 70 at the tropics, 70 to 40 across the
// temperate band, then 1.5 points per degree with a floor of 20.
func OrbitalScore(lat float64) float64 {
	abs := math.Abs(lat)
	switch {
	case abs <= stats.TropicBoundary:
		return 85 - abs/stats.TropicBoundary*15
	case abs <= stats.PolarBoundary:
		return 70 - (abs-stats.TropicBoundary)/(stats.PolarBoundary-stats.TropicBoundary)*30
	default:
		return math.Max(20, 40-1.5*(abs-stats.PolarBoundary))
	}
}

// EconomicScore sums the linearly decayed influence of every economic hub in range
func (s *Scorer) EconomicScore(loc geo.Location) float64 {
	total := 0.0
	for _, hub := range s.economicHubs {
		total += hub.Contribution(geo.MustDistance(loc, hub.Location))
	}
	return math.Max(economicFloor, math.Min(100, total))
}

// InfrastructureScore takes the strongest telecom hub influence, with a
// latitude-dependent floor for sites far from any hub
func (s *Scorer) InfrastructureScore(loc geo.Location) float64 {
	best := 0.0
	for _, hub := range s.telecomHubs {
		best = math.Max(best, hub.Contribution(geo.MustDistance(loc, hub.Location)))
	}
	return math.Max(infrastructureFloor(loc.Latitude), best)
}

func infrastructureFloor(lat float64) float64 {
	abs := math.Abs(lat)
	switch {
	case abs <= 45:
		return 40
	case abs <= stats.PolarBoundary:
		return 30
	default:
		return 25
	}
}

// Confidence is high next to a major hub, low at polar latitudes, else moderate
func (s *Scorer) Confidence(loc geo.Location) float64 {
	for _, hub := range s.majorHubs {
		if geo.MustDistance(loc, hub.Location) <= hub.RadiusKm {
			return hubConfidence
		}
	}
	if math.Abs(loc.Latitude) > polarConfidenceLat {
		return polarConfidence
	}
	return defaultConfidence
}

// NearestMajorHub returns the closest major hub within its radius
func (s *Scorer) NearestMajorHub(loc geo.Location) (stats.Hub, float64, bool) {
	ranked, err := geo.NearestN(loc, s.majorHubs, 1)
	if err != nil || len(ranked) == 0 || ranked[0].DistanceKm > ranked[0].Item.RadiusKm {
		return stats.Hub{}, 0, false
	}
	return ranked[0].Item, ranked[0].DistanceKm, true
}

// PriorityTierFor buckets an overall score
func PriorityTierFor(overall int) models.PriorityTier {
	switch {
	case overall >= 80:
		return models.PriorityCritical
	case overall >= 65:
		return models.PriorityHigh
	case overall >= 50:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

// Recommendation turns a tier and confidence into investment guidance
func Recommendation(tier models.PriorityTier, confidence float64) string {
	var rec string
	switch tier {
	case models.PriorityCritical:
		rec = "Strong investment candidate: prioritise site survey and licensing"
	case models.PriorityHigh:
		rec = "Good investment candidate: proceed to detailed feasibility study"
	case models.PriorityMedium:
		rec = "Moderate opportunity: consider partnership or shared infrastructure"
	default:
		rec = "Limited opportunity: monitor market before committing capital"
	}
	if confidence < 0.5 {
		rec += " (low confidence, validate with field data)"
	}
	return rec
}

func clampScore(v float64) float64 {
	return stats.Clamp(v, 0, 100)
}

func roundScore(v float64) int {
	return int(math.Round(clampScore(v)))
}
