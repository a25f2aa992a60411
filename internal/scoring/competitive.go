package scoring

import (
	"github.com/bbernstein/groundscout/backend-go/internal/geo"
	"github.com/bbernstein/groundscout/backend-go/internal/models"
	"github.com/bbernstein/groundscout/backend-go/internal/stats"
)

// DefaultCompetitorRadiusKm is the radius used when none is given
const DefaultCompetitorRadiusKm = 1000.0

const (
	criticalThreatPenalty = 15.0
	highThreatPenalty     = 8.0
	otherThreatPenalty    = 3.0
	cloudOperatorPenalty  = 10.0
	leoOperatorPenalty    = 12.0
)

// CompetitiveAssessment explains a competitive impact score
type CompetitiveAssessment struct {
	Score         float64                                `json:"score"`
	RadiusKm      float64                                `json:"radiusKm"`
	Nearby        []geo.Ranked[models.CompetitorStation] `json:"nearby"`
	CriticalCount int                                    `json:"criticalCount"`
	HighCount     int                                    `json:"highCount"`
	OtherCount    int                                    `json:"otherCount"`
	CloudPresent  bool                                   `json:"cloudPresent"`
	LEOPresent    bool                                   `json:"leoPresent"`
}

// CompetitiveImpact scores a location from 100 down to 0 by the competitors
// within radiusKm. Each competitor is penalised once, by its own threat tier.
func CompetitiveImpact(station geo.Location, competitors []models.CompetitorStation, radiusKm float64) (float64, error) {
	a, err := AssessCompetition(station, competitors, radiusKm)
	if err != nil {
		return 0, err
	}
	return a.Score, nil
}

// AssessCompetition is CompetitiveImpact with the supporting detail
func AssessCompetition(station geo.Location, competitors []models.CompetitorStation, radiusKm float64) (CompetitiveAssessment, error) {
	if radiusKm <= 0 {
		radiusKm = DefaultCompetitorRadiusKm
	}

	nearby, err := geo.WithinRadius(station, competitors, radiusKm)
	if err != nil {
		return CompetitiveAssessment{}, err
	}

	a := CompetitiveAssessment{
		RadiusKm: radiusKm,
		Nearby:   nearby,
	}

	score := 100.0
	for _, n := range nearby {
		switch n.Item.MarketPosition.ThreatLevel {
		case models.ThreatCritical:
			score -= criticalThreatPenalty
			a.CriticalCount++
		case models.ThreatHigh:
			score -= highThreatPenalty
			a.HighCount++
		default:
			score -= otherThreatPenalty
			a.OtherCount++
		}

		switch n.Item.Operator.Archetype() {
		case models.ArchetypeCloud:
			a.CloudPresent = true
		case models.ArchetypeLEO:
			a.LEOPresent = true
		}
	}

	if a.CloudPresent {
		score -= cloudOperatorPenalty
	}
	if a.LEOPresent {
		score -= leoOperatorPenalty
	}

	a.Score = stats.Clamp(score, 0, 100)
	return a, nil
}

// AdjustForCompetition scales an opportunity score by competitive impact
func AdjustForCompetition(overall int, impact float64) int {
	return roundScore(float64(overall) * stats.Clamp(impact, 0, 100) / 100)
}
