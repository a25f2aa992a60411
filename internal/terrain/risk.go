package terrain

import (
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bbernstein/groundscout/backend-go/internal/models"
	"github.com/bbernstein/groundscout/backend-go/internal/stats"
)

// Category weights; they sum to 1
const (
	environmentalWeight = 0.30
	constructionWeight  = 0.25
	operationalWeight   = 0.25
	financialWeight     = 0.20
)

// MitigationThreshold is the factor score at which mitigation text is attached
const MitigationThreshold = 50.0

const (
	RiskLevelCritical = "Critical"
	RiskLevelHigh     = "High"
	RiskLevelMedium   = "Medium"
	RiskLevelLow      = "Low"
)

var mitigations = map[string]string{
	"Weather exposure":          "Add rain-fade margin and a geographically diverse backup site",
	"Terrain instability":       "Commission a geotechnical survey before foundation design",
	"Line-of-sight obstruction": "Raise antenna mounts or select a site with a lower horizon mask",
	"Site preparation cost":     "Budget for grading and retaining works; compare flatter parcels",
	"Access difficulty":         "Negotiate road improvements or plan helicopter-serviceable equipment",
	"Connectivity gaps":         "Secure a fiber build commitment or provision high-capacity microwave backhaul",
	"Single point of failure":   "Contract a second diverse fiber path and on-site generation",
	"Logistics distance":        "Stock critical spares on site and arrange regional field service",
	"Market remoteness":         "Anchor the site with a pre-sold customer before construction",
	"Capital overrun":           "Hold a contingency reserve and phase antenna deployment",
}

func factor(name string, unit float64) models.RiskFactor {
	f := models.RiskFactor{Name: name, Score: math.Round(stats.Clamp01(unit)*1000) / 10}
	if f.Score >= MitigationThreshold {
		f.Mitigation = mitigations[name]
	}
	return f
}

func category(name string, weight float64, factors ...models.RiskFactor) models.RiskCategory {
	sum := 0.0
	for _, f := range factors {
		sum += f.Score
	}
	return models.RiskCategory{
		Name:    name,
		Weight:  weight,
		Score:   sum / float64(len(factors)),
		Factors: factors,
	}
}

// ScoreRisk scores the four risk categories and the weighted overall risk in [0,100]
func ScoreRisk(f models.TerrainMLFeatures) ([]models.RiskCategory, float64) {
	categories := []models.RiskCategory{
		category("Environmental", environmentalWeight,
			factor("Weather exposure", f.WeatherImpactScore),
			factor("Terrain instability", f.TerrainComplexity),
			factor("Line-of-sight obstruction", 1-f.ViewshedQuality),
		),
		category("Construction", constructionWeight,
			factor("Site preparation cost", f.ConstructionCostIndex),
			factor("Access difficulty", 1-f.AccessibilityIndex),
		),
		category("Operational", operationalWeight,
			factor("Connectivity gaps", 1-f.ConnectivityScore),
			factor("Single point of failure", 1-f.RedundancyPotential),
			factor("Logistics distance", ratio(f.NearestAirportKm, airportReachKm)),
		),
		category("Financial", financialWeight,
			factor("Market remoteness", 1-f.CentralityMeasure),
			factor("Capital overrun", 0.6*f.ConstructionCostIndex+0.4*f.TerrainComplexity),
		),
	}

	overall := 0.0
	for _, c := range categories {
		overall += c.Weight * c.Score
	}
	return categories, stats.Clamp(overall, 0, 100)
}

// RiskLevel buckets an overall risk score
func RiskLevel(score float64) string {
	switch {
	case score >= 70:
		return RiskLevelCritical
	case score >= 50:
		return RiskLevelHigh
	case score >= 30:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}

// Mitigations lists mitigation text for every factor at or above the
// threshold, highest score first
func Mitigations(categories []models.RiskCategory) []string {
	var factors []models.RiskFactor
	for _, c := range categories {
		for _, f := range c.Factors {
			if f.Mitigation != "" {
				factors = append(factors, f)
			}
		}
	}
	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].Score > factors[j].Score
	})
	out := make([]string, len(factors))
	for i, f := range factors {
		out[i] = f.Mitigation
	}
	return out
}

// Assessor runs risk assessments with an injected random source
type Assessor struct {
	rng    stats.Random
	trials int
	newID  func() string
}

type AssessorOption func(*Assessor)

func WithRandom(rng stats.Random) AssessorOption {
	return func(a *Assessor) {
		a.rng = rng
	}
}

func WithTrials(n int) AssessorOption {
	return func(a *Assessor) {
		if n > 0 {
			a.trials = n
		}
	}
}

func WithAssessmentIDs(fn func() string) AssessorOption {
	return func(a *Assessor) {
		a.newID = fn
	}
}

func NewAssessor(opts ...AssessorOption) *Assessor {
	a := &Assessor{
		trials: DefaultTrials,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.rng == nil {
		a.rng = stats.NewSystemRandom()
	}
	return a
}

// Assess scores the categories and runs the Monte Carlo simulation
func (a *Assessor) Assess(f models.TerrainMLFeatures) models.RiskAssessmentResult {
	categories, overall := ScoreRisk(f)
	mc := MonteCarlo(f, a.rng, a.trials)

	result := models.RiskAssessmentResult{
		AssessmentID:     a.newID(),
		OverallRiskScore: math.Round(overall*10) / 10,
		RiskLevel:        RiskLevel(overall),
		Categories:       categories,
		MonteCarlo:       mc,
	}

	log.Debug().
		Str("assessment_id", result.AssessmentID).
		Float64("overall_risk", result.OverallRiskScore).
		Str("risk_level", result.RiskLevel).
		Float64("var95", mc.VaR95).
		Msg("Completed risk assessment")

	return result
}
