package terrain

import (
	"math"
	"sort"

	"github.com/bbernstein/groundscout/backend-go/internal/models"
	"github.com/bbernstein/groundscout/backend-go/internal/stats"
)

// DefaultTrials is the Monte Carlo trial count when none is configured
const DefaultTrials = 10000

// Percentiles reported by MonteCarlo
var Percentiles = []int{5, 25, 50, 75, 95}

// Perturbation half-widths as fractions of the feature value
const (
	complexitySpread    = 0.10
	weatherSpread       = 0.20
	costSpread          = 0.15
	accessibilitySpread = 0.10
)

// Suitability is the simplified 0-100 outcome each trial evaluates
func Suitability(complexity, weather, cost, accessibility float64) float64 {
	return 100 * stats.Clamp01(0.30*(1-stats.Clamp01(complexity))+
		0.25*(1-stats.Clamp01(weather))+
		0.25*(1-stats.Clamp01(cost))+
		0.20*stats.Clamp01(accessibility))
}

func featureSuitability(f models.TerrainMLFeatures) float64 {
	return Suitability(f.TerrainComplexity, f.WeatherImpactScore, f.ConstructionCostIndex, f.AccessibilityIndex)
}

func perturb(rng stats.Random, v, spread float64) float64 {
	return stats.Clamp01(v * (1 + stats.Uniform(rng, -spread, spread)))
}

// MonteCarlo perturbs complexity, weather, cost and accessibility with
// independent uniform noise and summarizes the suitability outcomes
func MonteCarlo(f models.TerrainMLFeatures, rng stats.Random, trials int) models.MonteCarloResult {
	if trials <= 0 {
		trials = DefaultTrials
	}
	if rng == nil {
		rng = stats.NewSystemRandom()
	}

	outcomes := make([]float64, trials)
	for i := range outcomes {
		outcomes[i] = Suitability(
			perturb(rng, f.TerrainComplexity, complexitySpread),
			perturb(rng, f.WeatherImpactScore, weatherSpread),
			perturb(rng, f.ConstructionCostIndex, costSpread),
			perturb(rng, f.AccessibilityIndex, accessibilitySpread),
		)
	}
	return summarize(outcomes)
}

func summarize(outcomes []float64) models.MonteCarloResult {
	n := len(outcomes)
	sorted := append([]float64(nil), outcomes...)
	sort.Float64s(sorted)

	mean := 0.0
	for _, v := range sorted {
		mean += v
	}
	mean /= float64(n)

	sumSq := 0.0
	for _, v := range sorted {
		d := v - mean
		sumSq += d * d
	}

	pct := make(map[int]float64, len(Percentiles))
	for _, p := range Percentiles {
		pct[p] = percentile(sorted, p)
	}

	return models.MonteCarloResult{
		Trials:      n,
		Mean:        mean,
		StdDev:      math.Sqrt(sumSq / float64(n)),
		Percentiles: pct,
		VaR95:       percentile(sorted, 5),
	}
}

// percentile uses the floor index p/100*n into an ascending slice
func percentile(sorted []float64, p int) float64 {
	idx := p * len(sorted) / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// AssessRisk runs a full assessment with a fresh system random source
func AssessRisk(f models.TerrainMLFeatures) models.RiskAssessmentResult {
	return NewAssessor().Assess(f)
}
