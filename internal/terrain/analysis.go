package terrain

import (
	"fmt"
	"math"
	"sort"

	"github.com/bbernstein/groundscout/backend-go/internal/models"
)

const (
	// z for a two-sided 95% interval
	z95 = 1.959964
	// SignificanceLevel is the p-value below which a correlation is flagged
	SignificanceLevel = 0.05
	// maxAbsR keeps the Fisher transform finite for perfectly correlated samples
	maxAbsR = 0.999999
)

// Sample pairs one station's features with its observed performance metrics
type Sample struct {
	StationID string
	Features  models.TerrainMLFeatures
	Metrics   map[string]float64
}

type Correlation struct {
	Feature     string  `json:"feature"`
	R           float64 `json:"r"`
	CILow       float64 `json:"ciLow"`
	CIHigh      float64 `json:"ciHigh"`
	PValue      float64 `json:"pValue"`
	N           int     `json:"n"`
	Significant bool    `json:"significant"`
}

// Correlate computes the Pearson r between every normalized feature and
// metric across samples that report it. The confidence interval uses the
// Fisher z-transform. PValue treats the t statistic as standard normal,
// which overstates significance for small samples.
func Correlate(samples []Sample, metric string) ([]Correlation, error) {
	var ys []float64
	var rows [][]NamedValue
	for _, s := range samples {
		y, ok := s.Metrics[metric]
		if !ok || math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		ys = append(ys, y)
		rows = append(rows, Vector(s.Features))
	}

	n := len(ys)
	if n < 4 {
		return nil, fmt.Errorf("correlating %s: need at least 4 samples, have %d", metric, n)
	}

	names := Vector(models.TerrainMLFeatures{})
	out := make([]Correlation, len(names))
	for j, name := range names {
		xs := make([]float64, n)
		for i := range rows {
			xs[i] = rows[i][j].Value
		}
		out[j] = correlation(name.Name, xs, ys)
	}
	return out, nil
}

func correlation(feature string, xs, ys []float64) Correlation {
	n := len(xs)
	r := Pearson(xs, ys)
	c := Correlation{Feature: feature, R: r, N: n, PValue: 1}

	clamped := math.Max(-maxAbsR, math.Min(maxAbsR, r))
	z := math.Atanh(clamped)
	se := 1 / math.Sqrt(float64(n-3))
	c.CILow = math.Tanh(z - z95*se)
	c.CIHigh = math.Tanh(z + z95*se)

	if r != 0 {
		t := clamped * math.Sqrt(float64(n-2)/(1-clamped*clamped))
		c.PValue = 2 * (1 - normalCDF(math.Abs(t)))
	}
	c.Significant = c.PValue < SignificanceLevel
	return c
}

// Pearson returns the correlation coefficient, or 0 when either series is constant
func Pearson(xs, ys []float64) float64 {
	n := float64(len(xs))
	if len(xs) == 0 || len(xs) != len(ys) {
		return 0
	}

	var mx, my float64
	for i := range xs {
		mx += xs[i]
		my += ys[i]
	}
	mx /= n
	my /= n

	var sxy, sxx, syy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0
	}
	return sxy / math.Sqrt(sxx*syy)
}

func normalCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// SensitivityStep is the one-at-a-time perturbation applied in each direction
const SensitivityStep = 0.10

type SensitivityResult struct {
	Parameter  string  `json:"parameter"`
	Elasticity float64 `json:"elasticity"`
	Low        float64 `json:"low"`
	High       float64 `json:"high"`
	Rank       int     `json:"rank"`
}

type parameter struct {
	name string
	get  func(*models.TerrainMLFeatures) *float64
}

var simulationParameters = []parameter{
	{"terrain_complexity", func(f *models.TerrainMLFeatures) *float64 { return &f.TerrainComplexity }},
	{"weather_impact_score", func(f *models.TerrainMLFeatures) *float64 { return &f.WeatherImpactScore }},
	{"construction_cost_index", func(f *models.TerrainMLFeatures) *float64 { return &f.ConstructionCostIndex }},
	{"accessibility_index", func(f *models.TerrainMLFeatures) *float64 { return &f.AccessibilityIndex }},
}

// Sensitivity moves each simulation parameter ±10% in turn and reports the
// elasticity of suitability, largest magnitude first
func Sensitivity(f models.TerrainMLFeatures) []SensitivityResult {
	base := featureSuitability(f)

	out := make([]SensitivityResult, 0, len(simulationParameters))
	for _, p := range simulationParameters {
		lo, hi := f, f
		*p.get(&lo) *= 1 - SensitivityStep
		*p.get(&hi) *= 1 + SensitivityStep

		res := SensitivityResult{
			Parameter: p.name,
			Low:       featureSuitability(lo),
			High:      featureSuitability(hi),
		}
		if base != 0 {
			res.Elasticity = ((res.High - res.Low) / base) / (2 * SensitivityStep)
		}
		out = append(out, res)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Elasticity) > math.Abs(out[j].Elasticity)
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// FeatureImportance normalizes absolute elasticities so they sum to 1
func FeatureImportance(f models.TerrainMLFeatures) map[string]float64 {
	results := Sensitivity(f)
	total := 0.0
	for _, r := range results {
		total += math.Abs(r.Elasticity)
	}

	out := make(map[string]float64, len(results))
	for _, r := range results {
		if total == 0 {
			out[r.Parameter] = 0
			continue
		}
		out[r.Parameter] = math.Abs(r.Elasticity) / total
	}
	return out
}
