package stats

import "math"

// DefaultVariance is the fraction used when no variance is configured
const DefaultVariance = 0.2

// ApplyVariance returns base * (1 + (r - 0.5) * fraction) for one draw r from rng
func ApplyVariance(rng Random, base, fraction float64) float64 {
	return base * (1 + (rng.Float64()-0.5)*fraction)
}

// Model owns the random source and variance used for statistical and
// synthetic substitutes.
type Model struct {
	rng      Random
	variance float64
}

func NewModel(rng Random, variance float64) *Model {
	if rng == nil {
		rng = NewSystemRandom()
	}
	if variance < 0 || math.IsNaN(variance) {
		variance = DefaultVariance
	}
	return &Model{
		rng:      rng,
		variance: variance,
	}
}

// ApplyVariance perturbs base by the given fraction
func (m *Model) ApplyVariance(base, fraction float64) float64 {
	return ApplyVariance(m.rng, base, fraction)
}

// Vary perturbs base by the model's configured variance
func (m *Model) Vary(base float64) float64 {
	return ApplyVariance(m.rng, base, m.variance)
}

func (m *Model) Variance() float64 {
	return m.variance
}

func (m *Model) Random() Random {
	return m.rng
}

// Clamp limits v to [lo, hi]; NaN becomes lo
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// Clamp01 limits v to [0, 1]
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}
