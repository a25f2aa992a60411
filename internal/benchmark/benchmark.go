package benchmark

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/bbernstein/groundscout/backend-go/internal/models"
)

type Rating string

const (
	RatingExcellent Rating = "excellent"
	RatingGood      Rating = "good"
	RatingFair      Rating = "fair"
	RatingPoor      Rating = "poor"
)

var ratingPoints = map[Rating]float64{
	RatingExcellent: 100,
	RatingGood:      75,
	RatingFair:      50,
	RatingPoor:      25,
}

// Metric is one industry benchmark. Fair, Good and Excellent are thresholds
// in the metric's own direction: for HigherIsBetter metrics a value must be at
// least the threshold, otherwise at most.
type Metric struct {
	Name           string
	Unit           string
	Fair           float64
	Good           float64
	Excellent      float64
	HigherIsBetter bool
	Value          func(models.StationRecord) (float64, bool)
}

func (m Metric) Validate() error {
	if m.Name == "" || m.Value == nil {
		return fmt.Errorf("benchmark metric needs a name and an extractor")
	}
	ordered := m.Fair <= m.Good && m.Good <= m.Excellent
	if !m.HigherIsBetter {
		ordered = m.Fair >= m.Good && m.Good >= m.Excellent
	}
	if !ordered {
		return fmt.Errorf("benchmark %s: thresholds out of order for its direction", m.Name)
	}
	return nil
}

// Rate places value against the thresholds
func (m Metric) Rate(value float64) Rating {
	meets := func(threshold float64) bool {
		if m.HigherIsBetter {
			return value >= threshold
		}
		return value <= threshold
	}
	switch {
	case meets(m.Excellent):
		return RatingExcellent
	case meets(m.Good):
		return RatingGood
	case meets(m.Fair):
		return RatingFair
	default:
		return RatingPoor
	}
}

// Deviation is the signed percentage by which value beats (+) or misses (-)
// the Good threshold
func (m Metric) Deviation(value float64) float64 {
	if m.Good == 0 {
		return 0
	}
	d := (value - m.Good) / math.Abs(m.Good) * 100
	if !m.HigherIsBetter {
		d = -d
	}
	return math.Round(d*10) / 10
}

// DefaultMetrics are the ground-station industry benchmarks
var DefaultMetrics = []Metric{
	{
		Name: "utilization", Unit: "%", Fair: 45, Good: 65, Excellent: 80, HigherIsBetter: true,
		Value: func(s models.StationRecord) (float64, bool) { return s.Utilization.CurrentPct, true },
	},
	{
		Name: "profit_margin", Unit: "%", Fair: 15, Good: 25, Excellent: 35, HigherIsBetter: true,
		Value: func(s models.StationRecord) (float64, bool) { return s.Business.ProfitMarginPct, true },
	},
	{
		Name: "annual_roi", Unit: "%", Fair: 8, Good: 15, Excellent: 25, HigherIsBetter: true,
		Value: func(s models.StationRecord) (float64, bool) { return s.ROI.AnnualROIPct, true },
	},
	{
		Name: "payback_period", Unit: "months", Fair: 60, Good: 40, Excellent: 24,
		Value: func(s models.StationRecord) (float64, bool) {
			return s.ROI.PaybackMonths, s.ROI.PaybackMonths > 0
		},
	},
	{
		Name: "churn", Unit: "%", Fair: 15, Good: 8, Excellent: 4,
		Value: func(s models.StationRecord) (float64, bool) { return s.Business.ChurnPct, true },
	},
	{
		Name: "operational_cost_ratio", Unit: "ratio", Fair: 0.6, Good: 0.45, Excellent: 0.3,
		Value: func(s models.StationRecord) (float64, bool) {
			return s.Business.OperationalCostRatio, s.Business.OperationalCostRatio > 0
		},
	},
	{
		Name: "revenue_per_gbps", Unit: "USD/Gbps/month", Fair: 5000, Good: 15000, Excellent: 30000, HigherIsBetter: true,
		Value: func(s models.StationRecord) (float64, bool) {
			if s.Technical.CapacityGbps <= 0 {
				return 0, false
			}
			return s.Business.MonthlyRevenue / s.Technical.CapacityGbps, true
		},
	},
}

type Result struct {
	Metric       string  `json:"metric"`
	Unit         string  `json:"unit"`
	Value        float64 `json:"value"`
	Rating       Rating  `json:"rating"`
	DeviationPct float64 `json:"deviationPct"`
}

type Report struct {
	StationID string   `json:"stationId"`
	Score     float64  `json:"score"`
	Results   []Result `json:"results"`
	Warnings  []string `json:"warnings,omitempty"`
}

// Validator rates stations against a fixed set of benchmarks
type Validator struct {
	metrics []Metric
}

func NewValidator(metrics ...Metric) (*Validator, error) {
	if len(metrics) == 0 {
		metrics = DefaultMetrics
	}
	for _, m := range metrics {
		if err := m.Validate(); err != nil {
			return nil, err
		}
	}
	return &Validator{metrics: metrics}, nil
}

// Validate rates every metric the station reports. Metrics it cannot compute
// are skipped with a warning; Score is the mean rating in points.
func (v *Validator) Validate(station models.StationRecord) (Report, error) {
	if err := station.Validate(); err != nil {
		return Report{}, err
	}

	report := Report{StationID: station.ID}
	total := 0.0
	for _, m := range v.metrics {
		value, ok := m.Value(station)
		if !ok || math.IsNaN(value) || math.IsInf(value, 0) {
			report.Warnings = append(report.Warnings, fmt.Sprintf("%s not available", m.Name))
			continue
		}
		rating := m.Rate(value)
		report.Results = append(report.Results, Result{
			Metric:       m.Name,
			Unit:         m.Unit,
			Value:        value,
			Rating:       rating,
			DeviationPct: m.Deviation(value),
		})
		total += ratingPoints[rating]
	}

	if len(report.Results) > 0 {
		report.Score = math.Round(total / float64(len(report.Results)))
	}

	log.Debug().
		Str("station_id", station.ID).
		Float64("benchmark_score", report.Score).
		Int("skipped", len(report.Warnings)).
		Msg("Benchmarked station")

	return report, nil
}
