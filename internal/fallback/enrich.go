package fallback

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/bbernstein/groundscout/backend-go/internal/metrics"
	"github.com/bbernstein/groundscout/backend-go/internal/models"
	"github.com/bbernstein/groundscout/backend-go/internal/scoring"
	"github.com/bbernstein/groundscout/backend-go/internal/stats"
)

const (
	degradedConfidence     = 0.2
	degradedInfrastructure = 40.0
	degradedWeather        = 0.7
	minConfidenceWeight    = 0.1
)

// GetEnrichedStationWithFallback fetches all four domains in parallel and
// merges them into an enriched record. Each domain degrades through its own
// chain, so a failing or panicking live source never affects the others.
// Only an invalid station location is returned as an error; a failure while
// building or merging the domain results yields a low-confidence default
// record carrying the original error.
func (s *Service) GetEnrichedStationWithFallback(ctx context.Context, station models.StationRecord) (*models.EnrichedStationRecord, error) {
	loc := station.Location
	if err := loc.Validate(); err != nil {
		return nil, err
	}

	var (
		maritime FallbackResult[models.MaritimeData]
		economic FallbackResult[models.EconomicData]
		weather  FallbackResult[models.WeatherData]
		infra    FallbackResult[models.InfrastructureData]
	)

	// no shared context cancellation: one domain's error must not cut short another's fetch
	var g errgroup.Group
	g.Go(guard(models.DomainMaritime, func() (err error) {
		maritime, err = s.GetMaritimeData(ctx, loc)
		return err
	}))
	g.Go(guard(models.DomainEconomic, func() error {
		economic = s.GetEconomicData(ctx, station.Country)
		return nil
	}))
	g.Go(guard(models.DomainWeather, func() (err error) {
		weather, err = s.GetWeatherData(ctx, loc)
		return err
	}))
	g.Go(guard(models.DomainInfrastructure, func() (err error) {
		infra, err = s.GetInfrastructureData(ctx, loc)
		return err
	}))

	if err := g.Wait(); err != nil {
		return s.degradedRecord(station, err), nil
	}

	var record models.EnrichedStationRecord
	err := guard("merge", func() error {
		record = s.merge(station, maritime, economic, weather, infra)
		return nil
	})()
	if err != nil {
		return s.degradedRecord(station, err), nil
	}

	log.Debug().
		Str("station", station.ID).
		Float64("confidence", record.Quality.OverallConfidence).
		Msg("Station enriched")
	return &record, nil
}

// guard converts a panic in fn into an error
func guard(name models.Domain, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s enrichment panicked: %v", name, r)
			}
		}()
		return fn()
	}
}

func (s *Service) merge(
	station models.StationRecord,
	maritime FallbackResult[models.MaritimeData],
	economic FallbackResult[models.EconomicData],
	weather FallbackResult[models.WeatherData],
	infra FallbackResult[models.InfrastructureData],
) models.EnrichedStationRecord {
	metas := map[models.Domain]Metadata{
		models.DomainMaritime:       maritime.Metadata,
		models.DomainEconomic:       economic.Metadata,
		models.DomainWeather:        weather.Metadata,
		models.DomainInfrastructure: infra.Metadata,
	}

	scores := map[models.Domain]float64{
		models.DomainMaritime:       100 * stats.Clamp01(maritime.Data.VesselDensity/maritimeDensityCeiling),
		models.DomainEconomic:       100 * stats.Clamp01(economic.Data.GDPPerCapita/gdpCeiling),
		models.DomainWeather:        100 * stats.Clamp01(weather.Data.Reliability),
		models.DomainInfrastructure: stats.Clamp(infra.Data.Score, 0, 100),
	}

	quality := models.DataQuality{
		Sources:     make(map[models.Domain]models.DataSource, len(metas)),
		Domains:     make(map[models.Domain]models.ScoreResult, len(metas)),
		GeneratedAt: s.clock.Now(),
	}
	confidences := make([]float64, 0, len(metas))
	for _, d := range models.Domains {
		md := metas[d]
		quality.Sources[d] = md.Source
		quality.Domains[d] = md.ScoreResult(scores[d])
		confidences = append(confidences, md.Confidence)
		for _, w := range md.Warnings {
			quality.Warnings = append(quality.Warnings, fmt.Sprintf("%s: %s", d, w))
		}
	}
	quality.OverallConfidence = OverallConfidence(confidences...)

	return CalculateDerivedMetrics(models.EnrichedStationRecord{
		StationRecord:       station,
		MaritimeDensity:     maritime.Data.VesselDensity,
		GDPPerCapita:        economic.Data.GDPPerCapita,
		InfrastructureScore: infra.Data.Score,
		WeatherReliability:  weather.Data.Reliability,
		SatelliteVisibility: scoring.OrbitalScore(station.Location.Latitude) / 100,
		Quality:             quality,
	})
}

// OverallConfidence is the confidence-weighted mean of the domain
// confidences, each weighted by max(0.1, c)
func OverallConfidence(confidences ...float64) float64 {
	var sum, weights float64
	for _, c := range confidences {
		c = stats.Clamp01(c)
		w := math.Max(minConfidenceWeight, c)
		sum += w * c
		weights += w
	}
	if weights == 0 {
		return 0
	}
	return sum / weights
}

func (s *Service) degradedRecord(station models.StationRecord, cause error) *models.EnrichedStationRecord {
	log.Warn().Err(cause).Str("station", station.ID).Msg("Enrichment failed, returning default record")
	metrics.EnrichmentDegradedTotal.Inc()

	sources := make(map[models.Domain]models.DataSource, len(models.Domains))
	for _, d := range models.Domains {
		sources[d] = models.SourceSynthetic
	}

	record := CalculateDerivedMetrics(models.EnrichedStationRecord{
		StationRecord:       station,
		GDPPerCapita:        stats.LookupCountryEconomics(station.Country).GDPPerCapita,
		InfrastructureScore: degradedInfrastructure,
		WeatherReliability:  degradedWeather,
		SatelliteVisibility: scoring.OrbitalScore(station.Location.Latitude) / 100,
		Quality: models.DataQuality{
			OverallConfidence: degradedConfidence,
			Sources:           sources,
			Warnings:          []string{"Enrichment failed; values are defaults and should not be relied on"},
			GeneratedAt:       s.clock.Now(),
		},
		OriginalError: cause.Error(),
	})
	return &record
}
