package fallback

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bbernstein/groundscout/backend-go/internal/config"
	"github.com/bbernstein/groundscout/backend-go/internal/metrics"
	"github.com/bbernstein/groundscout/backend-go/internal/models"
)

type fallbackState int

const (
	stateLive fallbackState = iota
	stateHistorical
	stateStatistical
	stateSynthetic
	stateReturn
)

const (
	liveConfidence = 0.9
	// a historical entry loses up to this share of its confidence as it ages to maxDataAge
	historicalDecay = 0.3
)

type estimate[T any] struct {
	data       T
	confidence float64
}

// chain describes one domain's sources; live may be nil
type chain[T any] struct {
	domain      models.Domain
	key         string
	live        func(ctx context.Context) (T, error)
	statistical func() (estimate[T], error)
	synthetic   func() estimate[T]
}

// run walks LIVE, HISTORICAL, STATISTICAL, SYNTHETIC and stops at the first
// usable value. The synthetic step cannot fail.
func run[T any](ctx context.Context, s *Service, c chain[T]) FallbackResult[T] {
	cfg := s.Config()

	var (
		result  FallbackResult[T]
		reasons []string
		err     error
	)

	state := stateLive
	for state != stateReturn {
		switch state {
		case stateLive:
			result, err = tryLive(ctx, s, cfg, c)
			state = stateHistorical
		case stateHistorical:
			result, err = tryHistorical(s, cfg, c)
			state = stateStatistical
		case stateStatistical:
			result, err = tryStatistical(cfg, c)
			state = stateSynthetic
		case stateSynthetic:
			result, err = synthesize(s, cfg, c), nil
			state = stateReturn
		}

		if err != nil {
			reasons = append(reasons, err.Error())
			continue
		}
		state = stateReturn
	}

	result.FallbackReason = strings.Join(reasons, "; ")

	metrics.FallbackResultsTotal.WithLabelValues(string(c.domain), string(result.Metadata.Source)).Inc()
	metrics.FallbackConfidence.WithLabelValues(string(c.domain)).Observe(result.Metadata.Confidence)

	if result.Metadata.Source != models.SourceLive {
		log.Debug().
			Str("domain", string(c.domain)).
			Str("key", c.key).
			Str("source", string(result.Metadata.Source)).
			Str("reason", result.FallbackReason).
			Msg("Served fallback data")
	}
	return result
}

func tryLive[T any](ctx context.Context, s *Service, cfg config.FallbackConfig, c chain[T]) (FallbackResult[T], error) {
	if cfg.OfflineMode {
		return FallbackResult[T]{}, NewDataSourceUnavailableError(c.domain, models.SourceLive, "offline mode", nil)
	}
	if c.live == nil {
		return FallbackResult[T]{}, NewDataSourceUnavailableError(c.domain, models.SourceLive, "no live source configured", nil)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.FetchTimeout))
	defer cancel()

	start := time.Now()
	data, err := callLive(fetchCtx, c)
	metrics.LiveFetchLatency.WithLabelValues(string(c.domain)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LiveFetchTotal.WithLabelValues(string(c.domain), "error").Inc()
		log.Warn().Err(err).Str("domain", string(c.domain)).Msg("Live fetch failed")
		return FallbackResult[T]{}, NewDataSourceUnavailableError(c.domain, models.SourceLive, "fetch failed", err)
	}
	metrics.LiveFetchTotal.WithLabelValues(string(c.domain), "ok").Inc()

	md := Metadata{
		Source:     models.SourceLive,
		Confidence: liveConfidence,
		Quality:    liveConfidence,
	}
	s.historical.Store(c.key, data, md)

	return FallbackResult[T]{Data: data, Metadata: md}, nil
}

// callLive runs the live fetch, reporting a panicking source as an error so
// the domain continues down its own chain
func callLive[T any](ctx context.Context, c chain[T]) (data T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("live %s source panicked: %v", c.domain, r)
		}
	}()
	return c.live(ctx)
}

func tryHistorical[T any](s *Service, cfg config.FallbackConfig, c chain[T]) (FallbackResult[T], error) {
	unavailable := func(reason string) (FallbackResult[T], error) {
		return FallbackResult[T]{}, NewDataSourceUnavailableError(c.domain, models.SourceHistorical, reason, nil)
	}

	if !cfg.UseHistoricalData {
		return unavailable("historical data disabled")
	}

	entry, ok := s.historical.get(c.key)
	if !ok {
		return unavailable("no cached entry")
	}

	data, ok := entry.data.(T)
	if !ok {
		return unavailable(fmt.Sprintf("cached entry has type %T", entry.data))
	}

	maxAge, minConfidence := cfg.Thresholds()
	age := s.clock.Now().Sub(entry.timestamp)
	if age > maxAge {
		return unavailable(fmt.Sprintf("cached entry is %s old", age.Round(time.Minute)))
	}
	if entry.metadata.Quality < minConfidence {
		return unavailable(fmt.Sprintf("cached quality %.2f below %.2f", entry.metadata.Quality, minConfidence))
	}

	confidence := entry.metadata.Confidence * (1 - historicalDecay*age.Seconds()/maxAge.Seconds())
	return FallbackResult[T]{
		Data: data,
		Metadata: Metadata{
			Source:     models.SourceHistorical,
			Confidence: confidence,
			DataAge:    age,
			Quality:    entry.metadata.Quality,
			Warnings:   []string{fmt.Sprintf("Using cached %s data from %s ago", c.domain, age.Round(time.Minute))},
		},
	}, nil
}

func tryStatistical[T any](cfg config.FallbackConfig, c chain[T]) (FallbackResult[T], error) {
	if !cfg.UseStatisticalModels {
		return FallbackResult[T]{}, NewDataSourceUnavailableError(c.domain, models.SourceStatistical, "statistical models disabled", nil)
	}

	est, err := c.statistical()
	if err != nil {
		return FallbackResult[T]{}, err
	}

	_, minConfidence := cfg.Thresholds()
	if est.confidence < minConfidence {
		return FallbackResult[T]{}, NewDataSourceUnavailableError(c.domain, models.SourceStatistical,
			fmt.Sprintf("model confidence %.2f below %.2f", est.confidence, minConfidence), nil)
	}

	return FallbackResult[T]{
		Data: est.data,
		Metadata: Metadata{
			Source:     models.SourceStatistical,
			Confidence: est.confidence,
			Quality:    est.confidence,
			Warnings:   []string{fmt.Sprintf("Estimated %s data from regional statistical model", c.domain)},
		},
	}, nil
}

// synthesize always produces a value. With temporal consistency on, the
// previous synthetic value for the key is reused until it reaches maxDataAge.
func synthesize[T any](s *Service, cfg config.FallbackConfig, c chain[T]) FallbackResult[T] {
	maxAge, _ := cfg.Thresholds()

	var (
		est estimate[T]
		age time.Duration
	)
	reused := false
	if cfg.TemporalConsistency {
		if entry, ok := s.synthetic.get(c.key); ok {
			if data, ok := entry.data.(T); ok {
				if a := s.clock.Now().Sub(entry.timestamp); a <= maxAge {
					est = estimate[T]{data: data, confidence: entry.metadata.Confidence}
					age = a
					reused = true
				}
			}
		}
	}
	if !reused {
		est = c.synthetic()
		if cfg.TemporalConsistency {
			s.synthetic.Store(c.key, est.data, Metadata{Source: models.SourceSynthetic, Confidence: est.confidence})
		}
	}

	warnings := []string{fmt.Sprintf("Synthetic %s data generated from reference tables; values are indicative only", c.domain)}
	if !cfg.UseSyntheticData {
		warnings = append(warnings, "Synthetic data is disabled but no other source was available")
	}

	return FallbackResult[T]{
		Data: est.data,
		Metadata: Metadata{
			Source:     models.SourceSynthetic,
			Confidence: est.confidence,
			DataAge:    age,
			Quality:    est.confidence,
			Warnings:   warnings,
		},
	}
}
