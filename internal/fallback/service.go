package fallback

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bbernstein/groundscout/backend-go/internal/config"
	"github.com/bbernstein/groundscout/backend-go/internal/geo"
	"github.com/bbernstein/groundscout/backend-go/internal/metrics"
	"github.com/bbernstein/groundscout/backend-go/internal/models"
	"github.com/bbernstein/groundscout/backend-go/internal/stats"
)

type MaritimeSource interface {
	FetchMaritime(ctx context.Context, loc geo.Location) (models.MaritimeData, error)
}

type EconomicSource interface {
	FetchEconomics(ctx context.Context, country string) (models.EconomicData, error)
}

type WeatherSource interface {
	FetchWeather(ctx context.Context, loc geo.Location) (models.WeatherData, error)
}

type InfrastructureSource interface {
	FetchInfrastructure(ctx context.Context, loc geo.Location) (models.InfrastructureData, error)
}

// Sources are the live upstreams; any may be nil
type Sources struct {
	Maritime       MaritimeSource
	Economic       EconomicSource
	Weather        WeatherSource
	Infrastructure InfrastructureSource
}

// Service answers every enrichment request, degrading from live data to
// cached, modelled and finally synthetic values
type Service struct {
	mu  sync.RWMutex
	cfg config.FallbackConfig

	sources    Sources
	historical *HistoricalCache
	synthetic  *HistoricalCache
	rng        stats.Random
	model      *stats.Model
	clock      Clock
}

type Option func(*Service)

func WithSources(src Sources) Option {
	return func(s *Service) {
		s.sources = src
	}
}

// WithRandom injects the random source used for variance; tests pass a seeded one
func WithRandom(rng stats.Random) Option {
	return func(s *Service) {
		s.rng = rng
	}
}

func WithClock(c Clock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

func NewService(cfg config.FallbackConfig, opts ...Option) *Service {
	s := &Service{
		cfg:   cfg,
		clock: systemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.historical = NewHistoricalCache(s.clock)
	s.synthetic = NewHistoricalCache(s.clock)
	s.model = stats.NewModel(s.rng, cfg.SyntheticDataVariance)
	return s
}

// Config returns a snapshot of the configuration in force
func (s *Service) Config() config.FallbackConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// SetEmergencyMode widens the acceptable data age and lowers the quality bar
func (s *Service) SetEmergencyMode(on bool) {
	s.mu.Lock()
	s.cfg.EmergencyMode = on
	s.mu.Unlock()

	log.Warn().Bool("enabled", on).Msg("Fallback emergency mode changed")
}

// SetOfflineMode stops all live fetches while on
func (s *Service) SetOfflineMode(on bool) {
	s.mu.Lock()
	s.cfg.OfflineMode = on
	s.mu.Unlock()

	log.Info().Bool("enabled", on).Msg("Fallback offline mode changed")
}

// Historical exposes the cache of last good values
func (s *Service) Historical() *HistoricalCache {
	return s.historical
}

// Sweep drops historical entries past retention and remembered synthetic
// values past the maximum data age
func (s *Service) Sweep() int {
	cfg := s.Config()
	maxAge, _ := cfg.Thresholds()

	removed := s.historical.Sweep(time.Duration(cfg.FallbackDataRetention))
	s.synthetic.Sweep(maxAge)

	if removed > 0 {
		metrics.HistoricalEntriesEvicted.Add(float64(removed))
		log.Debug().Int("removed", removed).Msg("Swept historical fallback cache")
	}
	return removed
}

// Run sweeps on the configured interval until ctx is done
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(s.Config().SweepInterval))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
