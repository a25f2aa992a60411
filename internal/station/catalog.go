package station

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/bbernstein/groundscout/backend-go/internal/cache"
	"github.com/bbernstein/groundscout/backend-go/internal/geo"
	"github.com/bbernstein/groundscout/backend-go/internal/models"
	"github.com/bbernstein/groundscout/backend-go/internal/scoring"
)

//go:embed fixtures/*.json
var fixtureFS embed.FS

const defaultNearestLimit = 5

// NotFoundError is returned when a station ID is not in the catalog
type NotFoundError struct {
	StationID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("station not found: %s", e.StationID)
}

// Catalog serves the station and competitor fixtures. Lookups hit the memory
// cache first, then the remote store, then the embedded datasets.
type Catalog struct {
	memCache   *cache.FixtureCache
	remote     cache.FixtureStoreProvider
	load       func() (*cache.FixtureSet, error)
	cacheMutex sync.Mutex
}

var (
	_ models.StationCatalog    = (*Catalog)(nil)
	_ scoring.CompetitorSource = (*Catalog)(nil)
)

type Option func(*Catalog)

// WithRemoteStore enables the S3 copy of the fixtures
func WithRemoteStore(store cache.FixtureStoreProvider) Option {
	return func(c *Catalog) {
		c.remote = store
	}
}

func WithFixtureCache(memCache *cache.FixtureCache) Option {
	return func(c *Catalog) {
		c.memCache = memCache
	}
}

// WithLoader replaces the embedded datasets
func WithLoader(load func() (*cache.FixtureSet, error)) Option {
	return func(c *Catalog) {
		c.load = load
	}
}

func NewCatalog(opts ...Option) *Catalog {
	c := &Catalog{
		load: LoadEmbedded,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.memCache == nil {
		c.memCache = cache.NewFixtureCache(nil)
	}
	return c
}

// LoadEmbedded decodes and validates the fixtures compiled into the binary
func LoadEmbedded() (*cache.FixtureSet, error) {
	var set cache.FixtureSet
	if err := decodeFixture("fixtures/stations.json", &set.Stations); err != nil {
		return nil, err
	}
	if err := decodeFixture("fixtures/competitors.json", &set.Competitors); err != nil {
		return nil, err
	}
	if err := validateFixtures(&set); err != nil {
		return nil, err
	}
	return &set, nil
}

func decodeFixture(name string, v any) error {
	data, err := fixtureFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}

func validateFixtures(set *cache.FixtureSet) error {
	for _, s := range set.Stations {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("invalid station fixture: %w", err)
		}
	}
	for _, c := range set.Competitors {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("invalid competitor fixture: %w", err)
		}
	}
	return nil
}

func (c *Catalog) FindStation(ctx context.Context, stationID string) (*models.StationRecord, error) {
	set, err := c.getFixtures(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting station list: %w", err)
	}

	for _, s := range set.Stations {
		if s.ID == stationID {
			found := s
			return &found, nil
		}
	}
	return nil, &NotFoundError{StationID: stationID}
}

func (c *Catalog) ListStations(ctx context.Context) ([]models.StationRecord, error) {
	set, err := c.getFixtures(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting station list: %w", err)
	}
	return append([]models.StationRecord(nil), set.Stations...), nil
}

func (c *Catalog) ListCompetitors(ctx context.Context) ([]models.CompetitorStation, error) {
	set, err := c.getFixtures(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting competitor list: %w", err)
	}
	return append([]models.CompetitorStation(nil), set.Competitors...), nil
}

// FindNearestCompetitors returns up to limit competitors ordered by distance.
// A non-positive limit uses the default of 5.
func (c *Catalog) FindNearestCompetitors(ctx context.Context, loc geo.Location, limit int) ([]geo.Ranked[models.CompetitorStation], error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	competitors, err := c.ListCompetitors(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultNearestLimit
	}
	return geo.NearestN(loc, competitors, limit)
}

// FindNearestStations returns up to limit stations ordered by distance
func (c *Catalog) FindNearestStations(ctx context.Context, loc geo.Location, limit int) ([]geo.Ranked[models.StationRecord], error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	stations, err := c.ListStations(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultNearestLimit
	}
	return geo.NearestN(loc, stations, limit)
}

func (c *Catalog) getFixtures(ctx context.Context) (*cache.FixtureSet, error) {
	if set := c.memCache.GetFixtures(); set != nil {
		log.Debug().Msg("Memory cache HIT for fixtures")
		return set, nil
	}

	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	// Another caller may have loaded while we waited
	if set := c.memCache.GetFixtures(); set != nil {
		return set, nil
	}

	if c.remote != nil {
		set, err := c.remote.GetFixtures(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Error getting fixtures from S3")
		} else if set != nil {
			if err := validateFixtures(set); err != nil {
				log.Warn().Err(err).Msg("Ignoring invalid fixtures from S3")
			} else {
				log.Debug().Msg("S3 cache HIT for fixtures")
				c.memCache.SetFixtures(set)
				return set, nil
			}
		}
	}

	log.Debug().Msg("Cache MISS for fixtures, loading embedded datasets")
	set, err := c.load()
	if err != nil {
		return nil, err
	}

	if c.remote != nil {
		go func(set *cache.FixtureSet) {
			if err := c.remote.SaveFixtures(context.Background(), set); err != nil {
				log.Error().Err(err).Msg("Failed to save fixtures to S3")
			}
		}(set)
	}

	c.memCache.SetFixtures(set)
	return set, nil
}
