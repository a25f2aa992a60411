package cache

import (
	"sync"
	"time"

	"github.com/bbernstein/groundscout/backend-go/internal/config"
	"github.com/bbernstein/groundscout/backend-go/internal/models"
)

type clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// FixtureSet is the read-only reference data the scorers work from
type FixtureSet struct {
	Stations    []models.StationRecord     `json:"stations"`
	Competitors []models.CompetitorStation `json:"competitors"`
}

// FixtureCache holds the current fixture set in memory until its TTL lapses
type FixtureCache struct {
	fixtures    *FixtureSet
	lastUpdated time.Time
	ttl         time.Duration
	clock       clock
	mu          sync.RWMutex
}

func NewFixtureCache(cfg *config.CacheConfig) *FixtureCache {
	if cfg == nil {
		cfg = config.GetCacheConfig()
	}
	return &FixtureCache{
		lastUpdated: time.Time{}, // Zero time to ensure first load
		ttl:         cfg.GetFixtureTTL(),
		clock:       realClock{},
	}
}

// GetFixtures returns nil when nothing is cached or the entry has expired
func (c *FixtureCache) GetFixtures() *FixtureSet {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.fixtures == nil || c.isExpired() {
		return nil
	}
	return c.fixtures
}

func (c *FixtureCache) SetFixtures(fixtures *FixtureSet) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.fixtures = fixtures
	c.lastUpdated = c.clock.Now()
}

func (c *FixtureCache) isExpired() bool {
	return c.clock.Now().Sub(c.lastUpdated) > c.ttl
}
