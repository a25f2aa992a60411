package fallback

import (
	"fmt"
	"sync"
	"time"

	"github.com/bbernstein/groundscout/backend-go/internal/geo"
	"github.com/bbernstein/groundscout/backend-go/internal/models"
	"github.com/bbernstein/groundscout/backend-go/internal/stats"
)

// Clock allows tests to control time
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// LocationKey builds the cache key for a location-scoped domain
func LocationKey(domain models.Domain, loc geo.Location) string {
	return fmt.Sprintf("%s_%.4f_%.4f", domain, loc.Latitude, loc.Longitude)
}

// EconomicKey builds the cache key for country-scoped economic data
func EconomicKey(country string) string {
	if country == "" {
		country = stats.DefaultCountry
	}
	return fmt.Sprintf("%s_%s", models.DomainEconomic, country)
}

type historicalEntry struct {
	data      any
	timestamp time.Time
	metadata  Metadata
}

// HistoricalCache remembers the last good value per key for the lifetime of
// the process
type HistoricalCache struct {
	mu      sync.RWMutex
	entries map[string]historicalEntry
	clock   Clock
}

func NewHistoricalCache(clock Clock) *HistoricalCache {
	if clock == nil {
		clock = systemClock{}
	}
	return &HistoricalCache{
		entries: make(map[string]historicalEntry),
		clock:   clock,
	}
}

// Store records data under key with the current time
func (c *HistoricalCache) Store(key string, data any, md Metadata) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = historicalEntry{
		data:      data,
		timestamp: c.clock.Now(),
		metadata:  md,
	}
}

func (c *HistoricalCache) get(key string) (historicalEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	return e, ok
}

// Sweep removes entries older than retention and returns how many it removed
func (c *HistoricalCache) Sweep(retention time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	removed := 0
	for k, e := range c.entries {
		if now.Sub(e.timestamp) > retention {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

func (c *HistoricalCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
