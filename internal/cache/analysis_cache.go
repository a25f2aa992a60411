package cache

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2"

	"github.com/bbernstein/groundscout/backend-go/internal/config"
	"github.com/bbernstein/groundscout/backend-go/internal/models"
	"github.com/bbernstein/groundscout/backend-go/internal/scoring"
)

var _ scoring.ResultCache = (*AnalysisCache)(nil)

// analysisEntry wraps a cached analysis with its expiry
type analysisEntry struct {
	Data      *models.OpportunityAnalysis
	ExpiresAt time.Time
}

// AnalysisCache is a bounded LRU of opportunity analyses with a TTL
type AnalysisCache struct {
	lru    *lru.Cache[string, *analysisEntry]
	ttl    time.Duration
	clock  clock
	hits   atomic.Uint64
	misses atomic.Uint64
}

func NewAnalysisCache(cfg *config.CacheConfig) (*AnalysisCache, error) {
	if cfg == nil {
		cfg = config.GetCacheConfig()
	}

	l, err := lru.New[string, *analysisEntry](cfg.AnalysisLRUSize)
	if err != nil {
		return nil, fmt.Errorf("creating LRU cache: %w", err)
	}

	return &AnalysisCache{
		lru:   l,
		ttl:   cfg.GetAnalysisLRUTTL(),
		clock: realClock{},
	}, nil
}

// Get returns a live entry; expired entries are removed and count as misses
func (c *AnalysisCache) Get(key string) (*models.OpportunityAnalysis, bool) {
	if entry, ok := c.lru.Get(key); ok {
		if c.clock.Now().Before(entry.ExpiresAt) {
			c.hits.Add(1)
			return entry.Data, true
		}
		c.lru.Remove(key)
	}
	c.misses.Add(1)
	return nil, false
}

func (c *AnalysisCache) Add(key string, analysis *models.OpportunityAnalysis) {
	c.lru.Add(key, &analysisEntry{
		Data:      analysis,
		ExpiresAt: c.clock.Now().Add(c.ttl),
	})
}

// GetCacheStats returns statistics about cache hits and misses
func (c *AnalysisCache) GetCacheStats() map[string]uint64 {
	return map[string]uint64{
		"lru_hits":   c.hits.Load(),
		"lru_misses": c.misses.Load(),
		"lru_size":   uint64(c.lru.Len()),
	}
}

// Clear removes all entries
func (c *AnalysisCache) Clear() {
	c.lru.Purge()
}
