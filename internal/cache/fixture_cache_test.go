package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bbernstein/groundscout/backend-go/internal/config"
	"github.com/bbernstein/groundscout/backend-go/internal/models"
)

func TestFixtureCacheGetSet(t *testing.T) {
	tests := []struct {
		name     string
		fixtures *FixtureSet
		want     *FixtureSet
	}{
		{
			name:     "stores fixtures",
			fixtures: createTestFixtures(),
			want:     createTestFixtures(),
		},
		{
			name:     "empty set",
			fixtures: &FixtureSet{},
			want:     &FixtureSet{},
		},
		{
			name:     "nil set",
			fixtures: nil,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewFixtureCache(&config.CacheConfig{FixtureTTLMinutes: 60})
			assert.Nil(t, c.GetFixtures(), "new cache should be empty")

			c.SetFixtures(tt.fixtures)
			assert.Equal(t, tt.want, c.GetFixtures())
		})
	}
}

func TestFixtureCacheExpiration(t *testing.T) {
	clock := &mockClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := NewFixtureCache(&config.CacheConfig{FixtureTTLMinutes: 60})
	c.clock = clock

	c.SetFixtures(createTestFixtures())
	assert.NotNil(t, c.GetFixtures())

	clock.now = clock.now.Add(59 * time.Minute)
	assert.NotNil(t, c.GetFixtures(), "fixtures should still be fresh")

	clock.now = clock.now.Add(2 * time.Minute)
	assert.Nil(t, c.GetFixtures(), "fixtures should expire after the ttl")

	c.SetFixtures(createTestFixtures())
	assert.NotNil(t, c.GetFixtures(), "setting again should refresh")
}

func TestConcurrentFixtureAccess(t *testing.T) {
	c := NewFixtureCache(&config.CacheConfig{FixtureTTLMinutes: 60})
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			c.SetFixtures(&FixtureSet{
				Stations: []models.StationRecord{{ID: fmt.Sprintf("gs-%d", id)}},
			})
		}(i)
	}

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := c.GetFixtures(); got != nil {
				assert.Len(t, got.Stations, 1)
			}
		}()
	}

	wg.Wait()
	assert.NotNil(t, c.GetFixtures())
}

func BenchmarkFixtureCache(b *testing.B) {
	c := NewFixtureCache(&config.CacheConfig{FixtureTTLMinutes: 60})
	c.SetFixtures(createTestFixtures())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.GetFixtures()
	}
}
