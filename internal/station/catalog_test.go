package station

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbernstein/groundscout/backend-go/internal/cache"
	"github.com/bbernstein/groundscout/backend-go/internal/config"
	"github.com/bbernstein/groundscout/backend-go/internal/geo"
	"github.com/bbernstein/groundscout/backend-go/internal/models"
)

type mockS3Store struct {
	getFixturesFunc  func(context.Context) (*cache.FixtureSet, error)
	saveFixturesFunc func(context.Context, *cache.FixtureSet) error
}

func (m *mockS3Store) GetFixtures(ctx context.Context) (*cache.FixtureSet, error) {
	if m.getFixturesFunc != nil {
		return m.getFixturesFunc(ctx)
	}
	return nil, nil
}

func (m *mockS3Store) SaveFixtures(ctx context.Context, set *cache.FixtureSet) error {
	if m.saveFixturesFunc != nil {
		return m.saveFixturesFunc(ctx, set)
	}
	return nil
}

func testFixtures() *cache.FixtureSet {
	return &cache.FixtureSet{
		Stations: []models.StationRecord{
			{ID: "gs-a", Name: "Alpha", Location: geo.Location{Latitude: 10, Longitude: 10}},
			{ID: "gs-b", Name: "Bravo", Location: geo.Location{Latitude: 20, Longitude: 20}},
		},
		Competitors: []models.CompetitorStation{
			{ID: "cmp-far", Location: geo.Location{Latitude: 40, Longitude: 40}, MarketPosition: models.MarketPosition{ThreatLevel: models.ThreatLow}},
			{ID: "cmp-near", Location: geo.Location{Latitude: 10.1, Longitude: 10.1}, MarketPosition: models.MarketPosition{ThreatLevel: models.ThreatHigh}},
			{ID: "cmp-mid", Location: geo.Location{Latitude: 15, Longitude: 15}, MarketPosition: models.MarketPosition{ThreatLevel: models.ThreatMedium}},
		},
	}
}

func TestLoadEmbedded(t *testing.T) {
	set, err := LoadEmbedded()
	require.NoError(t, err)
	assert.NotEmpty(t, set.Stations)
	assert.NotEmpty(t, set.Competitors)

	ids := make(map[string]bool)
	for _, s := range set.Stations {
		assert.False(t, ids[s.ID], "duplicate station id %s", s.ID)
		ids[s.ID] = true
	}
}

func TestCatalog_FindStation(t *testing.T) {
	c := NewCatalog(WithLoader(func() (*cache.FixtureSet, error) { return testFixtures(), nil }))
	ctx := context.Background()

	got, err := c.FindStation(ctx, "gs-b")
	require.NoError(t, err)
	assert.Equal(t, "Bravo", got.Name)

	_, err = c.FindStation(ctx, "gs-missing")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "gs-missing", notFound.StationID)
}

func TestCatalog_EmbeddedStationLookup(t *testing.T) {
	c := NewCatalog()

	got, err := c.FindStation(context.Background(), "gs-sg-01")
	require.NoError(t, err)
	assert.Equal(t, "Singapore", got.Country)
}

func TestCatalog_FindNearestCompetitors(t *testing.T) {
	c := NewCatalog(WithLoader(func() (*cache.FixtureSet, error) { return testFixtures(), nil }))
	ctx := context.Background()

	ranked, err := c.FindNearestCompetitors(ctx, geo.Location{Latitude: 10, Longitude: 10}, 2)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "cmp-near", ranked[0].Item.ID)
	assert.Equal(t, "cmp-mid", ranked[1].Item.ID)
	assert.Less(t, ranked[0].DistanceKm, ranked[1].DistanceKm)

	ranked, err = c.FindNearestCompetitors(ctx, geo.Location{Latitude: 10, Longitude: 10}, 0)
	require.NoError(t, err)
	assert.Len(t, ranked, 3, "default limit exceeds the dataset")

	_, err = c.FindNearestCompetitors(ctx, geo.Location{Latitude: 91}, 1)
	var coordErr *geo.InvalidCoordinateError
	assert.ErrorAs(t, err, &coordErr)
}

func TestCatalog_FindNearestStations(t *testing.T) {
	c := NewCatalog(WithLoader(func() (*cache.FixtureSet, error) { return testFixtures(), nil }))

	ranked, err := c.FindNearestStations(context.Background(), geo.Location{Latitude: 19, Longitude: 19}, 1)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, "gs-b", ranked[0].Item.ID)
}

func TestCatalog_ListReturnsCopies(t *testing.T) {
	c := NewCatalog(WithLoader(func() (*cache.FixtureSet, error) { return testFixtures(), nil }))
	ctx := context.Background()

	stations, err := c.ListStations(ctx)
	require.NoError(t, err)
	stations[0].Name = "changed"

	again, err := c.ListStations(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", again[0].Name)
}

func TestCatalog_CacheOrder(t *testing.T) {
	tests := []struct {
		name        string
		remoteSet   *cache.FixtureSet
		remoteErr   error
		expectLoad  bool
		expectSave  bool
		expectFirst string
	}{
		{
			name:        "remote hit skips loader",
			remoteSet:   &cache.FixtureSet{Stations: []models.StationRecord{{ID: "gs-remote", Location: geo.Location{Latitude: 1, Longitude: 1}}}},
			expectFirst: "gs-remote",
		},
		{
			name:        "remote miss loads and saves",
			expectLoad:  true,
			expectSave:  true,
			expectFirst: "gs-a",
		},
		{
			name:        "remote error falls back to loader",
			remoteErr:   errors.New("s3 down"),
			expectLoad:  true,
			expectSave:  true,
			expectFirst: "gs-a",
		},
		{
			name:        "invalid remote data is ignored",
			remoteSet:   &cache.FixtureSet{Stations: []models.StationRecord{{ID: "", Location: geo.Location{}}}},
			expectLoad:  true,
			expectSave:  true,
			expectFirst: "gs-a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var loads atomic.Int32
			saved := make(chan *cache.FixtureSet, 1)
			remote := &mockS3Store{
				getFixturesFunc: func(context.Context) (*cache.FixtureSet, error) {
					return tt.remoteSet, tt.remoteErr
				},
				saveFixturesFunc: func(_ context.Context, set *cache.FixtureSet) error {
					saved <- set
					return nil
				},
			}
			c := NewCatalog(
				WithRemoteStore(remote),
				WithLoader(func() (*cache.FixtureSet, error) {
					loads.Add(1)
					return testFixtures(), nil
				}),
			)

			stations, err := c.ListStations(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.expectFirst, stations[0].ID)

			if tt.expectLoad {
				assert.Equal(t, int32(1), loads.Load())
			} else {
				assert.Zero(t, loads.Load())
			}

			if tt.expectSave {
				select {
				case set := <-saved:
					assert.Len(t, set.Stations, 2)
				case <-time.After(time.Second):
					t.Fatal("fixtures were not saved to the remote store")
				}
			}

			// Second call is served from memory
			_, err = c.ListStations(context.Background())
			require.NoError(t, err)
			if tt.expectLoad {
				assert.Equal(t, int32(1), loads.Load())
			}
		})
	}
}

func TestCatalog_LoaderError(t *testing.T) {
	c := NewCatalog(WithLoader(func() (*cache.FixtureSet, error) { return nil, errors.New("corrupt fixtures") }))

	_, err := c.ListCompetitors(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt fixtures")
}

func TestCatalog_ConcurrentLoadsOnce(t *testing.T) {
	var loads atomic.Int32
	c := NewCatalog(
		WithFixtureCache(cache.NewFixtureCache(&config.CacheConfig{FixtureTTLMinutes: 60})),
		WithLoader(func() (*cache.FixtureSet, error) {
			loads.Add(1)
			return testFixtures(), nil
		}),
	)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.ListCompetitors(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), loads.Load())
}
