package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbernstein/groundscout/backend-go/internal/geo"
	"github.com/bbernstein/groundscout/backend-go/pkg/http/client"
)

var singapore = geo.Location{Latitude: 1.3521, Longitude: 103.8198}

func newTestServer(t *testing.T, wantPath string, status int, body string) *client.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, wantPath, r.URL.Path)
		assert.Equal(t, "1.3521", r.URL.Query().Get("lat"))
		assert.Equal(t, "103.8198", r.URL.Query().Get("lon"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return client.New(client.Options{
		BaseURL:       server.URL,
		Timeout:       time.Second,
		MaxRetries:    1,
		RetryInterval: time.Millisecond,
	})
}

func TestMaritimeAPI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		status      int
		body        string
		wantDensity float64
		wantErr     bool
	}{
		{
			name:        "valid payload",
			status:      http.StatusOK,
			body:        `{"vesselsPerDay":420.5,"nearestPort":"Singapore","portDistanceKm":9.8,"laneDistanceKm":2.1,"trafficScore":0.84}`,
			wantDensity: 420.5,
		},
		{
			name:    "negative density",
			status:  http.StatusOK,
			body:    `{"vesselsPerDay":-1}`,
			wantErr: true,
		},
		{
			name:    "traffic score above one",
			status:  http.StatusOK,
			body:    `{"vesselsPerDay":10,"trafficScore":3}`,
			wantErr: true,
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `oops`,
			wantErr: true,
		},
		{
			name:    "malformed JSON",
			status:  http.StatusOK,
			body:    `{"vesselsPerDay":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := NewMaritimeAPI(newTestServer(t, "/v1/density", tt.status, tt.body))
			got, err := api.FetchMaritime(context.Background(), singapore)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDensity, got.VesselDensity)
			assert.Equal(t, "Singapore", got.NearestPort)
			assert.Equal(t, 0.84, got.TrafficScore)
		})
	}
}

func TestUpstreamErrorCarriesStatus(t *testing.T) {
	t.Parallel()

	api := NewWeatherAPI(newTestServer(t, "/v1/climate", http.StatusNotFound, ``))
	_, err := api.FetchWeather(context.Background(), singapore)
	require.Error(t, err)

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusNotFound, upstream.StatusCode)
	assert.Equal(t, "weather", upstream.Source)
	assert.Contains(t, err.Error(), "status 404")
}

func TestWeatherAPI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"reliability":0.72,"rainFadeRisk":0.4,"clearSkyDays":140,"severeDaysPct":0.05}`},
		{name: "reliability above one", body: `{"reliability":1.2}`, wantErr: true},
		{name: "too many clear days", body: `{"reliability":0.5,"clearSkyDays":400}`, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := NewWeatherAPI(newTestServer(t, "/v1/climate", http.StatusOK, tt.body))
			got, err := api.FetchWeather(context.Background(), singapore)
			if tt.wantErr {
				var payload *InvalidPayloadError
				assert.True(t, errors.As(err, &payload))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 0.72, got.Reliability)
			assert.Equal(t, 140, got.ClearSkyDays)
		})
	}
}

func TestInfrastructureAPI(t *testing.T) {
	t.Parallel()

	api := NewInfrastructureAPI(newTestServer(t, "/v1/infrastructure", http.StatusOK,
		`{"score":91,"fiber":0.9,"powerReliability":0.99,"nearestHubKm":3}`))
	got, err := api.FetchInfrastructure(context.Background(), singapore)
	require.NoError(t, err)
	assert.Equal(t, 91.0, got.Score)
	assert.Equal(t, 0.9, got.FiberConnectivity)
	assert.Equal(t, 0.99, got.PowerReliability)
	assert.Equal(t, 3.0, got.NearestHubKm)
}

func TestInvalidLocationSkipsRequest(t *testing.T) {
	t.Parallel()

	c := client.New(client.Options{})
	c.GetFunc = func(ctx context.Context, path string) (*client.Response, error) {
		t.Fatalf("unexpected request to %s", path)
		return nil, nil
	}

	_, err := NewInfrastructureAPI(c).FetchInfrastructure(context.Background(), geo.Location{Latitude: 95})
	var coordErr *geo.InvalidCoordinateError
	assert.True(t, errors.As(err, &coordErr))
}
