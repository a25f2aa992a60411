package source

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/bbernstein/groundscout/backend-go/internal/fallback"
	"github.com/bbernstein/groundscout/backend-go/internal/geo"
	"github.com/bbernstein/groundscout/backend-go/internal/models"
	"github.com/bbernstein/groundscout/backend-go/pkg/http/client"
)

const (
	maritimeSource       = "maritime"
	weatherSource        = "weather"
	infrastructureSource = "infrastructure"
)

var (
	_ fallback.MaritimeSource       = (*MaritimeAPI)(nil)
	_ fallback.WeatherSource        = (*WeatherAPI)(nil)
	_ fallback.InfrastructureSource = (*InfrastructureAPI)(nil)
)

// getJSON fetches path and decodes a 200 response into T
func getJSON[T any](ctx context.Context, c client.Interface, source, path string) (T, error) {
	var out T

	resp, err := c.Get(ctx, path)
	if err != nil {
		return out, NewUpstreamError(source, "request failed", err)
	}
	if resp == nil {
		return out, NewUpstreamError(source, "no response", nil)
	}
	if resp.StatusCode != http.StatusOK {
		e := NewUpstreamError(source, "unexpected status", nil)
		e.StatusCode = resp.StatusCode
		return out, e
	}

	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return out, NewUpstreamError(source, "decoding response", err)
	}
	return out, nil
}

func locationQuery(loc geo.Location) string {
	return fmt.Sprintf("lat=%.4f&lon=%.4f", loc.Latitude, loc.Longitude)
}

func checkRange(source, field string, v, lo, hi float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < lo || v > hi {
		return NewInvalidPayloadError(source, field, v)
	}
	return nil
}

// MaritimeAPI reads vessel density from an AIS aggregation service
type MaritimeAPI struct {
	client client.Interface
}

func NewMaritimeAPI(c client.Interface) *MaritimeAPI {
	return &MaritimeAPI{client: c}
}

type maritimeResponse struct {
	VesselsPerDay  float64 `json:"vesselsPerDay"`
	NearestPort    string  `json:"nearestPort"`
	PortDistanceKm float64 `json:"portDistanceKm"`
	LaneDistanceKm float64 `json:"laneDistanceKm"`
	TrafficScore   float64 `json:"trafficScore"`
}

func (m *MaritimeAPI) FetchMaritime(ctx context.Context, loc geo.Location) (models.MaritimeData, error) {
	if err := loc.Validate(); err != nil {
		return models.MaritimeData{}, err
	}

	r, err := getJSON[maritimeResponse](ctx, m.client, maritimeSource, "/v1/density?"+locationQuery(loc))
	if err != nil {
		return models.MaritimeData{}, err
	}

	if err := checkRange(maritimeSource, "vesselsPerDay", r.VesselsPerDay, 0, math.MaxFloat64); err != nil {
		return models.MaritimeData{}, err
	}
	if err := checkRange(maritimeSource, "trafficScore", r.TrafficScore, 0, 1); err != nil {
		return models.MaritimeData{}, err
	}

	log.Debug().
		Str("location", loc.String()).
		Float64("vessels_per_day", r.VesselsPerDay).
		Msg("Fetched maritime density")

	return models.MaritimeData{
		VesselDensity:          r.VesselsPerDay,
		NearestPort:            r.NearestPort,
		PortDistanceKm:         r.PortDistanceKm,
		ShippingLaneDistanceKm: r.LaneDistanceKm,
		TrafficScore:           r.TrafficScore,
	}, nil
}

// WeatherAPI reads climatological link reliability for a site
type WeatherAPI struct {
	client client.Interface
}

func NewWeatherAPI(c client.Interface) *WeatherAPI {
	return &WeatherAPI{client: c}
}

type weatherResponse struct {
	Reliability   float64 `json:"reliability"`
	RainFadeRisk  float64 `json:"rainFadeRisk"`
	ClearSkyDays  int     `json:"clearSkyDays"`
	SevereDaysPct float64 `json:"severeDaysPct"`
}

func (w *WeatherAPI) FetchWeather(ctx context.Context, loc geo.Location) (models.WeatherData, error) {
	if err := loc.Validate(); err != nil {
		return models.WeatherData{}, err
	}

	r, err := getJSON[weatherResponse](ctx, w.client, weatherSource, "/v1/climate?"+locationQuery(loc))
	if err != nil {
		return models.WeatherData{}, err
	}

	for field, v := range map[string]float64{
		"reliability":   r.Reliability,
		"rainFadeRisk":  r.RainFadeRisk,
		"severeDaysPct": r.SevereDaysPct,
	} {
		if err := checkRange(weatherSource, field, v, 0, 1); err != nil {
			return models.WeatherData{}, err
		}
	}
	if r.ClearSkyDays < 0 || r.ClearSkyDays > 366 {
		return models.WeatherData{}, NewInvalidPayloadError(weatherSource, "clearSkyDays", float64(r.ClearSkyDays))
	}

	return models.WeatherData{
		Reliability:   r.Reliability,
		RainFadeRisk:  r.RainFadeRisk,
		ClearSkyDays:  r.ClearSkyDays,
		SevereDaysPct: r.SevereDaysPct,
	}, nil
}

// InfrastructureAPI reads fiber, power and hub proximity for a site
type InfrastructureAPI struct {
	client client.Interface
}

func NewInfrastructureAPI(c client.Interface) *InfrastructureAPI {
	return &InfrastructureAPI{client: c}
}

type infrastructureResponse struct {
	Score            float64 `json:"score"`
	Fiber            float64 `json:"fiber"`
	PowerReliability float64 `json:"powerReliability"`
	NearestHubKm     float64 `json:"nearestHubKm"`
}

func (i *InfrastructureAPI) FetchInfrastructure(ctx context.Context, loc geo.Location) (models.InfrastructureData, error) {
	if err := loc.Validate(); err != nil {
		return models.InfrastructureData{}, err
	}

	r, err := getJSON[infrastructureResponse](ctx, i.client, infrastructureSource, "/v1/infrastructure?"+locationQuery(loc))
	if err != nil {
		return models.InfrastructureData{}, err
	}

	if err := checkRange(infrastructureSource, "score", r.Score, 0, 100); err != nil {
		return models.InfrastructureData{}, err
	}
	if err := checkRange(infrastructureSource, "fiber", r.Fiber, 0, 1); err != nil {
		return models.InfrastructureData{}, err
	}
	if err := checkRange(infrastructureSource, "powerReliability", r.PowerReliability, 0, 1); err != nil {
		return models.InfrastructureData{}, err
	}

	return models.InfrastructureData{
		Score:             r.Score,
		FiberConnectivity: r.Fiber,
		PowerReliability:  r.PowerReliability,
		NearestHubKm:      r.NearestHubKm,
	}, nil
}
