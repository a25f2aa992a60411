package fallback

import (
	"context"
	"math"

	"github.com/bbernstein/groundscout/backend-go/internal/geo"
	"github.com/bbernstein/groundscout/backend-go/internal/models"
	"github.com/bbernstein/groundscout/backend-go/internal/stats"
)

const (
	// vessels per day treated as maximum traffic
	maritimeDensityCeiling = 500.0
	nearShippingKm         = 500.0

	statisticalMaritimeNear = 0.7
	statisticalMaritimeFar  = 0.5
	statisticalEconomic     = 0.75
	statisticalWeather      = 0.7
	statisticalPolarWeather = 0.5
	statisticalInfra        = 0.65

	syntheticKnownCountry   = 0.25
	syntheticUnknownCountry = 0.15
	syntheticConfidence     = 0.2
)

// GetMaritimeData returns vessel traffic near loc
func (s *Service) GetMaritimeData(ctx context.Context, loc geo.Location) (FallbackResult[models.MaritimeData], error) {
	if err := loc.Validate(); err != nil {
		return FallbackResult[models.MaritimeData]{}, err
	}

	c := chain[models.MaritimeData]{
		domain:      models.DomainMaritime,
		key:         LocationKey(models.DomainMaritime, loc),
		statistical: func() (estimate[models.MaritimeData], error) { return s.maritimeModel(loc) },
		synthetic:   func() estimate[models.MaritimeData] { return s.syntheticMaritime(loc) },
	}
	if src := s.sources.Maritime; src != nil {
		c.live = func(ctx context.Context) (models.MaritimeData, error) {
			return src.FetchMaritime(ctx, loc)
		}
	}
	return run(ctx, s, c), nil
}

func (s *Service) maritimeModel(loc geo.Location) (estimate[models.MaritimeData], error) {
	est, ok, err := stats.EstimateMaritime(loc)
	if err != nil {
		return estimate[models.MaritimeData]{}, NewDataSourceUnavailableError(models.DomainMaritime, models.SourceStatistical, "model error", err)
	}
	if !ok {
		return estimate[models.MaritimeData]{}, NewDataSourceUnavailableError(models.DomainMaritime, models.SourceStatistical, "location outside shipping model range", nil)
	}

	confidence := statisticalMaritimeFar
	if math.Min(est.PortDistanceKm, est.ShippingLaneDistanceKm) <= nearShippingKm {
		confidence = statisticalMaritimeNear
	}

	density := math.Max(0, s.model.Vary(est.VesselDensity))
	return estimate[models.MaritimeData]{
		data: models.MaritimeData{
			VesselDensity:          density,
			NearestPort:            est.NearestPort.Name,
			PortDistanceKm:         est.PortDistanceKm,
			ShippingLaneDistanceKm: est.ShippingLaneDistanceKm,
			TrafficScore:           stats.Clamp01(density / maritimeDensityCeiling),
		},
		confidence: confidence,
	}, nil
}

func (s *Service) syntheticMaritime(loc geo.Location) estimate[models.MaritimeData] {
	data := models.MaritimeData{}

	base := 2.0
	if ports, err := geo.NearestN(loc, stats.MajorPorts, 1); err == nil && len(ports) > 0 {
		data.NearestPort = ports[0].Item.Name
		data.PortDistanceKm = ports[0].DistanceKm
		base += 40 * math.Exp(-ports[0].DistanceKm/2000)
	}

	density := s.model.Vary(base)
	if s.Config().GeographicRealism {
		density = stats.Clamp(density, 0.5*base, 1.5*base)
	}
	data.VesselDensity = math.Max(0, density)
	data.TrafficScore = stats.Clamp01(data.VesselDensity / maritimeDensityCeiling)

	return estimate[models.MaritimeData]{data: data, confidence: syntheticConfidence}
}

// GetEconomicData returns national economic indicators. Unknown or empty
// countries use the default profile. With historical data and statistical
// models disabled the result is synthetic whenever no live fetch succeeded;
// a working live source still answers first.
func (s *Service) GetEconomicData(ctx context.Context, country string) FallbackResult[models.EconomicData] {
	c := chain[models.EconomicData]{
		domain:      models.DomainEconomic,
		key:         EconomicKey(country),
		statistical: func() (estimate[models.EconomicData], error) { return economicModel(country) },
		synthetic:   func() estimate[models.EconomicData] { return s.syntheticEconomics(country) },
	}
	if src := s.sources.Economic; src != nil && country != "" {
		c.live = func(ctx context.Context) (models.EconomicData, error) {
			return src.FetchEconomics(ctx, country)
		}
	}
	return run(ctx, s, c)
}

func economicModel(country string) (estimate[models.EconomicData], error) {
	if !stats.HasCountry(country) {
		return estimate[models.EconomicData]{}, NewDataSourceUnavailableError(models.DomainEconomic, models.SourceStatistical, "country not in economic table", nil)
	}
	e := stats.LookupCountryEconomics(country)
	return estimate[models.EconomicData]{
		data: models.EconomicData{
			Country:       country,
			GDPPerCapita:  e.GDPPerCapita,
			InfraIndex:    e.InfraIndex,
			DigitalIndex:  e.DigitalIndex,
			GrowthRatePct: e.GrowthRatePct,
		},
		confidence: statisticalEconomic,
	}, nil
}

func (s *Service) syntheticEconomics(country string) estimate[models.EconomicData] {
	e := stats.LookupCountryEconomics(country)
	realism := s.Config().GeographicRealism

	vary := func(base, lo, hi float64) float64 {
		v := s.model.Vary(base)
		if realism {
			v = stats.Clamp(v, 0.5*base, 1.5*base)
		}
		return stats.Clamp(v, lo, hi)
	}

	confidence := syntheticUnknownCountry
	if stats.HasCountry(country) {
		confidence = syntheticKnownCountry
	}

	return estimate[models.EconomicData]{
		data: models.EconomicData{
			Country:       country,
			GDPPerCapita:  vary(e.GDPPerCapita, 0, math.Inf(1)),
			InfraIndex:    vary(e.InfraIndex, 0, 100),
			DigitalIndex:  vary(e.DigitalIndex, 0, 100),
			GrowthRatePct: e.GrowthRatePct,
		},
		confidence: confidence,
	}
}

// GetWeatherData returns link reliability for the current month at loc
func (s *Service) GetWeatherData(ctx context.Context, loc geo.Location) (FallbackResult[models.WeatherData], error) {
	if err := loc.Validate(); err != nil {
		return FallbackResult[models.WeatherData]{}, err
	}

	c := chain[models.WeatherData]{
		domain:      models.DomainWeather,
		key:         LocationKey(models.DomainWeather, loc),
		statistical: func() (estimate[models.WeatherData], error) { return s.weatherModel(loc) },
		synthetic:   func() estimate[models.WeatherData] { return s.syntheticWeather(loc) },
	}
	if src := s.sources.Weather; src != nil {
		c.live = func(ctx context.Context) (models.WeatherData, error) {
			return src.FetchWeather(ctx, loc)
		}
	}
	return run(ctx, s, c), nil
}

func weatherData(lat, reliability float64) models.WeatherData {
	return models.WeatherData{
		Reliability:   reliability,
		RainFadeRisk:  stats.RainFadeRisk(lat),
		ClearSkyDays:  int(math.Round(365 * reliability * 0.6)),
		SevereDaysPct: stats.Clamp01((1 - reliability) * 0.25),
	}
}

func (s *Service) weatherModel(loc geo.Location) (estimate[models.WeatherData], error) {
	rel, err := stats.SeasonalWeatherReliability(loc.Latitude, s.clock.Now().Month())
	if err != nil {
		return estimate[models.WeatherData]{}, NewDataSourceUnavailableError(models.DomainWeather, models.SourceStatistical, "model error", err)
	}

	confidence := statisticalWeather
	if stats.LatitudeBand(loc.Latitude) == stats.BandPolar {
		confidence = statisticalPolarWeather
	}
	return estimate[models.WeatherData]{data: weatherData(loc.Latitude, rel), confidence: confidence}, nil
}

func (s *Service) syntheticWeather(loc geo.Location) estimate[models.WeatherData] {
	annual, err := stats.AnnualWeatherReliability(loc.Latitude)
	if err != nil {
		annual = 0.7
	}

	rel := s.model.Vary(annual)
	if s.Config().GeographicRealism {
		rel = stats.Clamp(rel, annual-0.15, annual+0.1)
	}
	rel = stats.Clamp01(rel)

	return estimate[models.WeatherData]{data: weatherData(loc.Latitude, rel), confidence: syntheticConfidence}
}

// GetInfrastructureData returns the connectivity and power profile of loc
func (s *Service) GetInfrastructureData(ctx context.Context, loc geo.Location) (FallbackResult[models.InfrastructureData], error) {
	if err := loc.Validate(); err != nil {
		return FallbackResult[models.InfrastructureData]{}, err
	}

	c := chain[models.InfrastructureData]{
		domain:      models.DomainInfrastructure,
		key:         LocationKey(models.DomainInfrastructure, loc),
		statistical: func() (estimate[models.InfrastructureData], error) { return infrastructureModel(loc) },
		synthetic:   func() estimate[models.InfrastructureData] { return s.syntheticInfrastructure(loc) },
	}
	if src := s.sources.Infrastructure; src != nil {
		c.live = func(ctx context.Context) (models.InfrastructureData, error) {
			return src.FetchInfrastructure(ctx, loc)
		}
	}
	return run(ctx, s, c), nil
}

// nearestTelecomHub returns the distance to, and influence of, the closest hub
func nearestTelecomHub(loc geo.Location) (distanceKm, best float64) {
	distanceKm = math.Inf(1)
	for _, hub := range stats.TelecomHubs {
		d := geo.MustDistance(loc, hub.Location)
		distanceKm = math.Min(distanceKm, d)
		best = math.Max(best, hub.Contribution(d))
	}
	return distanceKm, best
}

func infrastructureModel(loc geo.Location) (estimate[models.InfrastructureData], error) {
	region, ok := stats.RegionFor(loc)
	if !ok {
		return estimate[models.InfrastructureData]{}, NewDataSourceUnavailableError(models.DomainInfrastructure, models.SourceStatistical, "no regional infrastructure model", nil)
	}

	hubKm, hubScore := nearestTelecomHub(loc)
	return estimate[models.InfrastructureData]{
		data: models.InfrastructureData{
			Score:             math.Max(region.BaseIndex, hubScore),
			FiberConnectivity: region.FiberPenetration / 100,
			PowerReliability:  region.PowerReliability,
			NearestHubKm:      hubKm,
		},
		confidence: statisticalInfra,
	}, nil
}

// syntheticInfrastructure keeps values inside the regional envelope when
// geographic realism is on; open ocean gets no infrastructure at all
func (s *Service) syntheticInfrastructure(loc geo.Location) estimate[models.InfrastructureData] {
	hubKm, _ := nearestTelecomHub(loc)
	region, inRegion := stats.RegionFor(loc)
	realism := s.Config().GeographicRealism

	if realism && !inRegion {
		return estimate[models.InfrastructureData]{
			data:       models.InfrastructureData{NearestHubKm: hubKm},
			confidence: syntheticConfidence,
		}
	}

	base, fiber, power := 45.0, 0.4, 0.85
	if inRegion {
		base, fiber, power = region.BaseIndex, region.FiberPenetration/100, region.PowerReliability
	}

	score := s.model.Vary(base)
	if realism {
		score = stats.Clamp(score, 0.7*base, 1.3*base)
	}

	return estimate[models.InfrastructureData]{
		data: models.InfrastructureData{
			Score:             stats.Clamp(score, 0, 100),
			FiberConnectivity: stats.Clamp01(s.model.Vary(fiber)),
			PowerReliability:  stats.Clamp01(s.model.Vary(power)),
			NearestHubKm:      hubKm,
		},
		confidence: syntheticConfidence,
	}
}
