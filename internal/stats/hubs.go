package stats

import "github.com/bbernstein/groundscout/backend-go/internal/geo"

// Hub is a reference point whose influence decays linearly to zero at RadiusKm
type Hub struct {
	Name     string
	Location geo.Location
	RadiusKm float64
	Score    float64
}

func (h Hub) GetLocation() geo.Location {
	return h.Location
}

// Contribution returns Score * (1 - d/RadiusKm) for d inside the radius, else 0
func (h Hub) Contribution(distanceKm float64) float64 {
	if distanceKm >= h.RadiusKm || h.RadiusKm <= 0 {
		return 0
	}
	return h.Score * (1 - distanceKm/h.RadiusKm)
}

// MajorHubRadiusKm is the radius within which a location counts as next to a major hub
const MajorHubRadiusKm = 300.0

// MajorHubs are the reference points that raise scoring confidence
var MajorHubs = []Hub{
	{Name: "New York", Location: geo.Location{Latitude: 40.7128, Longitude: -74.0060}, RadiusKm: MajorHubRadiusKm},
	{Name: "San Francisco", Location: geo.Location{Latitude: 37.7749, Longitude: -122.4194}, RadiusKm: MajorHubRadiusKm},
	{Name: "London", Location: geo.Location{Latitude: 51.5074, Longitude: -0.1278}, RadiusKm: MajorHubRadiusKm},
	{Name: "Singapore", Location: geo.Location{Latitude: 1.3521, Longitude: 103.8198}, RadiusKm: MajorHubRadiusKm},
}

// EconomicHubs are financial and trade centres
var EconomicHubs = []Hub{
	{Name: "New York", Location: geo.Location{Latitude: 40.7128, Longitude: -74.0060}, RadiusKm: 800, Score: 95},
	{Name: "London", Location: geo.Location{Latitude: 51.5074, Longitude: -0.1278}, RadiusKm: 800, Score: 93},
	{Name: "Singapore", Location: geo.Location{Latitude: 1.3521, Longitude: 103.8198}, RadiusKm: 600, Score: 95},
	{Name: "Tokyo", Location: geo.Location{Latitude: 35.6762, Longitude: 139.6503}, RadiusKm: 800, Score: 92},
	{Name: "Hong Kong", Location: geo.Location{Latitude: 22.3193, Longitude: 114.1694}, RadiusKm: 600, Score: 90},
	{Name: "Shanghai", Location: geo.Location{Latitude: 31.2304, Longitude: 121.4737}, RadiusKm: 800, Score: 88},
	{Name: "Frankfurt", Location: geo.Location{Latitude: 50.1109, Longitude: 8.6821}, RadiusKm: 600, Score: 88},
	{Name: "San Francisco", Location: geo.Location{Latitude: 37.7749, Longitude: -122.4194}, RadiusKm: 600, Score: 90},
	{Name: "Los Angeles", Location: geo.Location{Latitude: 34.0522, Longitude: -118.2437}, RadiusKm: 600, Score: 85},
	{Name: "Dubai", Location: geo.Location{Latitude: 25.2048, Longitude: 55.2708}, RadiusKm: 700, Score: 85},
	{Name: "Mumbai", Location: geo.Location{Latitude: 19.0760, Longitude: 72.8777}, RadiusKm: 700, Score: 78},
	{Name: "Sydney", Location: geo.Location{Latitude: -33.8688, Longitude: 151.2093}, RadiusKm: 700, Score: 82},
	{Name: "Sao Paulo", Location: geo.Location{Latitude: -23.5505, Longitude: -46.6333}, RadiusKm: 700, Score: 75},
	{Name: "Johannesburg", Location: geo.Location{Latitude: -26.2041, Longitude: 28.0473}, RadiusKm: 600, Score: 68},
}

// TelecomHubRadiusKm bounds the influence of a telecom hub on infrastructure scores
const TelecomHubRadiusKm = 300.0

// TelecomHubs are carrier-neutral interconnection and cable landing centres
var TelecomHubs = []Hub{
	{Name: "Singapore", Location: geo.Location{Latitude: 1.3521, Longitude: 103.8198}, RadiusKm: TelecomHubRadiusKm, Score: 98},
	{Name: "London", Location: geo.Location{Latitude: 51.5074, Longitude: -0.1278}, RadiusKm: TelecomHubRadiusKm, Score: 98},
	{Name: "New York", Location: geo.Location{Latitude: 40.7128, Longitude: -74.0060}, RadiusKm: TelecomHubRadiusKm, Score: 98},
	{Name: "Ashburn", Location: geo.Location{Latitude: 39.0438, Longitude: -77.4874}, RadiusKm: TelecomHubRadiusKm, Score: 97},
	{Name: "Frankfurt", Location: geo.Location{Latitude: 50.1109, Longitude: 8.6821}, RadiusKm: TelecomHubRadiusKm, Score: 96},
	{Name: "Amsterdam", Location: geo.Location{Latitude: 52.3676, Longitude: 4.9041}, RadiusKm: TelecomHubRadiusKm, Score: 95},
	{Name: "Tokyo", Location: geo.Location{Latitude: 35.6762, Longitude: 139.6503}, RadiusKm: TelecomHubRadiusKm, Score: 95},
	{Name: "Hong Kong", Location: geo.Location{Latitude: 22.3193, Longitude: 114.1694}, RadiusKm: TelecomHubRadiusKm, Score: 94},
	{Name: "San Francisco", Location: geo.Location{Latitude: 37.7749, Longitude: -122.4194}, RadiusKm: TelecomHubRadiusKm, Score: 95},
	{Name: "Los Angeles", Location: geo.Location{Latitude: 34.0522, Longitude: -118.2437}, RadiusKm: TelecomHubRadiusKm, Score: 92},
	{Name: "Marseille", Location: geo.Location{Latitude: 43.2965, Longitude: 5.3698}, RadiusKm: TelecomHubRadiusKm, Score: 90},
	{Name: "Fujairah", Location: geo.Location{Latitude: 25.1288, Longitude: 56.3265}, RadiusKm: TelecomHubRadiusKm, Score: 85},
	{Name: "Mumbai", Location: geo.Location{Latitude: 19.0760, Longitude: 72.8777}, RadiusKm: TelecomHubRadiusKm, Score: 85},
	{Name: "Sydney", Location: geo.Location{Latitude: -33.8688, Longitude: 151.2093}, RadiusKm: TelecomHubRadiusKm, Score: 90},
	{Name: "Fortaleza", Location: geo.Location{Latitude: -3.7319, Longitude: -38.5267}, RadiusKm: TelecomHubRadiusKm, Score: 80},
	{Name: "Cape Town", Location: geo.Location{Latitude: -33.9249, Longitude: 18.4241}, RadiusKm: TelecomHubRadiusKm, Score: 78},
	{Name: "Miami", Location: geo.Location{Latitude: 25.7617, Longitude: -80.1918}, RadiusKm: TelecomHubRadiusKm, Score: 90},
}
