package stats

import (
	"math"

	"github.com/bbernstein/groundscout/backend-go/internal/geo"
)

type Port struct {
	Name          string
	Location      geo.Location
	ThroughputTEU float64 // millions of TEU per year
}

func (p Port) GetLocation() geo.Location {
	return p.Location
}

type ShippingLane struct {
	Name  string
	Start geo.Location
	End   geo.Location
	// vessels per day on the lane
	Traffic float64
}

var MajorPorts = []Port{
	{Name: "Shanghai", Location: geo.Location{Latitude: 31.2304, Longitude: 121.4737}, ThroughputTEU: 49},
	{Name: "Singapore", Location: geo.Location{Latitude: 1.2644, Longitude: 103.8400}, ThroughputTEU: 39},
	{Name: "Ningbo-Zhoushan", Location: geo.Location{Latitude: 29.8683, Longitude: 121.5440}, ThroughputTEU: 35},
	{Name: "Busan", Location: geo.Location{Latitude: 35.1028, Longitude: 129.0403}, ThroughputTEU: 23},
	{Name: "Hong Kong", Location: geo.Location{Latitude: 22.2855, Longitude: 114.1577}, ThroughputTEU: 14},
	{Name: "Rotterdam", Location: geo.Location{Latitude: 51.9496, Longitude: 4.1453}, ThroughputTEU: 13},
	{Name: "Jebel Ali", Location: geo.Location{Latitude: 25.0112, Longitude: 55.0612}, ThroughputTEU: 14},
	{Name: "Antwerp", Location: geo.Location{Latitude: 51.2637, Longitude: 4.3996}, ThroughputTEU: 12},
	{Name: "Los Angeles", Location: geo.Location{Latitude: 33.7361, Longitude: -118.2646}, ThroughputTEU: 9},
	{Name: "Hamburg", Location: geo.Location{Latitude: 53.5461, Longitude: 9.9661}, ThroughputTEU: 8},
	{Name: "New York/New Jersey", Location: geo.Location{Latitude: 40.6681, Longitude: -74.0451}, ThroughputTEU: 8},
	{Name: "Mumbai (JNPT)", Location: geo.Location{Latitude: 18.9500, Longitude: 72.9500}, ThroughputTEU: 6},
	{Name: "Santos", Location: geo.Location{Latitude: -23.9608, Longitude: -46.3336}, ThroughputTEU: 5},
	{Name: "Durban", Location: geo.Location{Latitude: -29.8711, Longitude: 31.0262}, ThroughputTEU: 3},
	{Name: "Sydney (Botany)", Location: geo.Location{Latitude: -33.9711, Longitude: 151.2115}, ThroughputTEU: 3},
	{Name: "Panama (Balboa)", Location: geo.Location{Latitude: 8.9494, Longitude: -79.5667}, ThroughputTEU: 4},
}

var ShippingLanes = []ShippingLane{
	{Name: "Strait of Malacca", Start: geo.Location{Latitude: 5.5, Longitude: 95.0}, End: geo.Location{Latitude: 1.2, Longitude: 103.8}, Traffic: 250},
	{Name: "South China Sea", Start: geo.Location{Latitude: 1.2, Longitude: 104.0}, End: geo.Location{Latitude: 22.3, Longitude: 114.2}, Traffic: 200},
	{Name: "East China Sea", Start: geo.Location{Latitude: 22.3, Longitude: 114.2}, End: geo.Location{Latitude: 35.1, Longitude: 129.0}, Traffic: 180},
	{Name: "Red Sea", Start: geo.Location{Latitude: 29.9, Longitude: 32.5}, End: geo.Location{Latitude: 12.6, Longitude: 43.3}, Traffic: 60},
	{Name: "Arabian Sea", Start: geo.Location{Latitude: 12.6, Longitude: 43.3}, End: geo.Location{Latitude: 6.0, Longitude: 80.0}, Traffic: 70},
	{Name: "Bay of Bengal", Start: geo.Location{Latitude: 6.0, Longitude: 80.0}, End: geo.Location{Latitude: 5.5, Longitude: 95.0}, Traffic: 80},
	{Name: "Persian Gulf", Start: geo.Location{Latitude: 26.5, Longitude: 56.3}, End: geo.Location{Latitude: 29.3, Longitude: 48.0}, Traffic: 90},
	{Name: "English Channel", Start: geo.Location{Latitude: 49.5, Longitude: -5.0}, End: geo.Location{Latitude: 51.0, Longitude: 1.5}, Traffic: 400},
	{Name: "North Sea", Start: geo.Location{Latitude: 51.0, Longitude: 1.5}, End: geo.Location{Latitude: 53.9, Longitude: 8.7}, Traffic: 250},
	{Name: "Mediterranean", Start: geo.Location{Latitude: 36.0, Longitude: -5.6}, End: geo.Location{Latitude: 31.3, Longitude: 32.3}, Traffic: 120},
	{Name: "North Atlantic", Start: geo.Location{Latitude: 49.5, Longitude: -5.0}, End: geo.Location{Latitude: 40.5, Longitude: -73.5}, Traffic: 60},
	{Name: "US East Coast", Start: geo.Location{Latitude: 40.5, Longitude: -73.5}, End: geo.Location{Latitude: 25.8, Longitude: -80.1}, Traffic: 70},
	{Name: "Caribbean", Start: geo.Location{Latitude: 25.8, Longitude: -80.1}, End: geo.Location{Latitude: 9.4, Longitude: -79.9}, Traffic: 60},
	{Name: "Pacific Coast Americas", Start: geo.Location{Latitude: 8.9, Longitude: -79.5}, End: geo.Location{Latitude: 33.7, Longitude: -118.3}, Traffic: 50},
	{Name: "North Pacific West", Start: geo.Location{Latitude: 35.1, Longitude: 129.0}, End: geo.Location{Latitude: 50.0, Longitude: 170.0}, Traffic: 80},
	{Name: "North Pacific East", Start: geo.Location{Latitude: 50.0, Longitude: 170.0}, End: geo.Location{Latitude: 47.6, Longitude: -122.3}, Traffic: 70},
	{Name: "Cape of Good Hope", Start: geo.Location{Latitude: -34.4, Longitude: 18.5}, End: geo.Location{Latitude: -29.9, Longitude: 31.0}, Traffic: 50},
	{Name: "South Atlantic", Start: geo.Location{Latitude: -23.9, Longitude: -46.3}, End: geo.Location{Latitude: -34.4, Longitude: 18.5}, Traffic: 25},
}

// MaritimeModelRangeKm is the furthest a site may be from a port or lane for
// the regional maritime model to apply
const MaritimeModelRangeKm = 3000.0

// MaritimeEstimate is the regional shipping model's view of a location
type MaritimeEstimate struct {
	NearestPort            Port
	PortDistanceKm         float64
	ShippingLaneDistanceKm float64
	VesselDensity          float64
}

// EstimateMaritime combines port throughput and shipping-lane proximity into a
// vessels-per-day density. ok is false when the site is out of the model's range.
func EstimateMaritime(loc geo.Location) (MaritimeEstimate, bool, error) {
	ports, err := geo.NearestN(loc, MajorPorts, 1)
	if err != nil {
		return MaritimeEstimate{}, false, err
	}

	laneDist := math.Inf(1)
	density := 0.0
	for _, lane := range ShippingLanes {
		d, err := geo.DistanceToLineSegment(loc, lane.Start, lane.End)
		if err != nil {
			return MaritimeEstimate{}, false, err
		}
		laneDist = math.Min(laneDist, d)
		density += lane.Traffic * math.Exp(-d/150)
	}

	for _, p := range MajorPorts {
		d := geo.MustDistance(loc, p.Location)
		density += p.ThroughputTEU * 10 * math.Exp(-d/200)
	}

	est := MaritimeEstimate{
		NearestPort:            ports[0].Item,
		PortDistanceKm:         ports[0].DistanceKm,
		ShippingLaneDistanceKm: laneDist,
		VesselDensity:          density,
	}
	ok := math.Min(est.PortDistanceKm, laneDist) <= MaritimeModelRangeKm
	return est, ok, nil
}

// Region is a coarse bounding box with a baseline infrastructure profile
type Region struct {
	Name             string
	MinLat, MaxLat   float64
	MinLon, MaxLon   float64
	BaseIndex        float64 // 0-100
	PowerReliability float64 // 0-1
	FiberPenetration float64 // 0-100
}

func (r Region) Contains(loc geo.Location) bool {
	return loc.Latitude >= r.MinLat && loc.Latitude <= r.MaxLat &&
		loc.Longitude >= r.MinLon && loc.Longitude <= r.MaxLon
}

// Regions are checked in order; the first match wins
var Regions = []Region{
	{Name: "Western Europe", MinLat: 35, MaxLat: 71, MinLon: -11, MaxLon: 30, BaseIndex: 88, PowerReliability: 0.99, FiberPenetration: 85},
	{Name: "North America", MinLat: 15, MaxLat: 72, MinLon: -170, MaxLon: -50, BaseIndex: 82, PowerReliability: 0.98, FiberPenetration: 78},
	{Name: "East Asia", MinLat: 18, MaxLat: 50, MinLon: 100, MaxLon: 146, BaseIndex: 80, PowerReliability: 0.97, FiberPenetration: 88},
	{Name: "Middle East", MinLat: 12, MaxLat: 42, MinLon: 34, MaxLon: 60, BaseIndex: 68, PowerReliability: 0.93, FiberPenetration: 60},
	{Name: "South Asia", MinLat: 5, MaxLat: 37, MinLon: 60, MaxLon: 92, BaseIndex: 55, PowerReliability: 0.85, FiberPenetration: 40},
	{Name: "Southeast Asia", MinLat: -11, MaxLat: 18, MinLon: 92, MaxLon: 141, BaseIndex: 62, PowerReliability: 0.90, FiberPenetration: 55},
	{Name: "Oceania", MinLat: -48, MaxLat: -10, MinLon: 110, MaxLon: 180, BaseIndex: 75, PowerReliability: 0.97, FiberPenetration: 70},
	{Name: "Latin America", MinLat: -56, MaxLat: 15, MinLon: -118, MaxLon: -34, BaseIndex: 52, PowerReliability: 0.88, FiberPenetration: 45},
	{Name: "Africa", MinLat: -35, MaxLat: 37, MinLon: -18, MaxLon: 52, BaseIndex: 40, PowerReliability: 0.75, FiberPenetration: 25},
	{Name: "Northern Eurasia", MinLat: 45, MaxLat: 78, MinLon: 30, MaxLon: 180, BaseIndex: 50, PowerReliability: 0.90, FiberPenetration: 45},
}

// RegionFor returns the first region containing loc
func RegionFor(loc geo.Location) (Region, bool) {
	for _, r := range Regions {
		if r.Contains(loc) {
			return r, true
		}
	}
	return Region{}, false
}
