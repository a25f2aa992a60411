package geo

import (
	"fmt"
	"math"
	"sort"
)

// EarthRadiusKm is the mean Earth radius used for all distance calculations
const EarthRadiusKm = 6371.0

// Location is a WGS84 coordinate in degrees
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// GetLocation lets a bare Location be used wherever a Located is expected
func (l Location) GetLocation() Location {
	return l
}

// Validate rejects NaN, infinite and out of range coordinates
func (l Location) Validate() error {
	return ValidateCoordinates(l.Latitude, l.Longitude)
}

func (l Location) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", l.Latitude, l.Longitude)
}

// Located is anything with a position on the globe
type Located interface {
	GetLocation() Location
}

// InvalidCoordinateError is returned when a latitude or longitude is unusable
type InvalidCoordinateError struct {
	Field string
	Value float64
}

func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Value)
}

// NewInvalidCoordinateError creates a new invalid coordinate error
func NewInvalidCoordinateError(field string, value float64) *InvalidCoordinateError {
	return &InvalidCoordinateError{
		Field: field,
		Value: value,
	}
}

// ValidateCoordinates checks lat ∈ [-90,90] and lon ∈ [-180,180]
func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || lat < -90 || lat > 90 {
		return NewInvalidCoordinateError("latitude", lat)
	}
	if math.IsNaN(lon) || math.IsInf(lon, 0) || lon < -180 || lon > 180 {
		return NewInvalidCoordinateError("longitude", lon)
	}
	return nil
}

// HaversineDistance returns the great circle distance in km between two points
func HaversineDistance(lat1, lon1, lat2, lon2 float64) (float64, error) {
	if err := ValidateCoordinates(lat1, lon1); err != nil {
		return 0, err
	}
	if err := ValidateCoordinates(lat2, lon2); err != nil {
		return 0, err
	}
	return haversine(lat1, lon1, lat2, lon2), nil
}

// Distance is HaversineDistance for two Locations
func Distance(a, b Location) (float64, error) {
	return HaversineDistance(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// MustDistance is Distance for coordinates that were already validated
func MustDistance(a, b Location) float64 {
	return haversine(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// DistanceToLineSegment returns the distance in km from point to the segment
// start-end. The segment is projected onto a local equirectangular plane
// centred on point, so it is only accurate for segments of a few thousand km.
func DistanceToLineSegment(point, start, end Location) (float64, error) {
	for _, l := range []Location{point, start, end} {
		if err := l.Validate(); err != nil {
			return 0, err
		}
	}

	cosLat := math.Cos(toRadians(point.Latitude))
	if cosLat < 1e-9 {
		// At the poles the projection degenerates; fall back to the endpoints.
		return math.Min(MustDistance(point, start), MustDistance(point, end)), nil
	}

	ax, ay := project(point, start, cosLat)
	bx, by := project(point, end, cosLat)

	dx, dy := bx-ax, by-ay
	lengthSq := dx*dx + dy*dy

	t := 0.0
	if lengthSq > 0 {
		t = -(ax*dx + ay*dy) / lengthSq
		t = math.Max(0, math.Min(1, t))
	}

	px := ax + t*dx
	py := ay + t*dy

	closest := Location{
		Latitude:  clampLat(point.Latitude + toDegrees(py/EarthRadiusKm)),
		Longitude: normalizeLon(point.Longitude + toDegrees(px/(EarthRadiusKm*cosLat))),
	}
	return MustDistance(point, closest), nil
}

func project(origin, l Location, cosLat float64) (float64, float64) {
	dLon := normalizeLon(l.Longitude - origin.Longitude)
	x := toRadians(dLon) * cosLat * EarthRadiusKm
	y := toRadians(l.Latitude-origin.Latitude) * EarthRadiusKm
	return x, y
}

// Ranked pairs a candidate with its distance from a query point
type Ranked[T any] struct {
	Item       T       `json:"item"`
	DistanceKm float64 `json:"distanceKm"`
}

// NearestN returns up to n candidates sorted by ascending distance from point.
// The candidates slice is not modified.
func NearestN[T Located](point Location, candidates []T, n int) ([]Ranked[T], error) {
	ranked, err := rank(point, candidates)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		n = 0
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n], nil
}

// WithinRadius returns every candidate whose distance is <= radiusKm, nearest first
func WithinRadius[T Located](point Location, candidates []T, radiusKm float64) ([]Ranked[T], error) {
	ranked, err := rank(point, candidates)
	if err != nil {
		return nil, err
	}
	idx := sort.Search(len(ranked), func(i int) bool {
		return ranked[i].DistanceKm > radiusKm
	})
	return ranked[:idx], nil
}

func rank[T Located](point Location, candidates []T) ([]Ranked[T], error) {
	if err := point.Validate(); err != nil {
		return nil, err
	}

	ranked := make([]Ranked[T], 0, len(candidates))
	for _, c := range candidates {
		d, err := Distance(point, c.GetLocation())
		if err != nil {
			return nil, fmt.Errorf("candidate at %s: %w", c.GetLocation(), err)
		}
		ranked = append(ranked, Ranked[T]{Item: c, DistanceKm: d})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})
	return ranked, nil
}

func normalizeLon(lon float64) float64 {
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}

func clampLat(lat float64) float64 {
	return math.Max(-90, math.Min(90, lat))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
