// Package geo snaps coordinates to a privacy grid and measures great-circle
// distances the same way the feed query does in SQL.
package geo

import (
	"errors"
	"math"
)

const (
	// MetersPerDegreeLat is the length of one degree of latitude used for the grid.
	MetersPerDegreeLat = 111320.0

	// EarthRadiusKm is the sphere radius of the haversine predicate.
	EarthRadiusKm = 6371.0
)

var ErrInvalidCoordinate = errors.New("geo: coordinate out of range")

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
		return ErrInvalidCoordinate
	}
	return nil
}

// Snap rounds a coordinate to the nearest node of a grid whose cells are
// gridMeters wide. The longitude step widens with latitude so cells keep
// their ground size; it is taken at the snapped latitude so every point of a
// grid row shares one step. gridMeters <= 0 disables snapping.
func Snap(p Point, gridMeters float64) Point {
	if gridMeters <= 0 || math.IsNaN(gridMeters) {
		return p
	}
	lat := roundTo(p.Lat, gridMeters/MetersPerDegreeLat)
	cos := math.Cos(radians(lat))
	if cos < 1e-12 {
		// At a pole every longitude is the same place.
		return Point{Lat: lat, Lng: 0}
	}
	lngStep := gridMeters / (MetersPerDegreeLat * cos)
	return Point{Lat: lat, Lng: roundTo(p.Lng, lngStep)}
}

func roundTo(v, step float64) float64 {
	return math.Round(v/step) * step
}

// DistanceKm is the spherical law of cosines form used by the feed query:
// R * acos(cos(lat1)cos(lat2)cos(lng2-lng1) + sin(lat1)sin(lat2)).
func DistanceKm(a, b Point) float64 {
	lat1, lat2 := radians(a.Lat), radians(b.Lat)
	dLng := radians(b.Lng - a.Lng)
	c := math.Cos(lat1)*math.Cos(lat2)*math.Cos(dLng) + math.Sin(lat1)*math.Sin(lat2)
	// Rounding can push identical points just past 1.
	c = math.Max(-1, math.Min(1, c))
	return EarthRadiusKm * math.Acos(c)
}

// Box is an inclusive lat/lng rectangle.
type Box struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// BoundingBox returns a rectangle that contains every point within radiusKm
// of center. It is a prefilter only; the exact distance test still applies.
// Near the poles or across the antimeridian the longitude range opens up to
// the whole circle.
func BoundingBox(center Point, radiusKm float64) Box {
	if radiusKm < 0 {
		radiusKm = 0
	}
	angular := radiusKm / EarthRadiusKm
	dLat := angular * 180 / math.Pi

	box := Box{
		MinLat: math.Max(-90, center.Lat-dLat),
		MaxLat: math.Min(90, center.Lat+dLat),
		MinLng: -180,
		MaxLng: 180,
	}
	if box.MinLat <= -90 || box.MaxLat >= 90 {
		return box
	}

	sinAng := math.Sin(angular)
	cosLat := math.Cos(radians(center.Lat))
	if angular >= math.Pi/2 || sinAng >= cosLat {
		return box
	}
	dLng := math.Asin(sinAng/cosLat) * 180 / math.Pi
	minLng, maxLng := center.Lng-dLng, center.Lng+dLng
	if minLng < -180 || maxLng > 180 {
		return box
	}
	box.MinLng, box.MaxLng = minLng, maxLng
	return box
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
