// internal/geo/geo.go
// Great-circle math shared by venue queries and the match engine

package geo

import (
    "fmt"
    "math"
)

// EarthRadiusMeters is the mean Earth radius used for all distance math.
const EarthRadiusMeters = 6368000.0

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
    Lat float64 `json:"lat" db:"lat"`
    Lon float64 `json:"lon" db:"lon"`
}

// IsValidLatLon reports whether p is inside the valid coordinate ranges.
// Both bounds are inclusive.
func IsValidLatLon(p Point) bool {
    return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// Validate returns an error describing the first out-of-range coordinate.
func Validate(p Point) error {
    if p.Lat < -90 || p.Lat > 90 {
        return fmt.Errorf("latitude %v out of range [-90, 90]", p.Lat)
    }
    if p.Lon < -180 || p.Lon > 180 {
        return fmt.Errorf("longitude %v out of range [-180, 180]", p.Lon)
    }
    return nil
}

// Haversine returns the great-circle distance between a and b in meters.
// Symmetric: Haversine(a, b) == Haversine(b, a).
func Haversine(a, b Point) float64 {
    dLat := (b.Lat - a.Lat) * math.Pi / 180
    dLon := (b.Lon - a.Lon) * math.Pi / 180

    h := math.Sin(dLat/2)*math.Sin(dLat/2) +
        math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*
            math.Sin(dLon/2)*math.Sin(dLon/2)

    c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

    return EarthRadiusMeters * c
}

// Midpoint returns the arithmetic mean of each coordinate. This is a
// flat-plane approximation, not the geodesic midpoint; it is only
// meaningful over the short distances a date query cares about.
func Midpoint(a, b Point) Point {
    return Point{
        Lat: (a.Lat + b.Lat) / 2,
        Lon: (a.Lon + b.Lon) / 2,
    }
}
