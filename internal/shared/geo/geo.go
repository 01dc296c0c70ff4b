package geo

import (
	"math"
	"strconv"
)

const earthRadiusKm = 6371.0

// Coord is a WGS84 latitude/longitude pair.
type Coord struct {
	Lat float64
	Lng float64
}

// HaversineKm returns the great-circle distance in kilometers between two points.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// MetersBetween returns the great-circle distance in meters between two coordinates.
func MetersBetween(a, b Coord) float64 {
	return HaversineKm(a.Lat, a.Lng, b.Lat, b.Lng) * 1000
}

// ParseCoord parses latitude/longitude query strings leniently. Missing or
// unparseable values yield nil, never an error: a request without a usable
// coordinate degrades to the no-location code path.
func ParseCoord(latStr, lngStr string) *Coord {
	if latStr == "" || lngStr == "" {
		return nil
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return nil
	}
	return &Coord{Lat: lat, Lng: lng}
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
