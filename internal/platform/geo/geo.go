// Package geo provides great-circle distance and travel-time estimation for
// matching and transfer planning.
package geo

import "math"

// EarthRadiusKm is the mean spherical Earth radius used by the haversine
// formula.
const EarthRadiusKm = 6371.0

// DefaultSpeedKmh is the assumed average ground transport speed.
const DefaultSpeedKmh = 60.0

// DistanceKm returns the great-circle distance in kilometers between two
// coordinates using the haversine formula.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// TravelHours estimates travel time for a distance at the given average
// speed. A non-positive speed falls back to DefaultSpeedKmh.
func TravelHours(distanceKm, speedKmh float64) float64 {
	if speedKmh <= 0 {
		speedKmh = DefaultSpeedKmh
	}
	return distanceKm / speedKmh
}

// Reachable reports whether an estimated travel time beats the remaining
// viability window. The comparison is strict: arriving exactly at the
// deadline is not reachable.
func Reachable(travelHours, remainingHours float64) bool {
	return travelHours < remainingHours
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
