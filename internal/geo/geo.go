// Package geo provides great-circle distance math for proximity
// filtering and sorting.
package geo

import "math"

const earthRadiusKm = 6371

// NearbyRadiusKm is the fixed radius for "people nearby" queries.
const NearbyRadiusKm = 50

// Distance returns the Haversine great-circle distance in kilometers
// between two points given in degrees.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}
