package places

import (
	"math"

	"github.com/ayursutra/wellness-portal/internal/domain/entities"
)

const earthRadiusMeters = 6371000.0

// distanceMeters returns the great-circle distance between two points (Haversine)
func distanceMeters(from, to entities.LatLng) float64 {
	lat1 := toRadians(from.Lat)
	lat2 := toRadians(to.Lat)
	deltaLat := toRadians(to.Lat - from.Lat)
	deltaLng := toRadians(to.Lng - from.Lng)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// boundsRadiusMeters approximates a viewport by the circle through its corners
func boundsRadiusMeters(b entities.Bounds) int {
	radius := distanceMeters(b.Center(), b.NorthEast)
	switch {
	case radius < 1:
		return 1
	case radius > maxSearchRadiusMeters:
		return maxSearchRadiusMeters
	}
	return int(math.Round(radius))
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
