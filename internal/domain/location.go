package domain

import "math"

const earthRadiusKm = 6371

func (l Location) Valid() bool {
	return l.Lat >= -90 && l.Lat <= 90 && l.Lng >= -180 && l.Lng <= 180 &&
		!math.IsNaN(l.Lat) && !math.IsNaN(l.Lng)
}

// DistanceKm is the haversine distance between two points.
func DistanceKm(a, b Location) float64 {
	dLat := (b.Lat - a.Lat) * (math.Pi / 180.0)
	dLon := (b.Lng - a.Lng) * (math.Pi / 180.0)
	lat1Rad := a.Lat * (math.Pi / 180.0)
	lat2Rad := b.Lat * (math.Pi / 180.0)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}
