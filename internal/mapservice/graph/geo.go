package graph

import "math"

const earthRadiusMeters = 6371008.8

// haversine returns the great-circle distance in meters.
func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := math.Pi / 180
	dLat := (lat2 - lat1) * toRad
	dLon := (lon2 - lon1) * toRad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*toRad)*math.Cos(lat2*toRad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(a)))
}

// Speeds in km/h per highway class.
var highwaySpeeds = map[string]float64{
	"motorway":       90,
	"motorway_link":  60,
	"trunk":          70,
	"trunk_link":     50,
	"primary":        60,
	"primary_link":   45,
	"secondary":      50,
	"secondary_link": 40,
	"tertiary":       40,
	"tertiary_link":  30,
	"residential":    30,
	"unclassified":   30,
	"living_street":  10,
	"service":        15,
	"pedestrian":     5,
	"footway":        5,
	"path":           5,
	"steps":          3,
}

const (
	defaultSpeed = 30.0
	maxSpeed     = 90.0
)

func speedFor(highway string) float64 {
	if s, ok := highwaySpeeds[highway]; ok {
		return s
	}
	return defaultSpeed
}

// travelSeconds converts a distance to seconds at kmh.
func travelSeconds(meters, kmh float64) float64 {
	return meters / (kmh / 3.6)
}
