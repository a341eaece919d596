package route

import (
	"context"
	"math"

	"eld-trip-service/internal/model"
)

// Stop is one waypoint of the requested route.
type Stop struct {
	Label string
	Coord *model.Coordinates
}

// LegProvider is the contract for the routing collaborator: given ordered
// stops, return the legs between them. Geocoding, road routing and mileage
// live behind this interface and outside this service.
type LegProvider interface {
	Legs(ctx context.Context, stops []Stop) ([]model.RouteLeg, error)
}

// StaticProvider echoes pre-computed legs supplied by the caller, for
// requests that already carry routing output.
type StaticProvider struct {
	Precomputed []model.RouteLeg
}

func (p *StaticProvider) Legs(ctx context.Context, stops []Stop) ([]model.RouteLeg, error) {
	out := make([]model.RouteLeg, len(p.Precomputed))
	copy(out, p.Precomputed)
	return out, nil
}

const earthRadiusMiles = 3958.8

// AirMiles is the great-circle distance between two points in statute miles.
// The 150 air-mile short-haul radius is measured this way.
func AirMiles(a, b model.Coordinates) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMiles * math.Asin(math.Sqrt(h))
}
