package route

import (
	"context"
	"fmt"
	"math"

	"eld-trip-service/internal/model"
)

// Estimator derives route legs from stop coordinates: great-circle distance
// inflated by a road-curvature factor, duration at a flat average speed.
// It stands in for a real routing API behind the LegProvider port.
type Estimator struct {
	AverageSpeedMph float64
	RoadFactor      float64
}

func NewEstimator() *Estimator {
	return &Estimator{
		AverageSpeedMph: 55,
		RoadFactor:      1.2,
	}
}

func (e *Estimator) Legs(ctx context.Context, stops []Stop) ([]model.RouteLeg, error) {
	if len(stops) < 2 {
		return nil, fmt.Errorf("estimate legs: need at least 2 stops, got %d", len(stops))
	}

	legs := make([]model.RouteLeg, 0, len(stops)-1)
	for i := 0; i < len(stops)-1; i++ {
		from, to := stops[i], stops[i+1]
		if from.Coord == nil || to.Coord == nil {
			return nil, fmt.Errorf("estimate legs: missing coordinates for leg %q -> %q", from.Label, to.Label)
		}

		miles := AirMiles(*from.Coord, *to.Coord) * e.RoadFactor
		// Round to a tenth of a mile so repeated requests serialize identically.
		miles = math.Round(miles*10) / 10
		if miles <= 0 {
			return nil, fmt.Errorf("estimate legs: zero-length leg %q -> %q", from.Label, to.Label)
		}

		legs = append(legs, model.RouteLeg{
			DistanceMiles:  miles,
			EstimatedHours: math.Round(miles/e.AverageSpeedMph*100) / 100,
			StartLabel:     from.Label,
			EndLabel:       to.Label,
			StartCoord:     from.Coord,
			EndCoord:       to.Coord,
		})
	}
	return legs, nil
}
