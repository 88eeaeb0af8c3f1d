// README: Google Maps adapter providing driving distance between two coordinates.
package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"eats/internal/types"
)

// RouteService answers road-distance queries for the delivery-fee engine.
type RouteService struct {
	client *maps.Client
}

func NewRouteService(apiKey string) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client}, nil
}

// DistanceKm returns the driving distance in kilometres from origin to
// destination, first route, first leg.
func (s *RouteService) DistanceKm(ctx context.Context, origin, destination types.Point) (float64, error) {
	r := &maps.DirectionsRequest{
		Origin:      fmt.Sprintf("%f,%f", origin.Lat, origin.Lng),
		Destination: fmt.Sprintf("%f,%f", destination.Lat, destination.Lng),
		Mode:        maps.TravelModeDriving,
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return 0, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return 0, fmt.Errorf("no route found")
	}

	return float64(routes[0].Legs[0].Distance.Meters) / 1000.0, nil
}
