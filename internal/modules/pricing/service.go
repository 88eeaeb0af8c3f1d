// README: Delivery-fee engine; distance times rate, floored to the rate, rounded up to a multiple of 5.
package pricing

import (
	"context"
	"errors"
	"math"

	"github.com/rs/zerolog"

	"eats/internal/types"
)

var (
	ErrBadCoordinates = errors.New("missing or invalid coordinates")
	ErrBadRate        = errors.New("rate per km must be positive")
)

// RouteDistancer is an optional road-distance provider (Google Maps in
// production). When it is absent or fails, the engine falls back to the
// great-circle distance.
type RouteDistancer interface {
	DistanceKm(ctx context.Context, origin, destination types.Point) (float64, error)
}

type Engine struct {
	routes RouteDistancer
	log    zerolog.Logger
}

func NewEngine(routes RouteDistancer, log zerolog.Logger) *Engine {
	return &Engine{routes: routes, log: log}
}

// Fee computes the delivery charge from the customer's location to the
// vendor's. The raw fee is distance-km times ratePerKm, never below
// ratePerKm (a trip is at least one unit charge), rounded up to the next
// multiple of 5 so customers are never undercharged by rounding.
func (e *Engine) Fee(ctx context.Context, customer, vendor types.Point, ratePerKm int64) (int64, error) {
	if ratePerKm <= 0 {
		return 0, ErrBadRate
	}
	if !customer.Valid() || !vendor.Valid() {
		return 0, ErrBadCoordinates
	}

	km := haversineKm(customer, vendor)
	if e.routes != nil {
		if d, err := e.routes.DistanceKm(ctx, customer, vendor); err == nil {
			km = d
		} else {
			e.log.Warn().Err(err).Msg("road distance lookup failed, using great-circle distance")
		}
	}

	raw := km * float64(ratePerKm)
	if raw < float64(ratePerKm) {
		raw = float64(ratePerKm)
	}
	return roundUpToMultiple(raw, 5), nil
}

func roundUpToMultiple(v float64, m int64) int64 {
	return int64(math.Ceil(v/float64(m))) * m
}
