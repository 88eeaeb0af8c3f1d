package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"eats/internal/types"
)

// fixedDistancer always reports the same road distance, or fails.
type fixedDistancer struct {
	km  float64
	err error
}

func (f fixedDistancer) DistanceKm(ctx context.Context, origin, destination types.Point) (float64, error) {
	return f.km, f.err
}

func TestEngine_Fee(t *testing.T) {
	origin := types.Point{Lat: -1.2864, Lng: 36.8172}

	tests := []struct {
		name    string
		km      float64
		rate    int64
		wantFee int64
	}{
		{
			// 2.0km * 45 = 90, already a multiple of 5.
			name: "exact multiple", km: 2.0, rate: 45, wantFee: 90,
		},
		{
			// 2.1km * 45 = 94.5 -> 95.
			name: "rounds up to next multiple of 5", km: 2.1, rate: 45, wantFee: 95,
		},
		{
			// 0.1km * 45 = 4.5, floored to the rate, 45 is a multiple of 5.
			name: "short trip floors to rate", km: 0.1, rate: 45, wantFee: 45,
		},
		{
			// Floor applies first, then rounding: rate 42 -> 45.
			name: "floored rate still rounds up", km: 0.0, rate: 42, wantFee: 45,
		},
		{
			// 10km * 7 = 70.
			name: "custom rate", km: 10.0, rate: 7, wantFee: 70,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(fixedDistancer{km: tt.km}, zerolog.Nop())
			got, err := e.Fee(context.Background(), origin, types.Point{Lat: -1.30, Lng: 36.80}, tt.rate)
			if err != nil {
				t.Fatalf("Fee() error = %v", err)
			}
			if got != tt.wantFee {
				t.Errorf("Fee() = %d, want %d", got, tt.wantFee)
			}
		})
	}
}

func TestEngine_Fee_BadInput(t *testing.T) {
	e := NewEngine(nil, zerolog.Nop())
	valid := types.Point{Lat: -1.29, Lng: 36.82}

	if _, err := e.Fee(context.Background(), types.Point{}, valid, 45); err != ErrBadCoordinates {
		t.Errorf("zero customer point: err = %v, want ErrBadCoordinates", err)
	}
	if _, err := e.Fee(context.Background(), valid, types.Point{Lat: 91, Lng: 0}, 45); err != ErrBadCoordinates {
		t.Errorf("out-of-range vendor point: err = %v, want ErrBadCoordinates", err)
	}
	if _, err := e.Fee(context.Background(), valid, valid, 0); err != ErrBadRate {
		t.Errorf("zero rate: err = %v, want ErrBadRate", err)
	}
	if _, err := e.Fee(context.Background(), valid, valid, -5); err != ErrBadRate {
		t.Errorf("negative rate: err = %v, want ErrBadRate", err)
	}
}

func TestEngine_Fee_RouteFallback(t *testing.T) {
	a := types.Point{Lat: -1.2864, Lng: 36.8172}
	b := types.Point{Lat: -1.2635, Lng: 36.8029}

	// With no distancer the engine uses the great-circle distance.
	base := NewEngine(nil, zerolog.Nop())
	want, err := base.Fee(context.Background(), a, b, 45)
	if err != nil {
		t.Fatalf("Fee() error = %v", err)
	}

	// A failing distancer must fall back to the same result.
	failing := NewEngine(fixedDistancer{err: errors.New("maps unavailable")}, zerolog.Nop())
	got, err := failing.Fee(context.Background(), a, b, 45)
	if err != nil {
		t.Fatalf("Fee() error = %v", err)
	}
	if got != want {
		t.Errorf("fallback fee = %d, want %d", got, want)
	}

	// A working distancer overrides the great-circle distance.
	road := NewEngine(fixedDistancer{km: 100}, zerolog.Nop())
	got, err = road.Fee(context.Background(), a, b, 45)
	if err != nil {
		t.Fatalf("Fee() error = %v", err)
	}
	if got != 4500 {
		t.Errorf("road fee = %d, want 4500", got)
	}
}

func TestRoundUpToMultiple(t *testing.T) {
	tests := []struct {
		v    float64
		m    int64
		want int64
	}{
		{44.9, 5, 45},
		{45.0, 5, 45},
		{45.1, 5, 50},
		{0, 5, 0},
		{1, 5, 5},
	}
	for _, tt := range tests {
		if got := roundUpToMultiple(tt.v, tt.m); got != tt.want {
			t.Errorf("roundUpToMultiple(%v, %d) = %d, want %d", tt.v, tt.m, got, tt.want)
		}
	}
}
