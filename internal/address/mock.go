package address

import (
	"context"

	"github.com/dukerupert/techstore/internal/domain"
)

// MockGeocoder is a test implementation of Geocoder.
type MockGeocoder struct {
	GeocodeFunc func(ctx context.Context, addr string) (*domain.Coordinates, error)
	Calls       []string
}

// NewMockGeocoder returns a geocoder that resolves every address to coords.
// A nil coords makes every lookup miss.
func NewMockGeocoder(coords *domain.Coordinates) *MockGeocoder {
	return &MockGeocoder{
		GeocodeFunc: func(context.Context, string) (*domain.Coordinates, error) {
			if coords == nil {
				return nil, nil
			}
			c := *coords
			return &c, nil
		},
	}
}

// Geocode delegates to the configured function.
func (m *MockGeocoder) Geocode(ctx context.Context, addr string) (*domain.Coordinates, error) {
	m.Calls = append(m.Calls, addr)
	if m.GeocodeFunc == nil {
		return nil, nil
	}
	return m.GeocodeFunc(ctx, addr)
}
