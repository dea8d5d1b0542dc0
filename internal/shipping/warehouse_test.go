package shipping_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dukerupert/techstore/internal/domain"
	"github.com/dukerupert/techstore/internal/shipping"
)

func TestWarehouse_DistanceKm(t *testing.T) {
	w := shipping.NewWarehouse(10.772726, 106.698804)

	assert.InDelta(t, 0, w.DistanceKm(w.Coordinates()), 1e-9)

	// Tan Son Nhat airport is roughly 6-7 km north-west of District 1.
	d := w.DistanceKm(domain.Coordinates{Lat: 10.8185, Lng: 106.6588})
	assert.InDelta(t, 6.7, d, 1.0)

	// Hanoi is a bit over 1,100 km away.
	d = w.DistanceKm(domain.Coordinates{Lat: 21.0278, Lng: 105.8342})
	assert.InDelta(t, 1140, d, 40)
}

func TestWarehouse_Coordinates(t *testing.T) {
	c := shipping.NewWarehouse(10.5, 106.25).Coordinates()
	assert.Equal(t, domain.Coordinates{Lat: 10.5, Lng: 106.25}, c)
}

func TestETA(t *testing.T) {
	tests := []struct {
		name     string
		status   domain.OrderStatus
		distance float64
		want     string
	}{
		{"short hop", domain.OrderStatusShipped, 5, "about 27 min"},
		{"zero distance", domain.OrderStatusPending, 0, "about 15 min"},
		{"long haul", domain.OrderStatusShipped, 100, "about 4h 15min"},
		{"delivered", domain.OrderStatusDelivered, 100, "Delivered"},
		{"cancelled", domain.OrderStatusCancelled, 100, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shipping.ETA(tt.status, tt.distance))
		})
	}
}
