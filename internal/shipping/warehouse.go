package shipping

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/dukerupert/techstore/internal/domain"
)

// courierSpeedKmh is the average urban courier speed used for ETAs.
const courierSpeedKmh = 25.0

// handlingMinutes covers pickup and drop-off.
const handlingMinutes = 15

// Warehouse is the dispatch point orders ship from.
type Warehouse struct {
	location orb.Point
}

// NewWarehouse places the warehouse at lat/lng.
func NewWarehouse(lat, lng float64) Warehouse {
	return Warehouse{location: orb.Point{lng, lat}}
}

// Coordinates returns the warehouse location.
func (w Warehouse) Coordinates() domain.Coordinates {
	return domain.Coordinates{Lat: w.location.Lat(), Lng: w.location.Lon()}
}

// DistanceKm is the great-circle distance from the warehouse to c.
func (w Warehouse) DistanceKm(c domain.Coordinates) float64 {
	return geo.Distance(w.location, orb.Point{c.Lng, c.Lat}) / 1000
}

// ETA estimates the remaining travel time for an order in the given status.
func ETA(status domain.OrderStatus, distanceKm float64) string {
	switch status {
	case domain.OrderStatusDelivered:
		return "Delivered"
	case domain.OrderStatusCancelled:
		return ""
	}

	minutes := int(math.Ceil(distanceKm*60/courierSpeedKmh)) + handlingMinutes
	if minutes < 60 {
		return fmt.Sprintf("about %d min", minutes)
	}
	return fmt.Sprintf("about %dh %02dmin", minutes/60, minutes%60)
}
