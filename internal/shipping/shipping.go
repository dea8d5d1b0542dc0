// Package shipping prices delivery tiers and measures delivery distance.
package shipping

import (
	"context"

	"github.com/dukerupert/techstore/internal/domain"
)

// Provider defines the interface for shipping rate lookups.
type Provider interface {
	// Rates returns every available delivery tier, cheapest first.
	Rates(ctx context.Context) []Rate

	// Rate returns the tier for a shipping method.
	// Unknown methods return ErrUnknownMethod.
	Rate(ctx context.Context, method domain.ShippingMethod) (Rate, error)
}

// Rate represents a shipping rate option.
type Rate struct {
	Method   domain.ShippingMethod `json:"method"`
	Name     string                `json:"name"`
	Fee      int64                 `json:"fee"`
	Estimate string                `json:"estimate"`
	MinHours int                   `json:"minHours"`
	MaxHours int                   `json:"maxHours"`
}
