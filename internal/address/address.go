// Package address validates delivery addresses and resolves them to coordinates.
package address

import (
	"context"

	"github.com/dukerupert/techstore/internal/domain"
)

// Validator defines the interface for delivery address validation.
type Validator interface {
	// Validate checks a free-text delivery address.
	// Even if IsValid is false, NormalizedAddress may contain corrections.
	Validate(ctx context.Context, addr string) (*ValidationResult, error)
}

// Geocoder resolves a free-text address to coordinates.
type Geocoder interface {
	// Geocode returns nil coordinates, and no error, when nothing matched.
	Geocode(ctx context.Context, addr string) (*domain.Coordinates, error)
}

// ValidationResult contains the outcome of address validation.
type ValidationResult struct {
	IsValid           bool
	NormalizedAddress string
	Errors            []ValidationError
}

// ValidationError represents a specific validation error.
type ValidationError struct {
	Field   string
	Message string
}
