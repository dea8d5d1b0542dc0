package address

import (
	"context"
	"strings"
	"unicode/utf8"
)

// MaxAddressLength bounds a delivery address in characters.
const MaxAddressLength = 300

// BasicValidator performs basic format validation without external API calls.
type BasicValidator struct{}

// NewBasicValidator creates a new basic address validator.
func NewBasicValidator() *BasicValidator {
	return &BasicValidator{}
}

// Validate collapses whitespace and checks that something is left.
func (v *BasicValidator) Validate(ctx context.Context, addr string) (*ValidationResult, error) {
	normalized := strings.Join(strings.Fields(addr), " ")
	result := &ValidationResult{NormalizedAddress: normalized}

	switch {
	case normalized == "":
		result.Errors = append(result.Errors, ValidationError{Field: "deliveryAddress", Message: "Delivery address is required"})
	case utf8.RuneCountInString(normalized) > MaxAddressLength:
		result.Errors = append(result.Errors, ValidationError{Field: "deliveryAddress", Message: "Delivery address is too long"})
	}

	result.IsValid = len(result.Errors) == 0
	return result, nil
}
