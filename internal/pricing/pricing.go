// Package pricing holds the coupon table and the money arithmetic shared by
// the cart view, checkout quotes and order completion.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/techstore/internal/domain"
)

// NormalizeCode trims and uppercases a coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Subtotal sums price times quantity using the prices captured on the lines.
func Subtotal(lines []domain.CartLine) int64 {
	var sum int64
	for _, l := range lines {
		sum += l.LineTotal()
	}
	return sum
}

// ComputeDiscount evaluates a coupon against subtotal. Percentages are rounded
// half-up to the whole VND; fixed amounts are returned verbatim.
func ComputeDiscount(subtotal int64, coupon domain.Coupon) int64 {
	switch coupon.Discount.Kind {
	case domain.DiscountPercentage:
		return decimal.NewFromInt(subtotal).Mul(coupon.Discount.Fraction).Round(0).IntPart()
	case domain.DiscountFixed:
		return coupon.Discount.Amount
	default:
		return 0
	}
}

// ComputeTotal is subtotal - discount + shippingFee, never below zero.
func ComputeTotal(subtotal, discount, shippingFee int64) int64 {
	total := subtotal - discount + shippingFee
	if total < 0 {
		return 0
	}
	return total
}

// Eligible reports whether subtotal meets the coupon minimum.
func Eligible(subtotal int64, coupon domain.Coupon) bool {
	return subtotal >= coupon.MinOrder
}
