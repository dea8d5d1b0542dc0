package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// COUPON DOMAIN TYPES
// =============================================================================

// Coupon rejection errors. Apply checks them in the order listed.
var (
	ErrEmptyCouponCode = &Error{Code: EINVALID, Reason: ReasonEmptyCode, Message: "Please enter a coupon code"}
	ErrCouponEmptyCart = &Error{Code: EPRECONDITION, Reason: ReasonEmptyCart, Message: "Your cart is empty, a coupon cannot be applied"}
	ErrInvalidCoupon   = &Error{Code: ENOTFOUND, Reason: ReasonInvalidCoupon, Message: "The coupon code is invalid or has expired"}
	ErrBelowMinimum    = &Error{Code: EPRECONDITION, Reason: ReasonBelowMinimum, Message: "Order does not meet the coupon minimum"}
	ErrAlreadyApplied  = &Error{Code: ESATISFIED, Reason: ReasonAlreadyApplied, Message: "This coupon is already applied"}
)

// DiscountKind tags the two discount interpretations.
type DiscountKind int

const (
	DiscountPercentage DiscountKind = iota + 1
	DiscountFixed
)

func (k DiscountKind) String() string {
	switch k {
	case DiscountPercentage:
		return "percentage"
	case DiscountFixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// Discount is either a fraction of the subtotal or a fixed VND amount.
//
// Stored coupons use a single number: a value below 1 is a fraction, anything
// else is a fixed amount. MarshalJSON and UnmarshalJSON keep that encoding.
type Discount struct {
	Kind     DiscountKind
	Fraction decimal.Decimal
	Amount   int64
}

// Percentage builds a fractional discount, e.g. Percentage(decimal.RequireFromString("0.1")) for 10%.
func Percentage(fraction decimal.Decimal) Discount {
	return Discount{Kind: DiscountPercentage, Fraction: fraction}
}

// FixedAmount builds a discount of a fixed VND amount.
func FixedAmount(amount int64) Discount {
	return Discount{Kind: DiscountFixed, Amount: amount}
}

// Validate checks the variant invariants: a fraction in [0,1) or an amount of at least 1.
func (d Discount) Validate() error {
	switch d.Kind {
	case DiscountPercentage:
		if d.Fraction.IsNegative() || d.Fraction.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return fmt.Errorf("percentage discount %s outside [0,1)", d.Fraction)
		}
	case DiscountFixed:
		if d.Amount < 1 {
			return fmt.Errorf("fixed discount %d below 1", d.Amount)
		}
	default:
		return fmt.Errorf("unknown discount kind %d", d.Kind)
	}
	return nil
}

// MarshalJSON writes the single-number encoding.
func (d Discount) MarshalJSON() ([]byte, error) {
	if d.Kind == DiscountPercentage {
		return []byte(d.Fraction.String()), nil
	}
	return json.Marshal(d.Amount)
}

// UnmarshalJSON reads the single-number encoding.
func (d *Discount) UnmarshalJSON(b []byte) error {
	raw := string(bytes.Trim(b, `"`))
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("discount: %w", err)
	}
	if v.LessThan(decimal.NewFromInt(1)) {
		*d = Percentage(v)
	} else {
		*d = FixedAmount(v.IntPart())
	}
	return d.Validate()
}

// String renders the discount for display and logs.
func (d Discount) String() string {
	if d.Kind == DiscountPercentage {
		return d.Fraction.Shift(2).String() + "%"
	}
	return fmt.Sprintf("%d VND", d.Amount)
}

// Coupon is a static discount rule keyed by an uppercase code.
type Coupon struct {
	Code        string   `json:"code"`
	Discount    Discount `json:"discount"`
	MinOrder    int64    `json:"minOrder"`
	Description string   `json:"description"`
}

// CouponTable looks up coupons by normalized code.
type CouponTable interface {
	Lookup(code string) (Coupon, bool)
}

// CouponService validates and holds the single coupon applied to a session cart.
type CouponService interface {
	// Apply validates code against the cart and makes it the sole applied coupon.
	// ErrAlreadyApplied is informational; callers should treat it as success.
	Apply(ctx context.Context, code string) (Coupon, error)

	// Applied returns the active coupon, if any.
	Applied(ctx context.Context) (Coupon, bool)

	// Discount evaluates the applied coupon against subtotal. Zero without a coupon.
	Discount(ctx context.Context, subtotal int64) int64

	// ClearApplied removes the active coupon.
	ClearApplied(ctx context.Context)
}
