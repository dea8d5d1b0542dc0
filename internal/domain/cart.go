package domain

import (
	"context"
)

// =============================================================================
// CART DOMAIN TYPES
// =============================================================================

// VariantSelection is the chosen value for each variant dimension.
// A nil field means the product offers no choice in that dimension.
type VariantSelection struct {
	Color        *string `json:"selectedColor"`
	Storage      *string `json:"selectedStorage"`
	Memory       *string `json:"selectedMemory"`
	Connectivity *string `json:"selectedConnectivity"`
}

// Equal reports whether both selections pick exactly the same values.
func (v VariantSelection) Equal(o VariantSelection) bool {
	return sameOption(v.Color, o.Color) &&
		sameOption(v.Storage, o.Storage) &&
		sameOption(v.Memory, o.Memory) &&
		sameOption(v.Connectivity, o.Connectivity)
}

// WithDefaults fills unset dimensions from def.
func (v VariantSelection) WithDefaults(def VariantSelection) VariantSelection {
	if v.Color == nil {
		v.Color = def.Color
	}
	if v.Storage == nil {
		v.Storage = def.Storage
	}
	if v.Memory == nil {
		v.Memory = def.Memory
	}
	if v.Connectivity == nil {
		v.Connectivity = def.Connectivity
	}
	return v
}

// Clone returns a selection that shares no pointers with v.
func (v VariantSelection) Clone() VariantSelection {
	return VariantSelection{
		Color:        cloneOption(v.Color),
		Storage:      cloneOption(v.Storage),
		Memory:       cloneOption(v.Memory),
		Connectivity: cloneOption(v.Connectivity),
	}
}

func sameOption(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func cloneOption(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// MaxLineQuantity caps the quantity of a single cart line.
const MaxLineQuantity = 99

// ClampQuantity bounds q to [1, MaxLineQuantity].
func ClampQuantity(q int) int {
	switch {
	case q < 1:
		return 1
	case q > MaxLineQuantity:
		return MaxLineQuantity
	}
	return q
}

// CartLine is one row of the cart. Name, image and price are captured when the
// line is created so later catalog changes do not reprice the cart.
type CartLine struct {
	ProductID int    `json:"id"`
	Name      string `json:"name"`
	Image     string `json:"image,omitempty"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	VariantSelection
}

// LineTotal is price times quantity.
func (l CartLine) LineTotal() int64 {
	return l.Price * int64(l.Quantity)
}

// Clone returns a deep copy of the line.
func (l CartLine) Clone() CartLine {
	c := l
	c.VariantSelection = l.VariantSelection.Clone()
	return c
}

// CloneLines deep-copies a slice of lines. A nil input yields an empty slice.
func CloneLines(lines []CartLine) []CartLine {
	out := make([]CartLine, len(lines))
	for i, l := range lines {
		out[i] = l.Clone()
	}
	return out
}

// CartSummary aggregates cart lines with calculated totals.
type CartSummary struct {
	Lines         []CartLine `json:"lines"`
	ItemCount     int        `json:"itemCount"`
	Subtotal      int64      `json:"subtotal"`
	Discount      int64      `json:"discount"`
	Total         int64      `json:"total"`
	AppliedCoupon *Coupon    `json:"appliedCoupon,omitempty"`
}

// CartService is the cart ledger of one storefront session.
type CartService interface {
	// Add puts quantity units of the product into the cart and reports whether
	// the product exists. Unknown ids leave the cart untouched. A quantity
	// below one is treated as one.
	Add(ctx context.Context, productID int, quantity int, sel VariantSelection) bool

	// Remove drops every line of the product regardless of variant.
	Remove(ctx context.Context, productID int)

	// UpdateQuantity adjusts the first line of the product by delta and removes
	// the product when the result is not positive.
	UpdateQuantity(ctx context.Context, productID int, delta int)

	// Subtotal sums price times quantity over all lines.
	Subtotal(ctx context.Context) int64

	// Lines returns a copy of the cart lines.
	Lines(ctx context.Context) []CartLine

	// ItemCount sums quantities over all lines.
	ItemCount(ctx context.Context) int

	// IsEmpty reports whether the cart has no lines.
	IsEmpty(ctx context.Context) bool

	// Clear empties the cart.
	Clear(ctx context.Context)
}
