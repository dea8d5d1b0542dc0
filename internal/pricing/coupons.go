package pricing

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/techstore/internal/domain"
)

// Table is an immutable coupon lookup keyed by normalized code.
type Table struct {
	byCode map[string]domain.Coupon
}

// NewTable builds a table from coupons. Codes are normalized; invalid
// discounts are skipped.
func NewTable(coupons ...domain.Coupon) *Table {
	t := &Table{byCode: make(map[string]domain.Coupon, len(coupons))}
	for _, c := range coupons {
		if c.Discount.Validate() != nil {
			continue
		}
		c.Code = NormalizeCode(c.Code)
		t.byCode[c.Code] = c
	}
	return t
}

// Lookup implements domain.CouponTable.
func (t *Table) Lookup(code string) (domain.Coupon, bool) {
	c, ok := t.byCode[NormalizeCode(code)]
	return c, ok
}

// All returns the coupons sorted by minimum order.
func (t *Table) All() []domain.Coupon {
	out := make([]domain.Coupon, 0, len(t.byCode))
	for _, c := range t.byCode {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MinOrder == out[j].MinOrder {
			return out[i].Code < out[j].Code
		}
		return out[i].MinOrder < out[j].MinOrder
	})
	return out
}

// DefaultTable is the storefront's promotion list.
func DefaultTable() *Table {
	return NewTable(
		domain.Coupon{
			Code:        "WELCOME10",
			Discount:    domain.Percentage(decimal.RequireFromString("0.1")),
			MinOrder:    1_000_000,
			Description: "10% off for new customers",
		},
		domain.Coupon{
			Code:        "SAVE50K",
			Discount:    domain.FixedAmount(50_000),
			MinOrder:    2_000_000,
			Description: "50,000 VND off orders from 2,000,000 VND",
		},
		domain.Coupon{
			Code:        "SAVE100K",
			Discount:    domain.FixedAmount(100_000),
			MinOrder:    5_000_000,
			Description: "100,000 VND off orders from 5,000,000 VND",
		},
		domain.Coupon{
			Code:        "VIP20",
			Discount:    domain.Percentage(decimal.RequireFromString("0.2")),
			MinOrder:    10_000_000,
			Description: "20% off for VIP orders",
		},
		domain.Coupon{
			Code:        "FREESHIP",
			Discount:    domain.FixedAmount(50_000),
			MinOrder:    500_000,
			Description: "Free express shipping",
		},
	)
}
