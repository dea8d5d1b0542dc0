package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/techstore/internal/domain"
)

func TestComputeDiscount(t *testing.T) {
	tenPercent := domain.Coupon{Code: "P10", Discount: domain.Percentage(decimal.RequireFromString("0.1"))}
	fixed := domain.Coupon{Code: "F50", Discount: domain.FixedAmount(50_000)}

	tests := []struct {
		name     string
		subtotal int64
		coupon   domain.Coupon
		want     int64
	}{
		{"ten percent of one million", 1_000_000, tenPercent, 100_000},
		{"ten percent of 45 million", 45_000_000, tenPercent, 4_500_000},
		{"percentage rounds half up", 15, tenPercent, 2},
		{"percentage rounds down below half", 14, tenPercent, 1},
		{"fixed ignores subtotal", 3_000_000, fixed, 50_000},
		{"fixed on large subtotal", 90_000_000, fixed, 50_000},
		{"zero kind yields nothing", 1_000_000, domain.Coupon{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeDiscount(tt.subtotal, tt.coupon))
		})
	}
}

func TestComputeTotal(t *testing.T) {
	assert.Equal(t, int64(40_550_000), ComputeTotal(45_000_000, 4_500_000, 50_000))
	assert.Equal(t, int64(1_000_000), ComputeTotal(1_000_000, 0, 0))
	assert.Equal(t, int64(0), ComputeTotal(30_000, 50_000, 0), "total is clamped at zero")
	assert.Equal(t, int64(0), ComputeTotal(0, 0, 0))
}

func TestSubtotal(t *testing.T) {
	lines := []domain.CartLine{
		{ProductID: 1, Price: 45_000_000, Quantity: 1},
		{ProductID: 2, Price: 250_000, Quantity: 3},
	}
	assert.Equal(t, int64(45_750_000), Subtotal(lines))
	assert.Equal(t, int64(0), Subtotal(nil))
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "WELCOME10", NormalizeCode("  welcome10 "))
	assert.Equal(t, "", NormalizeCode("   "))
}

func TestTable_Lookup(t *testing.T) {
	table := DefaultTable()

	c, ok := table.Lookup("welcome10")
	require.True(t, ok)
	assert.Equal(t, "WELCOME10", c.Code)
	assert.Equal(t, domain.DiscountPercentage, c.Discount.Kind)
	assert.Equal(t, int64(1_000_000), c.MinOrder)

	c, ok = table.Lookup("SAVE50K")
	require.True(t, ok)
	assert.Equal(t, domain.FixedAmount(50_000), c.Discount)
	assert.Equal(t, int64(2_000_000), c.MinOrder)

	_, ok = table.Lookup("NOPE")
	assert.False(t, ok)
}

func TestNewTable_SkipsInvalidDiscounts(t *testing.T) {
	table := NewTable(
		domain.Coupon{Code: "bad", Discount: domain.FixedAmount(0)},
		domain.Coupon{Code: "good", Discount: domain.FixedAmount(10)},
	)
	_, ok := table.Lookup("BAD")
	assert.False(t, ok)
	_, ok = table.Lookup("GOOD")
	assert.True(t, ok)
}

func TestTable_All(t *testing.T) {
	all := DefaultTable().All()
	require.Len(t, all, 5)
	assert.Equal(t, "FREESHIP", all[0].Code)
	assert.Equal(t, "VIP20", all[len(all)-1].Code)
}

func TestEligible(t *testing.T) {
	save50k, _ := DefaultTable().Lookup("SAVE50K")
	assert.False(t, Eligible(400_000, save50k))
	assert.True(t, Eligible(2_000_000, save50k))
}
