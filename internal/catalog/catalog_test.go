package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/techstore/internal/domain"
)

func ids(products []domain.Product) []int {
	out := make([]int, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func testCatalog() *Static {
	return New([]domain.Product{
		{ID: 1, Name: "Laptop Pro", Category: "laptop", Description: "fast", Price: 40_000_000, Rating: 4.9},
		{ID: 2, Name: "budget phone", Category: "smartphone", Description: "cheap and cheerful", Price: 3_000_000, Rating: 4.0},
		{ID: 3, Name: "Flagship Phone", Category: "smartphone", Description: "camera", Price: 30_000_000, Rating: 4.7},
		{ID: 4, Name: "Cable", Category: "accessory", Description: "USB-C laptop charger cable", Price: 250_000, Rating: 4.4},
		{ID: 1, Name: "Duplicate", Category: "laptop", Price: 1},
	})
}

func TestStatic_FindByID(t *testing.T) {
	c := testCatalog()
	ctx := context.Background()

	p, ok := c.FindByID(ctx, 1)
	require.True(t, ok)
	assert.Equal(t, "Laptop Pro", p.Name, "duplicate ids keep the first entry")

	_, ok = c.FindByID(ctx, 999)
	assert.False(t, ok)
}

func TestStatic_List(t *testing.T) {
	c := testCatalog()
	ctx := context.Background()

	tests := []struct {
		name   string
		filter domain.ProductFilter
		want   []int
	}{
		{"no filter keeps catalog order", domain.ProductFilter{}, []int{1, 2, 3, 4}},
		{"category", domain.ProductFilter{Category: "smartphone"}, []int{2, 3}},
		{"category all", domain.ProductFilter{Category: "all"}, []int{1, 2, 3, 4}},
		{"category is case insensitive", domain.ProductFilter{Category: "SmartPhone"}, []int{2, 3}},
		{"min price", domain.ProductFilter{MinPrice: 30_000_000}, []int{1, 3}},
		{"max price", domain.ProductFilter{MaxPrice: 3_000_000}, []int{2, 4}},
		{"search name", domain.ProductFilter{Search: "PHONE"}, []int{2, 3}},
		{"search description", domain.ProductFilter{Search: "laptop"}, []int{1, 4}},
		{"search category", domain.ProductFilter{Search: "accessory"}, []int{4}},
		{"price low", domain.ProductFilter{Sort: domain.SortPriceLow}, []int{4, 2, 3, 1}},
		{"price high", domain.ProductFilter{Sort: domain.SortPriceHigh}, []int{1, 3, 2, 4}},
		{"name", domain.ProductFilter{Sort: domain.SortName}, []int{2, 4, 3, 1}},
		{"rating", domain.ProductFilter{Sort: domain.SortRating}, []int{1, 3, 4, 2}},
		{"combined", domain.ProductFilter{Category: "smartphone", MaxPrice: 10_000_000, Sort: domain.SortPriceHigh}, []int{2}},
		{"no match", domain.ProductFilter{Search: "tractor"}, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(c.List(ctx, tt.filter)))
		})
	}
}

func TestStatic_Categories(t *testing.T) {
	assert.Equal(t, []string{"laptop", "smartphone", "accessory"}, testCatalog().Categories(context.Background()))
}

func TestDefault(t *testing.T) {
	c := Default()
	p, ok := c.FindByID(context.Background(), 1)
	require.True(t, ok)
	assert.Equal(t, int64(45_000_000), p.Price)

	for _, p := range c.List(context.Background(), domain.ProductFilter{}) {
		assert.NotEmpty(t, p.Name)
		assert.Positive(t, p.Price)
		assert.Equal(t, p.StockQuantity > 0, p.InStock, "product %d stock flags disagree", p.ID)
	}
}
