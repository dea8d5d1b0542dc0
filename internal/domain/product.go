package domain

import (
	"context"
)

// =============================================================================
// PRODUCT DOMAIN TYPES
// =============================================================================

// Product is an immutable catalog entry. Prices are whole VND.
type Product struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Brand         string  `json:"brand,omitempty"`
	Description   string  `json:"description,omitempty"`
	Image         string  `json:"image,omitempty"`
	Price         int64   `json:"price"`
	OriginalPrice int64   `json:"originalPrice,omitempty"`
	Rating        float64 `json:"rating,omitempty"`
	StockQuantity int     `json:"stockQuantity"`
	InStock       bool    `json:"inStock"`

	// Variant dimensions. An empty or single-entry list means there is no real choice.
	Colors       []string `json:"colors,omitempty"`
	Storage      []string `json:"storage,omitempty"`
	Memory       []string `json:"memory,omitempty"`
	Connectivity []string `json:"connectivity,omitempty"`
}

// OnSale reports whether the product has a higher reference price to display.
func (p Product) OnSale() bool {
	return p.OriginalPrice > p.Price
}

// DefaultVariants returns the first entry of each dimension the product offers.
func (p Product) DefaultVariants() VariantSelection {
	return VariantSelection{
		Color:        firstOf(p.Colors),
		Storage:      firstOf(p.Storage),
		Memory:       firstOf(p.Memory),
		Connectivity: firstOf(p.Connectivity),
	}
}

func firstOf(options []string) *string {
	if len(options) == 0 {
		return nil
	}
	v := options[0]
	return &v
}

// ProductSort selects the ordering of a product listing.
type ProductSort string

const (
	SortDefault   ProductSort = "default"
	SortPriceLow  ProductSort = "price-low"
	SortPriceHigh ProductSort = "price-high"
	SortName      ProductSort = "name"
	SortRating    ProductSort = "rating"
)

// ProductFilter narrows a catalog listing. Zero values disable a criterion.
type ProductFilter struct {
	Category string
	MinPrice int64
	MaxPrice int64
	Search   string
	Sort     ProductSort
}

// Catalog is the read-only product source.
type Catalog interface {
	// FindByID returns the product or false when the id is unknown.
	FindByID(ctx context.Context, id int) (Product, bool)

	// List returns products matching the filter.
	List(ctx context.Context, filter ProductFilter) []Product

	// Categories returns the distinct categories in catalog order.
	Categories(ctx context.Context) []string
}

var (
	ErrProductNotFound = &Error{Code: ENOTFOUND, Message: "Product not found"}
	ErrOutOfStock      = &Error{Code: EPRECONDITION, Reason: ReasonOutOfStock, Message: "This product is out of stock"}
)
