// Package catalog serves the read-only product list.
package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/dukerupert/techstore/internal/domain"
)

// Static is an in-memory catalog loaded once at startup.
type Static struct {
	products []domain.Product
	byID     map[int]int
}

// New builds a catalog from products. Later entries with a duplicate id are dropped.
func New(products []domain.Product) *Static {
	c := &Static{byID: make(map[int]int, len(products))}
	for _, p := range products {
		if _, dup := c.byID[p.ID]; dup {
			continue
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c
}

// Default returns the storefront catalog.
func Default() *Static {
	return New(seedProducts())
}

// FindByID implements domain.Catalog.
func (c *Static) FindByID(_ context.Context, id int) (domain.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return c.products[i], true
}

// List implements domain.Catalog.
func (c *Static) List(_ context.Context, f domain.ProductFilter) []domain.Product {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	category := strings.ToLower(strings.TrimSpace(f.Category))

	out := make([]domain.Product, 0, len(c.products))
	for _, p := range c.products {
		if category != "" && category != "all" && strings.ToLower(p.Category) != category {
			continue
		}
		if f.MinPrice > 0 && p.Price < f.MinPrice {
			continue
		}
		if f.MaxPrice > 0 && p.Price > f.MaxPrice {
			continue
		}
		if search != "" && !matches(p, search) {
			continue
		}
		out = append(out, p)
	}

	switch f.Sort {
	case domain.SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case domain.SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case domain.SortName:
		sort.SliceStable(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	case domain.SortRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	}
	return out
}

// Categories implements domain.Catalog.
func (c *Static) Categories(_ context.Context) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range c.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

func matches(p domain.Product, term string) bool {
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term) ||
		strings.Contains(strings.ToLower(p.Category), term)
}
