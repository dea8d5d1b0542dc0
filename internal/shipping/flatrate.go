package shipping

import (
	"context"

	"github.com/dukerupert/techstore/internal/domain"
)

// FlatRateProvider returns predefined flat-rate shipping options.
type FlatRateProvider struct {
	rates []FlatRate
}

// FlatRate defines a single flat-rate shipping option.
type FlatRate struct {
	Method   domain.ShippingMethod
	Name     string
	Fee      int64
	Estimate string
	MinHours int
	MaxHours int
}

// DefaultRates are the storefront's three delivery tiers.
func DefaultRates() []FlatRate {
	return []FlatRate{
		{Method: domain.ShippingStandard, Name: "Standard delivery", Fee: 0, Estimate: "2-3 days", MinHours: 48, MaxHours: 72},
		{Method: domain.ShippingExpress, Name: "Express delivery", Fee: 50000, Estimate: "1-2 days", MinHours: 24, MaxHours: 48},
		{Method: domain.ShippingSameDay, Name: "Same-day delivery", Fee: 100000, Estimate: "4-6 hours", MinHours: 4, MaxHours: 6},
	}
}

// NewFlatRateProvider creates a new flat-rate shipping provider.
func NewFlatRateProvider(rates []FlatRate) *FlatRateProvider {
	cp := make([]FlatRate, len(rates))
	copy(cp, rates)
	return &FlatRateProvider{rates: cp}
}

// Rates converts flat rates to Rate values.
func (p *FlatRateProvider) Rates(ctx context.Context) []Rate {
	result := make([]Rate, len(p.rates))
	for i, fr := range p.rates {
		result[i] = fr.rate()
	}
	return result
}

// Rate looks a single tier up by method.
func (p *FlatRateProvider) Rate(ctx context.Context, method domain.ShippingMethod) (Rate, error) {
	for _, fr := range p.rates {
		if fr.Method == method {
			return fr.rate(), nil
		}
	}
	return Rate{}, ErrUnknownMethod
}

func (fr FlatRate) rate() Rate {
	return Rate{
		Method:   fr.Method,
		Name:     fr.Name,
		Fee:      fr.Fee,
		Estimate: fr.Estimate,
		MinHours: fr.MinHours,
		MaxHours: fr.MaxHours,
	}
}
