package service

import (
	"context"
	"log/slog"

	"github.com/dukerupert/techstore/internal/domain"
	"github.com/dukerupert/techstore/internal/pricing"
	"github.com/dukerupert/techstore/internal/storage"
	"github.com/dukerupert/techstore/internal/telemetry"
)

type cartService struct {
	lines   []domain.CartLine
	catalog domain.Catalog
	persist persister
	logger  *slog.Logger
	metrics *telemetry.BusinessMetrics
}

// NewCartService restores the session cart from store and returns its ledger.
// store is the session-scoped store; lines are kept under storage.KeyCart.
func NewCartService(ctx context.Context, store storage.Store, catalog domain.Catalog, logger *slog.Logger, metrics *telemetry.BusinessMetrics) domain.CartService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &cartService{
		catalog: catalog,
		persist: newPersister(store, logger, metrics),
		logger:  logger.With("service", "cart"),
		metrics: metrics,
	}

	var lines []domain.CartLine
	if s.persist.load(ctx, storage.KeyCart, &lines) {
		s.lines = sanitizeLines(lines)
	}
	return s
}

// sanitizeLines drops or clamps rows a hand-edited or older store could carry.
func sanitizeLines(lines []domain.CartLine) []domain.CartLine {
	out := lines[:0]
	for _, l := range lines {
		if l.Quantity > 0 {
			l.Quantity = domain.ClampQuantity(l.Quantity)
			out = append(out, l)
		}
	}
	return out
}

func (s *cartService) Add(ctx context.Context, productID int, quantity int, sel domain.VariantSelection) bool {
	product, ok := s.catalog.FindByID(ctx, productID)
	if !ok {
		s.logger.DebugContext(ctx, "add ignored, unknown product", "product_id", productID)
		return false
	}
	quantity = domain.ClampQuantity(quantity)

	sel = sel.WithDefaults(product.DefaultVariants()).Clone()

	merged := false
	for i := range s.lines {
		if s.lines[i].ProductID == productID && s.lines[i].VariantSelection.Equal(sel) {
			s.lines[i].Quantity = domain.ClampQuantity(s.lines[i].Quantity + quantity)
			merged = true
			break
		}
	}
	if !merged {
		s.lines = append(s.lines, domain.CartLine{
			ProductID:        product.ID,
			Name:             product.Name,
			Image:            product.Image,
			Price:            product.Price,
			Quantity:         quantity,
			VariantSelection: sel,
		})
	}

	s.metrics.RecordCartAdd(productID, quantity)
	s.save(ctx)
	return true
}

func (s *cartService) Remove(ctx context.Context, productID int) {
	kept := s.lines[:0]
	removed := false
	for _, l := range s.lines {
		if l.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, l)
	}
	s.lines = kept
	if !removed {
		return
	}

	s.metrics.RecordCartUpdate("remove")
	s.save(ctx)
}

func (s *cartService) UpdateQuantity(ctx context.Context, productID int, delta int) {
	for i := range s.lines {
		if s.lines[i].ProductID != productID {
			continue
		}
		q := s.lines[i].Quantity
		// Compare against the bounds before adding so an extreme delta cannot wrap.
		switch {
		case delta <= -q:
			s.Remove(ctx, productID)
			return
		case delta >= domain.MaxLineQuantity-q:
			s.lines[i].Quantity = domain.MaxLineQuantity
		default:
			s.lines[i].Quantity = q + delta
		}
		s.metrics.RecordCartUpdate("quantity")
		s.save(ctx)
		return
	}
}

func (s *cartService) Subtotal(ctx context.Context) int64 {
	return pricing.Subtotal(s.lines)
}

func (s *cartService) Lines(ctx context.Context) []domain.CartLine {
	return domain.CloneLines(s.lines)
}

func (s *cartService) ItemCount(ctx context.Context) int {
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

func (s *cartService) IsEmpty(ctx context.Context) bool {
	return len(s.lines) == 0
}

func (s *cartService) Clear(ctx context.Context) {
	s.lines = nil
	s.metrics.RecordCartCleared("clear")
	s.save(ctx)
}

func (s *cartService) save(ctx context.Context) {
	s.persist.save(ctx, storage.KeyCart, domain.CloneLines(s.lines))
}
