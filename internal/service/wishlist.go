package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dukerupert/techstore/internal/domain"
	"github.com/dukerupert/techstore/internal/notify"
	"github.com/dukerupert/techstore/internal/storage"
	"github.com/dukerupert/techstore/internal/telemetry"
)

// productList is an ordered set of product snapshots persisted under one key.
type productList struct {
	key     string
	items   []domain.Product
	persist persister
}

func loadProductList(ctx context.Context, key string, p persister) *productList {
	l := &productList{key: key, persist: p}
	var items []domain.Product
	if p.load(ctx, key, &items) {
		l.items = items
	}
	return l
}

func (l *productList) index(id int) int {
	for i, p := range l.items {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (l *productList) add(ctx context.Context, p domain.Product) {
	l.items = append(l.items, p)
	l.save(ctx)
}

func (l *productList) removeAt(ctx context.Context, i int) {
	l.items = append(l.items[:i], l.items[i+1:]...)
	l.save(ctx)
}

func (l *productList) clear(ctx context.Context) {
	l.items = nil
	l.save(ctx)
}

func (l *productList) snapshot() []domain.Product {
	out := make([]domain.Product, len(l.items))
	copy(out, l.items)
	return out
}

func (l *productList) save(ctx context.Context) {
	l.persist.save(ctx, l.key, l.snapshot())
}

type wishlistService struct {
	list     *productList
	catalog  domain.Catalog
	notifier domain.Notifier
	metrics  *telemetry.BusinessMetrics
}

// NewWishlistService restores the session wishlist from store.
func NewWishlistService(ctx context.Context, store storage.Store, catalog domain.Catalog, notifier domain.Notifier, logger *slog.Logger, metrics *telemetry.BusinessMetrics) domain.WishlistService {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &wishlistService{
		list:     loadProductList(ctx, storage.KeyWishlist, newPersister(store, logger, metrics)),
		catalog:  catalog,
		notifier: notifier,
		metrics:  metrics,
	}
}

func (s *wishlistService) Toggle(ctx context.Context, productID int) (bool, error) {
	if i := s.list.index(productID); i >= 0 {
		name := s.list.items[i].Name
		s.list.removeAt(ctx, i)
		s.metrics.RecordWishlistToggle("remove")
		s.notifier.Notify(ctx, fmt.Sprintf("Removed %s from your wishlist", name), domain.NotifyInfo)
		return false, nil
	}

	product, ok := s.catalog.FindByID(ctx, productID)
	if !ok {
		return false, domain.ErrProductNotFound.WithOp("wishlist.toggle")
	}
	s.list.add(ctx, product)
	s.metrics.RecordWishlistToggle("add")
	s.notifier.Notify(ctx, fmt.Sprintf("Added %s to your wishlist", product.Name), domain.NotifySuccess)
	return true, nil
}

func (s *wishlistService) Contains(ctx context.Context, productID int) bool {
	return s.list.index(productID) >= 0
}

func (s *wishlistService) Items(ctx context.Context) []domain.Product {
	return s.list.snapshot()
}

func (s *wishlistService) Clear(ctx context.Context) {
	s.list.clear(ctx)
}

type compareService struct {
	list     *productList
	catalog  domain.Catalog
	notifier domain.Notifier
	metrics  *telemetry.BusinessMetrics
}

// NewCompareService restores the session compare list from store.
func NewCompareService(ctx context.Context, store storage.Store, catalog domain.Catalog, notifier domain.Notifier, logger *slog.Logger, metrics *telemetry.BusinessMetrics) domain.CompareService {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &compareService{
		list:     loadProductList(ctx, storage.KeyCompareList, newPersister(store, logger, metrics)),
		catalog:  catalog,
		notifier: notifier,
		metrics:  metrics,
	}
}

func (s *compareService) Toggle(ctx context.Context, productID int) (bool, error) {
	if i := s.list.index(productID); i >= 0 {
		s.list.removeAt(ctx, i)
		s.metrics.RecordCompareToggle("remove")
		return false, nil
	}

	product, ok := s.catalog.FindByID(ctx, productID)
	if !ok {
		return false, domain.ErrProductNotFound.WithOp("compare.toggle")
	}
	if len(s.list.items) >= domain.MaxCompareItems {
		s.metrics.RecordCompareToggle("full")
		s.notifier.Notify(ctx, domain.ErrCompareFull.Message, domain.NotifyWarning)
		return false, domain.ErrCompareFull.WithOp("compare.toggle")
	}
	s.list.add(ctx, product)
	s.metrics.RecordCompareToggle("add")
	s.notifier.Notify(ctx, fmt.Sprintf("Added %s to compare", product.Name), domain.NotifySuccess)
	return true, nil
}

func (s *compareService) Items(ctx context.Context) []domain.Product {
	return s.list.snapshot()
}

func (s *compareService) Clear(ctx context.Context) {
	s.list.clear(ctx)
}
