package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dukerupert/techstore/internal/domain"
	"github.com/dukerupert/techstore/internal/storage"
	"github.com/dukerupert/techstore/internal/telemetry"
)

// orderRepository keeps the shared order list in memory and writes every
// change through to storage.KeyOrders. The in-memory list is authoritative.
type orderRepository struct {
	mu      sync.Mutex
	orders  []domain.Order
	persist persister
}

// NewOrderRepository loads the persisted orders from store.
func NewOrderRepository(ctx context.Context, store storage.Store, logger *slog.Logger, metrics *telemetry.BusinessMetrics) domain.OrderRepository {
	r := &orderRepository{persist: newPersister(store, logger, metrics)}

	var orders []domain.Order
	if r.persist.load(ctx, storage.KeyOrders, &orders) {
		r.orders = orders
	}
	return r
}

func (r *orderRepository) Append(ctx context.Context, order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders = append(r.orders, order.Clone())
	r.saveLocked(ctx)
	return nil
}

func (r *orderRepository) List(ctx context.Context) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Order, len(r.orders))
	for i, o := range r.orders {
		out[i] = o.Clone()
	}
	return out, nil
}

func (r *orderRepository) Update(ctx context.Context, orderID string, fn func(*domain.Order) error) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.orders {
		if r.orders[i].ID != orderID {
			continue
		}
		updated := r.orders[i].Clone()
		if err := fn(&updated); err != nil {
			return domain.Order{}, err
		}
		r.orders[i] = updated
		r.saveLocked(ctx)
		return updated.Clone(), nil
	}
	return domain.Order{}, domain.ErrOrderNotFound
}

func (r *orderRepository) DeleteWhere(ctx context.Context, match func(domain.Order) bool) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := make([]domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if !match(o) {
			kept = append(kept, o)
		}
	}
	removed := len(r.orders) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	r.orders = kept
	r.saveLocked(ctx)
	return removed, nil
}

func (r *orderRepository) saveLocked(ctx context.Context) {
	if r.orders == nil {
		r.persist.save(ctx, storage.KeyOrders, []domain.Order{})
		return
	}
	r.persist.save(ctx, storage.KeyOrders, r.orders)
}
