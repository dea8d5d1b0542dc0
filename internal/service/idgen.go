package service

import (
	"fmt"
	"sync"
	"time"
)

// OrderIDs issues "DH" + epoch-millisecond order ids. Two orders placed in the
// same millisecond get consecutive ids rather than a collision.
type OrderIDs struct {
	mu   sync.Mutex
	last int64
}

// NewOrderIDs creates an order id generator.
func NewOrderIDs() *OrderIDs {
	return &OrderIDs{}
}

// NewOrderID implements domain.IDGenerator.
func (g *OrderIDs) NewOrderID(now time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := now.UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return fmt.Sprintf("DH%d", ms)
}
