package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukerupert/techstore/internal/address"
	"github.com/dukerupert/techstore/internal/domain"
	"github.com/dukerupert/techstore/internal/notify"
	"github.com/dukerupert/techstore/internal/shipping"
	"github.com/dukerupert/techstore/internal/telemetry"
)

// OrderDeps are the collaborators of the order service.
type OrderDeps struct {
	Orders         domain.OrderRepository
	Geocoder       address.Geocoder
	Warehouse      shipping.Warehouse
	GeocodeTimeout time.Duration
	Events         domain.EventPublisher
	Notifier       domain.Notifier
	Clock          domain.Clock
	Logger         *slog.Logger
	Metrics        *telemetry.BusinessMetrics
}

type orderService struct {
	OrderDeps
	logger *slog.Logger
}

// NewOrderService creates an order service. Geocoder may be nil, in which case
// tracking works only for orders placed with coordinates.
func NewOrderService(deps OrderDeps) domain.OrderService {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Clock == nil {
		deps.Clock = domain.SystemClock{}
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.Discard{}
	}
	if deps.GeocodeTimeout <= 0 {
		deps.GeocodeTimeout = 5 * time.Second
	}
	return &orderService{
		OrderDeps: deps,
		logger:    deps.Logger.With("service", "order"),
	}
}

func (s *orderService) ListForUser(ctx context.Context, userID string) ([]domain.Order, error) {
	all, err := s.Orders.List(ctx)
	if err != nil {
		return nil, domain.Internal(err, "order.list", "Could not load orders")
	}
	out := make([]domain.Order, 0)
	for _, o := range all {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *orderService) Get(ctx context.Context, orderID, userID string) (domain.Order, error) {
	all, err := s.Orders.List(ctx)
	if err != nil {
		return domain.Order{}, domain.Internal(err, "order.get", "Could not load orders")
	}
	for _, o := range all {
		if o.ID == orderID && o.UserID == userID {
			return o, nil
		}
	}
	return domain.Order{}, domain.ErrOrderNotFound.WithOp("order.get")
}

// Cancel moves an owned, non-terminal order to cancelled.
func (s *orderService) Cancel(ctx context.Context, orderID, userID string) (domain.Order, error) {
	const op = "order.cancel"

	var from domain.OrderStatus
	order, err := s.Orders.Update(ctx, orderID, func(o *domain.Order) error {
		if o.UserID != userID {
			return domain.ErrOrderNotFound.WithOp(op)
		}
		if !o.Status.CanTransition(domain.OrderStatusCancelled) {
			return domain.ErrNotCancellable.WithOp(op)
		}
		from = o.Status
		o.Status = domain.OrderStatusCancelled
		return nil
	})
	if err != nil {
		s.Notifier.Notify(ctx, domain.ErrorMessage(err), domain.NotifyError)
		return domain.Order{}, err
	}

	s.Metrics.RecordOrderCancelled(string(from))
	s.logger.InfoContext(ctx, "order cancelled", "order_id", orderID, "user_id", userID, "from_status", from)
	s.publish(ctx, domain.OrderCancelled, order)
	s.Notifier.Notify(ctx, fmt.Sprintf("Order %s has been cancelled", orderID), domain.NotifySuccess)
	return order, nil
}

// Delete removes an owned order. Orders of other users are left untouched.
func (s *orderService) Delete(ctx context.Context, orderID, userID string) error {
	return s.DeleteMany(ctx, []string{orderID}, userID)
}

func (s *orderService) DeleteMany(ctx context.Context, orderIDs []string, userID string) error {
	wanted := make(map[string]struct{}, len(orderIDs))
	for _, id := range orderIDs {
		wanted[id] = struct{}{}
	}

	var deleted []domain.Order
	n, err := s.Orders.DeleteWhere(ctx, func(o domain.Order) bool {
		_, ok := wanted[o.ID]
		if ok && o.UserID == userID {
			deleted = append(deleted, o)
			return true
		}
		return false
	})
	if err != nil {
		return domain.Internal(err, "order.delete", "Could not delete orders")
	}
	if n == 0 {
		return nil
	}

	s.Metrics.RecordOrdersDeleted(n)
	s.logger.InfoContext(ctx, "orders deleted", "user_id", userID, "count", n)
	for _, o := range deleted {
		s.publish(ctx, domain.OrderDeleted, o)
	}
	if n == 1 {
		s.Notifier.Notify(ctx, fmt.Sprintf("Order %s has been deleted", deleted[0].ID), domain.NotifySuccess)
	} else {
		s.Notifier.Notify(ctx, fmt.Sprintf("%d orders have been deleted", n), domain.NotifySuccess)
	}
	return nil
}

// AdvanceStatus moves an order to its fulfilment successor.
func (s *orderService) AdvanceStatus(ctx context.Context, orderID string) (domain.Order, error) {
	const op = "order.advance"

	order, err := s.Orders.Update(ctx, orderID, func(o *domain.Order) error {
		next, ok := o.Status.Next()
		if !ok {
			return domain.ErrTerminalStatus.WithOp(op)
		}
		o.Status = next
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.Metrics.RecordOrderStatus(string(order.Status))
	s.logger.InfoContext(ctx, "order status changed", "order_id", orderID, "status", order.Status)
	s.publish(ctx, domain.OrderStatusChanged, order)
	return order, nil
}

var trackedStatuses = []domain.OrderStatus{
	domain.OrderStatusPending,
	domain.OrderStatusShipped,
	domain.OrderStatusDelivered,
}

// Track reports progress and delivery distance. Orders without coordinates
// are geocoded once and the result is saved back to the order; a failed
// lookup leaves the distance unknown.
func (s *orderService) Track(ctx context.Context, orderID, userID string) (domain.Tracking, error) {
	order, err := s.Get(ctx, orderID, userID)
	if err != nil {
		s.Notifier.Notify(ctx, domain.ErrorMessage(err), domain.NotifyError)
		return domain.Tracking{}, err
	}

	if order.DeliveryCoordinates == nil && order.DeliveryAddress != "" && s.Geocoder != nil {
		if coords := s.geocode(ctx, order.DeliveryAddress); coords != nil {
			updated, err := s.Orders.Update(ctx, order.ID, func(o *domain.Order) error {
				o.DeliveryCoordinates = coords
				return nil
			})
			if err == nil {
				order = updated
			} else {
				order.DeliveryCoordinates = coords
			}
		} else {
			s.Notifier.Notify(ctx, "Could not find coordinates for the delivery address", domain.NotifyWarning)
		}
	}

	t := domain.Tracking{
		Order:     order,
		Timeline:  timeline(order.Status),
		Warehouse: s.Warehouse.Coordinates(),
	}
	if order.DeliveryCoordinates != nil {
		d := s.Warehouse.DistanceKm(*order.DeliveryCoordinates)
		t.DistanceKm = &d
		t.ETA = shipping.ETA(order.Status, d)
	}
	return t, nil
}

func (s *orderService) geocode(ctx context.Context, addr string) *domain.Coordinates {
	ctx, cancel := context.WithTimeout(ctx, s.GeocodeTimeout)
	defer cancel()

	coords, err := s.Geocoder.Geocode(ctx, addr)
	if err != nil {
		s.logger.WarnContext(ctx, "geocoding failed", "error", err)
		return nil
	}
	return coords
}

func timeline(status domain.OrderStatus) []domain.TrackingStep {
	reached := 0
	switch status {
	case domain.OrderStatusShipped:
		reached = 1
	case domain.OrderStatusDelivered:
		reached = 2
	}

	steps := make([]domain.TrackingStep, 0, len(trackedStatuses)+1)
	for i, st := range trackedStatuses {
		steps = append(steps, domain.TrackingStep{
			Status:  st,
			Label:   st.Label(),
			Reached: i <= reached,
			Current: st == status,
		})
	}
	if status == domain.OrderStatusCancelled {
		steps = append(steps, domain.TrackingStep{
			Status:  domain.OrderStatusCancelled,
			Label:   domain.OrderStatusCancelled.Label(),
			Reached: true,
			Current: true,
		})
	}
	return steps
}

func (s *orderService) publish(ctx context.Context, typ domain.OrderEventType, order domain.Order) {
	if s.Events == nil {
		return
	}
	err := s.Events.PublishOrderEvent(ctx, domain.OrderEvent{
		Type:       typ,
		OrderID:    order.ID,
		UserID:     order.UserID,
		Status:     order.Status,
		Total:      order.Total,
		OccurredAt: s.Clock.Now(),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to publish order event", "order_id", order.ID, "type", typ, "error", err)
	}
}
