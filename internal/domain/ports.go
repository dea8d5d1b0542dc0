package domain

import (
	"context"
	"time"
)

// NotificationKind classifies a user-facing message.
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyInfo    NotificationKind = "info"
	NotifyWarning NotificationKind = "warning"
	NotifyError   NotificationKind = "error"
)

// Notification is a message for the customer.
type Notification struct {
	Message string           `json:"message"`
	Kind    NotificationKind `json:"kind"`
}

// Notifier delivers user-facing outcomes. It is fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, message string, kind NotificationKind)
}

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// IDGenerator produces order ids.
type IDGenerator interface {
	NewOrderID(now time.Time) string
}

// OrderEventType names an order lifecycle event.
type OrderEventType string

const (
	OrderPlaced        OrderEventType = "order.placed"
	OrderCancelled     OrderEventType = "order.cancelled"
	OrderStatusChanged OrderEventType = "order.status_changed"
	OrderDeleted       OrderEventType = "order.deleted"
)

// OrderEvent is published after an order changes.
type OrderEvent struct {
	Type       OrderEventType `json:"type"`
	OrderID    string         `json:"orderId"`
	UserID     string         `json:"userId"`
	Status     OrderStatus    `json:"status,omitempty"`
	Total      int64          `json:"total,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// EventPublisher broadcasts order events to other systems.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event OrderEvent) error
}
