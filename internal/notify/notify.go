// Package notify delivers user-facing outcome messages.
//
// Services report outcomes through domain.Notifier without waiting on the
// result. The HTTP layer drains a per-session Outbox into each response.
package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dukerupert/techstore/internal/domain"
)

// maxOutbox bounds undrained notifications per session.
const maxOutbox = 20

// Outbox buffers notifications until the next response picks them up.
type Outbox struct {
	mu    sync.Mutex
	items []domain.Notification
}

// NewOutbox creates an empty outbox.
func NewOutbox() *Outbox {
	return &Outbox{}
}

// Notify implements domain.Notifier. The oldest message is dropped when full.
func (o *Outbox) Notify(_ context.Context, message string, kind domain.NotificationKind) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if len(o.items) >= maxOutbox {
		o.items = o.items[1:]
	}
	o.items = append(o.items, domain.Notification{Message: message, Kind: kind})
}

// Drain returns and clears the buffered notifications.
func (o *Outbox) Drain() []domain.Notification {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := o.items
	o.items = nil
	return out
}

// Logger writes notifications to slog at debug level.
type Logger struct {
	logger *slog.Logger
}

// NewLogger creates a notifier that logs every message.
func NewLogger(logger *slog.Logger) *Logger {
	return &Logger{logger: logger}
}

func (l *Logger) Notify(ctx context.Context, message string, kind domain.NotificationKind) {
	l.logger.DebugContext(ctx, "Notification",
		"kind", kind,
		"message", message,
		"session_id", domain.SessionIDFromContext(ctx),
	)
}

// Multi fans a notification out to several notifiers.
type Multi []domain.Notifier

func (m Multi) Notify(ctx context.Context, message string, kind domain.NotificationKind) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, message, kind)
		}
	}
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Notify(context.Context, string, domain.NotificationKind) {}
