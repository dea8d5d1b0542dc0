// Package events publishes order lifecycle events.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/dukerupert/techstore/internal/domain"
	"github.com/dukerupert/techstore/internal/telemetry"
)

// conn is the subset of *nats.Conn used by the publisher.
type conn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

// NATSPublisher implements domain.EventPublisher on core NATS subjects.
// Subjects are "<prefix>.order.placed", "<prefix>.order.cancelled", etc.
type NATSPublisher struct {
	nc      conn
	prefix  string
	logger  *slog.Logger
	metrics *telemetry.BusinessMetrics
}

// Config holds NATS connection settings.
type Config struct {
	URL           string
	SubjectPrefix string
	ClientName    string
}

// Connect dials NATS and returns a publisher. The connection reconnects on its own.
func Connect(cfg Config, logger *slog.Logger, metrics *telemetry.BusinessMetrics) (*NATSPublisher, error) {
	nc, err := nats.Connect(cfg.URL,
		nats.Name(cfg.ClientName),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return newNATSPublisher(nc, cfg.SubjectPrefix, logger, metrics), nil
}

func newNATSPublisher(nc conn, prefix string, logger *slog.Logger, metrics *telemetry.BusinessMetrics) *NATSPublisher {
	return &NATSPublisher{
		nc:      nc,
		prefix:  strings.Trim(prefix, "."),
		logger:  logger,
		metrics: metrics,
	}
}

// Subject returns the NATS subject for an event type.
func (p *NATSPublisher) Subject(t domain.OrderEventType) string {
	if p.prefix == "" {
		return string(t)
	}
	return p.prefix + "." + string(t)
}

// PublishOrderEvent implements domain.EventPublisher.
func (p *NATSPublisher) PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	if err := p.nc.Publish(p.Subject(event.Type), data); err != nil {
		p.metrics.RecordEvent(string(event.Type), false)
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}

	p.metrics.RecordEvent(string(event.Type), true)
	p.logger.DebugContext(ctx, "Published order event",
		"type", event.Type,
		"order_id", event.OrderID,
	)
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.nc.Drain()
}

// Noop discards events. Used when NATS is not configured.
type Noop struct{}

func (Noop) PublishOrderEvent(context.Context, domain.OrderEvent) error { return nil }
