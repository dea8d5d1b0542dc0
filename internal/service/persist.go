package service

import (
	"context"
	"log/slog"

	"github.com/dukerupert/techstore/internal/storage"
	"github.com/dukerupert/techstore/internal/telemetry"
)

// persister writes service state through to a Store. In-memory state stays
// authoritative: failures are logged, reported and counted, never returned.
type persister struct {
	store   storage.Store
	logger  *slog.Logger
	metrics *telemetry.BusinessMetrics
}

func newPersister(store storage.Store, logger *slog.Logger, metrics *telemetry.BusinessMetrics) persister {
	if logger == nil {
		logger = slog.Default()
	}
	return persister{store: store, logger: logger, metrics: metrics}
}

// load decodes key into v and reports whether a value was found. Corrupt or
// unreadable data is reported and treated as absent.
func (p persister) load(ctx context.Context, key string, v any) bool {
	if p.store == nil {
		return false
	}
	found, err := storage.GetJSON(ctx, p.store, key, v)
	if err != nil {
		p.fail(ctx, "load", key, err)
		return false
	}
	return found
}

func (p persister) save(ctx context.Context, key string, v any) {
	if p.store == nil {
		return
	}
	if err := storage.PutJSON(ctx, p.store, key, v); err != nil {
		p.fail(ctx, "save", key, err)
	}
}

func (p persister) remove(ctx context.Context, key string) {
	if p.store == nil {
		return
	}
	if err := p.store.Delete(ctx, key); err != nil {
		p.fail(ctx, "delete", key, err)
	}
}

func (p persister) fail(ctx context.Context, op, key string, err error) {
	p.logger.ErrorContext(ctx, "persistence failed",
		"op", op,
		"key", key,
		"error", err,
	)
	telemetry.CaptureErrorFromContext(ctx, err, map[string]interface{}{"op": op, "key": key})
	p.metrics.RecordPersistenceFailure(key)
}
