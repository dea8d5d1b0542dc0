// Package postgres provides the PostgreSQL implementation of the storage port.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dukerupert/techstore/internal/storage"
)

// querier is the subset of *pgxpool.Pool used by KVStore.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// KVStore implements storage.Store on the kv_documents table.
type KVStore struct {
	db querier
}

// Compile-time check that KVStore implements storage.Store.
var _ storage.Store = (*KVStore)(nil)

// NewKVStore creates a PostgreSQL-backed store. The schema is created by the
// goose migrations in package migrations.
func NewKVStore(pool *pgxpool.Pool) *KVStore {
	return &KVStore{db: pool}
}

const (
	getDocumentSQL    = `SELECT value FROM kv_documents WHERE key = $1`
	upsertDocumentSQL = `INSERT INTO kv_documents (key, value) VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
	deleteDocumentSQL = `DELETE FROM kv_documents WHERE key = $1`
)

// Get returns the stored JSON document for key.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(ctx, getDocumentSQL, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrKeyNotFound(key)
		}
		return nil, fmt.Errorf("failed to get document %s: %w", key, err)
	}
	return value, nil
}

// Put upserts the JSON document for key.
func (s *KVStore) Put(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return storage.ErrEmptyKey
	}
	if _, err := s.db.Exec(ctx, upsertDocumentSQL, key, value); err != nil {
		return fmt.Errorf("failed to save document %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.Exec(ctx, deleteDocumentSQL, key); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", key, err)
	}
	return nil
}
