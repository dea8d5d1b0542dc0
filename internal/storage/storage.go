package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dukerupert/techstore/internal"
)

// Well-known keys. They match the browser storage layout of the original storefront.
const (
	KeyCart        = "cart"
	KeyWishlist    = "wishlist"
	KeyCompareList = "compareList"
	KeyOrders      = "orders"
	KeyUsers       = "users"
	KeyCurrentUser = "currentUser"
)

// Store is a durable key/value port. Values are opaque JSON documents.
// Implementations can use memory, the local filesystem, S3 or PostgreSQL.
type Store interface {
	// Get returns the value stored under key.
	// Returns an error matching IsNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key.
	// Returns nil if the key doesn't exist (idempotent).
	Delete(ctx context.Context, key string) error
}

// NewStore creates a Store implementation based on configuration.
// Returns MemoryStore for "memory", LocalStore for "local", S3Store for "s3".
// The "postgres" provider lives in package postgres and is wired by the caller.
func NewStore(ctx context.Context, cfg internal.StorageConfig) (Store, error) {
	switch cfg.Provider {
	case "memory":
		return NewMemoryStore(), nil
	case "local", "":
		return NewLocalStore(cfg.LocalPath)
	case "s3":
		return NewS3Store(ctx, S3Config{
			Endpoint:    cfg.S3Endpoint,
			Region:      cfg.S3Region,
			AccessKeyID: cfg.S3AccessKeyID,
			SecretKey:   cfg.S3SecretKey,
			BucketName:  cfg.S3BucketName,
			Prefix:      cfg.S3Prefix,
		})
	default:
		return nil, ErrUnknownProvider(cfg.Provider)
	}
}

// Namespaced prefixes every key so several sessions can share one Store.
type Namespaced struct {
	store  Store
	prefix string
}

// WithNamespace returns a Store whose keys live under ns.
func WithNamespace(store Store, ns string) *Namespaced {
	return &Namespaced{store: store, prefix: strings.TrimSuffix(ns, "/") + "/"}
}

func (n *Namespaced) Get(ctx context.Context, key string) ([]byte, error) {
	return n.store.Get(ctx, n.prefix+key)
}

func (n *Namespaced) Put(ctx context.Context, key string, value []byte) error {
	return n.store.Put(ctx, n.prefix+key, value)
}

func (n *Namespaced) Delete(ctx context.Context, key string) error {
	return n.store.Delete(ctx, n.prefix+key)
}

// GetJSON decodes the value under key into v. It reports false, and leaves v
// untouched, when the key is absent.
func GetJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// PutJSON encodes v and stores it under key.
func PutJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.Put(ctx, key, raw)
}

// IsNotFound reports whether err means the key does not exist.
func IsNotFound(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && se.Code == codeNotFound
}
