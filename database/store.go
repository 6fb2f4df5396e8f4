package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Storage keys. Each collection lives as one JSON document under one key;
// every mutation rewrites the whole document.
const (
	KeyPrefix = "aliAutos_"

	KeyUsers           = KeyPrefix + "users"
	KeyCars            = KeyPrefix + "cars"
	KeyVisits          = KeyPrefix + "visits"
	KeyContactMessages = KeyPrefix + "contact_messages"
	KeyAuthToken       = KeyPrefix + "auth_token"
	KeyCurrentUser     = KeyPrefix + "current_user"
)

// DefaultQuotaBytes caps the total key+value bytes a backend will hold.
// Catalog images live in object storage, so 5 MiB of JSON goes a long way.
const DefaultQuotaBytes = 5 << 20

// ErrQuotaExceeded is returned by Set when the write would push the store
// past its byte budget. The previous value is left intact.
var ErrQuotaExceeded = errors.New("database: storage quota exceeded")

// Store is the key-value persistence substrate: whole JSON documents keyed by
// string. A Set either fully replaces the value or fails leaving the previous
// value in place.
type Store interface {
	// Get returns the raw document and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Open selects a backend from STORAGE_BACKEND (memory, sqlite or mongo).
// sqlite is the default.
func Open(ctx context.Context) (Store, error) {
	switch backend := os.Getenv("STORAGE_BACKEND"); backend {
	case "memory":
		return NewMemory(QuotaBytes()), nil
	case "mongo":
		return ConnectMongo(ctx)
	case "sqlite", "":
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = "aliautos.db"
		}
		return OpenSQLite(path, QuotaBytes())
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", backend)
	}
}

// QuotaBytes reads the storage budget from STORAGE_QUOTA_BYTES, falling back
// to DefaultQuotaBytes.
func QuotaBytes() int {
	if v := os.Getenv("STORAGE_QUOTA_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return DefaultQuotaBytes
}
