// Package store holds the document collections: each entity type is one JSON
// array persisted whole under one storage key. Reads degrade to an empty
// slice on a missing key or corrupt document so that a broken local state
// never takes the storefront down; writes surface their errors.
package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/aliautos/backend/database"
	"github.com/aliautos/backend/notify"
)

type Store struct {
	db  database.Store
	bus *notify.Bus

	// Per-key write locks. The substrate's read-modify-write cycle is not
	// atomic on its own; a single writer per key inside this process keeps
	// concurrent handlers from losing each other's updates. A second process
	// on the same backend is still last-write-wins.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(db database.Store, bus *notify.Bus) *Store {
	return &Store{db: db, bus: bus, locks: make(map[string]*sync.Mutex)}
}

// DB exposes the underlying substrate for components that manage their own
// keys, such as the session manager.
func (s *Store) DB() database.Store { return s.db }

func (s *Store) keyLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

func (s *Store) publish(key string, op notify.Op) {
	if s.bus != nil {
		s.bus.Publish(notify.Event{Key: key, Op: op})
	}
}

// readAll parses the collection document under key. Absence and parse
// failures both yield an empty slice, never an error.
func readAll[T any](ctx context.Context, db database.Store, key string) []T {
	raw, ok, err := db.Get(ctx, key)
	if err != nil || !ok {
		return []T{}
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []T{}
	}
	return items
}

func writeAll[T any](ctx context.Context, db database.Store, key string, items []T) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return db.Set(ctx, key, string(raw))
}
