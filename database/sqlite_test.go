package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func setupSQLiteTest(t *testing.T, quota int) *SQLite {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := OpenSQLite(path, quota)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLite_GetSetRemove(t *testing.T) {
	s := setupSQLiteTest(t, 0)
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, KeyVisits); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := s.Set(ctx, KeyVisits, `[]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set(ctx, KeyVisits, `[{"id":"v1"}]`); err != nil {
		t.Fatalf("overwrite Set failed: %v", err)
	}

	value, ok, err := s.Get(ctx, KeyVisits)
	if err != nil || !ok {
		t.Fatalf("Get failed: ok=%v err=%v", ok, err)
	}
	if value != `[{"id":"v1"}]` {
		t.Errorf("unexpected value %q", value)
	}

	if err := s.Remove(ctx, KeyVisits); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, ok, _ := s.Get(ctx, KeyVisits); ok {
		t.Error("key still present after Remove")
	}
}

func TestSQLite_QuotaExceeded(t *testing.T) {
	s := setupSQLiteTest(t, 64)
	ctx := context.Background()

	if err := s.Set(ctx, "k", "small"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	big := make([]byte, 128)
	for i := range big {
		big[i] = 'x'
	}
	err := s.Set(ctx, "k2", string(big))
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}

	if _, ok, _ := s.Get(ctx, "k2"); ok {
		t.Error("rejected key must not exist")
	}
	value, ok, _ := s.Get(ctx, "k")
	if !ok || value != "small" {
		t.Errorf("existing value lost: ok=%v value=%q", ok, value)
	}
}
