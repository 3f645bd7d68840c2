package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "foogie.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestDBGetPutDelete(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)

	if _, err := db.Get(ctx, KeySettings); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty db err = %v, want ErrNotFound", err)
	}

	if err := db.Put(ctx, KeySettings, []byte(`{"dailyCalories":1800}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := db.Put(ctx, KeySettings, []byte(`{"dailyCalories":2200}`)); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}

	got, err := db.Get(ctx, KeySettings)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `{"dailyCalories":2200}` {
		t.Errorf("Get = %s, want overwritten value", got)
	}

	if err := db.Delete(ctx, KeySettings); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := db.Get(ctx, KeySettings); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete err = %v, want ErrNotFound", err)
	}
}

func TestDBUpdate(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)

	err := db.Update(ctx, KeyCalorieLog, func(cur []byte) ([]byte, error) {
		if cur != nil {
			t.Errorf("cur = %s, want nil for absent key", cur)
		}
		return []byte("1"), nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	// nil result leaves the record untouched
	if err := db.Update(ctx, KeyCalorieLog, func([]byte) ([]byte, error) { return nil, nil }); err != nil {
		t.Fatalf("Update noop: %v", err)
	}

	sentinel := errors.New("boom")
	err = db.Update(ctx, KeyCalorieLog, func([]byte) ([]byte, error) { return nil, sentinel })
	if !errors.Is(err, sentinel) {
		t.Fatalf("Update err = %v, want sentinel", err)
	}

	got, _ := db.Get(ctx, KeyCalorieLog)
	if string(got) != "1" {
		t.Errorf("value = %s, want 1", got)
	}
}

func TestMemoryUpdateConcurrent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Update(ctx, "n", func(cur []byte) ([]byte, error) {
				return append(cur, 'x'), nil
			})
		}()
	}
	wg.Wait()

	got, err := m.Get(ctx, "n")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got) != 50 {
		t.Errorf("len = %d, want 50 (no lost updates)", len(got))
	}
}

func TestDBReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "foogie.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if db.Path() != path {
		t.Errorf("Path() = %q, want %q", db.Path(), path)
	}
	if err := db.Put(ctx, KeyCalorieLog, []byte(`{"date":"2026-10-18"}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	_ = db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = db.Close() }()

	got, err := db.Get(ctx, KeyCalorieLog)
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if string(got) != `{"date":"2026-10-18"}` {
		t.Errorf("Get after reopen = %s", got)
	}
}
