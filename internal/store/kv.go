// Package store provides key-value persistence for foogie's local state.
package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
)

// Keys of the records foogie persists.
const (
	KeySettings    = "foogie-settings"
	KeyCalorieLog  = "foogie-calorie-log"
	KeyLastRecipes = "foogie-last-recipes"
	KeyPendingUse  = "foogie-pending-use"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("store: key not found")

// UpdateFunc receives the current value (nil when absent) and returns the
// value to store. Returning a nil slice leaves the record untouched.
type UpdateFunc func(cur []byte) ([]byte, error)

// KV is a string-keyed blob store.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Update performs an atomic read-modify-write of key.
	Update(ctx context.Context, key string, fn UpdateFunc) error
}

// DataDir returns the XDG data directory for foogie.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "foogie")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "foogie")
}

// DefaultPath returns the default database path.
func DefaultPath() string {
	return filepath.Join(DataDir(), "foogie.db")
}
