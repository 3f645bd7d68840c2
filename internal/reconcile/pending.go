package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/foogie-app/foogie/internal/model"
	"github.com/foogie-app/foogie/internal/store"
)

// SavePending stores an unfinished Attempt so a later run can Resume it.
func SavePending(ctx context.Context, kv store.KV, a *Attempt) error {
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}
	if err := kv.Put(ctx, store.KeyPendingUse, data); err != nil {
		return fmt.Errorf("saving pending attempt: %w", err)
	}
	return nil
}

// LoadPending returns the stored unfinished Attempt, or nil when there is
// none. A malformed record is treated as absent.
func LoadPending(ctx context.Context, kv store.KV) (*Attempt, error) {
	raw, err := kv.Get(ctx, store.KeyPendingUse)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading pending attempt: %w", err)
	}
	var a Attempt
	if json.Unmarshal(raw, &a) != nil || a.ID == "" {
		return nil, nil
	}
	return &a, nil
}

// ErrPending is returned by CheckNoPending while an earlier attempt still
// waits to be resumed.
var ErrPending = errors.New("reconcile: an earlier recipe was cooked but never logged")

// CheckNoPending returns an error wrapping ErrPending when a pending Attempt
// is stored. Starting a new attempt would overwrite it.
func CheckNoPending(ctx context.Context, kv store.KV) error {
	a, err := LoadPending(ctx, kv)
	if err != nil {
		return err
	}
	if a != nil {
		return fmt.Errorf("%w: %q", ErrPending, a.Recipe.Name)
	}
	return nil
}

// ClearPending removes the stored Attempt.
func ClearPending(ctx context.Context, kv store.KV) error {
	err := kv.Delete(ctx, store.KeyPendingUse)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("clearing pending attempt: %w", err)
	}
	return nil
}

// SaveRecipes caches the last generated recipe list.
func SaveRecipes(ctx context.Context, kv store.KV, recipes []model.Recipe) error {
	data, err := json.Marshal(recipes)
	if err != nil {
		return err
	}
	if err := kv.Put(ctx, store.KeyLastRecipes, data); err != nil {
		return fmt.Errorf("caching recipes: %w", err)
	}
	return nil
}

// LastRecipes returns the cached recipe list, empty when none was cached.
func LastRecipes(ctx context.Context, kv store.KV) ([]model.Recipe, error) {
	raw, err := kv.Get(ctx, store.KeyLastRecipes)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cached recipes: %w", err)
	}
	var recipes []model.Recipe
	if json.Unmarshal(raw, &recipes) != nil {
		return nil, nil
	}
	return recipes, nil
}
