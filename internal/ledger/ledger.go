// Package ledger manages the per-day calorie ledger.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/foogie-app/foogie/internal/budget"
	"github.com/foogie-app/foogie/internal/model"
	"github.com/foogie-app/foogie/internal/settings"
	"github.com/foogie-app/foogie/internal/store"
)

// Notifier receives a best-effort notice for every logged meal.
type Notifier interface {
	SyncCalories(ctx context.Context, calories float64, recipeName string) error
}

// Config wires a Service.
type Config struct {
	Store    store.KV
	Clock    Clock
	Notifier Notifier    // optional
	Logger   *log.Logger // optional, defaults to log.Default()
}

// Service owns the daily ledger record and the in-memory goals.
type Service struct {
	kv       store.KV
	clock    Clock
	notifier Notifier
	logger   *log.Logger

	mu       sync.Mutex
	settings model.Settings
}

// Open builds a Service, loading the settings record fresh. An unreadable or
// malformed settings record falls back to defaults; only store I/O errors
// are returned.
func Open(ctx context.Context, cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("ledger: nil store")
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	s, err := settings.Load(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	return &Service{
		kv:       cfg.Store,
		clock:    cfg.Clock,
		notifier: cfg.Notifier,
		logger:   cfg.Logger,
		settings: s,
	}, nil
}

// Discard is a logger that drops everything.
var Discard = log.New(io.Discard, "", 0)

// Settings returns the current in-memory goals.
func (s *Service) Settings() model.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// UpdateSettings merges the recognized fields of partial into the in-memory
// goals. It does not write the settings record.
func (s *Service) UpdateSettings(partial map[string]any) model.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.settings
	s.settings = settings.Merge(s.settings, partial)
	s.logger.Printf("ledger: settings updated from %+v to %+v", old, s.settings)
	return s.settings
}

// ReloadSettings re-reads the settings record, picking up goals saved by
// another process. On a read error the current goals are kept.
func (s *Service) ReloadSettings(ctx context.Context) (model.Settings, error) {
	st, err := settings.Load(ctx, s.kv)
	if err != nil {
		return s.Settings(), err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = st
	return st, nil
}

// Today returns today's ledger, persisting a fresh one when the stored record
// is absent, malformed, or from another day.
func (s *Service) Today(ctx context.Context) (model.DailyLog, error) {
	var out model.DailyLog
	err := s.mutate(ctx, func(l *model.DailyLog, fresh bool) bool {
		out = *l
		return fresh
	})
	return out, err
}

// AppendMeal logs a meal and returns it. The calorie-sync notification runs
// after the ledger is persisted and its failure is only logged.
func (s *Service) AppendMeal(ctx context.Context, name string, calories float64, n model.Nutrients) (model.Meal, error) {
	servings := n.Servings
	if servings == 0 {
		servings = 1
	}
	meal := model.Meal{
		Name:      name,
		Calories:  calories,
		Protein:   n.Protein,
		Carbs:     n.Carbs,
		Fats:      n.Fats,
		Servings:  servings,
		Timestamp: s.clock.Now().UTC(),
	}

	var after model.DailyLog
	err := s.mutate(ctx, func(l *model.DailyLog, _ bool) bool {
		l.Add(meal)
		after = *l
		return true
	})
	if err != nil {
		return model.Meal{}, err
	}
	s.logger.Printf("ledger: logged %q (%.0f cal), day total %.0f cal", name, calories, after.TotalCalories)

	if s.notifier != nil {
		if err := s.notifier.SyncCalories(ctx, calories, name); err != nil {
			s.logger.Printf("ledger: calorie sync failed: %v", err)
		}
	}

	return meal, nil
}

// RemoveMeal deletes the meal at index. An out-of-range index reports false
// and leaves the ledger untouched.
func (s *Service) RemoveMeal(ctx context.Context, index int) (bool, error) {
	removed := false
	err := s.mutate(ctx, func(l *model.DailyLog, fresh bool) bool {
		_, removed = l.RemoveAt(index)
		return removed || fresh
	})
	if err != nil {
		return false, err
	}
	if !removed {
		s.logger.Printf("ledger: invalid meal index for deletion: %d", index)
	}
	return removed, nil
}

// Summary returns the budget summary for today.
func (s *Service) Summary(ctx context.Context) (budget.Summary, error) {
	l, err := s.Today(ctx)
	if err != nil {
		return budget.Summary{}, err
	}
	return budget.Summarize(l, s.Settings()), nil
}

// mutate runs fn on today's ledger inside one store update. fn reports
// whether the ledger must be written back.
func (s *Service) mutate(ctx context.Context, fn func(l *model.DailyLog, fresh bool) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := DayOf(s.clock.Now())
	err := s.kv.Update(ctx, store.KeyCalorieLog, func(cur []byte) ([]byte, error) {
		l, fresh := decodeLog(cur, today)
		if fresh {
			s.logger.Printf("ledger: starting new log for %s", today)
		}
		if !fn(&l, fresh) {
			return nil, nil
		}
		return json.Marshal(l)
	})
	if err != nil {
		return fmt.Errorf("ledger: %w", err)
	}
	return nil
}

// decodeLog parses the stored record, returning a new empty log (and
// fresh=true) when it is missing, malformed, or dated other than today.
func decodeLog(raw []byte, today string) (model.DailyLog, bool) {
	if len(raw) == 0 {
		return model.NewDailyLog(today), true
	}
	var l model.DailyLog
	if err := json.Unmarshal(raw, &l); err != nil || l.Date != today {
		return model.NewDailyLog(today), true
	}
	if l.Meals == nil {
		l.Meals = []model.Meal{}
	}
	l.Recompute()
	return l, false
}
