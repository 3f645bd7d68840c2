// Package reconcile implements the "I made this" flow: remove a recipe's
// ingredients from the fridge inventory, then log the meal.
//
// The two effects live in different systems and cannot be made atomic. An
// Attempt records how far it got, so a failure after the inventory was
// decremented can be resumed without consuming twice.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/foogie-app/foogie/internal/api"
	"github.com/foogie-app/foogie/internal/consume"
	"github.com/foogie-app/foogie/internal/model"

	"github.com/google/uuid"
)

// Stage is the step an Attempt has reached.
type Stage int

// Stages in execution order.
const (
	StageIdle Stage = iota
	StageExtracting
	StageConsuming
	StageLogging
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageExtracting:
		return "extracting"
	case StageConsuming:
		return "consuming"
	case StageLogging:
		return "logging"
	case StageDone:
		return "done"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// ErrDeclined is returned when nothing could be consumed and the user chose
// not to log the meal anyway.
var ErrDeclined = errors.New("reconcile: declined to log meal without fridge items")

// Consumer removes quantities from the remote inventory.
type Consumer interface {
	Consume(ctx context.Context, binID string, consumed map[string]float64, idempotencyKey string) (*api.ConsumeResult, error)
}

// MealLogger appends a meal to the ledger.
type MealLogger interface {
	AppendMeal(ctx context.Context, name string, calories float64, n model.Nutrients) (model.Meal, error)
}

// Confirmer asks whether to log a recipe whose ingredients matched nothing
// in the inventory.
type Confirmer func(ctx context.Context, recipe model.Recipe) (bool, error)

// Attempt is one run of the flow for a recipe.
type Attempt struct {
	ID       string       `json:"id"`
	Recipe   model.Recipe `json:"recipe"`
	Stage    Stage        `json:"stage"`
	Consumed consume.Map  `json:"consumed"`
	// Applied is set once the inventory step has succeeded or was skipped.
	Applied bool `json:"applied"`
}

// Result describes a completed Attempt.
type Result struct {
	Attempt
	Meal model.Meal
}

// Skipped reports whether the inventory step was skipped.
func (r Result) Skipped() bool { return len(r.Consumed) == 0 }

// StageError wraps a failure with the stage it happened in.
type StageError struct {
	Stage   Stage
	Attempt *Attempt
	Err     error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Inconsistent reports whether the fridge was already updated but the meal
// was not logged. Such an attempt should be finished with Resume.
func (e *StageError) Inconsistent() bool {
	return e.Stage == StageLogging && e.Attempt != nil && e.Attempt.Applied && len(e.Attempt.Consumed) > 0
}

// Config wires a Reconciler.
type Config struct {
	Consumer Consumer
	Ledger   MealLogger
	BinID    string
	Confirm  Confirmer   // nil declines
	Logger   *log.Logger // optional
}

// Reconciler runs Attempts.
type Reconciler struct {
	consumer Consumer
	ledger   MealLogger
	binID    string
	confirm  Confirmer
	logger   *log.Logger
}

// New returns a Reconciler.
func New(cfg Config) *Reconciler {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Reconciler{
		consumer: cfg.Consumer,
		ledger:   cfg.Ledger,
		binID:    cfg.BinID,
		confirm:  cfg.Confirm,
		logger:   cfg.Logger,
	}
}

// Use starts a new Attempt for recipe.
func (r *Reconciler) Use(ctx context.Context, recipe model.Recipe) (*Result, error) {
	a := &Attempt{ID: uuid.NewString(), Recipe: recipe, Stage: StageIdle}
	return r.run(ctx, a)
}

// Resume continues a previously failed Attempt. Steps already applied are
// not repeated; a retried consume call reuses the Attempt ID.
func (r *Reconciler) Resume(ctx context.Context, a *Attempt) (*Result, error) {
	if a == nil {
		return nil, errors.New("reconcile: nil attempt")
	}
	return r.run(ctx, a)
}

func (r *Reconciler) run(ctx context.Context, a *Attempt) (*Result, error) {
	if a.Stage == StageDone {
		return nil, fmt.Errorf("reconcile: attempt %s already done", a.ID)
	}

	if !a.Applied {
		a.Stage = StageExtracting
		a.Consumed = consume.Extract(a.Recipe.InventoryItemsUsed, r.logger)
		r.logger.Printf("reconcile: %q uses %d inventory item(s): %s", a.Recipe.Name, len(a.Consumed), a.Consumed)

		if len(a.Consumed) == 0 {
			ok := false
			if r.confirm != nil {
				var err error
				ok, err = r.confirm(ctx, a.Recipe)
				if err != nil {
					return nil, &StageError{Stage: StageExtracting, Attempt: a, Err: err}
				}
			}
			if !ok {
				a.Stage = StageIdle
				return nil, ErrDeclined
			}
			a.Applied = true
		} else {
			a.Stage = StageConsuming
			if _, err := r.consumer.Consume(ctx, r.binID, a.Consumed, a.ID); err != nil {
				return nil, &StageError{Stage: StageConsuming, Attempt: a, Err: err}
			}
			a.Applied = true
			r.logger.Printf("reconcile: fridge updated: %s removed", a.Consumed)
		}
	}

	a.Stage = StageLogging
	meal, err := r.ledger.AppendMeal(ctx, a.Recipe.Name, a.Recipe.TotalCalories(), a.Recipe.MealNutrients())
	if err != nil {
		return nil, &StageError{Stage: StageLogging, Attempt: a, Err: err}
	}

	a.Stage = StageDone
	return &Result{Attempt: *a, Meal: meal}, nil
}
