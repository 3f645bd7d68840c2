package reconcile

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/foogie-app/foogie/internal/api"
	"github.com/foogie-app/foogie/internal/ledger"
	"github.com/foogie-app/foogie/internal/model"
	"github.com/foogie-app/foogie/internal/store"
)

type fakeConsumer struct {
	calls []map[string]float64
	keys  []string
	err   error
}

func (f *fakeConsumer) Consume(_ context.Context, _ string, consumed map[string]float64, key string) (*api.ConsumeResult, error) {
	f.calls = append(f.calls, consumed)
	f.keys = append(f.keys, key)
	if f.err != nil {
		return nil, f.err
	}
	return &api.ConsumeResult{Success: true}, nil
}

type fakeLedger struct {
	meals []model.Meal
	err   error
}

func (f *fakeLedger) AppendMeal(_ context.Context, name string, calories float64, n model.Nutrients) (model.Meal, error) {
	if f.err != nil {
		return model.Meal{}, f.err
	}
	m := model.Meal{Name: name, Calories: calories, Protein: n.Protein, Carbs: n.Carbs, Fats: n.Fats, Servings: n.Servings}
	f.meals = append(f.meals, m)
	return m, nil
}

func bowl() model.Recipe {
	return model.Recipe{
		Name:     "Egg Fried Rice",
		Servings: 2,
		InventoryItemsUsed: []string{
			"2 eggs of egg (140 cal)",
			"3 items of egg (210 cal)",
			"150 grams of rice (195 cal)",
			"a splash of soy sauce",
		},
		NutritionPerServing: &model.Nutrition{Calories: 400, Protein: 20, Carbs: 50, Fats: 12},
	}
}

func newReconciler(c Consumer, l MealLogger, confirm Confirmer) *Reconciler {
	return New(Config{Consumer: c, Ledger: l, BinID: "bin", Confirm: confirm, Logger: ledger.Discard})
}

func TestUseConsumesThenLogs(t *testing.T) {
	c := &fakeConsumer{}
	l := &fakeLedger{}
	res, err := newReconciler(c, l, nil).Use(context.Background(), bowl())
	if err != nil {
		t.Fatalf("Use: %v", err)
	}

	if len(c.calls) != 1 {
		t.Fatalf("consume calls = %d, want 1", len(c.calls))
	}
	if c.calls[0]["egg"] != 5 || c.calls[0]["rice"] != 150 || len(c.calls[0]) != 2 {
		t.Errorf("consumed = %v", c.calls[0])
	}
	if c.keys[0] == "" || c.keys[0] != res.ID {
		t.Errorf("idempotency key %q should equal attempt ID %q", c.keys[0], res.ID)
	}

	if len(l.meals) != 1 {
		t.Fatalf("meals = %d, want 1", len(l.meals))
	}
	m := l.meals[0]
	if m.Calories != 800 || m.Protein != 40 || m.Carbs != 100 || m.Fats != 24 || m.Servings != 2 {
		t.Errorf("logged meal = %+v", m)
	}
	if res.Stage != StageDone || res.Skipped() {
		t.Errorf("result stage=%s skipped=%v", res.Stage, res.Skipped())
	}
}

func TestUseEmptyMapDeclined(t *testing.T) {
	c := &fakeConsumer{}
	l := &fakeLedger{}
	r := bowl()
	r.InventoryItemsUsed = []string{"salt", "pepper"}

	asked := 0
	confirm := func(context.Context, model.Recipe) (bool, error) { asked++; return false, nil }

	_, err := newReconciler(c, l, confirm).Use(context.Background(), r)
	if !errors.Is(err, ErrDeclined) {
		t.Fatalf("err = %v, want ErrDeclined", err)
	}
	if asked != 1 || len(c.calls) != 0 || len(l.meals) != 0 {
		t.Errorf("asked=%d consume=%d meals=%d", asked, len(c.calls), len(l.meals))
	}

	// nil confirmer declines too
	if _, err := newReconciler(c, l, nil).Use(context.Background(), r); !errors.Is(err, ErrDeclined) {
		t.Errorf("nil confirmer err = %v, want ErrDeclined", err)
	}
}

func TestUseEmptyMapConfirmedSkipsConsume(t *testing.T) {
	c := &fakeConsumer{}
	l := &fakeLedger{}
	r := bowl()
	r.InventoryItemsUsed = nil

	confirm := func(context.Context, model.Recipe) (bool, error) { return true, nil }
	res, err := newReconciler(c, l, confirm).Use(context.Background(), r)
	if err != nil {
		t.Fatalf("Use: %v", err)
	}
	if len(c.calls) != 0 {
		t.Errorf("consume called %d times, want 0", len(c.calls))
	}
	if len(l.meals) != 1 || !res.Skipped() {
		t.Errorf("meals=%d skipped=%v", len(l.meals), res.Skipped())
	}
}

func TestConsumeFailureAbortsBeforeLogging(t *testing.T) {
	c := &fakeConsumer{err: errors.New("503")}
	l := &fakeLedger{}

	_, err := newReconciler(c, l, nil).Use(context.Background(), bowl())
	var se *StageError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StageError", err)
	}
	if se.Stage != StageConsuming || se.Inconsistent() {
		t.Errorf("stage=%s inconsistent=%v", se.Stage, se.Inconsistent())
	}
	if len(l.meals) != 0 {
		t.Error("meal logged despite consume failure")
	}
}

func TestLoggingFailureResumesWithoutReconsuming(t *testing.T) {
	c := &fakeConsumer{}
	l := &fakeLedger{err: errors.New("disk full")}
	rec := newReconciler(c, l, nil)

	_, err := rec.Use(context.Background(), bowl())
	var se *StageError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StageError", err)
	}
	if se.Stage != StageLogging || !se.Inconsistent() {
		t.Fatalf("stage=%s inconsistent=%v, want logging/true", se.Stage, se.Inconsistent())
	}

	l.err = nil
	res, err := rec.Resume(context.Background(), se.Attempt)
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if len(c.calls) != 1 {
		t.Errorf("consume calls = %d, want 1 (no re-consume)", len(c.calls))
	}
	if len(l.meals) != 1 || res.Stage != StageDone {
		t.Errorf("meals=%d stage=%s", len(l.meals), res.Stage)
	}

	if _, err := rec.Resume(context.Background(), &res.Attempt); err == nil {
		t.Error("resuming a done attempt should fail")
	}
}

func TestResumeAfterConsumeFailureRetriesWithSameKey(t *testing.T) {
	c := &fakeConsumer{err: errors.New("timeout")}
	l := &fakeLedger{}
	rec := newReconciler(c, l, nil)

	_, err := rec.Use(context.Background(), bowl())
	var se *StageError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v", err)
	}

	c.err = nil
	if _, err := rec.Resume(context.Background(), se.Attempt); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if len(c.keys) != 2 || c.keys[0] != c.keys[1] {
		t.Errorf("keys = %v, want the same key twice", c.keys)
	}
}

func TestStageString(t *testing.T) {
	if StageConsuming.String() != "consuming" || Stage(42).String() != "stage(42)" {
		t.Errorf("String = %q / %q", StageConsuming, Stage(42))
	}
}

func TestPendingRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()

	if a, err := LoadPending(ctx, kv); err != nil || a != nil {
		t.Fatalf("empty store: %v, %v", a, err)
	}

	c := &fakeConsumer{}
	l := &fakeLedger{err: errors.New("locked")}
	_, err := newReconciler(c, l, nil).Use(ctx, bowl())
	var se *StageError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v", err)
	}
	if err := SavePending(ctx, kv, se.Attempt); err != nil {
		t.Fatalf("SavePending: %v", err)
	}

	got, err := LoadPending(ctx, kv)
	if err != nil || got == nil {
		t.Fatalf("LoadPending: %v, %v", got, err)
	}
	if got.ID != se.Attempt.ID || !got.Applied || got.Stage != StageLogging || got.Consumed["egg"] != 5 {
		t.Errorf("loaded = %+v", got)
	}

	l.err = nil
	if _, err := newReconciler(c, l, nil).Resume(ctx, got); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if len(c.calls) != 1 {
		t.Errorf("consume calls = %d after resume from store", len(c.calls))
	}

	if err := ClearPending(ctx, kv); err != nil {
		t.Fatal(err)
	}
	if a, _ := LoadPending(ctx, kv); a != nil {
		t.Error("pending attempt still present after clear")
	}
}

func TestRecipeCache(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()

	if rs, err := LastRecipes(ctx, kv); err != nil || len(rs) != 0 {
		t.Fatalf("empty cache: %v, %v", rs, err)
	}
	if err := SaveRecipes(ctx, kv, []model.Recipe{bowl()}); err != nil {
		t.Fatal(err)
	}
	rs, err := LastRecipes(ctx, kv)
	if err != nil || len(rs) != 1 || rs[0].TotalCalories() != 800 {
		t.Errorf("cached = %+v, %v", rs, err)
	}

	_ = kv.Put(ctx, store.KeyLastRecipes, []byte("{broken"))
	if rs, err := LastRecipes(ctx, kv); err != nil || rs != nil {
		t.Errorf("malformed cache = %v, %v", rs, err)
	}
}

func TestCheckNoPending(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()

	if err := CheckNoPending(ctx, kv); err != nil {
		t.Fatalf("empty store: %v", err)
	}

	a := &Attempt{ID: "a-1", Recipe: bowl(), Stage: StageLogging, Applied: true}
	if err := SavePending(ctx, kv, a); err != nil {
		t.Fatalf("SavePending: %v", err)
	}
	err := CheckNoPending(ctx, kv)
	if !errors.Is(err, ErrPending) {
		t.Fatalf("err = %v, want ErrPending", err)
	}
	if !strings.Contains(err.Error(), bowl().Name) {
		t.Errorf("err = %q, want it to name the recipe", err)
	}

	if err := ClearPending(ctx, kv); err != nil {
		t.Fatalf("ClearPending: %v", err)
	}
	if err := CheckNoPending(ctx, kv); err != nil {
		t.Errorf("after clear: %v", err)
	}
}
