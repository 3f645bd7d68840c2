package model

import "testing"

func TestDailyLogAddRemove(t *testing.T) {
	l := NewDailyLog("2026-10-18")
	l.Add(Meal{Name: "oats", Calories: 300, Protein: 10, Carbs: 50, Fats: 6})
	l.Add(Meal{Name: "salad", Calories: 200, Protein: 4, Carbs: 12, Fats: 14})

	if l.TotalCalories != 500 {
		t.Fatalf("TotalCalories = %.0f, want 500", l.TotalCalories)
	}

	m, ok := l.RemoveAt(0)
	if !ok {
		t.Fatal("RemoveAt(0) returned false")
	}
	if m.Name != "oats" {
		t.Errorf("removed %q, want oats", m.Name)
	}
	if l.TotalCalories != 200 || l.TotalProtein != 4 || l.TotalCarbs != 12 || l.TotalFats != 14 {
		t.Errorf("totals after remove = %+v", l)
	}
	if len(l.Meals) != 1 {
		t.Errorf("len(Meals) = %d, want 1", len(l.Meals))
	}
}

func TestDailyLogRemoveOutOfRange(t *testing.T) {
	l := NewDailyLog("2026-10-18")
	l.Add(Meal{Name: "toast", Calories: 120})

	for _, idx := range []int{-1, 1, 5} {
		if _, ok := l.RemoveAt(idx); ok {
			t.Errorf("RemoveAt(%d) = true, want false", idx)
		}
	}
	if l.TotalCalories != 120 || len(l.Meals) != 1 {
		t.Errorf("log mutated by out-of-range remove: %+v", l)
	}
}

func TestRecipeTotals(t *testing.T) {
	r := Recipe{
		Servings:            2,
		NutritionPerServing: &Nutrition{Calories: 276, Protein: 27, Carbs: 33, Fats: 3},
	}
	if got := r.TotalCalories(); got != 552 {
		t.Errorf("TotalCalories = %.0f, want 552", got)
	}
	n := r.MealNutrients()
	if n.Protein != 54 || n.Carbs != 66 || n.Fats != 6 || n.Servings != 2 {
		t.Errorf("MealNutrients = %+v", n)
	}

	var empty Recipe
	if empty.ServingCount() != 1 {
		t.Errorf("ServingCount default = %.0f, want 1", empty.ServingCount())
	}
	if empty.UrgencyLevel() != UrgencyLow {
		t.Errorf("UrgencyLevel default = %q, want low", empty.UrgencyLevel())
	}
	if !empty.FitsBudget(0) {
		t.Error("zero-calorie recipe should fit a zero budget")
	}
}

func TestDailyLogFractionalTotalsExact(t *testing.T) {
	l := NewDailyLog("2026-10-18")
	l.Add(Meal{Name: "a", Calories: 10.1, Protein: 0.1})
	l.Add(Meal{Name: "b", Calories: 20.2, Protein: 0.2})

	l.RemoveAt(0)
	if l.TotalProtein != 0.2 || l.TotalCalories != 20.2 {
		t.Errorf("totals after removing first meal = %+v, want exactly the remaining meal", l)
	}

	l.RemoveAt(0)
	if l.TotalCalories != 0 || l.TotalProtein != 0 || l.TotalCarbs != 0 || l.TotalFats != 0 {
		t.Errorf("totals with no meals = %+v, want zero", l)
	}
}

func TestDailyLogRecomputeFixesStoredTotals(t *testing.T) {
	l := DailyLog{
		Date:          "2026-10-18",
		Meals:         []Meal{{Name: "soup", Calories: 250, Protein: 12.5}},
		TotalCalories: 999,
		TotalProtein:  1e-17,
	}
	l.Recompute()
	if l.TotalCalories != 250 || l.TotalProtein != 12.5 {
		t.Errorf("Recompute = %+v", l)
	}
}
