package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/foogie-app/foogie/internal/budget"
	"github.com/foogie-app/foogie/internal/model"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-2500, "-2,500"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCaloriesAndGrams(t *testing.T) {
	if got := FormatCalories(1234.6); got != "1,235 cal" {
		t.Errorf("FormatCalories = %q", got)
	}
	if got := FormatGrams(12); got != "12g" {
		t.Errorf("FormatGrams(12) = %q", got)
	}
	if got := FormatGrams(12.25); got != "12.3g" {
		t.Errorf("FormatGrams(12.25) = %q", got)
	}
	if got := FormatServings(1); got != "1 serving" {
		t.Errorf("FormatServings(1) = %q", got)
	}
	if got := FormatServings(2.5); got != "2.5 servings" {
		t.Errorf("FormatServings(2.5) = %q", got)
	}
}

func TestFormatDaysLeft(t *testing.T) {
	tests := map[int]string{-2: "expired 2d ago", 0: "today", 1: "1 day", 5: "5 days"}
	for in, want := range tests {
		if got := FormatDaysLeft(in); got != want {
			t.Errorf("FormatDaysLeft(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestMaskSecret(t *testing.T) {
	if got := MaskSecret(""); got != "(not set)" {
		t.Errorf("empty = %q", got)
	}
	if got := MaskSecret("abc"); got != "***" {
		t.Errorf("short = %q", got)
	}
	if got := MaskSecret("65f0c1d2ab"); got != "******d2ab" {
		t.Errorf("long = %q", got)
	}
}

func TestRenderBudgetBanner(t *testing.T) {
	l := model.NewDailyLog("2025-03-01")
	l.Add(model.Meal{Name: "Oats", Calories: 500, Protein: 20})
	sum := budget.Summarize(l, model.Settings{DailyCalories: 2000, DailyMeals: 3})

	out := RenderBudgetBanner(sum)
	for _, want := range []string{"2,000 cal", "500 cal", "1,500 cal", "750 cal", "2 meals left", "25%"} {
		if !strings.Contains(out, want) {
			t.Errorf("banner missing %q:\n%s", want, out)
		}
	}

	l.Add(model.Meal{Name: "Pizza", Calories: 1800})
	over := RenderBudgetBanner(budget.Summarize(l, model.Settings{DailyCalories: 2000, DailyMeals: 3}))
	if !strings.Contains(over, "Over goal by") || !strings.Contains(over, "300 cal") {
		t.Errorf("over-goal banner:\n%s", over)
	}
}

func TestMealsTableTotals(t *testing.T) {
	tbl := MealsTable([]model.Meal{
		{Name: "A", Calories: 100},
		{Name: "B", Calories: 250},
	})
	if len(tbl.Rows) != 4 {
		t.Fatalf("rows = %d, want 2 meals + separator + total", len(tbl.Rows))
	}
	if tbl.Rows[1][1] != "1" {
		t.Errorf("second meal index = %q", tbl.Rows[1][1])
	}
	if tbl.Rows[3][3] != "350 cal" {
		t.Errorf("total = %q", tbl.Rows[3][3])
	}
}

func TestFridgeTableSortsByExpiry(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	items := []model.InventoryItem{
		{Name: "milk", ExpectedExpiryDate: "20/03/2025"},
		{Name: "mystery"},
		{Name: "yogurt", ExpectedExpiryDate: "08/03/2025"},
		{Name: "eggs", ExpectedExpiryDate: "11/03/2025"},
	}
	tbl := FridgeTable(items, now)

	var order []string
	for _, r := range tbl.Rows {
		order = append(order, r[0])
	}
	if got := strings.Join(order, ","); got != "yogurt,eggs,milk,mystery" {
		t.Errorf("order = %s", got)
	}
	if tbl.Rows[0][3] != "expired 2d ago" || tbl.Rows[1][3] != "1 day" || tbl.Rows[3][3] != "?" {
		t.Errorf("days left = %q %q %q", tbl.Rows[0][3], tbl.Rows[1][3], tbl.Rows[3][3])
	}
	if items[0].Name != "milk" {
		t.Error("FridgeTable reordered the caller's slice")
	}
}

func TestRenderRecipeCard(t *testing.T) {
	r := model.Recipe{
		Name:                "Shakshuka",
		Servings:            2,
		Urgency:             model.UrgencyHigh,
		InventoryItemsUsed:  []string{"4 eggs"},
		Instructions:        []string{"Simmer sauce", "Crack eggs"},
		NutritionPerServing: &model.Nutrition{Calories: 300, Protein: 18},
	}
	out := RenderRecipeCard(1, r, 500)
	for _, want := range []string{"Shakshuka", "[HIGH]", "600 cal", "over budget by 100 cal", "4 eggs", "2. Crack eggs"} {
		if !strings.Contains(out, want) {
			t.Errorf("card missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(RenderRecipeCard(1, r, 600), "fits budget") {
		t.Error("600 cal recipe should fit a 600 cal budget")
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(Table{Headers: []string{"A", "B"}, Rows: [][]string{{"x", "1"}}})
	if !strings.Contains(out, "│ x │ 1 │") {
		t.Errorf("unexpected table:\n%s", out)
	}
}
