// Package budget derives the remaining-calorie budget from a daily ledger and
// the user's goals. All functions are pure.
package budget

import (
	"math"

	"github.com/foogie-app/foogie/internal/model"
)

// Summary is the data behind the calorie banner.
type Summary struct {
	Goal            int          `json:"goal"`
	Consumed        float64      `json:"consumed"`
	Remaining       float64      `json:"remaining"`
	MealsLeft       int          `json:"mealsLeft"`
	CaloriesPerMeal int          `json:"caloriesPerMeal"`
	PercentConsumed int          `json:"percentConsumed"`
	IsOverGoal      bool         `json:"isOverGoal"`
	Meals           []model.Meal `json:"meals"`
	Nutrition       Macros       `json:"nutrition"`
}

// Macros are the day's macro totals.
type Macros struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fats    float64 `json:"fats"`
}

// Round rounds half up toward positive infinity.
func Round(x float64) float64 {
	return math.Floor(x + 0.5)
}

// Remaining is the calorie goal minus consumed calories. May be negative.
func Remaining(l model.DailyLog, s model.Settings) float64 {
	return float64(s.DailyCalories) - l.TotalCalories
}

// MealsLeft is the number of planned meals not yet logged, never negative.
func MealsLeft(l model.DailyLog, s model.Settings) int {
	return max(0, s.DailyMeals-len(l.Meals))
}

// CaloriesPerMeal splits the remaining calories across the meals left.
// It is 0 when no meals are left or the goal is already reached.
func CaloriesPerMeal(l model.DailyLog, s model.Settings) int {
	left := MealsLeft(l, s)
	if left == 0 {
		return 0
	}
	remaining := Remaining(l, s)
	if remaining <= 0 {
		return 0
	}
	return int(Round(remaining / float64(left)))
}

// PercentConsumed is consumed calories as a rounded percentage of the goal.
// A non-positive goal yields 0.
func PercentConsumed(l model.DailyLog, s model.Settings) int {
	if s.DailyCalories <= 0 {
		return 0
	}
	return int(Round(100 * l.TotalCalories / float64(s.DailyCalories)))
}

// Summarize computes the full banner summary.
func Summarize(l model.DailyLog, s model.Settings) Summary {
	remaining := Remaining(l, s)
	meals := l.Meals
	if meals == nil {
		meals = []model.Meal{}
	}
	return Summary{
		Goal:            s.DailyCalories,
		Consumed:        l.TotalCalories,
		Remaining:       remaining,
		MealsLeft:       MealsLeft(l, s),
		CaloriesPerMeal: CaloriesPerMeal(l, s),
		PercentConsumed: PercentConsumed(l, s),
		IsOverGoal:      remaining < 0,
		Meals:           meals,
		Nutrition: Macros{
			Protein: l.TotalProtein,
			Carbs:   l.TotalCarbs,
			Fats:    l.TotalFats,
		},
	}
}

// TargetPerMeal is the calorie target sent with recipe requests: the
// per-meal budget, or fallback when the budget is exhausted.
func TargetPerMeal(sum Summary, fallback int) int {
	if sum.CaloriesPerMeal > 0 {
		return sum.CaloriesPerMeal
	}
	return fallback
}
