// Package model defines domain types for the foogie calorie ledger and recipes.
package model

import "time"

// Nutrients carries the optional per-meal macro values. Zero values mean
// "not provided"; Servings of zero is treated as one serving.
type Nutrients struct {
	Protein  float64
	Carbs    float64
	Fats     float64
	Servings float64
}

// Meal is one logged entry in a DailyLog.
type Meal struct {
	Name      string    `json:"name"`
	Calories  float64   `json:"calories"`
	Protein   float64   `json:"protein"`
	Carbs     float64   `json:"carbs"`
	Fats      float64   `json:"fats"`
	Servings  float64   `json:"servings"`
	Timestamp time.Time `json:"timestamp"`
}

// DailyLog is the per-day ledger record. Totals always equal the sum of the
// corresponding Meal fields.
type DailyLog struct {
	Date          string  `json:"date"`
	Meals         []Meal  `json:"meals"`
	TotalCalories float64 `json:"totalCalories"`
	TotalProtein  float64 `json:"totalProtein"`
	TotalCarbs    float64 `json:"totalCarbs"`
	TotalFats     float64 `json:"totalFats"`
}

// NewDailyLog returns an empty ledger stamped with date.
func NewDailyLog(date string) DailyLog {
	return DailyLog{Date: date, Meals: []Meal{}}
}

// Add appends m and refreshes the totals.
func (l *DailyLog) Add(m Meal) {
	l.Meals = append(l.Meals, m)
	l.Recompute()
}

// RemoveAt removes the meal at index i and refreshes the totals.
// Returns false without changes when i is out of range.
func (l *DailyLog) RemoveAt(i int) (Meal, bool) {
	if i < 0 || i >= len(l.Meals) {
		return Meal{}, false
	}
	m := l.Meals[i]
	l.Meals = append(l.Meals[:i], l.Meals[i+1:]...)
	l.Recompute()
	return m, true
}

// Recompute sets the totals to the sums over Meals, in meal order.
func (l *DailyLog) Recompute() {
	var cal, p, c, f float64
	for _, m := range l.Meals {
		cal += m.Calories
		p += m.Protein
		c += m.Carbs
		f += m.Fats
	}
	l.TotalCalories, l.TotalProtein, l.TotalCarbs, l.TotalFats = cal, p, c, f
}
