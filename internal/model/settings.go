package model

// Default goal values applied when the settings record is absent or a field
// cannot be coerced.
const (
	DefaultDailyCalories = 2000
	DefaultDailyMeals    = 3
)

// Settings holds the user's daily goals.
type Settings struct {
	DailyCalories       int  `json:"dailyCalories"`
	DailyMeals          int  `json:"dailyMeals"`
	ShowCalorieProgress bool `json:"showCalorieProgress"`
}

// DefaultSettings returns the goals used when nothing is stored.
func DefaultSettings() Settings {
	return Settings{
		DailyCalories:       DefaultDailyCalories,
		DailyMeals:          DefaultDailyMeals,
		ShowCalorieProgress: true,
	}
}
