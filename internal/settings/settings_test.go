package settings

import (
	"context"
	"testing"

	"github.com/foogie-app/foogie/internal/model"
	"github.com/foogie-app/foogie/internal/store"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want model.Settings
	}{
		{"empty", ``, model.DefaultSettings()},
		{"malformed", `{not json`, model.DefaultSettings()},
		{"null", `null`, model.DefaultSettings()},
		{"array", `[1,2]`, model.DefaultSettings()},
		{"numbers", `{"dailyCalories":1800,"dailyMeals":4}`, model.Settings{DailyCalories: 1800, DailyMeals: 4, ShowCalorieProgress: true}},
		{"strings", `{"dailyCalories":"2400","dailyMeals":"5 meals"}`, model.Settings{DailyCalories: 2400, DailyMeals: 5, ShowCalorieProgress: true}},
		{"zero falls back", `{"dailyCalories":0,"dailyMeals":"0"}`, model.DefaultSettings()},
		{"garbage falls back", `{"dailyCalories":"abc","dailyMeals":true}`, model.DefaultSettings()},
		{"progress hidden", `{"showCalorieProgress":false}`, model.Settings{DailyCalories: 2000, DailyMeals: 3, ShowCalorieProgress: false}},
		{"progress non-bool stays on", `{"showCalorieProgress":"false"}`, model.DefaultSettings()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decode([]byte(tt.raw)); got != tt.want {
				t.Errorf("Decode(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestMergeKeepsPriorOnInvalid(t *testing.T) {
	cur := model.Settings{DailyCalories: 1700, DailyMeals: 4, ShowCalorieProgress: false}

	got := Merge(cur, map[string]any{FieldDailyCalories: "abc"})
	if got.DailyCalories != 1700 {
		t.Errorf("DailyCalories = %d, want prior 1700", got.DailyCalories)
	}
	if got.ShowCalorieProgress {
		t.Error("absent showCalorieProgress should keep prior value")
	}

	got = Merge(cur, map[string]any{FieldDailyMeals: 12.9, FieldShowCalorieProgress: true})
	if got.DailyMeals != 12 {
		t.Errorf("DailyMeals = %d, want 12 (truncated)", got.DailyMeals)
	}
	if !got.ShowCalorieProgress {
		t.Error("ShowCalorieProgress = false, want true")
	}
}

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		in   any
		want int
	}{
		{float64(2100), 2100},
		{"  2100", 2100},
		{"+15x", 15},
		{"-5", 99},
		{"", 99},
		{nil, 99},
		{"99999999999999999999", 99},
		{3, 3},
	}
	for _, tt := range tests {
		if got := CoerceInt(tt.in, 99); got != tt.want {
			t.Errorf("CoerceInt(%#v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()

	s, err := Load(ctx, kv)
	if err != nil {
		t.Fatalf("Load empty: %v", err)
	}
	if s != model.DefaultSettings() {
		t.Errorf("Load empty = %+v, want defaults", s)
	}

	if err := Save(ctx, kv, map[string]any{FieldDailyCalories: "1900", "theme": "dark"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := Save(ctx, kv, map[string]any{FieldDailyMeals: 5}); err != nil {
		t.Fatalf("Save second: %v", err)
	}

	s, err = Load(ctx, kv)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.DailyCalories != 1900 || s.DailyMeals != 5 {
		t.Errorf("Load = %+v, want 1900 kcal / 5 meals", s)
	}
}
