// Package settings loads and coerces the user's daily goals from the
// persisted settings record.
//
// The record is written by whatever edits settings (CLI, setup form, TUI) with
// values exactly as entered; coercion to integers happens on read, falling
// back to the previous (or default) value when a field cannot be used.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/foogie-app/foogie/internal/model"
	"github.com/foogie-app/foogie/internal/store"
)

// Recognized field names in the settings record.
const (
	FieldDailyCalories       = "dailyCalories"
	FieldDailyMeals          = "dailyMeals"
	FieldShowCalorieProgress = "showCalorieProgress"
)

// Decode builds Settings from a raw settings record. Absent or malformed
// input yields the defaults.
func Decode(raw []byte) model.Settings {
	var fields map[string]any
	if len(raw) == 0 || json.Unmarshal(raw, &fields) != nil || fields == nil {
		return model.DefaultSettings()
	}
	return Merge(model.DefaultSettings(), fields)
}

// Merge applies the recognized fields of partial on top of cur. Integer
// fields that cannot be coerced to a positive integer keep cur's value;
// unrecognized fields are ignored.
func Merge(cur model.Settings, partial map[string]any) model.Settings {
	next := cur
	if v, ok := partial[FieldDailyCalories]; ok {
		next.DailyCalories = CoerceInt(v, cur.DailyCalories)
	}
	if v, ok := partial[FieldDailyMeals]; ok {
		next.DailyMeals = CoerceInt(v, cur.DailyMeals)
	}
	if v, ok := partial[FieldShowCalorieProgress]; ok {
		// Only an explicit false hides the progress banner.
		b, isBool := v.(bool)
		next.ShowCalorieProgress = !(isBool && !b)
	}
	return next
}

// CoerceInt converts v to a positive integer the way a lenient form field
// would be read: numbers are truncated, strings contribute their leading
// integer ("12 kcal" is 12). Anything else, zero, or a negative result
// returns fallback.
func CoerceInt(v any, fallback int) int {
	var n int
	var ok bool

	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) || math.Abs(x) > math.MaxInt32 {
			return fallback
		}
		n, ok = int(x), true
	case int:
		n, ok = x, true
	case int64:
		n, ok = int(x), true
	case json.Number:
		n, ok = leadingInt(x.String())
	case string:
		n, ok = leadingInt(x)
	}

	if !ok || n <= 0 {
		return fallback
	}
	return n
}

func leadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Load reads and decodes the settings record from kv.
func Load(ctx context.Context, kv store.KV) (model.Settings, error) {
	raw, err := kv.Get(ctx, store.KeySettings)
	if errors.Is(err, store.ErrNotFound) {
		return model.DefaultSettings(), nil
	}
	if err != nil {
		return model.DefaultSettings(), fmt.Errorf("reading settings: %w", err)
	}
	return Decode(raw), nil
}

// Save merges values into the stored settings record as given, keeping any
// fields it does not mention. A malformed existing record is replaced.
func Save(ctx context.Context, kv store.KV, values map[string]any) error {
	err := kv.Update(ctx, store.KeySettings, func(cur []byte) ([]byte, error) {
		fields := map[string]any{}
		if len(cur) > 0 {
			if json.Unmarshal(cur, &fields) != nil || fields == nil {
				fields = map[string]any{}
			}
		}
		for k, v := range values {
			fields[k] = v
		}
		return json.Marshal(fields)
	})
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}
