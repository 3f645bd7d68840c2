// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatCalories formats a calorie value rounded to a whole number with
// comma separators, e.g. 1234.6 -> "1,235 cal".
func FormatCalories(cal float64) string {
	return FormatNumber(int64(math.Round(cal))) + " cal"
}

// FormatGrams formats a macro amount in grams. Whole values drop the decimal.
// e.g., 12 -> "12g", 12.25 -> "12.3g"
func FormatGrams(g float64) string {
	if g == math.Trunc(g) {
		return strconv.FormatFloat(g, 'f', 0, 64) + "g"
	}
	return strconv.FormatFloat(g, 'f', 1, 64) + "g"
}

// FormatQuantity formats an inventory quantity without trailing zeros.
// e.g., 2 -> "2", 0.5 -> "0.5", 1.25 -> "1.25"
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// FormatServings formats a serving count with its unit.
func FormatServings(s float64) string {
	if s == 1 {
		return "1 serving"
	}
	return FormatQuantity(s) + " servings"
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a whole-number percentage.
func FormatPercent(pct int) string {
	return fmt.Sprintf("%d%%", pct)
}

// FormatTime formats a meal timestamp as local wall-clock time.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "--:--"
	}
	return t.Local().Format("15:04")
}

// FormatDaysLeft describes how many days remain before an expiry date.
// e.g., -2 -> "expired 2d ago", 0 -> "today", 1 -> "1 day", 5 -> "5 days"
func FormatDaysLeft(days int) string {
	switch {
	case days < 0:
		return fmt.Sprintf("expired %dd ago", -days)
	case days == 0:
		return "today"
	case days == 1:
		return "1 day"
	default:
		return fmt.Sprintf("%d days", days)
	}
}

// MaskSecret keeps the last four characters of s visible.
func MaskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
