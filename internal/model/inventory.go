package model

import (
	"math"
	"sort"
	"strings"
	"time"
)

// ExpiryLayout is the DD/MM/YYYY format the inventory service uses.
const ExpiryLayout = "02/01/2006"

// Expiry parses ExpectedExpiryDate in loc. ok is false when the date is
// missing or malformed.
func (it InventoryItem) Expiry(loc *time.Location) (time.Time, bool) {
	s := strings.TrimSpace(it.ExpectedExpiryDate)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(ExpiryLayout, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DaysUntilExpiry returns whole calendar days from now until the item's
// expiry date. ok is false when the expiry is unknown.
func (it InventoryItem) DaysUntilExpiry(now time.Time) (int, bool) {
	exp, ok := it.Expiry(now.Location())
	if !ok {
		return 0, false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return int(math.Round(exp.Sub(today).Hours() / 24)), true
}

// SortByExpiry orders items soonest-expiring first. Items without a valid
// date go last; ties keep their original order.
func SortByExpiry(items []InventoryItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, aok := items[i].Expiry(time.UTC)
		b, bok := items[j].Expiry(time.UTC)
		switch {
		case aok && bok:
			return a.Before(b)
		case aok:
			return true
		default:
			return false
		}
	})
}
