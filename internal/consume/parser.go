// Package consume turns the free-text "inventory items used" lines of a
// generated recipe into quantities to remove from the fridge inventory.
//
// Lines look like "2 items of banana (182 cal from 2 x 91 cal per item, ...)".
// The extraction is heuristic: names containing digits or punctuation are not
// recognized.
package consume

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultUnit is used when a line has a quantity but no recognized unit.
const DefaultUnit = "item"

var (
	unitPattern   = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s+(items?|grams?|containers?|eggs?)\s+(?:of\s+)?([a-z\s]+?)(?:\s*\(|$)`)
	simplePattern = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s+([a-z\s]+?)(?:\s*\(|$)`)
)

// Item is one parsed usage line.
type Item struct {
	Name     string
	Quantity float64
	Unit     string
}

// ParseItem extracts the quantity, unit and food name from s.
// ok is false when s does not start with a quantity followed by a name.
func ParseItem(s string) (Item, bool) {
	if m := unitPattern.FindStringSubmatch(s); m != nil {
		qty, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return Item{
				Name:     normalizeName(m[3]),
				Quantity: qty,
				Unit:     strings.TrimSuffix(strings.ToLower(m[2]), "s"),
			}, true
		}
	}

	if m := simplePattern.FindStringSubmatch(s); m != nil {
		qty, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return Item{
				Name:     normalizeName(m[2]),
				Quantity: qty,
				Unit:     DefaultUnit,
			}, true
		}
	}

	return Item{}, false
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
