package consume

import (
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
)

// Map is the quantity to remove per normalized ingredient name.
type Map map[string]float64

// Extract parses every line and sums quantities per name. Lines that cannot
// be parsed are logged to logger (when non-nil) and skipped.
func Extract(lines []string, logger *log.Logger) Map {
	out := Map{}
	for i, line := range lines {
		it, ok := ParseItem(line)
		if !ok {
			if logger != nil {
				logger.Printf("consume: could not parse item %d: %q", i+1, line)
			}
			continue
		}
		out[it.Name] += it.Quantity
	}
	return out
}

// Names returns the keys in sorted order.
func (m Map) Names() []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// String renders "2 banana, 150 rice" in name order.
func (m Map) String() string {
	parts := make([]string, 0, len(m))
	for _, name := range m.Names() {
		parts = append(parts, fmt.Sprintf("%s %s", strconv.FormatFloat(m[name], 'f', -1, 64), name))
	}
	return strings.Join(parts, ", ")
}
