package consume

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestParseItem(t *testing.T) {
	tests := []struct {
		in     string
		want   Item
		wantOK bool
	}{
		{"2 items of banana (182 cal from 2 × 91 cal per item, 0g protein, 46g carbs, 0g fats)", Item{"banana", 2, "item"}, true},
		{"150 grams of rice", Item{"rice", 150, "gram"}, true},
		{"1 Container of Greek Yogurt (150 cal)", Item{"greek yogurt", 1, "container"}, true},
		{"3 eggs (210 cal)", Item{"eggs", 3, "item"}, true},
		{"2.5 grams chicken breast", Item{"chicken breast", 2.5, "gram"}, true},
		{"2 bananas (182 cal)", Item{"bananas", 2, "item"}, true},
		{"4 tomato", Item{"tomato", 4, "item"}, true},
		{"banana (91 cal)", Item{}, false},
		{"some rice", Item{}, false},
		{"", Item{}, false},
		{"2 items of 7up", Item{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseItem(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v (got %+v)", ok, tt.wantOK, got)
			}
			if ok && got != tt.want {
				t.Errorf("ParseItem = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExtractMergesDuplicates(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	m := Extract([]string{
		"2 eggs of egg (140 cal)",
		"3 items of egg (210 cal)",
		"200 grams of chicken (220 cal)",
		"a pinch of salt",
	}, logger)

	if len(m) != 2 {
		t.Fatalf("len = %d, want 2: %v", len(m), m)
	}
	if m["egg"] != 5 {
		t.Errorf("egg = %v, want 5", m["egg"])
	}
	if m["chicken"] != 200 {
		t.Errorf("chicken = %v, want 200", m["chicken"])
	}
	if !strings.Contains(buf.String(), "a pinch of salt") {
		t.Errorf("unparsable line not logged: %q", buf.String())
	}
	if got := m.String(); got != "200 chicken, 5 egg" {
		t.Errorf("String = %q", got)
	}
}

func TestExtractEmpty(t *testing.T) {
	if m := Extract(nil, nil); len(m) != 0 {
		t.Errorf("Extract(nil) = %v, want empty", m)
	}
}
