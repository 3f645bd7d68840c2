// Package analysis extracts the structured part of an image-analysis reply.
//
// The analysis service answers in prose that usually embeds a JSON object,
// either in a ```json fence or bare. When such an object parses, its calorie
// and freshness fields are surfaced; otherwise the raw text is kept.
package analysis

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var (
	fencePattern  = regexp.MustCompile("```json\\s*([\\s\\S]*?)\\s*```")
	objectPattern = regexp.MustCompile(`\{[\s\S]*\}`)
)

// Result is a parsed analysis reply.
type Result struct {
	Structured bool
	Calories   string
	Freshness  string
	Raw        string
}

// Parse inspects the reply text.
func Parse(response string) Result {
	res := Result{Raw: response}

	var candidate string
	if m := fencePattern.FindStringSubmatch(response); m != nil {
		candidate = m[1]
	} else if m := objectPattern.FindString(response); m != "" {
		candidate = m
	} else {
		return res
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(candidate), &fields); err != nil {
		return res
	}

	res.Structured = true
	res.Calories = text(fields["calories"])
	for _, key := range []string{"freshness", "shelf_life", "last"} {
		if v := text(fields[key]); v != "" {
			res.Freshness = v
			break
		}
	}
	return res
}

// Lines returns the display lines for r: labeled fields when structured,
// the raw reply split on newlines otherwise.
func (r Result) Lines() []string {
	if !r.Structured {
		return strings.Split(strings.TrimRight(r.Raw, "\n"), "\n")
	}
	var out []string
	if r.Calories != "" {
		out = append(out, "Calories:  "+r.Calories)
	}
	if r.Freshness != "" {
		out = append(out, "Freshness: "+r.Freshness)
	}
	return out
}

// text renders a JSON scalar; zero values and empty strings render as "".
func text(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		if x == 0 {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "true"
		}
		return ""
	case nil:
		return ""
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}
