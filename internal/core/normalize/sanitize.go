package normalize

import (
	"encoding/json"
	"strings"
	"time"
)

// dateKeys are routed through NormalizeDate instead of plain text
// sanitization when walking parsed structures.
var dateKeys = map[string]struct{}{
	"startDate":       {},
	"endDate":         {},
	"graduationYear":  {},
	"start_date":      {},
	"end_date":        {},
	"graduation_year": {},
}

// SanitizeText strips ASCII control characters, escapes bare backslash
// and double-quote sequences, collapses whitespace runs into single
// spaces and trims the result. Idempotent: already-escaped pairs are
// left alone.
func SanitizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\\':
			if i+1 < len(runes) && (runes[i+1] == '\\' || runes[i+1] == '"') {
				b.WriteRune(r)
				b.WriteRune(runes[i+1])
				i++
			} else {
				b.WriteString(`\\`)
			}
		case r == '"':
			b.WriteString(`\"`)
		case r == '\n' || r == '\r' || r == '\t':
			b.WriteRune(' ')
		case r < 0x20:
			// drop remaining control characters
		default:
			b.WriteRune(r)
		}
	}

	return strings.TrimSpace(collapseSpaces(b.String()))
}

func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inRun := false
	for _, r := range s {
		if r == ' ' {
			if !inRun {
				b.WriteRune(' ')
			}
			inRun = true
			continue
		}
		inRun = false
		b.WriteRune(r)
	}
	return b.String()
}

// SanitizeDeep walks a nested structure of mappings, sequences and
// scalars, sanitizing every string it finds. Date-named keys are routed
// through NormalizeDate. Non-string scalars pass through untouched.
func SanitizeDeep(value any, now time.Time) any {
	switch v := value.(type) {
	case string:
		return SanitizeText(v)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			if _, isDate := dateKeys[k]; isDate {
				if s, ok := item.(string); ok {
					out[k] = NormalizeDate(s, now)
					continue
				}
			}
			out[k] = SanitizeDeep(item, now)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = SanitizeDeep(item, now)
		}
		return out
	default:
		return v
	}
}

// ValidateSerializable reports whether the value survives a JSON
// round-trip. Cyclic values and unsupported types fail; callers must not
// persist a value that fails this check.
func ValidateSerializable(value any) bool {
	_, err := json.Marshal(value)
	return err == nil
}
