package normalize

import (
	"log/slog"
	"regexp"
	"strings"
	"time"
)

var (
	reYearMonth = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
	reBareYear  = regexp.MustCompile(`^\d{4}$`)
)

// dateLayouts are tried in order for free-form date strings.
var dateLayouts = []string{
	"2006-01-02",
	"01/2006",
	"1/2006",
	"2006/01",
	"Jan 2006",
	"January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2006-01-02T15:04:05Z07:00",
}

// NormalizeDate maps a loosely-formatted date string onto YYYY-MM.
// "current"/"present"/"now" resolve against the supplied clock time;
// an empty input stays empty. A string no rule can interpret is returned
// trimmed and lowercased rather than failing the caller.
func NormalizeDate(raw string, now time.Time) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	if reYearMonth.MatchString(trimmed) {
		return trimmed
	}
	if reBareYear.MatchString(trimmed) {
		return trimmed + "-01"
	}

	lower := strings.ToLower(trimmed)
	switch lower {
	case "current", "present", "now":
		return now.Format("2006-01")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format("2006-01")
		}
	}

	slog.Warn("date_normalize_passthrough", "value", lower)
	return lower
}
