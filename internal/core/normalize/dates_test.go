package normalize

import (
	"testing"
	"time"
)

func TestNormalizeDate(t *testing.T) {
	now := time.Date(2026, time.September, 1, 8, 30, 0, 0, time.UTC)

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"already normalized", "2023-06", "2023-06"},
		{"bare year", "2023", "2023-01"},
		{"current", "Current", "2026-09"},
		{"present", "PRESENT", "2026-09"},
		{"now", "now", "2026-09"},
		{"full date", "2023-06-15", "2023-06"},
		{"month name", "Jun 2023", "2023-06"},
		{"long month name", "January 2024", "2024-01"},
		{"slash form", "06/2023", "2023-06"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"garbage", "garbage", "garbage"},
		{"garbage keeps trimmed lowercase", "  Not A Date  ", "not a date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeDate(tc.in, now); got != tc.want {
				t.Fatalf("NormalizeDate(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
