package timeutil

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2024-01-02")
	if err != nil {
		t.Fatalf("expected parse to succeed, got %v", err)
	}
	if got := FormatDate(parsed); got != "2024-01-02" {
		t.Fatalf("expected formatted date to round-trip, got %s", got)
	}
}

func TestValidateSeason(t *testing.T) {
	valid := []string{"2024-25", "1999-00", "2025-26"}
	for _, s := range valid {
		if err := ValidateSeason(s); err != nil {
			t.Fatalf("expected %q valid, got %v", s, err)
		}
	}
	invalid := []string{"", "2024", "2024-2025", "2024-27", "abcd-ef"}
	for _, s := range invalid {
		if err := ValidateSeason(s); err == nil {
			t.Fatalf("expected %q invalid", s)
		}
	}
}

func TestLookbackRange(t *testing.T) {
	now := time.Date(2024, 12, 10, 15, 0, 0, 0, time.UTC)
	from, to := LookbackRange(now, 3)
	if from != "2024-12-07" || to != "2024-12-10" {
		t.Fatalf("unexpected range %s..%s", from, to)
	}

	from, to = LookbackRange(now, -1)
	if from != to {
		t.Fatalf("expected empty lookback to collapse to today, got %s..%s", from, to)
	}
}
