package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate formats a time as YYYY-MM-DD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ValidateSeason checks the NBA season identifier format, e.g. "2024-25".
// The suffix must be the last two digits of the starting year plus one.
func ValidateSeason(season string) error {
	parts := strings.Split(season, "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return fmt.Errorf("invalid season %q: want YYYY-YY", season)
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return fmt.Errorf("invalid season %q: want YYYY-YY", season)
	}
	suffix, err := strconv.Atoi(parts[1])
	if err != nil {
		return fmt.Errorf("invalid season %q: want YYYY-YY", season)
	}
	if (start+1)%100 != suffix {
		return fmt.Errorf("invalid season %q: end year does not follow start year", season)
	}
	return nil
}

// LookbackRange returns the inclusive [from, to] date strings covering the
// last n days ending at now.
func LookbackRange(now time.Time, days int) (string, string) {
	if days < 0 {
		days = 0
	}
	return FormatDate(now.AddDate(0, 0, -days)), FormatDate(now)
}
