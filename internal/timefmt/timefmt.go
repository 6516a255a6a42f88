// Package timefmt renders receiving times for display.
package timefmt

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// NotAvailable is shown when no time was given.
const NotAvailable = "N/A"

// ErrInvalidTime is returned for input that is not a 24-hour "HH:MM" clock time.
var ErrInvalidTime = errors.New("time must be in HH:MM 24-hour format")

// Parse validates a 24-hour "HH:MM" string. Single-digit hours are accepted.
func Parse(hhmm string) (time.Time, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(hhmm))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, hhmm)
	}
	return t, nil
}

// Format12Hour converts "14:05" to "02:05 PM".
func Format12Hour(hhmm string) (string, error) {
	t, err := Parse(hhmm)
	if err != nil {
		return "", err
	}
	return t.Format("03:04 PM"), nil
}

// Display is Format12Hour for views: empty input becomes NotAvailable and
// input that cannot be parsed is shown unchanged.
func Display(hhmm string) string {
	if strings.TrimSpace(hhmm) == "" {
		return NotAvailable
	}
	s, err := Format12Hour(hhmm)
	if err != nil {
		return hhmm
	}
	return s
}
