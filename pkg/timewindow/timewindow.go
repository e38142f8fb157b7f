// Package timewindow turns a requested calendar day into the absolute,
// half-open interval that covers it in a civil timezone.
package timewindow

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"

	KeywordToday    = "today"
	KeywordTomorrow = "tomorrow"
)

var ErrInvalidDateFormat = errors.New("invalid date format")

// DateFormatError keeps the rejected input for the caller's error message.
type DateFormatError struct {
	Input string
	Err   error
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("%v: %q (expected %s)", ErrInvalidDateFormat, e.Input, DateLayout)
}

func (e *DateFormatError) Unwrap() []error {
	return []error{ErrInvalidDateFormat, e.Err}
}

// DayWindow is local midnight to the next local midnight. The absolute pair is
// the same instants in UTC; query it as ts >= StartAbsolute AND ts < EndAbsolute.
type DayWindow struct {
	StartLocal    time.Time
	EndLocal      time.Time
	StartAbsolute time.Time
	EndAbsolute   time.Time
}

// Date is the civil date the window covers.
func (w DayWindow) Date() string {
	return w.StartLocal.Format(DateLayout)
}

// Duration is 23h, 24h or 25h depending on daylight-saving transitions.
func (w DayWindow) Duration() time.Duration {
	return w.EndAbsolute.Sub(w.StartAbsolute)
}

// Contains reports whether ts falls in [StartAbsolute, EndAbsolute).
func (w DayWindow) Contains(ts time.Time) bool {
	return !ts.Before(w.StartAbsolute) && ts.Before(w.EndAbsolute)
}

// Resolve picks the day: explicitDay when given (must be YYYY-MM-DD),
// otherwise the day after now's civil day for the keyword "tomorrow",
// otherwise now's civil day.
func Resolve(explicitDay, relativeKeyword string, now time.Time, zone *time.Location) (DayWindow, error) {
	if zone == nil {
		zone = time.UTC
	}

	explicitDay = strings.TrimSpace(explicitDay)
	if explicitDay != "" {
		day, err := time.ParseInLocation(DateLayout, explicitDay, zone)
		if err != nil {
			return DayWindow{}, &DateFormatError{Input: explicitDay, Err: err}
		}
		return ForDate(day.Year(), day.Month(), day.Day(), zone), nil
	}

	y, m, d := now.In(zone).Date()
	if strings.EqualFold(strings.TrimSpace(relativeKeyword), KeywordTomorrow) {
		d++
	}
	return ForDate(y, m, d, zone), nil
}

// ForDate builds the window for a civil date. Out-of-range days normalise the
// way time.Date does, so day 32 of January is February 1st.
func ForDate(year int, month time.Month, day int, zone *time.Location) DayWindow {
	start := time.Date(year, month, day, 0, 0, 0, 0, zone)
	end := start.AddDate(0, 0, 1)
	return DayWindow{
		StartLocal:    start,
		EndLocal:      end,
		StartAbsolute: start.UTC(),
		EndAbsolute:   end.UTC(),
	}
}
