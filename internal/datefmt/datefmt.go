// Package datefmt normalizes the capture dates and hours found on video
// records. The canonical stored form is YYYY-MM-DD.
package datefmt

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const ISOLayout = "2006-01-02"

// TimestampLayout is the stored timestamp form: UTC with milliseconds.
// Every value has the same width, so string order is time order.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

var ErrUnrecognized = errors.New("unrecognized date format")

// Normalize converts YYYY-MM-DD, DD/MM/YYYY (one or two digit day/month) and
// DD/MM/YY into YYYY-MM-DD. Two digit years below 50 map to 20xx.
func Normalize(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrUnrecognized
	}

	if strings.Contains(s, "-") {
		t, err := time.Parse(ISOLayout, s)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrUnrecognized, s)
		}
		return t.Format(ISOLayout), nil
	}

	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return "", fmt.Errorf("%w: %q", ErrUnrecognized, s)
	}

	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return "", fmt.Errorf("%w: %q", ErrUnrecognized, s)
	}

	switch len(parts[2]) {
	case 2:
		if year < 50 {
			year += 2000
		} else {
			year += 1900
		}
	case 4:
	default:
		return "", fmt.Errorf("%w: %q", ErrUnrecognized, s)
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date silently rolls 31/02 over into March.
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return "", fmt.Errorf("%w: %q is not a calendar date", ErrUnrecognized, s)
	}
	return t.Format(ISOLayout), nil
}

// IsCanonical reports whether s is already a valid YYYY-MM-DD date.
func IsCanonical(s string) bool {
	if len(s) != len(ISOLayout) {
		return false
	}
	_, err := time.Parse(ISOLayout, s)
	return err == nil
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// CanonicalTimestamp parses an RFC 3339 timestamp of any precision or offset
// and returns it in TimestampLayout.
func CanonicalTimestamp(ts string) (string, bool) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(ts))
	if err != nil {
		return "", false
	}
	return FormatTimestamp(t), true
}

// FromTimestamp returns the date portion of an RFC 3339 timestamp.
func FromTimestamp(ts string) (string, bool) {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return "", false
	}
	if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
		return t.UTC().Format(ISOLayout), true
	}
	if d, _, ok := strings.Cut(ts, "T"); ok && IsCanonical(d) {
		return d, true
	}
	return "", false
}

// ParseHour accepts the numeric shapes stored hours come in and reports
// whether the value is a valid hour of day.
func ParseHour(v any) (int, bool) {
	var h int
	switch n := v.(type) {
	case int:
		h = n
	case int32:
		h = int(n)
	case int64:
		h = int(n)
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		h = int(n)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		h = parsed
	default:
		return 0, false
	}
	if h < 0 || h > 23 {
		return 0, false
	}
	return h, true
}

// MonthWindow returns the first day of the month before and the last day of
// the month after the month containing ref, both as YYYY-MM-DD.
func MonthWindow(ref time.Time) (string, string) {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, -1, 0)
	end := first.AddDate(0, 2, -1)
	return start.Format(ISOLayout), end.Format(ISOLayout)
}
