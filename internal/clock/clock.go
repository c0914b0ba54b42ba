// Package clock resolves club-local calendar dates and wall-clock times to
// UTC instants. Clubs are configured with an IANA timezone, so all day
// boundary math has to go through a real location lookup rather than a fixed
// offset.
package clock

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTimezone = errors.New("unrecognized IANA timezone")
	ErrInvalidDate     = errors.New("invalid calendar date")
	ErrInvalidTime     = errors.New("invalid clock time")
)

const dateLayout = "2006-01-02"

// LoadLocation resolves an IANA timezone name.
func LoadLocation(tz string) (*time.Location, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, tz)
	}
	return loc, nil
}

// ParseDate parses a "YYYY-MM-DD" calendar date. The returned time carries no
// location; use DayBoundaries or SlotStart to anchor it to a club timezone.
func ParseDate(dateStr string) (time.Time, error) {
	d, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, dateStr)
	}
	return d, nil
}

// ParseClockTime parses an "HH:MM" 24-hour string into minutes after
// midnight. Only the canonical zero-padded form is accepted: stored times are
// compared lexicographically (operating-hours checks, the status sweep), so a
// "9:00" slipping through would sort after every "HH:MM" value.
func ParseClockTime(hhmm string) (int, error) {
	if len(hhmm) != 5 || hhmm[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, hhmm)
	}
	for _, i := range [4]int{0, 1, 3, 4} {
		if hhmm[i] < '0' || hhmm[i] > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTime, hhmm)
		}
	}
	h := int(hhmm[0]-'0')*10 + int(hhmm[1]-'0')
	m := int(hhmm[3]-'0')*10 + int(hhmm[4]-'0')
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, hhmm)
	}
	return h*60 + m, nil
}

// FormatClockTime renders minutes after midnight as "HH:MM".
func FormatClockTime(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// DayBoundaries returns the UTC instant range [start, end) covering local
// midnight-to-midnight of dateStr in the given timezone. The end boundary is
// derived by adding a calendar day in the location, so DST transition days
// yield 23- or 25-hour spans rather than a fixed 86400 seconds.
func DayBoundaries(dateStr, tz string) (time.Time, time.Time, error) {
	loc, err := LoadLocation(tz)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	d, err := ParseDate(dateStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start.UTC(), end.UTC(), nil
}

// NowIn returns the current instant in the given timezone.
func NowIn(tz string) (time.Time, error) {
	loc, err := LoadLocation(tz)
	if err != nil {
		return time.Time{}, err
	}
	return time.Now().In(loc), nil
}

// SlotStart resolves a club-local date and "HH:MM" start time to a UTC
// instant. Used for "has this slot already started" comparisons.
func SlotStart(dateStr, hhmm, tz string) (time.Time, error) {
	loc, err := LoadLocation(tz)
	if err != nil {
		return time.Time{}, err
	}
	d, err := ParseDate(dateStr)
	if err != nil {
		return time.Time{}, err
	}
	minutes, err := ParseClockTime(hhmm)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(d.Year(), d.Month(), d.Day(), minutes/60, minutes%60, 0, 0, loc).UTC(), nil
}

// SameLocalDay reports whether instant falls on dateStr when viewed in tz.
func SameLocalDay(dateStr string, instant time.Time, tz string) (bool, error) {
	loc, err := LoadLocation(tz)
	if err != nil {
		return false, err
	}
	if _, err := ParseDate(dateStr); err != nil {
		return false, err
	}
	return instant.In(loc).Format(dateLayout) == dateStr, nil
}
