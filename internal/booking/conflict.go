package booking

import (
	"time"

	"github.com/courtbook/courtbook/internal/clock"
)

// Conflict reasons reported on unavailable slots.
const (
	ReasonOccupied = "occupied"
	ReasonPast     = "past_time"
)

// Existing is an already-booked interval on the court/day under evaluation.
// Callers are expected to have filtered out CANCELLED bookings.
type Existing struct {
	BookingID  int64
	PlayerName string
	StartTime  string
	EndTime    string
}

// Conflict explains why a slot is unavailable.
type Conflict struct {
	BookingID  int64  `json:"bookingId,omitempty"`
	PlayerName string `json:"playerName,omitempty"`
	Reason     string `json:"reason"`
}

// AnnotatedSlot is a candidate slot with its availability verdict.
type AnnotatedSlot struct {
	Slot
	Available bool      `json:"available"`
	Conflict  *Conflict `json:"conflict,omitempty"`
}

// Summary counts the verdicts over a day's annotated slots.
type Summary struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Occupied  int `json:"occupied"`
}

// Overlaps reports whether two same-day intervals, given as minutes after
// midnight, overlap. Intervals are half-open: [s1,e1) and [s2,e2).
func Overlaps(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

// AnnotateParams carries the context needed to judge a day's candidate slots.
type AnnotateParams struct {
	Date     string // club-local "YYYY-MM-DD"
	Timezone string
	Now      time.Time
	// BufferMinutes is reserved turnover time after each booking; it widens
	// both sides of the overlap comparison.
	BufferMinutes int
}

// Annotate marks each candidate slot as available or not against the existing
// bookings. A slot whose start instant has already passed is reported as
// past_time, but only when the requested date is "today" in club-local terms;
// the past check wins over an overlap on the same slot. Output order matches
// input order.
func Annotate(slots []Slot, existing []Existing, p AnnotateParams) ([]AnnotatedSlot, error) {
	isToday, err := clock.SameLocalDay(p.Date, p.Now, p.Timezone)
	if err != nil {
		return nil, err
	}

	out := make([]AnnotatedSlot, 0, len(slots))
	for _, slot := range slots {
		annotated, err := annotateOne(slot, existing, p, isToday)
		if err != nil {
			return nil, err
		}
		out = append(out, annotated)
	}
	return out, nil
}

func annotateOne(slot Slot, existing []Existing, p AnnotateParams, isToday bool) (AnnotatedSlot, error) {
	if isToday {
		startInstant, err := clock.SlotStart(p.Date, slot.StartTime, p.Timezone)
		if err != nil {
			return AnnotatedSlot{}, err
		}
		if startInstant.Before(p.Now) {
			return AnnotatedSlot{
				Slot:     slot,
				Conflict: &Conflict{Reason: ReasonPast},
			}, nil
		}
	}

	start, err := clock.ParseClockTime(slot.StartTime)
	if err != nil {
		return AnnotatedSlot{}, err
	}
	end, err := clock.ParseClockTime(slot.EndTime)
	if err != nil {
		return AnnotatedSlot{}, err
	}

	for _, b := range existing {
		bStart, err := clock.ParseClockTime(b.StartTime)
		if err != nil {
			return AnnotatedSlot{}, err
		}
		bEnd, err := clock.ParseClockTime(b.EndTime)
		if err != nil {
			return AnnotatedSlot{}, err
		}
		if Overlaps(start, end+p.BufferMinutes, bStart, bEnd+p.BufferMinutes) {
			return AnnotatedSlot{
				Slot: slot,
				Conflict: &Conflict{
					BookingID:  b.BookingID,
					PlayerName: b.PlayerName,
					Reason:     ReasonOccupied,
				},
			}, nil
		}
	}

	return AnnotatedSlot{Slot: slot, Available: true}, nil
}

// Summarize tallies a day's annotated slots.
func Summarize(slots []AnnotatedSlot) Summary {
	s := Summary{Total: len(slots)}
	for _, slot := range slots {
		if slot.Available {
			s.Available++
		} else if slot.Conflict != nil && slot.Conflict.Reason == ReasonOccupied {
			s.Occupied++
		}
	}
	return s
}

// HasConflict reports whether the candidate interval overlaps any existing
// booking, honoring the turnover buffer. Used by the creation path inside its
// transaction to guard against double-booking.
func HasConflict(startTime, endTime string, existing []Existing, bufferMinutes int) (bool, *Conflict, error) {
	start, err := clock.ParseClockTime(startTime)
	if err != nil {
		return false, nil, err
	}
	end, err := clock.ParseClockTime(endTime)
	if err != nil {
		return false, nil, err
	}
	for _, b := range existing {
		bStart, err := clock.ParseClockTime(b.StartTime)
		if err != nil {
			return false, nil, err
		}
		bEnd, err := clock.ParseClockTime(b.EndTime)
		if err != nil {
			return false, nil, err
		}
		if Overlaps(start, end+bufferMinutes, bStart, bEnd+bufferMinutes) {
			return true, &Conflict{
				BookingID:  b.BookingID,
				PlayerName: b.PlayerName,
				Reason:     ReasonOccupied,
			}, nil
		}
	}
	return false, nil, nil
}
