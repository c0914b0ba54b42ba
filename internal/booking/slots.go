package booking

import (
	"fmt"

	"github.com/courtbook/courtbook/internal/clock"
)

// Candidate start times step every 30 minutes regardless of the requested
// duration, so a 90-minute request still offers 08:00, 08:30, 09:00, ...
const slotStepMinutes = 30

// Slot is a candidate reservation interval within one club-local day.
// Times are "HH:MM" 24-hour strings.
type Slot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// GenerateSlots produces the ordered candidate slots between opensAt and
// closesAt for a booking of durationMinutes. The last slot emitted is the
// latest one whose end still fits inside the operating window; partial slots
// are never emitted.
func GenerateSlots(opensAt, closesAt string, durationMinutes int) ([]Slot, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %d", durationMinutes)
	}

	open, err := clock.ParseClockTime(opensAt)
	if err != nil {
		return nil, fmt.Errorf("invalid opening time: %w", err)
	}
	closeAt, err := clock.ParseClockTime(closesAt)
	if err != nil {
		return nil, fmt.Errorf("invalid closing time: %w", err)
	}
	if closeAt <= open {
		return nil, fmt.Errorf("closing time %s is not after opening time %s", closesAt, opensAt)
	}

	var slots []Slot
	for start := open; start+durationMinutes <= closeAt; start += slotStepMinutes {
		slots = append(slots, Slot{
			StartTime: clock.FormatClockTime(start),
			EndTime:   clock.FormatClockTime(start + durationMinutes),
		})
	}
	return slots, nil
}
