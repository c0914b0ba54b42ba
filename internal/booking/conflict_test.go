package booking

import (
	"testing"
	"time"

	"github.com/courtbook/courtbook/internal/clock"
)

func TestOverlapsSymmetry(t *testing.T) {
	intervals := [][2]int{
		{600, 660}, // 10:00-11:00
		{630, 690},
		{660, 720},
		{540, 600},
		{600, 630},
	}
	for _, a := range intervals {
		for _, b := range intervals {
			ab := Overlaps(a[0], a[1], b[0], b[1])
			ba := Overlaps(b[0], b[1], a[0], a[1])
			if ab != ba {
				t.Errorf("overlaps(%v,%v)=%v but overlaps(%v,%v)=%v", a, b, ab, b, a, ba)
			}
		}
	}
}

func TestOverlapsHalfOpen(t *testing.T) {
	// Back-to-back intervals share a boundary but do not overlap.
	if Overlaps(600, 660, 660, 720) {
		t.Error("[10:00,11:00) should not overlap [11:00,12:00)")
	}
	if !Overlaps(600, 660, 630, 690) {
		t.Error("[10:00,11:00) should overlap [10:30,11:30)")
	}
	if !Overlaps(600, 660, 540, 720) {
		t.Error("containment should count as overlap")
	}
}

func TestAnnotateMarksAllOverlappingSlots(t *testing.T) {
	existing := []Existing{
		{BookingID: 7, PlayerName: "Ana Torres", StartTime: "10:00", EndTime: "11:00"},
	}
	// Future date so the past-time rule never fires.
	params := AnnotateParams{
		Date:     "2030-06-01",
		Timezone: "America/Mexico_City",
		Now:      time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	for _, duration := range []int{30, 60, 90} {
		slots, err := GenerateSlots("08:00", "14:00", duration)
		if err != nil {
			t.Fatalf("duration %d: %v", duration, err)
		}
		annotated, err := Annotate(slots, existing, params)
		if err != nil {
			t.Fatalf("duration %d: %v", duration, err)
		}
		for _, s := range annotated {
			start := minutesForTest(t, s.StartTime)
			end := minutesForTest(t, s.EndTime)
			overlapping := Overlaps(start, end, 600, 660)
			if overlapping && s.Available {
				t.Errorf("duration %d: slot %s-%s overlaps booking but marked available", duration, s.StartTime, s.EndTime)
			}
			if overlapping {
				if s.Conflict == nil || s.Conflict.Reason != ReasonOccupied {
					t.Errorf("duration %d: slot %s-%s missing occupied conflict", duration, s.StartTime, s.EndTime)
				} else if s.Conflict.BookingID != 7 || s.Conflict.PlayerName != "Ana Torres" {
					t.Errorf("duration %d: slot %s-%s conflict = %+v", duration, s.StartTime, s.EndTime, s.Conflict)
				}
			}
			if !overlapping && !s.Available {
				t.Errorf("duration %d: slot %s-%s free but marked unavailable: %+v", duration, s.StartTime, s.EndTime, s.Conflict)
			}
		}
	}
}

func minutesForTest(t *testing.T, hhmm string) int {
	t.Helper()
	m, err := clock.ParseClockTime(hhmm)
	if err != nil {
		t.Fatalf("bad time %q: %v", hhmm, err)
	}
	return m
}

func TestAnnotatePastTimeOnlyAppliesToday(t *testing.T) {
	slots := []Slot{
		{StartTime: "08:00", EndTime: "09:00"},
		{StartTime: "12:00", EndTime: "13:00"},
	}
	// 10:00 club-local on 2024-06-01 in Mexico City is 16:00 UTC.
	now := time.Date(2024, 6, 1, 16, 0, 0, 0, time.UTC)

	annotated, err := Annotate(slots, nil, AnnotateParams{
		Date:     "2024-06-01",
		Timezone: "America/Mexico_City",
		Now:      now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if annotated[0].Available {
		t.Error("08:00 slot should be past at 10:00 local")
	}
	if annotated[0].Conflict == nil || annotated[0].Conflict.Reason != ReasonPast {
		t.Errorf("expected past_time conflict, got %+v", annotated[0].Conflict)
	}
	if !annotated[1].Available {
		t.Errorf("12:00 slot should still be available, got %+v", annotated[1].Conflict)
	}

	// Same wall-clock moment, but requesting tomorrow: nothing is past.
	annotated, err = Annotate(slots, nil, AnnotateParams{
		Date:     "2024-06-02",
		Timezone: "America/Mexico_City",
		Now:      now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range annotated {
		if !s.Available {
			t.Errorf("future-date slot %s marked unavailable: %+v", s.StartTime, s.Conflict)
		}
	}
}

func TestAnnotatePastWinsOverOccupied(t *testing.T) {
	slots := []Slot{{StartTime: "08:00", EndTime: "09:00"}}
	existing := []Existing{
		{BookingID: 3, PlayerName: "Luis", StartTime: "08:00", EndTime: "09:00"},
	}
	now := time.Date(2024, 6, 1, 16, 0, 0, 0, time.UTC) // 10:00 local

	annotated, err := Annotate(slots, existing, AnnotateParams{
		Date:     "2024-06-01",
		Timezone: "America/Mexico_City",
		Now:      now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if annotated[0].Conflict == nil || annotated[0].Conflict.Reason != ReasonPast {
		t.Errorf("expected past_time to win over occupied, got %+v", annotated[0].Conflict)
	}
}

func TestAnnotateBufferExtendsConflicts(t *testing.T) {
	slots := []Slot{
		{StartTime: "11:00", EndTime: "12:00"},
		{StartTime: "11:30", EndTime: "12:30"},
	}
	existing := []Existing{
		{BookingID: 9, PlayerName: "Marta", StartTime: "10:00", EndTime: "11:00"},
	}
	params := AnnotateParams{
		Date:          "2030-06-01",
		Timezone:      "America/Mexico_City",
		Now:           time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		BufferMinutes: 15,
	}

	annotated, err := Annotate(slots, existing, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 11:00 start falls inside the 15-minute turnover after the 11:00 end.
	if annotated[0].Available {
		t.Error("11:00 slot should be blocked by turnover buffer")
	}
	if !annotated[1].Available {
		t.Errorf("11:30 slot should clear the buffer, got %+v", annotated[1].Conflict)
	}
}

func TestHasConflict(t *testing.T) {
	existing := []Existing{
		{BookingID: 4, PlayerName: "Sofia", StartTime: "10:00", EndTime: "11:30"},
	}

	conflicted, c, err := HasConflict("11:00", "12:00", existing, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !conflicted {
		t.Fatal("expected conflict with 10:00-11:30 booking")
	}
	if c.BookingID != 4 {
		t.Errorf("conflict booking = %d, want 4", c.BookingID)
	}

	conflicted, _, err = HasConflict("11:30", "12:30", existing, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conflicted {
		t.Error("back-to-back interval should not conflict without buffer")
	}

	conflicted, _, err = HasConflict("11:30", "12:30", existing, 15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !conflicted {
		t.Error("back-to-back interval should conflict with 15-minute buffer")
	}
}

func TestSummarize(t *testing.T) {
	annotated := []AnnotatedSlot{
		{Slot: Slot{StartTime: "08:00"}, Available: true},
		{Slot: Slot{StartTime: "09:00"}, Conflict: &Conflict{Reason: ReasonOccupied}},
		{Slot: Slot{StartTime: "07:00"}, Conflict: &Conflict{Reason: ReasonPast}},
	}
	s := Summarize(annotated)
	if s.Total != 3 || s.Available != 1 || s.Occupied != 1 {
		t.Errorf("summary = %+v, want total=3 available=1 occupied=1", s)
	}
}
