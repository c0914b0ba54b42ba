package booking

import (
	"testing"
)

func TestGenerateSlotsSteppingIs30Minutes(t *testing.T) {
	slots, err := GenerateSlots("08:00", "10:00", 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Slot{
		{StartTime: "08:00", EndTime: "09:00"},
		{StartTime: "08:30", EndTime: "09:30"},
		{StartTime: "09:00", EndTime: "10:00"},
	}
	if len(slots) != len(want) {
		t.Fatalf("got %d slots, want %d: %v", len(slots), len(want), slots)
	}
	for i := range want {
		if slots[i] != want[i] {
			t.Errorf("slot %d = %v, want %v", i, slots[i], want[i])
		}
	}
}

func TestGenerateSlotsNoPartialSlotAtClose(t *testing.T) {
	// 90-minute bookings in an 08:00-10:00 window: only 08:00 and 08:30 fit.
	slots, err := GenerateSlots("08:00", "10:00", 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("got %d slots, want 2: %v", len(slots), slots)
	}
	last := slots[len(slots)-1]
	if last.EndTime != "10:00" {
		t.Errorf("last slot ends at %s, want 10:00", last.EndTime)
	}
}

func TestGenerateSlotsDurationLongerThanWindow(t *testing.T) {
	slots, err := GenerateSlots("08:00", "09:00", 120)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 0 {
		t.Errorf("expected no slots, got %v", slots)
	}
}

func TestGenerateSlotsOrderingIsChronological(t *testing.T) {
	slots, err := GenerateSlots("07:00", "22:00", 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(slots); i++ {
		if slots[i-1].StartTime >= slots[i].StartTime {
			t.Fatalf("slots out of order at %d: %s then %s", i, slots[i-1].StartTime, slots[i].StartTime)
		}
	}
}

func TestGenerateSlotsInvalidInput(t *testing.T) {
	if _, err := GenerateSlots("08:00", "10:00", 0); err == nil {
		t.Error("expected error for zero duration")
	}
	if _, err := GenerateSlots("10:00", "08:00", 60); err == nil {
		t.Error("expected error for closing before opening")
	}
	if _, err := GenerateSlots("8am", "10:00", 60); err == nil {
		t.Error("expected error for malformed opening time")
	}
}
