package entity

import (
	"testing"
	"time"
)

func TestParseStatusUpdate(t *testing.T) {
	tests := []struct {
		in   string
		want AppointmentStatus
		ok   bool
	}{
		{"complete", AppointmentStatusCompleted, true},
		{"Completed", AppointmentStatusCompleted, true},
		{"cancel", AppointmentStatusCancelled, true},
		{"CANCELLED", AppointmentStatusCancelled, true},
		{"canceled", AppointmentStatusCancelled, true},
		{"missed", AppointmentStatusMissed, true},
		{" Missed ", AppointmentStatusMissed, true},
		{"Booked", "", false},
		{"done", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseStatusUpdate(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseStatusUpdate(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestShiftValid(t *testing.T) {
	if !ShiftMorning.Valid() || !ShiftEvening.Valid() {
		t.Fatal("expected Morning and Evening to be valid")
	}
	for _, s := range []Shift{"", "morning", "Night"} {
		if s.Valid() {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestAvailabilityIsOpen(t *testing.T) {
	a := NewClosedAvailability("DR1", time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC))
	if a.IsOpen(ShiftMorning) || a.IsOpen(ShiftEvening) {
		t.Fatal("new availability must be closed on both shifts")
	}

	a.MorningAvailable = true
	if !a.IsOpen(ShiftMorning) {
		t.Error("expected morning open")
	}
	if a.IsOpen(ShiftEvening) {
		t.Error("expected evening closed")
	}
	if a.IsOpen("Night") {
		t.Error("unknown shift must never be open")
	}
}

func TestPatientAgeOn(t *testing.T) {
	p := Patient{DateOfBirth: time.Date(2006, 6, 15, 0, 0, 0, 0, time.UTC)}

	if got := p.AgeOn(time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)); got != 17 {
		t.Errorf("day before birthday: got %d", got)
	}
	if got := p.AgeOn(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)); got != 18 {
		t.Errorf("on birthday: got %d", got)
	}
}

func TestJSONValueScan(t *testing.T) {
	in := JSON{"count": float64(3), "task": "expire"}
	v, err := in.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var out JSON
	if err := out.Scan(v); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if out["count"] != float64(3) || out["task"] != "expire" {
		t.Errorf("round trip mismatch: %v", out)
	}

	empty, _ := JSON{}.Value()
	if empty != nil {
		t.Errorf("expected nil value for empty JSON, got %v", empty)
	}
}
