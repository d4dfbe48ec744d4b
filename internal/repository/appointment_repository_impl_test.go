package repository

import (
	"context"
	"testing"
	"time"

	"hospital-management-backend/internal/domain/entity"
	"hospital-management-backend/internal/testutil"
)

func TestAppointmentRepository_VisibleHidesInactiveParticipants(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewAppointmentRepository()

	testutil.SeedDoctor(t, db, "DR1", true)
	testutil.SeedDoctor(t, db, "DR2", false)
	testutil.SeedPatient(t, db, "P1", true)
	testutil.SeedPatient(t, db, "P2", false)

	day := testutil.Date(2024, time.June, 10)
	testutil.SeedAppointment(t, db, entity.Appointment{AppointmentID: "A1", PatientID: "P1", DoctorID: "DR1", Date: day, Shift: entity.ShiftMorning})
	testutil.SeedAppointment(t, db, entity.Appointment{AppointmentID: "A2", PatientID: "P1", DoctorID: "DR2", Date: day, Shift: entity.ShiftMorning})
	testutil.SeedAppointment(t, db, entity.Appointment{AppointmentID: "A3", PatientID: "P2", DoctorID: "DR1", Date: day, Shift: entity.ShiftMorning})

	tests := []struct {
		id      string
		visible bool
	}{
		{"A1", true},
		{"A2", false},
		{"A3", false},
		{"missing", false},
	}
	for _, tt := range tests {
		got, err := repo.FindVisibleByID(ctx, db, tt.id)
		if err != nil {
			t.Fatalf("FindVisibleByID(%s): %v", tt.id, err)
		}
		if (got != nil) != tt.visible {
			t.Errorf("FindVisibleByID(%s) visible=%v, want %v", tt.id, got != nil, tt.visible)
		}
	}

	// Hidden rows still exist in storage.
	exists, err := repo.ExistsByID(ctx, db, "A2")
	if err != nil || !exists {
		t.Errorf("expected A2 to exist, got %v (%v)", exists, err)
	}

	got, err := repo.FindVisibleByParticipants(ctx, db, "P2", "DR1")
	if err != nil || got != nil {
		t.Errorf("expected inactive patient pair to be hidden, got %v (%v)", got, err)
	}
}

func TestAppointmentRepository_FindVisibleByParticipantsReturnsMostRecent(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewAppointmentRepository()

	testutil.SeedDoctor(t, db, "DR1", true)
	testutil.SeedPatient(t, db, "P1", true)

	testutil.SeedAppointment(t, db, entity.Appointment{AppointmentID: "OLD", PatientID: "P1", DoctorID: "DR1", Date: testutil.Date(2024, time.June, 3), Shift: entity.ShiftMorning})
	testutil.SeedAppointment(t, db, entity.Appointment{AppointmentID: "NEW", PatientID: "P1", DoctorID: "DR1", Date: testutil.Date(2024, time.June, 12), Shift: entity.ShiftEvening})

	got, err := repo.FindVisibleByParticipants(ctx, db, "P1", "DR1")
	if err != nil || got == nil {
		t.Fatalf("FindVisibleByParticipants: %v %v", got, err)
	}
	if got.AppointmentID != "NEW" {
		t.Errorf("expected most recent appointment, got %s", got.AppointmentID)
	}
}

func TestAppointmentRepository_MarkMissedBefore(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewAppointmentRepository()

	testutil.SeedDoctor(t, db, "DR1", true)
	testutil.SeedPatient(t, db, "P1", true)

	past := testutil.Date(2024, time.June, 9)
	today := testutil.Date(2024, time.June, 10)
	testutil.SeedAppointment(t, db, entity.Appointment{AppointmentID: "PAST-BOOKED", PatientID: "P1", DoctorID: "DR1", Date: past, Shift: entity.ShiftMorning})
	testutil.SeedAppointment(t, db, entity.Appointment{AppointmentID: "PAST-DONE", PatientID: "P1", DoctorID: "DR1", Date: past, Shift: entity.ShiftEvening, Status: entity.AppointmentStatusCompleted})
	testutil.SeedAppointment(t, db, entity.Appointment{AppointmentID: "TODAY", PatientID: "P1", DoctorID: "DR1", Date: today, Shift: entity.ShiftMorning})

	affected, err := repo.MarkMissedBefore(ctx, db, today)
	if err != nil {
		t.Fatalf("MarkMissedBefore: %v", err)
	}
	if affected != 1 {
		t.Errorf("expected 1 row, got %d", affected)
	}

	want := map[string]entity.AppointmentStatus{
		"PAST-BOOKED": entity.AppointmentStatusMissed,
		"PAST-DONE":   entity.AppointmentStatusCompleted,
		"TODAY":       entity.AppointmentStatusBooked,
	}
	all, err := repo.FindAll(ctx, db, entity.AppointmentFilter{})
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	for _, a := range all {
		if a.Status != want[a.AppointmentID] {
			t.Errorf("%s: got %s, want %s", a.AppointmentID, a.Status, want[a.AppointmentID])
		}
	}

	affected, err = repo.MarkMissedBefore(ctx, db, today)
	if err != nil || affected != 0 {
		t.Errorf("expected rerun to change nothing, got %d (%v)", affected, err)
	}
}

func TestAppointmentRepository_FindAllFilters(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewAppointmentRepository()

	testutil.SeedDoctor(t, db, "DR1", true)
	testutil.SeedDoctor(t, db, "DR2", true)
	testutil.SeedPatient(t, db, "P1", true)

	day := testutil.Date(2024, time.June, 10)
	testutil.SeedAppointment(t, db, entity.Appointment{AppointmentID: "A1", PatientID: "P1", DoctorID: "DR1", Date: day, Shift: entity.ShiftMorning})
	testutil.SeedAppointment(t, db, entity.Appointment{AppointmentID: "A2", PatientID: "P1", DoctorID: "DR2", Date: day, Shift: entity.ShiftMorning, Status: entity.AppointmentStatusCancelled})

	tests := []struct {
		name   string
		filter entity.AppointmentFilter
		want   int
	}{
		{"all", entity.AppointmentFilter{}, 2},
		{"by doctor", entity.AppointmentFilter{DoctorID: "DR2"}, 1},
		{"by status", entity.AppointmentFilter{Status: entity.AppointmentStatusBooked}, 1},
		{"by patient and status", entity.AppointmentFilter{PatientID: "P1", Status: entity.AppointmentStatusMissed}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindAll(ctx, db, tt.filter)
			if err != nil {
				t.Fatalf("FindAll: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestTreatmentRepository_DeleteByParticipant(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	treatments := NewTreatmentRepository()

	testutil.SeedDoctor(t, db, "DR1", true)
	testutil.SeedDoctor(t, db, "DR2", true)
	testutil.SeedPatient(t, db, "P1", true)

	day := testutil.Date(2024, time.June, 10)
	testutil.SeedAppointment(t, db, entity.Appointment{AppointmentID: "A1", PatientID: "P1", DoctorID: "DR1", Date: day, Shift: entity.ShiftMorning})
	testutil.SeedAppointment(t, db, entity.Appointment{AppointmentID: "A2", PatientID: "P1", DoctorID: "DR2", Date: day, Shift: entity.ShiftMorning})
	for _, id := range []string{"A1", "A2"} {
		if err := treatments.Create(ctx, db, &entity.Treatment{TreatmentID: "T" + id, AppointmentID: id}); err != nil {
			t.Fatalf("create treatment: %v", err)
		}
	}

	deleted, err := treatments.DeleteByDoctorID(ctx, db, "DR1")
	if err != nil || deleted != 1 {
		t.Fatalf("DeleteByDoctorID: deleted=%d err=%v", deleted, err)
	}

	exists, _ := treatments.ExistsByAppointmentID(ctx, db, "A1")
	if exists {
		t.Error("expected A1 treatment removed")
	}
	exists, _ = treatments.ExistsByAppointmentID(ctx, db, "A2")
	if !exists {
		t.Error("expected A2 treatment kept")
	}
}
