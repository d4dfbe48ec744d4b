package repository

import (
	"context"
	"testing"
	"time"

	"hospital-management-backend/internal/domain/entity"
	"hospital-management-backend/internal/testutil"
	"hospital-management-backend/pkg/dateutil"
)

func TestAvailabilityRepository_CreateMissingSkipsExisting(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewAvailabilityRepository()

	testutil.SeedDoctor(t, db, "DR1", true)
	monday := testutil.Date(2024, time.June, 10)
	testutil.SeedAvailability(t, db, "DR1", monday, true, false)

	rows := make([]entity.DoctorAvailability, 0, 7)
	for _, day := range dateutil.Week(monday) {
		rows = append(rows, entity.NewClosedAvailability("DR1", day))
	}

	created, err := repo.CreateMissing(ctx, db, rows)
	if err != nil {
		t.Fatalf("CreateMissing: %v", err)
	}
	if created != 6 {
		t.Errorf("expected 6 new rows, got %d", created)
	}

	got, err := repo.FindByDoctorAndDate(ctx, db, "DR1", monday)
	if err != nil || got == nil {
		t.Fatalf("FindByDoctorAndDate: %v %v", got, err)
	}
	if !got.MorningAvailable {
		t.Error("existing row must not be overwritten")
	}

	created, err = repo.CreateMissing(ctx, db, rows)
	if err != nil {
		t.Fatalf("second CreateMissing: %v", err)
	}
	if created != 0 {
		t.Errorf("expected no new rows on rerun, got %d", created)
	}
}

func TestAvailabilityRepository_FindByDoctorIDOrdersByDate(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewAvailabilityRepository()

	testutil.SeedDoctor(t, db, "DR1", true)
	testutil.SeedAvailability(t, db, "DR1", testutil.Date(2024, time.June, 12), false, false)
	testutil.SeedAvailability(t, db, "DR1", testutil.Date(2024, time.June, 10), false, false)
	testutil.SeedAvailability(t, db, "DR1", testutil.Date(2024, time.June, 11), false, false)

	rows, err := repo.FindByDoctorID(ctx, db, "DR1")
	if err != nil {
		t.Fatalf("FindByDoctorID: %v", err)
	}
	want := []string{"2024-06-10", "2024-06-11", "2024-06-12"}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(rows))
	}
	for i, row := range rows {
		if dateutil.Format(row.Date) != want[i] {
			t.Errorf("row %d: got %s, want %s", i, dateutil.Format(row.Date), want[i])
		}
	}

	missing, err := repo.FindByDoctorAndDate(ctx, db, "DR1", testutil.Date(2024, time.June, 20))
	if err != nil || missing != nil {
		t.Errorf("expected nil, nil for missing date, got %v, %v", missing, err)
	}
}

func TestAvailabilityRepository_UpdateShifts(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewAvailabilityRepository()

	day := testutil.Date(2024, time.June, 10)
	testutil.SeedDoctor(t, db, "DR1", true)
	testutil.SeedAvailability(t, db, "DR1", day, true, true)

	affected, err := repo.UpdateShifts(ctx, db, "DR1", day, false, true)
	if err != nil || affected != 1 {
		t.Fatalf("UpdateShifts: affected=%d err=%v", affected, err)
	}

	row, _ := repo.FindByDoctorAndDate(ctx, db, "DR1", day)
	if row.MorningAvailable || !row.EveningAvailable {
		t.Errorf("unexpected flags: morning=%v evening=%v", row.MorningAvailable, row.EveningAvailable)
	}

	affected, err = repo.UpdateShifts(ctx, db, "DR1", testutil.Date(2024, time.June, 11), true, true)
	if err != nil || affected != 0 {
		t.Errorf("expected no rows for missing date, got %d (%v)", affected, err)
	}
}

func TestAvailabilityRepository_DeleteBefore(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewAvailabilityRepository()

	testutil.SeedDoctor(t, db, "DR1", true)
	testutil.SeedDoctor(t, db, "DR2", true)
	testutil.SeedAvailability(t, db, "DR1", testutil.Date(2024, time.June, 9), false, false)
	testutil.SeedAvailability(t, db, "DR2", testutil.Date(2024, time.June, 3), false, false)
	testutil.SeedAvailability(t, db, "DR1", testutil.Date(2024, time.June, 10), false, false)

	deleted, err := repo.DeleteBefore(ctx, db, testutil.Date(2024, time.June, 10))
	if err != nil {
		t.Fatalf("DeleteBefore: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deleted, got %d", deleted)
	}

	count, err := repo.CountByDoctorAndDates(ctx, db, "DR1", []time.Time{testutil.Date(2024, time.June, 10)})
	if err != nil || count != 1 {
		t.Errorf("expected the boundary day to survive, count=%d err=%v", count, err)
	}
}
