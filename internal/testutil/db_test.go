package testutil

import (
	"strings"
	"testing"
	"time"

	"hospital-management-backend/internal/domain/entity"
)

func TestNewDB_SeedsEveryTable(t *testing.T) {
	db := NewDB(t)
	monday := Date(2024, time.June, 10)

	SeedDoctor(t, db, "DR1", true)
	SeedDoctor(t, db, "DR2", false)
	SeedPatient(t, db, "P1", true)
	SeedPatient(t, db, "P2", false)
	SeedAvailability(t, db, "DR1", monday, true, false)
	appointment := SeedAppointment(t, db, entity.Appointment{
		AppointmentID: "M1Mon11",
		PatientID:     "P1",
		DoctorID:      "DR1",
		Date:          monday,
		Shift:         entity.ShiftMorning,
	})
	treatment := entity.Treatment{TreatmentID: "T" + appointment.AppointmentID, AppointmentID: appointment.AppointmentID}
	if err := db.Create(&treatment).Error; err != nil {
		t.Fatalf("insert treatment: %v", err)
	}
}

func TestNewDB_ParentTablesHaveNoForeignKeys(t *testing.T) {
	db := NewDB(t)

	for _, table := range []string{"doctors", "patients"} {
		var ddl string
		if err := db.Raw("SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&ddl).Error; err != nil {
			t.Fatalf("read %s schema: %v", table, err)
		}
		if ddl == "" {
			t.Fatalf("table %s missing", table)
		}
		if strings.Contains(strings.ToUpper(ddl), "REFERENCES") {
			t.Errorf("%s must not reference child tables: %s", table, ddl)
		}
	}
}
