// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"hospital-management-backend/internal/domain/entity"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a throwaway SQLite database with every scheduling table
// migrated. Unique violations surface as gorm.ErrDuplicatedKey.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&entity.Doctor{},
		&entity.Patient{},
		&entity.DoctorAvailability{},
		&entity.Appointment{},
		&entity.Treatment{},
		&entity.AuditLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// NewLogger returns a logger that discards output.
func NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// SeedDoctor inserts an active or inactive doctor.
func SeedDoctor(t testing.TB, db *gorm.DB, id string, active bool) *entity.Doctor {
	t.Helper()
	doctor := &entity.Doctor{
		DoctorID:     id,
		Name:         "Dr " + id,
		Email:        id + "@hospital.test",
		PasswordHash: "x",
		Status:       active,
	}
	if err := db.Create(doctor).Error; err != nil {
		t.Fatalf("seed doctor %s: %v", id, err)
	}
	return doctor
}

// SeedPatient inserts an adult patient.
func SeedPatient(t testing.TB, db *gorm.DB, id string, active bool) *entity.Patient {
	t.Helper()
	patient := &entity.Patient{
		PatientID:    id,
		Name:         "Patient " + id,
		Email:        id + "@patient.test",
		PasswordHash: "x",
		DateOfBirth:  Date(1990, time.January, 1),
		Status:       active,
	}
	if err := db.Create(patient).Error; err != nil {
		t.Fatalf("seed patient %s: %v", id, err)
	}
	return patient
}

// SeedAvailability inserts one availability row.
func SeedAvailability(t testing.TB, db *gorm.DB, doctorID string, date time.Time, morning, evening bool) {
	t.Helper()
	row := entity.DoctorAvailability{
		DoctorID:         doctorID,
		Date:             date,
		MorningAvailable: morning,
		EveningAvailable: evening,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("seed availability %s %s: %v", doctorID, date.Format("2006-01-02"), err)
	}
}

// SeedAppointment inserts an appointment as-is.
func SeedAppointment(t testing.TB, db *gorm.DB, a entity.Appointment) *entity.Appointment {
	t.Helper()
	if a.VisitType == "" {
		a.VisitType = "Consultation"
	}
	if a.Status == "" {
		a.Status = entity.AppointmentStatusBooked
	}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("seed appointment %s: %v", a.AppointmentID, err)
	}
	return &a
}
