package repository

import (
	"context"
	"time"

	"hospital-management-backend/internal/domain/entity"

	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error
	ExistsByID(ctx context.Context, db *gorm.DB, appointmentID string) (bool, error)
	FindByBooking(ctx context.Context, db *gorm.DB, patientID, doctorID string, date time.Time, shift entity.Shift, visitType string) (*entity.Appointment, error)
	FindBySlot(ctx context.Context, db *gorm.DB, patientID, doctorID string, date time.Time, shift entity.Shift) (*entity.Appointment, error)
	// FindVisibleByID and FindVisibleByParticipants hide appointments whose
	// doctor or patient is inactive.
	FindVisibleByID(ctx context.Context, db *gorm.DB, appointmentID string) (*entity.Appointment, error)
	FindVisibleByParticipants(ctx context.Context, db *gorm.DB, patientID, doctorID string) (*entity.Appointment, error)
	FindBookedForTreatment(ctx context.Context, db *gorm.DB, appointmentID, patientID, doctorID string) (*entity.Appointment, error)
	FindAll(ctx context.Context, db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error)
	FindCompletedWithTreatment(ctx context.Context, db *gorm.DB, patientID string) ([]entity.Appointment, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, appointmentID string, status entity.AppointmentStatus) (int64, error)
	// MarkMissedBefore moves every Booked appointment dated before the given
	// date to Missed and returns how many rows changed.
	MarkMissedBefore(ctx context.Context, db *gorm.DB, date time.Time) (int64, error)
	Delete(ctx context.Context, db *gorm.DB, appointmentID string) (int64, error)
	DeleteByDoctorID(ctx context.Context, db *gorm.DB, doctorID string) (int64, error)
	DeleteByPatientID(ctx context.Context, db *gorm.DB, patientID string) (int64, error)
}
