package repository

import (
	"context"
	"time"

	"hospital-management-backend/internal/domain/entity"

	"gorm.io/gorm"
)

type AvailabilityRepository interface {
	// CreateBatch inserts all rows or fails on the first conflicting one.
	CreateBatch(ctx context.Context, db *gorm.DB, rows []entity.DoctorAvailability) error
	// CreateMissing inserts rows, silently skipping (doctor_id, date) pairs
	// that already exist. Returns the number of rows actually inserted.
	CreateMissing(ctx context.Context, db *gorm.DB, rows []entity.DoctorAvailability) (int64, error)
	FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID string) ([]entity.DoctorAvailability, error)
	FindByDoctorAndDate(ctx context.Context, db *gorm.DB, doctorID string, date time.Time) (*entity.DoctorAvailability, error)
	CountByDoctorAndDates(ctx context.Context, db *gorm.DB, doctorID string, dates []time.Time) (int64, error)
	UpdateShifts(ctx context.Context, db *gorm.DB, doctorID string, date time.Time, morning, evening bool) (int64, error)
	DeleteByDoctorID(ctx context.Context, db *gorm.DB, doctorID string) (int64, error)
	DeleteBefore(ctx context.Context, db *gorm.DB, date time.Time) (int64, error)
}
