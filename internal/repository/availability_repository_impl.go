package repository

import (
	"context"
	"errors"
	"time"

	"hospital-management-backend/internal/domain/entity"
	domainRepo "hospital-management-backend/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Rows per INSERT statement during bulk creation
const insertBatchSize = 500

type availabilityRepository struct{}

func NewAvailabilityRepository() domainRepo.AvailabilityRepository {
	return &availabilityRepository{}
}

func (r *availabilityRepository) CreateBatch(ctx context.Context, db *gorm.DB, rows []entity.DoctorAvailability) error {
	if len(rows) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&rows).Error
}

func (r *availabilityRepository) CreateMissing(ctx context.Context, db *gorm.DB, rows []entity.DoctorAvailability) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	result := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "doctor_id"}, {Name: "date"}},
			DoNothing: true,
		}).
		CreateInBatches(&rows, insertBatchSize)
	return result.RowsAffected, result.Error
}

func (r *availabilityRepository) FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID string) ([]entity.DoctorAvailability, error) {
	var rows []entity.DoctorAvailability
	err := db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *availabilityRepository) FindByDoctorAndDate(ctx context.Context, db *gorm.DB, doctorID string, date time.Time) (*entity.DoctorAvailability, error) {
	var row entity.DoctorAvailability
	err := db.WithContext(ctx).
		Where("doctor_id = ? AND date = ?", doctorID, date).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *availabilityRepository) CountByDoctorAndDates(ctx context.Context, db *gorm.DB, doctorID string, dates []time.Time) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&entity.DoctorAvailability{}).
		Where("doctor_id = ? AND date IN ?", doctorID, dates).
		Count(&count).Error
	return count, err
}

// UpdateShifts overwrites both shift flags. A map is used so false values are
// written too.
func (r *availabilityRepository) UpdateShifts(ctx context.Context, db *gorm.DB, doctorID string, date time.Time, morning, evening bool) (int64, error) {
	result := db.WithContext(ctx).
		Model(&entity.DoctorAvailability{}).
		Where("doctor_id = ? AND date = ?", doctorID, date).
		Updates(map[string]interface{}{
			"morning_available": morning,
			"evening_available": evening,
			"updated_at":        time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *availabilityRepository) DeleteByDoctorID(ctx context.Context, db *gorm.DB, doctorID string) (int64, error) {
	result := db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Delete(&entity.DoctorAvailability{})
	return result.RowsAffected, result.Error
}

func (r *availabilityRepository) DeleteBefore(ctx context.Context, db *gorm.DB, date time.Time) (int64, error) {
	result := db.WithContext(ctx).
		Where("date < ?", date).
		Delete(&entity.DoctorAvailability{})
	return result.RowsAffected, result.Error
}
