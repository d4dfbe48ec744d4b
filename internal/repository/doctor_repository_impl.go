package repository

import (
	"context"
	"errors"

	"hospital-management-backend/internal/domain/entity"
	domainRepo "hospital-management-backend/internal/domain/repository"

	"gorm.io/gorm"
)

type doctorRepository struct{}

func NewDoctorRepository() domainRepo.DoctorRepository {
	return &doctorRepository{}
}

func (r *doctorRepository) Create(ctx context.Context, db *gorm.DB, doctor *entity.Doctor) error {
	return db.WithContext(ctx).Create(doctor).Error
}

func (r *doctorRepository) FindByID(ctx context.Context, db *gorm.DB, doctorID string) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.WithContext(ctx).Where("doctor_id = ?", doctorID).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) ExistsByID(ctx context.Context, db *gorm.DB, doctorID string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&entity.Doctor{}).Where("doctor_id = ?", doctorID).Count(&count).Error
	return count > 0, err
}

func (r *doctorRepository) FindActiveIDs(ctx context.Context, db *gorm.DB) ([]string, error) {
	var ids []string
	err := db.WithContext(ctx).
		Model(&entity.Doctor{}).
		Where("status = ?", true).
		Order("doctor_id").
		Pluck("doctor_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *doctorRepository) UpdateStatus(ctx context.Context, db *gorm.DB, doctorID string, status bool) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Doctor{}).
		Where("doctor_id = ?", doctorID).
		Update("status", status)
	return result.RowsAffected, result.Error
}

func (r *doctorRepository) Delete(ctx context.Context, db *gorm.DB, doctorID string) (int64, error) {
	result := db.WithContext(ctx).Where("doctor_id = ?", doctorID).Delete(&entity.Doctor{})
	return result.RowsAffected, result.Error
}
