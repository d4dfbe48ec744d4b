package repository

import (
	"context"
	"errors"

	"hospital-management-backend/internal/domain/entity"
	domainRepo "hospital-management-backend/internal/domain/repository"

	"gorm.io/gorm"
)

type patientRepository struct{}

func NewPatientRepository() domainRepo.PatientRepository {
	return &patientRepository{}
}

func (r *patientRepository) Create(ctx context.Context, db *gorm.DB, patient *entity.Patient) error {
	return db.WithContext(ctx).Create(patient).Error
}

func (r *patientRepository) FindByID(ctx context.Context, db *gorm.DB, patientID string) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.WithContext(ctx).Where("patient_id = ?", patientID).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) ExistsByID(ctx context.Context, db *gorm.DB, patientID string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&entity.Patient{}).Where("patient_id = ?", patientID).Count(&count).Error
	return count > 0, err
}

func (r *patientRepository) UpdateStatus(ctx context.Context, db *gorm.DB, patientID string, status bool) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Patient{}).
		Where("patient_id = ?", patientID).
		Update("status", status)
	return result.RowsAffected, result.Error
}

func (r *patientRepository) Delete(ctx context.Context, db *gorm.DB, patientID string) (int64, error) {
	result := db.WithContext(ctx).Where("patient_id = ?", patientID).Delete(&entity.Patient{})
	return result.RowsAffected, result.Error
}
