package repository

import (
	"context"

	"hospital-management-backend/internal/domain/entity"

	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(ctx context.Context, db *gorm.DB, patient *entity.Patient) error
	FindByID(ctx context.Context, db *gorm.DB, patientID string) (*entity.Patient, error)
	ExistsByID(ctx context.Context, db *gorm.DB, patientID string) (bool, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, patientID string, status bool) (int64, error)
	Delete(ctx context.Context, db *gorm.DB, patientID string) (int64, error)
}
