package repository

import (
	"context"

	"hospital-management-backend/internal/domain/entity"

	"gorm.io/gorm"
)

type DoctorRepository interface {
	Create(ctx context.Context, db *gorm.DB, doctor *entity.Doctor) error
	FindByID(ctx context.Context, db *gorm.DB, doctorID string) (*entity.Doctor, error)
	ExistsByID(ctx context.Context, db *gorm.DB, doctorID string) (bool, error)
	FindActiveIDs(ctx context.Context, db *gorm.DB) ([]string, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, doctorID string, status bool) (int64, error)
	Delete(ctx context.Context, db *gorm.DB, doctorID string) (int64, error)
}
