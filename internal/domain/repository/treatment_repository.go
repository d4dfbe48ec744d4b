package repository

import (
	"context"

	"hospital-management-backend/internal/domain/entity"

	"gorm.io/gorm"
)

type TreatmentRepository interface {
	Create(ctx context.Context, db *gorm.DB, treatment *entity.Treatment) error
	ExistsByAppointmentID(ctx context.Context, db *gorm.DB, appointmentID string) (bool, error)
	DeleteByAppointmentIDs(ctx context.Context, db *gorm.DB, appointmentIDs []string) (int64, error)
	DeleteByDoctorID(ctx context.Context, db *gorm.DB, doctorID string) (int64, error)
	DeleteByPatientID(ctx context.Context, db *gorm.DB, patientID string) (int64, error)
}
