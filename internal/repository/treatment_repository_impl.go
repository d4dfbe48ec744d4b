package repository

import (
	"context"

	"hospital-management-backend/internal/domain/entity"
	domainRepo "hospital-management-backend/internal/domain/repository"

	"gorm.io/gorm"
)

type treatmentRepository struct{}

func NewTreatmentRepository() domainRepo.TreatmentRepository {
	return &treatmentRepository{}
}

func (r *treatmentRepository) Create(ctx context.Context, db *gorm.DB, treatment *entity.Treatment) error {
	return db.WithContext(ctx).Create(treatment).Error
}

func (r *treatmentRepository) ExistsByAppointmentID(ctx context.Context, db *gorm.DB, appointmentID string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&entity.Treatment{}).
		Where("appointment_id = ?", appointmentID).
		Count(&count).Error
	return count > 0, err
}

func (r *treatmentRepository) DeleteByAppointmentIDs(ctx context.Context, db *gorm.DB, appointmentIDs []string) (int64, error) {
	if len(appointmentIDs) == 0 {
		return 0, nil
	}
	result := db.WithContext(ctx).
		Where("appointment_id IN ?", appointmentIDs).
		Delete(&entity.Treatment{})
	return result.RowsAffected, result.Error
}

func (r *treatmentRepository) DeleteByDoctorID(ctx context.Context, db *gorm.DB, doctorID string) (int64, error) {
	return r.deleteByParticipant(ctx, db, "doctor_id", doctorID)
}

func (r *treatmentRepository) DeleteByPatientID(ctx context.Context, db *gorm.DB, patientID string) (int64, error) {
	return r.deleteByParticipant(ctx, db, "patient_id", patientID)
}

func (r *treatmentRepository) deleteByParticipant(ctx context.Context, db *gorm.DB, column, id string) (int64, error) {
	sub := db.WithContext(ctx).
		Model(&entity.Appointment{}).
		Select("appointment_id").
		Where(column+" = ?", id)
	result := db.WithContext(ctx).
		Where("appointment_id IN (?)", sub).
		Delete(&entity.Treatment{})
	return result.RowsAffected, result.Error
}
