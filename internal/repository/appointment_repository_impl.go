package repository

import (
	"context"
	"errors"
	"time"

	"hospital-management-backend/internal/domain/entity"
	domainRepo "hospital-management-backend/internal/domain/repository"

	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	return db.WithContext(ctx).Create(appointment).Error
}

func (r *appointmentRepository) ExistsByID(ctx context.Context, db *gorm.DB, appointmentID string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&entity.Appointment{}).
		Where("appointment_id = ?", appointmentID).
		Count(&count).Error
	return count > 0, err
}

func (r *appointmentRepository) FindByBooking(ctx context.Context, db *gorm.DB, patientID, doctorID string, date time.Time, shift entity.Shift, visitType string) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.WithContext(ctx).
		Where("patient_id = ? AND doctor_id = ? AND date = ? AND shift = ? AND visit_type = ?",
			patientID, doctorID, date, shift, visitType).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

// FindBySlot ignores visit type; when several visit types share the slot the
// oldest booking wins.
func (r *appointmentRepository) FindBySlot(ctx context.Context, db *gorm.DB, patientID, doctorID string, date time.Time, shift entity.Shift) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.WithContext(ctx).
		Where("patient_id = ? AND doctor_id = ? AND date = ? AND shift = ?", patientID, doctorID, date, shift).
		Order("created_at ASC, appointment_id ASC").
		Take(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) visible(ctx context.Context, db *gorm.DB) *gorm.DB {
	return db.WithContext(ctx).
		Model(&entity.Appointment{}).
		Select("appointments.*").
		Joins("JOIN doctors ON doctors.doctor_id = appointments.doctor_id").
		Joins("JOIN patients ON patients.patient_id = appointments.patient_id").
		Where("doctors.status = ? AND patients.status = ?", true, true)
}

func (r *appointmentRepository) FindVisibleByID(ctx context.Context, db *gorm.DB, appointmentID string) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := r.visible(ctx, db).
		Preload("Treatment").
		Where("appointments.appointment_id = ?", appointmentID).
		Take(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

// FindVisibleByParticipants returns the most recent appointment between the
// patient and the doctor.
func (r *appointmentRepository) FindVisibleByParticipants(ctx context.Context, db *gorm.DB, patientID, doctorID string) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := r.visible(ctx, db).
		Preload("Treatment").
		Where("appointments.patient_id = ? AND appointments.doctor_id = ?", patientID, doctorID).
		Order("appointments.date DESC, appointments.created_at DESC").
		Take(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindBookedForTreatment(ctx context.Context, db *gorm.DB, appointmentID, patientID, doctorID string) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := r.visible(ctx, db).
		Where("appointments.appointment_id = ? AND appointments.patient_id = ? AND appointments.doctor_id = ? AND appointments.status = ?",
			appointmentID, patientID, doctorID, entity.AppointmentStatusBooked).
		Take(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindAll(ctx context.Context, db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	query := db.WithContext(ctx).Model(&entity.Appointment{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.DoctorID != "" {
		query = query.Where("doctor_id = ?", filter.DoctorID)
	}
	if filter.PatientID != "" {
		query = query.Where("patient_id = ?", filter.PatientID)
	}

	var appointments []entity.Appointment
	if err := query.Order("date ASC, shift DESC, created_at ASC").Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindCompletedWithTreatment(ctx context.Context, db *gorm.DB, patientID string) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.WithContext(ctx).
		Preload("Treatment").
		Where("patient_id = ? AND status = ?", patientID, entity.AppointmentStatusCompleted).
		Order("date DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, db *gorm.DB, appointmentID string, status entity.AppointmentStatus) (int64, error) {
	result := db.WithContext(ctx).
		Model(&entity.Appointment{}).
		Where("appointment_id = ?", appointmentID).
		Update("status", status)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) MarkMissedBefore(ctx context.Context, db *gorm.DB, date time.Time) (int64, error) {
	result := db.WithContext(ctx).
		Model(&entity.Appointment{}).
		Where("status = ? AND date < ?", entity.AppointmentStatusBooked, date).
		Update("status", entity.AppointmentStatusMissed)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) Delete(ctx context.Context, db *gorm.DB, appointmentID string) (int64, error) {
	result := db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Delete(&entity.Appointment{})
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) DeleteByDoctorID(ctx context.Context, db *gorm.DB, doctorID string) (int64, error) {
	result := db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Delete(&entity.Appointment{})
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) DeleteByPatientID(ctx context.Context, db *gorm.DB, patientID string) (int64, error) {
	result := db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Delete(&entity.Appointment{})
	return result.RowsAffected, result.Error
}
