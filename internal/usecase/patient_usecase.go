package usecase

import (
	"context"

	"hospital-management-backend/internal/converter"
	"hospital-management-backend/internal/delivery/dto"
	"hospital-management-backend/internal/domain/entity"
	"hospital-management-backend/internal/domain/repository"
	"hospital-management-backend/internal/service"
	"hospital-management-backend/pkg/dateutil"
	"hospital-management-backend/pkg/idgen"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type PatientUsecase interface {
	CreatePatient(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error)
	GetPatient(ctx context.Context, patientID string) (*dto.PatientResponse, error)
	UpdatePatientStatus(ctx context.Context, patientID string, status bool) (*dto.PatientResponse, error)
	DeletePatient(ctx context.Context, patientID string) error
}

type patientUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	clock           Clock
	ids             *idgen.Generator
	maxIDAttempts   int
	patientRepo     repository.PatientRepository
	appointmentRepo repository.AppointmentRepository
	treatmentRepo   repository.TreatmentRepository
	auditService    service.AuditService
}

func NewPatientUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	clock Clock,
	ids *idgen.Generator,
	maxIDAttempts int,
	patientRepo repository.PatientRepository,
	appointmentRepo repository.AppointmentRepository,
	treatmentRepo repository.TreatmentRepository,
	auditService service.AuditService,
) PatientUsecase {
	if maxIDAttempts < 1 {
		maxIDAttempts = 1
	}
	return &patientUsecase{
		db:              db,
		log:             log,
		clock:           clock,
		ids:             ids,
		maxIDAttempts:   maxIDAttempts,
		patientRepo:     patientRepo,
		appointmentRepo: appointmentRepo,
		treatmentRepo:   treatmentRepo,
		auditService:    auditService,
	}
}

func (u *patientUsecase) CreatePatient(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	dob, err := dateutil.Parse(req.DateOfBirth)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	patient := &entity.Patient{
		Name:             req.Name,
		Email:            req.Email,
		Gender:           req.Gender,
		PhoneNo:          req.PhoneNo,
		EmergencyContact: req.EmergencyContact,
		DateOfBirth:      dob,
		Address:          req.Address,
		MedicalHistory:   req.MedicalHistory,
		Status:           true,
	}
	if patient.AgeOn(u.clock.Today()) < entity.MinimumPatientAge {
		return nil, ErrPatientTooYoung
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}
	patient.PasswordHash = string(hashedPassword)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.insert(ctx, tx, patient); err != nil {
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, entity.AuditActionPatientCreate, "patient", patient.PatientID, converter.PatientToResponse(patient)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) insert(ctx context.Context, tx *gorm.DB, patient *entity.Patient) error {
	for attempt := 1; attempt <= u.maxIDAttempts; attempt++ {
		id := u.ids.PatientID()

		taken, err := u.patientRepo.ExistsByID(ctx, tx, id)
		if err != nil {
			u.log.Warnf("Failed to check patient id %s: %+v", id, err)
			return err
		}
		if taken {
			continue
		}
		patient.PatientID = id

		if err := tx.SavePoint(registryInsertSavepoint).Error; err != nil {
			return err
		}
		err = u.patientRepo.Create(ctx, tx, patient)
		if err == nil {
			return nil
		}
		if !isDuplicateKeyError(err, "") {
			u.log.Warnf("Failed to create patient: %+v", err)
			return err
		}
		if err := tx.RollbackTo(registryInsertSavepoint).Error; err != nil {
			return err
		}

		taken, err = u.patientRepo.ExistsByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if !taken {
			return ErrEmailAlreadyExists
		}
	}
	return ErrIDSpaceExhausted
}

func (u *patientUsecase) GetPatient(ctx context.Context, patientID string) (*dto.PatientResponse, error) {
	patient, err := u.patientRepo.FindByID(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) UpdatePatientStatus(ctx context.Context, patientID string, status bool) (*dto.PatientResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.patientRepo.FindByID(ctx, tx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	previous := patient.Status
	if _, err := u.patientRepo.UpdateStatus(ctx, tx, patientID, status); err != nil {
		u.log.Warnf("Failed to update patient %s status: %+v", patientID, err)
		return nil, err
	}
	patient.Status = status

	if err := u.auditService.LogUpdate(ctx, tx, entity.AuditActionPatientStatus, "patient", patientID,
		map[string]interface{}{"status": previous},
		map[string]interface{}{"status": status}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.PatientToResponse(patient), nil
}

// DeletePatient removes the patient with their appointments and treatments.
func (u *patientUsecase) DeletePatient(ctx context.Context, patientID string) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.patientRepo.FindByID(ctx, tx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return err
	}
	if patient == nil {
		return ErrPatientNotFound
	}

	treatments, err := u.treatmentRepo.DeleteByPatientID(ctx, tx, patientID)
	if err != nil {
		u.log.Warnf("Failed to delete treatments of patient %s: %+v", patientID, err)
		return err
	}
	appointments, err := u.appointmentRepo.DeleteByPatientID(ctx, tx, patientID)
	if err != nil {
		u.log.Warnf("Failed to delete appointments of patient %s: %+v", patientID, err)
		return err
	}
	if _, err := u.patientRepo.Delete(ctx, tx, patientID); err != nil {
		u.log.Warnf("Failed to delete patient %s: %+v", patientID, err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, entity.AuditActionPatientDelete, "patient", patientID, map[string]interface{}{
		"patient":      converter.PatientToResponse(patient),
		"treatments":   treatments,
		"appointments": appointments,
	}); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}
	return nil
}
