package usecase

import (
	"context"

	"hospital-management-backend/internal/converter"
	"hospital-management-backend/internal/delivery/dto"
	"hospital-management-backend/internal/domain/entity"
	"hospital-management-backend/internal/domain/repository"
	"hospital-management-backend/internal/service"
	"hospital-management-backend/pkg/idgen"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type TreatmentUsecase interface {
	CreateTreatment(ctx context.Context, req *dto.CreateTreatmentRequest) (*dto.TreatmentResponse, error)
}

type treatmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	treatmentRepo   repository.TreatmentRepository
	auditService    service.AuditService
}

func NewTreatmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	treatmentRepo repository.TreatmentRepository,
	auditService service.AuditService,
) TreatmentUsecase {
	return &treatmentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		treatmentRepo:   treatmentRepo,
		auditService:    auditService,
	}
}

// CreateTreatment records the treatment for a Booked appointment of an
// active doctor and patient. The appointment status is left unchanged.
func (u *treatmentUsecase) CreateTreatment(ctx context.Context, req *dto.CreateTreatmentRequest) (*dto.TreatmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindBookedForTreatment(ctx, tx, req.AppointmentID, req.PatientID, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", req.AppointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrBookedAppointmentNotFound
	}

	exists, err := u.treatmentRepo.ExistsByAppointmentID(ctx, tx, appointment.AppointmentID)
	if err != nil {
		u.log.Warnf("Failed to check treatment of appointment %s: %+v", appointment.AppointmentID, err)
		return nil, err
	}
	if exists {
		return nil, ErrTreatmentExists
	}

	treatment := &entity.Treatment{
		TreatmentID:   idgen.TreatmentID(appointment.AppointmentID),
		AppointmentID: appointment.AppointmentID,
		TestDone:      req.TestDone,
		Diagnosis:     req.Diagnosis,
		Prescription:  req.Prescription,
		FollowUpDate:  req.FollowUpDate,
	}

	if err := u.treatmentRepo.Create(ctx, tx, treatment); err != nil {
		if isDuplicateKeyError(err, "treatment") {
			return nil, ErrTreatmentExists
		}
		u.log.Warnf("Failed to create treatment: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, entity.AuditActionTreatmentCreate, "treatment", treatment.TreatmentID, converter.TreatmentToResponse(treatment)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.TreatmentToResponse(treatment), nil
}
