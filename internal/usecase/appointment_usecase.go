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
	"gorm.io/gorm"
)

const appointmentInsertSavepoint = "appointment_insert"

type AppointmentUsecase interface {
	BookAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, appointmentID string) (*dto.AppointmentResponse, error)
	GetAppointmentByParticipants(ctx context.Context, patientID, doctorID string) (*dto.AppointmentResponse, error)
	ListAppointments(ctx context.Context, req *dto.ListAppointmentsRequest) (*dto.AppointmentListResponse, error)
	UpdateAppointmentStatus(ctx context.Context, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
	DeleteAppointment(ctx context.Context, appointmentID string) error
	DeleteAppointmentByParticipants(ctx context.Context, patientID, doctorID string) error
	GetPatientHistory(ctx context.Context, patientID string) (*dto.PatientHistoryResponse, error)
}

type appointmentUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	ids              *idgen.Generator
	maxIDAttempts    int
	appointmentRepo  repository.AppointmentRepository
	availabilityRepo repository.AvailabilityRepository
	doctorRepo       repository.DoctorRepository
	patientRepo      repository.PatientRepository
	treatmentRepo    repository.TreatmentRepository
	auditService     service.AuditService
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	ids *idgen.Generator,
	maxIDAttempts int,
	appointmentRepo repository.AppointmentRepository,
	availabilityRepo repository.AvailabilityRepository,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
	treatmentRepo repository.TreatmentRepository,
	auditService service.AuditService,
) AppointmentUsecase {
	if maxIDAttempts < 1 {
		maxIDAttempts = 1
	}
	return &appointmentUsecase{
		db:               db,
		log:              log,
		ids:              ids,
		maxIDAttempts:    maxIDAttempts,
		appointmentRepo:  appointmentRepo,
		availabilityRepo: availabilityRepo,
		doctorRepo:       doctorRepo,
		patientRepo:      patientRepo,
		treatmentRepo:    treatmentRepo,
		auditService:     auditService,
	}
}

// BookAppointment books a patient with a doctor for one shift of one date.
//
// Flow:
// 1. Validate date and shift
// 2. Validate doctor and patient exist and are active
// 3. Reject an identical (patient, doctor, date, shift, visit type) booking
// 4. Require an availability row for the date with the shift open
// 5. Generate an id, verify it is unused, insert; retry on id collision
//
// The unique index on the booking tuple is the real guard against two
// concurrent requests passing step 3 together; losing that race yields
// ErrAlreadyBooked. Booking does not close the shift.
func (u *appointmentUsecase) BookAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	// Step 1: Validate input
	date, err := dateutil.Parse(req.Date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	shift := entity.Shift(req.Shift)
	if !shift.Valid() {
		return nil, ErrInvalidShift
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	// Step 2: Validate participants
	if err := u.requireActiveParticipants(ctx, tx, req.PatientID, req.DoctorID); err != nil {
		return nil, err
	}

	// Step 3: Reject duplicates
	existing, err := u.appointmentRepo.FindByBooking(ctx, tx, req.PatientID, req.DoctorID, date, shift, req.VisitType)
	if err != nil {
		u.log.Warnf("Failed to check existing appointment: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyBooked
	}

	// Step 4: Check availability
	availability, err := u.availabilityRepo.FindByDoctorAndDate(ctx, tx, req.DoctorID, date)
	if err != nil {
		u.log.Warnf("Failed to find availability for doctor %s on %s: %+v", req.DoctorID, req.Date, err)
		return nil, err
	}
	if availability == nil {
		return nil, ErrAvailabilityNotFound
	}
	if !availability.IsOpen(shift) {
		return nil, ErrShiftUnavailable
	}

	// Step 5: Generate, verify, insert
	appointment := &entity.Appointment{
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		VisitType: req.VisitType,
		Date:      date,
		Shift:     shift,
		Status:    entity.AppointmentStatusBooked,
		Reason:    req.Reason,
	}
	if err := u.insertWithUniqueID(ctx, tx, appointment); err != nil {
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, entity.AuditActionAppointmentBook, "appointment", appointment.AppointmentID, converter.AppointmentToResponse(appointment)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Appointment booked: id=%s, patient=%s, doctor=%s, date=%s, shift=%s",
		appointment.AppointmentID, appointment.PatientID, appointment.DoctorID, req.Date, shift)
	return converter.AppointmentToResponse(appointment), nil
}

// insertWithUniqueID assigns appointment a fresh id and inserts it. Each
// insert runs behind a savepoint so a unique violation does not poison tx.
func (u *appointmentUsecase) insertWithUniqueID(ctx context.Context, tx *gorm.DB, appointment *entity.Appointment) error {
	for attempt := 1; attempt <= u.maxIDAttempts; attempt++ {
		id, err := u.ids.AppointmentID(string(appointment.Shift), appointment.Date, appointment.PatientID, appointment.DoctorID)
		if err != nil {
			return ErrInvalidShift
		}

		taken, err := u.appointmentRepo.ExistsByID(ctx, tx, id)
		if err != nil {
			u.log.Warnf("Failed to check appointment id %s: %+v", id, err)
			return err
		}
		if taken {
			u.log.Debugf("Appointment id %s taken, attempt %d/%d", id, attempt, u.maxIDAttempts)
			continue
		}

		appointment.AppointmentID = id

		if err := tx.SavePoint(appointmentInsertSavepoint).Error; err != nil {
			u.log.Warnf("Failed to create savepoint: %+v", err)
			return err
		}

		err = u.appointmentRepo.Create(ctx, tx, appointment)
		if err == nil {
			return nil
		}
		if !isDuplicateKeyError(err, "") {
			u.log.Warnf("Failed to create appointment: %+v", err)
			return err
		}

		if rbErr := tx.RollbackTo(appointmentInsertSavepoint).Error; rbErr != nil {
			u.log.Warnf("Failed to roll back to savepoint: %+v", rbErr)
			return rbErr
		}

		// Either the booking tuple or the id lost a race. Only the latter
		// is worth another attempt.
		existing, err := u.appointmentRepo.FindByBooking(ctx, tx, appointment.PatientID, appointment.DoctorID, appointment.Date, appointment.Shift, appointment.VisitType)
		if err != nil {
			u.log.Warnf("Failed to check existing appointment: %+v", err)
			return err
		}
		if existing != nil {
			return ErrAlreadyBooked
		}
	}

	u.log.Warnf("Exhausted %d attempts generating an appointment id for patient %s, doctor %s",
		u.maxIDAttempts, appointment.PatientID, appointment.DoctorID)
	return ErrIDSpaceExhausted
}

func (u *appointmentUsecase) requireActiveParticipants(ctx context.Context, db *gorm.DB, patientID, doctorID string) error {
	doctor, err := u.doctorRepo.FindByID(ctx, db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}
	if !doctor.IsBookable() {
		return ErrDoctorInactive
	}

	patient, err := u.patientRepo.FindByID(ctx, db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return err
	}
	if patient == nil {
		return ErrPatientNotFound
	}
	if !patient.Status {
		return ErrPatientInactive
	}
	return nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, appointmentID string) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindVisibleByID(ctx, u.db, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) GetAppointmentByParticipants(ctx context.Context, patientID, doctorID string) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindVisibleByParticipants(ctx, u.db, patientID, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find appointment for patient %s and doctor %s: %+v", patientID, doctorID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) ListAppointments(ctx context.Context, req *dto.ListAppointmentsRequest) (*dto.AppointmentListResponse, error) {
	filter := entity.AppointmentFilter{
		Status:    entity.AppointmentStatus(req.Status),
		DoctorID:  req.DoctorID,
		PatientID: req.PatientID,
	}

	appointments, err := u.appointmentRepo.FindAll(ctx, u.db, filter)
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// UpdateAppointmentStatus overwrites the status of the appointment in the
// given slot. Any current status may move to Completed, Cancelled or Missed.
func (u *appointmentUsecase) UpdateAppointmentStatus(ctx context.Context, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	status, ok := entity.ParseStatusUpdate(req.Status)
	if !ok {
		return nil, ErrInvalidStatus
	}
	date, err := dateutil.Parse(req.Date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	shift := entity.Shift(req.Shift)
	if !shift.Valid() {
		return nil, ErrInvalidShift
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindBySlot(ctx, tx, req.PatientID, req.DoctorID, date, shift)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	previous := appointment.Status
	if _, err := u.appointmentRepo.UpdateStatus(ctx, tx, appointment.AppointmentID, status); err != nil {
		u.log.Warnf("Failed to update appointment %s status: %+v", appointment.AppointmentID, err)
		return nil, err
	}
	appointment.Status = status

	if err := u.auditService.LogUpdate(ctx, tx, entity.AuditActionAppointmentStatus, "appointment", appointment.AppointmentID,
		map[string]interface{}{"status": previous},
		map[string]interface{}{"status": status}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) DeleteAppointment(ctx context.Context, appointmentID string) error {
	return u.deleteVisible(ctx, func(tx *gorm.DB) (*entity.Appointment, error) {
		return u.appointmentRepo.FindVisibleByID(ctx, tx, appointmentID)
	})
}

func (u *appointmentUsecase) DeleteAppointmentByParticipants(ctx context.Context, patientID, doctorID string) error {
	return u.deleteVisible(ctx, func(tx *gorm.DB) (*entity.Appointment, error) {
		return u.appointmentRepo.FindVisibleByParticipants(ctx, tx, patientID, doctorID)
	})
}

// deleteVisible removes the appointment resolved by find along with its
// treatment.
func (u *appointmentUsecase) deleteVisible(ctx context.Context, find func(tx *gorm.DB) (*entity.Appointment, error)) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := find(tx)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}

	if _, err := u.treatmentRepo.DeleteByAppointmentIDs(ctx, tx, []string{appointment.AppointmentID}); err != nil {
		u.log.Warnf("Failed to delete treatment of appointment %s: %+v", appointment.AppointmentID, err)
		return err
	}

	deleted, err := u.appointmentRepo.Delete(ctx, tx, appointment.AppointmentID)
	if err != nil {
		u.log.Warnf("Failed to delete appointment %s: %+v", appointment.AppointmentID, err)
		return err
	}
	if deleted == 0 {
		return ErrAppointmentNotFound
	}

	if err := u.auditService.LogDelete(ctx, tx, entity.AuditActionAppointmentDelete, "appointment", appointment.AppointmentID, converter.AppointmentToResponse(appointment)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}
	return nil
}

// GetPatientHistory lists a patient's completed appointments with their
// treatments, most recent first.
func (u *appointmentUsecase) GetPatientHistory(ctx context.Context, patientID string) (*dto.PatientHistoryResponse, error) {
	exists, err := u.patientRepo.ExistsByID(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if !exists {
		return nil, ErrPatientNotFound
	}

	appointments, err := u.appointmentRepo.FindCompletedWithTreatment(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find history for patient %s: %+v", patientID, err)
		return nil, err
	}
	if len(appointments) == 0 {
		return nil, ErrHistoryNotFound
	}

	return &dto.PatientHistoryResponse{
		PatientID:    patientID,
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}
