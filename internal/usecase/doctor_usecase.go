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
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const registryInsertSavepoint = "registry_insert"

type DoctorUsecase interface {
	CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	GetDoctor(ctx context.Context, doctorID string) (*dto.DoctorResponse, error)
	UpdateDoctorStatus(ctx context.Context, doctorID string, status bool) (*dto.DoctorResponse, error)
	DeleteDoctor(ctx context.Context, doctorID string) error
}

type doctorUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	clock            Clock
	ids              *idgen.Generator
	maxIDAttempts    int
	doctorRepo       repository.DoctorRepository
	availabilityRepo repository.AvailabilityRepository
	appointmentRepo  repository.AppointmentRepository
	treatmentRepo    repository.TreatmentRepository
	auditService     service.AuditService
	cache            service.AvailabilityCache
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	clock Clock,
	ids *idgen.Generator,
	maxIDAttempts int,
	doctorRepo repository.DoctorRepository,
	availabilityRepo repository.AvailabilityRepository,
	appointmentRepo repository.AppointmentRepository,
	treatmentRepo repository.TreatmentRepository,
	auditService service.AuditService,
	cache service.AvailabilityCache,
) DoctorUsecase {
	if maxIDAttempts < 1 {
		maxIDAttempts = 1
	}
	return &doctorUsecase{
		db:               db,
		log:              log,
		clock:            clock,
		ids:              ids,
		maxIDAttempts:    maxIDAttempts,
		doctorRepo:       doctorRepo,
		availabilityRepo: availabilityRepo,
		appointmentRepo:  appointmentRepo,
		treatmentRepo:    treatmentRepo,
		auditService:     auditService,
		cache:            cache,
	}
}

// CreateDoctor registers an active doctor and opens the current week of
// availability for them, all shifts closed. A missing email is derived from
// the doctor id; a missing password is generated and returned once.
func (u *doctorUsecase) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	password := req.Password
	if password == "" {
		password = u.ids.InitialPassword()
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	doctor := &entity.Doctor{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Gender:       req.Gender,
		Speciality:   req.Speciality,
		PhoneNo:      req.PhoneNo,
		Status:       true,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.insert(ctx, tx, doctor, req.Email == ""); err != nil {
		return nil, err
	}

	if _, err := createWeek(ctx, tx, u.availabilityRepo, doctor.DoctorID, u.clock.Today()); err != nil {
		if KindOf(err) == KindInternal {
			u.log.Warnf("Failed to create availability for doctor %s: %+v", doctor.DoctorID, err)
		}
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, entity.AuditActionDoctorCreate, "doctor", doctor.DoctorID, converter.DoctorToResponse(doctor)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.cache.Invalidate(ctx, doctor.DoctorID)

	res := converter.DoctorToResponse(doctor)
	if req.Password == "" {
		res.InitialPassword = password
	}
	return res, nil
}

// insert assigns a fresh doctor id and inserts the doctor, retrying on id
// collisions. A duplicate that is not an id collision is the email.
func (u *doctorUsecase) insert(ctx context.Context, tx *gorm.DB, doctor *entity.Doctor, generateEmail bool) error {
	for attempt := 1; attempt <= u.maxIDAttempts; attempt++ {
		id := u.ids.DoctorID()

		taken, err := u.doctorRepo.ExistsByID(ctx, tx, id)
		if err != nil {
			u.log.Warnf("Failed to check doctor id %s: %+v", id, err)
			return err
		}
		if taken {
			continue
		}
		doctor.DoctorID = id
		if generateEmail {
			doctor.Email = idgen.DoctorEmail(id)
		}

		if err := tx.SavePoint(registryInsertSavepoint).Error; err != nil {
			return err
		}
		err = u.doctorRepo.Create(ctx, tx, doctor)
		if err == nil {
			return nil
		}
		if !isDuplicateKeyError(err, "") {
			u.log.Warnf("Failed to create doctor: %+v", err)
			return err
		}
		if err := tx.RollbackTo(registryInsertSavepoint).Error; err != nil {
			return err
		}

		taken, err = u.doctorRepo.ExistsByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if !taken {
			return ErrEmailAlreadyExists
		}
	}
	return ErrIDSpaceExhausted
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, doctorID string) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return converter.DoctorToResponse(doctor), nil
}

// UpdateDoctorStatus activates or deactivates a doctor. Inactive doctors
// cannot be booked and their appointments are hidden from lookups.
func (u *doctorUsecase) UpdateDoctorStatus(ctx context.Context, doctorID string, status bool) (*dto.DoctorResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByID(ctx, tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	previous := doctor.Status
	if _, err := u.doctorRepo.UpdateStatus(ctx, tx, doctorID, status); err != nil {
		u.log.Warnf("Failed to update doctor %s status: %+v", doctorID, err)
		return nil, err
	}
	doctor.Status = status

	if err := u.auditService.LogUpdate(ctx, tx, entity.AuditActionDoctorStatus, "doctor", doctorID,
		map[string]interface{}{"status": previous},
		map[string]interface{}{"status": status}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}

// DeleteDoctor removes the doctor with its availability, appointments and
// treatments.
func (u *doctorUsecase) DeleteDoctor(ctx context.Context, doctorID string) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByID(ctx, tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}

	treatments, err := u.treatmentRepo.DeleteByDoctorID(ctx, tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to delete treatments of doctor %s: %+v", doctorID, err)
		return err
	}
	appointments, err := u.appointmentRepo.DeleteByDoctorID(ctx, tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to delete appointments of doctor %s: %+v", doctorID, err)
		return err
	}
	availability, err := u.availabilityRepo.DeleteByDoctorID(ctx, tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to delete availability of doctor %s: %+v", doctorID, err)
		return err
	}
	if _, err := u.doctorRepo.Delete(ctx, tx, doctorID); err != nil {
		u.log.Warnf("Failed to delete doctor %s: %+v", doctorID, err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, entity.AuditActionDoctorDelete, "doctor", doctorID, map[string]interface{}{
		"doctor":       converter.DoctorToResponse(doctor),
		"treatments":   treatments,
		"appointments": appointments,
		"availability": availability,
	}); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.cache.Invalidate(ctx, doctorID)
	return nil
}
