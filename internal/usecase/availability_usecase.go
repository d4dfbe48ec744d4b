package usecase

import (
	"context"
	"time"

	"hospital-management-backend/internal/converter"
	"hospital-management-backend/internal/delivery/dto"
	"hospital-management-backend/internal/domain/entity"
	"hospital-management-backend/internal/domain/repository"
	"hospital-management-backend/internal/service"
	"hospital-management-backend/pkg/dateutil"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RolloverResult summarises one availability rollover.
type RolloverResult struct {
	WeekStart time.Time
	Deleted   int64
	Created   int64
	Doctors   int
}

type AvailabilityUsecase interface {
	CreateWeek(ctx context.Context, doctorID string) (*dto.AvailabilityListResponse, error)
	GetAvailability(ctx context.Context, doctorID string) (*dto.AvailabilityListResponse, error)
	UpdateAvailability(ctx context.Context, doctorID string, date string, req *dto.UpdateAvailabilityRequest) (*dto.AvailabilityResponse, error)
	DeleteAvailability(ctx context.Context, doctorID string) error
	Rollover(ctx context.Context, today time.Time) (*RolloverResult, error)
}

type availabilityUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	clock            Clock
	availabilityRepo repository.AvailabilityRepository
	doctorRepo       repository.DoctorRepository
	auditService     service.AuditService
	cache            service.AvailabilityCache
}

func NewAvailabilityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	clock Clock,
	availabilityRepo repository.AvailabilityRepository,
	doctorRepo repository.DoctorRepository,
	auditService service.AuditService,
	cache service.AvailabilityCache,
) AvailabilityUsecase {
	return &availabilityUsecase{
		db:               db,
		log:              log,
		clock:            clock,
		availabilityRepo: availabilityRepo,
		doctorRepo:       doctorRepo,
		auditService:     auditService,
		cache:            cache,
	}
}

// CreateWeek creates the current Monday-aligned week for a doctor with every
// shift closed. It is all-or-nothing: if any of the seven days already
// exists nothing is written.
func (u *availabilityUsecase) CreateWeek(ctx context.Context, doctorID string) (*dto.AvailabilityListResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	exists, err := u.doctorRepo.ExistsByID(ctx, tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if !exists {
		return nil, ErrDoctorNotFound
	}

	rows, err := createWeek(ctx, tx, u.availabilityRepo, doctorID, u.clock.Today())
	if err != nil {
		if KindOf(err) == KindInternal {
			u.log.Warnf("Failed to create availability week for doctor %s: %+v", doctorID, err)
		}
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, entity.AuditActionAvailabilityCreate, "doctor_availability", doctorID, map[string]interface{}{
		"week_start": dateutil.Format(rows[0].Date),
		"days":       len(rows),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.cache.Invalidate(ctx, doctorID)

	return converter.AvailabilityToListResponse(doctorID, rows), nil
}

// createWeek inserts the week containing today for doctorID inside tx.
// Shared by CreateWeek and doctor onboarding.
func createWeek(ctx context.Context, tx *gorm.DB, repo repository.AvailabilityRepository, doctorID string, today time.Time) ([]entity.DoctorAvailability, error) {
	days := dateutil.Week(today)

	count, err := repo.CountByDoctorAndDates(ctx, tx, doctorID, days)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAvailabilityExists
	}

	rows := make([]entity.DoctorAvailability, len(days))
	for i, day := range days {
		rows[i] = entity.NewClosedAvailability(doctorID, day)
	}

	if err := repo.CreateBatch(ctx, tx, rows); err != nil {
		// A concurrent request created the week first.
		if isDuplicateKeyError(err, "doctor_availability") {
			return nil, ErrAvailabilityExists
		}
		return nil, err
	}
	return rows, nil
}

func (u *availabilityUsecase) GetAvailability(ctx context.Context, doctorID string) (*dto.AvailabilityListResponse, error) {
	cached, version, ok := u.cache.Get(ctx, doctorID)
	if ok {
		return converter.AvailabilityToListResponse(doctorID, cached), nil
	}

	rows, err := u.availabilityRepo.FindByDoctorID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find availability for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoAvailability
	}

	u.cache.Set(ctx, doctorID, version, rows)

	return converter.AvailabilityToListResponse(doctorID, rows), nil
}

func (u *availabilityUsecase) UpdateAvailability(ctx context.Context, doctorID string, date string, req *dto.UpdateAvailabilityRequest) (*dto.AvailabilityResponse, error) {
	day, err := dateutil.Parse(date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	current, err := u.availabilityRepo.FindByDoctorAndDate(ctx, tx, doctorID, day)
	if err != nil {
		u.log.Warnf("Failed to find availability for doctor %s on %s: %+v", doctorID, date, err)
		return nil, err
	}
	if current == nil {
		return nil, ErrAvailabilityNotFound
	}

	updated := *current
	updated.MorningAvailable = *req.MorningAvailable
	updated.EveningAvailable = *req.EveningAvailable

	affected, err := u.availabilityRepo.UpdateShifts(ctx, tx, doctorID, day, updated.MorningAvailable, updated.EveningAvailable)
	if err != nil {
		u.log.Warnf("Failed to update availability for doctor %s on %s: %+v", doctorID, date, err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrAvailabilityNotFound
	}

	if err := u.auditService.LogUpdate(ctx, tx, entity.AuditActionAvailabilityUpdate, "doctor_availability", doctorID+"/"+date,
		converter.AvailabilityToResponse(current), converter.AvailabilityToResponse(&updated)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.cache.Invalidate(ctx, doctorID)

	resp := converter.AvailabilityToResponse(&updated)
	return &resp, nil
}

func (u *availabilityUsecase) DeleteAvailability(ctx context.Context, doctorID string) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	deleted, err := u.availabilityRepo.DeleteByDoctorID(ctx, tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to delete availability for doctor %s: %+v", doctorID, err)
		return err
	}
	if deleted == 0 {
		return ErrNoAvailability
	}

	if err := u.auditService.LogDelete(ctx, tx, entity.AuditActionAvailabilityDelete, "doctor_availability", doctorID, map[string]interface{}{
		"rows": deleted,
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

// Rollover drops every row dated before the Monday of today's week and
// makes sure each active doctor has all seven days of the current week.
// Existing days are left untouched, so running it twice is harmless.
func (u *availabilityUsecase) Rollover(ctx context.Context, today time.Time) (*RolloverResult, error) {
	weekStart := dateutil.StartOfWeek(today)
	days := dateutil.Week(weekStart)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	deleted, err := u.availabilityRepo.DeleteBefore(ctx, tx, weekStart)
	if err != nil {
		u.log.Warnf("Failed to delete availability before %s: %+v", dateutil.Format(weekStart), err)
		return nil, err
	}

	doctorIDs, err := u.doctorRepo.FindActiveIDs(ctx, tx)
	if err != nil {
		u.log.Warnf("Failed to list active doctors: %+v", err)
		return nil, err
	}

	rows := make([]entity.DoctorAvailability, 0, len(doctorIDs)*len(days))
	for _, doctorID := range doctorIDs {
		for _, day := range days {
			rows = append(rows, entity.NewClosedAvailability(doctorID, day))
		}
	}

	created, err := u.availabilityRepo.CreateMissing(ctx, tx, rows)
	if err != nil {
		u.log.Warnf("Failed to create availability for week %s: %+v", dateutil.Format(weekStart), err)
		return nil, err
	}

	result := &RolloverResult{
		WeekStart: weekStart,
		Deleted:   deleted,
		Created:   created,
		Doctors:   len(doctorIDs),
	}

	if err := u.auditService.LogRun(ctx, tx, entity.AuditActionAvailabilityRoll, map[string]interface{}{
		"week_start": dateutil.Format(weekStart),
		"deleted":    deleted,
		"created":    created,
		"doctors":    len(doctorIDs),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.cache.InvalidateAll(ctx)

	return result, nil
}
