package usecase

import (
	"context"
	"time"

	"hospital-management-backend/internal/domain/entity"
	"hospital-management-backend/internal/domain/repository"
	"hospital-management-backend/internal/service"
	"hospital-management-backend/pkg/dateutil"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ExpireResult summarises one expiry run.
type ExpireResult struct {
	Today   time.Time
	Expired int64
}

// MaintenanceUsecase holds the two periodic housekeeping tasks. Each runs as
// a single transaction: it either commits fully or leaves no trace.
type MaintenanceUsecase interface {
	// ExpireBookings marks every Booked appointment dated before today as Missed.
	ExpireBookings(ctx context.Context, today time.Time) (*ExpireResult, error)
	// RolloverAvailability moves the availability window to today's week.
	RolloverAvailability(ctx context.Context, today time.Time) (*RolloverResult, error)
	Today() time.Time
}

type maintenanceUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	clock           Clock
	appointmentRepo repository.AppointmentRepository
	availability    AvailabilityUsecase
	auditService    service.AuditService
}

func NewMaintenanceUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	clock Clock,
	appointmentRepo repository.AppointmentRepository,
	availability AvailabilityUsecase,
	auditService service.AuditService,
) MaintenanceUsecase {
	return &maintenanceUsecase{
		db:              db,
		log:             log,
		clock:           clock,
		appointmentRepo: appointmentRepo,
		availability:    availability,
		auditService:    auditService,
	}
}

func (u *maintenanceUsecase) Today() time.Time {
	return u.clock.Today()
}

func (u *maintenanceUsecase) ExpireBookings(ctx context.Context, today time.Time) (*ExpireResult, error) {
	today = dateutil.DateOf(today)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	expired, err := u.appointmentRepo.MarkMissedBefore(ctx, tx, today)
	if err != nil {
		u.log.Warnf("Failed to expire bookings before %s: %+v", dateutil.Format(today), err)
		return nil, err
	}

	if err := u.auditService.LogRun(ctx, tx, entity.AuditActionAppointmentExpire, map[string]interface{}{
		"today":   dateutil.Format(today),
		"expired": expired,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"today":   dateutil.Format(today),
		"expired": expired,
	}).Info("Expired past bookings")

	return &ExpireResult{Today: today, Expired: expired}, nil
}

func (u *maintenanceUsecase) RolloverAvailability(ctx context.Context, today time.Time) (*RolloverResult, error) {
	result, err := u.availability.Rollover(ctx, dateutil.DateOf(today))
	if err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"week_start": dateutil.Format(result.WeekStart),
		"deleted":    result.Deleted,
		"created":    result.Created,
		"doctors":    result.Doctors,
	}).Info("Rolled availability forward")

	return result, nil
}
