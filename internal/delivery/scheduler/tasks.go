package scheduler

import (
	"context"

	"hospital-management-backend/config"
	"hospital-management-backend/internal/usecase"
)

const (
	TaskExpireBookings       = "expire-bookings"
	TaskRolloverAvailability = "rollover-availability"
)

// TaskNames lists the maintenance tasks in a stable order.
var TaskNames = []string{TaskExpireBookings, TaskRolloverAvailability}

func ExpireBookings(m usecase.MaintenanceUsecase) TaskFunc {
	return func(ctx context.Context) error {
		_, err := m.ExpireBookings(ctx, m.Today())
		return err
	}
}

func RolloverAvailability(m usecase.MaintenanceUsecase) TaskFunc {
	return func(ctx context.Context) error {
		_, err := m.RolloverAvailability(ctx, m.Today())
		return err
	}
}

// RegisterMaintenance registers both maintenance tasks on their configured
// schedules. With schedules disabled the tasks are still available to RunNow.
func RegisterMaintenance(s *Scheduler, m usecase.MaintenanceUsecase, cfg config.SchedulerConfig) error {
	expireSpec, rolloverSpec := cfg.ExpireSpec, cfg.RolloverSpec
	if !cfg.Enabled {
		expireSpec, rolloverSpec = "", ""
	}
	if err := s.Register(TaskExpireBookings, expireSpec, ExpireBookings(m)); err != nil {
		return err
	}
	return s.Register(TaskRolloverAvailability, rolloverSpec, RolloverAvailability(m))
}
