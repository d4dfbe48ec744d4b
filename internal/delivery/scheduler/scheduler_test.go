package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"hospital-management-backend/config"
	"hospital-management-backend/internal/domain/entity"
	"hospital-management-backend/internal/service"
	"hospital-management-backend/internal/testutil"
	"hospital-management-backend/internal/usecase"
)

type fakeLock struct {
	mu       sync.Mutex
	deny     bool
	err      error
	released int
}

func (l *fakeLock) Acquire(context.Context, string, time.Duration) (func(), bool, error) {
	if l.err != nil {
		return func() {}, false, l.err
	}
	if l.deny {
		return func() {}, false, nil
	}
	return func() {
		l.mu.Lock()
		l.released++
		l.mu.Unlock()
	}, true, nil
}

func newTestScheduler(lock service.JobLock, opts Options) *Scheduler {
	return New(testutil.NewLogger(), lock, opts)
}

func TestRunNow_WrapsFailure(t *testing.T) {
	lock := &fakeLock{}
	s := newTestScheduler(lock, Options{})
	boom := errors.New("database unavailable")

	if err := s.Register("expire", "", func(context.Context) error { return boom }); err != nil {
		t.Fatalf("Register: %v", err)
	}

	err := s.RunNow(context.Background(), "expire")
	var jobErr *JobError
	if !errors.As(err, &jobErr) {
		t.Fatalf("expected JobError, got %v", err)
	}
	if jobErr.Task != "expire" || !errors.Is(err, boom) {
		t.Errorf("unexpected job error %v", jobErr)
	}
	if lock.released != 1 {
		t.Errorf("expected lock released once, got %d", lock.released)
	}
}

func TestRunNow_RecoversPanic(t *testing.T) {
	lock := &fakeLock{}
	s := newTestScheduler(lock, Options{})
	if err := s.Register("rollover", "", func(context.Context) error { panic("nil map") }); err != nil {
		t.Fatalf("Register: %v", err)
	}

	err := s.RunNow(context.Background(), "rollover")
	var jobErr *JobError
	if !errors.As(err, &jobErr) {
		t.Fatalf("expected JobError from panic, got %v", err)
	}
	if lock.released != 1 {
		t.Errorf("expected lock released after panic, got %d", lock.released)
	}
}

func TestRunNow_SkipsWhenLockHeld(t *testing.T) {
	s := newTestScheduler(&fakeLock{deny: true}, Options{})
	var calls atomic.Int32
	s.Register("expire", "", func(context.Context) error {
		calls.Add(1)
		return nil
	})

	if err := s.RunNow(context.Background(), "expire"); err != nil {
		t.Fatalf("skipped run should not fail: %v", err)
	}
	if calls.Load() != 0 {
		t.Error("task must not run without the lock")
	}
}

func TestRunNow_LockError(t *testing.T) {
	s := newTestScheduler(&fakeLock{err: errors.New("redis down")}, Options{})
	s.Register("expire", "", func(context.Context) error { return nil })

	var jobErr *JobError
	if err := s.RunNow(context.Background(), "expire"); !errors.As(err, &jobErr) {
		t.Fatalf("expected JobError, got %v", err)
	}
}

func TestRunNow_Timeout(t *testing.T) {
	s := newTestScheduler(nil, Options{RunTimeout: 20 * time.Millisecond})
	s.Register("slow", "", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	err := s.RunNow(context.Background(), "slow")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestRunNow_UnknownTask(t *testing.T) {
	s := newTestScheduler(nil, Options{})
	if err := s.RunNow(context.Background(), "nope"); !errors.Is(err, ErrUnknownTask) {
		t.Fatalf("expected ErrUnknownTask, got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	s := newTestScheduler(nil, Options{})
	noop := func(context.Context) error { return nil }

	if err := s.Register("expire", "5 0 * * *", noop); err != nil {
		t.Fatalf("valid spec: %v", err)
	}
	if err := s.Register("expire", "", noop); err == nil {
		t.Error("expected duplicate name error")
	}
	if err := s.Register("broken", "every day", noop); err == nil {
		t.Error("expected invalid spec error")
	}
	if err := s.Register("six-fields", "0 5 0 * * *", noop); err == nil {
		t.Error("expected seconds field to be rejected")
	}
}

func TestTick_UsesSchedulerActorAndSwallowsErrors(t *testing.T) {
	s := newTestScheduler(nil, Options{})
	var actor string
	s.Register("expire", "", func(ctx context.Context) error {
		actor = service.ActorFromContext(ctx)
		return errors.New("fails every time")
	})

	s.tick("expire")

	if actor != entity.AuditActorScheduler {
		t.Errorf("expected scheduler actor, got %q", actor)
	}
}

func TestStartStop_FiresAndIsIdempotent(t *testing.T) {
	s := newTestScheduler(nil, Options{})
	fired := make(chan struct{}, 10)
	if err := s.Register("heartbeat", "@every 1s", func(context.Context) error {
		fired <- struct{}{}
		return nil
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	s.Start()
	s.Start()

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("scheduled task never fired")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
	s.Stop(ctx)
}

type fakeMaintenance struct {
	today    time.Time
	expired  []time.Time
	rollover []time.Time
}

func (m *fakeMaintenance) ExpireBookings(_ context.Context, today time.Time) (*usecase.ExpireResult, error) {
	m.expired = append(m.expired, today)
	return &usecase.ExpireResult{Today: today}, nil
}

func (m *fakeMaintenance) RolloverAvailability(_ context.Context, today time.Time) (*usecase.RolloverResult, error) {
	m.rollover = append(m.rollover, today)
	return &usecase.RolloverResult{WeekStart: today}, nil
}

func (m *fakeMaintenance) Today() time.Time {
	return m.today
}

func TestRegisterMaintenance(t *testing.T) {
	monday := testutil.Date(2024, time.June, 17)

	tests := []struct {
		name    string
		enabled bool
		entries int
	}{
		{"enabled", true, 2},
		{"disabled", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &fakeMaintenance{today: monday}
			s := newTestScheduler(nil, Options{})
			cfg := config.SchedulerConfig{Enabled: tt.enabled, ExpireSpec: "5 0 * * *", RolloverSpec: "5 0 * * 1"}

			if err := RegisterMaintenance(s, m, cfg); err != nil {
				t.Fatalf("RegisterMaintenance: %v", err)
			}
			if got := len(s.cron.Entries()); got != tt.entries {
				t.Errorf("expected %d cron entries, got %d", tt.entries, got)
			}

			for _, name := range TaskNames {
				if err := s.RunNow(context.Background(), name); err != nil {
					t.Fatalf("RunNow(%s): %v", name, err)
				}
			}
			if len(m.expired) != 1 || !m.expired[0].Equal(monday) {
				t.Errorf("expire ran with %v", m.expired)
			}
			if len(m.rollover) != 1 || !m.rollover[0].Equal(monday) {
				t.Errorf("rollover ran with %v", m.rollover)
			}
		})
	}
}
