// Package scheduler runs the periodic maintenance tasks. Each task has a
// name, a cron spec and a function; it can also be triggered on demand.
// A failing or panicking task is logged and never stops the schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"hospital-management-backend/internal/domain/entity"
	"hospital-management-backend/internal/service"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// ErrUnknownTask is returned by RunNow for a name that was never registered.
var ErrUnknownTask = errors.New("unknown maintenance task")

// JobError wraps a failed task run.
type JobError struct {
	Task string
	Err  error
}

func (e *JobError) Error() string {
	return fmt.Sprintf("maintenance task %s failed: %v", e.Task, e.Err)
}

func (e *JobError) Unwrap() error {
	return e.Err
}

// TaskFunc performs one run of a task.
type TaskFunc func(ctx context.Context) error

type Options struct {
	Location   *time.Location
	RunTimeout time.Duration
	LockTTL    time.Duration
}

type task struct {
	name string
	spec string
	fn   TaskFunc
}

type Scheduler struct {
	cron  *cron.Cron
	log   *logrus.Logger
	lock  service.JobLock
	opts  Options
	group singleflight.Group

	mu    sync.RWMutex
	tasks map[string]*task

	started atomic.Bool
	stopped atomic.Bool
}

func New(log *logrus.Logger, lock service.JobLock, opts Options) *Scheduler {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.RunTimeout <= 0 {
		opts.RunTimeout = 10 * time.Minute
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = opts.RunTimeout + 5*time.Minute
	}
	if lock == nil {
		lock = service.NoopJobLock{}
	}

	cronLogger := cron.PrintfLogger(log)
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(opts.Location),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		log:   log,
		lock:  lock,
		opts:  opts,
		tasks: make(map[string]*task),
	}
}

// Register adds a task fired on the five-field cron spec. An empty spec
// registers the task for RunNow only.
func (s *Scheduler) Register(name, spec string, fn TaskFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[name]; ok {
		return fmt.Errorf("maintenance task %s already registered", name)
	}

	t := &task{name: name, spec: spec, fn: fn}
	if spec != "" {
		if _, err := s.cron.AddFunc(spec, func() { s.tick(name) }); err != nil {
			return fmt.Errorf("invalid schedule %q for task %s: %w", spec, name, err)
		}
	}
	s.tasks[name] = t
	return nil
}

// Start begins firing scheduled tasks. Calling it again is a no-op.
func (s *Scheduler) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	s.cron.Start()

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.spec != "" {
			s.log.WithFields(logrus.Fields{"task": t.name, "spec": t.spec}).Info("Maintenance task scheduled")
		}
	}
}

// Stop stops firing new runs and waits for in-flight runs until ctx is done.
// Safe to call multiple times.
func (s *Scheduler) Stop(ctx context.Context) {
	if !s.stopped.CompareAndSwap(false, true) {
		return
	}
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info("Scheduler stopped")
	case <-ctx.Done():
		s.log.Warn("Scheduler stop timed out with tasks still running")
	}
}

// RunNow runs a task immediately. Concurrent calls for the same task share a
// single run and its result.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.RLock()
	t, ok := s.tasks[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}

	_, err, _ := s.group.Do(name, func() (interface{}, error) {
		return nil, s.run(ctx, t)
	})
	return err
}

// tick is the cron entry point. Errors end here.
func (s *Scheduler) tick(name string) {
	ctx := service.WithActor(context.Background(), entity.AuditActorScheduler)
	if err := s.RunNow(ctx, name); err != nil {
		s.log.WithField("task", name).Errorf("Maintenance run failed, retrying at next tick: %v", err)
	}
}

func (s *Scheduler) run(ctx context.Context, t *task) (err error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.RunTimeout)
	defer cancel()

	entry := s.log.WithField("task", t.name)

	release, acquired, err := s.lock.Acquire(ctx, t.name, s.opts.LockTTL)
	if err != nil {
		return &JobError{Task: t.name, Err: fmt.Errorf("acquire lock: %w", err)}
	}
	if !acquired {
		entry.Info("Maintenance run skipped, another instance holds the lock")
		return nil
	}
	defer release()

	defer func() {
		if r := recover(); r != nil {
			err = &JobError{Task: t.name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	start := time.Now()
	runErr := t.fn(ctx)
	elapsed := time.Since(start)

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		entry.WithField("timeout", s.opts.RunTimeout).Warn("Maintenance run exceeded its timeout")
	}
	if runErr != nil {
		return &JobError{Task: t.name, Err: runErr}
	}

	entry.WithField("duration_ms", elapsed.Milliseconds()).Debug("Maintenance run finished")
	return nil
}
