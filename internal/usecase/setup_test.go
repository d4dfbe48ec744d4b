package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"hospital-management-backend/internal/domain/entity"
	domainRepo "hospital-management-backend/internal/domain/repository"
	"hospital-management-backend/internal/repository"
	"hospital-management-backend/internal/service"
	"hospital-management-backend/internal/testutil"
	"hospital-management-backend/pkg/idgen"

	"gorm.io/gorm"
)

// monday is the fixed "today" of every usecase test.
var monday = testutil.Date(2024, time.June, 10)

type testEnv struct {
	db           *gorm.DB
	clock        Clock
	ids          *idgen.Generator
	availability AvailabilityUsecase
	appointments AppointmentUsecase
	doctors      DoctorUsecase
	patients     PatientUsecase
	treatments   TreatmentUsecase
	maintenance  MaintenanceUsecase
	auditLogs    AuditLogUsecase
}

type envOption func(*envConfig)

type envConfig struct {
	ids             *idgen.Generator
	appointmentRepo func(base domainRepo.AppointmentRepository) domainRepo.AppointmentRepository
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	cfg := envConfig{ids: idgen.New()}
	for _, opt := range opts {
		opt(&cfg)
	}

	db := testutil.NewDB(t)
	log := testutil.NewLogger()
	clock := NewClock(func() time.Time { return monday.Add(9 * time.Hour) }, time.UTC)

	doctorRepo := repository.NewDoctorRepository()
	patientRepo := repository.NewPatientRepository()
	availabilityRepo := repository.NewAvailabilityRepository()
	var appointmentRepo domainRepo.AppointmentRepository = repository.NewAppointmentRepository()
	if cfg.appointmentRepo != nil {
		appointmentRepo = cfg.appointmentRepo(appointmentRepo)
	}
	treatmentRepo := repository.NewTreatmentRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	audit := service.NewAuditService(log, auditLogRepo)
	cache := service.NoopAvailabilityCache{}

	availability := NewAvailabilityUsecase(db, log, clock, availabilityRepo, doctorRepo, audit, cache)
	return &testEnv{
		db:           db,
		clock:        clock,
		ids:          cfg.ids,
		availability: availability,
		appointments: NewAppointmentUsecase(db, log, cfg.ids, 5, appointmentRepo, availabilityRepo, doctorRepo, patientRepo, treatmentRepo, audit),
		doctors:      NewDoctorUsecase(db, log, clock, cfg.ids, 5, doctorRepo, availabilityRepo, appointmentRepo, treatmentRepo, audit, cache),
		patients:     NewPatientUsecase(db, log, clock, cfg.ids, 5, patientRepo, appointmentRepo, treatmentRepo, audit),
		treatments:   NewTreatmentUsecase(db, log, appointmentRepo, treatmentRepo, audit),
		maintenance:  NewMaintenanceUsecase(db, log, clock, appointmentRepo, availability, audit),
		auditLogs:    NewAuditLogUsecase(db, log, auditLogRepo),
	}
}

func withIDs(ids *idgen.Generator) envOption {
	return func(c *envConfig) { c.ids = ids }
}

func withAppointmentRepo(wrap func(base domainRepo.AppointmentRepository) domainRepo.AppointmentRepository) envOption {
	return func(c *envConfig) { c.appointmentRepo = wrap }
}

func (e *testEnv) countAvailability(t *testing.T, doctorID string) int64 {
	t.Helper()
	var count int64
	if err := e.db.Model(&entity.DoctorAvailability{}).Where("doctor_id = ?", doctorID).Count(&count).Error; err != nil {
		t.Fatalf("count availability: %v", err)
	}
	return count
}

func (e *testEnv) appointment(t *testing.T, id string) *entity.Appointment {
	t.Helper()
	var a entity.Appointment
	if err := e.db.Where("appointment_id = ?", id).First(&a).Error; err != nil {
		t.Fatalf("load appointment %s: %v", id, err)
	}
	return &a
}

func (e *testEnv) auditActions(t *testing.T) []entity.AuditLog {
	t.Helper()
	var logs []entity.AuditLog
	if err := e.db.Order("id ASC").Find(&logs).Error; err != nil {
		t.Fatalf("load audit logs: %v", err)
	}
	return logs
}

func assertErr(t *testing.T, err, want error, kind ErrorKind) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
	if KindOf(err) != kind {
		t.Fatalf("expected kind %s, got %s", kind, KindOf(err))
	}
}

func ctxAs(actor string) context.Context {
	return service.WithActor(context.Background(), actor)
}
