package usecase

import (
	"context"
	"strings"
	"testing"

	"hospital-management-backend/internal/delivery/dto"
	"hospital-management-backend/internal/domain/entity"
	"hospital-management-backend/internal/testutil"

	"golang.org/x/crypto/bcrypt"
)

func doctorRequest(email string) *dto.CreateDoctorRequest {
	return &dto.CreateDoctorRequest{
		Name:       "Dr Strange",
		Email:      email,
		Password:   "supersecret",
		Speciality: "Neurology",
	}
}

func TestCreateDoctor_OnboardsCurrentWeek(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doctor, err := env.doctors.CreateDoctor(ctx, doctorRequest("strange@hospital.test"))
	if err != nil {
		t.Fatalf("CreateDoctor: %v", err)
	}
	if !strings.HasPrefix(doctor.DoctorID, "DR") || len(doctor.DoctorID) != 14 {
		t.Errorf("unexpected doctor id %q", doctor.DoctorID)
	}
	if !doctor.Status {
		t.Error("new doctors start active")
	}
	if got := env.countAvailability(t, doctor.DoctorID); got != 7 {
		t.Errorf("expected 7 onboarding rows, got %d", got)
	}

	var stored entity.Doctor
	env.db.Where("doctor_id = ?", doctor.DoctorID).First(&stored)
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("supersecret")); err != nil {
		t.Errorf("password not hashed with bcrypt: %v", err)
	}

	_, err = env.doctors.CreateDoctor(ctx, doctorRequest("strange@hospital.test"))
	assertErr(t, err, ErrEmailAlreadyExists, KindConflict)

	var count int64
	env.db.Model(&entity.DoctorAvailability{}).Count(&count)
	if count != 7 {
		t.Errorf("failed registration must not leave availability behind, got %d rows", count)
	}
}

func TestCreateDoctor_GeneratesMissingCredentials(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doctor, err := env.doctors.CreateDoctor(ctx, &dto.CreateDoctorRequest{Name: "Dr Who"})
	if err != nil {
		t.Fatalf("CreateDoctor: %v", err)
	}
	if want := doctor.DoctorID + "-XYZ@gmail.com"; doctor.Email != want {
		t.Errorf("expected email %q, got %q", want, doctor.Email)
	}
	if len(doctor.InitialPassword) != 32 {
		t.Fatalf("expected a generated password, got %q", doctor.InitialPassword)
	}

	var stored entity.Doctor
	env.db.Where("doctor_id = ?", doctor.DoctorID).First(&stored)
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(doctor.InitialPassword)); err != nil {
		t.Errorf("generated password does not match stored hash: %v", err)
	}

	var audited int64
	env.db.Model(&entity.AuditLog{}).Where("metadata LIKE ?", "%"+doctor.InitialPassword+"%").Count(&audited)
	if audited != 0 {
		t.Error("generated password must not reach the audit log")
	}

	supplied, err := env.doctors.CreateDoctor(ctx, doctorRequest("house@hospital.test"))
	if err != nil {
		t.Fatalf("CreateDoctor: %v", err)
	}
	if supplied.InitialPassword != "" {
		t.Error("supplied passwords are never echoed")
	}
}

func TestDoctorStatusAndDelete(t *testing.T) {
	env := newTestEnv(t)
	seedClinic(t, env)
	ctx := context.Background()

	booked, err := env.appointments.BookAppointment(ctx, bookingRequest("Morning"))
	if err != nil {
		t.Fatalf("BookAppointment: %v", err)
	}
	if _, err := env.treatments.CreateTreatment(ctx, &dto.CreateTreatmentRequest{
		AppointmentID: booked.AppointmentID, DoctorID: "DR1", PatientID: "P1",
	}); err != nil {
		t.Fatalf("CreateTreatment: %v", err)
	}

	inactive, err := env.doctors.UpdateDoctorStatus(ctx, "DR1", false)
	if err != nil || inactive.Status {
		t.Fatalf("UpdateDoctorStatus: %+v %v", inactive, err)
	}
	req := bookingRequest("Morning")
	req.VisitType = "Follow-up"
	_, err = env.appointments.BookAppointment(ctx, req)
	assertErr(t, err, ErrDoctorInactive, KindNotFound)

	if err := env.doctors.DeleteDoctor(ctx, "DR1"); err != nil {
		t.Fatalf("DeleteDoctor: %v", err)
	}
	for _, model := range []interface{}{&entity.Appointment{}, &entity.Treatment{}, &entity.DoctorAvailability{}, &entity.Doctor{}} {
		var count int64
		env.db.Model(model).Count(&count)
		if count != 0 {
			t.Errorf("%T: expected cascade delete, %d rows left", model, count)
		}
	}

	_, err = env.doctors.GetDoctor(ctx, "DR1")
	assertErr(t, err, ErrDoctorNotFound, KindNotFound)
	err = env.doctors.DeleteDoctor(ctx, "DR1")
	assertErr(t, err, ErrDoctorNotFound, KindNotFound)
}

func patientRequest(email, dob string) *dto.CreatePatientRequest {
	return &dto.CreatePatientRequest{
		Name:        "Jane Doe",
		Email:       email,
		Password:    "supersecret",
		DateOfBirth: dob,
	}
}

func TestCreatePatient(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		dob  string
		want error
		kind ErrorKind
	}{
		{"turns eighteen tomorrow", "2006-06-11", ErrPatientTooYoung, KindInvalidInput},
		{"bad date", "11/06/2006", ErrInvalidDateFormat, KindInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.patients.CreatePatient(ctx, patientRequest("minor@patient.test", tt.dob))
			assertErr(t, err, tt.want, tt.kind)
		})
	}

	patient, err := env.patients.CreatePatient(ctx, patientRequest("jane@patient.test", "2006-06-10"))
	if err != nil {
		t.Fatalf("CreatePatient on eighteenth birthday: %v", err)
	}
	if !strings.HasPrefix(patient.PatientID, "P") || patient.DateOfBirth != "2006-06-10" {
		t.Errorf("unexpected patient %+v", patient)
	}

	_, err = env.patients.CreatePatient(ctx, patientRequest("jane@patient.test", "1990-01-01"))
	assertErr(t, err, ErrEmailAlreadyExists, KindConflict)
}

func TestPatientStatusAndDelete(t *testing.T) {
	env := newTestEnv(t)
	seedClinic(t, env)
	ctx := context.Background()

	booked, err := env.appointments.BookAppointment(ctx, bookingRequest("Morning"))
	if err != nil {
		t.Fatalf("BookAppointment: %v", err)
	}

	if _, err := env.patients.UpdatePatientStatus(ctx, "P1", false); err != nil {
		t.Fatalf("UpdatePatientStatus: %v", err)
	}
	_, err = env.appointments.GetAppointment(ctx, booked.AppointmentID)
	assertErr(t, err, ErrAppointmentNotFound, KindNotFound)

	if _, err := env.patients.UpdatePatientStatus(ctx, "P1", true); err != nil {
		t.Fatalf("UpdatePatientStatus: %v", err)
	}
	if _, err := env.appointments.GetAppointment(ctx, booked.AppointmentID); err != nil {
		t.Fatalf("reactivated patient should be visible again: %v", err)
	}

	if err := env.patients.DeletePatient(ctx, "P1"); err != nil {
		t.Fatalf("DeletePatient: %v", err)
	}
	var count int64
	env.db.Model(&entity.Appointment{}).Count(&count)
	if count != 0 {
		t.Errorf("expected appointments removed, got %d", count)
	}

	_, err = env.patients.GetPatient(ctx, "P1")
	assertErr(t, err, ErrPatientNotFound, KindNotFound)
}

func TestCreateTreatment(t *testing.T) {
	env := newTestEnv(t)
	seedClinic(t, env)
	ctx := context.Background()

	booked, err := env.appointments.BookAppointment(ctx, bookingRequest("Morning"))
	if err != nil {
		t.Fatalf("BookAppointment: %v", err)
	}
	req := &dto.CreateTreatmentRequest{AppointmentID: booked.AppointmentID, DoctorID: "DR1", PatientID: "P1"}

	_, err = env.treatments.CreateTreatment(ctx, &dto.CreateTreatmentRequest{AppointmentID: booked.AppointmentID, DoctorID: "DR1", PatientID: "P2"})
	assertErr(t, err, ErrBookedAppointmentNotFound, KindNotFound)

	treatment, err := env.treatments.CreateTreatment(ctx, req)
	if err != nil {
		t.Fatalf("CreateTreatment: %v", err)
	}
	if treatment.TreatmentID != "T"+booked.AppointmentID {
		t.Errorf("unexpected treatment id %s", treatment.TreatmentID)
	}
	if got := env.appointment(t, booked.AppointmentID).Status; got != entity.AppointmentStatusBooked {
		t.Errorf("treatment must not change appointment status, got %s", got)
	}

	_, err = env.treatments.CreateTreatment(ctx, req)
	assertErr(t, err, ErrTreatmentExists, KindConflict)
}

func TestCreateTreatment_RequiresBookedAppointment(t *testing.T) {
	env := newTestEnv(t)
	seedClinic(t, env)
	testutil.SeedAppointment(t, env.db, entity.Appointment{
		AppointmentID: "DONE", PatientID: "P1", DoctorID: "DR1",
		Date: monday, Shift: entity.ShiftMorning, Status: entity.AppointmentStatusCompleted,
	})

	_, err := env.treatments.CreateTreatment(context.Background(), &dto.CreateTreatmentRequest{
		AppointmentID: "DONE", DoctorID: "DR1", PatientID: "P1",
	})
	assertErr(t, err, ErrBookedAppointmentNotFound, KindNotFound)
}

func TestAuditLogUsecase(t *testing.T) {
	env := newTestEnv(t)
	seedClinic(t, env)
	ctx := context.Background()

	if _, err := env.appointments.BookAppointment(ctx, bookingRequest("Morning")); err != nil {
		t.Fatalf("BookAppointment: %v", err)
	}

	page, err := env.auditLogs.GetAllAuditLogs(ctx, 0, -1)
	if err != nil {
		t.Fatalf("GetAllAuditLogs: %v", err)
	}
	if page.Total != 1 || len(page.Logs) != 1 {
		t.Fatalf("unexpected page %+v", page)
	}

	one, err := env.auditLogs.GetAuditLog(ctx, page.Logs[0].ID)
	if err != nil || one.Action != entity.AuditActionAppointmentBook {
		t.Errorf("GetAuditLog: %+v %v", one, err)
	}

	_, err = env.auditLogs.GetAuditLog(ctx, 999)
	assertErr(t, err, ErrAuditLogNotFound, KindNotFound)
}
