package usecase

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrorKind classifies usecase failures for the delivery layer.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindInvalidInput
	KindNotFound
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is a classified usecase error.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf returns the kind of err. Unclassified errors are internal.
func KindOf(err error) ErrorKind {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Kind
	}
	return KindInternal
}

var (
	ErrInvalidDateFormat = newError(KindInvalidInput, "invalid date format, use YYYY-MM-DD")
	ErrInvalidShift      = newError(KindInvalidInput, "shift must be Morning or Evening")
	ErrInvalidStatus     = newError(KindInvalidInput, "status must be one of Completed, Cancelled, Missed")
	ErrShiftUnavailable  = newError(KindInvalidInput, "doctor is not available at requested shift")

	ErrDoctorNotFound       = newError(KindNotFound, "doctor not found")
	ErrPatientNotFound      = newError(KindNotFound, "patient not found")
	ErrDoctorInactive       = newError(KindNotFound, "doctor is not active")
	ErrPatientInactive      = newError(KindNotFound, "patient is not active")
	ErrAvailabilityNotFound = newError(KindNotFound, "no availability found for doctor on requested date")
	ErrNoAvailability       = newError(KindNotFound, "no availability found for doctor")
	ErrAppointmentNotFound  = newError(KindNotFound, "appointment not found")
	ErrHistoryNotFound      = newError(KindNotFound, "no completed appointments found for patient")
	ErrAuditLogNotFound     = newError(KindNotFound, "audit log not found")

	ErrAlreadyBooked             = newError(KindConflict, "appointment already exists for this patient, doctor, date, shift and visit type")
	ErrAvailabilityExists        = newError(KindConflict, "availability already exists for this doctor in the current week")
	ErrTreatmentExists           = newError(KindConflict, "treatment already recorded for this appointment")
	ErrEmailAlreadyExists        = newError(KindConflict, "email already exists")
	ErrIDSpaceExhausted          = newError(KindConflict, "could not generate a unique identifier, retry the request")
	ErrBookedAppointmentNotFound = newError(KindNotFound, "no booked appointment matches the given appointment, doctor and patient")
	ErrPatientTooYoung           = newError(KindInvalidInput, "patient must be at least 18 years old")
)

// isDuplicateKeyError checks if the error is a unique constraint violation.
// PostgreSQL errors are matched against constraintName when one is given;
// translated gorm errors carry no constraint name and always match.
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		return pgErr.Code == "23505" &&
			strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName))
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
