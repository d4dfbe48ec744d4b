// Package idgen produces human-readable identifiers for doctors, patients
// and appointments. Identifiers are low-collision hints only: callers must
// check the store before using one and retry on collision.
package idgen

import (
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DoctorPrefix    = "DR"
	PatientPrefix   = "P"
	TreatmentPrefix = "T"

	// DoctorEmailSuffix completes the login email of doctors registered
	// without one.
	DoctorEmailSuffix = "-XYZ@gmail.com"

	ShiftMorning = "Morning"
	ShiftEvening = "Evening"
)

var ErrInvalidShift = errors.New("shift must be Morning or Evening")

type Generator struct {
	newUUID func() uuid.UUID
	intN    func(n int) int
}

func New() *Generator {
	return NewWithSource(uuid.New, rand.Intn)
}

// NewWithSource builds a Generator from explicit randomness sources.
func NewWithSource(newUUID func() uuid.UUID, intN func(n int) int) *Generator {
	return &Generator{
		newUUID: newUUID,
		intN:    intN,
	}
}

// DoctorID returns "DR" followed by the first two segments of a random UUID.
func (g *Generator) DoctorID() string {
	return DoctorPrefix + g.segments()
}

// PatientID returns "P" followed by the first two segments of a random UUID.
func (g *Generator) PatientID() string {
	return PatientPrefix + g.segments()
}

// AppointmentID builds M|E + random hex char + weekday + patient suffix + doctor suffix,
// e.g. "M3Mon1a2b3c4d5e6f9f8e7d6c5b4a".
func (g *Generator) AppointmentID(shift string, date time.Time, patientID, doctorID string) (string, error) {
	var prefix string
	switch shift {
	case ShiftMorning:
		prefix = "M"
	case ShiftEvening:
		prefix = "E"
	default:
		return "", ErrInvalidShift
	}

	uid := g.newUUID().String()
	disambiguator := uid[1+g.intN(3)]

	var b strings.Builder
	b.WriteString(prefix)
	b.WriteByte(disambiguator)
	b.WriteString(date.Format("Mon"))
	b.WriteString(strings.TrimPrefix(patientID, PatientPrefix))
	b.WriteString(strings.TrimPrefix(doctorID, DoctorPrefix))
	return b.String(), nil
}

// DoctorEmail is the login email assigned to a doctor registered without one.
func DoctorEmail(doctorID string) string {
	return doctorID + DoctorEmailSuffix
}

// InitialPassword returns a random 32-character hex password for accounts
// registered without one.
func (g *Generator) InitialPassword() string {
	return strings.ReplaceAll(g.newUUID().String(), "-", "")
}

// TreatmentID is derived deterministically from the appointment it belongs to.
func TreatmentID(appointmentID string) string {
	return TreatmentPrefix + appointmentID
}

func (g *Generator) segments() string {
	parts := strings.SplitN(g.newUUID().String(), "-", 3)
	return parts[0] + parts[1]
}
