package entity

import (
	"strings"
	"time"
)

// Shift is one of the two daily booking windows.
type Shift string

const (
	ShiftMorning Shift = "Morning"
	ShiftEvening Shift = "Evening"
)

// Valid reports whether s is Morning or Evening. Matching is exact.
func (s Shift) Valid() bool {
	return s == ShiftMorning || s == ShiftEvening
}

// AppointmentStatus is a flat enum; any status may be overwritten by any
// update target, there is no transition table.
type AppointmentStatus string

const (
	AppointmentStatusBooked    AppointmentStatus = "Booked"
	AppointmentStatusCompleted AppointmentStatus = "Completed"
	AppointmentStatusCancelled AppointmentStatus = "Cancelled"
	AppointmentStatusMissed    AppointmentStatus = "Missed"
)

// ParseStatusUpdate maps a requested status to an update target. It accepts
// the canonical names and the short route verbs (complete, cancel, missed),
// case-insensitively. Booked is not a valid update target.
func ParseStatusUpdate(s string) (AppointmentStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "complete", "completed":
		return AppointmentStatusCompleted, true
	case "cancel", "cancelled", "canceled":
		return AppointmentStatusCancelled, true
	case "miss", "missed":
		return AppointmentStatusMissed, true
	default:
		return "", false
	}
}

// Appointment is a booking of a patient with a doctor on one shift of one date.
// uq_appointment_booking prevents duplicate bookings of the same tuple.
type Appointment struct {
	AppointmentID string            `gorm:"type:varchar(40);primaryKey" json:"appointment_id"`
	PatientID     string            `gorm:"type:varchar(16);not null;uniqueIndex:uq_appointment_booking,priority:1;index" json:"patient_id"`
	DoctorID      string            `gorm:"type:varchar(16);not null;uniqueIndex:uq_appointment_booking,priority:2;index" json:"doctor_id"`
	Date          time.Time         `gorm:"type:date;not null;uniqueIndex:uq_appointment_booking,priority:3" json:"date"`
	Shift         Shift             `gorm:"type:varchar(10);not null;uniqueIndex:uq_appointment_booking,priority:4" json:"shift"`
	VisitType     string            `gorm:"type:varchar(15);not null;uniqueIndex:uq_appointment_booking,priority:5" json:"visit_type"`
	Status        AppointmentStatus `gorm:"type:varchar(12);not null;index" json:"status"`
	Reason        *string           `gorm:"type:text" json:"reason,omitempty"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Treatment *Treatment `gorm:"foreignKey:AppointmentID;references:AppointmentID;constraint:OnDelete:CASCADE" json:"treatment,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsBooked checks if the appointment is still awaiting its visit
func (a *Appointment) IsBooked() bool {
	return a.Status == AppointmentStatusBooked
}

// AppointmentFilter narrows appointment listings. Empty fields are ignored.
type AppointmentFilter struct {
	Status    AppointmentStatus
	DoctorID  string
	PatientID string
}
