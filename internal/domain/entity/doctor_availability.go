package entity

import "time"

// DoctorAvailability records which shifts a doctor is open for on one date.
// The composite primary key (doctor_id, date) guarantees at most one row per day.
type DoctorAvailability struct {
	DoctorID         string    `gorm:"type:varchar(16);primaryKey" json:"doctor_id"`
	Date             time.Time `gorm:"type:date;primaryKey;index" json:"date"`
	MorningAvailable bool      `gorm:"not null" json:"morning_available"`
	EveningAvailable bool      `gorm:"not null" json:"evening_available"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DoctorAvailability) TableName() string {
	return "doctor_availability"
}

// NewClosedAvailability returns a row with both shifts closed. New rows are
// always closed and must be opened explicitly.
func NewClosedAvailability(doctorID string, date time.Time) DoctorAvailability {
	return DoctorAvailability{
		DoctorID: doctorID,
		Date:     date,
	}
}

// IsOpen reports whether the given shift is open for booking.
func (a *DoctorAvailability) IsOpen(shift Shift) bool {
	switch shift {
	case ShiftMorning:
		return a.MorningAvailable
	case ShiftEvening:
		return a.EveningAvailable
	default:
		return false
	}
}
