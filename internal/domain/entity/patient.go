package entity

import "time"

// MinimumPatientAge is the youngest age the registry accepts.
const MinimumPatientAge = 18

// Patient is the registry record the scheduler validates bookings against.
type Patient struct {
	PatientID        string    `gorm:"type:varchar(16);primaryKey" json:"patient_id"`
	Name             string    `gorm:"type:varchar(100);not null" json:"name"`
	Email            string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash     string    `gorm:"type:text;not null" json:"-"`
	Gender           string    `gorm:"type:varchar(6)" json:"gender,omitempty"`
	PhoneNo          string    `gorm:"type:varchar(15)" json:"phone_no,omitempty"`
	EmergencyContact string    `gorm:"type:varchar(15)" json:"emergency_contact,omitempty"`
	DateOfBirth      time.Time `gorm:"type:date;not null" json:"date_of_birth"`
	Address          string    `gorm:"type:text" json:"address,omitempty"`
	MedicalHistory   string    `gorm:"type:text" json:"medical_history,omitempty"`
	Status           bool      `gorm:"not null;index" json:"status"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Patient) TableName() string {
	return "patients"
}

// AgeOn returns the patient's age in whole years on the given date.
func (p *Patient) AgeOn(day time.Time) int {
	age := day.Year() - p.DateOfBirth.Year()
	if day.Month() < p.DateOfBirth.Month() ||
		(day.Month() == p.DateOfBirth.Month() && day.Day() < p.DateOfBirth.Day()) {
		age--
	}
	return age
}
