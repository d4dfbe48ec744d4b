package entity

import "time"

// Doctor is the registry record the scheduler validates bookings against.
type Doctor struct {
	DoctorID     string    `gorm:"type:varchar(16);primaryKey" json:"doctor_id"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:text;not null" json:"-"`
	Gender       string    `gorm:"type:varchar(6)" json:"gender,omitempty"`
	Speciality   string    `gorm:"type:varchar(100)" json:"speciality,omitempty"`
	PhoneNo      string    `gorm:"type:varchar(20)" json:"phone_no,omitempty"`
	Status       bool      `gorm:"not null;index" json:"status"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// IsBookable reports whether appointments may be made with this doctor.
func (d *Doctor) IsBookable() bool {
	return d.Status
}
