package entity

import "time"

// Treatment is the clinical record of a visit, one per appointment.
type Treatment struct {
	TreatmentID   string    `gorm:"type:varchar(48);primaryKey" json:"treatment_id"`
	AppointmentID string    `gorm:"type:varchar(40);uniqueIndex;not null" json:"appointment_id"`
	TestDone      *string   `gorm:"type:text" json:"test_done,omitempty"`
	Diagnosis     *string   `gorm:"type:text" json:"diagnosis,omitempty"`
	Prescription  *string   `gorm:"type:text" json:"prescription,omitempty"`
	FollowUpDate  *string   `gorm:"type:text" json:"follow_up_date,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Treatment) TableName() string {
	return "treatments"
}
