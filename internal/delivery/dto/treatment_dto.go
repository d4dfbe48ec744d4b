package dto

import "time"

// Request DTOs

type CreateTreatmentRequest struct {
	AppointmentID string  `json:"appointment_id" validate:"required,max=40"`
	DoctorID      string  `json:"doctor_id" validate:"required,max=16"`
	PatientID     string  `json:"patient_id" validate:"required,max=16"`
	TestDone      *string `json:"test_done" validate:"omitempty"`
	Diagnosis     *string `json:"diagnosis" validate:"omitempty"`
	Prescription  *string `json:"prescription" validate:"omitempty"`
	FollowUpDate  *string `json:"follow_up_date" validate:"omitempty,calendardate"` // Format: YYYY-MM-DD
}

// Response DTOs

type TreatmentResponse struct {
	TreatmentID   string    `json:"treatment_id"`
	AppointmentID string    `json:"appointment_id"`
	TestDone      *string   `json:"test_done,omitempty"`
	Diagnosis     *string   `json:"diagnosis,omitempty"`
	Prescription  *string   `json:"prescription,omitempty"`
	FollowUpDate  *string   `json:"follow_up_date,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
