package dto

import "time"

// Request DTOs

// CreateDoctorRequest registers a doctor. Email and password are optional;
// missing ones are generated from the doctor id.
type CreateDoctorRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	Email      string `json:"email" validate:"omitempty,email,max=255"`
	Password   string `json:"password" validate:"omitempty,min=8,max=72"`
	Gender     string `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	Speciality string `json:"speciality" validate:"omitempty,max=100"`
	PhoneNo    string `json:"phone_no" validate:"omitempty,max=20"`
}

// UpdateStatusRequest activates or deactivates a doctor or patient.
type UpdateStatusRequest struct {
	Status *bool `json:"status" validate:"required"`
}

// Response DTOs

type DoctorResponse struct {
	DoctorID   string    `json:"doctor_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Gender     string    `json:"gender,omitempty"`
	Speciality string    `json:"speciality,omitempty"`
	PhoneNo    string    `json:"phone_no,omitempty"`
	Status     bool      `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Set only on registration when the password was generated.
	InitialPassword string `json:"initial_password,omitempty"`
}
