package dto

import "time"

// Request DTOs

type CreatePatientRequest struct {
	Name             string `json:"name" validate:"required,max=100"`
	Email            string `json:"email" validate:"required,email,max=255"`
	Password         string `json:"password" validate:"required,min=8,max=72"`
	Gender           string `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	PhoneNo          string `json:"phone_no" validate:"omitempty,max=15"`
	EmergencyContact string `json:"emergency_contact" validate:"omitempty,max=15"`
	DateOfBirth      string `json:"date_of_birth" validate:"required,calendardate"` // Format: YYYY-MM-DD
	Address          string `json:"address" validate:"omitempty"`
	MedicalHistory   string `json:"medical_history" validate:"omitempty"`
}

// Response DTOs

type PatientResponse struct {
	PatientID        string    `json:"patient_id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Gender           string    `json:"gender,omitempty"`
	PhoneNo          string    `json:"phone_no,omitempty"`
	EmergencyContact string    `json:"emergency_contact,omitempty"`
	DateOfBirth      string    `json:"date_of_birth"`
	Address          string    `json:"address,omitempty"`
	MedicalHistory   string    `json:"medical_history,omitempty"`
	Status           bool      `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type PatientHistoryResponse struct {
	PatientID    string                `json:"patient_id"`
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
