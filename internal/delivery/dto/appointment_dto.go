package dto

import "time"

// Request DTOs

type CreateAppointmentRequest struct {
	PatientID string  `json:"patient_id" validate:"required,max=16"`
	DoctorID  string  `json:"doctor_id" validate:"required,max=16"`
	VisitType string  `json:"visit_type" validate:"required,max=15"`
	Date      string  `json:"date" validate:"required"`  // Format: YYYY-MM-DD
	Shift     string  `json:"shift" validate:"required"` // Morning or Evening
	Reason    *string `json:"reason" validate:"omitempty,max=500"`
}

// UpdateAppointmentStatusRequest identifies an appointment by its slot.
// Status accepts Completed, Cancelled, Missed or the verbs complete, cancel, missed.
type UpdateAppointmentStatusRequest struct {
	PatientID string
	DoctorID  string
	Date      string
	Shift     string
	Status    string
}

type ListAppointmentsRequest struct {
	Status    string `validate:"omitempty,oneof=Booked Completed Cancelled Missed"`
	DoctorID  string `validate:"omitempty,max=16"`
	PatientID string `validate:"omitempty,max=16"`
}

// Response DTOs

type AppointmentResponse struct {
	AppointmentID string             `json:"appointment_id"`
	PatientID     string             `json:"patient_id"`
	DoctorID      string             `json:"doctor_id"`
	VisitType     string             `json:"visit_type"`
	Date          string             `json:"date"`
	Shift         string             `json:"shift"`
	Status        string             `json:"status"`
	Reason        *string            `json:"reason,omitempty"`
	Treatment     *TreatmentResponse `json:"treatment,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
