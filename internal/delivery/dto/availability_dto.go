package dto

// Request DTOs

type UpdateAvailabilityRequest struct {
	MorningAvailable *bool `json:"morning_available" validate:"required"`
	EveningAvailable *bool `json:"evening_available" validate:"required"`
}

// Response DTOs

type AvailabilityResponse struct {
	DoctorID         string `json:"doctor_id"`
	Date             string `json:"date"`
	Weekday          string `json:"weekday"`
	MorningAvailable bool   `json:"morning_available"`
	EveningAvailable bool   `json:"evening_available"`
}

type AvailabilityListResponse struct {
	DoctorID string                 `json:"doctor_id"`
	Days     []AvailabilityResponse `json:"days"`
	Total    int                    `json:"total"`
}
