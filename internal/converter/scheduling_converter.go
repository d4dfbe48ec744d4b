package converter

import (
	"hospital-management-backend/internal/delivery/dto"
	"hospital-management-backend/internal/domain/entity"
	"hospital-management-backend/pkg/dateutil"
)

// AvailabilityToResponse converts a DoctorAvailability entity to AvailabilityResponse DTO
func AvailabilityToResponse(row *entity.DoctorAvailability) dto.AvailabilityResponse {
	return dto.AvailabilityResponse{
		DoctorID:         row.DoctorID,
		Date:             dateutil.Format(row.Date),
		Weekday:          row.Date.Weekday().String(),
		MorningAvailable: row.MorningAvailable,
		EveningAvailable: row.EveningAvailable,
	}
}

// AvailabilityToListResponse wraps a doctor's rows, keeping their order.
func AvailabilityToListResponse(doctorID string, rows []entity.DoctorAvailability) *dto.AvailabilityListResponse {
	days := make([]dto.AvailabilityResponse, len(rows))
	for i := range rows {
		days[i] = AvailabilityToResponse(&rows[i])
	}
	return &dto.AvailabilityListResponse{
		DoctorID: doctorID,
		Days:     days,
		Total:    len(days),
	}
}

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		AppointmentID: appointment.AppointmentID,
		PatientID:     appointment.PatientID,
		DoctorID:      appointment.DoctorID,
		VisitType:     appointment.VisitType,
		Date:          dateutil.Format(appointment.Date),
		Shift:         string(appointment.Shift),
		Status:        string(appointment.Status),
		Reason:        appointment.Reason,
		Treatment:     TreatmentToResponse(appointment.Treatment),
		CreatedAt:     appointment.CreatedAt,
		UpdatedAt:     appointment.UpdatedAt,
	}
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

// TreatmentToResponse converts a Treatment entity to TreatmentResponse DTO
func TreatmentToResponse(treatment *entity.Treatment) *dto.TreatmentResponse {
	if treatment == nil {
		return nil
	}

	return &dto.TreatmentResponse{
		TreatmentID:   treatment.TreatmentID,
		AppointmentID: treatment.AppointmentID,
		TestDone:      treatment.TestDone,
		Diagnosis:     treatment.Diagnosis,
		Prescription:  treatment.Prescription,
		FollowUpDate:  treatment.FollowUpDate,
		CreatedAt:     treatment.CreatedAt,
	}
}
