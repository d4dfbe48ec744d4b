package converter

import (
	"hospital-management-backend/internal/delivery/dto"
	"hospital-management-backend/internal/domain/entity"
	"hospital-management-backend/pkg/dateutil"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		DoctorID:   doctor.DoctorID,
		Name:       doctor.Name,
		Email:      doctor.Email,
		Gender:     doctor.Gender,
		Speciality: doctor.Speciality,
		PhoneNo:    doctor.PhoneNo,
		Status:     doctor.Status,
		CreatedAt:  doctor.CreatedAt,
		UpdatedAt:  doctor.UpdatedAt,
	}
}

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	return &dto.PatientResponse{
		PatientID:        patient.PatientID,
		Name:             patient.Name,
		Email:            patient.Email,
		Gender:           patient.Gender,
		PhoneNo:          patient.PhoneNo,
		EmergencyContact: patient.EmergencyContact,
		DateOfBirth:      dateutil.Format(patient.DateOfBirth),
		Address:          patient.Address,
		MedicalHistory:   patient.MedicalHistory,
		Status:           patient.Status,
		CreatedAt:        patient.CreatedAt,
		UpdatedAt:        patient.UpdatedAt,
	}
}
