package converter

import (
	"clinic-frontdesk/internal/delivery/dto"
	"clinic-frontdesk/internal/domain/entity"

	"github.com/google/uuid"
)

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil || patient.ID == uuid.Nil {
		return nil
	}

	response := &dto.PatientResponse{
		ID:          patient.ID,
		Name:        patient.Name,
		PhoneNumber: patient.PhoneNumber,
		Issue:       patient.Issue,
		Address:     patient.Address,
		Age:         patient.Age,
		Gender:      string(patient.Gender),
	}
	if patient.Email != nil {
		response.Email = *patient.Email
	}
	return response
}
