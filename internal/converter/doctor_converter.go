package converter

import (
	"clinic-frontdesk/internal/delivery/dto"
	"clinic-frontdesk/internal/domain/entity"

	"github.com/google/uuid"
)

// DoctorToSummary converts a Doctor entity to the short form embedded in appointments
func DoctorToSummary(doctor *entity.Doctor) *dto.DoctorSummary {
	if doctor == nil || doctor.ID == uuid.Nil {
		return nil
	}

	return &dto.DoctorSummary{
		ID:             doctor.ID,
		Name:           doctor.Name,
		Specialization: doctor.Specialization,
	}
}

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	schedule := map[string][]string(doctor.Schedule)
	if schedule == nil {
		schedule = map[string][]string{}
	}

	return &dto.DoctorResponse{
		ID:             doctor.ID,
		Name:           doctor.Name,
		Specialization: doctor.Specialization,
		Degree:         doctor.Degree,
		Fees:           doctor.Fees,
		IsAvailable:    doctor.IsAvailable,
		Schedule:       schedule,
	}
}
