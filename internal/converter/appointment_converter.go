package converter

import (
	"clinic-frontdesk/internal/delivery/dto"
	"clinic-frontdesk/internal/domain/entity"
	"clinic-frontdesk/internal/scheduling"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO.
// Doctor and patient are included when they were loaded.
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:              appointment.ID,
		DoctorID:        appointment.DoctorID,
		PatientID:       appointment.PatientID,
		AppointmentDate: scheduling.FormatDate(appointment.AppointmentDate),
		Slot:            appointment.Slot,
		QueueNumber:     appointment.QueueNumber,
		Status:          string(appointment.Status),
		VisitType:       string(appointment.VisitType),
		PaymentStatus:   string(appointment.PaymentStatus),
		Fee:             appointment.Fee,
		Doctor:          DoctorToSummary(&appointment.Doctor),
		Patient:         PatientToResponse(&appointment.Patient),
		CreatedAt:       appointment.CreatedAt,
		UpdatedAt:       appointment.UpdatedAt,
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

// AppointmentsToQueues groups a date listing ordered by doctor and queue number
// into one queue per doctor, keeping that order.
func AppointmentsToQueues(appointments []entity.Appointment) []dto.DoctorQueueResponse {
	queues := make([]dto.DoctorQueueResponse, 0)
	index := make(map[string]int)

	for i := range appointments {
		a := &appointments[i]
		key := a.DoctorID.String()

		pos, ok := index[key]
		if !ok {
			summary := dto.DoctorSummary{ID: a.DoctorID}
			if s := DoctorToSummary(&a.Doctor); s != nil {
				summary = *s
			}
			queues = append(queues, dto.DoctorQueueResponse{
				Doctor:       summary,
				Appointments: make([]dto.AppointmentResponse, 0),
			})
			pos = len(queues) - 1
			index[key] = pos
		}

		q := &queues[pos]
		q.Appointments = append(q.Appointments, *AppointmentToResponse(a))
		if a.IsPending() {
			q.Pending++
			if q.NowServing == 0 || a.QueueNumber < q.NowServing {
				q.NowServing = a.QueueNumber
			}
		}
	}
	return queues
}
