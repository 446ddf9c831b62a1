package handler

import (
	"errors"
	"net/http"

	"clinic-frontdesk/internal/delivery/dto"
	"clinic-frontdesk/internal/scheduling"
	"clinic-frontdesk/internal/usecase"
	"clinic-frontdesk/pkg/response"

	"github.com/google/uuid"
)

// writeUsecaseError maps usecase and slot-engine failures onto HTTP responses.
// Anything unrecognised is reported as an internal error with fallback.
func writeUsecaseError(w http.ResponseWriter, err error, fallback string) {
	var rejection *scheduling.RejectionError
	if errors.As(err, &rejection) {
		writeRejection(w, rejection)
		return
	}

	switch {
	case errors.Is(err, usecase.ErrValidation):
		response.Error(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, usecase.ErrMissingRequiredField):
		response.Error(w, http.StatusBadRequest, "Appointment date and slot are required", nil)
	case errors.Is(err, usecase.ErrInvalidStatus):
		response.Error(w, http.StatusBadRequest, "Status must be one of PENDING, COMPLETED, CANCELLED", nil)
	case errors.Is(err, usecase.ErrAppointmentNotFound):
		response.NotFound(w, "Appointment not found")
	case errors.Is(err, usecase.ErrDoctorNotFound):
		response.NotFound(w, "Doctor not found")
	case errors.Is(err, usecase.ErrInvalidTransition):
		response.Conflict(w, "Appointment status cannot change once completed or cancelled", nil)
	case errors.Is(err, usecase.ErrTerminalStatus):
		response.Conflict(w, "Cannot move or renumber a completed or cancelled appointment", nil)
	case errors.Is(err, usecase.ErrQueueNumberTaken):
		response.Conflict(w, "Queue number is already assigned to another appointment", nil)
	default:
		response.InternalServerError(w, fallback)
	}
}

func writeRejection(w http.ResponseWriter, rejection *scheduling.RejectionError) {
	body := dto.RejectionResponse{
		Day:          rejection.Day,
		Slot:         rejection.Slot,
		WorkingHours: rejection.Ranges,
	}

	switch rejection.Kind {
	case scheduling.ErrDoctorUnavailable:
		body.Kind = "DOCTOR_UNAVAILABLE"
		response.Conflict(w, "Doctor is currently not available", body)
	case scheduling.ErrInvalidSlot:
		body.Kind = "INVALID_SLOT"
		response.Error(w, http.StatusUnprocessableEntity, "Doctor is not available at the selected slot", body)
	case scheduling.ErrSlotConflict:
		body.Kind = "SLOT_CONFLICT"
		body.ConflictingSlot = rejection.ConflictingSlot
		if rejection.ConflictingAppointmentID != uuid.Nil {
			id := rejection.ConflictingAppointmentID
			body.ConflictingAppointmentID = &id
		}
		response.Conflict(w, "Selected slot is already booked", body)
	default:
		response.InternalServerError(w, rejection.Error())
	}
}

func parseIDParam(w http.ResponseWriter, raw, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid "+label+" ID", nil)
		return uuid.Nil, false
	}
	return id, true
}
