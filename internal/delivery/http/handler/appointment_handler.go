package handler

import (
	"encoding/json"
	"net/http"

	"clinic-frontdesk/internal/delivery/dto"
	"clinic-frontdesk/internal/usecase"
	"clinic-frontdesk/pkg/response"
	"clinic-frontdesk/pkg/validator"

	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

func (h *AppointmentHandler) ScheduleAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.ScheduleAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.Schedule(r.Context(), &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to schedule appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment scheduled", appointment)
}

func (h *AppointmentHandler) GetAppointments(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		response.BadRequest(w, "date query parameter is required")
		return
	}

	appointments, err := h.appointmentUsecase.GetAppointmentsByDate(r.Context(), date)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, mux.Vars(r)["id"], "appointment")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.GetAppointment(r.Context(), id)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

func (h *AppointmentHandler) EditAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, mux.Vars(r)["id"], "appointment")
	if !ok {
		return
	}

	var req dto.EditAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.Edit(r.Context(), id, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to update appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment updated", appointment)
}

func (h *AppointmentHandler) RescheduleAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, mux.Vars(r)["id"], "appointment")
	if !ok {
		return
	}

	var req dto.RescheduleAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.Reschedule(r.Context(), id, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to reschedule appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment rescheduled", appointment)
}

func (h *AppointmentHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, mux.Vars(r)["id"], "appointment")
	if !ok {
		return
	}

	var req dto.ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	appointment, err := h.appointmentUsecase.ChangeStatus(r.Context(), id, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to update appointment status")
		return
	}

	response.Success(w, http.StatusOK, "Appointment status updated", appointment)
}

func (h *AppointmentHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, mux.Vars(r)["id"], "appointment")
	if !ok {
		return
	}

	if err := h.appointmentUsecase.Delete(r.Context(), id); err != nil {
		writeUsecaseError(w, err, "Failed to delete appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment deleted", nil)
}

func (h *AppointmentHandler) GetAppointmentHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, mux.Vars(r)["id"], "appointment")
	if !ok {
		return
	}

	history, err := h.appointmentUsecase.GetAppointmentHistory(r.Context(), id)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get appointment history")
		return
	}

	response.Success(w, http.StatusOK, "Appointment history retrieved successfully", history)
}
