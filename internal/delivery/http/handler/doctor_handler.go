package handler

import (
	"net/http"

	"clinic-frontdesk/internal/usecase"
	"clinic-frontdesk/pkg/response"

	"github.com/gorilla/mux"
)

type DoctorHandler struct {
	availabilityUsecase usecase.DoctorAvailabilityUsecase
	appointmentUsecase  usecase.AppointmentUsecase
}

func NewDoctorHandler(availabilityUsecase usecase.DoctorAvailabilityUsecase, appointmentUsecase usecase.AppointmentUsecase) *DoctorHandler {
	return &DoctorHandler{
		availabilityUsecase: availabilityUsecase,
		appointmentUsecase:  appointmentUsecase,
	}
}

func (h *DoctorHandler) GetAvailableDoctors(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		response.BadRequest(w, "date query parameter is required")
		return
	}

	doctors, err := h.availabilityUsecase.GetAvailableDoctors(r.Context(), date)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get available doctors")
		return
	}

	response.Success(w, http.StatusOK, "Available doctors retrieved successfully", doctors)
}

func (h *DoctorHandler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := parseIDParam(w, mux.Vars(r)["id"], "doctor")
	if !ok {
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		response.BadRequest(w, "date query parameter is required")
		return
	}

	slots, err := h.availabilityUsecase.GetAvailableSlots(r.Context(), doctorID, date)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get available slots")
		return
	}

	response.Success(w, http.StatusOK, "Available slots retrieved successfully", slots)
}

func (h *DoctorHandler) GetDoctorAppointments(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := parseIDParam(w, mux.Vars(r)["id"], "doctor")
	if !ok {
		return
	}

	appointments, err := h.appointmentUsecase.GetDoctorAppointments(r.Context(), doctorID, r.URL.Query().Get("date"))
	if err != nil {
		writeUsecaseError(w, err, "Failed to get doctor appointments")
		return
	}

	response.Success(w, http.StatusOK, "Doctor appointments retrieved successfully", appointments)
}
