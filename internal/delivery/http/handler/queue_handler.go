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

type QueueHandler struct {
	queueUsecase usecase.QueueUsecase
	validator    *validator.CustomValidator
}

func NewQueueHandler(queueUsecase usecase.QueueUsecase, validator *validator.CustomValidator) *QueueHandler {
	return &QueueHandler{
		queueUsecase: queueUsecase,
		validator:    validator,
	}
}

func (h *QueueHandler) GetTodayQueue(w http.ResponseWriter, r *http.Request) {
	board, err := h.queueUsecase.GetTodayQueue(r.Context())
	if err != nil {
		writeUsecaseError(w, err, "Failed to get today's queue")
		return
	}

	response.Success(w, http.StatusOK, "Queue retrieved successfully", board)
}

func (h *QueueHandler) UpdateQueueNumber(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, mux.Vars(r)["appointmentId"], "appointment")
	if !ok {
		return
	}

	var req dto.UpdateQueueNumberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.queueUsecase.UpdateQueueNumber(r.Context(), id, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to update queue number")
		return
	}

	response.Success(w, http.StatusOK, "Queue number updated", appointment)
}
