package http

import (
	"net/http"

	"clinic-frontdesk/internal/delivery/http/handler"
	"clinic-frontdesk/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	appointmentHandler *handler.AppointmentHandler
	doctorHandler      *handler.DoctorHandler
	queueHandler       *handler.QueueHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
	loggingMiddleware  *middleware.LoggingMiddleware
}

// NewRouter wires the front-desk routes. A nil authMiddleware leaves the API open.
func NewRouter(
	appointmentHandler *handler.AppointmentHandler,
	doctorHandler *handler.DoctorHandler,
	queueHandler *handler.QueueHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		appointmentHandler: appointmentHandler,
		doctorHandler:      doctorHandler,
		queueHandler:       queueHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
		loggingMiddleware:  loggingMiddleware,
	}
}

func (r *Router) Setup() http.Handler {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Front-desk routes (staff only when auth is enabled)
	desk := api.NewRoute().Subrouter()
	if r.authMiddleware != nil {
		desk.Use(r.authMiddleware.Authenticate)
	}

	// Appointments
	desk.HandleFunc("/appointments", r.appointmentHandler.ScheduleAppointment).Methods(http.MethodPost)
	desk.HandleFunc("/appointments", r.appointmentHandler.GetAppointments).Methods(http.MethodGet)
	desk.HandleFunc("/appointments/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	desk.HandleFunc("/appointments/{id}", r.appointmentHandler.EditAppointment).Methods(http.MethodPut)
	desk.HandleFunc("/appointments/{id}", r.appointmentHandler.DeleteAppointment).Methods(http.MethodDelete)
	desk.HandleFunc("/appointments/{id}/reschedule", r.appointmentHandler.RescheduleAppointment).Methods(http.MethodPost)
	desk.HandleFunc("/appointments/{id}/status", r.appointmentHandler.ChangeStatus).Methods(http.MethodPut)
	desk.HandleFunc("/appointments/{id}/history", r.appointmentHandler.GetAppointmentHistory).Methods(http.MethodGet)

	// Doctors
	desk.HandleFunc("/doctors/available", r.doctorHandler.GetAvailableDoctors).Methods(http.MethodGet)
	desk.HandleFunc("/doctors/{id}/slots", r.doctorHandler.GetAvailableSlots).Methods(http.MethodGet)
	desk.HandleFunc("/doctors/{id}/appointments", r.doctorHandler.GetDoctorAppointments).Methods(http.MethodGet)

	// Queue
	desk.HandleFunc("/queue/today", r.queueHandler.GetTodayQueue).Methods(http.MethodGet)
	desk.HandleFunc("/queue/{appointmentId}", r.queueHandler.UpdateQueueNumber).Methods(http.MethodPut)

	// CORS wraps the router so preflight requests are answered before route matching
	var h http.Handler = r.router
	if r.loggingMiddleware != nil {
		h = r.loggingMiddleware.Handle(h)
	}
	return r.corsMiddleware.Handle(h)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
