package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type ScheduleAppointmentRequest struct {
	DoctorID           uuid.UUID `json:"doctor_id" validate:"required"`
	AppointmentDate    string    `json:"appointment_date" validate:"required,calendardate"`
	Slot               string    `json:"slot" validate:"required,max=32"`
	VisitType          string    `json:"visit_type" validate:"omitempty,oneof=APPOINTMENT WALKIN EMERGENCY"`
	PatientName        string    `json:"patient_name" validate:"required,min=2,max=255"`
	PatientPhoneNumber string    `json:"patient_phone_number" validate:"required,max=20"`
	PatientEmail       string    `json:"patient_email" validate:"omitempty,email"`
	PatientIssue       string    `json:"patient_issue" validate:"required"`
	PatientAddress     string    `json:"patient_address" validate:"required"`
	PatientAge         int       `json:"patient_age" validate:"required,min=1,max=150"`
	PatientGender      string    `json:"patient_gender" validate:"required,oneof=MALE FEMALE OTHER"`
}

// EditAppointmentRequest only changes the fields that are present.
type EditAppointmentRequest struct {
	AppointmentDate    *string `json:"appointment_date" validate:"omitempty,calendardate"`
	Slot               *string `json:"slot" validate:"omitempty,max=32"`
	VisitType          *string `json:"visit_type" validate:"omitempty,oneof=APPOINTMENT WALKIN EMERGENCY"`
	Status             *string `json:"status" validate:"omitempty"`
	PaymentStatus      *string `json:"payment_status" validate:"omitempty,oneof=UNPAID PAID"`
	PatientName        *string `json:"patient_name" validate:"omitempty,min=2,max=255"`
	PatientPhoneNumber *string `json:"patient_phone_number" validate:"omitempty,max=20"`
	PatientEmail       *string `json:"patient_email" validate:"omitempty,email"`
	PatientIssue       *string `json:"patient_issue" validate:"omitempty"`
	PatientAddress     *string `json:"patient_address" validate:"omitempty"`
	PatientAge         *int    `json:"patient_age" validate:"omitempty,min=1,max=150"`
	PatientGender      *string `json:"patient_gender" validate:"omitempty,oneof=MALE FEMALE OTHER"`
}

// RescheduleAppointmentRequest needs both fields; the usecase reports a
// missing one as a missing required field.
type RescheduleAppointmentRequest struct {
	AppointmentDate string `json:"appointment_date" validate:"omitempty,calendardate"`
	Slot            string `json:"slot" validate:"omitempty,max=32"`
}

// ChangeStatusRequest leaves the enum check to the usecase so an unknown value
// surfaces as an invalid status rather than a generic validation error.
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Response DTOs

type AppointmentResponse struct {
	ID              uuid.UUID        `json:"id"`
	DoctorID        uuid.UUID        `json:"doctor_id"`
	PatientID       uuid.UUID        `json:"patient_id"`
	AppointmentDate string           `json:"appointment_date"`
	Slot            string           `json:"slot"`
	QueueNumber     int              `json:"queue_number"`
	Status          string           `json:"status"`
	VisitType       string           `json:"visit_type"`
	PaymentStatus   string           `json:"payment_status"`
	Fee             decimal.Decimal  `json:"fee"`
	Doctor          *DoctorSummary   `json:"doctor,omitempty"`
	Patient         *PatientResponse `json:"patient,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
