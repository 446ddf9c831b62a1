package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Response DTOs

type DoctorSummary struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Specialization string    `json:"specialization"`
}

type DoctorResponse struct {
	ID             uuid.UUID           `json:"id"`
	Name           string              `json:"name"`
	Specialization string              `json:"specialization"`
	Degree         string              `json:"degree,omitempty"`
	Fees           decimal.Decimal     `json:"fees"`
	IsAvailable    bool                `json:"is_available"`
	Schedule       map[string][]string `json:"schedule"`
	// WorkingHours holds the ranges of the requested date only.
	WorkingHours []string `json:"working_hours,omitempty"`
}

type AvailableDoctorsResponse struct {
	Date    string           `json:"date"`
	Day     string           `json:"day"`
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}

type AvailableSlotsResponse struct {
	DoctorID     uuid.UUID `json:"doctor_id"`
	Date         string    `json:"date"`
	Day          string    `json:"day"`
	IsAvailable  bool      `json:"is_available"`
	WorkingHours []string  `json:"working_hours"`
	Slots        []string  `json:"slots"`
}
