package dto

import "github.com/google/uuid"

// RejectionResponse explains why a requested slot was refused.
type RejectionResponse struct {
	Kind                     string     `json:"kind"`
	Day                      string     `json:"day,omitempty"`
	Slot                     string     `json:"slot,omitempty"`
	WorkingHours             []string   `json:"working_hours,omitempty"`
	ConflictingSlot          string     `json:"conflicting_slot,omitempty"`
	ConflictingAppointmentID *uuid.UUID `json:"conflicting_appointment_id,omitempty"`
}
