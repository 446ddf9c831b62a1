package usecase

import (
	"errors"

	"clinic-frontdesk/internal/scheduling"
)

// Lookup, validation and lifecycle failures. Slot rejections come from the
// scheduling package as *scheduling.RejectionError.
var (
	ErrValidation           = errors.New("validation failed")
	ErrMissingRequiredField = errors.New("appointment date and slot are required")
	ErrInvalidDate          = scheduling.ErrInvalidDate
	ErrDoctorNotFound       = errors.New("doctor not found")
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrInvalidStatus        = errors.New("invalid appointment status")
	ErrInvalidTransition    = errors.New("appointment status cannot change once completed or cancelled")
	ErrTerminalStatus       = errors.New("completed or cancelled appointments cannot be moved or renumbered")
	ErrQueueNumberTaken     = errors.New("queue number is already assigned for this doctor and date")
	ErrStoreFailure         = errors.New("appointment store failure")
)

// errScopeMoved means the appointment changed date between the unlocked read
// and the locked one; the operation is retried with the new scope.
var errScopeMoved = errors.New("appointment moved to another scope")
