package scheduling

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Rejection kinds produced by the availability engine.
var (
	ErrDoctorUnavailable = errors.New("doctor is currently not available")
	ErrInvalidSlot       = errors.New("doctor is not available at the selected slot")
	ErrSlotConflict      = errors.New("selected slot is already booked")
)

// RejectionError explains why a slot cannot be booked. It matches its Kind
// through errors.Is.
type RejectionError struct {
	Kind                     error
	Day                      string
	Slot                     string
	Ranges                   []string
	ConflictingSlot          string
	ConflictingAppointmentID uuid.UUID
}

func (e *RejectionError) Error() string {
	switch e.Kind {
	case ErrInvalidSlot:
		return fmt.Sprintf("%s: %s on %s (working ranges: %s)", e.Kind, e.Slot, e.Day, strings.Join(e.Ranges, ", "))
	case ErrSlotConflict:
		return fmt.Sprintf("%s: %s overlaps %s", e.Kind, e.Slot, e.ConflictingSlot)
	default:
		return e.Kind.Error()
	}
}

func (e *RejectionError) Unwrap() error {
	return e.Kind
}
