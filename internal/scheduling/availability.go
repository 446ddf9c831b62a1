package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// Availability is the doctor-owned input of the engine. The engine never mutates it.
type Availability struct {
	IsAvailable bool
	Schedule    WeeklySchedule
}

// Occupant is an appointment already placed in a (doctor, date) scope.
// A released occupant (cancelled) keeps its queue number but frees its slot.
// A terminal one (completed or cancelled) no longer holds its number against others.
type Occupant struct {
	ID          uuid.UUID
	Slot        string
	QueueNumber int
	Released    bool
	Terminal    bool
}

// Policy tunes how strictly a slot must fit the working hours.
type Policy struct {
	// RequireContainment demands the slot lie entirely inside one working range.
	// When false, touching a working range by at least one minute is enough.
	RequireContainment bool
}

// Engine decides whether a slot can be booked. It is a pure function of its inputs.
type Engine struct {
	policy Policy
}

func NewEngine(policy Policy) *Engine {
	return &Engine{policy: policy}
}

// Decision is the accepted outcome of a check.
type Decision struct {
	Day       string
	Slot      Interval
	Matched   Interval
	DayRanges []string
}

// Check validates requestedSlot on date against the doctor's availability and the
// occupants of the scope. The occupant whose ID equals exclude is ignored, which is
// how an appointment is re-validated against its own scope during edits.
//
// Steps:
// 1. doctor must be available
// 2. slot must match a working range of the resolved weekday
// 3. slot must not overlap any non-released occupant
func (e *Engine) Check(doctor Availability, date time.Time, requestedSlot string, occupants []Occupant, exclude uuid.UUID) (*Decision, error) {
	if !doctor.IsAvailable {
		return nil, &RejectionError{Kind: ErrDoctorUnavailable, Slot: requestedSlot}
	}

	plan := ResolveDay(doctor.Schedule, date)

	slot, err := ParseRange(requestedSlot)
	if err != nil {
		return nil, e.invalidSlot(plan, requestedSlot)
	}

	matched, ok := e.matchWorkingRange(plan.Intervals, slot)
	if !ok {
		return nil, e.invalidSlot(plan, requestedSlot)
	}

	if occupant, ok := FindConflict(slot, occupants, exclude); ok {
		return nil, &RejectionError{
			Kind:                     ErrSlotConflict,
			Day:                      plan.Day,
			Slot:                     requestedSlot,
			ConflictingSlot:          occupant.Slot,
			ConflictingAppointmentID: occupant.ID,
		}
	}

	return &Decision{Day: plan.Day, Slot: slot, Matched: matched, DayRanges: plan.Ranges}, nil
}

func (e *Engine) matchWorkingRange(ranges []Interval, slot Interval) (Interval, bool) {
	for _, r := range ranges {
		if e.policy.RequireContainment {
			if r.Contains(slot) {
				return r, true
			}
			continue
		}
		if r.Overlaps(slot) {
			return r, true
		}
	}
	return Interval{}, false
}

func (e *Engine) invalidSlot(plan DayPlan, requestedSlot string) error {
	return &RejectionError{
		Kind:   ErrInvalidSlot,
		Day:    plan.Day,
		Slot:   requestedSlot,
		Ranges: plan.Ranges,
	}
}

// FindConflict returns the first active occupant whose slot overlaps slot.
// Occupants with unparseable slots are skipped.
func FindConflict(slot Interval, occupants []Occupant, exclude uuid.UUID) (Occupant, bool) {
	for _, occupant := range occupants {
		if occupant.Released || (exclude != uuid.Nil && occupant.ID == exclude) {
			continue
		}
		booked, err := ParseRange(occupant.Slot)
		if err != nil {
			continue
		}
		if booked.Overlaps(slot) {
			return occupant, true
		}
	}
	return Occupant{}, false
}
