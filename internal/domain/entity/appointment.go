package entity

import (
	"time"

	"clinic-frontdesk/internal/scheduling"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "PENDING"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further status change is allowed.
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusCancelled
}

// VisitType tells how the patient arrived
type VisitType string

const (
	VisitTypeAppointment VisitType = "APPOINTMENT"
	VisitTypeWalkIn      VisitType = "WALKIN"
	VisitTypeEmergency   VisitType = "EMERGENCY"
)

func (v VisitType) Valid() bool {
	switch v {
	case VisitTypeAppointment, VisitTypeWalkIn, VisitTypeEmergency:
		return true
	}
	return false
}

// PaymentStatus of the consultation fee
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "UNPAID"
	PaymentStatusPaid   PaymentStatus = "PAID"
)

func (p PaymentStatus) Valid() bool {
	return p == PaymentStatusUnpaid || p == PaymentStatusPaid
}

// Appointment is a booked slot with a doctor on one calendar date.
// Queue numbers are unique among PENDING appointments of the same doctor and date.
type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID        uuid.UUID         `gorm:"type:uuid;not null;index:idx_appointments_scope,priority:1" json:"doctor_id"`
	PatientID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	AppointmentDate time.Time         `gorm:"type:date;not null;index:idx_appointments_scope,priority:2" json:"appointment_date"`
	Slot            string            `gorm:"type:varchar(32);not null" json:"slot"`
	QueueNumber     int               `gorm:"not null" json:"queue_number"`
	Status          AppointmentStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	VisitType       VisitType         `gorm:"type:varchar(20);not null;default:'APPOINTMENT'" json:"visit_type"`
	PaymentStatus   PaymentStatus     `gorm:"type:varchar(20);not null;default:'UNPAID'" json:"payment_status"`
	Fee             decimal.Decimal   `gorm:"type:decimal(10,2);not null;default:0" json:"fee"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor  Doctor  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) IsPending() bool {
	return a.Status == AppointmentStatusPending
}

func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// CanTransitionTo allows PENDING to move anywhere and terminal states to stay put.
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	if a.Status == next {
		return true
	}
	return !a.Status.IsTerminal()
}

// Occupant is the appointment as seen by the conflict checker.
// Cancelled appointments keep their queue number but free their slot.
func (a *Appointment) Occupant() scheduling.Occupant {
	return scheduling.Occupant{
		ID:          a.ID,
		Slot:        a.Slot,
		QueueNumber: a.QueueNumber,
		Released:    a.IsCancelled(),
		Terminal:    a.Status.IsTerminal(),
	}
}

// Occupants converts a scope listing for the slot engine.
func Occupants(appointments []Appointment) []scheduling.Occupant {
	occupants := make([]scheduling.Occupant, 0, len(appointments))
	for i := range appointments {
		occupants = append(occupants, appointments[i].Occupant())
	}
	return occupants
}

// AppointmentFilter narrows appointment listings
type AppointmentFilter struct {
	DoctorID *uuid.UUID
	Date     *time.Time
	Status   *AppointmentStatus
}
