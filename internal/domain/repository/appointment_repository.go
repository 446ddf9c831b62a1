package repository

import (
	"errors"
	"time"

	"clinic-frontdesk/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrDuplicateQueueNumber is returned when a write collides with the
// pending-queue unique index.
var ErrDuplicateQueueNumber = errors.New("duplicate queue number in scope")

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	Update(db *gorm.DB, appointment *entity.Appointment) error
	// UpdateStatus only writes when the row still has status from.
	UpdateStatus(db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error)
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	// FindByDoctorAndDate returns the whole scope, cancelled rows included.
	FindByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]entity.Appointment, error)
	FindAll(db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error)
	// LockScope holds a transaction-scoped advisory lock on (doctor, date).
	LockScope(db *gorm.DB, doctorID uuid.UUID, date time.Time) error
}
