package repository

import (
	"errors"
	"time"

	"clinic-frontdesk/internal/domain/entity"
	domainRepo "clinic-frontdesk/internal/domain/repository"
	"clinic-frontdesk/internal/scheduling"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// pendingQueueIndex is the partial unique index on (doctor_id, appointment_date, queue_number).
const pendingQueueIndex = "uq_appointments_pending_queue"

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	err := db.Omit("Doctor", "Patient").Create(appointment).Error
	if isDuplicateKeyError(err, pendingQueueIndex) {
		return domainRepo.ErrDuplicateQueueNumber
	}
	return err
}

func (r *appointmentRepository) Update(db *gorm.DB, appointment *entity.Appointment) error {
	err := db.Omit("Doctor", "Patient").Save(appointment).Error
	if isDuplicateKeyError(err, pendingQueueIndex) {
		return domainRepo.ErrDuplicateQueueNumber
	}
	return err
}

// UpdateStatus is a compare-and-set on status.
// Returns affected rows: 1 = written, 0 = the row no longer had status from.
func (r *appointmentRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Appointment{})
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Doctor").Preload("Patient").Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]entity.Appointment, error) {
	day := scheduling.Date(date)
	var appointments []entity.Appointment
	err := db.Where("doctor_id = ? AND appointment_date >= ? AND appointment_date < ?", doctorID, day, scheduling.NextDay(day)).
		Order("queue_number ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindAll(db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	query := db.Preload("Doctor").Preload("Patient")

	if filter.DoctorID != nil {
		query = query.Where("doctor_id = ?", *filter.DoctorID)
	}
	if filter.Date != nil {
		day := scheduling.Date(*filter.Date)
		query = query.Where("appointment_date >= ? AND appointment_date < ?", day, scheduling.NextDay(day))
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	err := query.Order("appointment_date ASC, doctor_id ASC, queue_number ASC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// LockScope serialises writers of one (doctor, date) across processes.
// The lock is released when the surrounding transaction ends.
func (r *appointmentRepository) LockScope(db *gorm.DB, doctorID uuid.UUID, date time.Time) error {
	return db.Exec("SELECT pg_advisory_xact_lock(?)", scopeLockKey(doctorID, date)).Error
}

func scopeLockKey(doctorID uuid.UUID, date time.Time) int64 {
	return int64(xxhash.Sum64String("appointment-scope:" + scheduling.ScopeKey(doctorID.String(), date)))
}
