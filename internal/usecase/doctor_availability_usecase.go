package usecase

import (
	"context"
	"time"

	"clinic-frontdesk/internal/converter"
	"clinic-frontdesk/internal/delivery/dto"
	"clinic-frontdesk/internal/domain/entity"
	"clinic-frontdesk/internal/domain/repository"
	"clinic-frontdesk/internal/scheduling"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type DoctorAvailabilityUsecase interface {
	GetAvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailableSlotsResponse, error)
	GetAvailableDoctors(ctx context.Context, date string) (*dto.AvailableDoctorsResponse, error)
}

type doctorAvailabilityUsecase struct {
	log             *logrus.Logger
	tx              repository.Transactor
	doctorRepo      repository.DoctorRepository
	appointmentRepo repository.AppointmentRepository
	slotMinutes     int
	now             func() time.Time
}

func NewDoctorAvailabilityUsecase(
	log *logrus.Logger,
	tx repository.Transactor,
	doctorRepo repository.DoctorRepository,
	appointmentRepo repository.AppointmentRepository,
	slotMinutes int,
	now func() time.Time,
) DoctorAvailabilityUsecase {
	if slotMinutes <= 0 {
		slotMinutes = scheduling.DefaultSlotMinutes
	}
	if now == nil {
		now = time.Now
	}
	return &doctorAvailabilityUsecase{
		log:             log,
		tx:              tx,
		doctorRepo:      doctorRepo,
		appointmentRepo: appointmentRepo,
		slotMinutes:     slotMinutes,
		now:             now,
	}
}

// GetAvailableSlots splits the doctor's working ranges for the date into
// fixed-length slots and drops the booked ones and, for today, the past ones.
// An unavailable doctor or a past date yields no slots.
func (u *doctorAvailabilityUsecase) GetAvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailableSlotsResponse, error) {
	day, err := parseDate("date", date)
	if err != nil {
		return nil, err
	}

	db := u.tx.Conn(ctx)
	doctor, err := u.doctorRepo.FindByID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, storeErr("find doctor", err)
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	plan := scheduling.ResolveDay(scheduling.WeeklySchedule(doctor.Schedule), day)
	response := &dto.AvailableSlotsResponse{
		DoctorID:     doctor.ID,
		Date:         scheduling.FormatDate(day),
		Day:          plan.Day,
		IsAvailable:  doctor.IsAvailable,
		WorkingHours: plan.Ranges,
		Slots:        []string{},
	}
	if !doctor.IsAvailable || plan.Empty() {
		return response, nil
	}

	scopeAppointments, err := u.appointmentRepo.FindByDoctorAndDate(db, doctor.ID, day)
	if err != nil {
		u.log.Warnf("Failed to load appointments of doctor %s on %s: %+v", doctorID, response.Date, err)
		return nil, storeErr("load scope", err)
	}

	for _, slot := range scheduling.FreeSlots(plan, day, entity.Occupants(scopeAppointments), u.slotMinutes, u.now()) {
		response.Slots = append(response.Slots, slot.String())
	}
	return response, nil
}

// GetAvailableDoctors lists available doctors who work on the date's weekday.
func (u *doctorAvailabilityUsecase) GetAvailableDoctors(ctx context.Context, date string) (*dto.AvailableDoctorsResponse, error) {
	day, err := parseDate("date", date)
	if err != nil {
		return nil, err
	}

	doctors, err := u.doctorRepo.FindAvailable(u.tx.Conn(ctx))
	if err != nil {
		u.log.Warnf("Failed to list available doctors: %+v", err)
		return nil, storeErr("list doctors", err)
	}

	response := &dto.AvailableDoctorsResponse{
		Date:    scheduling.FormatDate(day),
		Day:     scheduling.WeekdayName(day),
		Doctors: []dto.DoctorResponse{},
	}
	for i := range doctors {
		plan := scheduling.ResolveDay(scheduling.WeeklySchedule(doctors[i].Schedule), day)
		if plan.Empty() {
			continue
		}
		doc := converter.DoctorToResponse(&doctors[i])
		doc.WorkingHours = plan.Ranges
		response.Doctors = append(response.Doctors, *doc)
	}
	response.Total = len(response.Doctors)
	return response, nil
}
