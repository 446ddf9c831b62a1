package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"clinic-frontdesk/internal/converter"
	"clinic-frontdesk/internal/delivery/dto"
	"clinic-frontdesk/internal/domain/entity"
	"clinic-frontdesk/internal/domain/repository"
	"clinic-frontdesk/internal/scheduling"
	"clinic-frontdesk/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type QueueUsecase interface {
	GetTodayQueue(ctx context.Context) (*dto.QueueBoardResponse, error)
	UpdateQueueNumber(ctx context.Context, appointmentID uuid.UUID, req *dto.UpdateQueueNumberRequest) (*dto.AppointmentResponse, error)
}

type queueUsecase struct {
	log             *logrus.Logger
	tx              repository.Transactor
	scopes          *scopeRunner
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
	queueCache      service.QueueBoardCache
	now             func() time.Time
}

func NewQueueUsecase(
	log *logrus.Logger,
	tx repository.Transactor,
	locker *service.ScopeLocker,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
	queueCache service.QueueBoardCache,
	now func() time.Time,
) QueueUsecase {
	if now == nil {
		now = time.Now
	}
	return &queueUsecase{
		log: log,
		tx:  tx,
		scopes: &scopeRunner{
			log:             log,
			tx:              tx,
			locker:          locker,
			appointmentRepo: appointmentRepo,
		},
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
		queueCache:      queueCache,
		now:             now,
	}
}

// GetTodayQueue returns one queue per doctor with appointments on the current
// UTC date, each ordered by queue number.
func (u *queueUsecase) GetTodayQueue(ctx context.Context) (*dto.QueueBoardResponse, error) {
	today := scheduling.Date(u.now())

	if u.queueCache == nil {
		return u.buildBoard(ctx, today)
	}

	payload, err := u.queueCache.Load(ctx, today, func(ctx context.Context) ([]byte, error) {
		board, err := u.buildBoard(ctx, today)
		if err != nil {
			return nil, err
		}
		return json.Marshal(board)
	})
	if err != nil {
		return nil, err
	}

	var board dto.QueueBoardResponse
	if err := json.Unmarshal(payload, &board); err != nil {
		u.log.Warnf("Discarding unreadable queue board for %s: %+v", scheduling.FormatDate(today), err)
		u.queueCache.Invalidate(ctx, today)
		return u.buildBoard(ctx, today)
	}
	return &board, nil
}

// UpdateQueueNumber sets a queue number by hand. Completed and cancelled
// appointments keep theirs, and a number held by another pending appointment
// of the same doctor and date is refused.
func (u *queueUsecase) UpdateQueueNumber(ctx context.Context, appointmentID uuid.UUID, req *dto.UpdateQueueNumberRequest) (*dto.AppointmentResponse, error) {
	if req.QueueNumber < 1 {
		return nil, validationErr("queue_number must be at least 1")
	}

	var (
		updated entity.Appointment
		changed bool
	)
	err := u.scopes.runForAppointment(ctx, appointmentID, nil, func(tx *gorm.DB, appointment *entity.Appointment) error {
		if appointment.Status.IsTerminal() {
			return ErrTerminalStatus
		}
		if appointment.QueueNumber == req.QueueNumber {
			updated = *appointment
			return nil
		}

		scopeAppointments, err := u.appointmentRepo.FindByDoctorAndDate(tx, appointment.DoctorID, appointment.AppointmentDate)
		if err != nil {
			return storeErr("load scope", err)
		}
		if scheduling.QueueNumberTaken(req.QueueNumber, entity.Occupants(scopeAppointments), appointment.ID) {
			return ErrQueueNumberTaken
		}

		previous := appointment.QueueNumber
		appointment.QueueNumber = req.QueueNumber
		if err := u.appointmentRepo.Update(tx, appointment); err != nil {
			return writeErr("update queue number", err)
		}

		if err := u.auditService.LogUpdate(ctx, tx, actorFromContext(ctx), entity.AuditActionAppointmentQueue,
			auditEntityAppointment, appointment.ID.String(), previous, appointment.QueueNumber); err != nil {
			return storeErr("write audit log", err)
		}

		updated = *appointment
		changed = true
		return nil
	})
	if err != nil {
		logOutcome(u.log, "update queue number of appointment "+appointmentID.String(), err)
		return nil, err
	}

	if changed {
		u.log.Infof("Queue number updated: id=%s, queue=%d", updated.ID, updated.QueueNumber)
		if u.queueCache != nil {
			u.queueCache.Invalidate(ctx, updated.AppointmentDate)
		}
	}
	return converter.AppointmentToResponse(&updated), nil
}

func (u *queueUsecase) buildBoard(ctx context.Context, date time.Time) (*dto.QueueBoardResponse, error) {
	appointments, err := u.appointmentRepo.FindAll(u.tx.Conn(ctx), entity.AppointmentFilter{Date: &date})
	if err != nil {
		u.log.Warnf("Failed to load queue board for %s: %+v", scheduling.FormatDate(date), err)
		return nil, storeErr(fmt.Sprintf("load queue board %s", scheduling.FormatDate(date)), err)
	}

	queues := converter.AppointmentsToQueues(appointments)
	board := &dto.QueueBoardResponse{
		Date:   scheduling.FormatDate(date),
		Queues: queues,
		Total:  len(appointments),
	}
	for _, q := range queues {
		board.Pending += q.Pending
	}
	return board, nil
}
