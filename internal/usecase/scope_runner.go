package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"clinic-frontdesk/internal/delivery/http/middleware"
	"clinic-frontdesk/internal/domain/entity"
	"clinic-frontdesk/internal/domain/repository"
	"clinic-frontdesk/internal/scheduling"
	"clinic-frontdesk/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const maxScopeAttempts = 3

// scope is one doctor's calendar date: the unit of conflict checking and queue numbering.
type scope struct {
	doctorID uuid.UUID
	date     time.Time
}

func (s scope) key() string {
	return scheduling.ScopeKey(s.doctorID.String(), s.date)
}

// scopeRunner runs a mutation holding the in-process lock, one transaction and
// the advisory lock of every scope it touches, always in key order.
type scopeRunner struct {
	log             *logrus.Logger
	tx              repository.Transactor
	locker          *service.ScopeLocker
	appointmentRepo repository.AppointmentRepository
}

func (r *scopeRunner) run(ctx context.Context, scopes []scope, fn func(tx *gorm.DB) error) error {
	ordered := orderScopes(scopes)
	keys := make([]string, len(ordered))
	for i, s := range ordered {
		keys[i] = s.key()
	}

	unlock := r.locker.Lock(keys...)
	defer unlock()

	return r.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		for _, s := range ordered {
			if err := r.appointmentRepo.LockScope(tx, s.doctorID, s.date); err != nil {
				return storeErr("lock scope "+s.key(), err)
			}
		}
		return fn(tx)
	})
}

// runForAppointment locks the appointment's current scope plus the scopes of
// the dates returned by targets, then hands fn a copy read under those locks.
// If the appointment changed date before the locks were taken, it starts over.
func (r *scopeRunner) runForAppointment(
	ctx context.Context,
	id uuid.UUID,
	targets func(current *entity.Appointment) []time.Time,
	fn func(tx *gorm.DB, appointment *entity.Appointment) error,
) error {
	for attempt := 1; attempt <= maxScopeAttempts; attempt++ {
		current, err := r.appointmentRepo.FindByID(r.tx.Conn(ctx), id)
		if err != nil {
			return storeErr("find appointment", err)
		}
		if current == nil {
			return ErrAppointmentNotFound
		}

		scopes := []scope{{doctorID: current.DoctorID, date: current.AppointmentDate}}
		if targets != nil {
			for _, d := range targets(current) {
				scopes = append(scopes, scope{doctorID: current.DoctorID, date: d})
			}
		}

		err = r.run(ctx, scopes, func(tx *gorm.DB) error {
			fresh, err := r.appointmentRepo.FindByID(tx, id)
			if err != nil {
				return storeErr("find appointment", err)
			}
			if fresh == nil {
				return ErrAppointmentNotFound
			}
			if fresh.DoctorID != current.DoctorID ||
				!scheduling.Date(fresh.AppointmentDate).Equal(scheduling.Date(current.AppointmentDate)) {
				return errScopeMoved
			}
			return fn(tx, fresh)
		})
		if errors.Is(err, errScopeMoved) {
			r.log.Debugf("Appointment %s moved while waiting for its scope lock (attempt %d)", id, attempt)
			continue
		}
		return err
	}
	return storeErr("lock appointment scope", errScopeMoved)
}

func orderScopes(scopes []scope) []scope {
	seen := make(map[string]struct{}, len(scopes))
	out := make([]scope, 0, len(scopes))
	for _, s := range scopes {
		s.date = scheduling.Date(s.date)
		if _, ok := seen[s.key()]; ok {
			continue
		}
		seen[s.key()] = struct{}{}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key() < out[j].key() })
	return out
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreFailure, op, err)
}

// writeErr maps a failed appointment write, surfacing queue index collisions.
func writeErr(op string, err error) error {
	if errors.Is(err, repository.ErrDuplicateQueueNumber) {
		return ErrQueueNumberTaken
	}
	return storeErr(op, err)
}

func validationErr(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func parseDate(field, value string) (time.Time, error) {
	date, err := scheduling.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %w", ErrValidation, field, err)
	}
	return date, nil
}

// logOutcome logs store failures loudly and business rejections quietly.
func logOutcome(log *logrus.Logger, op string, err error) {
	if errors.Is(err, ErrStoreFailure) {
		log.Warnf("Failed to %s: %+v", op, err)
		return
	}
	log.Infof("Rejected %s: %v", op, err)
}

func actorFromContext(ctx context.Context) *uuid.UUID {
	staffID, ok := middleware.GetStaffIDFromContext(ctx)
	if !ok {
		return nil
	}
	return &staffID
}
