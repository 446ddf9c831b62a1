package usecase

import (
	"context"
	"testing"

	"clinic-frontdesk/internal/delivery/dto"
	"clinic-frontdesk/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateQueueNumber(t *testing.T) {
	f := newFixture(nil)
	defer f.close()
	doctor := f.mondayDoctor()
	first := f.store.addAppointment(entity.Appointment{DoctorID: doctor.ID, AppointmentDate: monday, Slot: "9:00AM-9:30AM", QueueNumber: 1, Status: entity.AppointmentStatusPending})
	second := f.store.addAppointment(entity.Appointment{DoctorID: doctor.ID, AppointmentDate: monday, Slot: "9:30AM-10:00AM", QueueNumber: 2, Status: entity.AppointmentStatusPending})
	ctx := context.Background()

	t.Run("rejects numbers below one", func(t *testing.T) {
		_, err := f.queue.UpdateQueueNumber(ctx, first.ID, &dto.UpdateQueueNumberRequest{QueueNumber: 0})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("rejects a number held by another pending appointment", func(t *testing.T) {
		_, err := f.queue.UpdateQueueNumber(ctx, second.ID, &dto.UpdateQueueNumberRequest{QueueNumber: 1})
		assert.ErrorIs(t, err, ErrQueueNumberTaken)
	})

	t.Run("same number is a no-op", func(t *testing.T) {
		before := len(f.store.auditActions())
		resp, err := f.queue.UpdateQueueNumber(ctx, first.ID, &dto.UpdateQueueNumberRequest{QueueNumber: 1})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.QueueNumber)
		assert.Len(t, f.store.auditActions(), before)
	})

	t.Run("moves to a free number", func(t *testing.T) {
		resp, err := f.queue.UpdateQueueNumber(ctx, first.ID, &dto.UpdateQueueNumberRequest{QueueNumber: 7})
		require.NoError(t, err)
		assert.Equal(t, 7, resp.QueueNumber)

		stored, _ := f.store.stored(first.ID)
		assert.Equal(t, 7, stored.QueueNumber)
		assert.Contains(t, f.store.auditActions(), entity.AuditActionAppointmentQueue)
		assert.Contains(t, f.cache.invalidations(), mondayDate)
	})

	t.Run("unknown appointment", func(t *testing.T) {
		_, err := f.queue.UpdateQueueNumber(ctx, uuid.New(), &dto.UpdateQueueNumberRequest{QueueNumber: 3})
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}

func TestUpdateQueueNumber_CancelledHolderDoesNotBlock(t *testing.T) {
	f := newFixture(nil)
	defer f.close()
	doctor := f.mondayDoctor()
	f.store.addAppointment(entity.Appointment{DoctorID: doctor.ID, AppointmentDate: monday, Slot: "9:00AM-9:30AM", QueueNumber: 1, Status: entity.AppointmentStatusCancelled})
	pending := f.store.addAppointment(entity.Appointment{DoctorID: doctor.ID, AppointmentDate: monday, Slot: "9:30AM-10:00AM", QueueNumber: 2, Status: entity.AppointmentStatusPending})

	resp, err := f.queue.UpdateQueueNumber(context.Background(), pending.ID, &dto.UpdateQueueNumberRequest{QueueNumber: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.QueueNumber)
}

func TestUpdateQueueNumber_CompletedHolderDoesNotBlock(t *testing.T) {
	f := newFixture(nil)
	defer f.close()
	doctor := f.mondayDoctor()
	f.store.addAppointment(entity.Appointment{DoctorID: doctor.ID, AppointmentDate: monday, Slot: "9:00AM-9:30AM", QueueNumber: 1, Status: entity.AppointmentStatusCompleted})
	pending := f.store.addAppointment(entity.Appointment{DoctorID: doctor.ID, AppointmentDate: monday, Slot: "9:30AM-10:00AM", QueueNumber: 2, Status: entity.AppointmentStatusPending})

	resp, err := f.queue.UpdateQueueNumber(context.Background(), pending.ID, &dto.UpdateQueueNumberRequest{QueueNumber: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.QueueNumber)

	stored, _ := f.store.stored(pending.ID)
	assert.Equal(t, 1, stored.QueueNumber)
}

func TestUpdateQueueNumber_TerminalAppointmentsKeepTheirNumber(t *testing.T) {
	f := newFixture(nil)
	defer f.close()
	doctor := f.mondayDoctor()

	for _, status := range []entity.AppointmentStatus{entity.AppointmentStatusCompleted, entity.AppointmentStatusCancelled} {
		a := f.store.addAppointment(entity.Appointment{DoctorID: doctor.ID, AppointmentDate: monday, Slot: "9:00AM-9:30AM", QueueNumber: 3, Status: status})

		_, err := f.queue.UpdateQueueNumber(context.Background(), a.ID, &dto.UpdateQueueNumberRequest{QueueNumber: 9})
		assert.ErrorIs(t, err, ErrTerminalStatus, status)

		stored, _ := f.store.stored(a.ID)
		assert.Equal(t, 3, stored.QueueNumber)
	}
}

func TestGetTodayQueue_GroupsByDoctorAndCaches(t *testing.T) {
	f := newFixture(nil)
	defer f.close()
	doctor := f.mondayDoctor()
	f.store.addAppointment(entity.Appointment{DoctorID: doctor.ID, AppointmentDate: monday, Slot: "9:00AM-9:30AM", QueueNumber: 1, Status: entity.AppointmentStatusCompleted})
	f.store.addAppointment(entity.Appointment{DoctorID: doctor.ID, AppointmentDate: monday, Slot: "9:30AM-10:00AM", QueueNumber: 2, Status: entity.AppointmentStatusPending})
	f.store.addAppointment(entity.Appointment{DoctorID: doctor.ID, AppointmentDate: monday, Slot: "10:00AM-10:30AM", QueueNumber: 3, Status: entity.AppointmentStatusPending})
	f.store.addAppointment(entity.Appointment{DoctorID: doctor.ID, AppointmentDate: monday.AddDate(0, 0, 7), Slot: "9:00AM-9:30AM", QueueNumber: 1, Status: entity.AppointmentStatusPending})
	ctx := context.Background()

	board, err := f.queue.GetTodayQueue(ctx)
	require.NoError(t, err)
	assert.Equal(t, mondayDate, board.Date)
	assert.Equal(t, 3, board.Total)
	assert.Equal(t, 2, board.Pending)
	require.Len(t, board.Queues, 1)
	assert.Equal(t, doctor.Name, board.Queues[0].Doctor.Name)
	assert.Equal(t, 2, board.Queues[0].NowServing)
	assert.Len(t, board.Queues[0].Appointments, 3)

	_, err = f.queue.GetTodayQueue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.fills)

	f.cache.Invalidate(ctx, monday)
	_, err = f.queue.GetTodayQueue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, f.cache.fills)
}

func TestGetTodayQueue_UnreadableCacheEntryIsRebuilt(t *testing.T) {
	f := newFixture(nil)
	defer f.close()
	f.cache.boards[mondayDate] = []byte("{not json")

	board, err := f.queue.GetTodayQueue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, mondayDate, board.Date)
	assert.Empty(t, board.Queues)
	assert.Contains(t, f.cache.invalidations(), mondayDate)
}
