package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeeklySchedule_ValueAndScan(t *testing.T) {
	var empty WeeklySchedule
	v, err := empty.Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", v)

	schedule := WeeklySchedule{"MONDAY": {"09:00AM-12:00PM", "02:00PM-05:00PM"}}
	v, err = schedule.Value()
	require.NoError(t, err)

	var scanned WeeklySchedule
	require.NoError(t, scanned.Scan([]byte(v.(string))))
	assert.Equal(t, schedule, scanned)

	require.NoError(t, scanned.Scan(nil))
	assert.NotNil(t, scanned)
	assert.Empty(t, scanned)

	assert.Error(t, scanned.Scan(42))
	assert.Error(t, scanned.Scan("[1,2]"))
}

func TestAppointment_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to AppointmentStatus
		ok       bool
	}{
		{AppointmentStatusPending, AppointmentStatusCompleted, true},
		{AppointmentStatusPending, AppointmentStatusCancelled, true},
		{AppointmentStatusPending, AppointmentStatusPending, true},
		{AppointmentStatusCompleted, AppointmentStatusCompleted, true},
		{AppointmentStatusCompleted, AppointmentStatusCancelled, false},
		{AppointmentStatusCompleted, AppointmentStatusPending, false},
		{AppointmentStatusCancelled, AppointmentStatusPending, false},
		{AppointmentStatusCancelled, AppointmentStatusCompleted, false},
	}
	for _, tc := range cases {
		a := &Appointment{Status: tc.from}
		assert.Equal(t, tc.ok, a.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestOccupants_CancelledReleasesSlot(t *testing.T) {
	occupants := Occupants([]Appointment{
		{Slot: "9:00AM-9:30AM", QueueNumber: 1, Status: AppointmentStatusCancelled},
		{Slot: "9:30AM-10:00AM", QueueNumber: 2, Status: AppointmentStatusCompleted},
	})
	require.Len(t, occupants, 2)
	assert.True(t, occupants[0].Released)
	assert.False(t, occupants[1].Released)
	assert.True(t, occupants[0].Terminal)
	assert.True(t, occupants[1].Terminal)
	assert.Equal(t, 1, occupants[0].QueueNumber)
}

func TestEnums_Valid(t *testing.T) {
	assert.True(t, AppointmentStatus("CANCELLED").Valid())
	assert.False(t, AppointmentStatus("cancelled").Valid())
	assert.True(t, VisitType("WALKIN").Valid())
	assert.False(t, VisitType("PHONE").Valid())
	assert.True(t, PaymentStatus("PAID").Valid())
	assert.False(t, Gender("X").Valid())
}
