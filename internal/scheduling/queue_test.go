package scheduling

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNextQueueNumber(t *testing.T) {
	assert.Equal(t, 1, NextQueueNumber(nil))

	occupants := []Occupant{
		{ID: uuid.New(), QueueNumber: 1},
		{ID: uuid.New(), QueueNumber: 3},
		{ID: uuid.New(), QueueNumber: 2, Released: true},
	}
	assert.Equal(t, 4, NextQueueNumber(occupants))
	assert.Equal(t, NextQueueNumber(occupants), NextQueueNumber(occupants))
}

func TestNextQueueNumber_CancelledKeepsGap(t *testing.T) {
	occupants := []Occupant{
		{ID: uuid.New(), QueueNumber: 1},
		{ID: uuid.New(), QueueNumber: 2, Released: true},
		{ID: uuid.New(), QueueNumber: 3},
	}
	assert.Equal(t, 4, NextQueueNumber(occupants))
}

func TestNextQueueNumber_Sequential(t *testing.T) {
	var occupants []Occupant
	for want := 1; want <= 5; want++ {
		got := NextQueueNumber(occupants)
		assert.Equal(t, want, got)
		occupants = append(occupants, Occupant{ID: uuid.New(), QueueNumber: got})
	}
}

func TestQueueNumberTaken(t *testing.T) {
	self := Occupant{ID: uuid.New(), QueueNumber: 1}
	other := Occupant{ID: uuid.New(), QueueNumber: 2}
	cancelled := Occupant{ID: uuid.New(), QueueNumber: 3, Released: true, Terminal: true}
	completed := Occupant{ID: uuid.New(), QueueNumber: 4, Terminal: true}
	occupants := []Occupant{self, other, cancelled, completed}

	assert.True(t, QueueNumberTaken(2, occupants, self.ID))
	assert.False(t, QueueNumberTaken(1, occupants, self.ID))
	assert.False(t, QueueNumberTaken(3, occupants, self.ID))
	assert.False(t, QueueNumberTaken(4, occupants, self.ID))
	assert.False(t, QueueNumberTaken(7, occupants, self.ID))
}
