package scheduling

import "github.com/google/uuid"

// NextQueueNumber returns max(queue number in scope) + 1, or 1 for an empty scope.
// Released occupants still count, so numbers are never reused within a day.
func NextQueueNumber(occupants []Occupant) int {
	highest := 0
	for _, occupant := range occupants {
		if occupant.QueueNumber > highest {
			highest = occupant.QueueNumber
		}
	}
	return highest + 1
}

// QueueNumberTaken reports whether a pending occupant other than exclude already
// holds number.
func QueueNumberTaken(number int, occupants []Occupant, exclude uuid.UUID) bool {
	for _, occupant := range occupants {
		if occupant.Released || occupant.Terminal || occupant.ID == exclude {
			continue
		}
		if occupant.QueueNumber == number {
			return true
		}
	}
	return false
}
