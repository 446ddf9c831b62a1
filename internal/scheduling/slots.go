package scheduling

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// DefaultSlotMinutes is the length of a bookable slot offered to the front desk.
const DefaultSlotMinutes = 30

// SplitRange cuts a working range into consecutive slots of the given length.
// A trailing remainder shorter than length is dropped.
func SplitRange(r Interval, length int) []Interval {
	if length <= 0 {
		return nil
	}

	var slots []Interval
	for start := r.Start; start+length <= r.End; start += length {
		slots = append(slots, Interval{Start: start, End: start + length})
	}
	return slots
}

// FreeSlots lists the slots of a resolved day that are still bookable.
//
// Each working range is split into slots of slotMinutes; slots overlapping an active
// occupant are removed. When date is the current UTC day, slots starting at or before
// now are removed too. Past dates have no free slots.
func FreeSlots(plan DayPlan, date time.Time, occupants []Occupant, slotMinutes int, now time.Time) []Interval {
	today := Date(now)
	day := Date(date)
	if day.Before(today) {
		return []Interval{}
	}

	cutoff := -1
	if day.Equal(today) {
		cutoff = MinuteOfDay(now)
	}

	seen := make(map[Interval]struct{})
	free := []Interval{}
	for _, working := range plan.Intervals {
		for _, slot := range SplitRange(working, slotMinutes) {
			if slot.Start <= cutoff {
				continue
			}
			if _, dup := seen[slot]; dup {
				continue
			}
			if _, busy := FindConflict(slot, occupants, uuid.Nil); busy {
				continue
			}
			seen[slot] = struct{}{}
			free = append(free, slot)
		}
	}

	sort.Slice(free, func(i, j int) bool { return free[i].Start < free[j].Start })
	return free
}
