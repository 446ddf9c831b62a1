package scheduling

import (
	"sort"
	"strings"
	"time"
)

// WeeklySchedule maps a day name to the doctor's working ranges for that day.
type WeeklySchedule map[string][]string

// ResolveDayRanges returns the raw range strings that apply to date. Keys are
// matched case-insensitively; a missing day yields an empty, non-nil slice.
func ResolveDayRanges(schedule WeeklySchedule, date time.Time) []string {
	day := WeekdayName(date)

	// Spellings of the same day are merged in key order
	keys := make([]string, 0, 1)
	for key := range schedule {
		if strings.ToUpper(strings.TrimSpace(key)) == day {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	ranges := []string{}
	for _, key := range keys {
		ranges = append(ranges, schedule[key]...)
	}
	return ranges
}

// DayPlan is a resolved working day: the weekday, the ranges as declared and the
// ones that parsed into intervals.
type DayPlan struct {
	Day       string
	Ranges    []string
	Intervals []Interval
	Malformed []string
}

// ResolveDay parses the day's ranges into intervals. Malformed ranges are kept
// aside in Malformed and never take part in overlap checks.
func ResolveDay(schedule WeeklySchedule, date time.Time) DayPlan {
	plan := DayPlan{
		Day:       WeekdayName(date),
		Ranges:    ResolveDayRanges(schedule, date),
		Intervals: []Interval{},
	}

	for _, raw := range plan.Ranges {
		interval, err := ParseRange(raw)
		if err != nil {
			plan.Malformed = append(plan.Malformed, raw)
			continue
		}
		plan.Intervals = append(plan.Intervals, interval)
	}
	return plan
}

// Empty reports whether the doctor has no usable availability that day.
func (p DayPlan) Empty() bool {
	return len(p.Intervals) == 0
}
