package scheduling

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

var (
	ErrMalformedTime  = errors.New("malformed time token")
	ErrMalformedRange = errors.New("malformed time range")
)

// timeTokenPattern matches "9AM", "9:00AM", "09:30pm" after whitespace is stripped.
var timeTokenPattern = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?(AM|PM)$`)

// ParseTimeToken converts a 12-hour clock token into minutes since midnight.
func ParseTimeToken(token string) (int, error) {
	normalized := strings.ToUpper(strings.Join(strings.Fields(token), ""))

	match := timeTokenPattern.FindStringSubmatch(normalized)
	if match == nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, token)
	}

	hour, _ := strconv.Atoi(match[1])
	minute := 0
	if match[2] != "" {
		minute, _ = strconv.Atoi(match[2])
	}
	if hour < 1 || hour > 12 || minute > 59 {
		return 0, fmt.Errorf("%w: %q out of range", ErrMalformedTime, token)
	}

	switch {
	case match[3] == "AM" && hour == 12:
		hour = 0
	case match[3] == "PM" && hour != 12:
		hour += 12
	}

	return hour*60 + minute, nil
}

// FormatMinutes renders minutes since midnight as "9:05AM".
func FormatMinutes(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	hour, minute := minutes/60, minutes%60

	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d%s", hour, minute, meridiem)
}

// Interval is a half-open [Start, End) window in minutes since midnight.
type Interval struct {
	Start int
	End   int
}

// ParseRange parses "HH:MM(AM|PM)-HH:MM(AM|PM)". A range must split on exactly one
// "-" and its end must come after its start.
func ParseRange(value string) (Interval, error) {
	parts := strings.Split(value, "-")
	if len(parts) != 2 {
		return Interval{}, fmt.Errorf("%w: %q", ErrMalformedRange, value)
	}

	start, err := ParseTimeToken(parts[0])
	if err != nil {
		return Interval{}, fmt.Errorf("%w: %q: %w", ErrMalformedRange, value, err)
	}
	end, err := ParseTimeToken(parts[1])
	if err != nil {
		return Interval{}, fmt.Errorf("%w: %q: %w", ErrMalformedRange, value, err)
	}
	if end <= start {
		return Interval{}, fmt.Errorf("%w: %q ends before it starts", ErrMalformedRange, value)
	}

	return Interval{Start: start, End: end}, nil
}

// Overlaps reports whether two half-open intervals share at least one minute.
// Back-to-back intervals do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && other.Start < i.End
}

// Contains reports whether other lies entirely inside i.
func (i Interval) Contains(other Interval) bool {
	return i.Start <= other.Start && other.End <= i.End
}

// Minutes returns the length of the interval.
func (i Interval) Minutes() int {
	return i.End - i.Start
}

func (i Interval) String() string {
	return FormatMinutes(i.Start) + "-" + FormatMinutes(i.End)
}

// Overlaps compares two range strings. Malformed input never overlaps anything.
func Overlaps(rangeA, rangeB string) bool {
	a, err := ParseRange(rangeA)
	if err != nil {
		return false
	}
	b, err := ParseRange(rangeB)
	if err != nil {
		return false
	}
	return a.Overlaps(b)
}
