package scheduling

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid calendar date, use YYYY-MM-DD")

// Weekday names used as schedule keys.
const (
	Sunday    = "SUNDAY"
	Monday    = "MONDAY"
	Tuesday   = "TUESDAY"
	Wednesday = "WEDNESDAY"
	Thursday  = "THURSDAY"
	Friday    = "FRIDAY"
	Saturday  = "SATURDAY"
)

var weekdayNames = [7]string{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// Date truncates t to midnight of its UTC calendar day. Every day boundary in the
// system goes through here.
func Date(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts YYYY-MM-DD or an RFC3339 timestamp and returns its UTC calendar day.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return Date(t), nil
	}
	return time.Time{}, ErrInvalidDate
}

// FormatDate renders the UTC calendar day of t.
func FormatDate(t time.Time) string {
	return Date(t).Format(DateLayout)
}

// NextDay returns the exclusive upper bound of the calendar day containing t.
func NextDay(t time.Time) time.Time {
	return Date(t).AddDate(0, 0, 1)
}

// WeekdayName returns the uppercase schedule key for the UTC calendar day of t.
func WeekdayName(t time.Time) string {
	return weekdayNames[Date(t).Weekday()]
}

// MinuteOfDay returns minutes since UTC midnight.
func MinuteOfDay(t time.Time) int {
	t = t.UTC()
	return t.Hour()*60 + t.Minute()
}

// ScopeKey identifies the (doctor, calendar date) scope shared by conflict
// detection and queue numbering.
func ScopeKey(doctorID string, date time.Time) string {
	return doctorID + "|" + FormatDate(date)
}
