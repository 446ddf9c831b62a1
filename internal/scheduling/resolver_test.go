package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var monday = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func TestWeekdayName(t *testing.T) {
	assert.Equal(t, Monday, WeekdayName(monday))
	assert.Equal(t, Sunday, WeekdayName(monday.AddDate(0, 0, 6)))

	// 22:00 UTC on Monday is already Tuesday in UTC+7; the UTC day wins.
	jakarta := time.FixedZone("WIB", 7*60*60)
	assert.Equal(t, Monday, WeekdayName(time.Date(2024, time.January, 2, 5, 0, 0, 0, jakarta)))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, monday, d)

	d, err = ParseDate("2024-01-01T20:30:00-05:00")
	require.NoError(t, err)
	assert.Equal(t, monday.AddDate(0, 0, 1), d)

	_, err = ParseDate("01/01/2024")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestResolveDayRanges_CaseInsensitiveKeys(t *testing.T) {
	lower := WeeklySchedule{"monday": {"9:00AM-12:00PM"}}
	upper := WeeklySchedule{"MONDAY": {"9:00AM-12:00PM"}}
	mixed := WeeklySchedule{" Monday ": {"9:00AM-12:00PM"}}

	assert.Equal(t, ResolveDayRanges(upper, monday), ResolveDayRanges(lower, monday))
	assert.Equal(t, ResolveDayRanges(upper, monday), ResolveDayRanges(mixed, monday))
	assert.Equal(t, []string{"9:00AM-12:00PM"}, ResolveDayRanges(upper, monday))
}

func TestResolveDayRanges_MergesSpellingsInStableOrder(t *testing.T) {
	schedule := WeeklySchedule{
		"monday": {"1:00PM-3:00PM"},
		"MONDAY": {"9:00AM-12:00PM"},
		"Monday": {"4:00PM-5:00PM"},
	}

	want := []string{"9:00AM-12:00PM", "4:00PM-5:00PM", "1:00PM-3:00PM"}
	for i := 0; i < 20; i++ {
		assert.Equal(t, want, ResolveDayRanges(schedule, monday))
	}
}

func TestResolveDayRanges_MissingDayIsEmpty(t *testing.T) {
	schedule := WeeklySchedule{"TUESDAY": {"9:00AM-12:00PM"}}

	ranges := ResolveDayRanges(schedule, monday)
	require.NotNil(t, ranges)
	assert.Empty(t, ranges)

	assert.NotNil(t, ResolveDayRanges(nil, monday))
}

func TestResolveDay_SeparatesMalformedRanges(t *testing.T) {
	schedule := WeeklySchedule{"MONDAY": {"9:00AM-12:00PM", "garbage", "2:00PM-5:00PM"}}

	plan := ResolveDay(schedule, monday)
	assert.Equal(t, Monday, plan.Day)
	assert.Equal(t, []Interval{{540, 720}, {840, 1020}}, plan.Intervals)
	assert.Equal(t, []string{"garbage"}, plan.Malformed)
	assert.False(t, plan.Empty())

	assert.True(t, ResolveDay(WeeklySchedule{"MONDAY": {"garbage"}}, monday).Empty())
}

func TestScopeKey(t *testing.T) {
	at := time.Date(2024, time.January, 1, 22, 15, 0, 0, time.UTC)
	assert.Equal(t, "doc-1|2024-01-01", ScopeKey("doc-1", at))
}
