package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testCore() RequestCore {
	return RequestCore{
		InstructorID:  "instructor-1",
		StartTime:     "09:00",
		EndTime:       "10:00",
		PaymentAmount: 500,
		PaymentType:   PaymentPerClass,
		ActorID:       "admin-1",
	}
}

func TestExpandWeeklyCoversEveryMatchingDay(t *testing.T) {
	// 2024-01-01 is a Monday.
	dates, err := Expand(WeeklyRequest{
		RequestCore: testCore(),
		ClassTypeID: "reformer",
		StartDate:   date(2024, time.January, 1),
		EndDate:     date(2024, time.January, 22),
		DayOfWeek:   time.Monday,
	})
	require.NoError(t, err)
	require.Len(t, dates, 4)
	assert.Equal(t, date(2024, time.January, 1), dates[0].Date)
	assert.Equal(t, date(2024, time.January, 8), dates[1].Date)
	assert.Equal(t, date(2024, time.January, 15), dates[2].Date)
	assert.Equal(t, date(2024, time.January, 22), dates[3].Date)
}

func TestExpandWeeklyAdvancesToFirstMatchingWeekday(t *testing.T) {
	dates, err := Expand(WeeklyRequest{
		RequestCore: testCore(),
		ClassTypeID: "reformer",
		StartDate:   date(2024, time.January, 1), // Monday
		EndDate:     date(2024, time.January, 31),
		DayOfWeek:   time.Wednesday,
	})
	require.NoError(t, err)
	require.NotEmpty(t, dates)
	assert.Equal(t, date(2024, time.January, 3), dates[0].Date)
	for _, d := range dates {
		assert.Equal(t, time.Wednesday, d.Date.Weekday())
	}
}

func TestExpandWeeklyTotalClassesCapBinds(t *testing.T) {
	dates, err := Expand(WeeklyRequest{
		RequestCore:  testCore(),
		ClassTypeID:  "reformer",
		StartDate:    date(2024, time.January, 1),
		EndDate:      date(2024, time.March, 31),
		DayOfWeek:    time.Monday,
		TotalClasses: 3,
	})
	require.NoError(t, err)
	assert.Len(t, dates, 3)
}

func TestEstimateWeeklyClasses(t *testing.T) {
	assert.Equal(t, 3, EstimateWeeklyClasses(date(2024, time.January, 1), date(2024, time.January, 22)))
	assert.Equal(t, 1, EstimateWeeklyClasses(date(2024, time.January, 1), date(2024, time.January, 1)), "floor is one")
	assert.Equal(t, 1, EstimateWeeklyClasses(date(2024, time.January, 1), date(2024, time.January, 5)))
}

func TestExpandMonthlyTemplateMode(t *testing.T) {
	dates, err := Expand(MonthlyRequest{
		RequestCore: testCore(),
		PackageID:   "pkg-1",
		StartDate:   date(2024, time.January, 1),
		EndDate:     date(2024, time.April, 30),
		DayOfMonth:  31,
	})
	require.NoError(t, err)
	require.Len(t, dates, 4)
	assert.Equal(t, date(2024, time.January, 31), dates[0].Date)
	assert.Equal(t, date(2024, time.February, 29), dates[1].Date, "day 31 clamps to leap February's last day")
	assert.Equal(t, date(2024, time.March, 31), dates[2].Date)
	assert.Equal(t, date(2024, time.April, 30), dates[3].Date)
}

func TestExpandMonthlyLastDaySentinel(t *testing.T) {
	dates, err := Expand(MonthlyRequest{
		RequestCore: testCore(),
		PackageID:   "pkg-1",
		StartDate:   date(2024, time.April, 1),
		EndDate:     date(2024, time.May, 31),
		DayOfMonth:  LastDayOfMonth,
	})
	require.NoError(t, err)
	require.Len(t, dates, 2)
	assert.Equal(t, date(2024, time.April, 30), dates[0].Date)
	assert.Equal(t, date(2024, time.May, 31), dates[1].Date)
}

func TestExpandMonthlyWeekdaySetMode(t *testing.T) {
	dates, err := Expand(MonthlyRequest{
		RequestCore:  testCore(),
		PackageID:    "pkg-1",
		StartDate:    date(2024, time.January, 1), // Monday
		WeeklyDays:   []time.Weekday{time.Monday, time.Thursday},
		TotalClasses: 5,
	})
	require.NoError(t, err)
	require.Len(t, dates, 5)
	assert.Equal(t, date(2024, time.January, 1), dates[0].Date)
	assert.Equal(t, date(2024, time.January, 4), dates[1].Date)
	assert.Equal(t, date(2024, time.January, 8), dates[2].Date)
	assert.Equal(t, date(2024, time.January, 11), dates[3].Date)
	assert.Equal(t, date(2024, time.January, 15), dates[4].Date)
}

func TestExpandMonthlyWeekdaySetRequiresDays(t *testing.T) {
	_, err := expandWeekdaySet(date(2024, time.January, 1), nil, 4, "09:00", "10:00")
	require.Error(t, err)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "weekly_days")
}

func TestExpandManualSlotsVerbatim(t *testing.T) {
	slots := []ManualSlot{
		{Date: date(2024, time.March, 5), StartTime: "08:00", EndTime: "09:00"},
		{Date: date(2024, time.March, 9)},
	}
	dates, err := Expand(MonthlyRequest{
		RequestCore: testCore(),
		PackageID:   "pkg-1",
		ManualSlots: slots,
	})
	require.NoError(t, err)
	require.Len(t, dates, 2)
	assert.Equal(t, "08:00", dates[0].StartTime)
	assert.Equal(t, "09:00", dates[1].StartTime, "missing slot times fall back to the request window")
}

func TestExpandManualSlotsRejectsEmpty(t *testing.T) {
	_, err := expandManual(nil, "09:00", "10:00")
	require.Error(t, err)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "manual_slots")
}

func TestExpandCrashCourseCountBindsNotRange(t *testing.T) {
	req := CrashCourseRequest{
		RequestCore:   testCore(),
		PackageID:     "pkg-crash",
		StartDate:     date(2024, time.June, 3),
		DurationValue: 1, // far shorter than 10 daily classes
		DurationUnit:  UnitWeeks,
		Frequency:     FrequencyDaily,
		ClassCount:    10,
	}
	dates, err := Expand(req)
	require.NoError(t, err)
	require.Len(t, dates, 10, "package class count binds, not the date range")
	assert.Equal(t, date(2024, time.June, 3), dates[0].Date)
	assert.Equal(t, date(2024, time.June, 12), dates[9].Date)
}

func TestExpandCrashCourseWeeklyStep(t *testing.T) {
	dates, err := Expand(CrashCourseRequest{
		RequestCore:   testCore(),
		PackageID:     "pkg-crash",
		StartDate:     date(2024, time.June, 3),
		DurationValue: 2,
		DurationUnit:  UnitMonths,
		Frequency:     FrequencyWeekly,
		ClassCount:    4,
	})
	require.NoError(t, err)
	require.Len(t, dates, 4)
	assert.Equal(t, date(2024, time.June, 24), dates[3].Date)
}

func TestExpandCrashCourseRejectsSpecificFrequency(t *testing.T) {
	_, err := Expand(CrashCourseRequest{
		RequestCore:   testCore(),
		PackageID:     "pkg-crash",
		StartDate:     date(2024, time.June, 3),
		DurationValue: 2,
		DurationUnit:  UnitWeeks,
		Frequency:     FrequencySpecific,
		ClassCount:    4,
	})
	require.Error(t, err)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "class_frequency")
}

func TestCrashCourseEnd(t *testing.T) {
	assert.Equal(t, date(2024, time.June, 17), CrashCourseEnd(date(2024, time.June, 3), 2, UnitWeeks))
	assert.Equal(t, date(2024, time.August, 3), CrashCourseEnd(date(2024, time.June, 3), 2, UnitMonths))
}

func TestExpandPackageUsesWeekdaySet(t *testing.T) {
	dates, err := Expand(PackageRequest{
		RequestCore:  testCore(),
		PackageID:    "pkg-1",
		StartDate:    date(2024, time.January, 2), // Tuesday
		WeeklyDays:   []time.Weekday{time.Tuesday},
		TotalClasses: 3,
	})
	require.NoError(t, err)
	require.Len(t, dates, 3)
	assert.Equal(t, date(2024, time.January, 16), dates[2].Date)
}
