package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanAdhocEmitsSingleOccurrence(t *testing.T) {
	now := time.Date(2024, time.January, 2, 10, 0, 0, 0, time.UTC)
	result, err := Plan(AdhocRequest{
		RequestCore: testCore(),
		ClassTypeID: "reformer",
		Date:        date(2024, time.January, 10),
	}, Snapshot{}, now)
	require.NoError(t, err)
	require.Len(t, result.Occurrences, 1)

	occ := result.Occurrences[0]
	assert.Equal(t, "reformer", occ.ClassTypeID)
	assert.Empty(t, occ.PackageID)
	assert.Equal(t, ScheduleTypeAdhoc, occ.ScheduleType)
	assert.Equal(t, "admin-1", occ.AssignedBy)
	assert.Equal(t, now, occ.AssignedAt)
	assert.InDelta(t, 500, occ.PaymentAmount, 0.0001)
}

func TestPlanAdhocBlocksOnConflict(t *testing.T) {
	_, err := Plan(AdhocRequest{
		RequestCore: testCore(),
		ClassTypeID: "reformer",
		Date:        date(2024, time.January, 8),
	}, snapshotFixture(), time.Now().UTC())
	require.Error(t, err)
	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, ConflictOneOff, conflictErr.Conflict.Kind)
}

func TestPlanRecurringConflictsAreWarnings(t *testing.T) {
	result, err := Plan(WeeklyRequest{
		RequestCore: testCore(),
		ClassTypeID: "reformer",
		StartDate:   date(2024, time.January, 1),
		EndDate:     date(2024, time.January, 22),
		DayOfWeek:   time.Monday,
	}, snapshotFixture(), time.Now().UTC())
	require.NoError(t, err, "recurring kinds do not block on conflicts")
	assert.Len(t, result.Occurrences, 4)
	assert.NotEmpty(t, result.Warnings)
}

func TestPlanAllocatesMonthlyPaymentAcrossOccurrences(t *testing.T) {
	core := testCore()
	core.PaymentAmount = 1000
	core.PaymentType = PaymentMonthly

	result, err := Plan(WeeklyRequest{
		RequestCore: core,
		ClassTypeID: "mat",
		StartDate:   date(2024, time.February, 6), // Tuesday
		EndDate:     date(2024, time.February, 27),
		DayOfWeek:   time.Tuesday,
	}, Snapshot{}, time.Now().UTC())
	require.NoError(t, err)
	require.Equal(t, 4, result.TotalClasses)
	assert.InDelta(t, 250, result.PerClassAmount, 0.0001)
	for _, occ := range result.Occurrences {
		assert.InDelta(t, 250, occ.PaymentAmount, 0.0001)
	}
}

func TestPlanIsDeterministic(t *testing.T) {
	now := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	req := MonthlyRequest{
		RequestCore:  testCore(),
		PackageID:    "pkg-1",
		StartDate:    date(2024, time.March, 4),
		WeeklyDays:   []time.Weekday{time.Monday, time.Wednesday},
		TotalClasses: 6,
	}
	snap := snapshotFixture()

	first, err := Plan(req, snap, now)
	require.NoError(t, err)
	second, err := Plan(req, snap, now)
	require.NoError(t, err)
	assert.Equal(t, first, second, "same inputs and clock must yield identical plans")
}

func TestPlanValidationFailures(t *testing.T) {
	cases := []struct {
		name  string
		req   Request
		field string
	}{
		{
			name: "missing actor",
			req: AdhocRequest{
				RequestCore: RequestCore{
					InstructorID:  "instructor-1",
					StartTime:     "09:00",
					EndTime:       "10:00",
					PaymentAmount: 100,
					PaymentType:   PaymentPerClass,
				},
				ClassTypeID: "mat",
				Date:        date(2024, time.January, 10),
			},
			field: "actor_id",
		},
		{
			name: "end before start",
			req: AdhocRequest{
				RequestCore: RequestCore{
					InstructorID:  "instructor-1",
					StartTime:     "10:00",
					EndTime:       "09:00",
					PaymentAmount: 100,
					PaymentType:   PaymentPerClass,
					ActorID:       "admin-1",
				},
				ClassTypeID: "mat",
				Date:        date(2024, time.January, 10),
			},
			field: "end_time",
		},
		{
			name: "weekly missing class type",
			req: WeeklyRequest{
				RequestCore: testCore(),
				StartDate:   date(2024, time.January, 1),
				EndDate:     date(2024, time.January, 31),
				DayOfWeek:   time.Monday,
			},
			field: "class_type_id",
		},
		{
			name: "weekly reversed date range",
			req: WeeklyRequest{
				RequestCore: testCore(),
				ClassTypeID: "mat",
				StartDate:   date(2024, time.February, 1),
				EndDate:     date(2024, time.January, 1),
				DayOfWeek:   time.Monday,
			},
			field: "end_date",
		},
		{
			name: "crash course zero duration",
			req: CrashCourseRequest{
				RequestCore:   testCore(),
				PackageID:     "pkg-1",
				StartDate:     date(2024, time.January, 1),
				DurationValue: 0,
				DurationUnit:  UnitWeeks,
				Frequency:     FrequencyDaily,
				ClassCount:    5,
			},
			field: "course_duration_value",
		},
		{
			name: "monthly missing package",
			req: MonthlyRequest{
				RequestCore: testCore(),
				StartDate:   date(2024, time.January, 1),
				EndDate:     date(2024, time.March, 1),
				DayOfMonth:  15,
			},
			field: "package_id",
		},
		{
			name: "unpadded start time",
			req: AdhocRequest{
				RequestCore: RequestCore{
					InstructorID:  "instructor-1",
					StartTime:     "9:00",
					EndTime:       "10:00",
					PaymentAmount: 100,
					PaymentType:   PaymentPerClass,
					ActorID:       "admin-1",
				},
				ClassTypeID: "mat",
				Date:        date(2024, time.January, 10),
			},
			field: "start_time",
		},
		{
			name: "non-positive payment",
			req: AdhocRequest{
				RequestCore: RequestCore{
					InstructorID: "instructor-1",
					StartTime:    "09:00",
					EndTime:      "10:00",
					PaymentType:  PaymentPerClass,
					ActorID:      "admin-1",
				},
				ClassTypeID: "mat",
				Date:        date(2024, time.January, 10),
			},
			field: "payment_amount",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Plan(tc.req, Snapshot{}, time.Now().UTC())
			require.Error(t, err)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Contains(t, vErr.Fields, tc.field)
		})
	}
}

func TestPlanPackageProvenance(t *testing.T) {
	result, err := Plan(PackageRequest{
		RequestCore:  testCore(),
		PackageID:    "pkg-10",
		StartDate:    date(2024, time.April, 1),
		WeeklyDays:   []time.Weekday{time.Monday},
		TotalClasses: 2,
	}, Snapshot{}, time.Now().UTC())
	require.NoError(t, err)
	for _, occ := range result.Occurrences {
		assert.Equal(t, "pkg-10", occ.PackageID)
		assert.Empty(t, occ.ClassTypeID)
		assert.Equal(t, ScheduleTypePackage, occ.ScheduleType)
	}
}
