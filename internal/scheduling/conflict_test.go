package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotFixture() Snapshot {
	return Snapshot{
		Occurrences: []Occurrence{
			{
				ID:           "occ-1",
				InstructorID: "instructor-1",
				Date:         date(2024, time.January, 8), // Monday
				StartTime:    "09:00",
				EndTime:      "10:00",
			},
		},
		Templates: []TemplateSlot{
			{
				TemplateID:   "tpl-1",
				InstructorID: "instructor-1",
				DayOfWeek:    time.Monday,
				StartTime:    "09:30",
				EndTime:      "11:00",
				Active:       true,
			},
			{
				TemplateID:   "tpl-2",
				InstructorID: "instructor-1",
				DayOfWeek:    time.Friday,
				StartTime:    "08:00",
				EndTime:      "12:00",
				Active:       false,
			},
		},
	}
}

func TestFindConflictOneOff(t *testing.T) {
	conflict, err := FindConflict(Slot{
		InstructorID: "instructor-1",
		Date:         date(2024, time.January, 8),
		StartTime:    "09:30",
		EndTime:      "10:30",
	}, snapshotFixture())
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, ConflictOneOff, conflict.Kind)
	require.NotNil(t, conflict.Occurrence)
	assert.Equal(t, "occ-1", conflict.Occurrence.ID)
	assert.Contains(t, conflict.Message(), "2024-01-08")
}

func TestFindConflictOneOffWinsOverTemplate(t *testing.T) {
	// 09:30-10:30 on Monday collides with both the existing booking
	// and the weekly template; the one-off must be reported.
	conflict, err := FindConflict(Slot{
		InstructorID: "instructor-1",
		Date:         date(2024, time.January, 8),
		StartTime:    "09:30",
		EndTime:      "10:30",
	}, snapshotFixture())
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, ConflictOneOff, conflict.Kind)
}

func TestFindConflictTemplate(t *testing.T) {
	// A different Monday has no one-off booking but still hits the
	// active weekly template.
	conflict, err := FindConflict(Slot{
		InstructorID: "instructor-1",
		Date:         date(2024, time.January, 15),
		StartTime:    "10:00",
		EndTime:      "10:45",
	}, snapshotFixture())
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, ConflictTemplate, conflict.Kind)
	require.NotNil(t, conflict.Template)
	assert.Equal(t, "tpl-1", conflict.Template.TemplateID)
	assert.Contains(t, conflict.Message(), "Monday")
}

func TestFindConflictIgnoresInactiveTemplates(t *testing.T) {
	conflict, err := FindConflict(Slot{
		InstructorID: "instructor-1",
		Date:         date(2024, time.January, 12), // Friday
		StartTime:    "09:00",
		EndTime:      "10:00",
	}, snapshotFixture())
	require.NoError(t, err)
	assert.Nil(t, conflict)
}

func TestFindConflictTouchingEndpointsAllowed(t *testing.T) {
	conflict, err := FindConflict(Slot{
		InstructorID: "instructor-1",
		Date:         date(2024, time.January, 8),
		StartTime:    "11:00", // template ends 11:00
		EndTime:      "12:00",
	}, snapshotFixture())
	require.NoError(t, err)
	assert.Nil(t, conflict)
}

func TestFindConflictOtherInstructorUnaffected(t *testing.T) {
	conflict, err := FindConflict(Slot{
		InstructorID: "instructor-2",
		Date:         date(2024, time.January, 8),
		StartTime:    "09:00",
		EndTime:      "10:00",
	}, snapshotFixture())
	require.NoError(t, err)
	assert.Nil(t, conflict)
}

func TestAvailableInstructors(t *testing.T) {
	available, err := AvailableInstructors(
		date(2024, time.January, 8), "09:30", "10:30",
		[]string{"instructor-1", "instructor-2", "instructor-3"},
		snapshotFixture(),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"instructor-2", "instructor-3"}, available)
}
