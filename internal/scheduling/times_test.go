package scheduling

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinutes(t *testing.T) {
	cases := []struct {
		name  string
		clock string
		want  int
	}{
		{"midnight", "00:00", 0},
		{"morning", "09:30", 570},
		{"evening", "18:45", 1125},
		{"empty string yields zero", "", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ToMinutes(tc.clock)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestToMinutesMalformed(t *testing.T) {
	for _, clock := range []string{"ab:cd", "9", "9:3x", "nine:thirty"} {
		_, err := ToMinutes(clock)
		require.Error(t, err, clock)
		var formatErr *FormatError
		assert.True(t, errors.As(err, &formatErr), clock)
	}
}

func TestOverlapsHalfOpen(t *testing.T) {
	nine, _ := ToMinutes("09:00")
	ten, _ := ToMinutes("10:00")
	nineThirty, _ := ToMinutes("09:30")
	tenThirty, _ := ToMinutes("10:30")
	eleven, _ := ToMinutes("11:00")

	assert.True(t, Overlaps(nine, ten, nineThirty, tenThirty))
	assert.True(t, Overlaps(nineThirty, tenThirty, nine, ten), "overlap must be symmetric")
	assert.False(t, Overlaps(nine, ten, ten, eleven), "touching endpoints do not conflict")
	assert.False(t, Overlaps(ten, eleven, nine, ten))
	assert.False(t, Overlaps(nine, nine, nine, eleven), "zero-length interval never overlaps")
}

func TestResolveMonthlyDate(t *testing.T) {
	feb := ResolveMonthlyDate(2023, time.February, 31)
	assert.Equal(t, 28, feb.Day(), "day 31 clamps to February's last day")

	leapFeb := ResolveMonthlyDate(2024, time.February, 31)
	assert.Equal(t, 29, leapFeb.Day())

	april := ResolveMonthlyDate(2024, time.April, LastDayOfMonth)
	assert.Equal(t, time.Date(2024, time.April, 30, 0, 0, 0, 0, time.UTC), april)

	plain := ResolveMonthlyDate(2024, time.June, 15)
	assert.Equal(t, 15, plain.Day())
}

func TestOrdinalSuffix(t *testing.T) {
	cases := map[int]string{
		1: "st", 2: "nd", 3: "rd", 4: "th",
		11: "th", 12: "th", 13: "th",
		21: "st", 22: "nd", 23: "rd",
		101: "st", 111: "th",
	}
	for n, want := range cases {
		assert.Equal(t, want, OrdinalSuffix(n), "n=%d", n)
	}
	assert.Equal(t, "3rd", OrdinalDay(3))
}

func TestIsClock(t *testing.T) {
	for _, clock := range []string{"00:00", "09:30", "23:59"} {
		assert.True(t, IsClock(clock), clock)
	}
	// Values ToMinutes tolerates but the store would misorder as
	// strings, plus plainly malformed ones.
	for _, clock := range []string{"", "9:00", "09:0", "24:00", "12:60", "09-30", "9:300"} {
		assert.False(t, IsClock(clock), clock)
	}
}
