package scheduling

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Wire layouts shared with the external store.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// LastDayOfMonth is the day_of_month sentinel meaning "last calendar
// day of the month".
const LastDayOfMonth = -1

// ToMinutes parses an HH:MM clock string into minutes since midnight.
// An empty string yields 0; the legacy admin tool relied on that for
// untouched form fields, so it is not treated as an error.
func ToMinutes(clock string) (int, error) {
	if clock == "" {
		return 0, nil
	}
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, &FormatError{Field: "time", Value: clock}
	}
	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, &FormatError{Field: "time", Value: clock}
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, &FormatError{Field: "time", Value: clock}
	}
	return hours*60 + minutes, nil
}

// IsClock reports whether the value is a strict zero-padded HH:MM
// clock. ToMinutes is laxer for the sake of legacy stored rows, but
// new requests must pass this form: the store compares times as
// strings, and only zero-padded values order the same way there as
// they do in minute arithmetic.
func IsClock(clock string) bool {
	if len(clock) != 5 || clock[2] != ':' {
		return false
	}
	for _, i := range [...]int{0, 1, 3, 4} {
		if clock[i] < '0' || clock[i] > '9' {
			return false
		}
	}
	hours := int(clock[0]-'0')*10 + int(clock[1]-'0')
	minutes := int(clock[3]-'0')*10 + int(clock[4]-'0')
	return hours < 24 && minutes < 60
}

// Overlaps reports whether two half-open minute intervals intersect.
// Touching endpoints do not conflict and zero-length intervals never
// overlap anything.
func Overlaps(startA, endA, startB, endB int) bool {
	if startA == endA || startB == endB {
		return false
	}
	return startA < endB && startB < endA
}

// ResolveMonthlyDate returns the concrete date for a day-of-month
// request within the given month. The LastDayOfMonth sentinel resolves
// to the final calendar day; a day past the end of the month clamps to
// the final day silently (day 31 in February resolves to Feb 28/29).
func ResolveMonthlyDate(year int, month time.Month, day int) time.Time {
	last := daysInMonth(year, month)
	if day == LastDayOfMonth || day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func daysInMonth(year int, month time.Month) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// OrdinalSuffix returns the English ordinal suffix for n (1st, 2nd,
// 3rd, 4th...). 11 through 13 always take "th".
func OrdinalSuffix(n int) string {
	if n < 0 {
		n = -n
	}
	if rem := n % 100; rem >= 11 && rem <= 13 {
		return "th"
	}
	switch n % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

// OrdinalDay formats a day-of-month with its suffix, e.g. "3rd".
func OrdinalDay(n int) string {
	return fmt.Sprintf("%d%s", n, OrdinalSuffix(n))
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
