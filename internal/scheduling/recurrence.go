package scheduling

import "time"

// ClassDate is one expanded slot prior to assembly into an Occurrence.
type ClassDate struct {
	Date      time.Time
	StartTime string
	EndTime   string
}

// maxScanDays bounds day-stepping loops so a pathological request can
// never spin unbounded. Ten years of daily steps is far beyond any
// legitimate booking horizon.
const maxScanDays = 3660

// Expand turns a request into its ordered, dated class slots. Every
// recurring kind reduces to stepping a cursor date forward by a fixed
// rule and capping by an end condition; the weekday-set and manual
// primitives are shared across kinds so the edge-case policy lives in
// one place.
func Expand(req Request) ([]ClassDate, error) {
	switch r := req.(type) {
	case AdhocRequest:
		return []ClassDate{{Date: midnight(r.Date), StartTime: r.StartTime, EndTime: r.EndTime}}, nil
	case WeeklyRequest:
		return expandWeekly(r), nil
	case MonthlyRequest:
		return expandMonthly(r)
	case CrashCourseRequest:
		return expandCrashCourse(r)
	case PackageRequest:
		return expandPackage(r)
	default:
		return nil, &UnknownKindError{Kind: req.Kind()}
	}
}

func expandWeekly(r WeeklyRequest) []ClassDate {
	cursor := midnight(r.StartDate)
	end := midnight(r.EndDate)
	for cursor.Weekday() != r.DayOfWeek && !cursor.After(end) {
		cursor = cursor.AddDate(0, 0, 1)
	}

	var dates []ClassDate
	for !cursor.After(end) {
		dates = append(dates, ClassDate{Date: cursor, StartTime: r.StartTime, EndTime: r.EndTime})
		if r.TotalClasses > 0 && len(dates) >= r.TotalClasses {
			break
		}
		cursor = cursor.AddDate(0, 0, 7)
	}
	return dates
}

// EstimateWeeklyClasses is the UI-facing estimate of how many weekly
// classes fit between two dates: ceil of the day span over 7, floored
// at one.
func EstimateWeeklyClasses(start, end time.Time) int {
	days := int(midnight(end).Sub(midnight(start)).Hours() / 24)
	if days <= 0 {
		return 1
	}
	classes := (days + 6) / 7
	if classes < 1 {
		classes = 1
	}
	return classes
}

func expandMonthly(r MonthlyRequest) ([]ClassDate, error) {
	switch {
	case len(r.ManualSlots) > 0:
		return expandManual(r.ManualSlots, r.StartTime, r.EndTime)
	case len(r.WeeklyDays) > 0:
		return expandWeekdaySet(r.StartDate, r.WeeklyDays, r.TotalClasses, r.StartTime, r.EndTime)
	default:
		return expandMonthlyTemplate(r.StartDate, r.EndDate, r.DayOfMonth, r.StartTime, r.EndTime), nil
	}
}

func expandMonthlyTemplate(start, end time.Time, dayOfMonth int, startTime, endTime string) []ClassDate {
	start = midnight(start)
	end = midnight(end)

	var dates []ClassDate
	cursor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cursor.After(end) {
		resolved := ResolveMonthlyDate(cursor.Year(), cursor.Month(), dayOfMonth)
		if !resolved.Before(start) && !resolved.After(end) {
			dates = append(dates, ClassDate{Date: resolved, StartTime: startTime, EndTime: endTime})
		}
		cursor = cursor.AddDate(0, 1, 0)
	}
	return dates
}

func expandWeekdaySet(start time.Time, days []time.Weekday, total int, startTime, endTime string) ([]ClassDate, error) {
	if len(days) == 0 {
		return nil, newValidationError("weekly_days", "at least one weekday is required")
	}
	if total <= 0 {
		return nil, newValidationError("total_classes", "total classes must be at least 1")
	}

	wanted := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		wanted[d] = true
	}

	dates := make([]ClassDate, 0, total)
	cursor := midnight(start)
	for scanned := 0; len(dates) < total && scanned < maxScanDays; scanned++ {
		if wanted[cursor.Weekday()] {
			dates = append(dates, ClassDate{Date: cursor, StartTime: startTime, EndTime: endTime})
		}
		cursor = cursor.AddDate(0, 0, 1)
	}
	return dates, nil
}

func expandManual(slots []ManualSlot, defaultStart, defaultEnd string) ([]ClassDate, error) {
	if len(slots) == 0 {
		return nil, newValidationError("manual_slots", "at least one class slot is required")
	}
	dates := make([]ClassDate, 0, len(slots))
	for _, slot := range slots {
		start := slot.StartTime
		if start == "" {
			start = defaultStart
		}
		end := slot.EndTime
		if end == "" {
			end = defaultEnd
		}
		dates = append(dates, ClassDate{Date: midnight(slot.Date), StartTime: start, EndTime: end})
	}
	return dates, nil
}

// CrashCourseEnd derives the course end date from its duration; crash
// courses never receive an explicit end date.
func CrashCourseEnd(start time.Time, value int, unit DurationUnit) time.Time {
	start = midnight(start)
	if unit == UnitWeeks {
		return start.AddDate(0, 0, 7*value)
	}
	return start.AddDate(0, value, 0)
}

func expandCrashCourse(r CrashCourseRequest) ([]ClassDate, error) {
	var step int
	switch r.Frequency {
	case FrequencyDaily:
		step = 1
	case FrequencyWeekly:
		step = 7
	case FrequencySpecific:
		// Weekday-set selection for crash courses never shipped in the
		// legacy tool; reject rather than silently substitute weekly
		// stepping.
		return nil, newValidationError("class_frequency", "specific day selection is not supported for crash courses")
	default:
		return nil, newValidationError("class_frequency", "class frequency must be daily or weekly")
	}

	if r.ClassCount <= 0 {
		return nil, newValidationError("class_count", "selected package has no classes")
	}

	// The package class count binds generation; the derived end date is
	// informational only.
	dates := make([]ClassDate, 0, r.ClassCount)
	cursor := midnight(r.StartDate)
	for len(dates) < r.ClassCount {
		dates = append(dates, ClassDate{Date: cursor, StartTime: r.StartTime, EndTime: r.EndTime})
		cursor = cursor.AddDate(0, 0, step)
	}
	return dates, nil
}

func expandPackage(r PackageRequest) ([]ClassDate, error) {
	if len(r.ManualSlots) > 0 {
		return expandManual(r.ManualSlots, r.StartTime, r.EndTime)
	}
	return expandWeekdaySet(r.StartDate, r.WeeklyDays, r.TotalClasses, r.StartTime, r.EndTime)
}
