package scheduling

import "time"

// Validate enforces field presence and cross-field invariants for a
// request ahead of expansion. The returned ValidationError maps field
// names to messages; nil means the request is structurally valid.
// Conflict checking is a separate pass (see Plan).
func Validate(req Request) error {
	fields := map[string]string{}

	core := req.Core()
	validateCore(core, fields)

	switch r := req.(type) {
	case AdhocRequest:
		if r.ClassTypeID == "" {
			fields["class_type_id"] = "class type is required"
		}
		if r.Date.IsZero() {
			fields["date"] = "date is required"
		}
	case WeeklyRequest:
		if r.ClassTypeID == "" {
			fields["class_type_id"] = "class type is required"
		}
		validateDateRange(r.StartDate, r.EndDate, fields)
		if r.DayOfWeek < time.Sunday || r.DayOfWeek > time.Saturday {
			fields["day_of_week"] = "day of week must be between 0 and 6"
		}
	case MonthlyRequest:
		if r.PackageID == "" {
			fields["package_id"] = "package is required"
		}
		validateMonthlyMode(r, fields)
	case CrashCourseRequest:
		if r.PackageID == "" {
			fields["package_id"] = "package is required"
		}
		if r.StartDate.IsZero() {
			fields["start_date"] = "start date is required"
		}
		if r.DurationValue < 1 {
			fields["course_duration_value"] = "course duration must be at least 1"
		}
		if r.DurationUnit != UnitWeeks && r.DurationUnit != UnitMonths {
			fields["course_duration_unit"] = "course duration unit must be weeks or months"
		}
		switch r.Frequency {
		case FrequencyDaily, FrequencyWeekly:
		case FrequencySpecific:
			fields["class_frequency"] = "specific day selection is not supported for crash courses"
		default:
			fields["class_frequency"] = "class frequency must be daily or weekly"
		}
		if r.ClassCount < 1 {
			fields["class_count"] = "selected package has no classes"
		}
	case PackageRequest:
		if r.PackageID == "" {
			fields["package_id"] = "package is required"
		}
		if len(r.ManualSlots) == 0 {
			if r.StartDate.IsZero() {
				fields["start_date"] = "start date is required"
			}
			if len(r.WeeklyDays) == 0 {
				fields["weekly_days"] = "at least one weekday is required"
			}
			if r.TotalClasses < 1 {
				fields["total_classes"] = "total classes must be at least 1"
			}
		} else {
			validateManualSlots(r.ManualSlots, fields)
		}
	default:
		return &UnknownKindError{Kind: req.Kind()}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func validateCore(core RequestCore, fields map[string]string) {
	if core.InstructorID == "" {
		fields["instructor_id"] = "instructor is required"
	}
	if core.ActorID == "" {
		fields["actor_id"] = "acting user is required"
	}
	if core.StartTime == "" {
		fields["start_time"] = "start time is required"
	} else if !IsClock(core.StartTime) {
		fields["start_time"] = "start time must be zero-padded HH:MM"
	}
	if core.EndTime == "" {
		fields["end_time"] = "end time is required"
	} else if !IsClock(core.EndTime) {
		fields["end_time"] = "end time must be zero-padded HH:MM"
	}
	if IsClock(core.StartTime) && IsClock(core.EndTime) {
		start, _ := ToMinutes(core.StartTime)
		end, _ := ToMinutes(core.EndTime)
		if end <= start {
			fields["end_time"] = "end time must be after start time"
		}
	}
	if core.PaymentAmount <= 0 {
		fields["payment_amount"] = "payment amount must be greater than zero"
	}
	switch core.PaymentType {
	case PaymentPerClass, PaymentMonthly, PaymentTotalDuration:
	default:
		fields["payment_type"] = "payment type must be per_class, monthly or total_duration"
	}
}

func validateDateRange(start, end time.Time, fields map[string]string) {
	if start.IsZero() {
		fields["start_date"] = "start date is required"
	}
	if end.IsZero() {
		fields["end_date"] = "end date is required"
	}
	if !start.IsZero() && !end.IsZero() && !midnight(start).Before(midnight(end)) {
		fields["end_date"] = "end date must be after start date"
	}
}

func validateMonthlyMode(r MonthlyRequest, fields map[string]string) {
	switch {
	case len(r.ManualSlots) > 0:
		validateManualSlots(r.ManualSlots, fields)
	case len(r.WeeklyDays) > 0:
		if r.StartDate.IsZero() {
			fields["start_date"] = "start date is required"
		}
		if r.TotalClasses < 1 {
			fields["total_classes"] = "total classes must be at least 1"
		}
	default:
		validateDateRange(r.StartDate, r.EndDate, fields)
		if r.DayOfMonth != LastDayOfMonth && (r.DayOfMonth < 1 || r.DayOfMonth > 31) {
			fields["day_of_month"] = "day of month must be 1-31 or the last-day sentinel"
		}
	}
}

func validateManualSlots(slots []ManualSlot, fields map[string]string) {
	for _, slot := range slots {
		if slot.Date.IsZero() {
			fields["manual_slots"] = "every class slot needs a date"
			return
		}
		if (slot.StartTime != "" && !IsClock(slot.StartTime)) ||
			(slot.EndTime != "" && !IsClock(slot.EndTime)) {
			fields["manual_slots"] = "slot times must be zero-padded HH:MM"
			return
		}
	}
}
