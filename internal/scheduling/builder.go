package scheduling

import "time"

// Occurrence is one concrete scheduled class instance. Occurrences
// are immutable once built; the engine only ever appends them to the
// output sequence.
type Occurrence struct {
	ID            string
	ClassTypeID   string
	PackageID     string
	InstructorID  string
	Date          time.Time
	StartTime     string
	EndTime       string
	PaymentAmount float64
	Notes         string
	ScheduleType  string
	AssignedBy    string
	AssignedAt    time.Time

	BookingID   string
	ClientName  string
	ClientEmail string
}

// Schedule-type provenance tags carried on emitted occurrences.
const (
	ScheduleTypeAdhoc   = "adhoc"
	ScheduleTypeWeekly  = "weekly"
	ScheduleTypeMonthly = "monthly"
	ScheduleTypeCrash   = "crash"
	ScheduleTypePackage = "package"
)

func scheduleTypeFor(kind Kind) string {
	switch kind {
	case KindAdhoc:
		return ScheduleTypeAdhoc
	case KindWeekly:
		return ScheduleTypeWeekly
	case KindMonthly:
		return ScheduleTypeMonthly
	case KindCrashCourse:
		return ScheduleTypeCrash
	case KindPackage:
		return ScheduleTypePackage
	default:
		return string(kind)
	}
}

func classReference(req Request) (classTypeID, packageID string) {
	switch r := req.(type) {
	case AdhocRequest:
		return r.ClassTypeID, ""
	case WeeklyRequest:
		return r.ClassTypeID, ""
	case MonthlyRequest:
		return "", r.PackageID
	case CrashCourseRequest:
		return "", r.PackageID
	case PackageRequest:
		return "", r.PackageID
	default:
		return "", ""
	}
}

// BuildOccurrences zips expanded class dates with the instructor,
// per-class payment and provenance into the final occurrence
// sequence. assignedAt is supplied by the caller so repeated builds
// from the same inputs are byte-identical.
func BuildOccurrences(req Request, dates []ClassDate, perClassAmount float64, assignedAt time.Time) []Occurrence {
	core := req.Core()
	classTypeID, packageID := classReference(req)
	scheduleType := scheduleTypeFor(req.Kind())

	occurrences := make([]Occurrence, 0, len(dates))
	for _, d := range dates {
		occurrences = append(occurrences, Occurrence{
			ClassTypeID:   classTypeID,
			PackageID:     packageID,
			InstructorID:  core.InstructorID,
			Date:          d.Date,
			StartTime:     d.StartTime,
			EndTime:       d.EndTime,
			PaymentAmount: perClassAmount,
			Notes:         core.Notes,
			ScheduleType:  scheduleType,
			AssignedBy:    core.ActorID,
			AssignedAt:    assignedAt,
			BookingID:     core.BookingID,
			ClientName:    core.ClientName,
			ClientEmail:   core.ClientEmail,
		})
	}
	return occurrences
}
