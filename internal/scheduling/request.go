package scheduling

import "time"

// Kind identifies which recurrence rule expands a request.
type Kind string

const (
	KindAdhoc       Kind = "adhoc"
	KindWeekly      Kind = "weekly"
	KindMonthly     Kind = "monthly"
	KindCrashCourse Kind = "crash_course"
	KindPackage     Kind = "package"
)

// PaymentType determines how the requested amount maps to a
// per-class amount.
type PaymentType string

const (
	PaymentPerClass      PaymentType = "per_class"
	PaymentMonthly       PaymentType = "monthly"
	PaymentTotalDuration PaymentType = "total_duration"
)

// DurationUnit measures a crash-course length.
type DurationUnit string

const (
	UnitWeeks  DurationUnit = "weeks"
	UnitMonths DurationUnit = "months"
)

// Frequency is the crash-course class cadence.
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencySpecific Frequency = "specific"
)

// RequestCore carries the fields every recurrence kind shares. ActorID
// identifies the admin user performing the booking and is always
// required; occurrences are never attributed to an implicit system
// actor.
type RequestCore struct {
	InstructorID  string
	StartTime     string
	EndTime       string
	PaymentAmount float64
	PaymentType   PaymentType
	Notes         string
	ActorID       string

	// Set when the request originated from an external booking.
	BookingID   string
	ClientName  string
	ClientEmail string
}

// Request is one assignment request. Each recurrence kind is its own
// concrete type carrying only the fields that kind needs.
type Request interface {
	Kind() Kind
	Core() RequestCore
}

// ManualSlot is one explicitly chosen (date, time window) tuple used
// by the manual-selection sub-mode.
type ManualSlot struct {
	Date      time.Time
	StartTime string
	EndTime   string
}

// AdhocRequest books a single class on one date.
type AdhocRequest struct {
	RequestCore
	ClassTypeID string
	Date        time.Time
}

func (AdhocRequest) Kind() Kind          { return KindAdhoc }
func (r AdhocRequest) Core() RequestCore { return r.RequestCore }

// WeeklyRequest books one class per week on a fixed weekday between
// two dates. TotalClasses optionally caps the expansion when the
// caller pre-computed a class count; zero means the date range binds.
type WeeklyRequest struct {
	RequestCore
	ClassTypeID  string
	StartDate    time.Time
	EndDate      time.Time
	DayOfWeek    time.Weekday
	TotalClasses int
}

func (WeeklyRequest) Kind() Kind          { return KindWeekly }
func (r WeeklyRequest) Core() RequestCore { return r.RequestCore }

// MonthlyRequest books a package across months. Exactly one sub-mode
// applies, chosen by which fields are populated: ManualSlots wins,
// then WeeklyDays, then the day-of-month template.
type MonthlyRequest struct {
	RequestCore
	PackageID    string
	StartDate    time.Time
	EndDate      time.Time
	DayOfMonth   int // 1-31, or LastDayOfMonth
	WeeklyDays   []time.Weekday
	TotalClasses int
	ManualSlots  []ManualSlot
}

func (MonthlyRequest) Kind() Kind          { return KindMonthly }
func (r MonthlyRequest) Core() RequestCore { return r.RequestCore }

// CrashCourseRequest books a fixed-duration intensive course. The end
// date is derived from the duration, never supplied, and ClassCount
// (taken from the selected package) binds generation, not the range.
type CrashCourseRequest struct {
	RequestCore
	PackageID     string
	StartDate     time.Time
	DurationValue int
	DurationUnit  DurationUnit
	Frequency     Frequency
	ClassCount    int
}

func (CrashCourseRequest) Kind() Kind          { return KindCrashCourse }
func (r CrashCourseRequest) Core() RequestCore { return r.RequestCore }

// PackageRequest books a pre-defined package using the same
// generation mechanics as MonthlyRequest's sub-modes.
type PackageRequest struct {
	RequestCore
	PackageID    string
	StartDate    time.Time
	WeeklyDays   []time.Weekday
	TotalClasses int
	ManualSlots  []ManualSlot
}

func (PackageRequest) Kind() Kind          { return KindPackage }
func (r PackageRequest) Core() RequestCore { return r.RequestCore }
