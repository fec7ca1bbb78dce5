package models

import "time"

// ScheduleType tags how an assignment row was produced.
const (
	ScheduleTypeAdhoc   = "adhoc"
	ScheduleTypeWeekly  = "weekly"
	ScheduleTypeMonthly = "monthly"
	ScheduleTypeCrash   = "crash"
	ScheduleTypePackage = "package"
)

// Assignment statuses.
const (
	AssignmentStatusScheduled = "SCHEDULED"
	AssignmentStatusCompleted = "COMPLETED"
	AssignmentStatusCancelled = "CANCELLED"
)

// Assignment is one persisted class occurrence for an instructor.
type Assignment struct {
	ID            string    `db:"id" json:"id"`
	ClassTypeID   *string   `db:"class_type_id" json:"class_type_id,omitempty"`
	PackageID     *string   `db:"package_id" json:"package_id,omitempty"`
	InstructorID  string    `db:"instructor_id" json:"instructor_id"`
	Date          time.Time `db:"date" json:"date"`
	StartTime     string    `db:"start_time" json:"start_time"`
	EndTime       string    `db:"end_time" json:"end_time"`
	PaymentAmount float64   `db:"payment_amount" json:"payment_amount"`
	Notes         string    `db:"notes" json:"notes"`
	ScheduleType  string    `db:"schedule_type" json:"schedule_type"`
	Status        string    `db:"status" json:"status"`
	AssignedBy    string    `db:"assigned_by" json:"assigned_by"`
	AssignedAt    time.Time `db:"assigned_at" json:"assigned_at"`
	BookingID     *string   `db:"booking_id" json:"booking_id,omitempty"`
	ClientName    *string   `db:"client_name" json:"client_name,omitempty"`
	ClientEmail   *string   `db:"client_email" json:"client_email,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// AssignmentFilter describes query params for listing assignments.
type AssignmentFilter struct {
	InstructorID string
	ClassTypeID  string
	PackageID    string
	ScheduleType string
	Status       string
	DateFrom     time.Time
	DateTo       time.Time
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}
