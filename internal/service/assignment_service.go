package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/studiopulse/booking-admin-api/internal/models"
	"github.com/studiopulse/booking-admin-api/internal/scheduling"
	appErrors "github.com/studiopulse/booking-admin-api/pkg/errors"
)

type assignmentRepository interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, int, error)
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
	FindOverlapping(ctx context.Context, exec sqlx.ExtContext, instructorID string, date time.Time, startTime, endTime string) ([]models.Assignment, error)
	BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, assignments []models.Assignment) error
	BeginTxx(ctx context.Context) (*sqlx.Tx, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type instructorReader interface {
	FindByID(ctx context.Context, id string) (*models.Instructor, error)
	ListActiveIDs(ctx context.Context) ([]string, error)
}

type classTypeReader interface {
	FindByID(ctx context.Context, id string) (*models.ClassType, error)
}

type classPackageReader interface {
	FindByID(ctx context.Context, id string) (*models.ClassPackage, error)
}

type snapshotLoader interface {
	Load(ctx context.Context, instructorID string, from, to time.Time) (scheduling.Snapshot, error)
	Invalidate(ctx context.Context, instructorID string)
}

// ManualSlotRequest is one explicitly chosen session in a monthly or
// package booking payload.
type ManualSlotRequest struct {
	Date      string `json:"date" validate:"required"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// AssignmentRequest is the wire payload for preview and create. The
// schedule_type discriminator selects the recurrence kind; only the
// fields that kind needs are read, the rest are ignored.
type AssignmentRequest struct {
	ScheduleType string `json:"schedule_type" validate:"required,oneof=adhoc weekly monthly crash package"`
	InstructorID string `json:"instructor_id" validate:"required"`
	ClassTypeID  string `json:"class_type_id"`
	PackageID    string `json:"package_id"`

	Date      string `json:"date"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	DayOfWeek    *int                `json:"day_of_week"`
	DayOfMonth   int                 `json:"day_of_month"`
	WeeklyDays   []int               `json:"weekly_days"`
	TotalClasses int                 `json:"total_classes"`
	ManualSlots  []ManualSlotRequest `json:"manual_slots"`

	CourseDuration int    `json:"course_duration"`
	DurationUnit   string `json:"duration_unit"`
	ClassFrequency string `json:"class_frequency"`

	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	PaymentAmount float64 `json:"payment_amount" validate:"required,gt=0"`
	PaymentType   string  `json:"payment_type" validate:"required,oneof=per_class monthly total_duration"`
	Notes         string  `json:"notes"`

	BookingID   string `json:"booking_id"`
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email" validate:"omitempty,email"`
}

// ConflictWarning is a non-blocking collision reported back to the
// caller on recurring bookings.
type ConflictWarning struct {
	Kind    string `json:"kind"`
	Date    string `json:"date"`
	Message string `json:"message"`
}

// AssignmentPlan is the outcome of a preview or create pass.
type AssignmentPlan struct {
	Assignments    []models.Assignment `json:"assignments"`
	TotalClasses   int                 `json:"total_classes"`
	PerClassAmount float64             `json:"per_class_amount"`
	Warnings       []ConflictWarning   `json:"warnings,omitempty"`
}

// AssignmentService turns booking payloads into persisted class
// assignments via the scheduling engine.
type AssignmentService struct {
	assignments assignmentRepository
	instructors instructorReader
	classTypes  classTypeReader
	packages    classPackageReader
	snapshots   snapshotLoader
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewAssignmentService creates a service instance. now may be nil and
// defaults to time.Now; tests inject a fixed clock.
func NewAssignmentService(
	assignments assignmentRepository,
	instructors instructorReader,
	classTypes classTypeReader,
	packages classPackageReader,
	snapshots snapshotLoader,
	validate *validator.Validate,
	logger *zap.Logger,
	now func() time.Time,
) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &AssignmentService{
		assignments: assignments,
		instructors: instructors,
		classTypes:  classTypes,
		packages:    packages,
		snapshots:   snapshots,
		validator:   validate,
		logger:      logger,
		now:         now,
	}
}

// Preview runs the full generation pipeline without persisting
// anything. The UI uses it to show the operator what a booking will
// produce before committing.
func (s *AssignmentService) Preview(ctx context.Context, req AssignmentRequest, actorID string) (*AssignmentPlan, error) {
	result, _, err := s.plan(ctx, req, actorID)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Create runs the pipeline and persists the generated occurrences in
// one transaction. Overlap is re-checked inside the transaction so
// two concurrent bookings for the same instructor cannot both land.
func (s *AssignmentService) Create(ctx context.Context, req AssignmentRequest, actorID string) (*AssignmentPlan, error) {
	result, engineReq, err := s.plan(ctx, req, actorID)
	if err != nil {
		return nil, err
	}

	tx, err := s.assignments.BeginTxx(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	core := engineReq.Core()
	for _, a := range result.Assignments {
		overlapping, err := s.assignments.FindOverlapping(ctx, tx, core.InstructorID, a.Date, a.StartTime, a.EndTime)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify availability")
		}
		if len(overlapping) > 0 {
			return nil, appErrors.Clone(appErrors.ErrConflict,
				fmt.Sprintf("instructor already booked on %s from %s to %s",
					a.Date.Format(scheduling.DateLayout), overlapping[0].StartTime, overlapping[0].EndTime))
		}
	}

	if err := s.assignments.BulkCreateWithTx(ctx, tx, result.Assignments); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist assignments")
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit assignments")
	}

	s.snapshots.Invalidate(ctx, core.InstructorID)
	s.logger.Info("assignments created",
		zap.String("instructor_id", core.InstructorID),
		zap.String("schedule_type", req.ScheduleType),
		zap.Int("total_classes", result.TotalClasses),
		zap.String("assigned_by", actorID))
	return result, nil
}

// List returns assignments matching the filter.
func (s *AssignmentService) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, int, error) {
	assignments, total, err := s.assignments.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return assignments, total, nil
}

// FindByID loads one assignment.
func (s *AssignmentService) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	assignment, err := s.assignments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	return assignment, nil
}

// Cancel marks an assignment cancelled and frees the slot for new
// bookings.
func (s *AssignmentService) Cancel(ctx context.Context, id string) error {
	assignment, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if assignment.Status == models.AssignmentStatusCancelled {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "assignment is already cancelled")
	}
	if err := s.assignments.UpdateStatus(ctx, id, models.AssignmentStatusCancelled); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel assignment")
	}
	s.snapshots.Invalidate(ctx, assignment.InstructorID)
	return nil
}

// AvailableInstructors returns the ids from the active roster that are
// free for the given slot.
func (s *AssignmentService) AvailableInstructors(ctx context.Context, date, startTime, endTime string) ([]string, error) {
	day, err := time.Parse(scheduling.DateLayout, date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrFormat, "date must be YYYY-MM-DD")
	}
	ids, err := s.instructors.ListActiveIDs(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructors")
	}

	merged := scheduling.Snapshot{}
	for _, id := range ids {
		snap, err := s.snapshots.Load(ctx, id, day, day)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load commitments")
		}
		merged.Occurrences = append(merged.Occurrences, snap.Occurrences...)
		merged.Templates = append(merged.Templates, snap.Templates...)
	}

	available, err := scheduling.AvailableInstructors(day, startTime, endTime, ids, merged)
	if err != nil {
		return nil, mapEngineError(err)
	}
	return available, nil
}

// plan validates the payload, resolves its references, loads the
// commitment snapshot and runs the engine.
func (s *AssignmentService) plan(ctx context.Context, req AssignmentRequest, actorID string) (*AssignmentPlan, scheduling.Request, error) {
	if actorID == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "acting user is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	if _, err := s.instructors.FindByID(ctx, req.InstructorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor")
	}

	engineReq, err := s.toEngineRequest(ctx, req, actorID)
	if err != nil {
		return nil, nil, err
	}

	from, to := requestWindow(engineReq)
	snap, err := s.snapshots.Load(ctx, req.InstructorID, from, to)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load commitments")
	}

	result, err := scheduling.Plan(engineReq, snap, s.now().UTC())
	if err != nil {
		return nil, nil, mapEngineError(err)
	}

	plan := &AssignmentPlan{
		Assignments:    toAssignments(result.Occurrences),
		TotalClasses:   result.TotalClasses,
		PerClassAmount: result.PerClassAmount,
	}
	for _, w := range result.Warnings {
		plan.Warnings = append(plan.Warnings, ConflictWarning{
			Kind:    string(w.Kind),
			Date:    w.Date.Format(scheduling.DateLayout),
			Message: w.Message(),
		})
	}
	return plan, engineReq, nil
}

func (s *AssignmentService) toEngineRequest(ctx context.Context, req AssignmentRequest, actorID string) (scheduling.Request, error) {
	core := scheduling.RequestCore{
		InstructorID:  req.InstructorID,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		PaymentAmount: req.PaymentAmount,
		PaymentType:   scheduling.PaymentType(req.PaymentType),
		Notes:         req.Notes,
		ActorID:       actorID,
		BookingID:     req.BookingID,
		ClientName:    req.ClientName,
		ClientEmail:   req.ClientEmail,
	}

	switch req.ScheduleType {
	case models.ScheduleTypeAdhoc:
		if err := s.verifyClassType(ctx, req.ClassTypeID); err != nil {
			return nil, err
		}
		date, err := parseDate("date", req.Date)
		if err != nil {
			return nil, err
		}
		return scheduling.AdhocRequest{RequestCore: core, ClassTypeID: req.ClassTypeID, Date: date}, nil

	case models.ScheduleTypeWeekly:
		if err := s.verifyClassType(ctx, req.ClassTypeID); err != nil {
			return nil, err
		}
		start, err := parseDate("start_date", req.StartDate)
		if err != nil {
			return nil, err
		}
		end, err := parseDate("end_date", req.EndDate)
		if err != nil {
			return nil, err
		}
		if req.DayOfWeek == nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "day_of_week is required for weekly bookings")
		}
		return scheduling.WeeklyRequest{
			RequestCore:  core,
			ClassTypeID:  req.ClassTypeID,
			StartDate:    start,
			EndDate:      end,
			DayOfWeek:    time.Weekday(*req.DayOfWeek),
			TotalClasses: req.TotalClasses,
		}, nil

	case models.ScheduleTypeMonthly:
		if _, err := s.verifyPackage(ctx, req.PackageID); err != nil {
			return nil, err
		}
		start, err := parseDate("start_date", req.StartDate)
		if err != nil {
			return nil, err
		}
		end, err := parseDate("end_date", req.EndDate)
		if err != nil {
			return nil, err
		}
		slots, err := parseManualSlots(req.ManualSlots)
		if err != nil {
			return nil, err
		}
		return scheduling.MonthlyRequest{
			RequestCore:  core,
			PackageID:    req.PackageID,
			StartDate:    start,
			EndDate:      end,
			DayOfMonth:   req.DayOfMonth,
			WeeklyDays:   toWeekdays(req.WeeklyDays),
			TotalClasses: req.TotalClasses,
			ManualSlots:  slots,
		}, nil

	case models.ScheduleTypeCrash:
		pkg, err := s.verifyPackage(ctx, req.PackageID)
		if err != nil {
			return nil, err
		}
		start, err := parseDate("start_date", req.StartDate)
		if err != nil {
			return nil, err
		}
		duration := req.CourseDuration
		unit := req.DurationUnit
		count := pkg.ClassCount
		if duration == 0 {
			duration = pkg.DurationValue
		}
		if unit == "" {
			unit = pkg.DurationUnit
		}
		return scheduling.CrashCourseRequest{
			RequestCore:   core,
			PackageID:     req.PackageID,
			StartDate:     start,
			DurationValue: duration,
			DurationUnit:  scheduling.DurationUnit(unit),
			Frequency:     scheduling.Frequency(req.ClassFrequency),
			ClassCount:    count,
		}, nil

	case models.ScheduleTypePackage:
		pkg, err := s.verifyPackage(ctx, req.PackageID)
		if err != nil {
			return nil, err
		}
		start, err := parseDate("start_date", req.StartDate)
		if err != nil {
			return nil, err
		}
		slots, err := parseManualSlots(req.ManualSlots)
		if err != nil {
			return nil, err
		}
		total := req.TotalClasses
		if total == 0 {
			total = pkg.ClassCount
		}
		return scheduling.PackageRequest{
			RequestCore:  core,
			PackageID:    req.PackageID,
			StartDate:    start,
			WeeklyDays:   toWeekdays(req.WeeklyDays),
			TotalClasses: total,
			ManualSlots:  slots,
		}, nil
	}

	return nil, appErrors.Clone(appErrors.ErrUnknownKind, fmt.Sprintf("unknown schedule type %q", req.ScheduleType))
}

func (s *AssignmentService) verifyClassType(ctx context.Context, id string) error {
	if id == "" {
		return appErrors.Clone(appErrors.ErrValidation, "class_type_id is required")
	}
	if _, err := s.classTypes.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "class type not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class type")
	}
	return nil
}

func (s *AssignmentService) verifyPackage(ctx context.Context, id string) (*models.ClassPackage, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "package_id is required")
	}
	pkg, err := s.packages.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "package not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load package")
	}
	return pkg, nil
}

func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, field+" is required")
	}
	t, err := time.Parse(scheduling.DateLayout, value)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrFormat, field+" must be YYYY-MM-DD")
	}
	return t, nil
}

func parseManualSlots(slots []ManualSlotRequest) ([]scheduling.ManualSlot, error) {
	if len(slots) == 0 {
		return nil, nil
	}
	out := make([]scheduling.ManualSlot, 0, len(slots))
	for _, slot := range slots {
		date, err := parseDate("manual_slots.date", slot.Date)
		if err != nil {
			return nil, err
		}
		out = append(out, scheduling.ManualSlot{Date: date, StartTime: slot.StartTime, EndTime: slot.EndTime})
	}
	return out, nil
}

func toWeekdays(days []int) []time.Weekday {
	if len(days) == 0 {
		return nil
	}
	out := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		out = append(out, time.Weekday(d))
	}
	return out
}

// requestWindow bounds the date range a booking can touch so the
// snapshot query stays narrow.
func requestWindow(req scheduling.Request) (time.Time, time.Time) {
	switch r := req.(type) {
	case scheduling.AdhocRequest:
		return r.Date, r.Date
	case scheduling.WeeklyRequest:
		return r.StartDate, r.EndDate
	case scheduling.MonthlyRequest:
		from, to := r.StartDate, r.EndDate
		for _, slot := range r.ManualSlots {
			if slot.Date.Before(from) {
				from = slot.Date
			}
			if slot.Date.After(to) {
				to = slot.Date
			}
		}
		return from, to
	case scheduling.CrashCourseRequest:
		return r.StartDate, scheduling.CrashCourseEnd(r.StartDate, r.DurationValue, r.DurationUnit)
	case scheduling.PackageRequest:
		from, to := r.StartDate, r.StartDate.AddDate(1, 0, 0)
		for _, slot := range r.ManualSlots {
			if slot.Date.After(to) {
				to = slot.Date
			}
		}
		return from, to
	}
	return time.Time{}, time.Time{}
}

func toAssignments(occurrences []scheduling.Occurrence) []models.Assignment {
	out := make([]models.Assignment, 0, len(occurrences))
	for _, o := range occurrences {
		a := models.Assignment{
			InstructorID:  o.InstructorID,
			Date:          o.Date,
			StartTime:     o.StartTime,
			EndTime:       o.EndTime,
			PaymentAmount: o.PaymentAmount,
			Notes:         o.Notes,
			ScheduleType:  o.ScheduleType,
			Status:        models.AssignmentStatusScheduled,
			AssignedBy:    o.AssignedBy,
			AssignedAt:    o.AssignedAt,
		}
		if o.ClassTypeID != "" {
			v := o.ClassTypeID
			a.ClassTypeID = &v
		}
		if o.PackageID != "" {
			v := o.PackageID
			a.PackageID = &v
		}
		if o.BookingID != "" {
			v := o.BookingID
			a.BookingID = &v
		}
		if o.ClientName != "" {
			v := o.ClientName
			a.ClientName = &v
		}
		if o.ClientEmail != "" {
			v := o.ClientEmail
			a.ClientEmail = &v
		}
		out = append(out, a)
	}
	return out
}

// mapEngineError converts scheduling package errors into the API
// error taxonomy.
func mapEngineError(err error) error {
	var validation *scheduling.ValidationError
	if errors.As(err, &validation) {
		fields := make([]string, 0, len(validation.Fields))
		for field := range validation.Fields {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		parts := make([]string, 0, len(fields))
		for _, field := range fields {
			parts = append(parts, field+": "+validation.Fields[field])
		}
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, strings.Join(parts, "; "))
	}
	var format *scheduling.FormatError
	if errors.As(err, &format) {
		return appErrors.Wrap(err, appErrors.ErrFormat.Code, appErrors.ErrFormat.Status, format.Error())
	}
	var conflict *scheduling.ConflictError
	if errors.As(err, &conflict) {
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, conflict.Conflict.Message())
	}
	var unknown *scheduling.UnknownKindError
	if errors.As(err, &unknown) {
		return appErrors.Wrap(err, appErrors.ErrUnknownKind.Code, appErrors.ErrUnknownKind.Status, unknown.Error())
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "scheduling failed")
}
