package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/studiopulse/booking-admin-api/internal/models"
)

const assignmentColumns = "id, class_type_id, package_id, instructor_id, date, start_time, end_time, payment_amount, notes, schedule_type, status, assigned_by, assigned_at, booking_id, client_name, client_email, created_at, updated_at"

// AssignmentRepository provides persistence for class assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository creates a new assignment repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// List returns assignments with optional filtering and pagination.
func (r *AssignmentRepository) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, int, error) {
	base := "FROM class_assignments WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.InstructorID != "" {
		conditions = append(conditions, fmt.Sprintf("instructor_id = $%d", len(args)+1))
		args = append(args, filter.InstructorID)
	}
	if filter.ClassTypeID != "" {
		conditions = append(conditions, fmt.Sprintf("class_type_id = $%d", len(args)+1))
		args = append(args, filter.ClassTypeID)
	}
	if filter.PackageID != "" {
		conditions = append(conditions, fmt.Sprintf("package_id = $%d", len(args)+1))
		args = append(args, filter.PackageID)
	}
	if filter.ScheduleType != "" {
		conditions = append(conditions, fmt.Sprintf("schedule_type = $%d", len(args)+1))
		args = append(args, filter.ScheduleType)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if !filter.DateFrom.IsZero() {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)+1))
		args = append(args, filter.DateFrom)
	}
	if !filter.DateTo.IsZero() {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)+1))
		args = append(args, filter.DateTo)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"date":           true,
		"start_time":     true,
		"instructor_id":  true,
		"schedule_type":  true,
		"payment_amount": true,
		"created_at":     true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "date"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s, start_time ASC LIMIT %d OFFSET %d", assignmentColumns, base, sortBy, order, size, offset)
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list assignments: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count assignments: %w", err)
	}

	return assignments, total, nil
}

// FindByID loads an assignment by id.
func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	query := fmt.Sprintf("SELECT %s FROM class_assignments WHERE id = $1", assignmentColumns)
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// ListByInstructorBetween returns non-cancelled assignments for an
// instructor inside a date window, ordered by date and start time.
// The conflict detector consumes this as its one-off commitment view.
func (r *AssignmentRepository) ListByInstructorBetween(ctx context.Context, instructorID string, from, to time.Time) ([]models.Assignment, error) {
	query := fmt.Sprintf("SELECT %s FROM class_assignments WHERE instructor_id = $1 AND status <> $2 AND date >= $3 AND date <= $4 ORDER BY date ASC, start_time ASC", assignmentColumns)
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, instructorID, models.AssignmentStatusCancelled, from, to); err != nil {
		return nil, fmt.Errorf("list assignments by instructor: %w", err)
	}
	return assignments, nil
}

// FindOverlapping returns non-cancelled assignments for the instructor
// on the given date whose time window intersects [startTime, endTime).
// Executed inside the insert transaction it is the server-side guard
// that closes the read-then-act race between concurrent bookers.
// Times compare as strings here, which only orders correctly because
// request validation enforces zero-padded HH:MM values.
func (r *AssignmentRepository) FindOverlapping(ctx context.Context, exec sqlx.ExtContext, instructorID string, date time.Time, startTime, endTime string) ([]models.Assignment, error) {
	query := fmt.Sprintf("SELECT %s FROM class_assignments WHERE instructor_id = $1 AND date = $2 AND status <> $3 AND start_time < $4 AND end_time > $5", assignmentColumns)
	var assignments []models.Assignment
	if err := sqlx.SelectContext(ctx, exec, &assignments, query, instructorID, date, models.AssignmentStatusCancelled, endTime, startTime); err != nil {
		return nil, fmt.Errorf("find overlapping assignments: %w", err)
	}
	return assignments, nil
}

// BulkCreateWithTx inserts assignments using an existing transaction.
// Callers rely on all-or-nothing semantics: any failure aborts the
// whole batch.
func (r *AssignmentRepository) BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, assignments []models.Assignment) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	now := time.Now().UTC()
	for i := range assignments {
		payload := assignments[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.Status == "" {
			payload.Status = models.AssignmentStatusScheduled
		}
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}
		payload.UpdatedAt = now

		if _, err := sqlx.NamedExecContext(ctx, tx, `INSERT INTO class_assignments (id, class_type_id, package_id, instructor_id, date, start_time, end_time, payment_amount, notes, schedule_type, status, assigned_by, assigned_at, booking_id, client_name, client_email, created_at, updated_at) VALUES (:id, :class_type_id, :package_id, :instructor_id, :date, :start_time, :end_time, :payment_amount, :notes, :schedule_type, :status, :assigned_by, :assigned_at, :booking_id, :client_name, :client_email, :created_at, :updated_at)`, &payload); err != nil {
			return fmt.Errorf("bulk insert assignment: %w", err)
		}
		assignments[i] = payload
	}
	return nil
}

// BeginTxx starts a transaction for multi-statement writes.
func (r *AssignmentRepository) BeginTxx(ctx context.Context) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, nil)
}

// UpdateStatus transitions an assignment's status.
func (r *AssignmentRepository) UpdateStatus(ctx context.Context, id, status string) error {
	const query = `UPDATE class_assignments SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update assignment status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update assignment status: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("assignment %s not found", id)
	}
	return nil
}
