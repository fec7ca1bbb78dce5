package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/studiopulse/booking-admin-api/internal/models"
)

const weeklyTemplateColumns = "id, instructor_id, class_type_id, day_of_week, start_time, end_time, is_active, created_at, updated_at"

// WeeklyTemplateRepository provides persistence for recurring weekly slots.
type WeeklyTemplateRepository struct {
	db *sqlx.DB
}

// NewWeeklyTemplateRepository creates a new weekly template repository.
func NewWeeklyTemplateRepository(db *sqlx.DB) *WeeklyTemplateRepository {
	return &WeeklyTemplateRepository{db: db}
}

// ListByInstructor returns every template for an instructor.
func (r *WeeklyTemplateRepository) ListByInstructor(ctx context.Context, instructorID string) ([]models.WeeklyTemplate, error) {
	query := fmt.Sprintf("SELECT %s FROM weekly_templates WHERE instructor_id = $1 ORDER BY day_of_week ASC, start_time ASC", weeklyTemplateColumns)
	var templates []models.WeeklyTemplate
	if err := r.db.SelectContext(ctx, &templates, query, instructorID); err != nil {
		return nil, fmt.Errorf("list weekly templates: %w", err)
	}
	return templates, nil
}

// ListActiveByInstructor returns only active templates, the set the
// conflict detector checks against.
func (r *WeeklyTemplateRepository) ListActiveByInstructor(ctx context.Context, instructorID string) ([]models.WeeklyTemplate, error) {
	query := fmt.Sprintf("SELECT %s FROM weekly_templates WHERE instructor_id = $1 AND is_active = TRUE ORDER BY day_of_week ASC, start_time ASC", weeklyTemplateColumns)
	var templates []models.WeeklyTemplate
	if err := r.db.SelectContext(ctx, &templates, query, instructorID); err != nil {
		return nil, fmt.Errorf("list active weekly templates: %w", err)
	}
	return templates, nil
}

// FindByID loads a template by id.
func (r *WeeklyTemplateRepository) FindByID(ctx context.Context, id string) (*models.WeeklyTemplate, error) {
	query := fmt.Sprintf("SELECT %s FROM weekly_templates WHERE id = $1", weeklyTemplateColumns)
	var template models.WeeklyTemplate
	if err := r.db.GetContext(ctx, &template, query, id); err != nil {
		return nil, err
	}
	return &template, nil
}

// Create stores a new weekly template.
func (r *WeeklyTemplateRepository) Create(ctx context.Context, template *models.WeeklyTemplate) error {
	if template.ID == "" {
		template.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if template.CreatedAt.IsZero() {
		template.CreatedAt = now
	}
	template.UpdatedAt = now

	const query = `INSERT INTO weekly_templates (id, instructor_id, class_type_id, day_of_week, start_time, end_time, is_active, created_at, updated_at) VALUES (:id, :instructor_id, :class_type_id, :day_of_week, :start_time, :end_time, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, template); err != nil {
		return fmt.Errorf("create weekly template: %w", err)
	}
	return nil
}

// Update modifies a weekly template.
func (r *WeeklyTemplateRepository) Update(ctx context.Context, template *models.WeeklyTemplate) error {
	template.UpdatedAt = time.Now().UTC()
	const query = `UPDATE weekly_templates SET instructor_id = :instructor_id, class_type_id = :class_type_id, day_of_week = :day_of_week, start_time = :start_time, end_time = :end_time, is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, template); err != nil {
		return fmt.Errorf("update weekly template: %w", err)
	}
	return nil
}

// SetActive toggles a template without touching its slot definition.
func (r *WeeklyTemplateRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `UPDATE weekly_templates SET is_active = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, active, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set weekly template active: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set weekly template active: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("weekly template %s not found", id)
	}
	return nil
}

// Delete removes a weekly template.
func (r *WeeklyTemplateRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM weekly_templates WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete weekly template: %w", err)
	}
	return nil
}
