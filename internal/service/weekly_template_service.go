package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/studiopulse/booking-admin-api/internal/models"
	"github.com/studiopulse/booking-admin-api/internal/scheduling"
	appErrors "github.com/studiopulse/booking-admin-api/pkg/errors"
)

type weeklyTemplateRepository interface {
	ListByInstructor(ctx context.Context, instructorID string) ([]models.WeeklyTemplate, error)
	FindByID(ctx context.Context, id string) (*models.WeeklyTemplate, error)
	Create(ctx context.Context, template *models.WeeklyTemplate) error
	Update(ctx context.Context, template *models.WeeklyTemplate) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

// WeeklyTemplateRequest is the create/update payload for a recurring
// weekly slot.
type WeeklyTemplateRequest struct {
	InstructorID string  `json:"instructor_id" validate:"required"`
	ClassTypeID  *string `json:"class_type_id"`
	DayOfWeek    int     `json:"day_of_week" validate:"min=0,max=6"`
	StartTime    string  `json:"start_time" validate:"required"`
	EndTime      string  `json:"end_time" validate:"required"`
}

// WeeklyTemplateService manages the recurring weekly slots the
// conflict detector treats as standing commitments.
type WeeklyTemplateService struct {
	templates   weeklyTemplateRepository
	instructors instructorReader
	snapshots   snapshotLoader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewWeeklyTemplateService creates a service instance.
func NewWeeklyTemplateService(templates weeklyTemplateRepository, instructors instructorReader, snapshots snapshotLoader, validate *validator.Validate, logger *zap.Logger) *WeeklyTemplateService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WeeklyTemplateService{
		templates:   templates,
		instructors: instructors,
		snapshots:   snapshots,
		validator:   validate,
		logger:      logger,
	}
}

// ListByInstructor returns all templates, active or not, for one
// instructor.
func (s *WeeklyTemplateService) ListByInstructor(ctx context.Context, instructorID string) ([]models.WeeklyTemplate, error) {
	if _, err := s.instructors.FindByID(ctx, instructorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor")
	}
	templates, err := s.templates.ListByInstructor(ctx, instructorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list templates")
	}
	return templates, nil
}

// Create stores a new template. The time window must be well formed;
// the slot itself may overlap existing commitments since templates
// describe standing availability, not bookings.
func (s *WeeklyTemplateService) Create(ctx context.Context, req WeeklyTemplateRequest) (*models.WeeklyTemplate, error) {
	if err := s.validateRequest(ctx, req); err != nil {
		return nil, err
	}
	template := &models.WeeklyTemplate{
		InstructorID: req.InstructorID,
		ClassTypeID:  req.ClassTypeID,
		DayOfWeek:    req.DayOfWeek,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		IsActive:     true,
	}
	if err := s.templates.Create(ctx, template); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create template")
	}
	s.snapshots.Invalidate(ctx, req.InstructorID)
	return template, nil
}

// Update rewrites an existing template's slot.
func (s *WeeklyTemplateService) Update(ctx context.Context, id string, req WeeklyTemplateRequest) (*models.WeeklyTemplate, error) {
	if err := s.validateRequest(ctx, req); err != nil {
		return nil, err
	}
	template, err := s.findTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	template.InstructorID = req.InstructorID
	template.ClassTypeID = req.ClassTypeID
	template.DayOfWeek = req.DayOfWeek
	template.StartTime = req.StartTime
	template.EndTime = req.EndTime
	if err := s.templates.Update(ctx, template); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update template")
	}
	s.snapshots.Invalidate(ctx, template.InstructorID)
	return template, nil
}

// SetActive toggles whether the template participates in conflict
// detection.
func (s *WeeklyTemplateService) SetActive(ctx context.Context, id string, active bool) error {
	template, err := s.findTemplate(ctx, id)
	if err != nil {
		return err
	}
	if err := s.templates.SetActive(ctx, id, active); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update template")
	}
	s.snapshots.Invalidate(ctx, template.InstructorID)
	return nil
}

// Delete removes a template.
func (s *WeeklyTemplateService) Delete(ctx context.Context, id string) error {
	template, err := s.findTemplate(ctx, id)
	if err != nil {
		return err
	}
	if err := s.templates.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete template")
	}
	s.snapshots.Invalidate(ctx, template.InstructorID)
	return nil
}

func (s *WeeklyTemplateService) findTemplate(ctx context.Context, id string) (*models.WeeklyTemplate, error) {
	template, err := s.templates.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "template not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load template")
	}
	return template, nil
}

func (s *WeeklyTemplateService) validateRequest(ctx context.Context, req WeeklyTemplateRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid template payload")
	}
	if !scheduling.IsClock(req.StartTime) {
		return appErrors.Clone(appErrors.ErrFormat, "start_time must be zero-padded HH:MM")
	}
	if !scheduling.IsClock(req.EndTime) {
		return appErrors.Clone(appErrors.ErrFormat, "end_time must be zero-padded HH:MM")
	}
	start, _ := scheduling.ToMinutes(req.StartTime)
	end, _ := scheduling.ToMinutes(req.EndTime)
	if end <= start {
		return appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}
	if _, err := s.instructors.FindByID(ctx, req.InstructorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor")
	}
	return nil
}
