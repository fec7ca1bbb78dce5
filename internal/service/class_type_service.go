package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/studiopulse/booking-admin-api/internal/models"
	appErrors "github.com/studiopulse/booking-admin-api/pkg/errors"
)

type classTypeRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.ClassType, error)
	FindByID(ctx context.Context, id string) (*models.ClassType, error)
	Create(ctx context.Context, classType *models.ClassType) error
	Update(ctx context.Context, classType *models.ClassType) error
}

// ClassTypeRequest is the create/update payload for a class offering.
type ClassTypeRequest struct {
	Name            string `json:"name" validate:"required"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gt=0"`
	Active          *bool  `json:"active"`
}

// ClassTypeService manages the catalog of bookable class offerings.
type ClassTypeService struct {
	classTypes classTypeRepository
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewClassTypeService creates a service instance.
func NewClassTypeService(classTypes classTypeRepository, validate *validator.Validate, logger *zap.Logger) *ClassTypeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassTypeService{classTypes: classTypes, validator: validate, logger: logger}
}

// List returns class types, optionally only active ones.
func (s *ClassTypeService) List(ctx context.Context, activeOnly bool) ([]models.ClassType, error) {
	classTypes, err := s.classTypes.List(ctx, activeOnly)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list class types")
	}
	return classTypes, nil
}

// FindByID loads one class type.
func (s *ClassTypeService) FindByID(ctx context.Context, id string) (*models.ClassType, error) {
	classType, err := s.classTypes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class type not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class type")
	}
	return classType, nil
}

// Create adds a class type to the catalog.
func (s *ClassTypeService) Create(ctx context.Context, req ClassTypeRequest) (*models.ClassType, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class type payload")
	}
	classType := &models.ClassType{
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Active:          true,
	}
	if req.Active != nil {
		classType.Active = *req.Active
	}
	if err := s.classTypes.Create(ctx, classType); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class type")
	}
	return classType, nil
}

// Update rewrites a class type.
func (s *ClassTypeService) Update(ctx context.Context, id string, req ClassTypeRequest) (*models.ClassType, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class type payload")
	}
	classType, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	classType.Name = req.Name
	classType.Description = req.Description
	classType.DurationMinutes = req.DurationMinutes
	if req.Active != nil {
		classType.Active = *req.Active
	}
	if err := s.classTypes.Update(ctx, classType); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class type")
	}
	return classType, nil
}
