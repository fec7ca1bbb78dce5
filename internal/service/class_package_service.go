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

type classPackageRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.ClassPackage, error)
	FindByID(ctx context.Context, id string) (*models.ClassPackage, error)
	Create(ctx context.Context, pkg *models.ClassPackage) error
	Update(ctx context.Context, pkg *models.ClassPackage) error
}

// ClassPackageRequest is the create/update payload for a class bundle.
// ClassCount drives how many occurrences a package booking generates.
type ClassPackageRequest struct {
	Name          string  `json:"name" validate:"required"`
	Description   string  `json:"description"`
	ClassCount    int     `json:"class_count" validate:"required,gt=0"`
	DurationValue int     `json:"duration_value" validate:"required,gte=1"`
	DurationUnit  string  `json:"duration_unit" validate:"required,oneof=weeks months"`
	Price         float64 `json:"price" validate:"gte=0"`
	Active        *bool   `json:"active"`
}

// ClassPackageService manages the catalog of sellable class bundles.
type ClassPackageService struct {
	packages  classPackageRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassPackageService creates a service instance.
func NewClassPackageService(packages classPackageRepository, validate *validator.Validate, logger *zap.Logger) *ClassPackageService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassPackageService{packages: packages, validator: validate, logger: logger}
}

// List returns packages, optionally only active ones.
func (s *ClassPackageService) List(ctx context.Context, activeOnly bool) ([]models.ClassPackage, error) {
	packages, err := s.packages.List(ctx, activeOnly)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list packages")
	}
	return packages, nil
}

// FindByID loads one package.
func (s *ClassPackageService) FindByID(ctx context.Context, id string) (*models.ClassPackage, error) {
	pkg, err := s.packages.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "package not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load package")
	}
	return pkg, nil
}

// Create adds a package to the catalog.
func (s *ClassPackageService) Create(ctx context.Context, req ClassPackageRequest) (*models.ClassPackage, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid package payload")
	}
	pkg := &models.ClassPackage{
		Name:          req.Name,
		Description:   req.Description,
		ClassCount:    req.ClassCount,
		DurationValue: req.DurationValue,
		DurationUnit:  req.DurationUnit,
		Price:         req.Price,
		Active:        true,
	}
	if req.Active != nil {
		pkg.Active = *req.Active
	}
	if err := s.packages.Create(ctx, pkg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create package")
	}
	return pkg, nil
}

// Update rewrites a package definition. Existing assignments keep the
// counts they were generated with.
func (s *ClassPackageService) Update(ctx context.Context, id string, req ClassPackageRequest) (*models.ClassPackage, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid package payload")
	}
	pkg, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	pkg.Name = req.Name
	pkg.Description = req.Description
	pkg.ClassCount = req.ClassCount
	pkg.DurationValue = req.DurationValue
	pkg.DurationUnit = req.DurationUnit
	pkg.Price = req.Price
	if req.Active != nil {
		pkg.Active = *req.Active
	}
	if err := s.packages.Update(ctx, pkg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update package")
	}
	return pkg, nil
}
