package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/studiopulse/booking-admin-api/internal/models"
)

// ClassPackageRepository provides persistence for class packages.
type ClassPackageRepository struct {
	db *sqlx.DB
}

// NewClassPackageRepository creates a new class package repository.
func NewClassPackageRepository(db *sqlx.DB) *ClassPackageRepository {
	return &ClassPackageRepository{db: db}
}

// List returns packages, optionally restricted to active ones.
func (r *ClassPackageRepository) List(ctx context.Context, activeOnly bool) ([]models.ClassPackage, error) {
	query := "SELECT id, name, description, class_count, duration_value, duration_unit, price, active, created_at, updated_at FROM class_packages"
	if activeOnly {
		query += " WHERE active = TRUE"
	}
	query += " ORDER BY name ASC"

	var packages []models.ClassPackage
	if err := r.db.SelectContext(ctx, &packages, query); err != nil {
		return nil, fmt.Errorf("list class packages: %w", err)
	}
	return packages, nil
}

// FindByID loads a package by id.
func (r *ClassPackageRepository) FindByID(ctx context.Context, id string) (*models.ClassPackage, error) {
	const query = `SELECT id, name, description, class_count, duration_value, duration_unit, price, active, created_at, updated_at FROM class_packages WHERE id = $1`
	var pkg models.ClassPackage
	if err := r.db.GetContext(ctx, &pkg, query, id); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// Create stores a new package.
func (r *ClassPackageRepository) Create(ctx context.Context, pkg *models.ClassPackage) error {
	if pkg.ID == "" {
		pkg.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if pkg.CreatedAt.IsZero() {
		pkg.CreatedAt = now
	}
	pkg.UpdatedAt = now

	const query = `INSERT INTO class_packages (id, name, description, class_count, duration_value, duration_unit, price, active, created_at, updated_at) VALUES (:id, :name, :description, :class_count, :duration_value, :duration_unit, :price, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, pkg); err != nil {
		return fmt.Errorf("create class package: %w", err)
	}
	return nil
}

// Update modifies a package.
func (r *ClassPackageRepository) Update(ctx context.Context, pkg *models.ClassPackage) error {
	pkg.UpdatedAt = time.Now().UTC()
	const query = `UPDATE class_packages SET name = :name, description = :description, class_count = :class_count, duration_value = :duration_value, duration_unit = :duration_unit, price = :price, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, pkg); err != nil {
		return fmt.Errorf("update class package: %w", err)
	}
	return nil
}
