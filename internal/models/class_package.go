package models

import "time"

// Package duration units.
const (
	PackageUnitWeeks  = "weeks"
	PackageUnitMonths = "months"
)

// ClassPackage is a pre-defined bundle of classes sold as a unit.
// ClassCount drives how many occurrences a crash-course or package
// assignment generates.
type ClassPackage struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Description   string    `db:"description" json:"description"`
	ClassCount    int       `db:"class_count" json:"class_count"`
	DurationValue int       `db:"duration_value" json:"duration_value"`
	DurationUnit  string    `db:"duration_unit" json:"duration_unit"`
	Price         float64   `db:"price" json:"price"`
	Active        bool      `db:"active" json:"active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
