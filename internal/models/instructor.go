package models

import "time"

// Instructor is a teaching staff member assignable to classes.
type Instructor struct {
	ID        string    `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Bio       string    `db:"bio" json:"bio"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// InstructorFilter describes query params for listing instructors.
type InstructorFilter struct {
	Search   string
	Active   *bool
	Page     int
	PageSize int
}
