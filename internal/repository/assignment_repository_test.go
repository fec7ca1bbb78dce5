package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiopulse/booking-admin-api/internal/models"
)

func newAssignmentMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func assignmentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "class_type_id", "package_id", "instructor_id", "date", "start_time", "end_time",
		"payment_amount", "notes", "schedule_type", "status", "assigned_by", "assigned_at",
		"booking_id", "client_name", "client_email", "created_at", "updated_at",
	})
}

func TestAssignmentRepositoryListByInstructorBetween(t *testing.T) {
	db, mock, cleanup := newAssignmentMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	classType := "reformer"
	rows := assignmentRows().AddRow(
		"assign-1", &classType, nil, "instructor-1",
		time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC), "09:00", "10:00",
		500.0, "", models.ScheduleTypeAdhoc, models.AssignmentStatusScheduled,
		"admin-1", time.Now(), nil, nil, nil, time.Now(), time.Now(),
	)
	mock.ExpectQuery("SELECT (.+) FROM class_assignments WHERE instructor_id = \\$1 AND status <> \\$2 AND date >= \\$3 AND date <= \\$4").
		WithArgs("instructor-1", models.AssignmentStatusCancelled, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(rows)

	assignments, err := repo.ListByInstructorBetween(context.Background(), "instructor-1",
		time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, "assign-1", assignments[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryListWithFilter(t *testing.T) {
	db, mock, cleanup := newAssignmentMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM class_assignments WHERE 1=1 AND instructor_id = \\$1 AND schedule_type = \\$2 ORDER BY date ASC").
		WithArgs("instructor-1", models.ScheduleTypeWeekly).
		WillReturnRows(assignmentRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM class_assignments WHERE 1=1 AND instructor_id = $1 AND schedule_type = $2")).
		WithArgs("instructor-1", models.ScheduleTypeWeekly).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	assignments, total, err := repo.List(context.Background(), models.AssignmentFilter{
		InstructorID: "instructor-1",
		ScheduleType: models.ScheduleTypeWeekly,
	})
	require.NoError(t, err)
	assert.Empty(t, assignments)
	assert.Equal(t, 0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryBulkCreateWithTx(t *testing.T) {
	db, mock, cleanup := newAssignmentMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO class_assignments").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO class_assignments").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := repo.BeginTxx(context.Background())
	require.NoError(t, err)

	classType := "mat"
	assignments := []models.Assignment{
		{ClassTypeID: &classType, InstructorID: "instructor-1", Date: time.Now(), StartTime: "09:00", EndTime: "10:00", ScheduleType: models.ScheduleTypeWeekly, AssignedBy: "admin-1"},
		{ClassTypeID: &classType, InstructorID: "instructor-1", Date: time.Now(), StartTime: "09:00", EndTime: "10:00", ScheduleType: models.ScheduleTypeWeekly, AssignedBy: "admin-1"},
	}
	require.NoError(t, repo.BulkCreateWithTx(context.Background(), tx, assignments))
	require.NoError(t, tx.Commit())

	for _, a := range assignments {
		assert.NotEmpty(t, a.ID, "ids are assigned during insert")
		assert.Equal(t, models.AssignmentStatusScheduled, a.Status)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryUpdateStatusNotFound(t *testing.T) {
	db, mock, cleanup := newAssignmentMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectExec("UPDATE class_assignments SET status").
		WithArgs(models.AssignmentStatusCancelled, sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", models.AssignmentStatusCancelled)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
