package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiopulse/booking-admin-api/internal/models"
	"github.com/studiopulse/booking-admin-api/internal/scheduling"
	appErrors "github.com/studiopulse/booking-admin-api/pkg/errors"
)

type assignmentRepoStub struct {
	db          *sqlx.DB
	created     []models.Assignment
	overlapping []models.Assignment
	items       map[string]*models.Assignment
	statusCalls []string
}

func (s *assignmentRepoStub) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, int, error) {
	return nil, 0, nil
}

func (s *assignmentRepoStub) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	if a, ok := s.items[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (s *assignmentRepoStub) FindOverlapping(ctx context.Context, exec sqlx.ExtContext, instructorID string, date time.Time, startTime, endTime string) ([]models.Assignment, error) {
	return s.overlapping, nil
}

func (s *assignmentRepoStub) BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, assignments []models.Assignment) error {
	s.created = append(s.created, assignments...)
	return nil
}

func (s *assignmentRepoStub) BeginTxx(ctx context.Context) (*sqlx.Tx, error) {
	return s.db.BeginTxx(ctx, nil)
}

func (s *assignmentRepoStub) UpdateStatus(ctx context.Context, id, status string) error {
	s.statusCalls = append(s.statusCalls, id+":"+status)
	return nil
}

type instructorReaderStub struct {
	ids []string
}

func (s *instructorReaderStub) FindByID(ctx context.Context, id string) (*models.Instructor, error) {
	for _, known := range s.ids {
		if known == id {
			return &models.Instructor{ID: id, FullName: "Instructor " + id, Active: true}, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *instructorReaderStub) ListActiveIDs(ctx context.Context) ([]string, error) {
	return s.ids, nil
}

type classTypeReaderStub struct{}

func (classTypeReaderStub) FindByID(ctx context.Context, id string) (*models.ClassType, error) {
	return &models.ClassType{ID: id, Name: "Reformer", DurationMinutes: 60, Active: true}, nil
}

type classPackageReaderStub struct {
	pkg models.ClassPackage
}

func (s *classPackageReaderStub) FindByID(ctx context.Context, id string) (*models.ClassPackage, error) {
	cp := s.pkg
	cp.ID = id
	return &cp, nil
}

type snapshotLoaderStub struct {
	snap        scheduling.Snapshot
	invalidated []string
}

func (s *snapshotLoaderStub) Load(ctx context.Context, instructorID string, from, to time.Time) (scheduling.Snapshot, error) {
	return s.snap, nil
}

func (s *snapshotLoaderStub) Invalidate(ctx context.Context, instructorID string) {
	s.invalidated = append(s.invalidated, instructorID)
}

func fixedClock() time.Time {
	return time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
}

func newAssignmentService(t *testing.T, repo *assignmentRepoStub, snapshots *snapshotLoaderStub) (*AssignmentService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo.db = sqlx.NewDb(db, "sqlmock")

	svc := NewAssignmentService(
		repo,
		&instructorReaderStub{ids: []string{"instructor-1", "instructor-2"}},
		classTypeReaderStub{},
		&classPackageReaderStub{pkg: models.ClassPackage{Name: "Intensive", ClassCount: 4, DurationValue: 2, DurationUnit: models.PackageUnitWeeks, Price: 1200}},
		snapshots,
		nil, nil,
		fixedClock,
	)
	return svc, mock
}

func weeklyRequestFixture() AssignmentRequest {
	monday := 1
	return AssignmentRequest{
		ScheduleType:  models.ScheduleTypeWeekly,
		InstructorID:  "instructor-1",
		ClassTypeID:   "reformer",
		StartDate:     "2024-01-01",
		EndDate:       "2024-01-22",
		DayOfWeek:     &monday,
		StartTime:     "09:00",
		EndTime:       "10:00",
		PaymentAmount: 1000,
		PaymentType:   "monthly",
	}
}

func TestAssignmentServicePreviewWeekly(t *testing.T) {
	repo := &assignmentRepoStub{}
	snapshots := &snapshotLoaderStub{}
	svc, _ := newAssignmentService(t, repo, snapshots)

	plan, err := svc.Preview(context.Background(), weeklyRequestFixture(), "admin-1")
	require.NoError(t, err)

	assert.Equal(t, 4, plan.TotalClasses)
	assert.InDelta(t, 250.0, plan.PerClassAmount, 0.001)
	require.Len(t, plan.Assignments, 4)
	assert.Equal(t, "2024-01-01", plan.Assignments[0].Date.Format("2006-01-02"))
	assert.Equal(t, models.ScheduleTypeWeekly, plan.Assignments[0].ScheduleType)
	assert.Equal(t, "admin-1", plan.Assignments[0].AssignedBy)
	assert.Empty(t, repo.created, "preview must not persist")
	assert.Empty(t, snapshots.invalidated)
}

func TestAssignmentServicePreviewRequiresActor(t *testing.T) {
	repo := &assignmentRepoStub{}
	svc, _ := newAssignmentService(t, repo, &snapshotLoaderStub{})

	_, err := svc.Preview(context.Background(), weeklyRequestFixture(), "")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAssignmentServiceCreatePersistsAndInvalidates(t *testing.T) {
	repo := &assignmentRepoStub{}
	snapshots := &snapshotLoaderStub{}
	svc, mock := newAssignmentService(t, repo, snapshots)

	mock.ExpectBegin()
	mock.ExpectCommit()

	plan, err := svc.Create(context.Background(), weeklyRequestFixture(), "admin-1")
	require.NoError(t, err)

	assert.Len(t, repo.created, 4)
	assert.Equal(t, 4, plan.TotalClasses)
	assert.Equal(t, []string{"instructor-1"}, snapshots.invalidated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentServiceCreateRejectsRacedSlot(t *testing.T) {
	repo := &assignmentRepoStub{
		overlapping: []models.Assignment{{ID: "existing", StartTime: "09:00", EndTime: "10:00"}},
	}
	snapshots := &snapshotLoaderStub{}
	svc, mock := newAssignmentService(t, repo, snapshots)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), weeklyRequestFixture(), "admin-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Empty(t, repo.created)
	assert.Empty(t, snapshots.invalidated)
}

func TestAssignmentServicePreviewAdhocConflictBlocks(t *testing.T) {
	repo := &assignmentRepoStub{}
	snapshots := &snapshotLoaderStub{
		snap: scheduling.Snapshot{Occurrences: []scheduling.Occurrence{{
			InstructorID: "instructor-1",
			Date:         time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC),
			StartTime:    "09:30",
			EndTime:      "10:30",
		}}},
	}
	svc, _ := newAssignmentService(t, repo, snapshots)

	req := AssignmentRequest{
		ScheduleType:  models.ScheduleTypeAdhoc,
		InstructorID:  "instructor-1",
		ClassTypeID:   "reformer",
		Date:          "2024-01-08",
		StartTime:     "09:00",
		EndTime:       "10:00",
		PaymentAmount: 500,
		PaymentType:   "per_class",
	}
	_, err := svc.Preview(context.Background(), req, "admin-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestAssignmentServicePreviewRecurringConflictWarns(t *testing.T) {
	repo := &assignmentRepoStub{}
	snapshots := &snapshotLoaderStub{
		snap: scheduling.Snapshot{Occurrences: []scheduling.Occurrence{{
			InstructorID: "instructor-1",
			Date:         time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC),
			StartTime:    "09:30",
			EndTime:      "10:30",
		}}},
	}
	svc, _ := newAssignmentService(t, repo, snapshots)

	plan, err := svc.Preview(context.Background(), weeklyRequestFixture(), "admin-1")
	require.NoError(t, err)
	require.Len(t, plan.Warnings, 1)
	assert.Equal(t, "one_off", plan.Warnings[0].Kind)
	assert.Equal(t, "2024-01-08", plan.Warnings[0].Date)
	assert.Equal(t, 4, plan.TotalClasses, "warnings do not shrink the plan")
}

func TestAssignmentServiceCrashCoursePackageCountBinds(t *testing.T) {
	repo := &assignmentRepoStub{}
	svc, _ := newAssignmentService(t, repo, &snapshotLoaderStub{})

	req := AssignmentRequest{
		ScheduleType:   models.ScheduleTypeCrash,
		InstructorID:   "instructor-1",
		PackageID:      "pkg-1",
		StartDate:      "2024-03-01",
		ClassFrequency: "daily",
		StartTime:      "08:00",
		EndTime:        "09:00",
		PaymentAmount:  1200,
		PaymentType:    "total_duration",
	}
	plan, err := svc.Preview(context.Background(), req, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, 4, plan.TotalClasses, "class count comes from the package")
	assert.InDelta(t, 300.0, plan.PerClassAmount, 0.001)
	require.NotNil(t, plan.Assignments[0].PackageID)
	assert.Equal(t, "pkg-1", *plan.Assignments[0].PackageID)
}

func TestAssignmentServiceCancel(t *testing.T) {
	repo := &assignmentRepoStub{items: map[string]*models.Assignment{
		"assign-1": {ID: "assign-1", InstructorID: "instructor-1", Status: models.AssignmentStatusScheduled},
		"assign-2": {ID: "assign-2", InstructorID: "instructor-1", Status: models.AssignmentStatusCancelled},
	}}
	snapshots := &snapshotLoaderStub{}
	svc, _ := newAssignmentService(t, repo, snapshots)

	require.NoError(t, svc.Cancel(context.Background(), "assign-1"))
	assert.Equal(t, []string{"assign-1:" + models.AssignmentStatusCancelled}, repo.statusCalls)
	assert.Equal(t, []string{"instructor-1"}, snapshots.invalidated)

	err := svc.Cancel(context.Background(), "assign-2")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)

	err = svc.Cancel(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAssignmentServiceAvailableInstructors(t *testing.T) {
	repo := &assignmentRepoStub{}
	snapshots := &snapshotLoaderStub{
		snap: scheduling.Snapshot{Occurrences: []scheduling.Occurrence{{
			InstructorID: "instructor-1",
			Date:         time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC),
			StartTime:    "09:00",
			EndTime:      "10:00",
		}}},
	}
	svc, _ := newAssignmentService(t, repo, snapshots)

	available, err := svc.AvailableInstructors(context.Background(), "2024-01-08", "09:30", "10:30")
	require.NoError(t, err)
	assert.Equal(t, []string{"instructor-2"}, available)
}

func TestMapEngineErrorValidationMessageIsStable(t *testing.T) {
	engineErr := &scheduling.ValidationError{Fields: map[string]string{
		"start_time":    "start time is required",
		"end_time":      "end time is required",
		"instructor_id": "instructor is required",
	}}

	want := "end_time: end time is required; instructor_id: instructor is required; start_time: start time is required"
	for i := 0; i < 20; i++ {
		mapped := appErrors.FromError(mapEngineError(engineErr))
		assert.Equal(t, want, mapped.Message)
	}
}
