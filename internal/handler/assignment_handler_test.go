package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiopulse/booking-admin-api/internal/middleware"
	"github.com/studiopulse/booking-admin-api/internal/models"
	"github.com/studiopulse/booking-admin-api/internal/scheduling"
	"github.com/studiopulse/booking-admin-api/internal/service"
	"github.com/studiopulse/booking-admin-api/pkg/response"
)

type assignmentRepoMock struct {
	items map[string]*models.Assignment
}

func (m *assignmentRepoMock) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, int, error) {
	return nil, 0, nil
}

func (m *assignmentRepoMock) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	if a, ok := m.items[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *assignmentRepoMock) FindOverlapping(ctx context.Context, exec sqlx.ExtContext, instructorID string, date time.Time, startTime, endTime string) ([]models.Assignment, error) {
	return nil, nil
}

func (m *assignmentRepoMock) BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, assignments []models.Assignment) error {
	return nil
}

func (m *assignmentRepoMock) BeginTxx(ctx context.Context) (*sqlx.Tx, error) { return nil, nil }

func (m *assignmentRepoMock) UpdateStatus(ctx context.Context, id, status string) error { return nil }

type instructorReaderMock struct{}

func (instructorReaderMock) FindByID(ctx context.Context, id string) (*models.Instructor, error) {
	return &models.Instructor{ID: id, Active: true}, nil
}

func (instructorReaderMock) ListActiveIDs(ctx context.Context) ([]string, error) {
	return []string{"instructor-1"}, nil
}

type classTypeReaderMock struct{}

func (classTypeReaderMock) FindByID(ctx context.Context, id string) (*models.ClassType, error) {
	return &models.ClassType{ID: id, Active: true}, nil
}

type classPackageReaderMock struct{}

func (classPackageReaderMock) FindByID(ctx context.Context, id string) (*models.ClassPackage, error) {
	return &models.ClassPackage{ID: id, ClassCount: 4, DurationValue: 2, DurationUnit: models.PackageUnitWeeks}, nil
}

type snapshotLoaderMock struct{}

func (snapshotLoaderMock) Load(ctx context.Context, instructorID string, from, to time.Time) (scheduling.Snapshot, error) {
	return scheduling.Snapshot{}, nil
}

func (snapshotLoaderMock) Invalidate(ctx context.Context, instructorID string) {}

func newTestAssignmentHandler(repo *assignmentRepoMock) *AssignmentHandler {
	svc := service.NewAssignmentService(
		repo,
		instructorReaderMock{},
		classTypeReaderMock{},
		classPackageReaderMock{},
		snapshotLoaderMock{},
		nil, nil, nil,
	)
	return NewAssignmentHandler(svc, service.NewMetricsService())
}

func authedContext(t *testing.T, w *httptest.ResponseRecorder, method, target string, body interface{}) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(w)
	var reader *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(payload)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})
	return c
}

func TestAssignmentHandlerPreview(t *testing.T) {
	handler := newTestAssignmentHandler(&assignmentRepoMock{})

	monday := 1
	w := httptest.NewRecorder()
	c := authedContext(t, w, http.MethodPost, "/assignments/preview", service.AssignmentRequest{
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
	})

	handler.Preview(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 4, data["total_classes"])
	assert.EqualValues(t, 250, data["per_class_amount"])
}

func TestAssignmentHandlerPreviewInvalidBody(t *testing.T) {
	handler := newTestAssignmentHandler(&assignmentRepoMock{})

	w := httptest.NewRecorder()
	c := authedContext(t, w, http.MethodPost, "/assignments/preview", nil)
	c.Request.Body = http.NoBody

	handler.Preview(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignmentHandlerCancelNotFound(t *testing.T) {
	handler := newTestAssignmentHandler(&assignmentRepoMock{})

	w := httptest.NewRecorder()
	c := authedContext(t, w, http.MethodDelete, "/assignments/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Cancel(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssignmentHandlerGet(t *testing.T) {
	repo := &assignmentRepoMock{items: map[string]*models.Assignment{
		"assign-1": {ID: "assign-1", InstructorID: "instructor-1", Status: models.AssignmentStatusScheduled},
	}}
	handler := newTestAssignmentHandler(repo)

	w := httptest.NewRecorder()
	c := authedContext(t, w, http.MethodGet, "/assignments/assign-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "assign-1"}}

	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
}
