package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiopulse/booking-admin-api/internal/models"
	appErrors "github.com/studiopulse/booking-admin-api/pkg/errors"
)

type weeklyTemplateRepoStub struct {
	created []*models.WeeklyTemplate
}

func (s *weeklyTemplateRepoStub) ListByInstructor(ctx context.Context, instructorID string) ([]models.WeeklyTemplate, error) {
	return nil, nil
}

func (s *weeklyTemplateRepoStub) FindByID(ctx context.Context, id string) (*models.WeeklyTemplate, error) {
	return nil, sql.ErrNoRows
}

func (s *weeklyTemplateRepoStub) Create(ctx context.Context, template *models.WeeklyTemplate) error {
	s.created = append(s.created, template)
	return nil
}

func (s *weeklyTemplateRepoStub) Update(ctx context.Context, template *models.WeeklyTemplate) error {
	return nil
}

func (s *weeklyTemplateRepoStub) SetActive(ctx context.Context, id string, active bool) error {
	return nil
}

func (s *weeklyTemplateRepoStub) Delete(ctx context.Context, id string) error {
	return nil
}

func newWeeklyTemplateService(repo *weeklyTemplateRepoStub, snapshots *snapshotLoaderStub) *WeeklyTemplateService {
	instructors := &instructorReaderStub{ids: []string{"instructor-1"}}
	return NewWeeklyTemplateService(repo, instructors, snapshots, nil, nil)
}

func TestWeeklyTemplateServiceCreate(t *testing.T) {
	repo := &weeklyTemplateRepoStub{}
	snapshots := &snapshotLoaderStub{}
	svc := newWeeklyTemplateService(repo, snapshots)

	template, err := svc.Create(context.Background(), WeeklyTemplateRequest{
		InstructorID: "instructor-1",
		DayOfWeek:    1,
		StartTime:    "09:00",
		EndTime:      "10:00",
	})
	require.NoError(t, err)
	assert.True(t, template.IsActive)
	require.Len(t, repo.created, 1)
	assert.Equal(t, []string{"instructor-1"}, snapshots.invalidated)
}

func TestWeeklyTemplateServiceRejectsUnpaddedTimes(t *testing.T) {
	repo := &weeklyTemplateRepoStub{}
	svc := newWeeklyTemplateService(repo, &snapshotLoaderStub{})

	// Stored times compare as strings in overlap queries, so the
	// service must not let "9:00" through.
	_, err := svc.Create(context.Background(), WeeklyTemplateRequest{
		InstructorID: "instructor-1",
		DayOfWeek:    1,
		StartTime:    "9:00",
		EndTime:      "10:00",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrFormat.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.created)
}

func TestWeeklyTemplateServiceRejectsReversedWindow(t *testing.T) {
	repo := &weeklyTemplateRepoStub{}
	svc := newWeeklyTemplateService(repo, &snapshotLoaderStub{})

	_, err := svc.Create(context.Background(), WeeklyTemplateRequest{
		InstructorID: "instructor-1",
		DayOfWeek:    1,
		StartTime:    "10:00",
		EndTime:      "09:00",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
