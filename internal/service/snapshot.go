package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/studiopulse/booking-admin-api/internal/models"
	"github.com/studiopulse/booking-admin-api/internal/scheduling"
)

type assignmentWindowReader interface {
	ListByInstructorBetween(ctx context.Context, instructorID string, from, to time.Time) ([]models.Assignment, error)
}

type activeTemplateReader interface {
	ListActiveByInstructor(ctx context.Context, instructorID string) ([]models.WeeklyTemplate, error)
}

// SnapshotLoader builds the commitment view the conflict detector
// runs against: an instructor's non-cancelled assignments inside a
// date window plus their active weekly templates. Reads go through a
// short-TTL redis cache; any write for the instructor invalidates it.
type SnapshotLoader struct {
	assignments assignmentWindowReader
	templates   activeTemplateReader
	cache       *redis.Client
	ttl         time.Duration
	metrics     *MetricsService
	logger      *zap.Logger
}

// NewSnapshotLoader creates a loader. cache and metrics may be nil, in
// which case every load hits the database and nothing is recorded.
func NewSnapshotLoader(assignments assignmentWindowReader, templates activeTemplateReader, cache *redis.Client, ttl time.Duration, metrics *MetricsService, logger *zap.Logger) *SnapshotLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &SnapshotLoader{
		assignments: assignments,
		templates:   templates,
		cache:       cache,
		ttl:         ttl,
		metrics:     metrics,
		logger:      logger,
	}
}

type cachedSnapshot struct {
	Assignments []models.Assignment     `json:"assignments"`
	Templates   []models.WeeklyTemplate `json:"templates"`
}

func snapshotCacheKey(instructorID string, from, to time.Time) string {
	return fmt.Sprintf("snapshot:%s:%s:%s", instructorID, from.Format("2006-01-02"), to.Format("2006-01-02"))
}

// Load returns the commitment snapshot for one instructor over the
// given window. The snapshot is read once per engine pass and never
// refreshed mid-generation.
func (l *SnapshotLoader) Load(ctx context.Context, instructorID string, from, to time.Time) (scheduling.Snapshot, error) {
	key := snapshotCacheKey(instructorID, from, to)
	if l.cache != nil {
		if raw, err := l.cache.Get(ctx, key).Bytes(); err == nil {
			var cached cachedSnapshot
			if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
				l.metrics.RecordCacheLookup(true)
				return toSnapshot(cached.Assignments, cached.Templates), nil
			}
			l.logger.Warn("discarding unreadable cached snapshot", zap.String("key", key))
		}
		l.metrics.RecordCacheLookup(false)
	}

	start := time.Now()
	assignments, err := l.assignments.ListByInstructorBetween(ctx, instructorID, from, to)
	if err != nil {
		return scheduling.Snapshot{}, fmt.Errorf("load assignments: %w", err)
	}
	l.metrics.ObserveDBQuery("assignments_window", time.Since(start))

	start = time.Now()
	templates, err := l.templates.ListActiveByInstructor(ctx, instructorID)
	if err != nil {
		return scheduling.Snapshot{}, fmt.Errorf("load templates: %w", err)
	}
	l.metrics.ObserveDBQuery("active_templates", time.Since(start))

	if l.cache != nil {
		raw, err := json.Marshal(cachedSnapshot{Assignments: assignments, Templates: templates})
		if err == nil {
			if err := l.cache.Set(ctx, key, raw, l.ttl).Err(); err != nil {
				l.logger.Warn("snapshot cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
	}

	return toSnapshot(assignments, templates), nil
}

// Invalidate drops every cached snapshot for the instructor. Called
// after any write that changes their commitments.
func (l *SnapshotLoader) Invalidate(ctx context.Context, instructorID string) {
	if l.cache == nil {
		return
	}
	pattern := fmt.Sprintf("snapshot:%s:*", instructorID)
	iter := l.cache.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		l.logger.Warn("snapshot cache scan failed", zap.String("instructor_id", instructorID), zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := l.cache.Del(ctx, keys...).Err(); err != nil {
		l.logger.Warn("snapshot cache invalidation failed", zap.String("instructor_id", instructorID), zap.Error(err))
	}
}

func toSnapshot(assignments []models.Assignment, templates []models.WeeklyTemplate) scheduling.Snapshot {
	snap := scheduling.Snapshot{
		Occurrences: make([]scheduling.Occurrence, 0, len(assignments)),
		Templates:   make([]scheduling.TemplateSlot, 0, len(templates)),
	}
	for _, a := range assignments {
		snap.Occurrences = append(snap.Occurrences, scheduling.Occurrence{
			ID:           a.ID,
			InstructorID: a.InstructorID,
			Date:         a.Date,
			StartTime:    a.StartTime,
			EndTime:      a.EndTime,
			ScheduleType: a.ScheduleType,
		})
	}
	for _, t := range templates {
		snap.Templates = append(snap.Templates, scheduling.TemplateSlot{
			TemplateID:   t.ID,
			InstructorID: t.InstructorID,
			DayOfWeek:    time.Weekday(t.DayOfWeek),
			StartTime:    t.StartTime,
			EndTime:      t.EndTime,
			Active:       t.IsActive,
		})
	}
	return snap
}
