package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/studiopulse/booking-admin-api/internal/models"
	appErrors "github.com/studiopulse/booking-admin-api/pkg/errors"
	"github.com/studiopulse/booking-admin-api/pkg/export"
	"github.com/studiopulse/booking-admin-api/pkg/jobs"
	"github.com/studiopulse/booking-admin-api/pkg/storage"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
	Workers   int
	Retries   int
}

// ExportService generates instructor schedule exports asynchronously.
// Jobs are tracked in an in-memory store with a TTL; the rendered file
// lands in local storage and is downloaded through an HMAC signed URL.
type ExportService struct {
	assignments assignmentRepository
	instructors instructorReader
	storage     fileStorage
	csv         csvRenderer
	pdf         pdfRenderer
	signer      *storage.SignedURLSigner
	queue       *jobs.Queue
	metrics     *MetricsService
	logger      *zap.Logger
	cfg         ExportConfig

	mu       sync.RWMutex
	jobsByID map[string]*models.ExportJob
}

// NewExportService constructs an ExportService. Start must be called
// before Request.
func NewExportService(assignments assignmentRepository, instructors instructorReader, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, metrics *MetricsService, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	s := &ExportService{
		assignments: assignments,
		instructors: instructors,
		storage:     store,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		signer:      signer,
		metrics:     metrics,
		logger:      logger,
		cfg:         cfg,
		jobsByID:    make(map[string]*models.ExportJob),
	}
	s.queue = jobs.NewQueue("schedule-exports", s.process, jobs.Options{
		Workers:     cfg.Workers,
		MaxAttempts: cfg.Retries,
		Logger:      logger,
	})
	return s
}

// Start launches the export workers.
func (s *ExportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the export workers.
func (s *ExportService) Stop() {
	s.queue.Stop()
}

// Request queues a schedule export for one instructor over a date
// window and returns the pending job for polling.
func (s *ExportService) Request(ctx context.Context, instructorID, format string, from, to time.Time, requestedBy string) (*models.ExportJob, error) {
	if format != models.ExportFormatCSV && format != models.ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	if to.Before(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date_to must not precede date_from")
	}
	if _, err := s.instructors.FindByID(ctx, instructorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor")
	}

	job := &models.ExportJob{
		ID:           uuid.NewString(),
		InstructorID: instructorID,
		Format:       format,
		DateFrom:     from,
		DateTo:       to,
		Status:       models.ExportJobStatusPending,
		RequestedBy:  requestedBy,
		RequestedAt:  time.Now().UTC(),
	}
	s.mu.Lock()
	s.jobsByID[job.ID] = job
	s.pruneLocked(time.Now().UTC())
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Task{ID: job.ID, Kind: "schedule-export", Payload: job.ID}); err != nil {
		s.mu.Lock()
		delete(s.jobsByID, job.ID)
		s.mu.Unlock()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "export queue unavailable")
	}
	return s.jobSnapshot(job.ID), nil
}

// Job returns the current state of one export job.
func (s *ExportService) Job(id string) (*models.ExportJob, error) {
	job := s.jobSnapshot(id)
	if job == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	return job, nil
}

// ParseToken validates a download token.
func (s *ExportService) ParseToken(token string) (jobID, relPath string, err error) {
	jobID, relPath, _, err = s.signer.Parse(token, false)
	if err != nil {
		return "", "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download token")
	}
	return jobID, relPath, nil
}

// Open opens a stored export file for streaming.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Cleanup removes stored exports older than the result TTL.
func (s *ExportService) Cleanup() ([]string, error) {
	return s.storage.CleanupOlderThan(s.cfg.ResultTTL)
}

func (s *ExportService) process(ctx context.Context, task jobs.Task) error {
	id, _ := task.Payload.(string)
	job := s.jobSnapshot(id)
	if job == nil {
		return fmt.Errorf("export job %s vanished", id)
	}
	s.setStatus(id, models.ExportJobStatusProcessing, nil)

	instructor, err := s.instructors.FindByID(ctx, job.InstructorID)
	if err != nil {
		return s.fail(id, fmt.Errorf("load instructor: %w", err))
	}

	assignments, _, err := s.assignments.List(ctx, models.AssignmentFilter{
		InstructorID: job.InstructorID,
		DateFrom:     job.DateFrom,
		DateTo:       job.DateTo,
		PageSize:     100,
		SortBy:       "date",
	})
	if err != nil {
		return s.fail(id, fmt.Errorf("load assignments: %w", err))
	}

	dataset := buildScheduleDataset(instructor, assignments, job.DateFrom, job.DateTo)
	title := fmt.Sprintf("Schedule %s (%s to %s)", instructor.FullName,
		job.DateFrom.Format("2006-01-02"), job.DateTo.Format("2006-01-02"))

	var payload []byte
	switch job.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Format)
	}
	if err != nil {
		return s.fail(id, fmt.Errorf("render export: %w", err))
	}

	filename := fmt.Sprintf("schedule_%s_%s.%s", sanitizeFilename(instructor.FullName),
		time.Now().UTC().Format("20060102T150405"), job.Format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return s.fail(id, fmt.Errorf("store export: %w", err))
	}

	token, _, err := s.signer.Generate(id, relPath)
	if err != nil {
		return s.fail(id, fmt.Errorf("sign download url: %w", err))
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	now := time.Now().UTC()
	s.mu.Lock()
	if stored, ok := s.jobsByID[id]; ok {
		stored.Status = models.ExportJobStatusCompleted
		stored.FileName = filename
		stored.DownloadURL = fmt.Sprintf("%s/exports/download/%s", prefix, token)
		stored.Error = ""
		stored.CompletedAt = &now
	}
	s.mu.Unlock()
	s.metrics.RecordExportJob(models.ExportJobStatusCompleted)
	s.logger.Info("schedule export completed",
		zap.String("job_id", id),
		zap.String("instructor_id", job.InstructorID),
		zap.String("format", job.Format))
	return nil
}

func (s *ExportService) fail(id string, err error) error {
	s.setStatus(id, models.ExportJobStatusFailed, err)
	return err
}

func (s *ExportService) setStatus(id, status string, cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobsByID[id]
	if !ok {
		return
	}
	job.Status = status
	if status == models.ExportJobStatusProcessing {
		job.Error = ""
		job.CompletedAt = nil
	}
	if cause != nil {
		job.Error = cause.Error()
	}
	if status == models.ExportJobStatusFailed {
		now := time.Now().UTC()
		job.CompletedAt = &now
		s.metrics.RecordExportJob(status)
	}
}

func (s *ExportService) jobSnapshot(id string) *models.ExportJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobsByID[id]
	if !ok {
		return nil
	}
	copied := *job
	return &copied
}

// pruneLocked drops finished jobs past the result TTL. Caller holds mu.
func (s *ExportService) pruneLocked(now time.Time) {
	for id, job := range s.jobsByID {
		if job.CompletedAt != nil && now.Sub(*job.CompletedAt) > s.cfg.ResultTTL {
			delete(s.jobsByID, id)
		}
	}
}

func buildScheduleDataset(instructor *models.Instructor, assignments []models.Assignment, from, to time.Time) export.Dataset {
	rows := make([][]string, 0, len(assignments))
	for _, a := range assignments {
		classRef := ""
		if a.ClassTypeID != nil {
			classRef = *a.ClassTypeID
		} else if a.PackageID != nil {
			classRef = *a.PackageID
		}
		rows = append(rows, []string{
			a.Date.Format("2006-01-02"),
			a.StartTime,
			a.EndTime,
			a.ScheduleType,
			classRef,
			a.Status,
			fmt.Sprintf("%.2f", a.PaymentAmount),
			a.Notes,
		})
	}
	return export.Dataset{
		Headers: []string{"Date", "Start", "End", "Type", "Class", "Status", "Payment", "Notes"},
		Rows:    rows,
		Summary: []export.SummaryLine{
			{Label: "Instructor", Value: instructor.FullName},
			{Label: "Window", Value: fmt.Sprintf("%s to %s", from.Format("2006-01-02"), to.Format("2006-01-02"))},
			{Label: "Classes", Value: fmt.Sprintf("%d", len(assignments))},
		},
	}
}

func sanitizeFilename(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		case r == ' ':
			return '_'
		default:
			return -1
		}
	}, raw)
	if cleaned == "" {
		return "export"
	}
	return strings.ToLower(cleaned)
}
