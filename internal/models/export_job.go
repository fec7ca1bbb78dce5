package models

import "time"

// Export job statuses.
const (
	ExportJobStatusPending    = "PENDING"
	ExportJobStatusProcessing = "PROCESSING"
	ExportJobStatusCompleted  = "COMPLETED"
	ExportJobStatusFailed     = "FAILED"
)

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// ExportJob tracks an asynchronous instructor-schedule export.
type ExportJob struct {
	ID           string     `json:"id"`
	InstructorID string     `json:"instructor_id"`
	Format       string     `json:"format"`
	DateFrom     time.Time  `json:"date_from"`
	DateTo       time.Time  `json:"date_to"`
	Status       string     `json:"status"`
	FileName     string     `json:"file_name,omitempty"`
	DownloadURL  string     `json:"download_url,omitempty"`
	Error        string     `json:"error,omitempty"`
	RequestedBy  string     `json:"requested_by"`
	RequestedAt  time.Time  `json:"requested_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}
