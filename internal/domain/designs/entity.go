package designs

import (
	"time"

	"github.com/bryanwahyu/design-critique/internal/domain/feedback"
)

// ID tipe untuk Design
type DesignID string

// Status enum for the analysis lifecycle
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Analysis is the lifecycle record for one design's critique run.
// Transitions go pending → processing → completed|failed, with
// failed → processing (and completed → processing) re-entered only via an
// explicit retry. Mutate it through Begin/Complete/Fail so the status,
// timestamps and payload always move together.
type Analysis struct {
	Status      Status           `json:"status"`
	StartedAt   *time.Time       `json:"startedAt,omitempty"`
	CompletedAt *time.Time       `json:"completedAt,omitempty"`
	Error       string           `json:"error,omitempty"`
	Data        *feedback.Result `json:"analysisData,omitempty"`
}

// Begin moves the record into processing. The previous error is cleared;
// previous result data is kept so readers can show the last good run while
// the new one is in flight.
func (a *Analysis) Begin(now time.Time) {
	a.Status = StatusProcessing
	t := now
	a.StartedAt = &t
	a.CompletedAt = nil
	a.Error = ""
}

// Complete records a successful run, replacing the snapshot wholesale.
func (a *Analysis) Complete(now time.Time, result *feedback.Result) {
	a.Status = StatusCompleted
	t := now
	a.CompletedAt = &t
	a.Error = ""
	a.Data = result
}

// Fail records a capability-level failure. Data from a prior successful
// run is deliberately left in place; a failed retry shows stale results
// until a later retry succeeds.
func (a *Analysis) Fail(message string) {
	a.Status = StatusFailed
	a.Error = message
}

// Aggregate root: Design, one uploaded image under analysis.
type Design struct {
	ID           DesignID            `json:"id"`
	ProjectID    string              `json:"project_id"`
	Filename     string              `json:"filename"`
	OriginalName string              `json:"original_name"`
	FilePath     string              `json:"file_path"`
	FileSize     int64               `json:"file_size"`
	MimeType     string              `json:"mime_type"`
	Dimensions   feedback.Dimensions `json:"dimensions"`
	UploadedBy   string              `json:"uploaded_by"`
	Analysis     Analysis            `json:"aiAnalysis"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// New creates a Design in the pending state.
func New(id DesignID, projectID, filename, originalName, filePath string, size int64, mimeType string, dims feedback.Dimensions, uploadedBy string, now time.Time) *Design {
	return &Design{
		ID:           id,
		ProjectID:    projectID,
		Filename:     filename,
		OriginalName: originalName,
		FilePath:     filePath,
		FileSize:     size,
		MimeType:     mimeType,
		Dimensions:   dims,
		UploadedBy:   uploadedBy,
		Analysis:     Analysis{Status: StatusPending},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
