package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domain "github.com/bryanwahyu/design-critique/internal/domain/designs"
	"github.com/bryanwahyu/design-critique/internal/domain/feedback"
)

type DesignRepository struct{ db *sql.DB }

func NewDesignRepository(db *sql.DB) *DesignRepository { return &DesignRepository{db: db} }

const designColumns = `id, project_id, filename, original_name, file_path, file_size, mime_type,
       width, height, uploaded_by,
       analysis_status, analysis_started_at, analysis_completed_at, analysis_error, analysis_data,
       created_at, updated_at`

// Save insert/update Design record
func (r *DesignRepository) Save(ctx context.Context, d *domain.Design) error {
	const q = `
INSERT INTO designs
(id, project_id, filename, original_name, file_path, file_size, mime_type,
 width, height, uploaded_by,
 analysis_status, analysis_started_at, analysis_completed_at, analysis_error, analysis_data,
 created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
ON CONFLICT (id) DO UPDATE SET
 analysis_status = EXCLUDED.analysis_status,
 analysis_started_at = EXCLUDED.analysis_started_at,
 analysis_completed_at = EXCLUDED.analysis_completed_at,
 analysis_error = EXCLUDED.analysis_error,
 analysis_data = EXCLUDED.analysis_data,
 updated_at = EXCLUDED.updated_at;`

	status := string(d.Analysis.Status)
	if status == "" {
		status = string(domain.StatusPending)
	}
	created := d.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	data, err := marshalAnalysisData(d.Analysis.Data)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, q,
		d.ID, d.ProjectID, d.Filename, d.OriginalName, d.FilePath, d.FileSize, d.MimeType,
		d.Dimensions.Width, d.Dimensions.Height, d.UploadedBy,
		status, nullTime(d.Analysis.StartedAt), nullTime(d.Analysis.CompletedAt),
		nullString(d.Analysis.Error), data,
		created, d.UpdatedAt,
	)
	return err
}

// Get by ID
func (r *DesignRepository) Get(ctx context.Context, id domain.DesignID) (*domain.Design, error) {
	q := fmt.Sprintf(`SELECT %s FROM designs WHERE id=$1 LIMIT 1;`, designColumns)
	d, err := scanDesign(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return d, err
}

// ListByProject returns a project's designs, newest first.
func (r *DesignRepository) ListByProject(ctx context.Context, projectID string, limit int) ([]*domain.Design, error) {
	if limit <= 0 {
		limit = 20
	}
	q := fmt.Sprintf(`SELECT %s FROM designs WHERE project_id=$1 ORDER BY created_at DESC LIMIT $2;`, designColumns)
	rows, err := r.db.QueryContext(ctx, q, projectID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Design
	for rows.Next() {
		d, err := scanDesign(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// UpdateAnalysis writes all lifecycle columns in one statement.
func (r *DesignRepository) UpdateAnalysis(ctx context.Context, id domain.DesignID, a domain.Analysis) error {
	const q = `
UPDATE designs
SET analysis_status = $1,
    analysis_started_at = $2,
    analysis_completed_at = $3,
    analysis_error = $4,
    analysis_data = $5,
    updated_at = $6
WHERE id = $7;`
	data, err := marshalAnalysisData(a.Data)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q,
		string(a.Status), nullTime(a.StartedAt), nullTime(a.CompletedAt),
		nullString(a.Error), data, time.Now(),
		id,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDesign(row rowScanner) (*domain.Design, error) {
	var d domain.Design
	var status string
	var startedAt, completedAt sql.NullTime
	var analysisErr, analysisData sql.NullString

	if err := row.Scan(
		&d.ID, &d.ProjectID, &d.Filename, &d.OriginalName, &d.FilePath, &d.FileSize, &d.MimeType,
		&d.Dimensions.Width, &d.Dimensions.Height, &d.UploadedBy,
		&status, &startedAt, &completedAt, &analysisErr, &analysisData,
		&d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		return nil, err
	}

	d.Analysis.Status = domain.Status(status)
	if startedAt.Valid {
		t := startedAt.Time
		d.Analysis.StartedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		d.Analysis.CompletedAt = &t
	}
	if analysisErr.Valid {
		d.Analysis.Error = analysisErr.String
	}
	if analysisData.Valid && analysisData.String != "" {
		var res feedback.Result
		if err := json.Unmarshal([]byte(analysisData.String), &res); err != nil {
			return nil, fmt.Errorf("decoding analysis_data for %s: %w", d.ID, err)
		}
		d.Analysis.Data = &res
	}
	return &d, nil
}

func marshalAnalysisData(res *feedback.Result) (any, error) {
	if res == nil {
		return nil, nil
	}
	b, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("encoding analysis_data: %w", err)
	}
	return string(b), nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
