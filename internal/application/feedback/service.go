package feedback

import (
	"context"

	domain "github.com/bryanwahyu/design-critique/internal/domain/designs"
	fb "github.com/bryanwahyu/design-critique/internal/domain/feedback"
)

// Service serves filtered views over a design's completed analysis.
type Service struct {
	Repo domain.Repository
}

func NewService(repo domain.Repository) *Service {
	return &Service{Repo: repo}
}

// View is the feedback payload returned to clients and the JSON export.
type View struct {
	DesignID      domain.DesignID     `json:"design_id"`
	Filename      string              `json:"filename"`
	OriginalName  string              `json:"original_name"`
	Dimensions    fb.Dimensions       `json:"dimensions"`
	FeedbackItems []fb.Finding        `json:"feedbackItems"`
	Status        domain.Status       `json:"analysisStatus"`
	OverallScore  *int                `json:"overallScore,omitempty"`
	Summary       string              `json:"summary,omitempty"`
}

// GetFeedback returns the design's findings narrowed by the filter. A
// design whose analysis has not completed yields an empty list with the
// current status, not an error.
func (s *Service) GetFeedback(ctx context.Context, id domain.DesignID, filter fb.Filter) (*View, error) {
	d, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}

	v := &View{
		DesignID:      d.ID,
		Filename:      d.Filename,
		OriginalName:  d.OriginalName,
		Dimensions:    d.Dimensions,
		FeedbackItems: filter.Apply(d.Analysis.Data),
		Status:        d.Analysis.Status,
	}
	if d.Analysis.Data != nil {
		score := d.Analysis.Data.OverallScore
		v.OverallScore = &score
		v.Summary = d.Analysis.Data.Summary
	}
	return v, nil
}

// GetStats returns zero-filled aggregate counts for the design's findings.
func (s *Service) GetStats(ctx context.Context, id domain.DesignID) (fb.Stats, error) {
	d, err := s.Repo.Get(ctx, id)
	if err != nil {
		return fb.Stats{}, err
	}
	if d == nil {
		return fb.Stats{}, domain.ErrNotFound
	}
	return fb.CountStats(d.Analysis.Data), nil
}
