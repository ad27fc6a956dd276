package designs

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"path/filepath"
	"sync"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"

	"github.com/bryanwahyu/design-critique/internal/application"
	domai "github.com/bryanwahyu/design-critique/internal/domain/ai"
	domain "github.com/bryanwahyu/design-critique/internal/domain/designs"
	"github.com/bryanwahyu/design-critique/internal/domain/feedback"
)

// defaultDimensions is used when the uploaded bytes cannot be decoded as an
// image the standard decoders know about.
var defaultDimensions = feedback.Dimensions{Width: 800, Height: 600}

// Service implements use-cases for Design uploads and their analysis
// lifecycle. Safe for concurrent use; analysis runs are single-flight per
// design.
type Service struct {
	Repo   domain.Repository
	Images domain.ImageStore
	Critic domai.Critic
	Clock  application.Clock

	mu       sync.Mutex
	inFlight map[domain.DesignID]struct{}
}

// UploadCommand carries one multipart upload into the service.
type UploadCommand struct {
	ProjectID    string
	OriginalName string
	MimeType     string
	UploadedBy   string
	Body         io.Reader
	AutoAnalyze  bool
}

// Upload stores the image, probes its pixel dimensions and creates the
// design record in pending state. When AutoAnalyze is set the record is
// advanced to processing and a background run is dispatched; the call
// returns as soon as that transition is persisted.
func (s *Service) Upload(ctx context.Context, cmd UploadCommand) (*domain.Design, error) {
	data, err := io.ReadAll(cmd.Body)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image upload")
	}

	now := s.Clock.Now()
	id := domain.DesignID(uuid.New().String())
	filename := fmt.Sprintf("%s%s", uuid.New().String(), filepath.Ext(cmd.OriginalName))
	key := fmt.Sprintf("%s/%s", cmd.ProjectID, filename)

	if _, err := s.Images.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), cmd.MimeType); err != nil {
		return nil, fmt.Errorf("storing image: %w", err)
	}

	dims := probeDimensions(data)

	d := domain.New(id, cmd.ProjectID, filename, cmd.OriginalName, key,
		int64(len(data)), cmd.MimeType, dims, cmd.UploadedBy, now)

	if err := s.Repo.Save(ctx, d); err != nil {
		return nil, err
	}

	if cmd.AutoAnalyze {
		if err := s.start(ctx, d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Retry re-runs the full analysis pipeline for an existing design. It is
// rejected while a run is already in flight; a successful run overwrites
// the prior snapshot wholesale.
func (s *Service) Retry(ctx context.Context, id domain.DesignID) error {
	d, err := s.Repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if d == nil {
		return domain.ErrNotFound
	}
	if d.Analysis.Status == domain.StatusProcessing {
		return domain.ErrAnalysisInFlight
	}
	return s.start(ctx, d)
}

// Get ambil 1 design by id
func (s *Service) Get(ctx context.Context, id domain.DesignID) (*domain.Design, error) {
	d, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

// ListByProject lists a project's designs, newest first.
func (s *Service) ListByProject(ctx context.Context, projectID string, limit int) ([]*domain.Design, error) {
	return s.Repo.ListByProject(ctx, projectID, limit)
}

// start flips the design to processing, persists that transition, and
// dispatches the background run. The processing row is visible to readers
// before the external call is made; the call can take tens of seconds.
func (s *Service) start(ctx context.Context, d *domain.Design) error {
	if !s.acquire(d.ID) {
		return domain.ErrAnalysisInFlight
	}

	d.Analysis.Begin(s.Clock.Now())
	if err := s.Repo.UpdateAnalysis(ctx, d.ID, d.Analysis); err != nil {
		s.release(d.ID)
		return err
	}

	snapshot := *d
	go s.run(&snapshot)
	return nil
}

// run executes one analysis end to end with its own context so it survives
// the triggering request. Only capability failures mark the design failed;
// unparseable output is absorbed by the parser's fallback and still
// completes.
func (s *Service) run(d *domain.Design) {
	defer s.release(d.ID)
	ctx := context.Background()

	data, err := s.Images.Read(ctx, d.FilePath)
	if err != nil {
		s.fail(ctx, d, fmt.Errorf("reading image: %w", err))
		return
	}

	raw, err := s.Critic.Critique(ctx, domai.CritiqueRequest{
		Image:    data,
		MimeType: d.MimeType,
		Width:    d.Dimensions.Width,
		Height:   d.Dimensions.Height,
	})
	if err != nil {
		s.fail(ctx, d, err)
		return
	}

	result := feedback.ParseResponse(raw, d.Dimensions)
	d.Analysis.Complete(s.Clock.Now(), &result)
	if err := s.Repo.UpdateAnalysis(ctx, d.ID, d.Analysis); err != nil {
		log.Printf("persist analysis result failed: design=%s err=%v", d.ID, err)
	}
}

func (s *Service) fail(ctx context.Context, d *domain.Design, cause error) {
	log.Printf("analysis failed: design=%s err=%v", d.ID, cause)
	d.Analysis.Fail(cause.Error())
	if err := s.Repo.UpdateAnalysis(ctx, d.ID, d.Analysis); err != nil {
		log.Printf("persist analysis failure failed: design=%s err=%v", d.ID, err)
	}
}

func (s *Service) acquire(id domain.DesignID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight == nil {
		s.inFlight = make(map[domain.DesignID]struct{})
	}
	if _, busy := s.inFlight[id]; busy {
		return false
	}
	s.inFlight[id] = struct{}{}
	return true
}

func (s *Service) release(id domain.DesignID) {
	s.mu.Lock()
	delete(s.inFlight, id)
	s.mu.Unlock()
}

// probeDimensions decodes just the image header. Undecodable input falls
// back to 800x600 so downstream clamping always has a positive-area box.
func probeDimensions(data []byte) feedback.Dimensions {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return defaultDimensions
	}
	return feedback.Dimensions{Width: cfg.Width, Height: cfg.Height}
}
