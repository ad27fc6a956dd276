package designs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domai "github.com/bryanwahyu/design-critique/internal/domain/ai"
	domain "github.com/bryanwahyu/design-critique/internal/domain/designs"
	"github.com/bryanwahyu/design-critique/internal/domain/feedback"
)

// ---- fakes ----

type fakeRepo struct {
	mu      sync.Mutex
	designs map[domain.DesignID]*domain.Design
	history []domain.Analysis
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{designs: make(map[domain.DesignID]*domain.Design)}
}

func (r *fakeRepo) Save(ctx context.Context, d *domain.Design) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *d
	r.designs[d.ID] = &cp
	return nil
}

func (r *fakeRepo) Get(ctx context.Context, id domain.DesignID) (*domain.Design, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.designs[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *fakeRepo) ListByProject(ctx context.Context, projectID string, limit int) ([]*domain.Design, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Design
	for _, d := range r.designs {
		if d.ProjectID == projectID {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateAnalysis(ctx context.Context, id domain.DesignID, a domain.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.designs[id]
	if !ok {
		return fmt.Errorf("design %s not persisted", id)
	}
	d.Analysis = a
	r.history = append(r.history, a)
	return nil
}

func (r *fakeRepo) snapshot(id domain.DesignID) domain.Analysis {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.designs[id].Analysis
}

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	readErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (s *fakeStore) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()
	return "http://store.local/" + key, nil
}

func (s *fakeStore) Read(ctx context.Context, key string) ([]byte, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("object not found: %s", key)
	}
	return data, nil
}

type fakeCritic struct {
	mu       sync.Mutex
	response string
	err      error
	gate     chan struct{} // when non-nil, Critique blocks until closed
	calls    int
}

func (c *fakeCritic) Critique(ctx context.Context, req domai.CritiqueRequest) (string, error) {
	c.mu.Lock()
	c.calls++
	gate, resp, err := c.gate, c.response, c.err
	c.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if err != nil {
		return "", err
	}
	return resp, nil
}

func (c *fakeCritic) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newService(repo *fakeRepo, store *fakeStore, critic *fakeCritic) *Service {
	return &Service{
		Repo:   repo,
		Images: store,
		Critic: critic,
		Clock:  fixedClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
	}
}

func seedDesign(repo *fakeRepo, store *fakeStore, id domain.DesignID) *domain.Design {
	d := domain.New(id, "proj-1", "abc.png", "homepage.png", "proj-1/abc.png",
		4, "image/png", feedback.Dimensions{Width: 800, Height: 600}, "alice",
		time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC))
	repo.designs[id] = d
	store.objects[d.FilePath] = []byte("blob")
	return d
}

func waitForStatus(t *testing.T, repo *fakeRepo, id domain.DesignID, want domain.Status) {
	t.Helper()
	require.Eventually(t, func() bool {
		return repo.snapshot(id).Status == want
	}, 2*time.Second, 10*time.Millisecond)
}

const validResponse = `{"feedbackItems":[{"title":"Offscreen issue","coordinates":{"x":900,"y":700,"width":5,"height":5}}],"overallScore":88,"summary":"fine"}`

// ---- tests ----

func TestUpload_CreatesPendingDesign(t *testing.T) {
	repo, store, critic := newFakeRepo(), newFakeStore(), &fakeCritic{response: validResponse}
	svc := newService(repo, store, critic)

	d, err := svc.Upload(context.Background(), UploadCommand{
		ProjectID:    "proj-1",
		OriginalName: "homepage.png",
		MimeType:     "image/png",
		UploadedBy:   "alice",
		Body:         bytes.NewReader([]byte("not really an image")),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, d.Analysis.Status)
	// undecodable bytes fall back to the default canvas
	assert.Equal(t, feedback.Dimensions{Width: 800, Height: 600}, d.Dimensions)
	assert.Equal(t, int64(19), d.FileSize)
	assert.Equal(t, "alice", d.UploadedBy)

	stored, err := store.Read(context.Background(), d.FilePath)
	require.NoError(t, err)
	assert.Equal(t, []byte("not really an image"), stored)
	assert.Zero(t, critic.callCount())
}

func TestUpload_ProbesPNGDimensions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 320, 200))))

	svc := newService(newFakeRepo(), newFakeStore(), &fakeCritic{})
	d, err := svc.Upload(context.Background(), UploadCommand{
		ProjectID:    "proj-1",
		OriginalName: "tiny.png",
		MimeType:     "image/png",
		Body:         &buf,
	})
	require.NoError(t, err)

	assert.Equal(t, feedback.Dimensions{Width: 320, Height: 200}, d.Dimensions)
}

func TestUpload_EmptyBodyRejected(t *testing.T) {
	svc := newService(newFakeRepo(), newFakeStore(), &fakeCritic{})

	_, err := svc.Upload(context.Background(), UploadCommand{
		ProjectID: "proj-1",
		Body:      bytes.NewReader(nil),
	})
	assert.Error(t, err)
}

func TestUpload_AutoAnalyze_ProcessingPersistedBeforeCompletion(t *testing.T) {
	repo, store := newFakeRepo(), newFakeStore()
	critic := &fakeCritic{response: validResponse, gate: make(chan struct{})}
	svc := newService(repo, store, critic)

	d, err := svc.Upload(context.Background(), UploadCommand{
		ProjectID:    "proj-1",
		OriginalName: "homepage.png",
		MimeType:     "image/png",
		Body:         bytes.NewReader([]byte("raw bytes")),
		AutoAnalyze:  true,
	})
	require.NoError(t, err)

	// the processing transition is visible while the external call hangs
	snap := repo.snapshot(d.ID)
	assert.Equal(t, domain.StatusProcessing, snap.Status)
	require.NotNil(t, snap.StartedAt)
	assert.Nil(t, snap.Data)

	close(critic.gate)
	waitForStatus(t, repo, d.ID, domain.StatusCompleted)

	snap = repo.snapshot(d.ID)
	require.NotNil(t, snap.Data)
	assert.Equal(t, 88, snap.Data.OverallScore)
	require.Len(t, snap.Data.FeedbackItems, 1)
	// out-of-bounds coordinates from the capability arrive clamped
	assert.Equal(t, feedback.Coordinates{X: 799, Y: 599, Width: 10, Height: 10},
		snap.Data.FeedbackItems[0].Coordinates)
	require.NotNil(t, snap.CompletedAt)
	assert.Empty(t, snap.Error)
}

func TestAnalysis_UnparseableOutputStillCompletes(t *testing.T) {
	repo, store := newFakeRepo(), newFakeStore()
	critic := &fakeCritic{response: "I could not analyze this image."}
	svc := newService(repo, store, critic)
	d := seedDesign(repo, store, "d-1")

	require.NoError(t, svc.Retry(context.Background(), d.ID))
	waitForStatus(t, repo, d.ID, domain.StatusCompleted)

	snap := repo.snapshot(d.ID)
	require.NotNil(t, snap.Data)
	assert.Equal(t, 50, snap.Data.OverallScore)
	require.Len(t, snap.Data.FeedbackItems, 1)
	assert.Equal(t, "Analysis Incomplete", snap.Data.FeedbackItems[0].Title)
	assert.Empty(t, snap.Error)
}

func TestAnalysis_CapabilityFailureSetsFailedAndKeepsData(t *testing.T) {
	repo, store := newFakeRepo(), newFakeStore()
	critic := &fakeCritic{err: errors.New("request timed out")}
	svc := newService(repo, store, critic)

	d := seedDesign(repo, store, "d-1")
	prior := &feedback.Result{OverallScore: 85, Summary: "previous run"}
	d.Analysis.Begin(time.Now())
	d.Analysis.Complete(time.Now(), prior)

	require.NoError(t, svc.Retry(context.Background(), d.ID))
	waitForStatus(t, repo, d.ID, domain.StatusFailed)

	snap := repo.snapshot(d.ID)
	assert.Contains(t, snap.Error, "timed out")
	// stale-until-successful-retry policy: the old snapshot survives
	require.NotNil(t, snap.Data)
	assert.Equal(t, 85, snap.Data.OverallScore)
}

func TestAnalysis_StorageReadFailureSetsFailed(t *testing.T) {
	repo, store := newFakeRepo(), newFakeStore()
	store.readErr = errors.New("bucket unreachable")
	svc := newService(repo, store, &fakeCritic{response: validResponse})
	d := seedDesign(repo, store, "d-1")

	require.NoError(t, svc.Retry(context.Background(), d.ID))
	waitForStatus(t, repo, d.ID, domain.StatusFailed)
	assert.Contains(t, repo.snapshot(d.ID).Error, "bucket unreachable")
}

func TestRetry_NotFound(t *testing.T) {
	svc := newService(newFakeRepo(), newFakeStore(), &fakeCritic{})

	err := svc.Retry(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRetry_WhileProcessingRejected(t *testing.T) {
	repo, store := newFakeRepo(), newFakeStore()
	critic := &fakeCritic{response: validResponse, gate: make(chan struct{})}
	svc := newService(repo, store, critic)
	d := seedDesign(repo, store, "d-1")

	require.NoError(t, svc.Retry(context.Background(), d.ID))
	err := svc.Retry(context.Background(), d.ID)
	assert.ErrorIs(t, err, domain.ErrAnalysisInFlight)

	close(critic.gate)
	waitForStatus(t, repo, d.ID, domain.StatusCompleted)
	assert.Equal(t, 1, critic.callCount())
}

func TestRetry_ConcurrentTriggersSingleFlight(t *testing.T) {
	repo, store := newFakeRepo(), newFakeStore()
	critic := &fakeCritic{response: validResponse, gate: make(chan struct{})}
	svc := newService(repo, store, critic)
	d := seedDesign(repo, store, "d-1")

	const n = 8
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- svc.Retry(context.Background(), d.ID)
		}()
	}
	wg.Wait()
	close(errs)

	var ok, rejected int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrAnalysisInFlight):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, rejected)

	close(critic.gate)
	waitForStatus(t, repo, d.ID, domain.StatusCompleted)
	assert.Equal(t, 1, critic.callCount())
}

// Every snapshot handed to the repository must be self-consistent; readers
// only ever see whole transitions, never a completed status without data.
func TestPersistedSnapshotsSelfConsistent(t *testing.T) {
	repo, store := newFakeRepo(), newFakeStore()
	critic := &fakeCritic{response: validResponse}
	svc := newService(repo, store, critic)
	d := seedDesign(repo, store, "d-1")

	require.NoError(t, svc.Retry(context.Background(), d.ID))
	waitForStatus(t, repo, d.ID, domain.StatusCompleted)

	critic.mu.Lock()
	critic.err = errors.New("quota exceeded")
	critic.mu.Unlock()
	require.NoError(t, svc.Retry(context.Background(), d.ID))
	waitForStatus(t, repo, d.ID, domain.StatusFailed)

	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, a := range repo.history {
		switch a.Status {
		case domain.StatusProcessing:
			assert.NotNil(t, a.StartedAt)
			assert.Nil(t, a.CompletedAt)
			assert.Empty(t, a.Error)
		case domain.StatusCompleted:
			assert.NotNil(t, a.Data)
			assert.NotNil(t, a.CompletedAt)
			assert.Empty(t, a.Error)
		case domain.StatusFailed:
			assert.NotEmpty(t, a.Error)
		default:
			t.Fatalf("unexpected persisted status %q", a.Status)
		}
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := newService(newFakeRepo(), newFakeStore(), &fakeCritic{})

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProbeDimensions_FallbackOnGarbage(t *testing.T) {
	assert.Equal(t, defaultDimensions, probeDimensions([]byte("garbage")))
	assert.Equal(t, defaultDimensions, probeDimensions(nil))
}
