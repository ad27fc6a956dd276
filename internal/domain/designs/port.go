package designs

import (
	"context"
	"io"
)

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, d *Design) error
	Get(ctx context.Context, id DesignID) (*Design, error)
	ListByProject(ctx context.Context, projectID string, limit int) ([]*Design, error)

	// UpdateAnalysis persists one lifecycle transition atomically, so a
	// concurrent reader never sees a half-written status/data combination.
	UpdateAnalysis(ctx context.Context, id DesignID, a Analysis) error
}

// ImageStore port (interface untuk penyimpanan gambar)
type ImageStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Read(ctx context.Context, key string) ([]byte, error)
}
