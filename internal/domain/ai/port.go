package ai

import "context"

// CritiqueRequest carries one image to the external critique capability.
type CritiqueRequest struct {
	Image    []byte
	MimeType string
	Width    int
	Height   int
}

// Critic is the opaque external capability that inspects a design image and
// returns an unstructured critique text. Any error it returns is a
// capability failure, never a parse failure.
type Critic interface {
	Critique(ctx context.Context, req CritiqueRequest) (string, error)
}
