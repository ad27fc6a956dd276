package designs

import "errors"

// ErrNotFound indicates the requested design does not exist.
var ErrNotFound = errors.New("design not found")

// ErrAnalysisInFlight indicates an analysis run is already in progress for
// the design; retries are single-flight per design.
var ErrAnalysisInFlight = errors.New("analysis already in progress")
