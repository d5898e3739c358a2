package usecase

import "time"

const (
	// DefaultPublishTimeout bounds delivery of a single event so a stalled
	// broker cannot wedge the processing loop.
	DefaultPublishTimeout = 5 * time.Second
)
