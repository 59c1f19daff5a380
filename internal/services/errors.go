package services

import "errors"

var (
	// ErrSessionNotFound is returned for unknown session identifiers.
	ErrSessionNotFound = errors.New("session not found")
	// ErrAnalysisNotReady is returned when course generation is requested
	// before a session's analysis has completed.
	ErrAnalysisNotReady = errors.New("analysis not completed yet")
	// ErrNoContent is returned when there is nothing to synthesize from.
	ErrNoContent = errors.New("no content available for course generation")
)
