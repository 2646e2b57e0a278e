package assistant

import "errors"

var (
	// ErrNotConfigured means no API key was provided; the feature is off.
	ErrNotConfigured = errors.New("assistant not configured")

	// ErrBusy means another question is already in flight.
	ErrBusy = errors.New("assistant busy")

	// ErrCallFailed wraps upstream completion failures.
	ErrCallFailed = errors.New("assistant call failed")
)
