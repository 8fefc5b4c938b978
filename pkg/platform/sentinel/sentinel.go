package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and adapters return these
// (optionally wrapped) so the application service can translate them into
// domain errors.
//
//   - ErrNotFound: no application session under that id
//   - ErrConflict: a concurrent writer saved a newer version first
//   - ErrInvalidState: stored payload could not be decoded
//   - ErrUnavailable: backing store or external endpoint is unreachable
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
