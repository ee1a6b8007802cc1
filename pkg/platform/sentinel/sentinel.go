package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, the artifact store, and
// the configuration gateway client return these (optionally wrapped) so
// services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store / remote service
// - ErrConflict: unique constraint hit (duplicate registration)
// - ErrAlreadyUsed: scan token already consumed
// - ErrUnavailable: broker, storage, or remote service temporarily down
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrAlreadyUsed = errors.New("already used")
	ErrUnavailable = errors.New("unavailable")
)
