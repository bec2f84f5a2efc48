// README: Session-level errors.
package session

import (
	"errors"

	"tripmap/internal/modules/selection"
)

var (
	ErrNotFound           = errors.New("session not found")
	ErrGenerationInFlight = errors.New("a plan generation is already in progress")
	// ErrStaleGeneration: the session moved on (reset or another dataset) while the plan was generating.
	ErrStaleGeneration = errors.New("generated plan discarded: session changed while generating")
	// ErrStaleGeolocation: the session was torn down while the position was being resolved.
	ErrStaleGeolocation = errors.New("geolocation discarded: session was reset while locating")
	ErrInvalidEvent     = errors.New("invalid event")
	ErrUnknownDataset  = errors.New("unknown static dataset")
	ErrNoDataset       = selection.ErrNoDataset
)
