// Package store persists per-retailer observations across runs. The
// tracker only ever needs get-by-name and put-by-name, so every backend
// implements the same small key-value interface.
package store

import (
	"context"
	"errors"

	"pricewatch/models"
)

// ErrMalformed marks a stored record that cannot be decoded. Callers
// treat the observation as absent and log a diagnostic; the record is
// rewritten on the next successful check.
var ErrMalformed = errors.New("malformed observation record")

// ErrUnavailable marks a backend that cannot be reached at all. This is
// the only store failure that aborts a run; the host decides retry/abort.
var ErrUnavailable = errors.New("observation store unavailable")

// ObservationStore maps a retailer name to its last-known observation.
type ObservationStore interface {
	// Get returns the stored observation, or nil when none exists.
	Get(ctx context.Context, name string) (*models.Observation, error)
	// Put stores the observation, replacing any previous one.
	Put(ctx context.Context, name string, obs models.Observation) error
}
