package core

import (
	"errors"
	"fmt"
)

var (
	ErrSelfNotFound          = errors.New("own tank not found in snapshot")
	ErrGridDimensionMismatch = errors.New("grid dimension mismatch")
	ErrNotInitialized        = errors.New("bot not initialized")
	ErrUnknownEntity         = errors.New("unknown entity type")
	ErrUnknownAction         = errors.New("unknown action kind")
	ErrEmptyGrid             = errors.New("grid has no tiles")
)

// WrapTickError attaches the tick and tank owner to an error aborting a decision
func WrapTickError(tick int, ownerID string, err error) error {
	if err == nil {
		return nil
	}
	if ownerID == "" {
		return fmt.Errorf("tick %d: %w", tick, err)
	}
	return fmt.Errorf("tick %d: tank %s: %w", tick, ownerID, err)
}
