package scout

import (
	"errors"

	"github.com/hazyhaar/scout/internal/store"
)

// ErrInvalidInput is returned when an identifier or request field fails
// validation.
var ErrInvalidInput = errors.New("scout: invalid input")

// ErrUnknownPaper is returned when an extraction is requested for a paper
// that has not been harvested.
var ErrUnknownPaper = errors.New("scout: unknown paper")

// ErrNotFound is returned when a paper or run lookup misses.
var ErrNotFound = store.ErrNotFound
