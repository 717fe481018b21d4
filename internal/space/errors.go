package space

import (
	"errors"

	"github.com/happyhackingspace/semspace/internal/factor"
)

var (
	ErrNotFound     = errors.New("space: not found")
	ErrAlreadyBuilt = errors.New("space: already built")
	ErrNotBuilt     = errors.New("space: not built")

	ErrInvalidRank      = factor.ErrInvalidRank
	ErrNumericalFailure = factor.ErrNumericalFailure
	ErrUnsupported      = factor.ErrUnsupported
	ErrCancelled        = factor.ErrCancelled
)
