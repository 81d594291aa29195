package textdex

import (
	"errors"

	"github.com/kailas-cloud/textdex/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidConfig  = domain.ErrInvalidConfig
	ErrUnknownFilter  = domain.ErrUnknownFilter
	ErrUnknownStemmer = domain.ErrUnknownStemmer
	ErrUnknownField   = domain.ErrUnknownField
	ErrUnknownMode    = domain.ErrUnknownMode
	ErrInvalidRecord  = domain.ErrInvalidRecord
	ErrIndexingFailed = domain.ErrIndexingFailed
	ErrQueryFailed    = domain.ErrQueryFailed
	ErrQuerySyntax    = domain.ErrQuerySyntax
)

// ErrBuilderFrozen is returned when a builder is reconfigured after it ran.
var ErrBuilderFrozen = errors.New("textdex: builder already executed")
