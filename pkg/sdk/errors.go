package venuedex

import "github.com/kailas-cloud/venuedex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrValidation          = domain.ErrValidation
	ErrNotFound            = domain.ErrNotFound
	ErrUpstreamFormat      = domain.ErrUpstreamFormat
	ErrUpstreamUnavailable = domain.ErrUpstreamUnavailable
	ErrVectorDimMismatch   = domain.ErrVectorDimMismatch
)
