package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Validation errors
	ErrInvalidRange        = errors.New("invalid range")
	ErrInvalidUpdateFields = errors.New("invalid update fields")
	ErrMissingParameter    = errors.New("missing parameter")

	ErrGroupNotFound = errors.New("group not found")
)

// Context keys for error values
const (
	CaseIDKey    = "case_id"
	GroupKey     = "group"
	ParameterKey = "parameter"
)
