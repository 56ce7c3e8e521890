package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks client-caused request problems
	ErrInvalidInput = errors.New("invalid input")
	// ErrUpstreamUnavailable marks an unreachable or unconfigured search provider
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrDownloadFailed marks a failed acquisition step
	ErrDownloadFailed = errors.New("download failed")
	// ErrInputNotFound marks a local input file that does not exist
	ErrInputNotFound = errors.New("input not found")
	// ErrCompressionFailed marks a preview encode that produced no output
	ErrCompressionFailed = errors.New("compression failed")
	// ErrStorageUnconfigured marks missing object storage credentials
	ErrStorageUnconfigured = errors.New("storage is not configured")
	// ErrUploadFailed marks a failed object upload
	ErrUploadFailed = errors.New("upload failed")
	// ErrStoreUnconfigured marks a missing document store connection
	ErrStoreUnconfigured = errors.New("document store is not configured")
	// ErrRunNotFound marks an unknown batch run identifier
	ErrRunNotFound = errors.New("run not found")
)

// MissingFieldError reports a required content field that was not provided
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// Is makes a MissingFieldError match ErrInvalidInput
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrInvalidInput
}

// StageError records the pipeline stage in which an item failed
type StageError struct {
	Stage ItemState
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
