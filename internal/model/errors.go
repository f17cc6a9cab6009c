package model

import (
	"errors"
	"fmt"
)

var (
	ErrNoMedications      = errors.New("no medications to analyze")
	ErrAnalysisInProgress = errors.New("an analysis is already in progress")
	ErrHistoryNotFound    = errors.New("history item not found")
)

// ServiceError is returned by the AI client for any failed or unusable call.
// Network failures, bad responses and service-side rejections all collapse into it.
type ServiceError struct {
	Op      string // "analyze" or "image"
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// StorageError reports a persisted value that could not be decoded.
type StorageError struct {
	Key   string
	Cause error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("corrupt stored value %q: %v", e.Key, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}
