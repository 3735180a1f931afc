package services

import (
	"errors"
	"fmt"
)

// Sentinel errors for handler status mapping.
var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrNotOwner means the record exists but belongs to another user.
	ErrNotOwner = errors.New("not the owner")
	// ErrInvalidCredentials covers both unknown username and bad password,
	// so login failures never leak which one it was.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ValidationError is a user-correctable input problem. The message is safe
// to show as-is and no state was changed.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// DetectionError wraps a failure raised by the detector during upload
// processing. The stored file has already been cleaned up and no database
// record was created.
type DetectionError struct {
	Err error
}

func (e *DetectionError) Error() string {
	return fmt.Sprintf("error during object detection: %v", e.Err)
}

func (e *DetectionError) Unwrap() error {
	return e.Err
}
