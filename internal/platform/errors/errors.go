package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrNetworkFailure      = errors.New("network failure")
	ErrBackend             = errors.New("backend error")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrSubmissionInFlight  = errors.New("a submission is already in flight")
	ErrNoAnalysis          = errors.New("no analysis yet")
	ErrNotConfigured       = errors.New("not configured")
)

// NetworkError reports a request that could not complete.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() []error {
	return []error{ErrNetworkFailure, e.Err}
}

// BackendError is a non-2xx response. Message carries the body's "error"
// field when the server sent one.
type BackendError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *BackendError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s returned %d: %s", e.Endpoint, e.Status, e.Message)
	}
	return fmt.Sprintf("%s returned %d", e.Endpoint, e.Status)
}

func (e *BackendError) Unwrap() error {
	return ErrBackend
}

// UnsupportedFileTypeError names the file that was rejected at intake.
type UnsupportedFileTypeError struct {
	Name     string
	MimeType string
}

func (e *UnsupportedFileTypeError) Error() string {
	if e.MimeType != "" {
		return fmt.Sprintf("%s: %s (%s)", ErrUnsupportedFileType, e.Name, e.MimeType)
	}
	return fmt.Sprintf("%s: %s", ErrUnsupportedFileType, e.Name)
}

func (e *UnsupportedFileTypeError) Unwrap() error {
	return ErrUnsupportedFileType
}

const fallbackMessage = "Failed to process resume. Please try again."

// UserMessage turns any workflow error into the one line shown in the error
// banner.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var backendErr *BackendError
	if errors.As(err, &backendErr) && backendErr.Message != "" {
		return backendErr.Message
	}
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "Session expired. Please login again."
	case errors.Is(err, ErrUnsupportedFileType):
		return "Only PDF or DOCX files are accepted."
	case errors.Is(err, ErrSubmissionInFlight):
		return "A resume is already being processed."
	case errors.Is(err, ErrNoAnalysis):
		return "No analysis yet. Upload a resume first."
	case errors.Is(err, ErrNetworkFailure):
		var netErr *NetworkError
		if errors.As(err, &netErr) && netErr.Err != nil {
			return netErr.Err.Error()
		}
		return fallbackMessage
	case errors.Is(err, ErrBackend):
		return fallbackMessage
	}
	return err.Error()
}
