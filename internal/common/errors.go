package common

import (
	"errors"
	"fmt"

	"github.com/nishant-rao/legal-summarizer/constants"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewAppError(code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

// Common application errors
var (
	ErrNotFound         = errors.New("resource not found")
	ErrNotReady         = errors.New("case not processed yet")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnsupportedMedia = errors.New("unsupported media type")
	ErrInvalidStatus    = errors.New("invalid status transition")
)

// ExtractionError marks a collaborator failure during the extraction stage.
// It is propagated, never retried; the case ends up failed.
type ExtractionError struct {
	Media constants.MediaType
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for media %q: %v", e.Media, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func NewExtractionError(media constants.MediaType, err error) *ExtractionError {
	return &ExtractionError{Media: media, Err: err}
}
