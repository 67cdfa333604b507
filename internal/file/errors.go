package file

import "errors"

var (
	// ErrFileNotFound signals that the file could not be located.
	ErrFileNotFound = errors.New("file not found")
	// ErrFileTooLarge signals that the upload exceeds configured limits.
	ErrFileTooLarge = errors.New("file too large")
	// ErrQuotaExceeded signals that the upload would exceed the owner's storage allowance.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	// ErrInvalidName is returned when a rename target is empty.
	ErrInvalidName = errors.New("invalid file name")
	// ErrMissingPayload is returned when an upload carries no file.
	ErrMissingPayload = errors.New("missing file payload")
)
