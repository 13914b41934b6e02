package exif

import (
	"errors"
	"fmt"
	"time"
)

// Metadata holds the decoded attributes of one file.
type Metadata struct {
	Captured time.Time
	Make     string
	Model    string
	// DateFallback reports that Captured was not read from EXIF.
	DateFallback bool
}

// Extractor returns capture metadata for the file at path.
type Extractor interface {
	Extract(path string) (Metadata, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(path string) (Metadata, error)

// Extract calls f(path).
func (f ExtractorFunc) Extract(path string) (Metadata, error) { return f(path) }

var (
	// ErrUnreadable means the file could not be opened or has no EXIF container.
	ErrUnreadable = errors.New("exif: unreadable or no metadata container")
	// ErrMissingDate means the container decoded but carries no capture date.
	ErrMissingDate = errors.New("exif: capture date missing")
	// ErrMalformedDate means the capture date field could not be parsed.
	ErrMalformedDate = errors.New("exif: capture date malformed")
)

// ExtractError records which file failed and why.
type ExtractError struct {
	Path string
	Kind error
	Err  error
}

func (e *ExtractError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Path, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Path, e.Kind, e.Err)
}

func (e *ExtractError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Epoch is the capture time substituted under DatePolicyEpoch.
var Epoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)
