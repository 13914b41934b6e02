package exif

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	goexif "github.com/rwcarlsen/goexif/exif"
)

// DatePolicy selects the behavior for files whose container decodes but whose
// capture date is missing or malformed.
type DatePolicy string

const (
	// DatePolicyEpoch substitutes Epoch and marks the metadata as a fallback.
	DatePolicyEpoch DatePolicy = "epoch"
	// DatePolicyExclude returns the date error so the file is left untouched.
	DatePolicyExclude DatePolicy = "exclude"
	// DatePolicyFilename parses a date out of the file name and excludes the
	// file when no pattern matches.
	DatePolicyFilename DatePolicy = "filename"
)

const exifTimeLayout = "2006:01:02 15:04:05"

// Reader is the goexif-backed Extractor.
type Reader struct {
	policy DatePolicy
}

// NewReader returns a Reader applying the given date policy. An empty policy
// behaves as DatePolicyEpoch.
func NewReader(policy DatePolicy) *Reader {
	if policy == "" {
		policy = DatePolicyEpoch
	}
	return &Reader{policy: policy}
}

// Extract decodes path and returns its capture metadata.
func (r *Reader) Extract(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, &ExtractError{Path: path, Kind: ErrUnreadable, Err: err}
	}
	defer f.Close()

	x, err := goexif.Decode(f)
	if x == nil || (err != nil && goexif.IsCriticalError(err)) {
		if err == nil {
			err = fmt.Errorf("empty exif")
		}
		return Metadata{}, &ExtractError{Path: path, Kind: ErrUnreadable, Err: err}
	}

	meta := Metadata{
		Make:  tagString(x, goexif.Make),
		Model: tagString(x, goexif.Model),
	}

	captured, dateErr := captureTime(x)
	if dateErr == nil {
		meta.Captured = captured
		return meta, nil
	}
	return r.fallback(path, meta, dateErr)
}

func (r *Reader) fallback(path string, meta Metadata, dateErr *ExtractError) (Metadata, error) {
	dateErr.Path = path
	switch r.policy {
	case DatePolicyExclude:
		return Metadata{}, dateErr
	case DatePolicyFilename:
		t, ok := DateFromFilename(filepath.Base(path))
		if !ok {
			return Metadata{}, dateErr
		}
		meta.Captured = t
	default:
		meta.Captured = Epoch
	}
	meta.DateFallback = true
	return meta, nil
}

// captureTime reads DateTimeOriginal, falling back to DateTime. Times are
// interpreted as UTC so destinations do not depend on the host time zone.
func captureTime(x *goexif.Exif) (time.Time, *ExtractError) {
	tag, err := x.Get(goexif.DateTimeOriginal)
	if err != nil {
		tag, err = x.Get(goexif.DateTime)
	}
	if err != nil {
		return time.Time{}, &ExtractError{Kind: ErrMissingDate, Err: err}
	}
	raw, err := tag.StringVal()
	if err != nil {
		return time.Time{}, &ExtractError{Kind: ErrMalformedDate, Err: err}
	}
	raw = strings.TrimSpace(strings.TrimRight(raw, "\x00"))
	t, err := time.ParseInLocation(exifTimeLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, &ExtractError{Kind: ErrMalformedDate, Err: err}
	}
	return t, nil
}

func tagString(x *goexif.Exif, name goexif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}
