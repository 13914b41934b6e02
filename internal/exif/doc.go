// Package exif extracts capture metadata from photo files.
//
// Reader decodes the EXIF container with goexif and returns the capture
// timestamp plus camera make and model. Failures are typed: an unreadable
// file or missing container is never recoverable, while a missing or
// malformed date is handled according to the configured DatePolicy.
package exif
