package exif

import (
	"regexp"
	"time"
)

// filenamePatterns are tried in order; first match wins. Layouts use Go's
// reference time.
var filenamePatterns = []struct {
	regex  *regexp.Regexp
	layout string
}{
	// DJI drone: DJI_20250619224111_0001_D.MP4
	{regexp.MustCompile(`DJI_(\d{8})`), "20060102"},
	// Sony video: 20250616_C0416.MP4
	{regexp.MustCompile(`^(\d{8})_C\d+`), "20060102"},
	// IMG_20250619_123456.jpg
	{regexp.MustCompile(`(\d{8}_\d{6})`), "20060102_150405"},
	// 2025-06-19_photo.jpg
	{regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`), "2006-01-02"},
	// 20250619_photo.jpg
	{regexp.MustCompile(`(\d{8})`), "20060102"},
}

// DateFromFilename extracts a UTC date from common camera file naming schemes.
func DateFromFilename(name string) (time.Time, bool) {
	for _, p := range filenamePatterns {
		matches := p.regex.FindStringSubmatch(name)
		if len(matches) < 2 {
			continue
		}
		t, err := time.ParseInLocation(p.layout, matches[1], time.UTC)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
