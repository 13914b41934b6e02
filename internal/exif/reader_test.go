package exif_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"rawsort/internal/exif"
	"rawsort/internal/testsupport"
)

func TestReaderExtractsCaptureTimeAndCamera(t *testing.T) {
	path := filepath.Join(t.TempDir(), "20171104-DSC_1236.JPG")
	testsupport.WritePhoto(t, path, testsupport.Photo{
		DateTimeOriginal: "2017:11:04 12:45:23",
		Make:             "NIKON CORPORATION",
		Model:            "NIKON D750",
	})

	meta, err := exif.NewReader(exif.DatePolicyEpoch).Extract(path)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	want := time.Date(2017, time.November, 4, 12, 45, 23, 0, time.UTC)
	if !meta.Captured.Equal(want) {
		t.Fatalf("unexpected capture time: got %s want %s", meta.Captured, want)
	}
	if meta.DateFallback {
		t.Fatal("expected date to come from EXIF")
	}
	if meta.Make != "NIKON CORPORATION" || meta.Model != "NIKON D750" {
		t.Fatalf("unexpected camera %q %q", meta.Make, meta.Model)
	}
}

func TestReaderRejectsFilesWithoutContainer(t *testing.T) {
	dir := t.TempDir()
	text := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(text, []byte("not a photo"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	empty := filepath.Join(dir, "empty.jpg")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	reader := exif.NewReader(exif.DatePolicyEpoch)
	for _, path := range []string{text, empty, filepath.Join(dir, "missing.jpg")} {
		_, err := reader.Extract(path)
		if !errors.Is(err, exif.ErrUnreadable) {
			t.Fatalf("%s: expected ErrUnreadable, got %v", path, err)
		}
		var extractErr *exif.ExtractError
		if !errors.As(err, &extractErr) || extractErr.Path != path {
			t.Fatalf("%s: expected ExtractError carrying the path, got %v", path, err)
		}
	}
}

func TestReaderMissingDatePolicies(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "IMG_20200102_030405.jpg")
	testsupport.WritePhoto(t, path, testsupport.Photo{Make: "Canon"})

	meta, err := exif.NewReader(exif.DatePolicyEpoch).Extract(path)
	if err != nil {
		t.Fatalf("epoch policy returned error: %v", err)
	}
	if !meta.Captured.Equal(exif.Epoch) || !meta.DateFallback {
		t.Fatalf("expected epoch fallback, got %+v", meta)
	}
	if meta.Make != "Canon" {
		t.Fatalf("expected make to survive fallback, got %q", meta.Make)
	}

	if _, err := exif.NewReader(exif.DatePolicyExclude).Extract(path); !errors.Is(err, exif.ErrMissingDate) {
		t.Fatalf("exclude policy: expected ErrMissingDate, got %v", err)
	}

	meta, err = exif.NewReader(exif.DatePolicyFilename).Extract(path)
	if err != nil {
		t.Fatalf("filename policy returned error: %v", err)
	}
	want := time.Date(2020, time.January, 2, 3, 4, 5, 0, time.UTC)
	if !meta.Captured.Equal(want) || !meta.DateFallback {
		t.Fatalf("expected filename date %s, got %+v", want, meta)
	}

	undated := filepath.Join(dir, "holiday.jpg")
	testsupport.WritePhoto(t, undated, testsupport.Photo{Model: "X100"})
	if _, err := exif.NewReader(exif.DatePolicyFilename).Extract(undated); !errors.Is(err, exif.ErrMissingDate) {
		t.Fatalf("filename policy without match: expected ErrMissingDate, got %v", err)
	}
}

func TestReaderMalformedDate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jpg")
	testsupport.WritePhoto(t, path, testsupport.Photo{DateTimeOriginal: "0000:00:00 00:00:00"})

	if _, err := exif.NewReader(exif.DatePolicyExclude).Extract(path); !errors.Is(err, exif.ErrMalformedDate) {
		t.Fatalf("expected ErrMalformedDate, got %v", err)
	}
	meta, err := exif.NewReader("").Extract(path)
	if err != nil {
		t.Fatalf("default policy returned error: %v", err)
	}
	if !meta.Captured.Equal(exif.Epoch) {
		t.Fatalf("expected epoch under default policy, got %s", meta.Captured)
	}
}

func TestDateFromFilename(t *testing.T) {
	cases := []struct {
		name string
		want time.Time
		ok   bool
	}{
		{"DJI_20250619224111_0001_D.MP4", time.Date(2025, 6, 19, 0, 0, 0, 0, time.UTC), true},
		{"20250616_C0416.MP4", time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), true},
		{"IMG_20250619_123456.jpg", time.Date(2025, 6, 19, 12, 34, 56, 0, time.UTC), true},
		{"2025-06-19_photo.jpg", time.Date(2025, 6, 19, 0, 0, 0, 0, time.UTC), true},
		{"20171104-DSC_1236.JPG", time.Date(2017, 11, 4, 0, 0, 0, 0, time.UTC), true},
		{"DSC_1236.JPG", time.Time{}, false},
	}
	for _, tc := range cases {
		got, ok := exif.DateFromFilename(tc.name)
		if ok != tc.ok || !got.Equal(tc.want) {
			t.Fatalf("%s: got %s %v want %s %v", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}
