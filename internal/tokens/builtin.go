package tokens

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"rawsort/internal/exif"
)

const unknownCamera = "unknown"

// Builtin registers the standard token set on reg and returns it.
func Builtin(reg *Registry) *Registry {
	reg.RegisterFunc("[year]", "Year of capture", func(m exif.Metadata, _ Entry) string {
		return strconv.Itoa(m.Captured.Year())
	})
	reg.RegisterFunc("[month]", "Month of capture (1-12)", func(m exif.Metadata, _ Entry) string {
		return strconv.Itoa(int(m.Captured.Month()))
	})
	reg.RegisterFunc("[day]", "Day of month of capture", func(m exif.Metadata, _ Entry) string {
		return strconv.Itoa(m.Captured.Day())
	})
	reg.RegisterFunc("[hour]", "Hour of capture (0-23)", func(m exif.Metadata, _ Entry) string {
		return strconv.Itoa(m.Captured.Hour())
	})
	reg.RegisterFunc("[minute]", "Minute of capture", func(m exif.Metadata, _ Entry) string {
		return strconv.Itoa(m.Captured.Minute())
	})
	reg.RegisterFunc("[second]", "Second of capture", func(m exif.Metadata, _ Entry) string {
		return strconv.Itoa(m.Captured.Second())
	})
	reg.RegisterFunc("[date]", "Capture date as YYYY-MM-DD", func(m exif.Metadata, _ Entry) string {
		return m.Captured.Format("2006-01-02")
	})
	reg.RegisterFunc("[ext]", "File extension without the dot", func(_ exif.Metadata, e Entry) string {
		return e.Ext
	})
	reg.RegisterFunc("[filename]", "Full file name including extension", func(_ exif.Metadata, e Entry) string {
		return e.Name
	})
	reg.RegisterFunc("[stem]", "File name without extension", func(_ exif.Metadata, e Entry) string {
		return e.Stem()
	})
	reg.RegisterFunc("[make]", "Camera manufacturer", func(m exif.Metadata, _ Entry) string {
		return orUnknown(m.Make)
	})
	reg.RegisterFunc("[model]", "Camera model", func(m exif.Metadata, _ Entry) string {
		return orUnknown(m.Model)
	})
	reg.RegisterFunc("[camera]", "Camera make and model, title cased", func(m exif.Metadata, _ Entry) string {
		return CameraName(m.Make, m.Model)
	})
	return reg
}

// CameraName joins make and model into a readable label. A model that
// already starts with the vendor's first word is used alone.
func CameraName(vendor, model string) string {
	vendor = strings.TrimSpace(vendor)
	model = strings.TrimSpace(model)
	label := vendor
	switch {
	case vendor == "":
		label = model
	case model == "":
	default:
		brand := strings.Fields(vendor)[0]
		if strings.HasPrefix(strings.ToUpper(model), strings.ToUpper(brand)) {
			label = model
		} else {
			label = vendor + " " + model
		}
	}
	if label == "" {
		return unknownCamera
	}
	return cases.Title(language.Und).String(strings.ToLower(label))
}

func orUnknown(s string) string {
	if s == "" {
		return unknownCamera
	}
	return s
}
