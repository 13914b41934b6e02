package testsupport

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// Photo describes the EXIF fields written by WritePhoto. Empty fields are omitted.
type Photo struct {
	// DateTimeOriginal in EXIF layout, e.g. "2017:11:04 12:45:23".
	DateTimeOriginal string
	Make             string
	Model            string
}

const (
	tagMake             = 0x010F
	tagModel            = 0x0110
	tagExifIFDPointer   = 0x8769
	tagDateTimeOriginal = 0x9003

	typeASCII = 2
	typeLong  = 4
)

type ifdEntry struct {
	tag   uint16
	typ   uint16
	ascii string
	long  uint32
}

// WritePhoto writes a minimal JPEG carrying an EXIF APP1 segment with the
// requested fields.
func WritePhoto(t testing.TB, path string, photo Photo) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, EXIFJPEG(photo), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// EXIFJPEG returns the bytes WritePhoto writes.
func EXIFJPEG(photo Photo) []byte {
	tiff := buildTIFF(photo)

	var app1 bytes.Buffer
	app1.WriteString("Exif\x00\x00")
	app1.Write(tiff)

	var out bytes.Buffer
	out.Write([]byte{0xFF, 0xD8, 0xFF, 0xE1})
	_ = binary.Write(&out, binary.BigEndian, uint16(app1.Len()+2))
	out.Write(app1.Bytes())
	out.Write([]byte{0xFF, 0xD9})
	return out.Bytes()
}

func buildTIFF(photo Photo) []byte {
	var ifd0 []ifdEntry
	if photo.Make != "" {
		ifd0 = append(ifd0, ifdEntry{tag: tagMake, typ: typeASCII, ascii: photo.Make})
	}
	if photo.Model != "" {
		ifd0 = append(ifd0, ifdEntry{tag: tagModel, typ: typeASCII, ascii: photo.Model})
	}
	var exifIFD []ifdEntry
	if photo.DateTimeOriginal != "" {
		exifIFD = append(exifIFD, ifdEntry{tag: tagDateTimeOriginal, typ: typeASCII, ascii: photo.DateTimeOriginal})
	}

	const headerSize = 8
	ifdSize := func(n int) uint32 { return uint32(2 + 12*n + 4) }

	ifd0Offset := uint32(headerSize)
	n0 := len(ifd0) + 1
	exifOffset := ifd0Offset + ifdSize(n0)
	dataOffset := exifOffset + ifdSize(len(exifIFD))

	ifd0 = append(ifd0, ifdEntry{tag: tagExifIFDPointer, typ: typeLong, long: exifOffset})

	var data bytes.Buffer
	encode := func(entries []ifdEntry) []byte {
		var buf bytes.Buffer
		be := binary.BigEndian
		_ = binary.Write(&buf, be, uint16(len(entries)))
		for _, e := range entries {
			_ = binary.Write(&buf, be, e.tag)
			_ = binary.Write(&buf, be, e.typ)
			switch e.typ {
			case typeASCII:
				value := append([]byte(e.ascii), 0)
				_ = binary.Write(&buf, be, uint32(len(value)))
				if len(value) <= 4 {
					padded := make([]byte, 4)
					copy(padded, value)
					buf.Write(padded)
				} else {
					_ = binary.Write(&buf, be, dataOffset+uint32(data.Len()))
					data.Write(value)
				}
			default:
				_ = binary.Write(&buf, be, uint32(1))
				_ = binary.Write(&buf, be, e.long)
			}
		}
		_ = binary.Write(&buf, be, uint32(0))
		return buf.Bytes()
	}

	var out bytes.Buffer
	out.WriteString("MM\x00\x2A")
	_ = binary.Write(&out, binary.BigEndian, ifd0Offset)
	out.Write(encode(ifd0))
	out.Write(encode(exifIFD))
	out.Write(data.Bytes())
	return out.Bytes()
}
