package tokens

import (
	"path/filepath"
	"strings"
)

// Entry describes the file a template is being resolved for. It is rebuilt
// for every scan.
type Entry struct {
	// Path is the file's full path as found during the scan.
	Path string
	// Name is the base name including extension.
	Name string
	// Ext is the extension without the leading dot, empty when absent.
	Ext string
}

// NewEntry derives an Entry from a file path.
func NewEntry(path string) Entry {
	name := filepath.Base(path)
	return Entry{Path: path, Name: name, Ext: extension(name)}
}

// Stem returns Name without its extension.
func (e Entry) Stem() string {
	if e.Ext == "" {
		return e.Name
	}
	return strings.TrimSuffix(e.Name, "."+e.Ext)
}

// extension treats dot files without a further dot as having no extension.
func extension(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx <= 0 || idx == len(name)-1 {
		return ""
	}
	return name[idx+1:]
}
