package domain

import (
	"path/filepath"
	"strings"
)

// FontRecord is a discovered font file and the PostScript name read from it.
// Several records may share a name when a font is installed more than once.
type FontRecord struct {
	Name string
	Path string
}

// Ext returns the source file extension, preserving its case.
func (r FontRecord) Ext() string {
	return filepath.Ext(r.Path)
}

// FileName is the extracted file's base name. The name comes from font
// contents, so path separators in it are replaced to keep the file inside
// the destination directory.
func (r FontRecord) FileName() string {
	safe := strings.Map(func(c rune) rune {
		if c == '/' || c == '\\' || c == 0 {
			return '_'
		}
		return c
	}, r.Name)
	return safe + r.Ext()
}

// DestinationPath is where the record lands when extracted into dir.
func (r FontRecord) DestinationPath(dir string) string {
	return filepath.Join(dir, r.FileName())
}

func IsFontExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".otf", ".ttf":
		return true
	default:
		return false
	}
}
