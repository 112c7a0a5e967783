// Package fontname reads the PostScript name out of OpenType and TrueType
// font binaries.
package fontname

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/image/font/sfnt"

	"fontex/internal/domain"
)

var (
	ErrUnsupportedExtension = errors.Base("unsupported font extension")
	ErrNoPostScriptName     = errors.Base("font has no PostScript name")
)

type Reader struct{}

// PostScriptName returns the trimmed name ID 6 record of the font at path.
// Every failure, including a panic inside the parser, is returned as an
// error for this file alone.
func (Reader) PostScriptName(ctx context.Context, path string) (name string, err error) {
	defer func() {
		if r := recover(); r != nil {
			name, err = "", errors.Errorf("parsing %s: %v", path, r)
		}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	if !domain.IsFontExtension(filepath.Ext(path)) {
		return "", errors.WithDetails(ErrUnsupportedExtension, "path", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return "", errors.WithStack(err)
	}
	defer file.Close()

	font, err := sfnt.ParseReaderAt(file)
	if err != nil {
		return "", errors.Errorf("parsing %s: %w", path, err)
	}

	name, err = font.Name(&sfnt.Buffer{}, sfnt.NameIDPostScript)
	if err != nil {
		if errors.Is(err, sfnt.ErrNotFound) {
			return "", errors.WithDetails(ErrNoPostScriptName, "path", path)
		}
		return "", errors.Errorf("reading name table of %s: %w", path, err)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.WithDetails(ErrNoPostScriptName, "path", path)
	}
	return name, nil
}
