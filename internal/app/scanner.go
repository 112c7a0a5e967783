package app

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"

	"fontex/internal/domain"
)

// ScanProgressFunc is called each time a font is discovered.
type ScanProgressFunc func(found int, path string)

type Scanner struct {
	FS     FileSystem
	Names  NameReader
	Logger Logger
	// SkipUnreadable turns a sub-directory read error into a warning and
	// skips that sub-tree. Without it the whole scan fails.
	SkipUnreadable bool
	OnProgress     ScanProgressFunc
}

// Scan walks root recursively and returns one record per font file whose
// PostScript name could be read, in lexical walk order. Symlinked
// directories are not followed, so the walk terminates on any tree the OS
// reports as acyclic.
func (s *Scanner) Scan(ctx context.Context, root string) ([]domain.FontRecord, error) {
	if s.FS == nil || s.Names == nil {
		return nil, errors.New("scanner requires FS and Names")
	}
	log := s.Logger
	if log == nil {
		log = nopLogger{}
	}

	stop := log.Measure("Scanning font directory")
	defer stop()

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, &PathError{Op: ErrScanDirectory, Path: root, Err: err}
	}

	var records []domain.FontRecord
	skipped := 0

	err = s.FS.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if s.SkipUnreadable && path != absRoot {
				log.Warnf("Skipping unreadable directory %q: %v", path, walkErr)
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			return &PathError{Op: ErrScanDirectory, Path: path, Err: walkErr}
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() || !domain.IsFontExtension(filepath.Ext(d.Name())) {
			return nil
		}

		name, err := s.readName(ctx, path)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			skipped++
			log.Debugf("No font name in %q: %v", path, err)
			return nil
		}

		records = append(records, domain.FontRecord{Name: name, Path: path})
		if s.OnProgress != nil {
			s.OnProgress(len(records), path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debugf("Found %d fonts in %s (%d files without a readable name)", len(records), absRoot, skipped)
	return records, nil
}

// readName calls the NameReader and normalizes its result. A panic in the
// reader is reported as an error for that file only.
func (s *Scanner) readName(ctx context.Context, path string) (name string, err error) {
	defer func() {
		if r := recover(); r != nil {
			name, err = "", errors.Errorf("reading font name: %v", r)
		}
	}()

	name, err = s.Names.PostScriptName(ctx, path)
	if err != nil {
		return "", err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("empty font name")
	}
	return name, nil
}
