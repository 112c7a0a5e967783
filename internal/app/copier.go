package app

import (
	"path/filepath"

	"gitlab.com/tozd/go/errors"

	"fontex/internal/domain"
)

type Copier struct {
	FS FileSystem
}

// Copy copies src to dest and reports what happened. Only an existing
// regular file at dest counts as a conflict; a directory of the same name is
// treated as absent. A dry run returns the outcome a real run would have
// without touching the filesystem. Errors are returned inside the outcome,
// never raised.
func (c Copier) Copy(src, dest string, force, dryRun bool) domain.CopyOutcome {
	exists := c.FS.IsFile(dest)
	if exists && !force {
		return domain.Skipped()
	}

	outcome := domain.Succeeded()
	if exists {
		outcome = domain.Overridden()
	}
	if dryRun {
		return outcome
	}

	dir := filepath.Dir(dest)
	if err := c.FS.MkdirAll(dir, 0o755); err != nil {
		return domain.Failed(errors.Errorf("creating %s: %w", dir, err))
	}
	if err := c.FS.CopyFile(src, dest); err != nil {
		return domain.Failed(errors.Errorf("copying to %s: %w", dest, err))
	}
	return outcome
}
