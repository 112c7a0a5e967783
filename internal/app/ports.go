package app

import (
	"context"
	"io/fs"

	"fontex/internal/domain"
)

type FileSystem interface {
	WalkDir(root string, fn fs.WalkDirFunc) error
	DirExists(path string) bool
	IsFile(path string) bool
	MkdirAll(path string, perm fs.FileMode) error
	CopyFile(src, dst string) error
}

type NameReader interface {
	PostScriptName(ctx context.Context, path string) (string, error)
}

// Logger receives leveled progress messages in the order they are emitted.
type Logger interface {
	Task(msg string)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Successf(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Measure(label string) func()
}

// Reporter receives the final summary of a run.
type Reporter interface {
	Summary(summary domain.OperationSummary)
}
