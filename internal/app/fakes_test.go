package app

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"fontex/internal/domain"
	osfs "fontex/internal/infra/fs"
)

// fakeNames resolves font names by file base name. Files not in the map
// have no name; a name of "!panic" makes the reader panic.
type fakeNames map[string]string

func (f fakeNames) PostScriptName(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name, ok := f[filepath.Base(path)]
	if !ok {
		return "", errors.New("not a font")
	}
	if name == "!panic" {
		panic("corrupt table")
	}
	return name, nil
}

// failingFS is the real filesystem except that copies to the listed
// destinations fail.
type failingFS struct {
	osfs.OSFS
	mu    sync.Mutex
	fail  map[string]bool
	calls []string
}

func (f *failingFS) CopyFile(src, dst string) error {
	f.mu.Lock()
	f.calls = append(f.calls, dst)
	fail := f.fail[filepath.Base(dst)]
	f.mu.Unlock()
	if fail {
		return errors.New("disk full")
	}
	return f.OSFS.CopyFile(src, dst)
}

// slowFS is the real filesystem with every copy stretched by delay, so
// copies started together overlap.
type slowFS struct {
	osfs.OSFS
	delay time.Duration
}

func (s slowFS) CopyFile(src, dst string) error {
	time.Sleep(s.delay)
	return s.OSFS.CopyFile(src, dst)
}

type mockEntry struct {
	path    string
	isDir   bool
	mode    fs.FileMode
	readErr error
}

// mockFS replays a fixed walk, reporting readErr for a directory the way
// filepath.WalkDir does.
type mockFS struct {
	osfs.OSFS
	entries []mockEntry
}

func (m mockFS) WalkDir(root string, fn fs.WalkDirFunc) error {
	skipped := ""
	for _, entry := range m.entries {
		if skipped != "" && len(entry.path) > len(skipped) && entry.path[:len(skipped)+1] == skipped+"/" {
			continue
		}
		d := mockDirEntry{name: filepath.Base(entry.path), isDir: entry.isDir, mode: entry.mode}
		err := fn(entry.path, d, nil)
		if err == nil && entry.readErr != nil {
			err = fn(entry.path, d, entry.readErr)
		}
		if errors.Is(err, fs.SkipDir) {
			skipped = entry.path
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

type mockDirEntry struct {
	name  string
	isDir bool
	mode  fs.FileMode
}

func (m mockDirEntry) Name() string { return m.name }
func (m mockDirEntry) IsDir() bool  { return m.isDir }
func (m mockDirEntry) Type() fs.FileMode {
	if m.isDir {
		return fs.ModeDir
	}
	return m.mode
}
func (m mockDirEntry) Info() (fs.FileInfo, error) { return nil, nil }

type recordingReporter struct {
	summaries []domain.OperationSummary
}

func (r *recordingReporter) Summary(s domain.OperationSummary) {
	r.summaries = append(r.summaries, s)
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
