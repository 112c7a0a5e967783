package app

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fontex/internal/domain"
	osfs "fontex/internal/infra/fs"
)

type countingNames struct {
	fakeNames
	calls atomic.Int32
}

func (c *countingNames) PostScriptName(ctx context.Context, path string) (string, error) {
	c.calls.Add(1)
	return c.fakeNames.PostScriptName(ctx, path)
}

// twoFontSource lays out a source tree with Foo-Bold and Bar-Regular.
func twoFontSource(t *testing.T) (string, fakeNames) {
	t.Helper()
	src := filepath.Join(t.TempDir(), "livetype")
	writeFile(t, filepath.Join(src, ".r", "1", "f1.otf"), "foo-bold")
	writeFile(t, filepath.Join(src, ".r", "2", "f2.ttf"), "bar-regular")
	return src, fakeNames{"f1.otf": "Foo-Bold", "f2.ttf": "Bar-Regular"}
}

func TestPipelineScenarioA_CopiesEverything(t *testing.T) {
	src, names := twoFontSource(t)
	dest := filepath.Join(t.TempDir(), "out")
	reporter := &recordingReporter{}

	p := Pipeline{FS: osfs.OSFS{}, Names: names, Reporter: reporter}
	summary, err := p.Run(context.Background(), Request{Source: src, Destination: dest, Pattern: "*"})
	require.NoError(t, err)

	assert.Equal(t, domain.SummaryProcessed, summary.Kind)
	assert.Equal(t, 2, summary.Found)
	assert.Equal(t, 2, summary.Filtered)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, domain.ExitSuccess, summary.ExitCode())

	assert.Equal(t, "foo-bold", readFile(t, filepath.Join(dest, "Foo-Bold.otf")))
	assert.Equal(t, "bar-regular", readFile(t, filepath.Join(dest, "Bar-Regular.ttf")))

	require.Len(t, reporter.summaries, 1)
	assert.Equal(t, summary, reporter.summaries[0])
}

func TestPipelineScenarioB_SkipsExisting(t *testing.T) {
	src, names := twoFontSource(t)
	dest := t.TempDir()
	writeFile(t, filepath.Join(dest, "Foo-Bold.otf"), "already here")

	p := Pipeline{FS: osfs.OSFS{}, Names: names}
	summary, err := p.Run(context.Background(), Request{Source: src, Destination: dest})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, "already here", readFile(t, filepath.Join(dest, "Foo-Bold.otf")))
}

func TestPipelineScenarioC_NothingMatched(t *testing.T) {
	src, names := twoFontSource(t)
	dest := filepath.Join(t.TempDir(), "out")
	fsys := &failingFS{}

	p := Pipeline{FS: fsys, Names: names}
	summary, err := p.Run(context.Background(), Request{Source: src, Destination: dest, Pattern: "Baz*"})
	require.NoError(t, err)

	assert.Equal(t, domain.SummaryNothingMatched, summary.Kind)
	assert.Equal(t, 2, summary.Found)
	assert.Equal(t, 0, summary.Filtered)
	assert.Equal(t, domain.ExitFailure, summary.ExitCode())
	assert.Empty(t, fsys.calls)
	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPipelineScenarioD_SourceMissing(t *testing.T) {
	names := &countingNames{fakeNames: fakeNames{}}
	p := Pipeline{FS: osfs.OSFS{}, Names: names}

	_, err := p.Run(context.Background(), Request{
		Source:      filepath.Join(t.TempDir(), "nope"),
		Destination: t.TempDir(),
	})
	assert.ErrorIs(t, err, ErrSourceMissing)
	assert.Zero(t, names.calls.Load())
}

func TestPipelineRejectsBadPatternBeforeScanning(t *testing.T) {
	src, base := twoFontSource(t)
	names := &countingNames{fakeNames: base}
	p := Pipeline{FS: osfs.OSFS{}, Names: names}

	_, err := p.Run(context.Background(), Request{Source: src, Destination: t.TempDir(), Pattern: "[Foo"})
	assert.ErrorIs(t, err, ErrInvalidPattern)
	assert.Zero(t, names.calls.Load())
}

func TestPipelineNothingFoundIsSoft(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "readme.txt"), "x")
	reporter := &recordingReporter{}

	p := Pipeline{FS: osfs.OSFS{}, Names: fakeNames{}, Reporter: reporter}
	summary, err := p.Run(context.Background(), Request{Source: src, Destination: t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, domain.SummaryNothingFound, summary.Kind)
	assert.Equal(t, domain.ExitSuccess, summary.ExitCode())
	require.Len(t, reporter.summaries, 1)
}

func TestPipelineDryRunWritesNothing(t *testing.T) {
	src, names := twoFontSource(t)
	dest := filepath.Join(t.TempDir(), "out")

	p := Pipeline{FS: osfs.OSFS{}, Names: names}
	summary, err := p.Run(context.Background(), Request{Source: src, Destination: dest, DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Succeeded)
	assert.True(t, summary.DryRun)
	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPipelineForceCountsOverrides(t *testing.T) {
	src, names := twoFontSource(t)
	dest := t.TempDir()
	writeFile(t, filepath.Join(dest, "Foo-Bold.otf"), "old")

	p := Pipeline{FS: osfs.OSFS{}, Names: names}
	summary, err := p.Run(context.Background(), Request{Source: src, Destination: dest, Force: true})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Overridden)
	assert.Equal(t, "foo-bold", readFile(t, filepath.Join(dest, "Foo-Bold.otf")))
}

func TestPipelineDuplicateNamesEachCopied(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a", "x.otf"), "one")
	writeFile(t, filepath.Join(src, "b", "y.otf"), "two")
	dest := t.TempDir()

	p := Pipeline{FS: osfs.OSFS{}, Names: fakeNames{"x.otf": "Same", "y.otf": "Same"}}
	summary, err := p.Run(context.Background(), Request{Source: src, Destination: dest})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Skipped)
}

func TestPipelineParallelDuplicateNamesMatchSequential(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a", "x.otf"), "one")
	writeFile(t, filepath.Join(src, "b", "y.otf"), "two")
	writeFile(t, filepath.Join(src, "c", "z.otf"), "other")
	dest := t.TempDir()

	p := Pipeline{
		FS:    slowFS{delay: 50 * time.Millisecond},
		Names: fakeNames{"x.otf": "Same", "y.otf": "Same", "z.otf": "Other"},
	}
	summary, err := p.Run(context.Background(), Request{Source: src, Destination: dest, Concurrency: 3})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, "one", readFile(t, filepath.Join(dest, "Same.otf")))
	assert.Equal(t, "other", readFile(t, filepath.Join(dest, "Other.otf")))
}

func TestGroupByDestination(t *testing.T) {
	records := []domain.FontRecord{
		{Name: "A", Path: "/src/1.otf"},
		{Name: "B", Path: "/src/2.otf"},
		{Name: "A", Path: "/src/3.otf"},
		{Name: "A", Path: "/src/4.ttf"},
	}
	assert.Equal(t, [][]int{{0, 2}, {1}, {3}}, groupByDestination(records, "/dest"))
}

func TestPipelineFailuresAreCounted(t *testing.T) {
	src, names := twoFontSource(t)
	dest := t.TempDir()
	fsys := &failingFS{fail: map[string]bool{"Foo-Bold.otf": true}}

	p := Pipeline{FS: fsys, Names: names}
	summary, err := p.Run(context.Background(), Request{Source: src, Destination: dest})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, domain.ExitSuccess, summary.ExitCode())
}

func TestPipelineAllFailedExitsWithFailure(t *testing.T) {
	src, names := twoFontSource(t)
	fsys := &failingFS{fail: map[string]bool{"Foo-Bold.otf": true, "Bar-Regular.ttf": true}}

	p := Pipeline{FS: fsys, Names: names}
	summary, err := p.Run(context.Background(), Request{Source: src, Destination: t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, domain.ExitFailure, summary.ExitCode())
}

func TestPipelineAbortOnErrorStopsAtFirstFailure(t *testing.T) {
	src, names := twoFontSource(t)
	// Walk order is lexical, so f1 (Foo-Bold) is copied first.
	fsys := &failingFS{fail: map[string]bool{"Foo-Bold.otf": true}}

	p := Pipeline{FS: fsys, Names: names}
	summary, err := p.Run(context.Background(), Request{Source: src, Destination: t.TempDir(), AbortOnError: true})

	assert.ErrorIs(t, err, ErrCopyAborted)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 0, summary.Succeeded)
	assert.Len(t, fsys.calls, 1)
}

func TestPipelineParallelCopiesAggregateDeterministically(t *testing.T) {
	src := t.TempDir()
	names := fakeNames{}
	for _, n := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		writeFile(t, filepath.Join(src, n+".otf"), n)
		names[n+".otf"] = "Font-" + n
	}
	dest := t.TempDir()
	writeFile(t, filepath.Join(dest, "Font-a.otf"), "old")
	fsys := &failingFS{fail: map[string]bool{"Font-h.otf": true}}

	var progress atomic.Int32
	p := Pipeline{
		FS:       fsys,
		Names:    names,
		OnCopied: func(done, total int, _ domain.FontRecord, _ domain.CopyOutcome) { progress.Add(1) },
	}
	summary, err := p.Run(context.Background(), Request{Source: src, Destination: dest, Concurrency: 3})
	require.NoError(t, err)

	assert.Equal(t, 6, summary.Succeeded)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Failed)
	assert.EqualValues(t, 8, progress.Load())
	assert.Equal(t, "c", readFile(t, filepath.Join(dest, "Font-c.otf")))
	assert.Equal(t, "old", readFile(t, filepath.Join(dest, "Font-a.otf")))
}

func TestPipelineParallelAbortOnError(t *testing.T) {
	src := t.TempDir()
	names := fakeNames{}
	fail := map[string]bool{}
	for _, n := range []string{"a", "b", "c", "d"} {
		writeFile(t, filepath.Join(src, n+".otf"), n)
		names[n+".otf"] = "Font-" + n
		fail["Font-"+n+".otf"] = true
	}
	fsys := &failingFS{fail: fail}

	p := Pipeline{FS: fsys, Names: names}
	summary, err := p.Run(context.Background(), Request{Source: src, Destination: t.TempDir(), Concurrency: 2, AbortOnError: true})

	assert.ErrorIs(t, err, ErrCopyAborted)
	assert.GreaterOrEqual(t, summary.Failed, 1)
	assert.Equal(t, summary.Failed, len(fsys.calls))
}

func TestPipelineDestinationRootUnwritable(t *testing.T) {
	src, names := twoFontSource(t)
	blocker := writeFile(t, filepath.Join(t.TempDir(), "blocker"), "x")

	p := Pipeline{FS: osfs.OSFS{}, Names: names}
	_, err := p.Run(context.Background(), Request{Source: src, Destination: filepath.Join(blocker, "out")})
	assert.ErrorIs(t, err, ErrDestination)
}

func TestPipelineList(t *testing.T) {
	src, fonts := twoFontSource(t)
	var scanned [2]int

	p := Pipeline{
		FS:        osfs.OSFS{},
		Names:     fonts,
		OnScanned: func(found, matched int) { scanned = [2]int{found, matched} },
	}
	records, summary, err := p.List(context.Background(), ListRequest{Source: src, Pattern: "Foo*"})
	require.NoError(t, err)

	assert.Equal(t, domain.SummaryListed, summary.Kind)
	assert.Equal(t, []string{"Foo-Bold"}, recordNames(records))
	assert.Equal(t, [2]int{2, 1}, scanned)
	assert.Equal(t, domain.ExitSuccess, summary.ExitCode())
}

func TestPipelineReportsEachFoundFont(t *testing.T) {
	src, fonts := twoFontSource(t)
	var counts []int

	p := Pipeline{
		FS:      osfs.OSFS{},
		Names:   fonts,
		OnFound: func(found int, _ string) { counts = append(counts, found) },
	}
	_, _, err := p.List(context.Background(), ListRequest{Source: src})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, counts)
}

func TestPipelineStopsWhenCancelled(t *testing.T) {
	src, names := twoFontSource(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := Pipeline{FS: osfs.OSFS{}, Names: names}
	_, err := p.Run(ctx, Request{Source: src, Destination: t.TempDir()})
	assert.ErrorIs(t, err, context.Canceled)
}
