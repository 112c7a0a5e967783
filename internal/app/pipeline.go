package app

import (
	"context"
	"sync/atomic"
	"time"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"fontex/internal/domain"
)

type Request struct {
	Source       string
	Destination  string
	Pattern      string
	Force        bool
	DryRun       bool
	AbortOnError bool
	// Concurrency bounds parallel copies. Values below 2 copy sequentially.
	Concurrency int
	Verbosity   string
}

type ListRequest struct {
	Source    string
	Pattern   string
	Verbosity string
}

// CopyProgressFunc is called after each copy attempt. With Concurrency > 1
// it may be called from several goroutines.
type CopyProgressFunc func(done, total int, record domain.FontRecord, outcome domain.CopyOutcome)

// Pipeline runs scan, filter and copy as one operation and reports the
// aggregate result.
type Pipeline struct {
	FS             FileSystem
	Names          NameReader
	Logger         Logger
	Reporter       Reporter
	SkipUnreadable bool

	OnFound   ScanProgressFunc
	OnScanned func(found, matched int)
	OnCopied  CopyProgressFunc
}

func (p *Pipeline) log() Logger {
	if p.Logger == nil {
		return nopLogger{}
	}
	return p.Logger
}

func (p *Pipeline) report(summary domain.OperationSummary) {
	if p.Reporter == nil {
		return
	}
	p.Reporter.Summary(summary)
}

// List discovers and filters fonts without copying anything.
func (p *Pipeline) List(ctx context.Context, req ListRequest) ([]domain.FontRecord, domain.OperationSummary, error) {
	if p.FS == nil || p.Names == nil {
		return nil, domain.OperationSummary{}, errors.New("pipeline requires FS and Names")
	}

	start := time.Now()
	summary := domain.OperationSummary{
		Kind:      domain.SummaryListed,
		Source:    req.Source,
		Pattern:   patternOrDefault(req.Pattern),
		Verbosity: req.Verbosity,
	}

	matched, err := p.discover(ctx, req.Source, req.Pattern, &summary)
	if err != nil {
		return nil, summary, err
	}
	summary.Duration = time.Since(start)
	p.report(summary)
	return matched, summary, nil
}

// Run executes the full extract operation. Fatal errors (bad pattern,
// missing source, unusable destination, an abort on copy failure, or
// cancellation) are returned; per-file copy failures are only counted.
func (p *Pipeline) Run(ctx context.Context, req Request) (domain.OperationSummary, error) {
	if p.FS == nil || p.Names == nil {
		return domain.OperationSummary{}, errors.New("pipeline requires FS and Names")
	}

	start := time.Now()
	summary := domain.OperationSummary{
		Kind:        domain.SummaryProcessed,
		Source:      req.Source,
		Destination: req.Destination,
		Pattern:     patternOrDefault(req.Pattern),
		Force:       req.Force,
		DryRun:      req.DryRun,
		Verbosity:   req.Verbosity,
	}

	matched, err := p.discover(ctx, req.Source, req.Pattern, &summary)
	if err != nil {
		return summary, err
	}
	if summary.Kind != domain.SummaryProcessed {
		summary.Duration = time.Since(start)
		p.report(summary)
		return summary, nil
	}

	if !req.DryRun {
		if err := p.FS.MkdirAll(req.Destination, 0o755); err != nil {
			return summary, &PathError{Op: ErrDestination, Path: req.Destination, Err: err}
		}
	}

	p.log().Task("Copying fonts")
	if req.Concurrency > 1 {
		err = p.copyParallel(ctx, matched, req, &summary)
	} else {
		err = p.copySequential(ctx, matched, req, &summary)
	}
	if err != nil {
		return summary, err
	}
	p.log().Successf("Finished copying fonts")

	summary.Duration = time.Since(start)
	p.report(summary)
	return summary, nil
}

// discover validates the inputs, scans and filters. It sets summary.Kind
// to NothingFound or NothingMatched when the run should end early.
func (p *Pipeline) discover(ctx context.Context, source, pattern string, summary *domain.OperationSummary) ([]domain.FontRecord, error) {
	log := p.log()

	match, err := CompilePattern(pattern)
	if err != nil {
		return nil, err
	}
	if !p.FS.DirExists(source) {
		return nil, &PathError{Op: ErrSourceMissing, Path: source}
	}

	log.Task("Searching fonts in " + source)
	scanner := Scanner{
		FS:             p.FS,
		Names:          p.Names,
		Logger:         log,
		SkipUnreadable: p.SkipUnreadable,
		OnProgress:     p.OnFound,
	}
	records, err := scanner.Scan(ctx, source)
	if err != nil {
		return nil, err
	}
	summary.Found = len(records)

	if len(records) == 0 {
		summary.Kind = domain.SummaryNothingFound
		log.Warnf("No fonts found in source directory %q", source)
		p.scanned(0, 0)
		return nil, nil
	}

	matched := Filter(records, match)
	summary.Filtered = len(matched)
	p.scanned(len(records), len(matched))

	if len(matched) == 0 {
		summary.Kind = domain.SummaryNothingMatched
		log.Warnf("No fonts matched filter %q (%d fonts total)", summary.Pattern, len(records))
		return nil, nil
	}

	if summary.Pattern != DefaultPattern {
		log.Successf("Found %d fonts matching %q (%d fonts total)", len(matched), summary.Pattern, len(records))
	} else {
		log.Successf("Found %d fonts", len(matched))
	}
	return matched, nil
}

func (p *Pipeline) scanned(found, matched int) {
	if p.OnScanned != nil {
		p.OnScanned(found, matched)
	}
}

func (p *Pipeline) copySequential(ctx context.Context, records []domain.FontRecord, req Request, summary *domain.OperationSummary) error {
	copier := Copier{FS: p.FS}
	for i, record := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		dest := record.DestinationPath(req.Destination)
		outcome := copier.Copy(record.Path, dest, req.Force, req.DryRun)
		summary.Record(outcome)
		p.logOutcome(record, dest, outcome, req.AbortOnError)
		if p.OnCopied != nil {
			p.OnCopied(i+1, len(records), record, outcome)
		}
		if outcome.Status == domain.CopyFailed && req.AbortOnError {
			return &PathError{Op: ErrCopyAborted, Path: dest, Err: outcome.Cause}
		}
	}
	return nil
}

// copyParallel copies with at most req.Concurrency copies in flight.
// Records sharing a destination path form one group that a single goroutine
// copies in scan order, so duplicate names resolve the same way they do
// sequentially. Outcomes are stored by index and folded into the summary
// after all goroutines have joined. With AbortOnError no new copy is
// started once a failure has been seen; copies already running still
// finish.
func (p *Pipeline) copyParallel(ctx context.Context, records []domain.FontRecord, req Request, summary *domain.OperationSummary) error {
	copier := Copier{FS: p.FS}
	outcomes := make([]domain.CopyOutcome, len(records))
	attempted := make([]bool, len(records))

	var failed atomic.Bool
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(req.Concurrency)

	for _, group := range groupByDestination(records, req.Destination) {
		if gctx.Err() != nil || (req.AbortOnError && failed.Load()) {
			break
		}
		g.Go(func() error {
			for _, i := range group {
				if gctx.Err() != nil || (req.AbortOnError && failed.Load()) {
					return nil
				}
				record := records[i]
				dest := record.DestinationPath(req.Destination)
				outcome := copier.Copy(record.Path, dest, req.Force, req.DryRun)
				outcomes[i] = outcome
				attempted[i] = true
				if outcome.Status == domain.CopyFailed {
					failed.Store(true)
				}
				p.logOutcome(record, dest, outcome, req.AbortOnError)
				if p.OnCopied != nil {
					p.OnCopied(int(done.Add(1)), len(records), record, outcome)
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	for i := range records {
		if attempted[i] {
			summary.Record(outcomes[i])
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if req.AbortOnError {
		for i, outcome := range outcomes {
			if attempted[i] && outcome.Status == domain.CopyFailed {
				return &PathError{Op: ErrCopyAborted, Path: records[i].DestinationPath(req.Destination), Err: outcome.Cause}
			}
		}
	}
	return nil
}

// groupByDestination returns record indices grouped by destination path,
// groups ordered by their first record.
func groupByDestination(records []domain.FontRecord, destination string) [][]int {
	var groups [][]int
	byPath := make(map[string]int, len(records))
	for i, record := range records {
		dest := record.DestinationPath(destination)
		g, ok := byPath[dest]
		if !ok {
			g = len(groups)
			byPath[dest] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}
	return groups
}

func (p *Pipeline) logOutcome(record domain.FontRecord, dest string, outcome domain.CopyOutcome, abortOnError bool) {
	log := p.log()
	switch outcome.Status {
	case domain.CopySuccess:
		log.Debugf("Copied %q to %q", record.Name, dest)
	case domain.CopyOverridden:
		log.Debugf("Overwrote %q with %q", dest, record.Name)
	case domain.CopySkipped:
		log.Warnf("File %q already exists (use --force to overwrite)", dest)
	case domain.CopyFailed:
		if abortOnError {
			log.Errorf("Failed to copy %q: %v", dest, outcome.Cause)
		} else {
			log.Errorf("Failed to copy %q (use --abort-on-error to abort on errors): %v", dest, outcome.Cause)
		}
	default:
		panic("unknown copy status")
	}
}

func patternOrDefault(pattern string) string {
	if pattern == "" {
		return DefaultPattern
	}
	return pattern
}
