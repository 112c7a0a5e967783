package domain

import "time"

type ExitCode int

const (
	ExitSuccess ExitCode = 0
	ExitFailure ExitCode = 1
)

type SummaryKind int

const (
	// SummaryProcessed means the copy loop ran to completion.
	SummaryProcessed SummaryKind = iota
	// SummaryListed means matching fonts were listed without copying.
	SummaryListed
	// SummaryNothingFound means the source held no readable fonts.
	SummaryNothingFound
	// SummaryNothingMatched means fonts were found but the pattern matched none.
	SummaryNothingMatched
)

type OperationSummary struct {
	Kind        SummaryKind
	Found       int
	Filtered    int
	Succeeded   int
	Overridden  int
	Skipped     int
	Failed      int
	Source      string
	Destination string
	Pattern     string
	Duration    time.Duration
	Force       bool
	DryRun      bool
	Verbosity   string
}

// Record folds one copy outcome into the counters. Overridden copies count
// as succeeded and are also tracked on their own.
func (s *OperationSummary) Record(outcome CopyOutcome) {
	switch outcome.Status {
	case CopySuccess:
		s.Succeeded++
	case CopyOverridden:
		s.Succeeded++
		s.Overridden++
	case CopySkipped:
		s.Skipped++
	case CopyFailed:
		s.Failed++
	default:
		panic("unknown copy status")
	}
}

// ExitCode is the exit intent of the run. An empty source is "nothing to do"
// and succeeds; a pattern that matched nothing fails. Partial copy failures
// succeed as long as at least one font was copied.
func (s OperationSummary) ExitCode() ExitCode {
	switch s.Kind {
	case SummaryNothingFound, SummaryListed:
		return ExitSuccess
	case SummaryNothingMatched:
		return ExitFailure
	case SummaryProcessed:
		if s.Failed > 0 && s.Succeeded == 0 {
			return ExitFailure
		}
		return ExitSuccess
	default:
		panic("unknown summary kind")
	}
}
