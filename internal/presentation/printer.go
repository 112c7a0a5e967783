package presentation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"fontex/internal/domain"
	"fontex/internal/logging"
)

// CopyLine is one attempted copy, kept for the dry-run listing.
type CopyLine struct {
	Record      domain.FontRecord
	Destination string
	Outcome     domain.CopyOutcome
}

// Printer renders command output through the logger, so verbosity and
// format apply to it like to every other message.
type Printer struct {
	Log *logging.Logger
}

func (p Printer) Header(title string) {
	p.Log.Section(cases.Upper(language.Und).String(title))
	p.Log.NewLine()
}

// PrintFonts lists names one per line. The lines are printed at every
// verbosity except silent.
func (p Printer) PrintFonts(records []domain.FontRecord) {
	if p.Log.JSON() {
		for _, r := range records {
			p.Log.Event("font", map[string]any{"name": r.Name, "path": r.Path})
		}
		return
	}
	for _, r := range records {
		p.Log.Plain("- " + r.Name)
	}
}

func (p Printer) PrintDryRun(lines []CopyLine) {
	if p.Log.JSON() {
		for _, l := range lines {
			p.Log.Event("planned copy", map[string]any{
				"name":        l.Record.Name,
				"source":      l.Record.Path,
				"destination": l.Destination,
				"outcome":     l.Outcome.Status.String(),
			})
		}
		return
	}
	p.Log.Section("Would copy")
	for _, line := range FormatCopyLines(lines) {
		p.Log.Infof("%s", line)
	}
}

// Summary implements app.Reporter.
func (p Printer) Summary(s domain.OperationSummary) {
	if p.Log.JSON() {
		p.Log.Event("summary", summaryFields(s))
		return
	}

	switch s.Kind {
	case domain.SummaryNothingFound, domain.SummaryNothingMatched:
		// The pipeline already warned.
		return
	case domain.SummaryListed:
		p.Log.Section("Summary")
		if s.Pattern != "" && s.Pattern != "*" {
			p.Log.Infof("%d of %d fonts match %q", s.Filtered, s.Found, s.Pattern)
		} else {
			p.Log.Infof("%d fonts installed", s.Found)
		}
		return
	case domain.SummaryProcessed:
	default:
		panic("unknown summary kind")
	}

	p.Log.Section("Summary")
	if s.DryRun {
		p.Log.Infof("Dry run, no files were copied")
	}
	p.Log.Infof("Copied %d of %d fonts to %q", s.Succeeded, s.Filtered, RelativePath(s.Destination))
	if s.Skipped > 0 {
		p.Log.Infof("%d %s skipped (already exist)", s.Skipped, plural(s.Skipped, "font"))
	}
	if s.Overridden > 0 {
		p.Log.Infof("%d %s overwritten", s.Overridden, plural(s.Overridden, "font"))
	}
	if s.Failed > 0 {
		p.Log.Errorf("Failed to copy %d %s due to errors", s.Failed, plural(s.Failed, "font"))
	}
	p.Log.Infof("Operation took %.2f ms (verbosity: %s)", float64(s.Duration.Microseconds())/1000, s.Verbosity)
}

func summaryFields(s domain.OperationSummary) map[string]any {
	kind := map[domain.SummaryKind]string{
		domain.SummaryProcessed:      "processed",
		domain.SummaryListed:         "listed",
		domain.SummaryNothingFound:   "nothing_found",
		domain.SummaryNothingMatched: "nothing_matched",
	}[s.Kind]
	return map[string]any{
		"result":      kind,
		"found":       s.Found,
		"filtered":    s.Filtered,
		"succeeded":   s.Succeeded,
		"overridden":  s.Overridden,
		"skipped":     s.Skipped,
		"failed":      s.Failed,
		"source":      s.Source,
		"destination": s.Destination,
		"pattern":     s.Pattern,
		"force":       s.Force,
		"dry_run":     s.DryRun,
		"verbosity":   s.Verbosity,
		"duration_ms": s.Duration.Milliseconds(),
		"exit_code":   int(s.ExitCode()),
	}
}

// FormatCopyLines renders copy lines, collapsing long lists to the first
// two and last two entries.
func FormatCopyLines(items []CopyLine) []string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%-10s %s -> %s", item.Outcome.Status, item.Record.Name, RelativePath(item.Destination)))
	}

	if len(lines) <= 4 {
		return lines
	}
	head := lines[:2]
	tail := lines[len(lines)-2:]
	return append(append(head, fmt.Sprintf("... %d more ...", len(lines)-4)), tail...)
}

// RelativePath renders path relative to the working directory when that
// is shorter, falling back to the path itself.
func RelativePath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil || strings.HasPrefix(rel, ".."+string(filepath.Separator)+"..") {
		return path
	}
	return rel
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
