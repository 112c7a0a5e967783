package main

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"fontex/internal/app"
	"fontex/internal/domain"
	appErrors "fontex/internal/errors"
	"fontex/internal/infra/fontname"
	"fontex/internal/infra/fs"
	"fontex/internal/presentation"
	"fontex/internal/tui"
)

// NewExtractCommand creates the extract command
func NewExtractCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <target-dir>",
		Short: "Copy installed fonts to a directory",
		Long: `Copy the fonts found in the source directory to <target-dir>. Each font
is saved as <PostScriptName>.<ext>. Existing files are kept unless
--force is given.

Examples:
  fontex extract ./fonts
  fontex extract ./fonts -g "Roboto*" --force
  fontex extract ./fonts --dry-run -v debug
  fontex extract ./fonts -j 4 --interactive`,
		Args: cobra.ExactArgs(1),
		RunE: runExtract,
	}

	addCommonFlags(cmd)
	cmd.Flags().BoolP("force", "f", false, "Overwrite fonts that already exist in the target directory")
	cmd.Flags().BoolP("dry-run", "d", false, "Show what would be copied without writing anything")
	cmd.Flags().BoolP("abort-on-error", "a", false, "Stop at the first font that fails to copy")
	cmd.Flags().IntP("jobs", "j", 1, "Number of fonts copied in parallel")
	cmd.Flags().BoolP("interactive", "i", false, "Show a progress UI (requires a terminal)")

	return cmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	target, err := filepath.Abs(args[0])
	if err != nil {
		return fail(s.log, appErrors.Wrap(appErrors.InvalidConfig, "target", args[0], err))
	}

	req := app.Request{
		Source:       s.source.Path,
		Destination:  target,
		Pattern:      s.cfg.Pattern,
		Force:        s.cfg.Force,
		DryRun:       s.cfg.DryRun,
		AbortOnError: s.cfg.AbortOnError,
		Concurrency:  s.cfg.Jobs,
		Verbosity:    string(s.cfg.Verbosity),
	}

	if s.cfg.Interactive {
		if isTerminal(cmd.OutOrStdout()) && !s.log.JSON() {
			return s.extractInteractive(cmd.Context(), req)
		}
		s.log.Warnf("--interactive needs a terminal, falling back to plain output")
	}

	printer := presentation.Printer{Log: s.log}
	printer.Header(banner)

	pipeline := &app.Pipeline{
		FS:             fs.OSFS{},
		Names:          fontname.Reader{},
		Logger:         s.log,
		Reporter:       printer,
		SkipUnreadable: s.cfg.SkipUnreadable,
	}
	if req.DryRun {
		plan := &dryRunReporter{printer: printer, destination: target}
		pipeline.Reporter = plan
		pipeline.OnCopied = plan.record
	}

	summary, err := pipeline.Run(cmd.Context(), req)
	if err != nil {
		return fail(s.log, s.classify(err))
	}
	return exitWith(summary.ExitCode())
}

// dryRunReporter collects the copies a dry run would make and prints them
// ahead of the summary.
type dryRunReporter struct {
	printer     presentation.Printer
	destination string

	mu    sync.Mutex
	lines []presentation.CopyLine
}

func (r *dryRunReporter) record(_, _ int, record domain.FontRecord, outcome domain.CopyOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, presentation.CopyLine{
		Record:      record,
		Destination: record.DestinationPath(r.destination),
		Outcome:     outcome,
	})
}

func (r *dryRunReporter) Summary(summary domain.OperationSummary) {
	r.mu.Lock()
	lines := slices.Clone(r.lines)
	r.mu.Unlock()

	// Parallel copies report in completion order.
	slices.SortStableFunc(lines, func(a, b presentation.CopyLine) int {
		return strings.Compare(a.Record.Path, b.Record.Path)
	})
	if len(lines) > 0 {
		r.printer.PrintDryRun(lines)
	}
	r.printer.Summary(summary)
}

// extractInteractive runs the pipeline behind the bubbletea UI. Pipeline
// progress is forwarded to the program as messages.
func (s *session) extractInteractive(ctx context.Context, req app.Request) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var program *tea.Program
	pipeline := &app.Pipeline{
		FS:             fs.OSFS{},
		Names:          fontname.Reader{},
		SkipUnreadable: s.cfg.SkipUnreadable,
		OnFound: func(found int, _ string) {
			program.Send(tui.ScanProgressMsg{Found: found})
		},
		OnScanned: func(found, matched int) {
			program.Send(tui.ScanDoneMsg{Found: found, Matched: matched})
		},
		OnCopied: func(done, total int, record domain.FontRecord, outcome domain.CopyOutcome) {
			program.Send(tui.CopyProgressMsg{Current: done, Total: total, File: record.Name, Outcome: outcome})
		},
	}

	model := tui.NewModel(tui.Config{
		SourceDir: req.Source,
		TargetDir: req.Destination,
		DryRun:    req.DryRun,
		Cancel:    cancel,
		Start: func() tea.Msg {
			summary, err := pipeline.Run(ctx, req)
			if err != nil {
				return tui.ErrorMsg{Err: errors.New(appErrors.UserMessage(s.classify(err)))}
			}
			return tui.DoneMsg{Summary: summary}
		},
	})
	program = tea.NewProgram(model)

	final, err := program.Run()
	if err != nil {
		return fail(s.log, appErrors.Wrap(appErrors.Internal, "tui", "", err))
	}

	m, ok := final.(tui.Model)
	if !ok {
		return fail(s.log, appErrors.Wrap(appErrors.Internal, "tui", "", errors.New("unexpected model type")))
	}
	switch m.Phase {
	case tui.PhaseDone:
		return exitWith(m.Summary.ExitCode())
	case tui.PhaseError:
		return exitStatus{code: domain.ExitFailure}
	default:
		return fail(s.log, s.classify(context.Canceled))
	}
}
