package main

import (
	"github.com/spf13/cobra"

	"fontex/internal/app"
	"fontex/internal/infra/fontname"
	"fontex/internal/infra/fs"
	"fontex/internal/presentation"
)

// NewListCommand creates the list command
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed fonts by PostScript name",
		Long: `List the fonts found in the source directory, one PostScript name per
line. Use --pattern to narrow the list down.

Examples:
  fontex list
  fontex list -g "Roboto*"
  fontex list -s ./fonts -v debug`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	addCommonFlags(cmd)

	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	printer := presentation.Printer{Log: s.log}
	pipeline := &app.Pipeline{
		FS:             fs.OSFS{},
		Names:          fontname.Reader{},
		Logger:         s.log,
		SkipUnreadable: s.cfg.SkipUnreadable,
	}

	fonts, summary, err := pipeline.List(cmd.Context(), app.ListRequest{
		Source:    s.source.Path,
		Pattern:   s.cfg.Pattern,
		Verbosity: string(s.cfg.Verbosity),
	})
	if err != nil {
		return fail(s.log, s.classify(err))
	}

	printer.PrintFonts(fonts)
	printer.Summary(summary)
	return exitWith(summary.ExitCode())
}
