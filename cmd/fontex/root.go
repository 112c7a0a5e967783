package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"fontex/internal/app"
	"fontex/internal/config"
	"fontex/internal/domain"
	appErrors "fontex/internal/errors"
	"fontex/internal/logging"
)

// version is injected at build time via -ldflags "-X main.version=..."
var version = "dev"

const banner = "Adobe Font Extractor"

// exitStatus carries a non-zero exit code out of a command. The command has
// already reported whatever caused it.
type exitStatus struct {
	code domain.ExitCode
}

func (e exitStatus) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func exitWith(code domain.ExitCode) error {
	if code == domain.ExitSuccess {
		return nil
	}
	return exitStatus{code: code}
}

// NewRootCommand creates the fontex command tree.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fontex",
		Short: "Extract fonts installed through Adobe Creative Cloud",
		Long: `fontex finds the fonts Creative Cloud keeps in its hidden CoreSync
directory, names them by their PostScript name and copies them to a
directory of your choice.

Settings are read from ~/.config/fontex/config.yaml and FONTEX_*
environment variables. Flags override both.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewListCommand())
	cmd.AddCommand(NewExtractCommand())

	return cmd
}

// addCommonFlags registers the flags shared by list and extract.
func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("pattern", "g", app.DefaultPattern, "Glob pattern matched against PostScript names")
	cmd.Flags().StringP("source", "s", "", "Font source directory (default: Creative Cloud livetype directory)")
	cmd.Flags().StringP("verbosity", "v", string(logging.Info), "Output verbosity: silent, error, info or debug")
	cmd.Flags().String("log-format", string(logging.FormatText), "Output format: text or json")
	cmd.Flags().String("config", "", "Path to config file (default: ~/.config/fontex/config.yaml)")
	cmd.Flags().Bool("skip-unreadable", false, "Warn about unreadable sub-directories instead of failing")
}

// loadConfig merges defaults, the config file, the environment and the
// flags that were set explicitly, in increasing order of precedence.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return config.Config{}, err
	}

	if flags.Changed("pattern") {
		cfg.Pattern, _ = flags.GetString("pattern")
	}
	if flags.Changed("source") {
		cfg.SourceDir, _ = flags.GetString("source")
	}
	if flags.Changed("verbosity") {
		raw, _ := flags.GetString("verbosity")
		v, err := logging.ParseVerbosity(raw)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Verbosity = v
	}
	if flags.Changed("log-format") {
		raw, _ := flags.GetString("log-format")
		f, err := logging.ParseFormat(raw)
		if err != nil {
			return config.Config{}, err
		}
		cfg.LogFormat = f
	}
	if flags.Lookup("force") != nil && flags.Changed("force") {
		cfg.Force, _ = flags.GetBool("force")
	}
	if flags.Lookup("dry-run") != nil && flags.Changed("dry-run") {
		cfg.DryRun, _ = flags.GetBool("dry-run")
	}
	if flags.Lookup("abort-on-error") != nil && flags.Changed("abort-on-error") {
		cfg.AbortOnError, _ = flags.GetBool("abort-on-error")
	}
	if flags.Lookup("jobs") != nil && flags.Changed("jobs") {
		cfg.Jobs, _ = flags.GetInt("jobs")
	}
	if flags.Changed("skip-unreadable") {
		cfg.SkipUnreadable, _ = flags.GetBool("skip-unreadable")
	}
	if flags.Lookup("interactive") != nil {
		cfg.Interactive, _ = flags.GetBool("interactive")
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// session holds what every command needs once configuration is settled.
type session struct {
	cfg    config.Config
	source config.Source
	log    *logging.Logger
}

func newSession(cmd *cobra.Command) (*session, error) {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(cmd)
	if err != nil {
		// Verbosity is unknown at this point, fall back to the defaults.
		log := logging.New(out, logging.Info, logging.FormatText)
		return nil, fail(log, appErrors.Wrap(appErrors.InvalidConfig, "config", "", err))
	}
	log := logging.New(out, cfg.Verbosity, cfg.LogFormat)

	home, err := os.UserHomeDir()
	if err != nil && cfg.SourceDir == "" {
		return nil, fail(log, appErrors.Wrap(appErrors.InvalidConfig, "home", "", err))
	}
	source, err := config.ResolveSource(cfg.SourceDir, runtime.GOOS, home)
	if err != nil {
		if errors.Is(err, config.ErrUnsupportedPlatform) {
			err = appErrors.WithHint(
				appErrors.Wrap(appErrors.UnsupportedPlatform, "platform", "", err),
				"use --source to point at a font directory",
			)
			return nil, fail(log, err)
		}
		return nil, fail(log, appErrors.Wrap(appErrors.InvalidConfig, "source", cfg.SourceDir, err))
	}

	return &session{cfg: cfg, source: source, log: log}, nil
}

// classify maps pipeline errors onto the user-facing error kinds.
func (s *session) classify(err error) error {
	var pathErr *app.PathError
	path := ""
	if errors.As(err, &pathErr) {
		path = pathErr.Path
	}

	switch {
	case errors.Is(err, app.ErrInvalidPattern):
		return appErrors.Wrap(appErrors.InvalidPattern, "filter", path, err)
	case errors.Is(err, app.ErrSourceMissing):
		wrapped := appErrors.Wrap(appErrors.NotFound, "scan", path, err)
		if !s.source.Custom {
			wrapped = appErrors.WithHint(wrapped, "make sure Adobe Creative Cloud is installed and has fonts activated")
		}
		return wrapped
	case errors.Is(err, app.ErrScanDirectory):
		return appErrors.Wrap(appErrors.IOFailure, "scan", path, err)
	case errors.Is(err, app.ErrDestination):
		return appErrors.Wrap(appErrors.IOFailure, "mkdir", path, err)
	case errors.Is(err, app.ErrCopyAborted):
		return appErrors.Wrap(appErrors.Aborted, "copy", path, err)
	case errors.Is(err, context.Canceled):
		return appErrors.Wrap(appErrors.Aborted, "run", "", errors.New("interrupted"))
	default:
		return appErrors.Wrap(appErrors.Internal, "run", path, err)
	}
}

// fail reports err through the logger and returns the exit status for it.
func fail(log *logging.Logger, err error) error {
	if log.JSON() {
		log.Event("error", map[string]any{
			"kind":    string(appErrors.KindOf(err)),
			"message": appErrors.UserMessage(err),
		})
	} else {
		log.Errorf("%s", appErrors.UserMessage(err))
	}
	return exitStatus{code: domain.ExitFailure}
}

// isTerminal reports whether w is a terminal, which the interactive UI
// requires.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
