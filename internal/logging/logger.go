package logging

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

type Verbosity string

const (
	Silent Verbosity = "silent"
	Error  Verbosity = "error"
	Info   Verbosity = "info"
	Debug  Verbosity = "debug"
)

var Verbosities = []Verbosity{Silent, Error, Info, Debug}

func ParseVerbosity(value string) (Verbosity, error) {
	v := Verbosity(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range Verbosities {
		if v == known {
			return v, nil
		}
	}
	return "", errors.Errorf("unknown verbosity %q, use one of silent, error, info, debug", value)
}

// Level maps the verbosity onto the zerolog level that gates messages.
// Warnings are shown from info upwards.
func (v Verbosity) Level() zerolog.Level {
	switch v {
	case Silent:
		return zerolog.Disabled
	case Error:
		return zerolog.ErrorLevel
	case Info:
		return zerolog.InfoLevel
	case Debug:
		return zerolog.DebugLevel
	default:
		panic("unknown verbosity " + string(v))
	}
}

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(value))); f {
	case FormatText, FormatJSON:
		return f, nil
	default:
		return "", errors.Errorf("unknown log format %q, use text or json", value)
	}
}

var (
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E8A87C"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#85DCB0"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F6AE2D"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E85D75")).Bold(true)
	debugStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// Logger delivers leveled messages in emission order, either as prefixed
// console lines or as zerolog JSON events. It is safe for concurrent use.
type Logger struct {
	mu        sync.Mutex
	writer    io.Writer
	format    Format
	verbosity Verbosity
	zlog      zerolog.Logger
	lastBlank bool
}

func New(writer io.Writer, verbosity Verbosity, format Format) *Logger {
	if writer == nil {
		writer = io.Discard
	}
	return &Logger{
		writer:    writer,
		format:    format,
		verbosity: verbosity,
		zlog:      zerolog.New(writer).With().Timestamp().Logger().Level(verbosity.Level()),
		lastBlank: true,
	}
}

// Nop returns a logger that drops everything.
func Nop() *Logger {
	return New(io.Discard, Silent, FormatText)
}

func (l *Logger) Verbosity() Verbosity { return l.verbosity }

func (l *Logger) JSON() bool { return l.format == FormatJSON }

func (l *Logger) enabled(level zerolog.Level) bool {
	threshold := l.zlog.GetLevel()
	return threshold != zerolog.Disabled && level >= threshold
}

func (l *Logger) emit(level zerolog.Level, kind, prefix string, style lipgloss.Style, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.format == FormatJSON {
		l.zlog.WithLevel(level).Str("kind", kind).Msg(msg)
		return
	}
	if !l.enabled(level) {
		return
	}
	line := msg
	if prefix != "" {
		line = style.Render(prefix) + " " + msg
	}
	fmt.Fprintln(l.writer, line)
	l.lastBlank = false
}

// NewLine writes a blank separator line unless the previous line was blank.
func (l *Logger) NewLine() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.format == FormatJSON || l.lastBlank || !l.enabled(zerolog.InfoLevel) {
		return
	}
	fmt.Fprintln(l.writer)
	l.lastBlank = true
}

func (l *Logger) Section(title string) {
	l.NewLine()
	l.emit(zerolog.InfoLevel, "section", "#", sectionStyle, title)
}

// Task announces a step; a trailing ellipsis is added when missing.
func (l *Logger) Task(msg string) {
	l.NewLine()
	if !strings.HasSuffix(msg, "...") {
		msg += "..."
	}
	l.emit(zerolog.InfoLevel, "task", "", lipgloss.Style{}, msg)
}

func (l *Logger) Successf(format string, args ...any) {
	l.emit(zerolog.InfoLevel, "success", "[+]", successStyle, fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...any) {
	l.emit(zerolog.InfoLevel, "info", "[i]", lipgloss.NewStyle(), fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...any) {
	l.emit(zerolog.WarnLevel, "warn", "[!]", warnStyle, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...any) {
	l.emit(zerolog.ErrorLevel, "error", "[-]", errorStyle, fmt.Sprintf(format, args...))
}

func (l *Logger) Debugf(format string, args ...any) {
	l.emit(zerolog.DebugLevel, "debug", "[#]", debugStyle, fmt.Sprintf(format, args...))
}

// Plain writes an unprefixed line at error level, so it is shown for every
// verbosity except silent.
func (l *Logger) Plain(msg string) {
	l.emit(zerolog.ErrorLevel, "line", "", lipgloss.Style{}, msg)
}

// Event emits a structured record. In text mode it is dropped; text callers
// render their own lines.
func (l *Logger) Event(msg string, fields map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.format != FormatJSON {
		return
	}
	l.zlog.Info().Str("kind", "event").Fields(fields).Msg(msg)
}

// Measure returns a stop function that logs the elapsed time when called.
func (l *Logger) Measure(label string) func() {
	if !l.enabled(zerolog.DebugLevel) {
		return func() {}
	}
	start := time.Now()
	return func() {
		elapsed := time.Since(start).Round(time.Millisecond)
		l.Debugf("%s took %s", label, elapsed)
	}
}
