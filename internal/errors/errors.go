package errors

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

type Kind string

const (
	InvalidConfig       Kind = "invalid_config"
	InvalidPattern      Kind = "invalid_pattern"
	NotFound            Kind = "not_found"
	UnsupportedPlatform Kind = "unsupported_platform"
	IOFailure           Kind = "io_failure"
	Aborted             Kind = "aborted"
	Internal            Kind = "internal"
)

type AppError struct {
	Kind Kind
	Op   string
	Path string
	Hint string
	Err  error
}

func (e *AppError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Wrap(kind Kind, op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Kind: kind,
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// WithHint attaches a follow-up suggestion that UserMessage appends.
func WithHint(err error, hint string) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		appErr.Hint = hint
	}
	return err
}

func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

func UserMessage(err error) string {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return err.Error()
	}
	msg := message(appErr)
	if appErr.Hint != "" {
		msg += ", " + appErr.Hint
	}
	return msg
}

func message(appErr *AppError) string {
	switch appErr.Kind {
	case InvalidConfig:
		return fmt.Sprintf("Invalid configuration: %v", appErr.Err)
	case InvalidPattern:
		return fmt.Sprintf("Invalid filter pattern %q", appErr.Path)
	case NotFound:
		return fmt.Sprintf("Source directory %q does not exist", appErr.Path)
	case UnsupportedPlatform:
		return fmt.Sprintf("Unsupported platform: %v", appErr.Err)
	case IOFailure:
		return fmt.Sprintf("I/O error: %s: %v", appErr.Path, appErr.Err)
	case Aborted:
		return fmt.Sprintf("Aborted: %v", appErr.Err)
	default:
		return fmt.Sprintf("Unexpected error: %v", appErr.Err)
	}
}
