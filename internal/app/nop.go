package app

import "fontex/internal/domain"

type nopLogger struct{}

func (nopLogger) Task(string)             {}
func (nopLogger) Debugf(string, ...any)   {}
func (nopLogger) Infof(string, ...any)    {}
func (nopLogger) Successf(string, ...any) {}
func (nopLogger) Warnf(string, ...any)    {}
func (nopLogger) Errorf(string, ...any)   {}
func (nopLogger) Measure(string) func()   { return func() {} }

type nopReporter struct{}

func (nopReporter) Summary(domain.OperationSummary) {}
