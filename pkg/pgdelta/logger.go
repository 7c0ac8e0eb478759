// SPDX-License-Identifier: Apache-2.0

// Package pgdelta wires pkg/catalog, pkg/change, pkg/scheduler, and
// pkg/sqlfmt together into the diff-planning pipeline spec.md §2
// describes: extract two catalog snapshots, collect Change records,
// schedule them, serialize, and format. The pure core (scheduler,
// sqlfmt) never imports this package; this package imports them.
package pgdelta

import "github.com/pterm/pterm"

// Logger is responsible for logging the lifecycle of one diff-planning
// run, mirroring pkg/migrations.Logger's one-method-per-event shape.
type Logger interface {
	LogSnapshotLoaded(catalog string, rows int)
	LogScheduleStart(changeCount int)
	LogScheduleComplete(changeCount int)
	LogFormatStatement(index, total int)

	Info(msg string, args ...any)
}

type consoleLogger struct {
	logger pterm.Logger
}

type noopLogger struct{}

// NewLogger returns a Logger backed by pterm.DefaultLogger, the same
// console logger pkg/migrations.NewLogger uses.
func NewLogger() Logger {
	return &consoleLogger{logger: pterm.DefaultLogger}
}

// NewNoopLogger returns a Logger that discards every event, for library
// callers that don't want console output.
func NewNoopLogger() Logger {
	return &noopLogger{}
}

func (l *consoleLogger) LogSnapshotLoaded(catalogName string, rows int) {
	l.logger.Info("loaded catalog snapshot", l.logger.Args([]any{
		"catalog", catalogName,
		"dependency_rows", rows,
	}))
}

func (l *consoleLogger) LogScheduleStart(changeCount int) {
	l.logger.Info("scheduling changes", l.logger.Args([]any{
		"changes", changeCount,
	}))
}

func (l *consoleLogger) LogScheduleComplete(changeCount int) {
	l.logger.Info("changes scheduled", l.logger.Args([]any{
		"changes", changeCount,
	}))
}

func (l *consoleLogger) LogFormatStatement(index, total int) {
	l.logger.Info("formatting statement", l.logger.Args([]any{
		"index", index,
		"total", total,
	}))
}

func (l *consoleLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, l.logger.Args(args))
}

func (l *noopLogger) LogSnapshotLoaded(string, int) {}
func (l *noopLogger) LogScheduleStart(int)          {}
func (l *noopLogger) LogScheduleComplete(int)       {}
func (l *noopLogger) LogFormatStatement(int, int)   {}
func (l *noopLogger) Info(msg string, args ...any)  {}
