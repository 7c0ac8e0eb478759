// SPDX-License-Identifier: Apache-2.0

package pgdelta

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgdelta/pgdelta/pkg/change"
	"github.com/pgdelta/pgdelta/pkg/scheduler"
	"github.com/pgdelta/pgdelta/pkg/sqlfmt"
)

// Plan is the data-flow pipeline spec.md §2 describes: per-object diff
// modules produce Change records (out of core scope; supplied by the
// caller here), the scheduler orders them, each change's Serialize
// yields raw DDL, and the formatter normalizes the concatenated script.
type Plan struct {
	RunID string
	// Changes is the scheduler's output: the input changes, reordered into
	// an execution-safe sequence.
	Changes []change.Change
	// Statements is Changes serialized and, when FormatOptions is set on
	// the PlanOptions, passed through pkg/sqlfmt one statement at a time.
	Statements []string
}

// PlanOptions configures one call to PlanChanges.
type PlanOptions struct {
	// Format, when non-nil, is applied to every serialized statement. A
	// nil Format skips formatting and returns raw DDL as the diff modules
	// produced it.
	Format *change.FormatOptions
}

// PlanChanges runs the scheduler over changes using the two catalog
// snapshots, serializes the ordered result, and optionally formats each
// statement. This is the orchestration layer spec.md §1 calls out as an
// external collaborator of the core: it contains no scheduling or
// formatting logic of its own, only wiring.
func PlanChanges(ctx context.Context, changes []change.Change, main, branch scheduler.CatalogSnapshot, opts PlanOptions, logger Logger) (*Plan, error) {
	if logger == nil {
		logger = NewNoopLogger()
	}

	runID := NewRunID()
	logger.LogSnapshotLoaded("main", len(main.Rows))
	logger.LogSnapshotLoaded("branch", len(branch.Rows))

	if err := change.ValidateBatch(changes); err != nil {
		return nil, fmt.Errorf("validating changes: %w", err)
	}

	logger.LogScheduleStart(len(changes))
	ordered, err := scheduler.Schedule(scheduler.PreSort(changes), main, branch)
	if err != nil {
		return nil, fmt.Errorf("scheduling changes: %w", err)
	}
	logger.LogScheduleComplete(len(ordered))

	statements := make([]string, 0, len(ordered))
	for i, c := range ordered {
		stmt, err := c.Serialize(ctx)
		if err != nil {
			return nil, fmt.Errorf("serializing change %d (%s %s): %w", i, c.Operation(), c.ObjectType(), err)
		}
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}

		if opts.Format != nil {
			logger.LogFormatStatement(i, len(ordered))
			stmt = formatSerialized(stmt, *opts.Format)
		}
		statements = append(statements, stmt)
	}

	return &Plan{RunID: runID, Changes: ordered, Statements: statements}, nil
}

// formatSerialized runs one change's serialized DDL through pkg/sqlfmt.
// A change may serialize to more than one semicolon-separated statement
// (CREATE SEQUENCE plus its OWNED BY, for example); each is formatted
// separately so the per-statement structural formatters see one command
// head at a time, then they are rejoined as one script entry for the
// change.
func formatSerialized(stmt string, opts change.FormatOptions) string {
	pieces, safe := sqlfmt.Split(stmt)
	if !safe {
		return stmt
	}
	formatted := make([]string, len(pieces))
	for i, piece := range pieces {
		out := sqlfmt.Format(piece, opts)
		if !strings.HasSuffix(strings.TrimRight(out, " \t\n"), ";") {
			out += ";"
		}
		formatted[i] = out
	}
	return strings.Join(formatted, "\n")
}

// Script joins a Plan's statements into one semicolon-terminated script,
// ready to run against the main database to bring it to the branch state.
func (p *Plan) Script() string {
	var b strings.Builder
	for _, stmt := range p.Statements {
		b.WriteString(stmt)
		if !strings.HasSuffix(strings.TrimRight(stmt, " \t\n"), ";") {
			b.WriteByte(';')
		}
		b.WriteString("\n\n")
	}
	return b.String()
}
