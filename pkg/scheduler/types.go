// SPDX-License-Identifier: Apache-2.0

// Package scheduler orders a heterogeneous set of change.Change records
// into a dependency-safe execution sequence. It runs in two phases (drop,
// then create/alter) that mirror how DDL is actually applied, building a
// dependency graph from three sources per phase (catalog pg_depend rows,
// each change's own declared requirements, and a small set of built-in
// ordering rules), iteratively breaking any cycles that remain, and
// finishing with a stable topological sort.
//
// The package is pure: no I/O, no goroutines, no shared mutable state. A
// call either returns an ordering or a CycleError; see errors.go.
package scheduler

import "github.com/pgdelta/pgdelta/pkg/change"

// Phase is one of the two passes the scheduler runs, in order.
type Phase int

const (
	PhaseDrop Phase = iota
	PhaseCreateAlter
)

func (p Phase) String() string {
	if p == PhaseDrop {
		return "drop"
	}
	return "create_alter"
}

// DependencyRow is a single (dependent, referenced) pair extracted from
// pg_depend: referenced must exist before dependent runs.
type DependencyRow struct {
	Dependent  change.StableID
	Referenced change.StableID
}

// CatalogSnapshot is an ordered list of dependency rows from one catalog
// (main or branch). It is the entire contract the scheduler needs from
// catalog extraction (spec.md §6) — no other catalog fields are consulted.
type CatalogSnapshot struct {
	Rows []DependencyRow
}

// ConstraintKind identifies which of the three sources produced a
// Constraint, preserved on the lowered Edge for diagnostics and for the
// cycle-breaking filter, which only ever removes Catalog-sourced edges.
type ConstraintKind int

const (
	ConstraintCatalog ConstraintKind = iota
	ConstraintExplicit
	ConstraintCustom
)

func (k ConstraintKind) String() string {
	switch k {
	case ConstraintCatalog:
		return "catalog"
	case ConstraintExplicit:
		return "explicit"
	default:
		return "custom"
	}
}

// Constraint is an ordering requirement between two change indices,
// before phase inversion is applied. SourceIdx must run before TargetIdx.
//
// DependentID/ReferencedID are populated for Catalog and Explicit
// constraints (DependentID empty when the originating change has no
// Creates, per spec.md §4.1 step 2). Description is populated only for
// Custom constraints.
type Constraint struct {
	Kind         ConstraintKind
	SourceIdx    int
	TargetIdx    int
	DependentID  change.StableID
	ReferencedID change.StableID
	Description  string
}

// Edge is a Constraint lowered to a directed pair, with phase inversion
// (drop phase) already applied to SourceIdx/TargetIdx.
type Edge struct {
	Source     int
	Target     int
	Constraint Constraint
}
