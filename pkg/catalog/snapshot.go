// SPDX-License-Identifier: Apache-2.0

// Package catalog turns a live pg_depend query (or a static JSON fixture,
// for tests) into the scheduler.CatalogSnapshot the scheduler's contract
// requires. Catalog extraction itself is named out of scope for the
// scheduler/formatter core (spec.md §1), but a real implementation lives
// here so the CLI front end is runnable end to end.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/pgdelta/pgdelta/pkg/change"
	"github.com/pgdelta/pgdelta/pkg/scheduler"
)

// FormatVersion is the version of the snapshot JSON shape this reader
// understands, compared against a loaded fixture's declared version the
// same way pkg/state/version.go compares pgroll binary and schema
// versions with golang.org/x/mod/semver.
const FormatVersion = "v1.0.0"

// ErrUnsupportedSnapshotVersion is returned when a fixture declares a
// format version newer than this reader understands.
var ErrUnsupportedSnapshotVersion = fmt.Errorf("catalog snapshot format version is newer than this reader supports")

// dependRow is the shape of one row returned by the pg_depend query below,
// before it is turned into a scheduler.DependencyRow. Object identity is
// resolved to a change.StableID by the diff layer's catalog readers; this
// package only classifies the handful of object kinds needed to keep
// dependency rows it cannot classify from blocking scheduling (they become
// change.Unknown IDs, which the scheduler tolerates and skips).
type dependRow struct {
	DependentKind    string
	DependentSchema  string
	DependentName    string
	ReferencedKind   string
	ReferencedSchema string
	ReferencedName   string
}

// pgDependQuery extracts (dependent, referenced) relation pairs from
// pg_depend joined to pg_class/pg_namespace on both sides, restricted to
// normal ('n') and automatic ('a') dependency entries, which are the ones
// that impose a real creation order. Only objects with a pg_class row
// (tables, views, sequences, indexes, ...) appear; functions do not.
const pgDependQuery = `
SELECT
	dep_cls.relkind        AS dependent_kind,
	dep_ns.nspname         AS dependent_schema,
	dep_cls.relname        AS dependent_name,
	ref_cls.relkind        AS referenced_kind,
	ref_ns.nspname         AS referenced_schema,
	ref_cls.relname        AS referenced_name
FROM pg_depend d
JOIN pg_class dep_cls ON dep_cls.oid = d.objid
JOIN pg_namespace dep_ns ON dep_ns.oid = dep_cls.relnamespace
JOIN pg_class ref_cls ON ref_cls.oid = d.refobjid
JOIN pg_namespace ref_ns ON ref_ns.oid = ref_cls.relnamespace
WHERE d.deptype IN ('n', 'a')
  AND dep_cls.oid <> ref_cls.oid
`

// Reader loads catalog dependency rows for one named catalog (main or
// branch) over a DB connection.
type Reader struct {
	db DB
}

// NewReader wraps db in a Reader.
func NewReader(db DB) *Reader {
	return &Reader{db: db}
}

// Load runs the pg_depend query against the reader's connection and
// returns the scheduler.CatalogSnapshot the scheduler's contract requires.
func (r *Reader) Load(ctx context.Context) (scheduler.CatalogSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, pgDependQuery)
	if err != nil {
		return scheduler.CatalogSnapshot{}, fmt.Errorf("querying pg_depend: %w", err)
	}
	defer rows.Close()

	var snapshot scheduler.CatalogSnapshot
	for rows.Next() {
		var row dependRow
		if err := rows.Scan(
			&row.DependentKind, &row.DependentSchema, &row.DependentName,
			&row.ReferencedKind, &row.ReferencedSchema, &row.ReferencedName,
		); err != nil {
			return scheduler.CatalogSnapshot{}, fmt.Errorf("scanning pg_depend row: %w", err)
		}

		snapshot.Rows = append(snapshot.Rows, scheduler.DependencyRow{
			Dependent:  classify(row.DependentKind, row.DependentSchema, row.DependentName),
			Referenced: classify(row.ReferencedKind, row.ReferencedSchema, row.ReferencedName),
		})
	}
	if err := rows.Err(); err != nil {
		return scheduler.CatalogSnapshot{}, fmt.Errorf("iterating pg_depend rows: %w", err)
	}

	return snapshot, nil
}

// classify maps a pg_class.relkind code to a change.StableID constructor.
// Kinds this reader doesn't recognize become change.Unknown IDs, which the
// scheduler discards rather than treating as an error (spec.md §4.1 step 2).
func classify(relkind, schema, name string) change.StableID {
	switch relkind {
	case "r", "p":
		return change.Table(schema, name)
	case "v", "m":
		return change.Table(schema, name)
	case "S":
		return change.Sequence(schema, name)
	case "i":
		return change.Index(schema, name)
	default:
		return change.Unknown(fmt.Sprintf("%s:%s.%s", relkind, schema, name))
	}
}

// fixtureFile is the on-disk shape of a static snapshot fixture, used by
// scheduler/formatter integration tests that don't want a live database.
type fixtureFile struct {
	Version string              `json:"version"`
	Rows    []fixtureDependency `json:"rows"`
}

type fixtureDependency struct {
	Dependent  string `json:"dependent"`
	Referenced string `json:"referenced"`
}

// LoadFixture reads a JSON catalog snapshot fixture of the shape written by
// WriteFixture. Fixtures are used by tests that exercise the scheduler
// against recorded dependency rows without a live Postgres instance.
func LoadFixture(r io.Reader) (scheduler.CatalogSnapshot, error) {
	var f fixtureFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return scheduler.CatalogSnapshot{}, fmt.Errorf("decoding catalog snapshot fixture: %w", err)
	}

	if semver.Compare(ensureVPrefix(f.Version), FormatVersion) > 0 {
		return scheduler.CatalogSnapshot{}, ErrUnsupportedSnapshotVersion
	}

	snapshot := scheduler.CatalogSnapshot{Rows: make([]scheduler.DependencyRow, 0, len(f.Rows))}
	for _, row := range f.Rows {
		snapshot.Rows = append(snapshot.Rows, scheduler.DependencyRow{
			Dependent:  change.StableID(row.Dependent),
			Referenced: change.StableID(row.Referenced),
		})
	}
	return snapshot, nil
}

// WriteFixture serializes snapshot to the JSON shape LoadFixture reads.
func WriteFixture(w io.Writer, snapshot scheduler.CatalogSnapshot) error {
	f := fixtureFile{Version: FormatVersion, Rows: make([]fixtureDependency, 0, len(snapshot.Rows))}
	for _, row := range snapshot.Rows {
		f.Rows = append(f.Rows, fixtureDependency{
			Dependent:  string(row.Dependent),
			Referenced: string(row.Referenced),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(f)
}

func ensureVPrefix(version string) string {
	if version != "" && !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}
