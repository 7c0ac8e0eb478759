// SPDX-License-Identifier: Apache-2.0

package change

import (
	"context"
	"fmt"
)

// CreateSequence is emitted for a new sequence, including the implicit
// sequences backing `serial`/`identity` columns. OwnedBy, when set, is the
// column whose default calls nextval() on this sequence; pg_depend records
// a dependency edge in *both* directions between a sequence and the column
// it is owned by (sequence->column via OWNED BY, column->sequence via the
// DEFAULT nextval() expression), which is exactly the false-positive cycle
// the scheduler's sequence-ownership suppression rule exists to break.
type CreateSequence struct {
	Schema  string
	Name    string
	OwnedBy *ColumnRef
}

// ColumnRef names a column without importing the table/column definition
// types from table.go.
type ColumnRef struct {
	Schema string
	Table  string
	Column string
}

func (c *CreateSequence) Operation() Operation   { return OpCreate }
func (c *CreateSequence) ObjectType() ObjectType { return ObjectSequence }
func (c *CreateSequence) Scope() Scope           { return ScopeObject }
func (c *CreateSequence) Creates() []StableID    { return []StableID{Sequence(c.Schema, c.Name)} }
func (c *CreateSequence) Drops() []StableID      { return nil }

func (c *CreateSequence) Requires() []StableID {
	return []StableID{Schema(c.Schema)}
}

func (c *CreateSequence) Serialize(ctx context.Context) (string, error) {
	stmt := fmt.Sprintf("CREATE SEQUENCE %s.%s;", quoteIdent(c.Schema), quoteIdent(c.Name))
	if c.OwnedBy != nil {
		stmt += fmt.Sprintf(" ALTER SEQUENCE %s.%s OWNED BY %s.%s.%s;",
			quoteIdent(c.Schema), quoteIdent(c.Name),
			quoteIdent(c.OwnedBy.Schema), quoteIdent(c.OwnedBy.Table), quoteIdent(c.OwnedBy.Column))
	}
	return stmt, nil
}

// DropSequence is emitted when a sequence exists on main but not branch.
type DropSequence struct {
	Schema string
	Name   string
}

func (d *DropSequence) Operation() Operation   { return OpDrop }
func (d *DropSequence) ObjectType() ObjectType { return ObjectSequence }
func (d *DropSequence) Scope() Scope           { return ScopeObject }
func (d *DropSequence) Creates() []StableID    { return nil }
func (d *DropSequence) Drops() []StableID      { return []StableID{Sequence(d.Schema, d.Name)} }
func (d *DropSequence) Requires() []StableID   { return nil }

func (d *DropSequence) Serialize(ctx context.Context) (string, error) {
	return fmt.Sprintf("DROP SEQUENCE %s.%s;", quoteIdent(d.Schema), quoteIdent(d.Name)), nil
}
