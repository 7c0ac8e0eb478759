// SPDX-License-Identifier: Apache-2.0

package change

import (
	"context"
	"fmt"
)

// CreateTable is emitted when a table exists on the branch catalog but not
// on main. Column is a minimal column definition; a real diff module would
// carry far more (defaults, collation, generated expressions, ...), but
// the scheduler only ever looks at Creates/Drops/Requires/Serialize.
type CreateTable struct {
	Schema  string
	Name    string
	Columns []ColumnDef
	Owner   string // role name, empty if unspecified
}

// ColumnDef is a single column in a CREATE TABLE column list.
type ColumnDef struct {
	Name       string
	Type       string
	NotNull    bool
	PrimaryKey bool
}

func (c *CreateTable) Operation() Operation   { return OpCreate }
func (c *CreateTable) ObjectType() ObjectType { return ObjectTable }
func (c *CreateTable) Scope() Scope           { return ScopeObject }

func (c *CreateTable) Creates() []StableID {
	ids := []StableID{Table(c.Schema, c.Name)}
	for _, col := range c.Columns {
		ids = append(ids, Column(c.Schema, c.Name, col.Name))
	}
	return ids
}

func (c *CreateTable) Drops() []StableID { return nil }

func (c *CreateTable) Requires() []StableID {
	var ids []StableID
	ids = append(ids, Schema(c.Schema))
	if c.Owner != "" {
		ids = append(ids, Role(c.Owner))
	}
	return ids
}

func (c *CreateTable) Serialize(ctx context.Context) (string, error) {
	cols := ""
	for i, col := range c.Columns {
		if i > 0 {
			cols += ", "
		}
		cols += quoteIdent(col.Name) + " " + col.Type
		if col.NotNull {
			cols += " NOT NULL"
		}
		if col.PrimaryKey {
			cols += " PRIMARY KEY"
		}
	}
	return fmt.Sprintf("CREATE TABLE %s.%s (%s);", quoteIdent(c.Schema), quoteIdent(c.Name), cols), nil
}

// DropTable is emitted when a table exists on main but not on branch.
type DropTable struct {
	Schema string
	Name   string
}

func (d *DropTable) Operation() Operation   { return OpDrop }
func (d *DropTable) ObjectType() ObjectType { return ObjectTable }
func (d *DropTable) Scope() Scope           { return ScopeObject }
func (d *DropTable) Creates() []StableID    { return nil }
func (d *DropTable) Drops() []StableID      { return []StableID{Table(d.Schema, d.Name)} }
func (d *DropTable) Requires() []StableID   { return nil }

func (d *DropTable) Serialize(ctx context.Context) (string, error) {
	return fmt.Sprintf("DROP TABLE %s.%s;", quoteIdent(d.Schema), quoteIdent(d.Name)), nil
}

// quoteIdent double-quotes an identifier, doubling any embedded quote, per
// Postgres's quoted-identifier escaping rule. pkg/sqlfmt uses the same rule
// when it re-tokenizes the statements these Serialize methods produce.
func quoteIdent(name string) string {
	out := make([]byte, 0, len(name)+2)
	out = append(out, '"')
	for i := 0; i < len(name); i++ {
		if name[i] == '"' {
			out = append(out, '"', '"')
		} else {
			out = append(out, name[i])
		}
	}
	out = append(out, '"')
	return string(out)
}
