// SPDX-License-Identifier: Apache-2.0

package change

import (
	"context"

	pgq "github.com/xataio/pg_query_go/v6"
)

// GenericRawSQL is the fallback Change used when a diff module has only
// raw DDL text and no structured description of the object it affects.
// Requires/Creates/Drops are best-effort: classifyStatement fills in what
// it can infer from the parsed statement head and leaves the rest empty,
// matching spec.md §1's framing of the diff layer as "out of scope" for
// the core — this type exists only so the scheduler and formatter have a
// real, minimal caller to exercise end to end.
type GenericRawSQL struct {
	SQL        string
	op         Operation
	objectType ObjectType
	creates    []StableID
	requires   []StableID
}

// NewGenericRawSQL classifies sql using a real SQL parser (rather than
// string sniffing) to populate enough Change metadata for the scheduler
// to place it in the correct phase, then wraps it as a GenericRawSQL.
// Parse failure degrades gracefully to an object-scope alter with no
// known deps — never an error, since malformed/unknown SQL must still be
// schedulable (spec.md §1 Non-goals: "malformed or unknown constructs are
// passed through unchanged").
func NewGenericRawSQL(sql string) *GenericRawSQL {
	g := &GenericRawSQL{SQL: sql, op: OpAlter, objectType: ObjectTable}
	classifyStatement(sql, g)
	return g
}

func (g *GenericRawSQL) Operation() Operation   { return g.op }
func (g *GenericRawSQL) ObjectType() ObjectType { return g.objectType }
func (g *GenericRawSQL) Scope() Scope           { return ScopeObject }
func (g *GenericRawSQL) Creates() []StableID    { return g.creates }
func (g *GenericRawSQL) Drops() []StableID      { return nil }
func (g *GenericRawSQL) Requires() []StableID   { return g.requires }

func (g *GenericRawSQL) Serialize(ctx context.Context) (string, error) {
	return g.SQL, nil
}

// classifyStatement parses sql with pg_query_go and fills in g's operation,
// object type, and creates/requires sets from the statement head. It
// recognizes only the handful of statement shapes worth special-casing;
// anything else is left as an alter/ObjectTable placeholder and relies on
// catalog dependency rows (not this classification) for ordering safety.
func classifyStatement(sql string, g *GenericRawSQL) {
	tree, err := pgq.Parse(sql)
	if err != nil {
		return
	}
	stmts := tree.GetStmts()
	if len(stmts) != 1 {
		return
	}
	switch node := stmts[0].GetStmt().GetNode().(type) {
	case *pgq.Node_CreateStmt:
		g.op = OpCreate
		g.objectType = ObjectTable
		if rel := node.CreateStmt.GetRelation(); rel != nil {
			g.creates = []StableID{Table(schemaOrPublic(rel.GetSchemaname()), rel.GetRelname())}
			g.requires = []StableID{Schema(schemaOrPublic(rel.GetSchemaname()))}
		}
	case *pgq.Node_ViewStmt:
		g.op = OpCreate
		g.objectType = ObjectView
		if rel := node.ViewStmt.GetView(); rel != nil {
			g.creates = []StableID{Table(schemaOrPublic(rel.GetSchemaname()), rel.GetRelname())}
		}
	case *pgq.Node_IndexStmt:
		g.op = OpCreate
		g.objectType = ObjectIndex
		if node.IndexStmt.GetRelation() != nil {
			g.requires = []StableID{Table(schemaOrPublic(node.IndexStmt.GetRelation().GetSchemaname()), node.IndexStmt.GetRelation().GetRelname())}
		}
	case *pgq.Node_DropStmt:
		g.op = OpDrop
	case *pgq.Node_AlterTableStmt:
		g.op = OpAlter
		g.objectType = ObjectTable
		if rel := node.AlterTableStmt.GetRelation(); rel != nil {
			g.requires = []StableID{Table(schemaOrPublic(rel.GetSchemaname()), rel.GetRelname())}
		}
	}
}

func schemaOrPublic(s string) string {
	if s == "" {
		return "public"
	}
	return s
}
