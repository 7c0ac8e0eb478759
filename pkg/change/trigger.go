// SPDX-License-Identifier: Apache-2.0

package change

import (
	"context"
	"fmt"
)

// CreateTrigger is emitted for a new trigger. FunctionSignature is
// populated by the diff layer when it knows the trigger's EXECUTE
// FUNCTION target (schema-qualified name plus arg types); it is left
// empty when the diff layer only has the trigger's raw definition text
// and did not parse out the function reference.
//
// Decision (spec.md §9 Q2): the function-dependency edge is emitted only
// when FunctionSignature is non-empty, i.e. only when the diff layer
// positively identified the function. We do not guess a dependency from
// unparsed trigger text, since a wrong guess is worse than a missing one
// here — Catalog-sourced dependency rows (§4.1) already cover the case
// where pg_depend knows about the function, so this Requires edge is a
// best-effort addition for Explicit-constraint coverage, not the only
// source of ordering safety.
type CreateTrigger struct {
	Schema            string
	Table             string
	Name              string
	FunctionSignature string // e.g. "public.set_updated_at()"; empty if unknown
	Definition        string // full trigger body, passed through Serialize verbatim
}

func (c *CreateTrigger) Operation() Operation   { return OpCreate }
func (c *CreateTrigger) ObjectType() ObjectType { return ObjectTrigger }
func (c *CreateTrigger) Scope() Scope           { return ScopeObject }

func (c *CreateTrigger) Creates() []StableID {
	return []StableID{Trigger(c.Schema, c.Table, c.Name)}
}

func (c *CreateTrigger) Drops() []StableID { return nil }

func (c *CreateTrigger) Requires() []StableID {
	ids := []StableID{Table(c.Schema, c.Table)}
	if c.FunctionSignature != "" {
		// FunctionSignature is already schema-qualified with its argument
		// type list, so it maps onto a procedure stable ID directly.
		ids = append(ids, StableID("procedure:"+c.FunctionSignature))
	}
	return ids
}

func (c *CreateTrigger) Serialize(ctx context.Context) (string, error) {
	return c.Definition, nil
}

// DropTrigger is emitted when a trigger exists on main but not branch.
type DropTrigger struct {
	Schema string
	Table  string
	Name   string
}

func (d *DropTrigger) Operation() Operation   { return OpDrop }
func (d *DropTrigger) ObjectType() ObjectType { return ObjectTrigger }
func (d *DropTrigger) Scope() Scope           { return ScopeObject }
func (d *DropTrigger) Creates() []StableID    { return nil }

func (d *DropTrigger) Drops() []StableID {
	return []StableID{Trigger(d.Schema, d.Table, d.Name)}
}

func (d *DropTrigger) Requires() []StableID { return nil }

// Serialize produces raw (unformatted) DDL text; pkg/sqlfmt is responsible
// for normalizing it through the same dispatch path every statement uses
// (spec.md §9 Q1); DROP TRIGGER has no dedicated structural formatter and
// lands on formatGeneric. There is deliberately no second, hand-joined
// variant here.
func (d *DropTrigger) Serialize(ctx context.Context) (string, error) {
	return fmt.Sprintf("DROP TRIGGER %s ON %s.%s;", quoteIdent(d.Name), quoteIdent(d.Schema), quoteIdent(d.Table)), nil
}
