// SPDX-License-Identifier: Apache-2.0

package change

import (
	"context"
	"fmt"
	"strings"
)

// GrantPrivilege represents a privilege grant/revoke. It is always an
// alter in the scheduler's phase model (spec.md §4.1 phase assignment:
// "operation=alter, scope=privilege -> create_alter"), regardless of
// whether the underlying SQL is GRANT or REVOKE.
type GrantPrivilege struct {
	Object     StableID
	ObjectKind ObjectType
	Grantee    string
	Privileges []string
	Revoke     bool
}

func (g *GrantPrivilege) Operation() Operation   { return OpAlter }
func (g *GrantPrivilege) ObjectType() ObjectType { return g.ObjectKind }
func (g *GrantPrivilege) Scope() Scope           { return ScopePrivilege }
func (g *GrantPrivilege) Creates() []StableID    { return []StableID{ACL(g.Object, g.Grantee)} }
func (g *GrantPrivilege) Drops() []StableID      { return nil }
func (g *GrantPrivilege) Requires() []StableID   { return []StableID{g.Object, Role(g.Grantee)} }

func (g *GrantPrivilege) Serialize(ctx context.Context) (string, error) {
	verb, prep := "GRANT", "TO"
	if g.Revoke {
		verb, prep = "REVOKE", "FROM"
	}
	return fmt.Sprintf("%s %s ON %s %s %s;",
		verb, strings.Join(g.Privileges, ", "), objectPhrase(g.Object), prep, quoteIdent(g.Grantee)), nil
}

// DefaultPrivilege represents an ALTER DEFAULT PRIVILEGES entry. The
// scheduler's only Custom constraint rule (spec.md §4.1 step 2) orders
// every DefaultPrivilege change before any non-role/non-schema create so
// that objects created later automatically pick up the default grants.
type DefaultPrivilege struct {
	Grantor    string
	TargetKind ObjectType
	Schema     string
	Grantee    string
	Privileges []string
}

func (d *DefaultPrivilege) Operation() Operation   { return OpAlter }
func (d *DefaultPrivilege) ObjectType() ObjectType { return d.TargetKind }
func (d *DefaultPrivilege) Scope() Scope           { return ScopeDefaultPrivilege }

func (d *DefaultPrivilege) Creates() []StableID {
	return []StableID{DefaultACL(d.Grantor, string(d.TargetKind), d.Schema, d.Grantee)}
}

func (d *DefaultPrivilege) Drops() []StableID { return nil }

func (d *DefaultPrivilege) Requires() []StableID {
	return []StableID{Schema(d.Schema), Role(d.Grantor), Role(d.Grantee)}
}

func (d *DefaultPrivilege) Serialize(ctx context.Context) (string, error) {
	return fmt.Sprintf("ALTER DEFAULT PRIVILEGES FOR ROLE %s IN SCHEMA %s GRANT %s ON %ss TO %s;",
		quoteIdent(d.Grantor), quoteIdent(d.Schema), strings.Join(d.Privileges, ", "), d.TargetKind, quoteIdent(d.Grantee)), nil
}
