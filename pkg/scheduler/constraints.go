// SPDX-License-Identifier: Apache-2.0

package scheduler

import "github.com/pgdelta/pgdelta/pkg/change"

// buildCatalogConstraints lowers a catalog snapshot's dependency rows to
// Constraints, per spec.md §4.1 step 2: each row (dep, ref) yields a
// constraint from every producer of ref to every change that requires or
// creates dep, subject to the change's AcceptsDependency veto. Rows
// naming an "unknown:" stable ID are discarded.
func buildCatalogConstraints(changes []indexedChange, g *graphData, snapshot CatalogSnapshot) []Constraint {
	var out []Constraint
	for _, row := range snapshot.Rows {
		if row.Dependent.IsUnknown() || row.Referenced.IsUnknown() {
			continue
		}

		producers := g.producersOf[row.Referenced]
		if len(producers) == 0 {
			continue
		}

		consumers := dedupInts(append(append([]int{}, g.consumersOf[row.Dependent]...), g.producersOf[row.Dependent]...))
		if len(consumers) == 0 {
			continue
		}

		for _, p := range producers {
			for _, c := range consumers {
				if p == c {
					continue
				}
				if !change.AcceptsDependency(changes[c].change, row.Dependent, row.Referenced) {
					continue
				}
				out = append(out, Constraint{
					Kind:         ConstraintCatalog,
					SourceIdx:    p,
					TargetIdx:    c,
					DependentID:  row.Dependent,
					ReferencedID: row.Referenced,
				})
			}
		}
	}
	return out
}

// buildExplicitConstraints lowers each change's own Requires() set to
// Constraints, per spec.md §4.1 step 2: for each change c, for each id in
// requires[c], for each producer p of that id, emit p -> c. DependentID
// is populated with c's first created id only when c.Creates() is
// non-empty.
func buildExplicitConstraints(changes []indexedChange, g *graphData) []Constraint {
	var out []Constraint
	for ci, ic := range changes {
		for _, id := range g.requiresBy[ci] {
			for _, p := range g.producersOf[id] {
				if p == ci {
					continue
				}
				constraint := Constraint{
					Kind:         ConstraintExplicit,
					SourceIdx:    p,
					TargetIdx:    ci,
					ReferencedID: id,
				}
				if creates := ic.change.Creates(); len(creates) > 0 {
					constraint.DependentID = creates[0]
				}
				out = append(out, constraint)
			}
		}
	}
	return out
}

// customRule is one entry in the closed list of built-in ordering rules
// described by spec.md §4.1 step 2 ("Custom"). It inspects an ordered
// pair of changes and reports whether a ordering constraint should be
// emitted between them.
type customRuleResult int

const (
	customNone customRuleResult = iota
	customABeforeB
	customBBeforeA
)

type customRule func(a, b change.Change) customRuleResult

// defaultPrivilegeBeforeCreate is the scheduler's only standard Custom
// rule (spec.md §4.1 step 2): a default-privilege entry must be applied
// before any create of an object it isn't a role or schema, so that newly
// created objects pick up the default grants immediately.
func defaultPrivilegeBeforeCreate(a, b change.Change) customRuleResult {
	if a.Scope() == change.ScopeDefaultPrivilege && isNonRoleSchemaCreate(b) {
		return customABeforeB
	}
	if b.Scope() == change.ScopeDefaultPrivilege && isNonRoleSchemaCreate(a) {
		return customBBeforeA
	}
	return customNone
}

func isNonRoleSchemaCreate(c change.Change) bool {
	if c.Operation() != change.OpCreate {
		return false
	}
	return c.ObjectType() != change.ObjectRole && c.ObjectType() != change.ObjectSchema
}

// customRules is the closed list of built-in ordering rules. Custom
// constraints they produce are never filtered out during cycle breaking
// (spec.md §4.1 step 4).
var customRules = []customRule{
	defaultPrivilegeBeforeCreate,
}

// buildCustomConstraints applies every customRule to every unordered pair
// of changes in the phase.
func buildCustomConstraints(changes []indexedChange) []Constraint {
	var out []Constraint
	for i := 0; i < len(changes); i++ {
		for j := i + 1; j < len(changes); j++ {
			for _, rule := range customRules {
				switch rule(changes[i].change, changes[j].change) {
				case customABeforeB:
					out = append(out, Constraint{Kind: ConstraintCustom, SourceIdx: i, TargetIdx: j, Description: "default-privilege before create"})
				case customBBeforeA:
					out = append(out, Constraint{Kind: ConstraintCustom, SourceIdx: j, TargetIdx: i, Description: "default-privilege before create"})
				}
			}
		}
	}
	return out
}

func dedupInts(in []int) []int {
	if len(in) < 2 {
		return in
	}
	seen := make(map[int]bool, len(in))
	out := in[:0]
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
