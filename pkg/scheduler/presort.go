// SPDX-License-Identifier: Apache-2.0

package scheduler

import (
	"sort"
	"strings"

	"github.com/pgdelta/pgdelta/pkg/change"
)

// objectTypeGroupOrder fixes the dependency-hierarchy ordinal from
// spec.md §4.1's pre-sort section: schemas, extensions, roles, languages,
// collations, domains, types, sequences, procedures, aggregates,
// tables+children, views+children, materialized_views+children,
// event_triggers, publications, subscriptions.
var objectTypeGroupOrder = map[change.ObjectType]int{
	change.ObjectSchema:             0,
	change.ObjectExtension:          1,
	change.ObjectRole:               2,
	change.ObjectLanguage:           3,
	change.ObjectCollation:          4,
	change.ObjectDomain:             5,
	change.ObjectEnum:               6,
	change.ObjectCompositeType:      6,
	change.ObjectRange:              6,
	change.ObjectSequence:           7,
	change.ObjectProcedure:          8,
	change.ObjectAggregate:          9,
	change.ObjectTable:              10,
	change.ObjectIndex:              10, // grouped by its own stable ID, not under its table (see parentOf)
	change.ObjectTrigger:            10,
	change.ObjectRLSPolicy:          10,
	change.ObjectRule:               10,
	change.ObjectView:               11,
	change.ObjectMaterializedView:   12,
	change.ObjectEventTrigger:       13,
	change.ObjectPublication:        14,
	change.ObjectSubscription:       15,
	change.ObjectForeignDataWrapper: 16,
	change.ObjectServer:             17,
	change.ObjectUserMapping:        18,
	change.ObjectForeignTable:       18,
}

// scopeOrdinal gives scope a stable tie-break position within an
// otherwise-equal group; object changes lead, metadata-ish scopes follow.
var scopeOrdinal = map[change.Scope]int{
	change.ScopeObject:           0,
	change.ScopeOwner:            1,
	change.ScopePrivilege:        2,
	change.ScopeDefaultPrivilege: 3,
	change.ScopeMembership:       4,
	change.ScopeComment:          5,
}

// presortKey is the multi-level key from spec.md §4.1: (phase, schema,
// object-type-group, primary-stable-id, scope-ordinal, original-index).
type presortKey struct {
	phase         Phase
	schema        string
	typeGroup     int
	primaryID     change.StableID
	scopeOrdinal  int
	originalIndex int
}

// PreSort applies the optional, non-correctness-affecting logical
// grouping pass from spec.md §4.1: it produces a readable, locality-
// preserving ordering of changes (drops before creates, grouped by
// schema and object-type hierarchy) that Schedule's topological sort is
// free to reorder further wherever dependencies require it. Calling
// PreSort before Schedule is recommended but never required for
// correctness.
func PreSort(changes []change.Change) []change.Change {
	keyed := make([]struct {
		key presortKey
		c   change.Change
	}, len(changes))

	for i, c := range changes {
		keyed[i].c = c
		keyed[i].key = presortKeyFor(c, i)
	}

	sort.SliceStable(keyed, func(i, j int) bool {
		a, b := keyed[i].key, keyed[j].key
		if a.phase != b.phase {
			return a.phase < b.phase
		}
		if a.schema != b.schema {
			return a.schema < b.schema
		}
		if a.typeGroup != b.typeGroup {
			// The object-type hierarchy runs in reverse for drops:
			// dependents (tables and their children, views) go before
			// the objects they depend on (sequences, types, schemas).
			if a.phase == PhaseDrop {
				return a.typeGroup > b.typeGroup
			}
			return a.typeGroup < b.typeGroup
		}
		if a.primaryID != b.primaryID {
			return a.primaryID < b.primaryID
		}
		if a.scopeOrdinal != b.scopeOrdinal {
			return a.scopeOrdinal < b.scopeOrdinal
		}
		return a.originalIndex < b.originalIndex
	})

	out := make([]change.Change, len(keyed))
	for i, k := range keyed {
		out[i] = k.c
	}
	return out
}

func presortKeyFor(c change.Change, originalIndex int) presortKey {
	primary := primaryStableID(c)
	// Sub-entities group under their parent table/view's stable ID rather
	// than their own, per spec.md §4.1.
	if parent, ok := parentOf(c.ObjectType(), primary); ok {
		primary = parent
	}

	return presortKey{
		phase:         phaseOf(c),
		schema:        schemaOf(primary),
		typeGroup:     objectTypeGroupOrder[c.ObjectType()],
		primaryID:     primary,
		scopeOrdinal:  scopeOrdinal[c.Scope()],
		originalIndex: originalIndex,
	}
}

func primaryStableID(c change.Change) change.StableID {
	if ids := c.Creates(); len(ids) > 0 {
		return ids[0]
	}
	if ids := c.Drops(); len(ids) > 0 {
		return ids[0]
	}
	if ids := c.Requires(); len(ids) > 0 {
		return ids[0]
	}
	return ""
}

// parentOf derives a sub-entity's parent table/view stable ID from its
// own, when the stable ID encoding embeds the parent (trigger, rls
// policy, and rule IDs are "kind:schema.table.name"). Index stable IDs do
// not embed their parent table in this encoding, so indexes fall back to
// grouping by their own ID.
func parentOf(t change.ObjectType, id change.StableID) (change.StableID, bool) {
	if t != change.ObjectTrigger && t != change.ObjectRLSPolicy && t != change.ObjectRule {
		return "", false
	}
	_, rest, ok := cutKind(id)
	if !ok {
		return "", false
	}
	parts := strings.Split(rest, ".")
	if len(parts) < 3 {
		return "", false
	}
	return change.Table(parts[0], parts[1]), true
}

// schemaOf recovers the schema-qualifying segment of a stable ID for
// object kinds whose encoding embeds one. Kinds with no schema component
// (role, extension) group with the empty string, which sorts first.
func schemaOf(id change.StableID) string {
	kind, rest, ok := cutKind(id)
	if !ok {
		return ""
	}
	switch kind {
	case "role", "extension":
		return ""
	}
	if i := strings.IndexByte(rest, '.'); i >= 0 {
		return rest[:i]
	}
	return ""
}

func cutKind(id change.StableID) (kind, rest string, ok bool) {
	s := string(id)
	i := strings.IndexByte(s, ':')
	if i < 0 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}
