// SPDX-License-Identifier: Apache-2.0

package scheduler

import "github.com/pgdelta/pgdelta/pkg/change"

// phaseOf implements the phase-assignment table from spec.md §4.1:
//
//	operation=drop                                   -> drop
//	operation=create                                 -> create_alter
//	operation=alter, scope=privilege                 -> create_alter
//	operation=alter, any id in drops is non-metadata  -> drop
//	otherwise alter                                   -> create_alter
func phaseOf(c change.Change) Phase {
	switch c.Operation() {
	case change.OpDrop:
		return PhaseDrop
	case change.OpCreate:
		return PhaseCreateAlter
	}

	// operation == alter
	if c.Scope() == change.ScopePrivilege {
		return PhaseCreateAlter
	}
	for _, id := range c.Drops() {
		if !id.IsMetadata() {
			return PhaseDrop
		}
	}
	return PhaseCreateAlter
}

// partition splits changes into the two phases, recording each change's
// original index in the input list (needed for the stability property
// and the priority-by-smallest-original-index topological sort).
func partition(changes []change.Change) (drop, createAlter []indexedChange) {
	for i, c := range changes {
		ic := indexedChange{change: c, originalIndex: i}
		if phaseOf(c) == PhaseDrop {
			drop = append(drop, ic)
		} else {
			createAlter = append(createAlter, ic)
		}
	}
	return drop, createAlter
}

// indexedChange pairs a Change with its position in the caller's input,
// which both the sort's stability guarantee and diagnostics need once the
// global list has been split into two independent phase-local lists.
type indexedChange struct {
	change        change.Change
	originalIndex int
}
