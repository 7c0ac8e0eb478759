// SPDX-License-Identifier: Apache-2.0

package scheduler

import (
	"fmt"
	"strings"

	"github.com/pgdelta/pgdelta/pkg/change"
)

// CycleNode describes one change participating in an unresolvable cycle.
type CycleNode struct {
	Index      int
	ObjectType change.ObjectType
	Operation  change.Operation
	Creates    []change.StableID
}

// CycleError is the only observable failure mode of Schedule. It carries
// full provenance for every edge that forms the cycle so the operator can
// see exactly which dependency (and from which source) could not be
// satisfied.
type CycleError struct {
	Phase Phase
	Nodes []CycleNode
	Edges []Edge

	// NodeIndices holds the phase-local change indices forming the cycle,
	// set when the error originates inside this package before Schedule
	// has had a chance to translate them into Nodes.
	NodeIndices []int
}

func (e CycleError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cannot order %d changes in the %s phase: unresolvable dependency cycle\n", len(e.Nodes), e.Phase)
	for _, n := range e.Nodes {
		fmt.Fprintf(&b, "  [%d] %s %s", n.Index, n.Operation, n.ObjectType)
		if len(n.Creates) > 0 {
			fmt.Fprintf(&b, " (creates %s)", firstFew(n.Creates, 3))
		}
		b.WriteByte('\n')
	}
	for _, e := range e.Edges {
		fmt.Fprintf(&b, "  %d -> %d via %s", e.Source, e.Target, e.Constraint.Kind)
		if e.Constraint.DependentID != "" || e.Constraint.ReferencedID != "" {
			fmt.Fprintf(&b, " (%s depends on %s)", e.Constraint.DependentID, e.Constraint.ReferencedID)
		}
		if e.Constraint.Description != "" {
			fmt.Fprintf(&b, " [%s]", e.Constraint.Description)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func firstFew(ids []change.StableID, n int) string {
	if len(ids) > n {
		ids = ids[:n]
	}
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = string(id)
	}
	return strings.Join(strs, ", ")
}
