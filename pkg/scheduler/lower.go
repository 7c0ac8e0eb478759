// SPDX-License-Identifier: Apache-2.0

package scheduler

// lowerToEdges converts Constraints to Edges, inverting source/target in
// the drop phase so that dependents are scheduled before their
// prerequisites (spec.md §4.1: "Drop phase ... inverts edges").
func lowerToEdges(phase Phase, constraints []Constraint) []Edge {
	edges := make([]Edge, len(constraints))
	for i, c := range constraints {
		src, tgt := c.SourceIdx, c.TargetIdx
		if phase == PhaseDrop {
			src, tgt = tgt, src
		}
		edges[i] = Edge{Source: src, Target: tgt, Constraint: c}
	}
	return edges
}
