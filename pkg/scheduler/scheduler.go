// SPDX-License-Identifier: Apache-2.0

package scheduler

import "github.com/pgdelta/pgdelta/pkg/change"

// Schedule orders changes into an execution-safe sequence: every DROP
// change appears before every CREATE/ALTER change (spec.md §4.1 phases),
// and within each phase every prerequisite of a change appears earlier
// than the change itself. It returns CycleError if a phase's dependency
// graph contains a cycle that cannot be broken by the rules in §4.1 step
// 4.
//
// Schedule is pure: given the same changes (in the same order) and the
// same two catalog snapshots, it always returns the same ordering.
func Schedule(changes []change.Change, main, branch CatalogSnapshot) ([]change.Change, error) {
	dropLocal, createLocal := partition(changes)

	orderedDrop, err := runPhase(PhaseDrop, dropLocal, main)
	if err != nil {
		return nil, err
	}

	orderedCreateAlter, err := runPhase(PhaseCreateAlter, createLocal, branch)
	if err != nil {
		return nil, err
	}

	result := make([]change.Change, 0, len(changes))
	result = append(result, orderedDrop...)
	result = append(result, orderedCreateAlter...)

	if len(result) != len(changes) {
		return nil, CycleError{Phase: PhaseCreateAlter, Nodes: allNodes(append(dropLocal, createLocal...))}
	}

	return result, nil
}

// runPhase executes the full per-phase algorithm from spec.md §4.1 steps
// 1-6 for one phase's changes against the catalog snapshot that phase
// uses (main for drop, branch for create_alter).
func runPhase(phase Phase, local []indexedChange, snapshot CatalogSnapshot) ([]change.Change, error) {
	n := len(local)
	if n == 0 {
		return nil, nil
	}

	g := buildGraphData(phase, local)

	var constraints []Constraint
	constraints = append(constraints, buildCatalogConstraints(local, g, snapshot)...)
	constraints = append(constraints, buildExplicitConstraints(local, g)...)
	constraints = append(constraints, buildCustomConstraints(local)...)

	edges := lowerToEdges(phase, constraints)

	edges, err := breakCycles(phase, n, edges)
	if err != nil {
		cycleErr := err.(CycleError)
		cycleErr.Nodes = nodesForIndices(local, cycleErr.NodeIndices)
		return nil, cycleErr
	}

	originalIndex := make([]int, n)
	for i, ic := range local {
		originalIndex[i] = ic.originalIndex
	}

	order := stableTopoSort(n, edges, originalIndex)
	if len(order) != n {
		return nil, CycleError{Phase: phase, Nodes: allNodes(local)}
	}

	result := make([]change.Change, n)
	for i, nodeIdx := range order {
		result[i] = local[nodeIdx].change
	}
	return result, nil
}

func nodesForIndices(local []indexedChange, indices []int) []CycleNode {
	nodes := make([]CycleNode, len(indices))
	for i, idx := range indices {
		nodes[i] = nodeFor(local[idx].change, idx)
	}
	return nodes
}

func allNodes(local []indexedChange) []CycleNode {
	nodes := make([]CycleNode, len(local))
	for i, ic := range local {
		nodes[i] = nodeFor(ic.change, i)
	}
	return nodes
}

func nodeFor(c change.Change, idx int) CycleNode {
	return CycleNode{
		Index:      idx,
		ObjectType: c.ObjectType(),
		Operation:  c.Operation(),
		Creates:    c.Creates(),
	}
}
