// SPDX-License-Identifier: Apache-2.0

package scheduler

import (
	"strconv"
	"strings"
)

// breakCycles implements spec.md §4.1 step 4 (iterative cycle breaking).
// It repeatedly runs DFS cycle detection; each time a cycle is found it is
// normalized into a signature, and if that exact signature has already
// been seen the cycle could not be broken and a CycleError is raised.
// Otherwise every Catalog-sourced edge on the cycle that matches the
// sequence-ownership suppression rule is discarded and detection runs
// again.
func breakCycles(phase Phase, numNodes int, edges []Edge) ([]Edge, error) {
	edges = dedupEdges(edges)
	seen := make(map[string]bool)

	for {
		adj := edgesBySource(edges)
		cycle := detectCycle(numNodes, adj)
		if cycle == nil {
			return edges, nil
		}

		sig := cycleSignature(cycle)
		if seen[sig] {
			return nil, buildCycleError(phase, cycle, edges)
		}
		seen[sig] = true

		edges = removeBreakableEdges(edges, cycle)
	}
}

// dedupEdges removes duplicate (source, target) pairs, keeping the first
// occurrence's provenance.
func dedupEdges(edges []Edge) []Edge {
	seen := make(map[[2]int]bool, len(edges))
	out := make([]Edge, 0, len(edges))
	for _, e := range edges {
		key := [2]int{e.Source, e.Target}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}

func edgesBySource(edges []Edge) map[int][]Edge {
	adj := make(map[int][]Edge, len(edges))
	for _, e := range edges {
		adj[e.Source] = append(adj[e.Source], e)
	}
	return adj
}

// detectCycle runs a DFS over numNodes nodes with visiting/visited
// coloring, returning the node indices forming one cycle (in traversal
// order, cycle-closing edge implied from last back to first), or nil if
// the graph is acyclic.
func detectCycle(numNodes int, adj map[int][]Edge) []int {
	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)
	color := make([]int, numNodes)
	stack := make([]int, 0, numNodes)
	onStack := make(map[int]int, numNodes) // node -> position in stack

	var cycle []int
	var visit func(u int) bool
	visit = func(u int) bool {
		color[u] = visiting
		onStack[u] = len(stack)
		stack = append(stack, u)

		for _, e := range adj[u] {
			v := e.Target
			switch color[v] {
			case visiting:
				start := onStack[v]
				cycle = append([]int{}, stack[start:]...)
				return true
			case unvisited:
				if visit(v) {
					return true
				}
			}
		}

		stack = stack[:len(stack)-1]
		delete(onStack, u)
		color[u] = visited
		return false
	}

	for u := 0; u < numNodes; u++ {
		if color[u] == unvisited {
			if visit(u) {
				return cycle
			}
		}
	}
	return nil
}

// cycleSignature normalizes a cycle by rotating it so its smallest node
// index leads, per spec.md §4.1 step 4, then renders it as a comparable
// string.
func cycleSignature(cycle []int) string {
	minIdx := 0
	for i, v := range cycle {
		if v < cycle[minIdx] {
			minIdx = i
		}
	}
	rotated := make([]int, len(cycle))
	for i := range cycle {
		rotated[i] = cycle[(minIdx+i)%len(cycle)]
	}
	parts := make([]string, len(rotated))
	for i, v := range rotated {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// removeBreakableEdges discards every edge along cycle that is not a
// Custom constraint and matches a cycle-breaking rule. The only standard
// rule is sequence-ownership suppression (spec.md §4.1 step 4).
func removeBreakableEdges(edges []Edge, cycle []int) []Edge {
	onCycle := make(map[[2]int]bool, len(cycle))
	for i, u := range cycle {
		v := cycle[(i+1)%len(cycle)]
		onCycle[[2]int{u, v}] = true
	}

	out := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if onCycle[[2]int{e.Source, e.Target}] && e.Constraint.Kind != ConstraintCustom && isSequenceOwnershipEdge(e) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// isSequenceOwnershipEdge recognizes the false-positive cycle pg_depend
// produces for an owned sequence: the sequence's OWNED BY relationship
// (sequence depends on its column) and the column's DEFAULT nextval()
// expression (column depends on the sequence) form a two-row cycle. We
// discard the "sequence depends on table/column" direction and keep
// "column depends on sequence", so the sequence is ordered before the
// table whose column default calls nextval() on it.
func isSequenceOwnershipEdge(e Edge) bool {
	if e.Constraint.Kind != ConstraintCatalog {
		return false
	}
	dep := string(e.Constraint.DependentID)
	ref := string(e.Constraint.ReferencedID)
	return strings.HasPrefix(dep, "sequence:") &&
		(strings.HasPrefix(ref, "table:") || strings.HasPrefix(ref, "column:"))
}

// buildCycleError collects the edges along cycle (by phase-local index)
// into a CycleError. Schedule fills in Nodes once it has translated the
// raw indices back to the original Change values.
func buildCycleError(phase Phase, cycle []int, edges []Edge) CycleError {
	var cycleEdges []Edge
	for i, u := range cycle {
		v := cycle[(i+1)%len(cycle)]
		for _, e := range edges {
			if e.Source == u && e.Target == v {
				cycleEdges = append(cycleEdges, e)
			}
		}
	}
	return CycleError{
		Phase:       phase,
		NodeIndices: cycle,
		Edges:       cycleEdges,
	}
}
