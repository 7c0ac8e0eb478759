// SPDX-License-Identifier: Apache-2.0

package scheduler

import "github.com/pgdelta/pgdelta/pkg/change"

// graphData holds the four derived structures spec.md §3 defines for one
// scheduling phase. Indices are phase-local (0..len(changes)-1), not
// positions in the caller's original input list.
type graphData struct {
	createdBy   map[int][]change.StableID
	requiresBy  map[int][]change.StableID
	producersOf map[change.StableID][]int
	consumersOf map[change.StableID][]int
}

// buildGraphData derives graphData for one phase's changes. In the drop
// phase, createdBy additionally unions each change's Drops() so that a
// dependent change which requires an id being dropped still resolves
// (spec.md §3: "In drop-with-inversion, created_by absorbs drops").
func buildGraphData(phase Phase, changes []indexedChange) *graphData {
	g := &graphData{
		createdBy:   make(map[int][]change.StableID, len(changes)),
		requiresBy:  make(map[int][]change.StableID, len(changes)),
		producersOf: make(map[change.StableID][]int),
		consumersOf: make(map[change.StableID][]int),
	}

	for idx, ic := range changes {
		creates := ic.change.Creates()
		if phase == PhaseDrop {
			combined := make([]change.StableID, 0, len(creates)+len(ic.change.Drops()))
			combined = append(combined, creates...)
			combined = append(combined, ic.change.Drops()...)
			creates = combined
		}
		g.createdBy[idx] = creates
		g.requiresBy[idx] = ic.change.Requires()

		for _, id := range creates {
			g.producersOf[id] = append(g.producersOf[id], idx)
		}
		for _, id := range g.requiresBy[idx] {
			g.consumersOf[id] = append(g.consumersOf[id], idx)
		}
	}

	return g
}
