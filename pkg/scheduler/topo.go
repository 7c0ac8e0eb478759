// SPDX-License-Identifier: Apache-2.0

package scheduler

import "container/heap"

// stableTopoSort runs Kahn's algorithm over numNodes nodes connected by
// edges, breaking ties among simultaneously-ready nodes by original
// input order (smallest original index first), per spec.md §4.1 step 5.
// It returns the sorted phase-local node indices.
func stableTopoSort(numNodes int, edges []Edge, originalIndex []int) []int {
	adj := make([][]int, numNodes)
	inDegree := make([]int, numNodes)
	for _, e := range edges {
		adj[e.Source] = append(adj[e.Source], e.Target)
		inDegree[e.Target]++
	}

	pq := &priorityQueue{}
	heap.Init(pq)
	for n := 0; n < numNodes; n++ {
		if inDegree[n] == 0 {
			heap.Push(pq, pqItem{node: n, priority: originalIndex[n]})
		}
	}

	order := make([]int, 0, numNodes)
	for pq.Len() > 0 {
		item := heap.Pop(pq).(pqItem)
		order = append(order, item.node)
		for _, next := range adj[item.node] {
			inDegree[next]--
			if inDegree[next] == 0 {
				heap.Push(pq, pqItem{node: next, priority: originalIndex[next]})
			}
		}
	}

	return order
}

type pqItem struct {
	node     int
	priority int
}

// priorityQueue is a container/heap min-heap ordered by priority
// (original index), matching the stdlib heap example shape used
// throughout the example pack for similar ready-queue scheduling.
type priorityQueue []pqItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].priority < pq[j].priority }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{}) { *pq = append(*pq, x.(pqItem)) }
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
