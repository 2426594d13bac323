package graph

import (
	"fmt"
	"sort"
)

// Node is a vertex for graph algorithms. Rank orders nodes that become
// ready at the same time; lower ranks come first.
type Node struct {
	ID   string
	Rank int
}

// Edge is a directed connection between nodes.
type Edge struct {
	FromID string
	ToID   string
}

// ErrCycle is returned when the edges contain a cycle. Nodes is the set of
// IDs that could not be ordered.
type ErrCycle struct {
	Nodes []string
}

func (e *ErrCycle) Error() string {
	return fmt.Sprintf("cycle detected in graph (%d nodes unordered)", len(e.Nodes))
}

// TopologicalSort performs a topological sort using Kahn's algorithm.
// Edges that mention unknown nodes are ignored. Among ready nodes the lowest
// Rank wins, then the lowest ID, so the result is deterministic.
func TopologicalSort(nodes []Node, edges []Edge) ([]string, error) {
	inDegree := make(map[string]int, len(nodes))
	rank := make(map[string]int, len(nodes))
	outs := make(map[string][]string)
	for _, n := range nodes {
		inDegree[n.ID] = 0
		rank[n.ID] = n.Rank
	}

	for _, e := range edges {
		if _, ok := inDegree[e.FromID]; !ok {
			continue
		}
		if _, ok := inDegree[e.ToID]; !ok {
			continue
		}
		outs[e.FromID] = append(outs[e.FromID], e.ToID)
		inDegree[e.ToID]++
	}

	less := func(a, b string) bool {
		if rank[a] != rank[b] {
			return rank[a] < rank[b]
		}
		return a < b
	}

	queue := []string{}
	for _, n := range nodes {
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}
	sort.Slice(queue, func(i, j int) bool { return less(queue[i], queue[j]) })

	result := make([]string, 0, len(nodes))
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		result = append(result, u)

		added := false
		for _, v := range outs[u] {
			inDegree[v]--
			if inDegree[v] == 0 {
				queue = append(queue, v)
				added = true
			}
		}
		if added {
			sort.Slice(queue, func(i, j int) bool { return less(queue[i], queue[j]) })
		}
	}

	if len(result) != len(inDegree) {
		var stuck []string
		for _, n := range nodes {
			if inDegree[n.ID] > 0 {
				stuck = append(stuck, n.ID)
			}
		}
		return result, &ErrCycle{Nodes: stuck}
	}
	return result, nil
}
