package comments

import (
	"errors"
	"sort"

	"filmscout/graph"
	"filmscout/store"
)

// Entry is a comment placed in a thread.
type Entry struct {
	Comment store.Comment
	Depth   int
}

// Thread arranges comments for display: each reply follows its parent,
// and siblings run newest first. A reply whose parent is missing, or that
// sits on a parent cycle, is shown as a top-level comment.
func Thread(list []store.Comment) []Entry {
	if len(list) == 0 {
		return nil
	}

	ordered := make([]store.Comment, len(list))
	copy(ordered, list)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
		}
		return ordered[i].ID > ordered[j].ID
	})

	byID := make(map[string]store.Comment, len(ordered))
	rank := make(map[string]int, len(ordered))
	nodes := make([]graph.Node, 0, len(ordered))
	for i, c := range ordered {
		if _, dup := byID[c.ID]; dup {
			continue
		}
		byID[c.ID] = c
		rank[c.ID] = i
		nodes = append(nodes, graph.Node{ID: c.ID, Rank: i})
	}

	parent := make(map[string]string, len(byID))
	for id, c := range byID {
		if c.ParentID == "" || c.ParentID == id {
			continue
		}
		if _, ok := byID[c.ParentID]; ok {
			parent[id] = c.ParentID
		}
	}

	order, err := graph.TopologicalSort(nodes, edges(parent))
	var cyc *graph.ErrCycle
	if errors.As(err, &cyc) {
		for _, id := range cyc.Nodes {
			if onCycle(id, parent) {
				delete(parent, id)
			}
		}
		order, _ = graph.TopologicalSort(nodes, edges(parent))
	}

	depth := make(map[string]int, len(order))
	children := make(map[string][]string)
	var roots []string
	for _, id := range order {
		p, ok := parent[id]
		if !ok {
			roots = append(roots, id)
			continue
		}
		depth[id] = depth[p] + 1
		children[p] = append(children[p], id)
	}

	byRank := func(ids []string) {
		sort.Slice(ids, func(i, j int) bool { return rank[ids[i]] < rank[ids[j]] })
	}
	byRank(roots)

	out := make([]Entry, 0, len(order))
	var walk func(id string)
	walk = func(id string) {
		out = append(out, Entry{Comment: byID[id], Depth: depth[id]})
		kids := children[id]
		byRank(kids)
		for _, k := range kids {
			walk(k)
		}
	}
	for _, r := range roots {
		walk(r)
	}
	return out
}

func edges(parent map[string]string) []graph.Edge {
	out := make([]graph.Edge, 0, len(parent))
	for child, p := range parent {
		out = append(out, graph.Edge{FromID: p, ToID: child})
	}
	return out
}

// onCycle reports whether following parent links from id returns to id.
func onCycle(id string, parent map[string]string) bool {
	seen := map[string]bool{}
	for cur, ok := parent[id]; ok; cur, ok = parent[cur] {
		if cur == id {
			return true
		}
		if seen[cur] {
			return false
		}
		seen[cur] = true
	}
	return false
}
