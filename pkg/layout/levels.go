package layout

import (
	"sage/pkg/common"
)

// AssignLevels computes a topological depth for every node, used to bias a
// top-to-bottom visual flow. Levels are a layout hint, not a topological
// proof: the only guarantees are that every node receives some
// non-negative level, assignment terminates on any graph (cycles and
// disconnected components included), and the result is deterministic for
// a given node/edge ordering.
//
// Edges whose endpoints are not both in the node set are excluded from
// propagation. Nodes unreachable from any seed keep level 0.
func AssignLevels(nodes []common.Node, edges []common.Edge) map[string]int {
	levels := make(map[string]int, len(nodes))
	if len(nodes) == 0 {
		return levels
	}

	known := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		known[n.ID] = struct{}{}
	}

	inDegree := make(map[string]int, len(nodes))
	outgoing := make(map[string][]string, len(nodes))
	for _, e := range edges {
		if _, ok := known[e.From]; !ok {
			continue
		}
		if _, ok := known[e.To]; !ok {
			continue
		}
		inDegree[e.To]++
		outgoing[e.From] = append(outgoing[e.From], e.To)
	}

	type queued struct {
		id    string
		level int
	}

	queue := make([]queued, 0, len(nodes))
	for _, n := range nodes {
		if inDegree[n.ID] == 0 {
			queue = append(queue, queued{id: n.ID, level: 0})
		}
	}
	// A pure cycle has no zero-in-degree seed; start from the first node
	// in input order to guarantee progress.
	if len(queue) == 0 {
		queue = append(queue, queued{id: nodes[0].ID, level: 0})
	}

	visited := make(map[string]struct{}, len(nodes))
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if _, seen := visited[cur.id]; seen {
			continue
		}
		visited[cur.id] = struct{}{}
		levels[cur.id] = cur.level

		for _, next := range outgoing[cur.id] {
			if _, seen := visited[next]; seen {
				continue
			}
			queue = append(queue, queued{id: next, level: cur.level + 1})
		}
	}

	for _, n := range nodes {
		if _, ok := levels[n.ID]; !ok {
			levels[n.ID] = 0
		}
	}

	return levels
}
