package graph

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/erraggy/oassync/oaserrors"
)

// Direction selects which way a query walks.
type Direction string

const (
	// Downstream finds dependents: everything that refers to the schema, transitively.
	Downstream Direction = "downstream"
	// Upstream finds dependencies: everything the schema refers to, transitively.
	Upstream Direction = "upstream"
	// Both is the union of the two, each entry tagged with where it was found.
	Both Direction = "both"
)

// ParseDirection validates a direction name. Empty means Downstream.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case "":
		return Downstream, nil
	case Downstream, Upstream, Both:
		return Direction(s), nil
	}
	return "", &oaserrors.ConfigError{
		Option:  "direction",
		Value:   s,
		Message: "must be one of downstream, upstream, both",
	}
}

// Impact is one node reached by a query.
type Impact struct {
	Node Node `json:"node"`
	// Depth is the BFS layer the node was first reached at (0 only for a cyclic root).
	Depth int `json:"depth"`
	// EdgeKinds are the kinds of the edges that reached the node at Depth, sorted.
	EdgeKinds []EdgeKind `json:"edge_kinds"`
	// Direction is upstream, downstream or both (the latter only for Both queries).
	Direction Direction `json:"direction"`
	// Cyclic marks the queried schema itself, reached again through a cycle.
	Cyclic bool `json:"cyclic,omitempty"`
}

// QueryResult is the ranked outcome of Query.
type QueryResult struct {
	Root      Node      `json:"root"`
	Direction Direction `json:"direction"`
	Impacts   []Impact  `json:"impacts"`
	// AffectedSchemas counts schema nodes in Impacts.
	AffectedSchemas int `json:"affected_schemas"`
	// AffectedEndpoints counts endpoint nodes in Impacts.
	AffectedEndpoints int `json:"affected_endpoints"`
}

// Query walks the graph from the named schema. Unknown names fail with a
// ConfigError for option "schema".
func (g *Graph) Query(name string, dir Direction) (*QueryResult, error) {
	if !g.known[name] {
		return nil, &oaserrors.ConfigError{
			Option:  "schema",
			Value:   name,
			Message: "schema not found in document",
		}
	}
	root := SchemaNode(name)

	var impacts []Impact
	switch dir {
	case Upstream:
		impacts = g.bfs(root, Upstream)
	case Downstream, "":
		dir = Downstream
		impacts = g.bfs(root, Downstream)
	case Both:
		impacts = mergeDirections(g.bfs(root, Upstream), g.bfs(root, Downstream))
	default:
		return nil, &oaserrors.ConfigError{Option: "direction", Value: string(dir), Message: fmt.Sprintf("unknown direction %q", dir)}
	}

	sortImpacts(impacts)
	res := &QueryResult{Root: root, Direction: dir, Impacts: impacts}
	for _, im := range impacts {
		if im.Node.Kind == NodeEndpoint {
			res.AffectedEndpoints++
		} else {
			res.AffectedSchemas++
		}
	}
	return res, nil
}

// bfs walks layer by layer with a visited set local to the call.
func (g *Graph) bfs(root Node, dir Direction) []Impact {
	index := make(map[Node]int)
	var impacts []Impact
	record := func(n Node, depth int, kind EdgeKind, cyclic bool) bool {
		if i, ok := index[n]; ok {
			if impacts[i].Depth == depth && !slices.Contains(impacts[i].EdgeKinds, kind) {
				impacts[i].EdgeKinds = append(impacts[i].EdgeKinds, kind)
			}
			return false
		}
		index[n] = len(impacts)
		impacts = append(impacts, Impact{Node: n, Depth: depth, EdgeKinds: []EdgeKind{kind}, Direction: dir, Cyclic: cyclic})
		return true
	}

	frontier := []Node{root}
	for depth := 1; len(frontier) > 0; depth++ {
		var next []Node
		for _, cur := range frontier {
			for _, e := range g.neighbors(cur, dir) {
				target := e.To
				if dir == Downstream {
					target = e.From
				}
				if target == root {
					record(root, 0, e.Kind, true)
					continue
				}
				if record(target, depth, e.Kind, false) {
					next = append(next, target)
				}
			}
		}
		frontier = next
	}
	for i := range impacts {
		slices.Sort(impacts[i].EdgeKinds)
	}
	return impacts
}

func (g *Graph) neighbors(n Node, dir Direction) []Edge {
	if dir == Downstream {
		return g.in[n]
	}
	return g.out[n]
}

// mergeDirections unions two walks, keeping the minimum depth per node.
func mergeDirections(up, down []Impact) []Impact {
	index := make(map[Node]int, len(up)+len(down))
	out := make([]Impact, 0, len(up)+len(down))
	for _, list := range [][]Impact{up, down} {
		for _, im := range list {
			i, ok := index[im.Node]
			if !ok {
				index[im.Node] = len(out)
				out = append(out, im)
				continue
			}
			existing := &out[i]
			existing.Direction = Both
			existing.Cyclic = existing.Cyclic || im.Cyclic
			switch {
			case im.Depth < existing.Depth:
				existing.Depth = im.Depth
				existing.EdgeKinds = im.EdgeKinds
			case im.Depth == existing.Depth:
				for _, k := range im.EdgeKinds {
					if !slices.Contains(existing.EdgeKinds, k) {
						existing.EdgeKinds = append(existing.EdgeKinds, k)
					}
				}
				slices.Sort(existing.EdgeKinds)
			}
		}
	}
	return out
}

// sortImpacts orders by depth, then name, then node kind.
func sortImpacts(impacts []Impact) {
	slices.SortFunc(impacts, func(a, b Impact) int {
		if c := cmp.Compare(a.Depth, b.Depth); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Node.Name, b.Node.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.Node.Kind, b.Node.Kind)
	})
}
