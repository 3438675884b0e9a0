package graph

import (
	"slices"
)

// Role says which payload direction a schema travels in.
type Role string

const (
	RoleRequest  Role = "request"
	RoleResponse Role = "response"
	RoleBoth     Role = "both"
	RoleUnused   Role = "unused"
)

// Roles returns the role of every schema, derived transitively from the
// endpoints that reach it. Parameters count as request usage.
func (g *Graph) Roles() map[string]Role {
	g.analyze()
	out := make(map[string]Role, len(g.roles))
	for k, v := range g.roles {
		out[k] = v
	}
	return out
}

// Role returns the role of a single schema; unknown names are RoleUnused.
func (g *Graph) Role(name string) Role {
	g.analyze()
	if r, ok := g.roles[name]; ok {
		return r
	}
	return RoleUnused
}

// Recursive returns the sorted names of schemas that sit on a reference
// cycle, including self-references.
func (g *Graph) Recursive() []string {
	g.analyze()
	return append([]string(nil), g.recursive...)
}

// IsRecursive reports whether name sits on a reference cycle.
func (g *Graph) IsRecursive(name string) bool {
	g.analyze()
	_, found := slices.BinarySearch(g.recursive, name)
	return found
}

// Orphans returns the sorted names of schemas that no schema or endpoint
// refers to.
func (g *Graph) Orphans() []string {
	var out []string
	for _, name := range g.schemas {
		if len(g.in[SchemaNode(name)]) == 0 {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

// Stats summarizes the graph. Edges and EdgesByKind count reference
// occurrences, so two properties pointing at the same schema count twice.
type Stats struct {
	Schemas     int              `json:"schemas"`
	Endpoints   int              `json:"endpoints"`
	Edges       int              `json:"edges"`
	EdgesByKind map[EdgeKind]int `json:"edges_by_kind"`
	Recursive   int              `json:"recursive_schemas"`
	Orphans     int              `json:"orphan_schemas"`
	Roles       map[Role]int     `json:"roles"`
}

// Stats computes summary counts.
func (g *Graph) Stats() Stats {
	g.analyze()
	st := Stats{
		Schemas:     len(g.schemas),
		Endpoints:   len(g.endpoints),
		Edges:       g.edges,
		EdgesByKind: make(map[EdgeKind]int),
		Recursive:   len(g.recursive),
		Orphans:     len(g.Orphans()),
		Roles:       make(map[Role]int),
	}
	for _, edges := range g.out {
		for _, e := range edges {
			st.EdgesByKind[e.Kind]++
		}
	}
	for _, name := range g.schemas {
		st.Roles[g.roles[name]]++
	}
	return st
}

func (g *Graph) analyze() {
	g.once.Do(func() {
		g.roles = g.computeRoles()
		g.recursive = g.computeRecursive()
	})
}

func (g *Graph) computeRoles() map[string]Role {
	request := make(map[string]bool)
	response := make(map[string]bool)
	for _, key := range g.endpoints {
		for _, e := range g.out[EndpointNode(key)] {
			switch e.Kind {
			case EdgeResponseBody:
				g.markReachable(e.To, response)
			default:
				g.markReachable(e.To, request)
			}
		}
	}
	roles := make(map[string]Role, len(g.schemas))
	for _, name := range g.schemas {
		switch {
		case request[name] && response[name]:
			roles[name] = RoleBoth
		case request[name]:
			roles[name] = RoleRequest
		case response[name]:
			roles[name] = RoleResponse
		default:
			roles[name] = RoleUnused
		}
	}
	return roles
}

func (g *Graph) markReachable(start Node, seen map[string]bool) {
	stack := []Node{start}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[n.Name] {
			continue
		}
		seen[n.Name] = true
		for _, e := range g.out[n] {
			stack = append(stack, e.To)
		}
	}
}

// computeRecursive runs Tarjan's strongly connected components algorithm
// over the schema-to-schema edges.
func (g *Graph) computeRecursive() []string {
	var (
		index   = make(map[string]int)
		low     = make(map[string]int)
		onStack = make(map[string]bool)
		stack   []string
		next    int
		out     []string
	)

	var strongConnect func(v string)
	strongConnect = func(v string) {
		index[v] = next
		low[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		selfLoop := false
		for _, e := range g.out[SchemaNode(v)] {
			w := e.To.Name
			if w == v {
				selfLoop = true
			}
			if _, visited := index[w]; !visited {
				strongConnect(w)
				low[v] = min(low[v], low[w])
			} else if onStack[w] {
				low[v] = min(low[v], index[w])
			}
		}

		if low[v] != index[v] {
			return
		}
		var component []string
		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[w] = false
			component = append(component, w)
			if w == v {
				break
			}
		}
		if len(component) > 1 || selfLoop {
			out = append(out, component...)
		}
	}

	for _, name := range g.schemas {
		if _, visited := index[name]; !visited {
			strongConnect(name)
		}
	}
	slices.Sort(out)
	return out
}
