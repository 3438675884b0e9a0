package graph

import (
	"errors"
	"testing"

	"github.com/erraggy/oassync/ir"
	"github.com/erraggy/oassync/oaserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func object(props ...any) *ir.Schema {
	s := &ir.Schema{Kind: ir.KindObject, Type: "object", Properties: ir.NewOrderedMap[*ir.SchemaRef]()}
	for i := 0; i+1 < len(props); i += 2 {
		s.Properties.Set(props[i].(string), props[i+1].(*ir.SchemaRef))
	}
	return s
}

func prim(typ string) *ir.SchemaRef {
	return ir.InlineSchema(&ir.Schema{Kind: ir.KindPrimitive, Type: typ})
}

func arrayOf(ref *ir.SchemaRef) *ir.SchemaRef {
	return ir.InlineSchema(&ir.Schema{Kind: ir.KindArray, Type: "array", Items: ref})
}

// petstore builds: Category <- Pet <- PetList, Pet <- Owner.pets (inline array),
// NewPet allOf Pet; GET /pets -> PetList, POST /pets body NewPet -> Pet,
// Error unused by schemas but returned, Tag orphaned.
func petstore() *ir.Document {
	doc := &ir.Document{
		Schemas:   ir.NewOrderedMap[*ir.Schema](),
		Endpoints: ir.NewOrderedMap[*ir.Endpoint](),
	}
	doc.Schemas.Set("Category", object("id", prim("integer"), "name", prim("string")))
	doc.Schemas.Set("Pet", object("id", prim("integer"), "category", ir.RefTo("Category")))
	doc.Schemas.Set("PetList", &ir.Schema{Kind: ir.KindArray, Type: "array", Items: ir.RefTo("Pet")})
	doc.Schemas.Set("Owner", object("pets", arrayOf(ir.RefTo("Pet"))))
	doc.Schemas.Set("NewPet", &ir.Schema{Kind: ir.KindComposition, AllOf: []*ir.SchemaRef{
		ir.RefTo("Pet"),
		ir.InlineSchema(object("note", prim("string"))),
	}})
	doc.Schemas.Set("Error", object("message", prim("string")))
	doc.Schemas.Set("Tag", object("name", prim("string")))

	list := &ir.Endpoint{Method: "GET", Path: "/pets", Responses: ir.NewOrderedMap[*ir.Response]()}
	list.Parameters = []*ir.Parameter{{Name: "limit", In: ir.InQuery, Schema: prim("integer")}}
	list.Responses.Set("200", &ir.Response{StatusCode: "200", Schema: ir.RefTo("PetList")})
	list.Responses.Set("default", &ir.Response{StatusCode: "default", Schema: ir.RefTo("Error")})
	doc.Endpoints.Set(list.Key(), list)

	create := &ir.Endpoint{Method: "POST", Path: "/pets", Responses: ir.NewOrderedMap[*ir.Response]()}
	create.RequestBody = &ir.RequestBody{Required: true, Schema: ir.RefTo("NewPet")}
	create.Responses.Set("201", &ir.Response{StatusCode: "201", Schema: ir.RefTo("Pet")})
	doc.Endpoints.Set(create.Key(), create)
	return doc
}

func names(res *QueryResult) []string {
	var out []string
	for _, im := range res.Impacts {
		out = append(out, im.Node.Name)
	}
	return out
}

func TestBuildEdges(t *testing.T) {
	g := Build(petstore())

	assert.Equal(t, []Edge{{From: SchemaNode("Pet"), To: SchemaNode("Category"), Kind: EdgeProperty}}, g.Outgoing(SchemaNode("Pet")))
	assert.Equal(t, []Edge{{From: SchemaNode("Owner"), To: SchemaNode("Pet"), Kind: EdgeArrayItem}}, g.Outgoing(SchemaNode("Owner")),
		"inline array items are attributed to the owning schema with the innermost hop kind")
	assert.Equal(t, []Edge{{From: SchemaNode("NewPet"), To: SchemaNode("Pet"), Kind: EdgeComposition}}, g.Outgoing(SchemaNode("NewPet")))
	assert.Equal(t, []string{"PetList", "Error"}, g.References(EndpointNode("GET /pets")))
	assert.Len(t, g.Incoming(SchemaNode("Pet")), 4)
	assert.True(t, g.HasSchema("Tag"))
	assert.False(t, g.HasSchema("Missing"))
}

func TestQueryDownstream(t *testing.T) {
	g := Build(petstore())
	res, err := g.Query("Category", Downstream)
	require.NoError(t, err)

	require.NotEmpty(t, res.Impacts)

	byName := map[string]Impact{}
	for _, im := range res.Impacts {
		byName[im.Node.Name] = im
	}
	assert.Equal(t, 1, byName["Pet"].Depth)
	assert.Equal(t, []EdgeKind{EdgeProperty}, byName["Pet"].EdgeKinds)
	assert.Equal(t, 2, byName["NewPet"].Depth)
	assert.Equal(t, 2, byName["Owner"].Depth)
	assert.Equal(t, 2, byName["PetList"].Depth)
	assert.Equal(t, 2, byName["POST /pets"].Depth, "reported once at its first depth")
	assert.Equal(t, 3, byName["GET /pets"].Depth)
	assert.Equal(t, NodeEndpoint, byName["GET /pets"].Node.Kind)
	assert.Equal(t, 2, res.AffectedEndpoints)
	assert.Equal(t, 4, res.AffectedSchemas)

	for i := 1; i < len(res.Impacts); i++ {
		prev, cur := res.Impacts[i-1], res.Impacts[i]
		assert.True(t, prev.Depth < cur.Depth || (prev.Depth == cur.Depth && prev.Node.Name <= cur.Node.Name),
			"impacts ordered by depth then name: %v before %v", prev.Node, cur.Node)
	}
	_, self := byName["Category"]
	assert.False(t, self, "acyclic root is not reported")
}

func TestQueryUpstream(t *testing.T) {
	g := Build(petstore())
	res, err := g.Query("NewPet", Upstream)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pet", "Category"}, names(res))
	assert.Equal(t, Upstream, res.Impacts[0].Direction)
	assert.Equal(t, 0, res.AffectedEndpoints)
}

func TestQueryBoth(t *testing.T) {
	g := Build(petstore())
	res, err := g.Query("Pet", Both)
	require.NoError(t, err)

	byName := map[string]Impact{}
	for _, im := range res.Impacts {
		byName[im.Node.Name] = im
	}
	assert.Equal(t, Upstream, byName["Category"].Direction)
	assert.Equal(t, Downstream, byName["Owner"].Direction)
	assert.Equal(t, 1, byName["POST /pets"].Depth)
	assert.Equal(t, []EdgeKind{EdgeResponseBody}, byName["POST /pets"].EdgeKinds)
}

func TestQueryCycles(t *testing.T) {
	doc := &ir.Document{Schemas: ir.NewOrderedMap[*ir.Schema](), Endpoints: ir.NewOrderedMap[*ir.Endpoint]()}
	doc.Schemas.Set("Node", object("children", arrayOf(ir.RefTo("Node")), "parent", ir.RefTo("Node")))
	doc.Schemas.Set("A", object("b", ir.RefTo("B")))
	doc.Schemas.Set("B", object("a", ir.RefTo("A")))
	doc.Schemas.Set("Leaf", object("x", prim("string")))
	g := Build(doc)

	t.Run("self reference reported once at depth zero", func(t *testing.T) {
		res, err := g.Query("Node", Downstream)
		require.NoError(t, err)
		require.Len(t, res.Impacts, 1)
		im := res.Impacts[0]
		assert.Equal(t, "Node", im.Node.Name)
		assert.Equal(t, 0, im.Depth)
		assert.True(t, im.Cyclic)
		assert.Equal(t, []EdgeKind{EdgeArrayItem, EdgeProperty}, im.EdgeKinds)
	})

	t.Run("mutual recursion terminates", func(t *testing.T) {
		res, err := g.Query("A", Upstream)
		require.NoError(t, err)
		require.Len(t, res.Impacts, 2)
		assert.Equal(t, "A", res.Impacts[0].Node.Name)
		assert.True(t, res.Impacts[0].Cyclic)
		assert.Equal(t, "B", res.Impacts[1].Node.Name)
		assert.Equal(t, 1, res.Impacts[1].Depth)
	})

	t.Run("recursive set", func(t *testing.T) {
		assert.Equal(t, []string{"A", "B", "Node"}, g.Recursive())
		assert.True(t, g.IsRecursive("Node"))
		assert.False(t, g.IsRecursive("Leaf"))
	})
}

func TestQueryErrors(t *testing.T) {
	g := Build(petstore())

	_, err := g.Query("Nope", Downstream)
	require.Error(t, err)
	var ce *oaserrors.ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "schema", ce.Option)

	_, err = g.Query("Pet", Direction("sideways"))
	assert.ErrorIs(t, err, oaserrors.ErrConfig)
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("")
	require.NoError(t, err)
	assert.Equal(t, Downstream, d)

	d, err = ParseDirection("both")
	require.NoError(t, err)
	assert.Equal(t, Both, d)

	_, err = ParseDirection("up")
	assert.ErrorIs(t, err, oaserrors.ErrConfig)
}

func TestRoles(t *testing.T) {
	g := Build(petstore())
	roles := g.Roles()

	assert.Equal(t, RoleBoth, roles["Pet"], "request via NewPet, response via POST 201")
	assert.Equal(t, RoleBoth, roles["Category"])
	assert.Equal(t, RoleRequest, roles["NewPet"])
	assert.Equal(t, RoleResponse, roles["PetList"])
	assert.Equal(t, RoleResponse, roles["Error"])
	assert.Equal(t, RoleUnused, roles["Owner"])
	assert.Equal(t, RoleUnused, g.Role("Missing"))
}

func TestOrphansAndStats(t *testing.T) {
	g := Build(petstore())
	assert.Equal(t, []string{"Owner", "Tag"}, g.Orphans())

	st := g.Stats()
	assert.Equal(t, 7, st.Schemas)
	assert.Equal(t, 2, st.Endpoints)
	assert.Equal(t, 8, st.Edges)
	assert.Equal(t, 1, st.EdgesByKind[EdgeRequestBody])
	assert.Equal(t, 3, st.EdgesByKind[EdgeResponseBody])
	assert.Equal(t, 0, st.Recursive)
	assert.Equal(t, 2, st.Orphans)
}

func TestEdgesPerOccurrence(t *testing.T) {
	doc := &ir.Document{Schemas: ir.NewOrderedMap[*ir.Schema]()}
	doc.Schemas.Set("Money", object("amount", prim("number")))
	doc.Schemas.Set("Invoice", object("subtotal", ir.RefTo("Money"), "total", ir.RefTo("Money")))
	g := Build(doc)

	assert.Len(t, g.Outgoing(SchemaNode("Invoice")), 2)
	assert.Equal(t, []string{"Money"}, g.References(SchemaNode("Invoice")))
	st := g.Stats()
	assert.Equal(t, 2, st.Edges)
	assert.Equal(t, 2, st.EdgesByKind[EdgeProperty])

	res, err := g.Query("Money", Downstream)
	require.NoError(t, err)
	require.Len(t, res.Impacts, 1)
	assert.Equal(t, SchemaNode("Invoice"), res.Impacts[0].Node)
	assert.Equal(t, []EdgeKind{EdgeProperty}, res.Impacts[0].EdgeKinds)
	assert.Equal(t, 1, res.AffectedSchemas)
}

func TestUnknownTargetsIgnored(t *testing.T) {
	doc := &ir.Document{Schemas: ir.NewOrderedMap[*ir.Schema]()}
	doc.Schemas.Set("A", object("ghost", ir.RefTo("Ghost")))
	g := Build(doc)
	assert.Empty(t, g.Outgoing(SchemaNode("A")))
	assert.Equal(t, 0, g.Stats().Edges)
}
