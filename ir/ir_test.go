package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderedMap(t *testing.T) {
	t.Run("preserves insertion order", func(t *testing.T) {
		m := NewOrderedMap[int]()
		m.Set("zebra", 1)
		m.Set("apple", 2)
		m.Set("mango", 3)
		m.Set("zebra", 4)

		assert.Equal(t, []string{"zebra", "apple", "mango"}, m.Keys())
		assert.Equal(t, []int{4, 2, 3}, m.Values())
		assert.Equal(t, 3, m.Len())
	})

	t.Run("nil map is empty", func(t *testing.T) {
		var m *OrderedMap[string]
		_, ok := m.Get("x")
		assert.False(t, ok)
		assert.Zero(t, m.Len())
		assert.Nil(t, m.Keys())
		for range m.All() {
			t.Fatal("nil map should not yield")
		}
	})

	t.Run("JSON round trip keeps order", func(t *testing.T) {
		m := NewOrderedMap[*SchemaRef]()
		m.Set("name", RefTo("Name"))
		m.Set("age", InlineSchema(&Schema{Kind: KindPrimitive, Type: "integer"}))
		m.Set("id", InlineSchema(&Schema{Kind: KindPrimitive, Type: "string"}))

		data, err := json.Marshal(m)
		require.NoError(t, err)
		assert.Equal(t, `{"name":{"ref":"Name"},"age":{"inline":{"kind":"primitive","type":"integer"}},"id":{"inline":{"kind":"primitive","type":"string"}}}`, string(data))

		var back OrderedMap[*SchemaRef]
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, []string{"name", "age", "id"}, back.Keys())
		got, _ := back.Get("name")
		assert.Equal(t, "Name", got.Ref)
	})

	t.Run("rejects non-object", func(t *testing.T) {
		var m OrderedMap[int]
		assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &m))
	})
}

func TestDocumentJSONRoundTrip(t *testing.T) {
	doc := &Document{
		SourceVersion: "3.0.3",
		Info:          Info{Title: "Pets", Version: "1.0"},
		Endpoints:     NewOrderedMap[*Endpoint](),
		Schemas:       NewOrderedMap[*Schema](),
		ContentHash:   HashContent([]byte("x")),
	}
	ep := &Endpoint{Method: "GET", Path: "/pets", Responses: NewOrderedMap[*Response]()}
	ep.Responses.Set("200", &Response{StatusCode: "200", Schema: InlineSchema(&Schema{Kind: KindArray, Type: "array", Items: RefTo("Pet")})})
	doc.Endpoints.Set(ep.Key(), ep)
	props := NewOrderedMap[*SchemaRef]()
	props.Set("name", InlineSchema(&Schema{Kind: KindPrimitive, Type: "string"}))
	doc.Schemas.Set("Pet", &Schema{Name: "Pet", Kind: KindObject, Type: "object", Properties: props, Required: []string{"name"}})

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var back Document
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, doc, &back)
}

func TestEndpointHelpers(t *testing.T) {
	ep := &Endpoint{
		Method: "get",
		Path:   "/pets/{id}",
		Tags:   []string{"pets"},
		Parameters: []*Parameter{
			{Name: "id", In: InPath, Required: true},
			{Name: "id", In: InQuery},
		},
	}
	assert.Equal(t, "GET /pets/{id}", ep.Key())
	assert.True(t, ep.HasTag("pets"))
	assert.True(t, ep.HasTag("PETS"))
	assert.False(t, ep.HasTag("store"))
	assert.True(t, ep.Parameter("id", InPath).Required)
	assert.False(t, ep.Parameter("id", InQuery).Required)
	assert.Nil(t, ep.Parameter("id", InHeader))
	assert.Equal(t, "query/id", ep.Parameter("id", InQuery).ID())
}

func TestIsSuccessCode(t *testing.T) {
	for code, want := range map[string]bool{
		"200": true, "204": true, "2XX": true,
		"301": false, "404": false, "default": false, "": false,
	} {
		assert.Equal(t, want, IsSuccessCode(code), code)
	}
}

func TestSchemaChildren(t *testing.T) {
	props := NewOrderedMap[*SchemaRef]()
	props.Set("owner", RefTo("User"))
	props.Set("tags", InlineSchema(&Schema{Kind: KindArray, Type: "array", Items: RefTo("Tag")}))
	props.Set("again", RefTo("User"))
	s := &Schema{
		Kind:       KindComposition,
		Type:       "object",
		Properties: props,
		AllOf:      []*SchemaRef{RefTo("Base")},
	}

	children := s.Children()
	require.Len(t, children, 4)
	assert.Equal(t, Child{Hop: HopProperty, Label: "owner", Ref: RefTo("User")}, children[0])
	assert.Equal(t, HopAllOf, children[3].Hop)
	assert.Equal(t, "0", children[3].Label)
	assert.True(t, children[3].Hop.IsComposition())
}
