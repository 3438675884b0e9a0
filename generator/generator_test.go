package generator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/erraggy/oassync/internal/severity"
	"github.com/erraggy/oassync/ir"
	"github.com/erraggy/oassync/normalizer"
	"github.com/erraggy/oassync/oaserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petstore = `openapi: 3.0.3
info:
  title: Petstore
  version: 1.0.0
paths:
  /pets:
    get:
      operationId: listPets
      parameters:
        - name: limit
          in: query
          schema:
            type: integer
            format: int32
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/Pet'
    post:
      operationId: createPet
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/NewPet'
      responses:
        '201':
          description: created
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Pet'
  /pets/{petId}:
    get:
      operationId: getPet
      parameters:
        - name: petId
          in: path
          required: true
          schema:
            type: string
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Pet'
        '404':
          description: missing
components:
  schemas:
    Status:
      type: string
      enum: [available, sold]
    Pet:
      type: object
      description: A pet in the store.
      required: [id, name]
      properties:
        id:
          type: integer
          format: int64
        name:
          type: string
        status:
          $ref: '#/components/schemas/Status'
        tag:
          type: string
    NewPet:
      allOf:
        - $ref: '#/components/schemas/Pet'
        - type: object
          properties:
            owner:
              type: string
`

func mustNormalize(t *testing.T, src string) *ir.Document {
	t.Helper()
	res, err := normalizer.Normalize([]byte(src))
	require.NoError(t, err)
	return res.Document
}

func generate(t *testing.T, src string, target Target, style Style) *Result {
	t.Helper()
	res, err := Generate(context.Background(), mustNormalize(t, src), target, style)
	require.NoError(t, err)
	return res
}

func TestGenerateTargets(t *testing.T) {
	tests := []struct {
		target Target
		files  []string
	}{
		{TargetTypeScript, []string{"types.ts"}},
		{TargetTypeScriptFetch, []string{"types.ts", "client.ts"}},
		{TargetGo, []string{"types.go"}},
		{TargetGoClient, []string{"types.go", "client.go"}},
		{TargetPython, []string{"models.py"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.target), func(t *testing.T) {
			res := generate(t, petstore, tt.target, DefaultStyle())
			assert.Equal(t, tt.target, res.Target)
			var names []string
			for _, f := range res.Files {
				names = append(names, f.Name)
				assert.NotEmpty(t, f.Content)
				assert.True(t, strings.HasSuffix(f.Content, "\n"))
			}
			assert.Equal(t, tt.files, names)
			assert.NotNil(t, res.Warnings)
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	doc := mustNormalize(t, petstore)
	for _, target := range Targets() {
		t.Run(string(target), func(t *testing.T) {
			first, err := Generate(context.Background(), doc, target, DefaultStyle())
			require.NoError(t, err)
			second, err := Generate(context.Background(), doc, target, DefaultStyle())
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}
}

func TestGenerateGo(t *testing.T) {
	res := generate(t, petstore, TargetGoClient, Style{GenerateDocs: true, PackageName: "petstore"})
	assert.Empty(t, res.Warnings)

	types := res.File("types.go")
	require.NotNil(t, types)
	assert.Contains(t, types.Content, "package petstore")
	assert.Contains(t, types.Content, "// A pet in the store.\ntype Pet struct {")
	assert.Contains(t, types.Content, "type Status string")
	assert.Contains(t, types.Content, `StatusAvailable Status = "available"`)
	assert.Regexp(t, "Id\\s+int64\\s+`json:\"id\"`", types.Content)
	assert.Regexp(t, "Tag\\s+\\*string\\s+`json:\"tag,omitempty\"`", types.Content)
	assert.Regexp(t, "Status\\s+\\*Status\\s+`json:\"status,omitempty\"`", types.Content)
	assert.Contains(t, types.Content, "type NewPet struct {\n\tPet\n")

	client := res.File("client.go")
	require.NotNil(t, client)
	assert.Contains(t, client.Content, `"net/http"`)
	assert.Contains(t, client.Content, "func (c *Client) GetPet(ctx context.Context, params GetPetParams) (*Pet, error)")
	assert.Contains(t, client.Content, "func (c *Client) ListPets(ctx context.Context, params ListPetsParams) ([]Pet, error)")
	assert.Contains(t, client.Content, "func (c *Client) CreatePet(ctx context.Context, body NewPet) (*Pet, error)")
	assert.Contains(t, client.Content, `"/pets/" + url.PathEscape(fmt.Sprint(params.PetId))`)
	assert.Contains(t, client.Content, "oassync/")
}

func TestGenerateTypeScript(t *testing.T) {
	res := generate(t, petstore, TargetTypeScriptFetch, DefaultStyle())

	types := res.File("types.ts")
	require.NotNil(t, types)
	assert.Contains(t, types.Content, `export type Status = "available" | "sold";`)
	assert.Contains(t, types.Content, "export interface Pet {\n  id: number;\n  name: string;\n  status?: Status;\n  tag?: string;\n}")
	assert.Contains(t, types.Content, "export type NewPet = Pet & { owner?: string; };")

	client := res.File("client.ts")
	require.NotNil(t, client)
	assert.Contains(t, client.Content, `import type { NewPet, Pet } from "./types";`)
	assert.Contains(t, client.Content, "async getPet(params: { petId: string }): Promise<Pet>")
	assert.Contains(t, client.Content, "async listPets(params: { limit?: number } = {}): Promise<Pet[]>")
	assert.Contains(t, client.Content, "async createPet(body: NewPet): Promise<Pet>")
	assert.Contains(t, client.Content, "`/pets/${encodeURIComponent(String(params.petId))}`")
}

func TestGeneratePython(t *testing.T) {
	res := generate(t, petstore, TargetPython, DefaultStyle())
	models := res.File("models.py")
	require.NotNil(t, models)
	assert.Contains(t, models.Content, "from enum import Enum")
	assert.Contains(t, models.Content, "class Status(str, Enum):\n    AVAILABLE = \"available\"\n    SOLD = \"sold\"")
	assert.Contains(t, models.Content, "@dataclass(kw_only=True)\nclass Pet:\n    id: int\n    name: str\n    status: Status | None = None\n    tag: str | None = None")
	assert.Contains(t, models.Content, "class NewPet(Pet):\n    owner: str | None = None")
}

func TestPythonBaseClassOrder(t *testing.T) {
	src := `openapi: 3.0.3
info:
  title: Order
  version: 1.0.0
paths: {}
components:
  schemas:
    Child:
      allOf:
        - $ref: '#/components/schemas/Base'
        - type: object
          properties:
            extra:
              type: string
    Base:
      type: object
      properties:
        id:
          type: string
`
	models := generate(t, src, TargetPython, DefaultStyle()).File("models.py")
	require.NotNil(t, models)
	base := strings.Index(models.Content, "class Base:")
	child := strings.Index(models.Content, "class Child(Base):")
	require.NotEqual(t, -1, base)
	require.NotEqual(t, -1, child)
	assert.Less(t, base, child)

	res := generate(t, src, TargetPython, DefaultStyle())
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "schemas/Child", res.Warnings[0].Path)
	assert.Equal(t, severity.SeverityInfo, res.Warnings[0].Severity)
	assert.Contains(t, res.Warnings[0].Message, "moved after its base classes")
}

func TestGoFormatFailureIsError(t *testing.T) {
	m := newModel(context.Background(), &ir.Document{}, langGo, DefaultStyle().withDefaults())
	data := typesData{Title: "Broken", Package: "api", Decls: []*decl{
		{Kind: declAlias, Name: "Half", IsAlias: true, Target: "map["},
	}}
	f, err := m.render(targets[TargetGo], "types.go", "go_types", data)
	require.NoError(t, err)
	assert.Contains(t, f.Content, "type Half = map[")
	require.Len(t, m.warnings, 1)
	assert.Equal(t, severity.SeverityError, m.warnings[0].Severity)
	assert.Equal(t, "types.go", m.warnings[0].Path)
}

func TestHeaderTitleStaysOnOneLine(t *testing.T) {
	src := `openapi: 3.0.3
info:
  title: "Pets\nexport const injected = 1;"
  version: "1.0\n2"
paths: {}
components:
  schemas:
    Pet:
      type: object
      properties:
        id:
          type: string
`
	for _, target := range []Target{TargetTypeScript, TargetPython, TargetGoClient} {
		t.Run(string(target), func(t *testing.T) {
			res := generate(t, src, target, DefaultStyle())
			assert.Empty(t, res.Warnings)
			for _, f := range res.Files {
				first, _, _ := strings.Cut(f.Content, "\n")
				assert.Contains(t, first, "Pets export const injected = 1; 1.0 2")
				assert.NotContains(t, f.Content, "\nexport const injected")
			}
		})
	}
}

func TestGenerateWarnings(t *testing.T) {
	src := `openapi: 3.0.3
info:
  title: Shapes
  version: 1.0.0
paths: {}
components:
  schemas:
    Circle:
      type: object
      properties:
        radius:
          type: number
    Square:
      type: object
      properties:
        side:
          type: number
    Shape:
      oneOf:
        - $ref: '#/components/schemas/Circle'
        - $ref: '#/components/schemas/Square'
    pet_owner:
      type: object
      properties:
        id:
          type: string
    PetOwner:
      type: object
      properties:
        id:
          type: string
`
	t.Run("go degrades oneOf", func(t *testing.T) {
		res := generate(t, src, TargetGo, DefaultStyle())
		types := res.File("types.go")
		require.NotNil(t, types)
		assert.Contains(t, types.Content, "type Shape json.RawMessage")
		assert.Contains(t, types.Content, `"encoding/json"`)
		var paths []string
		for _, w := range res.Warnings {
			paths = append(paths, w.Path)
		}
		assert.Contains(t, paths, "schemas/Shape")
		assert.Contains(t, paths, "schemas/PetOwner")
	})

	t.Run("typescript keeps oneOf", func(t *testing.T) {
		res := generate(t, src, TargetTypeScript, DefaultStyle())
		types := res.File("types.ts")
		require.NotNil(t, types)
		assert.Contains(t, types.Content, "export type Shape = Circle | Square;")
		assert.Contains(t, types.Content, "export interface PetOwner2 {")
		require.Len(t, res.Warnings, 1)
		assert.Equal(t, "schemas/PetOwner", res.Warnings[0].Path)
	})
}

func TestGenerateStyle(t *testing.T) {
	res := generate(t, petstore, TargetTypeScript, Style{TypeNaming: "snake_case"})
	types := res.File("types.ts")
	require.NotNil(t, types)
	assert.Contains(t, types.Content, "export interface pet {")
	assert.Contains(t, types.Content, "export type new_pet = pet & ")
}

func TestGenerateErrors(t *testing.T) {
	doc := mustNormalize(t, petstore)

	t.Run("unknown target", func(t *testing.T) {
		_, err := Generate(context.Background(), doc, Target("cobol"), DefaultStyle())
		var ce *oaserrors.ConfigError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, "target", ce.Option)
		assert.Contains(t, err.Error(), "typescript-fetch")
	})

	t.Run("invalid naming style", func(t *testing.T) {
		_, err := Generate(context.Background(), doc, TargetGo, Style{TypeNaming: "SCREAMING"})
		var ce *oaserrors.ConfigError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, "style.type_naming", ce.Option)
	})

	t.Run("invalid package name", func(t *testing.T) {
		_, err := Generate(context.Background(), doc, TargetGo, Style{PackageName: "not a package"})
		var ce *oaserrors.ConfigError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, "style.package_name", ce.Option)
	})

	t.Run("nil document", func(t *testing.T) {
		_, err := Generate(context.Background(), nil, TargetGo, DefaultStyle())
		assert.ErrorIs(t, err, oaserrors.ErrConfig)
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Generate(ctx, doc, TargetGo, DefaultStyle())
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestWriteFiles(t *testing.T) {
	res := generate(t, petstore, TargetTypeScriptFetch, DefaultStyle())
	dir := filepath.Join(t.TempDir(), "out")

	paths, err := res.WriteFiles(dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	for i, p := range paths {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.Equal(t, res.Files[i].Content, string(data))
	}

	bad := &Result{Target: TargetGo, Files: []File{{Name: "../escape.go", Content: "package x\n"}}}
	_, err = bad.WriteFiles(dir)
	assert.ErrorIs(t, err, oaserrors.ErrCodegen)
}
