package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/erraggy/oassync/engine"
	"github.com/erraggy/oassync/graph"
	"github.com/erraggy/oassync/loader"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTool(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	t.Run("summary from relative source", func(t *testing.T) {
		_, view, err := s.handleParse(ctx, &mcp.CallToolRequest{}, parseInput{Source: "petstore.yaml"})
		require.NoError(t, err)
		assert.Equal(t, "Pet Store", view.Metadata.Title)
		assert.Equal(t, 2, view.Metadata.EndpointCount)
		assert.Equal(t, 2, view.Metadata.SchemaCount)
		assert.Equal(t, engine.FormatSummary, view.Format)
	})

	t.Run("second call is served from cache", func(t *testing.T) {
		_, view, err := s.handleParse(ctx, &mcp.CallToolRequest{}, parseInput{Source: "petstore.yaml"})
		require.NoError(t, err)
		assert.Equal(t, loader.FreshnessCached, view.Freshness)
	})

	t.Run("use_cache=false refetches", func(t *testing.T) {
		off := false
		_, view, err := s.handleParse(ctx, &mcp.CallToolRequest{}, parseInput{Source: "petstore.yaml", projectInput: projectInput{UseCache: &off}})
		require.NoError(t, err)
		assert.Equal(t, loader.FreshnessFetched, view.Freshness)
	})

	t.Run("endpoints filtered by path prefix", func(t *testing.T) {
		_, view, err := s.handleParse(ctx, &mcp.CallToolRequest{}, parseInput{Source: "petstore.yaml", Format: "endpoints-list", PathPrefix: "/pets/"})
		require.NoError(t, err)
		assert.Equal(t, []string{"GET /pets/{id}"}, view.EndpointKeys)
	})

	t.Run("missing file", func(t *testing.T) {
		_, view, err := s.handleParse(ctx, &mcp.CallToolRequest{}, parseInput{Source: "nope.yaml"})
		require.Error(t, err)
		assert.Nil(t, view)
		assert.True(t, strings.HasPrefix(err.Error(), "[filesystem]"), err.Error())
		assert.NotContains(t, err.Error(), s.eng.Config().ProjectDir)
	})

	t.Run("bad format", func(t *testing.T) {
		_, _, err := s.handleParse(ctx, &mcp.CallToolRequest{}, parseInput{Source: "petstore.yaml", Format: "tree"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "[configuration]")
	})
}

func TestDepsTool(t *testing.T) {
	s := newTestServer(t)
	_, view, err := s.handleDeps(context.Background(), &mcp.CallToolRequest{}, depsInput{Source: "petstore.yaml", Schema: "Category"})
	require.NoError(t, err)
	assert.Equal(t, graph.Downstream, view.Direction)
	assert.Equal(t, 1, view.AffectedSchemas)
	assert.Equal(t, 2, view.AffectedEndpoints)
	assert.Equal(t, graph.RoleResponse, view.Role)

	_, _, err = s.handleDeps(context.Background(), &mcp.CallToolRequest{}, depsInput{Source: "petstore.yaml", Schema: "Owner"})
	assert.ErrorContains(t, err, "[configuration]")
}

func TestDiffTool(t *testing.T) {
	s := newTestServer(t)
	dir := s.eng.Config().ProjectDir
	revised := strings.Replace(petstoreYAML, "        name:\n          type: string\n        category:", "        category:", 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "petstore-v2.yaml"), []byte(revised), 0o644))

	_, view, err := s.handleDiff(context.Background(), &mcp.CallToolRequest{}, diffInput{
		OldSource:    "petstore.yaml",
		NewSource:    "petstore-v2.yaml",
		BreakingOnly: true,
	})
	require.NoError(t, err)
	require.Len(t, view.Changes, 1)
	assert.Equal(t, "schemas/Pet/properties/name", view.Changes[0].Path)
	assert.Equal(t, 1, view.BreakingCount)
}

func TestStatusTool(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	_, _, err := s.handleParse(ctx, &mcp.CallToolRequest{}, parseInput{Source: "petstore.yaml"})
	require.NoError(t, err)

	_, view, err := s.handleStatus(ctx, &mcp.CallToolRequest{}, statusInput{})
	require.NoError(t, err)
	require.Len(t, view.Entries, 1)
	assert.Equal(t, engine.StateFresh, view.Entries[0].State)
	assert.Equal(t, filepath.Join(s.eng.Config().ProjectDir, "petstore.yaml"), view.Entries[0].Key)
}

func TestGenerateTool(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, out, err := s.handleGenerate(ctx, &mcp.CallToolRequest{}, generateInput{Source: "petstore.yaml", Target: "typescript"})
	require.NoError(t, err)
	assert.Equal(t, "typescript", out.Target)
	require.Len(t, out.Files, 1)
	assert.Equal(t, "types.ts", out.Files[0].Name)
	assert.Contains(t, out.Files[0].Content, "export interface Pet {")
	assert.NotNil(t, out.Warnings)
	assert.Empty(t, out.Written)

	_, out, err = s.handleGenerate(ctx, &mcp.CallToolRequest{}, generateInput{Source: "petstore.yaml", Target: "go", PackageName: "pets", OutputDir: "gen"})
	require.NoError(t, err)
	want := filepath.Join(s.eng.Config().ProjectDir, "gen", "types.go")
	assert.Equal(t, []string{want}, out.Written)
	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "// Code generated"), string(data[:40]))

	_, _, err = s.handleGenerate(ctx, &mcp.CallToolRequest{}, generateInput{Source: "petstore.yaml", Target: "cobol"})
	assert.ErrorContains(t, err, "[configuration]")
}

func TestGenerateToolStrict(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	broken := strings.Replace(petstoreYAML, "      parameters:\n        - name: id\n          in: path\n          required: true\n          schema:\n            type: integer\n", "", 1)
	require.NotEqual(t, petstoreYAML, broken)
	require.NoError(t, os.WriteFile(filepath.Join(s.eng.Config().ProjectDir, "broken.yaml"), []byte(broken), 0o644))

	_, _, err := s.handleGenerate(ctx, &mcp.CallToolRequest{}, generateInput{Source: "broken.yaml", Target: "python"})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "[parse]"), err.Error())

	lenient := false
	_, out, err := s.handleGenerate(ctx, &mcp.CallToolRequest{}, generateInput{Source: "broken.yaml", Target: "python", Strict: &lenient})
	require.NoError(t, err)
	assert.Len(t, out.Files, 1)
}
