package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ordersV1 = `openapi: 3.0.3
info:
  title: Orders
  version: 1.0.0
paths:
  /orders:
    get:
      operationId: listOrders
      tags: [orders]
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/Order'
    post:
      operationId: createOrder
      tags: [orders]
      requestBody:
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Order'
      responses:
        '201':
          description: created
components:
  schemas:
    Money:
      type: object
      properties:
        amount:
          type: integer
        currency:
          type: string
    Order:
      type: object
      required: [id]
      properties:
        id:
          type: string
        total:
          $ref: '#/components/schemas/Money'
`

// project writes the v1 and v2 documents into a fresh project directory.
func project(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	v2 := strings.Replace(ordersV1, "        currency:\n          type: string\n", "", 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "v1.yaml"), []byte(ordersV1), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "v2.yaml"), []byte(v2), 0o644))
	return dir
}

func run(t *testing.T, dir string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	args = append([]string{"--project-dir", dir, "--log-level", "error"}, args...)
	code := Execute(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestParseCommand(t *testing.T) {
	dir := project(t)
	v1 := filepath.Join(dir, "v1.yaml")

	code, out, errOut := run(t, dir, "parse", v1)
	require.Equal(t, ExitOK, code, errOut)
	assert.Contains(t, out, "Orders 1.0.0 (OpenAPI 3.0.3) [fetched]")
	assert.Contains(t, out, "Endpoints: 2")
	assert.Contains(t, out, "Schemas:   2")

	code, out, _ = run(t, dir, "parse", "--format", "endpoints-list", v1)
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "[cached]")
	assert.Contains(t, out, "GET /orders\nPOST /orders\n")

	code, out, _ = run(t, dir, "parse", "--format", "schemas", "-o", "json", v1)
	require.Equal(t, ExitOK, code)
	var view map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "schemas", view["format"])
	assert.Len(t, view["schemas"], 2)

	code, out, _ = run(t, dir, "parse", "-o", "yaml", v1)
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "title: Orders")

	_, err := os.Stat(filepath.Join(dir, ".oassync.cache.json"))
	assert.NoError(t, err)
}

func TestParseStrictListsViolations(t *testing.T) {
	dir := t.TempDir()
	doc := `openapi: 3.0.3
info:
  title: Items
  version: "1"
paths:
  /items/{itemId}:
    get:
      responses:
        '200':
          description: ok
`
	src := filepath.Join(dir, "items.yaml")
	require.NoError(t, os.WriteFile(src, []byte(doc), 0o644))

	code, _, errOut := run(t, dir, "parse", src)
	require.Equal(t, ExitOK, code, errOut)

	code, _, errOut = run(t, dir, "parse", "--strict", src)
	assert.Equal(t, ExitError, code)
	assert.Contains(t, errOut, "\n  - ")
	assert.Contains(t, errOut, `path parameter "itemId" is not declared`)
}

func TestDepsCommand(t *testing.T) {
	dir := project(t)
	code, out, errOut := run(t, dir, "deps", filepath.Join(dir, "v1.yaml"), "Money")
	require.Equal(t, ExitOK, code, errOut)
	assert.Contains(t, out, "Money (both) downstream: 1 schemas, 2 endpoints")
	assert.Contains(t, out, "Order")

	code, _, errOut = run(t, dir, "deps", filepath.Join(dir, "v1.yaml"), "Nope")
	assert.Equal(t, ExitError, code)
	assert.Contains(t, errOut, "schema not found")
}

func TestDiffCommand(t *testing.T) {
	dir := project(t)
	v1, v2 := filepath.Join(dir, "v1.yaml"), filepath.Join(dir, "v2.yaml")

	code, out, errOut := run(t, dir, "diff", v1, v2)
	require.Equal(t, ExitOK, code, errOut)
	assert.Contains(t, out, "[BREAKING] schemas/Money/properties/currency")

	code, _, _ = run(t, dir, "diff", "--fail-on-breaking", v1, v2)
	assert.Equal(t, ExitBreaking, code)

	code, _, _ = run(t, dir, "diff", "--fail-on-breaking", v1, v1)
	assert.Equal(t, ExitOK, code)
}

func TestStatusCommand(t *testing.T) {
	dir := project(t)
	code, out, _ := run(t, dir, "status")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "No cached sources.")

	code, _, _ = run(t, dir, "parse", filepath.Join(dir, "v1.yaml"))
	require.Equal(t, ExitOK, code)

	code, out, _ = run(t, dir, "status")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "fresh")
	assert.Contains(t, out, "1 fresh, 0 stale")
}

func TestGenerateCommand(t *testing.T) {
	dir := project(t)
	v1 := filepath.Join(dir, "v1.yaml")

	code, out, errOut := run(t, dir, "generate", "--target", "typescript", v1)
	require.Equal(t, ExitOK, code, errOut)
	assert.Contains(t, out, "// ==> types.ts <==")
	assert.Contains(t, out, "export interface Order {")

	outDir := filepath.Join(dir, "gen")
	code, out, _ = run(t, dir, "generate", "-t", "python", "--out-dir", outDir, v1)
	require.Equal(t, ExitOK, code)
	assert.Equal(t, "wrote "+filepath.Join(outDir, "models.py")+"\n", out)

	code, _, errOut = run(t, dir, "generate", v1)
	assert.Equal(t, ExitError, code)
	assert.Contains(t, errOut, "target")
}

func TestGenerateCommandStrict(t *testing.T) {
	dir := t.TempDir()
	doc := `openapi: 3.0.3
info:
  title: Items
  version: "1"
paths:
  /items/{itemId}:
    get:
      responses:
        '200':
          description: ok
`
	src := filepath.Join(dir, "items.yaml")
	require.NoError(t, os.WriteFile(src, []byte(doc), 0o644))

	code, _, errOut := run(t, dir, "generate", "-t", "typescript", src)
	assert.Equal(t, ExitError, code)
	assert.Contains(t, errOut, `path parameter "itemId" is not declared`)

	code, out, errOut := run(t, dir, "generate", "-t", "typescript", "--strict=false", src)
	require.Equal(t, ExitOK, code, errOut)
	assert.Contains(t, out, "// ==> types.ts <==")
}

func TestGlobalFlagErrors(t *testing.T) {
	dir := project(t)

	code, _, errOut := run(t, dir, "-o", "xml", "status")
	assert.Equal(t, ExitError, code)
	assert.Contains(t, errOut, "configuration error for output")

	var stdout, stderr bytes.Buffer
	code = Execute(context.Background(), []string{"--log-level", "loud", "status"}, &stdout, &stderr)
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr.String(), "log-level")

	code, _, errOut = run(t, dir, "parse")
	assert.Equal(t, ExitError, code)
	assert.Contains(t, errOut, "accepts 1 arg(s)")
}

func TestVersionFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), []string{"--version"}, &stdout, &stderr)
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout.String(), "oassync version dev")
}
