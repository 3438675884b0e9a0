// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes the oassync engine as MCP tools over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"regexp"

	"github.com/erraggy/oassync"
	"github.com/erraggy/oassync/engine"
	"github.com/erraggy/oassync/oaserrors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `oassync MCP server: parses OpenAPI 2.0/3.x documents into a normalized model, answers schema dependency questions, classifies breaking changes and generates typed code.

Sources are file paths (relative paths resolve against project_dir) or http(s) URLs. Parsed documents are cached per project in .oassync.cache.json; repeated calls are answered from the cache until the TTL expires or the local file changes. Set use_cache=false to force a fetch.

Configuration: defaults come from OASSYNC_* environment variables set in your MCP client config.
- OASSYNC_PROJECT_DIR (default: working directory): project whose cache is used
- OASSYNC_CACHE_TTL (default: 24h): cache entry lifetime
- OASSYNC_FETCH_TIMEOUT (default: 30s) and OASSYNC_FETCH_RETRIES (default: 2): remote fetch limits
- OASSYNC_DEFAULT_LIMIT (default: 50) and OASSYNC_MAX_LIMIT (default: 500): page sizes for list views

Start with parse (format=summary), then narrow with endpoints-list or schemas-list and pagination before asking for full detail.`

// server binds tool handlers to one engine.
type server struct {
	eng *engine.Engine
}

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled. The caller owns eng.
func Run(ctx context.Context, eng *engine.Engine) error {
	return newMCPServer(eng).Run(ctx, &mcp.StdioTransport{})
}

func newMCPServer(eng *engine.Engine) *mcp.Server {
	srv := mcp.NewServer(
		&mcp.Implementation{Name: "oassync", Version: oassync.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(srv, &server{eng: eng})
	return srv
}

func registerAllTools(srv *mcp.Server, s *server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "parse",
		Description: "Parse an OpenAPI 2.0 or 3.x document and return a view of it. Formats: summary (metadata and graph stats, the default), endpoints-list and schemas-list (keys only), endpoints and schemas (summaries with referenced schema names), full (both plus orphan and recursive schemas). List views are paginated with limit/offset; endpoints can be filtered by tag and path_prefix.",
	}, s.handleParse)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "deps",
		Description: "Rank the schemas and endpoints affected by a named schema. direction=downstream (default) lists everything that uses the schema, upstream lists everything it uses, both unions the two. Results are ordered by distance, then name, and paginated with limit/offset.",
	}, s.handleDeps)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "diff",
		Description: "Compare two versions of an OpenAPI document and classify every change as breaking or non-breaking, with the rule that fired and the role (request, response) of affected schemas. Use breaking_only=true to focus on breaking changes.",
	}, s.handleDiff)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "status",
		Description: "Report the cache state of every source parsed in a project: fresh, expired, modified (local file changed), missing or error. check_remote=true revalidates each entry with its source.",
	}, s.handleStatus)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "generate",
		Description: "Generate typed code from an OpenAPI document. Targets: typescript, typescript-fetch, python, go, go-client. Documents with structural violations are rejected unless strict=false. Returns the generated files inline and writes them when output_dir is set. Constructs a target cannot express are reported as warnings.",
	}, s.handleGenerate)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// toolError turns an engine error into a tool execution error. The SDK
// reports it to the client as an IsError result prefixed with the error
// category.
func toolError(err error) error {
	return fmt.Errorf("[%s] %s", oaserrors.Category(err), sanitizeError(err))
}
