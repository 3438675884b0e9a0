package mcpserver

import (
	"context"

	"github.com/erraggy/oassync/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type depsInput struct {
	Source    string `json:"source"              jsonschema:"Path or http(s) URL of the OpenAPI document"`
	Schema    string `json:"schema"              jsonschema:"Name of the component schema to query"`
	Direction string `json:"direction,omitempty" jsonschema:"downstream (dependents, default), upstream (dependencies) or both"`
	Limit     int    `json:"limit,omitempty"     jsonschema:"Page size (default: OASSYNC_DEFAULT_LIMIT)"`
	Offset    int    `json:"offset,omitempty"    jsonschema:"Impacts to skip"`
	projectInput
}

func (s *server) handleDeps(ctx context.Context, _ *mcp.CallToolRequest, input depsInput) (*mcp.CallToolResult, *engine.DepsView, error) {
	view, err := s.eng.Deps(ctx, engine.DepsRequest{
		Source:     s.resolveSource(input.Source, input.projectInput),
		Schema:     input.Schema,
		Direction:  input.Direction,
		ProjectDir: s.projectDir(input.projectInput),
		UseCache:   input.useCache(),
		Limit:      input.Limit,
		Offset:     input.Offset,
	})
	if err != nil {
		return nil, nil, toolError(err)
	}
	return nil, view, nil
}
