package mcpserver

import (
	"context"

	"github.com/erraggy/oassync/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type parseInput struct {
	Source     string `json:"source"                jsonschema:"Path or http(s) URL of the OpenAPI document"`
	Format     string `json:"format,omitempty"      jsonschema:"One of summary, endpoints-list, schemas-list, endpoints, schemas, full (default: summary)"`
	Strict     bool   `json:"strict,omitempty"      jsonschema:"Fail on structural violations instead of reporting them as warnings"`
	Limit      int    `json:"limit,omitempty"       jsonschema:"Page size for list views (default: OASSYNC_DEFAULT_LIMIT)"`
	Offset     int    `json:"offset,omitempty"      jsonschema:"Items to skip in list views"`
	Tag        string `json:"tag,omitempty"         jsonschema:"Only endpoints carrying this tag (case-insensitive)"`
	PathPrefix string `json:"path_prefix,omitempty" jsonschema:"Only endpoints whose path starts with this prefix"`
	projectInput
}

func (s *server) handleParse(ctx context.Context, _ *mcp.CallToolRequest, input parseInput) (*mcp.CallToolResult, *engine.ParseView, error) {
	view, err := s.eng.Parse(ctx, engine.ParseRequest{
		Source:     s.resolveSource(input.Source, input.projectInput),
		Format:     input.Format,
		ProjectDir: s.projectDir(input.projectInput),
		UseCache:   input.useCache(),
		Strict:     input.Strict,
		Limit:      input.Limit,
		Offset:     input.Offset,
		Tag:        input.Tag,
		PathPrefix: input.PathPrefix,
	})
	if err != nil {
		return nil, nil, toolError(err)
	}
	return nil, view, nil
}
