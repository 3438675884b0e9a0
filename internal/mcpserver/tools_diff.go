package mcpserver

import (
	"context"

	"github.com/erraggy/oassync/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type diffInput struct {
	OldSource    string `json:"old_source"              jsonschema:"Path or URL of the base document"`
	NewSource    string `json:"new_source"              jsonschema:"Path or URL of the revised document"`
	BreakingOnly bool   `json:"breaking_only,omitempty" jsonschema:"Only report breaking changes"`
	projectInput
}

func (s *server) handleDiff(ctx context.Context, _ *mcp.CallToolRequest, input diffInput) (*mcp.CallToolResult, *engine.DiffView, error) {
	view, err := s.eng.Diff(ctx, engine.DiffRequest{
		OldSource:    s.resolveSource(input.OldSource, input.projectInput),
		NewSource:    s.resolveSource(input.NewSource, input.projectInput),
		ProjectDir:   s.projectDir(input.projectInput),
		BreakingOnly: input.BreakingOnly,
		UseCache:     input.useCache(),
	})
	if err != nil {
		return nil, nil, toolError(err)
	}
	return nil, view, nil
}
