package mcpserver

import (
	"context"

	"github.com/erraggy/oassync/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type statusInput struct {
	ProjectDir  string `json:"project_dir,omitempty"  jsonschema:"Project directory holding .oassync.cache.json (default: OASSYNC_PROJECT_DIR)"`
	CheckRemote bool   `json:"check_remote,omitempty" jsonschema:"Revalidate every entry with its source"`
}

func (s *server) handleStatus(ctx context.Context, _ *mcp.CallToolRequest, input statusInput) (*mcp.CallToolResult, *engine.StatusView, error) {
	view, err := s.eng.Status(ctx, engine.StatusRequest{
		ProjectDir:  s.projectDir(projectInput{ProjectDir: input.ProjectDir}),
		CheckRemote: input.CheckRemote,
	})
	if err != nil {
		return nil, nil, toolError(err)
	}
	return nil, view, nil
}
