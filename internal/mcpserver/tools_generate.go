package mcpserver

import (
	"context"

	"github.com/erraggy/oassync/engine"
	"github.com/erraggy/oassync/generator"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type generateInput struct {
	Source       string `json:"source"                  jsonschema:"Path or http(s) URL of the OpenAPI document"`
	Target       string `json:"target"                  jsonschema:"One of typescript, typescript-fetch, python, go, go-client"`
	TypeNaming   string `json:"type_naming,omitempty"   jsonschema:"PascalCase (default), camelCase or snake_case"`
	GenerateDocs bool   `json:"generate_docs,omitempty" jsonschema:"Emit schema and property descriptions as comments"`
	PackageName  string `json:"package_name,omitempty"  jsonschema:"Go package name for Go targets (default: api)"`
	OutputDir    string `json:"output_dir,omitempty"    jsonschema:"Also write the files to this directory"`
	Strict       *bool  `json:"strict,omitempty"        jsonschema:"Reject documents with structural violations (default: true)"`
	projectInput
}

type generatedFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// generateWarning flattens generator warnings; their severity renders as text.
type generateWarning struct {
	Path     string `json:"path"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

type generateOutput struct {
	Target   string            `json:"target"`
	Files    []generatedFile   `json:"files"`
	Warnings []generateWarning `json:"warnings"`
	Written  []string          `json:"written,omitempty"`
}

func (s *server) handleGenerate(ctx context.Context, _ *mcp.CallToolRequest, input generateInput) (*mcp.CallToolResult, *generateOutput, error) {
	outputDir := input.OutputDir
	if outputDir != "" {
		outputDir = s.resolveSource(outputDir, input.projectInput)
	}
	view, err := s.eng.Generate(ctx, engine.GenerateRequest{
		Source: s.resolveSource(input.Source, input.projectInput),
		Target: input.Target,
		Style: generator.Style{
			TypeNaming:   input.TypeNaming,
			GenerateDocs: input.GenerateDocs,
			PackageName:  input.PackageName,
		},
		ProjectDir: s.projectDir(input.projectInput),
		UseCache:   input.useCache(),
		Strict:     input.Strict,
		OutputDir:  outputDir,
	})
	if err != nil {
		return nil, nil, toolError(err)
	}

	out := &generateOutput{
		Target:   string(view.Target),
		Files:    make([]generatedFile, 0, len(view.Files)),
		Warnings: make([]generateWarning, 0, len(view.Warnings)),
		Written:  view.Written,
	}
	for _, f := range view.Files {
		out.Files = append(out.Files, generatedFile{Name: f.Name, Content: f.Content})
	}
	for _, w := range view.Warnings {
		out.Warnings = append(out.Warnings, generateWarning{Path: w.Path, Severity: w.Severity.String(), Message: w.Message})
	}
	return nil, out, nil
}
