package engine

import (
	"context"

	"github.com/erraggy/oassync/generator"
	"github.com/erraggy/oassync/loader"
)

// GenerateRequest is the input of Generate.
type GenerateRequest struct {
	Source     string
	Target     string
	Style      generator.Style
	ProjectDir string
	UseCache   bool
	// Strict rejects documents with structural violations. Nil means true.
	Strict *bool
	// OutputDir, when set, also writes the files there.
	OutputDir string
}

func (r GenerateRequest) strict() bool {
	return r.Strict == nil || *r.Strict
}

// GenerateView lists the generated files.
type GenerateView struct {
	Source   string              `json:"source"`
	Target   generator.Target    `json:"target"`
	Files    []generator.File    `json:"files"`
	Warnings []generator.Warning `json:"warnings"`
	Written  []string            `json:"written,omitempty"`
}

// Generate renders code for one target. The target and style are checked
// before the source is loaded. Loading is strict unless req.Strict is false.
func (e *Engine) Generate(ctx context.Context, req GenerateRequest) (*GenerateView, error) {
	target, err := generator.ParseTarget(req.Target)
	if err != nil {
		return nil, err
	}
	if err := req.Style.Validate(); err != nil {
		return nil, err
	}
	res, err := e.load(ctx, req.ProjectDir, loader.Request{Source: req.Source, UseCache: req.UseCache, Strict: req.strict()})
	if err != nil {
		return nil, err
	}
	out, err := generator.Generate(ctx, res.Document, target, req.Style, generator.WithLogger(e.opts.logger))
	if err != nil {
		return nil, err
	}
	view := &GenerateView{Source: req.Source, Target: out.Target, Files: out.Files, Warnings: out.Warnings}
	if view.Warnings == nil {
		view.Warnings = []generator.Warning{}
	}
	if req.OutputDir != "" {
		paths, err := out.WriteFiles(req.OutputDir)
		if err != nil {
			return nil, err
		}
		view.Written = paths
	}
	return view, nil
}
