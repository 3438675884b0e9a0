package engine

import (
	"context"
	"fmt"

	"github.com/erraggy/oassync/differ"
	"github.com/erraggy/oassync/loader"
	"golang.org/x/sync/errgroup"
)

// DiffRequest is the input of Diff.
type DiffRequest struct {
	OldSource    string
	NewSource    string
	ProjectDir   string
	BreakingOnly bool
	UseCache     bool
}

// DiffView is the classified change list between two documents.
type DiffView struct {
	OldSource string `json:"old_source"`
	NewSource string `json:"new_source"`
	*differ.Result
	Summary string `json:"summary"`
}

// Diff loads both documents concurrently and compares them. If either side
// fails to load, that side's error is returned and no diff is attempted.
func (e *Engine) Diff(ctx context.Context, req DiffRequest) (*DiffView, error) {
	var oldRes, newRes *loader.Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := e.load(gctx, req.ProjectDir, loader.Request{Source: req.OldSource, UseCache: req.UseCache})
		if err != nil {
			return fmt.Errorf("old source: %w", err)
		}
		oldRes = r
		return nil
	})
	g.Go(func() error {
		r, err := e.load(gctx, req.ProjectDir, loader.Request{Source: req.NewSource, UseCache: req.UseCache})
		if err != nil {
			return fmt.Errorf("new source: %w", err)
		}
		newRes = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res, err := differ.Diff(ctx, oldRes.Document, newRes.Document,
		differ.WithBreakingOnly(req.BreakingOnly),
		differ.WithLogger(e.opts.logger),
	)
	if err != nil {
		return nil, err
	}
	return &DiffView{OldSource: req.OldSource, NewSource: req.NewSource, Result: res, Summary: res.Summary()}, nil
}
