package engine

import (
	"context"
	"strings"

	"github.com/erraggy/oassync/graph"
	"github.com/erraggy/oassync/loader"
	"github.com/erraggy/oassync/oaserrors"
	"github.com/erraggy/oassync/pagination"
)

// DepsRequest is the input of Deps.
type DepsRequest struct {
	Source     string
	Schema     string
	Direction  string
	ProjectDir string
	UseCache   bool
	Limit      int
	Offset     int
}

// DepsView is the ranked impact list of one schema.
type DepsView struct {
	Source            string           `json:"source"`
	Freshness         loader.Freshness `json:"freshness"`
	Schema            string           `json:"schema"`
	Direction         graph.Direction  `json:"direction"`
	Role              graph.Role       `json:"role"`
	Recursive         bool             `json:"recursive,omitempty"`
	AffectedSchemas   int              `json:"affected_schemas"`
	AffectedEndpoints int              `json:"affected_endpoints"`
	// Impacts are ordered by depth, then node name.
	Impacts    []graph.Impact `json:"impacts"`
	Pagination *PageInfo      `json:"pagination"`
}

// Deps answers which schemas and endpoints depend on (downstream) or are
// depended on by (upstream) the named schema.
func (e *Engine) Deps(ctx context.Context, req DepsRequest) (*DepsView, error) {
	dir, err := graph.ParseDirection(strings.ToLower(req.Direction))
	if err != nil {
		return nil, err
	}
	if req.Schema == "" {
		return nil, &oaserrors.ConfigError{Option: "schema", Message: "a schema name is required"}
	}
	res, err := e.load(ctx, req.ProjectDir, loader.Request{Source: req.Source, UseCache: req.UseCache})
	if err != nil {
		return nil, err
	}
	g := e.graphFor(res.Document)
	q, err := g.Query(req.Schema, dir)
	if err != nil {
		return nil, err
	}
	p := pagination.Bounded(q.Impacts, req.Limit, req.Offset, e.cfg.DefaultLimit, e.cfg.MaxLimit)
	return &DepsView{
		Source:            req.Source,
		Freshness:         res.Freshness,
		Schema:            req.Schema,
		Direction:         q.Direction,
		Role:              g.Role(req.Schema),
		Recursive:         g.IsRecursive(req.Schema),
		AffectedSchemas:   q.AffectedSchemas,
		AffectedEndpoints: q.AffectedEndpoints,
		Impacts:           p.Items,
		Pagination:        pageInfo(p),
	}, nil
}
