package engine

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/erraggy/oassync/cache"
	"github.com/erraggy/oassync/graph"
	"github.com/erraggy/oassync/internal/config"
	"github.com/erraggy/oassync/ir"
	"github.com/erraggy/oassync/loader"
	"github.com/erraggy/oassync/logging"
	"github.com/erraggy/oassync/oaserrors"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
)

type options struct {
	logger     logging.Logger
	registerer prometheus.Registerer
	httpClient *http.Client
}

// Option configures an Engine.
type Option func(*options) error

// WithLogger sets the logger shared by every component.
func WithLogger(l logging.Logger) Option {
	return func(o *options) error {
		o.logger = logging.OrNop(l)
		return nil
	}
}

// WithRegisterer registers cache metrics with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) error {
		o.registerer = reg
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for remote sources.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) error {
		o.httpClient = hc
		return nil
	}
}

// Engine runs the tool operations. It owns one cache store per project
// directory and memoizes dependency graphs by content hash. It is safe for
// concurrent use.
type Engine struct {
	cfg     *config.Config
	opts    *options
	metrics *cache.Metrics
	graphs  *expirable.LRU[string, *graph.Graph]

	mu      sync.Mutex
	loaders map[string]*loader.Loader
	closed  bool
}

// New returns an Engine using cfg. A nil cfg loads the environment
// configuration.
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.Load()
	}
	o := &options{logger: logging.NopLogger{}}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, &oaserrors.ConfigError{Option: "engine", Message: "invalid option", Cause: err}
		}
	}
	e := &Engine{
		cfg:     cfg,
		opts:    o,
		graphs:  expirable.NewLRU[string, *graph.Graph](cfg.GraphCacheSize, nil, cfg.GraphCacheTTL),
		loaders: make(map[string]*loader.Loader),
	}
	if o.registerer != nil {
		e.metrics = cache.NewMetrics(o.registerer)
	}
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() *config.Config { return e.cfg }

// Close flushes and closes every open cache store.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	var errs []error
	for _, l := range e.loaders {
		if err := l.Store().Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// loaderFor returns the loader bound to projectDir's cache store, opening
// the store on first use.
func (e *Engine) loaderFor(projectDir string) (*loader.Loader, error) {
	if projectDir == "" {
		projectDir = e.cfg.ProjectDir
	}
	dir, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, &oaserrors.ConfigError{Option: "project_dir", Value: projectDir, Message: "cannot resolve directory", Cause: err}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, &oaserrors.ConfigError{Option: "engine", Message: "engine is closed"}
	}
	if l, ok := e.loaders[dir]; ok {
		return l, nil
	}
	store, err := cache.Open(dir, cache.WithLogger(e.opts.logger), cache.WithMetrics(e.metrics))
	if err != nil {
		return nil, err
	}
	l, err := loader.New(store,
		loader.WithTTL(e.cfg.CacheTTL),
		loader.WithTimeout(e.cfg.FetchTimeout),
		loader.WithRetries(e.cfg.FetchRetries),
		loader.WithUserAgent(e.cfg.UserAgent),
		loader.WithHTTPClient(e.opts.httpClient),
		loader.WithLogger(e.opts.logger),
	)
	if err != nil {
		return nil, err
	}
	e.loaders[dir] = l
	return l, nil
}

// load fetches one source and flushes the store. A flush failure is logged
// and does not fail the operation.
func (e *Engine) load(ctx context.Context, projectDir string, req loader.Request) (*loader.Result, error) {
	l, err := e.loaderFor(projectDir)
	if err != nil {
		return nil, err
	}
	res, err := l.Load(ctx, req)
	if err != nil {
		return nil, err
	}
	if res.Freshness != loader.FreshnessCached {
		if err := l.Store().Flush(); err != nil {
			e.opts.logger.Warn("cache flush failed", "path", l.Store().Path(), "error", err)
		}
	}
	return res, nil
}

// graphFor returns the dependency graph of doc, built at most once per
// content hash while it stays in the LRU.
func (e *Engine) graphFor(doc *ir.Document) *graph.Graph {
	if doc.ContentHash == "" {
		return graph.Build(doc)
	}
	if g, ok := e.graphs.Get(doc.ContentHash); ok {
		return g
	}
	g := graph.Build(doc)
	e.graphs.Add(doc.ContentHash, g)
	return g
}
