package loader

import (
	"context"
	"os"
	"time"

	"github.com/erraggy/oassync/cache"
	"github.com/erraggy/oassync/ir"
	"github.com/erraggy/oassync/normalizer"
	"github.com/erraggy/oassync/oaserrors"
	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/singleflight"
)

// Freshness describes where a loaded document came from.
type Freshness string

const (
	// FreshnessCached means the cached IR was served without I/O beyond a stat.
	FreshnessCached Freshness = "cached"
	// FreshnessRevalidated means the source confirmed the cached IR unchanged.
	FreshnessRevalidated Freshness = "revalidated"
	// FreshnessFetched means the source was read and normalized.
	FreshnessFetched Freshness = "fetched"
)

// Request describes one load.
type Request struct {
	// Source is a file path or http(s) URL.
	Source string
	// UseCache serves a fresh cache entry when one exists.
	UseCache bool
	// CheckRemote revalidates an existing entry with the source.
	CheckRemote bool
	// Strict fails with a ParseError when the document has structural violations.
	Strict bool
}

// Result is a loaded document.
type Result struct {
	Document  *ir.Document
	Freshness Freshness
	Key       string
	Entry     *cache.Entry
}

// Loader loads and normalizes documents through a cache store.
type Loader struct {
	store  *cache.Store
	cfg    *config
	client *resty.Client
	group  singleflight.Group
}

// New returns a Loader backed by store. A nil store disables caching.
func New(store *cache.Store, opts ...Option) (*Loader, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, &oaserrors.ConfigError{Option: "loader", Message: "invalid option", Cause: err}
		}
	}
	return &Loader{store: store, cfg: cfg, client: newRestyClient(cfg)}, nil
}

// Store returns the loader's cache store, or nil.
func (l *Loader) Store() *cache.Store { return l.store }

type mode string

const (
	modeCache      mode = "cache"
	modeRevalidate mode = "revalidate"
	modeFetch      mode = "fetch"
)

func (r Request) mode() mode {
	switch {
	case !r.UseCache:
		return modeFetch
	case r.CheckRemote:
		return modeRevalidate
	default:
		return modeCache
	}
}

// Load returns the normalized document for req.Source. Concurrent loads of
// the same key and mode share one fetch; loads of one key never overlap.
// The shared work is not canceled when a single caller gives up.
func (l *Loader) Load(ctx context.Context, req Request) (*Result, error) {
	key, err := NormalizeKey(req.Source)
	if err != nil {
		return nil, err
	}
	m := req.mode()

	if m == modeCache {
		if res := l.cached(key); res != nil {
			return l.finish(res, req)
		}
	}

	ch := l.group.DoChan(key+"\x00"+string(m), func() (any, error) {
		budget := l.cfg.timeout * time.Duration(l.cfg.retries+2)
		wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), budget)
		defer cancel()
		return l.load(wctx, key, req.Source, m)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return l.finish(r.Val.(*Result), req)
	}
}

func (l *Loader) finish(res *Result, req Request) (*Result, error) {
	if req.Strict && len(res.Document.Warnings) > 0 {
		return nil, oaserrors.NewStructureError(req.Source, res.Document.Warnings)
	}
	return res, nil
}

// cached returns a usable entry without fetching: unexpired and, for local
// files, with an unchanged modification time.
func (l *Loader) cached(key string) *Result {
	if l.store == nil {
		return nil
	}
	e, ok := l.store.Get(key)
	if !ok || e.Expired(l.cfg.now()) {
		return nil
	}
	if !e.IsRemote() && !l.modTimeMatches(key, e) {
		return nil
	}
	return &Result{Document: e.Document, Freshness: FreshnessCached, Key: key, Entry: e}
}

func (l *Loader) modTimeMatches(path string, e *cache.Entry) bool {
	info, err := os.Stat(path)
	return err == nil && info.ModTime().Equal(e.LocalModTime)
}

func (l *Loader) load(ctx context.Context, key, source string, m mode) (*Result, error) {
	if l.store != nil {
		unlock := l.store.Lock(key)
		defer unlock()
	}
	// Another load of this key may have finished while waiting.
	if m == modeCache {
		if res := l.cached(key); res != nil {
			return res, nil
		}
	}

	var prev *cache.Entry
	if l.store != nil && m != modeFetch {
		prev, _ = l.store.Get(key)
	}

	if IsURL(key) {
		return l.loadRemote(ctx, key, source, prev)
	}
	return l.loadLocal(ctx, key, source, prev)
}

func (l *Loader) loadRemote(ctx context.Context, key, source string, prev *cache.Entry) (*Result, error) {
	var v validators
	if prev != nil {
		v = validators{etag: prev.ETag, lastModified: prev.LastModified}
	}
	f, err := l.fetchRemote(ctx, key, v)
	if err != nil {
		return nil, err
	}
	if f.notModified && prev != nil {
		e := prev.Extended(l.cfg.now(), l.cfg.ttl)
		l.store.Put(e)
		l.cfg.logger.Debug("source not modified", "key", key)
		return &Result{Document: e.Document, Freshness: FreshnessRevalidated, Key: key, Entry: e}, nil
	}
	if f.notModified {
		return nil, &oaserrors.NetworkError{URL: key, Reason: oaserrors.NetworkStatus, StatusCode: 304, Message: "not modified without a cached entry"}
	}
	return l.save(ctx, key, source, f)
}

func (l *Loader) loadLocal(ctx context.Context, key, source string, prev *cache.Entry) (*Result, error) {
	f, err := readLocal(key)
	if err != nil {
		return nil, err
	}
	if prev != nil && prev.ContentHash == ir.HashContent(f.data) {
		e := prev.Extended(l.cfg.now(), l.cfg.ttl)
		e.LocalModTime = f.modTime
		l.store.Put(e)
		l.cfg.logger.Debug("source content unchanged", "key", key)
		return &Result{Document: e.Document, Freshness: FreshnessRevalidated, Key: key, Entry: e}, nil
	}
	return l.save(ctx, key, source, f)
}

// save normalizes freshly read bytes and records them in the store. The
// store is written only after normalization succeeds.
func (l *Loader) save(ctx context.Context, key, source string, f *fetched) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := normalizer.Normalize(f.data,
		normalizer.WithContentHint(f.contentHint),
		normalizer.WithSourceName(source),
		normalizer.WithLogger(l.cfg.logger),
	)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := l.cfg.now()
	e := &cache.Entry{
		Key:          key,
		Source:       source,
		ContentHash:  res.Document.ContentHash,
		ETag:         f.etag,
		LastModified: f.lastModified,
		LocalModTime: f.modTime,
		FetchedAt:    now,
		ExpiresAt:    now.Add(l.cfg.ttl),
		Document:     res.Document,
	}
	if l.store != nil {
		l.store.Put(e)
	}
	l.cfg.logger.Debug("source loaded",
		"key", key,
		"format", res.Format,
		"endpoints", res.Document.Endpoints.Len(),
		"schemas", res.Document.Schemas.Len(),
	)
	return &Result{Document: res.Document, Freshness: FreshnessFetched, Key: key, Entry: e}, nil
}
