package engine

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/erraggy/oassync/cache"
	"github.com/erraggy/oassync/loader"
	"golang.org/x/sync/errgroup"
)

// Entry states reported by Status.
const (
	StateFresh    = "fresh"
	StateExpired  = "expired"
	StateModified = "modified"
	StateMissing  = "missing"
	StateError    = "error"
)

// statusConcurrency bounds parallel revalidations.
const statusConcurrency = 4

// StatusRequest is the input of Status.
type StatusRequest struct {
	ProjectDir  string
	CheckRemote bool
}

// EntryStatus describes one cached source.
type EntryStatus struct {
	Key          string    `json:"key"`
	Source       string    `json:"source"`
	Remote       bool      `json:"remote"`
	State        string    `json:"state"`
	Title        string    `json:"title,omitempty"`
	Version      string    `json:"version,omitempty"`
	ContentHash  string    `json:"content_hash"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	FetchedAt    time.Time `json:"fetched_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	// Freshness is set when the entry was revalidated.
	Freshness loader.Freshness `json:"freshness,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// StatusView summarizes a project's cache.
type StatusView struct {
	ProjectDir string        `json:"project_dir"`
	CacheFile  string        `json:"cache_file"`
	Warning    string        `json:"warning,omitempty"`
	Entries    []EntryStatus `json:"entries"`
	Fresh      int           `json:"fresh"`
	Stale      int           `json:"stale"`
}

// Status reports the freshness of every cached source. Without
// CheckRemote nothing is fetched or parsed; local entries are only
// stat'ed. With CheckRemote every entry is revalidated and per-entry
// failures are reported in the entry rather than failing the call.
func (e *Engine) Status(ctx context.Context, req StatusRequest) (*StatusView, error) {
	l, err := e.loaderFor(req.ProjectDir)
	if err != nil {
		return nil, err
	}
	store := l.Store()
	view := &StatusView{ProjectDir: req.ProjectDir, CacheFile: store.Path(), Entries: []EntryStatus{}}
	if view.ProjectDir == "" {
		view.ProjectDir = e.cfg.ProjectDir
	}
	if derr := store.Degraded(); derr != nil {
		view.Warning = derr.Error()
	}

	entries := store.Entries()
	statuses := make([]EntryStatus, len(entries))
	now := time.Now()
	for i, ent := range entries {
		statuses[i] = entryStatus(ent, now)
	}

	if req.CheckRemote && len(entries) > 0 {
		var mu sync.Mutex
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(statusConcurrency)
		for i, ent := range entries {
			g.Go(func() error {
				res, err := l.Load(gctx, loader.Request{Source: ent.Key, UseCache: true, CheckRemote: true})
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					statuses[i].State = StateError
					statuses[i].Error = err.Error()
					return nil
				}
				updated := entryStatus(res.Entry, time.Now())
				updated.Freshness = res.Freshness
				statuses[i] = updated
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		if err := store.Flush(); err != nil {
			e.opts.logger.Warn("cache flush failed", "path", store.Path(), "error", err)
		}
	}

	for _, s := range statuses {
		if s.State == StateFresh {
			view.Fresh++
		} else {
			view.Stale++
		}
	}
	view.Entries = statuses
	return view, nil
}

func entryStatus(ent *cache.Entry, now time.Time) EntryStatus {
	s := EntryStatus{
		Key:          ent.Key,
		Source:       ent.Source,
		Remote:       ent.IsRemote(),
		State:        StateFresh,
		ContentHash:  ent.ContentHash,
		ETag:         ent.ETag,
		LastModified: ent.LastModified,
		FetchedAt:    ent.FetchedAt,
		ExpiresAt:    ent.ExpiresAt,
	}
	if ent.Document != nil {
		s.Title, s.Version = ent.Document.Info.Title, ent.Document.Info.Version
	}
	if !s.Remote {
		info, err := os.Stat(ent.Key)
		switch {
		case err != nil:
			s.State = StateMissing
			return s
		case !info.ModTime().Equal(ent.LocalModTime):
			s.State = StateModified
			return s
		}
	}
	if ent.Expired(now) {
		s.State = StateExpired
	}
	return s
}
