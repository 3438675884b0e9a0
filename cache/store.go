package cache

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/erraggy/oassync/internal/fileutil"
	"github.com/erraggy/oassync/logging"
	"github.com/erraggy/oassync/oaserrors"
)

const (
	// FileName is the cache file created in each project directory.
	FileName = ".oassync.cache.json"
	// SchemaVersion is the current cache file format. Files with any other
	// version are discarded on open.
	SchemaVersion = 1
	// DefaultTTL is how long an entry is served without revalidation.
	DefaultTTL = 24 * time.Hour
)

type fileFormat struct {
	SchemaVersion int               `json:"schema_version"`
	Entries       map[string]*Entry `json:"entries"`
}

type config struct {
	logger  logging.Logger
	metrics *Metrics
}

// Option configures Open.
type Option func(*config) error

// WithLogger sets the logger for cache warnings.
func WithLogger(l logging.Logger) Option {
	return func(c *config) error {
		c.logger = logging.OrNop(l)
		return nil
	}
}

// WithMetrics records store activity in m.
func WithMetrics(m *Metrics) Option {
	return func(c *config) error {
		c.metrics = m
		return nil
	}
}

// Store is the cache for one project directory. It is safe for concurrent
// use: reads share an RWMutex and writers of the same key serialize on
// Lock.
type Store struct {
	path    string
	logger  logging.Logger
	metrics *Metrics

	mu       sync.RWMutex
	entries  map[string]*Entry
	dirty    bool
	closed   bool
	openErr  error
	keyLocks sync.Map // key -> *sync.Mutex
}

// Open loads the cache file in dir. A missing, unreadable, corrupt or
// version-mismatched file yields an empty store; the problem is logged and
// reported by Degraded but never returned.
func Open(dir string, opts ...Option) (*Store, error) {
	cfg := &config{logger: logging.NopLogger{}}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, &oaserrors.ConfigError{Option: "cache", Message: "invalid option", Cause: err}
		}
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, &oaserrors.ConfigError{Option: "project_dir", Value: dir, Message: "cannot resolve directory", Cause: err}
	}
	s := &Store{
		path:    filepath.Join(abs, FileName),
		logger:  cfg.logger,
		metrics: cfg.metrics,
		entries: make(map[string]*Entry),
	}
	if err := s.load(); err != nil {
		s.openErr = err
		var ce *oaserrors.CacheError
		if errors.As(err, &ce) {
			s.metrics.openFailure(string(ce.Reason))
		}
		s.logger.Warn("cache file discarded", "path", s.path, "error", err)
	}
	s.metrics.addEntries(len(s.entries))
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &oaserrors.CacheError{Path: s.path, Reason: oaserrors.CacheRead, Cause: err}
	}
	var head struct {
		SchemaVersion int `json:"schema_version"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return &oaserrors.CacheError{Path: s.path, Reason: oaserrors.CacheCorrupted, Cause: err}
	}
	if head.SchemaVersion != SchemaVersion {
		return &oaserrors.CacheError{
			Path:    s.path,
			Reason:  oaserrors.CacheVersion,
			Message: fmt.Sprintf("schema_version %d, want %d", head.SchemaVersion, SchemaVersion),
		}
	}
	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return &oaserrors.CacheError{Path: s.path, Reason: oaserrors.CacheCorrupted, Cause: err}
	}
	for key, e := range f.Entries {
		if e == nil || e.Document == nil || e.SchemaVersion != SchemaVersion {
			continue
		}
		e.Key = key
		s.entries[key] = e
	}
	return nil
}

// Path returns the cache file path.
func (s *Store) Path() string { return s.path }

// Degraded returns the CacheError that caused the file to be discarded on
// open, or nil.
func (s *Store) Degraded() error { return s.openErr }

// Get returns the entry stored under key.
func (s *Store) Get(key string) (*Entry, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	s.metrics.lookup(ok)
	return e, ok
}

// Put stores e under e.Key, replacing any previous entry. Entries are
// treated as immutable once stored.
func (s *Store) Put(e *Entry) {
	e.SchemaVersion = SchemaVersion
	s.mu.Lock()
	_, existed := s.entries[e.Key]
	s.entries[e.Key] = e
	s.dirty = true
	s.mu.Unlock()
	if !existed {
		s.metrics.addEntries(1)
	}
}

// Delete removes the entry for key.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	_, existed := s.entries[key]
	delete(s.entries, key)
	if existed {
		s.dirty = true
	}
	s.mu.Unlock()
	if existed {
		s.metrics.addEntries(-1)
	}
}

// Entries returns every entry ordered by key.
func (s *Store) Entries() []*Entry {
	s.mu.RLock()
	out := make([]*Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	s.mu.RUnlock()
	slices.SortFunc(out, func(a, b *Entry) int { return cmp.Compare(a.Key, b.Key) })
	return out
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Lock acquires the exclusive section for key and returns its release
// function. Writers of different keys do not block each other.
func (s *Store) Lock(key string) (unlock func()) {
	v, _ := s.keyLocks.LoadOrStore(key, &sync.Mutex{})
	m := v.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

// Flush writes the store to disk atomically if it changed since the last
// flush.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	data, err := json.MarshalIndent(fileFormat{SchemaVersion: SchemaVersion, Entries: s.entries}, "", "  ")
	if err == nil {
		err = fileutil.WriteAtomic(s.path, append(data, '\n'), fileutil.OwnerReadWrite)
	}
	s.metrics.flush(err)
	if err != nil {
		return &oaserrors.CacheError{Path: s.path, Reason: oaserrors.CacheWrite, Cause: err}
	}
	s.dirty = false
	s.logger.Debug("cache flushed", "path", s.path, "entries", len(s.entries))
	return nil
}

// Close flushes pending changes. Further Puts are still accepted but only
// reach disk on another Flush.
func (s *Store) Close() error {
	err := s.Flush()
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		s.metrics.addEntries(-len(s.entries))
	}
	s.mu.Unlock()
	return err
}
