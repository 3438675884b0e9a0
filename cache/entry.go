package cache

import (
	"net/url"
	"time"

	"github.com/erraggy/oassync/ir"
)

// Entry is the cached state of one source.
type Entry struct {
	// Key is the normalized source key the entry is stored under.
	Key string `json:"key"`
	// Source is the path or URL as first requested.
	Source      string `json:"source"`
	ContentHash string `json:"content_hash"`
	// ETag and LastModified are the validators returned by a remote server.
	ETag         string `json:"etag,omitempty"`
	LastModified string `json:"last_modified,omitempty"`
	// LocalModTime is the file modification time for local sources.
	LocalModTime time.Time    `json:"local_mtime,omitzero"`
	FetchedAt    time.Time    `json:"fetched_at"`
	ExpiresAt    time.Time    `json:"expires_at"`
	Document     *ir.Document `json:"document"`
	// SchemaVersion is the cache format version the entry was written with.
	SchemaVersion int `json:"schema_version"`
}

// Expired reports whether the entry's TTL has passed at now.
func (e *Entry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// IsRemote reports whether the entry was fetched over HTTP.
func (e *Entry) IsRemote() bool {
	u, err := url.Parse(e.Key)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

// Extended returns a copy of the entry whose expiry is reset to now+ttl.
func (e *Entry) Extended(now time.Time, ttl time.Duration) *Entry {
	c := *e
	c.ExpiresAt = now.Add(ttl)
	return &c
}
