// Package cache persists normalized documents between runs.
//
// Each project directory owns one [Store], backed by a JSON file named
// [FileName]. The file records a schema version and one [Entry] per
// normalized source key, holding the content hash, HTTP validators, the
// local modification time and an IR snapshot.
//
// A store is opened explicitly and flushed explicitly:
//
//	store, err := cache.Open(projectDir, cache.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
// Unreadable or incompatible files never fail Open; the store starts empty
// and [Store.Degraded] reports why. Flush replaces the file atomically.
package cache
