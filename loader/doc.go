// Package loader fetches API documents from files or URLs, normalizes them
// and keeps a [cache.Store] current.
//
// A [Request] chooses among three behaviors:
//
//   - UseCache without CheckRemote serves an unexpired entry (local files
//     must also keep their modification time) and otherwise loads.
//   - CheckRemote revalidates an existing entry: a conditional GET for URLs,
//     a content-hash comparison for files.
//   - Without UseCache the source is always read and normalized.
//
// Transient network failures (connection errors, 429, 5xx) are retried with
// exponential backoff. Loads of one source key never overlap, and identical
// concurrent loads share a single fetch.
package loader
