package oassync

import "fmt"

var (
	// version is set via ldflags during release builds.
	// For development builds, this will show "dev"
	version = "dev"

	// commit is the git short hash, set via ldflags.
	commit = "unknown"
)

// Version returns the compiled version or 'dev' if run from source
func Version() string {
	return version
}

// Commit returns the git commit the binary was built from, or "unknown".
func Commit() string {
	return commit
}

// UserAgent returns the User-Agent string sent with remote fetches.
func UserAgent() string {
	return fmt.Sprintf("oassync/%s", version)
}
