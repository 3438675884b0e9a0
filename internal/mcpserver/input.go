package mcpserver

import (
	"path/filepath"

	"github.com/erraggy/oassync/loader"
)

// projectInput is embedded by every tool input that reads a project cache.
type projectInput struct {
	ProjectDir string `json:"project_dir,omitempty" jsonschema:"Project directory holding .oassync.cache.json (default: OASSYNC_PROJECT_DIR)"`
	UseCache   *bool  `json:"use_cache,omitempty"   jsonschema:"Answer from the project cache when the entry is fresh (default: true)"`
}

func (p projectInput) useCache() bool {
	return p.UseCache == nil || *p.UseCache
}

// projectDir returns the requested project directory or the engine default.
func (s *server) projectDir(p projectInput) string {
	if p.ProjectDir != "" {
		return p.ProjectDir
	}
	return s.eng.Config().ProjectDir
}

// resolveSource anchors relative file paths at the project directory so a
// client does not depend on the server's working directory. URLs and
// absolute paths are returned unchanged.
func (s *server) resolveSource(source string, p projectInput) string {
	if source == "" || loader.IsURL(source) || filepath.IsAbs(source) {
		return source
	}
	return filepath.Join(s.projectDir(p), source)
}
