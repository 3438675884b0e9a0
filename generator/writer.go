package generator

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/erraggy/oassync/internal/fileutil"
	"github.com/erraggy/oassync/oaserrors"
)

// WriteFiles writes every generated file into dir, creating it if needed.
// Files are replaced atomically. It returns the written paths in order.
func (r *Result) WriteFiles(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fsError(dir, "mkdir", err)
	}
	paths := make([]string, 0, len(r.Files))
	for _, f := range r.Files {
		name := filepath.Base(f.Name)
		if name != f.Name || name == "." || name == ".." {
			return paths, &oaserrors.CodegenError{
				Target:  string(r.Target),
				File:    f.Name,
				Reason:  oaserrors.CodegenRender,
				Message: "generated file name must not contain a directory",
			}
		}
		path := filepath.Join(dir, name)
		if err := fileutil.WriteAtomic(path, []byte(f.Content), fileutil.ReadableByAll); err != nil {
			return paths, fsError(path, "write", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func fsError(path, op string, err error) error {
	reason := oaserrors.FilesystemIO
	switch {
	case errors.Is(err, fs.ErrNotExist):
		reason = oaserrors.FilesystemNotFound
	case errors.Is(err, fs.ErrPermission):
		reason = oaserrors.FilesystemPermission
	}
	return &oaserrors.FilesystemError{Path: path, Op: op, Reason: reason, Cause: err}
}
