package readers

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
)

// FileModuleReader resolves and reads `file:` scheme module sources from the
// local filesystem. Filesystem access is inherently OS-level; no library in
// the retrieved corpus wraps plain local file reads more idiomatically than
// os/path-filepath, so this is a documented stdlib-only exception (see
// DESIGN.md).
type FileModuleReader struct{ RootDir string }

func (FileModuleReader) Scheme() string { return "file" }

func (r FileModuleReader) Resolve(_ context.Context, uri string) (ResolvedModule, error) {
	path, err := r.toPath(uri)
	if err != nil {
		return ResolvedModule{}, err
	}
	return ResolvedModule{URI: path}, nil
}

func (r FileModuleReader) ReadSource(_ context.Context, module ResolvedModule) ([]byte, error) {
	return os.ReadFile(module.URI)
}

func (r FileModuleReader) ListElements(_ context.Context, uri string) ([]PathElement, error) {
	path, err := r.toPath(uri)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	out := make([]PathElement, len(entries))
	for i, e := range entries {
		out[i] = PathElement{Name: e.Name(), IsDirectory: e.IsDir()}
	}

	return out, nil
}

func (r FileModuleReader) toPath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", err
	}

	path := u.Path
	if r.RootDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(r.RootDir, path)
	}

	return filepath.Clean(path), nil
}

// FileResourceReader is FileModuleReader's ResourceReader counterpart.
type FileResourceReader struct{ RootDir string }

func (FileResourceReader) Scheme() string { return "file" }

func (r FileResourceReader) Read(ctx context.Context, uri string) ([]byte, error) {
	m := FileModuleReader(r)
	path, err := m.toPath(uri)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

func (r FileResourceReader) ListElements(ctx context.Context, uri string) ([]PathElement, error) {
	return FileModuleReader(r).ListElements(ctx, uri)
}
