package main

import (
	"bytes"
	"context"
	"net/url"
	"os"

	"github.com/pkl-lang/pkl-core/internal/codec"
	"github.com/pkl-lang/pkl-core/internal/collector"
	"github.com/pkl-lang/pkl-core/internal/diag"
	"github.com/pkl-lang/pkl-core/internal/frame"
	"github.com/pkl-lang/pkl-core/internal/render"
	"github.com/pkl-lang/pkl-core/internal/value"
	"github.com/pkl-lang/pkl-core/pkg/stdlib"
)

// resolveOutput produces the value graph eval/export render: the base
// module snapshot when no source module is given, or (for a given module
// URI) the fully wired read-and-cache pipeline followed by an honest
// KindIOError, since this core owns no parser to turn the read source into
// an AST (spec section 1 puts parsing out of scope; internal/eval's
// readImport documents the same boundary for import expressions).
func resolveOutput(s *session) (value.Value, error) {
	if len(s.opts.SourceModules) == 0 {
		mod := stdlib.Module()
		if err := s.evaluator.ForceAll(mod, frame.New(mod, mod)); err != nil {
			return nil, err
		}
		return mod, nil
	}

	uri := s.opts.SourceModules[0]
	if _, err := s.readModuleSource(uri); err != nil {
		return nil, err
	}

	return nil, diag.New(diag.KindIOError,
		"evaluating %q requires a parser collaborator upstream of this core; only pkl:base can be evaluated directly in this build", uri)
}

// readModuleSource resolves and reads uri through the wired security
// manager, module reader registry, and (if configured) content-addressed
// cache — the full injected pipeline of spec section 6, short of parsing.
func (s *session) readModuleSource(uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, diag.New(diag.KindIOError, "invalid module URI %q: %v", uri, err)
	}

	if err := s.security.CheckImportModule(s.evaluator.ModuleURI, uri); err != nil {
		return nil, diag.New(diag.KindSecurityDenied, "%v", err)
	}

	reader, ok := s.registry.ModuleReader(u.Scheme)
	if !ok {
		return nil, diag.New(diag.KindIOError, "no module reader registered for scheme %q", u.Scheme)
	}

	ctx := context.Background()

	resolved, err := reader.Resolve(ctx, uri)
	if err != nil {
		return nil, diag.New(diag.KindIOError, "resolving %q: %v", uri, err)
	}

	source, err := reader.ReadSource(ctx, resolved)
	if err != nil {
		return nil, diag.New(diag.KindIOError, "reading %q: %v", uri, err)
	}

	if s.cache != nil {
		if _, err := s.cache.Put(uri, source, collector.Meta{SourceURI: uri}); err != nil {
			s.evaluator.Log.WithError(err).Warn("failed to populate module cache")
		}
	}

	return source, nil
}

// renderOutput serializes v per opts.OutputFormat, dispatching pkl-binary to
// internal/codec and every other name to internal/render.
func renderOutput(opts Options, v value.Value) ([]byte, error) {
	if opts.OutputFormat == "pkl-binary" {
		var buf bytes.Buffer
		if err := codec.EncodeFile(&buf, v); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	text, err := render.Render(render.Format(opts.OutputFormat), v)
	if err != nil {
		return nil, err
	}

	return []byte(text), nil
}

// writeOutput writes data to opts.OutputPath, or stdout when unset (spec
// section 6's `output-path: path?|stream`).
func writeOutput(opts Options, data []byte) error {
	if opts.OutputPath == "" {
		_, err := os.Stdout.Write(data)
		return err
	}

	return os.WriteFile(opts.OutputPath, data, 0o644)
}
