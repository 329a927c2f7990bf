package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/pkl-lang/pkl-core/internal/collector"
	"github.com/pkl-lang/pkl-core/internal/diag"
	"github.com/pkl-lang/pkl-core/internal/eval"
	"github.com/pkl-lang/pkl-core/internal/readers"
)

const (
	exitSuccess  = 0
	exitEval     = 1
	exitProtocol = 2
	// exitConfigError (3) is declared in options.go, shared with flag-retrieval failures.
)

// session bundles the collaborators one CLI invocation wires together:
// security, readers, an optional module cache, and a single evaluator bound
// to the options' timeout.
type session struct {
	opts      Options
	security  *readers.RegexSecurityManager
	registry  *readers.Registry
	cache     *collector.Collector
	evaluator *eval.Evaluator
	cancel    context.CancelFunc
}

func newSession(opts Options) (*session, error) {
	if opts.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	security, err := readers.NewRegexSecurityManager(opts.AllowedModules, opts.AllowedResources)
	if err != nil {
		return nil, diag.New(diag.KindEval, "invalid security configuration: %v", err)
	}

	registry := readers.NewRegistry()
	registry.Security = security
	registry.RegisterModuleReader(readers.FileModuleReader{RootDir: opts.RootDir})
	registry.RegisterResourceReader(readers.FileResourceReader{RootDir: opts.RootDir})

	var cache *collector.Collector
	if opts.ModuleCacheDir != "" {
		cache = collector.New(opts.ModuleCacheDir)
	}

	classes := eval.NewClassTable()
	moduleURI := "repl:text"
	if len(opts.SourceModules) > 0 {
		moduleURI = opts.SourceModules[0]
	}

	evaluator := eval.NewEvaluator(classes, registry, moduleURI)

	ctx := context.Background()
	var cancel context.CancelFunc = func() {}
	if opts.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
	}

	evaluator = evaluator.WithDeadline(ctx)

	return &session{
		opts:      opts,
		security:  security,
		registry:  registry,
		cache:     cache,
		evaluator: evaluator,
		cancel:    cancel,
	}, nil
}

func (s *session) Close() { s.cancel() }

// exitCodeFor maps err onto spec section 6's exit code taxonomy: 1 for an
// evaluation failure, 2 for a protocol/encoding error and also for a
// cancelled or timed-out evaluation, 3 for everything else
// (configuration/usage).
func exitCodeFor(err error) int {
	switch {
	case diag.Is(err, diag.KindInvalidEncoding), diag.Is(err, diag.KindCancelled), diag.Is(err, diag.KindTimeout):
		return exitProtocol
	case diag.Is(err, diag.KindEval), diag.Is(err, diag.KindTypeMismatch), diag.Is(err, diag.KindConstraintViolation),
		diag.Is(err, diag.KindCircularReference), diag.Is(err, diag.KindMissingProperty), diag.Is(err, diag.KindMissingKey),
		diag.Is(err, diag.KindDuplicateDefinition), diag.Is(err, diag.KindCannotAmend), diag.Is(err, diag.KindCannotInferParent),
		diag.Is(err, diag.KindIntegerOverflow), diag.Is(err, diag.KindSecurityDenied), diag.Is(err, diag.KindIOError),
		diag.Is(err, diag.KindConstRequired), diag.Is(err, diag.KindInternalBug):
		return exitEval
	default:
		return exitConfigError
	}
}

func fail(err error) {
	if de, ok := err.(*diag.Error); ok {
		fmt.Fprint(os.Stderr, de.Format())
	} else {
		fmt.Fprintln(os.Stderr, err)
	}

	os.Exit(exitCodeFor(err))
}
