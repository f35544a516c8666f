// Package engine turns listfiles directives into generated Go files.
package engine

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/cpcf/listfiles/directive"
	"github.com/cpcf/listfiles/expand"
	"github.com/cpcf/listfiles/handlers"
	"github.com/cpcf/listfiles/postprocess"
	"github.com/cpcf/listfiles/processors"
	"github.com/cpcf/listfiles/write"
)

// DefaultSuffix is inserted before ".go" in generated file names.
const DefaultSuffix = "_listfiles"

type FailureMode int

const (
	// FailFast stops at the first failing source file.
	FailFast FailureMode = iota
	// FailAtEnd processes every file and reports all failures together.
	FailAtEnd
)

type Engine struct {
	logger         *slog.Logger
	failMode       FailureMode
	jobs           int
	suffix         string
	goimports      bool
	expandOpts     expand.Options
	handlers       *handlers.Registry
	writer         write.Writer
	postprocessors *postprocess.Chain
	extra          []namedProcessor
}

type namedProcessor struct {
	name      string
	processor postprocess.Processor
}

// Result describes what happened to one source file.
type Result struct {
	Source  string
	Output  string
	// Decls counts the arrays written to Output.
	Decls   int
	Changed bool
	Removed bool
}

func New(opts ...Option) *Engine {
	e := &Engine{
		logger:    slog.Default(),
		failMode:  FailFast,
		suffix:    DefaultSuffix,
		goimports: true,
		handlers:  handlers.Default(),
		writer:    write.NewFileWriter(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.rebuildChain()
	return e
}

// AddPostProcessor appends a stage after the formatter. Stages run in the
// order they are added. It must not be called while Generate runs.
func (e *Engine) AddPostProcessor(name string, processor postprocess.Processor) {
	e.extra = append(e.extra, namedProcessor{name: name, processor: processor})
	e.rebuildChain()
}

func (e *Engine) rebuildChain() {
	chain := postprocess.NewChain()
	if e.goimports {
		chain.Add("goimports", processors.NewGoImports())
	} else {
		chain.Add("gofmt", processors.Gofmt{})
	}
	for _, p := range e.extra {
		chain.Add(p.name, p.processor)
	}
	e.postprocessors = chain
}

// Generate processes every Go source named by paths. Directories contribute
// their .go files, minus previously generated outputs. Results are returned
// in source order for the files that completed.
func (e *Engine) Generate(ctx context.Context, paths ...string) ([]*Result, error) {
	sources, err := Sources(e.suffix, paths...)
	if err != nil {
		return nil, err
	}

	jobs := e.jobs
	if jobs < 1 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	results := make([]*Result, len(sources))
	failures := make([]error, len(sources))

	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := e.GenerateFile(gctx, src)
			if err != nil {
				if e.failMode == FailFast {
					return err
				}
				failures[i] = err
				return nil
			}
			results[i] = res
			return nil
		})
	}

	err = g.Wait()
	done := compact(results)
	if err != nil {
		return done, err
	}
	var multiErr MultiError
	for _, f := range failures {
		if f != nil {
			multiErr.Add(f)
		}
	}
	if multiErr.HasErrors() {
		return done, &multiErr
	}
	return done, nil
}

// GenerateFile expands the directives of one source file and writes the
// result next to it. A file without directives removes a stale output. On
// any error the existing output is left untouched.
func (e *Engine) GenerateFile(ctx context.Context, source string) (*Result, error) {
	res := &Result{
		Source: source,
		Output: OutputPath(source, e.suffix),
	}

	src, err := os.ReadFile(source)
	if err != nil {
		return nil, &GenerationError{Path: source, Message: "read source", Err: err}
	}

	file, err := directive.Scan(token.NewFileSet(), source, src)
	if err != nil {
		var derr *directive.Error
		if errors.As(err, &derr) {
			return nil, derr
		}
		return nil, &GenerationError{Path: source, Message: "scan directives", Err: err}
	}

	if len(file.Invocations) == 0 {
		removed, err := e.writer.Remove(res.Output)
		if err != nil {
			return nil, &GenerationError{Path: source, Message: "remove stale output", Err: err}
		}
		if removed {
			e.logger.Info("removed stale output", "source", source, "output", res.Output)
		}
		res.Removed = removed
		return res, nil
	}

	decls := make([]Decl, 0, len(file.Invocations))
	for _, inv := range file.Invocations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		decl, err := e.expandInvocation(source, inv)
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}

	content, err := render(fileData{
		Source:          filepath.Base(source),
		BuildConstraint: file.BuildConstraint,
		Package:         file.Package,
		Decls:           decls,
	})
	if err != nil {
		return nil, &GenerationError{Path: source, Message: "render output", Err: err}
	}

	content, err = e.postprocessors.Process(res.Output, content)
	if err != nil {
		return nil, &GenerationError{Path: source, Message: "post-process output", Err: err}
	}

	changed, err := e.writer.Write(res.Output, content)
	if err != nil {
		return nil, &GenerationError{Path: source, Message: "write output", Err: err}
	}

	res.Decls = len(decls)
	res.Changed = changed
	if changed {
		e.logger.Info("generated", "source", source, "output", res.Output, "decls", res.Decls)
	} else {
		e.logger.Debug("output unchanged", "source", source, "output", res.Output)
	}
	return res, nil
}

func (e *Engine) expandInvocation(source string, inv directive.Invocation) (Decl, error) {
	fail := func(msg string, err error) (Decl, error) {
		return Decl{}, &GenerationError{Path: inv.Pos.String(), Message: fmt.Sprintf("%s %s", msg, inv.Name), Err: err}
	}

	pattern, err := expand.Resolve(source, inv.Pattern)
	if err != nil {
		return fail("resolve", err)
	}

	matches, err := expand.Expand(pattern, e.expandOpts)
	if err != nil {
		return fail("expand", err)
	}
	e.logger.Debug("expanded pattern", "var", inv.Name, "pattern", pattern, "matches", len(matches))

	elemType, elems, err := e.handlers.Elements(inv, matches)
	if err != nil {
		return fail("apply handler for", err)
	}

	return Decl{
		Name:     inv.Name,
		Pattern:  inv.Pattern,
		Handler:  inv.HandlerName(),
		Type:     elemType,
		Elements: elems,
	}, nil
}

func compact(results []*Result) []*Result {
	out := results[:0]
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}
