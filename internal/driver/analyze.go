package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"xqlint/internal/ast"
	"xqlint/internal/check"
	"xqlint/internal/dialect"
	"xqlint/internal/directive"
	"xqlint/internal/diag"
	"xqlint/internal/lexer"
	"xqlint/internal/observ"
	"xqlint/internal/parser"
	"xqlint/internal/pipeline"
	"xqlint/internal/rules"
	"xqlint/internal/source"
	"xqlint/internal/symbols"
	"xqlint/internal/trace"
	"xqlint/internal/visitor"
)

// Request describes one analysis run.
type Request struct {
	Paths      []string // files or directories
	Extensions []string // defaults to DefaultExtensions
	Jobs       int      // concurrent file reads; defaults to GOMAXPROCS

	Registry *check.Registry // defaults to rules.Default()
	Rules    []string        // rule keys to run; empty runs every registered rule
	Params   map[string]check.Params

	Features     lexer.Features // dialect until a version declaration says otherwise
	Detect       bool           // guess the dialect of each file before parsing it
	NoDirectives bool           // ignore xqlint: suppression comments
	MaxProblems  int            // per file; 0 keeps everything
	FailOnError  bool           // stop parsing a file at its first syntax error
	NormalizeNFC bool
	BaseDir      string

	Tracer   trace.Tracer
	Progress pipeline.ProgressSink
}

// FileResult is what one file produced.
type FileResult struct {
	Path        string
	Hash        uint64
	DuplicateOf string       // earlier input with identical content; set, the file is not analysed
	Dialect     dialect.Kind // detected dialect, when Request.Detect is set
	File        *source.File
	Root        *ast.Node
	Issues      []check.Issue
	Problems    []diag.Problem
	Directives  *directive.Set
	Suppressed  int // issues dropped by directives
	Failed      error // set when the file could not be read, parsed or processed
	Timings     pipeline.Timings

	dirProblems []diag.Problem
}

// Result is the outcome of Analyze.
type Result struct {
	FileSet *source.FileSet
	Files   []FileResult
	Library *symbols.Library
	Timer   *observ.Timer
}

// IssueCount is the number of issues over all files.
func (r *Result) IssueCount() int {
	n := 0
	for i := range r.Files {
		n += len(r.Files[i].Issues)
	}
	return n
}

// SuppressedCount is the number of issues dropped by suppression comments.
func (r *Result) SuppressedCount() int {
	n := 0
	for i := range r.Files {
		n += r.Files[i].Suppressed
	}
	return n
}

// FailedCount is the number of files that failed.
func (r *Result) FailedCount() int {
	n := 0
	for i := range r.Files {
		if r.Files[i].Failed != nil {
			n++
		}
	}
	return n
}

// Analyze runs the checks over every file of the request. Files are read
// concurrently; parsing and both passes run sequentially in input order. The
// mapping pass sees every file before the first check runs, so a check can
// resolve functions declared in any analyzed library module. A failing file
// is recorded in its FileResult and the batch carries on.
func Analyze(ctx context.Context, req Request) (*Result, error) {
	if req.Tracer == nil {
		req.Tracer = trace.FromContext(ctx)
	}
	if req.Registry == nil {
		req.Registry = rules.Default()
	}
	set, err := newCheckSet(req.Registry, req.Rules, req.Params)
	if err != nil {
		return nil, err
	}

	span, ctx := trace.Start(trace.WithTracer(ctx, req.Tracer), trace.ScopeDriver, "analyze")
	defer span.End("")

	paths, err := ListFiles(req.Paths, req.Extensions)
	if err != nil {
		return nil, err
	}
	span.WithExtra("files", fmt.Sprint(len(paths)))

	res := &Result{
		FileSet: source.NewFileSet(),
		Files:   make([]FileResult, len(paths)),
		Library: symbols.NewLibrary(),
		Timer:   observ.NewTimer(),
	}
	res.FileSet.SetNormalizeNFC(req.NormalizeNFC)
	if req.BaseDir != "" {
		res.FileSet.SetBaseDir(req.BaseDir)
	}
	for i, path := range paths {
		res.Files[i].Path = path
		pipeline.Emit(req.Progress, pipeline.Event{File: path, Stage: pipeline.StageLoad, Status: pipeline.StatusQueued})
	}

	a := &analysis{req: req, res: res, set: set}
	phases := []struct {
		stage pipeline.Stage
		run   func(context.Context) error
	}{
		{pipeline.StageLoad, a.load},
		{pipeline.StageParse, a.parse},
		{pipeline.StageMap, a.mapDependencies},
		{pipeline.StageProcess, a.process},
	}
	for _, ph := range phases {
		idx := res.Timer.Begin(string(ph.stage))
		pass, pctx := trace.Start(ctx, trace.ScopePass, string(ph.stage))
		pipeline.Emit(req.Progress, pipeline.Event{Stage: ph.stage, Status: pipeline.StatusWorking})
		err := ph.run(pctx)
		pass.End("")
		res.Timer.End(idx, "")
		if err != nil {
			pipeline.Emit(req.Progress, pipeline.Event{Stage: ph.stage, Status: pipeline.StatusError, Err: err})
			return res, err
		}
	}
	pipeline.Emit(req.Progress, pipeline.Event{Stage: pipeline.StageProcess, Status: pipeline.StatusDone})
	return res, nil
}

type analysis struct {
	req Request
	res *Result
	set *checkSet
}

// load reads the files concurrently and adds them to the file set in input
// order, so file IDs do not depend on scheduling.
func (a *analysis) load(ctx context.Context) error {
	files := a.res.Files
	contents := make([][]byte, len(files))
	flags := make([]source.FileFlags, len(files))
	errs := make([]error, len(files))

	jobs := a.req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(files))))
	for i := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// #nosec G304 -- paths come from the command line
			content, err := os.ReadFile(files[i].Path)
			if err != nil {
				errs[i] = err
				return nil
			}
			contents[i], flags[i] = a.res.FileSet.Normalize(content)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	byHash := make(map[uint64]string, len(files))
	for i := range files {
		fr := &files[i]
		if errs[i] != nil {
			a.fail(fr, pipeline.StageLoad, errs[i])
			continue
		}
		id := a.res.FileSet.Add(fr.Path, contents[i], flags[i])
		fr.File = a.res.FileSet.Get(id)
		fr.Hash = fr.File.Hash
		if first, dup := byHash[fr.Hash]; dup {
			fr.DuplicateOf = first
			trace.Point(a.req.Tracer, trace.ScopeModule, "duplicate", fr.Path+" = "+first)
		} else {
			byHash[fr.Hash] = fr.Path
		}
		a.done(fr, pipeline.StageLoad, 0)
	}
	return nil
}

func (a *analysis) parse(ctx context.Context) error {
	maxErrors, err := safecast.Conv[uint](max(a.req.MaxProblems, 0))
	if err != nil {
		return err
	}
	return a.each(ctx, pipeline.StageParse, func(ctx context.Context, fr *FileResult) error {
		features := a.req.Features
		if a.req.Detect {
			features, fr.Dialect = detectDialect(fr.File, features, a.req.Tracer)
		}
		bag := diag.NewBag(a.req.MaxProblems)
		res, err := parser.Parse(fr.File, parser.Options{
			Reporter:  diag.BagReporter{Bag: bag, FailOnError: a.req.FailOnError},
			Features:  features,
			MaxErrors: maxErrors,
			Tracer:    a.req.Tracer,
			Parent:    trace.ParentID(ctx),
		})
		bag.Sort()
		fr.Problems = bag.Items()
		if err != nil {
			return err
		}
		fr.Root = res.Root
		if !a.req.NoDirectives {
			fr.Directives, fr.dirProblems = directive.Collect(res.Tokens)
		}
		return nil
	})
}

func (a *analysis) mapDependencies(ctx context.Context) error {
	mapper := symbols.NewGlobalMapper(a.res.Library)
	return a.each(ctx, pipeline.StageMap, func(ctx context.Context, fr *FileResult) error {
		visitor.MapDependencies(a.context(ctx, fr), mapper)
		return nil
	})
}

func (a *analysis) process(ctx context.Context) error {
	mapper := symbols.NewLocalMapper(a.res.Library)
	return a.each(ctx, pipeline.StageProcess, func(ctx context.Context, fr *FileResult) error {
		checks, err := a.set.build()
		if err != nil {
			return err
		}
		vctx := a.context(ctx, fr)
		visitor.Process(vctx, mapper, fr.Problems, checks...)
		fr.Issues, fr.Suppressed = fr.Directives.Filter(vctx.Issues.Items())
		// added after the checks ran, so ParseError sees syntax problems only
		fr.Problems = append(fr.Problems, fr.dirProblems...)
		return nil
	})
}

func (a *analysis) context(ctx context.Context, fr *FileResult) *visitor.Context {
	return &visitor.Context{
		File:   fr.File,
		Tree:   fr.Root,
		Issues: check.NewIssues(),
		Tracer: a.req.Tracer,
		Parent: trace.ParentID(ctx),
	}
}

// each runs fn for every file that has not failed yet. Duplicated inputs are
// left out: the first file with the same content stands for them. A panic or
// error marks the file failed; only cancellation stops the pass.
func (a *analysis) each(ctx context.Context, stage pipeline.Stage, fn func(context.Context, *FileResult) error) error {
	for i := range a.res.Files {
		if err := ctx.Err(); err != nil {
			return err
		}
		fr := &a.res.Files[i]
		if fr.Failed != nil {
			continue
		}
		if fr.DuplicateOf != "" {
			if stage == pipeline.StageProcess {
				a.done(fr, stage, 0)
			}
			continue
		}
		pipeline.Emit(a.req.Progress, pipeline.Event{File: fr.Path, Stage: stage, Status: pipeline.StatusWorking})
		start := time.Now()
		err := guard(func() error { return fn(ctx, fr) })
		elapsed := time.Since(start)
		fr.Timings.Add(stage, elapsed)
		if err != nil {
			a.fail(fr, stage, err)
			continue
		}
		a.done(fr, stage, elapsed)
	}
	return nil
}

func (a *analysis) fail(fr *FileResult, stage pipeline.Stage, err error) {
	fr.Failed = fmt.Errorf("%s: %w", stage, err)
	trace.Failure(a.req.Tracer, trace.ScopeModule, fr.Path, fr.Failed)
	pipeline.Emit(a.req.Progress, pipeline.Event{File: fr.Path, Stage: stage, Status: pipeline.StatusError, Err: fr.Failed})
}

func (a *analysis) done(fr *FileResult, stage pipeline.Stage, elapsed time.Duration) {
	status := pipeline.StatusWorking
	if stage == pipeline.StageProcess {
		status = pipeline.StatusDone
	}
	pipeline.Emit(a.req.Progress, pipeline.Event{File: fr.Path, Stage: stage, Status: status, Elapsed: elapsed})
}

// ErrPanic wraps a panic raised while handling one file.
var ErrPanic = errors.New("panic")

func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return fn()
}
