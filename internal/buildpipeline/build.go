// Package buildpipeline compiles a set of tree files to IL listings.
package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"tccl/internal/driver"
	"tccl/internal/trace"
)

// ListingExt is the extension of written IL listings.
const ListingExt = ".il"

// ErrOutputConflict marks a file whose listing name is already taken by an
// earlier file of the same build.
var ErrOutputConflict = errors.New("listing name already used by another input")

// BuildRequest configures a build over Files.
type BuildRequest struct {
	Files []string
	// OutputDir receives one listing per file; empty means the working directory.
	OutputDir string
	// AssemblyName overrides the per-file default (the file's base name).
	AssemblyName   string
	MaxStack       int
	MaxDiagnostics int
	EnableTimings  bool
	// CheckOnly runs the semantic pass and writes nothing.
	CheckOnly bool
	Jobs      int
	Cache     *driver.DiskCache
	Progress  ProgressSink
}

// FileResult is the outcome for one input file.
type FileResult struct {
	Path string
	// Output is the written listing, empty when nothing was written.
	Output string
	Result *driver.Result
	// Err is a load, code generation or write failure. Semantic errors are
	// reported through Result.Bag instead.
	Err error
}

// Failed reports whether the file produced errors of any kind.
func (r FileResult) Failed() bool {
	return r.Err != nil || r.Result == nil || r.Result.Bag.HasErrors()
}

// BuildResult holds per-file results in request order.
type BuildResult struct {
	Files   []FileResult
	Timings Timings
}

// Failed counts failed files.
func (r BuildResult) Failed() int {
	n := 0
	for _, f := range r.Files {
		if f.Failed() {
			n++
		}
	}
	return n
}

// Build compiles every requested file. Files fail independently; the
// returned error is only set when the build itself could not run or ctx was
// cancelled.
func Build(ctx context.Context, req *BuildRequest) (BuildResult, error) {
	var result BuildResult
	if req == nil {
		return result, fmt.Errorf("missing build request")
	}
	if len(req.Files) == 0 {
		return result, fmt.Errorf("no input files")
	}

	outputDir := req.OutputDir
	if outputDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			cwd = "."
		}
		outputDir = cwd
	}
	if !req.CheckOnly {
		if err := os.MkdirAll(outputDir, 0o750); err != nil {
			return result, fmt.Errorf("failed to create output dir: %w", err)
		}
	}

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	for _, file := range req.Files {
		emitStage(req.Progress, file, StageLoad, StatusQueued, nil, 0)
	}

	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "build", trace.ParentSpan(ctx))
	span.WithExtra("files", fmt.Sprint(len(req.Files)))
	defer span.End("")
	ctx = trace.WithParentSpan(ctx, span.ID())

	result.Files = make([]FileResult, len(req.Files))
	conflicts := make([]error, len(req.Files))
	if !req.CheckOnly {
		conflicts = outputConflicts(req.Files)
	}
	var (
		mu      sync.Mutex
		timings Timings
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, file := range req.Files {
		if err := conflicts[i]; err != nil {
			result.Files[i] = FileResult{Path: file, Err: err}
			emitStage(req.Progress, file, StageLoad, StatusError, err, 0)
			continue
		}
		i, file := i, file
		g.Go(func() error {
			fr, stages := buildFile(gctx, req, outputDir, file)
			result.Files[i] = fr
			mu.Lock()
			for stage, dur := range stages {
				timings.Add(stage, dur)
			}
			mu.Unlock()
			if errors.Is(fr.Err, context.Canceled) || errors.Is(fr.Err, context.DeadlineExceeded) {
				return fr.Err
			}
			return nil
		})
	}
	err := g.Wait()
	result.Timings = timings
	return result, err
}

func buildFile(ctx context.Context, req *BuildRequest, outputDir, file string) (FileResult, map[Stage]time.Duration) {
	fr := FileResult{Path: file}
	stages := make(map[Stage]time.Duration, len(Stages))
	finish := func(stage Stage, elapsed time.Duration, err error) {
		stages[stage] = elapsed
		if err != nil {
			emitStage(req.Progress, file, stage, StatusError, err, elapsed)
			return
		}
		emitStage(req.Progress, file, stage, StatusDone, nil, elapsed)
	}

	if err := ctx.Err(); err != nil {
		fr.Err = err
		return fr, stages
	}

	emitStage(req.Progress, file, StageLoad, StatusWorking, nil, 0)
	start := time.Now()
	root, err := driver.LoadFile(file)
	finish(StageLoad, time.Since(start), err)
	if err != nil {
		fr.Err = err
		return fr, stages
	}

	opts := driver.Options{
		AssemblyName:   req.AssemblyName,
		MaxStack:       req.MaxStack,
		MaxDiagnostics: req.MaxDiagnostics,
		EnableTimings:  req.EnableTimings,
		CheckOnly:      req.CheckOnly,
		Path:           file,
		Cache:          req.Cache,
		PhaseObserver: func(ev driver.PhaseEvent) {
			stage, ok := phaseStages[ev.Name]
			if !ok {
				return
			}
			if ev.Status == driver.PhaseStart {
				emitStage(req.Progress, file, stage, StatusWorking, nil, 0)
				return
			}
			var phaseErr error
			if ev.Failed {
				phaseErr = fmt.Errorf("%s failed", ev.Name)
			}
			finish(stage, ev.Elapsed, phaseErr)
		},
	}
	if opts.AssemblyName == "" {
		opts.AssemblyName = baseName(file)
	}

	fr.Result, fr.Err = driver.Compile(ctx, root, opts)
	if fr.Err != nil || fr.Result.Bag.HasErrors() || req.CheckOnly {
		return fr, stages
	}

	out := filepath.Join(outputDir, baseName(file)+ListingExt)
	emitStage(req.Progress, file, StageWrite, StatusWorking, nil, 0)
	start = time.Now()
	if err := os.WriteFile(out, []byte(fr.Result.Assembly), 0o600); err != nil {
		fr.Err = fmt.Errorf("failed to write listing %q: %w", out, err)
	} else {
		fr.Output = out
	}
	finish(StageWrite, time.Since(start), fr.Err)
	return fr, stages
}

// phaseStages maps driver phases onto progress stages. A cache hit skips
// both check and emit.
var phaseStages = map[string]Stage{
	driver.PhaseSema: StageCheck,
	driver.PhaseEmit: StageEmit,
}

// outputConflicts fails every file after the first that maps to a given
// listing name, so no listing is written twice.
func outputConflicts(files []string) []error {
	errs := make([]error, len(files))
	owner := make(map[string]string, len(files))
	for i, file := range files {
		name := baseName(file) + ListingExt
		if first, taken := owner[name]; taken {
			errs[i] = fmt.Errorf("%s: %w: %s also writes %s", file, ErrOutputConflict, first, name)
			continue
		}
		owner[name] = file
	}
	return errs
}

func baseName(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
