// Package driver runs the semantic pass and code generation over one tree.
package driver

import (
	"context"
	"fmt"

	"tccl/internal/ast"
	"tccl/internal/backend/cil"
	"tccl/internal/diag"
	"tccl/internal/observ"
	"tccl/internal/sema"
	"tccl/internal/symbols"
	"tccl/internal/trace"
)

// Options configure a single compilation.
type Options struct {
	AssemblyName   string
	MaxStack       int
	MaxDiagnostics int
	EnableTimings  bool
	// CheckOnly stops after the semantic pass.
	CheckOnly bool
	// Path labels timing diagnostics; it does not affect output.
	Path          string
	Cache         *DiskCache
	PhaseObserver PhaseObserver
}

// Result holds everything produced for one tree.
type Result struct {
	Bag      *diag.Bag
	Table    *symbols.Table
	Assembly string
	Timing   *observ.Report
	// Cached is set when Assembly came from the disk cache. Table is nil and
	// the tree is left undecorated in that case.
	Cached bool
}

// OK reports whether an assembly was produced.
func (r *Result) OK() bool {
	return r != nil && r.Assembly != "" && !r.Bag.HasErrors()
}

// Compile checks root and, when no error was reported, emits its IL listing.
// Semantic errors land in Result.Bag; the returned error is reserved for
// cancellation, cache I/O and code generation failures.
func Compile(ctx context.Context, root *ast.Node, opts Options) (*Result, error) {
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = 100
	}
	res := &Result{Bag: diag.NewBag(opts.MaxDiagnostics)}
	if root == nil {
		return res, fmt.Errorf("compile: nil tree")
	}
	if err := ast.CheckRoot(root); err != nil {
		diag.ReportError(diag.BagReporter{Bag: res.Bag}, diag.IODecodeASTError, root.Span, err.Error()).Emit()
		return res, fmt.Errorf("compile: %w", err)
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "compile", trace.ParentSpan(ctx))
	defer span.End("")

	timer := &phaseTimer{Timer: observ.NewTimer(), observe: opts.PhaseObserver}
	defer func() {
		if !opts.EnableTimings {
			return
		}
		report := timer.Timer.Report()
		res.Timing = &report
		appendTimingDiagnostic(res.Bag, timingPayload{Kind: "compile", Path: opts.Path, TotalMS: report.TotalMS, Phases: report.Phases})
	}()

	useCache := opts.Cache != nil && !opts.CheckOnly
	var key Digest
	if useCache {
		idx := timer.Begin(PhaseCache)
		var err error
		key, err = KeyFor(root, opts)
		if err != nil {
			timer.Fail(idx, "key failed")
			return res, err
		}
		var payload DiskPayload
		hit, err := opts.Cache.Get(key, &payload)
		if err != nil {
			timer.Fail(idx, "read failed")
			return res, fmt.Errorf("read cache: %w", err)
		}
		if hit && payload.Schema == diskCacheSchemaVersion {
			timer.End(idx, "hit")
			res.Assembly = payload.Assembly
			res.Cached = true
			return res, nil
		}
		timer.End(idx, "miss")
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}

	idx := timer.Begin(PhaseSema)
	checked := sema.Check(root, sema.Options{
		Reporter: diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag}),
		Tracer:   tracer,
	})
	res.Table = checked.Table
	if res.Bag.HasErrors() || !checked.OK() {
		timer.Fail(idx, fmt.Sprintf("%d error(s)", checked.Reported))
		return res, nil
	}
	timer.End(idx, "")
	if opts.CheckOnly {
		return res, nil
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}

	idx = timer.Begin(PhaseEmit)
	asm, err := cil.Emit(root, cil.Options{
		AssemblyName: opts.AssemblyName,
		MaxStack:     opts.MaxStack,
		Tracer:       tracer,
	})
	if err != nil {
		timer.Fail(idx, "failed")
		diag.ReportError(diag.BagReporter{Bag: res.Bag}, cil.Code(err), spanOfError(err), err.Error()).Emit()
		return res, fmt.Errorf("emit: %w", err)
	}
	timer.End(idx, "")
	res.Assembly = asm

	if useCache {
		payload := DiskPayload{Schema: diskCacheSchemaVersion, AssemblyName: opts.AssemblyName, Assembly: asm}
		if err := opts.Cache.Put(key, &payload); err != nil {
			return res, fmt.Errorf("write cache: %w", err)
		}
	}
	return res, nil
}

// phaseTimer forwards phase boundaries to an observer.
type phaseTimer struct {
	*observ.Timer
	observe PhaseObserver
}

func (t *phaseTimer) Begin(name string) int {
	if t.observe != nil {
		t.observe(PhaseEvent{Name: name, Status: PhaseStart})
	}
	return t.Timer.Begin(name)
}

func (t *phaseTimer) End(idx int, note string) {
	t.finish(idx, note, false)
}

func (t *phaseTimer) Fail(idx int, note string) {
	t.finish(idx, note, true)
}

func (t *phaseTimer) finish(idx int, note string, failed bool) {
	t.Timer.End(idx, note)
	if t.observe == nil {
		return
	}
	phases := t.Phases()
	if idx < 0 || idx >= len(phases) {
		return
	}
	t.observe(PhaseEvent{Name: phases[idx].Name, Status: PhaseEnd, Elapsed: phases[idx].Dur, Failed: failed})
}
