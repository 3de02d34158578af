package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tccl/internal/ast"
	"tccl/internal/diag"
	. "tccl/internal/testkit"
)

func TestCompileEmitsCleanProgram(t *testing.T) {
	res, err := Compile(context.Background(), Countdown(3), Options{AssemblyName: "demo"})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !res.OK() {
		t.Fatalf("expected assembly, diagnostics:\n%s", diag.FormatShort(res.Bag.Items(), false))
	}
	if !strings.Contains(res.Assembly, ".assembly demo {}") {
		t.Fatalf("assembly name missing:\n%s", res.Assembly)
	}
	if res.Table == nil || res.Cached {
		t.Fatalf("unexpected result state: table=%v cached=%v", res.Table, res.Cached)
	}
}

func TestCompileStopsAfterSemanticErrors(t *testing.T) {
	root := Number(Program(Main(Call("Missing"))))
	res, err := Compile(context.Background(), root, Options{})
	if err != nil {
		t.Fatalf("semantic errors must not be returned as error: %v", err)
	}
	if res.Assembly != "" {
		t.Fatalf("assembly emitted for an ill-typed tree:\n%s", res.Assembly)
	}
	if !res.Bag.HasErrors() {
		t.Fatalf("expected diagnostics")
	}
	if res.OK() {
		t.Fatalf("result must not be OK")
	}
}

func TestCompileHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Compile(ctx, Countdown(1), Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCompileNilTree(t *testing.T) {
	if _, err := Compile(context.Background(), nil, Options{}); err == nil {
		t.Fatalf("expected error for nil tree")
	}
}

func TestCompileRejectsPartialTrees(t *testing.T) {
	class := Program(Main()).Children[0]
	for _, root := range []*ast.Node{class, Int()} {
		res, err := Compile(context.Background(), root, Options{})
		if !errors.Is(err, ast.ErrNotCompilationUnit) {
			t.Fatalf("%s root: got %v, want ErrNotCompilationUnit", root.Kind, err)
		}
		if res.Assembly != "" || !res.Bag.HasErrors() {
			t.Fatalf("%s root: assembly %q, errors %v", root.Kind, res.Assembly, res.Bag.HasErrors())
		}
	}
}

func TestCompileRecordsTimings(t *testing.T) {
	res, err := Compile(context.Background(), Countdown(2), Options{EnableTimings: true, Path: "countdown.ast"})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if res.Timing == nil || len(res.Timing.Phases) != 2 {
		t.Fatalf("expected sema and emit phases, got %+v", res.Timing)
	}
	if res.Bag.HasErrors() {
		t.Fatalf("timings must not count as errors")
	}
	var found bool
	for _, d := range res.Bag.Items() {
		if d.Code != diag.ObsTimings {
			continue
		}
		found = true
		if !strings.Contains(d.Message, "countdown.ast") {
			t.Fatalf("timing message lacks path: %q", d.Message)
		}
		if len(d.Notes) != 1 || !strings.Contains(d.Notes[0].Msg, `"phases"`) {
			t.Fatalf("timing note is not JSON: %+v", d.Notes)
		}
	}
	if !found {
		t.Fatalf("no timing diagnostic in bag")
	}
}

func TestTimingDiagnosticGrowsFullBag(t *testing.T) {
	bag := diag.NewBag(0)
	appendTimingDiagnostic(bag, timingPayload{TotalMS: 1})
	if bag.Len() != 1 || bag.Items()[0].Code != diag.ObsTimings {
		t.Fatalf("timing diagnostic dropped: %+v", bag.Items())
	}
}

func TestDiskCacheServesSecondCompile(t *testing.T) {
	cache, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	opts := Options{AssemblyName: "cached", Cache: cache}

	first, err := Compile(context.Background(), Countdown(4), opts)
	if err != nil || first.Cached {
		t.Fatalf("first compile: err=%v cached=%v", err, first.Cached)
	}
	second, err := Compile(context.Background(), Countdown(4), opts)
	if err != nil {
		t.Fatalf("second compile: %v", err)
	}
	if !second.Cached || second.Assembly != first.Assembly {
		t.Fatalf("expected cached copy of the first listing")
	}

	other, err := Compile(context.Background(), Countdown(5), opts)
	if err != nil || other.Cached {
		t.Fatalf("different tree must miss: err=%v cached=%v", err, other.Cached)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	third, err := Compile(context.Background(), Countdown(4), opts)
	if err != nil || third.Cached {
		t.Fatalf("dropped cache must miss: err=%v cached=%v", err, third.Cached)
	}
}

func TestDiskCacheDoesNotStoreFailures(t *testing.T) {
	cache, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	root := Program(Main(Call("Missing")))
	if _, err := Compile(context.Background(), root, Options{Cache: cache}); err != nil {
		t.Fatalf("compile: %v", err)
	}
	key, err := KeyFor(Program(Main(Call("Missing"))), Options{Cache: cache})
	if err != nil {
		t.Fatalf("key: %v", err)
	}
	var payload DiskPayload
	if hit, err := cache.Get(key, &payload); err != nil || hit {
		t.Fatalf("failed compile was cached: hit=%v err=%v", hit, err)
	}
}

func TestKeyForDependsOnOptions(t *testing.T) {
	base, err := KeyFor(Countdown(1), Options{})
	if err != nil {
		t.Fatalf("key: %v", err)
	}
	again, _ := KeyFor(Countdown(1), Options{MaxDiagnostics: 7})
	named, _ := KeyFor(Countdown(1), Options{AssemblyName: "x"})
	stacked, _ := KeyFor(Countdown(1), Options{MaxStack: 9})
	if base.IsZero() {
		t.Fatalf("zero digest")
	}
	if base != again {
		t.Fatalf("options that do not change output must not change the key")
	}
	if base == named || base == stacked || named == stacked {
		t.Fatalf("keys collide: %s %s %s", base, named, stacked)
	}
}

func TestLoadFileAndListFiles(t *testing.T) {
	dir := t.TempDir()
	root := Countdown(2)
	for _, name := range []string{"b.ast", "a.ast", "notes.txt"} {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := ast.Encode(f, root); err != nil {
			t.Fatalf("encode: %v", err)
		}
		f.Close()
	}

	files, err := ExpandPaths([]string{dir})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "a.ast" || filepath.Base(files[1]) != "b.ast" {
		t.Fatalf("unexpected files %v", files)
	}

	loaded, err := LoadFile(files[0])
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ast.Count(loaded) != ast.Count(root) {
		t.Fatalf("node count %d, want %d", ast.Count(loaded), ast.Count(root))
	}

	if _, err := LoadFile(filepath.Join(dir, "notes.txt2")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadFileRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.ast")
	if err := os.WriteFile(path, []byte{0xc1, 0x00}, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected decode error")
	}
}
