package cil

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"tccl/internal/ast"
	"tccl/internal/diag"
	"tccl/internal/sema"
	. "tccl/internal/testkit"
	"tccl/internal/trace"
)

func compile(t *testing.T, root *ast.Node, opts Options) string {
	t.Helper()
	bag := diag.NewBag(32)
	sema.Check(root, sema.Options{Reporter: &diag.BagReporter{Bag: bag}})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", diag.FormatShort(bag.Items(), false))
	}
	out, err := Emit(root, opts)
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	return out
}

// body returns the trimmed instruction and label lines of method name.
func body(t *testing.T, asm, name string) []string {
	t.Helper()
	lines := strings.Split(asm, "\n")
	start := -1
	for i, l := range lines {
		if strings.HasPrefix(l, "  .method ") && strings.Contains(l, " "+name+"(") {
			start = i
			break
		}
	}
	if start < 0 {
		t.Fatalf("method %s not found in:\n%s", name, asm)
	}
	var out []string
	for _, l := range lines[start+2:] {
		if l == "  }" {
			return out
		}
		trimmed := strings.TrimSpace(l)
		if strings.HasPrefix(trimmed, ".") {
			continue
		}
		out = append(out, trimmed)
	}
	t.Fatalf("method %s is not terminated", name)
	return nil
}

func expectBody(t *testing.T, got []string, want ...string) {
	t.Helper()
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("unexpected body:\n got:\n  %s\nwant:\n  %s", strings.Join(got, "\n  "), strings.Join(want, "\n  "))
	}
}

func TestCountdownAssembly(t *testing.T) {
	got := compile(t, Countdown(3), Options{AssemblyName: "countdown"})
	want := `.assembly extern mscorlib {}
.assembly countdown {}

.class public auto ansi beforefieldinit Prog extends [mscorlib]System.Object
{
  .method public static void main() cil managed
  {
    .entrypoint
    .maxstack 2
    .locals init ([0] int32 i)
    ldc.i4.s 3
    stloc.0
  start_1:
    ldloc.0
    ldc.i4.s 0
    cgt
    brfalse end_2
    ldloc.0
    call void [mscorlib]System.Console::WriteLine(int32)
    ldloc.0
    ldc.i4.s 1
    sub
    stloc.0
    br start_1
  end_2:
    ret
  }
}
`
	if got != want {
		t.Fatalf("unexpected assembly:\n%s", got)
	}
}

func TestIntegerLiteralBoundary(t *testing.T) {
	root := Program(Main(
		Local(Int(), "x"),
		Assign(Name("x"), Lit(127)),
		Assign(Name("x"), Lit(128)),
		Assign(Name("x"), Lit(-127)),
		Assign(Name("x"), Lit(-128)),
	))
	expectBody(t, body(t, compile(t, root, Options{}), "main"),
		"ldc.i4.s 127", "stloc.0",
		"ldc.i4 128", "stloc.0",
		"ldc.i4.s -127", "stloc.0",
		"ldc.i4 -128", "stloc.0",
		"ret",
	)
}

func TestLeftToRightEvaluation(t *testing.T) {
	sum := Bin(ast.ExprAdd,
		Bin(ast.ExprAdd, Name("a"), Bin(ast.ExprMul, Name("b"), Name("c"))),
		Name("d"),
	)
	root := Program(Main(Local(Int(), "a", "b", "c", "d", "r"), Assign(Name("r"), sum)))
	asm := compile(t, root, Options{})
	expectBody(t, body(t, asm, "main"),
		"ldloc.0", "ldloc.1", "ldloc.2", "mul", "add", "ldloc.3", "add", "stloc.s 4", "ret",
	)
	if !strings.Contains(asm, ".maxstack 3\n") {
		t.Fatalf("b * c needs three stack slots:\n%s", asm)
	}
}

func TestShortCircuitAnd(t *testing.T) {
	root := Program(Main(
		Local(Bool(), "x", "y"),
		Assign(Name("x"), Bin(ast.ExprLogicalAnd, Name("x"), Name("y"))),
		Assign(Name("y"), Bin(ast.ExprLogicalAnd, Name("y"), Name("x"))),
	))
	asm := compile(t, root, Options{})
	expectBody(t, body(t, asm, "main"),
		"ldloc.0", "brfalse shortcircuit_1", "ldloc.1", "br end_2",
		"shortcircuit_1:", "ldc.i4.0",
		"end_2:", "stloc.0",
		"ldloc.1", "brfalse shortcircuit_3", "ldloc.0", "br end_4",
		"shortcircuit_3:", "ldc.i4.0",
		"end_4:", "stloc.1",
		"ret",
	)
	// both arms of the join hold one value
	if !strings.Contains(asm, ".maxstack 1\n") {
		t.Fatalf("short-circuit must restore the depth at the join:\n%s", asm)
	}
}

func TestShortCircuitOr(t *testing.T) {
	root := Program(Main(
		Local(Bool(), "x", "y"),
		Assign(Name("x"), Bin(ast.ExprLogicalOr, Name("x"), Name("y"))),
	))
	expectBody(t, body(t, compile(t, root, Options{}), "main"),
		"ldloc.0", "brtrue shortcircuit_1", "ldloc.1", "br end_2",
		"shortcircuit_1:", "ldc.i4.1",
		"end_2:", "stloc.0",
		"ret",
	)
}

func TestComparisonsAndNegation(t *testing.T) {
	root := Program(Main(
		Local(Int(), "a", "b"),
		Local(Bool(), "r"),
		Assign(Name("r"), Bin(ast.ExprNe, Name("a"), Name("b"))),
		Assign(Name("r"), Bin(ast.ExprLe, Name("a"), Name("b"))),
		Assign(Name("r"), Bin(ast.ExprGe, Name("a"), Name("b"))),
		Assign(Name("a"), Neg(Name("b"))),
	))
	expectBody(t, body(t, compile(t, root, Options{}), "main"),
		"ldloc.0", "ldloc.1", "ceq", "ldc.i4.0", "ceq", "stloc.2",
		"ldloc.0", "ldloc.1", "cgt", "ldc.i4.0", "ceq", "stloc.2",
		"ldloc.0", "ldloc.1", "clt", "ldc.i4.0", "ceq", "stloc.2",
		"ldc.i4.0", "ldloc.1", "sub", "stloc.0",
		"ret",
	)
}

func TestOpcodeTable(t *testing.T) {
	cases := map[ast.ExprKind]string{
		ast.ExprBitOr: "or", ast.ExprBitXor: "xor", ast.ExprBitAnd: "and",
		ast.ExprAdd: "add", ast.ExprSub: "sub", ast.ExprMul: "mul",
		ast.ExprDiv: "div", ast.ExprRem: "rem",
	}
	for op, code := range cases {
		root := Program(Main(Local(Int(), "a"), Assign(Name("a"), Bin(op, Name("a"), Lit(2)))))
		expectBody(t, body(t, compile(t, root, Options{}), "main"),
			"ldloc.0", "ldc.i4.s 2", code, "stloc.0", "ret")
	}
}

func TestSelection(t *testing.T) {
	root := Program(Main(
		Local(Bool(), "b"),
		If(Name("b"), Call("WriteLine", Str("yes")), Call("WriteLine", Str("no"))),
		If(Name("b"), Call("Write", Name("b")), nil),
	))
	expectBody(t, body(t, compile(t, root, Options{}), "main"),
		"ldloc.0", "brfalse false_1",
		`ldstr "yes"`, "call void [mscorlib]System.Console::WriteLine(string)",
		"br end_2",
		"false_1:",
		`ldstr "no"`, "call void [mscorlib]System.Console::WriteLine(string)",
		"end_2:",
		"ldloc.0", "brfalse false_3",
		"ldloc.0", "call void [mscorlib]System.Console::Write(bool)",
		"false_3:",
		"ret",
	)
}

func TestParametersFieldsAndCalls(t *testing.T) {
	root := Program(
		Field(Int(), "total"),
		Method(Int(), "add", []*ast.Node{Param(Int(), "a"), Param(Int(), "b")},
			Assign(Name("b"), Bin(ast.ExprAdd, Name("a"), Name("b"))),
			Return(Name("b")),
		),
		Main(
			Assign(Name("total"), Call("add", Lit(1), Lit(2))),
			Assign(Name("Prog", "total"), Name("total")),
			Call("add", Name("total"), Lit(300)),
			Call("WriteLine"),
		),
	)
	asm := compile(t, root, Options{})
	for _, want := range []string{
		"  .field public static int32 total\n",
		"  .method public static int32 add(int32 a, int32 b) cil managed\n",
	} {
		if !strings.Contains(asm, want) {
			t.Fatalf("missing %q in:\n%s", want, asm)
		}
	}
	expectBody(t, body(t, asm, "add"),
		"ldarg.0", "ldarg.1", "add", "starg.s 1",
		"ldarg.1", "ret",
		"ret",
	)
	expectBody(t, body(t, asm, "main"),
		"ldc.i4.s 1", "ldc.i4.s 2", "call int32 Prog::add(int32,int32)", "stsfld int32 Prog::total",
		"ldsfld int32 Prog::total", "stsfld int32 Prog::total",
		"ldsfld int32 Prog::total", "ldc.i4 300", "call int32 Prog::add(int32,int32)", "pop",
		"call void [mscorlib]System.Console::WriteLine()",
		"ret",
	)
	if strings.Count(asm, ".entrypoint") != 1 {
		t.Fatalf("expected exactly one entry point:\n%s", asm)
	}
}

func TestSlotEncodingTiers(t *testing.T) {
	names := make([]string, 130)
	for i := range names {
		names[i] = fmt.Sprintf("v%d", i)
	}
	root := Program(Main(
		Local(Int(), names...),
		Assign(Name("v3"), Name("v0")),
		Assign(Name("v4"), Name("v127")),
		Assign(Name("v128"), Name("v129")),
	))
	expectBody(t, body(t, compile(t, root, Options{}), "main"),
		"ldloc.0", "stloc.3",
		"ldloc.s 127", "stloc.s 4",
		"ldloc 129", "stloc 128",
		"ret",
	)
}

func TestExpressionStatementsArePopped(t *testing.T) {
	root := Program(Main(
		Local(Int(), "x", "y"),
		Bin(ast.ExprAdd, Name("x"), Lit(1)),
		Assign(Name("x"), Assign(Name("y"), Lit(3))),
	))
	expectBody(t, body(t, compile(t, root, Options{}), "main"),
		"ldloc.0", "ldc.i4.s 1", "add", "pop",
		"ldc.i4.s 3", "dup", "stloc.1", "stloc.0",
		"ret",
	)
}

func TestStringEscapes(t *testing.T) {
	root := Program(Main(Call("Write", Str("say \"hi\"\\\n"))))
	expectBody(t, body(t, compile(t, root, Options{}), "main"),
		`ldstr "say \"hi\"\\\n"`, "call void [mscorlib]System.Console::Write(string)", "ret")
}

func TestMaxStackOverride(t *testing.T) {
	asm := compile(t, Countdown(1), Options{MaxStack: 8})
	if !strings.Contains(asm, ".maxstack 8\n") {
		t.Fatalf("override ignored:\n%s", asm)
	}
}

func TestRefusesErrorDecoratedTree(t *testing.T) {
	root := Program(Main(Local(String(), "s"), While(Name("s"), Block())))
	sema.Check(root, sema.Options{})
	out, err := Emit(root, Options{})
	var decErr *DecorationError
	if !errors.As(err, &decErr) {
		t.Fatalf("expected DecorationError, got %v", err)
	}
	if decErr.Kind != ast.KindIterationStatement || !strings.Contains(decErr.Reason, "Iteration expected Boolean, got string") {
		t.Fatalf("unexpected error %v", decErr)
	}
	if Code(err) != diag.SemaTypeMismatch {
		t.Fatalf("error code %v, want %v", Code(err), diag.SemaTypeMismatch)
	}
	if out != "" {
		t.Fatalf("no instructions may be produced, got:\n%s", out)
	}
}

func TestRefusesUndecoratedTree(t *testing.T) {
	_, err := Emit(Countdown(1), Options{})
	var decErr *DecorationError
	if !errors.As(err, &decErr) || decErr.Code != diag.GenUndecoratedNode {
		t.Fatalf("expected undecorated node error, got %v", err)
	}
}

func TestUnsupportedOperator(t *testing.T) {
	expr := Bin(ast.ExprAdd, Name("a"), Lit(1))
	root := Program(Main(Local(Int(), "a"), Assign(Name("a"), expr)))
	sema.Check(root, sema.Options{})
	expr.Op = ast.ExprPrimary

	_, err := Emit(root, Options{})
	var opErr *UnsupportedOperatorError
	if !errors.As(err, &opErr) || opErr.Op != ast.ExprPrimary {
		t.Fatalf("expected UnsupportedOperatorError, got %v", err)
	}
	if Code(err) != diag.GenUnsupportedOperator {
		t.Fatalf("unexpected code %v", Code(err))
	}
}

func TestEmitTracesPass(t *testing.T) {
	root := Countdown(1)
	sema.Check(root, sema.Options{})
	ring := trace.NewRingTracer(256, trace.LevelPhase)
	if _, err := Emit(root, Options{Tracer: ring}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	events := ring.Snapshot()
	if len(events) != 2 || events[0].Name != "emit" || events[1].Extra["labels"] != "2" {
		t.Fatalf("unexpected events %+v", events)
	}
}

func TestEmitRequiresCompilationUnit(t *testing.T) {
	root := Program(Main(Call("WriteLine", Str("hi"))))
	sema.Check(root, sema.Options{})
	_, err := Emit(root.Child(0), Options{})
	var decErr *DecorationError
	if !errors.As(err, &decErr) || decErr.Code != diag.GenInvalidRoot {
		t.Fatalf("class root: got %v, want GenInvalidRoot", err)
	}
	if Code(err) != diag.GenInvalidRoot {
		t.Fatalf("Code(%v) = %v", err, Code(err))
	}
}
