package ast

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"tccl/internal/attrs"
	"tccl/internal/source"
	"tccl/internal/types"
)

func sampleTree() *Node {
	body := NewMethodBody(
		NewLocalVariableDeclaration(NewPrimitiveType(PrimInt), NewNameList(NewIdentifier("x"))),
		NewBinary(ExprAssign, NewQualifiedName("x"), NewIntLiteral(300)),
		NewMethodCall(NewQualifiedName("WriteLine"), NewStringLiteral("hi")),
	)
	method := NewMethodDeclaration(
		NewModifiers(ModPublic, ModStatic),
		NewPrimitiveType(PrimVoid),
		NewMethodSignature(NewIdentifier("main"), nil),
		body,
	)
	return NewCompilationUnit(
		NewClassDeclaration(NewModifiers(ModPublic), NewIdentifier("Program"), NewClassBody(method)).At(source.At(1, 1)),
	)
}

func TestBuilderOmitsMissingSlots(t *testing.T) {
	sig := NewMethodSignature(NewIdentifier("f"), nil)
	if len(sig.Children) != 1 {
		t.Fatalf("signature without params must have one child, got %d", len(sig.Children))
	}
	sel := NewSelection(NewQualifiedName("b"), NewBlock(), nil)
	if len(sel.Children) != 2 {
		t.Fatalf("selection without else must have two children, got %d", len(sel.Children))
	}
	call := NewMethodCall(NewQualifiedName("f"), NewIntLiteral(1), NewIntLiteral(2))
	if len(call.Children) != 3 || call.Child(2).IntVal != 2 {
		t.Fatalf("call children must keep argument order")
	}
	if call.Child(3) != nil || call.Child(-1) != nil {
		t.Fatalf("out of range Child must be nil")
	}
}

func TestQualifiedNameString(t *testing.T) {
	qn := NewQualifiedName("Console", "Out")
	if got := qn.String(); got != "Console.Out" {
		t.Fatalf("got %q", got)
	}
	if got := NewQualifiedName("x").String(); got != "x" {
		t.Fatalf("got %q", got)
	}
}

func TestIdentifierNFC(t *testing.T) {
	decomposed := NewIdentifier("cafe\u0301")
	composed := NewIdentifier("caf\u00e9")
	if decomposed.Name != composed.Name {
		t.Fatalf("expected NFC normalization, got %q and %q", decomposed.Name, composed.Name)
	}
}

func TestParseIntLiteral(t *testing.T) {
	n, err := ParseIntLiteral("2147483647")
	if err != nil || n.IntVal != 2147483647 {
		t.Fatalf("max int32: %v %v", n, err)
	}
	if _, err := ParseIntLiteral("2147483648"); err == nil {
		t.Fatalf("expected overflow error")
	}
	if _, err := ParseIntLiteral("12a"); err == nil {
		t.Fatalf("expected syntax error")
	}
}

func TestDecorateOnce(t *testing.T) {
	n := NewIntLiteral(1)
	n.Decorate(attrs.NewType(types.Integer()))
	defer func() {
		if recover() == nil {
			t.Fatalf("second Decorate must panic")
		}
	}()
	n.Decorate(attrs.NewType(types.Integer()))
}

func TestResetDecorations(t *testing.T) {
	root := sampleTree()
	Walk(root, func(n *Node) bool {
		n.Decorate(&attrs.VariableAttributes{})
		return true
	})
	ResetDecorations(root)
	Walk(root, func(n *Node) bool {
		if n.Decorated() {
			t.Fatalf("%s still decorated", n.Kind)
		}
		return true
	})
}

func TestCodecRoundTrip(t *testing.T) {
	root := sampleTree()
	root.Decorate(&attrs.VariableAttributes{})

	data, err := Marshal(root)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.NodeType != nil {
		t.Fatalf("decorations must not be encoded")
	}
	if Count(got) != Count(root) {
		t.Fatalf("node count %d != %d", Count(got), Count(root))
	}
	class := got.Child(0)
	if class.Span != source.At(1, 1) || class.Child(1).Name != "Program" {
		t.Fatalf("class payload lost: %+v", class)
	}
	assign := class.Child(2).Child(0).Child(3).Child(1)
	if assign.Kind != KindExpression || assign.Op != ExprAssign || assign.Child(1).IntVal != 300 {
		t.Fatalf("assignment payload lost: %+v", assign)
	}
}

func TestDecodeRejectsForeignSchema(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, sampleTree()); err != nil {
		t.Fatalf("encode: %v", err)
	}
	data := buf.Bytes()
	corrupted := bytes.Replace(data, []byte{0x01}, []byte{0x07}, 1)
	_, err := Unmarshal(corrupted)
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	bad := NewCompilationUnit(&Node{Kind: Kind(200)})
	if err := Validate(bad); err == nil {
		t.Fatalf("expected invalid kind error")
	}
	if err := Validate(NewCompilationUnit(&Node{Kind: KindExpression})); err == nil {
		t.Fatalf("expected operand count error")
	}
	if err := Validate(sampleTree()); err != nil {
		t.Fatalf("valid tree rejected: %v", err)
	}
}

func TestRootMustBeCompilationUnit(t *testing.T) {
	class := sampleTree().Child(0)
	for _, root := range []*Node{nil, class, NewPrimitiveType(PrimInt)} {
		if err := Validate(root); !errors.Is(err, ErrNotCompilationUnit) {
			t.Fatalf("Validate(%v) = %v, want ErrNotCompilationUnit", root, err)
		}
	}
	data, err := Marshal(class)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, err := Unmarshal(data); !errors.Is(err, ErrNotCompilationUnit) {
		t.Fatalf("class-rooted file decoded: %v", err)
	}
}

func TestDumpAlignsDecorations(t *testing.T) {
	root := NewBinary(ExprAdd, NewIntLiteral(1), NewIntLiteral(2))
	root.Decorate(attrs.NewType(types.Integer()))

	var buf bytes.Buffer
	if err := Dump(&buf, root); err != nil {
		t.Fatalf("dump: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", buf.String())
	}
	if lines[0] != "Expression +    TypeAttributes int32" {
		t.Fatalf("unexpected root line %q", lines[0])
	}
	if lines[1] != "  IntLiteral 1  -" {
		t.Fatalf("unexpected child line %q", lines[1])
	}
}

func TestKindsCoverEveryName(t *testing.T) {
	for _, k := range Kinds() {
		if strings.HasPrefix(k.String(), "Kind(") || k.String() == "" {
			t.Fatalf("kind %d has no name", k)
		}
	}
}
