package cil

import (
	"fmt"
	"strings"

	"tccl/internal/ast"
	"tccl/internal/attrs"
	"tccl/internal/diag"
	"tccl/internal/trace"
)

// DefaultAssemblyName is used when Options.AssemblyName is empty.
const DefaultAssemblyName = "tccl"

// Options configure code generation.
type Options struct {
	AssemblyName string
	// MaxStack overrides the computed .maxstack of every method when > 0.
	MaxStack int
	Tracer   trace.Tracer
}

// Emitter lowers one decorated compilation unit to ilasm text. An Emitter is
// single use.
type Emitter struct {
	opts    Options
	buf     strings.Builder
	labels  int
	class   *attrs.ClassAttributes
	members int // emitted in the current class
	entry   bool
	tracer  trace.Tracer
	span    uint64
}

// Emit validates the decorations of root and returns the assembly text.
// Nothing is written unless the whole tree is clean.
func Emit(root *ast.Node, opts Options) (string, error) {
	if opts.AssemblyName == "" {
		opts.AssemblyName = DefaultAssemblyName
	}
	e := &Emitter{opts: opts, tracer: opts.Tracer}
	if e.tracer == nil {
		e.tracer = trace.Nop
	}
	if root == nil {
		return "", &DecorationError{Code: diag.GenUndecoratedNode, Reason: "nil tree"}
	}
	if root.Kind != ast.KindCompilationUnit {
		return "", &DecorationError{Code: diag.GenInvalidRoot, Kind: root.Kind, Span: root.Span, Reason: "root must be a CompilationUnit"}
	}
	if err := CheckDecorations(root); err != nil {
		return "", err
	}

	span := trace.Begin(e.tracer, trace.ScopePass, "emit", 0)
	e.span = span.ID()
	err := e.emitNode(root)
	span.WithExtra("labels", fmt.Sprint(e.labels)).End("")
	if err != nil {
		return "", err
	}
	return e.buf.String(), nil
}

// CheckDecorations returns the first node that is undecorated or marked with
// a semantic error.
func CheckDecorations(root *ast.Node) error {
	var err error
	ast.Walk(root, func(n *ast.Node) bool {
		if err != nil {
			return false
		}
		if !n.Decorated() {
			err = &DecorationError{Code: diag.GenUndecoratedNode, Kind: n.Kind, Span: n.Span, Reason: "node is not decorated"}
			return false
		}
		if e, ok := n.NodeType.(*attrs.ErrorAttributes); ok {
			err = &DecorationError{Code: e.Code, Kind: n.Kind, Span: n.Span, Reason: e.Message}
			return false
		}
		return true
	})
	return err
}

// emitNode handles the declaration level. Statement and expression kinds
// are lowered by the method emitter.
func (e *Emitter) emitNode(n *ast.Node) error {
	trace.Point(e.tracer, trace.ScopeNode, "node:"+n.Kind.String(), n.String(), e.span)

	switch n.Kind {
	case ast.KindCompilationUnit:
		e.emitPreamble()
		return e.emitChildren(n)
	case ast.KindClassDeclaration:
		return e.emitClass(n)
	case ast.KindClassBody:
		return e.emitChildren(n)
	case ast.KindFieldDeclaration:
		return e.emitField(n)
	case ast.KindMethodDeclaration:
		return e.emitMethod(n)
	case ast.KindModifiers, ast.KindIdentifier, ast.KindPrimitiveType, ast.KindNameList:
		return nil
	case ast.KindMethodBody, ast.KindMethodSignature, ast.KindParameter, ast.KindParameterList,
		ast.KindLocalVariableDeclaration, ast.KindSelectionStatement, ast.KindIterationStatement,
		ast.KindReturnStatement, ast.KindBlock, ast.KindMethodCall, ast.KindQualifiedName,
		ast.KindExpression, ast.KindIntLiteral, ast.KindStringLiteral:
		return decorationError(n, "outside of a method")
	case ast.KindInvalid:
		return decorationError(n, "invalid node")
	default:
		return decorationError(n, "unhandled node kind")
	}
}

func (e *Emitter) emitChildren(n *ast.Node) error {
	for _, child := range n.Children {
		if err := e.emitNode(child); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emitter) emitPreamble() {
	e.buf.WriteString(".assembly extern mscorlib {}\n")
	fmt.Fprintf(&e.buf, ".assembly %s {}\n", e.opts.AssemblyName)
}

func (e *Emitter) emitClass(n *ast.Node) error {
	cls, ok := n.NodeType.(*attrs.ClassAttributes)
	if !ok {
		return decorationError(n, fmt.Sprintf("class decorated with %T", n.NodeType))
	}
	e.class = cls
	e.members = 0
	defer func() { e.class = nil }()

	fmt.Fprintf(&e.buf, "\n.class public auto ansi beforefieldinit %s extends [mscorlib]System.Object\n{\n", cls.Name)
	for _, child := range n.Children {
		if child.Kind == ast.KindClassBody {
			if err := e.emitNode(child); err != nil {
				return err
			}
		}
	}
	e.buf.WriteString("}\n")
	return nil
}

func (e *Emitter) emitField(n *ast.Node) error {
	t, ok := attrs.TypeOf(n.NodeType)
	if !ok {
		return decorationError(n, "field without a type")
	}
	ct, err := cilType(t, n)
	if err != nil {
		return err
	}
	access := accessOf(n)
	for _, child := range n.Children {
		if child.Kind != ast.KindNameList {
			continue
		}
		for _, ident := range child.Children {
			fmt.Fprintf(&e.buf, "  .field %s static %s %s\n", access, ct, ident.Name)
			e.members++
		}
	}
	return nil
}

// newLabel mints "<purpose>_<n>"; n is unique within one Emit call.
func (e *Emitter) newLabel(purpose string) string {
	e.labels++
	return fmt.Sprintf("%s_%d", purpose, e.labels)
}

// accessOf reads the visibility of a method or field declaration.
func accessOf(decl *ast.Node) string {
	for _, child := range decl.Children {
		if child.Kind == ast.KindModifiers && child.HasModifier(ast.ModPrivate) {
			return "private"
		}
	}
	return "public"
}

func decorationError(n *ast.Node, reason string) *DecorationError {
	if n == nil {
		return &DecorationError{Code: diag.GenUndecoratedNode, Reason: reason}
	}
	return &DecorationError{Code: diag.GenUndecoratedNode, Kind: n.Kind, Span: n.Span, Reason: reason}
}
