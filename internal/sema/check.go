package sema

import (
	"fmt"

	"tccl/internal/ast"
	"tccl/internal/attrs"
	"tccl/internal/diag"
	"tccl/internal/source"
	"tccl/internal/symbols"
	"tccl/internal/trace"
	"tccl/internal/types"
)

// Options configure a semantic pass over one compilation unit.
type Options struct {
	Reporter diag.Reporter
	Tracer   trace.Tracer
	// Table seeds the pass; nil means symbols.New().
	Table *symbols.Table
}

// Result stores semantic artefacts produced by the checker.
type Result struct {
	Table *symbols.Table
	// Errors lists nodes decorated with a reported error, in detection order.
	// Cascade errors are not included.
	Errors []*ast.Node
	// Reported counts every reported error, including those about a missing
	// grammar slot that have no node to decorate.
	Reported int
}

// OK reports whether the tree is free of semantic errors.
func (r Result) OK() bool {
	return len(r.Errors) == 0 && r.Reported == 0
}

// Check decorates every node under root in place. Existing decorations are
// cleared first, so a tree may be checked again.
func Check(root *ast.Node, opts Options) Result {
	tc := typeChecker{
		table:    opts.Table,
		reporter: opts.Reporter,
		tracer:   opts.Tracer,
	}
	if tc.table == nil {
		tc.table = symbols.New()
	}
	if tc.reporter == nil {
		tc.reporter = diag.NopReporter{}
	}
	if tc.tracer == nil {
		tc.tracer = trace.Nop
	}
	if root == nil {
		return Result{Table: tc.table}
	}

	ast.ResetDecorations(root)
	span := trace.Begin(tc.tracer, trace.ScopePass, "sema", 0)
	tc.span = span.ID()
	tc.visit(root, scopeContext{})
	span.WithExtra("errors", fmt.Sprint(tc.reported)).End("")

	return Result{Table: tc.table, Errors: tc.errors, Reported: tc.reported}
}

// scopeContext is threaded by value through the walk. Declarations cannot
// nest, so restoring on return is implicit.
type scopeContext struct {
	class  *attrs.ClassAttributes
	method *attrs.MethodAttributes
	// declaring is set under a type specifier; names there are types, not
	// variable uses.
	declaring bool
}

type typeChecker struct {
	table    *symbols.Table
	reporter diag.Reporter
	tracer   trace.Tracer
	span     uint64
	errors   []*ast.Node
	reported int
}

// visit dispatches on every node kind.
func (tc *typeChecker) visit(n *ast.Node, ctx scopeContext) {
	if n == nil {
		return
	}
	trace.Point(tc.tracer, trace.ScopeNode, "node:"+n.Kind.String(), n.String(), tc.span)

	switch n.Kind {
	case ast.KindCompilationUnit, ast.KindClassBody, ast.KindMethodBody, ast.KindBlock:
		tc.visitChildren(n, ctx)
		tc.decorateVoid(n)
	case ast.KindClassDeclaration:
		tc.visitClass(n, ctx)
	case ast.KindMethodDeclaration:
		tc.visitMethod(n, ctx)
	case ast.KindMethodSignature:
		tc.visitSignature(n, ctx)
	case ast.KindParameterList:
		tc.visitChildren(n, ctx)
		tc.decorateVoid(n)
	case ast.KindParameter:
		tc.visitParameter(n, ctx)
	case ast.KindLocalVariableDeclaration:
		tc.visitLocal(n, ctx)
	case ast.KindFieldDeclaration:
		tc.visitField(n, ctx)
	case ast.KindNameList:
		// reached only through a declaration, which binds the names itself
		tc.visitChildren(n, ctx)
		tc.decorateVoid(n)
	case ast.KindSelectionStatement:
		tc.visitCondition(n, ctx, "Selection")
	case ast.KindIterationStatement:
		tc.visitCondition(n, ctx, "Iteration")
	case ast.KindReturnStatement:
		tc.visitReturn(n, ctx)
	case ast.KindMethodCall:
		tc.visitCall(n, ctx)
	case ast.KindQualifiedName:
		if ctx.declaring {
			tc.declareTypeName(n)
			return
		}
		tc.visitName(n)
	case ast.KindExpression:
		tc.visitExpression(n, ctx)
	case ast.KindIdentifier:
		n.Decorate(&attrs.VariableAttributes{})
	case ast.KindIntLiteral:
		n.Decorate(attrs.NewType(types.Integer()))
	case ast.KindStringLiteral:
		n.Decorate(attrs.NewType(types.String()))
	case ast.KindModifiers:
		tc.decorateVoid(n)
	case ast.KindPrimitiveType:
		if t := n.Prim.Type(); !t.IsError() {
			n.Decorate(attrs.NewType(t))
		} else {
			tc.fail(n, diag.SemaError, fmt.Sprintf("unknown primitive type %s", n.Prim))
		}
	case ast.KindInvalid:
		tc.visitChildren(n, ctx)
		tc.fail(n, diag.SemaError, "invalid node")
	default:
		tc.visitChildren(n, ctx)
		tc.fail(n, diag.SemaError, fmt.Sprintf("unhandled node kind %s", n.Kind))
	}
}

func (tc *typeChecker) visitChildren(n *ast.Node, ctx scopeContext) {
	for _, child := range n.Children {
		tc.visit(child, ctx)
	}
}

func (tc *typeChecker) decorateVoid(n *ast.Node) {
	n.Decorate(attrs.NewType(types.Void()))
}

// fail decorates n with a reported error. A nil n (missing grammar slot)
// is reported without a decoration.
func (tc *typeChecker) fail(n *ast.Node, code diag.Code, msg string) *attrs.ErrorAttributes {
	e := attrs.NewError(code, msg)
	if n != nil {
		n.Decorate(e)
		tc.errors = append(tc.errors, n)
	}
	tc.reported++
	diag.ReportError(tc.reporter, code, spanOf(n), msg).Emit()
	return e
}

// cascade poisons n without reporting; cause was already reported.
func (tc *typeChecker) cascade(n *ast.Node, cause *attrs.ErrorAttributes) {
	n.Decorate(attrs.CascadeFrom(cause))
}

// errorOf returns the error decoration of n, if any.
func errorOf(n *ast.Node) (*attrs.ErrorAttributes, bool) {
	if n == nil {
		return nil, false
	}
	e, ok := n.NodeType.(*attrs.ErrorAttributes)
	return e, ok
}

// childOf returns the first child of one of the given kinds. Optional grammar
// slots are omitted rather than nil, so positions are not stable.
func childOf(n *ast.Node, kinds ...ast.Kind) *ast.Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		for _, k := range kinds {
			if c.Kind == k {
				return c
			}
		}
	}
	return nil
}

func typeSpecOf(n *ast.Node) *ast.Node {
	return childOf(n, ast.KindPrimitiveType, ast.KindQualifiedName)
}

func spanOf(n *ast.Node) source.Span {
	if n == nil {
		return source.Span{}
	}
	return n.Span
}
