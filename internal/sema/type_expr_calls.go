package sema

import (
	"fmt"

	"tccl/internal/ast"
	"tccl/internal/attrs"
	"tccl/internal/diag"
	"tccl/internal/symbols"
	"tccl/internal/types"
)

const unresolvedCallee = "Error in Parameter list"

// visitCall: callee QualifiedName, arguments...
func (tc *typeChecker) visitCall(n *ast.Node, ctx scopeContext) {
	tc.visitChildren(n, ctx)
	callee := n.Child(0)
	if callee == nil || callee.Kind != ast.KindQualifiedName {
		tc.fail(n, diag.SemaUnresolvedCallee, unresolvedCallee+": call without a callee name")
		return
	}
	args := n.Children[1:]

	method, ok := callee.NodeType.(*attrs.MethodAttributes)
	if !ok {
		if e, isErr := errorOf(callee); isErr {
			n.Decorate(&attrs.ErrorAttributes{Code: diag.SemaUnresolvedCallee, Message: unresolvedCallee + ": " + e.Message, Cascade: true})
			return
		}
		tc.fail(n, diag.SemaUnresolvedCallee, fmt.Sprintf("%s: %s is not a method", unresolvedCallee, callee))
		return
	}
	for _, arg := range args {
		if e, isErr := errorOf(arg); isErr {
			tc.cascade(n, e)
			return
		}
	}
	if method.Owner() == symbols.ConsoleClass {
		tc.checkBuiltinCall(n, method, args)
		return
	}

	for i, param := range method.Params {
		if i >= len(args) {
			tc.fail(n, diag.SemaArityMismatch, fmt.Sprintf("Missing parameter for argument %d (%s %s) of %s", i, param.Type, param.Name, method.Name))
			return
		}
		got, _ := tc.operandType(args[i])
		if !got.Equal(param.Type) {
			tc.fail(n, diag.SemaTypeMismatch, fmt.Sprintf("Argument %d of %s: expected %s, got %s", i, method.Name, param.Type, describe(args[i], got)))
			return
		}
	}
	if len(args) > len(method.Params) {
		tc.fail(n, diag.SemaArityMismatch, fmt.Sprintf("Too many arguments to %s: expected %d, got %d", method.Name, len(method.Params), len(args)))
		return
	}
	n.Decorate(attrs.NewType(method.Return))
}

// checkBuiltinCall accepts exactly one int32, bool or string argument;
// WriteLine may also be called with none.
func (tc *typeChecker) checkBuiltinCall(n *ast.Node, method *attrs.MethodAttributes, args []*ast.Node) {
	switch {
	case len(args) == 0 && method.Name == symbols.BuiltinWriteLine:
	case len(args) != 1:
		tc.fail(n, diag.SemaArityMismatch, fmt.Sprintf("%s expects exactly one argument, got %d", method.Name, len(args)))
		return
	default:
		t, _ := tc.operandType(args[0])
		if !Printable(t) {
			tc.fail(n, diag.SemaTypeMismatch, fmt.Sprintf("%s cannot print %s", method.Name, describe(args[0], t)))
			return
		}
	}
	n.Decorate(attrs.NewType(method.Return))
}

// Printable reports whether the console routines have an overload for t.
func Printable(t types.Type) bool {
	return t.IsInteger() || t.IsBoolean() || t.Kind == types.KindString
}
