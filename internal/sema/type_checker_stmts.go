package sema

import (
	"fmt"

	"tccl/internal/ast"
	"tccl/internal/attrs"
	"tccl/internal/diag"
	"tccl/internal/types"
)

// visitCondition handles selection (cond, then [, else]) and iteration
// (cond, body). what names the construct in messages.
func (tc *typeChecker) visitCondition(n *ast.Node, ctx scopeContext, what string) {
	tc.visitChildren(n, ctx)
	cond := n.Child(0)
	if cond == nil {
		tc.fail(n, diag.SemaError, what+" without a condition")
		return
	}
	t, cause := tc.operandType(cond)
	if cause != nil {
		tc.cascade(n, cause)
		return
	}
	if !t.IsBoolean() {
		tc.fail(n, diag.SemaTypeMismatch, fmt.Sprintf("%s expected Boolean, got %s", what, describe(cond, t)))
		return
	}
	tc.decorateVoid(n)
}

// visitReturn: [expression], checked against the enclosing method.
func (tc *typeChecker) visitReturn(n *ast.Node, ctx scopeContext) {
	tc.visitChildren(n, ctx)
	if ctx.method == nil {
		tc.fail(n, diag.SemaError, "return outside of a method")
		return
	}
	want := ctx.method.Return
	expr := n.Child(0)
	if expr == nil {
		if !want.IsVoid() {
			tc.fail(n, diag.SemaTypeMismatch, fmt.Sprintf("Return expected %s, got void", want))
			return
		}
		n.Decorate(attrs.NewType(types.Void()))
		return
	}
	got, cause := tc.operandType(expr)
	if cause != nil {
		tc.cascade(n, cause)
		return
	}
	if want.IsVoid() {
		tc.fail(n, diag.SemaTypeMismatch, fmt.Sprintf("Return with a value in void method %s", ctx.method.Name))
		return
	}
	if !got.Equal(want) {
		tc.fail(n, diag.SemaTypeMismatch, fmt.Sprintf("Return expected %s, got %s", want, describe(expr, got)))
		return
	}
	n.Decorate(attrs.NewType(got))
}
