package sema

import (
	"fmt"

	"tccl/internal/ast"
	"tccl/internal/attrs"
	"tccl/internal/diag"
	"tccl/internal/types"
)

// visitName resolves a QualifiedName in use position. The decoration is the
// resolved attribute itself.
func (tc *typeChecker) visitName(n *ast.Node) {
	for _, seg := range n.Children {
		seg.Decorate(&attrs.VariableAttributes{})
	}
	segs := n.Segments()
	if len(segs) == 0 {
		tc.fail(n, diag.SemaUnsupportedName, "empty qualified name")
		return
	}
	if len(segs) > 2 {
		tc.fail(n, diag.SemaUnsupportedName, fmt.Sprintf("Qualified name %s has more than two segments", n))
		return
	}
	head, ok := tc.table.Lookup(segs[0])
	if !ok {
		tc.fail(n, diag.SemaUndeclaredVariable, "Accessing undeclared variable "+segs[0])
		return
	}
	if len(segs) == 1 {
		n.Decorate(head)
		return
	}
	cls, ok := head.(*attrs.ClassAttributes)
	if !ok {
		tc.fail(n, diag.SemaTypeMismatch, fmt.Sprintf("%s is not a class, got %s", segs[0], head))
		return
	}
	member, ok := cls.Lookup(segs[1])
	if !ok {
		tc.fail(n, diag.SemaUndeclaredVariable, "Accessing undeclared variable "+n.String())
		return
	}
	n.Decorate(member)
}

// operandType extracts the value type of an already visited operand. Error
// operands yield their error for cascading.
func (tc *typeChecker) operandType(n *ast.Node) (types.Type, *attrs.ErrorAttributes) {
	if e, ok := errorOf(n); ok {
		return types.Error(), e
	}
	if t, ok := attrs.TypeOf(n.NodeType); ok {
		return t, nil
	}
	return types.Error(), nil
}

// visitExpression: lhs [, rhs]. Operands are checked first.
func (tc *typeChecker) visitExpression(n *ast.Node, ctx scopeContext) {
	tc.visitChildren(n, ctx)

	switch len(n.Children) {
	case 1:
		tc.checkUnary(n)
	case 2:
		tc.checkBinary(n)
	default:
		tc.fail(n, diag.SemaError, fmt.Sprintf("expression %s has %d operands", n.Op, len(n.Children)))
	}
}

func (tc *typeChecker) checkUnary(n *ast.Node) {
	operand := n.Child(0)
	t, cause := tc.operandType(operand)
	if cause != nil {
		tc.cascade(n, cause)
		return
	}
	if n.Op != ast.ExprSub {
		tc.fail(n, diag.SemaUnsupportedOperator, fmt.Sprintf("Unsupported unary operator %s", n.Op))
		return
	}
	if !t.IsInteger() {
		tc.fail(n, diag.SemaTypeMismatch, fmt.Sprintf("Unary %s expected int32, got %s", n.Op, describe(operand, t)))
		return
	}
	n.Decorate(attrs.NewType(types.Integer()))
}

func (tc *typeChecker) checkBinary(n *ast.Node) {
	lhs, rhs := n.Child(0), n.Child(1)
	lt, lcause := tc.operandType(lhs)
	if lcause != nil {
		tc.cascade(n, lcause)
		return
	}
	rt, rcause := tc.operandType(rhs)
	if rcause != nil {
		tc.cascade(n, rcause)
		return
	}

	family := n.Op.Family()
	if family == types.FamilyNone {
		tc.fail(n, diag.SemaUnsupportedOperator, fmt.Sprintf("Unsupported binary operator %s", n.Op))
		return
	}
	if family == types.FamilyAssign && !isAssignable(lhs) {
		tc.fail(n, diag.SemaTypeMismatch, fmt.Sprintf("Cannot assign to %s", describe(lhs, lt)))
		return
	}
	if lt.IsError() || rt.IsError() || !lt.Equal(rt) {
		tc.fail(n, diag.SemaTypeMismatch, fmt.Sprintf("mismatched types, got %s and %s", describe(lhs, lt), describe(rhs, rt)))
		return
	}
	if want, constrained := family.OperandType(); constrained && !lt.Equal(want) {
		tc.fail(n, diag.SemaTypeMismatch, fmt.Sprintf("Operator %s expected %s, got %s", n.Op, want, lt))
		return
	}
	n.Decorate(attrs.NewType(family.Result(lt)))
}

// isAssignable: the target must name a variable or a field.
func isAssignable(n *ast.Node) bool {
	if n == nil || n.Kind != ast.KindQualifiedName {
		return false
	}
	_, ok := n.NodeType.(*attrs.TypeAttributes)
	return ok
}

// describe renders an operand for messages; non-values show their
// decoration.
func describe(n *ast.Node, t types.Type) string {
	if t.IsError() && n != nil && n.NodeType != nil {
		return n.NodeType.String()
	}
	return t.Canonical()
}
