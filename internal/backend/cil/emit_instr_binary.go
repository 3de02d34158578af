package cil

import "tccl/internal/ast"

type opcode struct {
	code   string
	negate bool // follow with "ldc.i4.0; ceq"
}

var binaryOpcodes = map[ast.ExprKind]opcode{
	ast.ExprBitOr:  {code: "or"},
	ast.ExprBitXor: {code: "xor"},
	ast.ExprBitAnd: {code: "and"},
	ast.ExprAdd:    {code: "add"},
	ast.ExprSub:    {code: "sub"},
	ast.ExprMul:    {code: "mul"},
	ast.ExprDiv:    {code: "div"},
	ast.ExprRem:    {code: "rem"},
	ast.ExprEq:     {code: "ceq"},
	ast.ExprNe:     {code: "ceq", negate: true},
	ast.ExprGt:     {code: "cgt"},
	ast.ExprLt:     {code: "clt"},
	ast.ExprLe:     {code: "cgt", negate: true},
	ast.ExprGe:     {code: "clt", negate: true},
}

// expression lowers an Expression node that must leave one value.
func (me *methodEmitter) expression(n *ast.Node) error {
	if len(n.Children) == 1 {
		return me.unary(n)
	}
	lhs, rhs := n.Child(0), n.Child(1)
	switch n.Op {
	case ast.ExprAssign:
		return me.assign(n, true)
	case ast.ExprLogicalAnd:
		return me.shortCircuit(lhs, rhs, "brfalse", "ldc.i4.0")
	case ast.ExprLogicalOr:
		return me.shortCircuit(lhs, rhs, "brtrue", "ldc.i4.1")
	}

	oc, ok := binaryOpcodes[n.Op]
	if !ok {
		return &UnsupportedOperatorError{Op: n.Op, Span: n.Span}
	}
	if err := me.value(lhs); err != nil {
		return err
	}
	if err := me.value(rhs); err != nil {
		return err
	}
	me.op(-1, "%s", oc.code)
	if oc.negate {
		me.negate()
	}
	return nil
}

// negate flips the boolean on top of the stack.
func (me *methodEmitter) negate() {
	me.op(+1, "ldc.i4.0")
	me.op(-1, "ceq")
}

// unary minus computes 0 - operand.
func (me *methodEmitter) unary(n *ast.Node) error {
	if n.Op != ast.ExprSub {
		return &UnsupportedOperatorError{Op: n.Op, Span: n.Span}
	}
	me.op(+1, "ldc.i4.0")
	if err := me.value(n.Child(0)); err != nil {
		return err
	}
	me.op(-1, "sub")
	return nil
}

// shortCircuit lowers && (brfalse, push false) and || (brtrue, push true):
//
//	lhs; <branch> sc; rhs; br end; sc: <push>; end:
func (me *methodEmitter) shortCircuit(lhs, rhs *ast.Node, branch, push string) error {
	if err := me.value(lhs); err != nil {
		return err
	}
	sc := me.emitter.newLabel("shortcircuit")
	me.branch(branch, sc)
	if err := me.value(rhs); err != nil {
		return err
	}
	end := me.emitter.newLabel("end")
	me.branch("br", end)
	me.mark(sc)
	me.op(+1, "%s", push)
	me.mark(end)
	return nil
}

// assign evaluates rhs and stores it into lhs. As a value the result is
// duplicated first.
func (me *methodEmitter) assign(n *ast.Node, asValue bool) error {
	if err := me.value(n.Child(1)); err != nil {
		return err
	}
	if asValue {
		me.op(+1, "dup")
	}
	return me.store(n.Child(0))
}
