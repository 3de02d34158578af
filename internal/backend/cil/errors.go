package cil

import (
	"fmt"

	"tccl/internal/ast"
	"tccl/internal/diag"
	"tccl/internal/source"
)

// DecorationError means the tree was not cleanly checked: a node is missing
// its decoration or carries an error marker.
type DecorationError struct {
	Code   diag.Code
	Kind   ast.Kind
	Span   source.Span
	Reason string
}

func (e *DecorationError) Error() string {
	return fmt.Sprintf("cil: %s at %s: %s", e.Kind, e.Span, e.Reason)
}

// UnsupportedOperatorError is an expression operator without an opcode.
type UnsupportedOperatorError struct {
	Op   ast.ExprKind
	Span source.Span
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("cil: operator %s at %s has no opcode", e.Op, e.Span)
}

// UnresolvedSlotError is a name that is neither a local, a parameter nor a
// static field.
type UnresolvedSlotError struct {
	Name string
	Span source.Span
}

func (e *UnresolvedSlotError) Error() string {
	return fmt.Sprintf("cil: %s at %s has no local, argument or field slot", e.Name, e.Span)
}

// Code maps a code generation error to its diagnostic code.
func Code(err error) diag.Code {
	switch e := err.(type) {
	case *DecorationError:
		return e.Code
	case *UnsupportedOperatorError:
		return diag.GenUnsupportedOperator
	case *UnresolvedSlotError:
		return diag.GenUnresolvedSlot
	default:
		return diag.UnknownCode
	}
}
