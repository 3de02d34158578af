package ast

import (
	"fmt"
	"strconv"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"

	"tccl/internal/source"
)

// newNode adopts children in argument order; nil marks an omitted optional
// slot and is skipped.
func newNode(kind Kind, children ...*Node) *Node {
	n := &Node{Kind: kind}
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// At sets the span and returns n for chaining.
func (n *Node) At(sp source.Span) *Node {
	n.Span = sp
	return n
}

func NewCompilationUnit(classes ...*Node) *Node {
	return newNode(KindCompilationUnit, classes...)
}

func NewClassDeclaration(mods, name, body *Node) *Node {
	return newNode(KindClassDeclaration, mods, name, body)
}

func NewClassBody(members ...*Node) *Node {
	return newNode(KindClassBody, members...)
}

func NewModifiers(mods ...Modifier) *Node {
	n := newNode(KindModifiers)
	n.Mods = append(n.Mods, mods...)
	return n
}

// NewIdentifier normalizes name to NFC so that canonically equivalent
// spellings bind to the same symbol.
func NewIdentifier(name string) *Node {
	n := newNode(KindIdentifier)
	n.Name = NormalizeName(name)
	return n
}

// NormalizeName returns the NFC form of an identifier.
func NormalizeName(name string) string {
	if norm.NFC.IsNormalString(name) {
		return name
	}
	return norm.NFC.String(name)
}

func NewQualifiedName(segments ...string) *Node {
	n := newNode(KindQualifiedName)
	for _, s := range segments {
		n.Children = append(n.Children, NewIdentifier(s))
	}
	return n
}

func NewPrimitiveType(p PrimitiveKind) *Node {
	n := newNode(KindPrimitiveType)
	n.Prim = p
	return n
}

func NewMethodDeclaration(mods, typeSpec, sig, body *Node) *Node {
	return newNode(KindMethodDeclaration, mods, typeSpec, sig, body)
}

// NewMethodSignature builds name(params). params may be nil.
func NewMethodSignature(name, params *Node) *Node {
	return newNode(KindMethodSignature, name, params)
}

func NewParameterList(params ...*Node) *Node {
	return newNode(KindParameterList, params...)
}

func NewParameter(typeSpec, name *Node) *Node {
	return newNode(KindParameter, typeSpec, name)
}

func NewMethodBody(items ...*Node) *Node {
	return newNode(KindMethodBody, items...)
}

func NewNameList(names ...*Node) *Node {
	return newNode(KindNameList, names...)
}

func NewLocalVariableDeclaration(typeSpec, names *Node) *Node {
	return newNode(KindLocalVariableDeclaration, typeSpec, names)
}

func NewFieldDeclaration(mods, typeSpec, names *Node) *Node {
	return newNode(KindFieldDeclaration, mods, typeSpec, names)
}

// NewSelection builds if (cond) then [else els]. els may be nil.
func NewSelection(cond, then, els *Node) *Node {
	return newNode(KindSelectionStatement, cond, then, els)
}

func NewIteration(cond, body *Node) *Node {
	return newNode(KindIterationStatement, cond, body)
}

// NewReturn builds return [expr]. expr may be nil.
func NewReturn(expr *Node) *Node {
	return newNode(KindReturnStatement, expr)
}

func NewBlock(items ...*Node) *Node {
	return newNode(KindBlock, items...)
}

func NewMethodCall(callee *Node, args ...*Node) *Node {
	return newNode(KindMethodCall, append([]*Node{callee}, args...)...)
}

func NewBinary(op ExprKind, lhs, rhs *Node) *Node {
	n := newNode(KindExpression, lhs, rhs)
	n.Op = op
	return n
}

func NewUnary(op ExprKind, operand *Node) *Node {
	n := newNode(KindExpression, operand)
	n.Op = op
	return n
}

func NewIntLiteral(v int32) *Node {
	n := newNode(KindIntLiteral)
	n.IntVal = v
	return n
}

// ParseIntLiteral converts decimal literal text, rejecting values that do not
// fit int32.
func ParseIntLiteral(text string) (*Node, error) {
	wide, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid integer literal %q: %w", text, err)
	}
	v, err := safecast.Conv[int32](wide)
	if err != nil {
		return nil, fmt.Errorf("integer literal %s out of int32 range: %w", text, err)
	}
	return NewIntLiteral(v), nil
}

func NewStringLiteral(s string) *Node {
	n := newNode(KindStringLiteral)
	n.StrVal = s
	return n
}
