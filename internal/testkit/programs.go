// Package testkit builds small TCCL trees for tests and checks the
// invariants a decorated tree must hold.
package testkit

import (
	"fortio.org/safecast"

	"tccl/internal/ast"
	"tccl/internal/source"
)

func Int() *ast.Node    { return ast.NewPrimitiveType(ast.PrimInt) }
func Bool() *ast.Node   { return ast.NewPrimitiveType(ast.PrimBoolean) }
func Void() *ast.Node   { return ast.NewPrimitiveType(ast.PrimVoid) }
func String() *ast.Node { return ast.NewPrimitiveType(ast.PrimString) }

// Name is a QualifiedName reference.
func Name(segments ...string) *ast.Node { return ast.NewQualifiedName(segments...) }

func Lit(v int32) *ast.Node  { return ast.NewIntLiteral(v) }
func Str(s string) *ast.Node { return ast.NewStringLiteral(s) }
func Assign(lhs, rhs *ast.Node) *ast.Node {
	return ast.NewBinary(ast.ExprAssign, lhs, rhs)
}
func Bin(op ast.ExprKind, lhs, rhs *ast.Node) *ast.Node { return ast.NewBinary(op, lhs, rhs) }
func Neg(x *ast.Node) *ast.Node                         { return ast.NewUnary(ast.ExprSub, x) }

// Call builds callee(args...) where callee is a dotted name.
func Call(callee string, args ...*ast.Node) *ast.Node {
	return ast.NewMethodCall(ast.NewQualifiedName(splitName(callee)...), args...)
}

// Local declares names of type t.
func Local(t *ast.Node, names ...string) *ast.Node {
	return ast.NewLocalVariableDeclaration(t, nameList(names))
}

// Field declares public static fields.
func Field(t *ast.Node, names ...string) *ast.Node {
	return ast.NewFieldDeclaration(ast.NewModifiers(ast.ModPublic, ast.ModStatic), t, nameList(names))
}

func Param(t *ast.Node, name string) *ast.Node {
	return ast.NewParameter(t, ast.NewIdentifier(name))
}

// Method declares a public static method.
func Method(ret *ast.Node, name string, params []*ast.Node, body ...*ast.Node) *ast.Node {
	var plist *ast.Node
	if len(params) > 0 {
		plist = ast.NewParameterList(params...)
	}
	return ast.NewMethodDeclaration(
		ast.NewModifiers(ast.ModPublic, ast.ModStatic),
		ret,
		ast.NewMethodSignature(ast.NewIdentifier(name), plist),
		ast.NewMethodBody(body...),
	)
}

// Main is "public static void main() { body }".
func Main(body ...*ast.Node) *ast.Node {
	return Method(Void(), "main", nil, body...)
}

func Class(name string, members ...*ast.Node) *ast.Node {
	return ast.NewClassDeclaration(ast.NewModifiers(ast.ModPublic), ast.NewIdentifier(name), ast.NewClassBody(members...))
}

func If(cond, then, els *ast.Node) *ast.Node { return ast.NewSelection(cond, then, els) }
func While(cond, body *ast.Node) *ast.Node   { return ast.NewIteration(cond, body) }
func Block(items ...*ast.Node) *ast.Node     { return ast.NewBlock(items...) }
func Return(expr *ast.Node) *ast.Node        { return ast.NewReturn(expr) }

// Program wraps members into class Prog inside a compilation unit.
func Program(members ...*ast.Node) *ast.Node {
	return ast.NewCompilationUnit(Class("Prog", members...))
}

// Number assigns each node a distinct single-line span in pre-order, so
// diagnostics get stable positions.
func Number(root *ast.Node) *ast.Node {
	line := uint32(1)
	ast.Walk(root, func(n *ast.Node) bool {
		n.Span = source.At(line, 1)
		line++
		return true
	})
	return root
}

// Sum builds ((a + b) + c) ... over the names, left-associated.
func Sum(names ...string) *ast.Node {
	if len(names) == 0 {
		return Lit(0)
	}
	acc := Name(names[0])
	for _, n := range names[1:] {
		acc = Bin(ast.ExprAdd, acc, Name(n))
	}
	return acc
}

// Countdown is a while loop decrementing an int local from n to zero and
// printing each value.
func Countdown(n int) *ast.Node {
	start, err := safecast.Conv[int32](n)
	if err != nil {
		start = 0
	}
	return Program(Main(
		Local(Int(), "i"),
		Assign(Name("i"), Lit(start)),
		While(Bin(ast.ExprGt, Name("i"), Lit(0)), Block(
			Call("WriteLine", Name("i")),
			Assign(Name("i"), Bin(ast.ExprSub, Name("i"), Lit(1))),
		)),
	))
}

func nameList(names []string) *ast.Node {
	ids := make([]*ast.Node, len(names))
	for i, n := range names {
		ids[i] = ast.NewIdentifier(n)
	}
	return ast.NewNameList(ids...)
}

func splitName(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}
