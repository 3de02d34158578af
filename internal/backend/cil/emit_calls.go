package cil

import (
	"fmt"
	"strings"

	"tccl/internal/ast"
	"tccl/internal/attrs"
	"tccl/internal/symbols"
)

// call lowers a MethodCall and reports whether it left a value.
func (me *methodEmitter) call(n *ast.Node) (bool, error) {
	callee := n.Child(0)
	if callee == nil {
		return false, decorationError(n, "call without a callee")
	}
	m, ok := callee.NodeType.(*attrs.MethodAttributes)
	if !ok {
		return false, decorationError(n, fmt.Sprintf("callee decorated with %T", callee.NodeType))
	}
	args := n.Children[1:]
	for _, arg := range args {
		if err := me.value(arg); err != nil {
			return false, err
		}
	}

	if m.Owner() == symbols.ConsoleClass {
		return false, me.builtinCall(n, m, args)
	}

	ret, err := cilType(m.Return, n)
	if err != nil {
		return false, err
	}
	params, err := cilTypes(m.ParamTypes(), n)
	if err != nil {
		return false, err
	}
	leaves := !m.Return.IsVoid()
	delta := -len(args)
	if leaves {
		delta++
	}
	me.op(delta, "call %s %s::%s(%s)", ret, m.Owner(), m.Name, strings.Join(params, ","))
	return leaves, nil
}

// builtinCall picks the Console overload from the argument type.
func (me *methodEmitter) builtinCall(n *ast.Node, m *attrs.MethodAttributes, args []*ast.Node) error {
	overload := ""
	if len(args) == 1 {
		t, ok := attrs.TypeOf(args[0].NodeType)
		if !ok {
			return decorationError(args[0], "argument without a type")
		}
		ct, err := cilType(t, args[0])
		if err != nil {
			return err
		}
		overload = ct
	}
	me.op(-len(args), "call void [mscorlib]%s::%s(%s)", symbols.ConsoleClass, m.Name, overload)
	return nil
}
