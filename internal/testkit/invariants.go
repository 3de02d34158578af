package testkit

import (
	"fmt"

	"tccl/internal/ast"
	"tccl/internal/attrs"
)

// CheckDecorationInvariants verifies a checked tree:
// 1) every node carries a decoration
// 2) no decoration is an error marker
// 3) every value-producing node (literal, expression, call) is typed
func CheckDecorationInvariants(root *ast.Node) error {
	if root == nil {
		return fmt.Errorf("nil root")
	}
	var err error
	ast.Walk(root, func(n *ast.Node) bool {
		if err != nil {
			return false
		}
		if !n.Decorated() {
			err = fmt.Errorf("%s at %s is not decorated", n.Kind, n.Span)
			return false
		}
		if e, ok := n.NodeType.(*attrs.ErrorAttributes); ok {
			err = fmt.Errorf("%s at %s carries error %q", n.Kind, n.Span, e.Message)
			return false
		}
		switch n.Kind {
		case ast.KindIntLiteral, ast.KindStringLiteral, ast.KindExpression, ast.KindMethodCall:
			if _, ok := attrs.TypeOf(n.NodeType); !ok {
				err = fmt.Errorf("%s at %s decorated with %T, want a type", n.Kind, n.Span, n.NodeType)
				return false
			}
		}
		return true
	})
	return err
}

// FindAll collects nodes of kind k in pre-order.
func FindAll(root *ast.Node, k ast.Kind) []*ast.Node {
	var out []*ast.Node
	ast.Walk(root, func(n *ast.Node) bool {
		if n.Kind == k {
			out = append(out, n)
		}
		return true
	})
	return out
}

// ErrorMessages lists the messages of every error decoration, cascades
// included, in pre-order.
func ErrorMessages(root *ast.Node) []string {
	var out []string
	ast.Walk(root, func(n *ast.Node) bool {
		if e, ok := n.NodeType.(*attrs.ErrorAttributes); ok {
			out = append(out, e.Message)
		}
		return true
	})
	return out
}
