package ast

import (
	"fmt"
	"strings"

	"tccl/internal/attrs"
	"tccl/internal/source"
)

// Node is one vertex of the owned syntax tree. Children are owned; the tree
// has no parent or sibling links.
//
// Payload fields are meaningful only for the kinds noted next to them.
type Node struct {
	Kind     Kind          `msgpack:"k"`
	Children []*Node       `msgpack:"c,omitempty"`
	Span     source.Span   `msgpack:"s"`
	Name     string        `msgpack:"n,omitempty"` // Identifier
	IntVal   int32         `msgpack:"i,omitempty"` // IntLiteral
	StrVal   string        `msgpack:"v,omitempty"` // StringLiteral
	Op       ExprKind      `msgpack:"o,omitempty"` // Expression
	Mods     []Modifier    `msgpack:"m,omitempty"` // Modifiers
	Prim     PrimitiveKind `msgpack:"p,omitempty"` // PrimitiveType

	// NodeType is the decoration written by semantic analysis.
	NodeType attrs.Attributes `msgpack:"-"`
}

// Child returns the i-th child or nil.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Decorate assigns the node's decoration. A node is decorated exactly once;
// a second assignment is a compiler bug and panics.
func (n *Node) Decorate(a attrs.Attributes) {
	if a == nil {
		panic(fmt.Errorf("ast: nil decoration for %s", n.Kind))
	}
	if n.NodeType != nil {
		panic(fmt.Errorf("ast: %s at %s decorated twice (%q, then %q)", n.Kind, n.Span, n.NodeType, a))
	}
	n.NodeType = a
}

// Decorated reports whether semantic analysis has visited the node.
func (n *Node) Decorated() bool {
	return n != nil && n.NodeType != nil
}

// ResetDecorations clears every decoration in the tree rooted at n.
func ResetDecorations(n *Node) {
	Walk(n, func(x *Node) bool {
		x.NodeType = nil
		return true
	})
}

// String gives the source text form for leaf-like nodes and the kind
// otherwise.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch n.Kind {
	case KindIdentifier:
		return n.Name
	case KindQualifiedName:
		return strings.Join(n.Segments(), ".")
	case KindIntLiteral:
		return fmt.Sprintf("%d", n.IntVal)
	case KindStringLiteral:
		return n.StrVal
	case KindExpression:
		return n.Op.String()
	case KindPrimitiveType:
		return n.Prim.String()
	default:
		return n.Kind.String()
	}
}

// Segments returns the identifiers of a QualifiedName.
func (n *Node) Segments() []string {
	if n == nil || n.Kind != KindQualifiedName {
		return nil
	}
	out := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		out = append(out, c.Name)
	}
	return out
}

// HasModifier reports whether a Modifiers node lists m.
func (n *Node) HasModifier(m Modifier) bool {
	if n == nil || n.Kind != KindModifiers {
		return false
	}
	for _, x := range n.Mods {
		if x == m {
			return true
		}
	}
	return false
}
