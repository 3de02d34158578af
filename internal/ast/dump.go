package ast

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Dump prints the tree one node per line with its decoration in a right-hand
// column.
func Dump(w io.Writer, root *Node) error {
	type row struct {
		label string
		deco  string
	}
	var rows []row
	var collect func(n *Node, depth int)
	collect = func(n *Node, depth int) {
		label := strings.Repeat("  ", depth) + n.Kind.String()
		if payload := payloadOf(n); payload != "" {
			label += " " + payload
		}
		deco := "-"
		if n.NodeType != nil {
			deco = fmt.Sprintf("%T %s", n.NodeType, n.NodeType)
			deco = strings.TrimPrefix(deco, "*attrs.")
		}
		rows = append(rows, row{label: label, deco: deco})
		for _, c := range n.Children {
			collect(c, depth+1)
		}
	}
	if root == nil {
		return nil
	}
	collect(root, 0)

	width := 0
	for _, r := range rows {
		width = max(width, runewidth.StringWidth(r.label))
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%s  %s\n", runewidth.FillRight(r.label, width), r.deco); err != nil {
			return err
		}
	}
	return nil
}

func payloadOf(n *Node) string {
	switch n.Kind {
	case KindIdentifier:
		return n.Name
	case KindIntLiteral:
		return fmt.Sprintf("%d", n.IntVal)
	case KindStringLiteral:
		return fmt.Sprintf("%q", n.StrVal)
	case KindExpression:
		return n.Op.String()
	case KindPrimitiveType:
		return n.Prim.String()
	case KindModifiers:
		parts := make([]string, len(n.Mods))
		for i, m := range n.Mods {
			parts[i] = m.String()
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}
