package cil

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"tccl/internal/ast"
	"tccl/internal/attrs"
	"tccl/internal/types"
)

type slotKind uint8

const (
	slotLocal slotKind = iota
	slotArg
	slotField
)

// slot is where a variable lives.
type slot struct {
	kind  slotKind
	index int
	field string // "int32 Prog::total"
}

// resolve maps a QualifiedName use to a local, argument or static field.
// Locals cannot shadow parameters or fields, so the order does not matter.
func (me *methodEmitter) resolve(n *ast.Node) (slot, error) {
	segs := n.Segments()
	t, ok := attrs.TypeOf(n.NodeType)
	if !ok {
		return slot{}, &UnresolvedSlotError{Name: n.String(), Span: n.Span}
	}
	switch len(segs) {
	case 1:
		if idx := me.method.Location(segs[0]); idx >= 0 {
			return slot{kind: slotLocal, index: idx}, nil
		}
		if idx := me.method.Param(segs[0]); idx >= 0 {
			return slot{kind: slotArg, index: idx}, nil
		}
		if cls := me.emitter.class; cls != nil && cls.Has(segs[0]) {
			return me.fieldSlot(n, t, cls.Name, segs[0])
		}
	case 2:
		return me.fieldSlot(n, t, segs[0], segs[1])
	}
	return slot{}, &UnresolvedSlotError{Name: n.String(), Span: n.Span}
}

func (me *methodEmitter) fieldSlot(n *ast.Node, t types.Type, class, name string) (slot, error) {
	ct, err := cilType(t, n)
	if err != nil {
		return slot{}, err
	}
	return slot{kind: slotField, field: fmt.Sprintf("%s %s::%s", ct, class, name)}, nil
}

func (me *methodEmitter) load(n *ast.Node) error {
	s, err := me.resolve(n)
	if err != nil {
		return err
	}
	switch s.kind {
	case slotLocal:
		return me.indexed(+1, "ldloc", s.index, true)
	case slotArg:
		return me.indexed(+1, "ldarg", s.index, true)
	default:
		me.op(+1, "ldsfld %s", s.field)
		return nil
	}
}

func (me *methodEmitter) store(n *ast.Node) error {
	s, err := me.resolve(n)
	if err != nil {
		return err
	}
	switch s.kind {
	case slotLocal:
		return me.indexed(-1, "stloc", s.index, true)
	case slotArg:
		// there is no starg.N form
		return me.indexed(-1, "starg", s.index, false)
	default:
		me.op(-1, "stsfld %s", s.field)
		return nil
	}
}

// indexed picks the compact encoding: "<op>.N" for slots 0-3 (when the
// opcode has one), "<op>.s N" up to 127, "<op> N" otherwise.
func (me *methodEmitter) indexed(delta int, opcode string, idx int, digitForm bool) error {
	switch {
	case digitForm && idx >= 0 && idx <= 3:
		me.op(delta, "%s.%d", opcode, idx)
	case idx >= 0 && idx <= 127:
		me.op(delta, "%s.s %d", opcode, idx)
	default:
		wide, err := safecast.Conv[uint16](idx)
		if err != nil {
			return fmt.Errorf("cil: %s slot %d out of range: %w", opcode, idx, err)
		}
		me.op(delta, "%s %d", opcode, wide)
	}
	return nil
}

// ldcI4 uses the short form for -128 < v < 128.
func (me *methodEmitter) ldcI4(v int32) {
	if v > -128 && v < 128 {
		me.op(+1, "ldc.i4.s %d", v)
		return
	}
	me.op(+1, "ldc.i4 %d", v)
}

func (me *methodEmitter) ldstr(s string) {
	me.op(+1, "ldstr %s", quote(s))
}

// quote renders an ilasm string literal.
func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
