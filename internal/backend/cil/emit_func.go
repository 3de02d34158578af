package cil

import (
	"fmt"
	"strings"

	"tccl/internal/ast"
	"tccl/internal/attrs"
)

// methodEmitter buffers one method body so the header can carry the
// computed .maxstack.
type methodEmitter struct {
	emitter *Emitter
	method  *attrs.MethodAttributes
	lines   []string
	depth   int
	max     int
	// labelDepth is the operand depth recorded by the first branch to a label.
	labelDepth map[string]int
}

func (e *Emitter) emitMethod(n *ast.Node) error {
	m, ok := n.NodeType.(*attrs.MethodAttributes)
	if !ok {
		return decorationError(n, fmt.Sprintf("method decorated with %T", n.NodeType))
	}
	if m.Owner() == "" {
		return decorationError(n, "method "+m.Name+" has no owning class")
	}
	me := &methodEmitter{
		emitter:    e,
		method:     m,
		labelDepth: make(map[string]int),
	}
	for _, child := range n.Children {
		if child.Kind != ast.KindMethodBody {
			continue
		}
		if err := me.statement(child); err != nil {
			return err
		}
	}
	me.ret(false)

	ret, err := cilType(m.Return, n)
	if err != nil {
		return err
	}
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		pt, err := cilType(p.Type, n)
		if err != nil {
			return err
		}
		params[i] = pt + " " + p.Name
	}
	locals := make([]string, len(m.Locals()))
	for i, l := range m.Locals() {
		lt, err := cilType(l.Type, n)
		if err != nil {
			return err
		}
		locals[i] = fmt.Sprintf("[%d] %s %s", i, lt, l.Name)
	}

	b := &e.buf
	if e.members > 0 {
		b.WriteByte('\n')
	}
	e.members++
	fmt.Fprintf(b, "  .method %s static %s %s(%s) cil managed\n  {\n", accessOf(n), ret, m.Name, strings.Join(params, ", "))
	if m.Name == "main" && !e.entry {
		e.entry = true
		b.WriteString("    .entrypoint\n")
	}
	fmt.Fprintf(b, "    .maxstack %d\n", me.maxStack())
	if len(locals) > 0 {
		fmt.Fprintf(b, "    .locals init (%s)\n", strings.Join(locals, ", "))
	}
	for _, line := range me.lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString("  }\n")
	return nil
}

func (me *methodEmitter) maxStack() int {
	if me.emitter.opts.MaxStack > 0 {
		return me.emitter.opts.MaxStack
	}
	return me.max
}

// op appends an instruction with its operand stack effect.
func (me *methodEmitter) op(delta int, format string, args ...any) {
	me.lines = append(me.lines, "    "+fmt.Sprintf(format, args...))
	me.depth += delta
	if me.depth < 0 {
		me.depth = 0
	}
	if me.depth > me.max {
		me.max = me.depth
	}
}

// branch emits brfalse/brtrue (pop one) or br (unconditional) to label.
func (me *methodEmitter) branch(opcode, label string) {
	delta := 0
	if opcode != "br" {
		delta = -1
	}
	me.op(delta, "%s %s", opcode, label)
	if _, seen := me.labelDepth[label]; !seen {
		me.labelDepth[label] = me.depth
	}
}

// mark places label; code after an unconditional jump resumes at the depth
// recorded for it.
func (me *methodEmitter) mark(label string) {
	me.lines = append(me.lines, "  "+label+":")
	if d, ok := me.labelDepth[label]; ok {
		me.depth = d
	}
}

func (me *methodEmitter) ret(value bool) {
	if value {
		me.op(-1, "ret")
	} else {
		me.op(0, "ret")
	}
	me.depth = 0
}
