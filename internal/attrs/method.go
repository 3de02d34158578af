package attrs

import (
	"strings"

	"tccl/internal/types"
)

// Declaration is a named slot of a method: a parameter or a local.
type Declaration struct {
	Name string
	Type types.Type
}

// MethodAttributes describes a callable signature and the locals declared in
// its body. Slot numbers follow first appearance.
type MethodAttributes struct {
	Name   string
	Class  *ClassAttributes
	Return types.Type
	Params []Declaration

	locals []Declaration
}

func NewMethod(name string, class *ClassAttributes, ret types.Type, params []Declaration) *MethodAttributes {
	return &MethodAttributes{
		Name:   name,
		Class:  class,
		Return: ret,
		Params: params,
	}
}

func (*MethodAttributes) isAttributes() {}

// String renders the signature as "int32 -> bool -> void" or "() -> void".
func (m *MethodAttributes) String() string {
	var sb strings.Builder
	if len(m.Params) == 0 {
		sb.WriteString("() -> ")
	} else {
		for _, p := range m.Params {
			sb.WriteString(p.Type.Canonical())
			sb.WriteString(" -> ")
		}
	}
	sb.WriteString(m.Return.Canonical())
	return sb.String()
}

// ParamTypes returns parameter types in declaration order.
func (m *MethodAttributes) ParamTypes() []types.Type {
	out := make([]types.Type, len(m.Params))
	for i, p := range m.Params {
		out[i] = p.Type
	}
	return out
}

// ParamList renders comma-joined parameter types, e.g. "int32,bool".
func (m *MethodAttributes) ParamList() string {
	return joinTypes(m.ParamTypes(), ",")
}

// RegisterLocal records a local variable. Re-registering a name keeps the
// original slot.
func (m *MethodAttributes) RegisterLocal(name string, t types.Type) {
	for _, local := range m.locals {
		if local.Name == name {
			return
		}
	}
	m.locals = append(m.locals, Declaration{Name: name, Type: t})
}

// Locals returns the registered locals in slot order.
func (m *MethodAttributes) Locals() []Declaration {
	return m.locals
}

// Location returns the local slot of name, or -1.
func (m *MethodAttributes) Location(name string) int {
	for i, local := range m.locals {
		if local.Name == name {
			return i
		}
	}
	return -1
}

// Param returns the argument slot of name, or -1.
func (m *MethodAttributes) Param(name string) int {
	for i, p := range m.Params {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Owner returns the owning class name, or "" for free routines.
func (m *MethodAttributes) Owner() string {
	if m.Class == nil {
		return ""
	}
	return m.Class.Name
}
