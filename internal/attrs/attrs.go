// Package attrs holds the decorations attached to AST nodes by semantic
// analysis and stored in the symbol table.
package attrs

import (
	"strings"

	"tccl/internal/diag"
	"tccl/internal/types"
)

// Attributes is implemented by every decoration variant.
// String returns the canonical form that equality is defined on.
type Attributes interface {
	String() string
	isAttributes()
}

// Equal reports whether a and b have the same canonical form.
// Two nil values are equal; nil never equals a non-nil decoration.
func Equal(a, b Attributes) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.String() == b.String()
}

// TypeOf extracts the type of a decoration when it denotes a value.
func TypeOf(a Attributes) (types.Type, bool) {
	if ta, ok := a.(*TypeAttributes); ok && ta != nil {
		return ta.Type, true
	}
	return types.Type{}, false
}

// IsError reports whether a is an error marker.
func IsError(a Attributes) bool {
	_, ok := a.(*ErrorAttributes)
	return ok
}

// VariableAttributes marks a binding occurrence of a name.
type VariableAttributes struct{}

func (*VariableAttributes) isAttributes() {}
func (*VariableAttributes) String() string {
	return "variable"
}

// TypeAttributes says that a node has the given type.
type TypeAttributes struct {
	Type types.Type
}

func NewType(t types.Type) *TypeAttributes {
	return &TypeAttributes{Type: t}
}

func (*TypeAttributes) isAttributes() {}
func (a *TypeAttributes) String() string {
	return a.Type.Canonical()
}

// ErrorAttributes is a semantic error marker.
// Cascade marks errors caused by an already reported error in an operand;
// they poison the node but are not reported again.
type ErrorAttributes struct {
	Code    diag.Code
	Message string
	Cascade bool
}

func NewError(code diag.Code, msg string) *ErrorAttributes {
	return &ErrorAttributes{Code: code, Message: msg}
}

// CascadeFrom builds a non-reported error that inherits the cause's code.
func CascadeFrom(cause *ErrorAttributes) *ErrorAttributes {
	return &ErrorAttributes{Code: cause.Code, Message: cause.Message, Cascade: true}
}

func (*ErrorAttributes) isAttributes() {}
func (a *ErrorAttributes) String() string {
	return a.Message
}

func (a *ErrorAttributes) Error() string {
	return a.Message
}

// joinTypes renders a list of types separated by sep.
func joinTypes(ts []types.Type, sep string) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.Canonical()
	}
	return strings.Join(parts, sep)
}
