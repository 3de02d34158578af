package types

import "fmt"

// Kind enumerates source-level type kinds.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindString
	KindBool
	KindVoid
	KindQualified
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindVoid:
		return "void"
	case KindQualified:
		return "qualified"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a value descriptor of a source-level type. Two descriptors are the
// same type iff their canonical forms are equal.
type Type struct {
	Kind Kind
	Name string // only for KindQualified
}

// Descriptor helpers ---------------------------------------------------------

func Integer() Type { return Type{Kind: KindInt} }
func String() Type  { return Type{Kind: KindString} }
func Boolean() Type { return Type{Kind: KindBool} }
func Void() Type    { return Type{Kind: KindVoid} }
func Error() Type   { return Type{Kind: KindError} }

// Qualified describes a user class type referenced by name.
func Qualified(name string) Type {
	return Type{Kind: KindQualified, Name: name}
}

// Canonical returns the textual form used for identification.
// These strings double as CIL type keywords.
func (t Type) Canonical() string {
	switch t.Kind {
	case KindInt:
		return "int32"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindVoid:
		return "void"
	case KindQualified:
		return t.Name
	case KindError:
		return "<error>"
	default:
		return "<invalid>"
	}
}

func (t Type) String() string {
	return t.Canonical()
}

// Equal compares canonical forms.
func (t Type) Equal(other Type) bool {
	return t.Canonical() == other.Canonical()
}

func (t Type) IsInteger() bool { return t.Kind == KindInt }
func (t Type) IsBoolean() bool { return t.Kind == KindBool }
func (t Type) IsVoid() bool    { return t.Kind == KindVoid }
func (t Type) IsError() bool   { return t.Kind == KindError || t.Kind == KindInvalid }
