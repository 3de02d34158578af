package types

// OperatorFamily groups binary operators by their typing rule.
type OperatorFamily uint8

const (
	FamilyNone OperatorFamily = iota
	// FamilyLogical: bool x bool -> bool
	FamilyLogical
	// FamilyRelational: int32 x int32 -> bool
	FamilyRelational
	// FamilyArithmetic: int32 x int32 -> int32 (bitwise ops included)
	FamilyArithmetic
	// FamilyAssign: T x T -> T
	FamilyAssign
)

// OperandType returns the canonical operand type required by the family and
// whether the family constrains operands at all.
func (f OperatorFamily) OperandType() (Type, bool) {
	switch f {
	case FamilyLogical:
		return Boolean(), true
	case FamilyRelational, FamilyArithmetic:
		return Integer(), true
	default:
		return Type{}, false
	}
}

// Result computes the result type for operands of type operand.
func (f OperatorFamily) Result(operand Type) Type {
	switch f {
	case FamilyLogical, FamilyRelational:
		return Boolean()
	case FamilyArithmetic, FamilyAssign:
		return operand
	default:
		return Error()
	}
}
