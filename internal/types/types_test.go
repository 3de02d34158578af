package types

import "testing"

func TestCanonicalForms(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{Integer(), "int32"},
		{String(), "string"},
		{Boolean(), "bool"},
		{Void(), "void"},
		{Qualified("Point"), "Point"},
		{Error(), "<error>"},
		{Type{}, "<invalid>"},
	}
	for _, tt := range tests {
		if got := tt.typ.Canonical(); got != tt.want {
			t.Fatalf("%v.Canonical() = %q, want %q", tt.typ.Kind, got, tt.want)
		}
	}
}

func TestEqualityIsCanonical(t *testing.T) {
	if !Integer().Equal(Type{Kind: KindInt}) {
		t.Fatalf("independently built int32 descriptors must be equal")
	}
	if Integer().Equal(Boolean()) {
		t.Fatalf("int32 must not equal bool")
	}
	if !Qualified("A").Equal(Qualified("A")) || Qualified("A").Equal(Qualified("B")) {
		t.Fatalf("qualified equality must follow the name")
	}
	// a class literally named int32 shares the primitive canonical form
	if !Qualified("int32").Equal(Integer()) {
		t.Fatalf("canonical collision expected")
	}
}

func TestOperatorFamilies(t *testing.T) {
	if op, ok := FamilyLogical.OperandType(); !ok || !op.Equal(Boolean()) {
		t.Fatalf("logical operands must be bool")
	}
	if op, ok := FamilyRelational.OperandType(); !ok || !op.Equal(Integer()) {
		t.Fatalf("relational operands must be int32")
	}
	if _, ok := FamilyAssign.OperandType(); ok {
		t.Fatalf("assignment must not constrain operand type")
	}
	if got := FamilyRelational.Result(Integer()); !got.Equal(Boolean()) {
		t.Fatalf("relational result = %v", got)
	}
	if got := FamilyAssign.Result(String()); !got.Equal(String()) {
		t.Fatalf("assign result = %v", got)
	}
}
