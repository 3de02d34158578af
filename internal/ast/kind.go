package ast

import (
	"fmt"

	"tccl/internal/types"
)

// Kind tags a node. Every pass switches over all kinds explicitly.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindCompilationUnit
	KindClassDeclaration
	KindClassBody
	KindMethodDeclaration
	KindMethodBody
	KindMethodSignature
	KindParameter
	KindParameterList
	KindLocalVariableDeclaration
	KindFieldDeclaration
	KindNameList
	KindSelectionStatement
	KindIterationStatement
	KindReturnStatement
	KindBlock
	KindMethodCall
	KindQualifiedName
	KindExpression
	KindIdentifier
	KindIntLiteral
	KindStringLiteral
	KindModifiers
	KindPrimitiveType

	kindCount
)

var kindNames = [...]string{
	KindInvalid:                  "Invalid",
	KindCompilationUnit:          "CompilationUnit",
	KindClassDeclaration:         "ClassDeclaration",
	KindClassBody:                "ClassBody",
	KindMethodDeclaration:        "MethodDeclaration",
	KindMethodBody:               "MethodBody",
	KindMethodSignature:          "MethodSignature",
	KindParameter:                "Parameter",
	KindParameterList:            "ParameterList",
	KindLocalVariableDeclaration: "LocalVariableDeclaration",
	KindFieldDeclaration:         "FieldDeclaration",
	KindNameList:                 "NameList",
	KindSelectionStatement:       "SelectionStatement",
	KindIterationStatement:       "IterationStatement",
	KindReturnStatement:          "ReturnStatement",
	KindBlock:                    "Block",
	KindMethodCall:               "MethodCall",
	KindQualifiedName:            "QualifiedName",
	KindExpression:               "Expression",
	KindIdentifier:               "Identifier",
	KindIntLiteral:               "IntLiteral",
	KindStringLiteral:            "StringLiteral",
	KindModifiers:                "Modifiers",
	KindPrimitiveType:            "PrimitiveType",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Kinds returns every valid node kind.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := KindInvalid + 1; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// ExprKind is the operator of an Expression node.
type ExprKind uint8

const (
	ExprAssign ExprKind = iota
	ExprLogicalOr
	ExprLogicalAnd
	ExprBitOr
	ExprBitXor
	ExprBitAnd
	ExprEq
	ExprNe
	ExprGt
	ExprLt
	ExprLe
	ExprGe
	ExprAdd
	ExprSub
	ExprMul
	ExprDiv
	ExprRem
	// ExprUnary and ExprPrimary exist in the grammar but are not operators.
	ExprUnary
	ExprPrimary

	exprKindCount
)

var exprNames = [...]string{
	ExprAssign:     "=",
	ExprLogicalOr:  "||",
	ExprLogicalAnd: "&&",
	ExprBitOr:      "|",
	ExprBitXor:     "^",
	ExprBitAnd:     "&",
	ExprEq:         "==",
	ExprNe:         "!=",
	ExprGt:         ">",
	ExprLt:         "<",
	ExprLe:         "<=",
	ExprGe:         ">=",
	ExprAdd:        "+",
	ExprSub:        "-",
	ExprMul:        "*",
	ExprDiv:        "/",
	ExprRem:        "%",
	ExprUnary:      "unary",
	ExprPrimary:    "primary",
}

func (k ExprKind) String() string {
	if k < exprKindCount {
		return exprNames[k]
	}
	return fmt.Sprintf("ExprKind(%d)", k)
}

// IsRelational reports the six comparison operators.
func (k ExprKind) IsRelational() bool {
	switch k {
	case ExprEq, ExprNe, ExprGt, ExprLt, ExprLe, ExprGe:
		return true
	}
	return false
}

// IsLogical reports && and ||.
func (k ExprKind) IsLogical() bool {
	return k == ExprLogicalAnd || k == ExprLogicalOr
}

// PrimitiveKind is the payload of a PrimitiveType node.
type PrimitiveKind uint8

const (
	PrimBoolean PrimitiveKind = iota
	PrimInt
	PrimVoid
	PrimString
)

func (p PrimitiveKind) String() string {
	switch p {
	case PrimBoolean:
		return "boolean"
	case PrimInt:
		return "int"
	case PrimVoid:
		return "void"
	case PrimString:
		return "string"
	default:
		return fmt.Sprintf("PrimitiveKind(%d)", p)
	}
}

// Modifier is one entry of a Modifiers node.
type Modifier uint8

const (
	ModPublic Modifier = iota
	ModStatic
	ModPrivate
)

func (m Modifier) String() string {
	switch m {
	case ModPublic:
		return "public"
	case ModStatic:
		return "static"
	case ModPrivate:
		return "private"
	default:
		return fmt.Sprintf("Modifier(%d)", m)
	}
}

// Type maps the primitive keyword to its descriptor.
func (p PrimitiveKind) Type() types.Type {
	switch p {
	case PrimBoolean:
		return types.Boolean()
	case PrimInt:
		return types.Integer()
	case PrimVoid:
		return types.Void()
	case PrimString:
		return types.String()
	default:
		return types.Error()
	}
}

// Family classifies a binary operator by its typing rule.
func (k ExprKind) Family() types.OperatorFamily {
	switch {
	case k == ExprAssign:
		return types.FamilyAssign
	case k.IsLogical():
		return types.FamilyLogical
	case k.IsRelational():
		return types.FamilyRelational
	case k >= ExprBitOr && k <= ExprBitAnd, k >= ExprAdd && k <= ExprRem:
		return types.FamilyArithmetic
	default:
		return types.FamilyNone
	}
}
