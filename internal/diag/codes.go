package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Семантические
	SemaInfo                 Code = 3000
	SemaError                Code = 3001
	SemaUndeclaredVariable   Code = 3002
	SemaDuplicateDeclaration Code = 3003
	SemaTypeMismatch         Code = 3004
	SemaArityMismatch        Code = 3005
	SemaUnresolvedCallee     Code = 3006
	SemaUnsupportedName      Code = 3007
	SemaUnsupportedOperator  Code = 3008
	SemaSymbolTableFatal     Code = 3009
	SemaMissingReturn        Code = 3010

	// Ошибки I/O
	IOLoadFileError  Code = 4001
	IODecodeASTError Code = 4002
	IOWriteFileError Code = 4003
	IOOutputConflict Code = 4004

	// Code generation
	GenInfo                Code = 5000
	GenUnsupportedOperator Code = 5001
	GenUndecoratedNode     Code = 5002
	GenUnresolvedSlot      Code = 5003
	GenInvalidRoot         Code = 5004

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:              "Unknown error",
		SemaInfo:                 "Semantic information",
		SemaError:                "Semantic error",
		SemaUndeclaredVariable:   "Undeclared variable",
		SemaDuplicateDeclaration: "Duplicate declaration",
		SemaTypeMismatch:         "Type mismatch",
		SemaArityMismatch:        "Wrong number of arguments",
		SemaUnresolvedCallee:     "Unresolved callee",
		SemaUnsupportedName:      "Unsupported qualified name",
		SemaUnsupportedOperator:  "Unsupported operator",
		SemaSymbolTableFatal:     "Symbol table inconsistency",
		SemaMissingReturn:        "Missing return",
		IOLoadFileError:          "I/O load file error",
		IODecodeASTError:         "Malformed AST file",
		IOWriteFileError:         "I/O write file error",
		IOOutputConflict:         "Two inputs map to one listing",
		GenInfo:                  "Code generation information",
		GenUnsupportedOperator:   "Operator has no opcode",
		GenUndecoratedNode:       "Node was not decorated by semantic analysis",
		GenUnresolvedSlot:        "Variable has no local, argument or field slot",
		GenInvalidRoot:           "Tree root is not a compilation unit",
		ObsInfo:                  "Observability information",
		ObsTimings:               "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("GEN%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
