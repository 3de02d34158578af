package cil

import (
	"tccl/internal/ast"
	"tccl/internal/types"
)

// cilType renders a descriptor as a CIL type keyword.
func cilType(t types.Type, at *ast.Node) (string, error) {
	switch t.Kind {
	case types.KindInt, types.KindBool, types.KindString, types.KindVoid:
		return t.Canonical(), nil
	case types.KindQualified:
		return "class " + t.Name, nil
	default:
		return "", decorationError(at, "type "+t.Canonical()+" has no CIL form")
	}
}

func cilTypes(ts []types.Type, at *ast.Node) ([]string, error) {
	out := make([]string, len(ts))
	for i, t := range ts {
		s, err := cilType(t, at)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}
