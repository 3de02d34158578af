package fuzztests

import (
	"testing"

	"tccl/internal/ast"
	. "tccl/internal/testkit"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

// seedPrograms covers every node kind, both clean and ill-typed.
func seedPrograms() []*ast.Node {
	return []*ast.Node{
		Countdown(3),
		Program(
			Field(Int(), "total"),
			Method(Int(), "add", []*ast.Node{Param(Int(), "a"), Param(Int(), "b")},
				Return(Bin(ast.ExprAdd, Name("a"), Name("b"))),
			),
			Main(
				Local(Bool(), "ok"),
				Assign(Name("ok"), Bin(ast.ExprLogicalAnd, Bin(ast.ExprLt, Lit(1), Lit(2)), Bin(ast.ExprNe, Lit(3), Lit(4)))),
				If(Name("ok"), Block(Call("WriteLine", Str("yes\n"))), Call("Write", Lit(200))),
				Assign(Name("total"), Call("add", Neg(Lit(5)), Lit(127))),
			),
		),
		Program(Main(Call("Missing", Lit(1)))),
		Program(Main(Local(Int(), "x"), Assign(Name("x"), Bin(ast.ExprLogicalAnd, Lit(1), Name("x"))))),
		Program(Main(While(Lit(1), Block()))),
		Program(Method(Void(), "f", nil, Return(Lit(1))), Main(Call("f"))),
	}
}

func addCorpusSeeds(f *testing.F) {
	for _, root := range seedPrograms() {
		data, err := ast.Marshal(root)
		if err != nil {
			f.Fatalf("encode seed: %v", err)
		}
		f.Add(clampSeed(data))
	}
	f.Add([]byte{})
	f.Add([]byte{0x82, 0xa6, 's', 'c', 'h', 'e', 'm', 'a', 0x01})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
