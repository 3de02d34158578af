package cil

import "tccl/internal/ast"

// statement lowers one method-level node; values left by expression
// statements are popped.
func (me *methodEmitter) statement(n *ast.Node) error {
	switch n.Kind {
	case ast.KindMethodBody, ast.KindBlock:
		for _, child := range n.Children {
			if err := me.statement(child); err != nil {
				return err
			}
		}
		return nil
	case ast.KindLocalVariableDeclaration:
		// slots are declared by .locals init
		return nil
	case ast.KindSelectionStatement:
		return me.selection(n)
	case ast.KindIterationStatement:
		return me.iteration(n)
	case ast.KindReturnStatement:
		return me.returnStmt(n)
	case ast.KindMethodCall:
		leaves, err := me.call(n)
		if err != nil {
			return err
		}
		if leaves {
			me.op(-1, "pop")
		}
		return nil
	case ast.KindExpression:
		if n.Op == ast.ExprAssign && len(n.Children) == 2 {
			return me.assign(n, false)
		}
		if err := me.expression(n); err != nil {
			return err
		}
		me.op(-1, "pop")
		return nil
	case ast.KindQualifiedName, ast.KindIntLiteral, ast.KindStringLiteral:
		if err := me.value(n); err != nil {
			return err
		}
		me.op(-1, "pop")
		return nil
	case ast.KindCompilationUnit, ast.KindClassDeclaration, ast.KindClassBody, ast.KindMethodDeclaration,
		ast.KindMethodSignature, ast.KindParameter, ast.KindParameterList, ast.KindFieldDeclaration,
		ast.KindNameList, ast.KindIdentifier, ast.KindModifiers, ast.KindPrimitiveType:
		return decorationError(n, "not a statement")
	case ast.KindInvalid:
		return decorationError(n, "invalid node")
	default:
		return decorationError(n, "unhandled node kind")
	}
}

// value lowers a node that must leave exactly one value.
func (me *methodEmitter) value(n *ast.Node) error {
	if n == nil {
		return decorationError(nil, "missing operand")
	}
	switch n.Kind {
	case ast.KindIntLiteral:
		me.ldcI4(n.IntVal)
		return nil
	case ast.KindStringLiteral:
		me.ldstr(n.StrVal)
		return nil
	case ast.KindQualifiedName:
		return me.load(n)
	case ast.KindExpression:
		return me.expression(n)
	case ast.KindMethodCall:
		leaves, err := me.call(n)
		if err != nil {
			return err
		}
		if !leaves {
			return decorationError(n, "void call used as a value")
		}
		return nil
	default:
		return decorationError(n, "not an expression")
	}
}

// selection: cond; brfalse false; then [; br end; false: else; end:]
func (me *methodEmitter) selection(n *ast.Node) error {
	if err := me.value(n.Child(0)); err != nil {
		return err
	}
	falseLabel := me.emitter.newLabel("false")
	me.branch("brfalse", falseLabel)
	if then := n.Child(1); then != nil {
		if err := me.statement(then); err != nil {
			return err
		}
	}
	els := n.Child(2)
	if els == nil {
		me.mark(falseLabel)
		return nil
	}
	end := me.emitter.newLabel("end")
	me.branch("br", end)
	me.mark(falseLabel)
	if err := me.statement(els); err != nil {
		return err
	}
	me.mark(end)
	return nil
}

// iteration: start: cond; brfalse end; body; br start; end:
func (me *methodEmitter) iteration(n *ast.Node) error {
	start := me.emitter.newLabel("start")
	me.mark(start)
	if err := me.value(n.Child(0)); err != nil {
		return err
	}
	end := me.emitter.newLabel("end")
	me.branch("brfalse", end)
	if body := n.Child(1); body != nil {
		if err := me.statement(body); err != nil {
			return err
		}
	}
	me.branch("br", start)
	me.mark(end)
	return nil
}

func (me *methodEmitter) returnStmt(n *ast.Node) error {
	expr := n.Child(0)
	if expr == nil {
		me.ret(false)
		return nil
	}
	if err := me.value(expr); err != nil {
		return err
	}
	me.ret(true)
	return nil
}
