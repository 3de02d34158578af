package sema

import (
	"errors"
	"fmt"

	"tccl/internal/ast"
	"tccl/internal/attrs"
	"tccl/internal/diag"
	"tccl/internal/symbols"
	"tccl/internal/types"
)

type bindingRole uint8

const (
	bindParameter bindingRole = iota
	bindLocal
	bindField
)

// visitClass: Modifiers, Identifier, ClassBody.
func (tc *typeChecker) visitClass(n *ast.Node, ctx scopeContext) {
	if ctx.class != nil || ctx.method != nil {
		tc.visitChildren(n, ctx)
		tc.fail(n, diag.SemaError, "nested class declarations are not supported")
		return
	}
	ident := childOf(n, ast.KindIdentifier)
	if ident == nil {
		tc.visitChildren(n, ctx)
		tc.fail(n, diag.SemaError, "class declaration without a name")
		return
	}
	cls := attrs.NewClass(ident.String())

	tc.visit(childOf(n, ast.KindModifiers), ctx)
	if err := tc.table.Enter(cls.Name, cls); err != nil {
		tc.failBinding(ident, err)
	} else {
		ident.Decorate(&attrs.VariableAttributes{})
	}
	n.Decorate(cls)

	ctx.class = cls
	tc.table.OpenScope()
	tc.visit(childOf(n, ast.KindClassBody), ctx)
	tc.table.CloseScope()
}

// visitMethod: Modifiers, return type, MethodSignature, MethodBody.
func (tc *typeChecker) visitMethod(n *ast.Node, ctx scopeContext) {
	sig := childOf(n, ast.KindMethodSignature)
	ident := childOf(sig, ast.KindIdentifier)
	if ident == nil {
		tc.visitChildren(n, ctx)
		tc.fail(n, diag.SemaError, "method declaration without a signature")
		return
	}
	nested := ctx.method != nil

	tc.table.OpenScope()
	defer tc.table.CloseScope()

	tc.visit(childOf(n, ast.KindModifiers), ctx)
	ret := tc.typeSpecifier(typeSpecOf(n), n, ctx)

	method := attrs.NewMethod(ident.String(), ctx.class, ret, nil)
	ctx.method = method
	// entered before the parameters: a parameter may not shadow its method
	tc.registerMethod(ident, method, ctx)
	// parameters append themselves to method.Params
	tc.visit(sig, ctx)

	if nested {
		tc.fail(n, diag.SemaError, "nested method declarations are not supported")
	} else {
		n.Decorate(method)
	}
	tc.visitBody(childOf(n, ast.KindMethodBody), method, ctx)
}

// visitBody checks the statements of a method body. A non-void body must
// not let control reach its end.
func (tc *typeChecker) visitBody(body *ast.Node, method *attrs.MethodAttributes, ctx scopeContext) {
	if body == nil {
		return
	}
	tc.visitChildren(body, ctx)
	if ret := method.Return; !ret.IsVoid() && !ret.IsError() && !alwaysReturns(body) {
		tc.fail(body, diag.SemaMissingReturn, fmt.Sprintf("Missing return at the end of %s %s", ret, method.Name))
		return
	}
	tc.decorateVoid(body)
}

// alwaysReturns reports whether every path through n ends in a return.
// Loops are not followed: their condition is not evaluated statically.
func alwaysReturns(n *ast.Node) bool {
	switch n.Kind {
	case ast.KindReturnStatement:
		return true
	case ast.KindMethodBody, ast.KindBlock:
		return len(n.Children) > 0 && alwaysReturns(n.Children[len(n.Children)-1])
	case ast.KindSelectionStatement:
		return len(n.Children) == 3 && alwaysReturns(n.Children[1]) && alwaysReturns(n.Children[2])
	default:
		return false
	}
}

// registerMethod places the method in the enclosing frame and in the class
// member table, then decorates its identifier.
func (tc *typeChecker) registerMethod(ident *ast.Node, method *attrs.MethodAttributes, ctx scopeContext) {
	if err := tc.table.EnterInParent(method.Name, method); err != nil {
		tc.failBinding(ident, err)
		return
	}
	if ctx.class != nil {
		if err := ctx.class.Enter(method.Name, method); err != nil {
			tc.failBinding(ident, err)
			return
		}
	}
	ident.Decorate(&attrs.VariableAttributes{})
}

// visitSignature: Identifier [, ParameterList]. The identifier is left to
// registerMethod.
func (tc *typeChecker) visitSignature(n *ast.Node, ctx scopeContext) {
	for _, child := range n.Children {
		if child.Kind != ast.KindIdentifier {
			tc.visit(child, ctx)
		}
	}
	tc.decorateVoid(n)
}

// visitParameter: type specifier, Identifier.
func (tc *typeChecker) visitParameter(n *ast.Node, ctx scopeContext) {
	t := tc.typeSpecifier(typeSpecOf(n), n, ctx)
	ident := childOf(n, ast.KindIdentifier)
	if ident == nil || ctx.method == nil {
		tc.decorateNames(ident)
		tc.fail(n, diag.SemaError, "malformed parameter")
		return
	}
	tc.bind(ident, t, bindParameter, ctx)
	n.Decorate(attrs.NewType(t))
}

// visitLocal: type specifier, NameList.
func (tc *typeChecker) visitLocal(n *ast.Node, ctx scopeContext) {
	t := tc.typeSpecifier(typeSpecOf(n), n, ctx)
	names := childOf(n, ast.KindNameList)
	if ctx.method == nil {
		tc.decorateNames(names)
		tc.fail(n, diag.SemaError, "local variable declared outside of a method")
		return
	}
	tc.bindNames(names, t, bindLocal, ctx)
	n.Decorate(attrs.NewType(t))
}

// visitField: Modifiers, type specifier, NameList.
func (tc *typeChecker) visitField(n *ast.Node, ctx scopeContext) {
	tc.visit(childOf(n, ast.KindModifiers), ctx)
	t := tc.typeSpecifier(typeSpecOf(n), n, ctx)
	names := childOf(n, ast.KindNameList)
	if ctx.class == nil || ctx.method != nil {
		tc.decorateNames(names)
		tc.fail(n, diag.SemaError, "field declared outside of a class body")
		return
	}
	tc.bindNames(names, t, bindField, ctx)
	n.Decorate(attrs.NewType(t))
}

func (tc *typeChecker) bindNames(list *ast.Node, t types.Type, role bindingRole, ctx scopeContext) {
	if list == nil {
		return
	}
	for _, ident := range list.Children {
		tc.bind(ident, t, role, ctx)
	}
	tc.decorateVoid(list)
}

// decorateNames marks an identifier, or every identifier of a NameList, as
// a plain binding without entering it.
func (tc *typeChecker) decorateNames(n *ast.Node) {
	if n == nil {
		return
	}
	if n.Kind == ast.KindIdentifier {
		n.Decorate(&attrs.VariableAttributes{})
		return
	}
	for _, ident := range n.Children {
		ident.Decorate(&attrs.VariableAttributes{})
	}
	tc.decorateVoid(n)
}

// bind is the binding occurrence of a parameter, local or field name. A name
// visible in any frame is a redeclaration.
func (tc *typeChecker) bind(ident *ast.Node, t types.Type, role bindingRole, ctx scopeContext) {
	name := ident.String()
	if t.IsVoid() {
		tc.fail(ident, diag.SemaTypeMismatch, fmt.Sprintf("Variable %s cannot have type void", name))
		return
	}
	if tc.table.Has(name) {
		tc.fail(ident, diag.SemaDuplicateDeclaration, "Redeclaration of "+name)
		return
	}
	decl := attrs.NewType(t)
	if err := tc.table.Enter(name, decl); err != nil {
		tc.failBinding(ident, err)
		return
	}
	switch role {
	case bindParameter:
		ctx.method.Params = append(ctx.method.Params, attrs.Declaration{Name: name, Type: t})
	case bindLocal:
		ctx.method.RegisterLocal(name, t)
	case bindField:
		if err := ctx.class.Enter(name, decl); err != nil {
			tc.failBinding(ident, err)
			return
		}
	}
	ident.Decorate(&attrs.VariableAttributes{})
}

// failBinding maps symbol table errors to diagnostics on ident.
func (tc *typeChecker) failBinding(ident *ast.Node, err error) {
	var dup *symbols.DuplicateDeclarationError
	var member *attrs.DuplicateMemberError
	switch {
	case errors.As(err, &dup):
		tc.fail(ident, diag.SemaDuplicateDeclaration, "Redeclaration of "+dup.Name)
	case errors.As(err, &member):
		tc.fail(ident, diag.SemaDuplicateDeclaration, "Redeclaration of "+member.Name)
	default:
		tc.fail(ident, diag.SemaSymbolTableFatal, fmt.Sprintf("symbol table: %v", err))
	}
}

// typeSpecifier decorates the type specifier spec of decl and returns the
// type it denotes.
func (tc *typeChecker) typeSpecifier(spec, decl *ast.Node, ctx scopeContext) types.Type {
	if spec == nil {
		tc.fail(nil, diag.SemaError, fmt.Sprintf("%s at %s has no type specifier", decl.Kind, decl.Span))
		return types.Error()
	}
	ctx.declaring = true
	tc.visit(spec, ctx)
	if spec.Kind == ast.KindPrimitiveType {
		return spec.Prim.Type()
	}
	return types.Qualified(spec.String())
}

// declareTypeName decorates a class-typed specifier. Class types are taken by
// name and not resolved.
func (tc *typeChecker) declareTypeName(n *ast.Node) {
	for _, seg := range n.Children {
		seg.Decorate(&attrs.VariableAttributes{})
	}
	n.Decorate(attrs.NewType(types.Qualified(n.String())))
}
