// Package capture collects the enclosing scope available to an
// inline-task callback and walks the callback to find which of those
// outer identifiers it actually references, deciding what it must
// capture.
package capture

import (
	"github.com/microsoft/typescript-go/shim/ast"
	"github.com/microsoft/typescript-go/shim/scanner"
)

// Parameters returns the parameter list of a function-like node (function
// declaration, function expression, or arrow function). Returns nil for
// any other kind.
func Parameters(fn *ast.Node) []*ast.Node {
	var list *ast.NodeList
	switch fn.Kind {
	case ast.KindFunctionDeclaration:
		list = fn.AsFunctionDeclaration().Parameters
	case ast.KindFunctionExpression:
		list = fn.AsFunctionExpression().Parameters
	case ast.KindArrowFunction:
		list = fn.AsArrowFunction().Parameters
	default:
		return nil
	}
	if list == nil {
		return nil
	}
	return list.Nodes
}

// Body returns the body node of a function-like node: a Block for a
// block body, or the single expression for an arrow function's
// expression body.
func Body(fn *ast.Node) *ast.Node {
	switch fn.Kind {
	case ast.KindFunctionDeclaration:
		return fn.AsFunctionDeclaration().Body
	case ast.KindFunctionExpression:
		return fn.AsFunctionExpression().Body
	case ast.KindArrowFunction:
		return fn.AsArrowFunction().Body
	default:
		return nil
	}
}

// startPos returns node's start position with leading trivia (whitespace
// and comments) excluded.
func startPos(sf *ast.SourceFile, node *ast.Node) int {
	return scanner.GetTokenPosOfNode(node, sf, false)
}

// Enclosing collects the names potentially capturable from inside a
// callback invoked at source position pos within fn: every parameter of
// fn (flattened through binding patterns), plus every name introduced by
// a top-level variable statement or function declaration in fn's block
// body whose start position precedes pos.
//
// Collection is not transitive: names from functions enclosing fn are
// not included, only fn's own parameters and top-level declarations.
func Enclosing(sf *ast.SourceFile, fn *ast.Node, pos int) map[string]bool {
	names := make(map[string]bool)

	for _, param := range Parameters(fn) {
		pd := param.AsParameterDeclaration()
		if pd == nil {
			continue
		}
		flattenBindingNames(pd.Name(), names)
	}

	body := Body(fn)
	if body == nil || body.Kind != ast.KindBlock {
		return names
	}

	block := body.AsBlock()
	if block == nil || block.Statements == nil {
		return names
	}

	for _, stmt := range block.Statements.Nodes {
		if startPos(sf, stmt) >= pos {
			continue
		}
		switch stmt.Kind {
		case ast.KindVariableStatement:
			collectVariableStatementNames(stmt, names)
		case ast.KindFunctionDeclaration:
			if name := stmt.AsFunctionDeclaration().Name(); name != nil {
				names[name.Text()] = true
			}
		}
	}

	return names
}

func collectVariableStatementNames(stmt *ast.Node, names map[string]bool) {
	vs := stmt.AsVariableStatement()
	if vs == nil || vs.DeclarationList == nil {
		return
	}
	declList := vs.DeclarationList.AsVariableDeclarationList()
	if declList == nil || declList.Declarations == nil {
		return
	}
	for _, decl := range declList.Declarations.Nodes {
		vd := decl.AsVariableDeclaration()
		if vd == nil {
			continue
		}
		flattenBindingNames(vd.Name(), names)
	}
}

// flattenBindingNames walks a binding name position — a plain
// identifier, or an object/array binding pattern — and records every
// bound identifier name into names.
func flattenBindingNames(nameNode *ast.Node, names map[string]bool) {
	if nameNode == nil {
		return
	}
	switch nameNode.Kind {
	case ast.KindIdentifier:
		names[nameNode.Text()] = true

	case ast.KindObjectBindingPattern, ast.KindArrayBindingPattern:
		pattern := nameNode.AsBindingPattern()
		if pattern == nil || pattern.Elements == nil {
			return
		}
		for _, el := range pattern.Elements.Nodes {
			if el.Kind != ast.KindBindingElement {
				continue // omitted array elements (`[, b]`) have no name
			}
			be := el.AsBindingElement()
			if be == nil {
				continue
			}
			flattenBindingNames(be.Name(), names)
		}
	}
}
