// Package classify decides whether an identifier occurrence is a value
// reference eligible for capture rewriting, as opposed to a declaration
// name, property name, label, import/export specifier, or type-position
// identifier.
package classify

import "github.com/microsoft/typescript-go/shim/ast"

// IsValueReference reports whether node reads the binding of an
// identifier at run time. It returns false for every non-reference
// position handled below; every other identifier occurrence is a value
// reference.
//
// Mis-classification is not a theoretical concern: treating a shorthand
// object-literal key as a value reference would rewrite `{ name }` into
// the syntactically invalid `{ __scope.name }`, and treating a type-only
// identifier as a value reference would capture a name that does not
// exist at runtime.
func IsValueReference(node *ast.Node) bool {
	if node == nil || node.Kind != ast.KindIdentifier {
		return false
	}

	parent := node.Parent
	if parent == nil {
		return true
	}

	switch parent.Kind {
	case ast.KindPropertyAccessExpression:
		// `a.b` — only `a` is a value reference; `b` names a property.
		if pa := parent.AsPropertyAccessExpression(); pa != nil && pa.Name() == node {
			return false
		}

	case ast.KindElementAccessExpression:
		// `a[b]` — `b` is a value reference (a dynamic key); nothing to
		// exclude here, but listed for clarity against PropertyAccess.

	case ast.KindShorthandPropertyAssignment:
		// `{ name }` binds the object-literal key `name` from the outer
		// identifier `name`. The occurrence is the declared property key,
		// not something the rewriter can safely qualify with the scope
		// parameter without producing invalid shorthand syntax.
		return false

	case ast.KindPropertyAssignment:
		if pa := parent.AsPropertyAssignment(); pa != nil && pa.Name() == node {
			return false
		}

	case ast.KindObjectBindingPattern, ast.KindBindingElement:
		if be := parent.AsBindingElement(); be != nil {
			if be.PropertyName == node {
				return false // `{ a: b }` destructuring key
			}
			if be.Name() == node {
				return false // the bound variable name itself
			}
		}

	case ast.KindPropertyDeclaration, ast.KindPropertySignature, ast.KindMethodDeclaration, ast.KindMethodSignature,
		ast.KindGetAccessor, ast.KindSetAccessor:
		if nameOf(parent) == node {
			return false
		}

	case ast.KindVariableDeclaration, ast.KindParameter,
		ast.KindFunctionDeclaration, ast.KindFunctionExpression, ast.KindArrowFunction,
		ast.KindClassDeclaration, ast.KindClassExpression,
		ast.KindEnumDeclaration, ast.KindInterfaceDeclaration, ast.KindTypeAliasDeclaration,
		ast.KindEnumMember:
		if nameOf(parent) == node {
			return false
		}

	case ast.KindImportSpecifier, ast.KindExportSpecifier, ast.KindNamespaceImport, ast.KindNamespaceExport,
		ast.KindImportClause, ast.KindImportEqualsDeclaration:
		return false

	case ast.KindBreakStatement, ast.KindContinueStatement:
		return false

	case ast.KindLabeledStatement:
		if ls := parent.AsLabeledStatement(); ls != nil && ls.Label == node {
			return false
		}
	}

	if isTypePosition(parent) {
		return false
	}

	return true
}

// nameOf returns the Name() of parent for the subset of declaration-like
// node kinds the switch above dispatches on. Kinds not covered here
// return nil, which IsValueReference's `== node` comparisons safely treat
// as "not the declared name".
func nameOf(parent *ast.Node) *ast.Node {
	switch parent.Kind {
	case ast.KindVariableDeclaration:
		return parent.AsVariableDeclaration().Name()
	case ast.KindParameter:
		return parent.AsParameterDeclaration().Name()
	case ast.KindFunctionDeclaration:
		return parent.AsFunctionDeclaration().Name()
	case ast.KindFunctionExpression:
		return parent.AsFunctionExpression().Name()
	case ast.KindArrowFunction:
		return nil // arrow functions are always anonymous
	case ast.KindClassDeclaration:
		return parent.AsClassDeclaration().Name()
	case ast.KindClassExpression:
		return parent.AsClassExpression().Name()
	case ast.KindEnumDeclaration:
		return parent.AsEnumDeclaration().Name()
	case ast.KindInterfaceDeclaration:
		return parent.AsInterfaceDeclaration().Name()
	case ast.KindTypeAliasDeclaration:
		return parent.AsTypeAliasDeclaration().Name()
	case ast.KindEnumMember:
		return parent.AsEnumMember().Name()
	case ast.KindPropertyDeclaration:
		return parent.AsPropertyDeclaration().Name()
	case ast.KindPropertySignature:
		return parent.AsPropertySignatureDeclaration().Name()
	case ast.KindMethodDeclaration:
		return parent.AsMethodDeclaration().Name()
	case ast.KindMethodSignature:
		return parent.AsMethodSignatureDeclaration().Name()
	case ast.KindGetAccessor:
		return parent.AsGetAccessorDeclaration().Name()
	case ast.KindSetAccessor:
		return parent.AsSetAccessorDeclaration().Name()
	default:
		return nil
	}
}

// isTypePosition reports whether parent is a syntactic position that only
// ever holds type-level identifiers — e.g. a type annotation, a generic
// type argument, or the right-hand side of a type alias.
func isTypePosition(parent *ast.Node) bool {
	switch parent.Kind {
	case ast.KindTypeReference, ast.KindQualifiedName, ast.KindTypeParameter,
		ast.KindUnionType, ast.KindIntersectionType, ast.KindArrayType, ast.KindTupleType,
		ast.KindIndexedAccessType, ast.KindMappedType, ast.KindConditionalType,
		ast.KindTypeOperator, ast.KindTypeQuery, ast.KindTypePredicate, ast.KindTypeLiteral,
		ast.KindParenthesizedType, ast.KindFunctionType, ast.KindConstructorType,
		ast.KindRestType, ast.KindOptionalType, ast.KindTemplateLiteralType,
		ast.KindTemplateLiteralTypeSpan, ast.KindImportType, ast.KindInferType,
		ast.KindLiteralType:
		return true
	default:
		return false
	}
}
