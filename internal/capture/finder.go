package capture

import (
	"github.com/microsoft/typescript-go/shim/ast"
	"github.com/viteplug/inlinetask/internal/classify"
	"github.com/viteplug/inlinetask/internal/scope"
)

// Found is the result of walking a callback for free variables: Names
// is the ordered, de-duplicated capture list (first-occurrence order);
// Occurrences is every identifier node that must be rewritten to a
// scope-property access, including repeats of an already-captured name.
type Found struct {
	Names       []string
	Occurrences []*ast.Node
}

// FreeVariables walks callback (an arrow function or function expression)
// and returns every value-position identifier that is (1) a value
// reference per classify.IsValueReference, (2) not bound by the
// innermost scope or any ancestor scope except the root, and (3) a
// member of enclosing. The callback's own parameters belong to the root
// scope, which condition 2 does not count as binding: a callback
// parameter whose name is also in enclosing is reported like any other
// free name. The rewriter only calls this for callbacks with zero
// parameters, where the root scope is empty.
func FreeVariables(callback *ast.Node, enclosing map[string]bool) Found {
	root := scope.NewRoot(scope.KindRoot)
	for _, param := range Parameters(callback) {
		if pd := param.AsParameterDeclaration(); pd != nil {
			declareBindingNames(root, pd.Name())
		}
	}

	f := &finder{enclosing: enclosing, seen: make(map[string]bool)}
	f.walk(Body(callback), root)
	return f.result
}

type finder struct {
	enclosing map[string]bool
	seen      map[string]bool
	result    Found
}

func (f *finder) walk(node *ast.Node, cur *scope.Scope) {
	if node == nil {
		return
	}

	switch node.Kind {
	case ast.KindIdentifier:
		f.visitIdentifier(node, cur)
		return

	case ast.KindFunctionDeclaration, ast.KindFunctionExpression, ast.KindArrowFunction:
		f.walkNestedFunction(node, cur)
		return

	case ast.KindForStatement, ast.KindForInStatement, ast.KindForOfStatement:
		f.walkLoop(node, cur)
		return

	case ast.KindBlock:
		child := cur.NewChild(scope.KindBlock)
		node.ForEachChild(func(c *ast.Node) bool { f.walk(c, child); return false })
		return

	case ast.KindCatchClause:
		f.walkCatch(node, cur)
		return

	case ast.KindVariableStatement:
		names := make(map[string]bool)
		collectVariableStatementNames(node, names)
		for n := range names {
			cur.Declare(n)
		}
	}

	node.ForEachChild(func(c *ast.Node) bool { f.walk(c, cur); return false })
}

func (f *finder) visitIdentifier(node *ast.Node, cur *scope.Scope) {
	if !classify.IsValueReference(node) {
		return
	}
	name := node.Text()
	if scope.HasBelowRoot(cur, name) {
		return
	}
	if !f.enclosing[name] {
		return
	}
	f.result.Occurrences = append(f.result.Occurrences, node)
	if !f.seen[name] {
		f.seen[name] = true
		f.result.Names = append(f.result.Names, name)
	}
}

func (f *finder) walkNestedFunction(node *ast.Node, cur *scope.Scope) {
	child := cur.NewChild(scope.KindFunction)
	for _, param := range Parameters(node) {
		if pd := param.AsParameterDeclaration(); pd != nil {
			declareBindingNames(child, pd.Name())
		}
	}
	if node.Kind == ast.KindFunctionDeclaration {
		if name := node.AsFunctionDeclaration().Name(); name != nil {
			cur.Declare(name.Text()) // named function declarations bind in the outer scope too
		}
	}
	node.ForEachChild(func(c *ast.Node) bool { f.walk(c, child); return false })
}

func (f *finder) walkLoop(node *ast.Node, cur *scope.Scope) {
	child := cur.NewChild(scope.KindLoop)
	declareLoopVariables(node, child)
	node.ForEachChild(func(c *ast.Node) bool { f.walk(c, child); return false })
}

func (f *finder) walkCatch(node *ast.Node, cur *scope.Scope) {
	child := cur.NewChild(scope.KindCatch)
	if cc := node.AsCatchClause(); cc != nil && cc.VariableDeclaration != nil {
		if vd := cc.VariableDeclaration.AsVariableDeclaration(); vd != nil {
			declareBindingNames(child, vd.Name())
		}
	}
	node.ForEachChild(func(c *ast.Node) bool { f.walk(c, child); return false })
}

// declareLoopVariables adds the let/const bindings introduced by a
// for/for-in/for-of statement's initializer to s. A `var` initializer is
// intentionally NOT added: var loop variables are function-scoped, not
// block-scoped, and so do not shadow an outer capture candidate.
func declareLoopVariables(node *ast.Node, s *scope.Scope) {
	var init *ast.Node
	switch node.Kind {
	case ast.KindForStatement:
		init = node.AsForStatement().Initializer
	case ast.KindForInStatement:
		init = node.AsForInStatement().Initializer
	case ast.KindForOfStatement:
		init = node.AsForOfStatement().Initializer
	}
	if init == nil || init.Kind != ast.KindVariableDeclarationList {
		return
	}
	declList := init.AsVariableDeclarationList()
	if declList == nil || init.Flags&(ast.NodeFlagsLet|ast.NodeFlagsConst) == 0 {
		return
	}
	for _, decl := range declList.Declarations.Nodes {
		if vd := decl.AsVariableDeclaration(); vd != nil {
			declareBindingNames(s, vd.Name())
		}
	}
}

func declareBindingNames(s *scope.Scope, nameNode *ast.Node) {
	names := make(map[string]bool)
	flattenBindingNames(nameNode, names)
	for n := range names {
		s.Declare(n)
	}
}
