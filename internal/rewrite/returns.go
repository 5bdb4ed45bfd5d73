package rewrite

import (
	"strings"

	"github.com/microsoft/typescript-go/shim/ast"
	"github.com/viteplug/inlinetask/internal/capture"
	"github.com/viteplug/inlinetask/internal/diagnostic"
)

// finalizeReturns splices each enclosing function's recorded fresh
// bindings into every return expression of that function.
func (r *Rewriter) finalizeReturns() {
	for _, fn := range r.groupOrder {
		names := r.groups[fn]
		if len(names) == 0 {
			continue
		}
		for _, expr := range returnExpressions(fn) {
			r.spliceReturnExpression(expr, names)
		}
	}
}

// returnExpressions collects every expression a function-like node
// returns: the single body expression for an arrow function with an
// expression body, or every top-level `return` statement's expression
// reachable from a block body without crossing a nested function-like
// boundary.
func returnExpressions(fn *ast.Node) []*ast.Node {
	body := capture.Body(fn)
	if body == nil {
		return nil
	}
	if body.Kind != ast.KindBlock {
		return []*ast.Node{body}
	}

	var out []*ast.Node
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if n == nil {
			return
		}
		switch n.Kind {
		case ast.KindFunctionDeclaration, ast.KindFunctionExpression, ast.KindArrowFunction:
			return // do not cross into nested function-like boundaries
		case ast.KindReturnStatement:
			if expr := n.AsReturnStatement().Expression; expr != nil {
				out = append(out, expr)
			}
			return
		}
		n.ForEachChild(func(c *ast.Node) bool { walk(c); return false })
	}
	walk(body)
	return out
}

// spliceReturnExpression inserts child-expression slots for names into
// expr, unwrapping parentheses first. If expr is already a fragment, the
// slots are inserted before its closing punctuation; otherwise the whole
// expression is wrapped in a fragment — unless expr is not JSX at all, in
// which case config.NonElementReturns decides whether to wrap anyway (the
// historical, possibly-incorrect behaviour) or skip injection at this
// return site and record a diagnostic.
func (r *Rewriter) spliceReturnExpression(expr *ast.Node, names []string) {
	expr = unwrapParens(expr)

	slots := make([]string, len(names))
	for i, name := range names {
		slots[i] = "{" + name + "}"
	}
	joined := strings.Join(slots, "")

	if expr.Kind == ast.KindJsxFragment {
		closeTag := expr.End() - len("</>")
		r.buf.Insert(closeTag, joined)
		return
	}

	if !isJSXLike(expr) && r.cfg.NonElementReturns == "skip" {
		r.diags.Info(diagnostic.CategoryIneligibleCall, r.sf.FileName(), r.lineOf(expr),
			"return expression is not an element; skipping fresh-binding injection at this return site")
		return
	}

	start := r.startOf(expr)
	r.buf.Insert(start, "<>")
	r.buf.Insert(expr.End(), joined+"</>")
}

func isJSXLike(n *ast.Node) bool {
	switch n.Kind {
	case ast.KindJsxElement, ast.KindJsxSelfClosingElement, ast.KindJsxFragment:
		return true
	default:
		return false
	}
}

func unwrapParens(n *ast.Node) *ast.Node {
	for n != nil && n.Kind == ast.KindParenthesizedExpression {
		inner := n.AsParenthesizedExpression().Expression
		if inner == nil {
			break
		}
		n = inner
	}
	return n
}
