package rewrite

import "github.com/microsoft/typescript-go/shim/ast"

// Call describes a single useInlineTask(...) invocation found in source.
// Most calls name the configured hook identifier with a sole argument
// that is a function expression or arrow function declaring zero formal
// parameters, and are eligible for auto-capture rewriting. A call that
// instead passes a second argument — the caller's own explicit captures
// object — sets ExplicitCaptures: auto-capture never touches its
// callback, but the call still gets a fresh binding spliced into return
// sites when it appears as an expression statement.
type Call struct {
	Node             *ast.Node // the CallExpression
	Callback         *ast.Node // the arrow function / function expression argument
	Enclosing        *ast.Node // nearest enclosing function declaration/expression/arrow
	ExplicitCaptures bool      // true when captures were passed as an explicit second argument
}

// Find walks node's subtree and returns every eligible Call, in source
// order. A call to hookName with the wrong argument shape (zero
// arguments, more than two arguments, or a first argument that isn't a
// function) is not eligible and is silently excluded here; no diagnostic
// is recorded for it, here or in the driver.
func Find(root *ast.Node, hookName string) []*Call {
	var out []*Call
	var enclosingStack []*ast.Node

	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if n == nil {
			return
		}

		isFunctionLike := n.Kind == ast.KindFunctionDeclaration ||
			n.Kind == ast.KindFunctionExpression || n.Kind == ast.KindArrowFunction

		if isFunctionLike {
			enclosingStack = append(enclosingStack, n)
			defer func() { enclosingStack = enclosingStack[:len(enclosingStack)-1] }()
		}

		if n.Kind == ast.KindCallExpression {
			if call, ok := classifyCall(n, hookName); ok {
				call.Enclosing = currentEnclosing(enclosingStack)
				out = append(out, call)
			}
		}

		n.ForEachChild(func(c *ast.Node) bool { walk(c); return false })
	}
	walk(root)
	return out
}

func currentEnclosing(stack []*ast.Node) *ast.Node {
	if len(stack) == 0 {
		return nil
	}
	return stack[len(stack)-1]
}

// classifyCall reports whether n is an eligible useInlineTask call: the
// 1-argument auto-capture form (callback declares zero parameters), or
// the 2-argument explicit-captures form (callback shape is otherwise
// unconstrained, since auto-capture rewriting never inspects it).
func classifyCall(n *ast.Node, hookName string) (*Call, bool) {
	ce := n.AsCallExpression()
	if ce == nil || ce.Expression == nil {
		return nil, false
	}
	if ce.Expression.Kind != ast.KindIdentifier || ce.Expression.Text() != hookName {
		return nil, false
	}
	if ce.Arguments == nil {
		return nil, false
	}

	switch len(ce.Arguments.Nodes) {
	case 1:
		arg := ce.Arguments.Nodes[0]
		if !isFunctionLikeArgument(arg) || len(callbackParameters(arg)) != 0 {
			return nil, false
		}
		return &Call{Node: n, Callback: arg}, true

	case 2:
		arg := ce.Arguments.Nodes[0]
		if !isFunctionLikeArgument(arg) {
			return nil, false
		}
		return &Call{Node: n, Callback: arg, ExplicitCaptures: true}, true

	default:
		return nil, false
	}
}

func isFunctionLikeArgument(arg *ast.Node) bool {
	return arg.Kind == ast.KindArrowFunction || arg.Kind == ast.KindFunctionExpression
}

func callbackParameters(fn *ast.Node) []*ast.Node {
	switch fn.Kind {
	case ast.KindFunctionExpression:
		if p := fn.AsFunctionExpression().Parameters; p != nil {
			return p.Nodes
		}
	case ast.KindArrowFunction:
		if p := fn.AsArrowFunction().Parameters; p != nil {
			return p.Nodes
		}
	}
	return nil
}
