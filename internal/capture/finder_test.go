package capture_test

import (
	"testing"

	"github.com/microsoft/typescript-go/shim/ast"
	"github.com/viteplug/inlinetask/internal/capture"
	"github.com/viteplug/inlinetask/internal/testutil"
)

// findCallback locates the single arrow function or function expression
// passed as the first argument to a call named hookName.
func findCallback(t *testing.T, sf *ast.SourceFile, hookName string) *ast.Node {
	t.Helper()
	var found *ast.Node
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if n == nil || found != nil {
			return
		}
		if n.Kind == ast.KindCallExpression {
			if ce := n.AsCallExpression(); ce != nil && ce.Expression.Kind == ast.KindIdentifier &&
				ce.Expression.Text() == hookName && ce.Arguments != nil && len(ce.Arguments.Nodes) > 0 {
				arg := ce.Arguments.Nodes[0]
				if arg.Kind == ast.KindArrowFunction || arg.Kind == ast.KindFunctionExpression {
					found = arg
					return
				}
			}
		}
		n.ForEachChild(func(c *ast.Node) bool { walk(c); return false })
	}
	walk(sf.AsNode())
	if found == nil {
		t.Fatalf("no %s(...) callback found", hookName)
	}
	return found
}

func callPos(t *testing.T, sf *ast.SourceFile, hookName string) int {
	t.Helper()
	ids := testutil.FindIdentifiers(sf, hookName)
	if len(ids) != 1 {
		t.Fatalf("expected exactly one %s identifier, got %d", hookName, len(ids))
	}
	return ids[0].Pos()
}

func TestFreeVariablesCapturesOuterBinding(t *testing.T) {
	sf := testutil.Parse(t, "", `
function outer(count) {
	const label = "x";
	useInlineTask(() => {
		console.log(label, count);
	});
}`)
	fn := findCallback(t, sf, "useInlineTask")
	enclosing := capture.Enclosing(sf, findEnclosingFunction(t, sf), callPos(t, sf, "useInlineTask"))
	result := capture.FreeVariables(fn, enclosing)

	assertNames(t, result.Names, "label", "count")
}

func TestFreeVariablesExcludesBlockShadowedName(t *testing.T) {
	sf := testutil.Parse(t, "", `
function outer() {
	const value = 1;
	useInlineTask(() => {
		if (true) {
			const value = 2;
			console.log(value);
		}
	});
}`)
	fn := findCallback(t, sf, "useInlineTask")
	enclosing := capture.Enclosing(sf, findEnclosingFunction(t, sf), callPos(t, sf, "useInlineTask"))
	result := capture.FreeVariables(fn, enclosing)

	if len(result.Names) != 0 {
		t.Fatalf("expected no captures, shadowed by inner block declaration; got %v", result.Names)
	}
}

func TestFreeVariablesExcludesLoopLetBinding(t *testing.T) {
	sf := testutil.Parse(t, "", `
function outer(items) {
	useInlineTask(() => {
		for (let i = 0; i < items.length; i++) {
			console.log(i);
		}
	});
}`)
	fn := findCallback(t, sf, "useInlineTask")
	enclosing := capture.Enclosing(sf, findEnclosingFunction(t, sf), callPos(t, sf, "useInlineTask"))
	result := capture.FreeVariables(fn, enclosing)

	assertNames(t, result.Names, "items")
}

func TestFreeVariablesIgnoresNamesOutsideEnclosingSet(t *testing.T) {
	sf := testutil.Parse(t, "", `
function outer() {
	useInlineTask(() => {
		console.log(globalThis);
	});
}`)
	fn := findCallback(t, sf, "useInlineTask")
	enclosing := capture.Enclosing(sf, findEnclosingFunction(t, sf), callPos(t, sf, "useInlineTask"))
	result := capture.FreeVariables(fn, enclosing)

	if len(result.Names) != 0 {
		t.Fatalf("globalThis is not in the enclosing set and must not be captured; got %v", result.Names)
	}
}

func TestFreeVariablesRecordsEveryOccurrence(t *testing.T) {
	sf := testutil.Parse(t, "", `
function outer(count) {
	useInlineTask(() => {
		console.log(count, count + 1);
	});
}`)
	fn := findCallback(t, sf, "useInlineTask")
	enclosing := capture.Enclosing(sf, findEnclosingFunction(t, sf), callPos(t, sf, "useInlineTask"))
	result := capture.FreeVariables(fn, enclosing)

	if len(result.Occurrences) != 2 {
		t.Fatalf("expected 2 occurrences of count, got %d", len(result.Occurrences))
	}
	assertNames(t, result.Names, "count")
}

func findEnclosingFunction(t *testing.T, sf *ast.SourceFile) *ast.Node {
	t.Helper()
	var found *ast.Node
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if n == nil || found != nil {
			return
		}
		if n.Kind == ast.KindFunctionDeclaration {
			found = n
			return
		}
		n.ForEachChild(func(c *ast.Node) bool { walk(c); return false })
	}
	walk(sf.AsNode())
	if found == nil {
		t.Fatalf("no enclosing function declaration found")
	}
	return found
}

func assertNames(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("names[%d] = %q, want %q (full: %v)", i, got[i], w, got)
		}
	}
}
