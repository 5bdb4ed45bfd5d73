// Package testutil provides a minimal single-file parse helper for
// tests. This repo never builds a whole-program Program or type
// checker, so the only fixture tests need is one parsed ast.SourceFile
// per literal source string.
package testutil

import (
	"testing"

	"github.com/microsoft/typescript-go/shim/ast"
	"github.com/microsoft/typescript-go/shim/core"
	"github.com/microsoft/typescript-go/shim/parser"
	"github.com/microsoft/typescript-go/shim/tspath"
)

// Parse parses source under fileName (test.tsx when empty, so as TSX)
// with full parent pointers set, the same parser entry point
// internal/driver uses at run time. It fails the test only when the
// parser returns no source file; syntax errors recorded on the source
// file are not checked.
func Parse(tb testing.TB, fileName string, source string) *ast.SourceFile {
	tb.Helper()
	if fileName == "" {
		fileName = "test.tsx"
	}
	sf := parser.ParseSourceFile(parser.ParseSourceFileOptions{
		FileName:       fileName,
		Path:           tspath.Path(fileName),
		Text:           source,
		ScriptKind:     core.GetScriptKindFromFileName(fileName),
		LanguageVersion: core.ScriptTargetLatest,
		SetParentNodes: true,
	})
	if sf == nil {
		tb.Fatalf("parser.ParseSourceFile returned nil for %s", fileName)
	}
	return sf
}

// FindIdentifiers returns every Identifier node in sf's AST whose text
// equals name, in traversal order.
func FindIdentifiers(sf *ast.SourceFile, name string) []*ast.Node {
	var out []*ast.Node
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if n == nil {
			return
		}
		if n.Kind == ast.KindIdentifier && n.Text() == name {
			out = append(out, n)
		}
		n.ForEachChild(func(child *ast.Node) bool {
			walk(child)
			return false
		})
	}
	walk(sf.AsNode())
	return out
}
