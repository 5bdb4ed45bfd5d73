package driver

import (
	"fmt"

	"github.com/microsoft/typescript-go/shim/ast"
	"github.com/microsoft/typescript-go/shim/core"
	"github.com/microsoft/typescript-go/shim/parser"
	"github.com/microsoft/typescript-go/shim/tspath"
)

// parse turns id/code into an ast.SourceFile with full parent pointers,
// the one parse step the driver performs — no tsconfig, no whole-program
// Program, no type checker.
func parse(id, code string) (*ast.SourceFile, error) {
	sf := parser.ParseSourceFile(parser.ParseSourceFileOptions{
		FileName:        id,
		Path:            tspath.Path(id),
		Text:            code,
		ScriptKind:      core.GetScriptKindFromFileName(id),
		LanguageVersion: core.ScriptTargetLatest,
		SetParentNodes:  true,
	})
	if sf == nil {
		return nil, fmt.Errorf("driver: parser.ParseSourceFile returned nil for %s", id)
	}
	return sf, nil
}
