package rewrite

import (
	"fmt"
	"strings"

	"github.com/microsoft/typescript-go/shim/ast"
	"github.com/microsoft/typescript-go/shim/scanner"
	"github.com/viteplug/inlinetask/internal/capture"
	"github.com/viteplug/inlinetask/internal/config"
	"github.com/viteplug/inlinetask/internal/diagnostic"
)

// Rewriter applies the call-rewriting operations to every eligible call
// found in a single source file, accumulating edits in a Buffer and
// recording the per-function fresh-binding groups that finalizeReturns
// later splices into return expressions.
type Rewriter struct {
	sf     *ast.SourceFile
	source string
	cfg    config.Config
	diags  *diagnostic.Collector
	buf    *Buffer

	freshCounter int
	groups       map[*ast.Node][]string // enclosing function -> ordered fresh binding names
	groupOrder   []*ast.Node
}

func NewRewriter(sf *ast.SourceFile, source string, cfg config.Config, diags *diagnostic.Collector) *Rewriter {
	return &Rewriter{
		sf:     sf,
		source: source,
		cfg:    cfg,
		diags:  diags,
		buf:    NewBuffer(source),
		groups: make(map[*ast.Node][]string),
	}
}

// Edited reports whether any edit was scheduled; the driver suppresses
// output entirely when this is false.
func (r *Rewriter) Edited() bool {
	return len(r.buf.edits) > 0
}

// Process rewrites every call in calls, then splices the accumulated
// fresh bindings into each enclosing function's return expressions, and
// returns the final source text.
func (r *Rewriter) Process(calls []*Call) (string, error) {
	out, _, err := r.ProcessWithSegments(calls)
	return out, err
}

// ProcessWithSegments is Process plus the passthrough segments
// internal/sourcemap needs to build a source map for the edit.
func (r *Rewriter) ProcessWithSegments(calls []*Call) (string, []Segment, error) {
	for _, call := range calls {
		r.processCall(call)
	}
	r.finalizeReturns()
	return r.buf.ApplyWithSegments()
}

func (r *Rewriter) processCall(call *Call) {
	if call.ExplicitCaptures {
		// The caller supplied its own captures argument; auto-capture
		// rewriting never touches this call, but it still participates
		// in return-site fresh-binding injection like any other call.
		r.applyInjection(call)
		return
	}
	if blocked := r.applyCaptures(call); blocked {
		return
	}
	r.applyInjection(call)
}

// applyCaptures qualifies free-variable references, inserts the scope
// parameter, and appends the trailing captures argument, and reports
// whether the call was blocked outright (a reserved-prefix collision), in
// which case the caller must not perform the fresh-binding injection
// either — the call is left completely untouched. An empty capture set is
// NOT a block: the call is still eligible and still gets its fresh
// binding, distinct from the reserved-prefix-collision case.
func (r *Rewriter) applyCaptures(call *Call) bool {
	var enclosing map[string]bool
	if call.Enclosing != nil {
		enclosing = capture.Enclosing(r.sf, call.Enclosing, r.startOf(call.Node))
	}

	found := capture.FreeVariables(call.Callback, enclosing)
	if len(found.Names) == 0 {
		r.diags.Info(diagnostic.CategoryEmptyCapture, r.sf.FileName(), r.lineOf(call.Node), "useInlineTask callback has no outer references to capture")
		return false
	}

	for _, name := range found.Names {
		if r.cfg.IsReserved(name) {
			r.diags.Warn(diagnostic.CategoryIneligibleCall, r.sf.FileName(), r.lineOf(call.Node),
				fmt.Sprintf("captured name %q collides with the reserved prefix %q; leaving call unrewritten", name, r.cfg.ReservedPrefix))
			return true
		}
	}

	scopeParam := r.cfg.ScopeParam()

	if pos := r.paramInsertPos(call.Callback); pos >= 0 {
		r.buf.Insert(pos, scopeParam)
	}

	for _, occ := range found.Occurrences {
		r.buf.Replace(r.startOf(occ), occ.End(), scopeParam+"."+occ.Text())
	}

	r.buf.Insert(call.Node.End()-1, ", "+captureObjectLiteral(found.Names))
	return false
}

// captureObjectLiteral renders the trailing captures argument using
// explicit key: key pairs, not {x, y} shorthand.
func captureObjectLiteral(names []string) string {
	pairs := make([]string, len(names))
	for i, name := range names {
		pairs[i] = fmt.Sprintf("%s: %s", name, name)
	}
	return "{ " + strings.Join(pairs, ", ") + " }"
}

// applyInjection binds the call result to a fresh name when the call is
// an expression statement, and records that name under its enclosing
// function's injection group.
func (r *Rewriter) applyInjection(call *Call) {
	stmt := call.Node.Parent
	if stmt == nil || stmt.Kind != ast.KindExpressionStatement {
		return
	}
	if call.Enclosing == nil {
		r.diags.Info(diagnostic.CategoryNoEnclosingFunc, r.sf.FileName(), r.lineOf(call.Node), "useInlineTask call has no enclosing function; left as a standalone statement")
		return
	}

	name := r.cfg.FreshBindingName(r.freshCounter)
	r.freshCounter++

	r.buf.Insert(r.startOf(stmt), "const "+name+" = ")

	if _, ok := r.groups[call.Enclosing]; !ok {
		r.groupOrder = append(r.groupOrder, call.Enclosing)
	}
	r.groups[call.Enclosing] = append(r.groups[call.Enclosing], name)
}

func (r *Rewriter) startOf(n *ast.Node) int {
	return scanner.GetTokenPosOfNode(n, r.sf, false)
}

func (r *Rewriter) lineOf(n *ast.Node) int {
	line, _ := scanner.GetECMALineAndCharacterOfPosition(r.sf, n.Pos())
	return line + 1
}

// paramInsertPos locates the position immediately after callback's
// opening parameter-list punctuation. The auto-capture gate guarantees
// callback has zero formal parameters, so the parameter list is always
// an empty `()` span and a literal scan for the first '(' between the
// callback's start and its body is unambiguous.
func (r *Rewriter) paramInsertPos(callback *ast.Node) int {
	start := r.startOf(callback)
	body := capture.Body(callback)
	if body == nil {
		return -1
	}
	end := body.Pos()
	if end <= start || end > len(r.source) {
		return -1
	}
	idx := strings.IndexByte(r.source[start:end], '(')
	if idx < 0 {
		return -1
	}
	return start + idx + 1
}
