// Package scope models the nested lexical environments the free-variable
// finder walks through: function bodies, blocks, loop headers, and catch
// clauses. It is a pure lookup abstraction with no knowledge of the AST
// library used to drive it.
package scope

// Kind identifies why a Scope node was created. It has no effect on
// lookup semantics (Has walks every ancestor regardless of Kind) but is
// useful for callers that need to know, e.g., whether the nearest scope
// is a loop header when deciding where to bind a loop variable.
type Kind int

const (
	// KindRoot is the scope belonging to the callback itself; its names
	// are the callback's own parameters.
	KindRoot Kind = iota
	KindFunction
	KindBlock
	KindLoop
	KindCatch
)

// Scope is one node in a singly-linked chain from innermost to outermost.
// A name declared in any ancestor shadows the same name for Has, matching
// spec.B: "a name present in any ancestor shadows the same name for
// lookup of enclosing-scope membership."
type Scope struct {
	parent *Scope
	kind   Kind
	names  map[string]struct{}
}

// NewRoot creates the outermost scope of a walk — for the free-variable
// finder this is the callback's own parameter scope.
func NewRoot(kind Kind) *Scope {
	return &Scope{kind: kind, names: make(map[string]struct{})}
}

// NewChild creates a new scope nested directly inside s.
func (s *Scope) NewChild(kind Kind) *Scope {
	return &Scope{parent: s, kind: kind, names: make(map[string]struct{})}
}

// Parent returns the enclosing scope, or nil at the root.
func (s *Scope) Parent() *Scope {
	if s == nil {
		return nil
	}
	return s.parent
}

// Kind returns why this scope was created.
func (s *Scope) Kind() Kind {
	if s == nil {
		return KindRoot
	}
	return s.kind
}

// Declare adds name to this scope's binding set.
func (s *Scope) Declare(name string) {
	if name == "" {
		return
	}
	s.names[name] = struct{}{}
}

// Has walks the parent chain starting at s, returning true at the first
// scope whose name set contains name.
func Has(s *Scope, name string) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if _, ok := cur.names[name]; ok {
			return true
		}
	}
	return false
}

// HasBelowRoot is like Has but never matches against the root scope —
// used by the free-variable finder, which must not treat a name as
// locally bound just because it matches the callback's own parameters:
// those live in the root scope and must not themselves count as
// shadowing an enclosing-scope capture.
func HasBelowRoot(s *Scope, name string) bool {
	for cur := s; cur != nil && cur.parent != nil; cur = cur.parent {
		if _, ok := cur.names[name]; ok {
			return true
		}
	}
	return false
}
