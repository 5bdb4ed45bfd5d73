package runtimejs

import "context"

// Element is a script element produced by the runtime: tag name is
// always "script", and its only content is the escaped, self-invoking
// script source; no other attributes are set.
type Element struct {
	Body string
}

// Render returns the script element for callableSource invoked against
// captures, synchronously. callableSource is the literal source text of
// the user's callback (e.g. "() => { ... }" after the capture
// transform's rewrites have already been applied to it by the build
// step); captures may be nil, matching the 1-argument call form.
//
// Render resolves captures through ResolveAll with context.Background(),
// so a pending resource is awaited here too, with no way to cancel the
// wait; use RenderAsync to supply a cancellable context.
func Render(callableSource string, captures []Pair) (Element, error) {
	resolved, err := ResolveAll(context.Background(), captures)
	if err != nil {
		return Element{}, err
	}
	return assemble(callableSource, resolved)
}

// RenderAsync resolves captures — awaiting any pending resource at a
// single join point — and then assembles the element. It differs from
// Render only in taking the caller's ctx, which is passed to every
// pending resource's Await; both run the same ResolveAll.
func RenderAsync(ctx context.Context, callableSource string, captures []Pair) (Element, error) {
	resolved, err := ResolveAll(ctx, captures)
	if err != nil {
		return Element{}, err
	}
	return assemble(callableSource, resolved)
}

func assemble(callableSource string, resolved []Pair) (Element, error) {
	if len(resolved) == 0 {
		return Element{Body: EscapeScriptBody("(" + callableSource + ")()")}, nil
	}

	payload, err := Serialize(resolved)
	if err != nil {
		return Element{}, err
	}
	return Element{Body: EscapeScriptBody("(" + callableSource + ")(" + payload + ")")}, nil
}
