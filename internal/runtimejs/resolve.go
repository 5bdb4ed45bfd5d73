// Package runtimejs is the inline-task runtime that resolves captures,
// escapes the callback source against script-tag breakout, and assembles
// the resulting <script> element.
package runtimejs

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Value is the structural shape a captured host value may take: a
// resource reference (Brand == "resource"), a signal reference (HasValue
// true, no resource brand), or neither, in which case it is taken as-is.
// Real host values produced by the rendering framework are asserted
// against this shape at the capture-resolution boundary; everything else
// passes through Resolve unchanged.
type Value struct {
	// Brand identifies a resource reference. Resource detection must
	// strictly precede signal detection, so a Value carrying both
	// Brand == "resource" and HasValue == true is resolved as a resource.
	Brand string

	// State is one of "pending", "resolved", or "rejected"; meaningful
	// only when Brand == "resource".
	State string

	// Payload is the resource's resolved value, authoritative only when
	// State == "resolved".
	Payload any

	// Await resolves the resource's promise once settled. Required when
	// Brand == "resource" and State != "resolved".
	Await func(ctx context.Context) (any, error)

	// Value is the signal's current sample, reachable through a `value`
	// attribute per the glossary's signal-reference definition.
	Value any

	// HasValue reports whether Value was actually populated — a zero
	// any is ambiguous with "not a signal".
	HasValue bool
}

func (v Value) isResource() bool {
	return v.Brand == "resource"
}

// Pending reports whether resolving v would require awaiting a promise.
func Pending(capture any) bool {
	v, ok := capture.(Value)
	return ok && v.isResource() && v.State != "resolved"
}

// Resolve returns the serialisable value for a single capture entry, in
// resolution order: resource (resolved payload, or the awaited promise),
// then signal (.value), then the value as-is.
func Resolve(ctx context.Context, capture any) (any, error) {
	v, ok := capture.(Value)
	if !ok {
		return capture, nil
	}
	if v.isResource() {
		if v.State == "resolved" {
			return v.Payload, nil
		}
		if v.Await == nil {
			return nil, nil
		}
		return v.Await(ctx)
	}
	if v.HasValue {
		return v.Value, nil
	}
	return capture, nil
}

// Pair is one entry of an ordered capture mapping: capture name to raw
// (unresolved) captured value, preserving the input iteration order the
// resolved object's keys must reflect.
type Pair struct {
	Name  string
	Value any
}

// ResolveAll resolves every entry of pairs concurrently, preserving
// order, and returns the resolved (name, value) pairs ready for
// serialisation. Pending resources are awaited together: the whole call
// blocks until every pending resource has settled, a single join point
// rather than one suspension per resource.
func ResolveAll(ctx context.Context, pairs []Pair) ([]Pair, error) {
	out := make([]Pair, len(pairs))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range pairs {
		i, p := i, p
		g.Go(func() error {
			resolved, err := Resolve(gctx, p.Value)
			if err != nil {
				return err
			}
			out[i] = Pair{Name: p.Name, Value: resolved}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// HasPendingResource reports whether any capture requires the
// asynchronous path.
func HasPendingResource(pairs []Pair) bool {
	for _, p := range pairs {
		if Pending(p.Value) {
			return true
		}
	}
	return false
}
