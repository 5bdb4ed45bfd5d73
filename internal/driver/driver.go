package driver

import (
	"github.com/viteplug/inlinetask/internal/cache"
	"github.com/viteplug/inlinetask/internal/config"
	"github.com/viteplug/inlinetask/internal/diagnostic"
	"github.com/viteplug/inlinetask/internal/rewrite"
	"github.com/viteplug/inlinetask/internal/sourcemap"
)

// Result is what Transform returns for a file that was actually edited
// (Code and Map set) or that failed to parse (only Diagnostics set).
// Transform returns a nil Result (and a nil error) for any file that is
// filtered out, parses without a single eligible inline-task call, or
// whose calls produce no edit, so downstream bundler passes see the
// original source text unchanged.
type Result struct {
	Code        string
	Map         sourcemap.Map
	Diagnostics []diagnostic.Diagnostic
}

// Transform implements the bundler transform(code, id) contract: filter,
// parse, find eligible calls, rewrite, and emit a result with a source
// map only when an edit actually happened.
//
// c caches the outcome of the filtered-in path (parse + find + rewrite)
// keyed by the config fingerprint and the source text, so a dev server
// calling Transform again for a file whose content and config haven't
// changed since the last call skips straight to the cached Result. c
// may be nil, disabling caching entirely; shouldProcess's cheap filters
// always run uncached since they're already cheaper than a cache probe.
func Transform(c *cache.Cache, cfg config.Config, id, code string) (*Result, error) {
	if !shouldProcess(cfg, id, code) {
		return nil, nil
	}

	var key string
	if c != nil {
		key = cache.Key(cfg.Fingerprint(), code)
		if entry, ok := c.Get(key); ok {
			return resultFromEntry(entry), nil
		}
	}

	sf, err := parse(id, code)
	if err != nil {
		diags := diagnostic.NewCollector(false, false)
		diags.Error(diagnostic.CategoryParseFailure, id, 0, err.Error())
		entry := cache.Entry{Diagnostics: diags.Diagnostics(), ParseFailed: true}
		if c != nil {
			c.Put(key, entry)
		}
		return resultFromEntry(entry), nil
	}

	calls := rewrite.Find(sf.AsNode(), cfg.HookName)
	if len(calls) == 0 {
		if c != nil {
			c.Put(key, cache.Entry{})
		}
		return nil, nil
	}

	diags := diagnostic.NewCollector(false, false)
	r := rewrite.NewRewriter(sf, code, cfg, diags)
	out, segments, err := r.ProcessWithSegments(calls)
	if err != nil {
		return nil, err
	}
	if !r.Edited() {
		if c != nil {
			c.Put(key, cache.Entry{})
		}
		return nil, nil
	}

	m := sourcemap.Build(id, code, out, segments)
	entry := cache.Entry{Code: out, Map: m, Diagnostics: diags.Diagnostics(), Edited: true}
	if c != nil {
		c.Put(key, entry)
	}
	return resultFromEntry(entry), nil
}

func resultFromEntry(e cache.Entry) *Result {
	switch {
	case e.ParseFailed:
		return &Result{Diagnostics: e.Diagnostics}
	case e.Edited:
		return &Result{Code: e.Code, Map: e.Map, Diagnostics: e.Diagnostics}
	default:
		return nil
	}
}
