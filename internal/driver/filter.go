// Package driver is the bundler-facing entry point that filters, parses,
// and dispatches a single file's source text through the capture
// rewriter, producing either an edited result with a source map or
// nothing when the file is unaffected.
package driver

import (
	"strings"

	"github.com/microsoft/typescript-go/shim/tspath"
	"github.com/viteplug/inlinetask/internal/config"
)

// shouldProcess reports whether id/code is a candidate for the capture
// transform: its extension is one the config accepts, it textually
// mentions the hook identifier (a cheap pre-check to skip parsing files
// with no chance of a match), and it does not live under a configured
// vendor directory segment.
func shouldProcess(cfg config.Config, id, code string) bool {
	if !hasAcceptedExtension(cfg, id) {
		return false
	}
	if !strings.Contains(code, cfg.HookName) {
		return false
	}
	if underVendorSegment(cfg, id) {
		return false
	}
	return true
}

func hasAcceptedExtension(cfg config.Config, id string) bool {
	for _, accepted := range cfg.Extensions {
		if strings.HasSuffix(id, accepted) {
			return true
		}
	}
	return false
}

func underVendorSegment(cfg config.Config, id string) bool {
	normalized := tspath.NormalizePath(id)
	segments := strings.Split(normalized, "/")
	for _, seg := range segments {
		for _, vendor := range cfg.VendorSegments {
			if seg == vendor {
				return true
			}
		}
	}
	return false
}
