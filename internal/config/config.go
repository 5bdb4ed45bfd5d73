// Package config holds the plugin's configuration: the hook identifier
// to look for, file filtering rules, and the reserved-name scheme used
// by internal/rewrite.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config controls how the transform discovers inline-task calls and
// names the identifiers it injects.
type Config struct {
	// HookName is the identifier the driver looks for as a substring
	// pre-check and as the call target.
	HookName string `json:"hookName,omitempty"`

	// ReservedPrefix is prepended to the scope parameter name and to
	// each fresh-binding name. Auto-capture refuses to capture a name
	// already carrying this prefix.
	ReservedPrefix string `json:"reservedPrefix,omitempty"`

	// Extensions lists the file extensions (with leading dot) the
	// driver will parse.
	Extensions []string `json:"extensions,omitempty"`

	// VendorSegments lists path segments that mark a dependency
	// directory; any id containing one as a path component is rejected
	// before parsing.
	VendorSegments []string `json:"vendorSegments,omitempty"`

	// NonElementReturns resolves the non-JSX-expression-returns open
	// question: "wrap" always wraps the return expression in a
	// fragment even when it is not an element or JSX expression; "skip"
	// leaves such return sites uninjected and records a diagnostic
	// instead.
	NonElementReturns string `json:"nonElementReturns,omitempty"`
}

// DefaultConfig returns the configuration used when no config file is
// present.
func DefaultConfig() Config {
	return Config{
		HookName:          "useInlineTask",
		ReservedPrefix:    "__",
		Extensions:        []string{".ts", ".tsx", ".js", ".jsx"},
		VendorSegments:    []string{"node_modules"},
		NonElementReturns: "wrap",
	}
}

// ScopeParam is the identifier injected as the callback's sole
// parameter.
func (c Config) ScopeParam() string {
	return c.ReservedPrefix + "scope"
}

// FreshBindingName returns the nth (0-indexed) fresh binding name for a
// single file's monotonically increasing counter.
func (c Config) FreshBindingName(n int) string {
	return fmt.Sprintf("%stask%d", c.ReservedPrefix, n)
}

// IsReserved reports whether name already carries the reserved prefix,
// and so must never be chosen as a capture candidate.
func (c Config) IsReserved(name string) bool {
	return strings.HasPrefix(name, c.ReservedPrefix)
}

// Fingerprint returns a stable digest of every field that changes how
// Transform processes a file, for use as a cache key component
// alongside the source text: two configs that would rewrite the same
// source differently always fingerprint differently, and identical
// configs always fingerprint identically regardless of field order.
func (c Config) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%s\x00%s",
		c.HookName,
		c.ReservedPrefix,
		strings.Join(c.Extensions, ","),
		strings.Join(c.VendorSegments, ","),
		c.NonElementReturns,
	)
	return hex.EncodeToString(h.Sum(nil))
}

// Discover searches dir for an inlinetask.config.json file, returning
// its path or "" if absent.
func Discover(dir string) string {
	candidate := filepath.Join(dir, "inlinetask.config.json")
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

// Load reads and parses a JSON config file, filling unset fields from
// DefaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config in %q: %w", path, err)
	}

	return &cfg, nil
}

// Validate aggregates every configuration error into a single error
// rather than stopping at the first one found.
func (c *Config) Validate() error {
	var errs []string

	if c.HookName == "" {
		errs = append(errs, "hookName must not be empty")
	}
	if c.ReservedPrefix == "" {
		errs = append(errs, "reservedPrefix must not be empty")
	}
	if len(c.Extensions) == 0 {
		errs = append(errs, "extensions must have at least one entry")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Sprintf("extension %q must start with a dot", ext))
		}
	}
	switch c.NonElementReturns {
	case "", "wrap", "skip":
	default:
		errs = append(errs, fmt.Sprintf("nonElementReturns must be \"wrap\" or \"skip\", got %q", c.NonElementReturns))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%s", strings.Join(errs, "; "))
}
