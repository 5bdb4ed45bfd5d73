package config

import "fmt"

// ValidationResult holds config validation results, separating hard
// errors from advisory warnings.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// ValidateDetailed performs the same checks as Validate but collects
// warnings for configurations that are legal yet risky, such as a
// reserved prefix unlikely to avoid collisions with real user code.
func (c *Config) ValidateDetailed() *ValidationResult {
	result := &ValidationResult{}

	if err := c.Validate(); err != nil {
		result.Errors = append(result.Errors, err.Error())
	}

	if c.ReservedPrefix != "" && len(c.ReservedPrefix) < 2 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("reservedPrefix %q is short enough that user code may plausibly declare a colliding name", c.ReservedPrefix))
	}

	for _, seg := range c.VendorSegments {
		if seg == "" {
			result.Warnings = append(result.Warnings, "vendorSegments contains an empty entry, which matches nothing")
		}
	}

	return result
}

// IsValid returns true if there are no errors.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}
