package diagnostic

import (
	"strings"
	"testing"
)

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{
		Severity: SeverityWarning,
		Category: CategorySerializationLoss,
		File:     "src/page.tsx",
		Line:     10,
		Column:   5,
		Message:  "capture 'x' is undefined and will be dropped by JSON serialization",
		Hint:     "use null instead of undefined if the value must survive",
	}

	s := d.String()
	if !strings.Contains(s, "src/page.tsx:10:5") {
		t.Errorf("expected file:line:col, got %q", s)
	}
	if !strings.Contains(s, "warning") {
		t.Errorf("expected 'warning', got %q", s)
	}
	if !strings.Contains(s, "[serialization-loss]") {
		t.Errorf("expected category, got %q", s)
	}
	if !strings.Contains(s, "hint:") {
		t.Errorf("expected hint, got %q", s)
	}
}

func TestCollector_WarnAndError(t *testing.T) {
	c := NewCollector(false, false)
	c.Warn(CategoryEmptyCapture, "test.tsx", 5, "no outer references found")
	c.Error(CategoryParseFailure, "", 0, "unexpected token")

	diags := c.Diagnostics()
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(diags))
	}
	if diags[0].Severity != SeverityWarning {
		t.Errorf("expected first diagnostic to be a warning, got %v", diags[0].Severity)
	}
	if diags[1].Severity != SeverityError {
		t.Errorf("expected second diagnostic to be an error, got %v", diags[1].Severity)
	}
}

func TestCollector_StrictMode(t *testing.T) {
	c := NewCollector(true, false) // strict mode
	c.Warn(CategoryEmptyCapture, "test.tsx", 1, "no outer references found")

	diags := c.Diagnostics()
	if len(diags) != 1 || diags[0].Severity != SeverityError {
		t.Errorf("expected a warning promoted to an error in strict mode, got %v", diags)
	}
}

func TestCollector_QuietMode(t *testing.T) {
	c := NewCollector(false, true) // quiet mode
	c.Warn(CategoryEmptyCapture, "test.tsx", 1, "no outer references found")
	c.Info(CategoryIneligibleCall, "test.tsx", 1, "callback already declares parameters")
	c.Error(CategoryParseFailure, "", 0, "real error") // errors still show

	if len(c.Diagnostics()) != 1 {
		t.Errorf("expected 1 diagnostic (only error), got %d", len(c.Diagnostics()))
	}
}

func TestCollector_NilSafe(t *testing.T) {
	var c *Collector
	c.Warn(CategoryEmptyCapture, "", 0, "test")
	c.Error(CategoryParseFailure, "", 0, "test")
	c.Info(CategoryIneligibleCall, "", 0, "test")
	if c.Diagnostics() != nil {
		t.Error("nil collector should report no diagnostics")
	}
}
